package beans

import (
	"encoding"
	"math"
	"reflect"
	"time"

	"github.com/spf13/cast"
)

var (
	durationType        = reflect.TypeFor[time.Duration]()
	timeType            = reflect.TypeFor[time.Time]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

// Cast converts a value handed to PropertySet or a builder to the property
// type T. A nil value yields the zero value of T. Strings are parsed with
// FromString and numeric values are converted between kinds when the value
// fits the target without truncation.
func Cast[T any](propertyName string, value any) (T, error) {
	var zero T
	if value == nil {
		return zero, nil
	}
	if v, ok := value.(T); ok {
		return v, nil
	}
	target := TypeOf[T]()
	if s, ok := value.(string); ok {
		parsed, err := FromString(s, target)
		if err != nil {
			return zero, NewConversionError(propertyName, value, target)
		}
		if v, ok := parsed.(T); ok {
			return v, nil
		}
		return zero, NewConversionError(propertyName, value, target)
	}
	rv := reflect.ValueOf(value)
	if numeric(rv.Kind()) && numeric(target.Kind()) {
		if converted, ok := convertNumber(rv, target); ok {
			return converted.Interface().(T), nil
		}
	}
	return zero, NewConversionError(propertyName, value, target)
}

// FromString parses text into a value of type typ. It understands the
// builtin scalar kinds, time.Duration, time.Time, string slices, pointers to
// any of those and types implementing encoding.TextUnmarshaler.
func FromString(text string, typ Type) (any, error) {
	if typ == nil {
		return nil, NewConversionError("", text, typ)
	}
	if reflect.PointerTo(typ).Implements(textUnmarshalerType) && typ.Kind() != reflect.Pointer {
		ptr := reflect.New(typ)
		if err := ptr.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(text)); err != nil {
			return nil, err
		}
		return ptr.Elem().Interface(), nil
	}

	var (
		parsed any
		err    error
	)
	switch {
	case typ == durationType:
		parsed, err = cast.ToDurationE(text)
	case typ == timeType:
		parsed, err = cast.ToTimeE(text)
	case typ.Kind() == reflect.Pointer:
		elem, err := FromString(text, typ.Elem())
		if err != nil {
			return nil, err
		}
		ptr := reflect.New(typ.Elem())
		ptr.Elem().Set(reflect.ValueOf(elem))
		return ptr.Interface(), nil
	case typ.Kind() == reflect.String:
		parsed = text
	case typ.Kind() == reflect.Bool:
		parsed, err = cast.ToBoolE(text)
	case typ.Kind() >= reflect.Int && typ.Kind() <= reflect.Int64:
		parsed, err = cast.ToInt64E(text)
	case typ.Kind() >= reflect.Uint && typ.Kind() <= reflect.Uintptr:
		parsed, err = cast.ToUint64E(text)
	case typ.Kind() == reflect.Float32 || typ.Kind() == reflect.Float64:
		parsed, err = cast.ToFloat64E(text)
	case typ.Kind() == reflect.Slice && typ.Elem().Kind() == reflect.String:
		parsed, err = cast.ToStringSliceE(text)
	case typ.Kind() == reflect.Interface && reflect.TypeFor[string]().Implements(typ):
		return text, nil
	default:
		return nil, NewConversionError("", text, typ)
	}
	if err != nil {
		return nil, err
	}
	rv := reflect.ValueOf(parsed)
	if numeric(rv.Kind()) && numeric(typ.Kind()) {
		converted, ok := convertNumber(rv, typ)
		if !ok {
			return nil, NewConversionError("", text, typ)
		}
		return converted.Interface(), nil
	}
	if !rv.CanConvert(typ) {
		return nil, NewConversionError("", text, typ)
	}
	return rv.Convert(typ).Interface(), nil
}

// convertNumber converts rv to the numeric type typ. Integer targets reject
// values out of their range and floats with a fraction; float targets reject
// values out of their range.
func convertNumber(rv reflect.Value, typ Type) (reflect.Value, bool) {
	out := reflect.New(typ).Elem()
	switch {
	case signed(rv.Kind()):
		n := rv.Int()
		switch {
		case signed(typ.Kind()):
			if out.OverflowInt(n) {
				return out, false
			}
			out.SetInt(n)
		case unsigned(typ.Kind()):
			if n < 0 || out.OverflowUint(uint64(n)) {
				return out, false
			}
			out.SetUint(uint64(n))
		default:
			out.SetFloat(float64(n))
		}
	case unsigned(rv.Kind()):
		n := rv.Uint()
		switch {
		case signed(typ.Kind()):
			if n > math.MaxInt64 || out.OverflowInt(int64(n)) {
				return out, false
			}
			out.SetInt(int64(n))
		case unsigned(typ.Kind()):
			if out.OverflowUint(n) {
				return out, false
			}
			out.SetUint(n)
		default:
			out.SetFloat(float64(n))
		}
	default:
		f := rv.Float()
		switch {
		case signed(typ.Kind()):
			if f != math.Trunc(f) || f < -0x1p63 || f >= 0x1p63 || out.OverflowInt(int64(f)) {
				return out, false
			}
			out.SetInt(int64(f))
		case unsigned(typ.Kind()):
			if f != math.Trunc(f) || f < 0 || f >= 0x1p64 || out.OverflowUint(uint64(f)) {
				return out, false
			}
			out.SetUint(uint64(f))
		default:
			if out.OverflowFloat(f) {
				return out, false
			}
			out.SetFloat(f)
		}
	}
	return out, true
}

func numeric(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Float64
}

func signed(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Int64
}

func unsigned(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uintptr
}

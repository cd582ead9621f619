package beans

import (
	"fmt"
	"maps"
	"math"
	"reflect"
	"slices"

	"github.com/cespare/xxhash/v2"
	"github.com/spf13/cast"
)

// maxHashDepth bounds the recursion into nested values.
const maxHashDepth = 32

// Equal compares two property values. Two nil values are equal, a nil and a
// non-nil value are not. Values implementing Equaler decide for themselves;
// everything else is compared with reflect.DeepEqual.
func Equal(a, b any) bool {
	aNil, bNil := isNil(a), isNil(b)
	if aNil || bNil {
		return aNil && bNil
	}
	if eq, ok := a.(Equaler); ok {
		return eq.Equal(b)
	}
	return reflect.DeepEqual(a, b)
}

// HashCode hashes a property value consistently with Equal. Values
// implementing HashCoder hash themselves; strings use xxhash.
func HashCode(value any) int {
	if isNil(value) {
		return 0
	}
	if h, ok := value.(HashCoder); ok {
		return h.HashCode()
	}
	return hashValue(reflect.ValueOf(value), 0)
}

func hashValue(rv reflect.Value, depth int) int {
	if !rv.IsValid() || depth > maxHashDepth {
		return 0
	}
	if rv.CanInterface() {
		if h, ok := rv.Interface().(HashCoder); ok {
			if rv.Kind() == reflect.Pointer && rv.IsNil() {
				return 0
			}
			return h.HashCode()
		}
	}
	switch rv.Kind() {
	case reflect.String:
		return int(xxhash.Sum64String(rv.String()))
	case reflect.Bool:
		if rv.Bool() {
			return 1231
		}
		return 1237
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return int(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return int(math.Float64bits(rv.Float()))
	case reflect.Complex64, reflect.Complex128:
		c := rv.Complex()
		return int(math.Float64bits(real(c))*31 + math.Float64bits(imag(c)))
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return 0
		}
		return hashValue(rv.Elem(), depth+1)
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return 0
		}
		hash := 1
		for i := 0; i < rv.Len(); i++ {
			hash = hash*31 + hashValue(rv.Index(i), depth+1)
		}
		return hash
	case reflect.Map:
		if rv.IsNil() {
			return 0
		}
		hash := 0
		iter := rv.MapRange()
		for iter.Next() {
			hash += hashValue(iter.Key(), depth+1) ^ hashValue(iter.Value(), depth+1)
		}
		return hash
	case reflect.Struct:
		hash := 1
		for i := 0; i < rv.NumField(); i++ {
			hash = hash*31 + hashValue(rv.Field(i), depth+1)
		}
		return hash
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return int(rv.Pointer())
	}
	return 0
}

// ToString formats a property value for a String method.
func ToString(value any) string {
	if isNil(value) {
		return "<nil>"
	}
	switch v := value.(type) {
	case fmt.Stringer:
		return v.String()
	case error:
		return v.Error()
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Pointer {
		return ToString(rv.Elem().Interface())
	}
	if s, err := cast.ToStringE(value); err == nil {
		return s
	}
	return fmt.Sprint(value)
}

// CloneSlice returns a shallow copy of s. A nil slice stays nil.
func CloneSlice[S ~[]E, E any](s S) S {
	return slices.Clone(s)
}

// CloneMap returns a shallow copy of m. A nil map stays nil.
func CloneMap[M ~map[K]V, K comparable, V any](m M) M {
	return maps.Clone(m)
}

// SortedKeys returns the keys of m in ascending order.
func SortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}

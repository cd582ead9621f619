package beans

import (
	"reflect"
	"strings"
)

// Number is the set of builtin numeric types.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr |
		~float32 | ~float64
}

// NotNull rejects nil values, including typed nil pointers, slices, maps,
// functions, channels and interfaces.
func NotNull(value any, propertyName string) error {
	if isNil(value) {
		return NewValidationError(propertyName, "must not be null")
	}
	return nil
}

// NotEmpty rejects nil values and empty strings, slices, arrays and maps.
func NotEmpty(value any, propertyName string) error {
	if isNil(value) {
		return NewValidationError(propertyName, "must not be null")
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Array, reflect.Map:
		if rv.Len() == 0 {
			return NewValidationError(propertyName, "must not be empty")
		}
	}
	return nil
}

// NotBlank rejects strings that are empty or only white space.
func NotBlank(value string, propertyName string) error {
	if strings.TrimSpace(value) == "" {
		return NewValidationError(propertyName, "must not be blank")
	}
	return nil
}

// NotNegative rejects numbers below zero.
func NotNegative[N Number](value N, propertyName string) error {
	if value < 0 {
		return NewValidationError(propertyName, "must not be negative")
	}
	return nil
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface, reflect.UnsafePointer:
		return rv.IsNil()
	}
	return false
}

package beans

import (
	"errors"
	"fmt"
)

// Error kinds returned by generated code.
var (
	ErrUnknownProperty = errors.New("unknown property")
	ErrReadOnly        = errors.New("read-only property")
	ErrUnsupported     = errors.New("unsupported operation")
	ErrValidation      = errors.New("validation failed")
	ErrConversion      = errors.New("conversion failed")
)

// PropertyError is a failure tied to one property.
type PropertyError struct {
	Kind     error  // One of the Err* kinds
	Property string // Property name, empty for bean-level failures
	Msg      string // Detail, may be empty
}

func (e *PropertyError) Error() string {
	switch {
	case e.Property == "":
		return fmt.Sprintf("%v: %s", e.Kind, e.Msg)
	case e.Msg == "":
		return fmt.Sprintf("%v: %s", e.Kind, e.Property)
	default:
		return fmt.Sprintf("%v: %s: %s", e.Kind, e.Property, e.Msg)
	}
}

func (e *PropertyError) Unwrap() error {
	return e.Kind
}

// NewUnknownPropertyError reports a name no bean in the chain owns.
func NewUnknownPropertyError(propertyName string) error {
	return &PropertyError{Kind: ErrUnknownProperty, Property: propertyName}
}

// NewReadOnlyError reports an assignment to a property without a mutator.
func NewReadOnlyError(propertyName string) error {
	return &PropertyError{Kind: ErrReadOnly, Property: propertyName}
}

// NewUnsupportedError reports an operation the bean cannot perform, such as
// instantiating an abstract bean.
func NewUnsupportedError(operation string) error {
	return &PropertyError{Kind: ErrUnsupported, Msg: operation}
}

// NewValidationError reports a value rejected by a property constraint.
func NewValidationError(propertyName, msg string) error {
	return &PropertyError{Kind: ErrValidation, Property: propertyName, Msg: msg}
}

// NewConversionError reports a value that cannot be converted to the property type.
func NewConversionError(propertyName string, value any, target Type) error {
	return &PropertyError{
		Kind:     ErrConversion,
		Property: propertyName,
		Msg:      fmt.Sprintf("cannot convert %T to %v", value, target),
	}
}

// Package beans is the runtime library called by code that beangen generates.
//
// Generated entities embed DirectBean or ImmutableBean, expose a MetaBean that
// describes their properties, and dispatch property access by name through
// PropertyGet and PropertySet. Immutable entities are assembled through a
// BeanBuilder.
package beans

import "reflect"

// Type is the runtime type token of a bean or property.
type Type = reflect.Type

// Bean is an entity with name-based property access.
type Bean interface {
	MetaBean() MetaBean
	PropertyGet(propertyName string) (any, error)
	PropertySet(propertyName string, newValue any) error
}

// MetaBean describes a bean type.
type MetaBean interface {
	BeanName() string
	BeanType() Type
	PropertyMap() *PropertyMap
	CreateBean() (Bean, error)
	Builder() (BeanBuilder, error)
}

// BeanBuilder accumulates property values for an immutable bean.
type BeanBuilder interface {
	Get(propertyName string) (any, error)
	Set(propertyName string, newValue any) error
	SetString(propertyName, value string) error
	SetAll(values map[string]any) error
	BuildBean() (Bean, error)
}

// Equaler is implemented by values with structural equality.
type Equaler interface {
	Equal(obj any) bool
}

// HashCoder is implemented by values with a hash consistent with Equal.
type HashCoder interface {
	HashCode() int
}

// DirectBean is the root of mutable beans. It owns no properties, so every
// name that reaches it is unknown.
type DirectBean struct{}

// PropertyGet fails for every name.
func (DirectBean) PropertyGet(propertyName string) (any, error) {
	return nil, NewUnknownPropertyError(propertyName)
}

// PropertySet fails for every name.
func (DirectBean) PropertySet(propertyName string, _ any) error {
	return NewUnknownPropertyError(propertyName)
}

// ImmutableBean is the root of immutable beans.
type ImmutableBean struct{}

// PropertyGet fails for every name.
func (ImmutableBean) PropertyGet(propertyName string) (any, error) {
	return nil, NewUnknownPropertyError(propertyName)
}

// PropertySet always fails, immutable beans are changed through their builder.
func (ImmutableBean) PropertySet(propertyName string, _ any) error {
	return NewReadOnlyError(propertyName)
}

// DirectMetaBean supplies the default factories of a MetaBean.
type DirectMetaBean struct{}

// CreateBean fails unless overridden by a constructable mutable bean.
func (DirectMetaBean) CreateBean() (Bean, error) {
	return nil, NewUnsupportedError("CreateBean")
}

// Builder fails unless overridden by a constructable immutable bean.
func (DirectMetaBean) Builder() (BeanBuilder, error) {
	return nil, NewUnsupportedError("Builder")
}

// TypeOf returns the type token of T.
func TypeOf[T any]() Type {
	return reflect.TypeFor[T]()
}

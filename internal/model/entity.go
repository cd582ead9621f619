package model

import "strings"

// Validation is the constraint enforced by constructors, setters and builders.
type Validation string

const (
	ValidateNone        Validation = ""
	ValidateNotNull     Validation = "notNull"
	ValidateNotEmpty    Validation = "notEmpty"
	ValidateNotBlank    Validation = "notBlank"
	ValidateNotNegative Validation = "notNegative"
)

// Validations lists every recognised validation, in argument spelling.
var Validations = []Validation{ValidateNone, ValidateNotNull, ValidateNotEmpty, ValidateNotBlank, ValidateNotNegative}

// AccessorStyle selects the shape of a property's getter.
type AccessorStyle string

const (
	GetStandard AccessorStyle = "get"
	GetField    AccessorStyle = "field"
	GetDerived  AccessorStyle = "derived"
	GetIs       AccessorStyle = "is"
	GetOptional AccessorStyle = "optional"
	GetManual   AccessorStyle = "manual"
)

// SetterStyle selects the shape of a property's mutator.
type SetterStyle string

const (
	SetStandard SetterStyle = "set"
	SetNone     SetterStyle = "none"
	SetManual   SetterStyle = "manual"
)

// Mutability tells whether a property can change after construction.
type Mutability string

const (
	Mutable   Mutability = "mutable"
	Immutable Mutability = "immutable"
)

// EntityStyle selects between a settable bean and an immutable bean with a builder.
type EntityStyle string

const (
	StyleMutable   EntityStyle = "mutable"
	StyleImmutable EntityStyle = "immutable"
)

// Scope controls whether a generated constructor is exported.
type Scope string

const (
	ScopePublic  Scope = "public"
	ScopePackage Scope = "package"
	ScopePrivate Scope = "private"
)

// Exported reports whether a function with this scope gets an exported name.
func (s Scope) Exported() bool {
	return s == ScopePublic
}

// Property is one annotated member of an entity.
type Property struct {
	Name       string        // Property name, as used in name-based lookup
	Type       TypeRef       // Declared type
	Validation Validation    // Constraint applied on assignment
	Getter     AccessorStyle // Getter style
	Setter     SetterStyle   // Mutator style
	Mutability Mutability    // Whether a mutator can exist
	Alias      string        // Secondary lookup name (optional)
	Derived    bool          // Computed by a hand-written method, no storage
	Generic    bool          // Type references the entity's type parameter
	Exported   bool          // Backing field name is exported
	GetterName string        // Name of the getter method, hand-written for derived properties
	Doc        string        // Trailing or leading comment text
	Line       int           // Zero-based line of the declaration
}

// Writable reports whether the property has a mutator.
func (p *Property) Writable() bool {
	return p.Mutability == Mutable && p.Setter != SetNone && !p.Derived
}

// Stored reports whether the property has a backing field.
func (p *Property) Stored() bool {
	return !p.Derived
}

// TypeParam is the single generic parameter of an entity.
type TypeParam struct {
	Name  string // Parameter name (e.g., "T")
	Bound string // Constraint text; empty means any
}

// Constraint returns the constraint used when re-declaring the parameter.
func (p *TypeParam) Constraint() string {
	if p.Bound == "" {
		return "any"
	}
	return p.Bound
}

// SuperType is the embedded parent entity of a subclass.
type SuperType struct {
	Qualified string // Embedded type without pointer or arguments (e.g., "base.Entity")
	Package   string // Package qualifier, empty when local
	Name      string // Type name, also the embedded field name
	Args      string // Type argument text (e.g., "T"), empty when not generic
	Pointer   bool   // Embedded through a pointer
}

// Ref returns the instantiated parent type (e.g., "Box[T]").
func (s *SuperType) Ref() string {
	if s.Args == "" {
		return s.Qualified
	}
	return s.Qualified + "[" + s.Args + "]"
}

// Qualify prefixes name with the parent's package qualifier.
func (s *SuperType) Qualify(name string) string {
	if s.Package == "" {
		return name
	}
	return s.Package + "." + name
}

// Instantiate appends the parent's type arguments to name.
func (s *SuperType) Instantiate(name string) string {
	if s.Args == "" {
		return name
	}
	return name + "[" + s.Args + "]"
}

// Entity is the semantic model of one annotated struct.
type Entity struct {
	Unit             string      // Identity of the source unit
	Name             string      // Raw name, no generics suffix
	TypeParam        *TypeParam  // Generic parameter, nil when not generic
	Super            *SuperType  // Parent entity, nil when embedding a runtime root
	Root             string      // Runtime root type name when Super is nil
	Style            EntityStyle // Mutable bean or immutable bean
	Constructable    bool        // False when marked abstract
	ManualEquality   bool        // Hand-written Equal or HashCode outside the region
	ManualString     bool        // Hand-written String outside the region
	BuilderScope     Scope       // Scope of the builder factory
	ConstructorScope Scope       // Scope of the immutable constructor
	Properties       []*Property // Properties in declaration order
	Line             int         // Zero-based line of the type declaration
}

// IsGeneric reports whether the entity declares a type parameter.
func (e *Entity) IsGeneric() bool {
	return e.TypeParam != nil
}

// IsSubclass reports whether the entity embeds another entity.
func (e *Entity) IsSubclass() bool {
	return e.Super != nil
}

// IsImmutable reports whether the entity is built through a builder.
func (e *Entity) IsImmutable() bool {
	return e.Style == StyleImmutable
}

// Ref returns the instantiated type reference (e.g., "Box[T]").
func (e *Entity) Ref() string {
	if e.TypeParam == nil {
		return e.Name
	}
	return e.Name + "[" + e.TypeParam.Name + "]"
}

// Decl returns the type parameter declaration suffix (e.g., "[T any]").
func (e *Entity) Decl() string {
	if e.TypeParam == nil {
		return ""
	}
	return "[" + e.TypeParam.Name + " " + e.TypeParam.Constraint() + "]"
}

// Args returns the type argument suffix (e.g., "[T]").
func (e *Entity) Args() string {
	if e.TypeParam == nil {
		return ""
	}
	return "[" + e.TypeParam.Name + "]"
}

// Embedded returns the name of the embedded field that receives fallbacks.
func (e *Entity) Embedded() string {
	if e.Super != nil {
		return e.Super.Name
	}
	return e.Root
}

// Property returns the property with the given name or alias.
func (e *Entity) Property(name string) *Property {
	for _, p := range e.Properties {
		if p.Name == name || (p.Alias != "" && p.Alias == name) {
			return p
		}
	}
	return nil
}

// HasGenericWriter reports whether a writable property uses the type parameter
// other than through a wildcard instantiation.
func (e *Entity) HasGenericWriter() bool {
	for _, p := range e.Properties {
		if p.Writable() && p.Generic && p.Type.Shape != ShapeWildcard {
			return true
		}
	}
	return false
}

// String returns a short description used in logs.
func (e *Entity) String() string {
	var b strings.Builder
	b.WriteString(e.Ref())
	if e.Super != nil {
		b.WriteString(" embeds ")
		b.WriteString(e.Super.Ref())
	}
	return b.String()
}

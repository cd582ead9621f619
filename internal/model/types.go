// Package model defines the semantic model extracted from an annotated entity declaration.
package model

import "strings"

// TypeKind represents the syntactic category of a declared Go type.
type TypeKind string

const (
	KindNamed     TypeKind = "named"
	KindBasic     TypeKind = "basic"
	KindSlice     TypeKind = "slice"
	KindArray     TypeKind = "array"
	KindMap       TypeKind = "map"
	KindPointer   TypeKind = "pointer"
	KindInterface TypeKind = "interface"
	KindGeneric   TypeKind = "generic"
	KindFunc      TypeKind = "func"
	KindChan      TypeKind = "chan"
)

// Shape is the container shape of a declared property type.
type Shape string

const (
	ShapePlain    Shape = "plain"
	ShapeOptional Shape = "optional"
	ShapeList     Shape = "list"
	ShapeSet      Shape = "set"
	ShapeMap      Shape = "map"
	ShapeWildcard Shape = "generic-wildcard"
)

// TypeRef represents a reference to a declared type.
type TypeRef struct {
	Kind    TypeKind  // Syntactic category
	Shape   Shape     // Recognised container shape
	Name    string    // Type name (for named/basic types)
	Package string    // Package qualifier (e.g., "time" for time.Time)
	Elem    *TypeRef  // Element type (for slice, array, pointer, chan)
	Key     *TypeRef  // Key type (for maps)
	Value   *TypeRef  // Value type (for maps)
	Args    []TypeRef // Type arguments (for generic instantiations)
	Raw     string    // Declared type text, trimmed
}

// IsCollection reports whether the type is a list, set or map.
func (t *TypeRef) IsCollection() bool {
	return t.Shape == ShapeList || t.Shape == ShapeSet || t.Shape == ShapeMap
}

// IsString reports whether the type is the builtin string type.
func (t *TypeRef) IsString() bool {
	return t.Kind == KindBasic && t.Raw == "string"
}

// IsBool reports whether the type is the builtin bool type.
func (t *TypeRef) IsBool() bool {
	return t.Kind == KindBasic && t.Raw == "bool"
}

var numericTypes = map[string]bool{
	"int": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"uint": true, "uint8": true, "uint16": true, "uint32": true, "uint64": true,
	"float32": true, "float64": true, "byte": true, "rune": true, "uintptr": true,
}

// IsNumeric reports whether the type is a builtin numeric type.
func (t *TypeRef) IsNumeric() bool {
	return t.Kind == KindBasic && numericTypes[t.Raw]
}

// References reports whether the type text mentions ident as a whole word.
func (t *TypeRef) References(ident string) bool {
	if ident == "" {
		return false
	}
	s := t.Raw
	for {
		i := strings.Index(s, ident)
		if i < 0 {
			return false
		}
		before := i == 0 || !isIdentByte(s[i-1])
		after := i+len(ident) == len(s) || !isIdentByte(s[i+len(ident)])
		if before && after {
			return true
		}
		s = s[i+len(ident):]
	}
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '.' || ('0' <= c && c <= '9') || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

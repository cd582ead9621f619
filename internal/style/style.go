// Package style resolves a property's accessor and setter styles into the
// concrete code shape the generator emits for it.
package style

import (
	"unicode"

	"beangen/internal/model"
)

// Accessor is the code shape of one property.
type Accessor struct {
	Getter     string // Getter method name
	EmitGetter bool   // Getter is generated rather than hand-written or absent
	ReturnType string // Getter result type; the element type when Unwrap is set
	Unwrap     bool   // Getter returns (T, bool) from a pointer field
	Read       string // Selector reading the value from a receiver (e.g., "Name()" or "name")
	Field      string // Backing field selector, empty for derived properties
	Setter     string // Setter method name, empty when there is no mutator
	EmitSetter bool   // Setter is generated rather than hand-written
	Writable   bool   // A mutator exists
	SetterErr  bool   // Setter returns error
	Validator  string // Qualified validation helper, empty when unvalidated
	Access     string // Qualified meta-property access kind
	Clone      string // Qualified defensive copy helper, empty for plain values
}

// ReadOn returns the read expression for receiver recv.
func (a *Accessor) ReadOn(recv string) string {
	return recv + "." + a.Read
}

// FieldOn returns the field expression for receiver recv, or "" for derived properties.
func (a *Accessor) FieldOn(recv string) string {
	if a.Field == "" {
		return ""
	}
	return recv + "." + a.Field
}

var validators = map[model.Validation]string{
	model.ValidateNone:        "",
	model.ValidateNotNull:     "NotNull",
	model.ValidateNotEmpty:    "NotEmpty",
	model.ValidateNotBlank:    "NotBlank",
	model.ValidateNotNegative: "NotNegative",
}

// Resolve maps the property's styles onto an Accessor. runtime is the import
// name of the runtime package used to qualify helpers.
func Resolve(e *model.Entity, p *model.Property, runtime string) (*Accessor, error) {
	a := &Accessor{
		Getter:     p.GetterName,
		ReturnType: p.Type.Raw,
	}
	qualify := func(name string) string {
		if name == "" {
			return ""
		}
		return runtime + "." + name
	}

	validator, ok := validators[p.Validation]
	if !ok {
		return nil, unresolved(e, p, "validation %q", p.Validation)
	}
	a.Validator = qualify(validator)

	if !p.Derived {
		a.Field = p.Name
	}

	switch p.Getter {
	case model.GetStandard, model.GetIs:
		a.EmitGetter = true
		a.Read = p.GetterName + "()"
	case model.GetOptional:
		if p.Type.Shape != model.ShapeOptional || p.Type.Elem == nil {
			return nil, unresolved(e, p, "optional getter on %s", p.Type.Raw)
		}
		a.EmitGetter = true
		a.Unwrap = true
		a.ReturnType = p.Type.Elem.Raw
		a.Read = p.Name
	case model.GetField, model.GetManual:
		a.Read = p.Name
	case model.GetDerived:
		if !p.Derived {
			return nil, unresolved(e, p, "derived getter on a stored property")
		}
		a.Read = p.GetterName + "()"
	default:
		return nil, unresolved(e, p, "getter style %q", p.Getter)
	}

	switch p.Setter {
	case model.SetStandard:
		a.EmitSetter = p.Writable()
		a.SetterErr = p.Validation != model.ValidateNone
	case model.SetManual:
		a.SetterErr = true
	case model.SetNone:
	default:
		return nil, unresolved(e, p, "setter style %q", p.Setter)
	}
	a.Writable = p.Writable()
	if a.Writable {
		a.Setter = "Set" + upperFirst(p.Name)
		a.Access = qualify("ReadWrite")
	} else {
		a.EmitSetter = false
		a.SetterErr = false
		a.Access = qualify("ReadOnly")
	}

	switch p.Type.Shape {
	case model.ShapeList:
		a.Clone = qualify("CloneSlice")
	case model.ShapeSet, model.ShapeMap:
		a.Clone = qualify("CloneMap")
	case model.ShapePlain, model.ShapeOptional, model.ShapeWildcard:
	default:
		return nil, unresolved(e, p, "type shape %q", p.Type.Shape)
	}
	if p.Derived {
		a.Clone = ""
	}
	return a, nil
}

func unresolved(e *model.Entity, p *model.Property, format string, args ...any) error {
	return model.Errorf(model.ErrUnresolvedStyle, e.Unit, p.Line,
		"property %q: unhandled "+format, append([]any{p.Name}, args...)...)
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// Package parser extracts entity and property models from annotated Go source units.
//
// Recognition is line based: directive comments mark the entity and its
// properties, and a small family of patterns matches the declarations that
// follow them. Type text is parsed with go/parser only to classify its shape.
package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"beangen/internal/model"
	"beangen/internal/source"
)

// Parser extracts the entity declared in a source unit.
type Parser struct {
	runtime string // Import name of the runtime package in processed units
}

// New creates a new Parser. runtime is the name the processed units use to
// import the runtime package, usually "beans".
func New(runtime string) *Parser {
	return &Parser{
		runtime: runtime,
	}
}

// ParseUnit returns the entity declared in u. It returns nil and no error when
// u carries no entity sentinel. No partial model is ever returned.
func (p *Parser) ParseUnit(u *source.Unit) (*model.Entity, error) {
	entity, err := p.parseEntity(u)
	if err != nil || entity == nil {
		return nil, err
	}

	props, err := p.parseProperties(u, entity)
	if err != nil {
		return nil, err
	}
	entity.Properties = props

	if err := checkNames(u, entity); err != nil {
		return nil, err
	}
	return entity, nil
}

// reserved holds property names whose accessors would collide with generated methods.
var reserved = map[string]bool{
	"metaBean": true, "propertyGet": true, "propertySet": true,
	"equal": true, "hashCode": true, "string": true, "toBuilder": true,
	"beanName": true, "beanType": true, "propertyMap": true,
	"createBean": true, "builder": true, "err": true,
	"get": true, "set": true, "setString": true, "setAll": true, "build": true, "buildBean": true,
}

// checkNames enforces unique names and aliases.
func checkNames(u *source.Unit, e *model.Entity) error {
	seen := make(map[string]*model.Property)
	methods := make(map[string]*model.Property)
	for _, prop := range e.Properties {
		if reserved[lowerFirst(prop.Name)] {
			return model.Errorf(model.ErrMalformedDeclaration, u.Name, prop.Line,
				"property name %q collides with a generated method", prop.Name)
		}
		if other, dup := seen[prop.Name]; dup {
			return model.Errorf(model.ErrMalformedDeclaration, u.Name, prop.Line,
				"property %q already declared on line %d", prop.Name, other.Line+1)
		}
		if other, dup := methods[upperFirst(prop.Name)]; dup {
			return model.Errorf(model.ErrMalformedDeclaration, u.Name, prop.Line,
				"accessors of %q and %q collide", prop.Name, other.Name)
		}
		seen[prop.Name] = prop
		methods[upperFirst(prop.Name)] = prop
	}
	for _, prop := range e.Properties {
		if prop.Alias == "" {
			continue
		}
		if other, dup := seen[prop.Alias]; dup {
			return model.Errorf(model.ErrMalformedDeclaration, u.Name, prop.Line,
				"alias %q of %q clashes with property or alias on line %d", prop.Alias, prop.Name, other.Line+1)
		}
		seen[prop.Alias] = prop
	}
	return nil
}

// upperFirst returns s with its first rune upper cased.
func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// lowerFirst returns s with its first rune lower cased.
func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

// nextCodeLine returns the first line after i that is neither blank nor a comment, or -1.
func nextCodeLine(u *source.Unit, i int) int {
	for j := i + 1; j < u.Len(); j++ {
		line := u.Line(j)
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		return j
	}
	return -1
}

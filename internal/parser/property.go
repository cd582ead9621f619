package parser

import (
	"fmt"
	"go/ast"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"beangen/internal/model"
	"beangen/internal/source"
)

var (
	// name Type `tag` // comment
	fieldPattern = regexp.MustCompile("^([A-Za-z_][A-Za-z0-9_]*)\\s+([^`]+?)\\s*(`[^`]*`)?\\s*(?://\\s*(.*))?$")

	// func (b *Entity) Method() Result {
	derivedPattern = regexp.MustCompile(`^func\s+\(\s*[A-Za-z_][A-Za-z0-9_]*\s+\*?([A-Z][A-Za-z0-9_]*)(?:\[[^\]]*\])?\s*\)\s+([A-Z][A-Za-z0-9_]*)\(\s*\)\s+([^({\s][^{]*?)\s*\{\s*$`)
)

// parseProperties extracts every property and derived property in unit order.
func (p *Parser) parseProperties(u *source.Unit, e *model.Entity) ([]*model.Property, error) {
	var props []*model.Property
	for i := 0; i < u.Len(); i++ {
		line := u.Line(i)
		if text, ok := matchSentinel(line, PropertySentinel); ok {
			prop, err := p.parseField(u, e, i, text)
			if err != nil {
				return nil, err
			}
			props = append(props, prop)
			continue
		}
		if text, ok := matchSentinel(line, DerivedSentinel); ok {
			prop, err := p.parseDerived(u, e, i, text)
			if err != nil {
				return nil, err
			}
			props = append(props, prop)
		}
	}
	return props, nil
}

// parseField builds a property from the sentinel at line i and the field declaration after it.
func (p *Parser) parseField(u *source.Unit, e *model.Entity, i int, argText string) (*model.Property, error) {
	args, err := parseArgs(argText)
	if err != nil {
		return nil, model.Errorf(model.ErrMalformedDeclaration, u.Name, i, "%v", err)
	}
	if err := checkKeys(args, "validate", "get", "set", "alias"); err != nil {
		return nil, model.Errorf(model.ErrUnresolvedStyle, u.Name, i, "%v", err)
	}

	j := nextCodeLine(u, i)
	if j < 0 {
		return nil, model.Errorf(model.ErrMalformedDeclaration, u.Name, i,
			"no field declaration follows %s", PropertySentinel)
	}
	m := fieldPattern.FindStringSubmatch(u.Line(j))
	if m == nil {
		return nil, model.Errorf(model.ErrMalformedDeclaration, u.Name, j,
			"expected a single field declaration, found %q", u.Line(j))
	}
	name := m[1]
	if r, _ := utf8.DecodeRuneInString(name); !unicode.IsLetter(r) {
		return nil, model.Errorf(model.ErrMalformedDeclaration, u.Name, j,
			"property name %q must start with a letter", name)
	}
	ref, err := parseTypeRef(m[2])
	if err != nil {
		return nil, model.Errorf(model.ErrMalformedDeclaration, u.Name, j, "%v", err)
	}

	prop := &model.Property{
		Name:     name,
		Type:     ref,
		Exported: ast.IsExported(name),
		Doc:      docText(u, i, j, m[4]),
		Line:     j,
	}
	if e.TypeParam != nil {
		prop.Generic = ref.References(e.TypeParam.Name)
	}

	if prop.Validation, err = parseValidation(args["validate"]); err != nil {
		return nil, model.Errorf(model.ErrUnresolvedStyle, u.Name, i, "%v", err)
	}
	if prop.Getter, err = parseGetter(args["get"]); err != nil {
		return nil, model.Errorf(model.ErrUnresolvedStyle, u.Name, i, "%v", err)
	}
	if prop.Setter, err = parseSetter(args["set"]); err != nil {
		return nil, model.Errorf(model.ErrUnresolvedStyle, u.Name, i, "%v", err)
	}
	if alias, ok := args["alias"]; ok {
		if alias == "" {
			return nil, model.Errorf(model.ErrMalformedDeclaration, u.Name, i, "alias of %q is empty", name)
		}
		prop.Alias = alias
	}

	prop.Mutability = model.Mutable
	if e.IsImmutable() {
		if _, explicit := args["set"]; explicit {
			return nil, model.Errorf(model.ErrUnresolvedStyle, u.Name, i,
				"property %q of immutable entity %s cannot declare set=%q", name, e.Name, args["set"])
		}
		prop.Setter = model.SetNone
	}
	if e.IsImmutable() || prop.Setter == model.SetNone {
		prop.Mutability = model.Immutable
	}

	prop.GetterName = upperFirst(name)
	if prop.Getter == model.GetIs {
		prop.GetterName = "Is" + upperFirst(name)
	}

	if err := checkCombination(prop); err != nil {
		return nil, model.Errorf(model.ErrUnresolvedStyle, u.Name, i, "property %q: %v", name, err)
	}
	if prop.Exported && prop.Getter != model.GetField && prop.GetterName == name {
		return nil, model.Errorf(model.ErrMalformedDeclaration, u.Name, j,
			"exported field %s collides with its getter; unexport it or use get=\"field\"", name)
	}
	return prop, nil
}

// parseDerived builds a read-only property from a hand-written method.
func (p *Parser) parseDerived(u *source.Unit, e *model.Entity, i int, argText string) (*model.Property, error) {
	args, err := parseArgs(argText)
	if err != nil {
		return nil, model.Errorf(model.ErrMalformedDeclaration, u.Name, i, "%v", err)
	}
	if err := checkKeys(args, "alias"); err != nil {
		return nil, model.Errorf(model.ErrUnresolvedStyle, u.Name, i, "%v", err)
	}

	j := nextCodeLine(u, i)
	if j < 0 {
		return nil, model.Errorf(model.ErrMalformedDeclaration, u.Name, i,
			"no method declaration follows %s", DerivedSentinel)
	}
	m := derivedPattern.FindStringSubmatch(u.Line(j))
	if m == nil {
		return nil, model.Errorf(model.ErrMalformedDeclaration, u.Name, j,
			"expected a no-argument method with a single result, found %q", u.Line(j))
	}
	if m[1] != e.Name {
		return nil, model.Errorf(model.ErrMalformedDeclaration, u.Name, j,
			"derived method receiver %s is not the entity %s", m[1], e.Name)
	}
	ref, err := parseTypeRef(m[3])
	if err != nil {
		return nil, model.Errorf(model.ErrMalformedDeclaration, u.Name, j, "%v", err)
	}

	prop := &model.Property{
		Name:       lowerFirst(m[2]),
		Type:       ref,
		Getter:     model.GetDerived,
		Setter:     model.SetNone,
		Mutability: model.Immutable,
		Derived:    true,
		GetterName: m[2],
		Doc:        docText(u, i, j, ""),
		Line:       j,
	}
	if e.TypeParam != nil {
		prop.Generic = ref.References(e.TypeParam.Name)
	}
	if alias, ok := args["alias"]; ok {
		if alias == "" {
			return nil, model.Errorf(model.ErrMalformedDeclaration, u.Name, i, "alias of %q is empty", prop.Name)
		}
		prop.Alias = alias
	}
	return prop, nil
}

func parseValidation(value string) (model.Validation, error) {
	for _, v := range model.Validations {
		if string(v) == value {
			return v, nil
		}
	}
	return "", fmt.Errorf("validate=%q is not one of notNull, notEmpty, notBlank, notNegative", value)
}

func parseGetter(value string) (model.AccessorStyle, error) {
	switch model.AccessorStyle(value) {
	case "":
		return model.GetStandard, nil
	case model.GetStandard, model.GetField, model.GetIs, model.GetOptional, model.GetManual:
		return model.AccessorStyle(value), nil
	}
	return "", fmt.Errorf("get=%q is not one of get, field, is, optional, manual", value)
}

func parseSetter(value string) (model.SetterStyle, error) {
	switch model.SetterStyle(value) {
	case "":
		return model.SetStandard, nil
	case model.SetStandard, model.SetNone, model.SetManual:
		return model.SetterStyle(value), nil
	}
	return "", fmt.Errorf("set=%q is not one of set, none, manual", value)
}

// checkCombination enforces the accessor/validation compatibility matrix.
func checkCombination(prop *model.Property) error {
	switch prop.Getter {
	case model.GetIs:
		if !prop.Type.IsBool() {
			return fmt.Errorf("get=\"is\" requires a bool property, not %s", prop.Type.Raw)
		}
	case model.GetOptional:
		if prop.Type.Shape != model.ShapeOptional {
			return fmt.Errorf("get=\"optional\" requires a pointer property, not %s", prop.Type.Raw)
		}
		if prop.Validation == model.ValidateNotNull {
			return fmt.Errorf("get=\"optional\" cannot be combined with validate=\"notNull\"")
		}
	}
	switch prop.Validation {
	case model.ValidateNotEmpty:
		if !prop.Type.IsCollection() && !prop.Type.IsString() {
			return fmt.Errorf("validate=\"notEmpty\" requires a string, slice or map, not %s", prop.Type.Raw)
		}
	case model.ValidateNotBlank:
		if !prop.Type.IsString() {
			return fmt.Errorf("validate=\"notBlank\" requires a string, not %s", prop.Type.Raw)
		}
	case model.ValidateNotNegative:
		if !prop.Type.IsNumeric() {
			return fmt.Errorf("validate=\"notNegative\" requires a builtin number, not %s", prop.Type.Raw)
		}
	}
	return nil
}

// docText returns the trailing comment of the declaration, or the plain
// comment lines between the sentinel and the declaration.
func docText(u *source.Unit, sentinel, decl int, trailing string) string {
	if trailing = strings.TrimSpace(trailing); trailing != "" {
		return trailing
	}
	var parts []string
	for k := sentinel + 1; k < decl; k++ {
		line := u.Line(k)
		if !isComment(line) || isDirective(line) {
			continue
		}
		if text := strings.TrimSpace(strings.TrimPrefix(line, "//")); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

package parser

import (
	"fmt"
	"regexp"

	"beangen/internal/model"
	"beangen/internal/source"
)

var (
	// type Name struct {   or   type Name[T Bound] struct {
	entityPattern = regexp.MustCompile(`^type\s+([A-Z][A-Za-z0-9_]*)(?:\[([A-Z][A-Za-z0-9_]*)(?:\s+([^\],]+?))?\s*\])?\s+struct\s*\{\s*(?://.*)?$`)

	// Embedded field: Parent, *Parent, pkg.Parent, Parent[T]
	embedPattern = regexp.MustCompile("^(\\*)?(?:([A-Za-z_][A-Za-z0-9_]*)\\.)?([A-Z][A-Za-z0-9_]*)(?:\\[([^\\]]+)\\])?\\s*(?:`[^`]*`)?\\s*(?://.*)?$")
)

// Runtime root types that end an inheritance chain.
const (
	RootMutable   = "DirectBean"
	RootImmutable = "ImmutableBean"
)

// parseEntity locates the entity sentinel and extracts the declaration that follows it.
func (p *Parser) parseEntity(u *source.Unit) (*model.Entity, error) {
	sentinel := -1
	var argText string
	for i := 0; i < u.Len(); i++ {
		if text, ok := matchSentinel(u.Line(i), EntitySentinel); ok {
			sentinel, argText = i, text
			break
		}
	}
	if sentinel < 0 {
		return nil, nil
	}

	args, err := parseArgs(argText)
	if err != nil {
		return nil, model.Errorf(model.ErrMalformedDeclaration, u.Name, sentinel, "%v", err)
	}
	if err := checkKeys(args, "style", "builderScope", "constructorScope"); err != nil {
		return nil, model.Errorf(model.ErrUnresolvedStyle, u.Name, sentinel, "%v", err)
	}

	e := &model.Entity{
		Unit:          u.Name,
		Constructable: true,
		Line:          -1,
	}
	if e.BuilderScope, err = parseScope(args["builderScope"]); err != nil {
		return nil, model.Errorf(model.ErrUnresolvedStyle, u.Name, sentinel, "builderScope: %v", err)
	}
	if e.ConstructorScope, err = parseScope(args["constructorScope"]); err != nil {
		return nil, model.Errorf(model.ErrUnresolvedStyle, u.Name, sentinel, "constructorScope: %v", err)
	}

	for i := sentinel + 1; i < u.Len(); i++ {
		m := entityPattern.FindStringSubmatch(u.Line(i))
		if m == nil {
			continue
		}
		e.Name = m[1]
		e.Line = i
		if m[2] != "" {
			e.TypeParam = &model.TypeParam{Name: m[2], Bound: m[3]}
		}
		break
	}
	if e.Line < 0 {
		return nil, model.Errorf(model.ErrMalformedDeclaration, u.Name, sentinel,
			"no struct declaration follows %s", EntitySentinel)
	}

	for i := sentinel + 1; i < u.Len(); i++ {
		if u.Line(i) == AbstractMarker {
			e.Constructable = false
			break
		}
	}

	if err := p.parseSuperType(u, e); err != nil {
		return nil, err
	}
	if err := resolveStyle(u, e, args["style"], sentinel); err != nil {
		return nil, err
	}
	return e, nil
}

// parseSuperType finds the first embedded field of the struct body.
func (p *Parser) parseSuperType(u *source.Unit, e *model.Entity) error {
	for i := e.Line + 1; i < u.Len(); i++ {
		line := u.Line(i)
		if line == "}" {
			break
		}
		if line == "" || isComment(line) {
			continue
		}
		m := embedPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		pkg, name, typeArgs := m[2], m[3], m[4]
		if pkg == p.runtime && (name == RootMutable || name == RootImmutable) {
			if typeArgs != "" || m[1] != "" {
				return model.Errorf(model.ErrMalformedDeclaration, u.Name, i,
					"runtime root %s.%s must be embedded by value", pkg, name)
			}
			e.Root = name
			return nil
		}
		qualified := name
		if pkg != "" {
			qualified = pkg + "." + name
		}
		e.Super = &model.SuperType{
			Qualified: qualified,
			Package:   pkg,
			Name:      name,
			Args:      typeArgs,
			Pointer:   m[1] != "",
		}
		return nil
	}
	return model.Errorf(model.ErrMalformedDeclaration, u.Name, e.Line,
		"%s embeds no supertype; embed %s.%s, %s.%s or another entity",
		e.Name, p.runtime, RootMutable, p.runtime, RootImmutable)
}

// resolveStyle infers the entity style from its root and checks any explicit style argument.
func resolveStyle(u *source.Unit, e *model.Entity, explicit string, line int) error {
	inferred := model.StyleMutable
	if e.Root == RootImmutable {
		inferred = model.StyleImmutable
	}
	switch model.EntityStyle(explicit) {
	case "":
		e.Style = inferred
	case model.StyleMutable, model.StyleImmutable:
		e.Style = model.EntityStyle(explicit)
	default:
		return model.Errorf(model.ErrUnresolvedStyle, u.Name, line,
			"style %q is not one of mutable, immutable", explicit)
	}

	if e.Style == model.StyleImmutable && e.Super != nil {
		return model.Errorf(model.ErrMalformedDeclaration, u.Name, e.Line,
			"immutable entity %s must embed the immutable runtime root, not %s", e.Name, e.Super.Ref())
	}
	if e.Super == nil && e.Style != inferred {
		return model.Errorf(model.ErrUnresolvedStyle, u.Name, line,
			"style %q contradicts embedded root %s", explicit, e.Root)
	}
	return nil
}

// parseScope maps a scope argument to a Scope, defaulting to public.
func parseScope(value string) (model.Scope, error) {
	switch model.Scope(value) {
	case "":
		return model.ScopePublic, nil
	case model.ScopePublic, model.ScopePackage, model.ScopePrivate:
		return model.Scope(value), nil
	}
	return "", fmt.Errorf("%q is not one of public, package, private", value)
}

func isComment(line string) bool {
	return len(line) >= 2 && line[:2] == "//"
}

package parser

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/types"
	"strings"

	"beangen/internal/model"
)

// parseTypeRef parses declared type text into a TypeRef with its container shape.
func parseTypeRef(text string) (model.TypeRef, error) {
	expr, err := parser.ParseExpr(strings.TrimSpace(text))
	if err != nil {
		return model.TypeRef{}, fmt.Errorf("parsing type %q: %w", text, err)
	}
	ref := typeRefFromExpr(expr)
	return *ref, nil
}

// typeRefFromExpr converts an ast.Expr to a TypeRef.
func typeRefFromExpr(expr ast.Expr) *model.TypeRef {
	raw := types.ExprString(expr)
	switch t := expr.(type) {
	case *ast.Ident:
		kind := model.KindNamed
		if isBuiltin(t.Name) {
			kind = model.KindBasic
		}
		return &model.TypeRef{
			Kind:  kind,
			Shape: model.ShapePlain,
			Name:  t.Name,
			Raw:   raw,
		}

	case *ast.SelectorExpr:
		// Package-qualified type (e.g., time.Time)
		pkg := ""
		if ident, ok := t.X.(*ast.Ident); ok {
			pkg = ident.Name
		}
		return &model.TypeRef{
			Kind:    model.KindNamed,
			Shape:   model.ShapePlain,
			Name:    t.Sel.Name,
			Package: pkg,
			Raw:     raw,
		}

	case *ast.StarExpr:
		return &model.TypeRef{
			Kind:  model.KindPointer,
			Shape: model.ShapeOptional,
			Elem:  typeRefFromExpr(t.X),
			Raw:   raw,
		}

	case *ast.ArrayType:
		elem := typeRefFromExpr(t.Elt)
		if t.Len == nil {
			return &model.TypeRef{
				Kind:  model.KindSlice,
				Shape: model.ShapeList,
				Elem:  elem,
				Raw:   raw,
			}
		}
		return &model.TypeRef{
			Kind:  model.KindArray,
			Shape: model.ShapePlain,
			Elem:  elem,
			Raw:   raw,
		}

	case *ast.Ellipsis:
		// Variadic parameter, treat as slice
		return &model.TypeRef{
			Kind:  model.KindSlice,
			Shape: model.ShapeList,
			Elem:  typeRefFromExpr(t.Elt),
			Raw:   raw,
		}

	case *ast.MapType:
		key := typeRefFromExpr(t.Key)
		value := typeRefFromExpr(t.Value)
		shape := model.ShapeMap
		if value.Raw == "struct{}" {
			shape = model.ShapeSet
		}
		return &model.TypeRef{
			Kind:  model.KindMap,
			Shape: shape,
			Key:   key,
			Value: value,
			Raw:   raw,
		}

	case *ast.IndexExpr:
		return genericRef(t.X, []ast.Expr{t.Index}, raw)

	case *ast.IndexListExpr:
		return genericRef(t.X, t.Indices, raw)

	case *ast.InterfaceType:
		return &model.TypeRef{
			Kind:  model.KindInterface,
			Shape: model.ShapePlain,
			Name:  raw,
			Raw:   raw,
		}

	case *ast.ChanType:
		return &model.TypeRef{
			Kind:  model.KindChan,
			Shape: model.ShapePlain,
			Elem:  typeRefFromExpr(t.Value),
			Raw:   raw,
		}

	case *ast.FuncType:
		return &model.TypeRef{
			Kind:  model.KindFunc,
			Shape: model.ShapePlain,
			Name:  "func",
			Raw:   raw,
		}

	default:
		return &model.TypeRef{
			Kind:  model.KindNamed,
			Shape: model.ShapePlain,
			Raw:   raw,
		}
	}
}

// genericRef builds the TypeRef of a generic instantiation such as Holder[any].
func genericRef(base ast.Expr, indices []ast.Expr, raw string) *model.TypeRef {
	ref := typeRefFromExpr(base)
	result := &model.TypeRef{
		Kind:    model.KindGeneric,
		Shape:   model.ShapePlain,
		Name:    ref.Name,
		Package: ref.Package,
		Raw:     raw,
	}
	for _, idx := range indices {
		arg := typeRefFromExpr(idx)
		if arg.Raw == "any" || arg.Raw == "interface{}" {
			result.Shape = model.ShapeWildcard
		}
		result.Args = append(result.Args, *arg)
	}
	return result
}

var builtins = map[string]bool{
	"bool": true, "string": true, "error": true, "any": true,
	"int": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"uint": true, "uint8": true, "uint16": true, "uint32": true, "uint64": true,
	"float32": true, "float64": true, "complex64": true, "complex128": true,
	"byte": true, "rune": true, "uintptr": true,
}

func isBuiltin(name string) bool {
	return builtins[name]
}

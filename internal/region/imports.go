package region

import (
	"go/ast"
	"go/parser"
	"go/token"
	"path"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/tools/go/ast/astutil"

	"beangen/internal/model"
	"beangen/internal/source"
)

// EnsureImport makes u import importPath under the local name. It reports
// whether a line was added. An existing import that already provides name is
// left as it is, whatever its path.
func EnsureImport(u *source.Unit, name, importPath string) (bool, error) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, u.Name, u.Bytes(), parser.ImportsOnly)
	if err != nil {
		return false, model.Errorf(model.ErrMalformedDeclaration, u.Name, -1, "reading imports: %v", err)
	}
	for _, group := range astutil.Imports(fset, f) {
		for _, spec := range group {
			if provides(spec, name, importPath) {
				return false, nil
			}
		}
	}

	spec := strconv.Quote(importPath)
	if path.Base(importPath) != name {
		spec = name + " " + spec
	}

	var last *ast.GenDecl
	for _, decl := range f.Decls {
		if gen, ok := decl.(*ast.GenDecl); ok && gen.Tok == token.IMPORT {
			last = gen
		}
	}
	switch {
	case last == nil:
		at := fset.Position(f.Name.End()).Line
		u.Lines = slices.Insert(u.Lines, at, "", "import "+spec)
	case last.Lparen.IsValid() && ownLine(u, fset.Position(last.Rparen)):
		at := fset.Position(last.Rparen).Line - 1
		lines := []string{"\t" + spec}
		if len(last.Specs) > 0 {
			lines = []string{"", "\t" + spec}
		}
		u.Lines = slices.Insert(u.Lines, at, lines...)
	default:
		at := fset.Position(last.End()).Line
		u.Lines = slices.Insert(u.Lines, at, "", "import "+spec)
	}
	return true, nil
}

// provides reports whether spec makes name resolve to a package.
func provides(spec *ast.ImportSpec, name, importPath string) bool {
	p, err := strconv.Unquote(spec.Path.Value)
	if err != nil {
		return false
	}
	if spec.Name != nil {
		return spec.Name.Name == name
	}
	return p == importPath || path.Base(p) == name
}

// ownLine reports whether the closing parenthesis at pos stands alone on its line.
func ownLine(u *source.Unit, pos token.Position) bool {
	i := pos.Line - 1
	return i >= 0 && i < u.Len() && strings.TrimSpace(u.Lines[i]) == ")"
}

package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beangen/internal/model"
	"beangen/internal/source"
)

func unit(lines ...string) *source.Unit {
	return source.Parse("person.go", []byte(strings.Join(lines, "\n")))
}

func parse(t *testing.T, lines ...string) (*model.Entity, error) {
	t.Helper()
	return New("beans").ParseUnit(unit(lines...))
}

func TestParseUnit_NotATarget(t *testing.T) {
	e, err := parse(t, "package models", "", "type Plain struct {", "\tname string", "}")
	assert.NoError(t, err)
	assert.Nil(t, e)
}

func TestParseUnit_Entity(t *testing.T) {
	t.Run("Should extract a mutable entity with its properties", func(t *testing.T) {
		e, err := parse(t,
			"package models",
			"",
			"//beangen:bean",
			"type Person struct {",
			"\tbeans.DirectBean",
			"",
			"\t//beangen:property(validate=\"notNull\")",
			"\tname string // Full name",
			"\t//beangen:property(alias=\"years\")",
			"\tage int",
			"}",
		)
		require.NoError(t, err)
		require.NotNil(t, e)
		assert.Equal(t, "Person", e.Name)
		assert.Equal(t, RootMutable, e.Root)
		assert.Nil(t, e.Super)
		assert.Equal(t, model.StyleMutable, e.Style)
		assert.True(t, e.Constructable)
		assert.Equal(t, model.ScopePublic, e.BuilderScope)
		assert.Equal(t, 3, e.Line)

		require.Len(t, e.Properties, 2)
		name := e.Properties[0]
		assert.Equal(t, "name", name.Name)
		assert.Equal(t, "string", name.Type.Raw)
		assert.Equal(t, model.ValidateNotNull, name.Validation)
		assert.Equal(t, model.GetStandard, name.Getter)
		assert.Equal(t, model.SetStandard, name.Setter)
		assert.Equal(t, model.Mutable, name.Mutability)
		assert.Equal(t, "Name", name.GetterName)
		assert.Equal(t, "Full name", name.Doc)
		assert.Equal(t, 7, name.Line)

		age := e.Properties[1]
		assert.Equal(t, "years", age.Alias)
		assert.Same(t, age, e.Property("years"))
	})

	t.Run("Should infer immutable style from the root", func(t *testing.T) {
		e, err := parse(t,
			"//beangen:bean(builderScope=\"private\", constructorScope=package)",
			"type Address struct {",
			"\tbeans.ImmutableBean",
			"\t//beangen:property",
			"\tstreet string",
			"}",
		)
		require.NoError(t, err)
		assert.True(t, e.IsImmutable())
		assert.Equal(t, model.ScopePrivate, e.BuilderScope)
		assert.Equal(t, model.ScopePackage, e.ConstructorScope)
		require.Len(t, e.Properties, 1)
		assert.Equal(t, model.SetNone, e.Properties[0].Setter)
		assert.Equal(t, model.Immutable, e.Properties[0].Mutability)
	})

	t.Run("Should extract a generic subclass", func(t *testing.T) {
		e, err := parse(t,
			"//beangen:bean",
			"//beangen:abstract",
			"type Labeled[T comparable] struct {",
			"\t*base.Box[T]",
			"\t//beangen:property",
			"\tlabels map[string]T",
			"\t//beangen:property",
			"\tholder Holder[any]",
			"}",
		)
		require.NoError(t, err)
		assert.Equal(t, "Labeled", e.Name)
		require.NotNil(t, e.TypeParam)
		assert.Equal(t, "T", e.TypeParam.Name)
		assert.Equal(t, "comparable", e.TypeParam.Bound)
		assert.False(t, e.Constructable)
		require.NotNil(t, e.Super)
		assert.Equal(t, "base.Box", e.Super.Qualified)
		assert.Equal(t, "Box", e.Super.Name)
		assert.Equal(t, "base", e.Super.Package)
		assert.Equal(t, "T", e.Super.Args)
		assert.True(t, e.Super.Pointer)
		assert.Equal(t, "base.Box[T]", e.Super.Ref())

		require.Len(t, e.Properties, 2)
		assert.True(t, e.Properties[0].Generic)
		assert.Equal(t, model.ShapeMap, e.Properties[0].Type.Shape)
		assert.False(t, e.Properties[1].Generic)
		assert.Equal(t, model.ShapeWildcard, e.Properties[1].Type.Shape)
	})

	t.Run("Should extract derived properties", func(t *testing.T) {
		e, err := parse(t,
			"//beangen:bean",
			"type Person struct {",
			"\tbeans.DirectBean",
			"\t//beangen:property",
			"\tfirst string",
			"}",
			"",
			"//beangen:derived(alias=\"display\")",
			"func (p *Person) FullName() string {",
			"\treturn p.first",
			"}",
		)
		require.NoError(t, err)
		require.Len(t, e.Properties, 2)
		d := e.Properties[1]
		assert.Equal(t, "fullName", d.Name)
		assert.Equal(t, "FullName", d.GetterName)
		assert.True(t, d.Derived)
		assert.False(t, d.Writable())
		assert.Equal(t, model.GetDerived, d.Getter)
		assert.Equal(t, "display", d.Alias)
		assert.True(t, e.Properties[0].Stored())
		assert.False(t, d.Stored())
	})
}

func TestParseUnit_Shapes(t *testing.T) {
	tests := []struct {
		typ   string
		shape model.Shape
	}{
		{"string", model.ShapePlain},
		{"*time.Time", model.ShapeOptional},
		{"[]string", model.ShapeList},
		{"map[string]struct{}", model.ShapeSet},
		{"map[string]int", model.ShapeMap},
		{"Holder[any]", model.ShapeWildcard},
		{"Holder[interface{}]", model.ShapeWildcard},
		{"Holder[int]", model.ShapePlain},
		{"[4]byte", model.ShapePlain},
		{"uuid.UUID", model.ShapePlain},
	}
	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			e, err := parse(t,
				"//beangen:bean",
				"type Thing struct {",
				"\tbeans.DirectBean",
				"\t//beangen:property",
				"\tvalue "+tt.typ,
				"}",
			)
			require.NoError(t, err)
			assert.Equal(t, tt.shape, e.Properties[0].Type.Shape)
			assert.Equal(t, tt.typ, e.Properties[0].Type.Raw)
		})
	}
}

func TestParseUnit_Errors(t *testing.T) {
	body := func(field string, args string) []string {
		return []string{
			"//beangen:bean",
			"type Thing struct {",
			"\tbeans.DirectBean",
			"\t//beangen:property" + args,
			"\t" + field,
			"}",
		}
	}
	tests := []struct {
		name  string
		lines []string
		kind  error
		line  int
	}{
		{
			name:  "no struct after sentinel",
			lines: []string{"package x", "//beangen:bean", "func main() {}"},
			kind:  model.ErrMalformedDeclaration,
			line:  1,
		},
		{
			name:  "no embedded supertype",
			lines: []string{"//beangen:bean", "type Thing struct {", "\tname string", "}"},
			kind:  model.ErrMalformedDeclaration,
			line:  1,
		},
		{
			name:  "immutable subclass",
			lines: []string{"//beangen:bean(style=\"immutable\")", "type Thing struct {", "\tPerson", "}"},
			kind:  model.ErrMalformedDeclaration,
			line:  1,
		},
		{
			name:  "style contradicts root",
			lines: []string{"//beangen:bean(style=\"immutable\")", "type Thing struct {", "\tbeans.DirectBean", "}"},
			kind:  model.ErrUnresolvedStyle,
			line:  0,
		},
		{
			name:  "unknown style",
			lines: []string{"//beangen:bean(style=\"frozen\")", "type Thing struct {", "\tbeans.DirectBean", "}"},
			kind:  model.ErrUnresolvedStyle,
			line:  0,
		},
		{
			name:  "unknown entity key",
			lines: []string{"//beangen:bean(colour=\"red\")", "type Thing struct {", "\tbeans.DirectBean", "}"},
			kind:  model.ErrUnresolvedStyle,
			line:  0,
		},
		{
			name:  "property at end of unit",
			lines: []string{"//beangen:bean", "type Thing struct {", "\tbeans.DirectBean", "\t//beangen:property"},
			kind:  model.ErrMalformedDeclaration,
			line:  3,
		},
		{
			name:  "property not followed by a field",
			lines: body("func() {}", ""),
			kind:  model.ErrMalformedDeclaration,
			line:  4,
		},
		{
			name:  "unparseable type",
			lines: body("name map[string", ""),
			kind:  model.ErrMalformedDeclaration,
			line:  4,
		},
		{
			name:  "unknown validation",
			lines: body("name string", "(validate=\"positive\")"),
			kind:  model.ErrUnresolvedStyle,
			line:  3,
		},
		{
			name:  "unknown getter style",
			lines: body("name string", "(get=\"lazy\")"),
			kind:  model.ErrUnresolvedStyle,
			line:  3,
		},
		{
			name:  "unknown property key",
			lines: body("name string", "(builder=\"x\")"),
			kind:  model.ErrUnresolvedStyle,
			line:  3,
		},
		{
			name:  "malformed argument list",
			lines: body("name string", "(validate=\"notNull\""),
			kind:  model.ErrMalformedDeclaration,
			line:  3,
		},
		{
			name:  "is on non bool",
			lines: body("name string", "(get=\"is\")"),
			kind:  model.ErrUnresolvedStyle,
			line:  3,
		},
		{
			name:  "optional on non pointer",
			lines: body("name string", "(get=\"optional\")"),
			kind:  model.ErrUnresolvedStyle,
			line:  3,
		},
		{
			name:  "optional with notNull",
			lines: body("name *string", "(get=\"optional\", validate=\"notNull\")"),
			kind:  model.ErrUnresolvedStyle,
			line:  3,
		},
		{
			name:  "notEmpty on number",
			lines: body("count int", "(validate=\"notEmpty\")"),
			kind:  model.ErrUnresolvedStyle,
			line:  3,
		},
		{
			name:  "notBlank on list",
			lines: body("tags []string", "(validate=\"notBlank\")"),
			kind:  model.ErrUnresolvedStyle,
			line:  3,
		},
		{
			name:  "notNegative on named type",
			lines: body("at time.Duration", "(validate=\"notNegative\")"),
			kind:  model.ErrUnresolvedStyle,
			line:  3,
		},
		{
			name:  "exported field collides with getter",
			lines: body("Name string", ""),
			kind:  model.ErrMalformedDeclaration,
			line:  4,
		},
		{
			name:  "reserved name",
			lines: body("hashCode int", ""),
			kind:  model.ErrMalformedDeclaration,
			line:  4,
		},
		{
			name: "duplicate alias",
			lines: []string{
				"//beangen:bean", "type Thing struct {", "\tbeans.DirectBean",
				"\t//beangen:property(alias=\"x\")", "\ta int",
				"\t//beangen:property(alias=\"x\")", "\tb int",
				"}",
			},
			kind: model.ErrMalformedDeclaration,
			line: 6,
		},
		{
			name: "alias equals a property name",
			lines: []string{
				"//beangen:bean", "type Thing struct {", "\tbeans.DirectBean",
				"\t//beangen:property(alias=\"b\")", "\ta int",
				"\t//beangen:property", "\tb int",
				"}",
			},
			kind: model.ErrMalformedDeclaration,
			line: 4,
		},
		{
			name: "derived on a foreign receiver",
			lines: []string{
				"//beangen:bean", "type Thing struct {", "\tbeans.DirectBean", "}",
				"//beangen:derived", "func (o *Other) Size() int {", "\treturn 0", "}",
			},
			kind: model.ErrMalformedDeclaration,
			line: 5,
		},
		{
			name: "derived with validation",
			lines: []string{
				"//beangen:bean", "type Thing struct {", "\tbeans.DirectBean", "}",
				"//beangen:derived(validate=\"notNull\")", "func (t *Thing) Size() int {", "\treturn 0", "}",
			},
			kind: model.ErrUnresolvedStyle,
			line: 4,
		},
	}
	for _, tt := range tests {
		t.Run("Should reject "+tt.name, func(t *testing.T) {
			e, err := parse(t, tt.lines...)
			require.Error(t, err)
			assert.Nil(t, e)
			assert.ErrorIs(t, err, tt.kind)
			var perr *model.Error
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, "person.go", perr.Unit)
			assert.Equal(t, tt.line, perr.Line)
		})
	}
}

func TestParseUnit_ImmutableSetter(t *testing.T) {
	_, err := parse(t,
		"//beangen:bean",
		"type Address struct {",
		"\tbeans.ImmutableBean",
		"\t//beangen:property(set=\"set\")",
		"\tstreet string",
		"}",
	)
	assert.ErrorIs(t, err, model.ErrUnresolvedStyle)
}

func TestParseUnit_Styles(t *testing.T) {
	e, err := parse(t,
		"//beangen:bean",
		"type Flags struct {",
		"\tbeans.DirectBean",
		"\t//beangen:property(get=\"is\")",
		"\tactive bool",
		"\t//beangen:property(get=\"optional\")",
		"\tnickname *string",
		"\t//beangen:property(get=\"field\", set=\"none\")",
		"\tID string",
		"\t//beangen:property(get=\"manual\", set=\"manual\")",
		"\tsecret string",
		"\t//beangen:property(validate=\"notNegative\")",
		"\tscore float64",
		"}",
	)
	require.NoError(t, err)
	require.Len(t, e.Properties, 5)
	assert.Equal(t, "IsActive", e.Properties[0].GetterName)
	assert.Equal(t, model.GetOptional, e.Properties[1].Getter)
	assert.True(t, e.Properties[2].Exported)
	assert.Equal(t, model.Immutable, e.Properties[2].Mutability)
	assert.Equal(t, model.SetManual, e.Properties[3].Setter)
	assert.Equal(t, model.ValidateNotNegative, e.Properties[4].Validation)
}

func TestParseArgs(t *testing.T) {
	t.Run("Should parse quoted and bare values", func(t *testing.T) {
		args, err := parseArgs(`(validate="notNull", get=is, alias="a,b")`)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"validate": "notNull", "get": "is", "alias": "a,b"}, args)
	})
	t.Run("Should accept an empty list", func(t *testing.T) {
		args, err := parseArgs("()")
		require.NoError(t, err)
		assert.Empty(t, args)
	})
	t.Run("Should reject duplicates and junk", func(t *testing.T) {
		for _, in := range []string{`(a=1, a=2)`, `(a)`, `(a=1,)`, `(a="x)`, `a=1`, `(1a=2)`} {
			_, err := parseArgs(in)
			assert.Error(t, err, in)
		}
	})
}

func TestMatchSentinel(t *testing.T) {
	text, ok := matchSentinel(`//beangen:property(get="is")`, PropertySentinel)
	assert.True(t, ok)
	assert.Equal(t, `(get="is")`, text)

	_, ok = matchSentinel("//beangen:propertyX", PropertySentinel)
	assert.False(t, ok)
	_, ok = matchSentinel("// beangen:property", PropertySentinel)
	assert.False(t, ok)
}

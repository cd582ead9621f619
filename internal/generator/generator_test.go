package generator

import (
	"go/parser"
	"go/token"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beangen/internal/config"
	"beangen/internal/model"
	beanparser "beangen/internal/parser"
	"beangen/internal/source"
)

func entity(t *testing.T, lines ...string) *model.Entity {
	t.Helper()
	u := source.Parse("person.go", []byte(strings.Join(lines, "\n")))
	e, err := beanparser.New("beans").ParseUnit(u)
	require.NoError(t, err)
	require.NotNil(t, e)
	return e
}

func render(t *testing.T, cfg config.Generator, e *model.Entity) string {
	t.Helper()
	g, err := New(cfg)
	require.NoError(t, err)
	lines, err := g.Generate(e)
	require.NoError(t, err)
	out := strings.Join(lines, "\n")

	// The region must be valid declarations on its own.
	_, err = parser.ParseFile(token.NewFileSet(), "region.go", "package models\n\n"+out, parser.ParseComments)
	require.NoError(t, err, out)
	assert.NotContains(t, out, "\n\n\n")
	return out
}

func generate(t *testing.T, lines ...string) string {
	t.Helper()
	return render(t, config.DefaultGenerator(), entity(t, lines...))
}

func tag(name string) string {
	return formatTag(NameTag(name))
}

func assertMatches(t *testing.T, out, pattern string) {
	t.Helper()
	assert.Regexp(t, regexp.MustCompile(pattern), out)
}

func TestGenerate_MutableEntity(t *testing.T) {
	out := generate(t,
		"//beangen:bean",
		"type Person struct {",
		"\tbeans.DirectBean",
		"\t//beangen:property(validate=\"notNull\")",
		"\tname string // Full name",
		"}",
	)

	t.Run("Should expose the meta singleton", func(t *testing.T) {
		assert.Contains(t, out, "var personMetaInstance = newPersonMeta()")
		assert.Contains(t, out, "func MetaPerson() *PersonMeta {\n\treturn personMetaInstance\n}")
		assert.Contains(t, out, "func (b *Person) MetaBean() beans.MetaBean {\n\treturn MetaPerson()\n}")
	})

	t.Run("Should dispatch by name tag with fallback to the root", func(t *testing.T) {
		assertMatches(t, out, `"name":\s+`+tag("name")+`,`)
		assert.Equal(t, 2, strings.Count(out, "case "+tag("name")+": // name"))
		assert.Contains(t, out, "return b.Name(), nil")
		assert.Contains(t, out, "v, err := beans.Cast[string](propertyName, newValue)")
		assert.Contains(t, out, "return b.SetName(v)")
		assert.Contains(t, out, "return b.DirectBean.PropertyGet(propertyName)")
		assert.Contains(t, out, "return b.DirectBean.PropertySet(propertyName, newValue)")
		assert.NotContains(t, out, "nolint")
	})

	t.Run("Should generate equality hashing and string form", func(t *testing.T) {
		assert.Contains(t, out, "return beans.Equal(b.name, other.name)")
		assert.Contains(t, out, "hash := 7\n\thash = hash*31 + beans.HashCode(b.name)\n\treturn hash")
		assert.Contains(t, out, `return "Person{" + "name=" + beans.ToString(b.Name()) + "}"`)
	})

	t.Run("Should generate validated accessors", func(t *testing.T) {
		assert.Contains(t, out, "// Name returns the name property.\n// Full name\nfunc (b *Person) Name() string {\n\treturn b.name\n}")
		assert.Contains(t, out, "func (b *Person) SetName(name string) error {\n"+
			"\tif err := beans.NotNull(name, \"name\"); err != nil {\n\t\treturn err\n\t}\n"+
			"\tb.name = name\n\treturn nil\n}")
		assert.Contains(t, out, "func (b *Person) NameProperty() beans.Property {\n\treturn beans.NewProperty(b, MetaPerson().Name())\n}")
	})

	t.Run("Should generate the meta-bean", func(t *testing.T) {
		assertMatches(t, out, `type PersonMeta struct \{\n\tbeans\.DirectMetaBean\n\tname\s+\*beans\.MetaProperty\n\tpropertyMap\s+\*beans\.PropertyMap\n\}`)
		assert.Contains(t, out, `name: beans.NewMetaProperty[string]("Person", "name", beans.ReadWrite),`)
		assert.Contains(t, out, "m.propertyMap = beans.NewPropertyMap(nil, m.name)\n")
		assert.Contains(t, out, "return beans.TypeOf[*Person]()")
		assert.Contains(t, out, "func (m *PersonMeta) CreateBean() (beans.Bean, error) {\n\treturn &Person{}, nil\n}")
		assert.NotContains(t, out, "PersonBuilder")
	})
}

func TestGenerate_NoProperties(t *testing.T) {
	out := generate(t,
		"//beangen:bean",
		"type Empty struct {",
		"\tbeans.DirectBean",
		"}",
	)
	assert.Contains(t, out, "var emptyPropertyTags = map[string]uint64{}")
	assert.Contains(t, out, "func (b *Empty) PropertyGet(propertyName string) (any, error) {\n\treturn b.DirectBean.PropertyGet(propertyName)\n}")
	assert.Contains(t, out, "return ok && other != nil")
	assert.Contains(t, out, "hash := 7\n\treturn hash")
	assert.Contains(t, out, `return "Empty{}"`)
	assert.Contains(t, out, "m := &EmptyMeta{}")
	assert.NotContains(t, out, "switch")
}

func TestGenerate_Alias(t *testing.T) {
	out := generate(t,
		"//beangen:bean",
		"type Person struct {",
		"\tbeans.DirectBean",
		"\t//beangen:property(alias=\"years\")",
		"\tage int",
		"}",
	)
	assert.Contains(t, out, "case "+tag("age")+", "+tag("years")+": // age, years (alias)")
	assertMatches(t, out, `"years":\s+`+tag("years")+`,`)
	assert.Contains(t, out, "m.propertyMap = beans.NewPropertyMap(nil, m.age).\n\t\tWithAlias(\"years\", \"age\")")
	assert.Contains(t, out, "func (b *Person) SetAge(age int) {\n\tb.age = age\n}")
	assert.Contains(t, out, "b.SetAge(v)\n\t\treturn nil")
}

func TestGenerate_Subclass(t *testing.T) {
	out := generate(t,
		"//beangen:bean",
		"type Student struct {",
		"\tPerson",
		"\t//beangen:property",
		"\tschool string",
		"}",
	)
	assert.Contains(t, out, "return b.Person.PropertyGet(propertyName)")
	assert.Contains(t, out, "return b.Person.PropertySet(propertyName, newValue)")
	assert.NotContains(t, out, "b.Person == nil")
	assert.Contains(t, out, "return beans.Equal(b.school, other.school) &&\n\t\tb.Person.Equal(&other.Person)")
	assert.Contains(t, out, "return hash ^ b.Person.HashCode()")
	assert.Contains(t, out, `", " + b.Person.String() + "}"`)
	assertMatches(t, out, `type StudentMeta struct \{\n\t\*PersonMeta\n`)
	assert.Contains(t, out, "PersonMeta: MetaPerson(),")
	assert.Contains(t, out, "beans.NewPropertyMap(m.PersonMeta.PropertyMap(), m.school)")
	assert.Contains(t, out, "return &Student{}, nil")
}

func TestGenerate_PointerSubclass(t *testing.T) {
	out := generate(t,
		"//beangen:bean",
		"type Labeled[T comparable] struct {",
		"\t*base.Box[T]",
		"\t//beangen:property",
		"\tlabel T",
		"}",
	)
	assert.Contains(t, out, "func MetaLabeled[T comparable]() *LabeledMeta[T] {\n\treturn beans.Singleton(newLabeledMeta[T])\n}")
	assert.Contains(t, out, "beans.Equal(b.label, other.label) &&\n\t\tbeans.Equal(b.Box, other.Box)")
	assert.Contains(t, out, "return hash ^ beans.HashCode(b.Box)")
	assert.Contains(t, out, `", " + beans.ToString(b.Box) + "}"`)
	assert.Contains(t, out, "if b.Box == nil {\n\t\treturn nil, beans.NewUnsupportedError(\"PropertyGet \" + propertyName + \": embedded Box is nil\")\n\t}\n\treturn b.Box.PropertyGet(propertyName)")
	assert.Contains(t, out, "if b.Box == nil {\n\t\treturn beans.NewUnsupportedError(\"PropertySet \" + propertyName + \": embedded Box is nil\")\n\t}\n\treturn b.Box.PropertySet(propertyName, newValue)")
	assert.NotContains(t, out, "b.Box.HashCode()")
	assert.NotContains(t, out, "b.Box.String()")
	assertMatches(t, out, `type LabeledMeta\[T comparable\] struct \{\n\t\*base\.BoxMeta\[T\]\n`)
	assert.Contains(t, out, "BoxMeta: base.MetaBox[T](),")
	assert.Contains(t, out, "return &Labeled[T]{Box: new(base.Box[T])}, nil")
	assert.Contains(t, out, `beans.NewMetaProperty[T]("Labeled", "label", beans.ReadWrite)`)
	assert.Contains(t, out, "return beans.TypeOf[*Labeled[T]]()")
	assert.Contains(t, out, "//nolint:forcetypeassert")
}

func TestGenerate_Abstract(t *testing.T) {
	out := generate(t,
		"//beangen:bean",
		"//beangen:abstract",
		"type Shape struct {",
		"\tbeans.DirectBean",
		"}",
	)
	assert.Contains(t, out, `return nil, beans.NewUnsupportedError("CreateBean: Shape is abstract")`)
	assert.NotContains(t, out, "return &Shape{}")
}

func TestGenerate_Overrides(t *testing.T) {
	e := entity(t,
		"//beangen:bean",
		"type Person struct {",
		"\tbeans.DirectBean",
		"\t//beangen:property",
		"\tname string",
		"}",
	)
	e.ManualEquality = true
	e.ManualString = true
	out := render(t, config.DefaultGenerator(), e)
	assert.NotContains(t, out, "Equal(obj any) bool")
	assert.NotContains(t, out, "HashCode() int")
	assert.NotContains(t, out, "String() string")
	assert.Contains(t, out, "func (b *Person) Name() string")
}

func TestGenerate_Generic(t *testing.T) {
	out := generate(t,
		"//beangen:bean",
		"type Box[T any] struct {",
		"\tbeans.DirectBean",
		"\t//beangen:property",
		"\tvalue T",
		"}",
	)
	assert.Contains(t, out, "func MetaBox[T any]() *BoxMeta[T] {\n\treturn beans.Singleton(newBoxMeta[T])\n}")
	assert.NotContains(t, out, "MetaInstance")
	assert.Contains(t, out, "func (b *Box[T]) MetaBean() beans.MetaBean {\n\treturn MetaBox[T]()\n}")
	assert.Contains(t, out, "v, err := beans.Cast[T](propertyName, newValue)")
	assert.Contains(t, out, "func newBoxMeta[T any]() *BoxMeta[T] {")
	assert.Contains(t, out, "// PropertySet assigns a property by name or alias.\n//\n//nolint:forcetypeassert\nfunc (b *Box[T]) PropertySet(")
	assert.Contains(t, out, "return beans.NewProperty(b, MetaBox[T]().Value())")
}

func TestGenerate_Immutable(t *testing.T) {
	out := generate(t,
		"//beangen:bean(builderScope=\"private\")",
		"type Address struct {",
		"\tbeans.ImmutableBean",
		"\t//beangen:property(validate=\"notBlank\")",
		"\tstreet string",
		"\t//beangen:property",
		"\ttags []string",
		"}",
	)

	t.Run("Should generate a validating constructor", func(t *testing.T) {
		assert.Contains(t, out, "func NewAddress(street string, tags []string) (*Address, error) {\n"+
			"\tif err := beans.NotBlank(street, \"street\"); err != nil {\n\t\treturn nil, err\n\t}")
		assertMatches(t, out, `tags:\s+beans\.CloneSlice\(tags\),`)
		assert.Contains(t, out, "func (b *Address) Tags() []string {\n\treturn beans.CloneSlice(b.tags)\n}")
		assert.NotContains(t, out, "SetStreet")
		assert.NotContains(t, out, "PropertySet(")
		assert.Contains(t, out, "return b.ImmutableBean.PropertyGet(propertyName)")
	})

	t.Run("Should generate the builder", func(t *testing.T) {
		assert.Contains(t, out, "func newAddressBuilder() *AddressBuilder {\n\treturn &AddressBuilder{\n\t\ttags: []string{},\n\t}\n}")
		assert.Contains(t, out, "func (b *Address) ToBuilder() *AddressBuilder {\n\treturn newAddressBuilderFrom(b)\n}")
		assert.Contains(t, out, "func (m *AddressMeta) Builder() (beans.BeanBuilder, error) {\n\treturn newAddressBuilder(), nil\n}")
		assertMatches(t, out, `type AddressBuilder struct \{\n\tstreet\s+string\n\ttags\s+\[\]string\n\terr\s+error\n\}`)
		assertMatches(t, out, `tags:\s+beans\.CloneSlice\(bean\.tags\),`)
		assert.Contains(t, out, "return NewAddress(b.street, b.tags)")
		assert.Contains(t, out, "for _, name := range beans.SortedKeys(values) {")
		assert.Contains(t, out, "v, err := beans.FromString(value, mp.Type())")
		assert.Contains(t, out, "built, err := b.Build()")
		assert.Contains(t, out, "func (b *AddressBuilder) Street(street string) *AddressBuilder {\n"+
			"\tif err := beans.NotBlank(street, \"street\"); err != nil {\n\t\tif b.err == nil {\n\t\t\tb.err = err\n\t\t}\n\t\treturn b\n\t}\n"+
			"\tb.street = street\n\treturn b\n}")
	})
}

func TestGenerate_Styles(t *testing.T) {
	out := generate(t,
		"//beangen:bean",
		"type Flags struct {",
		"\tbeans.DirectBean",
		"\t//beangen:property(get=\"is\")",
		"\tactive bool",
		"\t//beangen:property(get=\"optional\")",
		"\tnickname *string",
		"\t//beangen:property",
		"\tb int",
		"}",
		"",
		"//beangen:derived",
		"func (f *Flags) Summary() string {",
		"\treturn \"\"",
		"}",
	)
	assert.Contains(t, out, "func (bean *Flags) IsActive() bool {")
	assert.Contains(t, out, "func (bean *Flags) Nickname() (string, bool) {\n\tif bean.nickname == nil {")
	assert.Contains(t, out, "return *bean.nickname, true")
	assert.Contains(t, out, "func (bean *Flags) SetB(b int) {\n\tbean.b = b\n}")
	assert.Contains(t, out, "case "+tag("summary")+": // summary\n\t\treturn bean.Summary(), nil")
	assert.Contains(t, out, "return beans.NewReadOnlyError(propertyName)")
	assertMatches(t, out, `summary:\s+beans\.NewMetaProperty\[string\]\("Flags", "summary", beans\.ReadOnly\),`)
	assert.NotContains(t, out, "bean.summary")
}

func TestGenerate_Config(t *testing.T) {
	e := entity(t,
		"//beangen:bean",
		"type Person struct {",
		"\tbeans.DirectBean",
		"\t//beangen:property",
		"\tname string",
		"}",
	)
	out := render(t, config.Generator{Indent: "tab", Prefix: "meta", Runtime: "rt"}, e)
	assert.Contains(t, out, "m.metaPropertyMap = rt.NewPropertyMap(nil, m.name)")
	assert.Contains(t, out, "func (b *Person) MetaBean() rt.MetaBean {")
	assert.NotContains(t, out, "beans.")
}

func TestFormatTag(t *testing.T) {
	assert.Regexp(t, `^0x[0-9a-f]{16}$`, tag("name"))
	assert.Equal(t, tag("name"), tag("name"))
	assert.NotEqual(t, tag("name"), tag("age"))
}

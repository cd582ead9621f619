// Package generator provides template-based synthesis of the generated region.
package generator

import (
	"bytes"
	"embed"
	"fmt"
	"go/format"
	"strings"
	"text/template"

	"github.com/cespare/xxhash/v2"

	"beangen/internal/config"
	"beangen/internal/model"
	"beangen/internal/style"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Generator executes the bean templates against parsed entities.
type Generator struct {
	config   config.Generator
	template *template.Template
}

// New creates a new Generator.
func New(cfg config.Generator) (*Generator, error) {
	tmpl, err := template.New("bean").
		Funcs(templateFuncs()).
		ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}
	return &Generator{
		config:   cfg,
		template: tmpl,
	}, nil
}

// Generate returns the gofmt-formatted lines of the generated region for e.
func (g *Generator) Generate(e *model.Entity) ([]string, error) {
	data, err := g.newEntityData(e)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString("package generated\n\n")
	if err := g.template.ExecuteTemplate(&buf, "bean.tmpl", data); err != nil {
		return nil, fmt.Errorf("executing template for %s: %w", e.Name, err)
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("formatting generated code for %s: %w", e.Name, err)
	}
	_, body, _ := bytes.Cut(src, []byte("\n"))
	return strings.Split(strings.TrimSpace(string(body)), "\n"), nil
}

// NameTag returns the stable dispatch tag of a property name.
func NameTag(name string) uint64 {
	return xxhash.Sum64String(name)
}

// EntityData is the view of one entity handed to the templates.
type EntityData struct {
	Recv     string // Receiver name of bean and builder methods
	RT       string // Runtime package name
	Name     string // Raw entity name
	Ref      string // Instantiated entity type (e.g., "Box[T]")
	Decl     string // Type parameter declaration (e.g., "[T any]")
	Args     string // Type argument suffix (e.g., "[T]")
	Embedded string // Embedded field receiving dispatch fallbacks

	Meta      string // Meta type name
	MetaRef   string // Instantiated meta type
	MetaFunc  string // Meta singleton accessor name
	MetaCall  string // Expression returning the meta singleton
	MetaNew   string // Meta constructor name
	MetaVar   string // Package variable holding the meta singleton
	Tags      string // Package variable holding the name tags
	MapField  string // Meta field holding the property map
	Super     *SuperData
	Generic   bool
	Mutable   bool
	Abstract  bool
	GenEqual  bool
	GenString bool
	NoLint    bool

	Constructor    string // Validating constructor of immutable entities
	Builder        string // Builder type name
	BuilderRef     string // Instantiated builder type
	NewBuilder     string // Builder factory name
	NewBuilderFrom string // Builder copy constructor name

	StringExpr  string
	Collections bool // A stored property has a collection shape
	Properties  []*PropertyData
	Stored      []*PropertyData
	Tagged      []TagData
}

// SuperData describes the embedded parent entity.
type SuperData struct {
	Field     string // Embedded field name
	Ref       string // Instantiated parent type
	Pointer   bool   // Embedded through a pointer
	MetaField string // Embedded field name of the parent meta
	MetaRef   string // Instantiated parent meta type
	MetaCall  string // Expression returning the parent meta singleton
}

// PropertyData is the view of one property.
type PropertyData struct {
	*style.Accessor
	Name      string // Property name
	Cap       string // Name with its first letter upper cased
	Member    string // Name with its first letter lower cased, used for meta and builder fields
	Param     string // Parameter name in setters and constructors
	Type      string // Declared type text
	Tag       string // Hex dispatch tag of the name
	AliasTag  string // Hex dispatch tag of the alias, empty without alias
	Alias     string
	Doc       string
	Derived   bool
	Validated bool
	Empty     string // Empty literal of a collection, empty for other shapes
	ReadExpr  string // Value read from the bean receiver
	FieldExpr string // Backing field of the bean receiver
}

// TagData is one entry of the name tag table.
type TagData struct {
	Name string
	Tag  string
}

// newEntityData resolves every property and precomputes the names used by the templates.
func (g *Generator) newEntityData(e *model.Entity) (*EntityData, error) {
	rt := g.config.Runtime
	d := &EntityData{
		RT:        rt,
		Name:      e.Name,
		Ref:       e.Ref(),
		Decl:      e.Decl(),
		Args:      e.Args(),
		Embedded:  e.Embedded(),
		Meta:      e.Name + "Meta",
		MetaRef:   e.Name + "Meta" + e.Args(),
		MetaFunc:  "Meta" + e.Name,
		MetaCall:  "Meta" + e.Name + e.Args() + "()",
		MetaNew:   "new" + e.Name + "Meta",
		MetaVar:   camelCase(e.Name) + "MetaInstance",
		Tags:      camelCase(e.Name) + "PropertyTags",
		MapField:  mapField(g.config.Prefix),
		Generic:   e.IsGeneric(),
		Mutable:   !e.IsImmutable(),
		Abstract:  !e.Constructable,
		GenEqual:  !e.ManualEquality,
		GenString: !e.ManualString,
		NoLint:    e.HasGenericWriter(),
	}
	d.Recv = receiverName(e, rt)
	d.Constructor = scoped(e.ConstructorScope, "New"+e.Name)
	d.Builder = e.Name + "Builder"
	d.BuilderRef = d.Builder + e.Args()
	d.NewBuilder = scoped(e.BuilderScope, "New"+e.Name+"Builder")
	d.NewBuilderFrom = "new" + e.Name + "BuilderFrom"

	if e.IsSubclass() {
		s := e.Super
		d.Super = &SuperData{
			Field:     s.Name,
			Ref:       s.Ref(),
			Pointer:   s.Pointer,
			MetaField: s.Name + "Meta",
			MetaRef:   s.Instantiate(s.Qualify(s.Name + "Meta")),
			MetaCall:  s.Instantiate(s.Qualify("Meta"+s.Name)) + "()",
		}
	}

	tags := make(map[string]string)
	for _, p := range e.Properties {
		acc, err := style.Resolve(e, p, rt)
		if err != nil {
			return nil, err
		}
		pd := &PropertyData{
			Accessor:  acc,
			Name:      p.Name,
			Cap:       upperFirst(p.Name),
			Member:    lowerFirst(p.Name),
			Param:     paramName(p.Name, d.Recv, rt),
			Type:      p.Type.Raw,
			Alias:     p.Alias,
			Doc:       p.Doc,
			Derived:   p.Derived,
			Validated: p.Validation != model.ValidateNone,
			ReadExpr:  acc.ReadOn(d.Recv),
			FieldExpr: acc.FieldOn(d.Recv),
		}
		if p.Type.IsCollection() && p.Stored() {
			pd.Empty = p.Type.Raw + "{}"
			d.Collections = true
		}
		for _, name := range []string{p.Name, p.Alias} {
			if name == "" {
				continue
			}
			tag := formatTag(NameTag(name))
			if other, dup := tags[tag]; dup {
				return nil, model.Errorf(model.ErrMalformedDeclaration, e.Unit, p.Line,
					"names %q and %q share dispatch tag %s", other, name, tag)
			}
			tags[tag] = name
			d.Tagged = append(d.Tagged, TagData{Name: name, Tag: tag})
			if name == p.Name {
				pd.Tag = tag
			} else {
				pd.AliasTag = tag
			}
		}
		d.Properties = append(d.Properties, pd)
		if p.Stored() {
			d.Stored = append(d.Stored, pd)
		}
	}
	d.StringExpr = stringExpr(d)
	return d, nil
}

// stringExpr builds the concatenation returned by the generated String method.
func stringExpr(d *EntityData) string {
	var parts []string
	for _, p := range d.Properties {
		parts = append(parts, fmt.Sprintf("%q + %s.ToString(%s)", p.Name+"=", d.RT, p.ReadExpr))
	}
	if s := d.Super; s != nil {
		if s.Pointer {
			parts = append(parts, fmt.Sprintf("%s.ToString(%s.%s)", d.RT, d.Recv, s.Field))
		} else {
			parts = append(parts, d.Recv+"."+s.Field+".String()")
		}
	}
	if len(parts) == 0 {
		return fmt.Sprintf("%q", d.Name+"{}")
	}
	return fmt.Sprintf("%q + %s + %q", d.Name+"{", strings.Join(parts, ` + ", " + `), "}")
}

func formatTag(tag uint64) string {
	return fmt.Sprintf("0x%016x", tag)
}

// receiverName picks a receiver that no property parameter shadows.
func receiverName(e *model.Entity, rt string) string {
	for _, candidate := range []string{"b", "bean", "self"} {
		if candidate != rt && e.Property(candidate) == nil {
			return candidate
		}
	}
	return "recv"
}

// paramName renames parameters that would shadow the receiver or the runtime package.
func paramName(name, recv, rt string) string {
	if name == recv || name == rt {
		return name + "Value"
	}
	return name
}

// mapField names the meta field holding the property map.
func mapField(prefix string) string {
	if prefix == "" {
		return "propertyMap"
	}
	return prefix + "PropertyMap"
}

// scoped returns name unexported unless scope is public.
func scoped(scope model.Scope, name string) string {
	if scope.Exported() {
		return name
	}
	return lowerFirst(name)
}

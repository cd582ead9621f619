package beans

// Access tells whether a property can be assigned through its bean.
type Access int

const (
	ReadWrite Access = iota
	ReadOnly
)

func (a Access) String() string {
	if a == ReadOnly {
		return "read-only"
	}
	return "read-write"
}

// MetaProperty describes one property of a bean type.
type MetaProperty struct {
	beanName string
	name     string
	typ      Type
	access   Access
}

// NewMetaProperty creates the descriptor of property name declared by beanName.
func NewMetaProperty[T any](beanName, name string, access Access) *MetaProperty {
	return &MetaProperty{
		beanName: beanName,
		name:     name,
		typ:      TypeOf[T](),
		access:   access,
	}
}

// Name returns the property name.
func (m *MetaProperty) Name() string { return m.name }

// DeclaringBean returns the name of the bean type that declares the property.
func (m *MetaProperty) DeclaringBean() string { return m.beanName }

// Type returns the property type.
func (m *MetaProperty) Type() Type { return m.typ }

// Access returns whether the property is writable.
func (m *MetaProperty) Access() Access { return m.access }

// Get reads the property from bean.
func (m *MetaProperty) Get(bean Bean) (any, error) {
	return bean.PropertyGet(m.name)
}

// Set assigns the property on bean.
func (m *MetaProperty) Set(bean Bean, value any) error {
	if m.access == ReadOnly {
		return NewReadOnlyError(m.name)
	}
	return bean.PropertySet(m.name, value)
}

func (m *MetaProperty) String() string {
	return m.beanName + ":" + m.name
}

// Property is a MetaProperty bound to one bean.
type Property struct {
	bean Bean
	meta *MetaProperty
}

// NewProperty binds meta to bean.
func NewProperty(bean Bean, meta *MetaProperty) Property {
	return Property{bean: bean, meta: meta}
}

// Name returns the property name.
func (p Property) Name() string { return p.meta.Name() }

// Bean returns the bound bean.
func (p Property) Bean() Bean { return p.bean }

// Meta returns the property descriptor.
func (p Property) Meta() *MetaProperty { return p.meta }

// Get reads the current value.
func (p Property) Get() (any, error) { return p.meta.Get(p.bean) }

// Set assigns a new value.
func (p Property) Set(value any) error { return p.meta.Set(p.bean, value) }

package beans

import "iter"

// PropertyMap is the ordered set of property descriptors of a bean type,
// chained to the map of its supertype. Aliases resolve through Get but are
// never part of iteration.
type PropertyMap struct {
	parent  *PropertyMap
	order   []*MetaProperty
	byName  map[string]*MetaProperty
	aliases map[string]string
}

// NewPropertyMap creates a map holding props after the entries of parent,
// which may be nil.
func NewPropertyMap(parent *PropertyMap, props ...*MetaProperty) *PropertyMap {
	m := &PropertyMap{
		parent:  parent,
		byName:  make(map[string]*MetaProperty, len(props)),
		aliases: make(map[string]string),
	}
	for _, p := range props {
		if _, dup := m.byName[p.Name()]; dup {
			continue
		}
		m.order = append(m.order, p)
		m.byName[p.Name()] = p
	}
	return m
}

// WithAlias registers alias as a second name of property name.
func (m *PropertyMap) WithAlias(alias, name string) *PropertyMap {
	m.aliases[alias] = name
	return m
}

// Get returns the descriptor for a property name or alias, searching the
// supertype maps last.
func (m *PropertyMap) Get(name string) (*MetaProperty, bool) {
	if p, ok := m.byName[name]; ok {
		return p, true
	}
	if target, ok := m.aliases[name]; ok {
		if p, ok := m.byName[target]; ok {
			return p, true
		}
	}
	if m.parent != nil {
		return m.parent.Get(name)
	}
	return nil, false
}

// Contains reports whether name or an alias resolves.
func (m *PropertyMap) Contains(name string) bool {
	_, ok := m.Get(name)
	return ok
}

// All iterates over every property, inherited ones first.
func (m *PropertyMap) All() iter.Seq2[string, *MetaProperty] {
	return func(yield func(string, *MetaProperty) bool) {
		for _, p := range m.Properties() {
			if !yield(p.Name(), p) {
				return
			}
		}
	}
}

// Properties returns every property, inherited ones first. A property
// redeclared by a subtype takes the position of the inherited one.
func (m *PropertyMap) Properties() []*MetaProperty {
	var result []*MetaProperty
	if m.parent != nil {
		for _, p := range m.parent.Properties() {
			if own, ok := m.byName[p.Name()]; ok {
				p = own
			}
			result = append(result, p)
		}
	}
	for _, p := range m.order {
		if m.parent != nil && m.parent.declares(p.Name()) {
			continue
		}
		result = append(result, p)
	}
	return result
}

// declares reports whether name is a property name of m or its parents.
func (m *PropertyMap) declares(name string) bool {
	for cur := m; cur != nil; cur = cur.parent {
		if _, ok := cur.byName[name]; ok {
			return true
		}
	}
	return false
}

// Names returns every property name in iteration order.
func (m *PropertyMap) Names() []string {
	props := m.Properties()
	names := make([]string, len(props))
	for i, p := range props {
		names[i] = p.Name()
	}
	return names
}

// Len returns the number of properties, aliases excluded.
func (m *PropertyMap) Len() int {
	return len(m.Properties())
}

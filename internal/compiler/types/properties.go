package types

// PropertyMap is an insertion-ordered name to property mapping.
type PropertyMap struct {
	names  []string
	byName map[string]*ModelProperty
}

// NewPropertyMap creates a map holding props in the given order.
func NewPropertyMap(props ...*ModelProperty) *PropertyMap {
	pm := &PropertyMap{byName: make(map[string]*ModelProperty, len(props))}
	for _, p := range props {
		pm.Set(p)
	}
	return pm
}

// Get returns the property with the given name.
func (pm *PropertyMap) Get(name string) (*ModelProperty, bool) {
	if pm == nil {
		return nil, false
	}
	p, ok := pm.byName[name]
	return p, ok
}

// Set adds p, replacing any property of the same name in place.
func (pm *PropertyMap) Set(p *ModelProperty) {
	if _, exists := pm.byName[p.Name]; !exists {
		pm.names = append(pm.names, p.Name)
	}
	pm.byName[p.Name] = p
}

// Len returns the number of properties.
func (pm *PropertyMap) Len() int {
	if pm == nil {
		return 0
	}
	return len(pm.names)
}

// Values returns the properties in insertion order.
func (pm *PropertyMap) Values() []*ModelProperty {
	if pm == nil {
		return nil
	}
	out := make([]*ModelProperty, len(pm.names))
	for i, name := range pm.names {
		out[i] = pm.byName[name]
	}
	return out
}

// Names returns the property names in insertion order.
func (pm *PropertyMap) Names() []string {
	if pm == nil {
		return nil
	}
	out := make([]string, len(pm.names))
	copy(out, pm.names)
	return out
}

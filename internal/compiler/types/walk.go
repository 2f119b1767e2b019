package types

// IsIntrinsic reports whether t is an opaque built-in that projections and
// metadata gathering must leave alone.
func IsIntrinsic(t Type) bool {
	m, ok := t.(*Model)
	return ok && m.Intrinsic
}

// IsArrayModel reports whether m is array-like, i.e. indexed by integer.
func IsArrayModel(t Type) bool {
	m, ok := t.(*Model)
	if !ok || m.Indexer == nil || m.Indexer.Key == nil {
		return false
	}
	return m.Indexer.Key.Name == ScalarInteger
}

// IsTemplateInstance reports whether m was produced by instantiating a
// template.
func IsTemplateInstance(m *Model) bool {
	return len(m.TemplateArguments) > 0
}

// WalkPropertiesInherited returns the properties of m and its base chain,
// most derived first. A property redeclared in a derived model hides the
// base property of the same name.
func WalkPropertiesInherited(m *Model) []*ModelProperty {
	var out []*ModelProperty
	seen := make(map[string]bool)
	visited := make(map[*Model]bool)
	for current := m; current != nil && !visited[current]; current = current.BaseModel {
		visited[current] = true
		for _, p := range current.Properties.Values() {
			if seen[p.Name] {
				continue
			}
			seen[p.Name] = true
			out = append(out, p)
		}
	}
	return out
}

// FilterModelProperties returns m when every inherited property satisfies
// keep. Otherwise it returns a new anonymous model holding copies of the
// kept properties, each pointing back at its source. onClone, when set, is
// called with every source and its copy.
func FilterModelProperties(p *Program, m *Model, keep func(*ModelProperty) bool, onClone func(from, to *ModelProperty)) *Model {
	props := WalkPropertiesInherited(m)
	filtered := false
	for _, prop := range props {
		if !keep(prop) {
			filtered = true
			break
		}
	}
	if !filtered {
		return m
	}

	out := &Model{
		Namespace:  m.Namespace,
		Properties: NewPropertyMap(),
		Loc:        m.Loc,
	}
	for _, prop := range props {
		if !keep(prop) {
			continue
		}
		clone := CloneProperty(prop)
		clone.SourceProperty = prop
		if onClone != nil {
			onClone(prop, clone)
		}
		AddProperty(out, clone)
	}
	return p.FinishType(out)
}

package openapi

import (
	"strconv"

	"github.com/conduit-lang/prism/internal/compiler/rest"
	"github.com/conduit-lang/prism/internal/compiler/types"
)

// assignNames gives every named model reachable from routes a component
// name. Declared models are named first so they keep their own names.
func (e *emitter) assignNames(routes []rest.OperationDetails) {
	var found []*types.Model
	seen := make(map[*types.Model]bool)

	var visit func(t types.Type)
	visit = func(t types.Type) {
		m, ok := t.(*types.Model)
		if !ok || m == nil || m.Intrinsic || seen[m] {
			return
		}
		seen[m] = true
		if declaredName(m) != "" && !types.IsArrayModel(m) {
			found = append(found, m)
		}
		if m.BaseModel != nil {
			visit(m.BaseModel)
		}
		if m.Indexer != nil {
			visit(m.Indexer.Value)
		}
		for _, arg := range m.TemplateArguments {
			visit(arg)
		}
		for _, p := range m.Properties.Values() {
			visit(p.Type)
		}
	}

	for _, r := range routes {
		for _, p := range r.Parameters.Parameters {
			visit(p.Param.Type)
		}
		visit(r.Parameters.BodyType)
		for _, resp := range r.Responses {
			for _, h := range resp.Headers {
				visit(h.Property.Type)
			}
			visit(resp.Body)
		}
	}

	for _, m := range found {
		if m.Origin == nil {
			e.claim(m, componentName(m))
		}
	}
	for _, m := range found {
		if m.Origin != nil {
			e.claim(m, componentName(m))
		}
	}
}

// declaredName is the name of m, or of the template instance an anonymous
// projection was made from.
func declaredName(m *types.Model) string {
	for ; m != nil; m = m.Origin {
		if m.Name != "" {
			return m.Name
		}
		if !types.IsTemplateInstance(m) {
			return ""
		}
	}
	return ""
}

func (e *emitter) claim(m *types.Model, name string) {
	if e.taken[name] && m.Variant != "" {
		name += m.Variant
	}
	candidate := name
	for i := 2; e.taken[candidate]; i++ {
		candidate = name + strconv.Itoa(i)
	}
	e.taken[candidate] = true
	e.names[m] = candidate
}

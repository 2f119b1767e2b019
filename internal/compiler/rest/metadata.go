package rest

import (
	"github.com/conduit-lang/prism/internal/compiler/decorators"
	"github.com/conduit-lang/prism/internal/compiler/state"
	"github.com/conduit-lang/prism/internal/compiler/types"
	"github.com/conduit-lang/prism/internal/compiler/visibility"
)

// IsMetadata reports whether prop travels outside the payload body as a
// header, query or path parameter, or status code.
func IsMetadata(s state.Store, prop *types.ModelProperty) bool {
	return decorators.IsHeader(s, prop) ||
		decorators.IsQuery(s, prop) ||
		decorators.IsPath(s, prop) ||
		decorators.IsStatusCode(s, prop)
}

// IsVisible reports whether prop is visible at v. The Item flag is ignored.
func IsVisible(s state.Store, prop *types.ModelProperty, v visibility.Visibility) bool {
	return decorators.IsVisible(s, prop, v.Labels())
}

// IsApplicableMetadata reports whether prop is metadata that is split out of
// the body at v.
func IsApplicableMetadata(s state.Store, prop *types.ModelProperty, v visibility.Visibility) bool {
	return isApplicableMetadata(s, prop, v, false)
}

// IsApplicableMetadataOrBody is IsApplicableMetadata that also accepts @body
// properties.
func IsApplicableMetadataOrBody(s state.Store, prop *types.ModelProperty, v visibility.Visibility) bool {
	return isApplicableMetadata(s, prop, v, true)
}

func isApplicableMetadata(s state.Store, prop *types.ModelProperty, v visibility.Visibility, bodyIsMetadata bool) bool {
	if v.Has(visibility.Item) {
		return false
	}
	if bodyIsMetadata && decorators.IsBody(s, prop) {
		return true
	}
	if !IsMetadata(s, prop) {
		return false
	}

	switch {
	case v == visibility.Read:
		// Query and path parameters only exist on requests.
		return decorators.IsHeader(s, prop) || decorators.IsStatusCode(s, prop)
	case !v.Has(visibility.Read):
		// Status codes only exist on responses.
		return !decorators.IsStatusCode(s, prop)
	default:
		return true
	}
}

// GatherMetadata collects the metadata and body properties reachable from
// typ at v, in discovery order. Nested models are searched breadth first and
// a name seen at a shallower depth hides deeper properties of the same name.
func GatherMetadata(s state.Store, typ types.Type, v visibility.Visibility) []*types.ModelProperty {
	root, ok := typ.(*types.Model)
	if !ok || root == nil || root.Intrinsic || types.IsArrayModel(root) {
		return nil
	}

	var out []*types.ModelProperty
	recorded := make(map[string]bool)
	visited := map[*types.Model]bool{root: true}
	queue := []*types.Model{root}

	for len(queue) > 0 {
		model := queue[0]
		queue = queue[1:]

		for _, prop := range types.WalkPropertiesInherited(model) {
			if !IsVisible(s, prop, v) {
				continue
			}
			// Duplicates are dropped without a diagnostic. The shallowest
			// declaration wins.
			if recorded[prop.Name] {
				continue
			}
			if IsApplicableMetadataOrBody(s, prop, v) {
				recorded[prop.Name] = true
				out = append(out, prop)
			}

			if nested, ok := prop.Type.(*types.Model); ok &&
				!nested.Intrinsic && !types.IsArrayModel(nested) && !visited[nested] {
				visited[nested] = true
				queue = append(queue, nested)
			}
		}
	}
	return out
}

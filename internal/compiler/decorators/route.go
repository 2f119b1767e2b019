package decorators

import (
	"github.com/conduit-lang/prism/internal/compiler/diagnostics"
	"github.com/conduit-lang/prism/internal/compiler/state"
	"github.com/conduit-lang/prism/internal/compiler/types"
)

// RoutePath is an explicit route fragment attached to a container or
// operation.
type RoutePath struct {
	Path    string
	IsReset bool
}

var routeTargets = []types.Kind{types.KindNamespace, types.KindInterface, types.KindOperation}

// SetRoute applies @route to target.
func SetRoute(s state.Store, target types.Type, path string) diagnostics.List {
	return setRoute(s, "@route", target, RoutePath{Path: path})
}

// SetRouteReset applies @routeReset to target.
func SetRouteReset(s state.Store, target types.Type, path string) diagnostics.List {
	return setRoute(s, "@routeReset", target, RoutePath{Path: path, IsReset: true})
}

func setRoute(s state.Store, decorator string, target types.Type, route RoutePath) diagnostics.List {
	if diags, ok := validateTarget(decorator, target, routeTargets...); !ok {
		return diags
	}

	existing, ok := Route(s, target)
	if !ok {
		s.Set(keyRoute, target, route)
		return nil
	}

	switch target.Kind() {
	case types.KindOperation, types.KindInterface:
		messageID := diagnostics.MessageInterface
		if target.Kind() == types.KindOperation {
			messageID = diagnostics.MessageOperation
		}
		return diagnostics.List{diagnostics.Create(diagnostics.Spec{
			Code:      diagnostics.CodeDuplicateRouteDecorator,
			MessageID: messageID,
			Target:    target,
		})}
	default:
		// Namespaces may be reopened; only a conflicting path is an error.
		if existing.Path != route.Path {
			return diagnostics.List{diagnostics.Create(diagnostics.Spec{
				Code:      diagnostics.CodeDuplicateRouteDecorator,
				MessageID: diagnostics.MessageNamespace,
				Target:    target,
			})}
		}
		return nil
	}
}

// Route returns the explicit route of target, if any.
func Route(s state.Store, target types.Type) (RoutePath, bool) {
	v, ok := s.Get(keyRoute, target)
	if !ok {
		return RoutePath{}, false
	}
	route, ok := v.(RoutePath)
	return route, ok
}

// SetAutoRoute enables automatic route generation for target and everything
// beneath it.
func SetAutoRoute(s state.Store, target types.Type) diagnostics.List {
	if diags, ok := validateTarget("@autoRoute", target, routeTargets...); !ok {
		return diags
	}
	s.Set(keyAutoRoute, target, true)
	return nil
}

// HasAutoRoute reports whether @autoRoute was applied to target itself.
func HasAutoRoute(s state.Store, target types.Type) bool {
	return s.Has(keyAutoRoute, target)
}

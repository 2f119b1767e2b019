package rest

import (
	"regexp"
	"strings"

	"github.com/conduit-lang/prism/internal/compiler/decorators"
	"github.com/conduit-lang/prism/internal/compiler/diagnostics"
	"github.com/conduit-lang/prism/internal/compiler/state"
	"github.com/conduit-lang/prism/internal/compiler/types"
)

// FilteredRouteParam overrides how a path parameter appears in a generated
// route.
type FilteredRouteParam struct {
	// RouteParamString replaces the {name} placeholder.
	RouteParamString string
	// ExcludeFromOperationParams drops the parameter from the bindings once
	// it is baked into the path.
	ExcludeFromOperationParams bool
}

// AutoRouteOptions customize automatic route generation.
type AutoRouteOptions struct {
	ParamFilter func(op *types.Operation, param *types.ModelProperty) *FilteredRouteParam
}

// RouteOptions customize route building for a container.
type RouteOptions struct {
	AutoRoute AutoRouteOptions
}

const keyRouteOptions state.Key = "routeOptions"

// SetRouteOptionsForNamespace registers options used when routes are built
// for ns without explicit options.
func SetRouteOptionsForNamespace(s state.Store, ns *types.Namespace, opts RouteOptions) {
	s.Set(keyRouteOptions, ns, opts)
}

func routeOptionsForNamespace(s state.Store, ns *types.Namespace) (RouteOptions, bool) {
	v, ok := s.Get(keyRouteOptions, ns)
	if !ok {
		return RouteOptions{}, false
	}
	opts, ok := v.(RouteOptions)
	return opts, ok
}

func normalizeFragment(fragment string) string {
	if fragment != "" && fragment[0] != '/' && fragment[0] != ':' {
		fragment = "/" + fragment
	}
	return strings.TrimSuffix(fragment, "/")
}

// BuildPath joins route fragments into a path with exactly one leading "/".
func BuildPath(fragments []string) string {
	if len(fragments) == 0 {
		return "/"
	}

	var b strings.Builder
	for _, f := range fragments {
		b.WriteString(normalizeFragment(f))
	}
	path := b.String()
	if strings.HasPrefix(path, "/") {
		return path
	}
	return "/" + path
}

var pathParamPattern = regexp.MustCompile(`\{(\w+)\}`)

// ExtractParamsFromPath returns the names of the {name} placeholders in path.
func ExtractParamsFromPath(path string) []string {
	matches := pathParamPattern.FindAllStringSubmatch(path, -1)
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m[1])
	}
	return names
}

// IsAutoRoute reports whether @autoRoute applies to target, directly or
// through an enclosing interface or namespace.
func IsAutoRoute(s state.Store, target types.Type) bool {
	for current := target; current != nil; {
		if decorators.HasAutoRoute(s, current) {
			return true
		}
		switch c := current.(type) {
		case *types.Operation:
			current = parentOf(c)
		case *types.Interface:
			current = namespaceOrNil(c.Namespace)
		case *types.Namespace:
			current = namespaceOrNil(c.Namespace)
		default:
			diagnostics.Assert(false, "unreachable: %s is not a route container", current.Kind())
		}
	}
	return false
}

func parentOf(op *types.Operation) types.Type {
	if op.Interface != nil {
		return op.Interface
	}
	return namespaceOrNil(op.Namespace)
}

// namespaceOrNil avoids a typed nil inside the types.Type interface.
func namespaceOrNil(ns *types.Namespace) types.Type {
	if ns == nil {
		return nil
	}
	return ns
}

func (s *Session) addSegmentFragment(target types.Type, fragments []string) []string {
	segment := decorators.Segment(s.store, target)
	if segment == "" {
		return fragments
	}
	sep, ok := decorators.SegmentSeparator(s.store, target)
	if !ok {
		sep = "/"
	}
	return append(fragments, sep+segment)
}

// generatePathFromParameters appends a fragment per path parameter and the
// operation's own segment. Parameters baked into the path are removed from
// params.
func (s *Session) generatePathFromParameters(op *types.Operation, fragments []string, params *OperationParameters, opts RouteOptions) []string {
	kept := make([]OperationParameter, 0, len(params.Parameters))
	for _, p := range params.Parameters {
		if p.Type != LocationPath {
			kept = append(kept, p)
			continue
		}

		fragments = s.addSegmentFragment(p.Param, fragments)

		var filtered *FilteredRouteParam
		if opts.AutoRoute.ParamFilter != nil {
			filtered = opts.AutoRoute.ParamFilter(op, p.Param)
		}
		switch lit, isLiteral := p.Param.Type.(*types.StringLiteral); {
		case filtered != nil && filtered.RouteParamString != "":
			fragments = append(fragments, "/"+filtered.RouteParamString)
			if filtered.ExcludeFromOperationParams {
				continue
			}
		case isLiteral:
			fragments = append(fragments, "/"+lit.Value)
			continue
		default:
			fragments = append(fragments, "/{"+p.Param.Name+"}")
		}
		kept = append(kept, p)
	}
	params.Parameters = kept

	return s.addSegmentFragment(op, fragments)
}

// routeForOperation binds the parameters of op and resolves its path under
// the container fragments.
func (s *Session) routeForOperation(c *diagnostics.Collector, op *types.Operation, containerFragments []string, verb Verb, opts RouteOptions) (path, fragment string, params OperationParameters) {
	params, diags := s.GetOperationParameters(verb, op)
	c.Pipe(diags)

	fragments := append([]string(nil), containerFragments...)
	route, hasRoute := decorators.Route(s.store, op)
	if hasRoute {
		fragment = route.Path
	}

	if IsAutoRoute(s.store, op) {
		fragments = s.generatePathFromParameters(op, fragments, &params, opts)
		return BuildPath(fragments), fragment, params
	}

	if hasRoute {
		if route.IsReset {
			fragments = fragments[:0]
		}
		fragments = append(fragments, route.Path)
	}

	var names []string
	byName := make(map[string]bool)
	for _, p := range params.Parameters {
		if p.Type == LocationPath && !byName[p.Param.Name] {
			byName[p.Param.Name] = true
			names = append(names, p.Param.Name)
		}
	}

	for _, f := range fragments {
		for _, declared := range ExtractParamsFromPath(f) {
			if !byName[declared] {
				c.Add(diagnostics.Create(diagnostics.Spec{
					Code:   diagnostics.CodeMissingPathParam,
					Format: map[string]string{"param": declared},
					Target: op,
				}))
				continue
			}
			delete(byName, declared)
		}
	}

	for _, name := range names {
		if byName[name] {
			fragments = append(fragments, "{"+name+"}")
		}
	}
	return BuildPath(fragments), fragment, params
}

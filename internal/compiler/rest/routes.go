package rest

import (
	"go.uber.org/zap"

	"github.com/conduit-lang/prism/internal/compiler/decorators"
	"github.com/conduit-lang/prism/internal/compiler/diagnostics"
	"github.com/conduit-lang/prism/internal/compiler/types"
)

// OperationDetails is one entry of the route table.
type OperationDetails struct {
	Path string
	// PathFragment is the operation's own @route text, if any.
	PathFragment string
	Verb         Verb
	// Container is the *types.Namespace or *types.Interface the operation
	// was routed through.
	Container  types.Type
	Parameters OperationParameters
	Responses  []Response
	Operation  *types.Operation
}

// GetRoutesForContainer builds the routes of container and the containers
// beneath it, skipping operations already in visited. When opts is nil the
// options registered for a namespace container are used.
func (s *Session) GetRoutesForContainer(container types.Type, visited map[*types.Operation]bool, opts *RouteOptions) ([]OperationDetails, diagnostics.List) {
	var routeOpts RouteOptions
	switch {
	case opts != nil:
		routeOpts = *opts
	default:
		if ns, ok := container.(*types.Namespace); ok {
			routeOpts, _ = routeOptionsForNamespace(s.store, ns)
		}
	}

	c := diagnostics.NewCollector()
	routes := s.buildRoutes(c, container, nil, visited, routeOpts)
	return routes, c.Diagnostics()
}

func (s *Session) buildRoutes(c *diagnostics.Collector, container types.Type, fragments []string, visited map[*types.Operation]bool, opts RouteOptions) []OperationDetails {
	var ops []*types.Operation
	switch ct := container.(type) {
	case *types.Interface:
		if ct.TemplateDeclaration {
			return nil
		}
		ops = ct.Operations
	case *types.Namespace:
		ops = ct.Operations
	default:
		diagnostics.Assert(false, "unreachable: %s is not a route container", container.Kind())
	}

	parentFragments := append([]string(nil), fragments...)
	if route, ok := decorators.Route(s.store, container); ok {
		if route.IsReset {
			parentFragments = parentFragments[:0]
		}
		parentFragments = append(parentFragments, route.Path)
	}

	var out []OperationDetails
	for _, op := range ops {
		if visited[op] || op.TemplateDeclaration || op.TemplateInstance {
			continue
		}
		out = append(out, s.operationDetails(c, container, op, parentFragments, opts))
	}

	ns, ok := container.(*types.Namespace)
	if !ok {
		return out
	}

	var children []types.Type
	// Sub-namespaces of the global namespace are not part of any service.
	if !s.program.IsGlobalNamespace(ns) {
		for _, child := range ns.Namespaces {
			children = append(children, child)
		}
	}
	for _, iface := range ns.Interfaces {
		children = append(children, iface)
	}
	for _, iface := range decorators.ExternalInterfaces(s.store, s.program, ns) {
		children = append(children, iface)
	}

	for _, child := range children {
		out = append(out, s.buildRoutes(c, child, parentFragments, visited, opts)...)
	}

	s.logger.Debug("built routes",
		zap.String("container", ns.String()),
		zap.Int("routes", len(out)))
	return out
}

func (s *Session) operationDetails(c *diagnostics.Collector, container types.Type, op *types.Operation, fragments []string, opts RouteOptions) OperationDetails {
	verb, hasVerb := verbForOperation(s.store, op)
	requestVerb := verb
	if !hasVerb {
		requestVerb = VerbGet
	}

	path, fragment, params := s.routeForOperation(c, op, fragments, requestVerb, opts)

	if !hasVerb {
		verb = VerbGet
		if params.HasBody() {
			verb = VerbPost
			c.Add(diagnostics.Create(diagnostics.Spec{
				Code:   diagnostics.CodeVerbMissingWithBody,
				Format: map[string]string{"operationName": op.Name},
				Target: op,
			}))
		}
	}

	return OperationDetails{
		Path:         path,
		PathFragment: fragment,
		Verb:         verb,
		Container:    container,
		Parameters:   params,
		Responses:    s.GetResponsesForOperation(op),
		Operation:    op,
	}
}

// GetAllRoutes builds and validates the route table of the service
// namespace. Without a service namespace the table is empty.
func (s *Session) GetAllRoutes(opts *RouteOptions) ([]OperationDetails, diagnostics.List) {
	c := diagnostics.NewCollector()

	var namespaces []*types.Namespace
	if s.service != nil {
		namespaces = append(namespaces, s.service)
	}

	visited := make(map[*types.Operation]bool)
	var routes []OperationDetails
	for _, ns := range namespaces {
		newRoutes, diags := s.GetRoutesForContainer(ns, visited, opts)
		c.Pipe(diags)
		for _, r := range newRoutes {
			visited[r.Operation] = true
		}
		routes = append(routes, newRoutes...)
	}

	s.validateRouteUnique(c, routes)
	return routes, c.Diagnostics()
}

type routeKey struct {
	path string
	verb Verb
}

// validateRouteUnique reports every operation that shares its path and verb
// with another.
func (s *Session) validateRouteUnique(c *diagnostics.Collector, routes []OperationDetails) {
	var order []routeKey
	groups := make(map[routeKey][]OperationDetails)
	for _, r := range routes {
		key := routeKey{path: r.Path, verb: r.Verb}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], r)
	}

	for _, key := range order {
		group := groups[key]
		if len(group) < 2 {
			continue
		}
		for _, r := range group {
			s.logger.Debug("duplicate operation",
				zap.String("operation", r.Operation.Name),
				zap.String("verb", string(key.verb)),
				zap.String("path", key.path))
			c.Add(diagnostics.Create(diagnostics.Spec{
				Code: diagnostics.CodeDuplicateOperation,
				Format: map[string]string{
					"operationName": r.Operation.Name,
					"verb":          string(key.verb),
					"path":          key.path,
				},
				Target: r.Operation,
			}))
		}
	}
}

// ReportIfNoRoutes warns when the route table is empty.
func ReportIfNoRoutes(p *types.Program, routes []OperationDetails) diagnostics.List {
	if len(routes) > 0 {
		return nil
	}
	return diagnostics.List{diagnostics.Create(diagnostics.Spec{
		Code:   diagnostics.CodeNoRoutes,
		Target: p.GlobalNamespace(),
	})}
}

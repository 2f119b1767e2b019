// Package decorators reads and writes the facts decorators attach to
// declarations. Every fact lives in a state.Store keyed by the decorated
// node, so the projection and routing passes stay pure functions of the type
// graph and the store.
package decorators

import (
	"strings"

	"github.com/conduit-lang/prism/internal/compiler/diagnostics"
	"github.com/conduit-lang/prism/internal/compiler/state"
	"github.com/conduit-lang/prism/internal/compiler/types"
)

const (
	keyHeader             state.Key = "header"
	keyQuery              state.Key = "query"
	keyPath               state.Key = "path"
	keyStatusCode         state.Key = "statusCode"
	keyBody               state.Key = "body"
	keySegment            state.Key = "segment"
	keySeparator          state.Key = "segmentSeparator"
	keyAction             state.Key = "action"
	keyCollectionAction   state.Key = "collectionAction"
	keyResourceOperation  state.Key = "resourceOperation"
	keyVerb               state.Key = "verb"
	keyRoute              state.Key = "route"
	keyAutoRoute          state.Key = "autoRoute"
	keyAutoVisibility     state.Key = "autoVisibility"
	keyVisibility         state.Key = "visibility"
	keyService            state.Key = "service"
	keyExternalInterfaces state.Key = "externalInterfaces"
)

// SetHeader marks prop as a header. An empty name uses the property name.
func SetHeader(s state.Store, prop *types.ModelProperty, name string) {
	s.Set(keyHeader, prop, wireName(prop, name))
}

// HeaderName returns the header name of prop, or "" when it is not a header.
func HeaderName(s state.Store, prop *types.ModelProperty) string {
	return state.GetString(s, keyHeader, prop)
}

// IsHeader reports whether prop is bound to a header.
func IsHeader(s state.Store, prop *types.ModelProperty) bool {
	return s.Has(keyHeader, prop)
}

// SetQuery marks prop as a query parameter. An empty name uses the property
// name.
func SetQuery(s state.Store, prop *types.ModelProperty, name string) {
	s.Set(keyQuery, prop, wireName(prop, name))
}

// QueryName returns the query parameter name of prop, or "".
func QueryName(s state.Store, prop *types.ModelProperty) string {
	return state.GetString(s, keyQuery, prop)
}

// IsQuery reports whether prop is bound to the query string.
func IsQuery(s state.Store, prop *types.ModelProperty) bool {
	return s.Has(keyQuery, prop)
}

// SetPath marks prop as a path parameter. An empty name uses the property
// name.
func SetPath(s state.Store, prop *types.ModelProperty, name string) {
	s.Set(keyPath, prop, wireName(prop, name))
}

// PathName returns the path parameter name of prop, or "".
func PathName(s state.Store, prop *types.ModelProperty) string {
	return state.GetString(s, keyPath, prop)
}

// IsPath reports whether prop is bound to a path segment.
func IsPath(s state.Store, prop *types.ModelProperty) bool {
	return s.Has(keyPath, prop)
}

// SetStatusCode marks prop as carrying the response status code.
func SetStatusCode(s state.Store, prop *types.ModelProperty) {
	s.Set(keyStatusCode, prop, true)
}

func IsStatusCode(s state.Store, prop *types.ModelProperty) bool {
	return s.Has(keyStatusCode, prop)
}

// SetBody marks prop as the request or response body.
func SetBody(s state.Store, prop *types.ModelProperty) {
	s.Set(keyBody, prop, true)
}

func IsBody(s state.Store, prop *types.ModelProperty) bool {
	return s.Has(keyBody, prop)
}

var propertyKeys = []state.Key{keyHeader, keyQuery, keyPath, keyStatusCode, keyBody, keyVisibility}

// CopyPropertyFacts applies the facts recorded for from to to, as when a
// property is spread into another model.
func CopyPropertyFacts(s state.Store, from, to *types.ModelProperty) {
	for _, key := range propertyKeys {
		if v, ok := s.Get(key, from); ok {
			s.Set(key, to, v)
		}
	}
}

func wireName(prop *types.ModelProperty, name string) string {
	if name == "" {
		return prop.Name
	}
	return name
}

// SetSegment sets the URL segment contributed by target during automatic
// route generation. An empty segment is stored and suppresses the fragment.
func SetSegment(s state.Store, target types.Type, segment string) {
	s.Set(keySegment, target, segment)
}

func Segment(s state.Store, target types.Type) string {
	return state.GetString(s, keySegment, target)
}

// SetSegmentSeparator overrides the "/" placed before target's segment.
func SetSegmentSeparator(s state.Store, target types.Type, separator string) {
	s.Set(keySeparator, target, separator)
}

// SegmentSeparator returns the separator for target's segment, if set.
func SegmentSeparator(s state.Store, target types.Type) (string, bool) {
	v, ok := s.Get(keySeparator, target)
	if !ok {
		return "", false
	}
	sep, _ := v.(string)
	return sep, true
}

// SetAction marks op as a resource action. An empty name uses the operation
// name.
func SetAction(s state.Store, op *types.Operation, name string) {
	if name == "" {
		name = op.Name
	}
	s.Set(keyAction, op, name)
}

func Action(s state.Store, op *types.Operation) (string, bool) {
	v, ok := s.Get(keyAction, op)
	name, _ := v.(string)
	return name, ok
}

// SetCollectionAction marks op as an action on a resource collection.
func SetCollectionAction(s state.Store, op *types.Operation, name string) {
	if name == "" {
		name = op.Name
	}
	s.Set(keyCollectionAction, op, name)
}

func CollectionAction(s state.Store, op *types.Operation) (string, bool) {
	v, ok := s.Get(keyCollectionAction, op)
	name, _ := v.(string)
	return name, ok
}

// ResourceOperation records that an operation implements a standard resource
// operation such as "read" or "list" over a resource type.
type ResourceOperation struct {
	Operation string
	Resource  types.Type
}

func SetResourceOperation(s state.Store, op *types.Operation, ro ResourceOperation) {
	s.Set(keyResourceOperation, op, ro)
}

func GetResourceOperation(s state.Store, op *types.Operation) (ResourceOperation, bool) {
	v, ok := s.Get(keyResourceOperation, op)
	if !ok {
		return ResourceOperation{}, false
	}
	ro, ok := v.(ResourceOperation)
	return ro, ok
}

// SetVerb records an explicit HTTP verb for op.
func SetVerb(s state.Store, op *types.Operation, verb string) {
	s.Set(keyVerb, op, strings.ToLower(verb))
}

// Verb returns the explicit HTTP verb of op, or "".
func Verb(s state.Store, op *types.Operation) string {
	return state.GetString(s, keyVerb, op)
}

// SetVisibility records the visibility labels of prop.
func SetVisibility(s state.Store, prop *types.ModelProperty, labels ...string) {
	s.Set(keyVisibility, prop, append([]string(nil), labels...))
}

// VisibilityLabels returns the labels recorded for prop.
func VisibilityLabels(s state.Store, prop *types.ModelProperty) ([]string, bool) {
	v, ok := s.Get(keyVisibility, prop)
	if !ok {
		return nil, false
	}
	labels, _ := v.([]string)
	return labels, true
}

// IsVisible reports whether prop is visible under any of labels. A property
// with no recorded visibility is visible everywhere.
func IsVisible(s state.Store, prop *types.ModelProperty, labels []string) bool {
	declared, ok := VisibilityLabels(s, prop)
	if !ok {
		return true
	}
	for _, d := range declared {
		for _, l := range labels {
			if d == l {
				return true
			}
		}
	}
	return false
}

// SetAutoVisibility enables pruning of properties lacking the requested
// visibility for declarations under target.
func SetAutoVisibility(s state.Store, target types.Type) {
	s.Set(keyAutoVisibility, target, true)
}

func AutoVisibility(s state.Store, target types.Type) bool {
	return s.Has(keyAutoVisibility, target)
}

// SetService designates ns as the service namespace of the program.
func SetService(s state.Store, p *types.Program, ns *types.Namespace) {
	s.Set(keyService, p.GlobalNamespace(), ns)
}

// ServiceNamespace returns the service namespace, if one was designated.
func ServiceNamespace(s state.Store, p *types.Program) (*types.Namespace, bool) {
	v, ok := s.Get(keyService, p.GlobalNamespace())
	if !ok {
		return nil, false
	}
	ns, ok := v.(*types.Namespace)
	return ns, ok
}

// IncludeInterfaceRoutes routes the interface with the given dotted name as
// if it were declared in ns.
func IncludeInterfaceRoutes(s state.Store, ns *types.Namespace, qualifiedName string) {
	var names []string
	if v, ok := s.Get(keyExternalInterfaces, ns); ok {
		names, _ = v.([]string)
	}
	s.Set(keyExternalInterfaces, ns, append(names, qualifiedName))
}

// ExternalInterfaces resolves the interfaces included into ns from the global
// namespace. Names that do not resolve are skipped.
func ExternalInterfaces(s state.Store, p *types.Program, ns *types.Namespace) []*types.Interface {
	v, ok := s.Get(keyExternalInterfaces, ns)
	if !ok {
		return nil
	}
	names, _ := v.([]string)

	var out []*types.Interface
	for _, qualified := range names {
		parts := strings.Split(qualified, ".")
		current := p.GlobalNamespace()
		for _, part := range parts[:len(parts)-1] {
			if current = current.LookupNamespace(part); current == nil {
				break
			}
		}
		if current == nil {
			continue
		}
		if iface := current.LookupInterface(parts[len(parts)-1]); iface != nil {
			out = append(out, iface)
		}
	}
	return out
}

// validateTarget reports decorator-wrong-target unless target has one of the
// given kinds.
func validateTarget(decorator string, target types.Type, kinds ...types.Kind) (diagnostics.List, bool) {
	for _, k := range kinds {
		if target.Kind() == k {
			return nil, true
		}
	}
	return diagnostics.List{diagnostics.Create(diagnostics.Spec{
		Code:   diagnostics.CodeDecoratorWrongTarget,
		Format: map[string]string{"decorator": decorator, "to": string(target.Kind())},
		Target: target,
	})}, false
}

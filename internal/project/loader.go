// Package project loads a program description into a type graph and the
// decorator facts attached to it.
package project

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/conduit-lang/prism/internal/compiler/decorators"
	"github.com/conduit-lang/prism/internal/compiler/diagnostics"
	"github.com/conduit-lang/prism/internal/compiler/rest"
	"github.com/conduit-lang/prism/internal/compiler/state"
	"github.com/conduit-lang/prism/internal/compiler/types"
)

// Project is a loaded program together with its decorator facts.
type Project struct {
	File        string
	Program     *types.Program
	Store       *state.MemoryStore
	Diagnostics diagnostics.List
}

// Load reads and loads the description at path.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read program description: %w", err)
	}
	return Parse(path, data)
}

// Parse loads a description from data. name is used in source locations.
func Parse(name string, data []byte) (*Project, error) {
	var file File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}

	l := &loader{
		file:    name,
		program: types.NewProgram(),
		store:   state.NewMemoryStore(),
		diags:   diagnostics.NewCollector(),
	}
	if err := l.load(&file); err != nil {
		return nil, err
	}
	return &Project{
		File:        name,
		Program:     l.program,
		Store:       l.store,
		Diagnostics: l.diags.Diagnostics(),
	}, nil
}

type modelDecl struct {
	model *types.Model
	decl  *Model
}

type operationDecl struct {
	op   *types.Operation
	decl *Operation
}

type namespaceDecl struct {
	ns   *types.Namespace
	decl *Namespace
}

type loader struct {
	file    string
	program *types.Program
	store   *state.MemoryStore
	diags   *diagnostics.Collector

	namespaces []namespaceDecl
	models     []modelDecl
	operations []operationDecl
}

func (l *loader) load(file *File) error {
	global := &Namespace{
		Models:     file.Models,
		Interfaces: file.Interfaces,
		Operations: file.Operations,
		Namespaces: file.Namespaces,
	}
	if err := l.declare(l.program.GlobalNamespace(), global); err != nil {
		return err
	}

	for _, md := range l.models {
		if err := l.resolveModel(md); err != nil {
			return err
		}
	}
	for _, md := range l.models {
		l.program.FinishType(md.model)
	}

	for _, od := range l.operations {
		if err := l.resolveOperation(od); err != nil {
			return err
		}
	}

	for _, nd := range l.namespaces {
		for _, name := range nd.decl.IncludeInterfaces {
			decorators.IncludeInterfaceRoutes(l.store, nd.ns, name)
		}
	}

	if file.Service != "" {
		ns := l.lookupNamespace(file.Service)
		if ns == nil {
			return fmt.Errorf("%s: unknown service namespace %q", l.file, file.Service)
		}
		decorators.SetService(l.store, l.program, ns)
	}
	return nil
}

// declare creates every named node so that references may point forward.
func (l *loader) declare(ns *types.Namespace, decl *Namespace) error {
	l.namespaces = append(l.namespaces, namespaceDecl{ns: ns, decl: decl})

	if !l.program.IsGlobalNamespace(ns) {
		l.applyContainerFacts(ns, decl.Route, decl.RouteReset, decl.AutoRoute)
		if decl.AutoVisibility {
			decorators.SetAutoVisibility(l.store, ns)
		}
	}

	for i := range decl.Models {
		md := &decl.Models[i]
		if md.Name == "" {
			return l.errorf(md.pos, "model without a name")
		}
		if ns.LookupModel(md.Name) != nil {
			return l.errorf(md.pos, "duplicate model %q", md.Name)
		}
		m := &types.Model{
			Name:       md.Name,
			Namespace:  ns,
			Properties: types.NewPropertyMap(),
			Intrinsic:  md.Intrinsic,
			Loc:        l.location(md.pos),
		}
		ns.Models = append(ns.Models, m)
		l.models = append(l.models, modelDecl{model: m, decl: md})
	}

	for i := range decl.Interfaces {
		id := &decl.Interfaces[i]
		iface := ns.AddInterface(&types.Interface{
			Name:                id.Name,
			TemplateDeclaration: id.Template,
			Loc:                 l.location(id.pos),
		})
		l.applyContainerFacts(iface, id.Route, "", id.AutoRoute)
		for j := range id.Operations {
			l.declareOperation(&id.Operations[j], iface.AddOperation)
		}
	}

	for i := range decl.Operations {
		l.declareOperation(&decl.Operations[i], ns.AddOperation)
	}

	for i := range decl.Namespaces {
		nd := &decl.Namespaces[i]
		child := ns.LookupNamespace(nd.Name)
		if child == nil {
			child = ns.AddNamespace(&types.Namespace{Name: nd.Name, Loc: l.location(nd.pos)})
		}
		if err := l.declare(child, nd); err != nil {
			return err
		}
	}
	return nil
}

func (l *loader) declareOperation(decl *Operation, add func(*types.Operation) *types.Operation) {
	op := add(&types.Operation{
		Name:                decl.Name,
		TemplateDeclaration: decl.Template,
		Loc:                 l.location(decl.pos),
	})
	l.operations = append(l.operations, operationDecl{op: op, decl: decl})
}

func (l *loader) applyContainerFacts(target types.Type, route, reset string, autoRoute bool) {
	if route != "" {
		l.diags.Pipe(decorators.SetRoute(l.store, target, route))
	}
	if reset != "" {
		l.diags.Pipe(decorators.SetRouteReset(l.store, target, reset))
	}
	if autoRoute {
		l.diags.Pipe(decorators.SetAutoRoute(l.store, target))
	}
}

func (l *loader) resolveModel(md modelDecl) error {
	m, decl, scope := md.model, md.decl, md.model.Namespace

	if decl.Base != "" {
		base, err := l.resolve(decl.Base, scope, decl.pos)
		if err != nil {
			return err
		}
		bm, ok := base.(*types.Model)
		if !ok {
			return l.errorf(decl.pos, "base of %s must be a model, got %s", m.Name, base.Kind())
		}
		m.BaseModel = bm
	}

	for _, ref := range decl.TemplateArguments {
		arg, err := l.resolve(ref, scope, decl.pos)
		if err != nil {
			return err
		}
		m.TemplateArguments = append(m.TemplateArguments, arg)
	}

	if decl.Indexer != nil {
		key, ok := l.program.Scalar(decl.Indexer.Key)
		if !ok {
			return l.errorf(decl.pos, "indexer key of %s must be a scalar, got %q", m.Name, decl.Indexer.Key)
		}
		value, err := l.resolve(decl.Indexer.Value, scope, decl.pos)
		if err != nil {
			return err
		}
		m.Indexer = &types.Indexer{Key: key, Value: value}
	}

	for i := range decl.Properties {
		prop, err := l.property(&decl.Properties[i], scope)
		if err != nil {
			return err
		}
		types.AddProperty(m, prop)
	}
	return nil
}

func (l *loader) property(decl *Property, scope *types.Namespace) (*types.ModelProperty, error) {
	if decl.Name == "" {
		return nil, l.errorf(decl.pos, "property without a name")
	}
	prop := &types.ModelProperty{
		Name:     decl.Name,
		Optional: decl.Optional,
		Loc:      l.location(decl.pos),
	}

	switch {
	case len(decl.Properties) > 0:
		if decl.Type != "" {
			return nil, l.errorf(decl.pos, "property %s has both a type and inline properties", decl.Name)
		}
		inline := make([]*types.ModelProperty, 0, len(decl.Properties))
		for i := range decl.Properties {
			p, err := l.property(&decl.Properties[i], scope)
			if err != nil {
				return nil, err
			}
			inline = append(inline, p)
		}
		prop.Type = l.program.NewModel(scope, "", inline...)
	default:
		typ, err := l.resolve(decl.Type, scope, decl.pos)
		if err != nil {
			return nil, err
		}
		prop.Type = typ
	}

	if decl.Default != "" {
		prop.Default = &types.StringLiteral{Value: decl.Default, Loc: prop.Loc}
	}

	if decl.Header.Set {
		decorators.SetHeader(l.store, prop, decl.Header.Name)
	}
	if decl.Query.Set {
		decorators.SetQuery(l.store, prop, decl.Query.Name)
	}
	if decl.Path.Set {
		decorators.SetPath(l.store, prop, decl.Path.Name)
	}
	if decl.StatusCode {
		decorators.SetStatusCode(l.store, prop)
	}
	if decl.Body {
		decorators.SetBody(l.store, prop)
	}
	if len(decl.Visibility) > 0 {
		decorators.SetVisibility(l.store, prop, decl.Visibility...)
	}
	return prop, nil
}

func (l *loader) resolveOperation(od operationDecl) error {
	op, decl := od.op, od.decl
	scope := op.Namespace

	if decl.Verb != "" {
		if _, ok := rest.ParseVerb(strings.ToLower(decl.Verb)); !ok {
			return l.errorf(decl.pos, "unknown verb %q on %s", decl.Verb, op.Name)
		}
		decorators.SetVerb(l.store, op, decl.Verb)
	}
	l.applyContainerFacts(op, decl.Route, "", decl.AutoRoute)
	if decl.Segment != nil {
		decorators.SetSegment(l.store, op, *decl.Segment)
	}
	if decl.Separator != nil {
		decorators.SetSegmentSeparator(l.store, op, *decl.Separator)
	}
	if decl.Action.Set {
		decorators.SetAction(l.store, op, decl.Action.Name)
	}
	if decl.CollectionAction.Set {
		decorators.SetCollectionAction(l.store, op, decl.CollectionAction.Name)
	}
	if decl.Resource != nil {
		resource, err := l.resolve(decl.Resource.Type, scope, decl.pos)
		if err != nil {
			return err
		}
		decorators.SetResourceOperation(l.store, op, decorators.ResourceOperation{
			Operation: decl.Resource.Operation,
			Resource:  resource,
		})
	}

	var params []*types.ModelProperty
	if decl.Spread != "" {
		spread, err := l.resolve(decl.Spread, scope, decl.pos)
		if err != nil {
			return err
		}
		sm, ok := spread.(*types.Model)
		if !ok {
			return l.errorf(decl.pos, "cannot spread %s into %s", spread.Kind(), op.Name)
		}
		for _, p := range types.WalkPropertiesInherited(sm) {
			clone := types.CloneProperty(p)
			clone.SourceProperty = p
			decorators.CopyPropertyFacts(l.store, p, clone)
			params = append(params, clone)
		}
	}
	for i := range decl.Parameters {
		p, err := l.property(&decl.Parameters[i], scope)
		if err != nil {
			return err
		}
		params = append(params, p)
	}
	op.Parameters = l.program.NewModel(nil, "", params...)

	if decl.Returns != "" {
		ret, err := l.resolve(decl.Returns, scope, decl.pos)
		if err != nil {
			return err
		}
		op.ReturnType = ret
	} else {
		op.ReturnType = l.program.NewModel(nil, "")
	}
	return nil
}

// resolve turns a type reference into a node. Simple model names are looked
// up from scope outwards; dotted names from the global namespace.
func (l *loader) resolve(ref string, scope *types.Namespace, at position) (types.Type, error) {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return nil, l.errorf(at, "missing type")
	case isQuoted(ref):
		return &types.StringLiteral{Value: ref[1 : len(ref)-1], Loc: l.location(at)}, nil
	case strings.HasSuffix(ref, "[]"):
		elem, err := l.resolve(strings.TrimSuffix(ref, "[]"), scope, at)
		if err != nil {
			return nil, err
		}
		return l.program.ArrayOf(elem), nil
	}

	if s, ok := l.program.Scalar(ref); ok {
		return s, nil
	}
	if m := l.lookupModel(ref, scope); m != nil {
		return m, nil
	}
	return nil, l.errorf(at, "unknown type %q", ref)
}

func (l *loader) lookupModel(name string, scope *types.Namespace) *types.Model {
	if i := strings.LastIndex(name, "."); i >= 0 {
		ns := l.lookupNamespace(name[:i])
		if ns == nil {
			return nil
		}
		return ns.LookupModel(name[i+1:])
	}
	for ns := scope; ns != nil; ns = ns.Namespace {
		if m := ns.LookupModel(name); m != nil {
			return m
		}
	}
	return nil
}

func (l *loader) lookupNamespace(dotted string) *types.Namespace {
	ns := l.program.GlobalNamespace()
	for _, part := range strings.Split(dotted, ".") {
		if ns = ns.LookupNamespace(part); ns == nil {
			return nil
		}
	}
	return ns
}

func (l *loader) location(p position) types.SourceLocation {
	return types.SourceLocation{File: l.file, Line: p.line, Column: p.column}
}

func (l *loader) errorf(at position, format string, args ...any) error {
	return fmt.Errorf("%s: %s", l.location(at), fmt.Sprintf(format, args...))
}

func isQuoted(ref string) bool {
	if len(ref) < 2 {
		return false
	}
	first, last := ref[0], ref[len(ref)-1]
	return (first == '"' || first == '\'') && first == last
}

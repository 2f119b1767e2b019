package rest

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/prism/internal/compiler/decorators"
	"github.com/conduit-lang/prism/internal/compiler/state"
	"github.com/conduit-lang/prism/internal/compiler/types"
)

type fixture struct {
	t       *testing.T
	program *types.Program
	store   *state.MemoryStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return &fixture{t: t, program: types.NewProgram(), store: state.NewMemoryStore()}
}

func (f *fixture) scalar(name string) *types.Scalar {
	f.t.Helper()
	s, ok := f.program.Scalar(name)
	require.True(f.t, ok)
	return s
}

func (f *fixture) str() *types.Scalar { return f.scalar(types.ScalarString) }

func (f *fixture) prop(name string, typ types.Type) *types.ModelProperty {
	return &types.ModelProperty{Name: name, Type: typ}
}

func (f *fixture) header(name string, typ types.Type) *types.ModelProperty {
	p := f.prop(name, typ)
	decorators.SetHeader(f.store, p, "")
	return p
}

func (f *fixture) query(name string, typ types.Type) *types.ModelProperty {
	p := f.prop(name, typ)
	decorators.SetQuery(f.store, p, "")
	return p
}

func (f *fixture) path(name string, typ types.Type) *types.ModelProperty {
	p := f.prop(name, typ)
	decorators.SetPath(f.store, p, "")
	return p
}

func (f *fixture) body(name string, typ types.Type) *types.ModelProperty {
	p := f.prop(name, typ)
	decorators.SetBody(f.store, p)
	return p
}

func (f *fixture) model(name string, props ...*types.ModelProperty) *types.Model {
	return f.program.NewModel(f.program.GlobalNamespace(), name, props...)
}

func (f *fixture) anon(props ...*types.ModelProperty) *types.Model {
	return f.program.NewModel(nil, "", props...)
}

func (f *fixture) service(name string) *types.Namespace {
	ns := f.program.GlobalNamespace().AddNamespace(&types.Namespace{Name: name})
	decorators.SetService(f.store, f.program, ns)
	return ns
}

// op declares an operation in ns with the given parameters, or none.
func (f *fixture) op(ns *types.Namespace, name string, params ...*types.ModelProperty) *types.Operation {
	return ns.AddOperation(&types.Operation{Name: name, Parameters: f.anon(params...)})
}

func (f *fixture) ifaceOp(iface *types.Interface, name string, params ...*types.ModelProperty) *types.Operation {
	return iface.AddOperation(&types.Operation{Name: name, Parameters: f.anon(params...)})
}

func (f *fixture) session(opts ...Option) *Session {
	return NewSession(f.program, f.store, opts...)
}

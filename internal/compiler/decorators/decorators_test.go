package decorators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/prism/internal/compiler/diagnostics"
	"github.com/conduit-lang/prism/internal/compiler/state"
	"github.com/conduit-lang/prism/internal/compiler/types"
)

func TestWireNamesDefaultToPropertyName(t *testing.T) {
	s := state.NewMemoryStore()
	id := &types.ModelProperty{Name: "id"}
	etag := &types.ModelProperty{Name: "etag"}

	SetPath(s, id, "")
	SetHeader(s, etag, "If-Match")

	assert.True(t, IsPath(s, id))
	assert.Equal(t, "id", PathName(s, id))
	assert.Equal(t, "If-Match", HeaderName(s, etag))
	assert.False(t, IsQuery(s, id))
	assert.Empty(t, QueryName(s, id))
}

func TestSegmentSeparator(t *testing.T) {
	s := state.NewMemoryStore()
	op := &types.Operation{Name: "list"}

	_, ok := SegmentSeparator(s, op)
	assert.False(t, ok)

	SetSegment(s, op, "pets")
	SetSegmentSeparator(s, op, ":")
	sep, ok := SegmentSeparator(s, op)
	require.True(t, ok)
	assert.Equal(t, ":", sep)
	assert.Equal(t, "pets", Segment(s, op))
}

func TestActionsDefaultToOperationName(t *testing.T) {
	s := state.NewMemoryStore()
	op := &types.Operation{Name: "archive"}

	_, ok := Action(s, op)
	assert.False(t, ok)

	SetAction(s, op, "")
	name, ok := Action(s, op)
	require.True(t, ok)
	assert.Equal(t, "archive", name)

	SetCollectionAction(s, op, "purge")
	name, _ = CollectionAction(s, op)
	assert.Equal(t, "purge", name)
}

func TestVerbIsLowercased(t *testing.T) {
	s := state.NewMemoryStore()
	op := &types.Operation{Name: "create"}
	SetVerb(s, op, "POST")
	assert.Equal(t, "post", Verb(s, op))
}

func TestIsVisible(t *testing.T) {
	s := state.NewMemoryStore()
	secret := &types.ModelProperty{Name: "password"}
	plain := &types.ModelProperty{Name: "name"}

	SetVisibility(s, secret, "create")

	assert.True(t, IsVisible(s, plain, []string{"read"}))
	assert.False(t, IsVisible(s, secret, []string{"read"}))
	assert.True(t, IsVisible(s, secret, []string{"create", "update"}))
}

func TestSetRoute(t *testing.T) {
	t.Run("operation twice", func(t *testing.T) {
		s := state.NewMemoryStore()
		op := &types.Operation{Name: "get"}
		assert.Empty(t, SetRoute(s, op, "/a"))

		diags := SetRoute(s, op, "/b")
		require.Len(t, diags, 1)
		assert.Equal(t, diagnostics.CodeDuplicateRouteDecorator, diags[0].Code)
		assert.Equal(t, diagnostics.MessageOperation, diags[0].MessageID)

		route, _ := Route(s, op)
		assert.Equal(t, "/a", route.Path, "first route is kept")
	})

	t.Run("interface twice", func(t *testing.T) {
		s := state.NewMemoryStore()
		iface := &types.Interface{Name: "Pets"}
		SetRoute(s, iface, "/pets")
		diags := SetRoute(s, iface, "/pets")
		require.Len(t, diags, 1)
		assert.Equal(t, diagnostics.MessageInterface, diags[0].MessageID)
	})

	t.Run("namespace reopened", func(t *testing.T) {
		s := state.NewMemoryStore()
		ns := &types.Namespace{Name: "Store"}
		assert.Empty(t, SetRoute(s, ns, "/store"))
		assert.Empty(t, SetRoute(s, ns, "/store"), "same path is allowed")

		diags := SetRoute(s, ns, "/shop")
		require.Len(t, diags, 1)
		assert.Equal(t, diagnostics.MessageNamespace, diags[0].MessageID)
	})

	t.Run("wrong target", func(t *testing.T) {
		s := state.NewMemoryStore()
		m := &types.Model{Name: "Pet"}
		diags := SetRoute(s, m, "/pets")
		require.Len(t, diags, 1)
		assert.Equal(t, diagnostics.CodeDecoratorWrongTarget, diags[0].Code)
		assert.Equal(t, "Cannot apply @route decorator to Model", diags[0].Message)
		assert.False(t, s.Has(keyRoute, m))
	})

	t.Run("reset", func(t *testing.T) {
		s := state.NewMemoryStore()
		op := &types.Operation{Name: "get"}
		SetRouteReset(s, op, "/root")
		route, ok := Route(s, op)
		require.True(t, ok)
		assert.True(t, route.IsReset)
	})
}

func TestServiceAndExternalInterfaces(t *testing.T) {
	p := types.NewProgram()
	s := state.NewMemoryStore()

	_, ok := ServiceNamespace(s, p)
	assert.False(t, ok)

	lib := p.GlobalNamespace().AddNamespace(&types.Namespace{Name: "Lib"})
	inner := lib.AddNamespace(&types.Namespace{Name: "Inner"})
	ops := inner.AddInterface(&types.Interface{Name: "Ops"})
	svc := p.GlobalNamespace().AddNamespace(&types.Namespace{Name: "Svc"})

	SetService(s, p, svc)
	got, ok := ServiceNamespace(s, p)
	require.True(t, ok)
	assert.Same(t, svc, got)

	IncludeInterfaceRoutes(s, svc, "Lib.Inner.Ops")
	IncludeInterfaceRoutes(s, svc, "Lib.Missing.Ops")
	assert.Equal(t, []*types.Interface{ops}, ExternalInterfaces(s, p, svc))
	assert.Empty(t, ExternalInterfaces(s, p, lib))
}

func TestAutoRouteTargets(t *testing.T) {
	s := state.NewMemoryStore()
	iface := &types.Interface{Name: "Pets"}
	assert.Empty(t, SetAutoRoute(s, iface))
	assert.True(t, HasAutoRoute(s, iface))

	prop := &types.ModelProperty{Name: "id"}
	diags := SetAutoRoute(s, prop)
	require.Len(t, diags, 1)
	assert.Equal(t, diagnostics.CodeDecoratorWrongTarget, diags[0].Code)
}

func TestCopyPropertyFacts(t *testing.T) {
	s := state.NewMemoryStore()
	id := &types.ModelProperty{Name: "id"}
	SetPath(s, id, "petId")
	SetVisibility(s, id, "read")

	clone := types.CloneProperty(id)
	CopyPropertyFacts(s, id, clone)

	assert.Equal(t, "petId", PathName(s, clone))
	labels, ok := VisibilityLabels(s, clone)
	require.True(t, ok)
	assert.Equal(t, []string{"read"}, labels)
	assert.False(t, IsHeader(s, clone))
}

package rest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/prism/internal/compiler/decorators"
	"github.com/conduit-lang/prism/internal/compiler/types"
	"github.com/conduit-lang/prism/internal/compiler/visibility"
)

func TestIsApplicableMetadata(t *testing.T) {
	f := newFixture(t)
	header := f.header("h", f.str())
	query := f.query("q", f.str())
	path := f.path("p", f.str())
	body := f.body("b", f.str())
	plain := f.prop("name", f.str())
	status := f.prop("code", f.str())
	decorators.SetStatusCode(f.store, status)

	tests := []struct {
		name       string
		v          visibility.Visibility
		applicable []*types.ModelProperty
	}{
		{"read", visibility.Read, []*types.ModelProperty{header, status}},
		{"create", visibility.Create, []*types.ModelProperty{header, query, path}},
		{"query", visibility.Query, []*types.ModelProperty{header, query, path}},
		{"read or create", visibility.Read | visibility.Create, []*types.ModelProperty{header, query, path, status}},
		{"read item", visibility.Read | visibility.Item, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, p := range []*types.ModelProperty{header, query, path, body, plain, status} {
				want := false
				for _, a := range tt.applicable {
					if a == p {
						want = true
					}
				}
				assert.Equal(t, want, IsApplicableMetadata(f.store, p, tt.v), p.Name)
			}
			assert.Equal(t, !tt.v.Has(visibility.Item), IsApplicableMetadataOrBody(f.store, body, tt.v))
		})
	}
}

func TestGatherMetadataPrefersShallowestDuplicate(t *testing.T) {
	f := newFixture(t)
	deep := f.header("dup", f.str())
	b := f.anon(deep)
	a := f.anon(f.prop("x", b))
	shallow := f.query("dup", f.str())
	c := f.anon(shallow)
	root := f.anon(f.prop("a", a), f.prop("c", c))

	got := GatherMetadata(f.store, root, visibility.Create)
	require.Len(t, got, 1)
	assert.Same(t, shallow, got[0], "level order finds c.dup before a.x.dup")
}

func TestGatherMetadataKeepsDiscoveryOrder(t *testing.T) {
	f := newFixture(t)
	id := f.path("id", f.str())
	h1 := f.header("h1", f.str())
	h2 := f.header("h2", f.str())
	pet := f.model("Pet",
		f.prop("headers", f.anon(h1, f.prop("moreHeaders", f.anon(h2)))),
		id,
		f.prop("name", f.str()),
	)

	got := GatherMetadata(f.store, pet, visibility.Create)
	assert.Equal(t, []*types.ModelProperty{id, h1, h2}, got)
}

func TestGatherMetadataSkipsInvisibleAndOpaqueTypes(t *testing.T) {
	f := newFixture(t)
	hidden := f.header("secret", f.str())
	decorators.SetVisibility(f.store, hidden, "create")
	item := f.model("Item", f.header("h", f.str()))
	opaque := &types.Model{Name: "unknown", Intrinsic: true, Properties: types.NewPropertyMap(f.header("o", f.str()))}

	root := f.model("Root", hidden, f.prop("items", f.program.ArrayOf(item)), f.prop("any", opaque))

	assert.Empty(t, GatherMetadata(f.store, root, visibility.Read))
	assert.Equal(t, []*types.ModelProperty{hidden}, GatherMetadata(f.store, root, visibility.Create))
	assert.Empty(t, GatherMetadata(f.store, f.program.ArrayOf(item), visibility.Read))
	assert.Empty(t, GatherMetadata(f.store, opaque, visibility.Read))
	assert.Empty(t, GatherMetadata(f.store, f.str(), visibility.Read))
}

func TestGatherMetadataIncludesInheritedProperties(t *testing.T) {
	f := newFixture(t)
	etag := f.header("etag", f.str())
	base := f.model("Base", etag)
	derived := &types.Model{Name: "Derived", BaseModel: base, Properties: types.NewPropertyMap(f.prop("name", f.str()))}
	f.program.FinishType(derived)

	assert.Equal(t, []*types.ModelProperty{etag}, GatherMetadata(f.store, derived, visibility.Read))
}

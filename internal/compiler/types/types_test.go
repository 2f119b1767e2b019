package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func prop(name string, t Type) *ModelProperty {
	return &ModelProperty{Name: name, Type: t}
}

func TestPropertyMapKeepsInsertionOrder(t *testing.T) {
	pm := NewPropertyMap(&ModelProperty{Name: "b"}, &ModelProperty{Name: "a"})
	pm.Set(&ModelProperty{Name: "c"})
	pm.Set(&ModelProperty{Name: "b", Optional: true})

	assert.Equal(t, []string{"b", "a", "c"}, pm.Names())
	got, ok := pm.Get("b")
	require.True(t, ok)
	assert.True(t, got.Optional)
	assert.Equal(t, 3, pm.Len())

	var nilMap *PropertyMap
	assert.Equal(t, 0, nilMap.Len())
	assert.Nil(t, nilMap.Values())
}

func TestProgramDerivedModelsIndex(t *testing.T) {
	p := NewProgram()
	str, _ := p.Scalar(ScalarString)
	base := p.NewModel(p.GlobalNamespace(), "Animal", prop("name", str))

	dog := &Model{Name: "Dog", BaseModel: base, Properties: NewPropertyMap()}
	p.FinishType(dog)
	cat := &Model{Name: "Cat", BaseModel: base, Properties: NewPropertyMap()}
	p.FinishType(cat)

	assert.Equal(t, []*Model{dog, cat}, p.DerivedModels(base))
	assert.Empty(t, p.DerivedModels(dog))

	assert.Contains(t, p.Models(), dog)
}

func TestCreateModelIsUnfinished(t *testing.T) {
	p := NewProgram()
	str, _ := p.Scalar(ScalarString)
	m := p.NewModel(p.GlobalNamespace(), "Widget", prop("id", str))

	copied := p.CreateModel(m)
	assert.False(t, copied.Finished())
	assert.Equal(t, ModelID(0), copied.ID)
	assert.Empty(t, copied.Name)
	assert.Equal(t, 0, copied.Properties.Len())
	assert.Empty(t, p.DerivedModels(copied))

	p.FinishType(copied)
	assert.True(t, copied.Finished())
	assert.NotZero(t, copied.ID)
}

func TestArrayOfIsShared(t *testing.T) {
	p := NewProgram()
	thing := p.NewModel(p.GlobalNamespace(), "Thing")

	arr := p.ArrayOf(thing)
	assert.Same(t, arr, p.ArrayOf(thing))
	assert.True(t, IsArrayModel(arr))
	assert.True(t, IsTemplateInstance(arr))
	assert.False(t, IsArrayModel(thing))
	assert.Equal(t, "Array<Thing>", arr.String())
}

func TestWalkPropertiesInherited(t *testing.T) {
	p := NewProgram()
	str, _ := p.Scalar(ScalarString)
	i32, _ := p.Scalar(ScalarInt32)

	base := p.NewModel(nil, "Base", prop("id", str), prop("kind", str))
	derived := &Model{Name: "Derived", BaseModel: base, Properties: NewPropertyMap()}
	AddProperty(derived, prop("kind", i32))
	AddProperty(derived, prop("extra", str))
	p.FinishType(derived)

	props := WalkPropertiesInherited(derived)
	names := make([]string, len(props))
	for i, pr := range props {
		names[i] = pr.Name
	}
	assert.Equal(t, []string{"kind", "extra", "id"}, names)
	assert.Same(t, i32, props[0].Type, "derived declaration wins")
}

func TestFilterModelProperties(t *testing.T) {
	p := NewProgram()
	str, _ := p.Scalar(ScalarString)
	m := p.NewModel(nil, "Pet", prop("id", str), prop("name", str))

	same := FilterModelProperties(p, m, func(*ModelProperty) bool { return true }, nil)
	assert.Same(t, m, same)

	cloned := map[*ModelProperty]*ModelProperty{}
	filtered := FilterModelProperties(p, m, func(pr *ModelProperty) bool { return pr.Name != "id" },
		func(from, to *ModelProperty) { cloned[from] = to })
	require.NotSame(t, m, filtered)
	assert.Empty(t, filtered.Name)
	assert.Equal(t, []string{"name"}, filtered.Properties.Names())

	name, _ := filtered.Properties.Get("name")
	original, _ := m.Properties.Get("name")
	assert.Same(t, original, name.SourceProperty)
	assert.Same(t, filtered, name.Model)
	assert.Equal(t, map[*ModelProperty]*ModelProperty{original: name}, cloned)
	assert.True(t, filtered.Finished())
}

func TestNamespaceHierarchy(t *testing.T) {
	p := NewProgram()
	svc := p.GlobalNamespace().AddNamespace(&Namespace{Name: "Store"})
	inner := svc.AddNamespace(&Namespace{Name: "Pets"})
	iface := inner.AddInterface(&Interface{Name: "Ops"})
	op := iface.AddOperation(&Operation{Name: "list"})

	assert.Equal(t, "Store.Pets", inner.String())
	assert.Same(t, inner, op.Namespace)
	assert.Same(t, iface, op.Interface)
	assert.Same(t, inner, svc.LookupNamespace("Pets"))
	assert.Same(t, iface, inner.LookupInterface("Ops"))
	assert.True(t, p.IsGlobalNamespace(p.GlobalNamespace()))
	assert.False(t, p.IsGlobalNamespace(svc))
}

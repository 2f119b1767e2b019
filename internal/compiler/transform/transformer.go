// Package transform implements a memoized rewrite of model graphs through a
// caller-supplied per-property policy.
//
// A Transformer maps each model to its projection exactly once. Models the
// policy leaves untouched, directly or through anything they reference, map
// to themselves so consumers can rely on pointer equality to detect that
// nothing changed. Self-referential and mutually recursive models terminate
// because a provisional target is registered before a model's members are
// visited.
package transform

import (
	"go.uber.org/zap"

	"github.com/conduit-lang/prism/internal/compiler/diagnostics"
	"github.com/conduit-lang/prism/internal/compiler/types"
)

// PropertyChanger is handed to a PropertyTransform for one property.
type PropertyChanger interface {
	// Delete drops the property from the projection. It wins over any other
	// change.
	Delete()
	// MakeOptional marks the property optional.
	MakeOptional()
	// ChangeType replaces the property's declared type before it is itself
	// transformed.
	ChangeType(t types.Type)
}

// PropertyTransform decides how one property is projected. It must be a pure
// function of the property: it may be called more than once for the same
// property.
type PropertyTransform func(prop *types.ModelProperty, change PropertyChanger)

// Options configure a Transformer.
type Options struct {
	// Suffix is appended to the name of declared models that change.
	Suffix string
	// ItemSuffix is appended to Suffix for the item transformer.
	ItemSuffix string
	// Variant is recorded on every projected model.
	Variant string
	// ExcludeType maps matching types to themselves without visiting them.
	ExcludeType func(types.Type) bool
	// Transform is the property policy. Required.
	Transform PropertyTransform
	// ItemTransform, when set, is the property policy used for the element
	// types of array-like models.
	ItemTransform PropertyTransform
	// OnCloneProperty, when set, is called with every property and the copy
	// placed in its projection.
	OnCloneProperty func(from, to *types.ModelProperty)
}

// Option configures optional Transformer collaborators.
type Option func(*Transformer)

// WithLogger sets the logger used for debug events.
func WithLogger(logger *zap.Logger) Option {
	return func(t *Transformer) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// Transformer projects types through a property policy. It is not safe for
// concurrent use.
type Transformer struct {
	program *types.Program
	opts    Options
	item    *Transformer
	logger  *zap.Logger

	transformed map[types.Type]types.Type
	unfinished  map[*types.Model]struct{}
	affected    map[*types.Model]bool
}

// New creates a Transformer over program.
func New(program *types.Program, opts Options, options ...Option) *Transformer {
	diagnostics.Assert(opts.Transform != nil, "transformer requires a property transform")

	t := &Transformer{
		program:     program,
		opts:        opts,
		logger:      zap.NewNop(),
		transformed: make(map[types.Type]types.Type),
		unfinished:  make(map[*types.Model]struct{}),
		affected:    make(map[*types.Model]bool),
	}
	for _, o := range options {
		o(t)
	}

	if opts.ItemTransform != nil {
		t.item = New(program, Options{
			Suffix:          opts.Suffix + opts.ItemSuffix,
			Variant:         opts.Variant + opts.ItemSuffix,
			ExcludeType:     opts.ExcludeType,
			Transform:       opts.ItemTransform,
			OnCloneProperty: opts.OnCloneProperty,
		}, options...)
	}
	return t
}

// Transform returns the projection of typ. Non-model and intrinsic types are
// returned unchanged.
func (t *Transformer) Transform(typ types.Type) types.Type {
	return t.transform(typ, false)
}

// TransformItem returns the projection of typ as an element of a collection,
// using the item policy when one was configured.
func (t *Transformer) TransformItem(typ types.Type) types.Type {
	return t.transform(typ, true)
}

// TransformModel is Transform for a model.
func (t *Transformer) TransformModel(m *types.Model) *types.Model {
	if m == nil {
		return nil
	}
	return t.Transform(m).(*types.Model)
}

func (t *Transformer) itemTransformer() *Transformer {
	if t.item != nil {
		return t.item
	}
	return t
}

// argTransformer returns the transformer for m's template arguments. The
// arguments of an array-like model are its elements.
func (t *Transformer) argTransformer(m *types.Model) *Transformer {
	if m.Indexer != nil {
		return t.itemTransformer()
	}
	return t
}

func isTransformable(typ types.Type) bool {
	m, ok := typ.(*types.Model)
	return ok && m != nil && !m.Intrinsic
}

func (t *Transformer) transform(typ types.Type, inItem bool) types.Type {
	if typ == nil || !isTransformable(typ) {
		return typ
	}
	if inItem {
		return t.itemTransformer().transform(typ, false)
	}

	result, ok := t.transformed[typ]
	if !ok {
		if t.opts.ExcludeType != nil && t.opts.ExcludeType(typ) {
			result = typ
		} else {
			result = t.finish(t.transformCore(typ))
		}
		t.transformed[typ] = result
	}

	diagnostics.Assert(result.Kind() == typ.Kind(),
		"transformation changed %s from %s to %s", typ, typ.Kind(), result.Kind())
	return result
}

func (t *Transformer) transformCore(typ types.Type) types.Type {
	switch v := typ.(type) {
	case *types.Model:
		return t.transformModel(v)
	default:
		diagnostics.Assert(false, "unreachable: cannot transform %s", typ.Kind())
		return nil
	}
}

func (t *Transformer) createModel(from *types.Model) *types.Model {
	m := t.program.CreateModel(from)
	m.Origin = from
	m.Variant = t.opts.Variant
	t.unfinished[m] = struct{}{}
	return m
}

// finish seals typ when this transformer created it and has not sealed it yet.
func (t *Transformer) finish(typ types.Type) types.Type {
	m, ok := typ.(*types.Model)
	if !ok {
		return typ
	}
	if _, pending := t.unfinished[m]; !pending {
		return typ
	}
	delete(t.unfinished, m)
	return t.program.FinishType(m)
}

func (t *Transformer) transformModel(model *types.Model) *types.Model {
	if !t.isAffected(model) {
		return model
	}

	newModel := t.createModel(model)
	// Register before visiting members so references back to model resolve
	// to the provisional target.
	t.transformed[model] = newModel

	changed := false
	if model.BaseModel != nil {
		newModel.BaseModel = t.TransformModel(model.BaseModel)
		changed = changed || newModel.BaseModel != model.BaseModel
	}

	if model.Indexer != nil && model.Indexer.Value != nil {
		newModel.Indexer.Value = t.TransformItem(model.Indexer.Value)
		changed = changed || newModel.Indexer.Value != model.Indexer.Value
	}

	args := t.argTransformer(model)
	for i, arg := range model.TemplateArguments {
		newModel.TemplateArguments[i] = args.Transform(arg)
		changed = changed || newModel.TemplateArguments[i] != arg
	}

	for _, prop := range model.Properties.Values() {
		change := newChanger(prop)
		t.opts.Transform(prop, change)
		changed = changed || change.changed
		if change.deleted {
			continue
		}

		clone := types.CloneProperty(prop)
		clone.Type = t.Transform(change.typ)
		clone.Optional = change.optional
		clone.SourceProperty = t.sourceProperty(prop)
		changed = changed || clone.Type != prop.Type
		if t.opts.OnCloneProperty != nil {
			t.opts.OnCloneProperty(prop, clone)
		}
		types.AddProperty(newModel, clone)
	}

	if !changed {
		delete(t.unfinished, newModel)
		t.transformed[model] = model
		return model
	}

	// Template instances stay anonymous.
	if model.Name != "" && !types.IsTemplateInstance(model) {
		newModel.Name = model.Name + t.opts.Suffix
	}
	t.finish(newModel)
	t.logger.Debug("projected model",
		zap.String("model", model.String()),
		zap.String("projection", newModel.String()),
		zap.String("variant", t.opts.Variant))

	for _, derived := range t.program.DerivedModels(model) {
		t.Transform(derived)
	}
	return newModel
}

// sourceProperty maps the origin of a copied property to its projection.
func (t *Transformer) sourceProperty(prop *types.ModelProperty) *types.ModelProperty {
	src := prop.SourceProperty
	if src == nil || src.Model == nil {
		return src
	}
	projected := t.TransformModel(src.Model)
	if p, ok := projected.Properties.Get(src.Name); ok {
		return p
	}
	return src
}

type propertyChanger struct {
	original *types.ModelProperty
	typ      types.Type
	optional bool
	deleted  bool
	changed  bool
}

func newChanger(prop *types.ModelProperty) *propertyChanger {
	return &propertyChanger{original: prop, typ: prop.Type, optional: prop.Optional}
}

func (c *propertyChanger) Delete() {
	c.deleted = true
	c.changed = true
}

func (c *propertyChanger) MakeOptional() {
	if !c.original.Optional {
		c.optional = true
		c.changed = true
	}
}

func (c *propertyChanger) ChangeType(typ types.Type) {
	c.typ = typ
	c.changed = true
}

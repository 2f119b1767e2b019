package rest

import (
	"go.uber.org/zap"

	"github.com/conduit-lang/prism/internal/compiler/decorators"
	"github.com/conduit-lang/prism/internal/compiler/state"
	"github.com/conduit-lang/prism/internal/compiler/transform"
	"github.com/conduit-lang/prism/internal/compiler/types"
	"github.com/conduit-lang/prism/internal/compiler/visibility"
	strutil "github.com/conduit-lang/prism/internal/util/strings"
)

// EffectiveTypeCache projects types per visibility. It owns one transformer
// per distinct visibility and lives as long as one compilation.
type EffectiveTypeCache struct {
	program        *types.Program
	store          state.Store
	autoVisibility bool
	logger         *zap.Logger

	transformers map[visibility.Visibility]*transform.Transformer
}

// NewEffectiveTypeCache creates an empty cache. With autoVisibility set,
// properties lacking the requested visibility are dropped as well as
// misplaced metadata.
func NewEffectiveTypeCache(program *types.Program, store state.Store, autoVisibility bool, logger *zap.Logger) *EffectiveTypeCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EffectiveTypeCache{
		program:        program,
		store:          store,
		autoVisibility: autoVisibility,
		logger:         logger,
		transformers:   make(map[visibility.Visibility]*transform.Transformer),
	}
}

// Get returns the effective type of typ at v.
func (c *EffectiveTypeCache) Get(typ types.Type, v visibility.Visibility) types.Type {
	return c.transformer(v).Transform(typ)
}

func (c *EffectiveTypeCache) transformer(v visibility.Visibility) *transform.Transformer {
	if t, ok := c.transformers[v]; ok {
		return t
	}

	t := transform.New(c.program, transform.Options{
		Suffix:          v.Suffix(),
		ItemSuffix:      "Item",
		Variant:         variantName(v),
		Transform:       c.policy(v),
		ItemTransform:   c.policy(v | visibility.Item),
		OnCloneProperty: c.copyFacts,
	}, transform.WithLogger(c.logger))
	c.transformers[v] = t

	c.logger.Debug("created transformer",
		zap.Stringer("visibility", v),
		zap.Bool("autoVisibility", c.autoVisibility))
	return t
}

func (c *EffectiveTypeCache) policy(v visibility.Visibility) transform.PropertyTransform {
	return func(prop *types.ModelProperty, change transform.PropertyChanger) {
		if IsApplicableMetadata(c.store, prop, v) {
			change.Delete()
			return
		}
		if c.autoVisibility && !IsVisible(c.store, prop, v) {
			change.Delete()
		}
	}
}

func (c *EffectiveTypeCache) copyFacts(from, to *types.ModelProperty) {
	decorators.CopyPropertyFacts(c.store, from, to)
}

// variantName is the capitalized label form of v, e.g. "CreateOrUpdate".
func variantName(v visibility.Visibility) string {
	return strutil.JoinCapitalized(v.Labels(), "Or")
}

// Package rest resolves HTTP bindings for the operations of a checked
// program: the visibility-projected effective types, the metadata carried
// outside payloads, request parameters, responses and the validated route
// table.
package rest

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/conduit-lang/prism/internal/compiler/decorators"
	"github.com/conduit-lang/prism/internal/compiler/diagnostics"
	"github.com/conduit-lang/prism/internal/compiler/state"
	"github.com/conduit-lang/prism/internal/compiler/types"
	"github.com/conduit-lang/prism/internal/compiler/visibility"
)

// Session is one compilation's view of a program. It owns the effective
// type cache and must not be shared between goroutines.
type Session struct {
	ID string

	program        *types.Program
	store          state.Store
	logger         *zap.Logger
	autoVisibility *bool
	service        *types.Namespace
	effective      *EffectiveTypeCache
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithAutoVisibility overrides the @autoVisibility setting of the service.
func WithAutoVisibility(enabled bool) Option {
	return func(s *Session) {
		s.autoVisibility = &enabled
	}
}

// WithService overrides the service namespace recorded in the store.
func WithService(ns *types.Namespace) Option {
	return func(s *Session) {
		s.service = ns
	}
}

// NewSession starts a compilation over program and the decorator facts in
// store.
func NewSession(program *types.Program, store state.Store, opts ...Option) *Session {
	s := &Session{
		ID:      uuid.NewString(),
		program: program,
		store:   store,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.service == nil {
		s.service, _ = decorators.ServiceNamespace(store, program)
	}
	s.logger = s.logger.With(zap.String("session", s.ID))
	s.effective = NewEffectiveTypeCache(program, store, s.resolveAutoVisibility(), s.logger)
	return s
}

func (s *Session) resolveAutoVisibility() bool {
	if s.autoVisibility != nil {
		return *s.autoVisibility
	}
	if decorators.AutoVisibility(s.store, s.program.GlobalNamespace()) {
		return true
	}
	for ns := s.service; ns != nil; ns = ns.Namespace {
		if decorators.AutoVisibility(s.store, ns) {
			return true
		}
	}
	return false
}

// Logger returns the session logger, tagged with the session ID.
func (s *Session) Logger() *zap.Logger { return s.logger }

// Service returns the namespace routes are built from, or nil.
func (s *Session) Service() *types.Namespace { return s.service }

// EffectiveType returns typ projected at v.
func (s *Session) EffectiveType(typ types.Type, v visibility.Visibility) types.Type {
	return s.effective.Get(typ, v)
}

// GatherMetadata collects the metadata and body properties of typ at v.
func (s *Session) GatherMetadata(typ types.Type, v visibility.Visibility) []*types.ModelProperty {
	return GatherMetadata(s.store, typ, v)
}

// AllRoutes builds the validated route table. User problems are returned as
// diagnostics; err is set only when the compiler hits an internal error.
func (s *Session) AllRoutes(opts *RouteOptions) (routes []OperationDetails, diags diagnostics.List, err error) {
	defer diagnostics.Recover(&err)

	start := time.Now()
	service := "<none>"
	if s.service != nil {
		service = s.service.String()
	}
	s.logger.Debug("building routes", zap.String("service", service))

	routes, diags = s.GetAllRoutes(opts)

	s.logger.Debug("built route table",
		zap.Int("routes", len(routes)),
		zap.Int("diagnostics", len(diags)),
		zap.Duration("elapsed", time.Since(start)))
	return routes, diags, nil
}

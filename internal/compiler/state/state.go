// Package state holds facts attached to declarations, keyed by the
// declaration's identity. Decorators write facts; the projection and routing
// passes read them.
package state

import "github.com/conduit-lang/prism/internal/compiler/types"

// Key names one kind of fact, e.g. "header" or "route".
type Key string

// Store is an associative store from (key, declaration) to a value.
type Store interface {
	Get(key Key, target types.Type) (any, bool)
	Set(key Key, target types.Type, value any)
	Has(key Key, target types.Type) bool
	Delete(key Key, target types.Type)
}

// MemoryStore is the in-process Store used for one compilation.
type MemoryStore struct {
	maps map[Key]map[types.Type]any
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{maps: make(map[Key]map[types.Type]any)}
}

func (s *MemoryStore) Get(key Key, target types.Type) (any, bool) {
	v, ok := s.maps[key][target]
	return v, ok
}

func (s *MemoryStore) Set(key Key, target types.Type, value any) {
	m, ok := s.maps[key]
	if !ok {
		m = make(map[types.Type]any)
		s.maps[key] = m
	}
	m[target] = value
}

func (s *MemoryStore) Has(key Key, target types.Type) bool {
	_, ok := s.maps[key][target]
	return ok
}

func (s *MemoryStore) Delete(key Key, target types.Type) {
	delete(s.maps[key], target)
}

// GetString returns the string fact for target, or "" when absent or of
// another type.
func GetString(s Store, key Key, target types.Type) string {
	v, ok := s.Get(key, target)
	if !ok {
		return ""
	}
	str, _ := v.(string)
	return str
}

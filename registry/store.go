package registry

import (
	"sync/atomic"
)

// Store holds the current registry snapshot. Readers take a snapshot once
// per request and keep using it even if a reload swaps in a new one.
type Store struct {
	current    atomic.Pointer[Registry]
	generation atomic.Uint64
}

func NewStore(reg *Registry) *Store {
	s := &Store{}
	s.Swap(reg)
	return s
}

// Snapshot returns the current registry.
func (s *Store) Snapshot() *Registry {
	return s.current.Load()
}

// Swap installs reg under a fresh generation number. reg must not be
// shared with another Store.
func (s *Store) Swap(reg *Registry) {
	if reg == nil {
		reg = Empty()
	}
	reg.Generation = s.generation.Add(1)
	s.current.Store(reg)
}

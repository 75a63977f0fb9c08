// Package overlay stores user drag corrections on top of a computed layout.
package overlay

import (
	"github.com/odvcencio/objgraph/pkg/geom"
	"github.com/odvcencio/objgraph/pkg/layout"
	"github.com/odvcencio/objgraph/pkg/object"
)

// Store maps identifiers to user-chosen coordinates.
type Store struct {
	entries map[object.Hash]geom.Point
	version uint64
}

// New returns an empty Store.
func New() *Store {
	return &Store{entries: make(map[object.Hash]geom.Point)}
}

// Set records an override for id.
func (s *Store) Set(id object.Hash, p geom.Point) {
	s.entries[id] = p
	s.version++
}

// Get returns the override for id, if any.
func (s *Store) Get(id object.Hash) (geom.Point, bool) {
	p, ok := s.entries[id]
	return p, ok
}

// Len returns the number of stored overrides, stale ones included.
func (s *Store) Len() int {
	return len(s.entries)
}

// Version increases on every mutation; callers use it to memoise Merge.
func (s *Store) Version() uint64 {
	return s.version
}

// Reset drops every override.
func (s *Store) Reset() {
	if len(s.entries) == 0 {
		return
	}
	clear(s.entries)
	s.version++
}

// Prune drops overrides whose identifier is not in base and returns how
// many were removed.
func (s *Store) Prune(base *layout.Result) int {
	n := 0
	for id := range s.entries {
		if _, ok := base.Get(id); !ok {
			delete(s.entries, id)
			n++
		}
	}
	if n > 0 {
		s.version++
	}
	return n
}

// Merge returns base with overrides applied. Every identifier of base is
// present in the result; an override replaces x/y only, and overrides for
// identifiers missing from base are ignored. base is not modified.
func (s *Store) Merge(base *layout.Result) *layout.Result {
	out := base.Clone()
	for id, p := range s.entries {
		out.Move(id, p)
	}
	return out
}

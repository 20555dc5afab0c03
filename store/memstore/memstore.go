// Package memstore provides an in-memory store gateway. It backs tests
// and local development; the semantics mirror the remote store contract,
// including per-graph atomicity and no-op removal of absent statements.
package memstore

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/c360/semschema/store"
)

// Hook intercepts a gateway operation before it executes. Returning a
// non-nil error makes the operation fail without touching the store.
// Used to exercise partial-failure paths.
type Hook func(op, name string) error

// Store is an in-memory store.Gateway implementation. Safe for
// concurrent use.
type Store struct {
	mu      sync.RWMutex
	graphs  map[string]map[store.Statement]bool
	markers map[string]string
	hook    Hook

	// operation counters, readable via Calls
	calls map[string]int
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		graphs:  map[string]map[store.Statement]bool{},
		markers: map[string]string{},
		calls:   map[string]int{},
	}
}

// SetHook installs an operation interceptor; nil removes it.
func (s *Store) SetHook(h Hook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hook = h
}

// Calls returns how often the named operation ran or was attempted.
func (s *Store) Calls(op string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.calls[op]
}

// ReadGraph returns every statement of the named graph, canonically
// sorted. An unknown graph reads as empty.
func (s *Store) ReadGraph(ctx context.Context, graph string) ([]store.Statement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls["read_graph"]++
	if s.hook != nil {
		if err := s.hook("read_graph", graph); err != nil {
			return nil, err
		}
	}

	var out []store.Statement
	for stmt := range s.graphs[graph] {
		out = append(out, stmt)
	}
	store.Sort(out)
	return out, nil
}

// ApplyDelta applies removals then additions to the named graph. The
// whole delta lands or none of it does.
func (s *Store) ApplyDelta(ctx context.Context, graph string, delta store.Delta) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls["apply_delta"]++
	if s.hook != nil {
		if err := s.hook("apply_delta", graph); err != nil {
			return err
		}
	}

	g, ok := s.graphs[graph]
	if !ok {
		g = map[store.Statement]bool{}
		s.graphs[graph] = g
	}
	for _, stmt := range delta.Removals {
		delete(g, stmt)
	}
	for _, stmt := range delta.Additions {
		g[stmt] = true
	}
	return nil
}

// SnapshotMarker returns the project's version token, minting one on
// first use so the token is never empty.
func (s *Store) SnapshotMarker(ctx context.Context, project string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls["snapshot_marker"]++
	if s.hook != nil {
		if err := s.hook("snapshot_marker", project); err != nil {
			return "", err
		}
	}

	marker, ok := s.markers[project]
	if !ok {
		marker = uuid.NewString()
		s.markers[project] = marker
	}
	return marker, nil
}

// AdvanceMarker moves the project's version token forward.
func (s *Store) AdvanceMarker(ctx context.Context, project string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls["advance_marker"]++
	if s.hook != nil {
		if err := s.hook("advance_marker", project); err != nil {
			return "", err
		}
	}

	marker := uuid.NewString()
	s.markers[project] = marker
	return marker, nil
}

// BumpMarker simulates a concurrent writer changing the project's graphs
// behind this client's back.
func (s *Store) BumpMarker(project string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	marker := uuid.NewString()
	s.markers[project] = marker
	return marker
}

// GraphSize returns the number of statements in the graph.
func (s *Store) GraphSize(graph string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.graphs[graph])
}

// Contains reports whether the graph holds the statement.
func (s *Store) Contains(graph string, stmt store.Statement) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.graphs[graph][stmt]
}

var _ store.Gateway = (*Store)(nil)

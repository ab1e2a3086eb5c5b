// Package dataset holds the most recently processed evaluated dataset
// for the API to serve.
package dataset

import (
	"sync"
	"time"

	"github.com/tecuops/dispatch-sla/internal/advisor"
	"github.com/tecuops/dispatch-sla/internal/eval"
	"github.com/tecuops/dispatch-sla/internal/report"
	"github.com/tecuops/dispatch-sla/internal/sla"
)

// Snapshot is one fully processed dataset. Derived data is recomputed
// from scratch on every upload; snapshots are never mutated in place.
type Snapshot struct {
	Source    string
	Orders    []eval.EvaluatedOrder
	Summary   *report.Summary // nil when no delivered orders
	Findings  []advisor.Finding
	Params    sla.Params
	UpdatedAt time.Time
}

// Store is a thread-safe holder for the current snapshot.
type Store struct {
	mu      sync.RWMutex
	current *Snapshot
}

// NewStore creates an empty snapshot store.
func NewStore() *Store {
	return &Store{}
}

// Set replaces the current snapshot.
func (s *Store) Set(snap *Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = snap
}

// Get returns the current snapshot, or false when none is loaded.
func (s *Store) Get() (*Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.current, s.current != nil
}

// Clear drops the current snapshot.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = nil
}

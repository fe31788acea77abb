// Package memstore provides an in-memory counter.Store. It backs unit
// tests and the memory driver, which is useful for local development
// where losing counts on restart does not matter.
package memstore

import (
	"context"
	"sync"

	"github.com/sundayezeilo/pagecounts/internal/counter"
)

// Store is a mutex-guarded map keyed by slug. Safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	rows map[string]counter.Counts
}

var _ counter.Store = (*Store)(nil)

// New returns an empty in-memory store.
func New() *Store {
	return &Store{rows: make(map[string]counter.Counts)}
}

// Get implements counter.Store.
func (s *Store) Get(_ context.Context, slug string) (counter.Counts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts, ok := s.rows[slug]
	if !ok {
		return counter.Counts{}, counter.ErrNotFound
	}
	return counts, nil
}

// Upsert implements counter.Store.
func (s *Store) Upsert(_ context.Context, counts counter.Counts) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rows[counts.Slug] = counts
	return nil
}

// Len reports the number of stored rows, for tests asserting that
// reads never create rows.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}

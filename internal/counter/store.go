package counter

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Store.Get when no row exists for a slug.
// The service treats it as "all counters zero", never as a failure.
var ErrNotFound = errors.New("counter row not found")

// Store defines the persistence operations for counter rows.
// It abstracts the underlying data store (Postgres, Redis, a Google
// Sheet, or an in-memory map in tests). The store is the single source
// of truth: the service keeps no cache and re-reads on every call.
type Store interface {
	// Get returns the row for slug, or ErrNotFound.
	Get(ctx context.Context, slug string) (Counts, error)
	// Upsert creates the row for counts.Slug or replaces it in full.
	Upsert(ctx context.Context, counts Counts) error
}

// Package pgstore provides a Postgres-backed counter.Store using a
// pgx connection pool. Rows are keyed by a slug primary key, so the
// store itself guarantees at most one row per slug.
package pgstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sundayezeilo/pagecounts/internal/counter"
)

const schema = `
CREATE TABLE IF NOT EXISTS counters (
    slug     TEXT PRIMARY KEY,
    likes    BIGINT NOT NULL DEFAULT 0,
    dislikes BIGINT NOT NULL DEFAULT 0,
    infos    BIGINT NOT NULL DEFAULT 0
)`

// Store persists counter rows in Postgres.
type Store struct {
	pool *pgxpool.Pool
}

var _ counter.Store = (*Store)(nil)

// New returns a store backed by the given pool. The pool stays owned
// by the caller; closing it is not the store's job.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// EnsureSchema creates the counters table if it does not exist yet.
// The table is small and self-describing, so no migration tooling.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure counters schema: %w", err)
	}
	return nil
}

// Get implements counter.Store.
func (s *Store) Get(ctx context.Context, slug string) (counter.Counts, error) {
	const q = `SELECT slug, likes, dislikes, infos FROM counters WHERE slug = $1`

	var c counter.Counts
	err := s.pool.QueryRow(ctx, q, slug).Scan(&c.Slug, &c.Likes, &c.Dislikes, &c.Infos)
	if errors.Is(err, pgx.ErrNoRows) {
		return counter.Counts{}, counter.ErrNotFound
	}
	if err != nil {
		return counter.Counts{}, fmt.Errorf("get counters for %q: %w", slug, err)
	}
	return c, nil
}

// Upsert implements counter.Store. The slug primary key makes the
// create-or-replace atomic, so concurrent first bumps of a slug can
// never leave two rows behind.
func (s *Store) Upsert(ctx context.Context, counts counter.Counts) error {
	const q = `
INSERT INTO counters (slug, likes, dislikes, infos)
VALUES ($1, $2, $3, $4)
ON CONFLICT (slug) DO UPDATE
SET likes = EXCLUDED.likes, dislikes = EXCLUDED.dislikes, infos = EXCLUDED.infos`

	if _, err := s.pool.Exec(ctx, q, counts.Slug, counts.Likes, counts.Dislikes, counts.Infos); err != nil {
		return fmt.Errorf("upsert counters for %q: %w", counts.Slug, err)
	}
	return nil
}

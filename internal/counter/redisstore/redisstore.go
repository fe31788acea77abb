// Package redisstore provides a Redis-backed counter.Store. Each slug
// is one hash under a configurable key prefix, with the three counter
// fields as hash fields.
package redisstore

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/sundayezeilo/pagecounts/internal/counter"
)

// Store persists counter rows as Redis hashes.
type Store struct {
	client    redis.UniversalClient
	keyPrefix string
}

var _ counter.Store = (*Store)(nil)

// New returns a store using the given client. The client stays owned
// by the caller.
func New(client redis.UniversalClient, keyPrefix string) *Store {
	return &Store{client: client, keyPrefix: keyPrefix}
}

func (s *Store) key(slug string) string {
	return s.keyPrefix + slug
}

// Get implements counter.Store.
func (s *Store) Get(ctx context.Context, slug string) (counter.Counts, error) {
	fields, err := s.client.HGetAll(ctx, s.key(slug)).Result()
	if err != nil {
		return counter.Counts{}, fmt.Errorf("hgetall %q: %w", slug, err)
	}
	// HGetAll returns an empty map, not a nil error, for missing keys.
	if len(fields) == 0 {
		return counter.Counts{}, counter.ErrNotFound
	}

	counts := counter.Zero(slug)
	for _, f := range counter.Fields() {
		raw, ok := fields[f.String()]
		if !ok || raw == "" {
			continue
		}
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return counter.Counts{}, fmt.Errorf("parse %s for %q: %w", f, slug, err)
		}
		counts = counts.Add(f, v)
	}
	return counts, nil
}

// Upsert implements counter.Store.
func (s *Store) Upsert(ctx context.Context, counts counter.Counts) error {
	err := s.client.HSet(ctx, s.key(counts.Slug),
		counter.FieldLikes.String(), counts.Likes,
		counter.FieldDislikes.String(), counts.Dislikes,
		counter.FieldInfos.String(), counts.Infos,
	).Err()
	if err != nil {
		return fmt.Errorf("hset %q: %w", counts.Slug, err)
	}
	return nil
}

package counter

import (
	"context"
	"errors"
	"log/slog"

	"github.com/sundayezeilo/pagecounts/internal/counter/keyedmutex"
	"github.com/sundayezeilo/pagecounts/internal/errx"
)

// MaxSlugLength bounds caller-supplied slugs. Rows live forever, so an
// unbounded slug is an unbounded storage key.
const MaxSlugLength = 128

// Service defines the business logic operations for counter rows.
type Service interface {
	// ReadCounts returns the current row for slug. Unknown slugs yield
	// an all-zero row and do NOT create anything in the store.
	ReadCounts(ctx context.Context, slug string) (Counts, error)
	// Bump increments one field by 1, creating the row on first use,
	// and returns the full post-increment row.
	Bump(ctx context.Context, slug string, field Field) (Counts, error)
	// ResetSlug zeroes all counters for an existing slug. Unknown
	// slugs are a logged no-op.
	ResetSlug(ctx context.Context, slug string) error
}

// service implements the Service interface.
type service struct {
	store  Store
	logger *slog.Logger
	slugMu *keyedmutex.M
}

// ServiceConfig holds configuration for the service.
type ServiceConfig struct {
	Logger *slog.Logger
}

// NewService creates a new service instance.
func NewService(store Store, config *ServiceConfig) Service {
	if config == nil {
		config = &ServiceConfig{}
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &service{
		store:  store,
		logger: logger,
		slugMu: keyedmutex.New(),
	}
}

func (s *service) ReadCounts(ctx context.Context, slug string) (Counts, error) {
	const op = "counter.service.ReadCounts"

	if err := validateSlug(slug); err != nil {
		return Counts{}, errx.E(op, errx.Invalid, err)
	}

	counts, err := s.store.Get(ctx, slug)
	if errors.Is(err, ErrNotFound) {
		return Zero(slug), nil
	}
	if err != nil {
		return Counts{}, errx.E(op, errx.Unavailable, err)
	}
	return counts, nil
}

func (s *service) Bump(ctx context.Context, slug string, field Field) (Counts, error) {
	const op = "counter.service.Bump"

	if err := validateSlug(slug); err != nil {
		return Counts{}, errx.E(op, errx.Invalid, err)
	}
	// Re-validate even though handlers parse the field: the store must
	// never be touched with a field outside the closed set.
	if _, err := ParseField(field.String()); err != nil {
		return Counts{}, errx.E(op, errx.Invalid, err)
	}

	// Serialize the read-modify-write per slug. Without this, two
	// concurrent bumps of a new slug both see "no row" and append two,
	// and bumps of an existing row can lose an increment.
	defer s.slugMu.Lock(slug)()

	counts, err := s.store.Get(ctx, slug)
	if errors.Is(err, ErrNotFound) {
		counts = Zero(slug)
	} else if err != nil {
		return Counts{}, errx.E(op, errx.Unavailable, err)
	}

	counts = counts.Add(field, 1)
	if err := s.store.Upsert(ctx, counts); err != nil {
		return Counts{}, errx.E(op, errx.Unavailable, err)
	}
	return counts, nil
}

func (s *service) ResetSlug(ctx context.Context, slug string) error {
	const op = "counter.service.ResetSlug"

	if err := validateSlug(slug); err != nil {
		return errx.E(op, errx.Invalid, err)
	}

	defer s.slugMu.Lock(slug)()

	_, err := s.store.Get(ctx, slug)
	if errors.Is(err, ErrNotFound) {
		s.logger.InfoContext(ctx, "reset skipped, slug unknown", "slug", slug)
		return nil
	}
	if err != nil {
		return errx.E(op, errx.Unavailable, err)
	}

	if err := s.store.Upsert(ctx, Zero(slug)); err != nil {
		return errx.E(op, errx.Unavailable, err)
	}

	s.logger.InfoContext(ctx, "counters reset", "slug", slug)
	return nil
}

func validateSlug(slug string) error {
	if slug == "" {
		return errors.New("slug cannot be empty")
	}
	if len(slug) > MaxSlugLength {
		return errors.New("slug too long (maximum 128 characters)")
	}
	return nil
}

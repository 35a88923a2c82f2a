package catalog

import (
	"context"

	"github.com/gadgetry/storefront/internal/db"
)

// Store routes catalog reads to postgres or the in-memory fallback, depending
// on the mode the lazy connection settled into. The mode is fixed for the
// process lifetime after the first access.
type Store struct {
	lazy     *db.Lazy
	fallback *MemoryRepository
}

func NewStore(lazy *db.Lazy) *Store {
	return &Store{
		lazy:     lazy,
		fallback: NewMemoryRepository(FallbackProducts()),
	}
}

func (s *Store) List(ctx context.Context) ([]Product, error) {
	return s.repo(ctx).List(ctx)
}

func (s *Store) Get(ctx context.Context, id int64) (Product, error) {
	return s.repo(ctx).Get(ctx, id)
}

func (s *Store) repo(ctx context.Context) Repository {
	if pool := s.lazy.Pool(ctx); pool != nil {
		return NewPostgresRepository(pool)
	}
	return s.fallback
}

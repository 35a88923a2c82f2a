package order

import (
	"context"
	"log"

	"github.com/gadgetry/storefront/internal/db"
)

// Store routes order writes to postgres or the simulated repository,
// following the mode the lazy connection settled into.
type Store struct {
	lazy      *db.Lazy
	simulated *SimulatedRepository
}

func NewStore(lazy *db.Lazy, logger *log.Logger) *Store {
	return &Store{
		lazy:      lazy,
		simulated: NewSimulatedRepository(logger),
	}
}

func (s *Store) Create(ctx context.Context, o *Order, items []Item) (int64, error) {
	if pool := s.lazy.Pool(ctx); pool != nil {
		return NewPostgresRepository(pool).Create(ctx, o, items)
	}
	return s.simulated.Create(ctx, o, items)
}

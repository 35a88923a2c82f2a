package pricing

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/gadgetry/storefront/internal/catalog"
)

// UnknownProductError reports the first cart product id that does not exist
// in the catalog.
type UnknownProductError struct {
	ID int64
}

func (e UnknownProductError) Error() string {
	return fmt.Sprintf("product %d not found", e.ID)
}

// Catalog is the read surface the resolver needs.
type Catalog interface {
	Get(ctx context.Context, id int64) (catalog.Product, error)
}

// Resolver reads current unit prices from the catalog. Prices supplied by
// clients are never consulted.
type Resolver struct {
	catalog Catalog
}

func NewResolver(c Catalog) *Resolver {
	return &Resolver{catalog: c}
}

// Resolve returns the unit price for every distinct id in ids. If any id is
// unknown it fails with UnknownProductError and no partial mapping is
// returned.
func (r *Resolver) Resolve(ctx context.Context, ids []int64) (map[int64]decimal.Decimal, error) {
	prices := make(map[int64]decimal.Decimal, len(ids))
	for _, id := range ids {
		if _, ok := prices[id]; ok {
			continue
		}
		p, err := r.catalog.Get(ctx, id)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				return nil, UnknownProductError{ID: id}
			}
			return nil, fmt.Errorf("resolve price for product %d: %w", id, err)
		}
		prices[id] = p.Price
	}
	return prices, nil
}

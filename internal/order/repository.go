package order

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"

	"github.com/jackc/pgx/v5"
)

// ErrNoItems guards the invariant that an order is never persisted without
// line items. The orchestrator validates earlier; this is the last line.
var ErrNoItems = errors.New("order has no items")

// DBPool matches the methods from *pgxpool.Pool that we use.
// This allows us to mock the database in tests.
type DBPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Repository persists an order header plus its items as one atomic unit and
// returns the generated order id.
type Repository interface {
	Create(ctx context.Context, o *Order, items []Item) (int64, error)
}

type PostgresRepository struct {
	pool DBPool
}

func NewPostgresRepository(pool DBPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Create inserts the header and all items in a single transaction. Any
// failure rolls back everything written for this call.
func (r *PostgresRepository) Create(ctx context.Context, o *Order, items []Item) (int64, error) {
	if len(items) == 0 {
		return 0, ErrNoItems
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var orderID int64
	err = tx.QueryRow(ctx,
		`INSERT INTO orders (customer_name, email, address, total_amount)
         VALUES ($1, $2, $3, $4)
         RETURNING id`,
		o.CustomerName, o.Email, o.Address, o.TotalAmount,
	).Scan(&orderID)
	if err != nil {
		return 0, fmt.Errorf("insert order: %w", err)
	}

	for _, it := range items {
		_, err = tx.Exec(ctx,
			`INSERT INTO order_items (order_id, product_id, quantity, unit_price)
             VALUES ($1, $2, $3, $4)`,
			orderID, it.ProductID, it.Quantity, it.UnitPrice,
		)
		if err != nil {
			return 0, fmt.Errorf("insert order_item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	o.ID = orderID
	return orderID, nil
}

// SimulatedRepository satisfies the checkout contract without a durable
// store: nothing is written and the order id is synthetic. Callers cannot
// tell the difference from the response shape; the log line is the only
// trace.
type SimulatedRepository struct {
	logger *log.Logger
}

func NewSimulatedRepository(logger *log.Logger) *SimulatedRepository {
	return &SimulatedRepository{logger: logger}
}

func (r *SimulatedRepository) Create(ctx context.Context, o *Order, items []Item) (int64, error) {
	if len(items) == 0 {
		return 0, ErrNoItems
	}

	orderID := rand.Int64N(1_000_000)
	r.logger.Printf("simulation mode: order %d not persisted (no database)", orderID)

	o.ID = orderID
	return orderID, nil
}

package checkout

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/gadgetry/storefront/internal/order"
)

var (
	// ErrMissingCustomerOrItems means the request shape is unusable: no
	// customer structure, or an empty item list.
	ErrMissingCustomerOrItems = errors.New("missing customer or items")

	// ErrInvalidQuantity means an item carried a quantity below 1.
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
)

// Customer is the buyer information submitted with a checkout. Empty email
// and address are stored as NULL.
type Customer struct {
	Name    string
	Email   string
	Address string
}

// Line is one requested cart line. Duplicate product ids are honored as
// separate lines; merging is the cart's job, not ours.
type Line struct {
	ProductID int64
	Quantity  int
}

type Request struct {
	Customer *Customer
	Items    []Line
}

type Result struct {
	OrderID int64
	Total   decimal.Decimal
}

// Pricer resolves unit prices for a set of product ids, all or nothing.
type Pricer interface {
	Resolve(ctx context.Context, ids []int64) (map[int64]decimal.Decimal, error)
}

// Orders persists one order atomically and returns its id.
type Orders interface {
	Create(ctx context.Context, o *order.Order, items []order.Item) (int64, error)
}

// Publisher announces a created order. Optional; publish failures never fail
// the checkout.
type Publisher interface {
	PublishOrderCreated(ctx context.Context, o *order.Order, items []order.Item) error
}

type Service struct {
	pricer    Pricer
	orders    Orders
	publisher Publisher
	logger    *log.Logger
}

// NewService wires the checkout orchestrator. publisher may be nil when no
// broker is configured.
func NewService(pricer Pricer, orders Orders, publisher Publisher, logger *log.Logger) *Service {
	return &Service{pricer: pricer, orders: orders, publisher: publisher, logger: logger}
}

// Checkout validates the request, prices every line from the catalog,
// computes the total and persists the order. Validation happens before any
// side effect; an unknown product aborts the whole call with nothing
// persisted.
func (s *Service) Checkout(ctx context.Context, req Request) (Result, error) {
	if req.Customer == nil || len(req.Items) == 0 {
		return Result{}, ErrMissingCustomerOrItems
	}
	for _, line := range req.Items {
		if line.Quantity < 1 {
			return Result{}, ErrInvalidQuantity
		}
	}

	ids := make([]int64, 0, len(req.Items))
	for _, line := range req.Items {
		ids = append(ids, line.ProductID)
	}

	prices, err := s.pricer.Resolve(ctx, ids)
	if err != nil {
		return Result{}, err
	}

	total := decimal.Zero
	items := make([]order.Item, 0, len(req.Items))
	for _, line := range req.Items {
		unitPrice := prices[line.ProductID]
		total = total.Add(unitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
		items = append(items, order.Item{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: unitPrice,
		})
	}

	o := &order.Order{
		CustomerName: customerName(req.Customer.Name),
		Email:        optional(req.Customer.Email),
		Address:      optional(req.Customer.Address),
		TotalAmount:  total,
	}

	orderID, err := s.orders.Create(ctx, o, items)
	if err != nil {
		return Result{}, err
	}

	if s.publisher != nil {
		if err := s.publisher.PublishOrderCreated(ctx, o, items); err != nil {
			s.logger.Printf("publish order.created for order %d: %v", orderID, err)
		}
	}

	return Result{OrderID: orderID, Total: total}, nil
}

func customerName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "Guest"
	}
	return name
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

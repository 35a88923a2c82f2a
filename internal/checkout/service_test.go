package checkout

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gadgetry/storefront/internal/order"
	"github.com/gadgetry/storefront/internal/pricing"
)

type fakePricer struct {
	prices   map[int64]decimal.Decimal
	resolved [][]int64
}

func (f *fakePricer) Resolve(ctx context.Context, ids []int64) (map[int64]decimal.Decimal, error) {
	f.resolved = append(f.resolved, ids)
	out := make(map[int64]decimal.Decimal, len(ids))
	for _, id := range ids {
		p, ok := f.prices[id]
		if !ok {
			return nil, pricing.UnknownProductError{ID: id}
		}
		out[id] = p
	}
	return out, nil
}

type fakeOrders struct {
	createFunc func(ctx context.Context, o *order.Order, items []order.Item) (int64, error)
	lastOrder  *order.Order
	lastItems  []order.Item
	calls      int
}

func (f *fakeOrders) Create(ctx context.Context, o *order.Order, items []order.Item) (int64, error) {
	f.calls++
	f.lastOrder = o
	f.lastItems = items
	if f.createFunc != nil {
		return f.createFunc(ctx, o, items)
	}
	o.ID = 42
	return 42, nil
}

type fakePublisher struct {
	published int
	err       error
}

func (f *fakePublisher) PublishOrderCreated(ctx context.Context, o *order.Order, items []order.Item) error {
	f.published++
	return f.err
}

func newService(pricer Pricer, orders Orders, publisher Publisher) *Service {
	return NewService(pricer, orders, publisher, log.New(io.Discard, "", log.LstdFlags))
}

func TestCheckout_Success(t *testing.T) {
	pricer := &fakePricer{prices: map[int64]decimal.Decimal{
		3: decimal.RequireFromString("19.99"),
	}}
	orders := &fakeOrders{}
	svc := newService(pricer, orders, nil)

	res, err := svc.Checkout(context.Background(), Request{
		Customer: &Customer{Name: "A"},
		Items:    []Line{{ProductID: 3, Quantity: 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), res.OrderID)
	assert.True(t, res.Total.Equal(decimal.RequireFromString("39.98")), "total %s", res.Total)

	require.NotNil(t, orders.lastOrder)
	assert.Equal(t, "A", orders.lastOrder.CustomerName)
	assert.Nil(t, orders.lastOrder.Email)
	assert.Nil(t, orders.lastOrder.Address)
	require.Len(t, orders.lastItems, 1)
	assert.True(t, orders.lastItems[0].UnitPrice.Equal(decimal.RequireFromString("19.99")))
}

func TestCheckout_Validation(t *testing.T) {
	pricer := &fakePricer{prices: map[int64]decimal.Decimal{1: decimal.NewFromInt(1)}}

	t.Run("nil customer", func(t *testing.T) {
		orders := &fakeOrders{}
		svc := newService(pricer, orders, nil)
		_, err := svc.Checkout(context.Background(), Request{
			Items: []Line{{ProductID: 1, Quantity: 1}},
		})
		require.ErrorIs(t, err, ErrMissingCustomerOrItems)
		assert.Zero(t, orders.calls)
	})

	t.Run("empty items", func(t *testing.T) {
		orders := &fakeOrders{}
		svc := newService(pricer, orders, nil)
		_, err := svc.Checkout(context.Background(), Request{Customer: &Customer{}})
		require.ErrorIs(t, err, ErrMissingCustomerOrItems)
		assert.Zero(t, orders.calls)
	})

	t.Run("zero quantity", func(t *testing.T) {
		orders := &fakeOrders{}
		svc := newService(pricer, orders, nil)
		_, err := svc.Checkout(context.Background(), Request{
			Customer: &Customer{Name: "A"},
			Items:    []Line{{ProductID: 1, Quantity: 0}},
		})
		require.ErrorIs(t, err, ErrInvalidQuantity)
		assert.Zero(t, orders.calls)
		assert.Empty(t, pricer.resolved, "validation must precede pricing")
	})

	t.Run("negative quantity", func(t *testing.T) {
		orders := &fakeOrders{}
		svc := newService(pricer, orders, nil)
		_, err := svc.Checkout(context.Background(), Request{
			Customer: &Customer{Name: "A"},
			Items:    []Line{{ProductID: 1, Quantity: -2}},
		})
		require.ErrorIs(t, err, ErrInvalidQuantity)
		assert.Zero(t, orders.calls)
	})
}

func TestCheckout_UnknownProduct(t *testing.T) {
	pricer := &fakePricer{prices: map[int64]decimal.Decimal{
		1: decimal.RequireFromString("39.99"),
	}}
	orders := &fakeOrders{}
	svc := newService(pricer, orders, nil)

	_, err := svc.Checkout(context.Background(), Request{
		Customer: &Customer{Name: "B"},
		Items:    []Line{{ProductID: 1, Quantity: 1}, {ProductID: 999, Quantity: 1}},
	})

	var unknown pricing.UnknownProductError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, int64(999), unknown.ID)
	assert.Zero(t, orders.calls, "no order may be created for an unknown product")
}

func TestCheckout_DuplicateLinesStaySeparate(t *testing.T) {
	pricer := &fakePricer{prices: map[int64]decimal.Decimal{
		3: decimal.RequireFromString("19.99"),
	}}
	orders := &fakeOrders{}
	svc := newService(pricer, orders, nil)

	res, err := svc.Checkout(context.Background(), Request{
		Customer: &Customer{Name: "A"},
		Items:    []Line{{ProductID: 3, Quantity: 1}, {ProductID: 3, Quantity: 2}},
	})
	require.NoError(t, err)
	assert.True(t, res.Total.Equal(decimal.RequireFromString("59.97")), "total %s", res.Total)
	require.Len(t, orders.lastItems, 2, "duplicate product ids are separate lines")
}

func TestCheckout_DecimalTotals(t *testing.T) {
	// float64 accumulation of 0.10*3 + 19.99*7 style sums drifts; decimal
	// arithmetic must not.
	pricer := &fakePricer{prices: map[int64]decimal.Decimal{
		1: decimal.RequireFromString("0.10"),
		2: decimal.RequireFromString("19.99"),
		3: decimal.RequireFromString("9.99"),
	}}
	orders := &fakeOrders{}
	svc := newService(pricer, orders, nil)

	res, err := svc.Checkout(context.Background(), Request{
		Customer: &Customer{Name: "A"},
		Items: []Line{
			{ProductID: 1, Quantity: 3},
			{ProductID: 2, Quantity: 7},
			{ProductID: 3, Quantity: 11},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "250.12", res.Total.String())
}

func TestCheckout_CustomerDefaults(t *testing.T) {
	pricer := &fakePricer{prices: map[int64]decimal.Decimal{3: decimal.RequireFromString("19.99")}}
	orders := &fakeOrders{}
	svc := newService(pricer, orders, nil)

	_, err := svc.Checkout(context.Background(), Request{
		Customer: &Customer{Name: "   ", Email: "a@b.c"},
		Items:    []Line{{ProductID: 3, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Guest", orders.lastOrder.CustomerName)
	require.NotNil(t, orders.lastOrder.Email)
	assert.Equal(t, "a@b.c", *orders.lastOrder.Email)
	assert.Nil(t, orders.lastOrder.Address)
}

func TestCheckout_PersistenceFailure(t *testing.T) {
	pricer := &fakePricer{prices: map[int64]decimal.Decimal{3: decimal.RequireFromString("19.99")}}
	orders := &fakeOrders{createFunc: func(ctx context.Context, o *order.Order, items []order.Item) (int64, error) {
		return 0, errors.New("connection reset")
	}}
	pub := &fakePublisher{}
	svc := newService(pricer, orders, pub)

	_, err := svc.Checkout(context.Background(), Request{
		Customer: &Customer{Name: "A"},
		Items:    []Line{{ProductID: 3, Quantity: 1}},
	})
	require.Error(t, err)
	assert.Zero(t, pub.published, "no event for a failed checkout")
}

func TestCheckout_PublishFailureDoesNotFailCheckout(t *testing.T) {
	pricer := &fakePricer{prices: map[int64]decimal.Decimal{3: decimal.RequireFromString("19.99")}}
	orders := &fakeOrders{}
	pub := &fakePublisher{err: errors.New("broker gone")}
	svc := newService(pricer, orders, pub)

	res, err := svc.Checkout(context.Background(), Request{
		Customer: &Customer{Name: "A"},
		Items:    []Line{{ProductID: 3, Quantity: 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), res.OrderID)
	assert.Equal(t, 1, pub.published)
}

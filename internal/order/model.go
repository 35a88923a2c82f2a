package order

import "github.com/shopspring/decimal"

type Order struct {
	ID           int64           `json:"orderId"`
	CustomerName string          `json:"customerName"`
	Email        *string         `json:"email"`
	Address      *string         `json:"address"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
}

// Item is one line of an order. UnitPrice is the price snapshot taken at
// checkout time, not a live reference to the product.
type Item struct {
	OrderID   int64           `json:"orderId"`
	ProductID int64           `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

package events

import (
	"time"

	"github.com/shopspring/decimal"
)

const EventTypeOrderCreated = "OrderCreated"

type OrderLine struct {
	ProductID int64           `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

type OrderCreated struct {
	EventType    string          `json:"eventType"`
	EventID      string          `json:"eventId"`
	OrderID      int64           `json:"orderId"`
	CustomerName string          `json:"customerName"`
	Items        []OrderLine     `json:"items"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	Timestamp    time.Time       `json:"timestamp"`
}

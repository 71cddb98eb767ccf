package model

import (
	"fmt"
	"time"
)

// Order statuses. Advanced only by staff action.
const (
	OrderPending   = "pending"
	OrderPreparing = "preparing"
	OrderReady     = "ready"
	OrderDelivered = "delivered"
)

// Order types, derived from the owning table id's range.
const (
	OrderTypeTable    = "table"
	OrderTypeDelivery = "delivery"
	OrderTypeCounter  = "counter"
)

// statusLabels maps order statuses to their staff-facing labels. Unknown
// statuses fall back to the raw string.
var statusLabels = map[string]string{
	OrderPending:   "Pendente",
	OrderPreparing: "Em Preparo",
	OrderReady:     "Pronto p/ Entrega",
	OrderDelivered: "Entregue",
}

// StatusLabel returns the human label for an order status.
func StatusLabel(status string) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return status
}

// OrderLine is a product snapshot plus quantity and an optional free-text
// observation. Two lines are the same line iff product id and observation
// match exactly.
type OrderLine struct {
	ProductID   string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Observation string  `json:"observation,omitempty"`
}

// Subtotal returns price times quantity for the line.
func (l OrderLine) Subtotal() float64 {
	return l.Price * float64(l.Quantity)
}

// Order is one customer's accumulated line items for a single table visit.
// It is persisted as a JSON blob inside the owning table record, with
// camelCase keys matching what the ordering surface reads back.
type Order struct {
	ID            string      `json:"id"`
	CustomerName  string      `json:"customerName"`
	Items         []OrderLine `json:"items"`
	Total         float64     `json:"total"`
	Discount      float64     `json:"discount,omitempty"`
	FinalTotal    float64     `json:"finalTotal"`
	Status        string      `json:"status"`
	PaymentMethod string      `json:"paymentMethod"`
	Timestamp     time.Time   `json:"timestamp"`
	TableID       int64       `json:"tableId"`
	OrderType     string      `json:"orderType"`
}

// CustomerNameFor derives the default customer name from the table id's
// range: counter and delivery orders carry the slot label, dine-in orders
// carry the table number.
func CustomerNameFor(tableID int64) string {
	switch {
	case tableID >= CounterRangeStart:
		return "Balcão"
	case tableID >= DeliveryRangeStart:
		return "Entrega"
	default:
		return fmt.Sprintf("Mesa %d", tableID)
	}
}

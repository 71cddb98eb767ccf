package model

import "time"

// Table statuses as persisted on the wire.
const (
	TableFree     = "free"
	TableOccupied = "occupied"
)

// Table id ranges. Physical dining tables sit below 900; delivery and
// counter orders are parked on virtual tables in reserved ranges.
const (
	DeliveryRangeStart int64 = 900
	DeliveryRangeEnd   int64 = 949
	CounterRangeStart  int64 = 950
	CounterRangeEnd    int64 = 999
)

// Table is a slot (physical or virtual) holding at most one open order.
// CurrentOrder is stored as a JSON blob in the current_order column,
// mirroring how the roster is persisted upstream.
type Table struct {
	ID           int64  `gorm:"primaryKey" json:"id"`
	Status       string `gorm:"size:16;not null" json:"status"`
	CurrentOrder *Order `gorm:"serializer:json" json:"current_order"`
	CreatedAt    time.Time
	UpdatedAt    time.Time `gorm:"index"`
}

// OrderTypeFor derives the order type from a table id's range.
func OrderTypeFor(tableID int64) string {
	switch {
	case tableID >= CounterRangeStart:
		return OrderTypeCounter
	case tableID >= DeliveryRangeStart:
		return OrderTypeDelivery
	default:
		return OrderTypeTable
	}
}

// TableLabel returns the staff-facing label for a table id.
func TableLabel(tableID int64) string {
	switch {
	case tableID >= CounterRangeStart:
		return "Balcão"
	case tableID >= DeliveryRangeStart:
		return "Entrega"
	default:
		return "Mesa"
	}
}

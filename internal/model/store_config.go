package model

import "time"

// StoreConfigID is the fixed primary key of the config singleton; the row
// is replaced wholesale on every update.
const StoreConfigID int64 = 1

// StoreConfig toggles which order types the store currently accepts.
type StoreConfig struct {
	ID              int64 `gorm:"primaryKey" json:"id"`
	TablesEnabled   bool  `json:"tables_enabled"`
	DeliveryEnabled bool  `json:"delivery_enabled"`
	CounterEnabled  bool  `json:"counter_enabled"`
	UpdatedAt       time.Time
}

// Closed reports whether the store accepts no orders at all.
func (c StoreConfig) Closed() bool {
	return !c.TablesEnabled && !c.DeliveryEnabled && !c.CounterEnabled
}

// Accepts reports whether the given order type is currently open.
func (c StoreConfig) Accepts(orderType string) bool {
	switch orderType {
	case OrderTypeTable:
		return c.TablesEnabled
	case OrderTypeDelivery:
		return c.DeliveryEnabled
	case OrderTypeCounter:
		return c.CounterEnabled
	}
	return false
}

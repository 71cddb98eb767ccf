// Package feed abstracts the subscription to the backing store's change
// stream. Consumers receive typed change events; writes go back through
// the same client.
package feed

import (
	"context"
	"errors"
	"fmt"

	"table-order-backend/internal/model"
)

// ErrMalformed marks a change event missing expected fields. Such events
// are dropped by consumers with the roster left unchanged.
var ErrMalformed = errors.New("malformed change event")

// TableSnapshot is the wire form of a table change event.
type TableSnapshot struct {
	ID           int64        `json:"id"`
	Status       string       `json:"status"`
	CurrentOrder *model.Order `json:"current_order"`
}

// Validate reports whether the snapshot carries the fields reconciliation
// needs.
func (s TableSnapshot) Validate() error {
	if s.ID <= 0 {
		return fmt.Errorf("%w: missing table id", ErrMalformed)
	}
	if s.Status != model.TableFree && s.Status != model.TableOccupied {
		return fmt.Errorf("%w: unknown status %q", ErrMalformed, s.Status)
	}
	return nil
}

// BulkData is the result of a bootstrap read.
type BulkData struct {
	Tables     []model.Table
	Products   []model.Product
	Categories []model.Category
	Coupons    []model.Coupon
	Config     model.StoreConfig
}

// TableHandler consumes table change events.
type TableHandler func(TableSnapshot)

// ConfigHandler consumes store-config change events.
type ConfigHandler func(model.StoreConfig)

// Client is the core-facing interface to the change feed. Events for the
// same table are delivered in store commit order; handlers are invoked
// serially from a single dispatch goroutine.
type Client interface {
	Subscribe(onTable TableHandler, onConfig ConfigHandler) string
	Unsubscribe(handle string)

	QueryAll(ctx context.Context) (*BulkData, error)

	UpsertTable(ctx context.Context, snap TableSnapshot) error
	UpsertConfig(ctx context.Context, cfg model.StoreConfig) error

	InsertProduct(ctx context.Context, p model.Product) error
	UpdateProduct(ctx context.Context, p model.Product) error
	DeleteProduct(ctx context.Context, id string) error
}

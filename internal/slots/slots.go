// Package slots resolves delivery and counter orders to concrete virtual
// table ids within their reserved ranges.
package slots

import (
	"fmt"

	"table-order-backend/internal/model"
)

// Range is an inclusive span of virtual table ids reserved for one order
// type.
type Range struct {
	Lo, Hi int64
}

// RangeFor returns the reserved id range for a non-physical order type.
func RangeFor(orderType string) (Range, error) {
	switch orderType {
	case model.OrderTypeDelivery:
		return Range{model.DeliveryRangeStart, model.DeliveryRangeEnd}, nil
	case model.OrderTypeCounter:
		return Range{model.CounterRangeStart, model.CounterRangeEnd}, nil
	}
	return Range{}, fmt.Errorf("order type %q has no reserved slot range", orderType)
}

// RosterView is the read-only slice of the table roster the allocator
// needs.
type RosterView interface {
	FreeInRange(lo, hi int64) []model.Table
	MaxIDInRange(lo, hi int64) (int64, bool)
}

// Allocate suggests a table id for the given order type: the lowest free
// slot in the type's range, or the next unused id past the highest
// existing one. The suggestion is not a reservation; the caller must claim
// it with an upsert and retry on a conflicting concurrent claim. Ids past
// the range's upper bound are returned as-is; capacity is a deployment
// concern.
func Allocate(r RosterView, orderType string) (int64, error) {
	rng, err := RangeFor(orderType)
	if err != nil {
		return 0, err
	}

	if free := r.FreeInRange(rng.Lo, rng.Hi); len(free) > 0 {
		return free[0].ID, nil
	}

	max, found := r.MaxIDInRange(rng.Lo, rng.Hi)
	if !found {
		return rng.Lo, nil
	}
	return max + 1, nil
}

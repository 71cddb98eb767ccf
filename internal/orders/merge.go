// Package orders builds and extends order values. Nothing here touches
// the roster or the store; callers persist the returned order by claiming
// the owning table.
package orders

import (
	"time"

	"table-order-backend/internal/model"
)

// AddLine merges one product+observation pair into the given open order
// and returns the next order state. A line with the same product id and
// the exact same observation has its quantity incremented; any difference
// in observation text (including trailing whitespace) produces a new
// line. Totals are always recomputed from the lines. When current is nil
// a fresh order is synthesized for the table.
func AddLine(current *model.Order, p model.Product, observation string, tableID int64, now time.Time) model.Order {
	var items []model.OrderLine
	if current != nil {
		items = make([]model.OrderLine, len(current.Items))
		copy(items, current.Items)
	}

	merged := false
	for i := range items {
		if items[i].ProductID == p.ID && items[i].Observation == observation {
			items[i].Quantity++
			merged = true
			break
		}
	}
	if !merged {
		items = append(items, model.OrderLine{
			ProductID:   p.ID,
			Name:        p.Name,
			Price:       p.Price,
			Quantity:    1,
			Observation: observation,
		})
	}

	var next model.Order
	if current != nil {
		next = *current
	} else {
		next = model.Order{
			ID:            NewCode(),
			CustomerName:  model.CustomerNameFor(tableID),
			Status:        model.OrderPending,
			PaymentMethod: "Pendente",
			Timestamp:     now,
			TableID:       tableID,
			OrderType:     model.OrderTypeFor(tableID),
		}
	}

	next.Items = items
	next.Total = sumLines(items)
	next.FinalTotal = next.Total - next.Discount
	return next
}

func sumLines(items []model.OrderLine) float64 {
	total := 0.0
	for _, l := range items {
		total += l.Subtotal()
	}
	return total
}

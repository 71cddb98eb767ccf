// Package alerts derives staff-facing notifications from roster updates.
// Alerts are transient: at most one is live at a time and each self-expires
// after a fixed window.
package alerts

import (
	"sync"
	"time"

	"table-order-backend/internal/model"
)

// Alert is a transient staff notification derived from a roster change.
type Alert struct {
	TableID   int64     `json:"id"`
	Type      string    `json:"type"`
	Message   string    `json:"msg"`
	IsUpdate  bool      `json:"isUpdate"`
	Timestamp time.Time `json:"timestamp"`
}

// Notifier receives every emitted alert, e.g. to fan it out over push.
type Notifier interface {
	Notify(Alert)
}

// Deriver turns reconciled table updates into de-duplicated alerts. It
// tracks a single last-notified order/status pair shared across the whole
// roster, so only the most recently seen order is followed for status
// transitions.
type Deriver struct {
	mu       sync.Mutex
	notifier Notifier

	lastOrderID string
	lastStatus  string
	lastTableID int64

	active *Alert
	expiry *time.Timer

	newOrderTTL time.Duration
	updateTTL   time.Duration
	now         func() time.Time
}

// NewDeriver creates a deriver. notifier may be nil.
func NewDeriver(notifier Notifier) *Deriver {
	return &Deriver{
		notifier:    notifier,
		newOrderTTL: 10 * time.Second,
		updateTTL:   6 * time.Second,
		now:         time.Now,
	}
}

// Observe processes the post-reconciliation state of whichever table just
// changed and returns the emitted alert, or nil when the event is a
// duplicate echo or a table being freed.
func (d *Deriver) Observe(t model.Table) *Alert {
	d.mu.Lock()
	defer d.mu.Unlock()

	if t.Status == model.TableFree {
		// Only forget the markers when the freed table is the one being
		// tracked; freeing any other table must not reset tracking.
		if d.lastOrderID != "" && d.lastTableID == t.ID {
			d.lastOrderID = ""
			d.lastStatus = ""
			d.lastTableID = 0
		}
		return nil
	}

	if t.Status != model.TableOccupied || t.CurrentOrder == nil {
		return nil
	}
	order := t.CurrentOrder

	if order.ID != d.lastOrderID {
		d.lastOrderID = order.ID
		d.lastStatus = order.Status
		d.lastTableID = t.ID
		return d.emit(Alert{
			TableID:   t.ID,
			Type:      model.TableLabel(t.ID),
			Message:   "Novo Pedido!",
			Timestamp: d.now(),
		}, d.newOrderTTL)
	}

	if order.Status != d.lastStatus {
		d.lastStatus = order.Status
		return d.emit(Alert{
			TableID:   t.ID,
			Type:      model.TableLabel(t.ID),
			Message:   "Status: " + model.StatusLabel(order.Status),
			IsUpdate:  true,
			Timestamp: d.now(),
		}, d.updateTTL)
	}

	return nil
}

// emit replaces any live alert and schedules its expiry. The previous
// expiry timer is cancelled so it cannot clear the newer alert. Caller
// holds d.mu.
func (d *Deriver) emit(a Alert, ttl time.Duration) *Alert {
	if d.expiry != nil {
		d.expiry.Stop()
	}
	d.active = &a
	d.expiry = time.AfterFunc(ttl, func() { d.clear(&a) })

	if d.notifier != nil {
		d.notifier.Notify(a)
	}
	return &a
}

// clear drops the active alert if it is still the given one.
func (d *Deriver) clear(a *Alert) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.active == a {
		d.active = nil
	}
}

// Active returns the currently live alert, if any.
func (d *Deriver) Active() *Alert {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.active == nil {
		return nil
	}
	a := *d.active
	return &a
}

// Dismiss clears the live alert without waiting for expiry.
func (d *Deriver) Dismiss() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.expiry != nil {
		d.expiry.Stop()
	}
	d.active = nil
}

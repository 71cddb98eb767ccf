package alerts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"table-order-backend/internal/model"
)

type recordingNotifier struct {
	alerts []Alert
}

func (r *recordingNotifier) Notify(a Alert) { r.alerts = append(r.alerts, a) }

func occupiedTable(tableID int64, orderID, status string) model.Table {
	return model.Table{
		ID:     tableID,
		Status: model.TableOccupied,
		CurrentOrder: &model.Order{
			ID:     orderID,
			Status: status,
		},
	}
}

func TestObserve_NewOrderThenStatusThenEcho(t *testing.T) {
	d := NewDeriver(nil)

	first := d.Observe(occupiedTable(5, "O1", model.OrderPending))
	require.NotNil(t, first)
	assert.False(t, first.IsUpdate)
	assert.Equal(t, "Novo Pedido!", first.Message)
	assert.Equal(t, "Mesa", first.Type)

	second := d.Observe(occupiedTable(5, "O1", model.OrderPreparing))
	require.NotNil(t, second)
	assert.True(t, second.IsUpdate)
	assert.Contains(t, second.Message, "Em Preparo")

	third := d.Observe(occupiedTable(5, "O1", model.OrderPreparing))
	assert.Nil(t, third, "duplicate echo must not alert")
}

func TestObserve_UnknownStatusFallsBackToRaw(t *testing.T) {
	d := NewDeriver(nil)

	d.Observe(occupiedTable(3, "O1", model.OrderPending))
	got := d.Observe(occupiedTable(3, "O1", "weird"))

	require.NotNil(t, got)
	assert.Equal(t, "Status: weird", got.Message)
}

func TestObserve_VirtualTableLabels(t *testing.T) {
	d := NewDeriver(nil)

	delivery := d.Observe(occupiedTable(901, "D1", model.OrderPending))
	require.NotNil(t, delivery)
	assert.Equal(t, "Entrega", delivery.Type)

	counter := d.Observe(occupiedTable(953, "C1", model.OrderPending))
	require.NotNil(t, counter)
	assert.Equal(t, "Balcão", counter.Type)
}

func TestObserve_FreeingTrackedTableClearsMarkers(t *testing.T) {
	d := NewDeriver(nil)

	d.Observe(occupiedTable(5, "O1", model.OrderPending))
	got := d.Observe(model.Table{ID: 5, Status: model.TableFree})
	assert.Nil(t, got, "freeing never alerts")

	// The same order id on the same table now reads as a new order again.
	again := d.Observe(occupiedTable(5, "O1", model.OrderPending))
	require.NotNil(t, again)
	assert.False(t, again.IsUpdate)
}

func TestObserve_FreeingOtherTableKeepsMarkers(t *testing.T) {
	d := NewDeriver(nil)

	d.Observe(occupiedTable(5, "O1", model.OrderPending))
	d.Observe(model.Table{ID: 7, Status: model.TableFree})

	echo := d.Observe(occupiedTable(5, "O1", model.OrderPending))
	assert.Nil(t, echo, "markers must survive an unrelated table being freed")
}

func TestObserve_MarkersIdempotentAcrossDuplicateEvents(t *testing.T) {
	d := NewDeriver(nil)
	up := occupiedTable(5, "O1", model.OrderPending)

	d.Observe(up)
	afterFirst := [3]interface{}{d.lastOrderID, d.lastStatus, d.lastTableID}
	d.Observe(up)
	afterSecond := [3]interface{}{d.lastOrderID, d.lastStatus, d.lastTableID}

	assert.Equal(t, afterFirst, afterSecond)
}

func TestEmit_ReplacesLiveAlertAndNotifies(t *testing.T) {
	n := &recordingNotifier{}
	d := NewDeriver(n)

	d.Observe(occupiedTable(5, "O1", model.OrderPending))
	d.Observe(occupiedTable(9, "O2", model.OrderPending))

	active := d.Active()
	require.NotNil(t, active)
	assert.Equal(t, int64(9), active.TableID, "newer alert replaces the pending one")
	assert.Len(t, n.alerts, 2)
}

func TestAlertExpiry(t *testing.T) {
	d := NewDeriver(nil)
	d.newOrderTTL = 10 * time.Millisecond
	d.updateTTL = 5 * time.Millisecond

	d.Observe(occupiedTable(5, "O1", model.OrderPending))
	require.NotNil(t, d.Active())

	assert.Eventually(t, func() bool { return d.Active() == nil },
		time.Second, 5*time.Millisecond)
}

func TestAlertExpiry_OldTimerCannotClearNewAlert(t *testing.T) {
	d := NewDeriver(nil)
	d.newOrderTTL = 20 * time.Millisecond

	d.Observe(occupiedTable(5, "O1", model.OrderPending))
	time.Sleep(10 * time.Millisecond)
	d.Observe(occupiedTable(9, "O2", model.OrderPending))

	// Past the first alert's window, the second must still be live.
	time.Sleep(15 * time.Millisecond)
	active := d.Active()
	require.NotNil(t, active)
	assert.Equal(t, int64(9), active.TableID)
}

func TestDismiss(t *testing.T) {
	d := NewDeriver(nil)

	d.Observe(occupiedTable(5, "O1", model.OrderPending))
	d.Dismiss()

	assert.Nil(t, d.Active())
}

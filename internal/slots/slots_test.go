package slots

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"table-order-backend/internal/model"
	"table-order-backend/internal/roster"
)

func occupied(id int64) model.Table {
	return model.Table{ID: id, Status: model.TableOccupied, CurrentOrder: &model.Order{ID: "X"}}
}

func TestAllocate_ReusesFreeSlot(t *testing.T) {
	r := roster.NewSeeded(0)
	r.Reconcile(occupied(900))
	r.Reconcile(model.Table{ID: 901, Status: model.TableFree})
	r.Reconcile(occupied(902))

	id, err := Allocate(r, model.OrderTypeDelivery)
	require.NoError(t, err)
	assert.Equal(t, int64(901), id)
}

func TestAllocate_MintsRangeStartWhenEmpty(t *testing.T) {
	r := roster.NewSeeded(12)

	id, err := Allocate(r, model.OrderTypeCounter)
	require.NoError(t, err)
	assert.Equal(t, int64(950), id)
}

func TestAllocate_MintsNextPastHighest(t *testing.T) {
	r := roster.NewSeeded(0)
	r.Reconcile(occupied(950))
	r.Reconcile(occupied(951))

	id, err := Allocate(r, model.OrderTypeCounter)
	require.NoError(t, err)
	assert.Equal(t, int64(952), id)
}

func TestAllocate_OverflowsRangeWithoutError(t *testing.T) {
	r := roster.NewSeeded(0)
	for id := model.DeliveryRangeStart; id <= model.DeliveryRangeEnd; id++ {
		r.Reconcile(occupied(id))
	}

	id, err := Allocate(r, model.OrderTypeDelivery)
	require.NoError(t, err)
	assert.Equal(t, model.DeliveryRangeEnd+1, id)
}

func TestAllocate_RejectsPhysicalType(t *testing.T) {
	r := roster.NewSeeded(1)

	_, err := Allocate(r, model.OrderTypeTable)
	assert.Error(t, err)
}

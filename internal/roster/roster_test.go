package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"table-order-backend/internal/model"
)

func TestNewSeeded(t *testing.T) {
	r := NewSeeded(12)
	assert.Equal(t, 12, r.Len())

	tables := r.Tables()
	for i, tbl := range tables {
		assert.Equal(t, int64(i+1), tbl.ID)
		assert.Equal(t, model.TableFree, tbl.Status)
		assert.Nil(t, tbl.CurrentOrder)
	}
}

func TestReconcile_ReplaceInPlace(t *testing.T) {
	r := NewSeeded(5)

	order := &model.Order{ID: "ABC123", Status: model.OrderPending}
	r.Reconcile(model.Table{ID: 3, Status: model.TableOccupied, CurrentOrder: order})

	got, ok := r.Get(3)
	require.True(t, ok)
	assert.Equal(t, model.TableOccupied, got.Status)
	require.NotNil(t, got.CurrentOrder)
	assert.Equal(t, "ABC123", got.CurrentOrder.ID)

	// Other tables untouched.
	other, ok := r.Get(2)
	require.True(t, ok)
	assert.Equal(t, model.TableFree, other.Status)
	assert.Equal(t, 5, r.Len())
}

func TestReconcile_InsertUnknownKeepsOrder(t *testing.T) {
	r := NewSeeded(3)

	r.Reconcile(model.Table{ID: 950, Status: model.TableOccupied, CurrentOrder: &model.Order{ID: "X"}})
	r.Reconcile(model.Table{ID: 900, Status: model.TableFree})

	tables := r.Tables()
	require.Len(t, tables, 5)
	for i := 1; i < len(tables); i++ {
		assert.Greater(t, tables[i].ID, tables[i-1].ID, "roster must stay sorted by ascending id")
	}
}

func TestReconcile_NoDuplicateIDs(t *testing.T) {
	r := NewSeeded(2)

	for i := 0; i < 3; i++ {
		r.Reconcile(model.Table{ID: 900, Status: model.TableOccupied, CurrentOrder: &model.Order{ID: "A"}})
	}
	r.Reconcile(model.Table{ID: 900, Status: model.TableFree})

	seen := make(map[int64]bool)
	for _, tbl := range r.Tables() {
		assert.False(t, seen[tbl.ID], "duplicate id %d", tbl.ID)
		seen[tbl.ID] = true
	}
	assert.Equal(t, 3, r.Len())
}

func TestReconcile_Idempotent(t *testing.T) {
	r := NewSeeded(3)
	up := model.Table{ID: 2, Status: model.TableOccupied, CurrentOrder: &model.Order{ID: "DUP"}}

	r.Reconcile(up)
	first := r.Tables()
	r.Reconcile(up)
	second := r.Tables()

	assert.Equal(t, first, second)
}

func TestFreeInRange(t *testing.T) {
	r := NewSeeded(0)
	r.Reconcile(model.Table{ID: 900, Status: model.TableOccupied, CurrentOrder: &model.Order{ID: "A"}})
	r.Reconcile(model.Table{ID: 901, Status: model.TableFree})
	r.Reconcile(model.Table{ID: 902, Status: model.TableOccupied, CurrentOrder: &model.Order{ID: "B"}})
	r.Reconcile(model.Table{ID: 950, Status: model.TableFree})

	free := r.FreeInRange(900, 949)
	require.Len(t, free, 1)
	assert.Equal(t, int64(901), free[0].ID)
}

func TestMaxIDInRange(t *testing.T) {
	r := NewSeeded(0)

	_, found := r.MaxIDInRange(950, 999)
	assert.False(t, found)

	r.Reconcile(model.Table{ID: 950, Status: model.TableOccupied, CurrentOrder: &model.Order{ID: "A"}})
	r.Reconcile(model.Table{ID: 952, Status: model.TableOccupied, CurrentOrder: &model.Order{ID: "B"}})

	max, found := r.MaxIDInRange(950, 999)
	require.True(t, found)
	assert.Equal(t, int64(952), max)
}

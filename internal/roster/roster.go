package roster

import (
	"sort"
	"sync"

	"table-order-backend/internal/model"
)

// Roster owns the canonical in-memory set of tables. It is mutated only by
// the reconciliation path; all other components read it. Tables are kept
// sorted by ascending id and are never deleted; freeing a table only
// clears its order.
type Roster struct {
	mu     sync.RWMutex
	tables []model.Table
}

// NewSeeded creates a roster pre-populated with physical tables 1..n, all
// free.
func NewSeeded(n int) *Roster {
	r := &Roster{tables: make([]model.Table, 0, n)}
	for id := int64(1); id <= int64(n); id++ {
		r.tables = append(r.tables, model.Table{ID: id, Status: model.TableFree})
	}
	return r
}

// Reconcile applies a table update: the matching entry's status and order
// are replaced in place, or a new entry is inserted if the id is unknown.
// All other tables are left untouched and ascending-id order is preserved.
func (r *Roster) Reconcile(t model.Table) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := sort.Search(len(r.tables), func(i int) bool { return r.tables[i].ID >= t.ID })
	if i < len(r.tables) && r.tables[i].ID == t.ID {
		r.tables[i].Status = t.Status
		r.tables[i].CurrentOrder = t.CurrentOrder
		return
	}
	r.tables = append(r.tables, model.Table{})
	copy(r.tables[i+1:], r.tables[i:])
	r.tables[i] = t
}

// Get returns the table with the given id.
func (r *Roster) Get(id int64) (model.Table, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := sort.Search(len(r.tables), func(i int) bool { return r.tables[i].ID >= id })
	if i < len(r.tables) && r.tables[i].ID == id {
		return r.tables[i], true
	}
	return model.Table{}, false
}

// Tables returns a copy of the full roster in ascending-id order.
func (r *Roster) Tables() []model.Table {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Table, len(r.tables))
	copy(out, r.tables)
	return out
}

// FreeInRange returns the free tables with ids in [lo, hi], ascending.
func (r *Roster) FreeInRange(lo, hi int64) []model.Table {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []model.Table
	for _, t := range r.tables {
		if t.ID > hi {
			break
		}
		if t.ID >= lo && t.Status == model.TableFree {
			out = append(out, t)
		}
	}
	return out
}

// MaxIDInRange returns the highest table id within [lo, hi], if any table
// in that range exists.
func (r *Roster) MaxIDInRange(lo, hi int64) (int64, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	max := int64(0)
	found := false
	for _, t := range r.tables {
		if t.ID > hi {
			break
		}
		if t.ID >= lo {
			max = t.ID
			found = true
		}
	}
	return max, found
}

// Len returns the number of tables in the roster.
func (r *Roster) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tables)
}

package feed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"table-order-backend/internal/model"
)

// fakeStore hands out canned change batches, one per poll.
type fakeStore struct {
	tableBatches [][]model.Table
	configs      []*model.StoreConfig
	upserted     []model.Table
}

func (f *fakeStore) DB() *gorm.DB { return nil }

func (f *fakeStore) ListTables(ctx context.Context) ([]model.Table, error) { return nil, nil }

func (f *fakeStore) TablesChangedSince(ctx context.Context, since time.Time) ([]model.Table, error) {
	if len(f.tableBatches) == 0 {
		return nil, nil
	}
	batch := f.tableBatches[0]
	f.tableBatches = f.tableBatches[1:]
	var out []model.Table
	for _, t := range batch {
		if t.UpdatedAt.After(since) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeStore) UpsertTable(ctx context.Context, t model.Table) error {
	f.upserted = append(f.upserted, t)
	return nil
}

func (f *fakeStore) GetConfig(ctx context.Context) (model.StoreConfig, error) {
	return model.StoreConfig{ID: model.StoreConfigID, TablesEnabled: true}, nil
}

func (f *fakeStore) ConfigChangedSince(ctx context.Context, since time.Time) (*model.StoreConfig, error) {
	if len(f.configs) == 0 {
		return nil, nil
	}
	cfg := f.configs[0]
	f.configs = f.configs[1:]
	return cfg, nil
}

func (f *fakeStore) UpsertConfig(ctx context.Context, cfg model.StoreConfig) error { return nil }

func (f *fakeStore) ListProducts(ctx context.Context) ([]model.Product, error) { return nil, nil }
func (f *fakeStore) ListCategories(ctx context.Context) ([]model.Category, error) {
	return nil, nil
}
func (f *fakeStore) ListActiveCoupons(ctx context.Context) ([]model.Coupon, error) {
	return nil, nil
}
func (f *fakeStore) InsertProduct(ctx context.Context, p model.Product) error { return nil }
func (f *fakeStore) UpdateProduct(ctx context.Context, p model.Product) error { return nil }
func (f *fakeStore) DeleteProduct(ctx context.Context, id string) error       { return nil }

func TestPollOnce_DispatchesInStoreOrder(t *testing.T) {
	now := time.Now()
	fs := &fakeStore{
		tableBatches: [][]model.Table{{
			{ID: 5, Status: model.TableOccupied, CurrentOrder: &model.Order{ID: "O1", Status: model.OrderPending}, UpdatedAt: now.Add(time.Second)},
			{ID: 5, Status: model.TableOccupied, CurrentOrder: &model.Order{ID: "O1", Status: model.OrderPreparing}, UpdatedAt: now.Add(2 * time.Second)},
		}},
	}
	p := NewPoller(fs, time.Second)
	p.tableMark = now

	var got []TableSnapshot
	p.Subscribe(func(s TableSnapshot) { got = append(got, s) }, func(model.StoreConfig) {})

	p.PollOnce(context.Background())

	require.Len(t, got, 2)
	assert.Equal(t, model.OrderPending, got[0].CurrentOrder.Status)
	assert.Equal(t, model.OrderPreparing, got[1].CurrentOrder.Status)
}

func TestPollOnce_AdvancesWatermark(t *testing.T) {
	now := time.Now()
	fs := &fakeStore{
		tableBatches: [][]model.Table{
			{{ID: 5, Status: model.TableFree, UpdatedAt: now.Add(time.Second)}},
			{{ID: 5, Status: model.TableFree, UpdatedAt: now.Add(time.Second)}},
		},
	}
	p := NewPoller(fs, time.Second)
	p.tableMark = now

	count := 0
	p.Subscribe(func(TableSnapshot) { count++ }, func(model.StoreConfig) {})

	p.PollOnce(context.Background())
	p.PollOnce(context.Background())

	assert.Equal(t, 1, count, "an already-seen change must not be re-dispatched")
}

func TestPollOnce_ConfigChange(t *testing.T) {
	fs := &fakeStore{
		configs: []*model.StoreConfig{{ID: model.StoreConfigID, UpdatedAt: time.Now().Add(time.Second)}},
	}
	p := NewPoller(fs, time.Second)

	var got []model.StoreConfig
	p.Subscribe(func(TableSnapshot) {}, func(c model.StoreConfig) { got = append(got, c) })

	p.PollOnce(context.Background())

	require.Len(t, got, 1)
	assert.True(t, got[0].Closed())
}

func TestUnsubscribe_StopsDelivery(t *testing.T) {
	now := time.Now()
	fs := &fakeStore{
		tableBatches: [][]model.Table{
			{{ID: 5, Status: model.TableFree, UpdatedAt: now.Add(time.Second)}},
			{{ID: 6, Status: model.TableFree, UpdatedAt: now.Add(2 * time.Second)}},
		},
	}
	p := NewPoller(fs, time.Second)
	p.tableMark = now

	count := 0
	handle := p.Subscribe(func(TableSnapshot) { count++ }, func(model.StoreConfig) {})

	p.PollOnce(context.Background())
	p.Unsubscribe(handle)
	p.PollOnce(context.Background())

	assert.Equal(t, 1, count)
}

func TestUpsertTable_WritesThrough(t *testing.T) {
	fs := &fakeStore{}
	p := NewPoller(fs, time.Second)

	order := &model.Order{ID: "O1"}
	err := p.UpsertTable(context.Background(), TableSnapshot{ID: 901, Status: model.TableOccupied, CurrentOrder: order})
	require.NoError(t, err)

	require.Len(t, fs.upserted, 1)
	assert.Equal(t, int64(901), fs.upserted[0].ID)
	assert.Equal(t, model.TableOccupied, fs.upserted[0].Status)
}

func TestTableSnapshot_Validate(t *testing.T) {
	assert.NoError(t, TableSnapshot{ID: 1, Status: model.TableFree}.Validate())
	assert.ErrorIs(t, TableSnapshot{ID: 0, Status: model.TableFree}.Validate(), ErrMalformed)
	assert.ErrorIs(t, TableSnapshot{ID: 1, Status: "broken"}.Validate(), ErrMalformed)
}

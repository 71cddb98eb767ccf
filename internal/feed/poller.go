package feed

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"table-order-backend/internal/model"
	"table-order-backend/internal/store"
)

type subscriber struct {
	onTable  TableHandler
	onConfig ConfigHandler
}

// Poller implements Client by polling the backing store with updated_at
// watermarks. Dispatch happens from the single Run goroutine, which gives
// subscribers the serial, per-table-ordered delivery the roster requires.
type Poller struct {
	store    store.Store
	interval time.Duration

	mu   sync.RWMutex
	subs map[string]subscriber

	tableMark  time.Time
	configMark time.Time
}

// NewPoller creates a poller over the given store. Watermarks start at
// now: pre-existing state belongs to the bootstrap read, not the feed.
func NewPoller(s store.Store, interval time.Duration) *Poller {
	now := time.Now()
	return &Poller{
		store:      s,
		interval:   interval,
		subs:       make(map[string]subscriber),
		tableMark:  now,
		configMark: now,
	}
}

// Subscribe registers handlers and returns an opaque handle for
// Unsubscribe.
func (p *Poller) Subscribe(onTable TableHandler, onConfig ConfigHandler) string {
	handle := uuid.NewString()
	p.mu.Lock()
	p.subs[handle] = subscriber{onTable: onTable, onConfig: onConfig}
	p.mu.Unlock()
	return handle
}

// Unsubscribe removes a subscription; no further events are delivered to
// its handlers once the current dispatch round finishes.
func (p *Poller) Unsubscribe(handle string) {
	p.mu.Lock()
	delete(p.subs, handle)
	p.mu.Unlock()
}

// Run polls until the context is cancelled.
func (p *Poller) Run(ctx context.Context) {
	log.Println("Starting change-feed poller...")

	timer := time.NewTimer(p.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Change-feed poller shutting down.")
			return
		case <-timer.C:
			p.PollOnce(ctx)
			timer.Reset(p.interval)
		}
	}
}

// PollOnce runs a single poll cycle, dispatching any table and config
// changes past the watermarks.
func (p *Poller) PollOnce(ctx context.Context) {
	tables, err := p.store.TablesChangedSince(ctx, p.tableMark)
	if err != nil {
		log.Printf("Error polling table changes: %v", err)
	} else {
		for _, t := range tables {
			if t.UpdatedAt.After(p.tableMark) {
				p.tableMark = t.UpdatedAt
			}
			p.dispatchTable(TableSnapshot{ID: t.ID, Status: t.Status, CurrentOrder: t.CurrentOrder})
		}
	}

	cfg, err := p.store.ConfigChangedSince(ctx, p.configMark)
	if err != nil {
		log.Printf("Error polling config changes: %v", err)
		return
	}
	if cfg != nil {
		p.configMark = cfg.UpdatedAt
		p.dispatchConfig(*cfg)
	}
}

func (p *Poller) dispatchTable(snap TableSnapshot) {
	for _, sub := range p.snapshotSubs() {
		sub.onTable(snap)
	}
}

func (p *Poller) dispatchConfig(cfg model.StoreConfig) {
	for _, sub := range p.snapshotSubs() {
		sub.onConfig(cfg)
	}
}

func (p *Poller) snapshotSubs() []subscriber {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]subscriber, 0, len(p.subs))
	for _, sub := range p.subs {
		out = append(out, sub)
	}
	return out
}

// QueryAll performs the bulk bootstrap read.
func (p *Poller) QueryAll(ctx context.Context) (*BulkData, error) {
	tables, err := p.store.ListTables(ctx)
	if err != nil {
		return nil, err
	}
	products, err := p.store.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := p.store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	coupons, err := p.store.ListActiveCoupons(ctx)
	if err != nil {
		return nil, err
	}
	cfg, err := p.store.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	return &BulkData{
		Tables:     tables,
		Products:   products,
		Categories: categories,
		Coupons:    coupons,
		Config:     cfg,
	}, nil
}

// UpsertTable writes a table record; the resulting change comes back to
// every subscriber as an echo event on the next poll.
func (p *Poller) UpsertTable(ctx context.Context, snap TableSnapshot) error {
	return p.store.UpsertTable(ctx, model.Table{
		ID:           snap.ID,
		Status:       snap.Status,
		CurrentOrder: snap.CurrentOrder,
	})
}

// UpsertConfig replaces the config singleton.
func (p *Poller) UpsertConfig(ctx context.Context, cfg model.StoreConfig) error {
	return p.store.UpsertConfig(ctx, cfg)
}

func (p *Poller) InsertProduct(ctx context.Context, prod model.Product) error {
	return p.store.InsertProduct(ctx, prod)
}

func (p *Poller) UpdateProduct(ctx context.Context, prod model.Product) error {
	return p.store.UpdateProduct(ctx, prod)
}

func (p *Poller) DeleteProduct(ctx context.Context, id string) error {
	return p.store.DeleteProduct(ctx, id)
}

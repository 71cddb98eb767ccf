// Package session ties the sync core together: it owns the roster, the
// alert deriver and the store config for one client session, feeds them
// from the change feed, and issues writes back through it.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"table-order-backend/internal/alerts"
	"table-order-backend/internal/feed"
	"table-order-backend/internal/model"
	"table-order-backend/internal/orders"
	"table-order-backend/internal/roster"
	"table-order-backend/internal/slots"
)

// Sync status of the session, as surfaced to the shell.
type Status string

const (
	StatusLoading Status = "loading"
	StatusOK      Status = "ok"
	StatusError   Status = "error"
	StatusSyncing Status = "syncing"
)

// Business failures surfaced as values, never panics.
var (
	ErrStoreClosed        = errors.New("store is not accepting this order type")
	ErrTableNotFound      = errors.New("table not found")
	ErrNoOpenOrder        = errors.New("table has no open order")
	ErrProductNotFound    = errors.New("product not found")
	ErrInvalidStatus      = errors.New("invalid order status")
	ErrEmptyOrder         = errors.New("order has no lines")
	ErrAllocationConflict = errors.New("allocated slot was claimed concurrently")
)

// Session is the per-client synchronization state. The roster is mutated
// only by the reconciliation path (handleTableChange); every other method
// reads it or produces values for the feed to apply.
type Session struct {
	feed    feed.Client
	roster  *roster.Roster
	deriver *alerts.Deriver

	mu         sync.RWMutex
	cfg        model.StoreConfig
	products   []model.Product
	categories []model.Category
	coupons    []model.Coupon
	status     Status
	handle     string

	now func() time.Time
}

// New creates a session seeded with the given number of physical tables.
// notifier may be nil.
func New(client feed.Client, seedTables int, notifier alerts.Notifier) *Session {
	return &Session{
		feed:    client,
		roster:  roster.NewSeeded(seedTables),
		deriver: alerts.NewDeriver(notifier),
		cfg: model.StoreConfig{
			ID:              model.StoreConfigID,
			TablesEnabled:   true,
			DeliveryEnabled: true,
			CounterEnabled:  true,
		},
		status: StatusLoading,
		now:    time.Now,
	}
}

// Start subscribes to the change feed and runs the bootstrap read. A
// bootstrap failure leaves the subscription in place and the last-known
// roster intact; the session reports StatusError until a refresh
// succeeds.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	s.handle = s.feed.Subscribe(s.handleTableChange, s.handleConfigChange)
	s.mu.Unlock()

	return s.bootstrap(ctx, StatusLoading)
}

// Refresh re-runs the bulk read, e.g. after a staff catalog edit.
func (s *Session) Refresh(ctx context.Context) error {
	return s.bootstrap(ctx, StatusSyncing)
}

func (s *Session) bootstrap(ctx context.Context, transient Status) error {
	s.setStatus(transient)

	data, err := s.feed.QueryAll(ctx)
	if err != nil {
		s.setStatus(StatusError)
		return fmt.Errorf("bootstrap query failed: %w", err)
	}

	for _, t := range data.Tables {
		s.roster.Reconcile(t)
	}

	s.mu.Lock()
	s.cfg = data.Config
	s.products = data.Products
	s.categories = data.Categories
	s.coupons = data.Coupons
	s.status = StatusOK
	s.mu.Unlock()
	return nil
}

// Close tears the session down; after Unsubscribe returns no further feed
// events reach the roster. In-flight writes are left to complete
// unobserved.
func (s *Session) Close() {
	s.mu.Lock()
	handle := s.handle
	s.handle = ""
	s.mu.Unlock()

	if handle != "" {
		s.feed.Unsubscribe(handle)
	}
	s.deriver.Dismiss()
}

// handleTableChange is the reconciliation path: validate, apply to the
// roster, derive alerts. Malformed events are dropped with the roster
// unchanged so the feed keeps flowing for all other tables.
func (s *Session) handleTableChange(snap feed.TableSnapshot) {
	if err := snap.Validate(); err != nil {
		log.Printf("Dropping change event for table %d: %v", snap.ID, err)
		return
	}
	if snap.Status == model.TableOccupied && snap.CurrentOrder == nil {
		log.Printf("Dropping change event for table %d: occupied without an order", snap.ID)
		return
	}

	t := model.Table{ID: snap.ID, Status: snap.Status, CurrentOrder: snap.CurrentOrder}
	if t.Status == model.TableFree {
		t.CurrentOrder = nil
	}

	s.roster.Reconcile(t)
	s.deriver.Observe(t)
}

func (s *Session) handleConfigChange(cfg model.StoreConfig) {
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
}

func (s *Session) setStatus(st Status) {
	s.mu.Lock()
	s.status = st
	s.mu.Unlock()
}

// Status returns the current sync status.
func (s *Session) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Tables returns the roster in ascending-id order.
func (s *Session) Tables() []model.Table { return s.roster.Tables() }

// Table returns one table by id.
func (s *Session) Table(id int64) (model.Table, bool) { return s.roster.Get(id) }

// Config returns the current store config.
func (s *Session) Config() model.StoreConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Categories returns the catalog categories from the last bulk read.
func (s *Session) Categories() []model.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.categories
}

// Coupons returns the active coupons from the last bulk read.
func (s *Session) Coupons() []model.Coupon {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.coupons
}

// VisibleProducts applies the availability gate: a closed store presents
// zero orderable items to non-staff callers regardless of catalog
// contents. Staff always see the full catalog.
func (s *Session) VisibleProducts(staff bool) []model.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cfg.Closed() && !staff {
		return []model.Product{}
	}
	return s.products
}

// Alert returns the live staff alert, if any.
func (s *Session) Alert() *alerts.Alert { return s.deriver.Active() }

// DismissAlert clears the live alert.
func (s *Session) DismissAlert() { s.deriver.Dismiss() }

// LineRequest is one cart line of an order placement.
type LineRequest struct {
	ProductID   string `json:"product_id"`
	Quantity    int    `json:"quantity"`
	Observation string `json:"observation"`
}

// PlaceOrderRequest submits a whole cart against a table or a virtual
// order type.
type PlaceOrderRequest struct {
	OrderType  string        `json:"order_type"`
	TableID    int64         `json:"table_id"`
	CouponCode string        `json:"coupon_code"`
	Lines      []LineRequest `json:"lines"`
	Staff      bool          `json:"-"`
}

// PlaceOrder resolves the target table, merges the cart into any open
// order on it and claims the table through an upsert. Delivery and
// counter orders are allocated a virtual slot first; losing the
// allocation race surfaces as ErrAllocationConflict and the caller
// re-invokes placement.
func (s *Session) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (model.Order, error) {
	if len(req.Lines) == 0 {
		return model.Order{}, ErrEmptyOrder
	}

	cfg := s.Config()
	if !req.Staff {
		if cfg.Closed() || !cfg.Accepts(req.OrderType) {
			return model.Order{}, ErrStoreClosed
		}
	}

	targetID := req.TableID
	switch req.OrderType {
	case model.OrderTypeTable:
		if targetID < 1 || targetID >= model.DeliveryRangeStart {
			return model.Order{}, fmt.Errorf("%w: %d is not a physical table", ErrTableNotFound, targetID)
		}
	case model.OrderTypeDelivery, model.OrderTypeCounter:
		id, err := slots.Allocate(s.roster, req.OrderType)
		if err != nil {
			return model.Order{}, err
		}
		targetID = id
	default:
		return model.Order{}, fmt.Errorf("unknown order type %q", req.OrderType)
	}

	var current *model.Order
	if t, ok := s.roster.Get(targetID); ok && t.Status == model.TableOccupied {
		if req.OrderType != model.OrderTypeTable {
			// The allocator suggested this slot as free; someone claimed
			// it between the scan and now.
			return model.Order{}, fmt.Errorf("%w: table %d", ErrAllocationConflict, targetID)
		}
		current = t.CurrentOrder
	}

	ord, err := s.mergeLines(current, req.Lines, targetID)
	if err != nil {
		return model.Order{}, err
	}

	if req.CouponCode != "" {
		if coupon, ok := s.couponByCode(req.CouponCode); ok {
			ord.Discount = ord.Total * coupon.Percentage / 100
			ord.FinalTotal = ord.Total - ord.Discount
		}
	}

	if err := s.claim(ctx, targetID, &ord); err != nil {
		return model.Order{}, err
	}
	return ord, nil
}

// AddLine merges a single product into a table's open order, creating the
// order when the table is free. Staff path; the availability gate does
// not apply.
func (s *Session) AddLine(ctx context.Context, tableID int64, productID, observation string) (model.Order, error) {
	p, ok := s.productByID(productID)
	if !ok {
		return model.Order{}, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	}

	var current *model.Order
	if t, ok := s.roster.Get(tableID); ok {
		current = t.CurrentOrder
	}

	ord := orders.AddLine(current, p, observation, tableID, s.now())
	if err := s.claim(ctx, tableID, &ord); err != nil {
		return model.Order{}, err
	}
	return ord, nil
}

// SetOrderStatus advances the lifecycle of a table's open order.
func (s *Session) SetOrderStatus(ctx context.Context, tableID int64, status string) (model.Order, error) {
	switch status {
	case model.OrderPending, model.OrderPreparing, model.OrderReady, model.OrderDelivered:
	default:
		return model.Order{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	t, ok := s.roster.Get(tableID)
	if !ok {
		return model.Order{}, fmt.Errorf("%w: %d", ErrTableNotFound, tableID)
	}
	if t.CurrentOrder == nil {
		return model.Order{}, fmt.Errorf("%w: %d", ErrNoOpenOrder, tableID)
	}

	ord := *t.CurrentOrder
	ord.Status = status
	if err := s.claim(ctx, tableID, &ord); err != nil {
		return model.Order{}, err
	}
	return ord, nil
}

// FreeTable clears a table: the open order is discarded, never archived.
func (s *Session) FreeTable(ctx context.Context, tableID int64) error {
	if _, ok := s.roster.Get(tableID); !ok {
		return fmt.Errorf("%w: %d", ErrTableNotFound, tableID)
	}
	err := s.feed.UpsertTable(ctx, feed.TableSnapshot{ID: tableID, Status: model.TableFree})
	if err != nil {
		return fmt.Errorf("failed to free table %d: %w", tableID, err)
	}
	return nil
}

// UpdateStoreConfig replaces the config singleton. The local copy is
// updated optimistically; the feed echo confirms it.
func (s *Session) UpdateStoreConfig(ctx context.Context, cfg model.StoreConfig) error {
	cfg.ID = model.StoreConfigID

	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()

	if err := s.feed.UpsertConfig(ctx, cfg); err != nil {
		return fmt.Errorf("failed to update store config: %w", err)
	}
	return nil
}

// SaveProduct inserts or updates a catalog product, then refreshes the
// local catalog.
func (s *Session) SaveProduct(ctx context.Context, p model.Product) (model.Product, error) {
	var err error
	if p.ID == "" {
		p.ID = fmt.Sprintf("p_%d", s.now().UnixMilli())
		err = s.feed.InsertProduct(ctx, p)
	} else {
		err = s.feed.UpdateProduct(ctx, p)
	}
	if err != nil {
		return model.Product{}, err
	}
	if err := s.Refresh(ctx); err != nil {
		log.Printf("Catalog refresh after product save failed: %v", err)
	}
	return p, nil
}

// DeleteProduct removes a catalog product, then refreshes the local
// catalog.
func (s *Session) DeleteProduct(ctx context.Context, id string) error {
	if err := s.feed.DeleteProduct(ctx, id); err != nil {
		return err
	}
	if err := s.Refresh(ctx); err != nil {
		log.Printf("Catalog refresh after product delete failed: %v", err)
	}
	return nil
}

// ClaimConflict reports whether the roster shows a different order on the
// table than the one the caller claimed. The claim upsert is last-wins, so
// a lost race only becomes visible once the feed echoes the winning state
// back; callers that placed a delivery or counter order check this after
// reconciliation and re-invoke placement on conflict.
func (s *Session) ClaimConflict(tableID int64, orderID string) bool {
	t, ok := s.roster.Get(tableID)
	if !ok || t.CurrentOrder == nil {
		return false
	}
	return t.CurrentOrder.ID != orderID
}

// claim persists an order by upserting its table as occupied. The write
// is optimistic; the feed echoes the authoritative state back.
func (s *Session) claim(ctx context.Context, tableID int64, ord *model.Order) error {
	ord.TableID = tableID
	err := s.feed.UpsertTable(ctx, feed.TableSnapshot{
		ID:           tableID,
		Status:       model.TableOccupied,
		CurrentOrder: ord,
	})
	if err != nil {
		return fmt.Errorf("failed to claim table %d: %w", tableID, err)
	}
	return nil
}

func (s *Session) mergeLines(current *model.Order, lines []LineRequest, tableID int64) (model.Order, error) {
	now := s.now()
	cur := current
	for _, line := range lines {
		p, ok := s.productByID(line.ProductID)
		if !ok {
			return model.Order{}, fmt.Errorf("%w: %s", ErrProductNotFound, line.ProductID)
		}
		qty := line.Quantity
		if qty < 1 {
			qty = 1
		}
		for i := 0; i < qty; i++ {
			next := orders.AddLine(cur, p, line.Observation, tableID, now)
			cur = &next
		}
	}
	return *cur, nil
}

func (s *Session) productByID(id string) (model.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return model.Product{}, false
}

func (s *Session) couponByCode(code string) (model.Coupon, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.coupons {
		if c.IsActive && strings.EqualFold(c.Code, code) {
			return c, true
		}
	}
	return model.Coupon{}, false
}

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"table-order-backend/internal/model"
)

// Store defines the interface for all database operations backing the
// change feed.
type Store interface {
	DB() *gorm.DB

	ListTables(ctx context.Context) ([]model.Table, error)
	TablesChangedSince(ctx context.Context, since time.Time) ([]model.Table, error)
	UpsertTable(ctx context.Context, t model.Table) error

	GetConfig(ctx context.Context) (model.StoreConfig, error)
	ConfigChangedSince(ctx context.Context, since time.Time) (*model.StoreConfig, error)
	UpsertConfig(ctx context.Context, cfg model.StoreConfig) error

	ListProducts(ctx context.Context) ([]model.Product, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
	ListActiveCoupons(ctx context.Context) ([]model.Coupon, error)
	InsertProduct(ctx context.Context, p model.Product) error
	UpdateProduct(ctx context.Context, p model.Product) error
	DeleteProduct(ctx context.Context, id string) error
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB { return s.db }

// ListTables returns every persisted table record in ascending-id order.
func (s *gormStore) ListTables(ctx context.Context) ([]model.Table, error) {
	var tables []model.Table
	if err := s.db.WithContext(ctx).Order("id").Find(&tables).Error; err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	return tables, nil
}

// TablesChangedSince returns table records updated after the watermark,
// oldest first, so per-table event order matches commit order.
func (s *gormStore) TablesChangedSince(ctx context.Context, since time.Time) ([]model.Table, error) {
	var tables []model.Table
	if err := s.db.WithContext(ctx).
		Where("updated_at > ?", since).
		Order("updated_at").
		Find(&tables).Error; err != nil {
		return nil, fmt.Errorf("failed to query changed tables: %w", err)
	}
	return tables, nil
}

// UpsertTable creates or replaces a table record. The write is last-wins:
// the concurrent-claim race on virtual slots is resolved by whichever
// claim lands second, and observed by the loser through the feed.
func (s *gormStore) UpsertTable(ctx context.Context, t model.Table) error {
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "current_order", "updated_at"}),
	}).Create(&t).Error; err != nil {
		return fmt.Errorf("failed to upsert table %d: %w", t.ID, err)
	}
	return nil
}

// GetConfig returns the config singleton, defaulting to everything
// enabled when the row does not exist yet.
func (s *gormStore) GetConfig(ctx context.Context) (model.StoreConfig, error) {
	var cfg model.StoreConfig
	err := s.db.WithContext(ctx).First(&cfg, model.StoreConfigID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.StoreConfig{
			ID:              model.StoreConfigID,
			TablesEnabled:   true,
			DeliveryEnabled: true,
			CounterEnabled:  true,
		}, nil
	}
	if err != nil {
		return model.StoreConfig{}, fmt.Errorf("failed to load store config: %w", err)
	}
	return cfg, nil
}

// ConfigChangedSince returns the config singleton if it changed after the
// watermark, nil otherwise.
func (s *gormStore) ConfigChangedSince(ctx context.Context, since time.Time) (*model.StoreConfig, error) {
	var cfg model.StoreConfig
	err := s.db.WithContext(ctx).
		Where("id = ? AND updated_at > ?", model.StoreConfigID, since).
		First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query store config: %w", err)
	}
	return &cfg, nil
}

// UpsertConfig replaces the config singleton wholesale.
func (s *gormStore) UpsertConfig(ctx context.Context, cfg model.StoreConfig) error {
	cfg.ID = model.StoreConfigID
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"tables_enabled", "delivery_enabled", "counter_enabled", "updated_at"}),
	}).Create(&cfg).Error; err != nil {
		return fmt.Errorf("failed to upsert store config: %w", err)
	}
	return nil
}

func (s *gormStore) ListProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := s.db.WithContext(ctx).Order("name").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (s *gormStore) ListCategories(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if err := s.db.WithContext(ctx).Order("name").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *gormStore) ListActiveCoupons(ctx context.Context) ([]model.Coupon, error) {
	var coupons []model.Coupon
	if err := s.db.WithContext(ctx).Where("is_active = ?", true).Find(&coupons).Error; err != nil {
		return nil, fmt.Errorf("failed to list coupons: %w", err)
	}
	return coupons, nil
}

func (s *gormStore) InsertProduct(ctx context.Context, p model.Product) error {
	if err := s.db.WithContext(ctx).Create(&p).Error; err != nil {
		return fmt.Errorf("failed to insert product %s: %w", p.ID, err)
	}
	return nil
}

func (s *gormStore) UpdateProduct(ctx context.Context, p model.Product) error {
	res := s.db.WithContext(ctx).Model(&model.Product{ID: p.ID}).
		Select("name", "price", "category", "description", "image", "is_available").
		Updates(map[string]any{
			"name":         p.Name,
			"price":        p.Price,
			"category":     p.Category,
			"description":  p.Description,
			"image":        p.Image,
			"is_available": p.IsAvailable,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update product %s: %w", p.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *gormStore) DeleteProduct(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Delete(&model.Product{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete product %s: %w", id, err)
	}
	return nil
}

package repository

import (
	"context"
	"time"

	"github.com/nebulaops/backend/internal/domain"
)

// SalesFilter narrows ledger reads. Zero values mean "no bound".
type SalesFilter struct {
	SKU  string
	From *time.Time
	To   *time.Time
}

// ProductRepository is the product catalog, keyed uniquely by SKU.
type ProductRepository interface {
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, sku string) (*domain.Product, error)
	Upsert(ctx context.Context, p domain.Product) error
	BulkUpsert(ctx context.Context, products []domain.Product) error
	Delete(ctx context.Context, sku string) error
}

// SalesRepository is the append/edit/delete-capable sales ledger.
type SalesRepository interface {
	List(ctx context.Context, filter SalesFilter) ([]domain.SaleRecord, error)
	BulkInsert(ctx context.Context, records []domain.SaleRecord) error
	Update(ctx context.Context, rec domain.SaleRecord) error
	Delete(ctx context.Context, id int64) error
	ReplaceAll(ctx context.Context, records []domain.SaleRecord) error
}

// AdsRepository holds daily ad spend per product family.
type AdsRepository interface {
	List(ctx context.Context) ([]domain.AdRecord, error)
	BulkInsert(ctx context.Context, records []domain.AdRecord) error
	Update(ctx context.Context, rec domain.AdRecord) error
	Delete(ctx context.Context, id int64) error
	ReplaceAll(ctx context.Context, records []domain.AdRecord) error
}

// InventoryRepository maps SKUs to their manually maintained snapshots.
// Snapshots are created on first reference and updated in place.
type InventoryRepository interface {
	Map(ctx context.Context) (map[string]domain.InventorySnapshot, error)
	Get(ctx context.Context, sku string) (*domain.InventorySnapshot, error)
	Upsert(ctx context.Context, snap domain.InventorySnapshot) error
	ReplaceAll(ctx context.Context, snaps []domain.InventorySnapshot) error
}

// SettingsRepository stores the single shared policy record.
type SettingsRepository interface {
	Get(ctx context.Context) (domain.PolicySettings, error)
	Save(ctx context.Context, st domain.PolicySettings) error
}

package service

import (
	"context"
	"time"

	"github.com/nebulaops/backend/internal/domain"
	"github.com/nebulaops/backend/internal/repository"
)

// SnapshotPatch carries the editable inventory fields. Nil pointers
// leave the stored value untouched.
type SnapshotPatch struct {
	BaseQty     *int       `json:"base_qty"`
	BaseDate    *time.Time `json:"base_date"`
	Inbound     *int       `json:"inbound"`
	InboundDate *time.Time `json:"inbound_date"`
	Daily       *float64   `json:"daily"`
}

// InventoryService maintains the manually counted snapshots. Snapshots
// are created on first edit, so every catalog SKU is editable without a
// separate create step.
type InventoryService struct {
	inventory  repository.InventoryRepository
	forecasts  *ForecastService
	dashboards *DashboardService

	now func() time.Time
}

func NewInventoryService(inventory repository.InventoryRepository, forecasts *ForecastService, dashboards *DashboardService) *InventoryService {
	return &InventoryService{
		inventory:  inventory,
		forecasts:  forecasts,
		dashboards: dashboards,
		now:        time.Now,
	}
}

func (s *InventoryService) Map(ctx context.Context) (map[string]domain.InventorySnapshot, error) {
	return s.inventory.Map(ctx)
}

func (s *InventoryService) Get(ctx context.Context, sku string) (*domain.InventorySnapshot, error) {
	return s.inventory.Get(ctx, sku)
}

// Patch applies a partial edit to one SKU's snapshot. Changing BaseQty
// restamps BaseDate to today, so the physical count and its date stay
// in sync; an explicit BaseDate in the same patch wins.
func (s *InventoryService) Patch(ctx context.Context, sku string, patch SnapshotPatch) (*domain.InventorySnapshot, error) {
	snap, err := s.inventory.Get(ctx, sku)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		snap = &domain.InventorySnapshot{SKU: sku}
	}

	if patch.BaseQty != nil && *patch.BaseQty != snap.BaseQty {
		snap.BaseQty = *patch.BaseQty
		today := s.now()
		snap.BaseDate = &today
	}
	if patch.BaseDate != nil {
		snap.BaseDate = patch.BaseDate
	}
	if patch.Inbound != nil {
		snap.Inbound = *patch.Inbound
	}
	if patch.InboundDate != nil {
		snap.InboundDate = patch.InboundDate
	}
	if patch.Daily != nil {
		snap.Daily = *patch.Daily
	}

	if err := s.inventory.Upsert(ctx, *snap); err != nil {
		return nil, err
	}

	s.forecasts.Invalidate(ctx)
	return snap, nil
}

// Merge upserts imported snapshots per SKU, leaving unlisted SKUs
// untouched.
func (s *InventoryService) Merge(ctx context.Context, snaps []domain.InventorySnapshot) error {
	for _, snap := range snaps {
		if err := s.inventory.Upsert(ctx, snap); err != nil {
			return err
		}
	}
	s.forecasts.Invalidate(ctx)
	return nil
}

// ReplaceAll swaps the whole snapshot table, used by backup restore.
func (s *InventoryService) ReplaceAll(ctx context.Context, snaps []domain.InventorySnapshot) error {
	if err := s.inventory.ReplaceAll(ctx, snaps); err != nil {
		return err
	}
	s.forecasts.Invalidate(ctx)
	return nil
}

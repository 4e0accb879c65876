package service

import (
	"context"
	"fmt"

	"github.com/nebulaops/backend/internal/domain"
	"github.com/nebulaops/backend/internal/repository"
)

// LedgerService manages the sales ledger and ad spend records. Sales
// feed both the forecast pipeline and the dashboard; ads only feed the
// dashboard, so ad writes leave the forecast cache alone.
type LedgerService struct {
	sales      repository.SalesRepository
	ads        repository.AdsRepository
	forecasts  *ForecastService
	dashboards *DashboardService
}

func NewLedgerService(sales repository.SalesRepository, ads repository.AdsRepository, forecasts *ForecastService, dashboards *DashboardService) *LedgerService {
	return &LedgerService{sales: sales, ads: ads, forecasts: forecasts, dashboards: dashboards}
}

func (s *LedgerService) ListSales(ctx context.Context, filter repository.SalesFilter) ([]domain.SaleRecord, error) {
	return s.sales.List(ctx, filter)
}

func (s *LedgerService) AddSales(ctx context.Context, records []domain.SaleRecord) error {
	for _, rec := range records {
		if err := validateSale(rec); err != nil {
			return err
		}
	}
	if err := s.sales.BulkInsert(ctx, records); err != nil {
		return err
	}
	s.invalidateAll(ctx)
	return nil
}

func (s *LedgerService) UpdateSale(ctx context.Context, rec domain.SaleRecord) error {
	if err := validateSale(rec); err != nil {
		return err
	}
	if err := s.sales.Update(ctx, rec); err != nil {
		return err
	}
	s.invalidateAll(ctx)
	return nil
}

func (s *LedgerService) DeleteSale(ctx context.Context, id int64) error {
	if err := s.sales.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateAll(ctx)
	return nil
}

// ReplaceSales swaps the whole ledger, used by the XLSX import.
func (s *LedgerService) ReplaceSales(ctx context.Context, records []domain.SaleRecord) error {
	for _, rec := range records {
		if err := validateSale(rec); err != nil {
			return err
		}
	}
	if err := s.sales.ReplaceAll(ctx, records); err != nil {
		return err
	}
	s.invalidateAll(ctx)
	return nil
}

func (s *LedgerService) ListAds(ctx context.Context) ([]domain.AdRecord, error) {
	return s.ads.List(ctx)
}

func (s *LedgerService) AddAds(ctx context.Context, records []domain.AdRecord) error {
	if err := s.ads.BulkInsert(ctx, records); err != nil {
		return err
	}
	s.dashboards.Invalidate(ctx)
	return nil
}

func (s *LedgerService) UpdateAd(ctx context.Context, rec domain.AdRecord) error {
	if err := s.ads.Update(ctx, rec); err != nil {
		return err
	}
	s.dashboards.Invalidate(ctx)
	return nil
}

func (s *LedgerService) DeleteAd(ctx context.Context, id int64) error {
	if err := s.ads.Delete(ctx, id); err != nil {
		return err
	}
	s.dashboards.Invalidate(ctx)
	return nil
}

func (s *LedgerService) ReplaceAds(ctx context.Context, records []domain.AdRecord) error {
	if err := s.ads.ReplaceAll(ctx, records); err != nil {
		return err
	}
	s.dashboards.Invalidate(ctx)
	return nil
}

func (s *LedgerService) invalidateAll(ctx context.Context) {
	s.forecasts.Invalidate(ctx)
	s.dashboards.Invalidate(ctx)
}

func validateSale(rec domain.SaleRecord) error {
	if rec.SKU == "" {
		return fmt.Errorf("sale record: sku is required")
	}
	if rec.Type != domain.SaleTypeSale && rec.Type != domain.SaleTypeRefund {
		return fmt.Errorf("sale record %s: unknown type %q", rec.SKU, rec.Type)
	}
	if rec.Date.IsZero() {
		return fmt.Errorf("sale record %s: date is required", rec.SKU)
	}
	return nil
}

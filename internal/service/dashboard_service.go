package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/nebulaops/backend/internal/cache"
	"github.com/nebulaops/backend/internal/dashboard"
	"github.com/nebulaops/backend/internal/domain"
	"github.com/nebulaops/backend/internal/repository"
)

// DashboardService aggregates the profit view over a date range.
type DashboardService struct {
	products repository.ProductRepository
	sales    repository.SalesRepository
	ads      repository.AdsRepository
	settings repository.SettingsRepository
	cache    cache.DashboardCache
}

func NewDashboardService(
	products repository.ProductRepository,
	sales repository.SalesRepository,
	ads repository.AdsRepository,
	settings repository.SettingsRepository,
	cacheImpl cache.DashboardCache,
) *DashboardService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopDashboardCache()
	}
	return &DashboardService{
		products: products,
		sales:    sales,
		ads:      ads,
		settings: settings,
		cache:    cacheImpl,
	}
}

// Overview returns the KPI block, parent tree and trend series for the
// range. The full payload is cached per range.
func (s *DashboardService) Overview(ctx context.Context, rng domain.DateRange) (*domain.DashboardResult, error) {
	if result, ok, err := s.cache.Get(ctx, rng); err == nil && ok {
		return result, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("dashboard: cache get failed")
	}

	agg, products, ledger, ads, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	result := agg.Compute(products, ledger, ads, rng)

	if err := s.cache.Set(ctx, rng, &result); err != nil {
		log.Warn().Err(err).Msg("dashboard: cache set failed")
	}

	return &result, nil
}

// ParentDetail breaks one product family down by child SKU.
func (s *DashboardService) ParentDetail(ctx context.Context, parentSKU string, rng domain.DateRange) (*domain.ParentDetail, error) {
	agg, products, ledger, ads, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	known := false
	for _, p := range products {
		if p.ParentSKU == parentSKU {
			known = true
			break
		}
	}
	if !known {
		return nil, fmt.Errorf("unknown parent sku %s", parentSKU)
	}

	detail := agg.ParentDetail(parentSKU, products, ledger, ads, rng)
	return &detail, nil
}

// Invalidate drops every cached dashboard payload.
func (s *DashboardService) Invalidate(ctx context.Context) {
	if err := s.cache.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("dashboard: cache invalidation failed")
	}
}

func (s *DashboardService) load(ctx context.Context) (*dashboard.Aggregator, []domain.Product, []domain.SaleRecord, []domain.AdRecord, error) {
	st, err := s.settings.Get(ctx)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	products, err := s.products.List(ctx)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	ledger, err := s.sales.List(ctx, repository.SalesFilter{})
	if err != nil {
		return nil, nil, nil, nil, err
	}

	ads, err := s.ads.List(ctx)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	return dashboard.NewAggregator(st), products, ledger, ads, nil
}

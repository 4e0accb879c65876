package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nebulaops/backend/internal/cache"
	"github.com/nebulaops/backend/internal/domain"
	"github.com/nebulaops/backend/internal/forecast"
	"github.com/nebulaops/backend/internal/repository"
)

// ForecastService recomputes the per-SKU replenishment view on demand.
// Nothing derived is persisted; the cache only shortcuts repeat reads
// within the same day and is flushed on every data mutation.
type ForecastService struct {
	products  repository.ProductRepository
	sales     repository.SalesRepository
	inventory repository.InventoryRepository
	settings  repository.SettingsRepository
	cache     cache.ForecastCache

	now func() time.Time
}

func NewForecastService(
	products repository.ProductRepository,
	sales repository.SalesRepository,
	inventory repository.InventoryRepository,
	settings repository.SettingsRepository,
	cacheImpl cache.ForecastCache,
) *ForecastService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopForecastCache()
	}
	return &ForecastService{
		products:  products,
		sales:     sales,
		inventory: inventory,
		settings:  settings,
		cache:     cacheImpl,
		now:       time.Now,
	}
}

// List returns the forecast for every catalog SKU that matches the
// filter, in catalog order. All SKUs in one call share the same
// settings snapshot and reference date.
func (s *ForecastService) List(ctx context.Context, filter domain.ForecastFilter) ([]domain.SKUForecast, error) {
	today := s.now()

	if forecasts, ok, err := s.cache.Get(ctx, today, filter); err == nil && ok {
		return forecasts, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("forecast: cache get failed")
	}

	all, err := s.computeAll(ctx, today)
	if err != nil {
		return nil, err
	}

	forecasts := make([]domain.SKUForecast, 0, len(all))
	for _, f := range all {
		if forecast.MatchesFilter(f, filter) {
			forecasts = append(forecasts, f)
		}
	}

	if err := s.cache.Set(ctx, today, filter, forecasts); err != nil {
		log.Warn().Err(err).Msg("forecast: cache set failed")
	}

	return forecasts, nil
}

// Get recomputes the forecast for a single SKU.
func (s *ForecastService) Get(ctx context.Context, sku string) (*domain.SKUForecast, error) {
	p, err := s.products.Get(ctx, sku)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("unknown sku %s", sku)
	}

	st, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	snap, err := s.inventory.Get(ctx, sku)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		snap = &domain.InventorySnapshot{SKU: sku}
	}

	ledger, err := s.sales.List(ctx, repository.SalesFilter{SKU: sku})
	if err != nil {
		return nil, err
	}

	f := forecast.NewCalculator(st, s.now()).Calculate(*p, *snap, ledger)
	return &f, nil
}

// Invalidate drops every cached forecast listing. Called by the write
// paths after any mutation that feeds the pipeline.
func (s *ForecastService) Invalidate(ctx context.Context) {
	if err := s.cache.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("forecast: cache invalidation failed")
	}
}

func (s *ForecastService) computeAll(ctx context.Context, today time.Time) ([]domain.SKUForecast, error) {
	st, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	products, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}

	snapshots, err := s.inventory.Map(ctx)
	if err != nil {
		return nil, err
	}

	ledger, err := s.sales.List(ctx, repository.SalesFilter{})
	if err != nil {
		return nil, err
	}

	return forecast.NewCalculator(st, today).CalculateAll(products, snapshots, ledger), nil
}

package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/nebulaops/backend/internal/domain"
	"github.com/nebulaops/backend/internal/repository"
)

// CatalogService manages the product catalog. Every mutation flushes
// the derived caches since unit costs feed both forecast and profit.
type CatalogService struct {
	products   repository.ProductRepository
	forecasts  *ForecastService
	dashboards *DashboardService
}

func NewCatalogService(products repository.ProductRepository, forecasts *ForecastService, dashboards *DashboardService) *CatalogService {
	return &CatalogService{products: products, forecasts: forecasts, dashboards: dashboards}
}

func (s *CatalogService) List(ctx context.Context) ([]domain.Product, error) {
	return s.products.List(ctx)
}

func (s *CatalogService) Get(ctx context.Context, sku string) (*domain.Product, error) {
	return s.products.Get(ctx, sku)
}

func (s *CatalogService) Save(ctx context.Context, p domain.Product) error {
	if err := validateProduct(p); err != nil {
		return err
	}
	if err := s.products.Upsert(ctx, p); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CatalogService) SaveAll(ctx context.Context, products []domain.Product) error {
	for _, p := range products {
		if err := validateProduct(p); err != nil {
			return err
		}
	}
	if err := s.products.BulkUpsert(ctx, products); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CatalogService) Delete(ctx context.Context, sku string) error {
	if err := s.products.Delete(ctx, sku); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CatalogService) invalidate(ctx context.Context) {
	s.forecasts.Invalidate(ctx)
	s.dashboards.Invalidate(ctx)
}

func validateProduct(p domain.Product) error {
	if strings.TrimSpace(p.SKU) == "" {
		return fmt.Errorf("product sku is required")
	}
	if strings.TrimSpace(p.ParentSKU) == "" {
		return fmt.Errorf("product %s: parent sku is required", p.SKU)
	}
	return nil
}

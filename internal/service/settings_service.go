package service

import (
	"context"
	"fmt"

	"github.com/nebulaops/backend/internal/domain"
	"github.com/nebulaops/backend/internal/repository"
)

// SettingsService manages the single shared policy record.
type SettingsService struct {
	settings   repository.SettingsRepository
	forecasts  *ForecastService
	dashboards *DashboardService
}

func NewSettingsService(settings repository.SettingsRepository, forecasts *ForecastService, dashboards *DashboardService) *SettingsService {
	return &SettingsService{settings: settings, forecasts: forecasts, dashboards: dashboards}
}

func (s *SettingsService) Get(ctx context.Context) (domain.PolicySettings, error) {
	return s.settings.Get(ctx)
}

func (s *SettingsService) Save(ctx context.Context, st domain.PolicySettings) error {
	if st.ExchangeRate <= 0 {
		return fmt.Errorf("exchange rate must be positive")
	}
	if st.LeadTime < 0 || st.SafetyStock < 0 || st.DeadStockThreshold < 0 {
		return fmt.Errorf("policy day counts must not be negative")
	}

	if err := s.settings.Save(ctx, st); err != nil {
		return err
	}

	s.forecasts.Invalidate(ctx)
	s.dashboards.Invalidate(ctx)
	return nil
}

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nebulaops/backend/internal/domain"
	"github.com/nebulaops/backend/internal/repository"
	"github.com/nebulaops/backend/internal/service"
)

type stubProducts struct{ items []domain.Product }

func (s *stubProducts) List(ctx context.Context) ([]domain.Product, error) { return s.items, nil }

func (s *stubProducts) Get(ctx context.Context, sku string) (*domain.Product, error) {
	for _, p := range s.items {
		if p.SKU == sku {
			return &p, nil
		}
	}
	return nil, nil
}

func (s *stubProducts) Upsert(ctx context.Context, p domain.Product) error {
	s.items = append(s.items, p)
	return nil
}

func (s *stubProducts) BulkUpsert(ctx context.Context, products []domain.Product) error {
	s.items = append(s.items, products...)
	return nil
}

func (s *stubProducts) Delete(ctx context.Context, sku string) error { return nil }

type stubSales struct{ items []domain.SaleRecord }

func (s *stubSales) List(ctx context.Context, filter repository.SalesFilter) ([]domain.SaleRecord, error) {
	return s.items, nil
}
func (s *stubSales) BulkInsert(ctx context.Context, records []domain.SaleRecord) error {
	s.items = append(s.items, records...)
	return nil
}
func (s *stubSales) Update(ctx context.Context, rec domain.SaleRecord) error { return nil }
func (s *stubSales) Delete(ctx context.Context, id int64) error              { return nil }
func (s *stubSales) ReplaceAll(ctx context.Context, records []domain.SaleRecord) error {
	s.items = records
	return nil
}

type stubAds struct{ items []domain.AdRecord }

func (s *stubAds) List(ctx context.Context) ([]domain.AdRecord, error) { return s.items, nil }
func (s *stubAds) BulkInsert(ctx context.Context, records []domain.AdRecord) error {
	s.items = append(s.items, records...)
	return nil
}
func (s *stubAds) Update(ctx context.Context, rec domain.AdRecord) error { return nil }
func (s *stubAds) Delete(ctx context.Context, id int64) error            { return nil }
func (s *stubAds) ReplaceAll(ctx context.Context, records []domain.AdRecord) error {
	s.items = records
	return nil
}

type stubInventory struct{ items map[string]domain.InventorySnapshot }

func (s *stubInventory) Map(ctx context.Context) (map[string]domain.InventorySnapshot, error) {
	return s.items, nil
}

func (s *stubInventory) Get(ctx context.Context, sku string) (*domain.InventorySnapshot, error) {
	snap, ok := s.items[sku]
	if !ok {
		return nil, nil
	}
	return &snap, nil
}

func (s *stubInventory) Upsert(ctx context.Context, snap domain.InventorySnapshot) error {
	s.items[snap.SKU] = snap
	return nil
}

func (s *stubInventory) ReplaceAll(ctx context.Context, snaps []domain.InventorySnapshot) error {
	s.items = make(map[string]domain.InventorySnapshot, len(snaps))
	for _, snap := range snaps {
		s.items[snap.SKU] = snap
	}
	return nil
}

type stubSettings struct{ stored domain.PolicySettings }

func (s *stubSettings) Get(ctx context.Context) (domain.PolicySettings, error) {
	return s.stored, nil
}

func (s *stubSettings) Save(ctx context.Context, st domain.PolicySettings) error {
	s.stored = st
	return nil
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	baseDate := time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)
	products := &stubProducts{items: []domain.Product{
		{SKU: "LAMP-BLK", ParentSKU: "LAMP", Name: "Desk Lamp Black", CostCNY: 36, ShipCNY: 7.2},
	}}
	sales := &stubSales{items: []domain.SaleRecord{
		{ID: 1, Date: time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC), SKU: "LAMP-BLK", Type: domain.SaleTypeSale, Amount: 20},
	}}
	ads := &stubAds{}
	inventory := &stubInventory{items: map[string]domain.InventorySnapshot{
		"LAMP-BLK": {SKU: "LAMP-BLK", BaseQty: 100, BaseDate: &baseDate},
	}}
	settings := &stubSettings{stored: domain.DefaultPolicySettings()}

	forecasts := service.NewForecastService(products, sales, inventory, settings, nil)
	dashboards := service.NewDashboardService(products, sales, ads, settings, nil)

	services := &Services{
		Forecasts:  forecasts,
		Dashboards: dashboards,
		Catalog:    service.NewCatalogService(products, forecasts, dashboards),
		Ledger:     service.NewLedgerService(sales, ads, forecasts, dashboards),
		Inventory:  service.NewInventoryService(inventory, forecasts, dashboards),
		Settings:   service.NewSettingsService(settings, forecasts, dashboards),
		Backups:    service.NewBackupService(products, sales, ads, inventory, nil, forecasts, dashboards),
	}
	return NewRouter(services, nil)
}

func doRequest(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestForecastListEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/api/v1/forecast", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Forecasts []domain.SKUForecast `json:"forecasts"`
		Total     int                  `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, "LAMP-BLK", resp.Forecasts[0].SKU)
	assert.Equal(t, 99, resp.Forecasts[0].CurrentStock)
}

func TestForecastGetUnknownSKU(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/api/v1/forecast/NOPE", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDashboardEndpointRangeValidation(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/api/v1/dashboard?start=2025-03-01&end=2025-03-31", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, router, http.MethodGet, "/api/v1/dashboard?start=2025-03-31&end=2025-03-01", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, router, http.MethodGet, "/api/v1/dashboard?start=bogus", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInventoryPatchEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodPatch, "/api/v1/inventory/LAMP-BLK", `{"base_qty": 80}`)
	require.Equal(t, http.StatusOK, w.Code)

	var snap domain.InventorySnapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, 80, snap.BaseQty)
	require.NotNil(t, snap.BaseDate)

	// Counting again today restamps the count date.
	today := time.Now().UTC().Format("2006-01-02")
	assert.Equal(t, today, snap.BaseDate.Format("2006-01-02"))
}

func TestSettingsEndpoints(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/api/v1/settings", "")
	require.Equal(t, http.StatusOK, w.Code)

	var st domain.PolicySettings
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &st))
	assert.Equal(t, domain.DefaultPolicySettings(), st)

	w = doRequest(t, router, http.MethodPut, "/api/v1/settings", `{"exchange_rate": 7.0, "lead_time": 45, "safety_stock": 20, "dead_stock_threshold": 90}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, router, http.MethodPut, "/api/v1/settings", `{"exchange_rate": 0}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestImportUnknownDataset(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodPost, "/api/v1/import/bogus", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNormalizeAllowedOrigins(t *testing.T) {
	tests := []struct {
		name     string
		origins  []string
		want     []string
		allowAll bool
	}{
		{name: "empty", origins: nil, want: nil},
		{name: "single", origins: []string{"https://app.example.com"}, want: []string{"https://app.example.com"}},
		{name: "comma separated", origins: []string{"https://a.com, https://b.com"}, want: []string{"https://a.com", "https://b.com"}},
		{name: "wildcard", origins: []string{"*"}, allowAll: true},
		{name: "wildcard mixed", origins: []string{"https://a.com", "*"}, want: []string{"https://a.com"}, allowAll: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, allowAll := normalizeAllowedOrigins(tt.origins)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.allowAll, allowAll)
		})
	}
}

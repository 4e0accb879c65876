package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nebulaops/backend/internal/domain"
)

func newDashboardFixture(t *testing.T) *DashboardService {
	t.Helper()

	products := newMemProducts(
		domain.Product{SKU: "LAMP-BLK", ParentSKU: "LAMP", Name: "Desk Lamp Black", CostCNY: 36, ShipCNY: 7.2},
	)
	sales := newMemSales(domain.SaleRecord{
		Date: day("2025-03-05"), SKU: "LAMP-BLK", Type: domain.SaleTypeSale,
		Amount: 20, ShippingFee: 3, StorageFee: 1,
	})
	ads := newMemAds(domain.AdRecord{Date: day("2025-03-05"), ParentSKU: "LAMP", TotalSpend: 2})

	return NewDashboardService(products, sales, ads, &memSettings{}, nil)
}

func TestDashboardOverview(t *testing.T) {
	svc := newDashboardFixture(t)
	rng := domain.DateRange{Start: day("2025-03-01"), End: day("2025-03-31")}

	result, err := svc.Overview(context.Background(), rng)
	require.NoError(t, err)

	// 20 - 6 landed - 3 shipping - 1 storage - 3 commission - 2 ads = 5
	assert.InDelta(t, 20.0, result.KPI.Revenue, 1e-9)
	assert.InDelta(t, 5.0, result.KPI.NetProfit, 1e-9)
	require.Len(t, result.Parents, 1)
	assert.Equal(t, "LAMP", result.Parents[0].SKU)
	assert.NotEmpty(t, result.Trend)
}

func TestDashboardParentDetail(t *testing.T) {
	svc := newDashboardFixture(t)
	rng := domain.DateRange{Start: day("2025-03-01"), End: day("2025-03-31")}

	detail, err := svc.ParentDetail(context.Background(), "LAMP", rng)
	require.NoError(t, err)
	assert.Equal(t, "LAMP", detail.ParentSKU)
	require.Len(t, detail.Breakdown, 1)
	assert.Equal(t, "LAMP-BLK", detail.Breakdown[0].SKU)

	_, err = svc.ParentDetail(context.Background(), "NOPE", rng)
	assert.Error(t, err)
}

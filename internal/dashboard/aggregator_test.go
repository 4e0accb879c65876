package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nebulaops/backend/internal/domain"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func fixtureProducts() []domain.Product {
	return []domain.Product{
		{SKU: "A-01", ParentSKU: "ALPHA", Name: "Widget Blue", CostCNY: 36, ShipCNY: 0},
		{SKU: "A-02", ParentSKU: "ALPHA", Name: "Widget Red", CostCNY: 36, ShipCNY: 0},
		{SKU: "B-01", ParentSKU: "BETA", Name: "Gadget", CostCNY: 72, ShipCNY: 0},
	}
}

func fixtureSettings() domain.PolicySettings {
	st := domain.DefaultPolicySettings()
	st.ExchangeRate = 7.2 // unit cost for A-xx: 5.00, for B-01: 10.00
	return st
}

func januaryRange() domain.DateRange {
	return domain.DateRange{Start: day("2025-01-01"), End: day("2025-01-31")}
}

func TestComputeSaleEconomics(t *testing.T) {
	agg := NewAggregator(fixtureSettings())
	ledger := []domain.SaleRecord{
		{SKU: "A-01", Type: domain.SaleTypeSale, Date: day("2025-01-10"), Amount: 20, ShippingFee: 3, StorageFee: 1},
	}

	res := agg.Compute(fixtureProducts(), ledger, nil, januaryRange())

	require.Len(t, res.Parents, 2) // every family appears, sold or not
	alpha := res.Parents[0]
	assert.Equal(t, "ALPHA", alpha.SKU)
	assert.Equal(t, 20.0, alpha.Revenue)
	// 20 - 5 cost - 3 shipping - 1 storage - 3 commission = 8
	assert.InDelta(t, 8.0, alpha.NetProfit, 1e-9)
	assert.Equal(t, 1, alpha.NetUnits)
	assert.InDelta(t, 40.0, alpha.Margin, 1e-9)

	beta := res.Parents[1]
	assert.Zero(t, beta.Revenue)
	assert.Zero(t, beta.NetProfit)
}

func TestComputeRefunds(t *testing.T) {
	agg := NewAggregator(fixtureSettings())
	ledger := []domain.SaleRecord{
		{SKU: "A-01", Type: domain.SaleTypeSale, Date: day("2025-01-10"), Amount: 20, ShippingFee: 3, StorageFee: 1},
		{SKU: "A-01", Type: domain.SaleTypeRefund, Date: day("2025-01-12"), Amount: -20},
	}

	res := agg.Compute(fixtureProducts(), ledger, nil, januaryRange())

	kpi := res.KPI
	assert.Equal(t, 20.0, kpi.Revenue) // refunds do not reduce revenue
	assert.InDelta(t, -12.0, kpi.NetProfit, 1e-9)
	assert.Equal(t, 0, kpi.NetUnits)
	assert.Equal(t, 1, kpi.TotalRefundQty)
	assert.Equal(t, 20.0, kpi.TotalRefundAmt)
}

func TestComputeAdsAttribution(t *testing.T) {
	agg := NewAggregator(fixtureSettings())
	ledger := []domain.SaleRecord{
		{SKU: "A-01", Type: domain.SaleTypeSale, Date: day("2025-01-10"), Amount: 100},
		{SKU: "B-01", Type: domain.SaleTypeSale, Date: day("2025-01-10"), Amount: 100},
	}
	ads := []domain.AdRecord{
		{ParentSKU: "ALPHA", Date: day("2025-01-10"), TotalSpend: 30},
		{ParentSKU: "ALPHA", Date: day("2025-02-10"), TotalSpend: 99}, // out of range
	}

	res := agg.Compute(fixtureProducts(), ledger, ads, januaryRange())

	alpha, beta := res.Parents[0], res.Parents[1]
	assert.Equal(t, 30.0, alpha.AdsSpend)
	assert.InDelta(t, 30.0, alpha.ACOS, 1e-9)
	// 100 - 5 - 15 commission - 30 ads = 50
	assert.InDelta(t, 50.0, alpha.NetProfit, 1e-9)
	assert.Zero(t, beta.AdsSpend)

	// Global ACOS uses range-wide ad spend over range-wide revenue.
	assert.InDelta(t, 15.0, res.KPI.ACOS, 1e-9)
}

func TestComputeROI(t *testing.T) {
	agg := NewAggregator(fixtureSettings())
	ledger := []domain.SaleRecord{
		{SKU: "A-01", Type: domain.SaleTypeSale, Date: day("2025-01-10"), Amount: 100},
	}

	res := agg.Compute(fixtureProducts(), ledger, nil, januaryRange())
	// profit 80, expenses 20 -> roi 400%
	assert.InDelta(t, 400.0, res.KPI.ROI, 1e-9)
}

func TestTrendGranularity(t *testing.T) {
	agg := NewAggregator(fixtureSettings())
	ledger := []domain.SaleRecord{
		{SKU: "A-01", Type: domain.SaleTypeSale, Date: day("2025-01-02"), Amount: 100},
	}
	ads := []domain.AdRecord{{ParentSKU: "ALPHA", Date: day("2025-01-02"), TotalSpend: 25}}

	t.Run("short ranges bucket by day", func(t *testing.T) {
		rng := domain.DateRange{Start: day("2025-01-01"), End: day("2025-01-03")}
		trend := agg.Trend(fixtureProducts(), ledger, ads, rng)
		require.Len(t, trend, 3)
		assert.Equal(t, "2025-01-02", trend[1].Bucket)
		assert.Equal(t, 100.0, trend[1].Revenue)
		assert.Equal(t, 25.0, trend[1].Ads)
		// 100 - 5 - 15 commission - 25 ads
		assert.InDelta(t, 55.0, trend[1].Profit, 1e-9)
		assert.InDelta(t, 25.0, trend[1].ACOS, 1e-9)
	})

	t.Run("ranges beyond two months bucket by month", func(t *testing.T) {
		rng := domain.DateRange{Start: day("2025-01-01"), End: day("2025-12-31")}
		trend := agg.Trend(fixtureProducts(), ledger, ads, rng)
		require.Len(t, trend, 12)
		assert.Equal(t, "2025-01", trend[0].Bucket)
		assert.Equal(t, 100.0, trend[0].Revenue)
	})
}

func TestParentDetail(t *testing.T) {
	agg := NewAggregator(fixtureSettings())
	ledger := []domain.SaleRecord{
		{SKU: "A-01", Type: domain.SaleTypeSale, Date: day("2025-01-06"), Amount: 75, ShippingFee: 2},
		{SKU: "A-02", Type: domain.SaleTypeSale, Date: day("2025-01-07"), Amount: 25, ShippingFee: 2},
		{SKU: "A-01", Type: domain.SaleTypeRefund, Date: day("2025-01-08"), Amount: -75},
		{SKU: "B-01", Type: domain.SaleTypeSale, Date: day("2025-01-08"), Amount: 999}, // other family
	}
	ads := []domain.AdRecord{{ParentSKU: "ALPHA", Date: day("2025-01-06"), TotalSpend: 40}}

	d := agg.ParentDetail("ALPHA", fixtureProducts(), ledger, ads, januaryRange())

	assert.Equal(t, 100.0, d.TotalRevenue)
	assert.Equal(t, 40.0, d.TotalAds)
	require.Len(t, d.Breakdown, 2)

	// Sorted by revenue, ads allocated by revenue share.
	top := d.Breakdown[0]
	assert.Equal(t, "A-01", top.SKU)
	assert.Equal(t, 1, top.UnitsSold)
	assert.Equal(t, 1, top.RefundQty)
	assert.Equal(t, 75.0, top.RefundAmt)
	assert.InDelta(t, 30.0, top.AllocatedAds, 1e-9) // 40 * 75/100
	// 75 - 75 refund - 5 cogs - 2 fees - 11.25 commission - 30 ads
	assert.InDelta(t, -48.25, top.NetProfit, 1e-9)

	second := d.Breakdown[1]
	assert.Equal(t, "A-02", second.SKU)
	assert.InDelta(t, 10.0, second.AllocatedAds, 1e-9)

	// Weekly series keyed by Monday; both sales fall in the week of Jan 6.
	require.Len(t, d.Weekly, 1)
	assert.Equal(t, "2025-01-06", d.Weekly[0].WeekStart)
	assert.Equal(t, 75.0, d.Weekly[0].Revenue["A-01"])
	assert.Equal(t, 25.0, d.Weekly[0].Revenue["A-02"])
}

func TestWeekStart(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{"2025-01-06", "2025-01-06"}, // Monday maps to itself
		{"2025-01-09", "2025-01-06"}, // Thursday
		{"2025-01-12", "2025-01-06"}, // Sunday belongs to the preceding Monday
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, weekStart(day(tt.date)).Format("2006-01-02"), tt.date)
	}
}

package forecast

import (
	"strings"
	"time"

	"github.com/nebulaops/backend/internal/domain"
)

// Calculator runs the four-stage replenishment pipeline for SKUs. One
// Calculator covers one recomputation pass: it carries an immutable copy
// of the policy settings and a fixed "today", so every SKU in the pass
// sees consistent inputs and results are reproducible under test.
type Calculator struct {
	settings domain.PolicySettings
	today    time.Time
}

// NewCalculator prepares a calculation pass against the given settings
// snapshot and reference date.
func NewCalculator(settings domain.PolicySettings, today time.Time) *Calculator {
	return &Calculator{settings: settings, today: today}
}

// Calculate derives the full forecast record for one SKU:
// stock reconciliation, velocity estimation, timeline projection and the
// replenishment decision, in that order. Pure; the ledger is only read.
func (c *Calculator) Calculate(p domain.Product, snap domain.InventorySnapshot, ledger []domain.SaleRecord) domain.SKUForecast {
	pos := Reconcile(snap, ledger)
	vel := EstimateVelocity(p.SKU, ledger, snap.Daily, c.today)
	tl := ProjectTimeline(pos, vel, snap.Inbound, snap.InboundDate, c.today)
	dec := Replenish(p, c.settings, pos, vel, tl, snap.Inbound)

	return domain.SKUForecast{
		SKU:       p.SKU,
		ParentSKU: p.ParentSKU,
		Name:      p.Name,
		Snapshot:  snap,

		SalesSince:   pos.SalesSince,
		CurrentStock: pos.CurrentStock,

		Avg7:       vel.Avg7,
		Avg30:      vel.Avg30,
		AlgoDaily:  vel.AlgoDaily,
		FinalDaily: vel.FinalDaily,
		IsManual:   vel.IsManual,
		Trend:      vel.Trend(),

		RunOutDate: tl.RunOutDate,
		GapDays:    tl.GapDays,
		GapQty:     tl.GapQty,
		DOS:        tl.DOS,
		StockBand:  domain.ClassifyDOS(tl.DOS),

		TargetQty:  dec.TargetQty,
		AirRestock: dec.AirRestock,
		SeaRestock: dec.SeaRestock,

		DeadQty:      dec.DeadQty,
		DeadValue:    dec.DeadValue,
		BleedingCost: dec.BleedingCost,
	}
}

// CalculateAll derives forecasts for every product in catalog order.
// Missing snapshots degrade to the zero snapshot, same as a SKU that was
// never counted.
func (c *Calculator) CalculateAll(products []domain.Product, snapshots map[string]domain.InventorySnapshot, ledger []domain.SaleRecord) []domain.SKUForecast {
	out := make([]domain.SKUForecast, 0, len(products))
	for _, p := range products {
		snap, ok := snapshots[p.SKU]
		if !ok {
			snap = domain.InventorySnapshot{SKU: p.SKU}
		}
		out = append(out, c.Calculate(p, snap, ledger))
	}
	return out
}

// MatchesFilter reports whether a forecast row survives the fuzzy search:
// every whitespace-separated term must appear in the SKU, parent SKU or
// product name, case-insensitively.
func MatchesFilter(f domain.SKUForecast, filter domain.ForecastFilter) bool {
	search := strings.TrimSpace(filter.Search)
	if search == "" {
		return true
	}

	haystack := strings.ToLower(f.SKU + " " + f.ParentSKU + " " + f.Name)
	for _, term := range strings.Fields(strings.ToLower(search)) {
		if !strings.Contains(haystack, term) {
			return false
		}
	}
	return true
}

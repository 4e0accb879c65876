package forecast

import (
	"github.com/nebulaops/backend/internal/domain"
)

// Reconcile projects current on-hand stock from the last physical count.
// Only Sale events strictly after the count date deduct from the base
// quantity; refunds never restore counted stock (a recount, which
// re-stamps the base date, is the only way to raise it back up). A SKU
// that has never been counted keeps its full base quantity.
func Reconcile(snap domain.InventorySnapshot, ledger []domain.SaleRecord) StockPosition {
	salesSince := 0
	if snap.BaseDate != nil {
		base := *snap.BaseDate
		for _, rec := range ledger {
			if rec.SKU == snap.SKU && rec.Type == domain.SaleTypeSale && rec.Date.After(base) {
				salesSince++
			}
		}
	}

	current := snap.BaseQty - salesSince
	if current < 0 {
		current = 0
	}

	return StockPosition{
		SalesSince:   salesSince,
		CurrentStock: current,
	}
}

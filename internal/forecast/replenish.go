package forecast

import (
	"math"

	"github.com/nebulaops/backend/internal/domain"
)

// Replenish converts the supply gap and the target-inventory policy into
// an air/sea restock split and prices the dead-stock exposure.
//
// The target is the stock level needed to survive one full replenishment
// cycle plus buffer. Only the gap quantity is expedited by air; whatever
// remains of the shortfall goes by sea. Inventory beyond what the
// dead-stock threshold window can consume is valued at landed unit cost
// (capital tied up) and at the per-unit monthly storage fee (ongoing
// bleed).
func Replenish(p domain.Product, st domain.PolicySettings, pos StockPosition, vel Velocity, tl Timeline, inbound int) Decision {
	d := Decision{
		TargetQty: int(math.Ceil(vel.FinalDaily * float64(st.LeadTime+st.SafetyStock))),
	}

	totalInventory := pos.CurrentStock + inbound
	need := d.TargetQty - totalInventory
	if need < 0 {
		need = 0
	}

	d.AirRestock = tl.GapQty
	d.SeaRestock = need - d.AirRestock
	if d.SeaRestock < 0 {
		d.SeaRestock = 0
	}

	d.DeadQty = math.Max(0, float64(totalInventory)-vel.FinalDaily*float64(st.DeadStockThreshold))
	d.DeadValue = d.DeadQty * p.UnitCost(st.ExchangeRate)
	d.BleedingCost = d.DeadQty * p.StorageUSD

	return d
}

package forecast

import "time"

// minDailyFloor prevents division by zero in day-counting when a SKU has
// no sales in either window and no manual override.
const minDailyFloor = 0.001

// dosSentinel stands in for days-of-supply when velocity is too close to
// zero for the ratio to mean anything.
const dosSentinel = 999

// velocityEpsilon is the cutoff below which DOS falls back to the sentinel.
const dosVelocityCutoff = 0.01

// Blend weights for the dual-window velocity estimate. Recent activity
// dominates, the 30-day baseline dampens single-day spikes.
const (
	weightAvg7  = 0.6
	weightAvg30 = 0.4
)

// StockPosition is the output of stock reconciliation.
type StockPosition struct {
	SalesSince   int
	CurrentStock int
}

// Velocity is the blended daily sales estimate for one SKU.
type Velocity struct {
	Avg7       float64
	Avg30      float64
	AlgoDaily  float64
	FinalDaily float64
	IsManual   bool
}

// Timeline is the stockout projection and supply-gap detection result.
type Timeline struct {
	DaysLeft   float64
	RunOutDate time.Time
	GapDays    int
	GapQty     int
	DOS        int
}

// Decision is the replenishment split and dead-stock exposure.
type Decision struct {
	TargetQty    int
	AirRestock   int
	SeaRestock   int
	DeadQty      float64
	DeadValue    float64
	BleedingCost float64
}

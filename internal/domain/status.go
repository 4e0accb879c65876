package domain

// Trend classifies short-window velocity against the 30-day baseline.
// Informational only; it never feeds the restock arithmetic.
type Trend string

const (
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
	TrendFlat Trend = "flat"
)

// ClassifyTrend compares the 7-day average against the 30-day average with
// a 10% dead band either side.
func ClassifyTrend(avg7, avg30 float64) Trend {
	switch {
	case avg7 > avg30*1.1:
		return TrendUp
	case avg7 < avg30*0.9:
		return TrendDown
	default:
		return TrendFlat
	}
}

// StockBand is the presentation band for days-of-supply. The thresholds
// are fixed policy constants, independent of the configurable dead-stock
// threshold.
type StockBand string

const (
	StockBandCritical  StockBand = "critical"
	StockBandHealthy   StockBand = "healthy"
	StockBandOverstock StockBand = "overstock"
)

const (
	criticalDOSBelow  = 30
	overstockDOSAbove = 120
)

// ClassifyDOS maps days-of-supply into its band: below 30 days is
// critical, above 120 is overstocked, anything between is healthy.
func ClassifyDOS(dos int) StockBand {
	switch {
	case dos < criticalDOSBelow:
		return StockBandCritical
	case dos > overstockDOSAbove:
		return StockBandOverstock
	default:
		return StockBandHealthy
	}
}

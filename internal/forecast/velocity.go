package forecast

import (
	"time"

	"github.com/nebulaops/backend/internal/domain"
)

// EstimateVelocity blends a 7-day and a 30-day trailing sales rate into a
// daily velocity. A manual override > 0 wins unconditionally. Without an
// override and without any sales, the estimate floors at minDailyFloor so
// downstream day-counting never divides by zero.
func EstimateVelocity(sku string, ledger []domain.SaleRecord, override float64, today time.Time) Velocity {
	cutoff7 := today.AddDate(0, 0, -7)
	cutoff30 := today.AddDate(0, 0, -30)

	var count7, count30 int
	for _, rec := range ledger {
		if rec.SKU != sku || rec.Type != domain.SaleTypeSale {
			continue
		}
		if !rec.Date.Before(cutoff7) {
			count7++
		}
		if !rec.Date.Before(cutoff30) {
			count30++
		}
	}

	v := Velocity{
		Avg7:  float64(count7) / 7,
		Avg30: float64(count30) / 30,
	}
	v.AlgoDaily = v.Avg7*weightAvg7 + v.Avg30*weightAvg30

	if override > 0 {
		v.IsManual = true
		v.FinalDaily = override
	} else if v.AlgoDaily > 0 {
		v.FinalDaily = v.AlgoDaily
	} else {
		v.FinalDaily = minDailyFloor
	}

	return v
}

// Trend classifies the short-window rate against the 30-day baseline.
func (v Velocity) Trend() domain.Trend {
	return domain.ClassifyTrend(v.Avg7, v.Avg30)
}

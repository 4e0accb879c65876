package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nebulaops/backend/internal/domain"
)

func TestEstimateVelocity(t *testing.T) {
	today := day("2025-06-15")

	// 14 sales inside the 7-day window, 16 more inside only the 30-day
	// window: count7=14 (avg 2.0), count30=30 (avg 1.0).
	ledger := append(sales("A-01", "2025-06-12", 14), sales("A-01", "2025-05-25", 16)...)

	v := EstimateVelocity("A-01", ledger, 0, today)
	assert.InDelta(t, 2.0, v.Avg7, 1e-9)
	assert.InDelta(t, 1.0, v.Avg30, 1e-9)
	assert.InDelta(t, 1.6, v.AlgoDaily, 1e-9) // 2.0*0.6 + 1.0*0.4
	assert.InDelta(t, 1.6, v.FinalDaily, 1e-9)
	assert.False(t, v.IsManual)
	assert.Equal(t, domain.TrendUp, v.Trend())
}

func TestEstimateVelocityWindowBoundaries(t *testing.T) {
	today := day("2025-06-15")

	tests := []struct {
		name       string
		date       string
		wantCount7 bool
	}{
		{"exactly seven days back is inside", "2025-06-08", true},
		{"eight days back is outside the short window", "2025-06-07", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := EstimateVelocity("A-01", sales("A-01", tt.date, 7), 0, today)
			if tt.wantCount7 {
				assert.InDelta(t, 1.0, v.Avg7, 1e-9)
			} else {
				assert.Zero(t, v.Avg7)
			}
			// Either way the events are inside the 30-day window.
			assert.InDelta(t, 7.0/30.0, v.Avg30, 1e-9)
		})
	}
}

func TestEstimateVelocityManualOverride(t *testing.T) {
	today := day("2025-06-15")
	ledger := sales("A-01", "2025-06-14", 70) // algo would be huge

	v := EstimateVelocity("A-01", ledger, 2.5, today)
	assert.True(t, v.IsManual)
	assert.Equal(t, 2.5, v.FinalDaily)
	// Window averages are still reported for reference.
	assert.InDelta(t, 10.0, v.Avg7, 1e-9)
}

func TestEstimateVelocityFloor(t *testing.T) {
	v := EstimateVelocity("A-01", nil, 0, day("2025-06-15"))
	assert.Zero(t, v.AlgoDaily)
	assert.Equal(t, 0.001, v.FinalDaily)
	assert.False(t, v.IsManual)
}

func TestClassifyTrend(t *testing.T) {
	tests := []struct {
		name  string
		avg7  float64
		avg30 float64
		want  domain.Trend
	}{
		{"clearly up", 2.0, 1.0, domain.TrendUp},
		{"clearly down", 0.5, 1.0, domain.TrendDown},
		{"equal is flat", 1.0, 1.0, domain.TrendFlat},
		{"exactly 1.1x is still flat", 1.1, 1.0, domain.TrendFlat},
		{"exactly 0.9x is still flat", 0.9, 1.0, domain.TrendFlat},
		{"just above the band", 1.1001, 1.0, domain.TrendUp},
		{"just below the band", 0.8999, 1.0, domain.TrendDown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.ClassifyTrend(tt.avg7, tt.avg30))
		})
	}
}

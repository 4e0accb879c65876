package forecast

import (
	"math"
	"time"
)

const hoursPerDay = 24

// ProjectTimeline converts current stock and velocity into a stockout date
// and checks it against the expected inbound arrival. A supply gap exists
// only when the ETA is strictly later than the projected run-out; without
// an ETA, replenishment is assumed to arrive in time.
//
// Days-of-supply counts inbound stock as available, unlike the run-out
// projection, which covers only what is on hand.
func ProjectTimeline(pos StockPosition, vel Velocity, inbound int, inboundDate *time.Time, today time.Time) Timeline {
	tl := Timeline{
		DaysLeft: float64(pos.CurrentStock) / vel.FinalDaily,
	}
	tl.RunOutDate = today.AddDate(0, 0, int(math.Floor(tl.DaysLeft)))

	if inboundDate != nil && inboundDate.After(tl.RunOutDate) {
		diff := inboundDate.Sub(tl.RunOutDate).Hours() / hoursPerDay
		tl.GapDays = int(math.Ceil(diff))
		tl.GapQty = int(math.Ceil(float64(tl.GapDays) * vel.FinalDaily))
	}

	if vel.FinalDaily > dosVelocityCutoff {
		tl.DOS = int(math.Round(float64(pos.CurrentStock+inbound) / vel.FinalDaily))
	} else {
		tl.DOS = dosSentinel
	}

	return tl
}

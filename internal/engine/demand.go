package engine

import "time"

// PredictDemand maps an hour of day (0-23) and a day of week (0=Sunday) to a
// demand factor in [0,1]. This is a fixed lookup, not a learned model; the
// thresholds are load-bearing for score compatibility across clients.
func PredictDemand(hour, weekday int) float64 {
	isWeekend := weekday == 0 || weekday == 6

	if !isWeekend {
		switch hour {
		case 8, 9, 10, 12, 13, 14, 17, 18, 19:
			return 0.9 // commute and lunch peaks
		}
		return 0.5
	}

	if hour >= 10 && hour <= 20 {
		return 0.7
	}
	return 0.3
}

// DemandAt evaluates PredictDemand for a concrete timestamp.
func DemandAt(t time.Time) float64 {
	return PredictDemand(t.Hour(), int(t.Weekday()))
}

// DemandLevel buckets a demand factor for display.
func DemandLevel(factor float64) string {
	switch {
	case factor > 0.7:
		return DemandHigh
	case factor > 0.4:
		return DemandMedium
	default:
		return DemandLow
	}
}

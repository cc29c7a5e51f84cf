package engine

import (
	"math"
	"time"
)

// Weights over the five normalized sub-scores. They sum to 1.0; the demand
// adjustment is added on top and can push the total past 100.
const (
	weightDistance     = 0.35
	weightAvailability = 0.25
	weightPrice        = 0.15
	weightRating       = 0.15
	weightHistorical   = 0.10
)

// Normalization ceilings: distances at or beyond 10 km and prices at or
// beyond 500 score zero.
const (
	maxScoredDistanceKm = 10.0
	maxScoredPrice      = 500.0
)

// neutralHistoricalScore is used when no aggregate exists for a space.
const neutralHistoricalScore = 50.0

// scoreSpace computes the weighted score, breakdown, confidence and demand
// level for one candidate. The distance must already be resolved on the
// space; at is the evaluation time (never read from the wall clock here).
func scoreSpace(space Space, agg *Aggregate, at time.Time) ScoredSpace {
	distance := space.DistanceKm
	if math.IsNaN(distance) || math.IsInf(distance, 0) || distance < 0 {
		// Unknown distance is the worst case, not an error.
		distance = maxScoredDistanceKm
	}

	distanceScore := math.Max(0, (1-distance/maxScoredDistanceKm)*100)

	totalSpots := space.TotalSpots
	if totalSpots < 1 {
		totalSpots = 1
	}
	availabilityRatio := float64(space.AvailableSpots) / float64(totalSpots)
	availabilityScore := availabilityRatio * 100

	priceScore := math.Max(0, (1-space.PricePerHour/maxScoredPrice)*100)
	ratingScore := space.Rating / 5 * 100

	historicalScore := neutralHistoricalScore
	if agg != nil {
		historicalScore = math.Min(100, (float64(agg.Bookings)*10+agg.SuccessRate*100)/2)
	}

	demand := PredictDemand(at.Hour(), int(at.Weekday()))
	demandAdjustment := (1 - demand) * 20

	total := distanceScore*weightDistance +
		availabilityScore*weightAvailability +
		priceScore*weightPrice +
		ratingScore*weightRating +
		historicalScore*weightHistorical +
		demandAdjustment

	scored := ScoredSpace{
		Space:      space,
		TotalScore: int(math.Round(total)),
		Breakdown: Breakdown{
			Distance:         distanceScore,
			Availability:     availabilityScore,
			Price:            priceScore,
			Rating:           ratingScore,
			Historical:       historicalScore,
			DemandAdjustment: demandAdjustment,
		},
		Confidence:  confidence(distance, availabilityRatio, space.Rating, space.ReviewCount),
		DemandLevel: DemandLevel(demand),
	}
	scored.Space.DistanceKm = distance
	return scored
}

// confidence is a heuristic certainty estimate in [0.5, 1.0], not a
// statistical calibration.
func confidence(distance, availabilityRatio, rating float64, reviewCount int) float64 {
	c := 0.5

	switch {
	case distance < 1:
		c += 0.2
	case distance < 3:
		c += 0.1
	}

	switch {
	case availabilityRatio > 0.5:
		c += 0.15
	case availabilityRatio > 0.3:
		c += 0.10
	}

	switch {
	case rating >= 4.5:
		c += 0.10
	case rating >= 4.0:
		c += 0.05
	}

	if reviewCount > 50 {
		c += 0.05
	}

	return math.Min(1.0, c)
}

// recommendationLabel maps a (score, confidence) pair to the human-readable
// tier shown to the user.
func recommendationLabel(score int, conf float64) string {
	switch {
	case score >= 85 && conf >= 0.8:
		return LabelBestChoice
	case score >= 75 && conf >= 0.7:
		return LabelExcellentOption
	case score >= 65:
		return LabelGreatChoice
	case score >= 55:
		return LabelGoodOption
	default:
		return LabelAvailable
	}
}

package engine

import (
	"context"
	"log"
	"math"
)

// Profile is a user's derived preference profile. Computed on demand from
// the user's own transaction history; never persisted.
type Profile struct {
	AveragePrice   float64        `json:"averagePrice"`
	PricedRecords  int            `json:"pricedRecords"`
	SpaceFrequency map[string]int `json:"spaceFrequency"`
	StartHours     []int          `json:"startHours"`
}

// priceAffinityBand is the price window around the user's historical average
// that earns the flat affinity boost.
const (
	boostPerUse        = 10.0
	priceAffinityBand  = 50.0
	priceAffinityBoost = 15.0
)

// PersonalizedRecommend annotates each candidate with a per-user boost
// derived from the user's booking history, then runs the standard pipeline.
// The boost is carried on the result but deliberately not folded into the
// weighted score; downstream ranking experiments read it. Any history
// failure falls back silently to the non-personalized path.
func (e *Engine) PersonalizedRecommend(ctx context.Context, userID string, spaces []Space, loc *Location) []ScoredSpace {
	profile, err := e.UserProfile(ctx, userID)
	if err != nil {
		log.Printf("personalize: falling back for user %s: %v", userID, err)
		return e.Recommend(ctx, spaces, loc, userID, Options{})
	}

	boosted := make([]Space, len(spaces))
	for i, space := range spaces {
		space.PersonalizedBoost = personalizedBoost(space, profile)
		boosted[i] = space
	}
	return e.Recommend(ctx, boosted, loc, userID, Options{})
}

// UserProfile derives a preference profile from the user's most recent
// transactions, capped at the configured personal history limit.
func (e *Engine) UserProfile(ctx context.Context, userID string) (*Profile, error) {
	if e.history == nil {
		return &Profile{SpaceFrequency: map[string]int{}}, nil
	}

	// Unlike aggregation this is not window-bounded: the profile reads the
	// user's most recent transactions regardless of age.
	records, err := e.history.FetchHistory(ctx, HistoryFilter{
		UserID: userID,
		Limit:  e.cfg.PersonalHistoryLimit,
	})
	if err != nil {
		return nil, err
	}

	profile := &Profile{SpaceFrequency: make(map[string]int)}
	var priceTotal float64
	var priced int
	for _, r := range records {
		profile.SpaceFrequency[r.SpaceID]++
		if r.TotalPrice != nil {
			priceTotal += *r.TotalPrice
			priced++
		}
		if r.StartTime != nil {
			profile.StartHours = append(profile.StartHours, r.StartTime.Hour())
		}
	}
	profile.PricedRecords = priced
	if priced > 0 {
		profile.AveragePrice = priceTotal / float64(priced)
	}
	return profile, nil
}

func personalizedBoost(space Space, profile *Profile) float64 {
	boost := float64(profile.SpaceFrequency[space.ID]) * boostPerUse
	// The affinity check needs at least one priced record; a zero average from
	// an unpriced history would otherwise match every cheap space.
	if profile.PricedRecords > 0 && math.Abs(space.PricePerHour-profile.AveragePrice) < priceAffinityBand {
		boost += priceAffinityBoost
	}
	return boost
}

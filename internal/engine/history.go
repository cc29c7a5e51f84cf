package engine

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Analyzer rolls past transactions up into per-space aggregates over a
// trailing window. The underlying fetch is the only network-bound step in
// the recommendation path, so results are cached per (user, time bucket).
type Analyzer struct {
	history     HistoryProvider
	window      time.Duration
	limit       int
	cache       *gocache.Cache
	cacheBucket time.Duration
}

// NewAnalyzer creates an analyzer over the given history feed. windowDays
// and limit bound the fetch; cacheTTL <= 0 disables caching.
func NewAnalyzer(history HistoryProvider, windowDays, limit int, cacheTTL time.Duration) *Analyzer {
	a := &Analyzer{
		history: history,
		window:  time.Duration(windowDays) * 24 * time.Hour,
		limit:   limit,
	}
	if cacheTTL > 0 {
		a.cache = gocache.New(cacheTTL, 2*cacheTTL)
		a.cacheBucket = cacheTTL
	}
	return a
}

// Aggregate fetches the trailing window of transactions (optionally scoped
// to one user) and rolls them up per space. The fetch error is returned
// as-is so callers can distinguish "no history" from "history unavailable";
// the orchestrator maps failures to an empty mapping.
func (a *Analyzer) Aggregate(ctx context.Context, userID string) (map[string]*Aggregate, error) {
	if a == nil || a.history == nil {
		return map[string]*Aggregate{}, nil
	}

	now := time.Now()
	var key string
	if a.cache != nil {
		key = fmt.Sprintf("agg:%s:%d", userID, now.Truncate(a.cacheBucket).Unix())
		if v, ok := a.cache.Get(key); ok {
			return v.(map[string]*Aggregate), nil
		}
	}

	records, err := a.history.FetchHistory(ctx, HistoryFilter{
		UserID: userID,
		Since:  now.Add(-a.window),
		Limit:  a.limit,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}

	aggs := rollup(records)
	if a.cache != nil {
		a.cache.Set(key, aggs, gocache.DefaultExpiration)
	}
	return aggs, nil
}

func rollup(records []HistoryRecord) map[string]*Aggregate {
	aggs := make(map[string]*Aggregate)
	for _, r := range records {
		agg, ok := aggs[r.SpaceID]
		if !ok {
			agg = &Aggregate{PeakHours: make(map[int]int)}
			aggs[r.SpaceID] = agg
		}

		agg.Bookings++
		if r.Status == StatusCompleted {
			agg.SuccessfulBookings++
		}
		if r.TotalPrice != nil {
			agg.TotalRevenue += *r.TotalPrice
		}
		if r.StartTime != nil {
			agg.PeakHours[r.StartTime.Hour()]++
		}
	}

	for _, agg := range aggs {
		agg.SuccessRate = float64(agg.SuccessfulBookings) / float64(agg.Bookings)
		agg.AverageRevenue = agg.TotalRevenue / float64(agg.Bookings)
	}
	return aggs
}

package engine

import (
	"context"
	"log"
	"sort"
	"time"
)

// Config tunes an Engine. Zero values pick the defaults below.
type Config struct {
	HistoryWindowDays    int           // trailing aggregation window
	HistoryLimit         int           // global fetch cap
	PersonalHistoryLimit int           // per-user fetch cap for personalization
	AggregateCacheTTL    time.Duration // 0 disables the aggregate cache
	DefaultMaxResults    int
	DefaultMinScore      float64
}

// Defaults applied by New for unset Config fields.
const (
	DefaultHistoryWindowDays    = 30
	DefaultHistoryLimit         = 1000
	DefaultPersonalHistoryLimit = 50
	DefaultMaxResults           = 3
	DefaultMinScore             = 50
)

// Engine is the recommendation orchestrator. It is stateless across calls
// apart from the read-only aggregate cache, so a single instance is safe for
// concurrent use.
type Engine struct {
	analyzer *Analyzer
	history  HistoryProvider
	cfg      Config
}

// New creates an Engine over the given history feed. history may be nil, in
// which case all historical and personalized paths degrade to neutral.
func New(history HistoryProvider, cfg Config) *Engine {
	if cfg.HistoryWindowDays <= 0 {
		cfg.HistoryWindowDays = DefaultHistoryWindowDays
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = DefaultHistoryLimit
	}
	if cfg.PersonalHistoryLimit <= 0 {
		cfg.PersonalHistoryLimit = DefaultPersonalHistoryLimit
	}
	if cfg.DefaultMaxResults <= 0 {
		cfg.DefaultMaxResults = DefaultMaxResults
	}
	if cfg.DefaultMinScore <= 0 {
		cfg.DefaultMinScore = DefaultMinScore
	}

	return &Engine{
		analyzer: NewAnalyzer(history, cfg.HistoryWindowDays, cfg.HistoryLimit, cfg.AggregateCacheTTL),
		history:  history,
		cfg:      cfg,
	}
}

// Recommend filters, scores, sorts and truncates the candidate spaces. It
// never fails: a history fetch error degrades to neutral historical scores
// and is only logged. userID scopes the optional historical aggregation; it
// does not personalize (see PersonalizedRecommend).
func (e *Engine) Recommend(ctx context.Context, spaces []Space, loc *Location, userID string, opts Options) []ScoredSpace {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = e.cfg.DefaultMaxResults
	}
	minScore := opts.MinScore
	if minScore == 0 {
		minScore = e.cfg.DefaultMinScore
	} else if minScore < 0 {
		minScore = 0 // explicit "no floor"
	}
	at := opts.At
	if at.IsZero() {
		at = time.Now()
	}

	var aggs map[string]*Aggregate
	if opts.IncludeHistorical == nil || *opts.IncludeHistorical {
		var err error
		aggs, err = e.analyzer.Aggregate(ctx, userID)
		if err != nil {
			// Historical scoring is a soft enhancement; proceed neutral.
			log.Printf("recommend: historical aggregation unavailable: %v", err)
			aggs = map[string]*Aggregate{}
		}
	}

	scored := make([]ScoredSpace, 0, len(spaces))
	for _, space := range spaces {
		if !space.Bookable() {
			continue
		}

		if space.DistanceKm == 0 && loc != nil {
			space.DistanceKm = DistanceKm(loc.Latitude, loc.Longitude, space.Latitude, space.Longitude)
		}

		s := scoreSpace(space, aggs[space.ID], at)
		s.Recommendation = recommendationLabel(s.TotalScore, s.Confidence)
		if float64(s.TotalScore) < minScore {
			continue
		}
		scored = append(scored, s)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].TotalScore > scored[j].TotalScore
	})

	if len(scored) > maxResults {
		scored = scored[:maxResults]
	}
	return scored
}

// RecommendedSpaces is the simple ranking path: filter bookable spaces by
// distance and price caps, then sort by a single explicit key. No weighted
// scoring, no truncation.
func RecommendedSpaces(spaces []Space, loc *Location, prefs Preferences) []Space {
	out := make([]Space, 0, len(spaces))
	for _, space := range spaces {
		if !space.Bookable() {
			continue
		}
		if loc != nil {
			space.DistanceKm = DistanceKm(loc.Latitude, loc.Longitude, space.Latitude, space.Longitude)
		} else {
			space.DistanceKm = 0
		}
		if prefs.MaxDistanceKm > 0 && space.DistanceKm > prefs.MaxDistanceKm {
			continue
		}
		if prefs.MaxPricePerHour > 0 && space.PricePerHour > prefs.MaxPricePerHour {
			continue
		}
		out = append(out, space)
	}

	sort.SliceStable(out, func(i, j int) bool {
		switch prefs.SortBy {
		case SortByPrice:
			return out[i].PricePerHour < out[j].PricePerHour
		case SortByRating:
			return out[i].Rating > out[j].Rating
		default:
			return out[i].DistanceKm < out[j].DistanceKm
		}
	})
	return out
}

// NearestSpace returns the bookable space closest to loc, or nil when there
// is none.
func NearestSpace(spaces []Space, loc *Location) *Space {
	var nearest *Space
	for i := range spaces {
		space := spaces[i]
		if !space.Bookable() {
			continue
		}
		if loc != nil {
			space.DistanceKm = DistanceKm(loc.Latitude, loc.Longitude, space.Latitude, space.Longitude)
		}
		if nearest == nil || space.DistanceKm < nearest.DistanceKm {
			nearest = &space
		}
	}
	return nearest
}

package engine

import (
	"context"
	"time"
)

// Space is a point-in-time snapshot of a parking space as handed to the
// engine by the store. The engine never mutates a Space; scoring results are
// returned as ScoredSpace copies.
type Space struct {
	ID             string  `json:"id"`
	Name           string  `json:"name,omitempty"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	PricePerHour   float64 `json:"pricePerHour"`
	TotalSpots     int     `json:"totalSpots"`
	AvailableSpots int     `json:"availableSpots"`
	Status         string  `json:"status"`
	Rating         float64 `json:"rating"`
	ReviewCount    int     `json:"reviewCount"`

	// DistanceKm is filled in by the engine relative to the query location.
	DistanceKm float64 `json:"distanceKm"`

	// PersonalizedBoost is annotated by the personalization pass. It is not
	// folded into the weighted score; see Engine.PersonalizedRecommend.
	PersonalizedBoost float64 `json:"personalizedBoost,omitempty"`
}

// Bookable reports whether the space can currently accept a booking.
func (s *Space) Bookable() bool {
	return s.Status == StatusAvailable && s.AvailableSpots > 0
}

const (
	// StatusAvailable is the only space status the recommender considers
	// bookable.
	StatusAvailable = "available"

	// StatusCompleted is the terminal transaction status counted as a
	// successful booking.
	StatusCompleted = "completed"
)

// Location is a user position in decimal degrees. A nil *Location degrades to
// "distance unknown" (treated as zero), never an error.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Breakdown holds the named sub-scores behind a recommendation. All values
// are on a 0-100 scale except DemandAdjustment, which is a signed boost added
// on top of the weighted sum.
type Breakdown struct {
	Distance         float64 `json:"distance"`
	Availability     float64 `json:"availability"`
	Price            float64 `json:"price"`
	Rating           float64 `json:"rating"`
	Historical       float64 `json:"historical"`
	DemandAdjustment float64 `json:"demandAdjustment"`
}

// ScoredSpace is a Space annotated with the engine's verdict.
type ScoredSpace struct {
	Space
	TotalScore     int       `json:"aiScore"`
	Breakdown      Breakdown `json:"scoreBreakdown"`
	Confidence     float64   `json:"confidence"`
	DemandLevel    string    `json:"demandLevel"`
	Recommendation string    `json:"recommendation"`
}

// Demand levels.
const (
	DemandLow    = "low"
	DemandMedium = "medium"
	DemandHigh   = "high"
)

// Recommendation labels, best first.
const (
	LabelBestChoice      = "Best Choice"
	LabelExcellentOption = "Excellent Option"
	LabelGreatChoice     = "Great Choice"
	LabelGoodOption      = "Good Option"
	LabelAvailable       = "Available"
)

// Aggregate is a per-space rollup of past transactions over the trailing
// history window.
type Aggregate struct {
	Bookings           int         `json:"bookings"`
	SuccessfulBookings int         `json:"successfulBookings"`
	SuccessRate        float64     `json:"successRate"`
	TotalRevenue       float64     `json:"totalRevenue"`
	AverageRevenue     float64     `json:"averageRevenue"`
	PeakHours          map[int]int `json:"peakHours"`
}

// HistoryRecord is the slice of a transaction the analyzer needs.
type HistoryRecord struct {
	SpaceID    string
	UserID     string
	Status     string
	TotalPrice *float64
	StartTime  *time.Time
}

// HistoryFilter selects transaction records from the history feed.
type HistoryFilter struct {
	UserID string    // empty = all users
	Since  time.Time // inclusive lower bound on record creation
	Limit  int       // most-recent-first cap
}

// HistoryProvider is the transaction-history read feed. The store implements
// it; tests substitute fakes.
type HistoryProvider interface {
	FetchHistory(ctx context.Context, f HistoryFilter) ([]HistoryRecord, error)
}

// Options tunes a single Recommend call. Zero values fall back to the
// engine's configured defaults.
type Options struct {
	MaxResults        int
	MinScore          float64
	IncludeHistorical *bool // nil = true
	// At is the evaluation time for demand prediction. Zero means time.Now(),
	// resolved once at the orchestrator boundary.
	At time.Time
}

// Preferences drives the simple (non-weighted) recommendation path.
type Preferences struct {
	MaxDistanceKm   float64 // 0 = no distance cap
	MaxPricePerHour float64 // 0 = no price cap
	SortBy          string  // "distance" (default), "price" or "rating"
}

// Sort keys for Preferences.SortBy.
const (
	SortByDistance = "distance"
	SortByPrice    = "price"
	SortByRating   = "rating"
)

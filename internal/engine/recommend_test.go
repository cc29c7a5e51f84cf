package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSpaces() []Space {
	return []Space{
		{
			ID: "near", Status: StatusAvailable,
			Latitude: 39.9042, Longitude: 116.4074,
			TotalSpots: 10, AvailableSpots: 5,
			PricePerHour: 50, Rating: 4.8, ReviewCount: 120,
		},
		{
			ID: "far", Status: StatusAvailable,
			Latitude: 39.976, Longitude: 116.41,
			TotalSpots: 20, AvailableSpots: 1,
			PricePerHour: 450, Rating: 3.0, ReviewCount: 8,
		},
		{
			ID: "full", Status: "occupied",
			Latitude: 39.9043, Longitude: 116.4075,
			TotalSpots: 10, AvailableSpots: 0,
			PricePerHour: 10, Rating: 5,
		},
		{
			ID: "ghost", Status: StatusAvailable,
			Latitude: 39.9043, Longitude: 116.4075,
			TotalSpots: 10, AvailableSpots: 0, // claims available but has no spots
			PricePerHour: 10, Rating: 5,
		},
	}
}

func userLoc() *Location {
	return &Location{Latitude: 39.9042, Longitude: 116.4074}
}

func TestRecommend_FiltersUnbookableSpaces(t *testing.T) {
	e := New(nil, Config{})
	got := e.Recommend(context.Background(), testSpaces(), userLoc(), "", Options{
		MinScore: -1, At: weekdayOffPeak,
	})

	ids := make([]string, 0, len(got))
	for _, s := range got {
		assert.Equal(t, StatusAvailable, s.Status)
		assert.Greater(t, s.AvailableSpots, 0)
		ids = append(ids, s.ID)
	}
	assert.NotContains(t, ids, "full")
	assert.NotContains(t, ids, "ghost")
}

func TestRecommend_RanksNearCheapHighlyRatedFirst(t *testing.T) {
	e := New(nil, Config{})
	got := e.Recommend(context.Background(), testSpaces(), userLoc(), "", Options{
		MinScore: -1, At: weekdayOffPeak,
	})

	require.Len(t, got, 2)
	assert.Equal(t, "near", got[0].ID)
	assert.Equal(t, "far", got[1].ID)
	assert.Greater(t, got[0].TotalScore, got[1].TotalScore)
}

func TestRecommend_SortedDescendingAndTruncated(t *testing.T) {
	spaces := make([]Space, 0, 8)
	for i := 0; i < 8; i++ {
		spaces = append(spaces, Space{
			ID:             string(rune('a' + i)),
			Status:         StatusAvailable,
			TotalSpots:     10,
			AvailableSpots: i + 1,
			Rating:         float64(i) / 2,
			PricePerHour:   float64(100 - i*10),
		})
	}

	e := New(nil, Config{})
	got := e.Recommend(context.Background(), spaces, nil, "", Options{
		MaxResults: 5, MinScore: -1, At: weekdayOffPeak,
	})

	assert.LessOrEqual(t, len(got), 5)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].TotalScore, got[i].TotalScore)
	}
}

func TestRecommend_MinScoreFloor(t *testing.T) {
	e := New(nil, Config{})
	got := e.Recommend(context.Background(), testSpaces(), userLoc(), "", Options{
		MinScore: 50, At: weekdayOffPeak,
	})

	for _, s := range got {
		assert.GreaterOrEqual(t, s.TotalScore, 50)
	}
	// "far" scores well under 50 at an off-peak weekday hour.
	for _, s := range got {
		assert.NotEqual(t, "far", s.ID)
	}
}

func TestRecommend_DefaultsApplied(t *testing.T) {
	spaces := make([]Space, 0, 6)
	for i := 0; i < 6; i++ {
		spaces = append(spaces, Space{
			ID: string(rune('a' + i)), Status: StatusAvailable,
			TotalSpots: 10, AvailableSpots: 10, Rating: 5,
		})
	}

	e := New(nil, Config{})
	got := e.Recommend(context.Background(), spaces, nil, "", Options{At: weekdayOffPeak})

	// Default max results is 3.
	assert.Len(t, got, 3)
}

func TestRecommend_HistoryFailureDegradesToNeutral(t *testing.T) {
	history := &fakeHistory{err: errors.New("store offline")}
	e := New(history, Config{})

	got := e.Recommend(context.Background(), testSpaces(), userLoc(), "", Options{
		MinScore: -1, At: weekdayOffPeak,
	})

	require.NotEmpty(t, got)
	for _, s := range got {
		assert.Equal(t, 50.0, s.Breakdown.Historical)
	}
}

func TestRecommend_HistoryShiftsScore(t *testing.T) {
	history := &fakeHistory{records: []HistoryRecord{
		{SpaceID: "near", Status: StatusCompleted},
		{SpaceID: "near", Status: StatusCompleted},
	}}
	e := New(history, Config{})

	got := e.Recommend(context.Background(), testSpaces(), userLoc(), "", Options{
		MinScore: -1, At: weekdayOffPeak,
	})

	require.NotEmpty(t, got)
	assert.Equal(t, "near", got[0].ID)
	// bookings=2, successRate=1 -> (20+100)/2 = 60.
	assert.Equal(t, 60.0, got[0].Breakdown.Historical)
}

func TestRecommend_IncludeHistoricalOff(t *testing.T) {
	history := &fakeHistory{records: []HistoryRecord{
		{SpaceID: "near", Status: StatusCompleted},
	}}
	e := New(history, Config{})

	off := false
	got := e.Recommend(context.Background(), testSpaces(), userLoc(), "", Options{
		MinScore: -1, At: weekdayOffPeak, IncludeHistorical: &off,
	})

	assert.Zero(t, history.calls)
	require.NotEmpty(t, got)
	assert.Equal(t, 50.0, got[0].Breakdown.Historical)
}

func TestRecommend_Idempotent(t *testing.T) {
	e := New(nil, Config{})
	opts := Options{MinScore: -1, At: weekdayOffPeak}

	first := e.Recommend(context.Background(), testSpaces(), userLoc(), "", opts)
	second := e.Recommend(context.Background(), testSpaces(), userLoc(), "", opts)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.Equal(t, first[i].TotalScore, second[i].TotalScore)
	}
}

func TestRecommend_NilLocationDegrades(t *testing.T) {
	e := New(nil, Config{})
	got := e.Recommend(context.Background(), testSpaces(), nil, "", Options{
		MinScore: -1, At: weekdayOffPeak,
	})

	require.NotEmpty(t, got)
	for _, s := range got {
		assert.Zero(t, s.DistanceKm)
		assert.Equal(t, 100.0, s.Breakdown.Distance)
	}
}

func TestRecommend_LabelsAttached(t *testing.T) {
	e := New(nil, Config{})
	got := e.Recommend(context.Background(), testSpaces(), userLoc(), "", Options{
		MinScore: -1, At: weekdayOffPeak,
	})

	require.NotEmpty(t, got)
	for _, s := range got {
		assert.NotEmpty(t, s.Recommendation)
	}
	// The near space scores 90 with confidence 0.95 at the fixed hour.
	assert.Equal(t, LabelBestChoice, got[0].Recommendation)
}

func TestRecommendedSpaces_SimplePath(t *testing.T) {
	spaces := testSpaces()

	t.Run("sorts by distance by default", func(t *testing.T) {
		got := RecommendedSpaces(spaces, userLoc(), Preferences{})
		require.Len(t, got, 2)
		assert.Equal(t, "near", got[0].ID)
		assert.LessOrEqual(t, got[0].DistanceKm, got[1].DistanceKm)
	})

	t.Run("sorts by price", func(t *testing.T) {
		got := RecommendedSpaces(spaces, userLoc(), Preferences{SortBy: SortByPrice})
		require.Len(t, got, 2)
		assert.Equal(t, "near", got[0].ID)
	})

	t.Run("sorts by rating", func(t *testing.T) {
		got := RecommendedSpaces(spaces, userLoc(), Preferences{SortBy: SortByRating})
		require.Len(t, got, 2)
		assert.GreaterOrEqual(t, got[0].Rating, got[1].Rating)
	})

	t.Run("applies distance cap", func(t *testing.T) {
		got := RecommendedSpaces(spaces, userLoc(), Preferences{MaxDistanceKm: 2})
		require.Len(t, got, 1)
		assert.Equal(t, "near", got[0].ID)
	})

	t.Run("applies price cap", func(t *testing.T) {
		got := RecommendedSpaces(spaces, userLoc(), Preferences{MaxPricePerHour: 100})
		require.Len(t, got, 1)
		assert.Equal(t, "near", got[0].ID)
	})

	t.Run("does not truncate", func(t *testing.T) {
		many := make([]Space, 10)
		for i := range many {
			many[i] = Space{ID: string(rune('a' + i)), Status: StatusAvailable, TotalSpots: 1, AvailableSpots: 1}
		}
		got := RecommendedSpaces(many, nil, Preferences{})
		assert.Len(t, got, 10)
	})
}

func TestNearestSpace(t *testing.T) {
	got := NearestSpace(testSpaces(), userLoc())
	require.NotNil(t, got)
	assert.Equal(t, "near", got.ID)

	t.Run("nil when nothing is bookable", func(t *testing.T) {
		assert.Nil(t, NearestSpace([]Space{{ID: "x", Status: "occupied"}}, userLoc()))
		assert.Nil(t, NearestSpace(nil, userLoc()))
	})
}

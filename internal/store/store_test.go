package store

import (
	"context"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"parking-marketplace-backend/internal/engine"
)

// A helper function to create a mock database connection.
func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

// Any is a helper for sqlmock to match any argument.
type Any struct{}

// Match satisfies the sqlmock.Argument interface
func (a Any) Match(v driver.Value) bool {
	return true
}

func TestGormStore_CandidateSpaces(t *testing.T) {
	gormDB, mock := newTestDB(t)
	s := NewGormStore(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "parking_spaces"`)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "latitude", "longitude", "price_per_hour",
			"total_spots", "available_spots", "status", "rating", "review_count",
		}).
			AddRow("sp-1", "North Lot", 39.9, 116.4, 25.0, 40, 12, "available", 4.6, 88).
			AddRow("sp-2", "South Lot", 39.8, 116.3, 15.0, 20, 0, "full", 3.9, 14))

	spaces, err := s.CandidateSpaces(context.Background())
	require.NoError(t, err)
	require.Len(t, spaces, 2)

	assert.Equal(t, engine.Space{
		ID: "sp-1", Name: "North Lot",
		Latitude: 39.9, Longitude: 116.4,
		PricePerHour: 25.0, TotalSpots: 40, AvailableSpots: 12,
		Status: "available", Rating: 4.6, ReviewCount: 88,
	}, spaces[0])
	assert.Equal(t, "full", spaces[1].Status)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_FetchHistory(t *testing.T) {
	gormDB, mock := newTestDB(t)
	s := NewGormStore(gormDB)

	start := time.Date(2025, 3, 5, 9, 0, 0, 0, time.UTC)
	price := 42.5

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "transactions"`)).
		WithArgs("u1", Any{}, Any{}).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "parking_space_id", "user_id", "status", "total_price", "start_time", "created_at",
		}).
			AddRow("tx-1", "sp-1", "u1", "completed", price, start, start).
			AddRow("tx-2", "sp-2", "u1", "cancelled", nil, nil, start))

	records, err := s.FetchHistory(context.Background(), engine.HistoryFilter{
		UserID: "u1",
		Since:  start.Add(-30 * 24 * time.Hour),
		Limit:  50,
	})
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "sp-1", records[0].SpaceID)
	assert.Equal(t, "completed", records[0].Status)
	require.NotNil(t, records[0].TotalPrice)
	assert.Equal(t, price, *records[0].TotalPrice)
	require.NotNil(t, records[0].StartTime)

	assert.Nil(t, records[1].TotalPrice)
	assert.Nil(t, records[1].StartTime)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_FetchHistoryError(t *testing.T) {
	gormDB, mock := newTestDB(t)
	s := NewGormStore(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "transactions"`)).
		WillReturnError(assert.AnError)

	_, err := s.FetchHistory(context.Background(), engine.HistoryFilter{Limit: 10})
	assert.Error(t, err)
}

func TestSpaceDoc_Normalize(t *testing.T) {
	f := func(v float64) *float64 { return &v }
	n := func(v int) *int { return &v }

	testCases := []struct {
		name     string
		doc      SpaceDoc
		expected NormalizedSpace
		ok       bool
	}{
		{
			name: "canonical field names",
			doc: SpaceDoc{
				ID: "sp-1", Name: "North Lot",
				Latitude: f(39.9), Longitude: f(116.4),
				PricePerHour: f(25), TotalSpots: n(40), AvailableSpots: n(12),
				Status: "available", Rating: f(4.6), ReviewCount: n(88),
			},
			expected: NormalizedSpace{
				ID: "sp-1", Name: "North Lot",
				Latitude: 39.9, Longitude: 116.4,
				PricePerHour: 25, TotalSpots: 40, AvailableSpots: 12,
				Status: "available", Rating: 4.6, ReviewCount: 88,
			},
			ok: true,
		},
		{
			name: "legacy aliases",
			doc: SpaceDoc{
				ID:  "sp-2",
				Lat: f(31.2), Lng: f(121.5),
				Price: f(30), Total: n(10), Available: n(4),
				Status: " Available ",
			},
			expected: NormalizedSpace{
				ID:       "sp-2",
				Latitude: 31.2, Longitude: 121.5,
				PricePerHour: 30, TotalSpots: 10, AvailableSpots: 4,
				Status: "available",
			},
			ok: true,
		},
		{
			name: "canonical name wins over alias",
			doc: SpaceDoc{
				ID:        "sp-3",
				Available: n(3), AvailableSpots: n(7),
				TotalSpots: n(10),
			},
			expected: NormalizedSpace{ID: "sp-3", TotalSpots: 10, AvailableSpots: 7},
			ok:       true,
		},
		{
			name:     "missing fields default to zero",
			doc:      SpaceDoc{ID: "sp-4"},
			expected: NormalizedSpace{ID: "sp-4"},
			ok:       true,
		},
		{
			name: "available clamped to total",
			doc: SpaceDoc{
				ID:         "sp-5",
				TotalSpots: n(5), AvailableSpots: n(9),
			},
			expected: NormalizedSpace{ID: "sp-5", TotalSpots: 5, AvailableSpots: 5},
			ok:       true,
		},
		{
			name: "negative counts clamped to zero",
			doc: SpaceDoc{
				ID:         "sp-6",
				TotalSpots: n(-1), AvailableSpots: n(-3), Rating: f(-2),
			},
			expected: NormalizedSpace{ID: "sp-6"},
			ok:       true,
		},
		{
			name: "missing id rejected",
			doc:  SpaceDoc{Status: "available"},
			ok:   false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := tc.doc.Normalize()
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.expected, got)
			}
		})
	}
}

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"parking-marketplace-backend/internal/engine"
	"parking-marketplace-backend/internal/model"
)

// Store defines the read and ingest operations backing the recommendation
// service. CandidateSpaces and FetchHistory are the two feeds the engine
// consumes; the upsert methods are the ingestion boundary for upstream
// documents.
type Store interface {
	DB() *gorm.DB
	CandidateSpaces(ctx context.Context) ([]engine.Space, error)
	FetchHistory(ctx context.Context, f engine.HistoryFilter) ([]engine.HistoryRecord, error)
	UpsertSpaces(ctx context.Context, docs []SpaceDoc) (int, error)
	RecordBookings(ctx context.Context, docs []BookingDoc) (int, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// DB exposes the underlying connection for handlers that query directly.
func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// CandidateSpaces returns a snapshot of every space in the catalog. The
// engine does its own bookability filtering, so no status filter here.
func (s *gormStore) CandidateSpaces(ctx context.Context) ([]engine.Space, error) {
	var rows []model.ParkingSpace
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch candidate spaces: %w", err)
	}

	spaces := make([]engine.Space, len(rows))
	for i, r := range rows {
		spaces[i] = engine.Space{
			ID:             r.ID,
			Name:           r.Name,
			Latitude:       r.Latitude,
			Longitude:      r.Longitude,
			PricePerHour:   r.PricePerHour,
			TotalSpots:     r.TotalSpots,
			AvailableSpots: r.AvailableSpots,
			Status:         r.Status,
			Rating:         r.Rating,
			ReviewCount:    r.ReviewCount,
		}
	}
	return spaces, nil
}

// FetchHistory implements engine.HistoryProvider: most-recent-first
// transactions, optionally user-scoped, bounded by Since and Limit.
func (s *gormStore) FetchHistory(ctx context.Context, f engine.HistoryFilter) ([]engine.HistoryRecord, error) {
	q := s.db.WithContext(ctx).Model(&model.Transaction{}).Order("created_at DESC")
	if f.UserID != "" {
		q = q.Where("user_id = ?", f.UserID)
	}
	if !f.Since.IsZero() {
		q = q.Where("created_at >= ?", f.Since)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var rows []model.Transaction
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch transaction history: %w", err)
	}

	records := make([]engine.HistoryRecord, len(rows))
	for i, r := range rows {
		records[i] = engine.HistoryRecord{
			SpaceID:    r.ParkingSpaceID,
			UserID:     r.UserID,
			Status:     r.Status,
			TotalPrice: r.TotalPrice,
			StartTime:  r.StartTime,
		}
	}
	return records, nil
}

// UpsertSpaces normalizes the incoming documents and writes them in one
// transaction. Documents without an identifier are skipped, not fatal.
// Returns the number of rows written.
func (s *gormStore) UpsertSpaces(ctx context.Context, docs []SpaceDoc) (int, error) {
	spaces := make([]model.ParkingSpace, 0, len(docs))
	for i := range docs {
		n, ok := docs[i].Normalize()
		if !ok {
			continue
		}
		spaces = append(spaces, model.ParkingSpace{
			ID:             n.ID,
			Name:           n.Name,
			Latitude:       n.Latitude,
			Longitude:      n.Longitude,
			PricePerHour:   n.PricePerHour,
			TotalSpots:     n.TotalSpots,
			AvailableSpots: n.AvailableSpots,
			Status:         n.Status,
			Rating:         n.Rating,
			ReviewCount:    n.ReviewCount,
		})
	}
	if len(spaces) == 0 {
		return 0, nil
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "latitude", "longitude", "price_per_hour",
				"total_spots", "available_spots", "status", "rating",
				"review_count", "updated_at",
			}),
		}).Create(&spaces).Error
	})
	if err != nil {
		return 0, fmt.Errorf("batch upsert spaces failed: %w", err)
	}
	return len(spaces), nil
}

// RecordBookings persists booking documents from the upstream feed. Missing
// IDs are generated so replayed feeds without identifiers still insert;
// documents that do carry an ID upsert idempotently.
func (s *gormStore) RecordBookings(ctx context.Context, docs []BookingDoc) (int, error) {
	txs := make([]model.Transaction, 0, len(docs))
	for _, d := range docs {
		if d.ParkingSpaceID == "" {
			continue
		}
		id := d.ID
		if id == "" {
			id = uuid.NewString()
		}
		createdAt := time.Now().UTC()
		if d.CreatedAt != nil {
			createdAt = *d.CreatedAt
		}
		txs = append(txs, model.Transaction{
			ID:             id,
			ParkingSpaceID: d.ParkingSpaceID,
			UserID:         d.UserID,
			Status:         d.Status,
			TotalPrice:     d.TotalPrice,
			StartTime:      d.StartTime,
			EndTime:        d.EndTime,
			CreatedAt:      createdAt,
		})
	}
	if len(txs) == 0 {
		return 0, nil
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"status", "total_price", "start_time", "end_time",
			}),
		}).Create(&txs).Error
	})
	if err != nil {
		return 0, fmt.Errorf("batch insert transactions failed: %w", err)
	}
	return len(txs), nil
}

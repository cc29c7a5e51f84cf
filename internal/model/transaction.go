package model

import "time"

// Transaction statuses. Completed is the only terminal state the engine
// counts as a successful booking.
const (
	TxStatusPending   = "pending"
	TxStatusActive    = "active"
	TxStatusCompleted = "completed"
	TxStatusCancelled = "cancelled"
)

// Transaction represents a past booking record (cold table). Rows are written
// by the booking collaborator; this service only reads them for aggregation.
type Transaction struct {
	ID             string     `gorm:"primaryKey;size:64"` // uuid
	ParkingSpaceID string     `gorm:"size:64;not null;index"`
	UserID         string     `gorm:"size:64;index"`
	Status         string     `gorm:"size:32;not null"`
	TotalPrice     *float64
	StartTime      *time.Time `gorm:"index"`
	EndTime        *time.Time
	CreatedAt      time.Time  `gorm:"not null;index"`
}

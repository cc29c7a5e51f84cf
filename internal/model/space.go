package model

import "time"

// Space statuses as delivered by the upstream document store.
const (
	SpaceStatusAvailable = "available"
	SpaceStatusOccupied  = "occupied"
	SpaceStatusFull      = "full"
)

// ParkingSpace represents a parking space and its live availability (hot table).
// The ID is the upstream document identifier, not generated locally.
type ParkingSpace struct {
	ID             string  `gorm:"primaryKey;size:64"`
	Name           string  `gorm:"size:256"`
	Latitude       float64 `gorm:"not null"`
	Longitude      float64 `gorm:"not null"`
	PricePerHour   float64 `gorm:"not null"`
	TotalSpots     int     `gorm:"not null"`
	AvailableSpots int     `gorm:"not null"`
	Status         string  `gorm:"size:32;not null;index"`
	Rating         float64
	ReviewCount    int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

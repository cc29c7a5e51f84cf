package store

import (
	"strings"
	"time"
)

// SpaceDoc is a single parking-space document from the upstream store. The
// upstream schema drifted over time, so several fields exist under two
// names; Normalize resolves the aliases into one canonical record.
type SpaceDoc struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	Lat      *float64 `json:"lat"`
	Latitude *float64 `json:"latitude"`

	Lng       *float64 `json:"lng"`
	Longitude *float64 `json:"longitude"`

	Price        *float64 `json:"price"`
	PricePerHour *float64 `json:"pricePerHour"`

	Total      *int `json:"total"`
	TotalSpots *int `json:"totalSpots"`

	Available      *int `json:"available"`
	AvailableSpots *int `json:"availableSpots"`

	Status      string   `json:"status"`
	Rating      *float64 `json:"rating"`
	ReviewCount *int     `json:"reviewCount"`
}

// NormalizedSpace is a fully-populated space record. Downstream scoring only
// ever sees these; the legacy-alias tolerance lives here and nowhere else.
type NormalizedSpace struct {
	ID             string
	Name           string
	Latitude       float64
	Longitude      float64
	PricePerHour   float64
	TotalSpots     int
	AvailableSpots int
	Status         string
	Rating         float64
	ReviewCount    int
}

// Normalize resolves field aliases and applies the documented defaults:
// missing coordinates become {0,0}, missing counts and rating become 0, and
// availableSpots is clamped into [0, totalSpots]. ok is false when the
// document carries no usable identifier.
func (d *SpaceDoc) Normalize() (NormalizedSpace, bool) {
	if d.ID == "" {
		return NormalizedSpace{}, false
	}

	n := NormalizedSpace{
		ID:           d.ID,
		Name:         d.Name,
		Latitude:     firstFloat(d.Latitude, d.Lat),
		Longitude:    firstFloat(d.Longitude, d.Lng),
		PricePerHour: firstFloat(d.PricePerHour, d.Price),
		TotalSpots:   firstInt(d.TotalSpots, d.Total),
		Status:       strings.ToLower(strings.TrimSpace(d.Status)),
		Rating:       firstFloat(d.Rating),
		ReviewCount:  firstInt(d.ReviewCount),
	}

	n.AvailableSpots = firstInt(d.AvailableSpots, d.Available)
	if n.AvailableSpots < 0 {
		n.AvailableSpots = 0
	}
	if n.TotalSpots < 0 {
		n.TotalSpots = 0
	}
	if n.AvailableSpots > n.TotalSpots {
		n.AvailableSpots = n.TotalSpots
	}
	if n.PricePerHour < 0 {
		n.PricePerHour = 0
	}
	if n.Rating < 0 {
		n.Rating = 0
	} else if n.Rating > 5 {
		n.Rating = 5
	}
	if n.ReviewCount < 0 {
		n.ReviewCount = 0
	}
	return n, true
}

// BookingDoc is a transaction document from the upstream store.
type BookingDoc struct {
	ID             string     `json:"id"`
	ParkingSpaceID string     `json:"parkingSpaceId"`
	UserID         string     `json:"userId"`
	Status         string     `json:"status"`
	TotalPrice     *float64   `json:"totalPrice"`
	StartTime      *time.Time `json:"startTime"`
	EndTime        *time.Time `json:"endTime"`
	CreatedAt      *time.Time `json:"createdAt"`
}

func firstFloat(vals ...*float64) float64 {
	for _, v := range vals {
		if v != nil {
			return *v
		}
	}
	return 0
}

func firstInt(vals ...*int) int {
	for _, v := range vals {
		if v != nil {
			return *v
		}
	}
	return 0
}

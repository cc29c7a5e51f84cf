package feed

import "parking-marketplace-backend/internal/store"

// spacesResponse models the upstream document store's paged space listing.
type spacesResponse struct {
	Code int `json:"code"`
	Data struct {
		Page     int              `json:"page"`
		PageSize int              `json:"pageSize"`
		Total    int              `json:"total"`
		Items    []store.SpaceDoc `json:"items"`
	} `json:"data"`
}

// bookingsResponse models the upstream document store's paged booking listing.
type bookingsResponse struct {
	Code int `json:"code"`
	Data struct {
		Page     int                `json:"page"`
		PageSize int                `json:"pageSize"`
		Total    int                `json:"total"`
		Items    []store.BookingDoc `json:"items"`
	} `json:"data"`
}

package engine

import "math"

const earthRadiusKm = 6371

// DistanceKm returns the great-circle (haversine) distance in kilometres
// between two lat/lng points in decimal degrees, rounded to two decimals.
// Identical points yield exactly 0. Non-finite input is coerced to 0 rather
// than propagated; the scoring layer treats unknown distance as worst-case
// separately.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	if lat1 == lat2 && lon1 == lon2 {
		return 0
	}

	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	d := earthRadiusKm * c
	if math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
		return 0
	}
	return math.Round(d*100) / 100
}

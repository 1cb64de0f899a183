package geo

import (
	"errors"
	"math"
)

// EarthRadiusKm is the mean Earth radius used by the haversine formula.
const EarthRadiusKm = 6371.0

var ErrInvalidCoordinate = errors.New("latitude must be between -90 and 90, longitude between -180 and 180")

// Coordinate is a WGS84 latitude/longitude pair.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Validate checks that the coordinate is within legal ranges.
func (c Coordinate) Validate() error {
	if !IsValid(c.Latitude, c.Longitude) {
		return ErrInvalidCoordinate
	}
	return nil
}

// IsValid reports whether a latitude/longitude pair is within legal ranges.
func IsValid(latitude, longitude float64) bool {
	return latitude >= -90 && latitude <= 90 &&
		longitude >= -180 && longitude <= 180
}

// DistanceKm returns the great-circle distance between two points in
// kilometers using the haversine formula. The result is not rounded;
// callers choose their own precision.
func DistanceKm(a, b Coordinate) float64 {
	dLat := toRadians(b.Latitude - a.Latitude)
	dLon := toRadians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(a.Latitude))*math.Cos(toRadians(b.Latitude))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusKm * c
}

// Round2 rounds a distance to 2 decimal places for display.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func toRadians(degrees float64) float64 {
	return degrees * (math.Pi / 180)
}

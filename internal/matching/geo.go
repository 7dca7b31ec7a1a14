package matching

import (
	"math"
	"strings"

	"github.com/sistersconnect/backend/internal/domain"
)

const earthRadiusKm = 6371.0

// DistanceKm returns the great-circle distance between two locations
// using the haversine formula.
func DistanceKm(a, b domain.Location) float64 {
	dLat := toRadians(b.Latitude - a.Latitude)
	dLon := toRadians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(a.Latitude))*math.Cos(toRadians(b.Latitude))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusKm * c
}

func toRadians(degrees float64) float64 {
	return degrees * (math.Pi / 180.0)
}

// SameCity reports whether two locations name the same city and
// country, ignoring case.
func SameCity(a, b domain.Location) bool {
	return strings.EqualFold(a.City, b.City) && strings.EqualFold(a.Country, b.Country)
}

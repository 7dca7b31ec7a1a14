package matching

import (
	"math"
	"testing"

	"github.com/sistersconnect/backend/internal/domain"
)

var (
	london = domain.Location{Latitude: 51.5074, Longitude: -0.1278, City: "London", Country: "UK"}
	paris  = domain.Location{Latitude: 48.8566, Longitude: 2.3522, City: "Paris", Country: "France"}
)

func TestDistanceKm(t *testing.T) {
	d := DistanceKm(london, paris)
	if d < 330 || d > 355 {
		t.Errorf("London-Paris distance = %f, want ~343km", d)
	}

	if got := DistanceKm(london, london); got != 0 {
		t.Errorf("distance to self = %f, want 0", got)
	}

	if DistanceKm(london, paris) != DistanceKm(paris, london) {
		t.Error("distance is not symmetric")
	}
}

func TestDistanceKmNearby(t *testing.T) {
	// Two points roughly 1.11km apart along a meridian.
	a := domain.Location{Latitude: 51.5, Longitude: 0}
	b := domain.Location{Latitude: 51.51, Longitude: 0}
	d := DistanceKm(a, b)
	if math.Abs(d-1.11) > 0.02 {
		t.Errorf("nearby distance = %f, want ~1.11km", d)
	}
}

func TestSameCity(t *testing.T) {
	a := domain.Location{City: "London", Country: "UK"}
	b := domain.Location{City: "london", Country: "uk"}
	if !SameCity(a, b) {
		t.Error("city comparison should ignore case")
	}

	c := domain.Location{City: "London", Country: "Canada"}
	if SameCity(a, c) {
		t.Error("same city name in a different country should not match")
	}
}

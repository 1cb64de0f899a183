package geo

import (
	"math"
	"testing"
)

func TestDistanceKmIdentity(t *testing.T) {
	p := Coordinate{Latitude: 36.75, Longitude: 3.06}
	if d := DistanceKm(p, p); d != 0 {
		t.Errorf("DistanceKm(p, p) = %v, want 0", d)
	}
}

func TestDistanceKmSymmetry(t *testing.T) {
	a := Coordinate{Latitude: 36.75, Longitude: 3.06}
	b := Coordinate{Latitude: 36.77, Longitude: 3.05}

	ab := DistanceKm(a, b)
	ba := DistanceKm(b, a)
	if math.Abs(ab-ba) > 1e-9 {
		t.Errorf("DistanceKm not symmetric: %v vs %v", ab, ba)
	}
}

func TestDistanceKmKnownPoints(t *testing.T) {
	// 阿尔及尔市中心附近两点，实际相距约 2.4 公里
	algiers := Coordinate{Latitude: 36.75, Longitude: 3.06}
	nearby := Coordinate{Latitude: 36.77, Longitude: 3.05}

	d := DistanceKm(algiers, nearby)
	if d < 2.0 || d > 3.0 {
		t.Errorf("DistanceKm = %v, want roughly 2.4", d)
	}

	// 阿尔及尔到奥兰约 355 公里
	oran := Coordinate{Latitude: 35.6971, Longitude: -0.6308}
	d = DistanceKm(algiers, oran)
	if d < 330 || d > 380 {
		t.Errorf("Algiers-Oran distance = %v, want roughly 355", d)
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon float64
		want     bool
	}{
		{"valid algiers", 36.75, 3.06, true},
		{"boundary north pole", 90, 0, true},
		{"boundary date line", 0, -180, true},
		{"latitude too high", 95, 3.06, false},
		{"latitude too low", -90.01, 0, false},
		{"longitude too high", 0, 180.5, false},
		{"longitude too low", 0, -181, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValid(tt.lat, tt.lon); got != tt.want {
				t.Errorf("IsValid(%v, %v) = %v, want %v", tt.lat, tt.lon, got, tt.want)
			}
		})
	}
}

func TestCoordinateValidate(t *testing.T) {
	if err := (Coordinate{Latitude: 36.75, Longitude: 3.06}).Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}
	if err := (Coordinate{Latitude: 95, Longitude: 3.06}).Validate(); err == nil {
		t.Error("Validate() = nil, want error for latitude 95")
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{2.10456, 2.1},
		{2.105, 2.11},
		{0, 0},
		{355.5555, 355.56},
	}
	for _, tt := range tests {
		if got := Round2(tt.in); got != tt.want {
			t.Errorf("Round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

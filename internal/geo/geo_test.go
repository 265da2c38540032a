package geo

import (
	"math"
	"testing"

	"navette/internal/types"
)

func TestHaversineKm_SamePoint(t *testing.T) {
	p := types.Point{Lat: 48.85, Lng: 2.35}
	if d := HaversineKm(p, p); d != 0 {
		t.Fatalf("expected 0, got %f", d)
	}
}

func TestHaversineKm_ParisPair(t *testing.T) {
	// Hôtel de Ville area to Louvre area, a bit over 4 km apart.
	a := types.Point{Lat: 48.85, Lng: 2.35}
	b := types.Point{Lat: 48.87, Lng: 2.30}
	d := HaversineKm(a, b)
	if d < 4.2 || d > 4.4 {
		t.Fatalf("expected ~4.28 km, got %f", d)
	}
}

func TestHaversineKm_Symmetric(t *testing.T) {
	a := types.Point{Lat: 43.6, Lng: 1.44}
	b := types.Point{Lat: 48.85, Lng: 2.35}
	if diff := math.Abs(HaversineKm(a, b) - HaversineKm(b, a)); diff > 1e-9 {
		t.Fatalf("distance not symmetric, diff %g", diff)
	}
}

func TestHaversineKm_KnownDistance(t *testing.T) {
	// Paris to Toulouse, roughly 588 km.
	a := types.Point{Lat: 48.8566, Lng: 2.3522}
	b := types.Point{Lat: 43.6045, Lng: 1.4442}
	d := HaversineKm(a, b)
	if d < 580 || d > 600 {
		t.Fatalf("expected ~588 km, got %f", d)
	}
}

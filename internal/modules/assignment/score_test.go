package assignment

import (
	"testing"

	"navette/internal/config"
	"navette/internal/modules/driver"
)

func TestProximityPoints(t *testing.T) {
	tests := []struct {
		km   float64
		want int
	}{
		{0, 50},
		{5, 50},
		{5.1, 40},
		{10, 40},
		{15, 30},
		{20, 30},
		{25, 20},
		{30, 20},
		{42, 10},
		{50, 10},
		{50.1, 0},
		{300, 0},
	}
	for _, tt := range tests {
		if got := proximityPoints(tt.km); got != tt.want {
			t.Errorf("proximityPoints(%.1f) = %d, want %d", tt.km, got, tt.want)
		}
	}
}

func TestPerformancePoints(t *testing.T) {
	cfg := config.DefaultScoring()

	tests := []struct {
		name             string
		completed, total int
		want             int
	}{
		{"no history is neutral", 0, 0, 15},
		{"perfect record", 10, 10, 30},
		{"nine of ten", 9, 10, 27},
		{"half", 1, 2, 15},
		{"rounds nearest", 2, 3, 20},
		{"all declined", 0, 5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := performancePoints(tt.completed, tt.total, cfg); got != tt.want {
				t.Errorf("performancePoints(%d, %d) = %d, want %d", tt.completed, tt.total, got, tt.want)
			}
		})
	}
}

func TestScoreBreakdown(t *testing.T) {
	cfg := config.DefaultScoring()
	d := driver.Driver{ID: "d-1", Completed: 9, Total: 10}
	km := 4.3

	b := score(d, scoreInput{
		Available:      true,
		DistanceKm:     &km,
		ActiveMissions: 1,
		Preferred:      true,
	}, cfg)

	want := Breakdown{Availability: 100, Proximity: 50, Workload: -10, Preference: 20, Performance: 27}
	if b != want {
		t.Fatalf("breakdown = %+v, want %+v", b, want)
	}
	if b.Total() != 187 {
		t.Fatalf("total = %d, want 187", b.Total())
	}
}

func TestScoreUnavailableDriver(t *testing.T) {
	km := 2.0
	b := score(driver.Driver{ID: "d-1"}, scoreInput{Available: false, DistanceKm: &km}, config.DefaultScoring())
	if b.Availability != 0 {
		t.Fatalf("availability = %d, want 0", b.Availability)
	}
	if b.Proximity != 0 {
		t.Fatalf("proximity = %d, want 0 for an unavailable driver", b.Proximity)
	}
}

func TestScoreUnknownHomeSkipsProximity(t *testing.T) {
	b := score(driver.Driver{ID: "d-1"}, scoreInput{Available: true}, config.DefaultScoring())
	if b.Proximity != 0 {
		t.Fatalf("proximity = %d, want 0 when distance is unknown", b.Proximity)
	}
}

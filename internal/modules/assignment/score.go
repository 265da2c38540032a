// README: Driver scoring; one Breakdown per driver/request pair.
package assignment

import (
	"math"

	"navette/internal/config"
	"navette/internal/modules/driver"
)

// Breakdown keeps the per-criterion points so callers can show an organizer
// why a driver ranked where they did.
type Breakdown struct {
	Availability int `json:"availability"`
	Proximity    int `json:"proximity"`
	Workload     int `json:"workload"`
	Preference   int `json:"preference"`
	Performance  int `json:"performance"`
}

func (b Breakdown) Total() int {
	return b.Availability + b.Proximity + b.Workload + b.Preference + b.Performance
}

// scoreInput is everything about one driver the scorer needs, already
// resolved against the request being served.
type scoreInput struct {
	Available      bool
	DistanceKm     *float64
	ActiveMissions int
	Preferred      bool
}

func score(d driver.Driver, in scoreInput, cfg config.ScoringConfig) Breakdown {
	b := Breakdown{
		Workload: -cfg.WorkloadPenalty * in.ActiveMissions,
	}
	if in.Available {
		b.Availability = cfg.AvailabilityPoints
		// Proximity only counts for drivers who can actually take the trip.
		if in.DistanceKm != nil {
			b.Proximity = proximityPoints(*in.DistanceKm)
		}
	}
	if in.Preferred {
		b.Preference = cfg.PreferencePoints
	}
	b.Performance = performancePoints(d.Completed, d.Total, cfg)
	return b
}

func proximityPoints(km float64) int {
	switch {
	case km <= 5:
		return 50
	case km <= 10:
		return 40
	case km <= 20:
		return 30
	case km <= 30:
		return 20
	case km <= 50:
		return 10
	default:
		return 0
	}
}

// performancePoints scales the driver's completion ratio onto
// [0, PerformanceMax]. A driver with no history gets the neutral score so
// newcomers are neither favored nor buried.
func performancePoints(completed, total int, cfg config.ScoringConfig) int {
	if total == 0 {
		return cfg.PerformanceNeutral
	}
	return int(math.Round(float64(cfg.PerformanceMax) * float64(completed) / float64(total)))
}

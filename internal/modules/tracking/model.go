// README: Tracking position samples and ETA estimates.
package tracking

import (
	"errors"
	"time"

	"navette/internal/types"
)

var (
	// ErrNoCurrentPosition means no fresh sample exists for the mission.
	ErrNoCurrentPosition = errors.New("tracking: no current position")
	// ErrNoDestination means the mission's request has no geocoded pickup.
	ErrNoDestination = errors.New("tracking: no destination")
)

// Sample is one position report from a driver's phone.
type Sample struct {
	ID         int64       `json:"id"`
	MissionID  types.ID    `json:"mission_id"`
	DriverID   types.ID    `json:"driver_id"`
	Position   types.Point `json:"position"`
	AccuracyM  float64     `json:"accuracy_m"`
	HeadingDeg float64     `json:"heading_deg"`
	SpeedKmh   float64     `json:"speed_kmh"`
	RecordedAt time.Time   `json:"recorded_at"`
}

// CurrentPosition is the latest sample plus whether it is still within the
// freshness window.
type CurrentPosition struct {
	Sample Sample `json:"sample"`
	Fresh  bool   `json:"fresh"`
}

// Estimate is a distance/ETA projection toward the request's pickup point.
type Estimate struct {
	MissionID  types.ID    `json:"mission_id"`
	Position   types.Point `json:"position"`
	DistanceKm float64     `json:"distance_km"`
	SpeedKmh   float64     `json:"speed_kmh"`
	ETAMinutes int         `json:"eta_minutes"`
	Label      string      `json:"label"`
	RecordedAt time.Time   `json:"recorded_at"`
}

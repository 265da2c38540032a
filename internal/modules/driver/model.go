// README: Volunteer driver aggregate with preference tags and lifetime counters.
package driver

import (
	"time"

	"navette/internal/types"
)

type Driver struct {
	ID         types.ID
	FestivalID types.ID
	FullName   string
	Phone      string
	// Home is nil when the driver never provided an address or geocoding
	// failed; proximity scoring then treats the distance as unknown.
	Home        *types.Point
	Preferences []string
	Completed   int
	Total       int
	CreatedAt   time.Time
}

// Prefers reports whether the driver listed the given transport type tag.
func (d *Driver) Prefers(tag string) bool {
	for _, p := range d.Preferences {
		if p == tag {
			return true
		}
	}
	return false
}

// README: Driver availability tuples keyed by festival day and time slot.
package availability

import (
	"time"

	"navette/internal/types"
)

type Slot string

const (
	SlotMorning   Slot = "morning"
	SlotAfternoon Slot = "afternoon"
	SlotEvening   Slot = "evening"
)

// SlotForTime maps a requested datetime to its festival time slot:
// before 12h is morning, before 18h afternoon, evening otherwise.
func SlotForTime(t time.Time) Slot {
	switch h := t.Hour(); {
	case h < 12:
		return SlotMorning
	case h < 18:
		return SlotAfternoon
	default:
		return SlotEvening
	}
}

// DayOf truncates a datetime to midnight in its own location, which is how
// availability rows are keyed.
func DayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

type Availability struct {
	DriverID   types.ID
	FestivalID types.ID
	Day        time.Time
	Slot       Slot
	Available  bool
}

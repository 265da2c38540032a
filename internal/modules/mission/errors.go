package mission

import "errors"

var (
	ErrNotFound             = errors.New("mission not found")
	ErrInvalidTransition    = errors.New("invalid mission transition")
	ErrMissingDeclineReason = errors.New("decline reason is required")
	ErrUnauthorized         = errors.New("actor is not the assigned driver")
	// ErrConflict is returned when a commit-time check loses a race: either
	// the optimistic status update found the row already moved, or the
	// conflict guard detected an overlapping active mission for the driver.
	ErrConflict = errors.New("mission state conflict")
)

// README: Mission aggregate, lifecycle states and the transition table.
package mission

import (
	"time"

	"navette/internal/modules/transport"
	"navette/internal/types"
)

type Status string

const (
	StatusProposed   Status = "proposed"
	StatusAccepted   Status = "accepted"
	StatusDeclined   Status = "declined"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

type Method string

const (
	MethodManual Method = "manual"
	MethodAuto   Method = "auto"
)

// Mission binds one transport request to one driver. Missions are created
// only by the assignment engine and mutated only through lifecycle
// transitions; a declined mission is never reused, a fresh one is created.
type Mission struct {
	ID            types.ID
	FestivalID    types.ID
	RequestID     types.ID
	DriverID      types.ID
	Status        Status
	StatusVersion int
	Method        Method
	Score         int
	AssignedBy    types.ID
	ProposedAt    time.Time
	AcceptedAt    *time.Time
	DeclinedAt    *time.Time
	StartedAt     *time.Time
	CompletedAt   *time.Time
	DeclineReason *string
}

// AllowedTransitions represents the mission state flow as code. Declined and
// completed are terminal for the mission instance.
var AllowedTransitions = map[Status][]Status{
	StatusProposed:   {StatusAccepted, StatusDeclined},
	StatusAccepted:   {StatusInProgress},
	StatusInProgress: {StatusCompleted},
}

func CanTransition(from, to Status) bool {
	next, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}

// MirrorStatus gives the transport request status that mirrors a mission
// status after a transition. Declining frees the request for reassignment.
func MirrorStatus(to Status) transport.Status {
	switch to {
	case StatusAccepted:
		return transport.StatusAccepted
	case StatusDeclined:
		return transport.StatusPending
	case StatusInProgress:
		return transport.StatusInProgress
	case StatusCompleted:
		return transport.StatusCompleted
	default:
		return transport.StatusAssigned
	}
}

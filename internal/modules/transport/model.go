// README: Transport request aggregate and status definitions.
package transport

import (
	"time"

	"navette/internal/types"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusAssigned   Status = "assigned"
	StatusAccepted   Status = "accepted"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Request is a VIP's trip ask, independent of who will drive it. Its status
// mirrors the active mission's lifecycle; outside of mission transitions the
// only mutation is an explicit cancellation.
type Request struct {
	ID             types.ID
	FestivalID     types.ID
	RequesterID    types.ID
	PickupAddress  string
	DropoffAddress string
	// Pickup/Dropoff are nil until geocoding succeeds; the engine treats
	// missing coordinates as "distance unknown", never as an error.
	Pickup         *types.Point
	Dropoff        *types.Point
	RequestedAt    time.Time
	PassengerCount int
	TransportType  string
	Status         Status
	StatusVersion  int
	CreatedAt      time.Time
	CancelledAt    *time.Time
}

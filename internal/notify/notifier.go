// README: Notifier collaborator; delivery is external, publishing is fire-and-forget.
package notify

import (
	"context"
	"time"

	"navette/internal/types"
)

// Event is the payload pushed to the notification pipeline. Delivery
// (email, SMS, push) happens in a separate consumer; the core only
// publishes and never blocks on it.
type Event struct {
	MissionID types.ID  `json:"mission_id"`
	RequestID types.ID  `json:"request_id"`
	DriverID  types.ID  `json:"driver_id"`
	Status    string    `json:"status"`
	At        time.Time `json:"at"`
}

type Notifier interface {
	MissionAssigned(ctx context.Context, e Event)
	StatusChanged(ctx context.Context, e Event)
}

// Nop drops every event. Used in tests and when no NSQ address is configured.
type Nop struct{}

func (Nop) MissionAssigned(ctx context.Context, e Event) {}
func (Nop) StatusChanged(ctx context.Context, e Event)   {}

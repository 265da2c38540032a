// README: Availability service; slot derivation plus the availability index.
package availability

import (
	"context"
	"time"

	"navette/internal/types"
)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

func (s *Service) Set(ctx context.Context, a Availability) error {
	a.Day = DayOf(a.Day)
	return s.store.Upsert(ctx, a)
}

func (s *Service) Clear(ctx context.Context, festivalID, driverID types.ID, day time.Time, slot Slot) error {
	return s.store.Clear(ctx, festivalID, driverID, DayOf(day), slot)
}

// AvailableForTime resolves the requested datetime to a (day, slot) pair and
// returns the set of available driver ids.
func (s *Service) AvailableForTime(ctx context.Context, festivalID types.ID, at time.Time) (map[types.ID]bool, error) {
	return s.store.AvailableSet(ctx, festivalID, DayOf(at), SlotForTime(at))
}

// README: Driver service; roster reads for the assignment engine and handlers.
package driver

import (
	"context"

	"navette/internal/types"
)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

func (s *Service) Get(ctx context.Context, festivalID, id types.ID) (*Driver, error) {
	return s.store.Get(ctx, festivalID, id)
}

func (s *Service) ListByFestival(ctx context.Context, festivalID types.ID) ([]Driver, error) {
	return s.store.ListByFestival(ctx, festivalID)
}

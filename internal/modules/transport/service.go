// README: Transport request service: creation (with best-effort geocoding) and cancellation.
package transport

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"navette/internal/types"
)

var (
	ErrNotFound     = errors.New("transport request not found")
	ErrBadRequest   = errors.New("bad request")
	ErrInvalidState = errors.New("invalid request state")
	ErrConflict     = errors.New("request state conflict")
)

// Geocoder resolves a free-text address to coordinates, returning nil when
// the address cannot be resolved.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*types.Point, error)
}

type RequestStore interface {
	Create(ctx context.Context, r *Request) error
	Get(ctx context.Context, festivalID, id types.ID) (*Request, error)
	ListByFestival(ctx context.Context, festivalID types.ID, status Status) ([]Request, error)
	Cancel(ctx context.Context, id types.ID, from Status, version int) (bool, error)
}

type Service struct {
	store    RequestStore
	geocoder Geocoder
	log      *zap.Logger
}

func NewService(store RequestStore, geocoder Geocoder, log *zap.Logger) *Service {
	return &Service{store: store, geocoder: geocoder, log: log}
}

type CreateCommand struct {
	FestivalID     types.ID
	RequesterID    types.ID
	PickupAddress  string
	DropoffAddress string
	Pickup         *types.Point
	Dropoff        *types.Point
	RequestedAt    time.Time
	PassengerCount int
	TransportType  string
}

func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*Request, error) {
	if cmd.FestivalID == "" || cmd.RequesterID == "" || cmd.TransportType == "" || cmd.RequestedAt.IsZero() {
		return nil, ErrBadRequest
	}
	if cmd.PassengerCount <= 0 {
		cmd.PassengerCount = 1
	}

	pickup := cmd.Pickup
	dropoff := cmd.Dropoff
	if pickup == nil {
		pickup = s.geocode(ctx, cmd.PickupAddress)
	}
	if dropoff == nil {
		dropoff = s.geocode(ctx, cmd.DropoffAddress)
	}

	r := &Request{
		ID:             types.ID(uuid.NewString()),
		FestivalID:     cmd.FestivalID,
		RequesterID:    cmd.RequesterID,
		PickupAddress:  cmd.PickupAddress,
		DropoffAddress: cmd.DropoffAddress,
		Pickup:         pickup,
		Dropoff:        dropoff,
		RequestedAt:    cmd.RequestedAt,
		PassengerCount: cmd.PassengerCount,
		TransportType:  cmd.TransportType,
		Status:         StatusPending,
		CreatedAt:      time.Now(),
	}
	if err := s.store.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Service) Get(ctx context.Context, festivalID, id types.ID) (*Request, error) {
	return s.store.Get(ctx, festivalID, id)
}

func (s *Service) ListByFestival(ctx context.Context, festivalID types.ID, status Status) ([]Request, error) {
	return s.store.ListByFestival(ctx, festivalID, status)
}

// Cancel is the only request mutation outside of mission transitions. A trip
// already underway cannot be cancelled here.
func (s *Service) Cancel(ctx context.Context, festivalID, id types.ID) error {
	r, err := s.store.Get(ctx, festivalID, id)
	if err != nil {
		return err
	}
	switch r.Status {
	case StatusPending, StatusAssigned, StatusAccepted:
	default:
		return ErrInvalidState
	}
	ok, err := s.store.Cancel(ctx, r.ID, r.Status, r.StatusVersion)
	if err != nil {
		return err
	}
	if !ok {
		return ErrConflict
	}
	return nil
}

// geocode is best effort: an unresolved or failing lookup yields nil
// coordinates, never an error surfaced to the requester.
func (s *Service) geocode(ctx context.Context, address string) *types.Point {
	if s.geocoder == nil || address == "" {
		return nil
	}
	p, err := s.geocoder.Geocode(ctx, address)
	if err != nil {
		s.log.Warn("geocoding failed", zap.String("address", address), zap.Error(err))
		return nil
	}
	return p
}

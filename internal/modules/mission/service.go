// README: Mission lifecycle service; validates who may move a mission and to where.
package mission

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"navette/internal/notify"
	"navette/internal/observability"
	"navette/internal/types"
)

// Storage is the persistence surface the lifecycle needs.
type Storage interface {
	Get(ctx context.Context, id types.ID) (*Mission, error)
	ListByDriver(ctx context.Context, festivalID, driverID types.ID) ([]Mission, error)
	Transition(ctx context.Context, cmd TransitionCommand) (bool, error)
}

// Actor identifies who is requesting a lifecycle step. Drivers may only act
// on their own missions; organizers may act on any mission of their festival.
type Actor struct {
	ID   types.ID
	Role string
}

const RoleDriver = "driver"

type Service struct {
	store    Storage
	notifier notify.Notifier
	log      *zap.Logger
}

func NewService(store Storage, notifier notify.Notifier, log *zap.Logger) *Service {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Service{store: store, notifier: notifier, log: log}
}

func (s *Service) Get(ctx context.Context, festivalID, id types.ID) (*Mission, error) {
	m, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.FestivalID != festivalID {
		return nil, ErrNotFound
	}
	return m, nil
}

func (s *Service) ListByDriver(ctx context.Context, festivalID, driverID types.ID) ([]Mission, error) {
	return s.store.ListByDriver(ctx, festivalID, driverID)
}

func (s *Service) Accept(ctx context.Context, actor Actor, festivalID, id types.ID) (*Mission, error) {
	return s.transition(ctx, actor, festivalID, id, StatusAccepted, nil)
}

func (s *Service) Decline(ctx context.Context, actor Actor, festivalID, id types.ID, reason string) (*Mission, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrMissingDeclineReason
	}
	return s.transition(ctx, actor, festivalID, id, StatusDeclined, &reason)
}

func (s *Service) Start(ctx context.Context, actor Actor, festivalID, id types.ID) (*Mission, error) {
	return s.transition(ctx, actor, festivalID, id, StatusInProgress, nil)
}

func (s *Service) Complete(ctx context.Context, actor Actor, festivalID, id types.ID) (*Mission, error) {
	return s.transition(ctx, actor, festivalID, id, StatusCompleted, nil)
}

func (s *Service) transition(ctx context.Context, actor Actor, festivalID, id types.ID, to Status, declineReason *string) (*Mission, error) {
	m, err := s.Get(ctx, festivalID, id)
	if err != nil {
		return nil, err
	}
	if actor.Role == RoleDriver && actor.ID != m.DriverID {
		return nil, ErrUnauthorized
	}
	if !CanTransition(m.Status, to) {
		return nil, ErrInvalidTransition
	}

	ok, err := s.store.Transition(ctx, TransitionCommand{
		MissionID:         m.ID,
		From:              m.Status,
		To:                to,
		FromVersion:       m.StatusVersion,
		RequestID:         m.RequestID,
		RequestFromStatus: MirrorStatus(m.Status),
		RequestStatus:     MirrorStatus(to),
		DriverID:          m.DriverID,
		DeclineReason:     declineReason,
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		// Someone else moved the mission first.
		return nil, ErrConflict
	}

	observability.MissionTransitionsTotal.WithLabelValues(string(to)).Inc()
	s.notifier.StatusChanged(ctx, notify.Event{
		MissionID: m.ID,
		RequestID: m.RequestID,
		DriverID:  m.DriverID,
		Status:    string(to),
		At:        time.Now(),
	})
	s.log.Info("mission transition",
		zap.String("mission_id", string(m.ID)),
		zap.String("from", string(m.Status)),
		zap.String("to", string(to)),
	)

	return s.store.Get(ctx, id)
}

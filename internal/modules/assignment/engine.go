// README: Assignment engine; ranks drivers for a request and commits missions.
package assignment

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"navette/internal/config"
	"navette/internal/geo"
	"navette/internal/modules/driver"
	"navette/internal/modules/mission"
	"navette/internal/modules/transport"
	"navette/internal/notify"
	"navette/internal/observability"
	"navette/internal/types"
)

var (
	// ErrNoDriverAvailable means no driver in the festival is available for
	// the request's slot.
	ErrNoDriverAvailable = errors.New("assignment: no driver available")
	// ErrDriverUnavailable means the manually chosen driver is not available
	// for the request's slot.
	ErrDriverUnavailable = errors.New("assignment: driver unavailable")
)

type RequestStore interface {
	Get(ctx context.Context, festivalID, id types.ID) (*transport.Request, error)
}

type Roster interface {
	Get(ctx context.Context, festivalID, id types.ID) (*driver.Driver, error)
	ListByFestival(ctx context.Context, festivalID types.ID) ([]driver.Driver, error)
}

type AvailabilityIndex interface {
	AvailableForTime(ctx context.Context, festivalID types.ID, at time.Time) (map[types.ID]bool, error)
}

type WorkloadCounter interface {
	CountActiveInWindow(ctx context.Context, festivalID types.ID, at time.Time, buffer time.Duration) (map[types.ID]int, error)
}

type MissionCommitter interface {
	CreateAssigned(ctx context.Context, m *mission.Mission, req *transport.Request, buffer time.Duration) error
}

// Suggestion is one ranked driver for a request.
type Suggestion struct {
	Driver         driver.Driver
	Score          int
	Breakdown      Breakdown
	Available      bool
	ActiveMissions int
	DistanceKm     *float64
	Reason         string
}

type Engine struct {
	requests     RequestStore
	roster       Roster
	availability AvailabilityIndex
	workload     WorkloadCounter
	missions     MissionCommitter
	notifier     notify.Notifier
	cfg          config.AssignmentConfig
	log          *zap.Logger
}

func NewEngine(
	requests RequestStore,
	roster Roster,
	availability AvailabilityIndex,
	workload WorkloadCounter,
	missions MissionCommitter,
	notifier notify.Notifier,
	cfg config.AssignmentConfig,
	log *zap.Logger,
) *Engine {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Engine{
		requests:     requests,
		roster:       roster,
		availability: availability,
		workload:     workload,
		missions:     missions,
		notifier:     notifier,
		cfg:          cfg,
		log:          log,
	}
}

func (e *Engine) buffer() time.Duration {
	return time.Duration(e.cfg.WorkloadBufferMinutes) * time.Minute
}

// Suggest ranks every driver of the festival for the request, best first.
// limit <= 0 returns the full list. The ranking is advisory only; nothing is
// written.
func (e *Engine) Suggest(ctx context.Context, festivalID, requestID types.ID, limit int) ([]Suggestion, error) {
	req, err := e.requests.Get(ctx, festivalID, requestID)
	if err != nil {
		return nil, err
	}

	suggestions, err := e.rank(ctx, req)
	if err != nil {
		return nil, err
	}
	observability.SuggestionsTotal.Inc()

	if limit > 0 && len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions, nil
}

func (e *Engine) rank(ctx context.Context, req *transport.Request) ([]Suggestion, error) {
	drivers, err := e.roster.ListByFestival(ctx, req.FestivalID)
	if err != nil {
		return nil, err
	}
	available, err := e.availability.AvailableForTime(ctx, req.FestivalID, req.RequestedAt)
	if err != nil {
		return nil, err
	}
	counts, err := e.workload.CountActiveInWindow(ctx, req.FestivalID, req.RequestedAt, e.buffer())
	if err != nil {
		return nil, err
	}

	suggestions := make([]Suggestion, 0, len(drivers))
	for _, d := range drivers {
		in := scoreInput{
			Available:      available[d.ID],
			ActiveMissions: counts[d.ID],
			Preferred:      d.Prefers(req.TransportType),
		}
		if d.Home != nil && req.Pickup != nil {
			km := geo.HaversineKm(*d.Home, *req.Pickup)
			in.DistanceKm = &km
		}
		b := score(d, in, e.cfg.Scoring)
		suggestions = append(suggestions, Suggestion{
			Driver:         d,
			Score:          b.Total(),
			Breakdown:      b,
			Available:      in.Available,
			ActiveMissions: in.ActiveMissions,
			DistanceKm:     in.DistanceKm,
			Reason:         reason(in),
		})
	}

	// Stable sort so equal scores keep the roster's deterministic order.
	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Score > suggestions[j].Score
	})
	return suggestions, nil
}

func reason(in scoreInput) string {
	if !in.Available {
		return "Non disponible pour ce créneau"
	}
	r := fmt.Sprintf("Disponible (%d mission(s) sur cette période)", in.ActiveMissions)
	if in.DistanceKm != nil {
		r += fmt.Sprintf(" - %.1f km", *in.DistanceKm)
	}
	return r
}

// AutoAssign picks the best available driver and commits the mission.
func (e *Engine) AutoAssign(ctx context.Context, festivalID, requestID, assignedBy types.ID) (*mission.Mission, error) {
	req, err := e.requests.Get(ctx, festivalID, requestID)
	if err != nil {
		return nil, err
	}
	if req.Status != transport.StatusPending {
		return nil, transport.ErrInvalidState
	}

	suggestions, err := e.rank(ctx, req)
	if err != nil {
		return nil, err
	}
	for _, s := range suggestions {
		// A driver with an active mission overlapping the slot would be
		// rejected by the commit guard, so only conflict-free drivers are
		// eligible for auto assignment.
		if !s.Available || s.ActiveMissions > 0 {
			continue
		}
		return e.commit(ctx, req, s.Driver.ID, s.Score, mission.MethodAuto, assignedBy)
	}
	return nil, ErrNoDriverAvailable
}

// Assign commits a mission for the organizer's chosen driver. The driver must
// be available for the request's slot; the score is still computed and stored
// for the record.
func (e *Engine) Assign(ctx context.Context, festivalID, requestID, driverID, assignedBy types.ID) (*mission.Mission, error) {
	req, err := e.requests.Get(ctx, festivalID, requestID)
	if err != nil {
		return nil, err
	}
	if req.Status != transport.StatusPending {
		return nil, transport.ErrInvalidState
	}
	if _, err := e.roster.Get(ctx, festivalID, driverID); err != nil {
		return nil, err
	}

	suggestions, err := e.rank(ctx, req)
	if err != nil {
		return nil, err
	}
	for _, s := range suggestions {
		if s.Driver.ID != driverID {
			continue
		}
		if !s.Available {
			return nil, ErrDriverUnavailable
		}
		return e.commit(ctx, req, driverID, s.Score, mission.MethodManual, assignedBy)
	}
	return nil, driver.ErrNotFound
}

// BatchResult is the outcome for one request of AutoAssignMany.
type BatchResult struct {
	RequestID types.ID
	Mission   *mission.Mission
	Err       error
}

// AutoAssignMany assigns a batch of requests in chronological order. Each
// request gets its own result; one failure does not stop the rest, and
// earlier assignments count against driver workload for later ones.
func (e *Engine) AutoAssignMany(ctx context.Context, festivalID types.ID, requestIDs []types.ID, assignedBy types.ID) []BatchResult {
	type pending struct {
		id  types.ID
		req *transport.Request
		err error
	}
	batch := make([]pending, 0, len(requestIDs))
	for _, id := range requestIDs {
		req, err := e.requests.Get(ctx, festivalID, id)
		batch = append(batch, pending{id: id, req: req, err: err})
	}
	sort.SliceStable(batch, func(i, j int) bool {
		if batch[i].req == nil || batch[j].req == nil {
			return batch[j].req == nil && batch[i].req != nil
		}
		return batch[i].req.RequestedAt.Before(batch[j].req.RequestedAt)
	})

	results := make([]BatchResult, 0, len(batch))
	for _, p := range batch {
		if p.err != nil {
			results = append(results, BatchResult{RequestID: p.id, Err: p.err})
			continue
		}
		m, err := e.AutoAssign(ctx, festivalID, p.id, assignedBy)
		results = append(results, BatchResult{RequestID: p.id, Mission: m, Err: err})
	}
	return results
}

func (e *Engine) commit(ctx context.Context, req *transport.Request, driverID types.ID, score int, method mission.Method, assignedBy types.ID) (*mission.Mission, error) {
	m := &mission.Mission{
		ID:         types.ID(uuid.NewString()),
		FestivalID: req.FestivalID,
		RequestID:  req.ID,
		DriverID:   driverID,
		Status:     mission.StatusProposed,
		Method:     method,
		Score:      score,
		AssignedBy: assignedBy,
		ProposedAt: time.Now(),
	}

	if err := e.missions.CreateAssigned(ctx, m, req, e.buffer()); err != nil {
		if errors.Is(err, mission.ErrConflict) {
			observability.AssignmentConflictsTotal.Inc()
			e.log.Warn("assignment lost commit race",
				zap.String("request_id", string(req.ID)),
				zap.String("driver_id", string(driverID)),
			)
		}
		return nil, err
	}

	observability.AssignmentsTotal.WithLabelValues(string(method)).Inc()
	e.notifier.MissionAssigned(ctx, notify.Event{
		MissionID: m.ID,
		RequestID: req.ID,
		DriverID:  driverID,
		Status:    string(mission.StatusProposed),
		At:        m.ProposedAt,
	})
	e.log.Info("mission assigned",
		zap.String("mission_id", string(m.ID)),
		zap.String("request_id", string(req.ID)),
		zap.String("driver_id", string(driverID)),
		zap.String("method", string(method)),
		zap.Int("score", score),
	)
	return m, nil
}

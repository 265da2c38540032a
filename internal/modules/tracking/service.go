// README: Tracking service; records samples and projects ETAs toward the dropoff.
package tracking

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"navette/internal/config"
	"navette/internal/geo"
	"navette/internal/modules/mission"
	"navette/internal/modules/transport"
	"navette/internal/types"
)

type SampleStore interface {
	Append(ctx context.Context, sample *Sample) error
	Latest(ctx context.Context, missionID types.ID) (*Sample, error)
	History(ctx context.Context, missionID types.ID, limit int) ([]Sample, error)
}

type MissionResolver interface {
	Get(ctx context.Context, festivalID, id types.ID) (*mission.Mission, error)
}

type RequestResolver interface {
	Get(ctx context.Context, festivalID, id types.ID) (*transport.Request, error)
}

type Service struct {
	store    SampleStore
	missions MissionResolver
	requests RequestResolver
	cfg      config.TrackingConfig
	log      *zap.Logger
	now      func() time.Time
}

func NewService(store SampleStore, missions MissionResolver, requests RequestResolver, cfg config.TrackingConfig, log *zap.Logger) *Service {
	return &Service{store: store, missions: missions, requests: requests, cfg: cfg, log: log, now: time.Now}
}

func (s *Service) freshness() time.Duration {
	return time.Duration(s.cfg.FreshnessMinutes) * time.Minute
}

// Record stores a driver's position report against their mission.
func (s *Service) Record(ctx context.Context, festivalID types.ID, sample *Sample) error {
	m, err := s.missions.Get(ctx, festivalID, sample.MissionID)
	if err != nil {
		return err
	}
	sample.DriverID = m.DriverID
	if sample.RecordedAt.IsZero() {
		sample.RecordedAt = s.now()
	}
	return s.store.Append(ctx, sample)
}

// Current returns the latest sample and whether it is still fresh.
func (s *Service) Current(ctx context.Context, festivalID, missionID types.ID) (*CurrentPosition, error) {
	if _, err := s.missions.Get(ctx, festivalID, missionID); err != nil {
		return nil, err
	}
	sample, err := s.store.Latest(ctx, missionID)
	if err != nil {
		return nil, err
	}
	return &CurrentPosition{
		Sample: *sample,
		Fresh:  s.now().Sub(sample.RecordedAt) <= s.freshness(),
	}, nil
}

func (s *Service) History(ctx context.Context, festivalID, missionID types.ID, limit int) ([]Sample, error) {
	if _, err := s.missions.Get(ctx, festivalID, missionID); err != nil {
		return nil, err
	}
	return s.store.History(ctx, missionID, limit)
}

// Estimate projects the driver's fresh position toward the request's pickup.
// A stale or missing sample is ErrNoCurrentPosition; a request with no
// geocoded pickup is ErrNoDestination. Without a reported speed the assumed
// city speed applies.
func (s *Service) Estimate(ctx context.Context, festivalID, missionID types.ID) (*Estimate, error) {
	m, err := s.missions.Get(ctx, festivalID, missionID)
	if err != nil {
		return nil, err
	}
	req, err := s.requests.Get(ctx, festivalID, m.RequestID)
	if err != nil {
		return nil, err
	}
	if req.Pickup == nil {
		return nil, ErrNoDestination
	}

	sample, err := s.store.Latest(ctx, missionID)
	if err != nil {
		return nil, err
	}
	if s.now().Sub(sample.RecordedAt) > s.freshness() {
		return nil, ErrNoCurrentPosition
	}

	speed := sample.SpeedKmh
	if speed <= 0 {
		speed = s.cfg.AssumedSpeedKmh
	}
	km := geo.HaversineKm(sample.Position, *req.Pickup)
	raw := km / speed * 60
	minutes := int(math.Ceil(raw))

	return &Estimate{
		MissionID:  missionID,
		Position:   sample.Position,
		DistanceKm: km,
		SpeedKmh:   speed,
		ETAMinutes: minutes,
		Label:      etaLabel(raw, minutes),
		RecordedAt: sample.RecordedAt,
	}, nil
}

func etaLabel(raw float64, minutes int) string {
	switch {
	case raw < 1:
		return "Arrivée imminente"
	case minutes == 1:
		return "1 minute"
	case minutes < 60:
		return fmt.Sprintf("%d minutes", minutes)
	case minutes%60 == 0:
		return fmt.Sprintf("%dh", minutes/60)
	default:
		return fmt.Sprintf("%dh%02dmin", minutes/60, minutes%60)
	}
}

package tracking

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"go.uber.org/zap"

	"navette/internal/config"
	"navette/internal/geo"
	"navette/internal/modules/mission"
	"navette/internal/modules/transport"
	"navette/internal/types"
)

type fakeSampleStore struct {
	samples map[types.ID][]Sample
}

func (f *fakeSampleStore) Append(_ context.Context, s *Sample) error {
	if f.samples == nil {
		f.samples = make(map[types.ID][]Sample)
	}
	s.ID = int64(len(f.samples[s.MissionID]) + 1)
	f.samples[s.MissionID] = append(f.samples[s.MissionID], *s)
	return nil
}

func (f *fakeSampleStore) Latest(_ context.Context, missionID types.ID) (*Sample, error) {
	ss := f.samples[missionID]
	if len(ss) == 0 {
		return nil, ErrNoCurrentPosition
	}
	cp := ss[len(ss)-1]
	return &cp, nil
}

func (f *fakeSampleStore) History(_ context.Context, missionID types.ID, _ int) ([]Sample, error) {
	return f.samples[missionID], nil
}

type fakeMissions struct{ m *mission.Mission }

func (f fakeMissions) Get(_ context.Context, festivalID, id types.ID) (*mission.Mission, error) {
	if f.m == nil || f.m.ID != id || f.m.FestivalID != festivalID {
		return nil, mission.ErrNotFound
	}
	return f.m, nil
}

type fakeRequests struct{ r *transport.Request }

func (f fakeRequests) Get(_ context.Context, festivalID, id types.ID) (*transport.Request, error) {
	if f.r == nil || f.r.ID != id || f.r.FestivalID != festivalID {
		return nil, transport.ErrNotFound
	}
	return f.r, nil
}

func testService(store SampleStore, pickup *types.Point, now time.Time) *Service {
	m := &mission.Mission{ID: "m-1", FestivalID: "f-1", RequestID: "r-1", DriverID: "d-1", Status: mission.StatusAccepted}
	r := &transport.Request{ID: "r-1", FestivalID: "f-1", Pickup: pickup}
	svc := NewService(store, fakeMissions{m}, fakeRequests{r}, config.TrackingConfig{FreshnessMinutes: 5, AssumedSpeedKmh: 30}, zap.NewNop())
	svc.now = func() time.Time { return now }
	return svc
}

func TestRecordFillsDriverAndTime(t *testing.T) {
	now := time.Date(2026, 7, 10, 21, 0, 0, 0, time.UTC)
	store := &fakeSampleStore{}
	svc := testService(store, nil, now)

	s := &Sample{MissionID: "m-1", Position: types.Point{Lat: 48.85, Lng: 2.35}}
	if err := svc.Record(context.Background(), "f-1", s); err != nil {
		t.Fatalf("record: %v", err)
	}
	if s.DriverID != "d-1" {
		t.Fatalf("driver id = %s, want d-1", s.DriverID)
	}
	if !s.RecordedAt.Equal(now) {
		t.Fatalf("recorded at = %v, want %v", s.RecordedAt, now)
	}
}

func TestCurrentFreshness(t *testing.T) {
	now := time.Date(2026, 7, 10, 21, 0, 0, 0, time.UTC)
	store := &fakeSampleStore{}
	svc := testService(store, nil, now)
	ctx := context.Background()

	if _, err := svc.Current(ctx, "f-1", "m-1"); !errors.Is(err, ErrNoCurrentPosition) {
		t.Fatalf("err = %v, want ErrNoCurrentPosition", err)
	}

	_ = store.Append(ctx, &Sample{MissionID: "m-1", RecordedAt: now.Add(-4 * time.Minute)})
	cur, err := svc.Current(ctx, "f-1", "m-1")
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if !cur.Fresh {
		t.Fatal("sample from 4 minutes ago should be fresh")
	}

	_ = store.Append(ctx, &Sample{MissionID: "m-1", RecordedAt: now.Add(-6 * time.Minute)})
	cur, err = svc.Current(ctx, "f-1", "m-1")
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if cur.Fresh {
		t.Fatal("sample from 6 minutes ago should be stale")
	}
}

func TestEstimate(t *testing.T) {
	now := time.Date(2026, 7, 10, 21, 0, 0, 0, time.UTC)
	pos := types.Point{Lat: 48.85, Lng: 2.35}
	pickup := &types.Point{Lat: 48.87, Lng: 2.30}
	ctx := context.Background()

	t.Run("no destination", func(t *testing.T) {
		svc := testService(&fakeSampleStore{}, nil, now)
		if _, err := svc.Estimate(ctx, "f-1", "m-1"); !errors.Is(err, ErrNoDestination) {
			t.Fatalf("err = %v, want ErrNoDestination", err)
		}
	})

	t.Run("stale sample", func(t *testing.T) {
		store := &fakeSampleStore{}
		_ = store.Append(ctx, &Sample{MissionID: "m-1", Position: pos, RecordedAt: now.Add(-10 * time.Minute)})
		svc := testService(store, pickup, now)
		if _, err := svc.Estimate(ctx, "f-1", "m-1"); !errors.Is(err, ErrNoCurrentPosition) {
			t.Fatalf("err = %v, want ErrNoCurrentPosition", err)
		}
	})

	t.Run("assumed speed", func(t *testing.T) {
		store := &fakeSampleStore{}
		_ = store.Append(ctx, &Sample{MissionID: "m-1", Position: pos, RecordedAt: now})
		svc := testService(store, pickup, now)
		est, err := svc.Estimate(ctx, "f-1", "m-1")
		if err != nil {
			t.Fatalf("estimate: %v", err)
		}
		if est.SpeedKmh != 30 {
			t.Fatalf("speed = %.1f, want assumed 30", est.SpeedKmh)
		}
		km := geo.HaversineKm(pos, *pickup)
		want := int(math.Ceil(km / 30 * 60))
		if est.ETAMinutes != want {
			t.Fatalf("eta = %d, want %d", est.ETAMinutes, want)
		}
	})

	t.Run("reported speed wins", func(t *testing.T) {
		store := &fakeSampleStore{}
		_ = store.Append(ctx, &Sample{MissionID: "m-1", Position: pos, SpeedKmh: 60, RecordedAt: now})
		svc := testService(store, pickup, now)
		est, err := svc.Estimate(ctx, "f-1", "m-1")
		if err != nil {
			t.Fatalf("estimate: %v", err)
		}
		if est.SpeedKmh != 60 {
			t.Fatalf("speed = %.1f, want 60", est.SpeedKmh)
		}
	})

	t.Run("arrived", func(t *testing.T) {
		store := &fakeSampleStore{}
		_ = store.Append(ctx, &Sample{MissionID: "m-1", Position: *pickup, RecordedAt: now})
		svc := testService(store, pickup, now)
		est, err := svc.Estimate(ctx, "f-1", "m-1")
		if err != nil {
			t.Fatalf("estimate: %v", err)
		}
		if est.Label != "Arrivée imminente" {
			t.Fatalf("label = %q", est.Label)
		}
	})
}

func TestETALabel(t *testing.T) {
	tests := []struct {
		raw  float64
		want string
	}{
		{0.2, "Arrivée imminente"},
		{0.99, "Arrivée imminente"},
		{1.0, "1 minute"},
		{8.2, "9 minutes"},
		{59.0, "59 minutes"},
		{60.0, "1h"},
		{75.5, "1h16min"},
		{120.0, "2h"},
	}
	for _, tt := range tests {
		minutes := int(math.Ceil(tt.raw))
		if got := etaLabel(tt.raw, minutes); got != tt.want {
			t.Errorf("etaLabel(%.2f) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

// README: Tracking store; Redis holds the hot latest sample, PostgreSQL the history.
package tracking

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"navette/internal/types"
)

type Store struct {
	db  *pgxpool.Pool
	rdb *redis.Client
	ttl time.Duration
}

// NewStore caches the latest sample per mission in Redis with ttl as the
// freshness window; a cache miss within the window falls back to PostgreSQL.
func NewStore(db *pgxpool.Pool, rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{db: db, rdb: rdb, ttl: ttl}
}

func latestKey(missionID types.ID) string {
	return "tracking:latest:" + string(missionID)
}

func (s *Store) Append(ctx context.Context, sample *Sample) error {
	err := s.db.QueryRow(ctx, `
        INSERT INTO location_samples (
            mission_id, driver_id, lat, lng, accuracy_m, heading_deg, speed_kmh, recorded_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id`,
		string(sample.MissionID), string(sample.DriverID),
		sample.Position.Lat, sample.Position.Lng,
		sample.AccuracyM, sample.HeadingDeg, sample.SpeedKmh, sample.RecordedAt,
	).Scan(&sample.ID)
	if err != nil {
		return err
	}

	if s.rdb != nil {
		payload, err := json.Marshal(sample)
		if err != nil {
			return err
		}
		// Cache failures are non-fatal; Latest falls back to the database.
		_ = s.rdb.Set(ctx, latestKey(sample.MissionID), payload, s.ttl).Err()
	}
	return nil
}

func (s *Store) Latest(ctx context.Context, missionID types.ID) (*Sample, error) {
	if s.rdb != nil {
		raw, err := s.rdb.Get(ctx, latestKey(missionID)).Bytes()
		if err == nil {
			var sample Sample
			if err := json.Unmarshal(raw, &sample); err == nil {
				return &sample, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			return nil, err
		}
	}

	row := s.db.QueryRow(ctx, `
        SELECT id, mission_id, driver_id, lat, lng, accuracy_m, heading_deg, speed_kmh, recorded_at
        FROM location_samples
        WHERE mission_id = $1
        ORDER BY recorded_at DESC, id DESC
        LIMIT 1`, string(missionID),
	)
	sample, err := scanSample(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoCurrentPosition
	}
	if err != nil {
		return nil, err
	}
	return sample, nil
}

func (s *Store) History(ctx context.Context, missionID types.ID, limit int) ([]Sample, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.Query(ctx, `
        SELECT id, mission_id, driver_id, lat, lng, accuracy_m, heading_deg, speed_kmh, recorded_at
        FROM location_samples
        WHERE mission_id = $1
        ORDER BY recorded_at DESC, id DESC
        LIMIT $2`, string(missionID), limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Sample
	for rows.Next() {
		sample, err := scanSample(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *sample)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSample(row rowScanner) (*Sample, error) {
	var s Sample
	err := row.Scan(
		&s.ID, &s.MissionID, &s.DriverID,
		&s.Position.Lat, &s.Position.Lng,
		&s.AccuracyM, &s.HeadingDeg, &s.SpeedKmh, &s.RecordedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

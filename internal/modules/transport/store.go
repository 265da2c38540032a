// README: Transport request store backed by PostgreSQL.
package transport

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"navette/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, r *Request) error {
	var pickupLat, pickupLng, dropoffLat, dropoffLng *float64
	if r.Pickup != nil {
		pickupLat, pickupLng = &r.Pickup.Lat, &r.Pickup.Lng
	}
	if r.Dropoff != nil {
		dropoffLat, dropoffLng = &r.Dropoff.Lat, &r.Dropoff.Lng
	}
	_, err := s.db.Exec(ctx, `
        INSERT INTO transport_requests (
            id, festival_id, requester_id, pickup_address, dropoff_address,
            pickup_lat, pickup_lng, dropoff_lat, dropoff_lng,
            requested_at, passenger_count, transport_type, status, status_version, created_at
        ) VALUES (
            $1, $2, $3, $4, $5,
            $6, $7, $8, $9,
            $10, $11, $12, $13, $14, $15
        )`,
		string(r.ID), string(r.FestivalID), string(r.RequesterID),
		r.PickupAddress, r.DropoffAddress,
		pickupLat, pickupLng, dropoffLat, dropoffLng,
		r.RequestedAt, r.PassengerCount, r.TransportType,
		string(r.Status), r.StatusVersion, r.CreatedAt,
	)
	return err
}

const requestColumns = `
        id, festival_id, requester_id, pickup_address, dropoff_address,
        pickup_lat, pickup_lng, dropoff_lat, dropoff_lng,
        requested_at, passenger_count, transport_type, status, status_version,
        created_at, cancelled_at`

func (s *Store) Get(ctx context.Context, festivalID, id types.ID) (*Request, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+requestColumns+` FROM transport_requests WHERE id = $1 AND festival_id = $2`,
		string(id), string(festivalID),
	)
	r, err := scanRequest(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// ListByFestival returns the festival's requests ordered by pickup time.
// status filters when non-empty.
func (s *Store) ListByFestival(ctx context.Context, festivalID types.ID, status Status) ([]Request, error) {
	query := `SELECT ` + requestColumns + ` FROM transport_requests WHERE festival_id = $1`
	args := []any{string(festivalID)}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, string(status))
	}
	query += ` ORDER BY requested_at, id`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Request
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRequest(row rowScanner) (*Request, error) {
	var r Request
	var pickupLat, pickupLng, dropoffLat, dropoffLng *float64
	var cancelledAt *time.Time

	err := row.Scan(
		&r.ID, &r.FestivalID, &r.RequesterID, &r.PickupAddress, &r.DropoffAddress,
		&pickupLat, &pickupLng, &dropoffLat, &dropoffLng,
		&r.RequestedAt, &r.PassengerCount, &r.TransportType, &r.Status, &r.StatusVersion,
		&r.CreatedAt, &cancelledAt,
	)
	if err != nil {
		return nil, err
	}

	if pickupLat != nil && pickupLng != nil {
		r.Pickup = &types.Point{Lat: *pickupLat, Lng: *pickupLng}
	}
	if dropoffLat != nil && dropoffLng != nil {
		r.Dropoff = &types.Point{Lat: *dropoffLat, Lng: *dropoffLng}
	}
	r.CancelledAt = cancelledAt
	return &r, nil
}

// Cancel flips a request to cancelled with an optimistic status check so a
// concurrent assignment or transition loses cleanly. Any non-terminal mission
// still attached to the request is declined in the same transaction, otherwise
// it would keep blocking the driver's window.
func (s *Store) Cancel(ctx context.Context, id types.ID, from Status, version int) (bool, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
        UPDATE transport_requests
        SET status = 'cancelled',
            status_version = status_version + 1,
            cancelled_at = NOW()
        WHERE id = $1 AND status = $2 AND status_version = $3`,
		string(id), string(from), version,
	)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() != 1 {
		return false, nil
	}

	if _, err := tx.Exec(ctx, `
        UPDATE missions
        SET status = 'declined',
            status_version = status_version + 1,
            declined_at = NOW(),
            decline_reason = COALESCE(decline_reason, 'Demande annulée')
        WHERE request_id = $1 AND status IN ('proposed', 'accepted')`,
		string(id),
	); err != nil {
		return false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}

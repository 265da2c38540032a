// README: Mission store backed by PostgreSQL; owns the two transactional commit paths.
package mission

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"navette/internal/modules/transport"
	"navette/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

var _ Storage = (*Store)(nil)

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

const missionColumns = `
        id, festival_id, request_id, driver_id, status, status_version,
        method, score, assigned_by, proposed_at,
        accepted_at, declined_at, started_at, completed_at, decline_reason`

func (s *Store) Get(ctx context.Context, id types.ID) (*Mission, error) {
	row := s.db.QueryRow(ctx, `SELECT `+missionColumns+` FROM missions WHERE id = $1`, string(id))
	m, err := scanMission(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Store) ListByDriver(ctx context.Context, festivalID, driverID types.ID) ([]Mission, error) {
	rows, err := s.db.Query(ctx, `
        SELECT `+missionColumns+`
        FROM missions
        WHERE festival_id = $1 AND driver_id = $2
        ORDER BY proposed_at DESC`, string(festivalID), string(driverID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Mission
	for rows.Next() {
		m, err := scanMission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

// CountActiveInWindow is the workload counter: per driver, the number of
// non-terminal missions whose request falls inside at±buffer.
func (s *Store) CountActiveInWindow(ctx context.Context, festivalID types.ID, at time.Time, buffer time.Duration) (map[types.ID]int, error) {
	rows, err := s.db.Query(ctx, `
        SELECT m.driver_id, COUNT(*)
        FROM missions m
        JOIN transport_requests r ON r.id = m.request_id
        WHERE m.festival_id = $1
          AND m.status IN ('proposed', 'accepted', 'in_progress')
          AND r.requested_at BETWEEN $2 AND $3
        GROUP BY m.driver_id`,
		string(festivalID), at.Add(-buffer), at.Add(buffer),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[types.ID]int)
	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		counts[types.ID(id)] = n
	}
	return counts, rows.Err()
}

// CreateAssigned commits a new proposed mission and flips the request from
// pending to assigned as one transaction. A per-driver advisory lock
// serializes concurrent assignments for the same driver, and the workload
// guard is re-checked under that lock; losing either check returns
// ErrConflict and leaves no partial state.
func (s *Store) CreateAssigned(ctx context.Context, m *Mission, req *transport.Request, buffer time.Duration) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, string(m.DriverID)); err != nil {
		return err
	}

	var overlapping int
	err = tx.QueryRow(ctx, `
        SELECT COUNT(*)
        FROM missions m
        JOIN transport_requests r ON r.id = m.request_id
        WHERE m.driver_id = $1
          AND m.status IN ('proposed', 'accepted', 'in_progress')
          AND r.requested_at BETWEEN $2 AND $3`,
		string(m.DriverID), req.RequestedAt.Add(-buffer), req.RequestedAt.Add(buffer),
	).Scan(&overlapping)
	if err != nil {
		return err
	}
	if overlapping > 0 {
		return ErrConflict
	}

	_, err = tx.Exec(ctx, `
        INSERT INTO missions (
            id, festival_id, request_id, driver_id, status, status_version,
            method, score, assigned_by, proposed_at
        ) VALUES ($1, $2, $3, $4, $5, 0, $6, $7, $8, $9)`,
		string(m.ID), string(m.FestivalID), string(m.RequestID), string(m.DriverID),
		string(m.Status), string(m.Method), m.Score, string(m.AssignedBy), m.ProposedAt,
	)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
        UPDATE transport_requests
        SET status = 'assigned', status_version = status_version + 1
        WHERE id = $1 AND status = 'pending' AND status_version = $2`,
		string(req.ID), req.StatusVersion,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() != 1 {
		return ErrConflict
	}

	return tx.Commit(ctx)
}

type TransitionCommand struct {
	MissionID         types.ID
	From, To          Status
	FromVersion       int
	RequestID         types.ID
	RequestFromStatus transport.Status
	RequestStatus     transport.Status
	DriverID          types.ID
	DeclineReason     *string
}

// Transition applies one lifecycle step: the mission row moves with an
// optimistic status+version check, the request status mirrors it, and a
// completion bumps the driver's lifetime counters. All inside one
// transaction; a lost optimistic check reports ok=false with nothing written.
func (s *Store) Transition(ctx context.Context, cmd TransitionCommand) (bool, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
        UPDATE missions
        SET status = $1,
            status_version = status_version + 1,
            accepted_at  = CASE WHEN $1 = 'accepted'    THEN NOW() ELSE accepted_at END,
            declined_at  = CASE WHEN $1 = 'declined'    THEN NOW() ELSE declined_at END,
            started_at   = CASE WHEN $1 = 'in_progress' THEN NOW() ELSE started_at END,
            completed_at = CASE WHEN $1 = 'completed'   THEN NOW() ELSE completed_at END,
            decline_reason = COALESCE($2, decline_reason)
        WHERE id = $3 AND status = $4 AND status_version = $5`,
		string(cmd.To), cmd.DeclineReason, string(cmd.MissionID), string(cmd.From), cmd.FromVersion,
	)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() != 1 {
		return false, nil
	}

	// The request must still mirror the mission's prior state; a request
	// cancelled in the meantime stays cancelled and the whole step rolls back.
	reqTag, err := tx.Exec(ctx, `
        UPDATE transport_requests
        SET status = $1, status_version = status_version + 1
        WHERE id = $2 AND status = $3`,
		string(cmd.RequestStatus), string(cmd.RequestID), string(cmd.RequestFromStatus),
	)
	if err != nil {
		return false, err
	}
	if reqTag.RowsAffected() != 1 {
		return false, nil
	}

	if cmd.To == StatusCompleted {
		if _, err := tx.Exec(ctx, `
            UPDATE drivers
            SET completed_missions = completed_missions + 1,
                total_missions = total_missions + 1
            WHERE id = $1`,
			string(cmd.DriverID),
		); err != nil {
			return false, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMission(row rowScanner) (*Mission, error) {
	var m Mission
	err := row.Scan(
		&m.ID, &m.FestivalID, &m.RequestID, &m.DriverID, &m.Status, &m.StatusVersion,
		&m.Method, &m.Score, &m.AssignedBy, &m.ProposedAt,
		&m.AcceptedAt, &m.DeclinedAt, &m.StartedAt, &m.CompletedAt, &m.DeclineReason,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

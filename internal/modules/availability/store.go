// README: Availability store backed by PostgreSQL.
package availability

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"navette/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Upsert(ctx context.Context, a Availability) error {
	_, err := s.db.Exec(ctx, `
        INSERT INTO availabilities (driver_id, festival_id, day, slot, available)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (driver_id, day, slot)
        DO UPDATE SET available = EXCLUDED.available`,
		string(a.DriverID), string(a.FestivalID), a.Day, string(a.Slot), a.Available,
	)
	return err
}

func (s *Store) Clear(ctx context.Context, festivalID, driverID types.ID, day time.Time, slot Slot) error {
	_, err := s.db.Exec(ctx, `
        DELETE FROM availabilities
        WHERE festival_id = $1 AND driver_id = $2 AND day = $3 AND slot = $4`,
		string(festivalID), string(driverID), day, string(slot),
	)
	return err
}

// AvailableSet returns the ids of drivers marked available for the given
// day and slot. Drivers absent from the result have unknown availability
// and must be scored as unavailable.
func (s *Store) AvailableSet(ctx context.Context, festivalID types.ID, day time.Time, slot Slot) (map[types.ID]bool, error) {
	rows, err := s.db.Query(ctx, `
        SELECT driver_id FROM availabilities
        WHERE festival_id = $1 AND day = $2 AND slot = $3 AND available`,
		string(festivalID), day, string(slot),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	set := make(map[types.ID]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		set[types.ID(id)] = true
	}
	return set, rows.Err()
}

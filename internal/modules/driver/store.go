// README: Driver store backed by PostgreSQL.
package driver

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"navette/internal/types"
)

var ErrNotFound = errors.New("driver not found")

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Get(ctx context.Context, festivalID, id types.ID) (*Driver, error) {
	row := s.db.QueryRow(ctx, `
        SELECT id, festival_id, full_name, phone, home_lat, home_lng,
               preferences, completed_missions, total_missions, created_at
        FROM drivers
        WHERE id = $1 AND festival_id = $2`, string(id), string(festivalID),
	)
	d, err := scanDriver(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

// ListByFestival returns the full roster in creation order. The scorer relies
// on this order being stable so that score ties resolve deterministically.
func (s *Store) ListByFestival(ctx context.Context, festivalID types.ID) ([]Driver, error) {
	rows, err := s.db.Query(ctx, `
        SELECT id, festival_id, full_name, phone, home_lat, home_lng,
               preferences, completed_missions, total_missions, created_at
        FROM drivers
        WHERE festival_id = $1
        ORDER BY created_at, id`, string(festivalID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Driver
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDriver(row rowScanner) (*Driver, error) {
	var d Driver
	var homeLat, homeLng *float64
	err := row.Scan(
		&d.ID, &d.FestivalID, &d.FullName, &d.Phone, &homeLat, &homeLng,
		&d.Preferences, &d.Completed, &d.Total, &d.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if homeLat != nil && homeLng != nil {
		d.Home = &types.Point{Lat: *homeLat, Lng: *homeLng}
	}
	return &d, nil
}

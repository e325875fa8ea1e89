package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/IngAlexfit/caribeVibes-system-sub000/internal/model"
)

// DestinationRepo reads destination reference data for the public
// catalogue endpoints.
type DestinationRepo struct {
	db *sql.DB
}

// NewDestinationRepo returns a new DestinationRepo bound to the given database.
func NewDestinationRepo(db *sql.DB) *DestinationRepo { return &DestinationRepo{db: db} }

// ErrDestinationNotFound is returned for missing or inactive destinations.
var ErrDestinationNotFound = errors.New("destination not found")

const destinationCols = `id, name, country, description, is_active, created_at`

func scanDestination(rs rowScanner) (model.Destination, error) {
	var d model.Destination
	err := rs.Scan(&d.ID, &d.Name, &d.Country, &d.Description, &d.IsActive, &d.CreatedAt)
	return d, err
}

// GetByID returns an active destination.
func (r *DestinationRepo) GetByID(ctx context.Context, id uint64) (model.Destination, error) {
	q := `SELECT ` + destinationCols + ` FROM destinations WHERE id = ? AND is_active = 1`
	d, err := scanDestination(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Destination{}, ErrDestinationNotFound
	}
	return d, err
}

// List returns all active destinations ordered by name.
func (r *DestinationRepo) List(ctx context.Context) ([]model.Destination, error) {
	q := `SELECT ` + destinationCols + ` FROM destinations WHERE is_active = 1 ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Destination, 0)
	for rows.Next() {
		d, err := scanDestination(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

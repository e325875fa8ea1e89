package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/IngAlexfit/caribeVibes-system-sub000/internal/booking"
	"github.com/IngAlexfit/caribeVibes-system-sub000/internal/model"
)

// ActivityRepo reads catalogue activities.  The booking engine copies
// an activity's price onto attachments at attachment time, so this
// repository is strictly read-only from the engine's point of view.
type ActivityRepo struct {
	db *sql.DB
}

// NewActivityRepo returns a new ActivityRepo bound to the given database.
func NewActivityRepo(db *sql.DB) *ActivityRepo { return &ActivityRepo{db: db} }

const activityCols = `id, destination_id, name, description, price, is_available, created_at`

func scanActivity(rs rowScanner) (model.Activity, error) {
	var (
		a     model.Activity
		price []byte
	)
	err := rs.Scan(&a.ID, &a.DestinationID, &a.Name, &a.Description,
		&price, &a.IsAvailable, &a.CreatedAt)
	if err != nil {
		return model.Activity{}, err
	}
	a.PriceCents, err = booking.ParseCents(string(price))
	return a, err
}

// GetByID returns an available activity; unavailable activities read
// as not found so they cannot be attached to bookings.
func (r *ActivityRepo) GetByID(ctx context.Context, id uint64) (model.Activity, error) {
	q := `SELECT ` + activityCols + ` FROM activities WHERE id = ? AND is_available = 1`
	a, err := scanActivity(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Activity{}, booking.ErrActivityNotFound
	}
	return a, err
}

// List returns available activities, optionally filtered by
// destination (destinationID = 0 means all), ordered by name.
func (r *ActivityRepo) List(ctx context.Context, destinationID uint64) ([]model.Activity, error) {
	q := `SELECT ` + activityCols + ` FROM activities WHERE is_available = 1`
	args := []interface{}{}
	if destinationID != 0 {
		q += ` AND destination_id = ?`
		args = append(args, destinationID)
	}
	q += ` ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Activity, 0)
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

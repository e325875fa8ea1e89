package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/IngAlexfit/caribeVibes-system-sub000/internal/booking"
	"github.com/IngAlexfit/caribeVibes-system-sub000/internal/model"
)

// HotelRepo reads hotel reference data for the catalogue endpoints and
// for booking validation.
type HotelRepo struct {
	db *sql.DB
}

// NewHotelRepo returns a new HotelRepo bound to the given database.
func NewHotelRepo(db *sql.DB) *HotelRepo { return &HotelRepo{db: db} }

const hotelCols = `id, destination_id, name, description, address, stars, is_active, created_at`

func scanHotel(rs rowScanner) (model.Hotel, error) {
	var h model.Hotel
	err := rs.Scan(&h.ID, &h.DestinationID, &h.Name, &h.Description,
		&h.Address, &h.Stars, &h.IsActive, &h.CreatedAt)
	return h, err
}

// GetByID returns an active hotel; inactive hotels read as not found.
func (r *HotelRepo) GetByID(ctx context.Context, id uint64) (model.Hotel, error) {
	q := `SELECT ` + hotelCols + ` FROM hotels WHERE id = ? AND is_active = 1`
	h, err := scanHotel(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Hotel{}, booking.ErrHotelNotFound
	}
	return h, err
}

// List returns active hotels, optionally filtered by destination
// (destinationID = 0 means all), ordered by name.
func (r *HotelRepo) List(ctx context.Context, destinationID uint64) ([]model.Hotel, error) {
	q := `SELECT ` + hotelCols + ` FROM hotels WHERE is_active = 1`
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
	out := make([]model.Hotel, 0)
	for rows.Next() {
		h, err := scanHotel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

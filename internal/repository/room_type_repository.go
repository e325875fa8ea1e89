package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/IngAlexfit/caribeVibes-system-sub000/internal/booking"
	"github.com/IngAlexfit/caribeVibes-system-sub000/internal/model"
)

// RoomTypeRepo reads room-type reference data.  The booking engine
// treats room types as read-only: capacity is always derived from the
// overlap scan, never from a cached availability counter on the row.
type RoomTypeRepo struct {
	db *sql.DB
}

// NewRoomTypeRepo returns a new RoomTypeRepo bound to the given database.
func NewRoomTypeRepo(db *sql.DB) *RoomTypeRepo { return &RoomTypeRepo{db: db} }

const roomTypeCols = `id, hotel_id, name, description, max_guests,
       price_per_night, total_rooms, is_active, created_at`

func scanRoomType(rs rowScanner) (model.RoomType, error) {
	var (
		rt    model.RoomType
		price []byte
	)
	err := rs.Scan(&rt.ID, &rt.HotelID, &rt.Name, &rt.Description, &rt.MaxGuests,
		&price, &rt.TotalRooms, &rt.IsActive, &rt.CreatedAt)
	if err != nil {
		return model.RoomType{}, err
	}
	rt.PricePerNightCents, err = booking.ParseCents(string(price))
	return rt, err
}

// GetByID returns an active room type.  Inactive room types are
// reported as not found so they never participate in availability.
func (r *RoomTypeRepo) GetByID(ctx context.Context, id uint64) (model.RoomType, error) {
	q := `SELECT ` + roomTypeCols + ` FROM room_types WHERE id = ? AND is_active = 1`
	rt, err := scanRoomType(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.RoomType{}, booking.ErrRoomTypeNotFound
	}
	return rt, err
}

// ListByHotel returns the hotel's active room types ordered by name.
func (r *RoomTypeRepo) ListByHotel(ctx context.Context, hotelID uint64) ([]model.RoomType, error) {
	q := `SELECT ` + roomTypeCols + ` FROM room_types
          WHERE hotel_id = ? AND is_active = 1 ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.RoomType, 0)
	for rows.Next() {
		rt, err := scanRoomType(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rt)
	}
	return out, rows.Err()
}

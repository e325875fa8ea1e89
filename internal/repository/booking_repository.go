package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/IngAlexfit/caribeVibes-system-sub000/internal/booking"
	"github.com/IngAlexfit/caribeVibes-system-sub000/internal/model"
)

// BookingRepo provides CRUD and query operations for bookings and
// their activity attachments.  Price columns are DECIMAL(10,2) and are
// converted to integer cents at this boundary; date columns are DATE
// and come back as UTC-midnight time.Time values via parseTime.  All
// mutations of the booking aggregate flow through InTx so the engine
// controls transaction scope and locking.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const dateLayout = "2006-01-02"

const bookingCols = `id, user_id, hotel_id, destination_id, room_type_id,
       check_in_date, check_out_date, num_rooms, num_guests,
       accommodation_price, activities_price, total_price,
       status, confirmation_code, special_requests, is_active,
       created_at, updated_at`

const attachmentCols = `id, booking_id, activity_id, scheduled_date, quantity,
       price_per_person, total_price, status, is_active, created_at`

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(rs rowScanner) (model.Booking, error) {
	var (
		b               model.Booking
		status          string
		acc, act, total []byte
		special         sql.NullString
	)
	err := rs.Scan(
		&b.ID, &b.UserID, &b.HotelID, &b.DestinationID, &b.RoomTypeID,
		&b.CheckInDate, &b.CheckOutDate, &b.NumRooms, &b.NumGuests,
		&acc, &act, &total,
		&status, &b.ConfirmationCode, &special, &b.IsActive,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return model.Booking{}, err
	}
	b.Status = model.BookingStatus(status)
	if special.Valid {
		b.SpecialRequests = special.String
	}
	if b.AccommodationCents, err = booking.ParseCents(string(acc)); err != nil {
		return model.Booking{}, err
	}
	if b.ActivitiesCents, err = booking.ParseCents(string(act)); err != nil {
		return model.Booking{}, err
	}
	if b.TotalPriceCents, err = booking.ParseCents(string(total)); err != nil {
		return model.Booking{}, err
	}
	return b, nil
}

func scanAttachment(rs rowScanner) (model.BookingActivity, error) {
	var (
		a          model.BookingActivity
		status     string
		per, total []byte
	)
	err := rs.Scan(
		&a.ID, &a.BookingID, &a.ActivityID, &a.ScheduledDate, &a.Quantity,
		&per, &total, &status, &a.IsActive, &a.CreatedAt,
	)
	if err != nil {
		return model.BookingActivity{}, err
	}
	a.Status = model.ActivityStatus(status)
	if a.PricePerPersonCents, err = booking.ParseCents(string(per)); err != nil {
		return model.BookingActivity{}, err
	}
	if a.TotalCents, err = booking.ParseCents(string(total)); err != nil {
		return model.BookingActivity{}, err
	}
	return a, nil
}

// isDuplicateKey reports whether the error is MySQL ER_DUP_ENTRY.
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}

// InTx runs fn inside a transaction, implementing booking.Store.  The
// transaction commits only when fn returns nil; any error rolls the
// whole unit of work back, so a booking is never persisted with a
// partial price or status update.
func (r *BookingRepo) InTx(ctx context.Context, fn func(booking.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(&bookingTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// bookingTx implements booking.Tx over a live *sql.Tx.
type bookingTx struct {
	tx *sql.Tx
}

// RoomTypeForUpdate loads a room type and takes its row lock for the
// remainder of the transaction.  This lock is what serializes the
// availability check against concurrent inserts for the same room
// type; it is held until commit or rollback.
func (t *bookingTx) RoomTypeForUpdate(ctx context.Context, id uint64) (model.RoomType, error) {
	const q = `SELECT id, hotel_id, name, description, max_guests,
                      price_per_night, total_rooms, is_active, created_at
               FROM room_types WHERE id = ? AND is_active = 1 FOR UPDATE`
	var (
		rt    model.RoomType
		price []byte
	)
	err := t.tx.QueryRowContext(ctx, q, id).Scan(
		&rt.ID, &rt.HotelID, &rt.Name, &rt.Description, &rt.MaxGuests,
		&price, &rt.TotalRooms, &rt.IsActive, &rt.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.RoomType{}, booking.ErrRoomTypeNotFound
	}
	if err != nil {
		return model.RoomType{}, err
	}
	if rt.PricePerNightCents, err = booking.ParseCents(string(price)); err != nil {
		return model.RoomType{}, err
	}
	return rt, nil
}

// CommittedRooms sums num_rooms over capacity-consuming bookings of
// the room type overlapping [checkIn, checkOut).  Two ranges overlap
// unless one ends at or before the other starts, so adjacent stays do
// not collide.  Pending bookings deliberately do not count.
func (t *bookingTx) CommittedRooms(ctx context.Context, roomTypeID uint64, checkIn, checkOut time.Time, excludeBookingID uint64) (int, error) {
	const q = `SELECT COALESCE(SUM(num_rooms), 0)
               FROM bookings
               WHERE room_type_id = ?
                 AND is_active = 1
                 AND status IN ('CONFIRMED', 'CHECKED_IN')
                 AND check_in_date < ?
                 AND check_out_date > ?
                 AND id <> ?`
	var committed int
	err := t.tx.QueryRowContext(ctx, q,
		roomTypeID,
		checkOut.Format(dateLayout),
		checkIn.Format(dateLayout),
		excludeBookingID,
	).Scan(&committed)
	return committed, err
}

// InsertBooking persists a new booking and populates generated fields.
// A duplicate confirmation code surfaces as booking.ErrCodeTaken so
// the engine can regenerate and retry.
func (t *bookingTx) InsertBooking(ctx context.Context, b *model.Booking) error {
	const q = `INSERT INTO bookings
               (user_id, hotel_id, destination_id, room_type_id,
                check_in_date, check_out_date, num_rooms, num_guests,
                accommodation_price, activities_price, total_price,
                status, confirmation_code, special_requests, is_active)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := t.tx.ExecContext(ctx, q,
		b.UserID, b.HotelID, b.DestinationID, b.RoomTypeID,
		b.CheckInDate.Format(dateLayout), b.CheckOutDate.Format(dateLayout),
		b.NumRooms, b.NumGuests,
		booking.FormatCents(b.AccommodationCents),
		booking.FormatCents(b.ActivitiesCents),
		booking.FormatCents(b.TotalPriceCents),
		string(b.Status), b.ConfirmationCode, b.SpecialRequests, b.IsActive,
	)
	if err != nil {
		if isDuplicateKey(err) {
			return booking.ErrCodeTaken
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	// Query back timestamps populated by the database.
	return t.tx.QueryRowContext(ctx,
		`SELECT created_at, updated_at FROM bookings WHERE id = ?`, b.ID,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
}

// BookingForUpdate loads an active booking and locks its row, which
// serializes status transitions and attach/detach/reprice operations
// on the same booking.
func (t *bookingTx) BookingForUpdate(ctx context.Context, id uint64) (model.Booking, error) {
	const q = `SELECT ` + bookingCols + ` FROM bookings
	           WHERE id = ? AND is_active = 1 FOR UPDATE`
	b, err := scanBooking(t.tx.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Booking{}, booking.ErrBookingNotFound
	}
	return b, err
}

// UpdateStay rewrites the stay fields and all three price columns in a
// single statement.
func (t *bookingTx) UpdateStay(ctx context.Context, b *model.Booking) error {
	const q = `UPDATE bookings
               SET check_in_date = ?, check_out_date = ?,
                   num_rooms = ?, num_guests = ?, special_requests = ?,
                   accommodation_price = ?, activities_price = ?, total_price = ?
               WHERE id = ? AND is_active = 1`
	_, err := t.tx.ExecContext(ctx, q,
		b.CheckInDate.Format(dateLayout), b.CheckOutDate.Format(dateLayout),
		b.NumRooms, b.NumGuests, b.SpecialRequests,
		booking.FormatCents(b.AccommodationCents),
		booking.FormatCents(b.ActivitiesCents),
		booking.FormatCents(b.TotalPriceCents),
		b.ID,
	)
	return err
}

// TransitionStatus performs the guarded lifecycle write.  The source
// statuses are part of the WHERE clause, so the status check and the
// status write are one atomic statement: of two racing transitions at
// most one sees an affected row.
func (t *bookingTx) TransitionStatus(ctx context.Context, id uint64, from []model.BookingStatus, to model.BookingStatus, deactivate bool) (bool, error) {
	if len(from) == 0 {
		return false, nil
	}
	set := `status = ?`
	if deactivate {
		set += `, is_active = 0`
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(from)), ",")
	q := `UPDATE bookings SET ` + set +
		` WHERE id = ? AND is_active = 1 AND status IN (` + placeholders + `)`
	args := make([]interface{}, 0, len(from)+2)
	args = append(args, string(to), id)
	for _, f := range from {
		args = append(args, string(f))
	}
	res, err := t.tx.ExecContext(ctx, q, args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// InsertAttachment persists a new activity attachment and populates
// its generated ID and creation timestamp.
func (t *bookingTx) InsertAttachment(ctx context.Context, a *model.BookingActivity) error {
	const q = `INSERT INTO booking_activities
               (booking_id, activity_id, scheduled_date, quantity,
                price_per_person, total_price, status, is_active)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := t.tx.ExecContext(ctx, q,
		a.BookingID, a.ActivityID, a.ScheduledDate.Format(dateLayout), a.Quantity,
		booking.FormatCents(a.PricePerPersonCents),
		booking.FormatCents(a.TotalCents),
		string(a.Status), a.IsActive,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return t.tx.QueryRowContext(ctx,
		`SELECT created_at FROM booking_activities WHERE id = ?`, a.ID,
	).Scan(&a.CreatedAt)
}

// AttachmentByID loads an attachment regardless of its logical-active
// flag so the caller can tell "already detached" from "never existed".
func (t *bookingTx) AttachmentByID(ctx context.Context, id uint64) (model.BookingActivity, error) {
	q := `SELECT ` + attachmentCols + ` FROM booking_activities WHERE id = ?`
	a, err := scanAttachment(t.tx.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.BookingActivity{}, booking.ErrAttachmentNotFound
	}
	return a, err
}

// DeactivateAttachment logically deletes an attachment.  The row is
// kept so booking history and the detached line remain auditable.
func (t *bookingTx) DeactivateAttachment(ctx context.Context, id uint64) error {
	_, err := t.tx.ExecContext(ctx,
		`UPDATE booking_activities SET is_active = 0, status = 'CANCELLED' WHERE id = ?`, id)
	return err
}

// ActivitiesTotal sums the line totals of the booking's active
// attachments.  Each line was rounded when it was written, so this sum
// is a sum of already-rounded amounts.
func (t *bookingTx) ActivitiesTotal(ctx context.Context, bookingID uint64) (int64, error) {
	var total []byte
	err := t.tx.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(total_price), 0)
         FROM booking_activities WHERE booking_id = ? AND is_active = 1`,
		bookingID,
	).Scan(&total)
	if err != nil {
		return 0, err
	}
	return booking.ParseCents(string(total))
}

// UpdatePrices rewrites the three price columns in one statement.
func (t *bookingTx) UpdatePrices(ctx context.Context, id uint64, accommodationCents, activitiesCents, totalCents int64) error {
	_, err := t.tx.ExecContext(ctx,
		`UPDATE bookings SET accommodation_price = ?, activities_price = ?, total_price = ? WHERE id = ?`,
		booking.FormatCents(accommodationCents),
		booking.FormatCents(activitiesCents),
		booking.FormatCents(totalCents),
		id,
	)
	return err
}

// ----- read-side queries (outside engine transactions) -----

// GetByID returns an active booking by its internal identifier.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (model.Booking, error) {
	q := `SELECT ` + bookingCols + ` FROM bookings WHERE id = ? AND is_active = 1`
	b, err := scanBooking(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Booking{}, booking.ErrBookingNotFound
	}
	return b, err
}

// GetByIDForUser returns an active booking enforcing ownership.  When
// the booking exists but belongs to a different user, ErrForbidden is
// returned.
func (r *BookingRepo) GetByIDForUser(ctx context.Context, id, userID uint64) (model.Booking, error) {
	b, err := r.GetByID(ctx, id)
	if err != nil {
		return model.Booking{}, err
	}
	if b.UserID != userID {
		return model.Booking{}, ErrForbidden
	}
	return b, nil
}

// GetByConfirmationCode returns an active booking by its
// human-facing confirmation code.
func (r *BookingRepo) GetByConfirmationCode(ctx context.Context, code string) (model.Booking, error) {
	q := `SELECT ` + bookingCols + ` FROM bookings WHERE confirmation_code = ? AND is_active = 1`
	b, err := scanBooking(r.db.QueryRowContext(ctx, q, code))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Booking{}, booking.ErrBookingNotFound
	}
	return b, err
}

func (r *BookingRepo) list(ctx context.Context, where string, page, size int, args ...interface{}) ([]model.Booking, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}
	q := `SELECT ` + bookingCols + ` FROM bookings WHERE ` + where +
		` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, size, (page-1)*size)
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// ListByUser returns the requester's active bookings, newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64, page, size int) ([]model.Booking, error) {
	return r.list(ctx, `user_id = ? AND is_active = 1`, page, size, userID)
}

// ListActive returns all active bookings.
func (r *BookingRepo) ListActive(ctx context.Context, page, size int) ([]model.Booking, error) {
	return r.list(ctx, `is_active = 1`, page, size)
}

// ListByStatus returns active bookings in the given status.
func (r *BookingRepo) ListByStatus(ctx context.Context, status model.BookingStatus, page, size int) ([]model.Booking, error) {
	return r.list(ctx, `status = ? AND is_active = 1`, page, size, string(status))
}

// ListByDateWindow returns active bookings whose stay overlaps the
// half-open window [from, to), using the same interval test as the
// availability scan.
func (r *BookingRepo) ListByDateWindow(ctx context.Context, from, to time.Time, page, size int) ([]model.Booking, error) {
	return r.list(ctx, `check_in_date < ? AND check_out_date > ? AND is_active = 1`,
		page, size, to.Format(dateLayout), from.Format(dateLayout))
}

// ListUpcoming returns confirmed bookings checking in within the next
// seven days of the given reference date.
func (r *BookingRepo) ListUpcoming(ctx context.Context, today time.Time, page, size int) ([]model.Booking, error) {
	return r.list(ctx,
		`check_in_date >= ? AND check_in_date < ? AND status = 'CONFIRMED' AND is_active = 1`,
		page, size,
		today.Format(dateLayout), today.AddDate(0, 0, 7).Format(dateLayout))
}

// GetAttachment returns an activity attachment regardless of its
// logical-active flag.
func (r *BookingRepo) GetAttachment(ctx context.Context, id uint64) (model.BookingActivity, error) {
	q := `SELECT ` + attachmentCols + ` FROM booking_activities WHERE id = ?`
	a, err := scanAttachment(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.BookingActivity{}, booking.ErrAttachmentNotFound
	}
	return a, err
}

// ListAttachments returns the booking's active activity attachments in
// insertion order.
func (r *BookingRepo) ListAttachments(ctx context.Context, bookingID uint64) ([]model.BookingActivity, error) {
	q := `SELECT ` + attachmentCols + ` FROM booking_activities
          WHERE booking_id = ? AND is_active = 1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.BookingActivity, 0)
	for rows.Next() {
		a, err := scanAttachment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

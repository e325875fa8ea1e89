// Package booking implements the reservation engine: room-availability
// checking over overlapping date windows, price bookkeeping, the
// booking status lifecycle and the activity attachment ledger.  It
// talks to storage through the narrow Store/Tx interfaces so the
// decision logic stays independent of MySQL and testable in isolation.
package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/IngAlexfit/caribeVibes-system-sub000/internal/model"
)

// Sentinel errors surfaced to handlers.  Not-found values cover both
// missing and inactive records: the caller must not be able to tell a
// tombstoned row from an absent one.
var (
	ErrBookingNotFound    = errors.New("booking not found")
	ErrRoomTypeNotFound   = errors.New("room type not found")
	ErrHotelNotFound      = errors.New("hotel not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrActivityNotFound   = errors.New("activity not found")
	ErrAttachmentNotFound = errors.New("booking activity not found")

	// ErrNoCapacity means the overlap scan found too few free units.
	ErrNoCapacity = errors.New("not enough rooms available for the selected dates")

	// ErrCodeTaken reports a confirmation-code collision on insert.
	// The engine retries internally; it escapes only after the retry
	// budget is exhausted.
	ErrCodeTaken = errors.New("confirmation code already in use")

	// ErrNotEditable rejects mutations of cancelled/completed bookings.
	ErrNotEditable = errors.New("booking can no longer be modified")

	// ErrInvalid is the base error for request validation failures.
	ErrInvalid = errors.New("invalid booking request")
)

// codeRetries bounds how many fresh confirmation codes are attempted
// before a collision is surfaced as a server error.
const codeRetries = 5

// lockTTL is the lease duration of the per-room-type creation lock.
const lockTTL = 5 * time.Second

func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// Store opens a unit of work.  The callback either completes fully or
// not at all; returning an error rolls everything back.
type Store interface {
	InTx(ctx context.Context, fn func(Tx) error) error
}

// Tx is the set of persistence operations available inside one unit of
// work.  Implementations must guarantee that RoomTypeForUpdate and
// BookingForUpdate take row locks held until commit, because they are
// the serialization points for the check-then-insert and the
// attach/detach reprice respectively.
type Tx interface {
	// RoomTypeForUpdate loads and row-locks a room type.  It returns
	// ErrRoomTypeNotFound for missing or inactive rows.
	RoomTypeForUpdate(ctx context.Context, id uint64) (model.RoomType, error)

	// CommittedRooms sums the room counts of capacity-consuming
	// bookings of the room type whose stay overlaps the half-open
	// window [checkIn, checkOut).  excludeBookingID, when non-zero,
	// removes one booking from the scan (used by stay edits).
	CommittedRooms(ctx context.Context, roomTypeID uint64, checkIn, checkOut time.Time, excludeBookingID uint64) (int, error)

	// InsertBooking persists a new booking, populating its ID and
	// CreatedAt.  A confirmation-code collision yields ErrCodeTaken.
	InsertBooking(ctx context.Context, b *model.Booking) error

	// BookingForUpdate loads and row-locks an active booking.
	BookingForUpdate(ctx context.Context, id uint64) (model.Booking, error)

	// UpdateStay rewrites a booking's stay fields and price columns.
	UpdateStay(ctx context.Context, b *model.Booking) error

	// TransitionStatus atomically moves a booking from any of the
	// listed statuses into the target status, optionally clearing the
	// logical-active flag.  It reports false when the booking is
	// missing, inactive, or not in an allowed source status.
	TransitionStatus(ctx context.Context, id uint64, from []model.BookingStatus, to model.BookingStatus, deactivate bool) (bool, error)

	// InsertAttachment persists a new activity attachment.
	InsertAttachment(ctx context.Context, a *model.BookingActivity) error

	// AttachmentByID loads an attachment regardless of its
	// logical-active flag, so detach can distinguish "already
	// detached" from "never existed".
	AttachmentByID(ctx context.Context, id uint64) (model.BookingActivity, error)

	// DeactivateAttachment logically deletes an attachment.
	DeactivateAttachment(ctx context.Context, id uint64) error

	// ActivitiesTotal sums the line totals of the booking's active
	// attachments.
	ActivitiesTotal(ctx context.Context, bookingID uint64) (int64, error)

	// UpdatePrices rewrites the three price columns in one statement.
	UpdatePrices(ctx context.Context, id uint64, accommodationCents, activitiesCents, totalCents int64) error
}

// ReferenceData resolves catalogue and identity records referenced by
// bookings.  Implementations report inactive records as not found.
type ReferenceData interface {
	UserByID(ctx context.Context, id uint64) (model.User, error)
	HotelByID(ctx context.Context, id uint64) (model.Hotel, error)
	RoomTypeByID(ctx context.Context, id uint64) (model.RoomType, error)
	ActivityByID(ctx context.Context, id uint64) (model.Activity, error)
}

// Locker serializes booking creation per room type across processes.
// Acquire blocks until the lease is obtained or ctx ends; the returned
// function releases it.  A Locker is an optimization layered on top of
// the row lock taken inside the transaction, so implementations may
// degrade to a no-op when their backend is unavailable.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error)
}

// Notifier emits fire-and-forget booking lifecycle events.  Failures
// must never propagate into the mutation that triggered them.
type Notifier interface {
	BookingEvent(kind string, b model.Booking)
}

type noopLocker struct{}

func (noopLocker) Acquire(context.Context, string, time.Duration) (func(), error) {
	return func() {}, nil
}

type noopNotifier struct{}

func (noopNotifier) BookingEvent(string, model.Booking) {}

// Service is the booking engine facade used by the HTTP handlers.
type Service struct {
	store    Store
	ref      ReferenceData
	locker   Locker
	notifier Notifier
	now      func() time.Time
}

// NewService wires the engine.  store and ref are mandatory; locker
// and notifier may be nil, in which case inert implementations are
// substituted (the transactional row lock still serializes creation).
func NewService(store Store, ref ReferenceData, locker Locker, notifier Notifier) *Service {
	if store == nil || ref == nil {
		panic("nil dependency passed to booking.NewService")
	}
	if locker == nil {
		locker = noopLocker{}
	}
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &Service{store: store, ref: ref, locker: locker, notifier: notifier, now: time.Now}
}

// CreateInput carries a reservation request.  Dates are civil dates at
// UTC midnight.
type CreateInput struct {
	UserID          uint64
	RoomTypeID      uint64
	CheckIn         time.Time
	CheckOut        time.Time
	NumRooms        int
	NumGuests       int
	SpecialRequests string
}

// today truncates the clock to a UTC civil date.
func (s *Service) today() time.Time {
	y, m, d := s.now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func validateStay(checkIn, checkOut time.Time, rooms, guests int) error {
	if !checkOut.After(checkIn) {
		return invalidf("check-out date must be after check-in date")
	}
	if rooms < 1 || rooms > 10 {
		return invalidf("number of rooms must be between 1 and 10")
	}
	if guests < 1 || guests > 20 {
		return invalidf("number of guests must be between 1 and 20")
	}
	return nil
}

// Create validates a reservation request, checks room availability
// under a per-room-type lock, prices the stay and persists the booking
// with a fresh unique confirmation code.  The availability check and
// the insert run in one transaction holding the room type row lock, so
// two concurrent requests can never both over-commit the same window.
func (s *Service) Create(ctx context.Context, in CreateInput) (*model.Booking, error) {
	if !in.CheckIn.After(s.today()) {
		return nil, invalidf("check-in date must be in the future")
	}
	if err := validateStay(in.CheckIn, in.CheckOut, in.NumRooms, in.NumGuests); err != nil {
		return nil, err
	}

	user, err := s.ref.UserByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	roomType, err := s.ref.RoomTypeByID(ctx, in.RoomTypeID)
	if err != nil {
		return nil, err
	}
	hotel, err := s.ref.HotelByID(ctx, roomType.HotelID)
	if err != nil {
		return nil, err
	}

	release, err := s.locker.Acquire(ctx, fmt.Sprintf("booking:roomtype:%d", in.RoomTypeID), lockTTL)
	if err != nil {
		return nil, err
	}
	defer release()

	b := &model.Booking{
		UserID:          user.ID,
		HotelID:         hotel.ID,
		DestinationID:   hotel.DestinationID,
		RoomTypeID:      roomType.ID,
		CheckInDate:     in.CheckIn,
		CheckOutDate:    in.CheckOut,
		NumRooms:        in.NumRooms,
		NumGuests:       in.NumGuests,
		SpecialRequests: in.SpecialRequests,
		Status:          model.BookingPending,
		IsActive:        true,
	}

	err = s.store.InTx(ctx, func(tx Tx) error {
		rt, err := tx.RoomTypeForUpdate(ctx, in.RoomTypeID)
		if err != nil {
			return err
		}
		committed, err := tx.CommittedRooms(ctx, rt.ID, in.CheckIn, in.CheckOut, 0)
		if err != nil {
			return err
		}
		if rt.TotalRooms-committed < in.NumRooms {
			return ErrNoCapacity
		}

		nights := Nights(in.CheckIn, in.CheckOut)
		b.AccommodationCents = AccommodationCents(rt.PricePerNightCents, nights, in.NumRooms)
		b.ActivitiesCents = 0
		b.TotalPriceCents = b.AccommodationCents

		for attempt := 0; ; attempt++ {
			code, err := NewConfirmationCode()
			if err != nil {
				return err
			}
			b.ConfirmationCode = code
			err = tx.InsertBooking(ctx, b)
			if err == nil {
				return nil
			}
			if !errors.Is(err, ErrCodeTaken) || attempt+1 >= codeRetries {
				return err
			}
			log.Printf("booking: confirmation code collision, regenerating (attempt %d)", attempt+1)
		}
	})
	if err != nil {
		return nil, err
	}

	s.notifier.BookingEvent(EventBookingCreated, *b)
	return b, nil
}

// UpdateInput carries an edit of a booking's stay details.
type UpdateInput struct {
	CheckIn         time.Time
	CheckOut        time.Time
	NumRooms        int
	NumGuests       int
	SpecialRequests string
}

// Update edits the stay details of a booking that is not cancelled or
// completed.  The new window is re-checked against capacity with the
// booking's own rooms excluded from the overlap scan, and the price is
// recomputed from the room type's current nightly rate plus the
// existing activity attachments.
func (s *Service) Update(ctx context.Context, id uint64, in UpdateInput) (*model.Booking, error) {
	if err := validateStay(in.CheckIn, in.CheckOut, in.NumRooms, in.NumGuests); err != nil {
		return nil, err
	}

	var updated model.Booking
	err := s.store.InTx(ctx, func(tx Tx) error {
		b, err := tx.BookingForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if b.Status == model.BookingCancelled || b.Status == model.BookingCompleted {
			return ErrNotEditable
		}
		rt, err := tx.RoomTypeForUpdate(ctx, b.RoomTypeID)
		if err != nil {
			return err
		}
		committed, err := tx.CommittedRooms(ctx, rt.ID, in.CheckIn, in.CheckOut, b.ID)
		if err != nil {
			return err
		}
		if rt.TotalRooms-committed < in.NumRooms {
			return ErrNoCapacity
		}

		b.CheckInDate = in.CheckIn
		b.CheckOutDate = in.CheckOut
		b.NumRooms = in.NumRooms
		b.NumGuests = in.NumGuests
		b.SpecialRequests = in.SpecialRequests

		activities, err := tx.ActivitiesTotal(ctx, b.ID)
		if err != nil {
			return err
		}
		nights := Nights(in.CheckIn, in.CheckOut)
		b.AccommodationCents = AccommodationCents(rt.PricePerNightCents, nights, in.NumRooms)
		b.ActivitiesCents = activities
		b.TotalPriceCents = b.AccommodationCents + b.ActivitiesCents

		if err := tx.UpdateStay(ctx, &b); err != nil {
			return err
		}
		updated = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// transition applies one state-machine edge.  The status check and the
// write are a single atomic UPDATE, so two racing transitions on the
// same booking cannot both succeed.  An illegal transition (or a
// missing booking) is a boolean failure with no side effects.
//
// The event snapshot is captured under the row lock before the write:
// a deactivating edge hides the row from active-only reads, so a
// re-read afterwards would come back empty.
func (s *Service) transition(ctx context.Context, id uint64, to model.BookingStatus, deactivate bool, eventKind string) (bool, error) {
	var (
		ok bool
		b  model.Booking
	)
	err := s.store.InTx(ctx, func(tx Tx) error {
		var err error
		if eventKind != "" {
			b, err = tx.BookingForUpdate(ctx, id)
			if errors.Is(err, ErrBookingNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
		}
		ok, err = tx.TransitionStatus(ctx, id, to.AllowedFrom(), to, deactivate)
		if err != nil || !ok {
			return err
		}
		b.Status = to
		if deactivate {
			b.IsActive = false
		}
		return nil
	})
	if err != nil || !ok {
		return false, err
	}
	if eventKind != "" {
		s.notifier.BookingEvent(eventKind, b)
	}
	return true, nil
}

// Confirm moves a pending booking to CONFIRMED, the point at which it
// starts consuming room capacity.
func (s *Service) Confirm(ctx context.Context, id uint64) (bool, error) {
	return s.transition(ctx, id, model.BookingConfirmed, false, EventBookingConfirmed)
}

// Cancel moves a pending or confirmed booking to CANCELLED and sets
// the logical-delete flag.  The row itself is preserved for history.
func (s *Service) Cancel(ctx context.Context, id uint64) (bool, error) {
	return s.transition(ctx, id, model.BookingCancelled, true, EventBookingCancelled)
}

// Complete finalizes a confirmed or checked-out booking.
func (s *Service) Complete(ctx context.Context, id uint64) (bool, error) {
	return s.transition(ctx, id, model.BookingCompleted, false, "")
}

// CheckIn records the guest's arrival.
func (s *Service) CheckIn(ctx context.Context, id uint64) (bool, error) {
	return s.transition(ctx, id, model.BookingCheckedIn, false, "")
}

// CheckOut records the guest's departure.
func (s *Service) CheckOut(ctx context.Context, id uint64) (bool, error) {
	return s.transition(ctx, id, model.BookingCheckedOut, false, "")
}

// AttachActivity links a catalogue activity to a booking.  The
// activity's current per-participant price is frozen onto the
// attachment, the scheduled date defaults to the booking's check-in
// date, and the booking's activities/total prices are recomputed in
// the same transaction while the booking row is locked.
func (s *Service) AttachActivity(ctx context.Context, bookingID, activityID uint64, quantity int, scheduled *time.Time) (*model.BookingActivity, error) {
	if quantity < 1 {
		return nil, invalidf("quantity must be at least 1")
	}
	act, err := s.ref.ActivityByID(ctx, activityID)
	if err != nil {
		return nil, err
	}

	var out model.BookingActivity
	err = s.store.InTx(ctx, func(tx Tx) error {
		b, err := tx.BookingForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		if b.Status == model.BookingCancelled || b.Status == model.BookingCompleted {
			return ErrNotEditable
		}
		att := model.BookingActivity{
			BookingID:           b.ID,
			ActivityID:          act.ID,
			ScheduledDate:       b.CheckInDate,
			Quantity:            quantity,
			PricePerPersonCents: act.PriceCents,
			TotalCents:          LineTotalCents(act.PriceCents, quantity),
			Status:              model.ActivityScheduled,
			IsActive:            true,
		}
		if scheduled != nil {
			att.ScheduledDate = *scheduled
		}
		if err := tx.InsertAttachment(ctx, &att); err != nil {
			return err
		}
		if err := s.reprice(ctx, tx, &b); err != nil {
			return err
		}
		out = att
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DetachActivity logically deletes an attachment and reprices the
// parent booking.  Detaching an attachment that is already detached is
// a no-op reported as failure.
func (s *Service) DetachActivity(ctx context.Context, attachmentID uint64) (bool, error) {
	var ok bool
	err := s.store.InTx(ctx, func(tx Tx) error {
		att, err := tx.AttachmentByID(ctx, attachmentID)
		if err != nil {
			return err
		}
		if !att.IsActive {
			return nil // already detached
		}
		b, err := tx.BookingForUpdate(ctx, att.BookingID)
		if err != nil {
			return err
		}
		if err := tx.DeactivateAttachment(ctx, att.ID); err != nil {
			return err
		}
		if err := s.reprice(ctx, tx, &b); err != nil {
			return err
		}
		ok = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return ok, nil
}

// reprice recomputes the activities sum and total of a locked booking
// and persists all three price columns.
func (s *Service) reprice(ctx context.Context, tx Tx, b *model.Booking) error {
	activities, err := tx.ActivitiesTotal(ctx, b.ID)
	if err != nil {
		return err
	}
	b.ActivitiesCents = activities
	b.TotalPriceCents = b.AccommodationCents + activities
	return tx.UpdatePrices(ctx, b.ID, b.AccommodationCents, b.ActivitiesCents, b.TotalPriceCents)
}

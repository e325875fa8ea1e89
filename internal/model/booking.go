package model

import "time"

// BookingStatus enumerates the lifecycle states of a booking.  The
// values are stored verbatim in the bookings.status column.
type BookingStatus string

const (
	BookingPending    BookingStatus = "PENDING"     // created, not yet confirmed
	BookingConfirmed  BookingStatus = "CONFIRMED"   // confirmed, counts against capacity
	BookingCheckedIn  BookingStatus = "CHECKED_IN"  // guest arrived, counts against capacity
	BookingCheckedOut BookingStatus = "CHECKED_OUT" // guest departed
	BookingCompleted  BookingStatus = "COMPLETED"   // stay finished and settled
	BookingCancelled  BookingStatus = "CANCELLED"   // terminal, reached only from PENDING/CONFIRMED
)

// transitions maps a target status to the set of statuses it may be
// reached from.  Any pair not listed here is an illegal transition.
var transitions = map[BookingStatus][]BookingStatus{
	BookingConfirmed:  {BookingPending},
	BookingCancelled:  {BookingPending, BookingConfirmed},
	BookingCheckedIn:  {BookingConfirmed},
	BookingCheckedOut: {BookingCheckedIn},
	BookingCompleted:  {BookingConfirmed, BookingCheckedOut},
}

// AllowedFrom returns the statuses from which the target status may
// legally be entered.  The returned slice must not be modified.
func (s BookingStatus) AllowedFrom() []BookingStatus { return transitions[s] }

// CanTransitionFrom reports whether moving from the given status into s
// is a legal lifecycle transition.
func (s BookingStatus) CanTransitionFrom(from BookingStatus) bool {
	for _, f := range transitions[s] {
		if f == from {
			return true
		}
	}
	return false
}

// ConsumesCapacity reports whether a booking in this status holds rooms
// against the room type's total unit count.  Pending bookings are
// deliberately excluded: only confirmed and checked-in stays compete
// for inventory.
func (s BookingStatus) ConsumesCapacity() bool {
	return s == BookingConfirmed || s == BookingCheckedIn
}

// Valid reports whether s is one of the known status values.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCheckedIn,
		BookingCheckedOut, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}

// Booking is the reservation aggregate for a stay at a hotel room type
// over a date range.  Cross references (user, hotel, destination, room
// type) are plain identifiers resolved through the repositories; the
// aggregate never embeds the referenced records.
//
// Price fields are integer cents.  TotalPriceCents must always equal
// AccommodationCents + ActivitiesCents when the booking is persisted.
// IsActive is a logical-delete flag distinct from Status: cancellation
// flips both, physical deletion never happens.
type Booking struct {
	ID                 uint64        // bookings.id
	UserID             uint64        // bookings.user_id
	HotelID            uint64        // bookings.hotel_id
	DestinationID      uint64        // bookings.destination_id
	RoomTypeID         uint64        // bookings.room_type_id
	CheckInDate        time.Time     // bookings.check_in_date (civil date, UTC midnight)
	CheckOutDate       time.Time     // bookings.check_out_date (exclusive)
	NumRooms           int           // bookings.num_rooms
	NumGuests          int           // bookings.num_guests
	AccommodationCents int64         // bookings.accommodation_price (DECIMAL, held as cents)
	ActivitiesCents    int64         // bookings.activities_price (DECIMAL, held as cents)
	TotalPriceCents    int64         // bookings.total_price (DECIMAL, held as cents)
	Status             BookingStatus // bookings.status
	ConfirmationCode   string        // bookings.confirmation_code (unique, immutable)
	SpecialRequests    string        // bookings.special_requests
	IsActive           bool          // bookings.is_active (logical delete)
	CreatedAt          time.Time     // bookings.created_at
	UpdatedAt          time.Time     // bookings.updated_at
}

// Nights returns the integer day count between check-in and check-out.
// The date invariant (check-out strictly after check-in) guarantees a
// positive result for persisted bookings.
func (b Booking) Nights() int {
	return int(b.CheckOutDate.Sub(b.CheckInDate).Hours() / 24)
}

// DatesValid reports whether the check-out date is strictly after the
// check-in date.
func (b Booking) DatesValid() bool {
	return b.CheckOutDate.After(b.CheckInDate)
}

// Overlaps reports whether the booking's stay competes with the
// half-open window [from, to).  Adjacent stays, where one window ends
// exactly when the other begins, do not overlap.
func (b Booking) Overlaps(from, to time.Time) bool {
	return b.CheckInDate.Before(to) && b.CheckOutDate.After(from)
}

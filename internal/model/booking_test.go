package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCanTransitionFrom(t *testing.T) {
	cases := []struct {
		name string
		from BookingStatus
		to   BookingStatus
		ok   bool
	}{
		{"pending to confirmed", BookingPending, BookingConfirmed, true},
		{"pending to cancelled", BookingPending, BookingCancelled, true},
		{"confirmed to cancelled", BookingConfirmed, BookingCancelled, true},
		{"confirmed to checked-in", BookingConfirmed, BookingCheckedIn, true},
		{"confirmed to completed", BookingConfirmed, BookingCompleted, true},
		{"checked-in to checked-out", BookingCheckedIn, BookingCheckedOut, true},
		{"checked-out to completed", BookingCheckedOut, BookingCompleted, true},

		{"pending to checked-in", BookingPending, BookingCheckedIn, false},
		{"pending to completed", BookingPending, BookingCompleted, false},
		{"checked-in to cancelled", BookingCheckedIn, BookingCancelled, false},
		{"checked-out to cancelled", BookingCheckedOut, BookingCancelled, false},
		{"checked-in to completed", BookingCheckedIn, BookingCompleted, false},
		{"completed to anything", BookingCompleted, BookingCancelled, false},
		{"cancelled is terminal", BookingCancelled, BookingConfirmed, false},
		{"no self transition", BookingConfirmed, BookingConfirmed, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.ok, tc.to.CanTransitionFrom(tc.from))
		})
	}
}

func TestConsumesCapacity(t *testing.T) {
	assert.False(t, BookingPending.ConsumesCapacity())
	assert.True(t, BookingConfirmed.ConsumesCapacity())
	assert.True(t, BookingCheckedIn.ConsumesCapacity())
	assert.False(t, BookingCheckedOut.ConsumesCapacity())
	assert.False(t, BookingCompleted.ConsumesCapacity())
	assert.False(t, BookingCancelled.ConsumesCapacity())
}

func TestStatusValid(t *testing.T) {
	for _, s := range []BookingStatus{BookingPending, BookingConfirmed, BookingCheckedIn, BookingCheckedOut, BookingCompleted, BookingCancelled} {
		assert.True(t, s.Valid(), string(s))
	}
	assert.False(t, BookingStatus("UNKNOWN").Valid())
	assert.False(t, BookingStatus("").Valid())
}

func TestBookingNights(t *testing.T) {
	b := Booking{CheckInDate: date(2026, 3, 10), CheckOutDate: date(2026, 3, 14)}
	assert.Equal(t, 4, b.Nights())
	assert.True(t, b.DatesValid())

	same := Booking{CheckInDate: date(2026, 3, 10), CheckOutDate: date(2026, 3, 10)}
	assert.False(t, same.DatesValid())
}

func TestBookingOverlaps(t *testing.T) {
	b := Booking{CheckInDate: date(2026, 6, 10), CheckOutDate: date(2026, 6, 15)}

	assert.True(t, b.Overlaps(date(2026, 6, 12), date(2026, 6, 13)), "window inside stay")
	assert.True(t, b.Overlaps(date(2026, 6, 1), date(2026, 6, 30)), "window covers stay")
	assert.True(t, b.Overlaps(date(2026, 6, 14), date(2026, 6, 20)), "partial tail overlap")
	assert.True(t, b.Overlaps(date(2026, 6, 5), date(2026, 6, 11)), "partial head overlap")

	// Half-open semantics: the check-out day is free for the next guest.
	assert.False(t, b.Overlaps(date(2026, 6, 15), date(2026, 6, 20)), "window starts on check-out")
	assert.False(t, b.Overlaps(date(2026, 6, 5), date(2026, 6, 10)), "window ends on check-in")
}

package model

import "time"

// ActivityStatus enumerates the states of an activity attachment.
type ActivityStatus string

const (
	ActivityScheduled ActivityStatus = "SCHEDULED"
	ActivityCompleted ActivityStatus = "COMPLETED"
	ActivityCancelled ActivityStatus = "CANCELLED"
)

// BookingActivity attaches a priced add-on activity to a booking.  The
// per-person price is copied from the catalogue activity at attachment
// time so later catalogue price changes never affect an existing
// booking.  TotalCents is always PricePerPersonCents × Quantity and is
// never set independently.  Detaching is a logical delete via IsActive.
type BookingActivity struct {
	ID                  uint64         // booking_activities.id
	BookingID           uint64         // booking_activities.booking_id
	ActivityID          uint64         // booking_activities.activity_id
	ScheduledDate       time.Time      // booking_activities.scheduled_date (defaults to check-in)
	Quantity            int            // booking_activities.quantity (≥ 1)
	PricePerPersonCents int64          // booking_activities.price_per_person_cents (frozen)
	TotalCents          int64          // booking_activities.total_price_cents
	Status              ActivityStatus // booking_activities.status
	IsActive            bool           // booking_activities.is_active (logical delete)
	CreatedAt           time.Time      // booking_activities.created_at
}

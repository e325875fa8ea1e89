package model

import "time"

// Activity is a bookable catalogue add-on (excursion, dive, tour) with
// a per-person price.  Attachments copy PriceCents at attachment time,
// so edits here never ripple into existing bookings.
type Activity struct {
	ID            uint64    // activities.id
	DestinationID uint64    // activities.destination_id
	Name          string    // activities.name
	Description   string    // activities.description
	PriceCents    int64     // activities.price_cents (per participant)
	IsAvailable   bool      // activities.is_available
	CreatedAt     time.Time // activities.created_at
}

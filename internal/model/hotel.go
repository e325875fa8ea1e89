package model

import "time"

// Hotel is read-only reference data owned by the catalogue.  Bookings
// reference hotels by ID only.
type Hotel struct {
	ID            uint64    // hotels.id
	DestinationID uint64    // hotels.destination_id
	Name          string    // hotels.name
	Description   string    // hotels.description
	Address       string    // hotels.address
	Stars         int       // hotels.stars
	IsActive      bool      // hotels.is_active
	CreatedAt     time.Time // hotels.created_at
}

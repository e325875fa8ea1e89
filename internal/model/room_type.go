package model

import "time"

// RoomType is a category of room within a hotel with a fixed total
// unit count and a nightly rate.  The booking engine reads it but
// never mutates it: TotalRooms is the hard capacity ceiling for any
// date window, and availability is always derived from the overlap
// scan over committed bookings rather than from a cached counter.
type RoomType struct {
	ID                 uint64    // room_types.id
	HotelID            uint64    // room_types.hotel_id
	Name               string    // room_types.name
	Description        string    // room_types.description
	MaxGuests          int       // room_types.max_guests
	PricePerNightCents int64     // room_types.price_per_night_cents
	TotalRooms         int       // room_types.total_rooms
	IsActive           bool      // room_types.is_active
	CreatedAt          time.Time // room_types.created_at
}

package queue

// BookingEvent is published on every booking lifecycle transition the
// business cares about (created, confirmed, cancelled).  It carries a
// snapshot of the booking so downstream consumers can log, notify, or
// trigger analytics without querying the primary database.
type BookingEvent struct {
	EventID            string `json:"event_id"`
	Kind               string `json:"kind"`
	BookingID          uint64 `json:"booking_id"`
	ConfirmationCode   string `json:"confirmation_code"`
	UserID             uint64 `json:"user_id"`
	HotelID            uint64 `json:"hotel_id"`
	RoomTypeID         uint64 `json:"room_type_id"`
	CheckInDate        string `json:"check_in_date"`
	CheckOutDate       string `json:"check_out_date"`
	NumRooms           int    `json:"num_rooms"`
	NumGuests          int    `json:"num_guests"`
	AccommodationCents int64  `json:"accommodation_cents"`
	ActivitiesCents    int64  `json:"activities_cents"`
	TotalCents         int64  `json:"total_cents"`
	Status             string `json:"status"`
	OccurredAt         string `json:"occurred_at"`
}

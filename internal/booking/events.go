package booking

// Event kinds handed to the Notifier after a successful mutation.
// They double as the message-broker routing keys.
const (
	EventBookingCreated   = "booking.created"
	EventBookingConfirmed = "booking.confirmed"
	EventBookingCancelled = "booking.cancelled"
)

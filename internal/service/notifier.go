package queue_publisher

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/IngAlexfit/caribeVibes-system-sub000/internal/model"
	q "github.com/IngAlexfit/caribeVibes-system-sub000/internal/queue"
)

// Notifier adapts the publisher to the booking engine's event hook.
// Publishing happens on a detached goroutine with its own deadline so a
// slow or unreachable broker never delays the request that produced the
// event; failures are already logged by PublishBookingEvent.
type Notifier struct{}

func NewNotifier() *Notifier { return &Notifier{} }

// BookingEvent snapshots the booking into a broker message and sends it
// in the background.
func (*Notifier) BookingEvent(kind string, b model.Booking) {
	ev := q.BookingEvent{
		EventID:            uuid.NewString(),
		Kind:               kind,
		BookingID:          b.ID,
		ConfirmationCode:   b.ConfirmationCode,
		UserID:             b.UserID,
		HotelID:            b.HotelID,
		RoomTypeID:         b.RoomTypeID,
		CheckInDate:        b.CheckInDate.Format("2006-01-02"),
		CheckOutDate:       b.CheckOutDate.Format("2006-01-02"),
		NumRooms:           b.NumRooms,
		NumGuests:          b.NumGuests,
		AccommodationCents: b.AccommodationCents,
		ActivitiesCents:    b.ActivitiesCents,
		TotalCents:         b.TotalPriceCents,
		Status:             string(b.Status),
		OccurredAt:         time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = PublishBookingEvent(ctx, ev)
	}()
}

package voucher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IngAlexfit/caribeVibes-system-sub000/internal/model"
)

func sampleData() Data {
	return Data{
		Booking: model.Booking{
			ID:                 42,
			ConfirmationCode:   "CVK7M2P9QZ",
			Status:             model.BookingConfirmed,
			CheckInDate:        time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
			CheckOutDate:       time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC),
			NumRooms:           2,
			NumGuests:          4,
			AccommodationCents: 120000,
			ActivitiesCents:    10500,
			TotalPriceCents:    130500,
		},
		Guest:       model.User{FirstName: "Ana", LastName: "Torres", Email: "ana@example.com"},
		Hotel:       model.Hotel{Name: "Playa Grande", Address: "Km 4 Via al Mar", Stars: 4},
		RoomType:    model.RoomType{Name: "Deluxe Ocean View"},
		Destination: model.Destination{Name: "Cartagena", Country: "Colombia"},
		Activities: []Line{
			{Name: "Reef Dive", ScheduledDate: time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC), Quantity: 3, TotalCents: 10500},
		},
		GeneratedAt: time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC),
	}
}

func TestRender(t *testing.T) {
	out, err := Render(sampleData())
	require.NoError(t, err)
	text := string(out)

	assert.Contains(t, text, "CARIBE VIBES - TRAVEL VOUCHER")
	assert.Contains(t, text, "CVK7M2P9QZ")
	assert.Contains(t, text, "CONFIRMED")
	assert.Contains(t, text, "Ana Torres <ana@example.com>")
	assert.Contains(t, text, "Cartagena, Colombia")
	assert.Contains(t, text, "Playa Grande ****")
	assert.Contains(t, text, "Check-in   : Sun, 01 Feb 2026")
	assert.Contains(t, text, "Nights     : 4")
	assert.Contains(t, text, "Reef Dive | Mon, 02 Feb 2026 | x3 | $105.00")
	assert.Contains(t, text, "Accommodation : $1200.00")
	assert.Contains(t, text, "TOTAL         : $1305.00")
}

func TestRenderOmitsEmptySections(t *testing.T) {
	d := sampleData()
	d.Activities = nil
	d.Booking.SpecialRequests = ""

	out, err := Render(d)
	require.NoError(t, err)
	text := string(out)

	assert.NotContains(t, text, "ACTIVITIES")
	assert.NotContains(t, text, "Requests")
	assert.Contains(t, text, "Activities    : $105.00")
}

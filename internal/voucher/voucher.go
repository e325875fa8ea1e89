// Package voucher renders a plain-text travel voucher for a booking.
// The output is a printable document the guest presents at check-in;
// it is generated on demand and never stored.
package voucher

import (
	"bytes"
	"fmt"
	"text/template"
	"time"

	"github.com/IngAlexfit/caribeVibes-system-sub000/internal/booking"
	"github.com/IngAlexfit/caribeVibes-system-sub000/internal/model"
)

// Data collects everything the voucher template needs.  Callers load
// the catalogue rows themselves so the renderer stays free of storage
// concerns.
type Data struct {
	Booking     model.Booking
	Guest       model.User
	Hotel       model.Hotel
	RoomType    model.RoomType
	Destination model.Destination
	Activities  []Line
	GeneratedAt time.Time
}

// Line is one activity row on the voucher.
type Line struct {
	Name          string
	ScheduledDate time.Time
	Quantity      int
	TotalCents    int64
}

var tmpl = template.Must(template.New("voucher").Funcs(template.FuncMap{
	"money": func(cents int64) string { return "$" + booking.FormatCents(cents) },
	"date":  func(t time.Time) string { return t.Format("Mon, 02 Jan 2006") },
	"stars": func(n int) string {
		s := ""
		for i := 0; i < n; i++ {
			s += "*"
		}
		return s
	},
}).Parse(`==========================================================
                 CARIBE VIBES - TRAVEL VOUCHER
==========================================================
Confirmation code : {{.Booking.ConfirmationCode}}
Status            : {{.Booking.Status}}
Issued            : {{date .GeneratedAt}}

GUEST
  {{.Guest.FirstName}} {{.Guest.LastName}} <{{.Guest.Email}}>

DESTINATION
  {{.Destination.Name}}, {{.Destination.Country}}

HOTEL
  {{.Hotel.Name}} {{stars .Hotel.Stars}}
  {{.Hotel.Address}}

STAY
  Room type  : {{.RoomType.Name}}
  Check-in   : {{date .Booking.CheckInDate}}
  Check-out  : {{date .Booking.CheckOutDate}}
  Nights     : {{.Booking.Nights}}
  Rooms      : {{.Booking.NumRooms}}
  Guests     : {{.Booking.NumGuests}}
{{- if .Booking.SpecialRequests}}
  Requests   : {{.Booking.SpecialRequests}}
{{- end}}
{{- if .Activities}}

ACTIVITIES
{{- range .Activities}}
  {{.Name}} | {{date .ScheduledDate}} | x{{.Quantity}} | {{money .TotalCents}}
{{- end}}
{{- end}}

PRICE
  Accommodation : {{money .Booking.AccommodationCents}}
  Activities    : {{money .Booking.ActivitiesCents}}
  TOTAL         : {{money .Booking.TotalPriceCents}}

Present this voucher and a valid ID at the hotel reception.
==========================================================
`))

// Render produces the voucher as plain text.
func Render(d Data) ([]byte, error) {
	if d.GeneratedAt.IsZero() {
		d.GeneratedAt = time.Now().UTC()
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, d); err != nil {
		return nil, fmt.Errorf("render voucher: %w", err)
	}
	return buf.Bytes(), nil
}

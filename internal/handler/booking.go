package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/IngAlexfit/caribeVibes-system-sub000/internal/booking"
	"github.com/IngAlexfit/caribeVibes-system-sub000/internal/model"
	"github.com/IngAlexfit/caribeVibes-system-sub000/internal/repository"
	"github.com/IngAlexfit/caribeVibes-system-sub000/internal/voucher"
)

// BookingHandler exposes the reservation lifecycle to customers.  All
// methods assume that JWT authentication has already been performed by
// middleware; ownership of the booking is checked here, with ADMIN
// tokens allowed to act on any booking.
type BookingHandler struct {
	Svc          *booking.Service
	Bookings     *repository.BookingRepo
	Users        *repository.UserRepo
	Hotels       *repository.HotelRepo
	RoomTypes    *repository.RoomTypeRepo
	Destinations *repository.DestinationRepo
	Activities   *repository.ActivityRepo
}

// NewBookingHandler constructs the handler.  All dependencies must be
// non-nil.
func NewBookingHandler(svc *booking.Service, b *repository.BookingRepo, u *repository.UserRepo, h *repository.HotelRepo, rt *repository.RoomTypeRepo, d *repository.DestinationRepo, a *repository.ActivityRepo) *BookingHandler {
	if svc == nil || b == nil || u == nil || h == nil || rt == nil || d == nil || a == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Svc: svc, Bookings: b, Users: u, Hotels: h, RoomTypes: rt, Destinations: d, Activities: a}
}

const dateLayout = "2006-01-02"

// getUserID extracts the user_id from echo.Context and converts it to uint64.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

func isAdmin(c echo.Context) bool {
	role, _ := c.Get("role").(string)
	return role == "ADMIN"
}

func parseIDParam(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id > 0
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// pageParams clamps ?page= and ?size= to sane values.
func pageParams(c echo.Context) (int, int) {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}
	return page, size
}

// bookingErrJSON maps engine sentinels onto HTTP responses.
func bookingErrJSON(c echo.Context, err error) error {
	switch {
	case errors.Is(err, booking.ErrInvalid):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrNoCapacity):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrNotEditable):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrBookingNotFound),
		errors.Is(err, booking.ErrRoomTypeNotFound),
		errors.Is(err, booking.ErrHotelNotFound),
		errors.Is(err, booking.ErrUserNotFound),
		errors.Is(err, booking.ErrActivityNotFound),
		errors.Is(err, booking.ErrAttachmentNotFound),
		errors.Is(err, repository.ErrDestinationNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrCodeTaken):
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not allocate a confirmation code"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
}

// ----- DTOs -----

type bookingResp struct {
	ID                 uint64    `json:"id"`
	ConfirmationCode   string    `json:"confirmation_code"`
	UserID             uint64    `json:"user_id"`
	HotelID            uint64    `json:"hotel_id"`
	DestinationID      uint64    `json:"destination_id"`
	RoomTypeID         uint64    `json:"room_type_id"`
	CheckInDate        string    `json:"check_in_date"`
	CheckOutDate       string    `json:"check_out_date"`
	Nights             int       `json:"nights"`
	NumRooms           int       `json:"num_rooms"`
	NumGuests          int       `json:"num_guests"`
	AccommodationPrice string    `json:"accommodation_price"`
	ActivitiesPrice    string    `json:"activities_price"`
	TotalPrice         string    `json:"total_price"`
	Status             string    `json:"status"`
	SpecialRequests    string    `json:"special_requests,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

func newBookingResp(b model.Booking) bookingResp {
	return bookingResp{
		ID:                 b.ID,
		ConfirmationCode:   b.ConfirmationCode,
		UserID:             b.UserID,
		HotelID:            b.HotelID,
		DestinationID:      b.DestinationID,
		RoomTypeID:         b.RoomTypeID,
		CheckInDate:        b.CheckInDate.Format(dateLayout),
		CheckOutDate:       b.CheckOutDate.Format(dateLayout),
		Nights:             b.Nights(),
		NumRooms:           b.NumRooms,
		NumGuests:          b.NumGuests,
		AccommodationPrice: booking.FormatCents(b.AccommodationCents),
		ActivitiesPrice:    booking.FormatCents(b.ActivitiesCents),
		TotalPrice:         booking.FormatCents(b.TotalPriceCents),
		Status:             string(b.Status),
		SpecialRequests:    b.SpecialRequests,
		CreatedAt:          b.CreatedAt,
	}
}

func newBookingList(bs []model.Booking) []bookingResp {
	out := make([]bookingResp, 0, len(bs))
	for _, b := range bs {
		out = append(out, newBookingResp(b))
	}
	return out
}

type attachmentResp struct {
	ID             uint64 `json:"id"`
	ActivityID     uint64 `json:"activity_id"`
	ScheduledDate  string `json:"scheduled_date"`
	Quantity       int    `json:"quantity"`
	PricePerPerson string `json:"price_per_person"`
	TotalPrice     string `json:"total_price"`
	Status         string `json:"status"`
}

func newAttachmentResp(a model.BookingActivity) attachmentResp {
	return attachmentResp{
		ID:             a.ID,
		ActivityID:     a.ActivityID,
		ScheduledDate:  a.ScheduledDate.Format(dateLayout),
		Quantity:       a.Quantity,
		PricePerPerson: booking.FormatCents(a.PricePerPersonCents),
		TotalPrice:     booking.FormatCents(a.TotalCents),
		Status:         string(a.Status),
	}
}

// ownedBooking loads a booking and enforces ownership for non-admin
// callers.  Missing bookings and foreign bookings are both reported as
// not found so a customer cannot enumerate other people's IDs.
func (h *BookingHandler) ownedBooking(c echo.Context, id uint64) (model.Booking, error) {
	ctx := c.Request().Context()
	if isAdmin(c) {
		return h.Bookings.GetByID(ctx, id)
	}
	userID, err := getUserID(c)
	if err != nil {
		return model.Booking{}, err
	}
	b, err := h.Bookings.GetByIDForUser(ctx, id, userID)
	if errors.Is(err, repository.ErrForbidden) {
		return model.Booking{}, booking.ErrBookingNotFound
	}
	return b, err
}

// Create handles POST /v1/bookings.
func (h *BookingHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		RoomTypeID      uint64 `json:"room_type_id"`
		CheckInDate     string `json:"check_in_date"`
		CheckOutDate    string `json:"check_out_date"`
		NumRooms        int    `json:"num_rooms"`
		NumGuests       int    `json:"num_guests"`
		SpecialRequests string `json:"special_requests"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.RoomTypeID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_type_id is required"})
	}
	checkIn, err := parseDate(body.CheckInDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_in_date must be YYYY-MM-DD"})
	}
	checkOut, err := parseDate(body.CheckOutDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_out_date must be YYYY-MM-DD"})
	}

	b, err := h.Svc.Create(c.Request().Context(), booking.CreateInput{
		UserID:          userID,
		RoomTypeID:      body.RoomTypeID,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		NumRooms:        body.NumRooms,
		NumGuests:       body.NumGuests,
		SpecialRequests: body.SpecialRequests,
	})
	if err != nil {
		return bookingErrJSON(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": newBookingResp(*b)})
}

// ListMine handles GET /v1/my-bookings.
func (h *BookingHandler) ListMine(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	page, size := pageParams(c)
	items, err := h.Bookings.ListByUser(c.Request().Context(), userID, page, size)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": newBookingList(items)})
}

// Get handles GET /v1/bookings/:id.
func (h *BookingHandler) Get(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	b, err := h.ownedBooking(c, id)
	if err != nil {
		return bookingErrJSON(c, err)
	}
	atts, err := h.Bookings.ListAttachments(c.Request().Context(), b.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load activities"})
	}
	lines := make([]attachmentResp, 0, len(atts))
	for _, a := range atts {
		lines = append(lines, newAttachmentResp(a))
	}
	return c.JSON(http.StatusOK, echo.Map{"item": newBookingResp(b), "activities": lines})
}

// GetByCode handles GET /v1/bookings/by-code/:code.
func (h *BookingHandler) GetByCode(c echo.Context) error {
	code := c.Param("code")
	if code == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "confirmation code required"})
	}
	b, err := h.Bookings.GetByConfirmationCode(c.Request().Context(), code)
	if err != nil {
		return bookingErrJSON(c, err)
	}
	if !isAdmin(c) {
		userID, uerr := getUserID(c)
		if uerr != nil || b.UserID != userID {
			return c.JSON(http.StatusNotFound, echo.Map{"error": booking.ErrBookingNotFound.Error()})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"item": newBookingResp(b)})
}

// Update handles PUT /v1/bookings/:id.
func (h *BookingHandler) Update(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	if _, err := h.ownedBooking(c, id); err != nil {
		return bookingErrJSON(c, err)
	}
	var body struct {
		CheckInDate     string `json:"check_in_date"`
		CheckOutDate    string `json:"check_out_date"`
		NumRooms        int    `json:"num_rooms"`
		NumGuests       int    `json:"num_guests"`
		SpecialRequests string `json:"special_requests"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	checkIn, err := parseDate(body.CheckInDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_in_date must be YYYY-MM-DD"})
	}
	checkOut, err := parseDate(body.CheckOutDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_out_date must be YYYY-MM-DD"})
	}

	b, err := h.Svc.Update(c.Request().Context(), id, booking.UpdateInput{
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		NumRooms:        body.NumRooms,
		NumGuests:       body.NumGuests,
		SpecialRequests: body.SpecialRequests,
	})
	if err != nil {
		return bookingErrJSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": newBookingResp(*b)})
}

// Cancel handles PUT /v1/bookings/:id/cancel.  Only pending and
// confirmed bookings can be cancelled; anything later is a conflict.
func (h *BookingHandler) Cancel(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	if _, err := h.ownedBooking(c, id); err != nil {
		return bookingErrJSON(c, err)
	}
	ok, err := h.Svc.Cancel(c.Request().Context(), id)
	if err != nil {
		return bookingErrJSON(c, err)
	}
	if !ok {
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking cannot be cancelled in its current status"})
	}
	return c.NoContent(http.StatusNoContent)
}

// AttachActivity handles POST /v1/bookings/:id/activities.
func (h *BookingHandler) AttachActivity(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	if _, err := h.ownedBooking(c, id); err != nil {
		return bookingErrJSON(c, err)
	}
	var body struct {
		ActivityID    uint64 `json:"activity_id"`
		Quantity      int    `json:"quantity"`
		ScheduledDate string `json:"scheduled_date"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.ActivityID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "activity_id is required"})
	}
	var scheduled *time.Time
	if body.ScheduledDate != "" {
		d, err := parseDate(body.ScheduledDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "scheduled_date must be YYYY-MM-DD"})
		}
		scheduled = &d
	}
	att, err := h.Svc.AttachActivity(c.Request().Context(), id, body.ActivityID, body.Quantity, scheduled)
	if err != nil {
		return bookingErrJSON(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": newAttachmentResp(*att)})
}

// ListActivities handles GET /v1/bookings/:id/activities.
func (h *BookingHandler) ListActivities(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	if _, err := h.ownedBooking(c, id); err != nil {
		return bookingErrJSON(c, err)
	}
	atts, err := h.Bookings.ListAttachments(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load activities"})
	}
	items := make([]attachmentResp, 0, len(atts))
	for _, a := range atts {
		items = append(items, newAttachmentResp(a))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// DetachActivity handles DELETE /v1/booking-activities/:id.  The path
// addresses the attachment directly; ownership is checked through its
// parent booking.
func (h *BookingHandler) DetachActivity(c echo.Context) error {
	attID, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid activity id"})
	}
	att, err := h.Bookings.GetAttachment(c.Request().Context(), attID)
	if err != nil {
		return bookingErrJSON(c, err)
	}
	if _, err := h.ownedBooking(c, att.BookingID); err != nil {
		return bookingErrJSON(c, err)
	}
	ok, err = h.Svc.DetachActivity(c.Request().Context(), attID)
	if err != nil {
		return bookingErrJSON(c, err)
	}
	if !ok {
		return c.JSON(http.StatusConflict, echo.Map{"error": "activity already detached"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Voucher handles GET /v1/bookings/:id/voucher.  It renders the
// printable plain-text voucher for the booking.
func (h *BookingHandler) Voucher(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	b, err := h.ownedBooking(c, id)
	if err != nil {
		return bookingErrJSON(c, err)
	}

	ctx := c.Request().Context()
	guest, err := h.Users.GetByID(ctx, b.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load guest"})
	}
	hotel, err := h.Hotels.GetByID(ctx, b.HotelID)
	if err != nil {
		return bookingErrJSON(c, err)
	}
	roomType, err := h.RoomTypes.GetByID(ctx, b.RoomTypeID)
	if err != nil {
		return bookingErrJSON(c, err)
	}
	dest, err := h.Destinations.GetByID(ctx, b.DestinationID)
	if err != nil {
		return bookingErrJSON(c, err)
	}
	atts, err := h.Bookings.ListAttachments(ctx, b.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load activities"})
	}
	lines := make([]voucher.Line, 0, len(atts))
	for _, a := range atts {
		name := "Activity #" + strconv.FormatUint(a.ActivityID, 10)
		if act, err := h.Activities.GetByID(ctx, a.ActivityID); err == nil {
			name = act.Name
		}
		lines = append(lines, voucher.Line{
			Name:          name,
			ScheduledDate: a.ScheduledDate,
			Quantity:      a.Quantity,
			TotalCents:    a.TotalCents,
		})
	}

	doc, err := voucher.Render(voucher.Data{
		Booking:     b,
		Guest:       guest,
		Hotel:       hotel,
		RoomType:    roomType,
		Destination: dest,
		Activities:  lines,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to render voucher"})
	}
	return c.Blob(http.StatusOK, "text/plain; charset=utf-8", doc)
}

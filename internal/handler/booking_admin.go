package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/IngAlexfit/caribeVibes-system-sub000/internal/booking"
	"github.com/IngAlexfit/caribeVibes-system-sub000/internal/model"
	"github.com/IngAlexfit/caribeVibes-system-sub000/internal/repository"
)

// AdminBookingHandler exposes the operational side of the booking
// lifecycle: status transitions performed by hotel staff and the
// reporting lists.  Routes using it are mounted behind the ADMIN role
// middleware.
type AdminBookingHandler struct {
	Svc      *booking.Service
	Bookings *repository.BookingRepo
}

func NewAdminBookingHandler(svc *booking.Service, b *repository.BookingRepo) *AdminBookingHandler {
	if svc == nil || b == nil {
		panic("nil dependency passed to NewAdminBookingHandler")
	}
	return &AdminBookingHandler{Svc: svc, Bookings: b}
}

// transition runs one lifecycle edge and translates the boolean
// failure (wrong current status) into 409.
func (h *AdminBookingHandler) transition(c echo.Context, fn func(c echo.Context, id uint64) (bool, error)) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	if _, err := h.Bookings.GetByID(c.Request().Context(), id); err != nil {
		return bookingErrJSON(c, err)
	}
	ok, err := fn(c, id)
	if err != nil {
		return bookingErrJSON(c, err)
	}
	if !ok {
		return c.JSON(http.StatusConflict, echo.Map{"error": "transition not allowed from the current status"})
	}
	b, err := h.Bookings.GetByID(c.Request().Context(), id)
	if err != nil {
		return bookingErrJSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": newBookingResp(b)})
}

// Confirm handles PUT /v1/bookings/:id/confirm.
func (h *AdminBookingHandler) Confirm(c echo.Context) error {
	return h.transition(c, func(c echo.Context, id uint64) (bool, error) {
		return h.Svc.Confirm(c.Request().Context(), id)
	})
}

// CheckIn handles PUT /v1/bookings/:id/check-in.
func (h *AdminBookingHandler) CheckIn(c echo.Context) error {
	return h.transition(c, func(c echo.Context, id uint64) (bool, error) {
		return h.Svc.CheckIn(c.Request().Context(), id)
	})
}

// CheckOut handles PUT /v1/bookings/:id/check-out.
func (h *AdminBookingHandler) CheckOut(c echo.Context) error {
	return h.transition(c, func(c echo.Context, id uint64) (bool, error) {
		return h.Svc.CheckOut(c.Request().Context(), id)
	})
}

// Complete handles PUT /v1/bookings/:id/complete.
func (h *AdminBookingHandler) Complete(c echo.Context) error {
	return h.transition(c, func(c echo.Context, id uint64) (bool, error) {
		return h.Svc.Complete(c.Request().Context(), id)
	})
}

// List handles GET /v1/bookings (ADMIN).  With ?from= and ?to= it
// returns bookings whose stay overlaps the half-open [from, to)
// window; otherwise it returns all active bookings.
func (h *AdminBookingHandler) List(c echo.Context) error {
	page, size := pageParams(c)
	ctx := c.Request().Context()

	if c.QueryParam("from") != "" || c.QueryParam("to") != "" {
		from, err := parseDate(c.QueryParam("from"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "from must be YYYY-MM-DD"})
		}
		to, err := parseDate(c.QueryParam("to"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "to must be YYYY-MM-DD"})
		}
		if !to.After(from) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "to must be after from"})
		}
		items, err := h.Bookings.ListByDateWindow(ctx, from, to, page, size)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
		}
		return c.JSON(http.StatusOK, echo.Map{"items": newBookingList(items)})
	}

	items, err := h.Bookings.ListActive(ctx, page, size)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": newBookingList(items)})
}

// ListByStatus handles GET /v1/bookings/by-status/:status (ADMIN).
func (h *AdminBookingHandler) ListByStatus(c echo.Context) error {
	st := model.BookingStatus(c.Param("status"))
	if !st.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown booking status"})
	}
	page, size := pageParams(c)
	items, err := h.Bookings.ListByStatus(c.Request().Context(), st, page, size)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": newBookingList(items)})
}

// ListUpcoming handles GET /v1/bookings/upcoming (ADMIN).  It lists
// confirmed bookings arriving within the next seven days, for the
// front-desk arrival board.
func (h *AdminBookingHandler) ListUpcoming(c echo.Context) error {
	page, size := pageParams(c)
	today := time.Now().UTC().Truncate(24 * time.Hour)
	items, err := h.Bookings.ListUpcoming(c.Request().Context(), today, page, size)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": newBookingList(items)})
}

// This file defines handlers for the public catalogue API.  These
// routes allow unauthenticated users to browse destinations, hotels
// with their room types, and activities.  Responses sit behind the
// Redis response cache, so they expose only stable, safe fields.

package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/IngAlexfit/caribeVibes-system-sub000/internal/booking"
	"github.com/IngAlexfit/caribeVibes-system-sub000/internal/repository"
)

// CatalogueHandler aggregates the read-only reference repositories.
type CatalogueHandler struct {
	Destinations *repository.DestinationRepo
	Hotels       *repository.HotelRepo
	RoomTypes    *repository.RoomTypeRepo
	Activities   *repository.ActivityRepo
}

func NewCatalogueHandler(d *repository.DestinationRepo, h *repository.HotelRepo, rt *repository.RoomTypeRepo, a *repository.ActivityRepo) *CatalogueHandler {
	if d == nil || h == nil || rt == nil || a == nil {
		panic("nil repository passed to NewCatalogueHandler")
	}
	return &CatalogueHandler{Destinations: d, Hotels: h, RoomTypes: rt, Activities: a}
}

// PublicDestination is a destination exposed via the public API.
type PublicDestination struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Country     string `json:"country"`
	Description string `json:"description,omitempty"`
}

// PublicHotel is a hotel in list responses.
type PublicHotel struct {
	ID            uint64 `json:"id"`
	DestinationID uint64 `json:"destination_id"`
	Name          string `json:"name"`
	Address       string `json:"address"`
	Stars         int    `json:"stars"`
}

// PublicRoomType carries the bookable room category with its nightly
// rate formatted as a decimal string.
type PublicRoomType struct {
	ID            uint64 `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	MaxGuests     int    `json:"max_guests"`
	PricePerNight string `json:"price_per_night"`
	TotalRooms    int    `json:"total_rooms"`
}

// PublicHotelDetail is a hotel with its room types.
type PublicHotelDetail struct {
	PublicHotel
	RoomTypes []PublicRoomType `json:"room_types"`
}

// PublicActivity is a bookable add-on in list responses.
type PublicActivity struct {
	ID             uint64 `json:"id"`
	DestinationID  uint64 `json:"destination_id"`
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	PricePerPerson string `json:"price_per_person"`
}

// ListDestinations handles GET /v1/destinations.
func (h *CatalogueHandler) ListDestinations(c echo.Context) error {
	items, err := h.Destinations.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]PublicDestination, 0, len(items))
	for _, d := range items {
		out = append(out, PublicDestination{ID: d.ID, Name: d.Name, Country: d.Country, Description: d.Description})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetDestination handles GET /v1/destinations/:id.  The detail view
// includes the destination's hotels and activities.
func (h *CatalogueHandler) GetDestination(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid destination id"})
	}
	ctx := c.Request().Context()
	d, err := h.Destinations.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrDestinationNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "destination not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	hotels, err := h.Hotels.List(ctx, d.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	acts, err := h.Activities.List(ctx, d.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	hs := make([]PublicHotel, 0, len(hotels))
	for _, ht := range hotels {
		hs = append(hs, PublicHotel{ID: ht.ID, DestinationID: ht.DestinationID, Name: ht.Name, Address: ht.Address, Stars: ht.Stars})
	}
	as := make([]PublicActivity, 0, len(acts))
	for _, a := range acts {
		as = append(as, PublicActivity{ID: a.ID, DestinationID: a.DestinationID, Name: a.Name, Description: a.Description, PricePerPerson: booking.FormatCents(a.PriceCents)})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"item":       PublicDestination{ID: d.ID, Name: d.Name, Country: d.Country, Description: d.Description},
		"hotels":     hs,
		"activities": as,
	})
}

// ListHotels handles GET /v1/hotels.  An optional ?destination_id=
// narrows the list to one destination.
func (h *CatalogueHandler) ListHotels(c echo.Context) error {
	var destID uint64
	if raw := c.QueryParam("destination_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid destination_id"})
		}
		destID = id
	}
	items, err := h.Hotels.List(c.Request().Context(), destID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]PublicHotel, 0, len(items))
	for _, ht := range items {
		out = append(out, PublicHotel{ID: ht.ID, DestinationID: ht.DestinationID, Name: ht.Name, Address: ht.Address, Stars: ht.Stars})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetHotel handles GET /v1/hotels/:id.  It returns the hotel together
// with its bookable room types.
func (h *CatalogueHandler) GetHotel(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	ctx := c.Request().Context()
	ht, err := h.Hotels.GetByID(ctx, id)
	if err != nil {
		if err == booking.ErrHotelNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	roomTypes, err := h.RoomTypes.ListByHotel(ctx, ht.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	rts := make([]PublicRoomType, 0, len(roomTypes))
	for _, rt := range roomTypes {
		rts = append(rts, PublicRoomType{
			ID:            rt.ID,
			Name:          rt.Name,
			Description:   rt.Description,
			MaxGuests:     rt.MaxGuests,
			PricePerNight: booking.FormatCents(rt.PricePerNightCents),
			TotalRooms:    rt.TotalRooms,
		})
	}
	detail := PublicHotelDetail{
		PublicHotel: PublicHotel{ID: ht.ID, DestinationID: ht.DestinationID, Name: ht.Name, Address: ht.Address, Stars: ht.Stars},
		RoomTypes:   rts,
	}
	return c.JSON(http.StatusOK, echo.Map{"item": detail})
}

// ListActivities handles GET /v1/activities with the same optional
// ?destination_id= filter as hotels.
func (h *CatalogueHandler) ListActivities(c echo.Context) error {
	var destID uint64
	if raw := c.QueryParam("destination_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid destination_id"})
		}
		destID = id
	}
	items, err := h.Activities.List(c.Request().Context(), destID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]PublicActivity, 0, len(items))
	for _, a := range items {
		out = append(out, PublicActivity{ID: a.ID, DestinationID: a.DestinationID, Name: a.Name, Description: a.Description, PricePerPerson: booking.FormatCents(a.PriceCents)})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

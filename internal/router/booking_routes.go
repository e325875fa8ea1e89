package router

import (
	"github.com/labstack/echo/v4"

	"github.com/IngAlexfit/caribeVibes-system-sub000/internal/handler"
	"github.com/IngAlexfit/caribeVibes-system-sub000/internal/middleware"
)

// RegisterBooking registers the booking lifecycle endpoints.  Customer
// routes require a valid JWT with the CUSTOMER or ADMIN role; booking
// ownership is enforced inside the handlers so admins can act on any
// booking.  Operational transitions and reporting lists require ADMIN.
// The limiter runs after the JWT middleware so its caller key sees the
// authenticated user ID.
func RegisterBooking(e *echo.Echo, h *handler.BookingHandler, admin *handler.AdminBookingHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("CUSTOMER", "ADMIN"),
	)
	if limiter != nil {
		g.Use(limiter)
	}
	g.POST("/bookings", h.Create)
	g.GET("/my-bookings", h.ListMine)
	g.GET("/bookings/:id", h.Get)
	g.GET("/bookings/by-code/:code", h.GetByCode)
	g.PUT("/bookings/:id", h.Update)
	g.PUT("/bookings/:id/cancel", h.Cancel)
	g.GET("/bookings/:id/voucher", h.Voucher)
	g.POST("/bookings/:id/activities", h.AttachActivity)
	g.GET("/bookings/:id/activities", h.ListActivities)
	g.DELETE("/booking-activities/:id", h.DetachActivity)

	ag := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	)
	if limiter != nil {
		ag.Use(limiter)
	}
	ag.GET("/bookings", admin.List)
	ag.GET("/bookings/upcoming", admin.ListUpcoming)
	ag.GET("/bookings/by-status/:status", admin.ListByStatus)
	ag.PUT("/bookings/:id/confirm", admin.Confirm)
	ag.PUT("/bookings/:id/check-in", admin.CheckIn)
	ag.PUT("/bookings/:id/check-out", admin.CheckOut)
	ag.PUT("/bookings/:id/complete", admin.Complete)
}

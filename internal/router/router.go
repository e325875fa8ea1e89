package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/IngAlexfit/caribeVibes-system-sub000/internal/handler"
	"github.com/IngAlexfit/caribeVibes-system-sub000/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication.
// Currently it exposes only a health check, used by load balancers and
// monitoring to verify the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes.
// Unauthenticated operations live under /v1/auth, while protected
// endpoints live under /v1.  The limiter keys these routes by client
// IP since no JWT has been verified yet.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group("/v1/auth")
	if limiter != nil {
		g.Use(limiter)
	}
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// /refresh rotates the refresh token; /refresh-access issues a new
	// access token while reusing the refresh token.
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout accepts either a refresh_token body or a bearer header and
	// therefore needs no JWT middleware.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("ADMIN", "CUSTOMER"))
	if limiter != nil {
		auth.Use(limiter)
	}
	auth.GET("/me", a.Me)
}

// RegisterCatalogue registers the unauthenticated browse endpoints for
// destinations, hotels and activities.  The limiter runs first, then
// the cache, so repeated guest browsing never reaches MySQL.
func RegisterCatalogue(e *echo.Echo, h *handler.CatalogueHandler, cache, limiter echo.MiddlewareFunc) {
	g := e.Group("/v1")
	if limiter != nil {
		g.Use(limiter)
	}
	if cache != nil {
		g.Use(cache)
	}
	g.GET("/destinations", h.ListDestinations)
	g.GET("/destinations/:id", h.GetDestination)
	g.GET("/hotels", h.ListHotels)
	g.GET("/hotels/:id", h.GetHotel)
	g.GET("/activities", h.ListActivities)
}

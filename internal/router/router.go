package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/cinema-ticket-booking/internal/handler"    // handlers implementing the endpoints
	"github.com/iliyamo/cinema-ticket-booking/internal/middleware" // JWT authentication and role enforcement
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance: the health check and the public show
// catalogue that booking starts from.
func RegisterRoutes(e *echo.Echo, shows *handler.ShowHandler) {
	// Health endpoint for load balancers and monitoring.
	e.GET("/healthz", handler.Health)
	// Guests can browse shows before registering.
	e.GET("/v1/shows", shows.List)
	e.GET("/v1/shows/:id", shows.Get)
}

// RegisterAuth registers the authentication routes and the protected
// /v1 group.  Unauthenticated operations live under /v1/auth; every
// protected endpoint goes through JWTAuth plus a role check.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) *echo.Group {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Refresh rotates the token: the presented refresh token is revoked
	// and a new pair is issued.
	g.POST("/refresh", a.Refresh)
	// Logout accepts a refresh token in the body and revokes it.  No JWT
	// required; possession of the refresh token is the proof.
	g.POST("/logout", a.Logout)

	// Everything under /v1 outside of /v1/auth requires a valid access
	// token.  Both roles may book; the OWNER-only routes add their own
	// stricter check on top.
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("OWNER", "CUSTOMER"))
	auth.GET("/me", a.Me)
	return auth
}

// RegisterBooking registers the step-by-step purchase flow on the
// protected group.  The steps share a booking session carried in the
// X-Booking-Session header.
func RegisterBooking(auth *echo.Group, b *handler.BookingHandler, t *handler.TicketHandler) {
	g := auth.Group("/booking")
	g.POST("/show", b.SelectShow)
	g.POST("/row", b.SelectRow)
	g.POST("/cell", b.SelectCell)
	g.POST("/confirm", b.Confirm)
	g.POST("/cancel", b.Cancel)
	auth.GET("/tickets", t.Mine)
}

// RegisterShowAdmin registers the catalogue management routes.  Only
// owners may create, edit or remove shows.
func RegisterShowAdmin(auth *echo.Group, s *handler.ShowHandler) {
	g := auth.Group("/shows")
	g.Use(middleware.RequireRole("OWNER"))
	g.POST("", s.Create)
	g.PUT("/:id", s.Update)
	g.DELETE("/:id", s.Delete)
}

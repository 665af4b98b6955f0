package router

import (
	"github.com/labstack/echo/v4"

	"github.com/morekat/boat-charter/internal/handler"
	"github.com/morekat/boat-charter/internal/middleware"
	"github.com/morekat/boat-charter/internal/model"
)

// RegisterPublic registers unauthenticated browse endpoints.  These
// return sanitized data for the fleet, upcoming group trips and
// standing trip offers; no JWT or role middleware applies.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler) {
	// Fleet browsing with an optional ?type= filter.
	e.GET("/v1/boats", p.GetBoats)
	e.GET("/v1/boats/:id", p.GetBoat)
	// Upcoming group trips; FULL trips stay listed.
	e.GET("/v1/group-trips", p.GetTrips)
	e.GET("/v1/group-trips/:id", p.GetTrip)
	// Standing trip offers purchasable before a trip is scheduled.
	e.GET("/v1/group-trip-services", p.GetServices)
	e.GET("/v1/group-trip-services/:type", p.GetService)
}

// RegisterCustomer registers the storefront's write endpoints and the
// customer's own listings.  Purchases work for guests too: OptionalJWT
// attaches the customer identity when a bearer token is present, and
// anonymous purchases run under a placeholder identity created from the
// contact details in the request.  The my-* listings require a login.
func RegisterCustomer(e *echo.Echo, b *handler.BookingHandler, t *handler.TicketHandler, ct *handler.ContactHandler, jwtSecret string) {
	opt := middleware.OptionalJWT(jwtSecret)
	e.POST("/v1/bookings", b.CreateBooking, opt)
	e.POST("/v1/group-trips/:id/tickets", t.PurchaseTripTickets, opt)
	e.POST("/v1/group-trip-services/:type/tickets", t.PurchaseServiceTicket, opt)
	e.POST("/v1/contact", ct.CreateContact)

	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleUser, model.RoleAdmin, model.RoleOwner),
	)
	g.GET("/my-bookings", b.ListMyBookings)
	g.GET("/my-bookings/:id", b.GetMyBooking)
	g.GET("/my-tickets", t.ListMyTickets)
	g.GET("/my-tickets/:id", t.GetMyTicket)
}

package router

import (
	"github.com/labstack/echo/v4"

	"github.com/morekat/boat-charter/internal/handler"
	"github.com/morekat/boat-charter/internal/middleware"
	"github.com/morekat/boat-charter/internal/model"
)

// RegisterAdmin registers back-office endpoints under /v1/admin.
// All routes require a valid JWT and an ADMIN or OWNER role.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, ct *handler.ContactHandler, jwtSecret string) {
	// Attach middlewares at group construction time for clarity.
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin, model.RoleOwner),
	)

	// ---- Fleet ----
	g.GET("/boats", a.ListBoats)
	g.POST("/boats", a.CreateBoat)
	g.PUT("/boats/:id", a.UpdateBoat)
	g.PATCH("/boats/:id", a.UpdateBoat) // allow partial/semantic updates via PATCH as well
	g.DELETE("/boats/:id", a.DeactivateBoat)
	g.GET("/boats/:id/bookings", a.ListBoatBookings)

	// ---- Bookings ----
	g.GET("/bookings", a.ListBookings)
	g.GET("/bookings/:id", a.GetBooking)
	g.PATCH("/bookings/:id/status", a.SetBookingStatus)

	// ---- Group trips ----
	g.GET("/group-trips", a.ListTrips)
	g.POST("/group-trips", a.CreateTrip)
	g.PATCH("/group-trips/:id/status", a.SetTripStatus)
	g.GET("/group-trips/:id/tickets", a.ListTripTickets)

	// ---- Standing offers ----
	g.PUT("/group-trip-services", a.UpsertService)

	// ---- Tickets ----
	g.GET("/tickets/unassigned", a.ListUnassignedTickets)
	g.GET("/tickets/:id", a.GetTicket)
	g.PATCH("/tickets/:id/status", a.SetTicketStatus)
	g.POST("/tickets/:id/assign", a.AssignTicketToTrip)

	// ---- Contact requests ----
	g.GET("/contact-requests", ct.ListContacts)

	// ---- Operations ----
	g.POST("/notifications/test", a.SendTestNotification)
}

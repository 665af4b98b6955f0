// Package handler exposes HTTP handlers for both authenticated and public endpoints.
// This file defines handlers for the public browsing API. These routes allow
// unauthenticated visitors to browse the fleet, upcoming group trips and
// standing trip offers. Sensitive fields (owner IDs, inactive records) are
// filtered from responses.

package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/morekat/boat-charter/internal/model"
	"github.com/morekat/boat-charter/internal/repository"
)

// PublicHandler aggregates repositories needed for unauthenticated browsing.
// It produces sanitized responses suitable for public consumption.
type PublicHandler struct {
	BoatRepo    *repository.BoatRepo    // provides access to the fleet
	TripRepo    *repository.TripRepo    // provides access to scheduled trips
	ServiceRepo *repository.ServiceRepo // provides access to standing offers
}

// PublicBoat is a boat exposed via the public API.  It contains only
// fields the storefront needs.
type PublicBoat struct {
	ID           uint64  `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Type         string  `json:"type"`
	Capacity     uint32  `json:"capacity"`
	LengthM      float64 `json:"length_m"`
	Year         *uint16 `json:"year,omitempty"`
	PricePerHour int64   `json:"price_per_hour"`
	PricePerDay  int64   `json:"price_per_day"`
	MinimumHours uint32  `json:"minimum_hours"`
	Location     string  `json:"location"`
	Pier         string  `json:"pier"`
	HasCaptain   bool    `json:"has_captain"`
	HasCrew      bool    `json:"has_crew"`
	IsAvailable  bool    `json:"is_available"`
}

func toPublicBoat(b model.Boat) PublicBoat {
	return PublicBoat{
		ID: b.ID, Name: b.Name, Description: b.Description, Type: b.Type,
		Capacity: b.Capacity, LengthM: b.LengthM, Year: b.Year,
		PricePerHour: b.PricePerHour, PricePerDay: b.PricePerDay,
		MinimumHours: b.MinimumHours, Location: b.Location, Pier: b.Pier,
		HasCaptain: b.HasCaptain, HasCrew: b.HasCrew, IsAvailable: b.IsAvailable,
	}
}

// GetBoats handles GET /v1/boats.  It lists active boats, optionally
// filtered by ?type=.  An unknown type yields an empty list rather than
// an error so storefront filters degrade gracefully.
func (h *PublicHandler) GetBoats(c echo.Context) error {
	ctx := c.Request().Context()
	boatType := strings.ToUpper(strings.TrimSpace(c.QueryParam("type")))
	if boatType != "" && !model.ValidBoatType(boatType) {
		return c.JSON(http.StatusOK, echo.Map{"items": []PublicBoat{}})
	}
	boats, err := h.BoatRepo.ListActive(ctx, boatType)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]PublicBoat, 0, len(boats))
	for _, b := range boats {
		out = append(out, toPublicBoat(b))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetBoat handles GET /v1/boats/:id.  Inactive boats are reported as
// not found to hide them from the storefront.
func (h *PublicHandler) GetBoat(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid boat id"})
	}
	b, err := h.BoatRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	if !b.IsActive {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "boat not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": toPublicBoat(*b)})
}

// PublicTrip is a scheduled group trip exposed via the public API.
type PublicTrip struct {
	ID             uint64 `json:"id"`
	Type           string `json:"type"`
	Price          int64  `json:"price"`
	MaxCapacity    uint32 `json:"max_capacity"`
	AvailableSeats int32  `json:"available_seats"`
	DepartureDate  string `json:"departure_date"`
	Status         string `json:"status"`
}

func toPublicTrip(t model.GroupTrip) PublicTrip {
	return PublicTrip{
		ID: t.ID, Type: t.Type, Price: t.Price, MaxCapacity: t.MaxCapacity,
		AvailableSeats: t.AvailableSeats,
		DepartureDate:  t.DepartureDate.UTC().Format("2006-01-02T15:04:05Z07:00"),
		Status:         t.Status,
	}
}

// GetTrips handles GET /v1/group-trips.  It returns upcoming SCHEDULED
// and FULL trips; FULL trips stay visible so customers see them sell
// out instead of disappearing.
func (h *PublicHandler) GetTrips(c echo.Context) error {
	trips, err := h.TripRepo.ListUpcoming(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]PublicTrip, 0, len(trips))
	for _, t := range trips {
		out = append(out, toPublicTrip(t))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetTrip handles GET /v1/group-trips/:id.
func (h *PublicHandler) GetTrip(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid trip id"})
	}
	t, err := h.TripRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": toPublicTrip(*t)})
}

// GetServices handles GET /v1/group-trip-services.  It lists the active
// standing offers customers can buy into before a concrete trip exists.
func (h *PublicHandler) GetServices(c echo.Context) error {
	services, err := h.ServiceRepo.ListActive(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": services})
}

// GetService handles GET /v1/group-trip-services/:type.  Disabled
// offers are reported as not found, matching the list view.
func (h *PublicHandler) GetService(c echo.Context) error {
	serviceType := strings.ToUpper(strings.TrimSpace(c.Param("type")))
	if !model.ValidTripType(serviceType) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown service type"})
	}
	s, err := h.ServiceRepo.GetByType(c.Request().Context(), serviceType)
	if err != nil {
		return respondError(c, err)
	}
	if !s.IsActive {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "service not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": s})
}

package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/morekat/boat-charter/internal/model"
	"github.com/morekat/boat-charter/internal/repository"
)

type createTripReq struct {
	Type          string `json:"type"`
	Price         int64  `json:"price"`
	MaxCapacity   uint32 `json:"max_capacity"`
	DepartureDate string `json:"departure_date"` // RFC 3339
}

// ListTrips handles GET /v1/admin/group-trips with an optional
// ?status= filter.
func (h *AdminHandler) ListTrips(c echo.Context) error {
	status := strings.ToUpper(strings.TrimSpace(c.QueryParam("status")))
	if status != "" && !model.ValidTripStatus(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown trip status"})
	}
	items, err := h.TripRepo.ListAll(c.Request().Context(), status)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// CreateTrip handles POST /v1/admin/group-trips.  A new trip starts
// SCHEDULED with its full seat pool.
func (h *AdminHandler) CreateTrip(c echo.Context) error {
	var req createTripReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Type = strings.ToUpper(strings.TrimSpace(req.Type))
	if !model.ValidTripType(req.Type) {
		return respondError(c, repository.ValidationError{Field: "type", Msg: "unknown trip type"})
	}
	if req.Price < 1 {
		return respondError(c, repository.ValidationError{Field: "price", Msg: "must be positive"})
	}
	if req.MaxCapacity < 1 {
		return respondError(c, repository.ValidationError{Field: "max_capacity", Msg: "must be at least 1"})
	}
	departure, err := time.Parse(time.RFC3339, req.DepartureDate)
	if err != nil {
		return respondError(c, repository.ValidationError{Field: "departure_date", Msg: "must be RFC 3339"})
	}
	departure = departure.UTC()
	if !departure.After(time.Now().UTC()) {
		return respondError(c, repository.ValidationError{Field: "departure_date", Msg: "must be in the future"})
	}

	t := &model.GroupTrip{
		Type:           req.Type,
		Price:          req.Price,
		MaxCapacity:    req.MaxCapacity,
		AvailableSeats: int32(req.MaxCapacity),
		DepartureDate:  departure,
		Status:         model.TripStatusScheduled,
	}
	if err := h.TripRepo.Create(c.Request().Context(), t); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create trip"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": t})
}

type tripStatusReq struct {
	Status string `json:"status"`
}

// SetTripStatus handles PATCH /v1/admin/group-trips/:id/status.  Admins
// may complete or cancel a trip; the SCHEDULED/FULL pair is owned by
// the seat ledger and cannot be set by hand.
func (h *AdminHandler) SetTripStatus(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid trip id"})
	}
	var req tripStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	status := strings.ToUpper(strings.TrimSpace(req.Status))
	if status != model.TripStatusCompleted && status != model.TripStatusCancelled {
		return respondError(c, repository.ValidationError{Field: "status", Msg: "must be COMPLETED or CANCELLED"})
	}

	ctx := c.Request().Context()
	t, err := h.TripRepo.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	if t.Status == model.TripStatusCompleted || t.Status == model.TripStatusCancelled {
		return respondError(c, repository.InvalidTransitionError{Entity: "trip", Current: t.Status, Requested: status})
	}
	if err := h.TripRepo.UpdateStatus(ctx, id, status); err != nil {
		return respondError(c, err)
	}
	t.Status = status
	return c.JSON(http.StatusOK, echo.Map{"item": t})
}

// ListTripTickets handles GET /v1/admin/group-trips/:id/tickets.
func (h *AdminHandler) ListTripTickets(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid trip id"})
	}
	ctx := c.Request().Context()
	if _, err := h.TripRepo.GetByID(ctx, id); err != nil {
		return respondError(c, err)
	}
	items, err := h.TicketRepo.ListByTrip(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load tickets"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

type serviceReq struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Duration    string `json:"duration"`
	Price       int64  `json:"price"`
	IsActive    *bool  `json:"is_active,omitempty"`
}

// UpsertService handles PUT /v1/admin/group-trip-services.  Offers are
// keyed by trip type; writing an existing type replaces the offer.
func (h *AdminHandler) UpsertService(c echo.Context) error {
	var req serviceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Type = strings.ToUpper(strings.TrimSpace(req.Type))
	if !model.ValidTripType(req.Type) {
		return respondError(c, repository.ValidationError{Field: "type", Msg: "unknown trip type"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return respondError(c, repository.ValidationError{Field: "title", Msg: "required"})
	}
	if req.Price < 1 {
		return respondError(c, repository.ValidationError{Field: "price", Msg: "must be positive"})
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	s := &model.GroupTripService{
		Type:        req.Type,
		Title:       req.Title,
		Description: req.Description,
		Duration:    req.Duration,
		Price:       req.Price,
		IsActive:    active,
	}
	if err := h.ServiceRepo.Upsert(c.Request().Context(), s); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save service"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": s})
}

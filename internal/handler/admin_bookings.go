package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/morekat/boat-charter/internal/model"
	"github.com/morekat/boat-charter/internal/queue"
	"github.com/morekat/boat-charter/internal/repository"
	queue_publisher "github.com/morekat/boat-charter/internal/service"
)

// ListBookings handles GET /v1/admin/bookings with an optional
// ?status= filter.
func (h *AdminHandler) ListBookings(c echo.Context) error {
	status := strings.ToUpper(strings.TrimSpace(c.QueryParam("status")))
	if status != "" && !model.ValidBookingStatus(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown booking status"})
	}
	items, err := h.BookingRepo.ListAll(c.Request().Context(), status)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ListBoatBookings handles GET /v1/admin/boats/:id/bookings, the
// per-boat schedule view, with an optional ?status= filter.
func (h *AdminHandler) ListBoatBookings(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid boat id"})
	}
	status := strings.ToUpper(strings.TrimSpace(c.QueryParam("status")))
	if status != "" && !model.ValidBookingStatus(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown booking status"})
	}
	ctx := c.Request().Context()
	if _, err := h.BoatRepo.GetByID(ctx, id); err != nil {
		return respondError(c, err)
	}
	items, err := h.BookingRepo.ListByBoat(ctx, id, status)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetBooking handles GET /v1/admin/bookings/:id.
func (h *AdminHandler) GetBooking(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	b, err := h.BookingRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": b})
}

type bookingStatusReq struct {
	Status string `json:"status"`
}

// SetBookingStatus handles PATCH /v1/admin/bookings/:id/status.  The
// booking row is locked while the transition is validated so two
// concurrent status changes cannot both pass the state machine check.
// Cancelled and completed bookings free their time window, which needs
// no extra work: the overlap check only counts active statuses.
func (h *AdminHandler) SetBookingStatus(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req bookingStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	status := strings.ToUpper(strings.TrimSpace(req.Status))
	if !model.ValidBookingStatus(status) {
		return respondError(c, repository.ValidationError{Field: "status", Msg: "unknown booking status"})
	}

	ctx := c.Request().Context()
	tx, err := h.BookingRepo.DB.BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	b, err := h.BookingRepo.GetByIDTx(ctx, tx, id)
	if err != nil {
		return respondError(c, err)
	}
	if !model.CanTransitionBooking(b.Status, status) {
		return respondError(c, repository.InvalidTransitionError{Entity: "booking", Current: b.Status, Requested: status})
	}
	if err := h.BookingRepo.UpdateStatusTx(ctx, tx, id, status); err != nil {
		return respondError(c, err)
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	b.Status = status
	go func(b model.Booking) {
		_ = queue_publisher.PublishBooking(context.Background(), queue.KindBookingStatus, queue.BookingEvent{
			BookingID:     b.ID,
			BoatID:        b.BoatID,
			UserID:        b.UserID,
			StartsAt:      b.StartDate.Format(time.RFC3339),
			EndsAt:        b.EndDate.Format(time.RFC3339),
			Hours:         b.Hours,
			Passengers:    b.Passengers,
			TotalPrice:    b.TotalPrice,
			Status:        b.Status,
			CustomerName:  b.CustomerName,
			CustomerPhone: b.CustomerPhone,
		})
	}(*b)

	return c.JSON(http.StatusOK, echo.Map{"item": b})
}

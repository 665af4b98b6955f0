package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/morekat/boat-charter/internal/model"
	"github.com/morekat/boat-charter/internal/queue"
	"github.com/morekat/boat-charter/internal/repository"
	queue_publisher "github.com/morekat/boat-charter/internal/service"
)

// ListUnassignedTickets handles GET /v1/admin/tickets/unassigned with
// an optional ?type= filter.  These are service purchases waiting for a
// trip.
func (h *AdminHandler) ListUnassignedTickets(c echo.Context) error {
	serviceType := strings.ToUpper(strings.TrimSpace(c.QueryParam("type")))
	if serviceType != "" && !model.ValidTripType(serviceType) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown service type"})
	}
	items, err := h.TicketRepo.ListUnassigned(c.Request().Context(), serviceType)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load tickets"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetTicket handles GET /v1/admin/tickets/:id.
func (h *AdminHandler) GetTicket(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
	}
	t, err := h.TicketRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": t})
}

type ticketStatusReq struct {
	Status string `json:"status"`
}

// SetTicketStatus handles PATCH /v1/admin/tickets/:id/status.  The
// ticket row stays locked while the transition is validated, and a
// cancellation releases the ticket's seats back to its trip inside the
// same transaction, so the ledger and the ticket can never disagree.
func (h *AdminHandler) SetTicketStatus(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
	}
	var req ticketStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	status := strings.ToUpper(strings.TrimSpace(req.Status))
	if !model.ValidTicketStatus(status) {
		return respondError(c, repository.ValidationError{Field: "status", Msg: "unknown ticket status"})
	}

	ctx := c.Request().Context()
	tx, err := h.TicketRepo.DB.BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	t, err := h.TicketRepo.GetByIDTx(ctx, tx, id)
	if err != nil {
		return respondError(c, err)
	}
	if !model.CanTransitionTicket(t.Status, status) {
		return respondError(c, repository.InvalidTransitionError{Entity: "ticket", Current: t.Status, Requested: status})
	}
	// Seats were consumed at purchase, so both PENDING and CONFIRMED
	// tickets return them on cancellation.  Service tickets without a
	// trip hold nothing.
	if status == model.TicketStatusCancelled && t.TripID != nil {
		if err := h.TripRepo.ReleaseSeatsTx(ctx, tx, *t.TripID, t.TotalTickets()); err != nil {
			return respondError(c, err)
		}
	}
	if err := h.TicketRepo.UpdateStatusTx(ctx, tx, id, status); err != nil {
		return respondError(c, err)
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	t.Status = status
	go func(t model.GroupTripTicket) {
		_ = queue_publisher.PublishTicket(context.Background(), queue.KindTicketStatus, queue.TicketEvent{
			TicketID:      t.ID,
			TripID:        t.TripID,
			ServiceType:   t.ServiceType,
			UserID:        t.UserID,
			AdultTickets:  t.AdultTickets,
			ChildTickets:  t.ChildTickets,
			TotalPrice:    t.TotalPrice,
			Status:        t.Status,
			CustomerName:  t.CustomerName,
			CustomerPhone: t.CustomerPhone,
		})
	}(*t)

	return c.JSON(http.StatusOK, echo.Map{"item": t})
}

type assignTicketReq struct {
	TripID uint64 `json:"trip_id"`
}

// AssignTicketToTrip handles POST /v1/admin/tickets/:id/assign.  A
// service ticket starts holding seats the moment it is attached to a
// trip; the seat reservation and the assignment commit together, and a
// trip without enough seats rejects the whole operation.
func (h *AdminHandler) AssignTicketToTrip(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
	}
	var req assignTicketReq
	if err := c.Bind(&req); err != nil || req.TripID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "trip_id required"})
	}

	ctx := c.Request().Context()
	tx, err := h.TicketRepo.DB.BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	t, err := h.TicketRepo.GetByIDTx(ctx, tx, id)
	if err != nil {
		return respondError(c, err)
	}
	if t.Status == model.TicketStatusCancelled {
		return respondError(c, repository.InvalidTransitionError{Entity: "ticket", Current: t.Status, Requested: "assignment"})
	}
	if t.TripID != nil {
		return respondError(c, repository.ValidationError{Field: "ticket", Msg: "already assigned to a trip"})
	}
	trip, err := h.TripRepo.GetByIDTx(ctx, tx, req.TripID)
	if err != nil {
		return respondError(c, err)
	}
	if trip.Type != t.ServiceType {
		return respondError(c, repository.ErrTicketNotInTrip)
	}
	if err := h.TripRepo.ReserveSeatsTx(ctx, tx, trip.ID, t.TotalTickets()); err != nil {
		return respondError(c, err)
	}
	if err := h.TicketRepo.AssignTripTx(ctx, tx, t.ID, trip.ID); err != nil {
		return respondError(c, err)
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	t.TripID = &trip.ID
	return c.JSON(http.StatusOK, echo.Map{"item": t})
}

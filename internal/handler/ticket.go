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

// TicketHandler sells group trip tickets.  Trip purchases go through
// the seat ledger: the conditional seat decrement and the ticket insert
// share one transaction, so a purchase either takes its seats or leaves
// the trip untouched.  Service purchases (no concrete trip yet) hold no
// seats and wait for an admin to assign them.
type TicketHandler struct {
	TripRepo    *repository.TripRepo
	ServiceRepo *repository.ServiceRepo
	TicketRepo  *repository.TicketRepo
	UserRepo    *repository.UserRepo
}

// NewTicketHandler constructs a TicketHandler.  All dependencies must
// be non-nil.
func NewTicketHandler(trips *repository.TripRepo, services *repository.ServiceRepo, tickets *repository.TicketRepo, users *repository.UserRepo) *TicketHandler {
	if trips == nil || services == nil || tickets == nil || users == nil {
		panic("nil repository passed to NewTicketHandler")
	}
	return &TicketHandler{TripRepo: trips, ServiceRepo: services, TicketRepo: tickets, UserRepo: users}
}

type purchaseReq struct {
	AdultTickets  uint32  `json:"adult_tickets"`
	ChildTickets  uint32  `json:"child_tickets"`
	CustomerName  string  `json:"customer_name"`
	CustomerPhone string  `json:"customer_phone"`
	CustomerEmail *string `json:"customer_email,omitempty"`
	DesiredDate   *string `json:"desired_date,omitempty"` // service purchases only
}

func (r *purchaseReq) validate() error {
	total := r.AdultTickets + r.ChildTickets
	if total < 1 {
		return repository.ValidationError{Field: "adult_tickets", Msg: "at least one ticket is required"}
	}
	if total > model.MaxTicketsPerPurchase {
		return repository.ErrCapacityExceeded
	}
	r.CustomerName = strings.TrimSpace(r.CustomerName)
	if r.CustomerName == "" {
		return repository.ValidationError{Field: "customer_name", Msg: "required"}
	}
	r.CustomerPhone = strings.TrimSpace(r.CustomerPhone)
	if !validPhone(r.CustomerPhone) {
		return repository.ValidationError{Field: "customer_phone", Msg: "must be a valid phone number"}
	}
	return nil
}

// resolveUser returns the authenticated customer, backfilling contact
// details from the purchase form, or creates a placeholder identity for
// anonymous purchases.
func (h *TicketHandler) resolveUser(c echo.Context, name, phone string, email *string) (uint64, error) {
	if userID, err := getUserID(c); err == nil {
		_ = h.UserRepo.UpdateContact(c.Request().Context(), userID, phone, email)
		return userID, nil
	}
	u, err := h.UserRepo.CreatePlaceholder(c.Request().Context(), name, phone)
	if err != nil {
		return 0, err
	}
	return u.ID, nil
}

// PurchaseTripTickets handles POST /v1/group-trips/:id/tickets.  The
// seat decrement is conditional on the trip still being SCHEDULED with
// enough seats, and the ticket insert only commits together with it.
// The response includes the seats remaining after the purchase.
func (h *TicketHandler) PurchaseTripTickets(c echo.Context) error {
	tripID, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid trip id"})
	}
	var req purchaseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := req.validate(); err != nil {
		return respondError(c, err)
	}

	ctx := c.Request().Context()
	userID, err := h.resolveUser(c, req.CustomerName, req.CustomerPhone, req.CustomerEmail)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create customer"})
	}

	tx, err := h.TripRepo.DB.BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	trip, err := h.TripRepo.GetByIDTx(ctx, tx, tripID)
	if err != nil {
		return respondError(c, err)
	}
	if trip.Status == model.TripStatusCompleted || trip.Status == model.TripStatusCancelled {
		return respondError(c, repository.ErrResourceUnavailable)
	}
	if !trip.DepartureDate.After(time.Now().UTC()) {
		return respondError(c, repository.ErrResourceUnavailable)
	}
	// A trip row without a positive price is not sellable, whatever its
	// status says.
	if trip.Price < 1 {
		return respondError(c, repository.ErrResourceUnavailable)
	}

	total := req.AdultTickets + req.ChildTickets
	if err := h.TripRepo.ReserveSeatsTx(ctx, tx, tripID, total); err != nil {
		return respondError(c, err)
	}

	adultPrice := trip.Price
	childPrice := model.ChildPrice(adultPrice)
	ticket := &model.GroupTripTicket{
		TripID:        &tripID,
		ServiceType:   trip.Type,
		UserID:        userID,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		CustomerEmail: req.CustomerEmail,
		AdultTickets:  req.AdultTickets,
		ChildTickets:  req.ChildTickets,
		AdultPrice:    adultPrice,
		ChildPrice:    childPrice,
		TotalPrice:    int64(req.AdultTickets)*adultPrice + int64(req.ChildTickets)*childPrice,
		Status:        model.TicketStatusPending,
	}
	if err := h.TicketRepo.CreateTx(ctx, tx, ticket); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create ticket"})
	}
	// Re-read inside the transaction so the reported remainder matches
	// what this purchase committed.
	after, err := h.TripRepo.GetByIDTx(ctx, tx, tripID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load trip"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	seatsLeft := after.AvailableSeats
	go func(t model.GroupTripTicket, left int32) {
		_ = queue_publisher.PublishTicket(context.Background(), queue.KindTicketPurchased, queue.TicketEvent{
			TicketID:      t.ID,
			TripID:        t.TripID,
			ServiceType:   t.ServiceType,
			UserID:        t.UserID,
			AdultTickets:  t.AdultTickets,
			ChildTickets:  t.ChildTickets,
			TotalPrice:    t.TotalPrice,
			Status:        t.Status,
			SeatsLeft:     &left,
			CustomerName:  t.CustomerName,
			CustomerPhone: t.CustomerPhone,
		})
	}(*ticket, seatsLeft)

	return c.JSON(http.StatusCreated, echo.Map{
		"item":            ticket,
		"available_seats": seatsLeft,
		"trip_status":     after.Status,
	})
}

// PurchaseServiceTicket handles POST /v1/group-trip-services/:type/tickets.
// The customer buys into a standing offer before a trip exists; the
// ticket carries a null trip id and no seats until an admin assigns it.
func (h *TicketHandler) PurchaseServiceTicket(c echo.Context) error {
	serviceType := strings.ToUpper(strings.TrimSpace(c.Param("type")))
	if !model.ValidTripType(serviceType) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid service type"})
	}
	var req purchaseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := req.validate(); err != nil {
		return respondError(c, err)
	}
	var desired *time.Time
	if req.DesiredDate != nil && *req.DesiredDate != "" {
		d, err := time.Parse(time.RFC3339, *req.DesiredDate)
		if err != nil {
			return respondError(c, repository.ValidationError{Field: "desired_date", Msg: "must be RFC 3339"})
		}
		d = d.UTC()
		desired = &d
	}

	ctx := c.Request().Context()
	svc, err := h.ServiceRepo.GetByType(ctx, serviceType)
	if err != nil {
		return respondError(c, err)
	}
	if !svc.IsActive {
		return respondError(c, repository.ErrResourceUnavailable)
	}

	userID, err := h.resolveUser(c, req.CustomerName, req.CustomerPhone, req.CustomerEmail)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create customer"})
	}

	tx, err := h.TripRepo.DB.BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	adultPrice := svc.Price
	childPrice := model.ChildPrice(adultPrice)
	ticket := &model.GroupTripTicket{
		ServiceType:   serviceType,
		UserID:        userID,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		CustomerEmail: req.CustomerEmail,
		DesiredDate:   desired,
		AdultTickets:  req.AdultTickets,
		ChildTickets:  req.ChildTickets,
		AdultPrice:    adultPrice,
		ChildPrice:    childPrice,
		TotalPrice:    int64(req.AdultTickets)*adultPrice + int64(req.ChildTickets)*childPrice,
		Status:        model.TicketStatusPending,
	}
	if err := h.TicketRepo.CreateTx(ctx, tx, ticket); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create ticket"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	go func(t model.GroupTripTicket) {
		_ = queue_publisher.PublishTicket(context.Background(), queue.KindTicketPurchased, queue.TicketEvent{
			TicketID:      t.ID,
			ServiceType:   t.ServiceType,
			UserID:        t.UserID,
			AdultTickets:  t.AdultTickets,
			ChildTickets:  t.ChildTickets,
			TotalPrice:    t.TotalPrice,
			Status:        t.Status,
			CustomerName:  t.CustomerName,
			CustomerPhone: t.CustomerPhone,
		})
	}(*ticket)

	return c.JSON(http.StatusCreated, echo.Map{"item": ticket})
}

// ListMyTickets handles GET /v1/my-tickets for authenticated customers.
func (h *TicketHandler) ListMyTickets(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.TicketRepo.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load tickets"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetMyTicket handles GET /v1/my-tickets/:id.  Tickets belonging to
// other customers are reported as not found.
func (h *TicketHandler) GetMyTicket(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
	}
	t, err := h.TicketRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	if t.UserID != userID {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": t})
}

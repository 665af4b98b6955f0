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

// BookingHandler creates bookings and lists them for customers.  The
// create path is the hot spot of the whole service: it must guarantee
// that two customers can never hold overlapping windows on the same
// boat.  It does so by locking the boat row and running the overlap
// check and the insert inside one transaction.
type BookingHandler struct {
	BoatRepo    *repository.BoatRepo
	BookingRepo *repository.BookingRepo
	UserRepo    *repository.UserRepo
}

// NewBookingHandler constructs a BookingHandler.  All dependencies must
// be non-nil.
func NewBookingHandler(boats *repository.BoatRepo, bookings *repository.BookingRepo, users *repository.UserRepo) *BookingHandler {
	if boats == nil || bookings == nil || users == nil {
		panic("nil repository passed to NewBookingHandler")
	}
	return &BookingHandler{BoatRepo: boats, BookingRepo: bookings, UserRepo: users}
}

type createBookingReq struct {
	BoatID        uint64  `json:"boat_id"`
	StartDate     string  `json:"start_date"` // RFC 3339
	Hours         uint32  `json:"hours"`
	Passengers    uint32  `json:"passengers"`
	CustomerName  string  `json:"customer_name"`
	CustomerPhone string  `json:"customer_phone"`
	CustomerEmail *string `json:"customer_email,omitempty"`
	CustomerNotes *string `json:"customer_notes,omitempty"`
}

// validate normalizes the request and reports the first problem found.
func (r *createBookingReq) validate(now time.Time) (time.Time, error) {
	if r.BoatID == 0 {
		return time.Time{}, repository.ValidationError{Field: "boat_id", Msg: "required"}
	}
	if r.Hours < 1 {
		return time.Time{}, repository.ValidationError{Field: "hours", Msg: "must be at least 1"}
	}
	if r.Passengers < 1 {
		return time.Time{}, repository.ValidationError{Field: "passengers", Msg: "must be at least 1"}
	}
	r.CustomerName = strings.TrimSpace(r.CustomerName)
	if r.CustomerName == "" {
		return time.Time{}, repository.ValidationError{Field: "customer_name", Msg: "required"}
	}
	r.CustomerPhone = strings.TrimSpace(r.CustomerPhone)
	if !validPhone(r.CustomerPhone) {
		return time.Time{}, repository.ValidationError{Field: "customer_phone", Msg: "must be a valid phone number"}
	}
	start, err := time.Parse(time.RFC3339, r.StartDate)
	if err != nil {
		return time.Time{}, repository.ValidationError{Field: "start_date", Msg: "must be RFC 3339"}
	}
	start = start.UTC()
	if !start.After(now) {
		return time.Time{}, repository.ValidationError{Field: "start_date", Msg: "must be in the future"}
	}
	return start, nil
}

// CreateBooking handles POST /v1/bookings.  The endpoint is public:
// authenticated customers book under their own account, anonymous web
// visitors get a placeholder identity keyed by the contact details they
// supply.  The booked window is half-open, [start, start+hours), so a
// booking ending at 14:00 does not conflict with one starting at 14:00.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	start, err := req.validate(time.Now().UTC())
	if err != nil {
		return respondError(c, err)
	}
	end := start.Add(time.Duration(req.Hours) * time.Hour)

	ctx := c.Request().Context()
	userID, uidErr := getUserID(c)
	if uidErr != nil {
		u, err := h.UserRepo.CreatePlaceholder(ctx, req.CustomerName, req.CustomerPhone)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create customer"})
		}
		userID = u.ID
	} else {
		// Known customers get their contact details backfilled from the
		// booking form, best effort.
		_ = h.UserRepo.UpdateContact(ctx, userID, req.CustomerPhone, req.CustomerEmail)
	}

	tx, err := h.BoatRepo.DB.BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// The row lock serializes all booking attempts on this boat until
	// commit, closing the race between the overlap check and the insert.
	boat, err := h.BoatRepo.LockForBookingTx(ctx, tx, req.BoatID)
	if err != nil {
		return respondError(c, err)
	}
	if req.Passengers > boat.Capacity {
		return respondError(c, repository.ErrCapacityExceeded)
	}
	conflict, err := h.BookingRepo.HasOverlapTx(ctx, tx, boat.ID, start, end)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to check availability"})
	}
	if conflict {
		return respondError(c, repository.ErrSlotConflict)
	}

	booking := &model.Booking{
		BoatID:        boat.ID,
		UserID:        userID,
		StartDate:     start,
		EndDate:       end,
		Hours:         req.Hours,
		Passengers:    req.Passengers,
		TotalPrice:    boat.PricePerHour * int64(req.Hours),
		Status:        model.BookingStatusPending,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		CustomerEmail: req.CustomerEmail,
		CustomerNotes: req.CustomerNotes,
	}
	if err := h.BookingRepo.CreateTx(ctx, tx, booking); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create booking"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	// Notify managers best-effort; a broker outage must not fail the booking.
	go func(b model.Booking, boatName string) {
		_ = queue_publisher.PublishBooking(context.Background(), queue.KindBookingCreated, queue.BookingEvent{
			BookingID:     b.ID,
			BoatID:        b.BoatID,
			BoatName:      boatName,
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
	}(*booking, boat.Name)

	return c.JSON(http.StatusCreated, echo.Map{"item": booking})
}

// ListMyBookings handles GET /v1/my-bookings for authenticated
// customers.
func (h *BookingHandler) ListMyBookings(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.BookingRepo.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetMyBooking handles GET /v1/my-bookings/:id.  Bookings belonging to
// other customers are reported as not found.
func (h *BookingHandler) GetMyBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	b, err := h.BookingRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	if b.UserID != userID {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": b})
}

package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/morekat/boat-charter/internal/queue"
	"github.com/morekat/boat-charter/internal/repository"
	queue_publisher "github.com/morekat/boat-charter/internal/service"
)

// AdminHandler bundles repositories for the back office.  All of its
// methods sit behind JWT auth plus an ADMIN/OWNER role check, so they
// never re-verify the caller.
type AdminHandler struct {
	BoatRepo    *repository.BoatRepo
	BookingRepo *repository.BookingRepo
	TripRepo    *repository.TripRepo
	ServiceRepo *repository.ServiceRepo
	TicketRepo  *repository.TicketRepo
	UserRepo    *repository.UserRepo
}

// NewAdminHandler constructs an AdminHandler and panics if any
// dependency is nil.
func NewAdminHandler(boats *repository.BoatRepo, bookings *repository.BookingRepo, trips *repository.TripRepo, services *repository.ServiceRepo, tickets *repository.TicketRepo, users *repository.UserRepo) *AdminHandler {
	if boats == nil || bookings == nil || trips == nil || services == nil || tickets == nil || users == nil {
		panic("nil repository passed to NewAdminHandler")
	}
	return &AdminHandler{
		BoatRepo:    boats,
		BookingRepo: bookings,
		TripRepo:    trips,
		ServiceRepo: services,
		TicketRepo:  tickets,
		UserRepo:    users,
	}
}

type testNotificationReq struct {
	Message string `json:"message"`
}

// SendTestNotification handles POST /v1/admin/notifications/test.  It
// publishes synchronously so a broken broker surfaces here instead of
// silently dropping real notifications later.
func (h *AdminHandler) SendTestNotification(c echo.Context) error {
	var req testNotificationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	msg := strings.TrimSpace(req.Message)
	if msg == "" {
		msg = "test notification"
	}
	userID, _ := getUserID(c)
	ev := queue.TestEvent{Message: msg, RequestedBy: userID}
	if err := queue_publisher.PublishTest(c.Request().Context(), ev); err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "notification broker unavailable"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "sent"})
}

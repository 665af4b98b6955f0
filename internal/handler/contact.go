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

// ContactHandler accepts messages from the storefront contact form and
// lists them for admins.
type ContactHandler struct {
	ContactRepo *repository.ContactRepo
}

// NewContactHandler constructs a ContactHandler.
func NewContactHandler(contacts *repository.ContactRepo) *ContactHandler {
	if contacts == nil {
		panic("nil repository passed to NewContactHandler")
	}
	return &ContactHandler{ContactRepo: contacts}
}

type contactReq struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// CreateContact handles POST /v1/contact.
func (h *ContactHandler) CreateContact(c echo.Context) error {
	var req contactReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Message = strings.TrimSpace(req.Message)
	if req.Name == "" {
		return respondError(c, repository.ValidationError{Field: "name", Msg: "required"})
	}
	if !validPhone(req.Phone) {
		return respondError(c, repository.ValidationError{Field: "phone", Msg: "must be a valid phone number"})
	}
	if req.Message == "" {
		return respondError(c, repository.ValidationError{Field: "message", Msg: "required"})
	}

	reqRec := &model.ContactRequest{Name: req.Name, Phone: req.Phone, Message: req.Message}
	if err := h.ContactRepo.Create(c.Request().Context(), reqRec); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save request"})
	}

	go func(r model.ContactRequest) {
		_ = queue_publisher.PublishContact(context.Background(), queue.ContactEvent{
			RequestID: r.ID,
			Name:      r.Name,
			Phone:     r.Phone,
			Message:   r.Message,
		})
	}(*reqRec)

	return c.JSON(http.StatusCreated, echo.Map{"item": reqRec})
}

// ListContacts handles GET /v1/admin/contact-requests.
func (h *ContactHandler) ListContacts(c echo.Context) error {
	items, err := h.ContactRepo.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load requests"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

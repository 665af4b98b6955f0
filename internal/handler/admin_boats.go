package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/morekat/boat-charter/internal/model"
	"github.com/morekat/boat-charter/internal/repository"
)

type boatReq struct {
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
	IsActive     *bool   `json:"is_active,omitempty"`
	IsAvailable  *bool   `json:"is_available,omitempty"`
}

func (r *boatReq) validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return repository.ValidationError{Field: "name", Msg: "required"}
	}
	r.Type = strings.ToUpper(strings.TrimSpace(r.Type))
	if !model.ValidBoatType(r.Type) {
		return repository.ValidationError{Field: "type", Msg: "unknown boat type"}
	}
	if r.Capacity < 1 {
		return repository.ValidationError{Field: "capacity", Msg: "must be at least 1"}
	}
	if r.PricePerHour < 1 {
		return repository.ValidationError{Field: "price_per_hour", Msg: "must be positive"}
	}
	if r.MinimumHours < 1 {
		r.MinimumHours = 1
	}
	return nil
}

func (r *boatReq) apply(b *model.Boat) {
	b.Name = r.Name
	b.Description = r.Description
	b.Type = r.Type
	b.Capacity = r.Capacity
	b.LengthM = r.LengthM
	b.Year = r.Year
	b.PricePerHour = r.PricePerHour
	b.PricePerDay = r.PricePerDay
	b.MinimumHours = r.MinimumHours
	b.Location = strings.TrimSpace(r.Location)
	b.Pier = strings.TrimSpace(r.Pier)
	b.HasCaptain = r.HasCaptain
	b.HasCrew = r.HasCrew
	if r.IsActive != nil {
		b.IsActive = *r.IsActive
	}
	if r.IsAvailable != nil {
		b.IsAvailable = *r.IsAvailable
	}
}

// ListBoats handles GET /v1/admin/boats and returns the full fleet,
// inactive boats included.
func (h *AdminHandler) ListBoats(c echo.Context) error {
	items, err := h.BoatRepo.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// CreateBoat handles POST /v1/admin/boats.
func (h *AdminHandler) CreateBoat(c echo.Context) error {
	var req boatReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := req.validate(); err != nil {
		return respondError(c, err)
	}
	b := &model.Boat{IsActive: true, IsAvailable: true}
	req.apply(b)
	if err := h.BoatRepo.Create(c.Request().Context(), b); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create boat"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": b})
}

// UpdateBoat handles PUT /v1/admin/boats/:id.
func (h *AdminHandler) UpdateBoat(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid boat id"})
	}
	var req boatReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := req.validate(); err != nil {
		return respondError(c, err)
	}
	ctx := c.Request().Context()
	b, err := h.BoatRepo.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	req.apply(b)
	if err := h.BoatRepo.Update(ctx, b); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": b})
}

// DeactivateBoat handles DELETE /v1/admin/boats/:id.  Boats are never
// physically deleted; they are hidden from the storefront so booking
// history keeps its foreign keys.
func (h *AdminHandler) DeactivateBoat(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid boat id"})
	}
	if err := h.BoatRepo.Deactivate(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

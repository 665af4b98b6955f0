package handler

import (
	"errors"
	"net/http"
	"regexp"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/morekat/boat-charter/internal/repository"
)

// getUserID extracts the user_id from echo.Context and converts it to uint64
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// parseIDParam parses a positive numeric path parameter.
func parseIDParam(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// phoneRe accepts Russian phone numbers in the common storefront
// spellings: +7 (912) 345-67-89, 89123456789, +79123456789 and the
// spaced/dashed variants in between.
var phoneRe = regexp.MustCompile(`^(\+?7|8)\s?\(?\d{3}\)?\s?\d{3}[- ]?\d{2}[- ]?\d{2}$`)

// validPhone reports whether s looks like a customer phone number.
func validPhone(s string) bool {
	return phoneRe.MatchString(s)
}

// respondError translates repository and validation errors into the
// matching HTTP response.  Unknown errors become opaque 500s so
// internals never leak to clients.
func respondError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrBoatNotFound),
		errors.Is(err, repository.ErrBookingNotFound),
		errors.Is(err, repository.ErrTripNotFound),
		errors.Is(err, repository.ErrTicketNotFound),
		errors.Is(err, repository.ErrServiceNotFound),
		errors.Is(err, repository.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	// Contention outcomes (taken slot, sold-out trip) are client-visible
	// request problems, not server conflicts: the customer adjusts and
	// resubmits, so they ride the 400 bucket with the other rejections.
	case errors.Is(err, repository.ErrSlotConflict),
		errors.Is(err, repository.ErrInsufficientSeats),
		errors.Is(err, repository.ErrResourceUnavailable),
		errors.Is(err, repository.ErrCapacityExceeded),
		errors.Is(err, repository.ErrTicketNotInTrip):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrEmailExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	}
	var ve repository.ValidationError
	if errors.As(err, &ve) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": ve.Error(), "field": ve.Field})
	}
	var te repository.InvalidTransitionError
	if errors.As(err, &te) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": te.Error(), "current_status": te.Current})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/morekat/boat-charter/internal/repository"
)

func TestRespondErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"boat not found", repository.ErrBoatNotFound, http.StatusNotFound},
		{"trip not found", repository.ErrTripNotFound, http.StatusNotFound},
		{"slot conflict", repository.ErrSlotConflict, http.StatusBadRequest},
		{"insufficient seats", repository.ErrInsufficientSeats, http.StatusBadRequest},
		{"resource unavailable", repository.ErrResourceUnavailable, http.StatusBadRequest},
		{"capacity exceeded", repository.ErrCapacityExceeded, http.StatusBadRequest},
		{"validation", repository.ValidationError{Field: "hours", Msg: "must be at least 1"}, http.StatusBadRequest},
		{"invalid transition", repository.InvalidTransitionError{Entity: "ticket", Current: "CANCELLED", Requested: "CONFIRMED"}, http.StatusBadRequest},
		{"email exists", repository.ErrEmailExists, http.StatusConflict},
		{"unknown", errors.New("driver hiccup"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newTestContext(t, http.MethodGet, "/", "")
			require.NoError(t, respondError(c, tc.err))
			assert.Equal(t, tc.code, rec.Code)
		})
	}
}

func TestRespondErrorHidesInternals(t *testing.T) {
	c, rec := newTestContext(t, http.MethodGet, "/", "")
	require.NoError(t, respondError(c, errors.New("dial tcp 10.0.0.3:3306: timeout")))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "10.0.0.3")
	assert.Contains(t, rec.Body.String(), "internal error")
}

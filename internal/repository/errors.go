// Package repository defines the data access layer and the error
// taxonomy shared by services and handlers.  Sentinel values let
// callers use errors.Is to pick the right HTTP status, while the typed
// errors below carry extra context (field names, current status) that
// handlers include in their responses.  sql.ErrNoRows never escapes
// this package: repositories translate it into the matching NotFound
// sentinel.
package repository

import (
	"errors"
	"fmt"
)

// Not-found sentinels, one per entity, mapped to HTTP 404.
var (
	ErrBoatNotFound    = errors.New("boat not found")
	ErrBookingNotFound = errors.New("booking not found")
	ErrTripNotFound    = errors.New("group trip not found")
	ErrTicketNotFound  = errors.New("ticket not found")
	ErrServiceNotFound = errors.New("service not found")
	ErrUserNotFound    = errors.New("user not found")
)

// Business-rule failures, mapped to HTTP 400.
var (
	// ErrResourceUnavailable: the boat is inactive/unavailable or the
	// trip/service is not open for purchases.
	ErrResourceUnavailable = errors.New("resource unavailable")
	// ErrCapacityExceeded: passenger count above boat capacity, or
	// party size above the per-purchase ticket cap.
	ErrCapacityExceeded = errors.New("capacity exceeded")
	// ErrSlotConflict: the candidate window overlaps an active booking.
	ErrSlotConflict = errors.New("time slot already booked")
	// ErrInsufficientSeats: fewer seats remain than were requested.
	ErrInsufficientSeats = errors.New("not enough available seats")
	// ErrTicketNotInTrip: the ticket does not belong to the trip named
	// in the request path.
	ErrTicketNotInTrip = errors.New("ticket does not belong to this trip")
	// ErrEmailExists: unique email violation on admin user creation.
	ErrEmailExists = errors.New("email already exists")
)

// ValidationError reports missing or malformed input.  Handlers map it
// to HTTP 400 with the message shown to the customer.
type ValidationError struct {
	Field string
	Msg   string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

// InvalidTransitionError reports a status change that the state machine
// does not permit, including a change to the current status.  Current
// is reported back to the caller so admins can see what state the
// record is actually in.
type InvalidTransitionError struct {
	Entity    string
	Current   string
	Requested string
}

func (e InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s status cannot change from %s to %s", e.Entity, e.Current, e.Requested)
}

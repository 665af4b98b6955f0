package model

import "time"

// Booking statuses.  A booking occupies its [StartDate, EndDate) window
// while in PENDING, CONFIRMED or PAID; CANCELLED and COMPLETED bookings
// no longer block the slot.
const (
	BookingStatusPending   = "PENDING"
	BookingStatusConfirmed = "CONFIRMED"
	BookingStatusPaid      = "PAID"
	BookingStatusCancelled = "CANCELLED"
	BookingStatusCompleted = "COMPLETED"
)

// BookingActiveStatuses are the statuses that participate in the
// interval conflict check.
var BookingActiveStatuses = []string{BookingStatusPending, BookingStatusConfirmed, BookingStatusPaid}

// bookingTransitions is the set of permitted status changes.  CANCELLED
// and COMPLETED are terminal.
var bookingTransitions = map[string]map[string]bool{
	BookingStatusPending: {
		BookingStatusConfirmed: true,
		BookingStatusCancelled: true,
	},
	BookingStatusConfirmed: {
		BookingStatusPaid:      true,
		BookingStatusCancelled: true,
		BookingStatusCompleted: true,
	},
	BookingStatusPaid: {
		BookingStatusCompleted: true,
		BookingStatusCancelled: true,
	},
}

// ValidBookingStatus reports whether s names a known booking status.
func ValidBookingStatus(s string) bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusPaid,
		BookingStatusCancelled, BookingStatusCompleted:
		return true
	}
	return false
}

// CanTransitionBooking reports whether a booking may move from one
// status to another.  Moving to the current status is never allowed.
func CanTransitionBooking(from, to string) bool {
	return bookingTransitions[from][to]
}

// Booking records a reserved time window on a boat.  EndDate is always
// derived as StartDate plus Hours and TotalPrice as the boat's hourly
// price times Hours; both are persisted so historical rows survive
// later price changes.  Bookings are never deleted, cancellation is a
// status transition.
type Booking struct {
	ID            uint64     `json:"id"`
	BoatID        uint64     `json:"boat_id"`
	UserID        uint64     `json:"user_id"`
	StartDate     time.Time  `json:"start_date"`
	EndDate       time.Time  `json:"end_date"`
	Hours         uint32     `json:"hours"`
	Passengers    uint32     `json:"passengers"`
	TotalPrice    int64      `json:"total_price"`
	Status        string     `json:"status"`
	CustomerName  string     `json:"customer_name"`
	CustomerPhone string     `json:"customer_phone"`
	CustomerEmail *string    `json:"customer_email,omitempty"`
	CustomerNotes *string    `json:"customer_notes,omitempty"`
	ConfirmedAt   *time.Time `json:"confirmed_at,omitempty"`
	CancelledAt   *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

package model

import "time"

// Group trip (and service) types.  A trip type doubles as the key of
// the standing service it was scheduled for.
const (
	TripTypeShort   = "SHORT"
	TripTypeMedium  = "MEDIUM"
	TripTypeFishing = "FISHING"
)

// ValidTripType reports whether t is one of the known trip types.
func ValidTripType(t string) bool {
	switch t {
	case TripTypeShort, TripTypeMedium, TripTypeFishing:
		return true
	}
	return false
}

// Group trip statuses.  FULL is a derived state: it must hold exactly
// when AvailableSeats is zero on a trip that is neither cancelled nor
// completed, and the seat ledger flips it in the same transaction as
// the seat math.
const (
	TripStatusScheduled = "SCHEDULED"
	TripStatusFull      = "FULL"
	TripStatusCompleted = "COMPLETED"
	TripStatusCancelled = "CANCELLED"
)

// ValidTripStatus reports whether s names a known trip status.
func ValidTripStatus(s string) bool {
	switch s {
	case TripStatusScheduled, TripStatusFull, TripStatusCompleted, TripStatusCancelled:
		return true
	}
	return false
}

// GroupTrip is a scheduled, seat-limited shared excursion.
// AvailableSeats is the bounded counter guarded by the seat ledger:
// 0 <= AvailableSeats <= MaxCapacity at all times, and no code path
// outside the trip repository's reserve/release operations may touch it.
type GroupTrip struct {
	ID             uint64    `json:"id"`
	Type           string    `json:"type"`
	Price          int64     `json:"price"`
	MaxCapacity    uint32    `json:"max_capacity"`
	AvailableSeats int32     `json:"available_seats"`
	DepartureDate  time.Time `json:"departure_date"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// GroupTripService is a standing excursion offer that customers can buy
// into before a concrete trip exists.  Tickets sold against a service
// carry a NULL trip id until a manager assigns them to a trip.
type GroupTripService struct {
	ID          uint64    `json:"id"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Duration    string    `json:"duration"`
	Price       int64     `json:"price"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

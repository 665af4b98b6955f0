package model

import "time"

// BoatType enumerates the kinds of vessels offered for charter.
const (
	BoatTypeYacht     = "YACHT"
	BoatTypeCatamaran = "CATAMARAN"
	BoatTypeSpeedboat = "SPEEDBOAT"
	BoatTypeSailboat  = "SAILBOAT"
)

// ValidBoatType reports whether t is one of the known boat types.
func ValidBoatType(t string) bool {
	switch t {
	case BoatTypeYacht, BoatTypeCatamaran, BoatTypeSpeedboat, BoatTypeSailboat:
		return true
	}
	return false
}

// Boat represents a rentable vessel as stored in the `boats` table.
// A boat is read-only input to the booking flow: capacity bounds the
// passenger count, PricePerHour drives the price computation and the
// IsActive/IsAvailable flags gate whether new bookings are accepted.
// MinimumHours is informational (shown to customers, not enforced on
// booking creation).
type Boat struct {
	ID           uint64    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Type         string    `json:"type"`
	Capacity     uint32    `json:"capacity"`
	LengthM      float64   `json:"length_m"`
	Year         *uint16   `json:"year,omitempty"`
	PricePerHour int64     `json:"price_per_hour"`
	PricePerDay  int64     `json:"price_per_day"`
	MinimumHours uint32    `json:"minimum_hours"`
	Location     string    `json:"location"`
	Pier         string    `json:"pier"`
	HasCaptain   bool      `json:"has_captain"`
	HasCrew      bool      `json:"has_crew"`
	IsActive     bool      `json:"is_active"`
	IsAvailable  bool      `json:"is_available"`
	OwnerID      *uint64   `json:"owner_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

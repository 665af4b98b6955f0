package model

import "time"

// Ticket statuses.  Seats are consumed when the ticket is created
// (PENDING already holds capacity); confirmation changes no seat count
// and cancellation returns the seats.  CANCELLED is terminal.
const (
	TicketStatusPending   = "PENDING"
	TicketStatusConfirmed = "CONFIRMED"
	TicketStatusCancelled = "CANCELLED"
)

// MaxTicketsPerPurchase caps the party size of a single ticket.
const MaxTicketsPerPurchase = 10

// ValidTicketStatus reports whether s names a known ticket status.
func ValidTicketStatus(s string) bool {
	switch s {
	case TicketStatusPending, TicketStatusConfirmed, TicketStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTicket reports whether a ticket may move from one status
// to another under the consume-at-purchase policy: PENDING may be
// confirmed or cancelled, CONFIRMED may still be cancelled, CANCELLED
// accepts nothing.
func CanTransitionTicket(from, to string) bool {
	switch from {
	case TicketStatusPending:
		return to == TicketStatusConfirmed || to == TicketStatusCancelled
	case TicketStatusConfirmed:
		return to == TicketStatusCancelled
	}
	return false
}

// ChildPrice derives the per-child price from the adult price.
// Children ride at half fare, rounded down.
func ChildPrice(adultPrice int64) int64 {
	return adultPrice / 2
}

// GroupTripTicket is a purchase of one or more seats on a group trip.
// TripID is nil for service-only purchases made before a trip exists;
// such tickets hold no seats until assigned.  AdultPrice and ChildPrice
// are captured at purchase time so later price changes do not affect
// sold tickets.
type GroupTripTicket struct {
	ID            uint64     `json:"id"`
	TripID        *uint64    `json:"trip_id,omitempty"`
	ServiceType   string     `json:"service_type"`
	UserID        uint64     `json:"user_id"`
	CustomerName  string     `json:"customer_name"`
	CustomerPhone string     `json:"customer_phone"`
	CustomerEmail *string    `json:"customer_email,omitempty"`
	DesiredDate   *time.Time `json:"desired_date,omitempty"`
	AdultTickets  uint32     `json:"adult_tickets"`
	ChildTickets  uint32     `json:"child_tickets"`
	AdultPrice    int64      `json:"adult_price"`
	ChildPrice    int64      `json:"child_price"`
	TotalPrice    int64      `json:"total_price"`
	Status        string     `json:"status"`
	ConfirmedAt   *time.Time `json:"confirmed_at,omitempty"`
	CancelledAt   *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TotalTickets returns the number of seats this ticket occupies.
func (t *GroupTripTicket) TotalTickets() uint32 {
	return t.AdultTickets + t.ChildTickets
}

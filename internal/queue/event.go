// Package queue defines message payloads exchanged over the message broker.
package queue

// Event kinds carried in the notification envelope.
const (
	KindBookingCreated  = "booking.created"
	KindBookingStatus   = "booking.status"
	KindTicketPurchased = "ticket.purchased"
	KindTicketStatus    = "ticket.status"
	KindContactRequest  = "contact.request"
	KindNotifyTest      = "notify.test"
)

// BookingEvent describes a boat booking for downstream notification
// consumers.  It carries enough context to log or message a manager
// without querying the primary database.
type BookingEvent struct {
	BookingID     uint64 `json:"booking_id"`
	BoatID        uint64 `json:"boat_id"`
	BoatName      string `json:"boat_name"`
	UserID        uint64 `json:"user_id"`
	StartsAt      string `json:"starts_at"`
	EndsAt        string `json:"ends_at"`
	Hours         uint32 `json:"hours"`
	Passengers    uint32 `json:"passengers"`
	TotalPrice    int64  `json:"total_price"`
	Status        string `json:"status"`
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
}

// TicketEvent describes a group trip ticket purchase or status change.
// SeatsLeft is set on purchases so the notification can warn managers
// when a trip is close to selling out; it is nil for service tickets
// that hold no seats yet.
type TicketEvent struct {
	TicketID      uint64  `json:"ticket_id"`
	TripID        *uint64 `json:"trip_id,omitempty"`
	ServiceType   string  `json:"service_type"`
	UserID        uint64  `json:"user_id"`
	AdultTickets  uint32  `json:"adult_tickets"`
	ChildTickets  uint32  `json:"child_tickets"`
	TotalPrice    int64   `json:"total_price"`
	Status        string  `json:"status"`
	SeatsLeft     *int32  `json:"seats_left,omitempty"`
	CustomerName  string  `json:"customer_name"`
	CustomerPhone string  `json:"customer_phone"`
}

// ContactEvent describes a message left through the contact form.
type ContactEvent struct {
	RequestID uint64 `json:"request_id"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Message   string `json:"message"`
}

// TestEvent is emitted by the admin test endpoint so operators can
// verify the broker and the consumer without touching real data.
type TestEvent struct {
	Message     string `json:"message"`
	RequestedBy uint64 `json:"requested_by"`
}

// Envelope is the single message shape on the notification queue.  Kind
// selects which payload pointer is populated.
type Envelope struct {
	Kind       string        `json:"kind"`
	OccurredAt string        `json:"occurred_at"`
	Booking    *BookingEvent `json:"booking,omitempty"`
	Ticket     *TicketEvent  `json:"ticket,omitempty"`
	Contact    *ContactEvent `json:"contact,omitempty"`
	Test       *TestEvent    `json:"test,omitempty"`
}

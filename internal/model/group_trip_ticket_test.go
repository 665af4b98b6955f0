package model

import "testing"

func TestCanTransitionTicket(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{TicketStatusPending, TicketStatusConfirmed, true},
		{TicketStatusPending, TicketStatusCancelled, true},
		{TicketStatusConfirmed, TicketStatusCancelled, true},
		{TicketStatusConfirmed, TicketStatusPending, false},
		{TicketStatusCancelled, TicketStatusPending, false},
		{TicketStatusCancelled, TicketStatusConfirmed, false},
		{TicketStatusPending, TicketStatusPending, false},
	}
	for _, tc := range cases {
		if got := CanTransitionTicket(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransitionTicket(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestChildPriceRoundsDown(t *testing.T) {
	cases := []struct {
		adult, want int64
	}{
		{2000, 1000},
		{2001, 1000},
		{1, 0},
		{0, 0},
	}
	for _, tc := range cases {
		if got := ChildPrice(tc.adult); got != tc.want {
			t.Errorf("ChildPrice(%d) = %d, want %d", tc.adult, got, tc.want)
		}
	}
}

func TestTotalTickets(t *testing.T) {
	tk := GroupTripTicket{AdultTickets: 2, ChildTickets: 3}
	if got := tk.TotalTickets(); got != 5 {
		t.Errorf("TotalTickets() = %d, want 5", got)
	}
}

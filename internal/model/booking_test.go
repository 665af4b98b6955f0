package model

import "testing"

func TestCanTransitionBooking(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{BookingStatusPending, BookingStatusConfirmed, true},
		{BookingStatusPending, BookingStatusCancelled, true},
		{BookingStatusPending, BookingStatusPaid, false},
		{BookingStatusPending, BookingStatusCompleted, false},
		{BookingStatusConfirmed, BookingStatusPaid, true},
		{BookingStatusConfirmed, BookingStatusCancelled, true},
		{BookingStatusConfirmed, BookingStatusCompleted, true},
		{BookingStatusPaid, BookingStatusCompleted, true},
		{BookingStatusPaid, BookingStatusCancelled, true},
		{BookingStatusPaid, BookingStatusConfirmed, false},
		{BookingStatusCancelled, BookingStatusPending, false},
		{BookingStatusCancelled, BookingStatusConfirmed, false},
		{BookingStatusCompleted, BookingStatusCancelled, false},
		{BookingStatusPending, BookingStatusPending, false},
	}
	for _, tc := range cases {
		if got := CanTransitionBooking(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransitionBooking(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestValidBookingStatus(t *testing.T) {
	for _, s := range []string{BookingStatusPending, BookingStatusConfirmed, BookingStatusPaid, BookingStatusCancelled, BookingStatusCompleted} {
		if !ValidBookingStatus(s) {
			t.Errorf("ValidBookingStatus(%s) = false", s)
		}
	}
	if ValidBookingStatus("RESERVED") {
		t.Error("ValidBookingStatus accepted an unknown status")
	}
}

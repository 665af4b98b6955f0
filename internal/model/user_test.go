package model

import "testing"

func TestIsPlaceholder(t *testing.T) {
	u := User{TelegramID: "temp_1751234567890"}
	if !u.IsPlaceholder() {
		t.Error("expected placeholder user")
	}
	u.TelegramID = "123456789"
	if u.IsPlaceholder() {
		t.Error("real telegram id flagged as placeholder")
	}
}

func TestSplitCustomerName(t *testing.T) {
	first, last := SplitCustomerName("  Ivan   Petrov  ")
	if first != "Ivan" {
		t.Errorf("first = %q, want Ivan", first)
	}
	if last == nil || *last != "Petrov" {
		t.Errorf("last = %v, want Petrov", last)
	}

	first, last = SplitCustomerName("Madonna")
	if first != "Madonna" || last != nil {
		t.Errorf("single name split = %q, %v", first, last)
	}

	first, last = SplitCustomerName("Anna Maria van der Berg")
	if first != "Anna" {
		t.Errorf("first = %q, want Anna", first)
	}
	if last == nil || *last != "Maria van der Berg" {
		t.Errorf("last = %v, want rest of the name", last)
	}
}

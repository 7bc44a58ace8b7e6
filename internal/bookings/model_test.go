package bookings

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestReferenceNumber(t *testing.T) {
	id, err := primitive.ObjectIDFromHex("507f1f77bcf86cd799a1b2c3")
	if err != nil {
		t.Fatalf("ObjectIDFromHex: %v", err)
	}

	b := &Booking{
		ID:          id,
		BookingDate: time.Date(2025, 10, 3, 9, 30, 0, 0, time.UTC),
	}
	if got, want := b.ReferenceNumber(), "SM-202510-A1B2C3"; got != want {
		t.Errorf("ReferenceNumber() = %q, want %q", got, want)
	}

	// Same booking, same reference every time.
	if b.ReferenceNumber() != b.ReferenceNumber() {
		t.Error("reference number must be deterministic")
	}

	// Falls back to the creation timestamp when booking date is unset.
	b.BookingDate = time.Time{}
	b.CreatedAt = time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	if got, want := b.ReferenceNumber(), "SM-202601-A1B2C3"; got != want {
		t.Errorf("ReferenceNumber() fallback = %q, want %q", got, want)
	}
}

func TestTotalAmount(t *testing.T) {
	b := &Booking{
		Fees: Fees{Amount: 150, Currency: "USD"},
		AdditionalServices: []AdditionalService{
			{Name: "recording", Price: 20},
			{Name: "program printing", Price: 5},
		},
	}
	if got := b.TotalAmount(); got != 175 {
		t.Errorf("TotalAmount() = %v, want 175", got)
	}

	b.AdditionalServices = nil
	if got := b.TotalAmount(); got != 150 {
		t.Errorf("TotalAmount() without services = %v, want 150", got)
	}
}

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted, StatusRejected} {
		if !s.Valid() {
			t.Errorf("expected %q to be valid", s)
		}
	}
	if Status("archived").Valid() {
		t.Error("unknown status must not validate")
	}
}

package bookings

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusCompleted, false},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusPending, false},
		{StatusConfirmed, StatusRejected, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusRejected, StatusConfirmed, false},
	}
	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	for _, s := range []Status{StatusCancelled, StatusCompleted, StatusRejected} {
		if !IsTerminal(s) {
			t.Errorf("expected %s to be terminal", s)
		}
	}
	for _, s := range []Status{StatusPending, StatusConfirmed} {
		if IsTerminal(s) {
			t.Errorf("expected %s not to be terminal", s)
		}
	}
	if IsTerminal(Status("bogus")) {
		t.Error("an unknown status must not count as terminal")
	}
}

func TestEditable(t *testing.T) {
	if !Editable(StatusPending) || !Editable(StatusConfirmed) {
		t.Error("pending and confirmed bookings must be editable")
	}
	for _, s := range []Status{StatusCancelled, StatusCompleted, StatusRejected} {
		if Editable(s) {
			t.Errorf("expected %s not to be editable", s)
		}
	}
}

func TestCancellable(t *testing.T) {
	now := time.Now()

	b := &Booking{Status: StatusConfirmed, RequestedDate: now.Add(48 * time.Hour)}
	if !b.Cancellable(now) {
		t.Error("confirmed booking 48h out should be cancellable")
	}

	b.RequestedDate = now.Add(12 * time.Hour)
	if b.Cancellable(now) {
		t.Error("confirmed booking 12h out should not be cancellable")
	}

	b.RequestedDate = now.Add(48 * time.Hour)
	b.Status = StatusPending
	if b.Cancellable(now) {
		t.Error("pending booking should not be user-cancellable")
	}
}

func TestSlotDelta(t *testing.T) {
	tests := []struct {
		from, to Status
		want     int
	}{
		{StatusPending, StatusConfirmed, 1},
		{StatusConfirmed, StatusCancelled, -1},
		// Completing a confirmed booking keeps the seat occupied, so the
		// freed counter must never let another confirmation in.
		{StatusConfirmed, StatusCompleted, 0},
		{StatusConfirmed, StatusRejected, 0},
		{StatusPending, StatusCancelled, 0},
		{StatusPending, StatusRejected, 0},
		{StatusPending, StatusCompleted, 0},
		{StatusConfirmed, StatusConfirmed, 0},
		{StatusCancelled, StatusCancelled, 0},
	}
	for _, tt := range tests {
		if got := SlotDelta(tt.from, tt.to); got != tt.want {
			t.Errorf("SlotDelta(%s, %s) = %d, want %d", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestNewCancellation(t *testing.T) {
	actor := primitive.NewObjectID()
	now := time.Now()

	c := newCancellation("", false, actor, now)
	if c.Reason != "Cancelled by user" {
		t.Errorf("default user reason = %q", c.Reason)
	}
	if c.RefundStatus != RefundPending {
		t.Errorf("refund status = %q, want pending", c.RefundStatus)
	}
	if c.CancelledBy != actor || !c.CancelledAt.Equal(now) {
		t.Error("cancellation must record the actor and timestamp")
	}

	c = newCancellation("", true, actor, now)
	if c.Reason != "Cancelled by admin" {
		t.Errorf("default admin reason = %q", c.Reason)
	}

	c = newCancellation("schedule conflict", true, actor, now)
	if c.Reason != "schedule conflict" {
		t.Errorf("explicit reason = %q", c.Reason)
	}
}

package bookings

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// transitions is the legal status graph:
//
//	pending   → confirmed | cancelled | rejected
//	confirmed → cancelled | completed
//	cancelled, completed, rejected are terminal
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled, StatusRejected},
	StatusConfirmed: {StatusCancelled, StatusCompleted},
}

// CanTransition reports whether the state machine allows from → to.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions leave the status.
func IsTerminal(s Status) bool {
	return len(transitions[s]) == 0 && s.Valid()
}

// Editable reports whether booking content fields may still be changed.
func Editable(s Status) bool {
	return s == StatusPending || s == StatusConfirmed
}

// SlotDelta is the event-counter effect of a status transition: +1 when a
// booking enters confirmed, -1 when a confirmed booking is cancelled.
// Completing a confirmed booking keeps the slot; the seat was used.
func SlotDelta(from, to Status) int {
	if from == to {
		return 0
	}
	if to == StatusConfirmed {
		return 1
	}
	if from == StatusConfirmed && to == StatusCancelled {
		return -1
	}
	return 0
}

// newCancellation builds the cancellation sub-record for a transition
// into cancelled. Refund handling always starts out pending.
func newCancellation(reason string, byAdmin bool, actorID primitive.ObjectID, now time.Time) *Cancellation {
	if reason == "" {
		if byAdmin {
			reason = "Cancelled by admin"
		} else {
			reason = "Cancelled by user"
		}
	}
	return &Cancellation{
		Reason:       reason,
		CancelledBy:  actorID,
		CancelledAt:  now,
		RefundStatus: RefundPending,
	}
}

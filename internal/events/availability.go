package events

import "time"

// The availability policy is evaluated on every read against the stored
// counters; it is never denormalized into the document, so it cannot go
// stale relative to concurrent bookings.

// IsAvailable reports whether the event can currently accept bookings:
// published, not yet started, and below effective capacity.
func (e *Event) IsAvailable(now time.Time) bool {
	if e.Status != StatusPublished {
		return false
	}
	if !e.Schedule.Start.After(now) {
		return false
	}
	return e.BookingSettings.CurrentBookings < e.EffectiveCapacity()
}

// CanBook is IsAvailable plus the optional booking deadline.
func (e *Event) CanBook(now time.Time) bool {
	if !e.IsAvailable(now) {
		return false
	}
	if e.BookingSettings.BookingDeadline == nil {
		return true
	}
	return !now.After(*e.BookingSettings.BookingDeadline)
}

// Duration is the scheduled length of the event.
func (e *Event) Duration() time.Duration {
	return e.Schedule.End.Sub(e.Schedule.Start)
}

// DurationMinutes rounds the duration to whole minutes for API responses.
func (e *Event) DurationMinutes() int {
	return int(e.Duration().Round(time.Minute) / time.Minute)
}

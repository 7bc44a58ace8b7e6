package events

import (
	"testing"
	"time"
)

func futureEvent(status Status, capacity, current, maxBookings int, start time.Time) *Event {
	return &Event{
		Status:   status,
		Venue:    Venue{Name: "Hall", Capacity: capacity},
		Schedule: Schedule{Start: start, End: start.Add(2 * time.Hour)},
		BookingSettings: BookingSettings{
			MaxBookings:     maxBookings,
			CurrentBookings: current,
		},
	}
}

func TestIsAvailable(t *testing.T) {
	now := time.Now()
	future := now.Add(48 * time.Hour)

	tests := []struct {
		name string
		ev   *Event
		want bool
	}{
		{"published with free capacity", futureEvent(StatusPublished, 10, 5, 0, future), true},
		{"draft", futureEvent(StatusDraft, 10, 0, 0, future), false},
		{"cancelled", futureEvent(StatusCancelled, 10, 0, 0, future), false},
		{"already started", futureEvent(StatusPublished, 10, 0, 0, now.Add(-time.Hour)), false},
		{"starts exactly now", futureEvent(StatusPublished, 10, 0, 0, now), false},
		{"venue capacity full", futureEvent(StatusPublished, 10, 10, 0, future), false},
		{"max bookings full despite venue room", futureEvent(StatusPublished, 100, 5, 5, future), false},
		{"max bookings overrides venue cap", futureEvent(StatusPublished, 3, 3, 50, future), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ev.IsAvailable(now); got != tt.want {
				t.Errorf("IsAvailable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanBook(t *testing.T) {
	now := time.Now()
	future := now.Add(72 * time.Hour)

	ev := futureEvent(StatusPublished, 10, 0, 0, future)
	if !ev.CanBook(now) {
		t.Fatal("expected bookable without a deadline")
	}

	passed := now.Add(-time.Hour)
	ev.BookingSettings.BookingDeadline = &passed
	if ev.CanBook(now) {
		t.Fatal("expected deadline in the past to block booking")
	}

	ahead := now.Add(time.Hour)
	ev.BookingSettings.BookingDeadline = &ahead
	if !ev.CanBook(now) {
		t.Fatal("expected deadline in the future to allow booking")
	}
}

func TestEffectiveCapacity(t *testing.T) {
	ev := futureEvent(StatusPublished, 200, 0, 0, time.Now().Add(time.Hour))
	if got := ev.EffectiveCapacity(); got != 200 {
		t.Errorf("EffectiveCapacity() = %d, want venue capacity 200", got)
	}
	ev.BookingSettings.MaxBookings = 150
	if got := ev.EffectiveCapacity(); got != 150 {
		t.Errorf("EffectiveCapacity() = %d, want max bookings 150", got)
	}
}

func TestDurationMinutes(t *testing.T) {
	start := time.Date(2026, 3, 1, 19, 0, 0, 0, time.UTC)
	ev := &Event{Schedule: Schedule{Start: start, End: start.Add(150 * time.Minute)}}
	if got := ev.DurationMinutes(); got != 150 {
		t.Errorf("DurationMinutes() = %d, want 150", got)
	}
}

// Package notify delivers fire-and-forget booking notifications. The log
// notifier stands in for the real mail delivery service; callers treat
// every implementation as best-effort.
package notify

import (
	"context"
	"log"

	"github.com/Manujapabodhana/music-project/internal/bookings"
)

// LogNotifier writes notification events to the process log.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier { return &LogNotifier{} }

func (n *LogNotifier) BookingCreated(_ context.Context, b *bookings.Booking) error {
	log.Printf("notify: booking %s created for %s (%s)", b.ReferenceNumber(), b.Email, b.Status)
	return nil
}

func (n *LogNotifier) BookingStatusChanged(_ context.Context, b *bookings.Booking, from bookings.Status) error {
	log.Printf("notify: booking %s status %s -> %s for %s", b.ReferenceNumber(), from, b.Status, b.Email)
	return nil
}

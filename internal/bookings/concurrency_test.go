package bookings

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Manujapabodhana/music-project/internal/auth"
	"github.com/Manujapabodhana/music-project/internal/db"
	"github.com/Manujapabodhana/music-project/internal/events"
	"github.com/Manujapabodhana/music-project/internal/users"
)

// Requires a reachable MongoDB; skipped otherwise.
func TestConcurrentConfirmedBookings(t *testing.T) {
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		uri = "mongodb://127.0.0.1:27017/sabra-music"
	}

	ctx := context.Background()

	client, testDB, err := db.Open(ctx, uri, "sabra-music-test")
	if err != nil {
		t.Skipf("MongoDB not reachable: %v", err)
	}
	defer func() {
		_ = client.Disconnect(ctx)
	}()
	defer func() {
		_ = testDB.Drop(ctx)
	}()

	eventRepo := events.NewRepository(testDB)
	bookingRepo := NewRepository(testDB)
	svc := NewService(bookingRepo, eventRepo, nil)

	admin := auth.Actor{ID: primitive.NewObjectID(), Role: users.RoleAdmin}

	const capacity = 3
	start := time.Now().Add(72 * time.Hour)
	ev := &events.Event{
		Name:        "Concurrency Probe",
		Description: "capacity-limited event",
		Category:    events.CategoryConcert,
		Venue:       events.Venue{Name: "Test Hall", Capacity: capacity},
		Schedule:    events.Schedule{Start: start, End: start.Add(2 * time.Hour)},
		Pricing:     events.Pricing{BasePrice: 50, Currency: "USD"},
		OrganizerID: admin.ID,
		Status:      events.StatusPublished,
		IsPublic:    true,
	}
	if err := eventRepo.Create(ctx, ev); err != nil {
		t.Fatalf("create event: %v", err)
	}

	const attempts = 20
	var wg sync.WaitGroup
	wg.Add(attempts)

	var successCount int64
	for i := 0; i < attempts; i++ {
		go func(n int) {
			defer wg.Done()
			_, err := svc.Create(ctx, admin, CreateParams{
				EventID:       ev.ID,
				EventName:     ev.Name,
				EventLocation: ev.Venue.Name,
				Email:         fmt.Sprintf("user%02d@example.com", n),
				Time:          "19:00",
				Fees:          Fees{Amount: 50, Currency: "USD"},
				RequestedDate: start,
				Source:        SourceAdmin,
				Confirmed:     true,
			})
			if err == nil {
				atomic.AddInt64(&successCount, 1)
			}
		}(i)
	}
	wg.Wait()

	if successCount != capacity {
		t.Fatalf("expected exactly %d confirmed bookings, got %d", capacity, successCount)
	}

	final, err := eventRepo.Get(ctx, ev.ID)
	if err != nil || final == nil {
		t.Fatalf("get event: %v", err)
	}
	if final.BookingSettings.CurrentBookings != capacity {
		t.Fatalf("overbooking detected: current_bookings=%d capacity=%d",
			final.BookingSettings.CurrentBookings, capacity)
	}
}

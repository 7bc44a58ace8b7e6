// conctest hammers a capacity-1 event with concurrent admin confirmations
// and verifies that exactly one succeeds.
package main

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Manujapabodhana/music-project/internal/auth"
	"github.com/Manujapabodhana/music-project/internal/bookings"
	"github.com/Manujapabodhana/music-project/internal/config"
	"github.com/Manujapabodhana/music-project/internal/db"
	"github.com/Manujapabodhana/music-project/internal/events"
	"github.com/Manujapabodhana/music-project/internal/users"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	ctx := context.Background()

	client, testDB, err := db.Open(ctx, cfg.MongoURI, "conctest")
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer func() { _ = client.Disconnect(ctx) }()
	eventRepo := events.NewRepository(testDB)
	bookingRepo := bookings.NewRepository(testDB)
	svc := bookings.NewService(bookingRepo, eventRepo, nil)

	admin := auth.Actor{ID: primitive.NewObjectID(), Role: users.RoleAdmin}

	start := time.Now().Add(48 * time.Hour)
	event := &events.Event{
		Name:        "Capacity-1 Stress Test",
		Description: "Only one slot available",
		Category:    events.CategoryConcert,
		Venue:       events.Venue{Name: "Test Hall", Capacity: 1},
		Schedule:    events.Schedule{Start: start, End: start.Add(2 * time.Hour)},
		Pricing:     events.Pricing{BasePrice: 50, Currency: "USD"},
		OrganizerID: admin.ID,
		Status:      events.StatusPublished,
		IsPublic:    true,
	}
	if err = eventRepo.Create(ctx, event); err != nil {
		log.Fatalf("create event: %v", err)
	}

	fmt.Println("event:", event.ID.Hex(), "capacity:", event.EffectiveCapacity())

	const attempts = 50
	var wg sync.WaitGroup
	var mu sync.Mutex
	successCount := 0

	began := time.Now()
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := svc.Create(ctx, admin, bookings.CreateParams{
				EventID:       event.ID,
				EventName:     event.Name,
				EventLocation: event.Venue.Name,
				Email:         fmt.Sprintf("user%02d@example.com", n),
				Time:          "19:00",
				Fees:          bookings.Fees{Amount: 50, Currency: "USD"},
				RequestedDate: start,
				Source:        bookings.SourceAdmin,
				Confirmed:     true,
			})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successCount++
				fmt.Printf("  goroutine %02d  BOOKED\n", n+1)
			} else {
				fmt.Printf("  goroutine %02d  failed: %v\n", n+1, err)
			}
		}(i)
	}
	wg.Wait()

	fmt.Println("attempts:           ", attempts)
	fmt.Println("successful bookings:", successCount)
	fmt.Println("time taken:         ", time.Since(began))

	final, err := eventRepo.Get(ctx, event.ID)
	if err != nil || final == nil {
		log.Fatalf("get event: %v", err)
	}
	fmt.Printf("final state: current_bookings=%d\n", final.BookingSettings.CurrentBookings)

	if successCount == 1 && final.BookingSettings.CurrentBookings == 1 {
		fmt.Println("PASS - exactly 1 booking succeeded (no overbooking)")
	} else {
		fmt.Printf("FAIL - expected 1 booking, got %d (overbooking!)\n", successCount)
	}

	_ = testDB.Drop(ctx)
}

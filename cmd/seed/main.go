// seed populates the database with demo users, events and bookings.
package main

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Manujapabodhana/music-project/internal/bookings"
	"github.com/Manujapabodhana/music-project/internal/config"
	"github.com/Manujapabodhana/music-project/internal/db"
	"github.com/Manujapabodhana/music-project/internal/events"
	"github.com/Manujapabodhana/music-project/internal/users"
)

type eventSpec struct {
	Name        string
	Category    events.Category
	Venue       events.Venue
	Start       time.Time
	BasePrice   float64
	Featured    bool
	Tags        []string
	Faculty     []string
	MaxBookings int
}

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	ctx := context.Background()

	client, database, err := db.Open(ctx, cfg.MongoURI, cfg.Database)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer func() { _ = client.Disconnect(ctx) }()

	userRepo := users.NewRepository(database)
	eventRepo := events.NewRepository(database)
	bookingRepo := bookings.NewRepository(database)

	admin := seedUser(ctx, userRepo, "Admin", "Sabra", "admin@sabramusic.com", users.RoleAdmin)
	alice := seedUser(ctx, userRepo, "Alice", "Fernando", "alice@example.com", users.RoleUser)
	bruno := seedUser(ctx, userRepo, "Bruno", "Perera", "bruno@example.com", users.RoleUser)

	now := time.Now()
	concert := seedEvent(ctx, eventRepo, admin.ID, eventSpec{
		Name:        "Spring Gala Concert",
		Category:    events.CategoryConcert,
		Venue:       events.Venue{Name: "Grand Hall", Capacity: 200, Facilities: []string{"piano", "sound_system", "lighting"}},
		Start:       now.AddDate(0, 1, 0),
		BasePrice:   150,
		Featured:    true,
		Tags:        []string{"orchestra", "gala"},
		Faculty:     []string{"N. Jayawardena"},
		MaxBookings: 150,
	})
	recital := seedEvent(ctx, eventRepo, admin.ID, eventSpec{
		Name:      "Piano Recital Evening",
		Category:  events.CategoryRecital,
		Venue:     events.Venue{Name: "Studio A", Capacity: 40, Facilities: []string{"piano"}},
		Start:     now.AddDate(0, 0, 14),
		BasePrice: 45,
		Tags:      []string{"piano", "solo"},
	})
	seedEvent(ctx, eventRepo, admin.ID, eventSpec{
		Name:      "Vocal Masterclass",
		Category:  events.CategoryMasterclass,
		Venue:     events.Venue{Name: "Studio B", Capacity: 25},
		Start:     now.AddDate(0, 2, 0),
		BasePrice: 80,
		Tags:      []string{"vocal", "masterclass"},
	})

	seedBooking(ctx, bookingRepo, eventRepo, alice.ID, concert, bookings.StatusConfirmed, 150, true)
	seedBooking(ctx, bookingRepo, eventRepo, alice.ID, recital, bookings.StatusPending, 45, false)
	seedBooking(ctx, bookingRepo, eventRepo, bruno.ID, concert, bookings.StatusConfirmed, 150, true)
	seedBooking(ctx, bookingRepo, eventRepo, bruno.ID, recital, bookings.StatusCompleted, 45, true)

	log.Println("seed complete")
}

func seedUser(ctx context.Context, repo *users.Repository, first, last, email string, role users.Role) *users.User {
	if existing, err := repo.GetByEmail(ctx, email); err == nil && existing != nil {
		return existing
	}
	u := &users.User{
		FirstName: first,
		LastName:  last,
		Email:     email,
		Password:  users.HashPassword("password123"),
		Role:      role,
		IsActive:  true,
	}
	if err := repo.Create(ctx, u); err != nil {
		log.Fatalf("seed user %s: %v", email, err)
	}
	return u
}

func seedEvent(ctx context.Context, repo *events.Repository, organizer primitive.ObjectID, s eventSpec) *events.Event {
	e := &events.Event{
		Name:        s.Name,
		Description: s.Name + " presented by Sabra Music.",
		Category:    s.Category,
		Venue:       s.Venue,
		Schedule:    events.Schedule{Start: s.Start, End: s.Start.Add(3 * time.Hour)},
		Pricing:     events.Pricing{BasePrice: s.BasePrice, Currency: "USD"},
		OrganizerID: organizer,
		Faculty:     s.Faculty,
		Tags:        s.Tags,
		Status:      events.StatusPublished,
		BookingSettings: events.BookingSettings{
			MaxBookings: s.MaxBookings,
		},
		IsPublic:   true,
		IsFeatured: s.Featured,
	}
	if err := repo.Create(ctx, e); err != nil {
		log.Fatalf("seed event %s: %v", s.Name, err)
	}
	return e
}

func seedBooking(ctx context.Context, repo *bookings.Repository, eventRepo *events.Repository, userID primitive.ObjectID, ev *events.Event, status bookings.Status, amount float64, paid bool) {
	payment := bookings.Payment{Status: bookings.PaymentPending}
	if paid {
		paidAt := time.Now().UTC()
		payment = bookings.Payment{
			Status:        bookings.PaymentPaid,
			Method:        "card",
			TransactionID: uuid.NewString(),
			PaidAmount:    amount,
			PaidAt:        &paidAt,
		}
	}
	b := &bookings.Booking{
		EventID:       ev.ID,
		UserID:        userID,
		EventName:     ev.Name,
		EventLocation: ev.Venue.Name,
		Email:         "seed@sabramusic.com",
		Time:          ev.Schedule.Start.Format("15:04"),
		Fees:          bookings.Fees{Amount: amount, Currency: "USD"},
		RequestedDate: ev.Schedule.Start,
		Status:        status,
		Payment:       payment,
		Source:        bookings.SourceAdmin,
	}
	if err := repo.Create(ctx, b); err != nil {
		log.Fatalf("seed booking for %s: %v", ev.Name, err)
	}
	// Keep the capacity counter consistent with confirmed bookings.
	if status == bookings.StatusConfirmed {
		if err := eventRepo.ReserveSlot(ctx, ev.ID); err != nil {
			log.Printf("[warn] reserve slot for seeded booking: %v", err)
		}
	}
}

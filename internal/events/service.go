package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Manujapabodhana/music-project/internal/apperr"
	"github.com/Manujapabodhana/music-project/internal/auth"
)

// BookingCounter reports how many pending or confirmed bookings reference
// an event. Implemented by the bookings repository; kept as an interface
// here to avoid a package cycle.
type BookingCounter interface {
	CountActiveForEvent(ctx context.Context, eventID primitive.ObjectID) (int64, error)
}

type Service struct {
	repo     *Repository
	bookings BookingCounter
}

func NewService(repo *Repository, bookings BookingCounter) *Service {
	return &Service{repo: repo, bookings: bookings}
}

// CreateParams carries the fields an organizer supplies for a new event.
type CreateParams struct {
	Name            string
	Description     string
	Category        Category
	Venue           Venue
	Schedule        Schedule
	Pricing         Pricing
	Faculty         []string
	Genres          []string
	Tags            []string
	Features        []string
	BookingSettings BookingSettings
	IsPublic        *bool
	IsFeatured      bool
}

func (p CreateParams) validate(now time.Time) []apperr.Problem {
	var problems []apperr.Problem
	if p.Name == "" {
		problems = append(problems, apperr.Problem{Field: "name", Message: "event name is required"})
	}
	if p.Description == "" {
		problems = append(problems, apperr.Problem{Field: "description", Message: "description is required"})
	}
	if !p.Category.Valid() {
		problems = append(problems, apperr.Problem{Field: "category", Message: "invalid event category"})
	}
	if p.Venue.Name == "" {
		problems = append(problems, apperr.Problem{Field: "venue.name", Message: "venue name is required"})
	}
	if p.Venue.Capacity < 1 {
		problems = append(problems, apperr.Problem{Field: "venue.capacity", Message: "venue capacity must be a positive integer"})
	}
	if p.Pricing.BasePrice < 0 {
		problems = append(problems, apperr.Problem{Field: "pricing.basePrice", Message: "base price must not be negative"})
	}
	if !p.Schedule.End.After(p.Schedule.Start) {
		problems = append(problems, apperr.Problem{Field: "schedule.end", Message: "end must be after start"})
	}
	if !p.Schedule.Start.After(now) {
		problems = append(problems, apperr.Problem{Field: "schedule.start", Message: "start must be in the future"})
	}
	return problems
}

// Create inserts a new event in draft status owned by the acting admin.
func (s *Service) Create(ctx context.Context, actor auth.Actor, p CreateParams) (*Event, error) {
	if !actor.IsAdmin() {
		return nil, apperr.Authorization("not authorized to create events")
	}
	if problems := p.validate(time.Now()); len(problems) > 0 {
		return nil, apperr.Validation("validation failed", problems...)
	}
	if p.Pricing.Currency == "" {
		p.Pricing.Currency = "USD"
	}
	isPublic := true
	if p.IsPublic != nil {
		isPublic = *p.IsPublic
	}
	e := &Event{
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Venue:       p.Venue,
		Schedule:    p.Schedule,
		Pricing:     p.Pricing,
		OrganizerID: actor.ID,
		Faculty:     p.Faculty,
		Genres:      p.Genres,
		Tags:        p.Tags,
		Features:    p.Features,
		Status:      StatusDraft,
		BookingSettings: BookingSettings{
			MaxBookings:        p.BookingSettings.MaxBookings,
			CurrentBookings:    0,
			BookingDeadline:    p.BookingSettings.BookingDeadline,
			CancellationPolicy: p.BookingSettings.CancellationPolicy,
			RefundPolicy:       p.BookingSettings.RefundPolicy,
		},
		IsPublic:   isPublic,
		IsFeatured: p.IsFeatured,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, apperr.Dependency("create event", err)
	}
	return e, nil
}

// Get returns a single event. Non-admin callers only see public published
// events.
func (s *Service) Get(ctx context.Context, actor *auth.Actor, id primitive.ObjectID) (*Event, error) {
	e, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, apperr.Dependency("get event", err)
	}
	if e == nil {
		return nil, apperr.NotFound("event")
	}
	admin := actor != nil && actor.IsAdmin()
	if !admin && (!e.IsPublic || e.Status != StatusPublished) {
		return nil, apperr.NotFound("event")
	}
	return e, nil
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Event, int64, error) {
	result, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, 0, apperr.Dependency("list events", err)
	}
	return result, total, nil
}

// StatusOverview summarises all events by publication status.
type StatusOverview struct {
	Total     int `json:"total"`
	Published int `json:"published"`
	Draft     int `json:"draft"`
	Cancelled int `json:"cancelled"`
	Completed int `json:"completed"`
}

// Overview folds the per-status event counts for the admin dashboard.
func (s *Service) Overview(ctx context.Context) (StatusOverview, error) {
	rows, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return StatusOverview{}, apperr.Dependency("aggregate events", err)
	}
	var o StatusOverview
	for _, row := range rows {
		o.Total += row.Count
		switch row.Status {
		case StatusPublished:
			o.Published = row.Count
		case StatusDraft:
			o.Draft = row.Count
		case StatusCancelled:
			o.Cancelled = row.Count
		case StatusCompleted:
			o.Completed = row.Count
		}
	}
	return o, nil
}

// UpdateParams are the mutable event fields; nil pointers are untouched.
type UpdateParams struct {
	Name            *string
	Description     *string
	Category        *Category
	Venue           *Venue
	Schedule        *Schedule
	Pricing         *Pricing
	Faculty         []string
	Genres          []string
	Tags            []string
	Features        []string
	Status          *Status
	BookingSettings *BookingSettings
	IsPublic        *bool
	IsFeatured      *bool
}

func (p UpdateParams) set() (bson.M, []apperr.Problem) {
	set := bson.M{}
	var problems []apperr.Problem
	if p.Name != nil {
		if *p.Name == "" {
			problems = append(problems, apperr.Problem{Field: "name", Message: "event name cannot be empty"})
		}
		set["name"] = *p.Name
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.Category != nil {
		if !p.Category.Valid() {
			problems = append(problems, apperr.Problem{Field: "category", Message: "invalid event category"})
		}
		set["category"] = *p.Category
	}
	if p.Venue != nil {
		if p.Venue.Capacity < 1 {
			problems = append(problems, apperr.Problem{Field: "venue.capacity", Message: "venue capacity must be a positive integer"})
		}
		set["venue"] = *p.Venue
	}
	if p.Schedule != nil {
		if !p.Schedule.End.After(p.Schedule.Start) {
			problems = append(problems, apperr.Problem{Field: "schedule.end", Message: "end must be after start"})
		}
		set["schedule"] = *p.Schedule
	}
	if p.Pricing != nil {
		if p.Pricing.BasePrice < 0 {
			problems = append(problems, apperr.Problem{Field: "pricing.basePrice", Message: "base price must not be negative"})
		}
		set["pricing"] = *p.Pricing
	}
	if p.Faculty != nil {
		set["faculty"] = p.Faculty
	}
	if p.Genres != nil {
		set["genres"] = p.Genres
	}
	if p.Tags != nil {
		set["tags"] = p.Tags
	}
	if p.Features != nil {
		set["features"] = p.Features
	}
	if p.Status != nil {
		if !p.Status.Valid() {
			problems = append(problems, apperr.Problem{Field: "status", Message: "invalid event status"})
		}
		set["status"] = *p.Status
	}
	if p.BookingSettings != nil {
		// The live counter is owned by the booking lifecycle; an update
		// must not clobber it.
		set["booking_settings.max_bookings"] = p.BookingSettings.MaxBookings
		set["booking_settings.booking_deadline"] = p.BookingSettings.BookingDeadline
		set["booking_settings.cancellation_policy"] = p.BookingSettings.CancellationPolicy
		set["booking_settings.refund_policy"] = p.BookingSettings.RefundPolicy
	}
	if p.IsPublic != nil {
		set["is_public"] = *p.IsPublic
	}
	if p.IsFeatured != nil {
		set["is_featured"] = *p.IsFeatured
	}
	return set, problems
}

// Update applies a partial edit. Only an admin or the organizer may edit.
func (s *Service) Update(ctx context.Context, actor auth.Actor, id primitive.ObjectID, p UpdateParams) (*Event, error) {
	e, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, apperr.Dependency("get event", err)
	}
	if e == nil {
		return nil, apperr.NotFound("event")
	}
	if !actor.IsAdmin() && e.OrganizerID != actor.ID {
		return nil, apperr.Authorization("not authorized to update this event")
	}
	set, problems := p.set()
	if len(problems) > 0 {
		return nil, apperr.Validation("validation failed", problems...)
	}
	if len(set) == 0 {
		return e, nil
	}
	updated, err := s.repo.UpdateFields(ctx, id, set)
	if err != nil {
		return nil, apperr.Dependency("update event", err)
	}
	if updated == nil {
		return nil, apperr.NotFound("event")
	}
	return updated, nil
}

// Delete removes an event unless it still has pending or confirmed
// bookings.
func (s *Service) Delete(ctx context.Context, actor auth.Actor, id primitive.ObjectID) error {
	e, err := s.repo.Get(ctx, id)
	if err != nil {
		return apperr.Dependency("get event", err)
	}
	if e == nil {
		return apperr.NotFound("event")
	}
	if !actor.IsAdmin() && e.OrganizerID != actor.ID {
		return apperr.Authorization("not authorized to delete this event")
	}
	active, err := s.bookings.CountActiveForEvent(ctx, id)
	if err != nil {
		return apperr.Dependency("count active bookings", err)
	}
	if active > 0 {
		return apperr.Conflict(fmt.Sprintf("cannot delete event with %d active bookings", active))
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return apperr.NotFound("event")
		}
		return apperr.Dependency("delete event", err)
	}
	return nil
}

package bookings

import (
	"context"
	"errors"
	"log"
	"net/mail"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Manujapabodhana/music-project/internal/apperr"
	"github.com/Manujapabodhana/music-project/internal/auth"
	"github.com/Manujapabodhana/music-project/internal/events"
)

// Notifier receives fire-and-forget signals after lifecycle changes.
// Failures are logged by the service and never block the operation.
type Notifier interface {
	BookingCreated(ctx context.Context, b *Booking) error
	BookingStatusChanged(ctx context.Context, b *Booking, from Status) error
}

// Service sequences the booking lifecycle: validate, persist the booking,
// update the event counter, emit the notification. Each step is explicit;
// there are no save hooks.
type Service struct {
	repo     *Repository
	events   *events.Repository
	notifier Notifier
}

func NewService(repo *Repository, eventRepo *events.Repository, notifier Notifier) *Service {
	return &Service{repo: repo, events: eventRepo, notifier: notifier}
}

// CreateParams carries the booking form fields.
type CreateParams struct {
	EventID             primitive.ObjectID
	EventName           string
	EventLocation       string
	Faculty             string
	Email               string
	Time                string
	Fees                Fees
	Description         string
	Address             Address
	RequestedDate       time.Time
	SpecialRequirements string
	EquipmentNeeds      []string
	ContactInfo         ContactInfo
	AdditionalServices  []AdditionalService
	Source              Source
	// Confirmed creates the booking directly in confirmed status.
	// Admin only.
	Confirmed bool
}

func (p CreateParams) validate() []apperr.Problem {
	var problems []apperr.Problem
	if p.EventID.IsZero() {
		problems = append(problems, apperr.Problem{Field: "eventId", Message: "event id is required"})
	}
	if p.EventName == "" {
		problems = append(problems, apperr.Problem{Field: "eventName", Message: "event name is required"})
	}
	if p.EventLocation == "" {
		problems = append(problems, apperr.Problem{Field: "eventLocation", Message: "event location is required"})
	}
	if _, err := mail.ParseAddress(p.Email); err != nil {
		problems = append(problems, apperr.Problem{Field: "email", Message: "valid email is required"})
	}
	if p.Time == "" {
		problems = append(problems, apperr.Problem{Field: "time", Message: "time is required"})
	}
	if p.Fees.Amount < 0 {
		problems = append(problems, apperr.Problem{Field: "fees.amount", Message: "fees amount must not be negative"})
	}
	if p.RequestedDate.IsZero() {
		problems = append(problems, apperr.Problem{Field: "requestedDate", Message: "valid requested date is required"})
	}
	for _, svc := range p.AdditionalServices {
		if svc.Price < 0 {
			problems = append(problems, apperr.Problem{Field: "additionalServices", Message: "service price must not be negative"})
			break
		}
	}
	return problems
}

// Create validates the event's availability, persists the booking and
// notifies. A booking starts pending; an admin may start it confirmed,
// which reserves an event slot atomically before the write.
func (s *Service) Create(ctx context.Context, actor auth.Actor, p CreateParams) (*Booking, error) {
	if problems := p.validate(); len(problems) > 0 {
		return nil, apperr.Validation("validation failed", problems...)
	}
	if p.Confirmed && !actor.IsAdmin() {
		return nil, apperr.Authorization("only an admin may create a confirmed booking")
	}

	ev, err := s.events.Get(ctx, p.EventID)
	if err != nil {
		return nil, apperr.Dependency("get event", err)
	}
	if ev == nil {
		return nil, apperr.NotFound("event")
	}
	if !ev.CanBook(time.Now()) {
		return nil, apperr.Conflict("event is not open for booking")
	}

	status := StatusPending
	if p.Confirmed {
		status = StatusConfirmed
		// Conditional increment: fails the whole creation when the
		// event is at capacity, leaving the counter untouched.
		if err := s.events.ReserveSlot(ctx, p.EventID); err != nil {
			if errors.Is(err, events.ErrCapacityFull) {
				return nil, apperr.Conflict("event capacity reached")
			}
			if errors.Is(err, events.ErrNotFound) {
				return nil, apperr.NotFound("event")
			}
			return nil, apperr.Dependency("reserve slot", err)
		}
	}

	if p.Fees.Currency == "" {
		p.Fees.Currency = "USD"
	}
	if p.Source == "" {
		p.Source = SourceWebsite
	}
	b := &Booking{
		EventID:             p.EventID,
		UserID:              actor.ID,
		EventName:           p.EventName,
		EventLocation:       p.EventLocation,
		Faculty:             p.Faculty,
		Email:               p.Email,
		Time:                p.Time,
		Fees:                p.Fees,
		Description:         p.Description,
		Address:             p.Address,
		RequestedDate:       p.RequestedDate,
		Status:              status,
		Payment:             Payment{Status: PaymentPending},
		AdditionalServices:  p.AdditionalServices,
		SpecialRequirements: p.SpecialRequirements,
		EquipmentNeeds:      p.EquipmentNeeds,
		ContactInfo:         p.ContactInfo,
		Source:              p.Source,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		if status == StatusConfirmed {
			if relErr := s.events.ReleaseSlot(ctx, p.EventID); relErr != nil {
				log.Printf("[warn] release slot after failed insert (event %s): %v", p.EventID.Hex(), relErr)
			}
		}
		return nil, apperr.Dependency("create booking", err)
	}

	s.notify(func() error { return s.notifier.BookingCreated(ctx, b) })
	return b, nil
}

// Get returns a booking visible to the actor: its owner or an admin.
func (s *Service) Get(ctx context.Context, actor auth.Actor, id primitive.ObjectID) (*Booking, error) {
	b, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, apperr.Dependency("get booking", err)
	}
	if b == nil || (!actor.IsAdmin() && b.UserID != actor.ID) {
		return nil, apperr.NotFound("booking")
	}
	return b, nil
}

// List returns a page of bookings. Non-admin callers are always scoped to
// their own bookings regardless of the requested filter.
func (s *Service) List(ctx context.Context, actor auth.Actor, f ListFilter) ([]Booking, int64, error) {
	if !actor.IsAdmin() {
		f.UserID = &actor.ID
	}
	result, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, 0, apperr.Dependency("list bookings", err)
	}
	return result, total, nil
}

// UpdateParams are the editable booking content fields; nil pointers are
// untouched.
type UpdateParams struct {
	EventName           *string
	EventLocation       *string
	Faculty             *string
	Email               *string
	Time                *string
	Fees                *Fees
	Description         *string
	Address             *Address
	RequestedDate       *time.Time
	SpecialRequirements *string
	EquipmentNeeds      []string
	ContactInfo         *ContactInfo
	AdditionalServices  []AdditionalService
}

func (p UpdateParams) set() (bson.M, []apperr.Problem) {
	set := bson.M{}
	var problems []apperr.Problem
	if p.EventName != nil {
		if *p.EventName == "" {
			problems = append(problems, apperr.Problem{Field: "eventName", Message: "event name cannot be empty"})
		}
		set["event_name"] = *p.EventName
	}
	if p.EventLocation != nil {
		if *p.EventLocation == "" {
			problems = append(problems, apperr.Problem{Field: "eventLocation", Message: "event location cannot be empty"})
		}
		set["event_location"] = *p.EventLocation
	}
	if p.Faculty != nil {
		set["faculty"] = *p.Faculty
	}
	if p.Email != nil {
		if _, err := mail.ParseAddress(*p.Email); err != nil {
			problems = append(problems, apperr.Problem{Field: "email", Message: "valid email is required"})
		}
		set["email"] = *p.Email
	}
	if p.Time != nil {
		set["time"] = *p.Time
	}
	if p.Fees != nil {
		if p.Fees.Amount < 0 {
			problems = append(problems, apperr.Problem{Field: "fees.amount", Message: "fees amount must not be negative"})
		}
		set["fees"] = *p.Fees
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.Address != nil {
		set["address"] = *p.Address
	}
	if p.RequestedDate != nil {
		set["requested_date"] = *p.RequestedDate
	}
	if p.SpecialRequirements != nil {
		set["special_requirements"] = *p.SpecialRequirements
	}
	if p.EquipmentNeeds != nil {
		set["equipment_needs"] = p.EquipmentNeeds
	}
	if p.ContactInfo != nil {
		set["contact_info"] = *p.ContactInfo
	}
	if p.AdditionalServices != nil {
		set["additional_services"] = p.AdditionalServices
	}
	return set, problems
}

// Update edits booking content fields. Only the owner or an admin may
// edit, and only while the booking is pending or confirmed.
func (s *Service) Update(ctx context.Context, actor auth.Actor, id primitive.ObjectID, p UpdateParams) (*Booking, error) {
	b, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, apperr.Dependency("get booking", err)
	}
	if b == nil || (!actor.IsAdmin() && b.UserID != actor.ID) {
		return nil, apperr.NotFound("booking")
	}
	if !Editable(b.Status) {
		return nil, apperr.Conflict("cannot update a " + string(b.Status) + " booking")
	}
	set, problems := p.set()
	if len(problems) > 0 {
		return nil, apperr.Validation("validation failed", problems...)
	}
	if len(set) == 0 {
		return b, nil
	}
	updated, err := s.repo.UpdateFields(ctx, id, set)
	if err != nil {
		return nil, apperr.Dependency("update booking", err)
	}
	if updated == nil {
		return nil, apperr.NotFound("booking")
	}
	return updated, nil
}

// Cancel performs a user-initiated cancellation. It enforces the 24-hour
// window, writes the cancellation record, then releases the event slot if
// the booking was confirmed. The returned warning is non-empty when the
// slot release failed after the booking write stood.
func (s *Service) Cancel(ctx context.Context, actor auth.Actor, id primitive.ObjectID, reason string) (*Booking, string, error) {
	b, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, "", apperr.Dependency("get booking", err)
	}
	if b == nil || (!actor.IsAdmin() && b.UserID != actor.ID) {
		return nil, "", apperr.NotFound("booking")
	}
	if b.Status == StatusCancelled {
		return nil, "", apperr.Conflict("booking is already cancelled")
	}
	now := time.Now()
	if !actor.IsAdmin() && !b.Cancellable(now) {
		return nil, "", apperr.Conflict("booking cannot be cancelled at this time")
	}

	delta := SlotDelta(b.Status, StatusCancelled)
	cancellation := newCancellation(reason, actor.IsAdmin(), actor.ID, now.UTC())
	updated, err := s.repo.UpdateFields(ctx, id, bson.M{
		"status":       StatusCancelled,
		"cancellation": cancellation,
	})
	if err != nil {
		return nil, "", apperr.Dependency("cancel booking", err)
	}
	if updated == nil {
		return nil, "", apperr.NotFound("booking")
	}

	warning := ""
	if delta < 0 {
		warning = s.releaseSlot(ctx, b.EventID)
	}
	from := b.Status
	s.notify(func() error { return s.notifier.BookingStatusChanged(ctx, updated, from) })
	return updated, warning, nil
}

// SetStatus is the admin override: any status may be set, with notes, and
// a reason when cancelling. The event counter gains a slot when the
// booking enters confirmed and frees one only when a confirmed booking is
// cancelled; completion keeps the seat occupied.
func (s *Service) SetStatus(ctx context.Context, actor auth.Actor, id primitive.ObjectID, status Status, notes, reason string) (*Booking, string, error) {
	if !actor.IsAdmin() {
		return nil, "", apperr.Authorization("admin access required")
	}
	var problems []apperr.Problem
	if !status.Valid() {
		problems = append(problems, apperr.Problem{Field: "status", Message: "invalid status"})
	}
	if notes == "" {
		problems = append(problems, apperr.Problem{Field: "adminNotes", Message: "admin notes are required"})
	}
	if status == StatusCancelled && reason == "" {
		problems = append(problems, apperr.Problem{Field: "reason", Message: "a cancellation reason is required"})
	}
	if len(problems) > 0 {
		return nil, "", apperr.Validation("validation failed", problems...)
	}

	b, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, "", apperr.Dependency("get booking", err)
	}
	if b == nil {
		return nil, "", apperr.NotFound("booking")
	}
	if b.Status == status {
		return b, "", nil
	}

	now := time.Now().UTC()
	set := bson.M{
		"status":      status,
		"admin_notes": notes,
	}
	if status == StatusCancelled {
		set["cancellation"] = newCancellation(reason, true, actor.ID, now)
	}

	// Entering confirmed reserves a slot before the booking write, so a
	// full event fails the whole operation with no state change.
	delta := SlotDelta(b.Status, status)
	if delta > 0 {
		if err := s.events.ReserveSlot(ctx, b.EventID); err != nil {
			if errors.Is(err, events.ErrCapacityFull) {
				return nil, "", apperr.Conflict("event capacity reached")
			}
			if errors.Is(err, events.ErrNotFound) {
				return nil, "", apperr.NotFound("event")
			}
			return nil, "", apperr.Dependency("reserve slot", err)
		}
	}

	updated, err := s.repo.UpdateFields(ctx, id, set)
	if err != nil {
		if delta > 0 {
			if relErr := s.events.ReleaseSlot(ctx, b.EventID); relErr != nil {
				log.Printf("[warn] release slot after failed status write (event %s): %v", b.EventID.Hex(), relErr)
			}
		}
		return nil, "", apperr.Dependency("update booking status", err)
	}
	if updated == nil {
		return nil, "", apperr.NotFound("booking")
	}

	warning := ""
	if delta < 0 {
		warning = s.releaseSlot(ctx, b.EventID)
	}
	from := b.Status
	s.notify(func() error { return s.notifier.BookingStatusChanged(ctx, updated, from) })
	return updated, warning, nil
}

// StatsOverview folds the actor's bookings (all bookings for an admin
// calling with allUsers) into per-status counts and revenue.
func (s *Service) StatsOverview(ctx context.Context, actor auth.Actor, allUsers bool) (Overview, error) {
	var userID *primitive.ObjectID
	if !allUsers || !actor.IsAdmin() {
		userID = &actor.ID
	}
	rows, err := s.repo.StatusCounts(ctx, userID)
	if err != nil {
		return Overview{}, apperr.Dependency("aggregate bookings", err)
	}
	return FoldOverview(rows), nil
}

// RevenueReport buckets confirmed and completed bookings created between
// from and to into a calendar time series. Admin only.
func (s *Service) RevenueReport(ctx context.Context, actor auth.Actor, from, to time.Time, daily bool) ([]PeriodRevenue, error) {
	if !actor.IsAdmin() {
		return nil, apperr.Authorization("admin access required")
	}
	series, err := s.repo.RevenueSeries(ctx, from, to, daily)
	if err != nil {
		return nil, apperr.Dependency("aggregate revenue", err)
	}
	return series, nil
}

// Recent returns the newest bookings for the admin dashboard.
func (s *Service) Recent(ctx context.Context, actor auth.Actor, limit int) ([]Booking, error) {
	if !actor.IsAdmin() {
		return nil, apperr.Authorization("admin access required")
	}
	list, err := s.repo.Recent(ctx, limit)
	if err != nil {
		return nil, apperr.Dependency("recent bookings", err)
	}
	return list, nil
}

// releaseSlot decrements the event counter after a confirmed booking was
// cancelled. The booking write already stands, so a failure here is
// logged and reported as a warning rather than rolled back; the counter
// can only drift downward and is reconciled out of band.
func (s *Service) releaseSlot(ctx context.Context, eventID primitive.ObjectID) string {
	if err := s.events.ReleaseSlot(ctx, eventID); err != nil {
		log.Printf("[warn] event counter update failed (event %s): %v", eventID.Hex(), err)
		return "booking updated, but the event booking counter could not be updated"
	}
	return ""
}

func (s *Service) notify(fn func() error) {
	if s.notifier == nil {
		return
	}
	if err := fn(); err != nil {
		log.Printf("[warn] notification failed: %v", err)
	}
}

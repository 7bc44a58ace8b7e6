// Package events holds the Event document model, the availability policy
// and the event repository.
package events

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Status is the closed set of event publication states.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Category is the closed set of event types.
type Category string

const (
	CategoryConcert     Category = "concert"
	CategoryRecital     Category = "recital"
	CategoryWorkshop    Category = "workshop"
	CategoryMasterclass Category = "masterclass"
	CategoryExhibition  Category = "exhibition"
	CategoryPerformance Category = "performance"
	CategoryOther       Category = "other"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryConcert, CategoryRecital, CategoryWorkshop, CategoryMasterclass,
		CategoryExhibition, CategoryPerformance, CategoryOther:
		return true
	}
	return false
}

type Address struct {
	Street  string `bson:"street,omitempty" json:"street,omitempty"`
	City    string `bson:"city,omitempty" json:"city,omitempty"`
	State   string `bson:"state,omitempty" json:"state,omitempty"`
	ZipCode string `bson:"zip_code,omitempty" json:"zipCode,omitempty"`
	Country string `bson:"country,omitempty" json:"country,omitempty"`
}

type Venue struct {
	Name       string   `bson:"name" json:"name"`
	Address    Address  `bson:"address,omitempty" json:"address,omitempty"`
	Capacity   int      `bson:"capacity" json:"capacity"`
	Facilities []string `bson:"facilities,omitempty" json:"facilities,omitempty"`
}

type Schedule struct {
	Start time.Time `bson:"start" json:"start"`
	End   time.Time `bson:"end" json:"end"`
}

type DiscountType string

const (
	DiscountEarlyBird DiscountType = "early_bird"
	DiscountStudent   DiscountType = "student"
	DiscountSenior    DiscountType = "senior"
	DiscountGroup     DiscountType = "group"
)

type Discount struct {
	Type        DiscountType `bson:"type" json:"type"`
	Percentage  float64      `bson:"percentage" json:"percentage"`
	ValidUntil  *time.Time   `bson:"valid_until,omitempty" json:"validUntil,omitempty"`
	MinQuantity int          `bson:"min_quantity,omitempty" json:"minQuantity,omitempty"`
}

type Pricing struct {
	BasePrice float64    `bson:"base_price" json:"basePrice"`
	Currency  string     `bson:"currency" json:"currency"`
	Discounts []Discount `bson:"discounts,omitempty" json:"discounts,omitempty"`
}

// BookingSettings carries the capacity accounting for an event.
// MaxBookings of zero means no explicit cap; the venue capacity applies.
type BookingSettings struct {
	MaxBookings        int        `bson:"max_bookings,omitempty" json:"maxBookings,omitempty"`
	CurrentBookings    int        `bson:"current_bookings" json:"currentBookings"`
	BookingDeadline    *time.Time `bson:"booking_deadline,omitempty" json:"bookingDeadline,omitempty"`
	CancellationPolicy string     `bson:"cancellation_policy,omitempty" json:"cancellationPolicy,omitempty"`
	RefundPolicy       string     `bson:"refund_policy,omitempty" json:"refundPolicy,omitempty"`
}

type Event struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name            string             `bson:"name" json:"name"`
	Description     string             `bson:"description" json:"description"`
	Category        Category           `bson:"category" json:"category"`
	Venue           Venue              `bson:"venue" json:"venue"`
	Schedule        Schedule           `bson:"schedule" json:"schedule"`
	Pricing         Pricing            `bson:"pricing" json:"pricing"`
	OrganizerID     primitive.ObjectID `bson:"organizer_id" json:"organizerId"`
	Faculty         []string           `bson:"faculty,omitempty" json:"faculty,omitempty"`
	Genres          []string           `bson:"genres,omitempty" json:"genres,omitempty"`
	Tags            []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	Features        []string           `bson:"features,omitempty" json:"features,omitempty"`
	Status          Status             `bson:"status" json:"status"`
	BookingSettings BookingSettings    `bson:"booking_settings" json:"bookingSettings"`
	IsPublic        bool               `bson:"is_public" json:"isPublic"`
	IsFeatured      bool               `bson:"is_featured" json:"isFeatured"`
	CreatedAt       time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updatedAt"`
}

// EffectiveCapacity is the booking cap if configured, else venue capacity.
func (e *Event) EffectiveCapacity() int {
	if e.BookingSettings.MaxBookings > 0 {
		return e.BookingSettings.MaxBookings
	}
	return e.Venue.Capacity
}

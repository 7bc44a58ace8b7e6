// Package bookings holds the Booking document model, the lifecycle state
// machine and the booking repository and service.
package bookings

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Status is the closed set of booking lifecycle states.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
	StatusRejected  Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted, StatusRejected:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
	PaymentFailed   PaymentStatus = "failed"
)

type RefundStatus string

const (
	RefundNone    RefundStatus = "none"
	RefundPartial RefundStatus = "partial"
	RefundFull    RefundStatus = "full"
	RefundPending RefundStatus = "pending"
)

type Source string

const (
	SourceWebsite Source = "website"
	SourcePhone   Source = "phone"
	SourceEmail   Source = "email"
	SourceWalkIn  Source = "walk_in"
	SourceAdmin   Source = "admin"
)

type Fees struct {
	Amount   float64 `bson:"amount" json:"amount"`
	Currency string  `bson:"currency" json:"currency"`
}

type AdditionalService struct {
	Name        string  `bson:"name" json:"name"`
	Description string  `bson:"description,omitempty" json:"description,omitempty"`
	Price       float64 `bson:"price" json:"price"`
}

type Payment struct {
	Status        PaymentStatus `bson:"status" json:"status"`
	Method        string        `bson:"method,omitempty" json:"method,omitempty"`
	TransactionID string        `bson:"transaction_id,omitempty" json:"transactionId,omitempty"`
	PaidAmount    float64       `bson:"paid_amount,omitempty" json:"paidAmount,omitempty"`
	PaidAt        *time.Time    `bson:"paid_at,omitempty" json:"paidAt,omitempty"`
	RefundAmount  float64       `bson:"refund_amount,omitempty" json:"refundAmount,omitempty"`
	RefundedAt    *time.Time    `bson:"refunded_at,omitempty" json:"refundedAt,omitempty"`
}

// Cancellation records who cancelled a booking and why. It is present on
// a document if and only if the status is cancelled.
type Cancellation struct {
	Reason       string             `bson:"reason" json:"reason"`
	CancelledBy  primitive.ObjectID `bson:"cancelled_by" json:"cancelledBy"`
	CancelledAt  time.Time          `bson:"cancelled_at" json:"cancelledAt"`
	RefundStatus RefundStatus       `bson:"refund_status" json:"refundStatus"`
}

type Address struct {
	Line1   string `bson:"line1,omitempty" json:"line1,omitempty"`
	Line2   string `bson:"line2,omitempty" json:"line2,omitempty"`
	City    string `bson:"city,omitempty" json:"city,omitempty"`
	State   string `bson:"state,omitempty" json:"state,omitempty"`
	ZipCode string `bson:"zip_code,omitempty" json:"zipCode,omitempty"`
	Country string `bson:"country,omitempty" json:"country,omitempty"`
}

type EmergencyContact struct {
	Name         string `bson:"name,omitempty" json:"name,omitempty"`
	Phone        string `bson:"phone,omitempty" json:"phone,omitempty"`
	Relationship string `bson:"relationship,omitempty" json:"relationship,omitempty"`
}

type ContactInfo struct {
	Phone            string           `bson:"phone,omitempty" json:"phone,omitempty"`
	AlternateEmail   string           `bson:"alternate_email,omitempty" json:"alternateEmail,omitempty"`
	EmergencyContact EmergencyContact `bson:"emergency_contact,omitempty" json:"emergencyContact,omitempty"`
}

type Notifications struct {
	EmailSent        bool `bson:"email_sent" json:"emailSent"`
	ReminderSent     bool `bson:"reminder_sent" json:"reminderSent"`
	ConfirmationSent bool `bson:"confirmation_sent" json:"confirmationSent"`
}

// Booking is one user's reservation against an event. Event name, location
// and schedule are snapshotted at creation rather than live-joined.
type Booking struct {
	ID                  primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	EventID             primitive.ObjectID  `bson:"event_id" json:"eventId"`
	UserID              primitive.ObjectID  `bson:"user_id" json:"userId"`
	EventName           string              `bson:"event_name" json:"eventName"`
	EventLocation       string              `bson:"event_location" json:"eventLocation"`
	Faculty             string              `bson:"faculty,omitempty" json:"faculty,omitempty"`
	Email               string              `bson:"email" json:"email"`
	Time                string              `bson:"time" json:"time"`
	Fees                Fees                `bson:"fees" json:"fees"`
	Description         string              `bson:"description,omitempty" json:"description,omitempty"`
	Address             Address             `bson:"address,omitempty" json:"address,omitempty"`
	BookingDate         time.Time           `bson:"booking_date" json:"bookingDate"`
	RequestedDate       time.Time           `bson:"requested_date" json:"requestedDate"`
	Status              Status              `bson:"status" json:"status"`
	Payment             Payment             `bson:"payment" json:"payment"`
	AdditionalServices  []AdditionalService `bson:"additional_services,omitempty" json:"additionalServices,omitempty"`
	SpecialRequirements string              `bson:"special_requirements,omitempty" json:"specialRequirements,omitempty"`
	EquipmentNeeds      []string            `bson:"equipment_needs,omitempty" json:"equipmentNeeds,omitempty"`
	ContactInfo         ContactInfo         `bson:"contact_info,omitempty" json:"contactInfo,omitempty"`
	AdminNotes          string              `bson:"admin_notes,omitempty" json:"-"`
	InternalNotes       string              `bson:"internal_notes,omitempty" json:"-"`
	Cancellation        *Cancellation       `bson:"cancellation,omitempty" json:"cancellation,omitempty"`
	Notifications       Notifications       `bson:"notifications" json:"notifications"`
	Source              Source              `bson:"source" json:"source"`
	CreatedAt           time.Time           `bson:"created_at" json:"createdAt"`
	UpdatedAt           time.Time           `bson:"updated_at" json:"updatedAt"`
}

// ReferenceNumber derives the human-readable booking code from the
// creation date and document id. It is recomputed on demand, never
// stored, so it can't drift from the underlying record.
func (b *Booking) ReferenceNumber() string {
	date := b.BookingDate
	if date.IsZero() {
		date = b.CreatedAt
	}
	hex := b.ID.Hex()
	tail := hex
	if len(hex) > 6 {
		tail = hex[len(hex)-6:]
	}
	return fmt.Sprintf("SM-%d%02d-%s", date.Year(), int(date.Month()), strings.ToUpper(tail))
}

// TotalAmount is the base fee plus all additional service prices.
func (b *Booking) TotalAmount() float64 {
	total := b.Fees.Amount
	for _, s := range b.AdditionalServices {
		total += s.Price
	}
	return total
}

// Cancellable reports whether the owning user may cancel: the booking is
// confirmed and the requested date is more than 24 hours away.
func (b *Booking) Cancellable(now time.Time) bool {
	return b.Status == StatusConfirmed && b.RequestedDate.Sub(now) > 24*time.Hour
}

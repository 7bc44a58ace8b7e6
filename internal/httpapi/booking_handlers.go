package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Manujapabodhana/music-project/internal/auth"
	"github.com/Manujapabodhana/music-project/internal/bookings"
	"github.com/Manujapabodhana/music-project/internal/ticket"
)

// bookingView augments the stored document with its derived fields.
type bookingView struct {
	*bookings.Booking
	ReferenceNumber string  `json:"referenceNumber"`
	TotalAmount     float64 `json:"totalAmount"`
	IsCancellable   bool    `json:"isCancellable"`
}

func newBookingView(b *bookings.Booking, now time.Time) bookingView {
	return bookingView{
		Booking:         b,
		ReferenceNumber: b.ReferenceNumber(),
		TotalAmount:     b.TotalAmount(),
		IsCancellable:   b.Cancellable(now),
	}
}

func bookingViews(list []bookings.Booking, now time.Time) []bookingView {
	views := make([]bookingView, len(list))
	for i := range list {
		views[i] = newBookingView(&list[i], now)
	}
	return views
}

type createBookingRequest struct {
	EventID             string                       `json:"eventId"`
	EventName           string                       `json:"eventName"`
	EventLocation       string                       `json:"eventLocation"`
	Faculty             string                       `json:"faculty"`
	Email               string                       `json:"email"`
	Time                string                       `json:"time"`
	Fees                bookings.Fees                `json:"fees"`
	Description         string                       `json:"description"`
	Address             bookings.Address             `json:"address"`
	RequestedDate       time.Time                    `json:"requestedDate"`
	SpecialRequirements string                       `json:"specialRequirements"`
	EquipmentNeeds      []string                     `json:"equipmentNeeds"`
	ContactInfo         bookings.ContactInfo         `json:"contactInfo"`
	AdditionalServices  []bookings.AdditionalService `json:"additionalServices"`
	Source              bookings.Source              `json:"source"`
	Confirmed           bool                         `json:"confirmed"`
}

func (r *Router) handleCreateBooking(w http.ResponseWriter, req *http.Request) {
	actor, _ := auth.FromContext(req.Context())
	var in createBookingRequest
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		writeValidation(w, "invalid JSON")
		return
	}
	eventID, err := primitive.ObjectIDFromHex(in.EventID)
	if err != nil {
		writeValidation(w, "invalid eventId")
		return
	}
	b, err := r.bookings.Create(req.Context(), actor, bookings.CreateParams{
		EventID:             eventID,
		EventName:           in.EventName,
		EventLocation:       in.EventLocation,
		Faculty:             in.Faculty,
		Email:               in.Email,
		Time:                in.Time,
		Fees:                in.Fees,
		Description:         in.Description,
		Address:             in.Address,
		RequestedDate:       in.RequestedDate,
		SpecialRequirements: in.SpecialRequirements,
		EquipmentNeeds:      in.EquipmentNeeds,
		ContactInfo:         in.ContactInfo,
		AdditionalServices:  in.AdditionalServices,
		Source:              in.Source,
		Confirmed:           in.Confirmed,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, "Booking created successfully", map[string]any{
		"booking": newBookingView(b, time.Now()),
	})
}

func (r *Router) handleListBookings(w http.ResponseWriter, req *http.Request) {
	actor, _ := auth.FromContext(req.Context())
	page, limit := pageLimit(req, 10, 100)
	sortBy, sortDesc := sortParams(req)

	f := bookings.ListFilter{
		Status:   bookings.Status(req.URL.Query().Get("status")),
		Page:     page,
		Limit:    limit,
		SortBy:   sortBy,
		SortDesc: sortDesc,
	}
	if f.Status != "" && !f.Status.Valid() {
		writeValidation(w, "invalid status")
		return
	}
	list, total, err := r.bookings.List(req.Context(), actor, f)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, "", map[string]any{
		"bookings":   bookingViews(list, time.Now()),
		"pagination": newPagination(page, limit, total),
	})
}

func (r *Router) handleGetBooking(w http.ResponseWriter, req *http.Request) {
	actor, _ := auth.FromContext(req.Context())
	id, err := pathID(req)
	if err != nil {
		writeError(w, err)
		return
	}
	b, err := r.bookings.Get(req.Context(), actor, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, "", map[string]any{"booking": newBookingView(b, time.Now())})
}

type updateBookingRequest struct {
	EventName           *string                      `json:"eventName"`
	EventLocation       *string                      `json:"eventLocation"`
	Faculty             *string                      `json:"faculty"`
	Email               *string                      `json:"email"`
	Time                *string                      `json:"time"`
	Fees                *bookings.Fees               `json:"fees"`
	Description         *string                      `json:"description"`
	Address             *bookings.Address            `json:"address"`
	RequestedDate       *time.Time                   `json:"requestedDate"`
	SpecialRequirements *string                      `json:"specialRequirements"`
	EquipmentNeeds      []string                     `json:"equipmentNeeds"`
	ContactInfo         *bookings.ContactInfo        `json:"contactInfo"`
	AdditionalServices  []bookings.AdditionalService `json:"additionalServices"`
}

func (r *Router) handleUpdateBooking(w http.ResponseWriter, req *http.Request) {
	actor, _ := auth.FromContext(req.Context())
	id, err := pathID(req)
	if err != nil {
		writeError(w, err)
		return
	}
	var in updateBookingRequest
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		writeValidation(w, "invalid JSON")
		return
	}
	b, err := r.bookings.Update(req.Context(), actor, id, bookings.UpdateParams{
		EventName:           in.EventName,
		EventLocation:       in.EventLocation,
		Faculty:             in.Faculty,
		Email:               in.Email,
		Time:                in.Time,
		Fees:                in.Fees,
		Description:         in.Description,
		Address:             in.Address,
		RequestedDate:       in.RequestedDate,
		SpecialRequirements: in.SpecialRequirements,
		EquipmentNeeds:      in.EquipmentNeeds,
		ContactInfo:         in.ContactInfo,
		AdditionalServices:  in.AdditionalServices,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, "Booking updated successfully", map[string]any{
		"booking": newBookingView(b, time.Now()),
	})
}

type cancelBookingRequest struct {
	Reason string `json:"reason"`
}

func (r *Router) handleCancelBooking(w http.ResponseWriter, req *http.Request) {
	actor, _ := auth.FromContext(req.Context())
	id, err := pathID(req)
	if err != nil {
		writeError(w, err)
		return
	}
	var in cancelBookingRequest
	if req.Body != nil {
		_ = json.NewDecoder(req.Body).Decode(&in)
	}
	b, warning, err := r.bookings.Cancel(req.Context(), actor, id, in.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	message := "Booking cancelled successfully"
	if warning != "" {
		message = warning
	}
	writeData(w, http.StatusOK, message, map[string]any{
		"booking": newBookingView(b, time.Now()),
	})
}

func (r *Router) handleBookingStats(w http.ResponseWriter, req *http.Request) {
	actor, _ := auth.FromContext(req.Context())
	overview, err := r.bookings.StatsOverview(req.Context(), actor, false)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, "", map[string]any{"overview": overview})
}

func (r *Router) handleBookingConfirmation(w http.ResponseWriter, req *http.Request) {
	actor, _ := auth.FromContext(req.Context())
	id, err := pathID(req)
	if err != nil {
		writeError(w, err)
		return
	}
	b, err := r.bookings.Get(req.Context(), actor, id)
	if err != nil {
		writeError(w, err)
		return
	}
	pdf, err := ticket.Confirmation(b)
	if err != nil {
		writeError(w, fmt.Errorf("render confirmation: %w", err))
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", b.ReferenceNumber()+".pdf"))
	_, _ = w.Write(pdf)
}

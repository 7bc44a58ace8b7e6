package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Manujapabodhana/music-project/internal/auth"
	"github.com/Manujapabodhana/music-project/internal/events"
)

// eventView augments the stored document with the derived availability
// fields, computed at read time.
type eventView struct {
	*events.Event
	IsAvailable     bool `json:"isAvailable"`
	CanBook         bool `json:"canBook"`
	DurationMinutes int  `json:"durationMinutes"`
}

func newEventView(e *events.Event, now time.Time) eventView {
	return eventView{
		Event:           e,
		IsAvailable:     e.IsAvailable(now),
		CanBook:         e.CanBook(now),
		DurationMinutes: e.DurationMinutes(),
	}
}

func eventViews(list []events.Event, now time.Time) []eventView {
	views := make([]eventView, len(list))
	for i := range list {
		views[i] = newEventView(&list[i], now)
	}
	return views
}

func (r *Router) handleListEvents(w http.ResponseWriter, req *http.Request) {
	page, limit := pageLimit(req, 10, 50)
	sortBy, sortDesc := sortParams(req)

	f := events.ListFilter{
		Category:   events.Category(req.URL.Query().Get("category")),
		Featured:   queryBool(req, "featured"),
		Search:     req.URL.Query().Get("search"),
		PublicOnly: true,
		FutureOnly: true,
		Page:       page,
		Limit:      limit,
		SortBy:     sortBy,
		SortDesc:   sortDesc,
	}
	list, total, err := r.events.List(req.Context(), f)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, "", map[string]any{
		"events":     eventViews(list, time.Now()),
		"pagination": newPagination(page, limit, total),
	})
}

func (r *Router) handleFeaturedEvents(w http.ResponseWriter, req *http.Request) {
	limit := queryInt(req, "limit", "6")
	featured := true
	list, _, err := r.events.List(req.Context(), events.ListFilter{
		Featured:   &featured,
		PublicOnly: true,
		FutureOnly: true,
		Limit:      limit,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, "", map[string]any{"events": eventViews(list, time.Now())})
}

func (r *Router) handleUpcomingEvents(w http.ResponseWriter, req *http.Request) {
	limit := queryInt(req, "limit", "10")
	list, _, err := r.events.List(req.Context(), events.ListFilter{
		PublicOnly: true,
		FutureOnly: true,
		Limit:      limit,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, "", map[string]any{"events": eventViews(list, time.Now())})
}

func (r *Router) handleGetEvent(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req)
	if err != nil {
		writeError(w, err)
		return
	}
	// Auth is optional on this route; an authenticated admin sees
	// unpublished events too.
	var actor *auth.Actor
	if a, ok := auth.FromContext(req.Context()); ok {
		actor = &a
	}
	e, err := r.events.Get(req.Context(), actor, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, "", map[string]any{"event": newEventView(e, time.Now())})
}

type eventRequest struct {
	Name            string                 `json:"name"`
	Description     string                 `json:"description"`
	Category        events.Category        `json:"category"`
	Venue           events.Venue           `json:"venue"`
	Schedule        events.Schedule        `json:"schedule"`
	Pricing         events.Pricing         `json:"pricing"`
	Faculty         []string               `json:"faculty"`
	Genres          []string               `json:"genres"`
	Tags            []string               `json:"tags"`
	Features        []string               `json:"features"`
	BookingSettings events.BookingSettings `json:"bookingSettings"`
	IsPublic        *bool                  `json:"isPublic"`
	IsFeatured      bool                   `json:"isFeatured"`
}

func (r *Router) handleCreateEvent(w http.ResponseWriter, req *http.Request) {
	actor, _ := auth.FromContext(req.Context())
	var in eventRequest
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		writeValidation(w, "invalid JSON")
		return
	}
	e, err := r.events.Create(req.Context(), actor, events.CreateParams{
		Name:            in.Name,
		Description:     in.Description,
		Category:        in.Category,
		Venue:           in.Venue,
		Schedule:        in.Schedule,
		Pricing:         in.Pricing,
		Faculty:         in.Faculty,
		Genres:          in.Genres,
		Tags:            in.Tags,
		Features:        in.Features,
		BookingSettings: in.BookingSettings,
		IsPublic:        in.IsPublic,
		IsFeatured:      in.IsFeatured,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, "Event created successfully", map[string]any{"event": e})
}

type updateEventRequest struct {
	Name            *string                 `json:"name"`
	Description     *string                 `json:"description"`
	Category        *events.Category        `json:"category"`
	Venue           *events.Venue           `json:"venue"`
	Schedule        *events.Schedule        `json:"schedule"`
	Pricing         *events.Pricing         `json:"pricing"`
	Faculty         []string                `json:"faculty"`
	Genres          []string                `json:"genres"`
	Tags            []string                `json:"tags"`
	Features        []string                `json:"features"`
	Status          *events.Status          `json:"status"`
	BookingSettings *events.BookingSettings `json:"bookingSettings"`
	IsPublic        *bool                   `json:"isPublic"`
	IsFeatured      *bool                   `json:"isFeatured"`
}

func (r *Router) handleUpdateEvent(w http.ResponseWriter, req *http.Request) {
	actor, _ := auth.FromContext(req.Context())
	id, err := pathID(req)
	if err != nil {
		writeError(w, err)
		return
	}
	var in updateEventRequest
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		writeValidation(w, "invalid JSON")
		return
	}
	e, err := r.events.Update(req.Context(), actor, id, events.UpdateParams{
		Name:            in.Name,
		Description:     in.Description,
		Category:        in.Category,
		Venue:           in.Venue,
		Schedule:        in.Schedule,
		Pricing:         in.Pricing,
		Faculty:         in.Faculty,
		Genres:          in.Genres,
		Tags:            in.Tags,
		Features:        in.Features,
		Status:          in.Status,
		BookingSettings: in.BookingSettings,
		IsPublic:        in.IsPublic,
		IsFeatured:      in.IsFeatured,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, "Event updated successfully", map[string]any{"event": e})
}

func (r *Router) handleDeleteEvent(w http.ResponseWriter, req *http.Request) {
	actor, _ := auth.FromContext(req.Context())
	id, err := pathID(req)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := r.events.Delete(req.Context(), actor, id); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, "Event deleted successfully", nil)
}

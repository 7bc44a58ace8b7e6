package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Manujapabodhana/music-project/internal/apperr"
	"github.com/Manujapabodhana/music-project/internal/auth"
	"github.com/Manujapabodhana/music-project/internal/bookings"
	"github.com/Manujapabodhana/music-project/internal/events"
)

func (r *Router) handleAdminDashboard(w http.ResponseWriter, req *http.Request) {
	actor, _ := auth.FromContext(req.Context())
	ctx := req.Context()
	now := time.Now()

	bookingStats, err := r.bookings.StatsOverview(ctx, actor, true)
	if err != nil {
		writeError(w, err)
		return
	}
	eventStats, err := r.events.Overview(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	monthlyRevenue, err := r.bookings.RevenueReport(ctx, actor, now.AddDate(-1, 0, 0), now, false)
	if err != nil {
		writeError(w, err)
		return
	}
	recent, err := r.bookings.Recent(ctx, actor, 10)
	if err != nil {
		writeError(w, err)
		return
	}
	totalUsers, err := r.users.Count(ctx)
	if err != nil {
		writeError(w, apperr.Dependency("count users", err))
		return
	}

	writeData(w, http.StatusOK, "", map[string]any{
		"bookingStats":   bookingStats,
		"eventStats":     eventStats,
		"totalUsers":     totalUsers,
		"monthlyRevenue": monthlyRevenue,
		"recentBookings": bookingViews(recent, now),
	})
}

func (r *Router) handleAdminListBookings(w http.ResponseWriter, req *http.Request) {
	actor, _ := auth.FromContext(req.Context())
	page, limit := pageLimit(req, 20, 100)
	sortBy, sortDesc := sortParams(req)

	dateFrom, err := queryTime(req, "dateFrom")
	if err != nil {
		writeError(w, err)
		return
	}
	dateTo, err := queryTime(req, "dateTo")
	if err != nil {
		writeError(w, err)
		return
	}
	f := bookings.ListFilter{
		Status:   bookings.Status(req.URL.Query().Get("status")),
		DateFrom: dateFrom,
		DateTo:   dateTo,
		Search:   req.URL.Query().Get("search"),
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

type setStatusRequest struct {
	Status     bookings.Status `json:"status"`
	AdminNotes string          `json:"adminNotes"`
	Reason     string          `json:"reason"`
}

func (r *Router) handleAdminSetBookingStatus(w http.ResponseWriter, req *http.Request) {
	actor, _ := auth.FromContext(req.Context())
	id, err := pathID(req)
	if err != nil {
		writeError(w, err)
		return
	}
	var in setStatusRequest
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		writeValidation(w, "invalid JSON")
		return
	}
	b, warning, err := r.bookings.SetStatus(req.Context(), actor, id, in.Status, in.AdminNotes, in.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	message := "Booking status updated successfully"
	if warning != "" {
		message = warning
	}
	writeData(w, http.StatusOK, message, map[string]any{
		"booking": newBookingView(b, time.Now()),
	})
}

func (r *Router) handleAdminListEvents(w http.ResponseWriter, req *http.Request) {
	page, limit := pageLimit(req, 20, 100)
	sortBy, sortDesc := sortParams(req)

	f := events.ListFilter{
		Category: events.Category(req.URL.Query().Get("category")),
		Status:   events.Status(req.URL.Query().Get("status")),
		Search:   req.URL.Query().Get("search"),
		Page:     page,
		Limit:    limit,
		SortBy:   sortBy,
		SortDesc: sortDesc,
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

func (r *Router) handleRevenueReport(w http.ResponseWriter, req *http.Request) {
	actor, _ := auth.FromContext(req.Context())
	now := time.Now()

	from, err := queryTime(req, "startDate")
	if err != nil {
		writeError(w, err)
		return
	}
	to, err := queryTime(req, "endDate")
	if err != nil {
		writeError(w, err)
		return
	}

	period := req.URL.Query().Get("period")
	if from == nil || to == nil {
		end := now
		var start time.Time
		switch period {
		case "week":
			start = end.AddDate(0, 0, -7)
		case "quarter":
			start = end.AddDate(0, -3, 0)
		case "year":
			start = end.AddDate(-1, 0, 0)
		case "", "month":
			period = "month"
			start = end.AddDate(0, -1, 0)
		default:
			writeValidation(w, "invalid period")
			return
		}
		from, to = &start, &end
	}

	daily := period == "week" || period == "month" || period == ""
	series, err := r.bookings.RevenueReport(req.Context(), actor, *from, *to, daily)
	if err != nil {
		writeError(w, err)
		return
	}
	totalRevenue, totalBookings := bookings.SumRevenue(series)

	writeData(w, http.StatusOK, "", map[string]any{
		"period":        period,
		"startDate":     from,
		"endDate":       to,
		"totalRevenue":  totalRevenue,
		"totalBookings": totalBookings,
		"series":        series,
	})
}

// Package httpapi exposes the booking backend over REST.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/Manujapabodhana/music-project/internal/auth"
	"github.com/Manujapabodhana/music-project/internal/bookings"
	"github.com/Manujapabodhana/music-project/internal/events"
	"github.com/Manujapabodhana/music-project/internal/users"
)

type Router struct {
	mux      *chi.Mux
	users    *users.Repository
	events   *events.Service
	bookings *bookings.Service
	tokens   *auth.TokenService
}

// Deps collects everything the router needs.
type Deps struct {
	Users    *users.Repository
	Events   *events.Service
	Bookings *bookings.Service
	Tokens   *auth.TokenService
	WebDir   string
}

func NewRouter(d Deps) http.Handler {
	r := &Router{
		mux:      chi.NewRouter(),
		users:    d.Users,
		events:   d.Events,
		bookings: d.Bookings,
		tokens:   d.Tokens,
	}
	r.routes(d.WebDir)
	return r.mux
}

func (r *Router) routes(webDir string) {
	r.mux.Use(chimiddleware.Recoverer)
	r.mux.Use(chimiddleware.RequestID)
	r.mux.Use(chimiddleware.RealIP)

	authed := auth.Middleware(r.tokens)

	r.mux.Route("/api", func(api chi.Router) {
		api.Post("/users", r.handleRegister)
		api.Post("/login", r.handleLogin)

		// Public event browsing. Auth is optional here so admins can
		// inspect unpublished events through the same routes.
		api.Group(func(pub chi.Router) {
			pub.Use(auth.Optional(r.tokens))
			pub.Get("/events", r.handleListEvents)
			pub.Get("/events/featured", r.handleFeaturedEvents)
			pub.Get("/events/upcoming", r.handleUpcomingEvents)
			pub.Get("/events/{id}", r.handleGetEvent)
		})

		api.Group(func(priv chi.Router) {
			priv.Use(authed)

			priv.Get("/users/profile", r.handleGetProfile)
			priv.Put("/users/profile", r.handleUpdateProfile)
			priv.Put("/users/change-password", r.handleChangePassword)

			priv.Post("/events", r.handleCreateEvent)
			priv.Put("/events/{id}", r.handleUpdateEvent)
			priv.Delete("/events/{id}", r.handleDeleteEvent)

			priv.Post("/bookings", r.handleCreateBooking)
			priv.Get("/bookings", r.handleListBookings)
			priv.Get("/bookings/stats/overview", r.handleBookingStats)
			priv.Get("/bookings/{id}", r.handleGetBooking)
			priv.Put("/bookings/{id}", r.handleUpdateBooking)
			priv.Delete("/bookings/{id}", r.handleCancelBooking)
			priv.Get("/bookings/{id}/confirmation", r.handleBookingConfirmation)

			priv.Route("/admin", func(admin chi.Router) {
				admin.Use(auth.RequireAdmin)
				admin.Get("/dashboard", r.handleAdminDashboard)
				admin.Get("/bookings", r.handleAdminListBookings)
				admin.Put("/bookings/{id}/status", r.handleAdminSetBookingStatus)
				admin.Get("/events", r.handleAdminListEvents)
				admin.Get("/reports/revenue", r.handleRevenueReport)
			})
		})
	})

	// The built marketing front end is served from webDir.
	fs := http.FileServer(http.Dir(webDir))
	r.mux.Handle("/", fs)
	r.mux.Handle("/*", fs)
}

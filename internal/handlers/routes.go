package handlers

import (
	"net/http"

	"github.com/KaLuReTu/apartment-reservation-manager/internal/session"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func RegisterRoutes(r *chi.Mux, sessions *session.Manager, authHandler *AuthHandler, reservationHandler *ReservationHandler, apiHandler *APIHandler) {
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(sessions.Load)

	// Initialize Huma API
	config := huma.DefaultConfig("Apartment Reservation Manager", "1.0.0")
	api := humachi.New(r, config)

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	huma.Get(api, "/api/reservations", apiHandler.HandleListReservations, func(o *huma.Operation) {
		o.Summary = "List reservations"
		o.Description = "Returns every reservation with dates as ISO-8601 strings."
	})

	// Mode transitions
	r.Get("/admin-login", authHandler.HandleAdminLoginForm)
	r.Post("/admin-login", authHandler.HandleAdminLogin)
	r.Get("/admin-logout", authHandler.HandleAdminLogout)
	r.Get("/readonly", authHandler.HandleReadOnly)
	r.Get("/exit-readonly", authHandler.HandleExitReadOnly)
	r.Get("/login-select", authHandler.HandleLoginSelect)

	// Viewing requires a session, admin or read-only
	r.Group(func(r chi.Router) {
		r.Use(sessions.RequireViewer)
		r.Get("/", reservationHandler.HandleIndex)
		r.Get("/calendar", reservationHandler.HandleCalendar)
	})

	// Mutations require admin; the read-only check stays independent
	r.Group(func(r chi.Router) {
		r.Use(sessions.RequireAdmin)
		r.Use(sessions.RejectReadOnly)
		r.Get("/add", reservationHandler.HandleAddForm)
		r.Post("/add", reservationHandler.HandleAdd)
		r.Get("/edit/{id}", reservationHandler.HandleEditForm)
		r.Post("/edit/{id}", reservationHandler.HandleEdit)
		r.Get("/delete/{id}", reservationHandler.HandleDelete)
	})
}

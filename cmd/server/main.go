package main

import (
	"log"
	"net/http"

	"github.com/KaLuReTu/apartment-reservation-manager/internal/config"
	"github.com/KaLuReTu/apartment-reservation-manager/internal/database"
	"github.com/KaLuReTu/apartment-reservation-manager/internal/handlers"
	"github.com/KaLuReTu/apartment-reservation-manager/internal/notifier"
	"github.com/KaLuReTu/apartment-reservation-manager/internal/session"
	"github.com/KaLuReTu/apartment-reservation-manager/internal/views"
	"github.com/go-chi/chi/v5"
)

func main() {
	// Load Configuration
	cfg := config.LoadConfig()

	// Connect to Database
	db := database.Connect(cfg)

	// Sessions and views
	sessions := session.NewManager(cfg.SessionSecret)
	renderer := views.New()

	// Notifier is optional; reservations work without it
	var reservationNotifier notifier.Notifier
	discordNotifier, err := notifier.NewDiscordNotifier(cfg)
	if err != nil {
		log.Printf("Discord notifier not initialized: %v", err)
	} else {
		reservationNotifier = discordNotifier
	}

	// Initialize Handlers
	authHandler := handlers.NewAuthHandler(cfg, sessions, renderer)
	reservationHandler := handlers.NewReservationHandler(db, renderer, reservationNotifier)
	apiHandler := handlers.NewAPIHandler(db)

	// Initialize Router
	r := chi.NewRouter()

	// Register Routes
	handlers.RegisterRoutes(r, sessions, authHandler, reservationHandler, apiHandler)

	// Start Server
	log.Printf("Starting server on port %s", cfg.Port)
	if err := http.ListenAndServe(cfg.Addr(), r); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

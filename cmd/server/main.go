package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Manujapabodhana/music-project/internal/auth"
	"github.com/Manujapabodhana/music-project/internal/bookings"
	"github.com/Manujapabodhana/music-project/internal/config"
	"github.com/Manujapabodhana/music-project/internal/db"
	"github.com/Manujapabodhana/music-project/internal/events"
	"github.com/Manujapabodhana/music-project/internal/httpapi"
	"github.com/Manujapabodhana/music-project/internal/notify"
	"github.com/Manujapabodhana/music-project/internal/users"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	ctx := context.Background()

	client, database, err := db.Open(ctx, cfg.MongoURI, cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to MongoDB: %v", err)
	}
	defer func() {
		_ = client.Disconnect(ctx)
	}()

	userRepo := users.NewRepository(database)
	eventRepo := events.NewRepository(database)
	bookingRepo := bookings.NewRepository(database)

	bookingSvc := bookings.NewService(bookingRepo, eventRepo, notify.NewLogNotifier())
	eventSvc := events.NewService(eventRepo, bookingRepo)
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)

	router := httpapi.NewRouter(httpapi.Deps{
		Users:    userRepo,
		Events:   eventSvc,
		Bookings: bookingSvc,
		Tokens:   tokens,
		WebDir:   cfg.WebDir,
	})

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("booking-api listening on %s", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("graceful shutdown failed: %v", err)
	}
	log.Println("server stopped")
}

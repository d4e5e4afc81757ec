package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"payment-dashboard/internal/config"
	"payment-dashboard/internal/db"
	"payment-dashboard/internal/logger"
	"payment-dashboard/internal/router"
	"payment-dashboard/internal/services"
)

func main() {
	cfg := config.LoadConfig()

	log := logger.InitLogger()
	log.Info().Msg("Starting payment dashboard API")

	database, err := db.Connect(cfg.DatabaseURL())
	if err != nil {
		log.Fatal().Err(err).Msg("Database connection failed")
	}
	defer database.Close()

	if err := db.RunMigrations(database); err != nil {
		log.Fatal().Err(err).Msg("Migrations failed")
	}

	ctx := context.Background()
	if err := services.NewUserService(database, log).SeedAdminUser(ctx); err != nil {
		log.Fatal().Err(err).Msg("Admin seed failed")
	}
	if os.Getenv("SEED_SAMPLE_DATA") == "true" {
		if err := services.NewPaymentService(database, log).SeedSampleData(ctx); err != nil {
			log.Fatal().Err(err).Msg("Sample data seed failed")
		}
	}

	r := router.SetupRouter(database, cfg, log)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}

	log.Info().Msg("Server stopped")
}

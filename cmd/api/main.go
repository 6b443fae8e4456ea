// Package main provides the entrypoint for the NutriLog API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/nutrilog/nutrilog/internal/api"
	"github.com/nutrilog/nutrilog/internal/api/middleware"
	"github.com/nutrilog/nutrilog/internal/app"
	"github.com/nutrilog/nutrilog/internal/auth"
	"github.com/nutrilog/nutrilog/internal/database"
	"github.com/nutrilog/nutrilog/internal/food"
	"github.com/nutrilog/nutrilog/internal/telemetry"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "nutrilog-api"

	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting NutriLog API")

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	telemetryConfig := telemetry.ConfigFromEnv(serviceName, Version)

	tp, err := telemetry.Init(ctx, telemetryConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if tp.Enabled() {
		log.Info().
			Str("otlp_endpoint", telemetryConfig.OTLPEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}
	engineMetrics, err := telemetry.NewEngineMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize engine metrics")
		os.Exit(1)
	}

	jwtConfig, err := auth.JWTConfigFromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid JWT configuration")
	}
	jwtService := auth.NewJWTService(jwtConfig)

	// Food entry changes go to Pub/Sub when a topic is configured
	var publisher food.Publisher = food.NoopPublisher{}
	projectID := os.Getenv("PUBSUB_PROJECT_ID")
	topic := os.Getenv("PUBSUB_FOOD_EVENTS_TOPIC")
	if projectID != "" && topic != "" {
		pubsubPublisher, err := food.NewPubSubPublisher(ctx, projectID, topic)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create food event publisher")
		}
		defer func() {
			if closeErr := pubsubPublisher.Close(); closeErr != nil {
				log.Error().Err(closeErr).Msg("failed to close food event publisher")
			}
		}()
		publisher = pubsubPublisher
		log.Info().Str("topic", topic).Msg("publishing food entry changes")
	} else {
		log.Warn().Msg("Pub/Sub not configured - food entry changes are not published")
	}

	services, err := app.New(ctx, app.Config{
		Database:   database.ConfigFromEnv(),
		MaxRetries: maxRetriesFromEnv(),
		Publisher:  publisher,
		Metrics:    engineMetrics,
		Logger:     log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize services")
	}
	defer services.Close()

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:       Version,
		BuildTime:     BuildTime,
		Logger:        log,
		Metrics:       metrics,
		Authenticator: jwtService,
		RequireTLS:    os.Getenv("REQUIRE_TLS") == "true",
		Profiles:      services.Profiles,
		Targets:       services.Targets,
		Foods:         services.Foods,
		Comparisons:   services.Comparisons,
		Reports:       services.Reports,
		Standards:     services.Standards,
		Stores:        services.Registry,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		return
	}

	log.Info().Msg("server stopped")
}

// maxRetriesFromEnv reads STORAGE_MAX_RETRIES, defaulting to 2.
func maxRetriesFromEnv() uint64 {
	n, err := strconv.ParseUint(os.Getenv("STORAGE_MAX_RETRIES"), 10, 64)
	if err != nil {
		return 2
	}
	return n
}

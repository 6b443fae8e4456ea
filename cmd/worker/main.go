// Package main provides the entrypoint for the NutriLog report worker.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/nutrilog/nutrilog/internal/app"
	"github.com/nutrilog/nutrilog/internal/database"
	"github.com/nutrilog/nutrilog/internal/telemetry"
	"github.com/nutrilog/nutrilog/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "nutrilog-worker"

	_ = godotenv.Load()

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting NutriLog worker")

	// Worker also exposes health endpoint for Cloud Run
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	projectID := os.Getenv("PUBSUB_PROJECT_ID")
	subscription := os.Getenv("PUBSUB_FOOD_EVENTS_SUBSCRIPTION")
	if projectID == "" || subscription == "" {
		log.Fatal().Msg("PUBSUB_PROJECT_ID and PUBSUB_FOOD_EVENTS_SUBSCRIPTION are required")
	}

	refreshConfig, err := worker.RefreshConfigFromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid worker configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, err := telemetry.Init(ctx, telemetry.ConfigFromEnv(serviceName, Version))
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

	engineMetrics, err := telemetry.NewEngineMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize engine metrics")
	}

	// The worker only regenerates reports, so nothing is published from here.
	services, err := app.New(ctx, app.Config{
		Database:   database.ConfigFromEnv(),
		MaxRetries: maxRetriesFromEnv(),
		Metrics:    engineMetrics,
		Logger:     log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize services")
	}
	defer services.Close()

	refreshJob := worker.NewRefreshJob(worker.RefreshJobConfig{
		Config:  refreshConfig,
		Reports: services.Reports,
		Logger:  log,
	})
	dispatcher := worker.NewDispatcher(worker.DispatcherConfig{
		RefreshJob: refreshJob,
		Health:     services.Registry,
		MaxDays:    refreshConfig.MaxDays,
		Logger:     log,
	})

	handler, err := worker.NewPubSubHandler(ctx, worker.PubSubConfig{
		ProjectID:        projectID,
		SubscriptionName: subscription,
		Dispatcher:       dispatcher,
		Logger:           log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create pubsub handler")
	}
	defer func() {
		if closeErr := handler.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("failed to close pubsub handler")
		}
	}()

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		status, code := "healthy", http.StatusOK
		if !services.Registry.Healthy() {
			status, code = "unhealthy", http.StatusServiceUnavailable
		}
		writeJSON(w, code, map[string]interface{}{
			"status":  status,
			"version": Version,
			"refresh": refreshJob.MetricsSnapshot(),
		})
	})

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", server.Addr).Msg("health check server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return handler.Start(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down worker")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("worker stopped with error")
		return
	}

	log.Info().Msg("worker stopped")
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// maxRetriesFromEnv reads STORAGE_MAX_RETRIES, defaulting to 2.
func maxRetriesFromEnv() uint64 {
	n, err := strconv.ParseUint(os.Getenv("STORAGE_MAX_RETRIES"), 10, 64)
	if err != nil {
		return 2
	}
	return n
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mlb_today/pipeline/internal/blobstore"
	"mlb_today/pipeline/internal/client"
	"mlb_today/pipeline/internal/config"
	"mlb_today/pipeline/internal/email"
	"mlb_today/pipeline/internal/metrics"
	"mlb_today/pipeline/internal/scheduler"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Setup logger
	setupLogger()

	log.Info().Msg("Starting MLB Today pipeline worker")

	// Load configuration
	cfg := config.MustLoad()
	log.Info().
		Str("env", cfg.AppEnv).
		Str("log_level", cfg.LogLevel).
		Str("blob_backend", cfg.BlobBackend).
		Msg("Configuration loaded")

	// Create context that listens for cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info().Msg("Received shutdown signal, gracefully shutting down...")
		cancel()
	}()

	// Initialize blob store
	store, err := blobstore.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to blob store")
	}
	defer store.Close()

	// Initialize upstream clients
	scheduleClient := client.NewScheduleClient(cfg.ScheduleEndpoint, cfg.ScheduleTimeZone, cfg.HTTPTimeout)
	statsClient := client.NewStatsClient(cfg.StatsEndpoint, cfg.HTTPTimeout)
	log.Info().Msg("Upstream API clients initialized")

	// Initialize email composition and delivery
	composer, err := email.NewComposer()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to parse email template")
	}

	var sender scheduler.Sender
	if cfg.EmailConfigured() {
		sender = email.NewSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SenderAddress)
		log.Info().Str("host", cfg.SMTPHost).Msg("Email sender initialized")
	} else {
		log.Warn().Msg("Email delivery not configured - emails will be skipped")
	}

	// Start metrics HTTP server
	if cfg.EnableMetrics {
		go startMetricsServer(cfg.MetricsPort, store)
	}

	// Update system uptime metric
	startTime := time.Now()
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				metrics.SystemUptime.Set(time.Since(startTime).Seconds())
			case <-ctx.Done():
				return
			}
		}
	}()

	// Create and start scheduler
	sched := scheduler.New(cfg, scheduleClient, statsClient, store, composer, sender)
	if err := sched.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to start scheduler")
	}

	// Keep running until context is cancelled
	<-ctx.Done()

	// Graceful shutdown
	log.Info().Msg("Shutting down scheduler...")
	sched.Stop()

	log.Info().Msg("Worker shutdown complete")
}

// setupLogger configures the zerolog logger
func setupLogger() {
	// Pretty console logging in development
	if os.Getenv("APP_ENV") == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}

	// Set log level
	level := zerolog.InfoLevel
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		parsedLevel, err := zerolog.ParseLevel(lvl)
		if err == nil {
			level = parsedLevel
		}
	}
	zerolog.SetGlobalLevel(level)

	log.Info().
		Str("level", level.String()).
		Msg("Logger initialized")
}

// startMetricsServer starts the Prometheus metrics HTTP server
func startMetricsServer(port int, store blobstore.Store) {
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.Handler())

	// Health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, req *http.Request) {
		if err := store.Health(req.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprintf(w, `{"status":"unhealthy","error":%q}`, err.Error())
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	addr := fmt.Sprintf(":%d", port)
	log.Info().Int("port", port).Msg("Starting metrics server")

	if err := http.ListenAndServe(addr, r); err != nil {
		log.Error().Err(err).Msg("Metrics server failed")
	}
}

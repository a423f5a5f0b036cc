package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/padelclub/turnero/internal/config"
	"github.com/padelclub/turnero/internal/database"
	"github.com/padelclub/turnero/internal/engine"
	"github.com/padelclub/turnero/internal/events"
	server "github.com/padelclub/turnero/internal/http"
	"github.com/padelclub/turnero/internal/invites"
	"github.com/padelclub/turnero/internal/metrics"
	"github.com/padelclub/turnero/internal/notifier/push"
	"github.com/padelclub/turnero/internal/players"
	"github.com/padelclub/turnero/internal/pubsub"
	"github.com/padelclub/turnero/internal/turns"
)

func main() {
	// Start profiling timer
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()
	db, dbTeardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken, cfg.MigrationsDir)
	dbInitDuration := time.Since(startTime)
	log.Info("Database initialization time recorded", "duration_ms", dbInitDuration.Milliseconds())
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer func() {
		log.Info("Closing database connection")
		dbTeardown()
	}()

	turnStore := turns.New(db)
	invitationStore := invites.New(db)
	directory := players.New(db)
	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()
	metricsStore := metrics.NewStore(db)

	pubsubClient, pubsubTeardown := pubsub.New(cfg.Push.ProjectID)
	defer pubsubTeardown()

	pushNotifier := push.NewNotifier(pubsubClient, cfg.Push.Topic, metricsStore)
	dispatcher := events.NewDispatcher(pushNotifier)
	eng := engine.New(turnStore, invitationStore, directory, metricsSvc, cfg.ClubID)

	s := server.NewServer(
		eng,
		turnStore,
		directory,
		metricsSvc,
		metricsHandler,
		metricsStore,
		dispatcher,
		cfg,
	)

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: s,
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	// Start the server in a goroutine
	go func() {
		log.Info("Server started", "port", cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)

		// Create a context with a timeout for the shutdown.
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Attempt to gracefully shut down the server.
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}
	}

	log.Info("Server process shutting down")
}

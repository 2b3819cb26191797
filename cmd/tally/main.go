package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/crewware/tally/internal/api"
	"github.com/crewware/tally/internal/beacon"
	"github.com/crewware/tally/internal/config"
	"github.com/crewware/tally/internal/engine"
	"github.com/crewware/tally/internal/roster"
	"github.com/crewware/tally/internal/scoring"
	"github.com/crewware/tally/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	db, err := store.NewPostgresStore(ctx, cfg.Database.URL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	logger.Info("connected to database")

	// Beacon (optional)
	var bus beacon.Client
	if cfg.Beacon.URL != "" {
		bc, err := beacon.NewNATSClient(ctx, cfg.Beacon.URL, logger)
		if err != nil {
			logger.Warn("failed to connect to beacon, running without events", "error", err)
		} else {
			bus = bc
			defer bc.Close()
			logger.Info("connected to beacon")
		}
	}

	// Roster
	rosterClient := roster.NewHTTPClient(cfg.Roster.URL, cfg.Roster.Token)

	// Scoring engine
	svc := engine.New(db, rosterClient, bus, engine.Options{
		DefaultWeights: scoring.WeightSet{
			Execution:     cfg.Scoring.DefaultWeights.Execution,
			Objective:     cfg.Scoring.DefaultWeights.Objective,
			Collaboration: cfg.Scoring.DefaultWeights.Collaboration,
		},
		FullTimeHours:     cfg.Scoring.FullTimeHours,
		CheckMarkMinHours: cfg.Scoring.CheckMarkMinHours,
		QuarterWindow:     cfg.Scoring.QuarterWindow,
	}, logger)

	// API server
	router := api.NewRouter(svc, cfg.Server.AdminToken, logger)
	apiServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Metrics server
	metricsRouter := api.NewMetricsRouter()
	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.MetricsPort),
		Handler: metricsRouter,
	}

	go func() {
		logger.Info("API server starting", "port", cfg.Server.Port)
		if err := apiServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("API server error", "error", err)
		}
	}()

	go func() {
		logger.Info("metrics server starting", "port", cfg.Server.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
		}
	}()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = apiServer.Shutdown(shutdownCtx)
	_ = metricsServer.Shutdown(shutdownCtx)

	logger.Info("shutdown complete")
}

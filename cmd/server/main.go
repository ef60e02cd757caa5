package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DukeRupert/adboard/internal"
	"github.com/DukeRupert/adboard/internal/handler"
	"github.com/DukeRupert/adboard/internal/jobs"
	"github.com/DukeRupert/adboard/internal/metrics"
	"github.com/DukeRupert/adboard/internal/middleware"
	"github.com/DukeRupert/adboard/internal/repository"
	"github.com/DukeRupert/adboard/internal/service"
	"github.com/DukeRupert/adboard/internal/worker"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize database connection
	db, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	// Run migrations
	if err := internal.RunMigrations(ctx, db, logger); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Database ready")

	// Initialize repository and store
	repo := repository.New(db)
	store := service.NewStore(db, repo)

	// Initialize services
	quotaService := service.NewQuotaService(store, logger)
	rankingService := service.NewRankingService(store, service.RankingConfig{
		DefaultPageSize: cfg.RankingDefaultPageSize,
		MaxPageSize:     cfg.RankingMaxPageSize,
	}, logger)
	boostService := service.NewBoostService(store, logger)
	subscriptionService := service.NewSubscriptionService(store, logger)

	// Initialize handlers
	adHandler := handler.NewAdHandler(rankingService, quotaService, logger)
	agencyHandler := handler.NewAgencyHandler(quotaService, logger)
	subscriptionHandler := handler.NewSubscriptionHandler(subscriptionService, logger)
	boostHandler := handler.NewBoostHandler(boostService, logger)

	// ==========================================================================
	// Create router and register routes
	// ==========================================================================

	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Metrics
	if cfg.MetricsUsername == "" && cfg.MetricsPassword == "" {
		logger.Warn("Metrics endpoint is unprotected; set METRICS_USERNAME and METRICS_PASSWORD")
	}
	mux.Handle("GET /metrics", middleware.BasicAuth("metrics", cfg.MetricsUsername, cfg.MetricsPassword)(promhttp.Handler()))

	// API
	adHandler.RegisterRoutes(mux)
	agencyHandler.RegisterRoutes(mux)
	subscriptionHandler.RegisterRoutes(mux)
	boostHandler.RegisterRoutes(mux)

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		handler.NotFoundResponse(w, r, logger)
	})

	requestLogger := middleware.NewRequestLogger(logger)
	stack := middleware.Stack(
		metrics.Middleware,
		requestLogger.Handler,
		middleware.SecurityHeaders(!cfg.IsDevelopment()),
		middleware.AgencySpace,
	)

	// ==========================================================================
	// Start server and worker
	// ==========================================================================

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           stack(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Server started", "address", server.Addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	if cfg.WorkerEnabled {
		w, err := worker.New(db, repo, worker.Config{
			Concurrency:       cfg.WorkerConcurrency,
			PollInterval:      cfg.WorkerPollInterval,
			JobTimeout:        cfg.WorkerJobTimeout,
			ShutdownTimeout:   cfg.ShutdownTimeout,
			StaleJobThreshold: cfg.WorkerStaleJobThreshold,
		}, logger)
		if err != nil {
			return fmt.Errorf("worker initialization failed: %w", err)
		}
		w.Register(jobs.NewExpireBoostHandler(boostService, logger))
		w.Register(jobs.NewExpireSubscriptionHandler(subscriptionService, logger))

		g.Go(func() error {
			return w.Run(ctx)
		})
	} else {
		logger.Info("Worker disabled")
	}

	// Wait for interrupt signal or a failed component
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutdown signal received, initiating graceful shutdown...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("Graceful shutdown complete")
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

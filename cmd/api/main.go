// Package main is the entry point for the TripWit API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/pkordes/tripwit/internal/config"
	"github.com/pkordes/tripwit/internal/handler"
	"github.com/pkordes/tripwit/internal/itinerary"
	"github.com/pkordes/tripwit/internal/metrics"
	"github.com/pkordes/tripwit/internal/middleware"
	"github.com/pkordes/tripwit/internal/photomatch"
	"github.com/pkordes/tripwit/internal/repo"
	"github.com/pkordes/tripwit/internal/service"
	"github.com/pkordes/tripwit/migrations"
)

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		// Use plain stderr before the logger is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	// --- Database ---------------------------------------------------------
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Verify the DB is reachable before accepting traffic.
	if err := pool.Ping(context.Background()); err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connection established")

	if cfg.MigrateOnStart {
		if err := migrate(context.Background(), pool); err != nil {
			slog.Error("failed to apply migrations", "error", err)
			os.Exit(1)
		}
	}

	// --- Services ---------------------------------------------------------
	collector := metrics.NewCollector("tripwit")

	trips := repo.NewTripRepo(pool)
	days := repo.NewDayRepo(pool)
	stops := repo.NewStopRepo(pool)
	photos := repo.NewPhotoRepo(pool)

	engine := itinerary.New(itinerary.InLocation(cfg.TripLocation))
	matcher := photomatch.New(photomatch.Config{
		MaxDistanceMeters: cfg.PhotoMatchMaxDistanceMeters,
		MaxTimeWindow:     cfg.PhotoMatchTimeWindow,
	})

	tripSvc := service.NewTripService(trips, days, stops, photos, engine, collector)
	stopSvc := service.NewStopService(days, stops, photos)
	photoSvc := service.NewPhotoService(trips, days, stops, photos, matcher, collector)
	mapSvc := service.NewMapService(tripSvc)

	// --- Router -----------------------------------------------------------
	// Middleware runs in registration order. Metrics sits inside the logger
	// so both see the final status, and Recoverer sits inside both so a
	// panic is still logged and counted as a 500.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(middleware.NewMetrics(collector))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))

	server := handler.NewServer(tripSvc, stopSvc, photoSvc, mapSvc)
	r.Mount("/", handler.NewRouter(server, collector.Handler()))

	// --- HTTP Server ------------------------------------------------------
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to cfg.ShutdownTimeout to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// migrate applies every pending migration through a database/sql handle
// borrowed from the pool.
func migrate(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	n, err := migrations.Up(ctx, db)
	if err != nil {
		return err
	}
	slog.Info("migrations applied", "count", n)
	return nil
}

// Package main is the entry point for the license search server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"database/sql"
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
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mangobar/mangobar-web/internal/config"
	"github.com/mangobar/mangobar-web/internal/handler"
	"github.com/mangobar/mangobar-web/internal/metrics"
	"github.com/mangobar/mangobar-web/internal/middleware"
	"github.com/mangobar/mangobar-web/internal/refresh"
	"github.com/mangobar/mangobar-web/internal/repo"
	"github.com/mangobar/mangobar-web/internal/service"
	"github.com/mangobar/mangobar-web/internal/session"
	"github.com/mangobar/mangobar-web/migrations"
	"github.com/mangobar/mangobar-web/spec"
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
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Metrics ----------------------------------------------------------
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	ctx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	// --- License store ----------------------------------------------------
	var licenses repo.LicenseRepo
	if cfg.UsePostgres() {
		pool, err := openPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to open license database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		licenses = repo.NewPostgresLicenseRepo(pool)
		slog.Info("using postgres license store")
	} else {
		schema, ok := repo.SchemaByName(cfg.LicenseDBSchema)
		if !ok {
			slog.Error("unknown license db schema", "schema", cfg.LicenseDBSchema)
			os.Exit(1)
		}
		licenses = repo.NewSQLiteLicenseRepo(cfg.LicenseDBPath, schema)
		slog.Info("using sqlite license snapshot", "path", cfg.LicenseDBPath, "schema", cfg.LicenseDBSchema)

		if cfg.RefreshEnabled {
			fetcher, err := refresh.NewFetcher(ctx, cfg.SourceURL, refresh.SourceConfig{
				Region:   cfg.S3Region,
				Endpoint: cfg.S3Endpoint,
				Timeout:  cfg.FetchTimeout,
			})
			if err != nil {
				slog.Error("invalid snapshot source", "error", err)
				os.Exit(1)
			}
			refresher := refresh.New(fetcher, cfg.LicenseDBPath, cfg.StampPath, m, logger)
			// A failed first download is not fatal: an older snapshot may
			// still be usable, and searches report 503 otherwise.
			if _, err := refresher.EnsureFresh(ctx); err != nil {
				slog.Error("initial snapshot refresh failed", "error", err)
			}
			go refresher.Run(ctx, cfg.RefreshInterval)
		}
	}

	search := service.NewSearchService(licenses, m, logger)
	sessions := session.NewStore(cfg.SessionIdleTimeout)
	go sessions.Run(ctx, time.Minute)
	srv := handler.NewServer(search, sessions, logger)

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger, srv.SessionState))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	r.Get("/openapi.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		w.Write(spec.OpenAPI) //nolint:errcheck
	})
	r.Mount("/", srv.Routes())

	// --- HTTP Server ------------------------------------------------------
	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")
	stopBackground()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// openPostgres applies the embedded migrations over database/sql, which goose
// requires, and then opens the pgx pool the repo queries through.
func openPostgres(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return nil, err
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("database migrations applied", "count", len(results))

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/freedomology/backend/internal/api"
	"github.com/freedomology/backend/internal/domain/catalog"
	"github.com/freedomology/backend/internal/domain/scoring"
	"github.com/freedomology/backend/internal/infrastructure/config"
	"github.com/freedomology/backend/internal/metrics"
	"github.com/freedomology/backend/internal/service"
	"github.com/freedomology/backend/internal/store"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if err := run(logger); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// ── Dependencies ────────────────────────────────────────────────
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	pillars, categories, questions := cat.Stats()
	logger.Info("catalog loaded", "path", cfg.CatalogPath, "pillars", pillars, "categories", categories, "questions", questions)

	engine, err := scoring.NewEngine(scoring.Config{CapSlack: cfg.CapSlack})
	if err != nil {
		return err
	}

	db, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	sessions, closeSessions, err := newSessionStore(cfg)
	if err != nil {
		return err
	}
	defer closeSessions()
	logger.Info("session store ready", "backend", cfg.SessionBackend)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	svc := service.NewAssessmentService(service.Options{
		Catalog:         cat,
		Engine:          engine,
		Sessions:        sessions,
		Results:         db,
		Metrics:         metrics.MustNewMetrics(reg),
		Logger:          logger,
		RecorderWorkers: cfg.RecorderWorkers,
	})
	handler := api.NewHandler(svc, db, logger)

	// ── Routes ──────────────────────────────────────────────────────
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "ok"}`))
	})
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	api.RegisterRoutes(mux, handler)

	// ── Middleware chain: Logging → CORS → mux ──────────────────────
	logged := api.Logging(logger)(api.CORS(cfg.CORSOrigin)(mux))

	// ── Server ──────────────────────────────────────────────────────
	server := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           logged,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting server", "address", cfg.ServerAddress)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		logger.Info("shutting down server")
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server forced to shutdown", "error", err)
		}
		// No handler is running any more, so nothing can queue a new record.
		svc.Close()
		return nil
	})

	return g.Wait()
}

func newSessionStore(cfg *config.Config) (store.SessionStore, func(), error) {
	switch cfg.SessionBackend {
	case config.SessionBackendRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		return store.NewRedisSessionStore(client, cfg.SessionTTL), func() { client.Close() }, nil
	default:
		return store.NewLRUSessionStore(cfg.SessionCapacity, cfg.SessionTTL), func() {}, nil
	}
}

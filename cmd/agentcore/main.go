package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	achttp "github.com/growthframe/agentcore/internal/adapter/http"
	acnats "github.com/growthframe/agentcore/internal/adapter/nats"
	acotel "github.com/growthframe/agentcore/internal/adapter/otel"
	"github.com/growthframe/agentcore/internal/adapter/postgres"
	"github.com/growthframe/agentcore/internal/adapter/ristretto"
	"github.com/growthframe/agentcore/internal/config"
	"github.com/growthframe/agentcore/internal/domain/resource"
	"github.com/growthframe/agentcore/internal/logger"
	"github.com/growthframe/agentcore/internal/port/observer"
	"github.com/growthframe/agentcore/internal/service"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	slog.SetDefault(logger.New(cfg.Logging))
	slog.Info("config loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Logging.Level,
		"engine_timeout", cfg.Pipeline.EngineTimeout,
	)

	ctx := context.Background()

	// --- Telemetry ---
	if cfg.OTel.Endpoint != "" {
		shutdown, err := acotel.Setup(ctx, cfg.Logging.Service, cfg.OTel.Endpoint)
		if err != nil {
			return fmt.Errorf("otel: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdown(shutdownCtx)
		}()
	}

	// --- Infrastructure ---
	pool, err := postgres.NewPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer pool.Close()
	slog.Info("postgres connected")

	if err := postgres.RunMigrations(ctx, cfg.Postgres.DSN); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	slog.Info("migrations applied")

	natsClient, err := acnats.Connect(ctx, cfg.NATS.URL)
	if err != nil {
		return fmt.Errorf("nats: %w", err)
	}
	defer func() { _ = natsClient.Close() }()

	profileCache, err := ristretto.New(cfg.Cache.MaxProfiles)
	if err != nil {
		return fmt.Errorf("profile cache: %w", err)
	}
	defer profileCache.Close()

	// --- Services ---
	store := postgres.NewStore(pool)
	engines := acnats.NewEngines(natsClient).Bundle()
	profiles := service.NewProfileCache(profileCache, store)
	assessor := service.NewAssessor(resourceLimits(cfg.Budget))
	registry := service.NewRegistry()

	agent := service.NewAgentService(
		cfg.Pipeline, cfg.Breaker,
		engines, store, profiles, store, assessor, registry,
	)
	if cfg.OTel.Endpoint != "" {
		metrics, err := acotel.NewMetrics()
		if err != nil {
			return fmt.Errorf("metrics: %w", err)
		}
		agent.SetMetrics(metrics)
	}

	obs := observer.Multi{observer.LogObserver{}, acnats.NewObserver(natsClient)}
	controller := service.NewController(agent, engines, store, profiles, obs)

	if err := controller.Start(ctx); err != nil {
		return err
	}

	// --- HTTP ---
	handlers := &achttp.Handlers{Agent: agent, Lifecycle: controller}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(2 * time.Minute))
	if cfg.OTel.Endpoint != "" {
		r.Use(acotel.HTTPMiddleware(cfg.Logging.Service))
	}
	achttp.MountRoutes(r, handlers)

	addr := ":" + cfg.Server.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       2 * time.Minute,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
		}
	}()

	<-done
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown", "error", err)
	}
	if err := controller.Stop(shutdownCtx); err != nil {
		slog.Error("agent shutdown", "error", err)
	}

	return nil
}

// resourceLimits maps the budget config onto the domain limits type.
func resourceLimits(b config.Budget) resource.Limits {
	return resource.Limits{
		MaxTokens:       b.MaxTokens,
		MaxCalls:        b.MaxCalls,
		Window:          b.Window,
		TokensPerAction: b.TokensPerAction,
	}
}

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
	"golang.org/x/sync/errgroup"

	gphttp "github.com/glasspane-ai/glasspane/internal/adapter/http"
	"github.com/glasspane-ai/glasspane/internal/adapter/llm"
	gpnats "github.com/glasspane-ai/glasspane/internal/adapter/nats"
	"github.com/glasspane-ai/glasspane/internal/adapter/otel"
	"github.com/glasspane-ai/glasspane/internal/adapter/postgres"
	"github.com/glasspane-ai/glasspane/internal/adapter/ristretto"
	"github.com/glasspane-ai/glasspane/internal/adapter/ws"
	"github.com/glasspane-ai/glasspane/internal/config"
	"github.com/glasspane-ai/glasspane/internal/logger"
	"github.com/glasspane-ai/glasspane/internal/middleware"
	"github.com/glasspane-ai/glasspane/internal/resilience"
	"github.com/glasspane-ai/glasspane/internal/service"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "admin" {
		if err := runAdmin(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

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
	holder := config.NewHolder(cfg, config.DefaultConfigFile)

	log, logCloser := logger.New(cfg.Logging)
	defer logCloser.Close()
	slog.SetDefault(log)

	slog.Info("config loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Logging.Level,
		"auth_enabled", cfg.Server.AuthEnabled,
		"pg_max_conns", cfg.Postgres.MaxConns,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Traces and metrics (no-op unless OTEL_EXPORTER_OTLP_ENDPOINT is set)
	shutdownTelemetry, err := otel.Init(ctx, cfg.Logging.Service)
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}
	defer func() { _ = shutdownTelemetry(context.Background()) }()

	metrics, err := otel.NewMetrics()
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
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

	queue, err := gpnats.Connect(ctx, cfg.NATS.URL)
	if err != nil {
		return fmt.Errorf("nats: %w", err)
	}
	defer func() { _ = queue.Close() }()

	historyCache, err := ristretto.New(cfg.Cache.MaxSizeMB)
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	defer historyCache.Close()

	// --- Services ---

	breaker := resilience.NewBreaker(cfg.Breaker.MaxFailures, cfg.Breaker.Timeout)
	llmClient := llm.NewClient(cfg.LLM.URL, cfg.LLM.APIKey, cfg.LLM.StreamTimeout)
	llmClient.SetBreaker(breaker)

	hub := ws.NewHub()
	store := postgres.NewStore(pool)
	authSvc := service.NewAuthService(store)
	chatSvc := service.NewChatService(store, llmClient, hub, queue, historyCache, metrics,
		cfg.LLM.DefaultModel, cfg.Cache.HistoryTTL, cfg.Sanitizer)

	// --- HTTP ---

	handlers := &gphttp.Handlers{
		Chat:    chatSvc,
		Auth:    authSvc,
		LLM:     llmClient,
		Queue:   queue,
		Breaker: breaker,
		Hub:     hub,
	}

	r := chi.NewRouter()
	r.Use(gphttp.CORS(cfg.Server.CORSOrigin))
	r.Use(middleware.RequestID)
	r.Use(gphttp.Logger)
	r.Use(gphttp.SecurityHeaders)
	r.Use(otel.HTTPMiddleware(cfg.Logging.Service))
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Auth(authSvc, cfg.Server.AuthEnabled))

	r.Get("/ws", hub.HandleWS)
	gphttp.MountRoutes(r, handlers)

	addr := ":" + cfg.Server.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// WriteTimeout stays generous because replies stream over SSE.
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		watchReload(gctx, holder)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// watchReload reloads the config file on SIGHUP. Only fields read through the
// holder pick up changes; connection settings require a restart.
func watchReload(ctx context.Context, holder *config.Holder) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			if err := holder.Reload(); err != nil {
				slog.Error("config reload failed, keeping previous config", "error", err)
				continue
			}
			slog.Info("config reloaded", "log_level", holder.Get().Logging.Level)
		}
	}
}

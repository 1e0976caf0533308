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

	"golang.org/x/sync/errgroup"

	"github.com/bd2-crud/terceros/internal/app"
	"github.com/bd2-crud/terceros/internal/observability"
	"github.com/bd2-crud/terceros/internal/platform/cache"
	"github.com/bd2-crud/terceros/internal/platform/db"
	"github.com/bd2-crud/terceros/internal/shared"
	"github.com/bd2-crud/terceros/internal/terceros"
	"github.com/bd2-crud/terceros/internal/view"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	// LoadConfig already validated the DSN and the pool connects lazily.
	dbpool, err := db.New(ctx, cfg.PGDSN, db.Options{MaxConns: cfg.PGMaxConns, MinConns: cfg.PGMinConns})
	if err != nil {
		logger.Error("configure postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	readiness := app.NewReadiness(func(ctx context.Context) error {
		return db.Probe(ctx, dbpool, 0)
	}, cfg.PGConnectTimeout)
	if err := readiness.Check(ctx); err != nil {
		logger.Warn("database unreachable, serving in degraded mode", slog.Any("error", err))
	} else {
		logger.Info("database reachable")
		if cfg.DBAutoMigrate {
			if err := db.EnsureSchema(ctx, dbpool); err != nil {
				logger.Warn("ensure schema", slog.Any("error", err))
			}
		}
	}

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "terceros_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	templates, err := view.NewEngine()
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}

	metrics := observability.NewMetrics()

	tercerosRepo := terceros.NewRepository(dbpool)
	tercerosService := terceros.NewService(tercerosRepo, logger)
	tercerosHandler := terceros.NewHandler(logger, tercerosService, templates, csrfManager, terceros.ParseLocale(cfg.DefaultLocale), metrics)

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		SessionManager:  sessionManager,
		CSRFManager:     csrfManager,
		TercerosHandler: tercerosHandler,
		Readiness:       readiness,
		Metrics:         metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("http server", slog.Any("error", err))
		os.Exit(1)
	}
}

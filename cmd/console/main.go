package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/odyssey-erp/admin-console/internal/apiclient"
	"github.com/odyssey-erp/admin-console/internal/app"
	"github.com/odyssey-erp/admin-console/internal/console"
	"github.com/odyssey-erp/admin-console/internal/dashboard"
	"github.com/odyssey-erp/admin-console/internal/groups"
	"github.com/odyssey-erp/admin-console/internal/observability"
	"github.com/odyssey-erp/admin-console/internal/platform/cache"
	"github.com/odyssey-erp/admin-console/internal/shared"
	"github.com/odyssey-erp/admin-console/internal/users"
	"github.com/odyssey-erp/admin-console/internal/view"
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

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, cfg.SessionCookie, cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	templates, err := view.NewEngine()
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}

	metrics := observability.NewMetrics()
	client := apiclient.NewClient(cfg.BackendURL,
		apiclient.WithLogger(logger),
		apiclient.WithObserver(metrics),
	)

	registry := console.NewRegistry(client, logger, console.Config{
		TTL:         cfg.WorkspaceTTL,
		SearchDelay: cfg.SearchDebounce,
	}, metrics)
	go registry.Run(ctx, time.Minute)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		Templates:        templates,
		SessionManager:   sessionManager,
		CSRFManager:      csrfManager,
		DashboardHandler: dashboard.NewHandler(logger, client, templates, csrfManager),
		UsersHandler:     users.NewHandler(logger, registry, templates, csrfManager),
		GroupsHandler:    groups.NewHandler(logger, registry, templates, csrfManager),
		ConsoleHandler:   console.NewHandler(logger, registry, sessionManager, cfg.IsProduction()),
		Metrics:          metrics,
		HealthChecks:     []app.HealthChecker{cache.NewChecker(redisClient)},
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr), slog.String("backend", cfg.BackendURL))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
	registry.Close()
}

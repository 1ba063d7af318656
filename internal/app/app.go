// Package app wires the hydrograph query service together: config,
// logging, router, middleware and graceful shutdown.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"iwfmcli/internal/config"
	apierrors "iwfmcli/internal/errors"
	"iwfmcli/internal/hydrograph"
	"iwfmcli/internal/infrastructure"
	custommiddleware "iwfmcli/internal/middleware"
	transporthttp "iwfmcli/internal/transport/http"
)

// Version is stamped at build time.
var Version = "dev"

// Application holds the assembled query service.
type Application struct {
	Config *config.Config
	Logger *slog.Logger
	Cache  *hydrograph.Cache
	Server *http.Server
}

// NewApplication loads configuration, initializes logging and builds
// the HTTP server.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	paths, err := config.GetPaths()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}
	// The file log handler needs logs/ to exist before it opens.
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	a := &Application{
		Config: cfg,
		Logger: logger,
		Cache:  hydrograph.NewCache(),
	}

	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      a.setupRouter(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return a, nil
}

// setupRouter builds the route tree. Middleware order: RequestID,
// RealIP, StructuredLogger, Recoverer, rate limiter.
func (a *Application) setupRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(custommiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(custommiddleware.StructuredLogger(a.Logger))
	r.Use(custommiddleware.Recoverer(a.Logger))

	if a.Config.Server.RateLimit.Enabled {
		r.Use(custommiddleware.NewRateLimiter(
			a.Config.Server.RateLimit.RPS,
			a.Config.Server.RateLimit.Burst,
			a.Logger,
		).Handler)
	}

	errorHandler := apierrors.NewErrorHandler(a.Logger, a.Config.Logging.Development)
	healthHandler := transporthttp.NewHealthHandler(Version)
	hydHandler := transporthttp.NewHydrographHandler(a.Cache, a.Logger, errorHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/health", healthHandler.Health)
		r.Mount("/hydrographs", hydHandler.Routes())
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}

// Run starts the server and blocks until shutdown.
func (a *Application) Run() error {
	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("server listening", slog.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		a.Logger.Info("shutting down", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	infrastructure.CloseLogFile()
	return nil
}

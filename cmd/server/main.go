package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"

	"github.com/mlehotskylf-org/marketplace-edge/internal/auth"
	"github.com/mlehotskylf-org/marketplace-edge/internal/config"
	httpx "github.com/mlehotskylf-org/marketplace-edge/internal/http"
	"github.com/mlehotskylf-org/marketplace-edge/internal/logging"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s event:fatal error:%v\n", time.Now().Format(time.RFC3339), err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	logger.Info("configuration loaded", zap.Any("config", cfg.Redacted()))

	// W3C trace context in, continued on provider and upstream calls.
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	// Keep a nil interface when unconfigured: the pipeline fails open on it.
	var provider auth.Provider
	if cfg.AuthConfigured() {
		client, err := auth.NewClient(cfg.ProviderConfig())
		if err != nil {
			return fmt.Errorf("identity provider: %w", err)
		}
		provider = client
	} else {
		logger.Warn("identity provider not configured; protected routes are not enforced")
	}

	router, err := httpx.NewRouter(cfg, httpx.Options{
		Logger:   logger,
		Provider: provider,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

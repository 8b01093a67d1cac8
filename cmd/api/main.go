package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-event-listing/internal/config"
	"github.com/sanosuguru/go-event-listing/internal/pkg/logger"
	"github.com/sanosuguru/go-event-listing/internal/pkg/metrics"
	"github.com/sanosuguru/go-event-listing/internal/pkg/tracing"
	"github.com/sanosuguru/go-event-listing/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	logger.Set(logger.NewLogger(cfg.App.Env, cfg.App.LogLevel))
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, cfg.App.Name, cfg.Tracing.Endpoint)
	if err != nil {
		logger.Fatal("failed to set up tracing", zap.Error(err))
	}
	defer func() {
		if err := shutdownTracing(context.WithoutCancel(ctx)); err != nil {
			logger.Warn("failed to flush traces", zap.Error(err))
		}
	}()

	metrics.Init()

	srv, err := server.New(ctx, cfg, nil)
	if err != nil {
		logger.Fatal("failed to initialize server", zap.Error(err))
	}
	defer func() {
		if err := srv.Close(); err != nil {
			logger.Warn("failed to close connections", zap.Error(err))
		}
	}()

	if err := srv.Run(ctx); err != nil {
		logger.Error("server stopped with error", zap.Error(err))
		return
	}
	logger.Info("server stopped")
}

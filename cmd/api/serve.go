package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/app"
	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/config"
	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/observability"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	container, err := app.New(ctx, *cfg, logger)
	if err != nil {
		logger.Error("failed to start", zap.Error(err))
		return err
	}
	defer container.Close()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()))
		errCh <- container.HTTP.Listen(cfg.App.Addr())
	}()

	select {
	case err := <-errCh:
		logger.Error("fiber listen", zap.Error(err))
		return err
	case sig := <-waitForShutdown():
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}
	return container.HTTP.ShutdownWithTimeout(shutdownTimeout)
}

func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger, err := observability.NewLogger(cfg.App, cfg.Logger)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func waitForShutdown() <-chan os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	return sigCh
}

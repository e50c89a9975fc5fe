package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mcoot/gameroom/internal/api"
	"github.com/mcoot/gameroom/internal/config"
	"github.com/mcoot/gameroom/internal/factory"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	// GAMEROOM_CONFIG optionally names a YAML file; the environment
	// overrides anything it sets
	cfg, err := config.Load(os.Getenv("GAMEROOM_CONFIG"))
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	app, err := factory.New(factory.FromConfig(cfg, logger))
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("close error", slog.String("error", err.Error()))
		}
	}()

	router := api.NewRouter(api.RouterConfig{
		Logger:      logger,
		AuthService: app.AuthService,
		Engine:      app.Engine,
	})

	server := api.NewServer(router, api.ServerConfig{
		Host:            cfg.HTTP.Host,
		Port:            cfg.HTTP.Port,
		ReadTimeout:     cfg.HTTP.ReadTimeout,
		WriteTimeout:    cfg.HTTP.WriteTimeout,
		ShutdownTimeout: cfg.HTTP.ShutdownTimeout,
	}, logger)

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The relay feeds other instances' commits into the local hubs
	if app.Relay != nil {
		go func() {
			if err := app.Relay.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("snapshot relay stopped", slog.String("error", err.Error()))
				stop()
			}
		}()
	}
	go app.Hubs.RunJanitor(ctx, cfg.Broadcaster.JanitorInterval)

	logger.Info("server starting",
		slog.String("addr", server.Addr()),
		slog.String("storage", cfg.Storage.Type),
		slog.String("broadcaster", cfg.Broadcaster.Type))

	// Serves until a shutdown signal, then drains open requests
	if err := server.Run(ctx); err != nil {
		return err
	}

	logger.Info("server stopped")
	return nil
}

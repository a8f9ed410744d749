package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"pagelens/internal/app"
	"pagelens/internal/config"
	"pagelens/internal/logger"
)

func main() {
	slog.SetDefault(slog.New(logger.NewContextHandler(slog.NewJSONHandler(os.Stdout, nil))))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	caps := app.Probe(ctx, cfg)

	a := app.New(cfg, caps)
	if err := a.Run(ctx); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

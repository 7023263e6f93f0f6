// Package main provides the entry point for the split-by-silence command.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/maauso/audio-splitter/internal/bootstrap"
	"github.com/maauso/audio-splitter/internal/cli"
	"github.com/maauso/audio-splitter/internal/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Cancel the running ffmpeg on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := cfg.NewLogger(os.Stderr)
	slog.SetDefault(logger)
	logger.Debug("starting silence splitter", slog.String("config", cfg.String()))

	deps, err := bootstrap.NewDependencies(ctx, cfg, logger, os.Stdout)
	if err != nil {
		return fmt.Errorf("initialize dependencies: %w", err)
	}

	cmd := cli.NewSplitBySilenceCommand(deps.Splitter, cfg.OutputDir)
	return cmd.ExecuteContext(ctx)
}

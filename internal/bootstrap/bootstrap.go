// Package bootstrap provides dependency initialization for the splitter commands.
package bootstrap

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/maauso/audio-splitter/internal/audio"
	"github.com/maauso/audio-splitter/internal/config"
	"github.com/maauso/audio-splitter/internal/media"
	"github.com/maauso/audio-splitter/internal/split"
	"github.com/maauso/audio-splitter/internal/storage"
)

// Dependencies holds all initialized dependencies for a command run.
type Dependencies struct {
	Config   *config.Config
	Logger   *slog.Logger
	Splitter *split.Service
}

// NewDependencies creates and initializes all dependencies for the application.
// The run report produced by the splitter is written to out.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger, out io.Writer) (*Dependencies, error) {
	store, err := initStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	tools := media.NewToolchain(cfg.FFmpegPath, cfg.FFprobePath)
	detector := audio.NewFFmpegDetector(cfg.FFmpegPath, nil)

	svc := split.NewService(
		tools,
		detector,
		store,
		logger,
		split.WithOutput(out),
		split.WithPublishing(cfg.S3Enabled()),
	)

	return &Dependencies{
		Config:   cfg,
		Logger:   logger,
		Splitter: svc,
	}, nil
}

// initStorage creates the appropriate storage backend based on configuration.
func initStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.Storage, error) {
	if cfg.S3Enabled() {
		s3Cfg := storage.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Prefix:          cfg.S3Prefix,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		}
		s3Store, err := storage.NewS3Storage(ctx, s3Cfg)
		if err != nil {
			return nil, fmt.Errorf("create S3 storage: %w", err)
		}
		logger.Info("S3 publishing configured",
			slog.String("bucket", cfg.S3Bucket),
			slog.String("region", cfg.S3Region),
			slog.String("prefix", cfg.S3Prefix),
		)
		return s3Store, nil
	}

	logger.Debug("local storage configured", slog.String("output_dir", cfg.OutputDir))
	return storage.NewLocalStorage(), nil
}

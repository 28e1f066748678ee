// Package bootstrap provides dependency initialization for the CLI.
package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/kunalaneja/assetforge/internal/config"
	"github.com/kunalaneja/assetforge/internal/media"
	"github.com/kunalaneja/assetforge/internal/pipeline"
	"github.com/kunalaneja/assetforge/internal/storage"
)

// Dependencies holds all initialized dependencies for the CLI commands.
type Dependencies struct {
	Runner *pipeline.Runner
}

// NewDependencies creates and initializes all dependencies for the application.
func NewDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	publisher, err := initPublisher(cfg, logger)
	if err != nil {
		return nil, err
	}

	processor := media.NewFFmpegProcessor(cfg.FFmpegPath, cfg.FFprobePath)
	runner := pipeline.NewRunner(processor, publisher, logger, cfg.TempDir)

	return &Dependencies{
		Runner: runner,
	}, nil
}

// initPublisher creates the artifact publisher based on configuration.
func initPublisher(cfg *config.Config, logger *slog.Logger) (storage.Publisher, error) {
	if cfg.S3Enabled() {
		s3Cfg := storage.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Prefix:          cfg.S3Prefix,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		}
		s3Pub, err := storage.NewS3Publisher(s3Cfg)
		if err != nil {
			return nil, fmt.Errorf("create S3 publisher: %w", err)
		}
		logger.Info("S3 publishing configured",
			slog.String("bucket", cfg.S3Bucket),
			slog.String("region", cfg.S3Region),
		)
		return s3Pub, nil
	}

	logger.Info("local publishing configured",
		slog.String("output_dir", cfg.OutputDir),
	)
	return storage.NewLocalPublisher(cfg.OutputDir), nil
}

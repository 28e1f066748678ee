// Package main provides the assetforge CLI, a batch pipeline runner that
// turns website media assets into published artifacts via ffmpeg.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kunalaneja/assetforge/internal/bootstrap"
	"github.com/kunalaneja/assetforge/internal/config"
	"github.com/kunalaneja/assetforge/internal/pipeline"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "assetforge",
		Short:         "Produce website media artifacts with ffmpeg",
		Long:          "assetforge runs batch media pipelines: GIF slideshows from images, combined GIF reels from video clips, and portrait-to-landscape video cropping.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newSlideshowCmd(),
		newReelCmd(),
		newCropCmd(),
	)

	return root
}

// setup loads configuration, builds the logger and dependencies, and runs
// the tool availability check. Every subcommand starts here; a failed check
// aborts before any filesystem writes.
func setup(ctx context.Context) (*pipeline.Runner, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	deps, err := bootstrap.NewDependencies(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("initialize dependencies: %w", err)
	}

	banner, err := deps.Runner.CheckTool(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w\ninstall ffmpeg first: https://ffmpeg.org/download.html", err)
	}
	logger.Info("using external tool", slog.String("version", banner))

	return deps.Runner, nil
}

// report prints the final success line with the artifact location and size.
func report(cmd *cobra.Command, result *pipeline.Result) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s\n", result.Summary())
}

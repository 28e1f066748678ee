// Package pipeline contains the asset pipelines: slideshow, reel, and crop.
// Each pipeline is a linear driver over the media processor with explicit
// fallback chains and a run-scoped workspace that is removed on every exit
// path.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/kunalaneja/assetforge/internal/media"
	"github.com/kunalaneja/assetforge/internal/storage"
)

// Static errors for pipeline runs.
var (
	// ErrToolUnavailable is returned when the ffmpeg availability check fails.
	ErrToolUnavailable = errors.New("ffmpeg is not installed or not in PATH")
	// ErrMissingInput is returned when a declared input file does not exist.
	ErrMissingInput = errors.New("input file not found")
	// ErrFallbacksExhausted is returned when every invocation in a fallback
	// chain failed.
	ErrFallbacksExhausted = errors.New("all fallback invocations failed")
)

// Result describes a finished pipeline run.
type Result struct {
	// Location is where the artifact was published: a filesystem path for
	// local publishing, a URL for S3.
	Location string
	// SizeBytes is the artifact size.
	SizeBytes int64
	// Attempt is the 1-based index of the step in the driver's fallback
	// chain that produced the artifact. 1 means the primary route
	// succeeded. Drivers without a fallback chain of their own, like the
	// reel, always report 1; fallbacks inside individual processor calls
	// (concat re-encode, palette retry) are not counted.
	Attempt int
}

// SizeMB returns the artifact size in megabytes.
func (r *Result) SizeMB() float64 {
	return float64(r.SizeBytes) / (1024 * 1024)
}

// Summary returns the human-readable success line printed at the end of a run.
func (r *Result) Summary() string {
	return fmt.Sprintf("created %s (%.1f MB)", r.Location, r.SizeMB())
}

// Runner executes the asset pipelines with shared dependencies.
type Runner struct {
	processor media.Processor
	publisher storage.Publisher
	logger    *slog.Logger
	tempRoot  string
	validate  *validator.Validate
}

// NewRunner creates a new Runner. The tempRoot directory hosts each run's
// workspace; empty means the system temp directory.
func NewRunner(processor media.Processor, publisher storage.Publisher, logger *slog.Logger, tempRoot string) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		processor: processor,
		publisher: publisher,
		logger:    logger,
		tempRoot:  tempRoot,
		validate:  validator.New(),
	}
}

// CheckTool verifies the external tool is reachable before any work starts.
// It returns the tool's version banner on success.
func (r *Runner) CheckTool(ctx context.Context) (string, error) {
	banner, err := r.processor.Version(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrToolUnavailable, err)
	}
	r.logger.Debug("external tool available", slog.String("version", banner))
	return banner, nil
}

// checkInputs confirms every declared input file exists. All-or-nothing: the
// first missing file aborts the run before any tool invocation.
func checkInputs(paths []string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			return fmt.Errorf("%w: %s", ErrMissingInput, p)
		}
	}
	return nil
}

// publish delivers a finished workspace artifact and returns the run result.
func (r *Runner) publish(ctx context.Context, artifact, key string, attempt int) (*Result, error) {
	info, err := os.Stat(artifact)
	if err != nil {
		return nil, fmt.Errorf("stat artifact: %w", err)
	}

	f, err := os.Open(artifact) // #nosec G304 - artifact lives in the run workspace
	if err != nil {
		return nil, fmt.Errorf("open artifact: %w", err)
	}
	defer func() { _ = f.Close() }()

	location, err := r.publisher.Publish(ctx, key, f)
	if err != nil {
		return nil, fmt.Errorf("publish artifact: %w", err)
	}

	return &Result{
		Location:  location,
		SizeBytes: info.Size(),
		Attempt:   attempt,
	}, nil
}

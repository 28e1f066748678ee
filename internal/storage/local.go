package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalPublisher implements Publisher by copying artifacts into an output
// directory on local disk.
type LocalPublisher struct {
	outputDir string
}

// NewLocalPublisher creates a new LocalPublisher. Empty outputDir means the
// current directory. The directory itself is created on first Publish, so
// constructing a publisher touches nothing on disk.
func NewLocalPublisher(outputDir string) *LocalPublisher {
	if outputDir == "" {
		outputDir = "."
	}
	return &LocalPublisher{outputDir: outputDir}
}

// OutputDir returns the output directory path.
func (p *LocalPublisher) OutputDir() string {
	return p.outputDir
}

// Publish writes the artifact under the output directory and returns its
// absolute path. An existing file at the same path is overwritten.
func (p *LocalPublisher) Publish(ctx context.Context, key string, data io.Reader) (string, error) {
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
	}

	dst := filepath.Join(p.outputDir, key)
	if err := os.MkdirAll(filepath.Dir(dst), 0750); err != nil {
		return "", fmt.Errorf("create artifact directory: %w", err)
	}

	f, err := os.Create(dst) // #nosec G304 - dst is derived from the configured output dir
	if err != nil {
		return "", fmt.Errorf("create artifact file: %w", err)
	}

	if _, err := io.Copy(f, data); err != nil {
		_ = f.Close()
		_ = os.Remove(dst)
		return "", fmt.Errorf("write artifact: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(dst)
		return "", fmt.Errorf("close artifact: %w", err)
	}

	abs, err := filepath.Abs(dst)
	if err != nil {
		return dst, nil
	}
	return abs, nil
}

package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrFFprobeExecution is returned when an ffprobe command fails.
var ErrFFprobeExecution = errors.New("ffprobe execution failed")

// Duration returns the duration in seconds of a media file.
// It uses ffprobe to extract the duration metadata.
func (p *FFmpegProcessor) Duration(ctx context.Context, path string) (float64, error) {
	out, err := p.runFFprobe(ctx,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	if err != nil {
		return 0, err
	}

	var duration float64
	if _, err := fmt.Sscanf(strings.TrimSpace(out), "%f", &duration); err != nil {
		return 0, fmt.Errorf("parse duration: %w", err)
	}

	return duration, nil
}

// Dimensions returns the pixel dimensions of the first video stream.
func (p *FFmpegProcessor) Dimensions(ctx context.Context, path string) (int, int, error) {
	out, err := p.runFFprobe(ctx,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height",
		"-of", "csv=s=x:p=0",
		path,
	)
	if err != nil {
		return 0, 0, err
	}

	var w, h int
	n, err := fmt.Sscanf(strings.TrimSpace(out), "%dx%d", &w, &h)
	if err != nil {
		return 0, 0, fmt.Errorf("parse dimensions from %q: %w", strings.TrimSpace(out), err)
	}
	if n != 2 {
		return 0, 0, fmt.Errorf("parse dimensions from %q", strings.TrimSpace(out))
	}

	return w, h, nil
}

// runFFprobe executes ffprobe and returns its stdout.
func (p *FFmpegProcessor) runFFprobe(ctx context.Context, args ...string) (string, error) {
	// #nosec G204 - ffprobePath is set by the application, not user input
	cmd := exec.CommandContext(ctx, p.ffprobePath, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("ffprobe cancelled: %w", ctx.Err())
		}
		return "", fmt.Errorf("%w: %w, stderr: %s", ErrFFprobeExecution, err, stderr.String())
	}

	return stdout.String(), nil
}

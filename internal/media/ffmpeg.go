package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// Static errors for media operations.
var (
	// ErrInvalidDimensions is returned when the provided dimensions are not positive.
	ErrInvalidDimensions = errors.New("invalid dimensions: width and height must be positive")
	// ErrNoVideoPaths is returned when no video paths are provided for concatenation.
	ErrNoVideoPaths = errors.New("no video paths provided")
	// ErrNoImages is returned when no images are provided for GIF assembly.
	ErrNoImages = errors.New("no images provided")
	// ErrInvalidDuration is returned when a duration is not positive.
	ErrInvalidDuration = errors.New("invalid duration: must be positive")
	// ErrInvalidFPS is returned when a frame rate is not positive.
	ErrInvalidFPS = errors.New("invalid fps: must be positive")
)

// FFmpegProcessor implements Processor using the ffmpeg and ffprobe CLIs.
type FFmpegProcessor struct {
	// ffmpegPath is the path to the ffmpeg binary. Defaults to "ffmpeg".
	ffmpegPath string
	// ffprobePath is the path to the ffprobe binary. Defaults to "ffprobe".
	ffprobePath string
}

// NewFFmpegProcessor creates a new FFmpegProcessor.
// Empty paths default to "ffmpeg" and "ffprobe" (found via PATH).
func NewFFmpegProcessor(ffmpegPath, ffprobePath string) *FFmpegProcessor {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &FFmpegProcessor{ffmpegPath: ffmpegPath, ffprobePath: ffprobePath}
}

// Version runs `ffmpeg -version` and returns the first banner line.
// An error means the tool is missing or not runnable; callers should abort
// before doing any work.
func (p *FFmpegProcessor) Version(ctx context.Context) (string, error) {
	// #nosec G204 - ffmpegPath is set by the application, not user input
	cmd := exec.CommandContext(ctx, p.ffmpegPath, "-version")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("ffmpeg version check cancelled: %w", ctx.Err())
		}
		return "", &FFmpegError{
			Args:   []string{"-version"},
			Stderr: stderr.String(),
			Err:    err,
		}
	}

	banner, _, _ := strings.Cut(stdout.String(), "\n")
	return strings.TrimSpace(banner), nil
}

// ResizeImageWithPadding resizes an image to the specified dimensions while
// maintaining aspect ratio. Padding in padColor fills any remaining space.
func (p *FFmpegProcessor) ResizeImageWithPadding(ctx context.Context, src, dst string, w, h int, padColor string) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, w, h)
	}
	if padColor == "" {
		padColor = "white"
	}

	// scale fits within w x h keeping aspect ratio; pad centers the result
	// and fills the remainder with the pad color.
	filter := fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2:color=%s", w, h, w, h, padColor)

	args := []string{
		"-y",
		"-i", src,
		"-vf", filter,
		dst,
	}

	return p.runFFmpeg(ctx, args)
}

// StillClip renders a still image into a timed H.264 segment. The yuv420p
// pixel format keeps the segments concatenatable and broadly playable.
func (p *FFmpegProcessor) StillClip(ctx context.Context, src, dst string, opts StillOpts) error {
	if opts.Seconds <= 0 {
		return fmt.Errorf("%w: got %.2f", ErrInvalidDuration, opts.Seconds)
	}
	if opts.FPS <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidFPS, opts.FPS)
	}

	args := []string{
		"-y",
		"-loop", "1",
		"-t", formatSeconds(opts.Seconds),
		"-i", src,
		"-c:v", "libx264",
	}
	if opts.Preset != "" {
		args = append(args, "-preset", opts.Preset)
	}
	if opts.CRF > 0 {
		args = append(args, "-crf", strconv.Itoa(opts.CRF))
	}
	args = append(args,
		"-pix_fmt", "yuv420p",
		"-vf", fmt.Sprintf("fps=%d", opts.FPS),
		dst,
	)

	return p.runFFmpeg(ctx, args)
}

// ExtractClip trims a source video to its first opts.Seconds and/or retimes
// it by opts.Speed, encoding with the given codec settings.
func (p *FFmpegProcessor) ExtractClip(ctx context.Context, src, dst string, opts ClipOpts) error {
	if opts.Seconds < 0 {
		return fmt.Errorf("%w: got %.2f", ErrInvalidDuration, opts.Seconds)
	}

	args := []string{
		"-y",
		"-i", src,
	}
	if opts.Seconds > 0 {
		args = append(args, "-t", formatSeconds(opts.Seconds))
	}
	if opts.Speed > 0 && opts.Speed != 1 {
		// setpts rescales presentation timestamps; 2.5x speed is 0.4*PTS.
		args = append(args, "-filter:v", fmt.Sprintf("setpts=%s*PTS", formatSeconds(1/opts.Speed)))
	}
	args = append(args, encodeArgs(opts.Encode)...)
	args = append(args, dst)

	return p.runFFmpeg(ctx, args)
}

// ConcatVideos concatenates multiple video files into a single output file.
// It first attempts a fast copy (no re-encoding) and falls back to re-encoding
// with libx264/aac if the copy fails.
func (p *FFmpegProcessor) ConcatVideos(ctx context.Context, paths []string, dst string) error {
	if len(paths) == 0 {
		return ErrNoVideoPaths
	}

	if len(paths) == 1 {
		// Single video: just copy the file
		return copyFile(paths[0], dst)
	}

	// Create a temporary file list for the concat demuxer
	listFile, err := createConcatList(paths)
	if err != nil {
		return fmt.Errorf("create concat list: %w", err)
	}
	defer func() { _ = os.Remove(listFile) }()

	// Try fast copy first (no re-encoding)
	err = p.concatWithCopy(ctx, listFile, dst)
	if err == nil {
		return nil
	}

	// Fast copy failed, fall back to re-encoding
	return p.concatWithReencode(ctx, listFile, dst)
}

// concatWithCopy concatenates videos using stream copy (no re-encoding).
func (p *FFmpegProcessor) concatWithCopy(ctx context.Context, listFile, dst string) error {
	args := []string{
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listFile,
		"-c", "copy",
		dst,
	}
	return p.runFFmpeg(ctx, args)
}

// concatWithReencode concatenates videos by re-encoding with libx264/aac.
func (p *FFmpegProcessor) concatWithReencode(ctx context.Context, listFile, dst string) error {
	args := []string{
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listFile,
		"-c:v", "libx264",
		"-preset", "fast",
		"-crf", "23",
		"-c:a", "aac",
		"-b:a", "128k",
		dst,
	}
	return p.runFFmpeg(ctx, args)
}

// ImagesToGIF assembles a looping GIF from an ordered image list using the
// concat filter graph, one input per image.
func (p *FFmpegProcessor) ImagesToGIF(ctx context.Context, images []string, dst string, fps int) error {
	if len(images) == 0 {
		return ErrNoImages
	}
	if fps <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidFPS, fps)
	}

	args := []string{"-y"}
	for _, img := range images {
		args = append(args, "-i", img)
	}

	var graph strings.Builder
	for i := range images {
		fmt.Fprintf(&graph, "[%d:v]", i)
	}
	fmt.Fprintf(&graph, "concat=n=%d:v=1:a=0[v]", len(images))

	args = append(args,
		"-filter_complex", graph.String(),
		"-map", "[v]",
		"-r", strconv.Itoa(fps),
		"-loop", "0",
		dst,
	)

	return p.runFFmpeg(ctx, args)
}

// RenderFrames expands a still image into a numbered PNG frame sequence at
// the given frame rate, e.g. pattern "frame_00_%03d.png".
func (p *FFmpegProcessor) RenderFrames(ctx context.Context, src, pattern string, fps int, seconds float64) error {
	if fps <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidFPS, fps)
	}
	if seconds <= 0 {
		return fmt.Errorf("%w: got %.2f", ErrInvalidDuration, seconds)
	}

	args := []string{
		"-y",
		"-loop", "1",
		"-t", formatSeconds(seconds),
		"-i", src,
		"-vf", fmt.Sprintf("fps=%d", fps),
		pattern,
	}

	return p.runFFmpeg(ctx, args)
}

// GIFFromFrameList assembles a looping GIF from a concat-demuxer list file
// of frame paths with per-frame durations.
func (p *FFmpegProcessor) GIFFromFrameList(ctx context.Context, listFile, dst string) error {
	args := []string{
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listFile,
		"-loop", "0",
		dst,
	}
	return p.runFFmpeg(ctx, args)
}

// VideoToGIF converts a video into a looping GIF. With opts.Palette set it
// runs the two-pass palettegen/paletteuse conversion and falls back to the
// plain fps/scale filter when the palette pass fails.
func (p *FFmpegProcessor) VideoToGIF(ctx context.Context, src, dst string, opts GIFOpts) error {
	if opts.FPS <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidFPS, opts.FPS)
	}
	if opts.Width <= 0 {
		return fmt.Errorf("%w: width=%d", ErrInvalidDimensions, opts.Width)
	}

	if !opts.Palette {
		return p.gifPlain(ctx, src, dst, opts)
	}

	if err := p.gifWithPalette(ctx, src, dst, opts); err == nil {
		return nil
	}

	return p.gifPlain(ctx, src, dst, opts)
}

// gifFilter builds the shared fps/scale filter prefix.
func gifFilter(opts GIFOpts) string {
	h := opts.Height
	if h == 0 {
		h = -1
	}
	filter := fmt.Sprintf("fps=%d,scale=%d:%d", opts.FPS, opts.Width, h)
	if opts.Lanczos {
		filter += ":flags=lanczos"
	}
	return filter
}

// gifPlain converts with a single fps/scale filter pass.
func (p *FFmpegProcessor) gifPlain(ctx context.Context, src, dst string, opts GIFOpts) error {
	args := []string{
		"-y",
		"-i", src,
		"-vf", gifFilter(opts),
		"-loop", "0",
		dst,
	}
	return p.runFFmpeg(ctx, args)
}

// gifWithPalette generates a palette from the source, then maps the source
// through it with bayer dithering. The palette file is removed afterwards.
func (p *FFmpegProcessor) gifWithPalette(ctx context.Context, src, dst string, opts GIFOpts) error {
	palette, err := os.CreateTemp("", "assetforge-palette-*.png")
	if err != nil {
		return fmt.Errorf("create palette file: %w", err)
	}
	palettePath := palette.Name()
	_ = palette.Close()
	defer func() { _ = os.Remove(palettePath) }()

	genArgs := []string{
		"-y",
		"-i", src,
		"-vf", gifFilter(opts) + ",palettegen",
		palettePath,
	}
	if err := p.runFFmpeg(ctx, genArgs); err != nil {
		return err
	}

	useArgs := []string{
		"-y",
		"-i", src,
		"-i", palettePath,
		"-filter_complex", gifFilter(opts) + "[x];[x][1:v]paletteuse=dither=bayer:bayer_scale=3",
		"-loop", "0",
		dst,
	}
	return p.runFFmpeg(ctx, useArgs)
}

// CropScale cuts a window out of the source video and scales it to the
// target dimensions, encoding with libx264/aac.
func (p *FFmpegProcessor) CropScale(ctx context.Context, src, dst string, opts CropOpts) error {
	if opts.CropWidth <= 0 || opts.CropHeight <= 0 {
		return fmt.Errorf("%w: crop=%dx%d", ErrInvalidDimensions, opts.CropWidth, opts.CropHeight)
	}
	if opts.TargetWidth <= 0 || opts.TargetHeight <= 0 {
		return fmt.Errorf("%w: target=%dx%d", ErrInvalidDimensions, opts.TargetWidth, opts.TargetHeight)
	}

	filter := fmt.Sprintf("crop=%d:%d:%d:%d,scale=%d:%d",
		opts.CropWidth, opts.CropHeight, opts.X, opts.Y,
		opts.TargetWidth, opts.TargetHeight,
	)

	args := []string{
		"-y",
		"-i", src,
		"-vf", filter,
		"-c:v", "libx264",
		"-preset", "fast",
		"-crf", "23",
		"-c:a", "aac",
		"-b:a", "128k",
		dst,
	}

	return p.runFFmpeg(ctx, args)
}

// encodeArgs converts EncodeOpts into ffmpeg arguments, omitting unset fields.
func encodeArgs(e EncodeOpts) []string {
	var args []string
	if e.VideoCodec != "" {
		args = append(args, "-c:v", e.VideoCodec)
	}
	if e.Preset != "" {
		args = append(args, "-preset", e.Preset)
	}
	if e.CRF > 0 {
		args = append(args, "-crf", strconv.Itoa(e.CRF))
	}
	if e.AudioCodec != "" {
		args = append(args, "-c:a", e.AudioCodec)
	}
	if e.AudioBitrate != "" {
		args = append(args, "-b:a", e.AudioBitrate)
	}
	return args
}

// formatSeconds renders a float without trailing zeros, so "-t 6" stays "6".
func formatSeconds(s float64) string {
	return strconv.FormatFloat(s, 'f', -1, 64)
}

// createConcatList creates a temporary file containing the list of video files
// in the format required by ffmpeg's concat demuxer.
func createConcatList(videoPaths []string) (string, error) {
	f, err := os.CreateTemp("", "assetforge-concat-*.txt")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = f.Close() }()

	for _, path := range videoPaths {
		// Convert to absolute path for safety
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("get absolute path for %s: %w", path, err)
		}
		// Escape single quotes in path
		escapedPath := strings.ReplaceAll(absPath, "'", "'\\''")
		if _, err := fmt.Fprintf(f, "file '%s'\n", escapedPath); err != nil {
			return "", fmt.Errorf("write to concat list: %w", err)
		}
	}

	return f.Name(), nil
}

// copyFile copies a file from src to dst.
func copyFile(src, dst string) error {
	input, err := os.ReadFile(src) // #nosec G304 - src is provided by trusted internal code
	if err != nil {
		return fmt.Errorf("read source file: %w", err)
	}
	if err := os.WriteFile(dst, input, 0600); err != nil {
		return fmt.Errorf("write destination file: %w", err)
	}
	return nil
}

// runFFmpeg executes ffmpeg with the given arguments and returns an error
// containing stderr output if the command fails.
func (p *FFmpegProcessor) runFFmpeg(ctx context.Context, args []string) error {
	// #nosec G204 - ffmpegPath is set by the application, not user input
	cmd := exec.CommandContext(ctx, p.ffmpegPath, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		// Check if context was cancelled
		if ctx.Err() != nil {
			return fmt.Errorf("ffmpeg cancelled: %w", ctx.Err())
		}
		return &FFmpegError{
			Args:   args,
			Stderr: stderr.String(),
			Err:    err,
		}
	}

	return nil
}

// FFmpegError represents an error from running ffmpeg, including the stderr output.
type FFmpegError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *FFmpegError) Error() string {
	return fmt.Sprintf("ffmpeg error: %v\nargs: %v\nstderr: %s", e.Err, e.Args, e.Stderr)
}

func (e *FFmpegError) Unwrap() error {
	return e.Err
}

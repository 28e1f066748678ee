package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"

	"github.com/kunalaneja/assetforge/internal/media"
)

// SlideshowSpec describes an animated GIF assembled from a sequence of
// images, each normalized to a common size with padding.
type SlideshowSpec struct {
	// Images are the source image paths, in display order.
	Images []string `validate:"min=1,dive,required"`
	// Width and Height are the normalized frame dimensions.
	Width  int `validate:"gt=0"`
	Height int `validate:"gt=0"`
	// FPS is the GIF frame rate.
	FPS int `validate:"gt=0"`
	// SecondsPerImage is how long each image is held in the fallback frame
	// rendering and in HQ segment rendering.
	SecondsPerImage float64 `validate:"gt=0"`
	// PadColor fills the letterbox area around each normalized image.
	PadColor string
	// HQ selects the high-quality route: H.264 segments concatenated and
	// converted with a generated palette.
	HQ bool
	// OutputName is the published artifact name.
	OutputName string `validate:"required"`
}

// DefaultSlideshowSpec returns the standard-quality slideshow settings.
func DefaultSlideshowSpec(images []string) SlideshowSpec {
	return SlideshowSpec{
		Images:          images,
		Width:           800,
		Height:          600,
		FPS:             8,
		SecondsPerImage: 3,
		PadColor:        "white",
		OutputName:      "slideshow.gif",
	}
}

// HQSlideshowSpec returns the high-quality slideshow settings.
func HQSlideshowSpec(images []string) SlideshowSpec {
	return SlideshowSpec{
		Images:          images,
		Width:           1200,
		Height:          900,
		FPS:             12,
		SecondsPerImage: 4,
		PadColor:        "white",
		HQ:              true,
		OutputName:      "slideshow_hq.gif",
	}
}

// Slideshow normalizes the source images and assembles them into a looping
// GIF. The standard route builds the GIF from the images directly and falls
// back to rendering per-image frame sequences when the concat filter graph
// fails. The HQ route renders timed H.264 segments, concatenates them, and
// converts with a generated palette.
func (r *Runner) Slideshow(ctx context.Context, spec SlideshowSpec) (*Result, error) {
	if err := r.validate.Struct(spec); err != nil {
		return nil, fmt.Errorf("invalid slideshow spec: %w", err)
	}
	if err := checkInputs(spec.Images); err != nil {
		return nil, err
	}

	ws, err := NewWorkspace(r.tempRoot)
	if err != nil {
		return nil, err
	}
	defer func() { _ = ws.Close() }()

	r.logger.Info("creating slideshow",
		slog.Int("images", len(spec.Images)),
		slog.Int("width", spec.Width),
		slog.Int("height", spec.Height),
		slog.Bool("hq", spec.HQ),
	)

	normalized, err := r.normalizeImages(ctx, ws, spec)
	if err != nil {
		return nil, err
	}

	gif := ws.Path("slideshow.gif")
	attempt := 1
	if spec.HQ {
		if err := r.slideshowHQ(ctx, ws, spec, normalized, gif); err != nil {
			return nil, err
		}
	} else {
		attempt, err = r.slideshowStandard(ctx, ws, spec, normalized, gif)
		if err != nil {
			return nil, err
		}
	}

	result, err := r.publish(ctx, gif, spec.OutputName, attempt)
	if err != nil {
		return nil, err
	}

	r.logger.Info("slideshow created",
		slog.String("location", result.Location),
		slog.Int64("size_bytes", result.SizeBytes),
	)
	return result, nil
}

// normalizeImages resizes every source image to the spec dimensions with
// padding, writing the results into the workspace.
func (r *Runner) normalizeImages(ctx context.Context, ws *Workspace, spec SlideshowSpec) ([]string, error) {
	normalized := make([]string, 0, len(spec.Images))
	for i, img := range spec.Images {
		dst := ws.Path(fmt.Sprintf("normalized_%02d.png", i))
		r.logger.Debug("normalizing image",
			slog.String("source", img),
			slog.String("dest", dst),
		)
		if err := r.processor.ResizeImageWithPadding(ctx, img, dst, spec.Width, spec.Height, spec.PadColor); err != nil {
			return nil, fmt.Errorf("normalize %s: %w", img, err)
		}
		normalized = append(normalized, dst)
	}
	return normalized, nil
}

// slideshowStandard tries the concat filter graph first and falls back to
// per-image frame sequences. Returns the 1-based attempt that succeeded.
func (r *Runner) slideshowStandard(ctx context.Context, ws *Workspace, spec SlideshowSpec, normalized []string, gif string) (int, error) {
	err := r.processor.ImagesToGIF(ctx, normalized, gif, spec.FPS)
	if err == nil {
		return 1, nil
	}
	r.logger.Warn("concat filter graph failed, rendering individual frames",
		slog.String("error", err.Error()),
	)

	frames, err := r.renderFrameSequences(ctx, ws, spec, normalized)
	if err != nil {
		return 0, err
	}
	if len(frames) == 0 {
		return 0, fmt.Errorf("%w: no frames rendered", ErrFallbacksExhausted)
	}

	listFile, err := ws.WriteFrameList("frames.txt", frames, 1/float64(spec.FPS))
	if err != nil {
		return 0, err
	}

	if err := r.processor.GIFFromFrameList(ctx, listFile, gif); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrFallbacksExhausted, err)
	}
	return 2, nil
}

// renderFrameSequences expands each normalized image into numbered frames.
// An image that fails to render is skipped, matching the tolerant fallback
// behavior of the standard route.
func (r *Runner) renderFrameSequences(ctx context.Context, ws *Workspace, spec SlideshowSpec, normalized []string) ([]string, error) {
	for i, img := range normalized {
		pattern := ws.Path(fmt.Sprintf("frame_%02d_%%03d.png", i))
		if err := r.processor.RenderFrames(ctx, img, pattern, spec.FPS, spec.SecondsPerImage); err != nil {
			r.logger.Warn("frame rendering failed for image, skipping",
				slog.String("image", img),
				slog.String("error", err.Error()),
			)
		}
	}

	frames, err := filepath.Glob(ws.Path("frame_*.png"))
	if err != nil {
		return nil, fmt.Errorf("collect frames: %w", err)
	}
	sort.Strings(frames)
	return frames, nil
}

// slideshowHQ renders each image into a timed H.264 segment, concatenates
// the segments, and converts the combined video with a generated palette.
func (r *Runner) slideshowHQ(ctx context.Context, ws *Workspace, spec SlideshowSpec, normalized []string, gif string) error {
	segments := make([]string, 0, len(normalized))
	for i, img := range normalized {
		segment := ws.Path(fmt.Sprintf("segment_%02d.mp4", i))
		r.logger.Debug("rendering segment",
			slog.String("image", img),
			slog.String("segment", segment),
		)
		opts := media.StillOpts{
			Seconds: spec.SecondsPerImage,
			FPS:     spec.FPS,
			Preset:  "slow",
			CRF:     18,
		}
		if err := r.processor.StillClip(ctx, img, segment, opts); err != nil {
			return fmt.Errorf("render segment for %s: %w", img, err)
		}
		segments = append(segments, segment)
	}

	combined := ws.Path("combined.mp4")
	if err := r.processor.ConcatVideos(ctx, segments, combined); err != nil {
		return fmt.Errorf("concatenate segments: %w", err)
	}

	opts := media.GIFOpts{
		FPS:     spec.FPS,
		Width:   spec.Width,
		Height:  spec.Height,
		Lanczos: true,
		Palette: true,
	}
	if err := r.processor.VideoToGIF(ctx, combined, gif, opts); err != nil {
		return fmt.Errorf("%w: %w", ErrFallbacksExhausted, err)
	}
	return nil
}

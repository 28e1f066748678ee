package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kunalaneja/assetforge/internal/media"
)

// CropSpec describes converting a portrait video to landscape by cutting a
// square window and scaling it to the target dimensions.
type CropSpec struct {
	// Input is the portrait source video.
	Input string `validate:"required"`
	// SourceWidth and SourceHeight are the source dimensions the crop
	// offsets are computed from. Zero means probe the source.
	SourceWidth  int `validate:"gte=0"`
	SourceHeight int `validate:"gte=0"`
	// CropSize is the side length of the square window. Zero means the
	// source width.
	CropSize int `validate:"gte=0"`
	// TargetWidth and TargetHeight are the output dimensions.
	TargetWidth  int `validate:"gt=0"`
	TargetHeight int `validate:"gt=0"`
	// OutputName is the published artifact name.
	OutputName string `validate:"required"`
}

// DefaultCropSpec returns the landscape conversion settings: a square crop
// scaled to 1280x720.
func DefaultCropSpec(input string) CropSpec {
	return CropSpec{
		Input:        input,
		TargetWidth:  1280,
		TargetHeight: 720,
		OutputName:   "video_horizontal.mp4",
	}
}

// Crop converts a portrait video to landscape. It tries a center crop first
// and falls back to a top crop, then a bottom crop, aborting only when all
// three offsets fail.
func (r *Runner) Crop(ctx context.Context, spec CropSpec) (*Result, error) {
	if err := r.validate.Struct(spec); err != nil {
		return nil, fmt.Errorf("invalid crop spec: %w", err)
	}
	if err := checkInputs([]string{spec.Input}); err != nil {
		return nil, err
	}

	srcW, srcH := spec.SourceWidth, spec.SourceHeight
	if srcW == 0 || srcH == 0 {
		var err error
		srcW, srcH, err = r.processor.Dimensions(ctx, spec.Input)
		if err != nil {
			return nil, fmt.Errorf("probe source dimensions: %w", err)
		}
	}

	cropSize := spec.CropSize
	if cropSize == 0 {
		cropSize = srcW
	}
	if cropSize > srcH {
		return nil, fmt.Errorf("crop size %d exceeds source height %d", cropSize, srcH)
	}

	ws, err := NewWorkspace(r.tempRoot)
	if err != nil {
		return nil, err
	}
	defer func() { _ = ws.Close() }()

	r.logger.Info("cropping video to landscape",
		slog.String("input", spec.Input),
		slog.String("source", fmt.Sprintf("%dx%d", srcW, srcH)),
		slog.String("target", fmt.Sprintf("%dx%d", spec.TargetWidth, spec.TargetHeight)),
	)

	// Offsets tried in order: center, top, bottom.
	x := (srcW - cropSize) / 2
	offsets := []struct {
		name string
		y    int
	}{
		{"center", (srcH - cropSize) / 2},
		{"top", 0},
		{"bottom", srcH - cropSize},
	}

	cropped := ws.Path("landscape.mp4")
	attempt := 0
	var lastErr error
	for i, off := range offsets {
		opts := media.CropOpts{
			CropWidth:    cropSize,
			CropHeight:   cropSize,
			X:            x,
			Y:            off.y,
			TargetWidth:  spec.TargetWidth,
			TargetHeight: spec.TargetHeight,
		}
		err := r.processor.CropScale(ctx, spec.Input, cropped, opts)
		if err == nil {
			attempt = i + 1
			break
		}
		lastErr = err
		r.logger.Warn("crop attempt failed",
			slog.String("offset", off.name),
			slog.String("error", err.Error()),
		)
	}
	if attempt == 0 {
		return nil, fmt.Errorf("%w: %w", ErrFallbacksExhausted, lastErr)
	}

	if w, h, err := r.processor.Dimensions(ctx, cropped); err == nil {
		r.logger.Info("output dimensions",
			slog.String("dimensions", fmt.Sprintf("%dx%d", w, h)),
		)
	}

	result, err := r.publish(ctx, cropped, spec.OutputName, attempt)
	if err != nil {
		return nil, err
	}

	r.logger.Info("landscape video created",
		slog.String("location", result.Location),
		slog.Int64("size_bytes", result.SizeBytes),
	)
	return result, nil
}

package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kunalaneja/assetforge/internal/media"
)

// ReelClip is one source video in a reel, optionally trimmed and retimed.
type ReelClip struct {
	// Source is the input video path.
	Source string `validate:"required"`
	// Seconds keeps only the first N seconds. Zero keeps the whole clip.
	Seconds float64 `validate:"gte=0"`
	// Speed is the playback speed multiplier. Zero or one leaves timing alone.
	Speed float64 `validate:"gte=0"`
}

// ReelSpec describes a combined GIF built from processed video clips.
type ReelSpec struct {
	// Clips are the source videos, in playback order.
	Clips []ReelClip `validate:"min=1,dive"`
	// HQ selects high-quality encode and GIF settings.
	HQ bool
	// OutputName is the published artifact name.
	OutputName string `validate:"required"`
}

// reel output and encode settings, standard vs high quality.
func reelEncode(hq bool) media.EncodeOpts {
	if hq {
		return media.EncodeOpts{
			VideoCodec:   "libx264",
			Preset:       "slow",
			CRF:          18,
			AudioCodec:   "aac",
			AudioBitrate: "192k",
		}
	}
	return media.EncodeOpts{
		VideoCodec:   "libx264",
		AudioCodec:   "aac",
		AudioBitrate: "128k",
	}
}

func reelGIF(hq bool) media.GIFOpts {
	if hq {
		return media.GIFOpts{FPS: 15, Width: 800, Lanczos: true}
	}
	return media.GIFOpts{FPS: 8, Width: 640}
}

// Reel trims and retimes each source clip, concatenates the processed clips,
// and converts the combined video into a looping GIF. All intermediates live
// in the run workspace and are removed when the run ends.
func (r *Runner) Reel(ctx context.Context, spec ReelSpec) (*Result, error) {
	if err := r.validate.Struct(spec); err != nil {
		return nil, fmt.Errorf("invalid reel spec: %w", err)
	}

	sources := make([]string, len(spec.Clips))
	for i, c := range spec.Clips {
		sources[i] = c.Source
	}
	if err := checkInputs(sources); err != nil {
		return nil, err
	}

	ws, err := NewWorkspace(r.tempRoot)
	if err != nil {
		return nil, err
	}
	defer func() { _ = ws.Close() }()

	r.logger.Info("creating reel",
		slog.Int("clips", len(spec.Clips)),
		slog.Bool("hq", spec.HQ),
	)

	encode := reelEncode(spec.HQ)
	processed := make([]string, 0, len(spec.Clips))
	for i, clip := range spec.Clips {
		dst := ws.Path(fmt.Sprintf("clip_%02d.mp4", i))
		r.logger.Debug("processing clip",
			slog.String("source", clip.Source),
			slog.Float64("seconds", clip.Seconds),
			slog.Float64("speed", clip.Speed),
		)
		opts := media.ClipOpts{
			Seconds: clip.Seconds,
			Speed:   clip.Speed,
			Encode:  encode,
		}
		if err := r.processor.ExtractClip(ctx, clip.Source, dst, opts); err != nil {
			return nil, fmt.Errorf("process clip %s: %w", clip.Source, err)
		}
		processed = append(processed, dst)
	}

	combined := ws.Path("combined.mp4")
	if err := r.processor.ConcatVideos(ctx, processed, combined); err != nil {
		return nil, fmt.Errorf("concatenate clips: %w", err)
	}

	gif := ws.Path("reel.gif")
	if err := r.processor.VideoToGIF(ctx, combined, gif, reelGIF(spec.HQ)); err != nil {
		return nil, fmt.Errorf("convert to gif: %w", err)
	}

	result, err := r.publish(ctx, gif, spec.OutputName, 1)
	if err != nil {
		return nil, err
	}

	r.logger.Info("reel created",
		slog.String("location", result.Location),
		slog.Int64("size_bytes", result.SizeBytes),
	)
	return result, nil
}

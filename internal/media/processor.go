// Package media provides image and video processing on top of the ffmpeg CLI.
package media

import "context"

// EncodeOpts selects the codec settings for a video-producing invocation.
// Zero-value fields are omitted from the command line so ffmpeg picks its
// own defaults, matching how the standard-quality pipelines behave.
type EncodeOpts struct {
	// VideoCodec is the -c:v value, e.g. "libx264". Empty means unset.
	VideoCodec string
	// Preset is the libx264 -preset value, e.g. "fast" or "slow".
	Preset string
	// CRF is the constant rate factor. Values <= 0 are omitted.
	CRF int
	// AudioCodec is the -c:a value, e.g. "aac". Empty means unset.
	AudioCodec string
	// AudioBitrate is the -b:a value, e.g. "128k". Empty means unset.
	AudioBitrate string
}

// ClipOpts controls trimming and retiming of a source video.
type ClipOpts struct {
	// Seconds keeps only the first N seconds of the source. Zero keeps all.
	Seconds float64
	// Speed is the playback speed multiplier. 1 (or 0) leaves timing alone;
	// 2.5 plays the clip 2.5x faster via setpts.
	Speed float64
	// Encode selects the output codec settings.
	Encode EncodeOpts
}

// StillOpts controls rendering a still image into a timed video segment.
type StillOpts struct {
	// Seconds is how long the segment shows the image.
	Seconds float64
	// FPS is the segment frame rate.
	FPS int
	// Preset is the libx264 encoding preset.
	Preset string
	// CRF is the constant rate factor.
	CRF int
}

// GIFOpts controls video-to-GIF conversion.
type GIFOpts struct {
	// FPS is the GIF frame rate.
	FPS int
	// Width is the target width. Height is derived when Height is zero.
	Width int
	// Height is the target height, or 0 for -1 (keep aspect ratio).
	Height int
	// Lanczos enables the lanczos scaling flag.
	Lanczos bool
	// Palette enables the two-pass palettegen/paletteuse conversion with a
	// fallback to the plain filter when the palette pass fails.
	Palette bool
}

// CropOpts controls a single crop-and-scale invocation.
type CropOpts struct {
	// CropWidth and CropHeight define the window cut from the source.
	CropWidth  int
	CropHeight int
	// X and Y position the window in the source frame.
	X int
	Y int
	// TargetWidth and TargetHeight are the scaled output dimensions.
	TargetWidth  int
	TargetHeight int
}

// Processor defines the media operations the pipelines are built from.
// The production implementation shells out to ffmpeg/ffprobe; tests
// substitute fakes to exercise driver control flow.
type Processor interface {
	// Version runs the tool's version check and returns its banner line.
	// An error means the tool is not installed or not runnable.
	Version(ctx context.Context) (string, error)

	// ResizeImageWithPadding scales an image to fit w x h while keeping its
	// aspect ratio, padding the remainder with padColor.
	ResizeImageWithPadding(ctx context.Context, src, dst string, w, h int, padColor string) error

	// StillClip renders a still image into an H.264 video segment.
	StillClip(ctx context.Context, src, dst string, opts StillOpts) error

	// ExtractClip trims and/or retimes a source video.
	ExtractClip(ctx context.Context, src, dst string, opts ClipOpts) error

	// ConcatVideos concatenates videos with the concat demuxer, trying a
	// stream copy first and re-encoding when the copy fails.
	ConcatVideos(ctx context.Context, paths []string, dst string) error

	// ImagesToGIF builds a looping GIF directly from a list of images using
	// the concat filter graph.
	ImagesToGIF(ctx context.Context, images []string, dst string, fps int) error

	// RenderFrames expands a still image into a numbered frame sequence.
	RenderFrames(ctx context.Context, src, pattern string, fps int, seconds float64) error

	// GIFFromFrameList assembles a looping GIF from a concat-demuxer list
	// file of frames with per-frame durations.
	GIFFromFrameList(ctx context.Context, listFile, dst string) error

	// VideoToGIF converts a video into a looping GIF.
	VideoToGIF(ctx context.Context, src, dst string, opts GIFOpts) error

	// CropScale cuts a window out of the source video and scales it to the
	// target dimensions.
	CropScale(ctx context.Context, src, dst string, opts CropOpts) error

	// Duration returns the duration of a media file in seconds.
	Duration(ctx context.Context, path string) (float64, error)

	// Dimensions returns the pixel dimensions of the first video stream.
	Dimensions(ctx context.Context, path string) (w, h int, err error)
}

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kunalaneja/assetforge/internal/pipeline"
)

func newReelCmd() *cobra.Command {
	var (
		hq     bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "reel CLIP...",
		Short: "Combine video clips into a looping GIF",
		Long: `Trims and retimes each clip, concatenates them, and converts the result
into a looping GIF.

Each CLIP is a video path with optional trailing modifiers:

  video.mp4           use the whole clip
  video.mp4:6s        keep the first 6 seconds
  video.mp4:5x        play 5 times faster
  video.mp4:6s:2.5x   first 6 seconds at 2.5x speed`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clips := make([]pipeline.ReelClip, 0, len(args))
			for _, arg := range args {
				clip, err := parseClipArg(arg)
				if err != nil {
					return err
				}
				clips = append(clips, clip)
			}

			runner, err := setup(cmd.Context())
			if err != nil {
				return err
			}

			name := output
			if name == "" {
				name = "combined.gif"
				if hq {
					name = "combined_hq.gif"
				}
			}

			result, err := runner.Reel(cmd.Context(), pipeline.ReelSpec{
				Clips:      clips,
				HQ:         hq,
				OutputName: name,
			})
			if err != nil {
				return err
			}

			report(cmd, result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&hq, "hq", false, "high-quality encode and GIF settings")
	cmd.Flags().StringVar(&output, "output", "", "artifact name (default combined.gif, or combined_hq.gif with --hq)")

	return cmd
}

// parseClipArg parses "path[:Ns][:Nx]" into a ReelClip. Modifiers are
// consumed from the end so colons inside the path itself are left alone.
func parseClipArg(arg string) (pipeline.ReelClip, error) {
	clip := pipeline.ReelClip{}
	rest := arg

	for {
		idx := strings.LastIndex(rest, ":")
		if idx < 0 {
			break
		}
		token := rest[idx+1:]

		var isModifier bool
		switch {
		case strings.HasSuffix(token, "s"):
			if v, err := strconv.ParseFloat(strings.TrimSuffix(token, "s"), 64); err == nil {
				if v <= 0 {
					return clip, fmt.Errorf("invalid duration modifier %q in %q", token, arg)
				}
				if clip.Seconds > 0 {
					return clip, fmt.Errorf("duplicate duration modifier in %q", arg)
				}
				clip.Seconds = v
				isModifier = true
			}
		case strings.HasSuffix(token, "x"):
			if v, err := strconv.ParseFloat(strings.TrimSuffix(token, "x"), 64); err == nil {
				if v <= 0 {
					return clip, fmt.Errorf("invalid speed modifier %q in %q", token, arg)
				}
				if clip.Speed > 0 {
					return clip, fmt.Errorf("duplicate speed modifier in %q", arg)
				}
				clip.Speed = v
				isModifier = true
			}
		}
		if !isModifier {
			// Not a modifier: the rest is the path.
			break
		}

		rest = rest[:idx]
	}

	clip.Source = rest
	if clip.Source == "" {
		return clip, fmt.Errorf("empty clip path in %q", arg)
	}
	return clip, nil
}

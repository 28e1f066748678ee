package main

import (
	"github.com/spf13/cobra"

	"github.com/kunalaneja/assetforge/internal/pipeline"
)

func newSlideshowCmd() *cobra.Command {
	var (
		hq       bool
		width    int
		height   int
		fps      int
		seconds  float64
		padColor string
		output   string
	)

	cmd := &cobra.Command{
		Use:   "slideshow IMAGE...",
		Short: "Build an animated GIF slideshow from images",
		Long:  "Normalizes the given images to a common size with padding and assembles them into a looping GIF, in the order given.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := setup(cmd.Context())
			if err != nil {
				return err
			}

			spec := pipeline.DefaultSlideshowSpec(args)
			if hq {
				spec = pipeline.HQSlideshowSpec(args)
			}
			if cmd.Flags().Changed("width") {
				spec.Width = width
			}
			if cmd.Flags().Changed("height") {
				spec.Height = height
			}
			if cmd.Flags().Changed("fps") {
				spec.FPS = fps
			}
			if cmd.Flags().Changed("seconds") {
				spec.SecondsPerImage = seconds
			}
			if cmd.Flags().Changed("pad-color") {
				spec.PadColor = padColor
			}
			if cmd.Flags().Changed("output") {
				spec.OutputName = output
			}

			result, err := runner.Slideshow(cmd.Context(), spec)
			if err != nil {
				return err
			}

			report(cmd, result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&hq, "hq", false, "high-quality mode: H.264 segments and palette-based GIF")
	cmd.Flags().IntVar(&width, "width", 800, "normalized frame width")
	cmd.Flags().IntVar(&height, "height", 600, "normalized frame height")
	cmd.Flags().IntVar(&fps, "fps", 8, "GIF frame rate")
	cmd.Flags().Float64Var(&seconds, "seconds", 3, "seconds each image is shown")
	cmd.Flags().StringVar(&padColor, "pad-color", "white", "padding color around normalized images")
	cmd.Flags().StringVar(&output, "output", "", "artifact name (default slideshow.gif, or slideshow_hq.gif with --hq)")

	return cmd
}

package main

import (
	"github.com/spf13/cobra"

	"github.com/kunalaneja/assetforge/internal/pipeline"
)

func newCropCmd() *cobra.Command {
	var (
		targetWidth  int
		targetHeight int
		cropSize     int
		sourceWidth  int
		sourceHeight int
		output       string
	)

	cmd := &cobra.Command{
		Use:   "crop VIDEO",
		Short: "Convert a portrait video to landscape",
		Long: `Cuts a square window from a portrait video and scales it to landscape
dimensions. The center of the frame is tried first, then the top, then the
bottom. Source dimensions are probed unless given explicitly.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := setup(cmd.Context())
			if err != nil {
				return err
			}

			spec := pipeline.DefaultCropSpec(args[0])
			if cmd.Flags().Changed("width") {
				spec.TargetWidth = targetWidth
			}
			if cmd.Flags().Changed("height") {
				spec.TargetHeight = targetHeight
			}
			if cmd.Flags().Changed("crop-size") {
				spec.CropSize = cropSize
			}
			if cmd.Flags().Changed("source-width") {
				spec.SourceWidth = sourceWidth
			}
			if cmd.Flags().Changed("source-height") {
				spec.SourceHeight = sourceHeight
			}
			if cmd.Flags().Changed("output") {
				spec.OutputName = output
			}

			result, err := runner.Crop(cmd.Context(), spec)
			if err != nil {
				return err
			}

			report(cmd, result)
			return nil
		},
	}

	cmd.Flags().IntVar(&targetWidth, "width", 1280, "output width")
	cmd.Flags().IntVar(&targetHeight, "height", 720, "output height")
	cmd.Flags().IntVar(&cropSize, "crop-size", 0, "square crop side length (default: source width)")
	cmd.Flags().IntVar(&sourceWidth, "source-width", 0, "source width (default: probed)")
	cmd.Flags().IntVar(&sourceHeight, "source-height", 0, "source height (default: probed)")
	cmd.Flags().StringVar(&output, "output", "", "artifact name (default video_horizontal.mp4)")

	return cmd
}

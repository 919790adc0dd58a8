package cmd

import (
	"errors"
	"fmt"

	"github.com/google/renameio"
	"github.com/spf13/cobra"

	"github.com/kozaktomas/cardsheet/internal/constants"
	"github.com/kozaktomas/cardsheet/internal/render"
)

var previewCmd = &cobra.Command{
	Use:   "preview <image> <output.png>",
	Short: "Render the crop preview of one image",
	Long: `Render how an image will be cropped, fitted into a small thumbnail.

The crop uses exactly the same margin as the export. Without --crop or
--no-crop the file-name classifier decides.

Example:
  cardsheet preview "dragon (crop).png" dragon-preview.png
  cardsheet preview --no-crop dragon.png dragon-preview.png`,
	Args: cobra.ExactArgs(2),
	RunE: runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)
	previewCmd.Flags().Bool("crop", false, "Apply the crop margin")
	previewCmd.Flags().Bool("no-crop", false, "Show the full image")
	previewCmd.Flags().Int("max-width", constants.PreviewMaxWidth, "Maximum preview width in pixels")
	previewCmd.Flags().Int("max-height", constants.PreviewMaxHeight, "Maximum preview height in pixels")
	addLayoutFlags(previewCmd)
}

func runPreview(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	input, output := args[0], args[1]

	cropAll := mustGetBool(cmd, "crop")
	cropNone := mustGetBool(cmd, "no-crop")
	if cropAll && cropNone {
		return errors.New("--crop and --no-crop are mutually exclusive")
	}
	cropped := cropAll
	if !cropAll && !cropNone {
		classifier, err := cfg.Crop.Classifier()
		if err != nil {
			return err
		}
		cropped = classifier.Classify(input)
	}

	maxW := mustGetInt(cmd, "max-width")
	maxH := mustGetInt(cmd, "max-height")
	if maxW <= 0 || maxH <= 0 {
		return fmt.Errorf("preview size must be positive, got %dx%d", maxW, maxH)
	}

	img, err := render.FileLoader{}.Load(input)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", input, err)
	}

	g := cfg.Layout.Geometry()
	thumb := render.Preview(img, cropped, g.CropMargin, maxW, maxH)
	data, err := render.EncodePNG(thumb)
	if err != nil {
		return fmt.Errorf("failed to encode preview: %w", err)
	}
	if err := renameio.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("failed to write preview: %w", err)
	}

	b := thumb.Bounds()
	fmt.Printf("Wrote %dx%d preview (cropped: %v) to %s\n", b.Dx(), b.Dy(), cropped, output)
	return nil
}

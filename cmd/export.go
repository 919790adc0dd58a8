package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/kozaktomas/cardsheet/internal/catalog"
	"github.com/kozaktomas/cardsheet/internal/config"
	"github.com/kozaktomas/cardsheet/internal/export"
	"github.com/kozaktomas/cardsheet/internal/render"
)

var exportCmd = &cobra.Command{
	Use:   "export <output.pdf> [image-or-folder...]",
	Short: "Export images to a printable PDF",
	Long: `Export images onto 3x3 card sheets in a single PDF.

Images are taken from the given files and folders (folders are listed
non-recursively, sorted by name) or from a YAML selection manifest. Only
selected entries are printed, in order. Cropping defaults to the file-name
classifier ("Dragon (crop).png") unless --crop or --no-crop is given.

Images that cannot be read are skipped and their slot is left empty.
The PDF is written to a temporary file and moved into place only when
complete. ".pdf" is appended to the output name when missing.

Example:
  cardsheet export deck.pdf ./images
  cardsheet export deck.pdf dragon.png "goblin (crop).png"
  cardsheet export --manifest selection.yaml deck.pdf
  cardsheet export --corner-mark-mm 7 --page-size a4 deck.pdf ./images`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().String("manifest", "", "YAML selection manifest to export instead of file arguments")
	exportCmd.Flags().Bool("crop", false, "Crop every image")
	exportCmd.Flags().Bool("no-crop", false, "Crop no image")
	exportCmd.Flags().Bool("report", false, "Print the export result as JSON")
	addLayoutFlags(exportCmd)
}

// collectEntries resolves the export selection from a manifest or arguments.
func collectEntries(cmd *cobra.Command, cfg *config.Config, paths []string) ([]catalog.Entry, error) {
	manifest := mustGetString(cmd, "manifest")
	if manifest != "" {
		if len(paths) > 0 {
			return nil, errors.New("use either --manifest or image arguments, not both")
		}
		return catalog.LoadManifest(manifest)
	}
	if len(paths) == 0 {
		return nil, errors.New("no images given")
	}

	classifier, err := cfg.Crop.Classifier()
	if err != nil {
		return nil, err
	}
	return catalog.EntriesFromPaths(paths, classifier)
}

// applyCropOverride forces the crop flag of every entry when requested.
func applyCropOverride(cmd *cobra.Command, entries []catalog.Entry) error {
	cropAll := mustGetBool(cmd, "crop")
	cropNone := mustGetBool(cmd, "no-crop")
	if cropAll && cropNone {
		return errors.New("--crop and --no-crop are mutually exclusive")
	}
	if !cropAll && !cropNone {
		return nil
	}
	for i := range entries {
		entries[i].Cropped = cropAll
	}
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	destination := export.NormalizeDestination(args[0])
	entries, err := collectEntries(cmd, cfg, args[1:])
	if err != nil {
		return err
	}
	if err := applyCropOverride(cmd, entries); err != nil {
		return err
	}

	selected := catalog.Selected(entries)
	if len(selected) == 0 {
		fmt.Println("No images selected, nothing to export.")
		return nil
	}
	fmt.Printf("Exporting %d image(s) to %s\n\n", len(selected), destination)

	bar := progressbar.NewOptions(len(selected),
		progressbar.OptionSetDescription("Exporting"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("images"),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)

	writer, err := export.NewWriter(export.Options{
		Layout: cfg.Layout.Config,
		PDF: render.PDFOptions{
			Title:       destination,
			Creator:     cfg.Export.Creator,
			JPEGQuality: cfg.Export.JPEGQuality,
		},
		OnProgress: func(export.Progress) { bar.Add(1) },
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := writer.Export(ctx, destination, selected)
	fmt.Println()
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	if mustGetBool(cmd, "report") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	printExportSummary(result)
	return nil
}

func printExportSummary(result *export.Result) {
	for _, s := range result.Skipped {
		fmt.Printf("Skipped: %s (page %d, slot %d): %s\n", s.Path, s.Page+1, s.Slot+1, s.Reason)
	}
	for _, p := range result.Placed {
		if p.LowRes {
			fmt.Printf("Warning: %s (page %d, slot %d): effective DPI %.0f is below %.0f\n",
				p.Path, p.Page+1, p.Slot+1, p.EffectiveDPI, export.LowResDPIThreshold)
		}
	}
	fmt.Printf("\nWrote %d page(s) with %d image(s) to %s\n", result.PageCount, len(result.Placed), result.Destination)
}

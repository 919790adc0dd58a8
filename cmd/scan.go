package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/cardsheet/internal/catalog"
	"github.com/kozaktomas/cardsheet/internal/export"
	"github.com/kozaktomas/cardsheet/internal/layout"
	"github.com/kozaktomas/cardsheet/internal/render"
)

var scanCmd = &cobra.Command{
	Use:   "scan <folder>",
	Short: "List the images of a folder and their default crop flags",
	Long: `List the supported images of a folder in export order.

Each image is shown with its title, pixel size, default crop flag and the
effective print resolution at card size. With --manifest the listing is
saved as a selection manifest that can be edited and passed to
"cardsheet export --manifest".

Example:
  cardsheet scan ./images
  cardsheet scan ./images --manifest selection.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().String("manifest", "", "Write the listing as a YAML selection manifest")
	scanCmd.Flags().Bool("duplicates", false, "Report images that look like the same artwork")
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	classifier, err := cfg.Crop.Classifier()
	if err != nil {
		return err
	}

	entries, err := catalog.ScanDir(args[0], classifier)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No images found.")
		return nil
	}

	g := cfg.Layout.Geometry()
	fmt.Printf("Found %d image(s):\n\n", len(entries))
	for i, e := range entries {
		pos := fmt.Sprintf("p%d s%d", i/9+1, i%9+1)
		w, h, err := render.Inspect(e.Path)
		if err != nil {
			fmt.Printf("  %-8s %-40s unreadable: %v\n", pos, e.Title, err)
			continue
		}
		if e.Cropped {
			r := layout.CropRect(w, h, g.CropMargin)
			w, h = r.W, r.H
		}
		dpi := export.EffectiveDPI(w, h, g)
		warn := ""
		if dpi < export.LowResDPIThreshold {
			warn = " LOW-RES"
		}
		fmt.Printf("  %-8s %-40s %5dx%-5d crop=%-5v %4.0f dpi%s\n", pos, e.Title, w, h, e.Cropped, dpi, warn)
	}

	if mustGetBool(cmd, "duplicates") {
		printDuplicates(entries)
	}

	if manifest := mustGetString(cmd, "manifest"); manifest != "" {
		if err := catalog.SaveManifest(manifest, entries); err != nil {
			return err
		}
		fmt.Printf("\nManifest written to %s\n", manifest)
	}
	return nil
}

// printDuplicates reports near-identical images by difference hash.
func printDuplicates(entries []catalog.Entry) {
	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.Path
	}

	pairs := render.FindDuplicates(render.HashFiles(render.FileLoader{}, paths), render.DuplicateThreshold)
	if len(pairs) == 0 {
		fmt.Println("\nNo duplicates found.")
		return
	}
	fmt.Printf("\nPossible duplicates:\n")
	for _, p := range pairs {
		fmt.Printf("  %s ~ %s (distance %d)\n", filepath.Base(p.First), filepath.Base(p.Second), p.Distance)
	}
}

package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/kozaktomas/cardsheet/internal/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "cardsheet",
	Short: "Lay out card images on printable 3x3 sheets",
	Long: `Cardsheet places card images (63x88mm) into a 3x3 grid on Letter pages
at 300dpi and adds cut lines and corner marks for trimming by hand.

Images flagged for cropping lose a 3.175mm bleed on every edge before they
are stretched to the exact card size.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML file overriding the built-in layout defaults")
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}

// addLayoutFlags registers the flags that override layout settings for one run.
func addLayoutFlags(cmd *cobra.Command) {
	cmd.Flags().String("page-size", "", "Paper size: letter, legal or a4")
	cmd.Flags().Float64("corner-mark-mm", 0, "Arm length of the corner marks in mm")
	cmd.Flags().Float64("crop-mm", 0, "Margin trimmed from each edge of cropped images in mm")
}

// loadConfig loads the configuration and applies layout flags that were set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Lookup("page-size") == nil {
		return cfg, nil
	}
	if flags.Changed("page-size") {
		cfg.Layout.PageSize = mustGetString(cmd, "page-size")
	}
	if flags.Changed("corner-mark-mm") {
		cfg.Layout.CornerMarkMM = mustGetFloat64(cmd, "corner-mark-mm")
	}
	if flags.Changed("crop-mm") {
		cfg.Layout.CropMarginMM = mustGetFloat64(cmd, "crop-mm")
	}
	if err := cfg.Resolve(); err != nil {
		return nil, err
	}
	return cfg, nil
}

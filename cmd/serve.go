package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/cardsheet/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Long: `Start the cardsheet HTTP API.

The API scans folders, renders crop previews and runs exports as
background jobs with progress streamed over server-sent events.
It listens on 127.0.0.1 by default. Binding to any other address requires
--output-dir and --image-dir, which confine where the API writes and reads.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 0, "Port to listen on (default from config, 8080)")
	serveCmd.Flags().String("host", "", "Host to bind to (default from config, 127.0.0.1)")
	serveCmd.Flags().String("output-dir", "", "Directory export destinations are confined to")
	serveCmd.Flags().String("image-dir", "", "Directory scanned folders and images are confined to")
	addLayoutFlags(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("port") {
		cfg.Web.Port = mustGetInt(cmd, "port")
	}
	if cmd.Flags().Changed("host") {
		cfg.Web.Host = mustGetString(cmd, "host")
	}
	if cmd.Flags().Changed("output-dir") {
		cfg.Web.OutputDir = mustGetString(cmd, "output-dir")
	}
	if cmd.Flags().Changed("image-dir") {
		cfg.Web.ImageDir = mustGetString(cmd, "image-dir")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Web.OutputDir != "" {
		if err := os.MkdirAll(cfg.Web.OutputDir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	server, err := web.NewServer(cfg, nil)
	if err != nil {
		return err
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("Error during shutdown: %v\n", err)
		}
	}()

	fmt.Printf("Starting cardsheet API on http://%s:%d\n", cfg.Web.Host, cfg.Web.Port)
	if cfg.Web.OutputDir != "" {
		fmt.Printf("Exports are written inside %s\n", cfg.Web.OutputDir)
	}
	if cfg.Web.ImageDir != "" {
		fmt.Printf("Images are read from inside %s\n", cfg.Web.ImageDir)
	}
	fmt.Println("Press Ctrl+C to stop")

	if err := server.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}

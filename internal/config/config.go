package config

import (
	_ "embed"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kozaktomas/cardsheet/internal/catalog"
	"github.com/kozaktomas/cardsheet/internal/layout"
)

//go:embed layout.yaml
var defaultsYAML []byte

// ErrInvalidConfig is returned when the effective configuration cannot be used.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the effective configuration shared by every command.
type Config struct {
	Layout LayoutConfig `yaml:"layout"`
	Export ExportConfig `yaml:"export"`
	Crop   CropConfig   `yaml:"crop"`
	Web    WebConfig    `yaml:"web"`
}

// LayoutConfig is the physical sheet layout. PageSize, when set, takes
// precedence over the explicit page dimensions.
type LayoutConfig struct {
	PageSize      string `yaml:"page_size"`
	layout.Config `yaml:",inline"`
}

// ExportConfig controls the PDF document written by an export.
type ExportConfig struct {
	JPEGQuality int    `yaml:"jpeg_quality"` // 1-100
	Creator     string `yaml:"creator"`      // PDF creator metadata
}

// CropConfig holds the file-name patterns that flag images as carrying
// a bleed margin.
type CropConfig struct {
	Patterns []string `yaml:"patterns"` // regexps proposing the default crop flag from file names
}

// WebConfig configures the HTTP API. The API has no authentication, so a
// host reachable from other machines needs both OutputDir and ImageDir.
type WebConfig struct {
	Host           string   `yaml:"host"`
	Port           int      `yaml:"port"`
	OutputDir      string   `yaml:"output_dir"`      // confines API export destinations when set
	ImageDir       string   `yaml:"image_dir"`       // confines scanned folders and read images when set
	AllowedOrigins []string `yaml:"allowed_origins"` // CORS origins besides localhost
}

// Loopback reports whether Host only accepts connections from this machine.
// An empty host listens on every interface.
func (w WebConfig) Loopback() bool {
	if strings.EqualFold(w.Host, "localhost") {
		return true
	}
	ip := net.ParseIP(w.Host)
	return ip != nil && ip.IsLoopback()
}

// CheckExposure rejects serving on a network-reachable host unless every
// path the API touches is confined to a directory.
func (w WebConfig) CheckExposure() error {
	if w.Loopback() {
		return nil
	}
	if w.OutputDir == "" || w.ImageDir == "" {
		return fmt.Errorf("%w: web host %q is reachable from the network; set output_dir and image_dir",
			ErrInvalidConfig, w.Host)
	}
	return nil
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envFloat reads an environment variable and parses it as a non-negative number.
// Returns the default value if the env var is unset, empty, or invalid.
func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f >= 0 {
		return f
	}
	return defaultVal
}

// envString returns the environment variable or the default when unset.
func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

// envList reads a comma-separated environment variable. Empty items are
// dropped; the default is returned when nothing remains.
func envList(key string, defaultVal []string) []string {
	var items []string
	for item := range strings.SplitSeq(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultVal
	}
	return items
}

// Defaults returns the embedded configuration without file or env overrides.
func Defaults() *Config {
	var cfg Config
	if err := yaml.Unmarshal(defaultsYAML, &cfg); err != nil {
		// This is an embedded file so this error should never happen in practice
		panic("failed to unmarshal embedded layout.yaml: " + err.Error())
	}
	return &cfg
}

// Load builds the effective configuration: embedded defaults, then the
// optional YAML file at path, then environment variables.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path) //nolint:gosec // user-selected config file
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Resolve(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	l := &c.Layout
	l.DPI = envInt("CARDSHEET_DPI", l.DPI)
	l.PageSize = envString("CARDSHEET_PAGE_SIZE", l.PageSize)
	l.CropMarginMM = envFloat("CARDSHEET_CROP_MM", l.CropMarginMM)
	l.CutLineMM = envFloat("CARDSHEET_CUTLINE_MM", l.CutLineMM)
	l.CornerMarkMM = envFloat("CARDSHEET_CORNER_MARK_MM", l.CornerMarkMM)

	c.Export.JPEGQuality = envInt("CARDSHEET_JPEG_QUALITY", c.Export.JPEGQuality)

	c.Crop.Patterns = envList("CARDSHEET_CROP_PATTERNS", c.Crop.Patterns)

	c.Web.Host = envString("WEB_HOST", c.Web.Host)
	c.Web.Port = envInt("WEB_PORT", c.Web.Port)
	c.Web.OutputDir = envString("CARDSHEET_OUTPUT_DIR", c.Web.OutputDir)
	c.Web.ImageDir = envString("CARDSHEET_IMAGE_DIR", c.Web.ImageDir)
	c.Web.AllowedOrigins = envList("WEB_ALLOWED_ORIGINS", c.Web.AllowedOrigins)
}

// Resolve applies the named page size and validates the result. Call it
// again after changing fields (e.g. from command flags).
func (c *Config) Resolve() error {
	if c.Layout.PageSize != "" {
		w, h, err := layout.PageSizeMM(c.Layout.PageSize)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		c.Layout.PageWidthMM, c.Layout.PageHeightMM = w, h
	}
	return c.Validate()
}

// Validate checks the configuration for values no export could use.
func (c *Config) Validate() error {
	if err := c.Layout.Geometry().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Export.JPEGQuality < 1 || c.Export.JPEGQuality > 100 {
		return fmt.Errorf("%w: jpeg_quality %d outside 1-100", ErrInvalidConfig, c.Export.JPEGQuality)
	}
	if c.Web.Port < 1 || c.Web.Port > 65535 {
		return fmt.Errorf("%w: web port %d", ErrInvalidConfig, c.Web.Port)
	}
	if _, err := c.Crop.Classifier(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Classifier compiles the crop patterns.
func (c CropConfig) Classifier() (*catalog.CropClassifier, error) {
	return catalog.NewCropClassifier(c.Patterns)
}

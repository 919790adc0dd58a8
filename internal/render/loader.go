package render

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrEmptyImage is returned for images without any pixels.
var ErrEmptyImage = errors.New("image has no pixels")

// Loader decodes the raster data of an image.
type Loader interface {
	Load(path string) (image.Image, error)
}

// FileLoader decodes images from the local file system. EXIF orientation is
// applied on load, before any crop, so phone photos print upright.
type FileLoader struct{}

// Load decodes the image at path.
func (FileLoader) Load(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", filepath.Base(path), err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrEmptyImage)
	}
	return img, nil
}

// Inspect returns the pixel dimensions of an image without decoding it fully.
func Inspect(path string) (width, height int, err error) {
	f, err := os.Open(path) //nolint:gosec // caller-selected image path
	if err != nil {
		return 0, 0, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to decode image config: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}

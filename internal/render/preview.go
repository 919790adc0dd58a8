package render

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
)

// Preview renders the printed region of src scaled down to fit a
// maxW x maxH box. Aspect ratio is kept; smaller images are not enlarged.
func Preview(src image.Image, cropped bool, margin, maxW, maxH int) *image.NRGBA {
	return imaging.Fit(Region(src, cropped, margin), maxW, maxH, imaging.Lanczos)
}

// EncodePNG encodes img as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode preview: %w", err)
	}
	return buf.Bytes(), nil
}

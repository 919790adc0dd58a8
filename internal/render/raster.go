// Package render turns source images into print-ready rasters and writes
// layout primitives to output documents.
package render

import (
	"image"

	"golang.org/x/image/draw"

	"github.com/kozaktomas/cardsheet/internal/layout"
)

// Crop copies region r (relative to the source's top-left corner) into a new
// image of exactly r.W x r.H pixels. Parts of r outside the source stay
// transparent.
func Crop(src image.Image, r layout.Rect) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, r.W, r.H))
	origin := src.Bounds().Min.Add(image.Pt(r.X, r.Y))
	draw.Draw(dst, dst.Bounds(), src, origin, draw.Src)
	return dst
}

// Scale resizes src to exactly w x h pixels, ignoring its aspect ratio.
// Transparent areas are composited onto white paper.
func Scale(src image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}

// Region returns the part of src that is printed: the crop rectangle when
// cropped is set, the full image otherwise.
func Region(src image.Image, cropped bool, margin int) image.Image {
	if !cropped {
		return src
	}
	b := src.Bounds()
	return Crop(src, layout.CropRect(b.Dx(), b.Dy(), margin))
}

// Card prepares one source image for a grid slot of w x h pixels.
func Card(src image.Image, cropped bool, margin, w, h int) *image.RGBA {
	return Scale(Region(src, cropped, margin), w, h)
}

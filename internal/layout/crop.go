package layout

import "image"

// Rect is an integer pixel rectangle.
type Rect struct {
	X, Y, W, H int
}

// Image returns the rectangle as an image.Rectangle.
func (r Rect) Image() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H)
}

// CropRect returns the region left after trimming margin pixels from every
// edge of a w x h image. Width and height never drop below 1px, so tiny
// sources still yield a drawable region.
//
// Export and preview rendering both call this; they must not diverge.
func CropRect(w, h, margin int) Rect {
	return Rect{
		X: margin,
		Y: margin,
		W: max(1, w-2*margin),
		H: max(1, h-2*margin),
	}
}

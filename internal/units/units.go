// Package units converts physical measurements to device pixels.
//
// All layout geometry is computed in integer pixels at a fixed resolution;
// millimeter values never reach the drawing code.
package units

import "math"

// MMPerInch is the number of millimeters in one inch.
const MMPerInch = 25.4

// PointsPerInch is the PDF user-space unit density.
const PointsPerInch = 72.0

// floorEpsilon absorbs float error in products that are integral on paper
// (215.9mm at 300dpi is exactly 2550px).
const floorEpsilon = 1e-9

// Pixels returns floor(dpi * mm / 25.4).
func Pixels(dpi int, mm float64) int {
	return int(math.Floor(float64(dpi)*mm/MMPerInch + floorEpsilon))
}

// Converter converts between millimeters, pixels and PDF points at a fixed resolution.
type Converter struct {
	DPI int
}

// Pixels converts millimeters to whole device pixels.
func (c Converter) Pixels(mm float64) int {
	return Pixels(c.DPI, mm)
}

// Points converts device pixels to PDF points.
func (c Converter) Points(px int) float64 {
	return float64(px) * PointsPerInch / float64(c.DPI)
}

// MM converts device pixels back to millimeters.
func (c Converter) MM(px int) float64 {
	return float64(px) * MMPerInch / float64(c.DPI)
}

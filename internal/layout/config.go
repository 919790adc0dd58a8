// Package layout computes print geometry for 3x3 card sheets: grid slots,
// crop regions and registration marks. Everything here is pure integer
// arithmetic on device pixels; rendering backends consume the results.
package layout

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kozaktomas/cardsheet/internal/units"
)

// Grid dimensions are fixed.
const (
	Columns      = 3
	Rows         = 3
	SlotsPerPage = Columns * Rows
)

// ErrGridTooLarge is returned when the card grid does not fit on the page.
var ErrGridTooLarge = errors.New("card grid does not fit on page")

// ErrThinCutLine is returned when cut lines would be drawn narrower than
// MinCutLineWidthPx.
var ErrThinCutLine = errors.New("cut line too thin")

// MinCutLineWidthPx is the narrowest cut line stroke that stays visible
// after trimming.
const MinCutLineWidthPx = 4

// ErrUnknownPageSize is returned for page size names PageSizeMM does not know.
var ErrUnknownPageSize = errors.New("unknown page size")

// Config holds the physical layout settings in millimeters.
type Config struct {
	DPI               int     `yaml:"dpi" json:"dpi"`
	PageWidthMM       float64 `yaml:"page_width_mm" json:"page_width_mm"`
	PageHeightMM      float64 `yaml:"page_height_mm" json:"page_height_mm"`
	CardWidthMM       float64 `yaml:"card_width_mm" json:"card_width_mm"`
	CardHeightMM      float64 `yaml:"card_height_mm" json:"card_height_mm"`
	CropMarginMM      float64 `yaml:"crop_margin_mm" json:"crop_margin_mm"`
	CutLineMM         float64 `yaml:"cut_line_mm" json:"cut_line_mm"`
	CornerMarkMM      float64 `yaml:"corner_mark_mm" json:"corner_mark_mm"`
	CutLineWidthPx    int     `yaml:"cut_line_width_px" json:"cut_line_width_px"`
	CornerMarkWidthPx int     `yaml:"corner_mark_width_px" json:"corner_mark_width_px"`
}

// DefaultConfig returns the print-ready layout: 300dpi Letter, 63x88mm cards.
func DefaultConfig() Config {
	return Config{
		DPI:               300,
		PageWidthMM:       215.9,
		PageHeightMM:      279.4,
		CardWidthMM:       63,
		CardHeightMM:      88,
		CropMarginMM:      3.175,
		CutLineMM:         16,
		CornerMarkMM:      1,
		CutLineWidthPx:    4,
		CornerMarkWidthPx: 4,
	}
}

// pageSizes maps paper names to portrait width and height in mm.
var pageSizes = map[string][2]float64{
	"letter": {215.9, 279.4},
	"legal":  {215.9, 355.6},
	"a4":     {210, 297},
}

// PageSizeMM returns the portrait dimensions of a named paper size.
func PageSizeMM(name string) (width, height float64, err error) {
	size, ok := pageSizes[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", ErrUnknownPageSize, name)
	}
	return size[0], size[1], nil
}

// Color is an 8-bit RGB stroke color.
type Color struct {
	R, G, B uint8
}

// Stroke colors for the two mark types.
var (
	CutLineColor    = Color{0, 0, 0}
	CornerMarkColor = Color{255, 0, 255}
)

// Stroke describes how a line is drawn.
type Stroke struct {
	Color   Color
	WidthPx int
}

// Geometry is a Config converted to device pixels. It is computed once per
// export and shared by every page.
type Geometry struct {
	DPI          int
	PageW, PageH int
	CardW, CardH int
	CropMargin   int
	CutLine      int
	CornerMark   int
	OffsetX      int
	OffsetY      int
	CutStroke    Stroke
	CornerStroke Stroke
}

// Geometry converts all physical measurements to pixels.
func (c Config) Geometry() Geometry {
	conv := units.Converter{DPI: c.DPI}
	g := Geometry{
		DPI:          c.DPI,
		PageW:        conv.Pixels(c.PageWidthMM),
		PageH:        conv.Pixels(c.PageHeightMM),
		CardW:        conv.Pixels(c.CardWidthMM),
		CardH:        conv.Pixels(c.CardHeightMM),
		CropMargin:   conv.Pixels(c.CropMarginMM),
		CutLine:      conv.Pixels(c.CutLineMM),
		CornerMark:   conv.Pixels(c.CornerMarkMM),
		CutStroke:    Stroke{Color: CutLineColor, WidthPx: c.CutLineWidthPx},
		CornerStroke: Stroke{Color: CornerMarkColor, WidthPx: c.CornerMarkWidthPx},
	}
	g.OffsetX, g.OffsetY = g.Offsets()
	return g
}

// GridWidth returns the width of the 3 card columns.
func (g Geometry) GridWidth() int {
	return Columns * g.CardW
}

// GridHeight returns the height of the 3 card rows.
func (g Geometry) GridHeight() int {
	return Rows * g.CardH
}

// Offsets centers the grid on the page. Integer division keeps a 1px bias
// toward the top-left when the leftover is odd.
func (g Geometry) Offsets() (x, y int) {
	return (g.PageW - g.GridWidth()) / 2, (g.PageH - g.GridHeight()) / 2
}

// Validate checks that the grid fits on the page and all sizes are usable.
func (g Geometry) Validate() error {
	if g.DPI <= 0 {
		return fmt.Errorf("dpi must be positive, got %d", g.DPI)
	}
	if g.CardW <= 0 || g.CardH <= 0 {
		return fmt.Errorf("card size %dx%dpx must be positive", g.CardW, g.CardH)
	}
	if g.GridWidth() > g.PageW || g.GridHeight() > g.PageH {
		return fmt.Errorf("%w: grid %dx%dpx, page %dx%dpx", ErrGridTooLarge,
			g.GridWidth(), g.GridHeight(), g.PageW, g.PageH)
	}
	if g.CropMargin < 0 || g.CutLine < 0 || g.CornerMark < 0 {
		return errors.New("margins and mark lengths must not be negative")
	}
	if g.CutStroke.WidthPx < MinCutLineWidthPx {
		return fmt.Errorf("%w: %dpx, need at least %dpx", ErrThinCutLine, g.CutStroke.WidthPx, MinCutLineWidthPx)
	}
	if g.CornerStroke.WidthPx <= 0 {
		return fmt.Errorf("corner mark width must be positive, got %dpx", g.CornerStroke.WidthPx)
	}
	return nil
}

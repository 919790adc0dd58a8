// Package export writes selected images onto 3x3 card sheets.
//
// An export moves through Idle -> Exporting -> Finalized, or straight from
// Idle to Aborted when nothing is selected. Images that cannot be decoded
// are skipped; failures writing the destination abort the whole export and
// never leave a partial file behind.
package export

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"math"
	"path/filepath"
	"strings"

	"github.com/google/renameio"

	"github.com/kozaktomas/cardsheet/internal/catalog"
	"github.com/kozaktomas/cardsheet/internal/layout"
	"github.com/kozaktomas/cardsheet/internal/render"
)

// ErrOutputWrite is returned when the destination cannot be opened, written or finalized.
var ErrOutputWrite = errors.New("cannot write output")

// LowResDPIThreshold is the effective resolution below which a placed card
// is reported as low resolution.
const LowResDPIThreshold = 200.0

// State is the lifecycle state of an export.
type State string

// Export states.
const (
	StateIdle      State = "idle"
	StateExporting State = "exporting"
	StateFinalized State = "finalized"
	StateAborted   State = "aborted"
)

// Loader decodes the raster data of an image.
type Loader = render.Loader

// Backend receives pages, images and lines in pixel coordinates.
type Backend interface {
	AddPage()
	DrawImage(img image.Image, at layout.Rect) error
	DrawLines(lines []layout.Line)
	Output(w io.Writer) error
}

// BackendFactory creates the backend for one export.
type BackendFactory func(g layout.Geometry) Backend

// PlacedImage reports where an image ended up.
type PlacedImage struct {
	layout.SlotPosition
	Path         string  `json:"path"`
	SourceWidth  int     `json:"source_width"`
	SourceHeight int     `json:"source_height"`
	EffectiveDPI float64 `json:"effective_dpi"`
	LowRes       bool    `json:"low_res"`
}

// SkippedImage is an image that could not be loaded. Its slot stays empty.
type SkippedImage struct {
	layout.SlotPosition
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Result summarizes a finished export.
type Result struct {
	State       State          `json:"state"`
	Destination string         `json:"destination,omitempty"`
	PageCount   int            `json:"page_count"`
	Placed      []PlacedImage  `json:"placed,omitempty"`
	Skipped     []SkippedImage `json:"skipped,omitempty"`
}

// Progress is reported after each selected image has been handled.
type Progress struct {
	Done  int    `json:"done"`
	Total int    `json:"total"`
	Path  string `json:"path"`
	Page  int    `json:"page"`
	// Skipped is set when the image could not be loaded.
	Skipped bool `json:"skipped"`
}

// Options configures a Writer.
type Options struct {
	Layout layout.Config
	// PDF metadata and image encoding for the default backend.
	PDF render.PDFOptions
	// Loader defaults to render.FileLoader.
	Loader Loader
	// NewBackend defaults to a PDF backend.
	NewBackend BackendFactory
	// OnProgress, when set, is called synchronously after every image.
	OnProgress func(Progress)
	// BeforeCommit, when set, runs after the document is written and before
	// it replaces the destination. An error aborts the export.
	BeforeCommit func() error
}

// Writer renders card sheets. A Writer keeps no state between exports and
// may be reused.
type Writer struct {
	geom       layout.Geometry
	loader     Loader
	newBackend   BackendFactory
	onProgress   func(Progress)
	beforeCommit func() error
}

// NewWriter validates the layout and creates a Writer.
func NewWriter(opts Options) (*Writer, error) {
	geom := opts.Layout.Geometry()
	if err := geom.Validate(); err != nil {
		return nil, fmt.Errorf("invalid layout: %w", err)
	}

	w := &Writer{
		geom:         geom,
		loader:       opts.Loader,
		newBackend:   opts.NewBackend,
		onProgress:   opts.OnProgress,
		beforeCommit: opts.BeforeCommit,
	}
	if w.loader == nil {
		w.loader = render.FileLoader{}
	}
	if w.newBackend == nil {
		pdfOpts := opts.PDF
		w.newBackend = func(g layout.Geometry) Backend {
			return render.NewPDFBackend(g, pdfOpts)
		}
	}
	return w, nil
}

// Geometry returns the pixel geometry used for every page.
func (w *Writer) Geometry() layout.Geometry {
	return w.geom
}

// NormalizeDestination appends ".pdf" unless the path already ends with it.
func NormalizeDestination(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return path
	}
	return path + ".pdf"
}

// Export writes the selected entries to destination. Only entries with
// Selected set are printed, in their original order. An empty selection
// creates no file and returns a Result in StateAborted with a nil error.
func (w *Writer) Export(ctx context.Context, destination string, entries []catalog.Entry) (*Result, error) {
	selected := catalog.Selected(entries)
	if len(selected) == 0 {
		return &Result{State: StateAborted}, nil
	}

	out, err := renameio.TempFile(filepath.Dir(destination), destination)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrOutputWrite, destination, err)
	}
	defer out.Cleanup()
	if err := out.Chmod(0644); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrOutputWrite, destination, err)
	}

	result, backend, err := w.render(ctx, selected)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := backend.Output(out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOutputWrite, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if w.beforeCommit != nil {
		if err := w.beforeCommit(); err != nil {
			return nil, err
		}
	}
	if err := out.CloseAtomicallyReplace(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrOutputWrite, destination, err)
	}

	result.State = StateFinalized
	result.Destination = destination
	return result, nil
}

// render draws every selected entry onto a fresh backend.
func (w *Writer) render(ctx context.Context, selected []catalog.Entry) (*Result, Backend, error) {
	g := w.geom
	backend := w.newBackend(g)
	result := &Result{
		State:     StateExporting,
		PageCount: layout.PageCount(len(selected)),
	}
	cutLines := layout.CutLines(g)

	for i, entry := range selected {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		pos := layout.Locate(i)
		if pos.Slot == 0 {
			backend.AddPage()
			backend.DrawLines(cutLines)
		}

		placed, err := w.place(backend, entry, pos)
		if err != nil {
			var skip *loadError
			if !errors.As(err, &skip) {
				return nil, nil, err
			}
			log.Printf("WARNING: skipping image %s: %v", sanitizeForLog(entry.Path), skip.err)
			result.Skipped = append(result.Skipped, SkippedImage{
				SlotPosition: pos,
				Path:         entry.Path,
				Reason:       skip.err.Error(),
			})
		} else {
			result.Placed = append(result.Placed, *placed)
		}

		if w.onProgress != nil {
			w.onProgress(Progress{
				Done:    i + 1,
				Total:   len(selected),
				Path:    entry.Path,
				Page:    pos.Page,
				Skipped: err != nil,
			})
		}
	}
	return result, backend, nil
}

// loadError marks a recoverable failure to read one image.
type loadError struct {
	err error
}

func (e *loadError) Error() string { return e.err.Error() }
func (e *loadError) Unwrap() error { return e.err }

// place loads, crops, scales and draws one entry into its slot, then draws
// its corner marks on top.
func (w *Writer) place(backend Backend, entry catalog.Entry, pos layout.SlotPosition) (*PlacedImage, error) {
	g := w.geom
	src, err := w.loader.Load(entry.Path)
	if err != nil {
		return nil, &loadError{err: err}
	}

	region := render.Region(src, entry.Cropped, g.CropMargin)
	slot := g.SlotRect(pos.Row, pos.Col)
	if err := backend.DrawImage(render.Scale(region, slot.W, slot.H), slot); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOutputWrite, err)
	}
	backend.DrawLines(layout.CornerMarks(slot, g.CornerMark, g.CornerStroke))

	rb := region.Bounds()
	dpi := EffectiveDPI(rb.Dx(), rb.Dy(), g)
	return &PlacedImage{
		SlotPosition: pos,
		Path:         entry.Path,
		SourceWidth:  rb.Dx(),
		SourceHeight: rb.Dy(),
		EffectiveDPI: dpi,
		LowRes:       dpi < LowResDPIThreshold,
	}, nil
}

// EffectiveDPI returns the lower of the horizontal and vertical source
// resolutions once the region is stretched onto a card.
func EffectiveDPI(w, h int, g layout.Geometry) float64 {
	dpiX := float64(w) * float64(g.DPI) / float64(g.CardW)
	dpiY := float64(h) * float64(g.DPI) / float64(g.CardH)
	return math.Round(min(dpiX, dpiY)*10) / 10
}

// sanitizeForLog removes newlines and carriage returns to prevent log injection.
func sanitizeForLog(s string) string {
	return strings.NewReplacer("\n", "", "\r", "").Replace(s)
}

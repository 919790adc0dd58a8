package render

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/kozaktomas/cardsheet/internal/layout"
	"github.com/kozaktomas/cardsheet/internal/units"
)

const imageTypeJPEG = "JPG"

// PDFOptions controls document metadata and image encoding.
type PDFOptions struct {
	Title       string
	Creator     string
	JPEGQuality int
	// CreatedAt is stamped into the document info; zero means now.
	CreatedAt time.Time
}

// PDFBackend writes pages of pixel geometry into a PDF. Pixel coordinates
// are converted to points at the geometry's resolution, so a page of
// 2550x3300px at 300dpi becomes an 8.5x11in full-bleed page.
type PDFBackend struct {
	pdf     *gofpdf.Fpdf
	conv    units.Converter
	quality int
	images  int
}

// NewPDFBackend creates an empty document sized to the geometry's page.
func NewPDFBackend(g layout.Geometry, opts PDFOptions) *PDFBackend {
	conv := units.Converter{DPI: g.DPI}
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: conv.Points(g.PageW), Ht: conv.Points(g.PageH)},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCompression(true)
	pdf.SetCatalogSort(true)
	pdf.SetLineCapStyle("square")
	if opts.Title != "" {
		pdf.SetTitle(opts.Title, true)
	}
	if opts.Creator != "" {
		pdf.SetCreator(opts.Creator, true)
	}
	if !opts.CreatedAt.IsZero() {
		pdf.SetCreationDate(opts.CreatedAt)
	}

	quality := opts.JPEGQuality
	if quality <= 0 || quality > 100 {
		quality = jpeg.DefaultQuality
	}
	return &PDFBackend{pdf: pdf, conv: conv, quality: quality}
}

// AddPage starts a new page.
func (b *PDFBackend) AddPage() {
	b.pdf.AddPage()
}

// DrawImage places img at the pixel rectangle at. The image is expected to
// already have the rectangle's pixel size.
func (b *PDFBackend) DrawImage(img image.Image, at layout.Rect) error {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: b.quality}); err != nil {
		return fmt.Errorf("failed to encode card image: %w", err)
	}

	b.images++
	name := fmt.Sprintf("card-%d", b.images)
	opts := gofpdf.ImageOptions{ImageType: imageTypeJPEG}
	b.pdf.RegisterImageOptionsReader(name, opts, &buf)
	b.pdf.ImageOptions(name,
		b.conv.Points(at.X), b.conv.Points(at.Y),
		b.conv.Points(at.W), b.conv.Points(at.H),
		false, opts, 0, "")
	return b.pdf.Error()
}

// DrawLines strokes every line with its own color and width.
func (b *PDFBackend) DrawLines(lines []layout.Line) {
	for _, l := range lines {
		b.pdf.SetDrawColor(int(l.Stroke.Color.R), int(l.Stroke.Color.G), int(l.Stroke.Color.B))
		b.pdf.SetLineWidth(b.conv.Points(l.Stroke.WidthPx))
		b.pdf.Line(b.conv.Points(l.X1), b.conv.Points(l.Y1), b.conv.Points(l.X2), b.conv.Points(l.Y2))
	}
}

// PageCount returns the number of pages added so far.
func (b *PDFBackend) PageCount() int {
	return b.pdf.PageCount()
}

// Output serializes the finished document to w.
func (b *PDFBackend) Output(w io.Writer) error {
	if err := b.pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}

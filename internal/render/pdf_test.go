package render

import (
	"bytes"
	"image/color"
	"testing"
	"time"

	"github.com/kozaktomas/cardsheet/internal/layout"
)

func TestPDFBackend_WritesPages(t *testing.T) {
	g := layout.DefaultConfig().Geometry()
	b := NewPDFBackend(g, PDFOptions{Title: "sheet", Creator: "cardsheet", JPEGQuality: 80})

	b.AddPage()
	b.DrawLines(layout.CutLines(g))
	slot := g.SlotRect(0, 0)
	if err := b.DrawImage(Scale(solidImage(10, 10, color.White), slot.W, slot.H), slot); err != nil {
		t.Fatalf("DrawImage: %v", err)
	}
	b.DrawLines(layout.CornerMarks(slot, g.CornerMark, g.CornerStroke))
	b.AddPage()

	if b.PageCount() != 2 {
		t.Errorf("expected 2 pages, got %d", b.PageCount())
	}

	var buf bytes.Buffer
	if err := b.Output(&buf); err != nil {
		t.Fatalf("Output: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Error("output does not look like a PDF")
	}
}

func TestPDFBackend_Deterministic(t *testing.T) {
	g := layout.DefaultConfig().Geometry()
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	render := func() []byte {
		b := NewPDFBackend(g, PDFOptions{CreatedAt: created})
		b.AddPage()
		b.DrawLines(layout.CutLines(g))
		var buf bytes.Buffer
		if err := b.Output(&buf); err != nil {
			t.Fatalf("Output: %v", err)
		}
		return buf.Bytes()
	}

	if !bytes.Equal(render(), render()) {
		t.Error("identical input should produce identical documents")
	}
}

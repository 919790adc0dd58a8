package layout

import (
	"errors"
	"testing"
)

func TestDefaultConfigGeometry(t *testing.T) {
	g := DefaultConfig().Geometry()

	checks := []struct {
		name string
		got  int
		want int
	}{
		{"PageW", g.PageW, 2550},
		{"PageH", g.PageH, 3300},
		{"CardW", g.CardW, 744},
		{"CardH", g.CardH, 1039},
		{"CropMargin", g.CropMargin, 37},
		{"CutLine", g.CutLine, 188},
		{"CornerMark", g.CornerMark, 11},
		// (2550 - 2232) / 2
		{"OffsetX", g.OffsetX, 159},
		// (3300 - 3117) / 2 = 91, the odd leftover pixel stays at the bottom
		{"OffsetY", g.OffsetY, 91},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s: expected %d, got %d", c.name, c.want, c.got)
		}
	}
	if err := g.Validate(); err != nil {
		t.Errorf("default geometry should validate: %v", err)
	}
}

func TestOffsets_IntegerDivision(t *testing.T) {
	g := Geometry{PageW: 101, PageH: 100, CardW: 10, CardH: 11}
	x, y := g.Offsets()
	// (101-30)/2 = 35, (100-33)/2 = 33
	if x != 35 || y != 33 {
		t.Errorf("expected offsets (35, 33), got (%d, %d)", x, y)
	}
}

func TestValidate_GridTooLarge(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CardWidthMM = 80
	err := cfg.Geometry().Validate()
	if !errors.Is(err, ErrGridTooLarge) {
		t.Errorf("expected ErrGridTooLarge, got %v", err)
	}
}

func TestValidate_NonPositiveDPI(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DPI = 0
	if err := cfg.Geometry().Validate(); err == nil {
		t.Error("expected error for zero dpi")
	}
}

func TestValidate_StrokeWidths(t *testing.T) {
	tests := []struct {
		name    string
		cut     int
		corner  int
		wantErr bool
	}{
		{"defaults", 4, 4, false},
		{"bolder cut lines", 6, 2, false},
		{"thin cut lines", 3, 4, true},
		{"hairline cut lines", 1, 4, true},
		{"no corner stroke", 4, 0, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.CutLineWidthPx = tc.cut
			cfg.CornerMarkWidthPx = tc.corner
			err := cfg.Geometry().Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
			if tc.cut < MinCutLineWidthPx && !errors.Is(err, ErrThinCutLine) {
				t.Errorf("expected ErrThinCutLine, got %v", err)
			}
		})
	}
}

func TestPageSizeMM(t *testing.T) {
	tests := []struct {
		name    string
		w, h    float64
		wantErr bool
	}{
		{"letter", 215.9, 279.4, false},
		{"Letter", 215.9, 279.4, false},
		{" a4 ", 210, 297, false},
		{"legal", 215.9, 355.6, false},
		{"tabloid", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h, err := PageSizeMM(tt.name)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownPageSize) {
					t.Errorf("expected ErrUnknownPageSize, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if w != tt.w || h != tt.h {
				t.Errorf("expected %vx%v, got %vx%v", tt.w, tt.h, w, h)
			}
		})
	}
}

func TestCropRect(t *testing.T) {
	tests := []struct {
		name   string
		w, h   int
		margin int
		want   Rect
	}{
		{"regular", 100, 100, 10, Rect{10, 10, 80, 80}},
		{"degenerate clamps to 1px", 10, 10, 10, Rect{10, 10, 1, 1}},
		{"exactly twice the margin", 20, 30, 10, Rect{10, 10, 1, 10}},
		{"zero margin keeps full size", 640, 480, 0, Rect{0, 0, 640, 480}},
		{"card scan at 300dpi", 744, 1039, 37, Rect{37, 37, 670, 965}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CropRect(tt.w, tt.h, tt.margin)
			if got != tt.want {
				t.Errorf("CropRect(%d, %d, %d) = %+v, want %+v", tt.w, tt.h, tt.margin, got, tt.want)
			}
			if got.W < 1 || got.H < 1 {
				t.Errorf("crop rect must never be empty: %+v", got)
			}
		})
	}
}

func TestRectImage(t *testing.T) {
	r := Rect{X: 10, Y: 20, W: 30, H: 40}.Image()
	if r.Min.X != 10 || r.Min.Y != 20 || r.Dx() != 30 || r.Dy() != 40 {
		t.Errorf("unexpected rectangle %v", r)
	}
}

package layout

import "testing"

func TestCutLines(t *testing.T) {
	g := DefaultConfig().Geometry()
	lines := CutLines(g)
	if len(lines) != 16 {
		t.Fatalf("expected 16 cut lines, got %d", len(lines))
	}

	// Verticals come first: top then bottom segment per column boundary.
	for col := range 4 {
		x := g.OffsetX + col*g.CardW
		top, bottom := lines[2*col], lines[2*col+1]
		if top != (Line{x, 0, x, 188, g.CutStroke}) {
			t.Errorf("column %d top segment: %+v", col, top)
		}
		if bottom != (Line{x, 3300 - 188, x, 3300, g.CutStroke}) {
			t.Errorf("column %d bottom segment: %+v", col, bottom)
		}
	}
	for row := range 4 {
		y := g.OffsetY + row*g.CardH
		left, right := lines[8+2*row], lines[8+2*row+1]
		if left != (Line{0, y, 188, y, g.CutStroke}) {
			t.Errorf("row %d left segment: %+v", row, left)
		}
		if right != (Line{2550 - 188, y, 2550, y, g.CutStroke}) {
			t.Errorf("row %d right segment: %+v", row, right)
		}
	}
}

func TestCutLines_StayNearEdges(t *testing.T) {
	g := DefaultConfig().Geometry()
	for i, l := range CutLines(g) {
		length := max(l.X2-l.X1, l.Y2-l.Y1)
		if length != g.CutLine {
			t.Errorf("line %d has length %d, want %d", i, length, g.CutLine)
		}
		if l.Stroke.WidthPx < 4 {
			t.Errorf("line %d stroke too thin: %d", i, l.Stroke.WidthPx)
		}
	}
}

func TestCornerMarks(t *testing.T) {
	s := Stroke{Color: CornerMarkColor, WidthPx: 4}
	marks := CornerMarks(Rect{X: 100, Y: 200, W: 50, H: 60}, 5, s)
	want := []Line{
		{100, 200, 105, 200, s},
		{100, 200, 100, 205, s},
		{150, 200, 145, 200, s},
		{150, 200, 150, 205, s},
		{100, 260, 105, 260, s},
		{100, 260, 100, 255, s},
		{150, 260, 145, 260, s},
		{150, 260, 150, 255, s},
	}
	if len(marks) != len(want) {
		t.Fatalf("expected %d segments, got %d", len(want), len(marks))
	}
	for i := range want {
		if marks[i] != want[i] {
			t.Errorf("segment %d: expected %+v, got %+v", i, want[i], marks[i])
		}
	}
}

func TestMarkStrokesDiffer(t *testing.T) {
	g := DefaultConfig().Geometry()
	if g.CutStroke.Color == g.CornerStroke.Color {
		t.Error("cut lines and corner marks must use different colors")
	}
}

func TestPlacementMarks_Idempotent(t *testing.T) {
	g := DefaultConfig().Geometry()
	p := Plan(1, g)[0].Placements[0]
	a, b := g.PlacementMarks(p), g.PlacementMarks(p)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("segment %d differs between calls", i)
		}
	}
}

package layout

// Line is a straight stroke between two pixel coordinates.
type Line struct {
	X1, Y1, X2, Y2 int
	Stroke         Stroke
}

// CutLines returns the trim guides for one page: short segments at every
// column and row boundary, drawn only near the page edges.
func CutLines(g Geometry) []Line {
	lines := make([]Line, 0, 2*(Columns+1)+2*(Rows+1))
	for col := range Columns + 1 {
		x := g.OffsetX + col*g.CardW
		lines = append(lines,
			Line{x, 0, x, g.CutLine, g.CutStroke},
			Line{x, g.PageH - g.CutLine, x, g.PageH, g.CutStroke},
		)
	}
	for row := range Rows + 1 {
		y := g.OffsetY + row*g.CardH
		lines = append(lines,
			Line{0, y, g.CutLine, y, g.CutStroke},
			Line{g.PageW - g.CutLine, y, g.PageW, y, g.CutStroke},
		)
	}
	return lines
}

// CornerMarks returns four L-shaped ticks on the corners of r, each arm
// running arm pixels inward along the adjacent edge.
func CornerMarks(r Rect, arm int, s Stroke) []Line {
	left, top := r.X, r.Y
	right, bottom := r.X+r.W, r.Y+r.H
	return []Line{
		{left, top, left + arm, top, s},
		{left, top, left, top + arm, s},

		{right, top, right - arm, top, s},
		{right, top, right, top + arm, s},

		{left, bottom, left + arm, bottom, s},
		{left, bottom, left, bottom - arm, s},

		{right, bottom, right - arm, bottom, s},
		{right, bottom, right, bottom - arm, s},
	}
}

// PlacementMarks returns the corner marks for a placed card.
func (g Geometry) PlacementMarks(p Placement) []Line {
	return CornerMarks(p.Rect, g.CornerMark, g.CornerStroke)
}

package layout

// SlotPosition locates one image on the sheet sequence.
type SlotPosition struct {
	Page int `json:"page"`
	Slot int `json:"slot"`
	Row  int `json:"row"`
	Col  int `json:"col"`
}

// Locate returns the position of the i-th selected image (0-indexed).
func Locate(i int) SlotPosition {
	slot := i % SlotsPerPage
	return SlotPosition{
		Page: i / SlotsPerPage,
		Slot: slot,
		Row:  slot / Columns,
		Col:  slot % Columns,
	}
}

// StartsPage reports whether image i opens a new page after earlier pages.
func StartsPage(i int) bool {
	return i > 0 && i%SlotsPerPage == 0
}

// PageCount returns ceil(n / 9).
func PageCount(n int) int {
	if n <= 0 {
		return 0
	}
	return (n + SlotsPerPage - 1) / SlotsPerPage
}

// SlotRect returns the pixel rectangle of a grid cell.
func (g Geometry) SlotRect(row, col int) Rect {
	return Rect{
		X: g.OffsetX + col*g.CardW,
		Y: g.OffsetY + row*g.CardH,
		W: g.CardW,
		H: g.CardH,
	}
}

// Placement is one image assigned to a slot.
type Placement struct {
	Index int `json:"index"`
	SlotPosition
	Rect Rect `json:"rect"`
}

// PagePlan lists the placements of one page in drawing order.
type PagePlan struct {
	Number     int         `json:"number"`
	Placements []Placement `json:"placements"`
}

// Plan assigns n images to pages and slots in their original order.
func Plan(n int, g Geometry) []PagePlan {
	pages := make([]PagePlan, PageCount(n))
	for i := range pages {
		pages[i].Number = i
	}
	for i := range n {
		pos := Locate(i)
		pages[pos.Page].Placements = append(pages[pos.Page].Placements, Placement{
			Index:        i,
			SlotPosition: pos,
			Rect:         g.SlotRect(pos.Row, pos.Col),
		})
	}
	return pages
}

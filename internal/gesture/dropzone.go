package gesture

// PlaceholderColumn returns the column that should show the placeholder while the
// ghost is at ghost and the pointer at pointer, or "" when none qualifies. The probe
// is the pointer's X and the ghost's vertical center; the first column in layout
// order whose horizontal span includes the X and whose vertical span strictly
// contains the Y wins.
func PlaceholderColumn(layout *Layout, pointer Point, ghost Rect) string {
	if layout == nil {
		return ""
	}
	y := ghost.CenterY()
	for _, col := range layout.Columns {
		r := col.Rect
		if pointer.X >= r.Left() && pointer.X <= r.Right() && y > r.Top() && y < r.Bottom() {
			return col.ID
		}
	}
	return ""
}

// ElementColumn resolves p the way an element-at-point lookup does: a card under p
// resolves to the column holding it, otherwise a column under p resolves to itself.
func ElementColumn(layout *Layout, p Point) string {
	if layout == nil {
		return ""
	}
	for _, col := range layout.Columns {
		for _, card := range col.Cards {
			if card.Rect.Hit(p) {
				return col.ID
			}
		}
	}
	for _, col := range layout.Columns {
		if col.Rect.Hit(p) {
			return col.ID
		}
	}
	return ""
}

// ScanColumn returns the first column in layout order whose rectangle contains p,
// edges included, or "".
func ScanColumn(layout *Layout, p Point) string {
	if layout == nil {
		return ""
	}
	for _, col := range layout.Columns {
		if col.Rect.ContainsInclusive(p) {
			return col.ID
		}
	}
	return ""
}

// DropColumn resolves the column a card released at p lands in, or "".
func DropColumn(layout *Layout, p Point) string {
	if id := ElementColumn(layout, p); id != "" {
		return id
	}
	return ScanColumn(layout, p)
}

// placeholder tracks the single placeholder of a drag.
type placeholder struct {
	column string
}

// update moves the placeholder to candidate ("" removes it) and reports whether
// anything changed.
func (p *placeholder) update(candidate string) bool {
	if p.column == candidate {
		return false
	}
	p.column = candidate
	return true
}

func (p *placeholder) clear() {
	p.column = ""
}

package gesture

// Ghost styling while a card is dragged.
const (
	GhostOpacity   = 0.8
	LiftedRotation = 5.0
)

// Ghost is the floating copy of the dragged card. It keeps the point where the
// card was grabbed fixed under the pointer.
type Ghost struct {
	size   Rect
	offset Point
	pos    Point
}

// NewGhost clones card and records the grab offset of grab relative to the
// card's top-left corner. The ghost starts exactly over the card.
func NewGhost(card Rect, grab Point) *Ghost {
	return &Ghost{
		size:   card,
		offset: grab.Sub(card.TopLeft()),
		pos:    card.TopLeft(),
	}
}

// MoveTo positions the ghost so the grab point sits under p.
func (g *Ghost) MoveTo(p Point) {
	g.pos = p.Sub(g.offset)
}

// Offset returns the grab offset.
func (g *Ghost) Offset() Point {
	return g.offset
}

// Rect returns the ghost's current box.
func (g *Ghost) Rect() Rect {
	return Rect{X: g.pos.X, Y: g.pos.Y, Width: g.size.Width, Height: g.size.Height}
}

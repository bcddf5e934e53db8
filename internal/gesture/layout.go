package gesture

// Card is one task card as rendered on the board.
type Card struct {
	ID   string `json:"id"`
	Rect Rect   `json:"rect"`
}

// Column is one card container. ID is the status the column stands for.
type Column struct {
	ID    string `json:"id"`
	Rect  Rect   `json:"rect"`
	Cards []Card `json:"cards"`
}

// Layout is the board geometry reported by the client, columns in layout order.
type Layout struct {
	Columns []Column `json:"columns"`
}

// FindCard returns the card and the ID of the column holding it.
func (l *Layout) FindCard(cardID string) (Card, string, bool) {
	for _, col := range l.Columns {
		for _, card := range col.Cards {
			if card.ID == cardID {
				return card, col.ID, true
			}
		}
	}
	return Card{}, "", false
}

// Column returns the column with the given ID, or nil.
func (l *Layout) Column(id string) *Column {
	for i := range l.Columns {
		if l.Columns[i].ID == id {
			return &l.Columns[i]
		}
	}
	return nil
}

// MoveCard detaches the card from its column and appends it to the column to.
// It reports false when either the card or the target column is unknown.
func (l *Layout) MoveCard(cardID, to string) bool {
	target := l.Column(to)
	if target == nil {
		return false
	}
	for ci := range l.Columns {
		col := &l.Columns[ci]
		for i, card := range col.Cards {
			if card.ID != cardID {
				continue
			}
			col.Cards = append(col.Cards[:i:i], col.Cards[i+1:]...)
			target.Cards = append(target.Cards, card)
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the layout.
func (l Layout) Clone() Layout {
	out := Layout{Columns: make([]Column, len(l.Columns))}
	for i, col := range l.Columns {
		out.Columns[i] = Column{ID: col.ID, Rect: col.Rect, Cards: append([]Card(nil), col.Cards...)}
	}
	return out
}

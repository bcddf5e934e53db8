package gesture

import (
	"context"
	"errors"
	"sync"
)

// boardLayout is four 200px wide columns side by side, each holding the given cards
// stacked from the top.
func boardLayout(cards map[string][]string) Layout {
	ids := []string{"toDo", "progress", "feedback", "done"}
	layout := Layout{}
	for i, id := range ids {
		col := Column{ID: id, Rect: Rect{X: float64(i) * 220, Y: 100, Width: 200, Height: 600}}
		for j, cardID := range cards[id] {
			col.Cards = append(col.Cards, Card{
				ID:   cardID,
				Rect: Rect{X: col.Rect.X + 10, Y: 110 + float64(j)*130, Width: 180, Height: 120},
			})
		}
		layout.Columns = append(layout.Columns, col)
	}
	return layout
}

// columnCenter returns a point in the middle of the column with index i.
func columnCenter(i int) Point {
	return Point{X: float64(i)*220 + 100, Y: 600}
}

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) record(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) all() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func (r *recorder) ofType(typ EventType) []Event {
	var out []Event
	for _, ev := range r.all() {
		if ev.Type == typ {
			out = append(out, ev)
		}
	}
	return out
}

type persistCall struct {
	cardID string
	column string
}

type fakePersister struct {
	mu    sync.Mutex
	calls []persistCall
	fail  bool
}

func (p *fakePersister) PersistStatus(ctx context.Context, cardID, column string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, persistCall{cardID: cardID, column: column})
	if p.fail {
		return errors.New("remote store unreachable")
	}
	return nil
}

func (p *fakePersister) recorded() []persistCall {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]persistCall(nil), p.calls...)
}

package gesture

import (
	"sync"
	"time"
)

// DefaultLongPress is how long a press must last before it becomes a drag.
const DefaultLongPress = 200 * time.Millisecond

// State is the phase of the current gesture.
type State string

const (
	StateIdle             State = "idle"
	StatePressed          State = "pressed"
	StateDragging         State = "dragging"
	StateTapped           State = "tapped"
	StateDroppedMoved     State = "dropped-moved"
	StateDroppedUnchanged State = "dropped-unchanged"
	StateCancelled        State = "cancelled"
)

// Terminal reports whether the gesture ended in s.
func (s State) Terminal() bool {
	switch s {
	case StateTapped, StateDroppedMoved, StateDroppedUnchanged, StateCancelled:
		return true
	}
	return false
}

// EventType classifies tracker output.
type EventType string

const (
	// EventFrame carries the visual state after a change.
	EventFrame EventType = "frame"
	// EventTap asks the client to open the card detail.
	EventTap EventType = "tap"
	// EventDrop reports how a drag ended.
	EventDrop EventType = "drop"
)

// GhostFrame is the ghost's visual state.
type GhostFrame struct {
	Rect     Rect    `json:"rect"`
	Opacity  float64 `json:"opacity"`
	Rotation float64 `json:"rotation"`
}

// Event is emitted after every observable change.
type Event struct {
	Type        EventType   `json:"type"`
	State       State       `json:"state"`
	CardID      string      `json:"cardId,omitempty"`
	Ghost       *GhostFrame `json:"ghost,omitempty"`
	Placeholder string      `json:"placeholder,omitempty"`
	From        string      `json:"from,omitempty"`
	To          string      `json:"to,omitempty"`
}

// Options configures a Tracker.
type Options struct {
	LongPress time.Duration
	Clock     Clock
	Committer *Committer
	// OnEvent receives every event in order. It is never called with the tracker locked.
	OnEvent func(Event)
}

// Tracker follows one pointer through press, drag and drop on a board layout.
// All methods are safe for concurrent use; events are serialized.
type Tracker struct {
	mu sync.Mutex

	longPress time.Duration
	clock     Clock
	committer *Committer
	onEvent   func(Event)

	// emitMu keeps events in order across the caller and timer goroutines.
	emitMu sync.Mutex

	layout Layout
	state  State

	cardID      string
	origin      string
	press       Point
	moved       bool
	timer       Timer
	generation  int
	ghost       *Ghost
	placeholder placeholder
}

// NewTracker creates an idle tracker.
func NewTracker(opts Options) *Tracker {
	if opts.LongPress <= 0 {
		opts.LongPress = DefaultLongPress
	}
	if opts.Clock == nil {
		opts.Clock = RealClock()
	}
	return &Tracker{
		longPress: opts.LongPress,
		clock:     opts.Clock,
		committer: opts.Committer,
		onEvent:   opts.OnEvent,
		state:     StateIdle,
	}
}

// SetLayout replaces the board geometry. A drag in progress keeps going.
func (t *Tracker) SetLayout(layout Layout) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.layout = layout.Clone()
}

// Layout returns a copy of the current board geometry, including optimistic moves.
func (t *Tracker) Layout() Layout {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.layout.Clone()
}

// State returns the current phase.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Press starts a gesture on cardID. Presses outside a known card, or while another
// gesture is active, are ignored.
func (t *Tracker) Press(cardID string, p Point) {
	t.emitMu.Lock()
	defer t.emitMu.Unlock()
	t.mu.Lock()

	if t.state != StateIdle {
		t.mu.Unlock()
		return
	}
	_, column, ok := t.layout.FindCard(cardID)
	if !ok {
		t.mu.Unlock()
		return
	}

	t.state = StatePressed
	t.origin = column
	t.cardID = cardID
	t.press = p
	t.moved = false
	t.generation++
	gen := t.generation
	t.timer = t.clock.AfterFunc(t.longPress, func() { t.longPressElapsed(gen) })

	events := []Event{t.frameLocked()}
	t.mu.Unlock()
	t.dispatch(events)
}

func (t *Tracker) longPressElapsed(gen int) {
	t.emitMu.Lock()
	defer t.emitMu.Unlock()
	t.mu.Lock()

	if t.state != StatePressed || t.generation != gen {
		t.mu.Unlock()
		return
	}

	card, _, ok := t.layout.FindCard(t.cardID)
	if !ok {
		// The card disappeared from the layout while pressed.
		t.resetLocked()
		t.mu.Unlock()
		return
	}

	t.timer = nil
	t.state = StateDragging
	t.ghost = NewGhost(card.Rect, t.press)

	events := []Event{t.frameLocked()}
	t.mu.Unlock()
	t.dispatch(events)
}

// Move follows the pointer. While dragging it moves the ghost and the placeholder.
// Moving before the long press elapses does not cancel it.
func (t *Tracker) Move(p Point) {
	t.emitMu.Lock()
	defer t.emitMu.Unlock()
	t.mu.Lock()

	switch t.state {
	case StatePressed:
		t.moved = true
		t.mu.Unlock()
		return
	case StateDragging:
	default:
		t.mu.Unlock()
		return
	}

	t.moved = true
	t.ghost.MoveTo(p)
	t.placeholder.update(PlaceholderColumn(&t.layout, p, t.ghost.Rect()))

	events := []Event{t.frameLocked()}
	t.mu.Unlock()
	t.dispatch(events)
}

// Release ends the gesture at p. Before the long press elapses it is a tap;
// during a drag it drops the card.
func (t *Tracker) Release(p Point) {
	t.emitMu.Lock()
	defer t.emitMu.Unlock()
	t.mu.Lock()

	var (
		events []Event
		moved  *Event
	)
	switch t.state {
	case StatePressed:
		t.stopTimerLocked()
		t.state = StateTapped
		events = append(events, Event{Type: EventTap, State: StateTapped, CardID: t.cardID})
	case StateDragging:
		drop := t.dropLocked(p)
		events = append(events, drop)
		if drop.State == StateDroppedMoved {
			moved = &drop
		}
	default:
		t.mu.Unlock()
		return
	}

	t.resetLocked()
	events = append(events, t.frameLocked())
	t.mu.Unlock()
	t.dispatch(events)

	// The drop is delivered before its commit can report back.
	if moved != nil && t.committer != nil {
		t.committer.Commit(moved.CardID, moved.From, moved.To)
	}
}

func (t *Tracker) dropLocked(p Point) Event {
	target := ""
	if t.moved {
		target = DropColumn(&t.layout, p)
	}

	ev := Event{Type: EventDrop, CardID: t.cardID, From: t.origin, To: target}
	if target == "" || target == t.origin {
		t.state = StateDroppedUnchanged
		ev.State = t.state
		ev.To = t.origin
		return ev
	}

	t.layout.MoveCard(t.cardID, target)
	t.state = StateDroppedMoved
	ev.State = t.state
	return ev
}

// Cancel aborts the gesture, e.g. on touchcancel. The card stays where it was.
func (t *Tracker) Cancel() {
	t.emitMu.Lock()
	defer t.emitMu.Unlock()
	t.mu.Lock()

	if t.state == StateIdle {
		t.mu.Unlock()
		return
	}

	t.stopTimerLocked()
	t.state = StateCancelled
	events := []Event{{Type: EventDrop, State: StateCancelled, CardID: t.cardID, From: t.origin, To: t.origin}}

	t.resetLocked()
	events = append(events, t.frameLocked())
	t.mu.Unlock()
	t.dispatch(events)
}

// Close stops a pending long-press timer. The tracker must not be used afterwards.
func (t *Tracker) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopTimerLocked()
	t.generation++
}

func (t *Tracker) stopTimerLocked() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

// resetLocked clears the ghost and placeholder and returns to idle.
func (t *Tracker) resetLocked() {
	t.stopTimerLocked()
	t.state = StateIdle
	t.cardID = ""
	t.origin = ""
	t.moved = false
	t.ghost = nil
	t.placeholder.clear()
}

func (t *Tracker) frameLocked() Event {
	ev := Event{
		Type:        EventFrame,
		State:       t.state,
		CardID:      t.cardID,
		Placeholder: t.placeholder.column,
	}
	if t.ghost != nil {
		ev.Ghost = &GhostFrame{Rect: t.ghost.Rect(), Opacity: GhostOpacity, Rotation: LiftedRotation}
	}
	return ev
}

func (t *Tracker) dispatch(events []Event) {
	if t.onEvent == nil {
		return
	}
	for _, ev := range events {
		t.onEvent(ev)
	}
}

package dto

import "github.com/yukikurage/join-board/internal/gesture"

// Gesture WebSocket message types
const (
	GestureMsgLayout  = "layout"
	GestureMsgPress   = "press"
	GestureMsgMove    = "move"
	GestureMsgRelease = "release"
	GestureMsgCancel  = "cancel"

	GestureMsgCommit = "commit"
	GestureMsgError  = "error"
)

// GestureClientMessage is one pointer or layout message from the browser.
// Layout is set for "layout", CardID for "press", X and Y for every pointer message.
type GestureClientMessage struct {
	Type   string          `json:"type"`
	Layout *gesture.Layout `json:"layout,omitempty"`
	CardID string          `json:"cardId,omitempty"`
	X      float64         `json:"x"`
	Y      float64         `json:"y"`
}

// Point returns the pointer position carried by the message.
func (m GestureClientMessage) Point() gesture.Point {
	return gesture.Point{X: m.X, Y: m.Y}
}

// GestureServerMessage is sent for every tracker event, commit result and protocol error.
type GestureServerMessage struct {
	Type        string              `json:"type"`
	State       gesture.State       `json:"state,omitempty"`
	CardID      string              `json:"cardId,omitempty"`
	Ghost       *gesture.GhostFrame `json:"ghost,omitempty"`
	Placeholder string              `json:"placeholder,omitempty"`
	From        string              `json:"from,omitempty"`
	To          string              `json:"to,omitempty"`
	Saved       *bool               `json:"saved,omitempty"`
	Message     string              `json:"message,omitempty"`
}

// ToGestureEventMessage converts a tracker event
func ToGestureEventMessage(ev gesture.Event) GestureServerMessage {
	return GestureServerMessage{
		Type:        string(ev.Type),
		State:       ev.State,
		CardID:      ev.CardID,
		Ghost:       ev.Ghost,
		Placeholder: ev.Placeholder,
		From:        ev.From,
		To:          ev.To,
	}
}

// ToGestureCommitMessage reports whether a dropped card's new status was stored.
// A failed save leaves the card in its new column on the client.
func ToGestureCommitMessage(res gesture.CommitResult) GestureServerMessage {
	saved := res.Err == nil
	msg := GestureServerMessage{
		Type:   GestureMsgCommit,
		CardID: res.CardID,
		From:   res.From,
		To:     res.To,
		Saved:  &saved,
	}
	if res.Err != nil {
		msg.Message = "Failed to save task status"
	}
	return msg
}

// GestureErrorMessage builds a protocol error message
func GestureErrorMessage(message string) GestureServerMessage {
	return GestureServerMessage{Type: GestureMsgError, Message: message}
}

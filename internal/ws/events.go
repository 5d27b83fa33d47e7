package ws

import "time"

const (
	EventFriendRequest         = "friendRequest"
	EventFriendRequestAccepted = "friendRequestAccepted"
	EventMessage               = "message"
)

// Event is a typed frame pushed to a user's room. Delivery is best-effort:
// the stored record is the durable source of truth, the push is an
// optimization.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

func NewFriendRequestEvent(from int64) Event {
	return Event{Type: EventFriendRequest, Payload: map[string]int64{"from": from}}
}

func NewFriendRequestAcceptedEvent(by int64) Event {
	return Event{Type: EventFriendRequestAccepted, Payload: map[string]int64{"by": by}}
}

func NewMessageEvent(id, from, to int64, text string, at time.Time) Event {
	return Event{Type: EventMessage, Payload: map[string]interface{}{
		"id":   id,
		"from": from,
		"to":   to,
		"text": text,
		"time": at,
	}}
}

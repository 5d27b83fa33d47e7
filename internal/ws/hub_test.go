package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConn(userID int64, buffer int) *connection {
	return &connection{userID: userID, send: make(chan []byte, buffer)}
}

func readEvent(t *testing.T, c *connection) Event {
	t.Helper()
	select {
	case data := <-c.send:
		var ev Event
		require.NoError(t, json.Unmarshal(data, &ev))
		return ev
	default:
		t.Fatal("expected an event on the send channel")
		return Event{}
	}
}

func TestEmitReachesEveryConnectionInRoom(t *testing.T) {
	h := NewHub()
	first := newTestConn(1, 4)
	second := newTestConn(1, 4)
	other := newTestConn(2, 4)
	h.register(first)
	h.register(second)
	h.register(other)

	h.Emit(1, NewFriendRequestEvent(7))

	for _, c := range []*connection{first, second} {
		ev := readEvent(t, c)
		assert.Equal(t, EventFriendRequest, ev.Type)
	}
	assert.Empty(t, other.send)
}

func TestEmitToEmptyRoomDrops(t *testing.T) {
	h := NewHub()
	// no connections registered, nothing to assert beyond not panicking
	h.Emit(42, NewFriendRequestAcceptedEvent(7))
}

func TestEmitSkipsSlowConnection(t *testing.T) {
	h := NewHub()
	fast := newTestConn(1, 4)
	slow := newTestConn(1, 1)
	h.register(fast)
	h.register(slow)

	h.Emit(1, NewFriendRequestEvent(2)) // fills slow's buffer
	h.Emit(1, NewFriendRequestEvent(3)) // slow is skipped, fast still gets it

	assert.Len(t, fast.send, 2)
	assert.Len(t, slow.send, 1)
}

func TestEmitPreservesOrderPerConnection(t *testing.T) {
	h := NewHub()
	c := newTestConn(1, 8)
	h.register(c)

	h.Emit(1, NewFriendRequestEvent(10))
	h.Emit(1, NewFriendRequestAcceptedEvent(11))

	assert.Equal(t, EventFriendRequest, readEvent(t, c).Type)
	assert.Equal(t, EventFriendRequestAccepted, readEvent(t, c).Type)
}

func TestOnlineTracksRegistrations(t *testing.T) {
	h := NewHub()
	assert.Equal(t, 0, h.Online(1))

	first := newTestConn(1, 1)
	second := newTestConn(1, 1)
	h.register(first)
	h.register(second)
	assert.Equal(t, 2, h.Online(1))

	h.unregister(first)
	assert.Equal(t, 1, h.Online(1))

	h.unregister(second)
	assert.Equal(t, 0, h.Online(1))
}

func TestUnregisterClosesSendAndIsIdempotent(t *testing.T) {
	h := NewHub()
	c := newTestConn(1, 1)
	h.register(c)

	h.unregister(c)
	_, open := <-c.send
	assert.False(t, open)

	// a second unregister of the same connection must not close twice
	h.unregister(c)
}

func TestMessageEventPayload(t *testing.T) {
	h := NewHub()
	c := newTestConn(5, 1)
	h.register(c)

	msg := NewMessageEvent(99, 1, 5, "hello", time.Now())
	h.Emit(5, msg)

	ev := readEvent(t, c)
	assert.Equal(t, EventMessage, ev.Type)
	payload, ok := ev.Payload.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(99), payload["id"])
	assert.Equal(t, "hello", payload["text"])
}

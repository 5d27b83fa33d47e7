package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"socialhub/internal/metrics"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 4 * 1024
)

// connection is a single live WebSocket client bound to one user id.
type connection struct {
	userID int64
	conn   *websocket.Conn
	send   chan []byte
}

// Hub is the in-process presence registry: it maps a user id to the set of
// that user's live connections (the user's "room"). A user may hold zero,
// one, or many connections at once. Nothing survives a restart.
type Hub struct {
	mu    sync.RWMutex
	rooms map[int64]map[*connection]bool
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[int64]map[*connection]bool)}
}

func (h *Hub) register(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room := h.rooms[c.userID]
	if room == nil {
		room = make(map[*connection]bool)
		h.rooms[c.userID] = room
	}
	room[c] = true
	metrics.WsConnections.Inc()
}

func (h *Hub) unregister(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room := h.rooms[c.userID]
	if room == nil || !room[c] {
		return
	}
	delete(room, c)
	if len(room) == 0 {
		delete(h.rooms, c.userID)
	}
	close(c.send)
	metrics.WsConnections.Dec()
}

// Online reports how many live connections a user's room holds.
func (h *Hub) Online(userID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[userID])
}

// Emit delivers an event to every live connection of the target user's room.
// If the room is empty the event is silently dropped — no queue, no retry.
// Events pushed to the same connection keep emission order: each connection
// has a single writer goroutine draining its send channel in FIFO order.
func (h *Hub) Emit(targetUserID int64, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("type", event.Type).Msg("failed to marshal ws event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	room := h.rooms[targetUserID]
	if len(room) == 0 {
		metrics.EventsDropped.WithLabelValues(event.Type).Inc()
		return
	}
	for c := range room {
		select {
		case c.send <- data:
			metrics.EventsDelivered.WithLabelValues(event.Type).Inc()
		default:
			// Client too slow — skip
			metrics.EventsDropped.WithLabelValues(event.Type).Inc()
		}
	}
}

// ServeWS registers the connection under the user's room and runs the
// read/write loops. Blocks until the client disconnects.
func (h *Hub) ServeWS(conn *websocket.Conn, userID int64) {
	c := &connection{
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, 256),
	}
	h.register(c)

	go h.writePump(c)
	h.readPump(c)
}

func (h *Hub) readPump(c *connection) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMsgSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// Clients only receive events on this socket; inbound frames are ignored
	// but must be drained to notice disconnects and pongs.
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (h *Hub) writePump(c *connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

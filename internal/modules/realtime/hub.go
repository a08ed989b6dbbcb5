package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 64 * 1024 // 64 KB
)

// client is a single WebSocket connection with its room subscriptions.
type client struct {
	userID   int64
	username string
	conn     *websocket.Conn
	send     chan []byte
	rooms    map[int64]bool // subscribed document IDs
}

// Hub manages all active WebSocket connections and their document rooms.
// Connections are tracked individually: a user with several tabs open holds
// several connections, each with its own room subscriptions.
type Hub struct {
	mu          sync.RWMutex
	connections map[*client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		connections: make(map[*client]struct{}),
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.connections[c] = struct{}{}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.connections[c]; ok {
		delete(h.connections, c)
		close(c.send)
	}
}

func (h *Hub) join(c *client, documentID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.rooms[documentID] = true
}

func (h *Hub) leave(c *client, documentID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(c.rooms, documentID)
}

// InRoom reports whether any of the user's connections subscribes to the
// document's room.
func (h *Hub) InRoom(userID, documentID int64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.connections {
		if c.userID == userID && c.rooms[documentID] {
			return true
		}
	}
	return false
}

// BroadcastToRoom sends an event to every connection subscribed to the
// document's room, the sender included. Slow clients are skipped rather than
// blocking the room.
func (h *Hub) BroadcastToRoom(documentID int64, event *ServerMessage) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.connections {
		if c.rooms[documentID] {
			select {
			case c.send <- data:
			default:
				// Client too slow, skip
			}
		}
	}
}

func (h *Hub) sendToClient(c *client, event *ServerMessage) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func (h *Hub) writePump(c *client) {
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

package ws

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Event is one realtime notification pushed to connected clients.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// EventNewMessage announces a freshly sent message to every member of its
// conversation.
const EventNewMessage = "new_message"

// Hub tracks active WebSocket connections keyed by user ID. A user may hold
// several connections (multiple tabs/devices); events go to all of them.
type Hub struct {
	mu    sync.RWMutex
	conns map[int64]map[*websocket.Conn]struct{}
}

func NewHub() *Hub {
	return &Hub{
		conns: make(map[int64]map[*websocket.Conn]struct{}),
	}
}

// Register adds a connection for the given user.
func (h *Hub) Register(userID int64, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.conns[userID] == nil {
		h.conns[userID] = make(map[*websocket.Conn]struct{})
	}
	h.conns[userID][conn] = struct{}{}
}

// Unregister removes a connection for the given user.
func (h *Hub) Unregister(userID int64, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conns, ok := h.conns[userID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.conns, userID)
		}
	}
}

// Notify sends the event to every active connection of the given users.
// Delivery is best effort: failed connections are closed and cleaned up on
// their next Register/Unregister.
func (h *Hub) Notify(userIDs []int64, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, uid := range userIDs {
		for conn := range h.conns[uid] {
			if err := conn.WriteJSON(event); err != nil {
				conn.Close()
			}
		}
	}
}

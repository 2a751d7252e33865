package notification

import (
	"sync"

	"github.com/google/uuid"
)

// clientBuffer is the per-connection backlog before pushes are dropped.
const clientBuffer = 16

// Client is one connected in-app session. Messages arrive on Send until the
// client is unregistered, at which point Send is closed.
type Client struct {
	UserID uuid.UUID
	Send   chan []byte
}

// Hub fans in-app notifications out to every open session of a user.
type Hub struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[uuid.UUID]map[*Client]struct{})}
}

func (h *Hub) Register(userID uuid.UUID) *Client {
	c := &Client{UserID: userID, Send: make(chan []byte, clientBuffer)}

	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[userID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[userID] = set
	}
	set[c] = struct{}{}
	return c
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.UserID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	close(c.Send)
	if len(set) == 0 {
		delete(h.clients, c.UserID)
	}
}

// Broadcast queues payload for every session of userID and reports how many
// sessions accepted it. Sessions with a full backlog are skipped.
func (h *Hub) Broadcast(userID uuid.UUID, payload []byte) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for c := range h.clients[userID] {
		select {
		case c.Send <- payload:
			delivered++
		default:
		}
	}
	return delivered
}

// Connected returns the number of open sessions for userID.
func (h *Hub) Connected(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

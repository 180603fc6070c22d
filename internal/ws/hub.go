package ws

import (
	"sync"

	"ride-hailing/internal/observability"
)

// Hub is an unopinionated message relay: every payload received from any
// client is fanned out to all connected clients. The ride core never
// interprets these messages.
type Hub struct {
	clients map[string]*Client
	mu      sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
	}
}

func (h *Hub) AddClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.ID] = c
	observability.WSClientsConnected.Set(float64(len(h.clients)))
}

func (h *Hub) RemoveClient(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[id]; ok {
		delete(h.clients, id)
		close(c.send)
	}
	observability.WSClientsConnected.Set(float64(len(h.clients)))
}

// Broadcast delivers message to every connected client. A client whose send
// buffer is full is dropped rather than blocking the rest.
func (h *Hub) Broadcast(message []byte) {
	h.mu.RLock()
	slow := make([]string, 0)
	for id, client := range h.clients {
		select {
		case client.send <- message:
		default:
			slow = append(slow, id)
		}
	}
	h.mu.RUnlock()

	for _, id := range slow {
		h.RemoveClient(id)
	}
}

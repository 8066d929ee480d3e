package sse

import (
	"context"
	"fmt"
	"sync"

	"github.com/skillswap/skillswap/internal/domain/notification"
)

// Hub manages SSE clients.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*notification.SSEClient
}

var _ notification.SSEHub = (*Hub)(nil)

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*notification.SSEClient),
	}
}

func (h *Hub) Register(client *notification.SSEClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client.ClientID] = client
}

func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[clientID]; ok {
		c.Close()
		delete(h.clients, clientID)
	}
}

func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// BroadcastToUser queues message for every connection of userID and returns
// how many accepted it. Slow clients with a full buffer are skipped.
func (h *Hub) BroadcastToUser(userID string, message *notification.SSEMessage) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	sent := 0
	for _, c := range h.clients {
		if c.UserID != nil && *c.UserID == userID && trySend(c, message) {
			sent++
		}
	}
	return sent
}

func (h *Hub) SendToClient(clientID string, message *notification.SSEMessage) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	c := h.clients[clientID]
	if c == nil {
		return notification.ErrClientNotFound
	}
	if !trySend(c, message) {
		return notification.ErrChannelFull
	}
	return nil
}

func (h *Hub) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		c.Close()
		delete(h.clients, id)
	}
}

func trySend(c *notification.SSEClient, msg *notification.SSEMessage) bool {
	select {
	case c.MessageChan <- msg:
		return true
	default:
		return false
	}
}

// Sink delivers events to the recipient's open SSE connections. A recipient
// without connections is not an error; the event is simply not streamed.
type Sink struct {
	hub notification.SSEHub
}

var _ notification.Sink = (*Sink)(nil)

func NewSink(hub notification.SSEHub) *Sink {
	return &Sink{hub: hub}
}

func (s *Sink) Name() string { return "sse" }

func (s *Sink) Deliver(_ context.Context, e *notification.Event) error {
	msg, err := notification.EventMessage(e)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	s.hub.BroadcastToUser(e.RecipientID.String(), msg)
	return nil
}

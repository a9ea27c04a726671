package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/phtrivia/phtrivia-backend/internal/goroutine"
	"github.com/phtrivia/phtrivia-backend/internal/logger"
)

// EventSaver persists events pushed through the hub so users who were
// offline still see them later.
type EventSaver interface {
	SaveEvent(ctx context.Context, userID uuid.UUID, event string, data interface{}) error
}

// Hub tracks all websocket clients and routes per-user events.
type Hub struct {
	mu         sync.RWMutex
	clients    map[uuid.UUID]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan message
	eventSaver EventSaver
	ctx        context.Context
}

type message struct {
	userID  uuid.UUID
	payload []byte
}

// NewHub creates a hub bound to the process lifetime context.
func NewHub(ctx context.Context) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan message, 32),
		ctx:        ctx,
	}
}

// SetEventSaver attaches the persistence hook.
func (h *Hub) SetEventSaver(saver EventSaver) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.eventSaver = saver
}

// Run is the hub's main loop.
func (h *Hub) Run() {
	for {
		select {
		case <-h.ctx.Done():
			return
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case msg := <-h.broadcast:
			h.send(msg.userID, msg.payload)
		}
	}
}

// Register adds a client. Once the hub context is cancelled nobody
// drains the channel anymore, so the send must not block shutdown.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.ctx.Done():
	}
}

// Unregister removes a client.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.ctx.Done():
	}
}

// BroadcastToUser delivers an event to every connection of one user and
// persists it when an event saver is attached. The wire contract: "type"
// is the event name, "data" the payload.
func (h *Hub) BroadcastToUser(userID uuid.UUID, event string, data any) error {
	payload := map[string]any{
		"type": event,
		"data": data,
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("ws: marshal message: %w", err)
	}

	h.mu.RLock()
	saver := h.eventSaver
	ctx := h.ctx
	h.mu.RUnlock()

	if saver != nil {
		// Persist off the hot path; delivery does not wait for storage.
		goroutine.SafeGo(func() {
			if err := saver.SaveEvent(ctx, userID, event, data); err != nil {
				logger.Module("ws").WithError(err).Warn("failed to persist event")
			}
		})
	}

	select {
	case h.broadcast <- message{userID: userID, payload: raw}:
	case <-h.ctx.Done():
	}
	return nil
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.userID]; !ok {
		h.clients[client.userID] = make(map[*Client]struct{})
	}
	h.clients[client.userID][client] = struct{}{}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.clients[client.userID]
	if !ok {
		return
	}
	if _, ok := conns[client]; !ok {
		return
	}
	delete(conns, client)
	close(client.send)
	if len(conns) == 0 {
		delete(h.clients, client.userID)
	}
}

func (h *Hub) send(userID uuid.UUID, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[userID] {
		select {
		case client.send <- payload:
		default:
			// Slow consumer; drop the message rather than block the hub.
			logger.Module("ws").WithField("user_id", userID).Warn("dropping message for slow client")
		}
	}
}

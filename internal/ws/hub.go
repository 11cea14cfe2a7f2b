package ws

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/hackwithroshan/atootbandhan-sub000/internal/models"
	"github.com/hackwithroshan/atootbandhan-sub000/internal/observability"
	"github.com/hackwithroshan/atootbandhan-sub000/internal/rooms"
)

const wsRoutingKey = "ws_events.connections"

// Hub maps rooms to live connections. It is process-local and rebuilt from
// client re-registration on every reconnect.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	rooms   map[string]map[*Client]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		rooms:   make(map[string]map[*Client]struct{}),
	}
}

// Register makes a client eligible for delivery.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
}

// Authenticate binds the client to its personal room. Admins also receive the
// ticket feed. Several connections of one user share the personal room.
func (h *Hub) Authenticate(c *Client) {
	h.Join(c, rooms.User(c.identity.UserID))
	if c.identity.IsAdmin() {
		h.Join(c, rooms.AdminTicketFeed)
	}
}

// Join adds the client to room. Joining twice is a no-op.
func (h *Hub) Join(c *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	if _, ok := h.rooms[room]; !ok {
		h.rooms[room] = make(map[*Client]struct{})
	}
	h.rooms[room][c] = struct{}{}
	c.rooms[room] = struct{}{}
}

// Leave removes the client from room.
func (h *Hub) Leave(c *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(c, room)
}

func (h *Hub) leaveLocked(c *Client, room string) {
	if members, ok := h.rooms[room]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	delete(c.rooms, room)
}

// Remove drops the client from every room and closes its send queue.
func (h *Hub) Remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	for room := range c.rooms {
		h.leaveLocked(c, room)
	}
	delete(h.clients, c)
	close(c.send)
}

// RoomSize reports how many connections are in room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// EmitToRoom sends event to every connection in room. Connections whose queue
// is full are disconnected.
func (h *Hub) EmitToRoom(room string, event string, payload any) {
	frame, err := encode(event, payload)
	if err != nil {
		log.Printf("websocket encode error event=%s: %v", event, err)
		return
	}

	var slow []*Client
	h.mu.RLock()
	for c := range h.rooms[room] {
		if !c.enqueue(frame) {
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.Remove(c)
		h.publishWSError(c, "send queue full")
	}
	observability.IncWSEvent("out", event)
}

// EmitToUser sends event to every connection of userID.
func (h *Hub) EmitToUser(userID int, event string, payload any) {
	h.EmitToRoom(rooms.User(userID), event, payload)
}

// Send delivers event to one connection only.
func (h *Hub) Send(c *Client, event string, payload any) {
	frame, err := encode(event, payload)
	if err != nil {
		log.Printf("websocket encode error event=%s: %v", event, err)
		return
	}
	h.mu.RLock()
	_, ok := h.clients[c]
	delivered := ok && c.enqueue(frame)
	h.mu.RUnlock()
	if ok && !delivered {
		h.Remove(c)
		h.publishWSError(c, "send queue full")
	}
}

func (h *Hub) publishWSError(c *Client, reason string) {
	observability.IncWSEvent("in", "ws_error")
	_ = observability.PublishEvent(context.Background(), wsRoutingKey, observability.EventEnvelope{
		EventType: "ws_events",
		EventName: "ws_error",
		Payload:   c.info.payload("ws_error", reason),
	}, observability.BuildHeaders(c.info.RequestID, c.info.TraceID))
}

func encode(event string, payload any) ([]byte, error) {
	return json.Marshal(models.OutboundEnvelope{Event: event, Data: payload})
}

// payload is the body of ws lifecycle events published to the exchange.
func (i ConnInfo) payload(event, reason string) map[string]interface{} {
	return map[string]interface{}{
		"ws": map[string]interface{}{
			"event":       event,
			"conn_id":     i.ConnID,
			"duration_ms": time.Since(i.ConnectedAt).Milliseconds(),
			"reason":      reason,
		},
		"identity": map[string]interface{}{
			"user_id":   i.UserID,
			"device_id": i.DeviceID,
			"ip":        i.IP,
		},
	}
}

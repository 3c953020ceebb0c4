// Package ws is the in-process notification channel. Interested
// clients (a doctor's dashboard, the reception desk) hold a websocket
// open and join topics; the admission workflow publishes admit and
// discharge events to those topics. Delivery is best effort: a slow
// client is skipped, and nothing in the clinical workflow waits on it.
package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Topic names mirror the rooms the hospital frontends join.
const (
	TopicReceptionists = "receptionist_room"
)

// DoctorTopic returns the per-doctor topic name.
func DoctorTopic(doctorID uuid.UUID) string {
	return "doctor_" + doctorID.String()
}

// Event is one notification pushed to subscribed clients.
type Event struct {
	Type         string          `json:"type"` // e.g. "ipd.admitted", "ipd.discharged"
	Topic        string          `json:"topic"`
	ResourceType string          `json:"resource_type"`
	ResourceID   string          `json:"resource_id,omitempty"`
	Timestamp    time.Time       `json:"timestamp"`
	Data         json.RawMessage `json:"data,omitempty"`
}

// EventPublisher is what the services depend on. The hub implements it;
// tests substitute a recorder. Constructed once in main and injected,
// never looked up through a package-level handle.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// clientMessage is an inbound join/leave request from a client.
type clientMessage struct {
	Action string   `json:"action"` // "join" | "leave"
	Topics []string `json:"topics"`
}

type client struct {
	id     string
	topics []string
	send   chan []byte
}

// Hub tracks connected clients and their topic memberships.
// All operations are safe for concurrent use.
type Hub struct {
	log *zap.Logger

	mu      sync.RWMutex
	byTopic map[string]map[*client]struct{}
	all     map[*client]struct{}
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		log:     log,
		byTopic: make(map[string]map[*client]struct{}),
		all:     make(map[*client]struct{}),
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.all[c] = struct{}{}
	for _, t := range c.topics {
		if h.byTopic[t] == nil {
			h.byTopic[t] = make(map[*client]struct{})
		}
		h.byTopic[t][c] = struct{}{}
	}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.all[c]; !ok {
		return
	}
	for _, t := range c.topics {
		if members, ok := h.byTopic[t]; ok {
			delete(members, c)
			if len(members) == 0 {
				delete(h.byTopic, t)
			}
		}
	}
	delete(h.all, c)
	close(c.send)
}

func (h *Hub) join(c *client, topics []string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, t := range topics {
		if h.byTopic[t] == nil {
			h.byTopic[t] = make(map[*client]struct{})
		}
		h.byTopic[t][c] = struct{}{}
	}
	c.topics = append(c.topics, topics...)
}

func (h *Hub) leave(c *client, topics []string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	drop := make(map[string]struct{}, len(topics))
	for _, t := range topics {
		drop[t] = struct{}{}
		if members, ok := h.byTopic[t]; ok {
			delete(members, c)
			if len(members) == 0 {
				delete(h.byTopic, t)
			}
		}
	}

	kept := c.topics[:0]
	for _, t := range c.topics {
		if _, ok := drop[t]; !ok {
			kept = append(kept, t)
		}
	}
	c.topics = kept
}

func (h *Hub) dispatch(c *client, msg clientMessage) {
	switch msg.Action {
	case "join":
		h.join(c, msg.Topics)
	case "leave":
		h.leave(c, msg.Topics)
	}
}

// Publish broadcasts the event to every client on the event's topic.
// It never blocks on a client: full send buffers are skipped.
func (h *Hub) Publish(_ context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		h.log.Error("marshaling notification event", zap.Error(err))
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.byTopic[event.Topic] {
		select {
		case c.send <- payload:
		default:
			// Slow consumer; drop rather than stall the publisher.
		}
	}
	return nil
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.all)
}

// TopicCount returns the number of clients joined to a topic.
func (h *Hub) TopicCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.byTopic[topic])
}

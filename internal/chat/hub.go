package chat

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
)

// Topic addressing for the pub/sub fan-out. Delivery is fire-and-forget:
// there is no acknowledgment and no replay, a disconnected client misses
// events.
const (
	TopicGlobal      = "chat:global"
	TopicRoomsUpdate = "chat:rooms"
)

func RoomTopic(roomID uint) string { return fmt.Sprintf("room:%d", roomID) }
func DeptTopic(deptID int) string  { return fmt.Sprintf("dept:%d", deptID) }
func UserTopic(empID uint) string  { return fmt.Sprintf("user:%d", empID) }

// Event is the wire envelope pushed to subscribers.
type Event struct {
	Topic   string `json:"topic"`
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type subscriber struct {
	empID  uint
	deptID int
	send   chan []byte
	once   sync.Once
	topics map[string]struct{}
	// Set under the hub mutex when the subscriber is dropped. A dropped
	// subscriber's send channel is closed, so it must never be registered
	// again.
	closed bool
}

func (s *subscriber) close() {
	s.once.Do(func() { close(s.send) })
}

// Hub fans events out to websocket subscribers by topic. A subscriber whose
// send buffer is full is dropped rather than blocking the publisher.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[*subscriber]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[*subscriber]struct{})}
}

func (h *Hub) subscribe(s *subscriber, topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if s.closed {
		return
	}
	if h.subs[topic] == nil {
		h.subs[topic] = make(map[*subscriber]struct{})
	}
	h.subs[topic][s] = struct{}{}
	s.topics[topic] = struct{}{}
}

func (h *Hub) unsubscribe(s *subscriber, topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.subs[topic]; ok {
		delete(set, s)
		if len(set) == 0 {
			delete(h.subs, topic)
		}
	}
	delete(s.topics, topic)
}

func (h *Hub) drop(s *subscriber) {
	h.mu.Lock()
	s.closed = true
	for topic := range s.topics {
		if set, ok := h.subs[topic]; ok {
			delete(set, s)
			if len(set) == 0 {
				delete(h.subs, topic)
			}
		}
	}
	h.mu.Unlock()
	s.close()
}

// Publish sends the event to every current subscriber of its topic.
func (h *Hub) Publish(topic, eventType string, payload any) {
	data, err := json.Marshal(Event{Topic: topic, Type: eventType, Payload: payload})
	if err != nil {
		log.Printf("hub: could not marshal event %s on %s: %v", eventType, topic, err)
		return
	}

	h.mu.RLock()
	targets := make([]*subscriber, 0, len(h.subs[topic]))
	for s := range h.subs[topic] {
		targets = append(targets, s)
	}
	h.mu.RUnlock()

	for _, s := range targets {
		select {
		case s.send <- data:
		default:
			// Slow consumer: drop it instead of stalling everyone else.
			h.drop(s)
		}
	}
}

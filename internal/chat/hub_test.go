package chat

import (
	"encoding/json"
	"testing"
)

func newTestSubscriber(buf int) *subscriber {
	return &subscriber{
		send:   make(chan []byte, buf),
		topics: make(map[string]struct{}),
	}
}

func TestPublishReachesSubscribers(t *testing.T) {
	hub := NewHub()
	a := newTestSubscriber(4)
	b := newTestSubscriber(4)
	hub.subscribe(a, TopicGlobal)
	hub.subscribe(b, TopicGlobal)

	hub.Publish(TopicGlobal, "message", map[string]any{"text": "hello"})

	for _, s := range []*subscriber{a, b} {
		select {
		case raw := <-s.send:
			var ev Event
			if err := json.Unmarshal(raw, &ev); err != nil {
				t.Fatalf("unmarshal event: %v", err)
			}
			if ev.Topic != TopicGlobal || ev.Type != "message" {
				t.Errorf("event = %+v", ev)
			}
		default:
			t.Fatal("subscriber received nothing")
		}
	}
}

func TestPublishSkipsOtherTopics(t *testing.T) {
	hub := NewHub()
	s := newTestSubscriber(4)
	hub.subscribe(s, RoomTopic(1))

	hub.Publish(RoomTopic(2), "message", nil)

	select {
	case <-s.send:
		t.Fatal("subscriber received an event for a foreign topic")
	default:
	}
}

func TestSlowSubscriberDropped(t *testing.T) {
	hub := NewHub()
	s := newTestSubscriber(1)
	hub.subscribe(s, TopicGlobal)

	// Second publish overflows the buffer and drops the subscriber.
	hub.Publish(TopicGlobal, "message", 1)
	hub.Publish(TopicGlobal, "message", 2)

	hub.mu.RLock()
	_, still := hub.subs[TopicGlobal][s]
	hub.mu.RUnlock()
	if still {
		t.Error("slow subscriber still registered")
	}

	// Channel must be closed so the writer goroutine exits.
	if _, ok := <-s.send; !ok {
		t.Error("expected one buffered event before close")
	}
	if _, ok := <-s.send; ok {
		t.Error("send channel not closed after drop")
	}
}

func TestDroppedSubscriberCannotResubscribe(t *testing.T) {
	hub := NewHub()
	s := newTestSubscriber(1)
	hub.subscribe(s, TopicGlobal)

	// Overflow the buffer so the hub drops the subscriber and closes its
	// send channel.
	hub.Publish(TopicGlobal, "message", 1)
	hub.Publish(TopicGlobal, "message", 2)

	// A late subscribe frame from the connection's read loop must be
	// refused; otherwise the next publish would write to a closed channel.
	hub.subscribe(s, TopicGlobal)

	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("Publish panicked after re-subscribe of a dropped subscriber: %v", r)
		}
	}()
	hub.Publish(TopicGlobal, "message", 3)

	hub.mu.RLock()
	_, still := hub.subs[TopicGlobal][s]
	hub.mu.RUnlock()
	if still {
		t.Error("dropped subscriber was registered again")
	}
}

func TestUnsubscribe(t *testing.T) {
	hub := NewHub()
	s := newTestSubscriber(4)
	hub.subscribe(s, RoomTopic(7))
	hub.unsubscribe(s, RoomTopic(7))

	hub.Publish(RoomTopic(7), "message", nil)

	select {
	case <-s.send:
		t.Fatal("unsubscribed subscriber received an event")
	default:
	}
}

func TestAllowedTopic(t *testing.T) {
	s := &subscriber{empID: 9}
	if !allowedTopic(s, UserTopic(9)) {
		t.Error("own user topic must be allowed")
	}
	if allowedTopic(s, UserTopic(10)) {
		t.Error("foreign user topic must be rejected")
	}
	if !allowedTopic(s, RoomTopic(3)) {
		t.Error("room topics are open at subscribe time")
	}
}

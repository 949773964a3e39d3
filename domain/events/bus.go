package events

import (
	"log/slog"
	"sync"

	"github.com/soocke/sawbot-go/domain/geometry"
)

// Topic names a push event. Backend topics use the backend's wire names.
type Topic string

const (
	TopicEmergencyStop   Topic = "emergency-stop"
	TopicAreaSelected    Topic = "area-selected"
	TopicBackendLog      Topic = "backend-log"
	TopicDrawingFinished Topic = "drawing-finished"
)

// Event is a single published occurrence. Payload is one of the payload
// types below, or nil for topics without a payload.
type Event struct {
	Topic   Topic
	Payload any
}

// AreaSelected is the payload of TopicAreaSelected, in absolute screen coordinates.
type AreaSelected struct {
	Rect geometry.Rect
}

// BackendLog is the payload of TopicBackendLog.
type BackendLog struct {
	Level   string
	Message string
}

// Handler consumes an event. Handlers run on the publisher's goroutine and
// must not close their own subscription.
type Handler func(Event)

// Bus is a small synchronous topic bus. The zero value is not usable; use NewBus.
type Bus struct {
	mu     sync.RWMutex
	subs   map[Topic]map[*Subscription]struct{}
	logger *slog.Logger
}

func NewBus(logger *slog.Logger) *Bus {
	return &Bus{subs: make(map[Topic]map[*Subscription]struct{}), logger: logger}
}

// Subscription is the handle returned by Subscribe. Once Close returns, the
// handler is never invoked again.
type Subscription struct {
	bus     *Bus
	topic   Topic
	handler Handler
	mu      sync.Mutex
	closed  bool
}

// Subscribe registers h for topic.
func (b *Bus) Subscribe(topic Topic, h Handler) *Subscription {
	s := &Subscription{bus: b, topic: topic, handler: h}
	b.mu.Lock()
	set := b.subs[topic]
	if set == nil {
		set = make(map[*Subscription]struct{})
		b.subs[topic] = set
	}
	set[s] = struct{}{}
	b.mu.Unlock()
	return s
}

// Publish delivers ev to every live subscriber of ev.Topic.
func (b *Bus) Publish(ev Event) {
	if b == nil {
		return
	}
	b.mu.RLock()
	targets := make([]*Subscription, 0, len(b.subs[ev.Topic]))
	for s := range b.subs[ev.Topic] {
		targets = append(targets, s)
	}
	b.mu.RUnlock()
	if len(targets) == 0 && b.logger != nil {
		b.logger.Debug("event dropped, no subscribers", "topic", string(ev.Topic))
	}
	for _, s := range targets {
		s.deliver(ev)
	}
}

// deliver holds the subscription lock across the handler so Close cannot
// complete while a delivery is running.
func (s *Subscription) deliver(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	defer func() {
		if r := recover(); r != nil && s.bus.logger != nil {
			s.bus.logger.Error("event handler panic", "topic", string(ev.Topic), "error", r)
		}
	}()
	s.handler(ev)
}

// Close releases the subscription. Safe to call more than once.
func (s *Subscription) Close() {
	if s == nil {
		return
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	b := s.bus
	b.mu.Lock()
	if set := b.subs[s.topic]; set != nil {
		delete(set, s)
		if len(set) == 0 {
			delete(b.subs, s.topic)
		}
	}
	b.mu.Unlock()
}

// Count returns the number of live subscribers for topic.
func (b *Bus) Count(topic Topic) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}

package events

import (
	"sync"

	"lootvault/internal/clock"
)

// Handler receives published events. Delivery is synchronous and
// fire-and-forget: handlers must not block.
type Handler func(Event)

// Bus fans events out to registered handlers. Subscribers get an
// unsubscribe func and are expected to call it on teardown.
type Bus struct {
	mu     sync.RWMutex
	subs   map[Type]map[int]Handler
	all    map[int]Handler
	nextID int
	clock  clock.Clock
}

// NewBus builds a bus that stamps events from c. A nil clock reads the
// system clock.
func NewBus(c clock.Clock) *Bus {
	if c == nil {
		c = clock.RealClock{}
	}
	return &Bus{
		subs:  map[Type]map[int]Handler{},
		all:   map[int]Handler{},
		clock: c,
	}
}

// Subscribe registers a handler for one event type.
func (b *Bus) Subscribe(t Type, fn Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	if b.subs[t] == nil {
		b.subs[t] = map[int]Handler{}
	}
	b.subs[t][id] = fn

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs[t], id)
	}
}

// SubscribeAll registers a handler for every event type.
func (b *Bus) SubscribeAll(fn Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.all[id] = fn

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.all, id)
	}
}

// Publish delivers an event to all matching handlers. No delivery
// guarantees; a handler added mid-publish sees the next event.
func (b *Bus) Publish(t Type, playerID string, metadata Metadata) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs[t])+len(b.all))
	for _, fn := range b.subs[t] {
		handlers = append(handlers, fn)
	}
	for _, fn := range b.all {
		handlers = append(handlers, fn)
	}
	b.mu.RUnlock()

	ev := Event{
		Type:      t,
		PlayerID:  playerID,
		Timestamp: b.clock.Now(),
		Metadata:  metadata,
	}
	for _, fn := range handlers {
		fn(ev)
	}
}

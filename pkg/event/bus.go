package event

import "sync"

// Listener receives events. Listeners are invoked synchronously and must
// not block.
type Listener func(Event)

// Bus fans out events to subscribers in registration order.
type Bus struct {
	mu        sync.Mutex
	listeners []Listener
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe appends a listener. Listeners cannot be removed; subscribe once
// at setup time.
func (b *Bus) Subscribe(l Listener) {
	if l == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = append(b.listeners, l)
}

// Emit delivers the event to every subscriber, in registration order, on
// the calling goroutine. Panics in subscribers are not contained.
func (b *Bus) Emit(e Event) {
	b.mu.Lock()
	listeners := make([]Listener, len(b.listeners))
	copy(listeners, b.listeners)
	b.mu.Unlock()

	for _, l := range listeners {
		l(e)
	}
}

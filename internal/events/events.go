// Package events lets a UI layer observe storefront state changes without
// watching the store itself.
package events

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

type Kind string

const (
	SessionChanged Kind = "session.changed"
	UsersChanged   Kind = "users.changed"
	CartChanged    Kind = "cart.changed"
	CatalogChanged Kind = "catalog.changed"
	OrderPlaced    Kind = "order.placed"
	OrderUpdated   Kind = "order.updated"
)

// Event carries the kind of change and, where it makes sense, the id of the
// entity that changed (order id, product id, user id).
type Event struct {
	Kind    Kind
	Subject string
	At      time.Time
}

type Publisher interface {
	Publish(Event)
}

type discard struct{}

func (discard) Publish(Event) {}

// Discard drops every event.
var Discard Publisher = discard{}

// Bus fans events out to subscribers over buffered channels. Publish never
// blocks: a subscriber whose buffer is full misses the event.
type Bus struct {
	mu     sync.RWMutex
	subs   map[int]chan Event
	nextID int
	closed bool
	logger *zap.Logger
}

func NewBus(logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{subs: make(map[int]chan Event), logger: logger}
}

// Subscribe returns a channel of future events and a func that stops
// delivery and closes the channel. Calling cancel more than once is safe.
func (b *Bus) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Event, buffer)

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		close(ch)
		return ch, func() {}
	}

	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if sub, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(sub)
			}
		})
	}
}

func (b *Bus) Publish(e Event) {
	if e.At.IsZero() {
		e.At = time.Now()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}
	for id, ch := range b.subs {
		select {
		case ch <- e:
		default:
			b.logger.Warn("dropping event for slow subscriber",
				zap.String("kind", string(e.Kind)),
				zap.Int("subscriber", id))
		}
	}
}

// Close closes every subscriber channel. Later publishes are ignored.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}

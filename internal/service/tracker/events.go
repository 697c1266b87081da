package tracker

import (
	"sync"

	"github.com/google/uuid"

	"github.com/ShubhamPP04/todo-list/internal/domain"
)

// EventType identifies a controller notification.
type EventType string

const (
	// EventLoadCompleted fires after a load lands (fresh or degraded).
	EventLoadCompleted EventType = "load-completed"
	// EventQueryChanged fires after the active query is replaced.
	EventQueryChanged EventType = "query-changed"
	// EventPageChanged fires when the visible page or page count changes.
	EventPageChanged EventType = "page-changed"
	// EventRecordCreated fires after a record is created and appended.
	EventRecordCreated EventType = "record-created"
)

// Event is a typed notification published by the controller.
type Event struct {
	Type       EventType
	Page       int
	TotalPages int

	// Degraded is set on load-completed events served from local data
	// only; Cause carries the classified remote failure.
	Degraded bool
	Cause    error

	// Record is set on record-created events.
	Record *domain.Record
}

// Bus delivers controller events to subscribers synchronously, in
// unspecified order. Handlers run on the publishing goroutine and must
// not call back into the controller.
type Bus struct {
	mu   sync.RWMutex
	subs map[uuid.UUID]func(Event)
}

// NewBus creates an empty Bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[uuid.UUID]func(Event))}
}

// Subscribe registers a handler and returns a token for Unsubscribe.
func (b *Bus) Subscribe(fn func(Event)) uuid.UUID {
	token := uuid.New()

	b.mu.Lock()
	b.subs[token] = fn
	b.mu.Unlock()

	return token
}

// Unsubscribe removes the handler registered under token. Unknown tokens
// are ignored.
func (b *Bus) Unsubscribe(token uuid.UUID) {
	b.mu.Lock()
	delete(b.subs, token)
	b.mu.Unlock()
}

// Publish delivers the event to every current subscriber.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	handlers := make([]func(Event), 0, len(b.subs))
	for _, fn := range b.subs {
		handlers = append(handlers, fn)
	}
	b.mu.RUnlock()

	for _, fn := range handlers {
		fn(event)
	}
}

package event

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
)

// Type names an event, e.g. "crafting.completed"
type Type string

// Event is a versioned message published on the bus. Metadata carries
// routing keys such as the crafter id; Payload carries the typed body.
type Event struct {
	Version  string         `json:"version"`
	Type     Type           `json:"type"`
	Payload  any            `json:"payload"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

func New(eventType Type, payload any, metadata map[string]any) Event {
	return Event{Version: EventSchemaVersion, Type: eventType, Payload: payload, Metadata: metadata}
}

// Meta returns the string stored under key, or "" when absent or not a string
func (e Event) Meta(key string) string {
	s, _ := e.Metadata[key].(string)
	return s
}

type Handler func(ctx context.Context, event Event) error

// Bus delivers published events to the handlers subscribed to their type
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus runs handlers synchronously on the publisher's goroutine, in
// subscription order.
type MemoryBus struct {
	mu       sync.RWMutex
	handlers map[Type][]Handler
}

func NewMemoryBus() *MemoryBus {
	return &MemoryBus{handlers: make(map[Type][]Handler)}
}

// Publish runs every handler even when an earlier one fails and returns the
// joined failures.
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := slices.Clone(b.handlers[event.Type])
	b.mu.RUnlock()

	var errs []error
	for _, h := range handlers {
		if err := h(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf(ErrMsgHandlerErrorsFormat, len(errs), event.Type, errors.Join(errs...))
}

func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
	b.mu.Unlock()
}

func (b *MemoryBus) HasSubscribers(eventType Type) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[eventType]) > 0
}

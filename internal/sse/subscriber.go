package sse

import (
	"context"
	"log/slog"

	"github.com/osse101/ashfall/internal/domain"
	"github.com/osse101/ashfall/internal/event"
	"github.com/osse101/ashfall/internal/logger"
)

// StreamedTypes are the bus events forwarded to stream clients
var StreamedTypes = []event.Type{
	domain.EventTypeCraftStarted,
	domain.EventTypeCraftCompleted,
	domain.EventTypeCraftBlocked,
	domain.EventTypeCraftCancelled,
	domain.EventTypeItemDisassembled,
	domain.EventTypeRecipeLearned,
	domain.EventTypeTrapTriggered,
}

// Subscriber bridges the event bus to a hub
type Subscriber struct {
	hub *Hub
}

// NewSubscriber creates a subscriber feeding hub
func NewSubscriber(hub *Hub) *Subscriber {
	return &Subscriber{hub: hub}
}

// Register subscribes to every streamed event type
func (s *Subscriber) Register(bus event.Bus) {
	for _, t := range StreamedTypes {
		bus.Subscribe(t, s.HandleEvent)
	}
	slog.Info(LogMsgSubscribed, "types", len(StreamedTypes))
}

// HandleEvent forwards evt to the hub. Stream delivery never fails the publisher.
func (s *Subscriber) HandleEvent(ctx context.Context, evt event.Event) error {
	out := Event{
		Type:    string(evt.Type),
		Crafter: evt.Meta(metadataKeyCrafter),
		Payload: evt.Payload,
	}
	log := logger.FromContext(ctx)
	if !s.hub.Broadcast(out) {
		log.Warn(LogMsgEventDropped, "type", evt.Type)
		return nil
	}
	log.Debug(LogMsgEventBroadcast, "type", evt.Type, "crafter", out.Crafter)
	return nil
}

package metrics

import (
	"context"

	"github.com/osse101/ashfall/internal/crafting"
	"github.com/osse101/ashfall/internal/domain"
	"github.com/osse101/ashfall/internal/event"
	"github.com/osse101/ashfall/internal/logger"
	"github.com/osse101/ashfall/internal/trap"
)

// EventMetricsCollector subscribes to events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all events
func (e *EventMetricsCollector) Register(bus event.Bus) error {
	eventTypes := []event.Type{
		domain.EventTypeCraftStarted,
		domain.EventTypeCraftCompleted,
		domain.EventTypeCraftBlocked,
		domain.EventTypeCraftCancelled,
		domain.EventTypeItemDisassembled,
		domain.EventTypeRecipeLearned,
		domain.EventTypeTrapTriggered,
	}

	for _, eventType := range eventTypes {
		bus.Subscribe(eventType, e.HandleEvent)
	}

	return nil
}

// HandleEvent processes events and updates metrics. A payload that does not
// decode is counted as a handler error but never fails the publisher.
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	if err := record(evt); err != nil {
		EventHandlerErrors.WithLabelValues(string(evt.Type)).Inc()
		log.Debug(LogMsgPayloadDecodeFailed, "type", evt.Type, "error", err)
		return nil
	}

	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}

func record(evt event.Event) error {
	switch evt.Type {
	case domain.EventTypeCraftStarted, domain.EventTypeCraftCompleted, domain.EventTypeCraftCancelled:
		p, err := event.DecodePayload[crafting.CraftPayload](evt.Payload)
		if err != nil {
			return err
		}
		switch evt.Type {
		case domain.EventTypeCraftStarted:
			CraftsStarted.WithLabelValues(p.Recipe).Inc()
			CraftMoves.WithLabelValues(p.Recipe).Observe(float64(p.Moves))
		case domain.EventTypeCraftCompleted:
			CraftsCompleted.WithLabelValues(p.Recipe).Inc()
			ItemsProduced.WithLabelValues(p.Recipe).Add(float64(p.Produced))
		default:
			CraftsCancelled.WithLabelValues(p.Recipe).Inc()
		}

	case domain.EventTypeCraftBlocked:
		p, err := event.DecodePayload[crafting.CraftBlockedPayload](evt.Payload)
		if err != nil {
			return err
		}
		CraftsBlocked.WithLabelValues(p.Recipe).Inc()

	case domain.EventTypeItemDisassembled:
		p, err := event.DecodePayload[crafting.ItemDisassembledPayload](evt.Payload)
		if err != nil {
			return err
		}
		ItemsDisassembled.WithLabelValues(p.Item).Inc()

	case domain.EventTypeRecipeLearned:
		p, err := event.DecodePayload[crafting.RecipeLearnedPayload](evt.Payload)
		if err != nil {
			return err
		}
		RecipesLearned.WithLabelValues(p.Source).Inc()

	case domain.EventTypeTrapTriggered:
		p, err := event.DecodePayload[trap.TriggeredPayload](evt.Payload)
		if err != nil {
			return err
		}
		TrapsTriggered.WithLabelValues(p.Action).Inc()
	}
	return nil
}

package trap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/osse101/ashfall/internal/domain"
	"github.com/osse101/ashfall/internal/event"
	"github.com/osse101/ashfall/internal/logger"
)

// ErrTrapNotFound is returned when a trap id is not in the set
var ErrTrapNotFound = errors.New("trap not found")

// TriggeredPayload is the payload of trap.triggered
type TriggeredPayload struct {
	Trap      string `json:"trap"`
	Action    string `json:"action"`
	Victim    string `json:"victim,omitempty"`
	Damage    int    `json:"damage"`
	Removed   bool   `json:"removed"`
	Timestamp int64  `json:"timestamp"`
}

// Fire triggers trap id on v and publishes trap.triggered unless the handler
// skipped the victim. bus may be nil.
func (s *Set) Fire(ctx context.Context, bus event.Bus, id string, v *Victim, rnd Rand) (Outcome, error) {
	t, ok := s.Get(id)
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %s", ErrTrapNotFound, id)
	}
	out := t.Trigger(ctx, v, rnd)
	if out.Skipped || bus == nil {
		return out, nil
	}

	p := TriggeredPayload{
		Trap:      t.ID,
		Action:    t.Action,
		Damage:    out.TotalDamage(),
		Removed:   out.Removed,
		Timestamp: time.Now().Unix(),
	}
	if v != nil {
		p.Victim = v.Name
	}
	evt := event.New(domain.EventTypeTrapTriggered, p, map[string]interface{}{"trap": t.ID})
	if err := bus.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn(LogMsgPublishFailed, "trap", t.ID, "error", err)
	}
	return out, nil
}

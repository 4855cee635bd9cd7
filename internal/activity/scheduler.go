package activity

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/osse101/ashfall/internal/domain"
	"github.com/osse101/ashfall/internal/logger"
)

// Scheduler tracks running activities and advances them turn by turn. Nothing
// runs in the background: the simulation step calls Tick and handles whatever
// completed.
type Scheduler struct {
	mu     sync.Mutex
	active map[uuid.UUID]*Activity
	order  []uuid.UUID
}

// NewScheduler creates an empty scheduler
func NewScheduler() *Scheduler {
	return &Scheduler{active: make(map[uuid.UUID]*Activity)}
}

// Schedule starts a. Scheduling an id that is already running keeps its
// elapsed moves, so a resumed craft does not start over.
func (s *Scheduler) Schedule(ctx context.Context, a Activity) error {
	if a.ID == uuid.Nil {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgNilActivityID)
	}
	if a.Moves < 0 {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgNegativeMoves)
	}
	log := logger.FromContext(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if cur, ok := s.active[a.ID]; ok {
		a.Elapsed = max(a.Elapsed, cur.Elapsed)
		*cur = a
		log.Debug(LogMsgActivityResumed, "activity_id", a.ID, "elapsed", a.Elapsed, "moves", a.Moves)
		return nil
	}
	s.active[a.ID] = &a
	s.order = append(s.order, a.ID)
	log.Debug(LogMsgActivityScheduled, "activity_id", a.ID, "kind", a.Kind, "moves", a.Moves)
	return nil
}

// Tick spends moves on every running activity and returns, in scheduling
// order, those that finished. Finished activities are no longer tracked.
func (s *Scheduler) Tick(ctx context.Context, moves int) []Activity {
	s.mu.Lock()
	defer s.mu.Unlock()

	var done []Activity
	kept := s.order[:0]
	for _, id := range s.order {
		a := s.active[id]
		a.Elapsed = min(a.Elapsed+max(moves, 0), a.Moves)
		if a.Done() {
			done = append(done, *a)
			delete(s.active, id)
			continue
		}
		kept = append(kept, id)
	}
	s.order = kept

	log := logger.FromContext(ctx)
	for _, a := range done {
		log.Debug(LogMsgActivityCompleted, "activity_id", a.ID, "kind", a.Kind)
	}
	return done
}

// Cancel drops an activity, discarding its progress
func (s *Scheduler) Cancel(ctx context.Context, id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.active[id]; !ok {
		return false
	}
	delete(s.active, id)
	for i, cur := range s.order {
		if cur == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	logger.FromContext(ctx).Debug(LogMsgActivityCancelled, "activity_id", id)
	return true
}

// Get returns a copy of a running activity
func (s *Scheduler) Get(id uuid.UUID) (Activity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.active[id]
	if !ok {
		return Activity{}, false
	}
	return *a, true
}

// Active returns every running activity in scheduling order
func (s *Scheduler) Active() []Activity {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Activity, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.active[id])
	}
	return out
}

// Len returns the number of running activities
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

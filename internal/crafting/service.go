package crafting

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/osse101/ashfall/internal/activity"
	"github.com/osse101/ashfall/internal/concurrency"
	"github.com/osse101/ashfall/internal/craft"
	"github.com/osse101/ashfall/internal/domain"
	"github.com/osse101/ashfall/internal/event"
	"github.com/osse101/ashfall/internal/logger"
	"github.com/osse101/ashfall/internal/recipe"
	"github.com/osse101/ashfall/internal/recipedict"
	"github.com/osse101/ashfall/internal/selection"
)

// Crafter is a craft.Crafter that can take the products of a craft
type Crafter interface {
	craft.Crafter
	Receive(items ...domain.Item)
}

// Result describes how a craft ended
type Result struct {
	CraftID    uuid.UUID     `json:"craft_id"`
	Recipe     string        `json:"recipe"`
	Batch      int           `json:"batch"`
	Consumed   []domain.Item `json:"consumed,omitempty"`
	Produced   []domain.Item `json:"produced,omitempty"`
	Byproducts []domain.Item `json:"byproducts,omitempty"`
	Learned    bool          `json:"learned"`
	Cancelled  bool          `json:"cancelled"`
}

// Service drives crafting attempts from start to completion
type Service interface {
	AvailableRecipes(ctx context.Context, c Crafter) ([]*recipe.Recipe, error)
	AvailableBatchSizes(ctx context.Context, c Crafter, ident string) ([]int, error)
	KnowsRecipe(ctx context.Context, c craft.Crafter, r *recipe.Recipe) (bool, error)
	LearnRecipe(ctx context.Context, crafterID, ident, source string) (bool, error)
	LearnFromBook(ctx context.Context, c Crafter, book string) ([]string, error)

	StartCraft(ctx context.Context, c Crafter, ident string, batch int, long bool) (*craft.Command, error)
	RetryCraft(ctx context.Context, id uuid.UUID) (*Result, error)
	CompleteCraft(ctx context.Context, id uuid.UUID) (*Result, error)
	CancelCraft(ctx context.Context, id uuid.UUID) error
	Craft(id uuid.UUID) (*craft.Command, bool)
	Tick(ctx context.Context, moves int) ([]*Result, error)

	Suspend(ctx context.Context, id uuid.UUID) error
	Resume(ctx context.Context, c Crafter, id uuid.UUID) (*craft.Command, error)
	Suspended(ctx context.Context, crafterID string) ([]activity.Record, error)

	Disassemble(ctx context.Context, c Crafter, itemTypeID string) (*DisassembleResult, error)
}

type tracked struct {
	cmd      *craft.Command
	crafter  Crafter
	finished bool
}

type service struct {
	dict     *recipedict.Dictionary
	catalog  domain.Catalog
	known    KnownRecipeRepository
	sched    *activity.Scheduler
	store    activity.Store
	bus      event.Bus
	prompter craft.Prompter

	mu     sync.Mutex
	crafts map[uuid.UUID]*tracked
	// crafter locks serialize selection and consumption on one inventory
	locks *concurrency.LockManager
}

// NewService creates a crafting service. bus may be nil.
func NewService(dict *recipedict.Dictionary, catalog domain.Catalog, known KnownRecipeRepository,
	sched *activity.Scheduler, store activity.Store, bus event.Bus, prompter craft.Prompter) Service {
	return &service{
		dict:     dict,
		catalog:  catalog,
		known:    known,
		sched:    sched,
		store:    store,
		bus:      bus,
		prompter: prompter,
		crafts:   make(map[uuid.UUID]*tracked),
		locks:    concurrency.NewLockManager(),
	}
}

func (s *service) publish(ctx context.Context, evt event.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn(LogMsgPublishFailed, "event_type", evt.Type, "error", err)
	}
}

func (s *service) itemType(typeID string) (domain.ItemType, bool) {
	if s.catalog == nil {
		return domain.ItemType{}, false
	}
	return s.catalog.ItemType(typeID)
}

func (s *service) itemName(typeID string) string {
	if t, ok := s.itemType(typeID); ok {
		return t.Name
	}
	return typeID
}

func (s *service) notFound(ident string) error {
	if names := s.dict.Suggest(ident, SuggestLimit); len(names) > 0 {
		return fmt.Errorf("%w: "+ErrMsgDidYouMeanFmt, domain.ErrRecipeNotFound, ident, strings.Join(names, ", "))
	}
	return fmt.Errorf("%w: %s", domain.ErrRecipeNotFound, ident)
}

// KnowsRecipe reports whether c may craft r: it was learnt, or it is
// auto-learnable and c has the skills for it.
func (s *service) KnowsRecipe(ctx context.Context, c craft.Crafter, r *recipe.Recipe) (bool, error) {
	if r.IsAutoLearnable() && r.MeetsSkills(c.SkillLevel) {
		return true, nil
	}
	known, err := s.known.IsKnown(ctx, c.CrafterID(), r.Ident)
	if err != nil {
		return false, fmt.Errorf("failed to check known recipe: %w", err)
	}
	return known, nil
}

// AvailableRecipes lists, in dictionary order, the recipes c knows and can
// make right now from its surroundings
func (s *service) AvailableRecipes(ctx context.Context, c Crafter) ([]*recipe.Recipe, error) {
	names, err := s.known.KnownRecipes(ctx, c.CrafterID())
	if err != nil {
		logger.FromContext(ctx).Error(LogMsgKnownRecipesFailed, "crafter", c.CrafterID(), "error", err)
		return nil, fmt.Errorf("failed to read known recipes: %w", err)
	}
	known := make(map[string]bool, len(names))
	for _, n := range names {
		known[n] = true
	}

	inv := c.Surroundings()
	var out []*recipe.Recipe
	for _, r := range s.dict.All() {
		if !known[r.Ident] && !(r.IsAutoLearnable() && r.MeetsSkills(c.SkillLevel)) {
			continue
		}
		if r.CanMakeWithInventory(inv, 1) {
			out = append(out, r)
		}
	}
	return out, nil
}

// AvailableBatchSizes lists the batch sizes, from 1 up to BatchSizeLimit, that
// c could craft ident in right now. Components and containers both count.
func (s *service) AvailableBatchSizes(ctx context.Context, c Crafter, ident string) ([]int, error) {
	r, ok := s.dict.ByName(ident)
	if !ok {
		return nil, s.notFound(ident)
	}
	inv := c.Surroundings()
	var sizes []int
	for batch := 1; batch <= BatchSizeLimit; batch++ {
		if !r.CanMakeWithInventory(inv, batch) || s.checkContainers(c, r, batch) != nil {
			break
		}
		sizes = append(sizes, batch)
	}
	logger.FromContext(ctx).Debug(LogMsgBatchSizes, "crafter", c.CrafterID(), "recipe", ident, "largest", len(sizes))
	return sizes, nil
}

// checkContainers reports an error wrapping domain.ErrNoContainer when c lacks
// the empty containers the liquid results of batch are poured into
func (s *service) checkContainers(c Crafter, r *recipe.Recipe, batch int) error {
	container, need := r.ContainersNeeded(s.catalog, batch)
	if need == 0 {
		return nil
	}
	if have := c.Surroundings().Count(domain.UseBoth, container); have < need {
		return fmt.Errorf("%w: "+ErrMsgContainersFmt, domain.ErrNoContainer, r.Ident, need, s.itemName(container), have)
	}
	return nil
}

// LearnRecipe records ident as known. It reports false when it already was.
func (s *service) LearnRecipe(ctx context.Context, crafterID, ident, source string) (bool, error) {
	if _, ok := s.dict.ByName(ident); !ok {
		return false, s.notFound(ident)
	}
	learned, err := s.known.LearnRecipe(ctx, crafterID, ident, source)
	if err != nil {
		return false, fmt.Errorf("failed to learn recipe: %w", err)
	}
	if learned {
		logger.FromContext(ctx).Info(LogMsgRecipeLearned, "crafter", crafterID, "recipe", ident, "source", source)
		s.publish(ctx, NewRecipeLearnedEvent(crafterID, ident, source))
	}
	return learned, nil
}

// LearnFromBook teaches c every recipe book lists at or below c's level in the
// recipe's skill, hidden entries included. c must have the book at hand. The
// idents newly learnt are returned in dictionary order.
func (s *service) LearnFromBook(ctx context.Context, c Crafter, book string) ([]string, error) {
	if c.Surroundings().Count(domain.UseBoth, book) == 0 {
		return nil, fmt.Errorf("%w: %s %s", domain.ErrInvalidInput, ErrMsgBookNotHeld, book)
	}
	var learned []string
	for _, r := range s.dict.WithBook(book) {
		level, _ := r.BookLevel(book)
		if c.SkillLevel(r.SkillUsed) < level {
			continue
		}
		ok, err := s.LearnRecipe(ctx, c.CrafterID(), r.Ident, LearnSourceBook)
		if err != nil {
			return learned, err
		}
		if ok {
			learned = append(learned, r.Ident)
		}
	}
	return learned, nil
}

func (s *service) track(cmd *craft.Command, c Crafter) *tracked {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &tracked{cmd: cmd, crafter: c}
	s.crafts[cmd.ID()] = t
	return t
}

func (s *service) lookup(id uuid.UUID) (*tracked, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.crafts[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrCraftNotFound, id)
	}
	return t, nil
}

func (s *service) untrack(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.crafts, id)
}

// Craft returns a craft in progress
func (s *service) Craft(id uuid.UUID) (*craft.Command, bool) {
	t, err := s.lookup(id)
	if err != nil {
		return nil, false
	}
	return t.cmd, true
}

func (s *service) blocked(ctx context.Context, t *tracked, r string, missing selection.Missing) {
	lines := missing.Describe(s.itemName, t.cmd.Batch())
	logger.FromContext(logger.WithCraftID(ctx, t.cmd.ID())).Info(LogMsgCraftBlocked, "recipe", r, "missing", lines)
	s.publish(ctx, NewCraftBlockedEvent(t.cmd.ID().String(), t.crafter.CrafterID(), r, lines))
}

func (s *service) execute(ctx context.Context, t *tracked, ident string) error {
	unlock := s.locks.Lock(t.crafter.CrafterID())
	err := t.cmd.Execute(ctx, s.sched)
	unlock()
	var missing *selection.Error
	if errors.As(err, &missing) {
		s.blocked(ctx, t, ident, missing.Missing)
		return err
	}
	if err != nil {
		return err
	}

	a, _ := s.sched.Get(t.cmd.ID())
	logger.FromContext(logger.WithCraftID(ctx, t.cmd.ID())).Info(LogMsgCraftStarted,
		"crafter", t.crafter.CrafterID(), "recipe", ident, "batch", t.cmd.Batch(), "moves", a.Moves)
	s.publish(ctx, NewCraftEvent(domain.EventTypeCraftStarted, CraftPayload{
		CraftID:   t.cmd.ID().String(),
		CrafterID: t.crafter.CrafterID(),
		Recipe:    ident,
		Batch:     t.cmd.Batch(),
		Moves:     a.Moves,
	}))
	return nil
}

// StartCraft selects components for ident and schedules the craft. A craft
// blocked on missing components is still returned, together with a
// *selection.Error, so it can be retried once the inventory changes.
func (s *service) StartCraft(ctx context.Context, c Crafter, ident string, batch int, long bool) (*craft.Command, error) {
	r, ok := s.dict.ByName(ident)
	if !ok {
		return nil, s.notFound(ident)
	}
	knows, err := s.KnowsRecipe(ctx, c, r)
	if err != nil {
		return nil, err
	}
	if !knows {
		return nil, fmt.Errorf("%w: %s", domain.ErrRecipeUnknown, ident)
	}
	if err := s.checkContainers(c, r, batch); err != nil {
		return nil, err
	}

	cmd, err := craft.New(s.dict, r, c, batch, long)
	if err != nil {
		return nil, err
	}
	t := s.track(cmd, c)
	if err := s.execute(ctx, t, ident); err != nil {
		if cmd.State() != craft.StateBlocked {
			s.untrack(cmd.ID())
			return nil, err
		}
		return cmd, err
	}
	return cmd, nil
}

// RetryCraft re-runs a blocked craft. When its activity already ran out the
// craft is completed right away; otherwise it is selected and scheduled again.
func (s *service) RetryCraft(ctx context.Context, id uuid.UUID) (*Result, error) {
	t, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	if t.finished {
		return s.CompleteCraft(ctx, id)
	}
	r, err := t.cmd.Recipe()
	if err != nil {
		return nil, err
	}
	return nil, s.execute(ctx, t, r.Ident)
}

// CompleteCraft consumes the craft's components and hands the products to
// the crafter. A declined prompt cancels the craft; missing components leave
// it blocked and tracked.
func (s *service) CompleteCraft(ctx context.Context, id uuid.UUID) (*Result, error) {
	t, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	a, running := s.sched.Get(id)
	switch {
	case running && !a.Done():
		return nil, fmt.Errorf("%w: %s has %d moves remaining", domain.ErrInvalidInput, id, a.Remaining())
	case !running && !t.finished:
		return nil, fmt.Errorf("%w: %s "+ErrMsgNotRunning, domain.ErrInvalidInput, id)
	}
	return s.complete(ctx, t)
}

func (s *service) complete(ctx context.Context, t *tracked) (*Result, error) {
	t.finished = true
	id := t.cmd.ID()
	cmd := t.cmd
	r, err := cmd.Recipe()
	if err != nil {
		return nil, err
	}
	ctx = logger.WithCraftID(ctx, id)
	log := logger.FromContext(ctx)

	unlock := s.locks.Lock(t.crafter.CrafterID())
	defer unlock()

	if err := s.checkContainers(t.crafter, r, cmd.Batch()); err != nil {
		log.Info(LogMsgNoContainer, "recipe", r.Ident, "error", err)
		return nil, err
	}
	consumed, err := cmd.ConsumeComponents(ctx, s.prompter)
	if err != nil {
		var missing *selection.Error
		if errors.As(err, &missing) {
			s.blocked(ctx, t, r.Ident, missing.Missing)
		}
		return nil, err
	}

	payload := CraftPayload{
		CraftID:   id.String(),
		CrafterID: t.crafter.CrafterID(),
		Recipe:    r.Ident,
		Batch:     cmd.Batch(),
	}
	if cmd.State() == craft.StateCancelled {
		s.sched.Cancel(ctx, id)
		s.untrack(id)
		log.Info(LogMsgCraftCancelled, "recipe", r.Ident)
		s.publish(ctx, NewCraftEvent(domain.EventTypeCraftCancelled, payload))
		return &Result{CraftID: id, Recipe: r.Ident, Batch: cmd.Batch(), Cancelled: true}, nil
	}

	if container, n := r.ContainersNeeded(s.catalog, cmd.Batch()); n > 0 {
		if _, err := t.crafter.Surroundings().Remove(domain.UseBoth, container, n); err != nil {
			log.Warn(LogMsgContainersLost, "recipe", r.Ident, "container", container, "error", err)
		}
	}
	res := &Result{
		CraftID:    id,
		Recipe:     r.Ident,
		Batch:      cmd.Batch(),
		Consumed:   consumed,
		Produced:   r.CreateResults(s.catalog, cmd.Batch()),
		Byproducts: r.CreateByproducts(s.catalog, cmd.Batch()),
	}
	t.crafter.Receive(res.Produced...)
	t.crafter.Receive(res.Byproducts...)
	s.sched.Cancel(ctx, id)
	s.untrack(id)

	if t.crafter.SkillLevel(r.SkillUsed) >= r.Difficulty {
		res.Learned, err = s.LearnRecipe(ctx, t.crafter.CrafterID(), r.Ident, LearnSourceCraft)
		if err != nil {
			log.Warn(LogMsgRecipeLearned, "recipe", r.Ident, "error", err)
		}
	}

	payload.Produced = len(res.Produced)
	log.Info(LogMsgCraftCompleted, "recipe", r.Ident, "batch", cmd.Batch(), "produced", len(res.Produced))
	s.publish(ctx, NewCraftEvent(domain.EventTypeCraftCompleted, payload))
	return res, nil
}

// CancelCraft abandons a craft. Nothing is consumed.
func (s *service) CancelCraft(ctx context.Context, id uuid.UUID) error {
	t, err := s.lookup(id)
	if err != nil {
		return err
	}
	r, err := t.cmd.Recipe()
	ident := ""
	if err == nil {
		ident = r.Ident
	}

	t.cmd.Cancel(ctx)
	s.sched.Cancel(ctx, id)
	s.untrack(id)
	logger.FromContext(logger.WithCraftID(ctx, id)).Info(LogMsgCraftCancelled, "recipe", ident)
	s.publish(ctx, NewCraftEvent(domain.EventTypeCraftCancelled, CraftPayload{
		CraftID:   id.String(),
		CrafterID: t.crafter.CrafterID(),
		Recipe:    ident,
		Batch:     t.cmd.Batch(),
	}))
	return nil
}

// Tick advances every running activity and completes the crafts that finished.
// Failures of individual crafts are joined; the others still complete.
func (s *service) Tick(ctx context.Context, moves int) ([]*Result, error) {
	var results []*Result
	var errs []error
	for _, a := range s.sched.Tick(ctx, moves) {
		if a.Kind != activity.KindCraft {
			continue
		}
		t, err := s.lookup(a.ID)
		if err != nil {
			logger.FromContext(ctx).Warn(LogMsgUntrackedActivity, "activity_id", a.ID)
			continue
		}
		res, err := s.complete(ctx, t)
		if err != nil {
			logger.FromContext(ctx).Info(LogMsgCompleteFailed, "activity_id", a.ID, "error", err)
			errs = append(errs, err)
			continue
		}
		results = append(results, res)
	}
	return results, errors.Join(errs...)
}

// Suspend moves a craft out of the scheduler into the activity store, keeping
// its elapsed moves and cached selection
func (s *service) Suspend(ctx context.Context, id uuid.UUID) error {
	t, err := s.lookup(id)
	if err != nil {
		return err
	}
	r, err := t.cmd.Recipe()
	if err != nil {
		return err
	}

	a, ok := s.sched.Get(id)
	if !ok {
		a = activity.Activity{
			ID:    id,
			Kind:  activity.KindCraft,
			Owner: t.crafter.CrafterID(),
			Moves: r.BatchTime(t.cmd.Batch()),
			Long:  t.cmd.Long(),
		}
		if t.finished {
			a.Elapsed = a.Moves
		}
	}
	payload, err := json.Marshal(t.cmd.Snapshot())
	if err != nil {
		return fmt.Errorf("failed to marshal craft: %w", err)
	}
	if err := s.store.Save(ctx, activity.Record{Activity: a, Payload: payload}); err != nil {
		return err
	}

	s.sched.Cancel(ctx, id)
	s.untrack(id)
	logger.FromContext(logger.WithCraftID(ctx, id)).Info(LogMsgCraftSuspended, "recipe", r.Ident, "elapsed", a.Elapsed, "moves", a.Moves)
	return nil
}

// Resume restores a suspended craft for c. A ready craft continues its
// activity where it stopped; a blocked one waits for RetryCraft.
func (s *service) Resume(ctx context.Context, c Crafter, id uuid.UUID) (*craft.Command, error) {
	rec, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.Activity.Owner != c.CrafterID() {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgCrafterMismatch)
	}

	var snap craft.Snapshot
	if err := json.Unmarshal(rec.Payload, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal craft: %w", err)
	}
	cmd, err := craft.Restore(s.dict, c, snap)
	if err != nil {
		return nil, err
	}

	t := s.track(cmd, c)
	t.finished = rec.Activity.Done()
	if cmd.State() == craft.StateReady && !t.finished {
		if err := s.sched.Schedule(ctx, rec.Activity); err != nil {
			s.untrack(id)
			return nil, err
		}
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return nil, err
	}
	logger.FromContext(logger.WithCraftID(ctx, id)).Info(LogMsgCraftResumed, "recipe", snap.Recipe, "state", cmd.State())
	return cmd, nil
}

// Suspended lists the crafts a crafter left in the store
func (s *service) Suspended(ctx context.Context, crafterID string) ([]activity.Record, error) {
	return s.store.ListByOwner(ctx, crafterID)
}

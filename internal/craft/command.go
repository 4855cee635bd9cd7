package craft

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/osse101/ashfall/internal/activity"
	"github.com/osse101/ashfall/internal/domain"
	"github.com/osse101/ashfall/internal/inventory"
	"github.com/osse101/ashfall/internal/logger"
	"github.com/osse101/ashfall/internal/recipe"
	"github.com/osse101/ashfall/internal/recipedict"
	"github.com/osse101/ashfall/internal/selection"
)

// Crafter is the character performing a craft
type Crafter interface {
	CrafterID() string
	SkillLevel(skill string) int
	Surroundings() inventory.Provider
}

// Scheduler accepts the timed activity of a craft. The caller re-enters the
// command with ConsumeComponents once the activity completes.
type Scheduler interface {
	Schedule(ctx context.Context, a activity.Activity) error
}

// Command is one crafting attempt. It holds the recipe by its dense id and
// resolves it through the dictionary, which must outlive the command.
type Command struct {
	id       uuid.UUID
	dict     *recipedict.Dictionary
	recipeID int
	ident    string
	batch    int
	long     bool
	crafter  Crafter

	state    State
	selected bool
	items    []selection.Selection
	tools    []selection.Selection
	missing  selection.Missing
}

// New creates a command in StateInit
func New(dict *recipedict.Dictionary, r *recipe.Recipe, crafter Crafter, batch int, long bool) (*Command, error) {
	if r == nil {
		return nil, domain.ErrRecipeNotFound
	}
	if batch < 1 {
		return nil, fmt.Errorf("%w: got %d", domain.ErrInvalidBatch, batch)
	}
	if stored, ok := dict.ByID(r.ID); !ok || stored != r {
		return nil, fmt.Errorf("%w: %s", domain.ErrRecipeNotFound, r.Ident)
	}
	return &Command{
		id:       uuid.New(),
		dict:     dict,
		recipeID: r.ID,
		ident:    r.Ident,
		batch:    batch,
		long:     long,
		crafter:  crafter,
	}, nil
}

// ID returns the command id, which is also the id of its activity
func (c *Command) ID() uuid.UUID { return c.id }

// Batch returns the number of units crafted
func (c *Command) Batch() int { return c.batch }

// Long reports whether the craft runs as a long activity
func (c *Command) Long() bool { return c.long }

// State returns the current state
func (c *Command) State() State { return c.state }

// Crafter returns the acting character
func (c *Command) Crafter() Crafter { return c.crafter }

// Empty reports whether the command never ran selection, or ended without
// consuming anything
func (c *Command) Empty() bool {
	return c.state == StateInit || c.state == StateCancelled
}

// HasCachedSelections reports whether a complete selection is cached
func (c *Command) HasCachedSelections() bool { return c.selected }

// Items returns the cached component selections
func (c *Command) Items() []selection.Selection { return append([]selection.Selection(nil), c.items...) }

// Tools returns the cached tool selections
func (c *Command) Tools() []selection.Selection { return append([]selection.Selection(nil), c.tools...) }

// Missing returns what blocked the last selection
func (c *Command) Missing() selection.Missing { return c.missing }

// Recipe resolves the recipe handle
func (c *Command) Recipe() (*recipe.Recipe, error) {
	r, ok := c.dict.ByID(c.recipeID)
	if !ok {
		return nil, fmt.Errorf("%w: %s (#%d)", domain.ErrRecipeNotFound, c.ident, c.recipeID)
	}
	if r.Ident != c.ident {
		return nil, fmt.Errorf("%w: %s, #%d is now %s", domain.ErrRecipeNotFound, c.ident, c.recipeID, r.Ident)
	}
	return r, nil
}

func (c *Command) context(ctx context.Context) context.Context {
	return logger.WithCraftID(ctx, c.id)
}

// Execute selects components (once; later calls reuse the cached selection)
// and schedules the craft's activity. When selection fails the command moves
// to StateBlocked and a *selection.Error lists every missing slot.
func (c *Command) Execute(ctx context.Context, sched Scheduler) error {
	ctx = c.context(ctx)
	log := logger.FromContext(ctx)

	if c.state.Finished() {
		return fmt.Errorf("%w: %s", domain.ErrCraftFinished, c.state)
	}
	r, err := c.Recipe()
	if err != nil {
		return err
	}

	if c.selected {
		log.Debug(LogMsgSelectionReused, "recipe", c.ident)
	} else if err := c.selectComponents(ctx, r); err != nil {
		return err
	}

	a := activity.Activity{
		ID:    c.id,
		Kind:  activity.KindCraft,
		Owner: c.crafter.CrafterID(),
		Moves: r.BatchTime(c.batch),
		Long:  c.long,
	}
	if err := sched.Schedule(ctx, a); err != nil {
		return fmt.Errorf("schedule craft %s: %w", c.ident, err)
	}
	log.Info(LogMsgCraftScheduled, "recipe", c.ident, "batch", c.batch, "moves", a.Moves, "long", c.long)
	return nil
}

func (c *Command) selectComponents(ctx context.Context, r *recipe.Recipe) error {
	c.state = StateSelecting
	res := selection.Select(c.crafter.Surroundings(), r.Requirements, c.batch)
	if !res.Complete() {
		c.block(ctx, res.Missing)
		return &selection.Error{Missing: res.Missing}
	}
	c.cache(ctx, res)
	return nil
}

func (c *Command) cache(ctx context.Context, res selection.Result) {
	c.items, c.tools = res.Items, res.Tools
	c.missing = selection.Missing{}
	c.selected = true
	c.state = StateReady
	logger.FromContext(ctx).Debug(LogMsgSelectionCached, "recipe", c.ident,
		"items", len(c.items), "tools", len(c.tools))
}

func (c *Command) block(ctx context.Context, missing selection.Missing) {
	c.items, c.tools = nil, nil
	c.selected = false
	c.missing = missing
	c.state = StateBlocked
	logger.FromContext(ctx).Info(LogMsgCraftBlocked, "recipe", c.ident, "missing", len(missing.All()))
}

// ConsumeComponents re-validates the cached selection against the current
// inventory and removes exactly what it names. A blocked command selects
// afresh first. When something is missing the prompter sees the full missing
// list: a refusal cancels the command and returns (nil, nil); acceptance runs
// a fresh selection, which either is consumed or leaves the command blocked
// with a *selection.Error.
//
// Calling it before Execute, or after a successful consumption, panics.
func (c *Command) ConsumeComponents(ctx context.Context, prompt Prompter) ([]domain.Item, error) {
	switch c.state {
	case StateInit:
		panic(PanicMsgConsumeBeforeExecute)
	case StateConsumed:
		panic(PanicMsgConsumeTwice)
	case StateCancelled:
		return nil, fmt.Errorf("%w: %s", domain.ErrCraftFinished, c.state)
	}

	ctx = c.context(ctx)
	log := logger.FromContext(ctx)
	r, err := c.Recipe()
	if err != nil {
		return nil, err
	}
	inv := c.crafter.Surroundings()

	var missing selection.Missing
	if c.state == StateBlocked {
		res := selection.Select(inv, r.Requirements, c.batch)
		if res.Complete() {
			c.cache(ctx, res)
		} else {
			missing = res.Missing
			c.missing = missing
		}
	} else {
		c.state = StateValidating
		missing = selection.Revalidate(inv, c.items, c.tools, c.batch)
	}

	if !missing.Empty() {
		log.Info(LogMsgComponentsMissing, "recipe", c.ident, "missing", len(missing.All()))
		if !prompt.ConfirmContinue(ctx, missing) {
			c.Cancel(ctx)
			return nil, nil
		}
		c.selected = false
		if err := c.selectComponents(ctx, r); err != nil {
			return nil, err
		}
	}

	consumed, err := selection.Consume(inv, c.items, c.tools, c.batch)
	if err != nil {
		var missingErr *selection.Error
		if errors.As(err, &missingErr) {
			c.block(ctx, missingErr.Missing)
		}
		return nil, err
	}
	c.state = StateConsumed
	c.selected = false
	log.Info(LogMsgComponentsUsed, "recipe", c.ident, "items", len(consumed))
	return consumed, nil
}

// Cancel abandons the attempt. Nothing is consumed and the cached selection is dropped.
func (c *Command) Cancel(ctx context.Context) {
	if c.state.Finished() {
		return
	}
	c.items, c.tools = nil, nil
	c.selected = false
	c.missing = selection.Missing{}
	c.state = StateCancelled
	logger.FromContext(c.context(ctx)).Info(LogMsgCraftCancelled, "recipe", c.ident)
}

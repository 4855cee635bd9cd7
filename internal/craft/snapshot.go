package craft

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/osse101/ashfall/internal/domain"
	"github.com/osse101/ashfall/internal/recipedict"
	"github.com/osse101/ashfall/internal/selection"
)

// Snapshot is the persisted form of a command that is waiting on its activity
type Snapshot struct {
	ID       uuid.UUID             `json:"id"`
	Recipe   string                `json:"recipe"`
	RecipeID int                   `json:"recipe_index"`
	Crafter  string                `json:"crafter"`
	Batch    int                   `json:"batch"`
	Long     bool                  `json:"long"`
	State    State                 `json:"state"`
	Items    []selection.Selection `json:"items,omitempty"`
	Tools    []selection.Selection `json:"tools,omitempty"`
	Missing  selection.Missing     `json:"missing"`
}

// Snapshot captures the command so a long craft survives save/load
func (c *Command) Snapshot() Snapshot {
	return Snapshot{
		ID:       c.id,
		Recipe:   c.ident,
		RecipeID: c.recipeID,
		Crafter:  c.crafter.CrafterID(),
		Batch:    c.batch,
		Long:     c.long,
		State:    c.state,
		Items:    c.Items(),
		Tools:    c.Tools(),
		Missing:  c.missing,
	}
}

// Restore rebuilds a command from a snapshot. Only ready and blocked commands
// resume; validation then continues from that state instead of selecting anew.
func Restore(dict *recipedict.Dictionary, crafter Crafter, s Snapshot) (*Command, error) {
	if s.State != StateReady && s.State != StateBlocked {
		return nil, fmt.Errorf("%s %s", ErrMsgNotResumable, s.State)
	}
	if s.Batch < 1 {
		return nil, fmt.Errorf("%w: got %d", domain.ErrInvalidBatch, s.Batch)
	}
	r, ok := dict.ByName(s.Recipe)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrRecipeNotFound, s.Recipe)
	}
	if r.ID != s.RecipeID {
		return nil, fmt.Errorf("%w: %s (#%d, now #%d)", domain.ErrRecipeNotFound, ErrMsgRecipeChanged, s.RecipeID, r.ID)
	}

	c := &Command{
		id:       s.ID,
		dict:     dict,
		recipeID: r.ID,
		ident:    r.Ident,
		batch:    s.Batch,
		long:     s.Long,
		crafter:  crafter,
		state:    s.State,
		items:    append([]selection.Selection(nil), s.Items...),
		tools:    append([]selection.Selection(nil), s.Tools...),
		missing:  s.Missing,
	}
	c.selected = s.State == StateReady
	if !c.selected {
		c.items, c.tools = nil, nil
	}
	return c, nil
}

package crafting

import (
	"context"
	"fmt"

	"github.com/osse101/ashfall/internal/domain"
	"github.com/osse101/ashfall/internal/logger"
	"github.com/osse101/ashfall/internal/recipe"
	"github.com/osse101/ashfall/internal/requirement"
	"github.com/osse101/ashfall/internal/selection"
)

// DisassembleResult describes one item taken apart
type DisassembleResult struct {
	Item      string        `json:"item"`
	Recipe    string        `json:"recipe"`
	Removed   []domain.Item `json:"removed"`
	Recovered []domain.Item `json:"recovered"`
	Learned   bool          `json:"learned"`
}

// reversibleFor returns the first reversible recipe producing typeID
func (s *service) reversibleFor(typeID string) (*recipe.Recipe, error) {
	rs := s.dict.WithResult(typeID)
	if len(rs) == 0 {
		return nil, fmt.Errorf("%w: %s '%s'", domain.ErrRecipeNotFound, ErrMsgNoRecipeForItem, typeID)
	}
	for _, r := range rs {
		if r.Reversible {
			return r, nil
		}
	}
	return nil, fmt.Errorf("%w: '%s'", domain.ErrRecipeNotReversible, typeID)
}

// Disassemble takes one item of itemTypeID apart using the tools of the
// recipe producing it. The recovered components go to the crafter, and the
// recipe is learnt when the crafter's skill allows it.
func (s *service) Disassemble(ctx context.Context, c Crafter, itemTypeID string) (*DisassembleResult, error) {
	r, err := s.reversibleFor(itemTypeID)
	if err != nil {
		return nil, err
	}
	unlock := s.locks.Lock(c.CrafterID())
	defer unlock()

	inv := c.Surroundings()
	if inv.Count(domain.UseBoth, itemTypeID) < 1 {
		return nil, fmt.Errorf("%w: %s", domain.ErrInsufficientQuantity, itemTypeID)
	}

	tools, err := r.DisassemblyTools()
	if err != nil {
		return nil, err
	}
	sel := selection.Select(inv, requirement.Set{Tools: tools}, 1)
	if !sel.Complete() {
		return nil, &selection.Error{Missing: sel.Missing}
	}
	yield, err := r.DisassemblyYield(s.catalog)
	if err != nil {
		return nil, err
	}

	if _, err := selection.Consume(inv, nil, sel.Tools, 1); err != nil {
		return nil, err
	}
	removed, err := inv.Remove(domain.UseBoth, itemTypeID, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to remove disassembled item: %w", err)
	}
	c.Receive(yield...)

	res := &DisassembleResult{Item: itemTypeID, Recipe: r.Ident, Removed: removed, Recovered: yield}
	log := logger.FromContext(ctx)
	if r.CanLearnByDisassembly(c.SkillLevel(r.SkillUsed)) {
		res.Learned, err = s.LearnRecipe(ctx, c.CrafterID(), r.Ident, LearnSourceDisassembly)
		if err != nil {
			log.Warn(LogMsgRecipeLearned, "recipe", r.Ident, "error", err)
		}
	}

	outputs := make(map[string]int, len(yield))
	for _, it := range yield {
		if t, ok := s.itemType(it.TypeID); ok && t.CountByCharges() {
			outputs[it.TypeID] += it.Charges
			continue
		}
		outputs[it.TypeID]++
	}
	log.Info(LogMsgItemDisassembled, "crafter", c.CrafterID(), "item", itemTypeID, "recipe", r.Ident, "learned", res.Learned)
	s.publish(ctx, NewItemDisassembledEvent(c.CrafterID(), itemTypeID, r.Ident, outputs))
	return res, nil
}

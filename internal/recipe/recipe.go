package recipe

import (
	"fmt"
	"sort"
	"strings"

	"github.com/osse101/ashfall/internal/domain"
	"github.com/osse101/ashfall/internal/requirement"
	"github.com/osse101/ashfall/internal/selection"
)

// Byproduct is a secondary output of a recipe
type Byproduct struct {
	Result      string `json:"result" validate:"required"`
	ChargesMult int    `json:"charges_mult" validate:"omitempty,gte=1"`
	Amount      int    `json:"amount" validate:"omitempty,gte=1"`
}

// BookLearning lets a crafter learn the recipe by reading Book with at least
// SkillLevel in the recipe's skill. Hidden entries are not advertised by the book.
type BookLearning struct {
	Book       string `json:"book" validate:"required"`
	SkillLevel int    `json:"skill_level" validate:"gte=0"`
	Hidden     bool   `json:"hidden,omitempty"`
}

// Recipe is a static crafting definition. Recipes are built at load time and
// never modified afterwards; the dictionary owns them.
type Recipe struct {
	Ident              string          `json:"id"`
	ID                 int             `json:"index"`
	Result             string          `json:"result"`
	Time               int             `json:"time"`
	Difficulty         int             `json:"difficulty"`
	SkillUsed          string          `json:"skill_used,omitempty"`
	RequiredSkills     map[string]int  `json:"skills_required,omitempty"`
	Category           string          `json:"category"`
	Subcategory        string          `json:"subcategory,omitempty"`
	Reversible         bool            `json:"reversible"`
	Autolearn          bool            `json:"autolearn"`
	LearnByDisassembly int             `json:"decomp_learn"`
	Contained          bool            `json:"contained,omitempty"`
	Byproducts         []Byproduct     `json:"byproducts,omitempty"`
	BatchRScale        float64         `json:"batch_rscale"`
	BatchRSize         int             `json:"batch_rsize"`
	ResultMult         int             `json:"result_mult"`
	Requirements       requirement.Set `json:"requirements"`
	Booksets           []BookLearning  `json:"booksets,omitempty"`
}

// NoDisassemblyLearning marks a recipe that cannot be learnt by disassembly
const NoDisassemblyLearning = -1

// Validate checks the invariants every admitted recipe must hold
func (r *Recipe) Validate() error {
	if r.Ident == "" {
		return fmt.Errorf("%w: empty id", domain.ErrInvalidRecipe)
	}
	if r.ID < 0 {
		return fmt.Errorf("%w: recipe '%s' has negative index %d", domain.ErrInvalidRecipe, r.Ident, r.ID)
	}
	if r.Result == "" {
		return fmt.Errorf("%w: recipe '%s' has no result", domain.ErrInvalidRecipe, r.Ident)
	}
	if r.Time < 0 {
		return fmt.Errorf("%w: recipe '%s' has negative time", domain.ErrInvalidRecipe, r.Ident)
	}
	if r.BatchRScale < 0 || r.BatchRScale > 1 {
		return fmt.Errorf("%w: recipe '%s' batch_rscale %.2f outside [0,1]", domain.ErrInvalidRecipe, r.Ident, r.BatchRScale)
	}
	if r.BatchRSize < 0 {
		return fmt.Errorf("%w: recipe '%s' has negative batch_rsize", domain.ErrInvalidRecipe, r.Ident)
	}
	if r.ResultMult < 1 {
		return fmt.Errorf("%w: recipe '%s' result_mult must be at least 1", domain.ErrInvalidRecipe, r.Ident)
	}
	if !r.Reversible && r.LearnByDisassembly >= 0 {
		return fmt.Errorf("%w: recipe '%s' is learnable by disassembly but not reversible", domain.ErrInvalidRecipe, r.Ident)
	}
	if err := r.Requirements.Validate(); err != nil {
		return fmt.Errorf("recipe '%s': %w", r.Ident, err)
	}
	return nil
}

// BookLevel returns the skill level book teaches the recipe at
func (r *Recipe) BookLevel(book string) (int, bool) {
	for _, b := range r.Booksets {
		if b.Book == book {
			return b.SkillLevel, true
		}
	}
	return 0, false
}

// IsAutoLearnable reports whether any crafter knows the recipe without learning it
func (r *Recipe) IsAutoLearnable() bool {
	return r.Autolearn || (r.Difficulty == 0 && len(r.RequiredSkills) == 0)
}

// CanLearnByDisassembly reports whether disassembling the result at skillLevel teaches the recipe
func (r *Recipe) CanLearnByDisassembly(skillLevel int) bool {
	return r.Reversible && r.LearnByDisassembly >= 0 && skillLevel >= r.LearnByDisassembly
}

// MeetsSkills reports whether levels satisfy the primary difficulty and every secondary skill
func (r *Recipe) MeetsSkills(level func(skill string) int) bool {
	if r.SkillUsed != "" && level(r.SkillUsed) < r.Difficulty {
		return false
	}
	for skill, minLevel := range r.RequiredSkills {
		if level(skill) < minLevel {
			return false
		}
	}
	return true
}

// RequiredSkillsString formats secondary skills as "skill(level), ..." sorted by skill name
func (r *Recipe) RequiredSkillsString() string {
	if len(r.RequiredSkills) == 0 {
		return NoSkillsRequired
	}
	names := make([]string, 0, len(r.RequiredSkills))
	for name := range r.RequiredSkills {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s(%d)", name, r.RequiredSkills[name])
	}
	return strings.Join(parts, ", ")
}

// CanMakeWithInventory reports whether the requirements are satisfiable for
// batch with the same slot-by-slot reservation a craft uses, so stock shared
// between slots is only counted once. The inventory is only read.
func (r *Recipe) CanMakeWithInventory(inv requirement.Counter, batch int) bool {
	if batch < 1 {
		return false
	}
	return selection.Select(inv, r.Requirements, batch).Complete()
}

package recipe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/osse101/ashfall/internal/domain"
	"github.com/osse101/ashfall/internal/logger"
	"github.com/osse101/ashfall/internal/requirement"
	"github.com/osse101/ashfall/internal/validation"
)

// Sentinel errors for the recipe loader
var (
	ErrDuplicateIdent = errors.New("duplicate recipe id")
	ErrInvalidItem    = errors.New("invalid item reference")
)

// Definitions is the JSON document holding recipe definitions
type Definitions struct {
	Version     string       `json:"version"`
	Description string       `json:"description"`
	Recipes     []Definition `json:"recipes"`
}

// Definition is a single recipe as written in the JSON file
type Definition struct {
	Ident              string             `json:"id" validate:"required"`
	Result             string             `json:"result" validate:"required"`
	Time               int                `json:"time" validate:"gte=0"`
	Difficulty         int                `json:"difficulty" validate:"gte=0"`
	SkillUsed          string             `json:"skill_used"`
	RequiredSkills     map[string]int     `json:"skills_required" validate:"omitempty,dive,keys,required,endkeys,gte=0"`
	Category           string             `json:"category" validate:"required"`
	Subcategory        string             `json:"subcategory"`
	Reversible         bool               `json:"reversible"`
	Autolearn          bool               `json:"autolearn"`
	LearnByDisassembly *int               `json:"decomp_learn"`
	Contained          bool               `json:"contained"`
	Byproducts         []Byproduct        `json:"byproducts" validate:"dive"`
	BatchRScale        float64            `json:"batch_rscale" validate:"gte=0,lte=1"`
	BatchRSize         int                `json:"batch_rsize" validate:"gte=0"`
	ResultMult         *int               `json:"result_mult" validate:"omitempty,gte=1"`
	Components         []requirement.Slot `json:"components"`
	Tools              []requirement.Slot `json:"tools"`
	Booksets           []BookLearning     `json:"booksets" validate:"dive"`
}

// Build converts the definition into a Recipe with the given dense index
func (d Definition) Build(id int) (*Recipe, error) {
	if err := validation.Struct(d); err != nil {
		return nil, fmt.Errorf("%w: recipe '%s': %v", domain.ErrInvalidRecipe, d.Ident, err)
	}

	r := &Recipe{
		Ident:              d.Ident,
		ID:                 id,
		Result:             d.Result,
		Time:               d.Time,
		Difficulty:         d.Difficulty,
		SkillUsed:          d.SkillUsed,
		RequiredSkills:     d.RequiredSkills,
		Category:           d.Category,
		Subcategory:        d.Subcategory,
		Reversible:         d.Reversible,
		Autolearn:          d.Autolearn,
		LearnByDisassembly: NoDisassemblyLearning,
		Contained:          d.Contained,
		BatchRScale:        d.BatchRScale,
		BatchRSize:         d.BatchRSize,
		ResultMult:         DefaultResultMult,
		Requirements: requirement.Set{
			Components: d.Components,
			Tools:      d.Tools,
		},
		Booksets: d.Booksets,
	}
	if d.LearnByDisassembly != nil {
		r.LearnByDisassembly = *d.LearnByDisassembly
	}
	if d.ResultMult != nil {
		r.ResultMult = *d.ResultMult
	}
	for _, bp := range d.Byproducts {
		bp.ChargesMult = max(bp.ChargesMult, 1)
		bp.Amount = max(bp.Amount, 1)
		r.Byproducts = append(r.Byproducts, bp)
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Rejection records a definition that was not admitted
type Rejection struct {
	Index int
	Ident string
	Err   error
}

func (r Rejection) Error() string {
	return fmt.Sprintf("recipe[%d] '%s': %v", r.Index, r.Ident, r.Err)
}

// Unwrap exposes the cause to errors.Is
func (r Rejection) Unwrap() error {
	return r.Err
}

// Loader reads recipe definitions and turns them into admitted recipes
type Loader interface {
	Load(path string) (*Definitions, error)
	Parse(data []byte, source string) (*Definitions, error)
	Build(ctx context.Context, defs *Definitions, catalog domain.Catalog, firstID int) ([]*Recipe, []Rejection)
}

type recipeLoader struct {
	schemaValidator validation.SchemaValidator
}

// NewLoader creates a new Loader
func NewLoader() Loader {
	return &recipeLoader{
		schemaValidator: validation.NewSchemaValidator(),
	}
}

// Load reads and parses a recipe JSON file
func (l *recipeLoader) Load(path string) (*Definitions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgReadDefinitionsFailed, err)
	}
	return l.Parse(data, path)
}

// Parse validates data against the recipe schema and decodes it
func (l *recipeLoader) Parse(data []byte, source string) (*Definitions, error) {
	if err := l.schemaValidator.ValidateBytes(data, validation.RecipesSchema); err != nil {
		return nil, fmt.Errorf(ErrMsgSchemaValidationFailed, source, err)
	}

	var defs Definitions
	if err := json.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf(ErrMsgParseDefinitionsFailed, err)
	}
	return &defs, nil
}

// Build admits every well-formed definition in file order, assigning dense
// indices from firstID. A bad definition is logged and skipped; it never stops
// the rest of the load.
func (l *recipeLoader) Build(ctx context.Context, defs *Definitions, catalog domain.Catalog, firstID int) ([]*Recipe, []Rejection) {
	log := logger.FromContext(ctx)
	if defs == nil {
		return nil, nil
	}

	var (
		admitted   []*Recipe
		rejections []Rejection
		seen       = make(map[string]bool, len(defs.Recipes))
	)
	reject := func(i int, ident string, err error) {
		log.Warn(LogMsgRecipeRejected, "index", i, "recipe", ident, "error", err)
		rejections = append(rejections, Rejection{Index: i, Ident: ident, Err: err})
	}

	for i, def := range defs.Recipes {
		if seen[def.Ident] {
			reject(i, def.Ident, fmt.Errorf("%w: '%s'", ErrDuplicateIdent, def.Ident))
			continue
		}

		r, err := def.Build(firstID + len(admitted))
		if err != nil {
			reject(i, def.Ident, err)
			continue
		}
		if err := checkItemRefs(r, catalog); err != nil {
			reject(i, def.Ident, err)
			continue
		}

		seen[def.Ident] = true
		admitted = append(admitted, r)
	}

	log.Info(LogMsgRecipesLoaded, "admitted", len(admitted), "rejected", len(rejections))
	return admitted, rejections
}

// checkItemRefs verifies every referenced item type exists in the catalog.
// A nil catalog skips the check.
func checkItemRefs(r *Recipe, catalog domain.Catalog) error {
	if catalog == nil {
		return nil
	}
	refs := []string{r.Result}
	for _, bp := range r.Byproducts {
		refs = append(refs, bp.Result)
	}
	for _, b := range r.Booksets {
		refs = append(refs, b.Book)
	}
	refs = append(refs, r.Requirements.ItemTypes(requirement.KindComponent)...)
	refs = append(refs, r.Requirements.ItemTypes(requirement.KindTool)...)

	for _, id := range refs {
		if _, ok := catalog.ItemType(id); !ok {
			return fmt.Errorf("%w: recipe '%s' references unknown item '%s'", ErrInvalidItem, r.Ident, id)
		}
	}
	return nil
}

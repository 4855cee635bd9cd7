package recipedict

import (
	"context"
	"fmt"
	"sort"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/osse101/ashfall/internal/domain"
	"github.com/osse101/ashfall/internal/logger"
	"github.com/osse101/ashfall/internal/recipe"
	"github.com/osse101/ashfall/internal/requirement"
)

// Dictionary owns every loaded recipe. The primary list keeps insertion order;
// the name, index, category and component indexes are derived from it and are
// only ever changed together under the write lock.
type Dictionary struct {
	mu          sync.RWMutex
	list        []*recipe.Recipe
	byName      map[string]*recipe.Recipe
	byID        map[int]*recipe.Recipe
	byCategory  map[string][]*recipe.Recipe
	byComponent map[string][]*recipe.Recipe

	suggestions *lru.Cache[string, []string]
}

// New creates an empty dictionary. suggestCacheSize bounds the memo of fuzzy
// name lookups; values below 1 fall back to DefaultSuggestCacheSize.
func New(suggestCacheSize int) *Dictionary {
	if suggestCacheSize < 1 {
		suggestCacheSize = DefaultSuggestCacheSize
	}
	cache, _ := lru.New[string, []string](suggestCacheSize)
	d := &Dictionary{suggestions: cache}
	d.reset()
	return d
}

func (d *Dictionary) reset() {
	d.list = nil
	d.byName = make(map[string]*recipe.Recipe)
	d.byID = make(map[int]*recipe.Recipe)
	d.byCategory = make(map[string][]*recipe.Recipe)
	d.byComponent = make(map[string][]*recipe.Recipe)
	d.suggestions.Purge()
}

// Add admits a recipe. The recipe is validated and checked for id clashes
// before any index is touched, so a rejected recipe leaves no trace.
func (d *Dictionary) Add(r *recipe.Recipe) error {
	if r == nil {
		return fmt.Errorf("%w: nil recipe", domain.ErrInvalidRecipe)
	}
	if err := r.Validate(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.byName[r.Ident]; ok {
		return fmt.Errorf("%w: id '%s'", domain.ErrDuplicateRecipe, r.Ident)
	}
	if other, ok := d.byID[r.ID]; ok {
		return fmt.Errorf("%w: index %d already used by '%s'", domain.ErrDuplicateRecipe, r.ID, other.Ident)
	}

	d.list = append(d.list, r)
	d.byName[r.Ident] = r
	d.byID[r.ID] = r
	d.byCategory[r.Category] = append(d.byCategory[r.Category], r)
	for _, typeID := range r.Requirements.ItemTypes(requirement.KindComponent) {
		d.byComponent[typeID] = append(d.byComponent[typeID], r)
	}
	d.suggestions.Purge()
	return nil
}

// Load adds recipes in order, logging and skipping the ones the dictionary
// refuses. It returns the refusals.
func (d *Dictionary) Load(ctx context.Context, recipes []*recipe.Recipe) []error {
	log := logger.FromContext(ctx)
	var errs []error
	for _, r := range recipes {
		if err := d.Add(r); err != nil {
			log.Warn(LogMsgRecipeRefused, "recipe", r.Ident, "error", err)
			errs = append(errs, err)
		}
	}
	log.Info(LogMsgDictionaryLoaded, "recipes", d.Len(), "refused", len(errs))
	return errs
}

// Remove drops a recipe from every index. It reports whether the recipe existed.
func (d *Dictionary) Remove(ident string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	r, ok := d.byName[ident]
	if !ok {
		return false
	}

	d.list = mustRemove(d.list, r, "list")
	delete(d.byName, r.Ident)
	if d.byID[r.ID] != r {
		panic(fmt.Sprintf(PanicMsgIndexDesync, "index", r.Ident))
	}
	delete(d.byID, r.ID)

	d.byCategory[r.Category] = mustRemove(d.byCategory[r.Category], r, "category")
	if len(d.byCategory[r.Category]) == 0 {
		delete(d.byCategory, r.Category)
	}
	for _, typeID := range r.Requirements.ItemTypes(requirement.KindComponent) {
		d.byComponent[typeID] = mustRemove(d.byComponent[typeID], r, "component")
		if len(d.byComponent[typeID]) == 0 {
			delete(d.byComponent, typeID)
		}
	}
	d.suggestions.Purge()
	return true
}

// mustRemove deletes r from s keeping order. A missing entry means the
// indexes have diverged, which is a programming error.
func mustRemove(s []*recipe.Recipe, r *recipe.Recipe, index string) []*recipe.Recipe {
	for i, x := range s {
		if x == r {
			return append(s[:i:i], s[i+1:]...)
		}
	}
	panic(fmt.Sprintf(PanicMsgIndexDesync, index, r.Ident))
}

// Clear drops every recipe
func (d *Dictionary) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reset()
}

// Len returns the number of recipes
func (d *Dictionary) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.list)
}

// NextID returns the smallest index above every admitted index
func (d *Dictionary) NextID() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	next := 0
	for id := range d.byID {
		if id >= next {
			next = id + 1
		}
	}
	return next
}

// ByName looks a recipe up by its string id
func (d *Dictionary) ByName(ident string) (*recipe.Recipe, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	r, ok := d.byName[ident]
	return r, ok
}

// ByID looks a recipe up by its dense index
func (d *Dictionary) ByID(id int) (*recipe.Recipe, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	r, ok := d.byID[id]
	return r, ok
}

// All returns every recipe in insertion order
func (d *Dictionary) All() []*recipe.Recipe {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return clone(d.list)
}

// InCategory returns the recipes of a category in insertion order. A non-empty
// subcategory narrows the result.
func (d *Dictionary) InCategory(category, subcategory string) []*recipe.Recipe {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if subcategory == "" {
		return clone(d.byCategory[category])
	}
	var out []*recipe.Recipe
	for _, r := range d.byCategory[category] {
		if r.Subcategory == subcategory {
			out = append(out, r)
		}
	}
	return out
}

// OfComponent returns the recipes that can consume typeID, in insertion order
func (d *Dictionary) OfComponent(typeID string) []*recipe.Recipe {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return clone(d.byComponent[typeID])
}

// WithResult returns the recipes producing typeID, in insertion order
func (d *Dictionary) WithResult(typeID string) []*recipe.Recipe {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var out []*recipe.Recipe
	for _, r := range d.list {
		if r.Result == typeID {
			out = append(out, r)
		}
	}
	return out
}

// WithBook returns the recipes book teaches, in insertion order
func (d *Dictionary) WithBook(book string) []*recipe.Recipe {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var out []*recipe.Recipe
	for _, r := range d.list {
		if _, ok := r.BookLevel(book); ok {
			out = append(out, r)
		}
	}
	return out
}

// Categories returns the known categories sorted by name
func (d *Dictionary) Categories() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]string, 0, len(d.byCategory))
	for c := range d.byCategory {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// CheckConsistency verifies the list holds each recipe exactly once and that
// the secondary indexes hold exactly the entries derived from it.
func (d *Dictionary) CheckConsistency() error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	inList := make(map[*recipe.Recipe]int, len(d.list))
	for _, r := range d.list {
		inList[r]++
		if inList[r] > 1 {
			return fmt.Errorf(ErrMsgListDuplicate, r.Ident)
		}
	}
	if len(d.byName) != len(d.list) || len(d.byID) != len(d.list) {
		return fmt.Errorf(ErrMsgIndexSize, len(d.list), len(d.byName), len(d.byID))
	}
	check := func(index string, rs []*recipe.Recipe) error {
		for _, r := range rs {
			if inList[r] != 1 {
				return fmt.Errorf(ErrMsgDanglingEntry, index, r.Ident)
			}
		}
		return nil
	}
	for _, r := range d.byName {
		if err := check("name", []*recipe.Recipe{r}); err != nil {
			return err
		}
	}
	for _, r := range d.byID {
		if err := check("index", []*recipe.Recipe{r}); err != nil {
			return err
		}
	}
	for _, rs := range d.byCategory {
		if err := check("category", rs); err != nil {
			return err
		}
	}
	for _, rs := range d.byComponent {
		if err := check("component", rs); err != nil {
			return err
		}
	}

	for _, r := range d.list {
		if !contains(d.byCategory[r.Category], r) {
			return fmt.Errorf(ErrMsgMissingEntry, "category", r.Ident)
		}
		for _, typeID := range r.Requirements.ItemTypes(requirement.KindComponent) {
			if !contains(d.byComponent[typeID], r) {
				return fmt.Errorf(ErrMsgMissingEntry, "component", r.Ident)
			}
		}
	}
	return nil
}

func contains(rs []*recipe.Recipe, r *recipe.Recipe) bool {
	for _, x := range rs {
		if x == r {
			return true
		}
	}
	return false
}

func clone(rs []*recipe.Recipe) []*recipe.Recipe {
	if len(rs) == 0 {
		return nil
	}
	out := make([]*recipe.Recipe, len(rs))
	copy(out, rs)
	return out
}

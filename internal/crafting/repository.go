package crafting

import (
	"context"
	"sort"
	"sync"
)

// KnownRecipeRepository records which recipes each crafter knows
type KnownRecipeRepository interface {
	KnownRecipes(ctx context.Context, crafterID string) ([]string, error)
	IsKnown(ctx context.Context, crafterID, recipe string) (bool, error)
	// LearnRecipe records recipe as known; it reports false when it already was.
	LearnRecipe(ctx context.Context, crafterID, recipe, source string) (bool, error)
	ForgetRecipe(ctx context.Context, crafterID, recipe string) error
}

// MemoryKnownRecipes keeps known recipes in process memory
type MemoryKnownRecipes struct {
	mu    sync.RWMutex
	known map[string]map[string]string
}

var _ KnownRecipeRepository = (*MemoryKnownRecipes)(nil)

// NewMemoryKnownRecipes creates an empty repository
func NewMemoryKnownRecipes() *MemoryKnownRecipes {
	return &MemoryKnownRecipes{known: make(map[string]map[string]string)}
}

func (m *MemoryKnownRecipes) KnownRecipes(_ context.Context, crafterID string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.known[crafterID]))
	for name := range m.known[crafterID] {
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

func (m *MemoryKnownRecipes) IsKnown(_ context.Context, crafterID, recipe string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.known[crafterID][recipe]
	return ok, nil
}

func (m *MemoryKnownRecipes) LearnRecipe(_ context.Context, crafterID, recipe, source string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.known[crafterID] == nil {
		m.known[crafterID] = make(map[string]string)
	}
	if _, ok := m.known[crafterID][recipe]; ok {
		return false, nil
	}
	m.known[crafterID][recipe] = source
	return true, nil
}

func (m *MemoryKnownRecipes) ForgetRecipe(_ context.Context, crafterID, recipe string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.known[crafterID], recipe)
	return nil
}

package recipe

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/ashfall/internal/domain"
	"github.com/osse101/ashfall/internal/requirement"
)

type mapCatalog map[string]domain.ItemType

func (c mapCatalog) ItemType(id string) (domain.ItemType, bool) {
	t, ok := c[id]
	return t, ok
}

func testCatalog() mapCatalog {
	return mapCatalog{
		"box":     {ID: "box", Name: "box", Category: domain.CategoryGeneric},
		"nails":   {ID: "nails", Name: "nails", Category: domain.CategoryAmmo, DefaultCharges: 1},
		"wire":    {ID: "wire", Name: "wire", Category: domain.CategoryGeneric},
		"plank":   {ID: "plank", Name: "plank", Category: domain.CategoryGeneric},
		"hammer":  {ID: "hammer", Name: "hammer", Category: domain.CategoryTool},
		"soup":    {ID: "soup", Name: "soup", Category: domain.CategoryComestible, Phase: domain.PhaseLiquid, DefaultCharges: 2},
		"scrap":   {ID: "scrap", Name: "scrap metal", Category: domain.CategoryGeneric},
		"battery": {ID: "battery", Name: "battery", Category: domain.CategoryAmmo, DefaultCharges: 10},
		"broth":   {ID: "broth", Name: "broth", Category: domain.CategoryComestible, Phase: domain.PhaseLiquid, DefaultCharges: 1, Container: "jar"},
		"jar":     {ID: "jar", Name: "glass jar", Category: domain.CategoryGeneric, Capacity: 4},
		"manual":  {ID: "manual", Name: "carpentry manual", Category: domain.CategoryGeneric},
	}
}

func boxRecipe() *Recipe {
	return &Recipe{
		Ident:              "box",
		ID:                 0,
		Result:             "box",
		Time:               100,
		Category:           "other",
		ResultMult:         1,
		LearnByDisassembly: NoDisassemblyLearning,
		Requirements: requirement.Set{
			Components: []requirement.Slot{
				{{{TypeID: "nails", Quantity: 2}}, {{TypeID: "wire", Quantity: 1}}},
				{{{TypeID: "plank", Quantity: 2}}},
			},
			Tools: []requirement.Slot{{{{TypeID: "hammer", Quantity: requirement.PresenceOnly}}}},
		},
	}
}

func TestRecipe_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *Recipe)
	}{
		{"empty id", func(r *Recipe) { r.Ident = "" }},
		{"negative index", func(r *Recipe) { r.ID = -1 }},
		{"no result", func(r *Recipe) { r.Result = "" }},
		{"negative time", func(r *Recipe) { r.Time = -5 }},
		{"rscale above one", func(r *Recipe) { r.BatchRScale = 1.5 }},
		{"negative rsize", func(r *Recipe) { r.BatchRSize = -1 }},
		{"zero result mult", func(r *Recipe) { r.ResultMult = 0 }},
		{"learnable but not reversible", func(r *Recipe) { r.LearnByDisassembly = 2 }},
		{"bad requirements", func(r *Recipe) { r.Requirements.Components[0] = requirement.Slot{} }},
	}

	require.NoError(t, boxRecipe().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := boxRecipe()
			tt.mutate(r)
			err := r.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidRecipe))
		})
	}
}

func TestRecipe_IsAutoLearnable(t *testing.T) {
	r := boxRecipe()
	assert.True(t, r.IsAutoLearnable(), "difficulty 0 and no skills")

	r.Difficulty = 2
	assert.False(t, r.IsAutoLearnable())

	r.Autolearn = true
	assert.True(t, r.IsAutoLearnable())

	r = boxRecipe()
	r.RequiredSkills = map[string]int{"tailor": 1}
	assert.False(t, r.IsAutoLearnable())
}

func TestRecipe_CanLearnByDisassembly(t *testing.T) {
	r := boxRecipe()
	assert.False(t, r.CanLearnByDisassembly(10))

	r.Reversible = true
	r.LearnByDisassembly = 3
	assert.False(t, r.CanLearnByDisassembly(2))
	assert.True(t, r.CanLearnByDisassembly(3))
}

func TestRecipe_MeetsSkills(t *testing.T) {
	r := boxRecipe()
	r.SkillUsed = "fabrication"
	r.Difficulty = 2
	r.RequiredSkills = map[string]int{"survival": 1}

	levels := map[string]int{"fabrication": 2, "survival": 1}
	assert.True(t, r.MeetsSkills(func(s string) int { return levels[s] }))

	levels["survival"] = 0
	assert.False(t, r.MeetsSkills(func(s string) int { return levels[s] }))
}

func TestRecipe_RequiredSkillsString(t *testing.T) {
	r := boxRecipe()
	assert.Equal(t, NoSkillsRequired, r.RequiredSkillsString())

	r.RequiredSkills = map[string]int{"tailor": 3, "electronics": 1, "mechanics": 2}
	want := "electronics(1), mechanics(2), tailor(3)"
	for i := 0; i < 20; i++ {
		assert.Equal(t, want, r.RequiredSkillsString())
	}
}

func TestRecipe_CreateResults(t *testing.T) {
	catalog := testCatalog()

	r := boxRecipe()
	r.ResultMult = 2
	results := r.CreateResults(catalog, 3)
	require.Len(t, results, 6)
	for _, it := range results {
		assert.Equal(t, domain.Item{TypeID: "box"}, it)
	}

	soup := boxRecipe()
	soup.Result = "soup"
	soup.ResultMult = 2
	stacked := soup.CreateResults(catalog, 3)
	require.Len(t, stacked, 1, "charge counted results stack")
	assert.Equal(t, 12, stacked[0].Charges, "6 portions of 2 charges")

	assert.Empty(t, r.CreateResults(catalog, 0))
}

func TestRecipe_LiquidResultsFillContainers(t *testing.T) {
	catalog := testCatalog()
	broth := boxRecipe()
	broth.Result = "broth"
	broth.ResultMult = 5

	tests := []struct {
		name      string
		contained bool
		batch     int
		wantJars  int
	}{
		{name: "no batch", batch: 0, wantJars: 0},
		{name: "partial jar", batch: 1, wantJars: 2},
		{name: "full jars", batch: 4, wantJars: 5},
		{name: "contained brings its own", contained: true, batch: 4, wantJars: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			broth.Contained = tt.contained
			container, n := broth.ContainersNeeded(catalog, tt.batch)
			assert.Equal(t, tt.wantJars, n)
			if n > 0 {
				assert.Equal(t, "jar", container)
			}
		})
	}

	results := broth.CreateResults(catalog, 1)
	assert.Equal(t, []domain.Item{
		{TypeID: "broth", Charges: 4, Container: "jar"},
		{TypeID: "broth", Charges: 1, Container: "jar"},
	}, results)

	soup := boxRecipe()
	soup.Result = "soup"
	_, n := soup.ContainersNeeded(catalog, 3)
	assert.Zero(t, n, "liquid without a container type")
	_, n = boxRecipe().ContainersNeeded(catalog, 3)
	assert.Zero(t, n)
}

func TestRecipe_BookLevel(t *testing.T) {
	r := boxRecipe()
	r.Booksets = []BookLearning{{Book: "manual", SkillLevel: 2}, {Book: "notes", SkillLevel: 0, Hidden: true}}

	level, ok := r.BookLevel("manual")
	assert.True(t, ok)
	assert.Equal(t, 2, level)
	level, ok = r.BookLevel("notes")
	assert.True(t, ok)
	assert.Zero(t, level)
	_, ok = r.BookLevel("novel")
	assert.False(t, ok)
}

func TestRecipe_CreateResult(t *testing.T) {
	catalog := testCatalog()
	r := boxRecipe()
	r.Result = "battery"

	assert.Equal(t, domain.Item{TypeID: "battery", Charges: 10}, r.CreateResult(catalog))
	assert.Equal(t, r.CreateResult(catalog), r.CreateResult(catalog))
	assert.Equal(t, domain.Item{TypeID: "battery"}, r.CreateResult(nil))
}

func TestRecipe_CreateByproducts(t *testing.T) {
	catalog := testCatalog()
	r := boxRecipe()
	r.Byproducts = []Byproduct{
		{Result: "scrap", ChargesMult: 1, Amount: 2},
		{Result: "battery", ChargesMult: 3, Amount: 1},
	}

	out := r.CreateByproducts(catalog, 2)
	require.Len(t, out, 5)
	for _, it := range out[:4] {
		assert.Equal(t, "scrap", it.TypeID)
	}
	assert.Equal(t, domain.Item{TypeID: "battery", Charges: 60}, out[4], "2 units * 3 mult * 10 default charges")
}

func TestRecipe_DisassemblyYield(t *testing.T) {
	catalog := testCatalog()
	r := boxRecipe()

	_, err := r.DisassemblyYield(catalog)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrRecipeNotReversible))
	_, err = r.DisassemblyTools()
	assert.True(t, errors.Is(err, domain.ErrRecipeNotReversible))

	r.Reversible = true
	out, err := r.DisassemblyYield(catalog)
	require.NoError(t, err)
	assert.Equal(t, []domain.Item{
		{TypeID: "nails", Charges: 2},
		{TypeID: "plank"},
		{TypeID: "plank"},
	}, out)

	tools, err := r.DisassemblyTools()
	require.NoError(t, err)
	assert.Len(t, tools, 1)
}

type fakeCounter map[string]int

func (f fakeCounter) Count(_ domain.Usage, id string) int   { return f[id] }
func (f fakeCounter) Charges(_ domain.Usage, id string) int { return 0 }

func TestRecipe_CanMakeWithInventory(t *testing.T) {
	r := boxRecipe()
	inv := fakeCounter{"wire": 2, "plank": 4, "hammer": 1}

	assert.True(t, r.CanMakeWithInventory(inv, 1))
	assert.True(t, r.CanMakeWithInventory(inv, 2))
	assert.False(t, r.CanMakeWithInventory(inv, 3))
	assert.False(t, r.CanMakeWithInventory(inv, 0))
	assert.Equal(t, fakeCounter{"wire": 2, "plank": 4, "hammer": 1}, inv)
}

func TestRecipe_CanMakeWithInventory_SlotsShareStock(t *testing.T) {
	r := &Recipe{
		Ident:  "fence",
		Result: "box",
		Requirements: requirement.Set{Components: []requirement.Slot{
			{{{TypeID: "wire", Quantity: 1}}},
			{{{TypeID: "wire", Quantity: 1}}, {{TypeID: "plank", Quantity: 1}}},
		}},
	}

	tests := []struct {
		name string
		inv  fakeCounter
		want bool
	}{
		{name: "one wire for two slots", inv: fakeCounter{"wire": 1}, want: false},
		{name: "two wires", inv: fakeCounter{"wire": 2}, want: true},
		{name: "second slot falls back to plank", inv: fakeCounter{"wire": 1, "plank": 1}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.CanMakeWithInventory(tt.inv, 1))
		})
	}
}

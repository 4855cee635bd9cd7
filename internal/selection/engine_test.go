package selection

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/ashfall/internal/domain"
	"github.com/osse101/ashfall/internal/inventory"
	"github.com/osse101/ashfall/internal/requirement"
)

type mapCatalog map[string]domain.ItemType

func (c mapCatalog) ItemType(id string) (domain.ItemType, bool) {
	t, ok := c[id]
	return t, ok
}

var catalog = mapCatalog{
	"nails":  {ID: "nails", Name: "nails", Category: domain.CategoryAmmo, DefaultCharges: 1},
	"wire":   {ID: "wire", Name: "wire", Category: domain.CategoryGeneric},
	"plank":  {ID: "plank", Name: "plank", Category: domain.CategoryGeneric},
	"rope":   {ID: "rope", Name: "rope", Category: domain.CategoryGeneric},
	"log":    {ID: "log", Name: "log", Category: domain.CategoryGeneric},
	"hammer": {ID: "hammer", Name: "hammer", Category: domain.CategoryTool},
	"welder": {ID: "welder", Name: "welder", Category: domain.CategoryTool, MaxCharges: 500},
}

func item(id string) domain.Item { return domain.Item{TypeID: id} }

func view(mapItems, playerItems []domain.Item) *inventory.View {
	return inventory.NewView(inventory.New(catalog, mapItems...), inventory.New(catalog, playerItems...))
}

func nailsOrWireWithHammer() requirement.Set {
	return requirement.Set{
		Components: []requirement.Slot{{
			{{TypeID: "nails", Quantity: 2}},
			{{TypeID: "wire", Quantity: 1}},
		}},
		Tools: []requirement.Slot{{
			{{TypeID: "hammer", Quantity: requirement.PresenceOnly}},
		}},
	}
}

func TestSelect_ChoosesOnlySatisfiableAlternative(t *testing.T) {
	tests := []struct {
		name    string
		v       *inventory.View
		wantUse domain.Usage
	}{
		{"map only", view([]domain.Item{item("wire"), item("hammer")}, nil), domain.UseFromMap},
		{"player only", view(nil, []domain.Item{item("wire"), item("hammer")}), domain.UseFromPlayer},
		{"both", view([]domain.Item{item("wire")}, []domain.Item{item("wire"), item("hammer")}), domain.UseBoth},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Select(tt.v, nailsOrWireWithHammer(), 1)
			require.True(t, res.Complete())
			require.Len(t, res.Items, 1)
			assert.Equal(t, 1, res.Items[0].Alternative, "wire is the second alternative")
			assert.Equal(t, "wire", res.Items[0].Picks[0].Component.TypeID)
			assert.Equal(t, tt.wantUse, res.Items[0].Picks[0].Use)
		})
	}
}

func TestSelect_TagsTool(t *testing.T) {
	res := Select(view([]domain.Item{item("hammer")}, []domain.Item{item("wire")}), nailsOrWireWithHammer(), 1)
	require.True(t, res.Complete())
	require.Len(t, res.Tools, 1)
	assert.Equal(t, "hammer", res.Tools[0].Picks[0].Component.TypeID)
	assert.Equal(t, domain.UseFromMap, res.Tools[0].Use())
	assert.Equal(t, domain.UseFromPlayer, res.Items[0].Use())
}

func TestSelect_CombinedStockIsTaggedBoth(t *testing.T) {
	v := view(
		[]domain.Item{{TypeID: "nails", Charges: 1}},
		[]domain.Item{{TypeID: "nails", Charges: 1}, item("hammer")},
	)
	res := Select(v, nailsOrWireWithHammer(), 1)
	require.True(t, res.Complete())
	assert.Equal(t, 0, res.Items[0].Alternative)
	assert.Equal(t, domain.UseBoth, res.Items[0].Picks[0].Use)
}

func TestSelect_PrefersFewestDistinctTypes(t *testing.T) {
	set := requirement.Set{Components: []requirement.Slot{{
		{{TypeID: "plank", Quantity: 2}, {TypeID: "rope", Quantity: 1}},
		{{TypeID: "log", Quantity: 1}},
		{{TypeID: "wire", Quantity: 1}},
	}}}
	v := view(nil, []domain.Item{item("plank"), item("plank"), item("rope"), item("log"), item("wire")})

	res := Select(v, set, 1)
	require.True(t, res.Complete())
	assert.Equal(t, 1, res.Items[0].Alternative, "log wins over plank+rope, and over wire by declaration order")
}

func TestSelect_RecordsEveryMissingSlot(t *testing.T) {
	set := requirement.Set{
		Components: []requirement.Slot{
			{{{TypeID: "plank", Quantity: 1}}},
			{{{TypeID: "nails", Quantity: 5}}},
			{{{TypeID: "rope", Quantity: 1}}},
		},
		Tools: []requirement.Slot{
			{{{TypeID: "hammer", Quantity: requirement.PresenceOnly}}},
			{{{TypeID: "welder", Quantity: 10}}},
		},
	}
	v := view(nil, []domain.Item{item("plank"), {TypeID: "welder", Charges: 5}})

	res := Select(v, set, 1)
	assert.False(t, res.Complete())
	assert.Len(t, res.Items, 1)
	require.Len(t, res.Missing.Components, 2)
	assert.Equal(t, 1, res.Missing.Components[0].Slot)
	assert.Equal(t, 2, res.Missing.Components[1].Slot)
	require.Len(t, res.Missing.Tools, 2)
	assert.Equal(t, requirement.KindTool, res.Missing.Tools[0].Kind)
	assert.Len(t, res.Missing.All(), 4)
}

func TestSelect_SlotsDoNotDoubleCount(t *testing.T) {
	set := requirement.Set{Components: []requirement.Slot{
		{{{TypeID: "plank", Quantity: 2}}},
		{{{TypeID: "plank", Quantity: 1}}, {{TypeID: "log", Quantity: 1}}},
	}}
	v := view(nil, []domain.Item{item("plank"), item("plank"), item("log")})

	res := Select(v, set, 1)
	require.True(t, res.Complete())
	assert.Equal(t, 1, res.Items[1].Alternative, "both planks already claimed by the first slot")

	v = view(nil, []domain.Item{item("plank"), item("plank")})
	res = Select(v, set, 1)
	require.Len(t, res.Missing.Components, 1)
	assert.Equal(t, 1, res.Missing.Components[0].Slot)
}

func TestSelect_ToolNotAlsoSpentAsComponent(t *testing.T) {
	set := requirement.Set{
		Components: []requirement.Slot{{{{TypeID: "hammer", Quantity: 1}}}},
		Tools:      []requirement.Slot{{{{TypeID: "hammer", Quantity: requirement.PresenceOnly}}}},
	}

	tests := []struct {
		name     string
		mapItems []domain.Item
		player   []domain.Item
		complete bool
		toolUse  domain.Usage
	}{
		{name: "single hammer", player: []domain.Item{item("hammer")}},
		{name: "two hammers", player: []domain.Item{item("hammer"), item("hammer")}, complete: true, toolUse: domain.UseFromPlayer},
		{name: "spare hammer on the map", mapItems: []domain.Item{item("hammer")}, player: []domain.Item{item("hammer")}, complete: true, toolUse: domain.UseFromPlayer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := view(tt.mapItems, tt.player)
			res := Select(v, set, 1)
			assert.Equal(t, tt.complete, res.Complete())
			if !tt.complete {
				require.Len(t, res.Missing.Tools, 1)
				assert.Empty(t, res.Missing.Components)
				return
			}
			assert.Equal(t, tt.toolUse, res.Tools[0].Use())
			assert.True(t, Revalidate(v, res.Items, res.Tools, 1).Empty())

			_, err := Consume(v, res.Items, res.Tools, 1)
			require.NoError(t, err)
			assert.Equal(t, 1, v.Count(domain.UseBoth, "hammer"))
		})
	}
}

func TestSelect_ScalesWithBatch(t *testing.T) {
	v := view(nil, []domain.Item{{TypeID: "nails", Charges: 4}, item("wire"), item("hammer")})

	res := Select(v, nailsOrWireWithHammer(), 2)
	require.True(t, res.Complete())
	assert.Equal(t, 0, res.Items[0].Alternative, "wire only covers one unit")

	res = Select(v, nailsOrWireWithHammer(), 3)
	assert.False(t, res.Complete())
}

func TestSelect_Deterministic(t *testing.T) {
	v := view([]domain.Item{item("wire")}, []domain.Item{{TypeID: "nails", Charges: 2}, item("hammer")})
	first := Select(v, nailsOrWireWithHammer(), 1)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Select(v, nailsOrWireWithHammer(), 1))
	}
}

func TestRevalidate(t *testing.T) {
	v := view(nil, []domain.Item{item("wire"), item("hammer")})
	res := Select(v, nailsOrWireWithHammer(), 1)
	require.True(t, res.Complete())

	assert.True(t, Revalidate(v, res.Items, res.Tools, 1).Empty())

	_, err := v.Player.Take("wire", 1)
	require.NoError(t, err)

	missing := Revalidate(v, res.Items, res.Tools, 1)
	require.Len(t, missing.Components, 1)
	assert.Empty(t, missing.Tools)
	assert.Equal(t, requirement.Slot{{{TypeID: "wire", Quantity: 1}}}, missing.Components[0].Alternatives)
}

func TestRevalidate_ItemMovedAwayFromTaggedLocation(t *testing.T) {
	v := view([]domain.Item{item("wire")}, []domain.Item{item("hammer")})
	res := Select(v, nailsOrWireWithHammer(), 1)
	require.Equal(t, domain.UseFromMap, res.Items[0].Use())

	taken, err := v.Map.Take("wire", 1)
	require.NoError(t, err)
	v.Player.Add(taken...)

	assert.False(t, Revalidate(v, res.Items, res.Tools, 1).Empty())
}

func TestConsume(t *testing.T) {
	v := view(nil, []domain.Item{item("wire"), item("hammer"), item("plank")})
	res := Select(v, nailsOrWireWithHammer(), 1)

	consumed, err := Consume(v, res.Items, res.Tools, 1)
	require.NoError(t, err)
	assert.Equal(t, []domain.Item{item("wire")}, consumed)
	assert.Equal(t, 0, v.Count(domain.UseBoth, "wire"))
	assert.Equal(t, 1, v.Count(domain.UseBoth, "hammer"), "tools are not consumed")
	assert.Equal(t, 1, v.Count(domain.UseBoth, "plank"))
}

func TestConsume_ToolCharges(t *testing.T) {
	set := requirement.Set{
		Components: []requirement.Slot{{{{TypeID: "plank", Quantity: 1}}}},
		Tools:      []requirement.Slot{{{{TypeID: "welder", Quantity: 10}}}},
	}
	v := view([]domain.Item{{TypeID: "welder", Charges: 100}}, []domain.Item{item("plank"), item("plank"), {TypeID: "welder", Charges: 15}})

	res := Select(v, set, 2)
	require.True(t, res.Complete())
	assert.Equal(t, domain.UseFromMap, res.Tools[0].Use(), "only the map welder has 20 charges")

	_, err := Consume(v, res.Items, res.Tools, 2)
	require.NoError(t, err)
	assert.Equal(t, 80, v.Map.Charges("welder"))
	assert.Equal(t, 15, v.Player.Charges("welder"))
}

func TestConsume_SharedAfterFixed(t *testing.T) {
	set := requirement.Set{Components: []requirement.Slot{
		{{{TypeID: "plank", Quantity: 1}}},
		{{{TypeID: "plank", Quantity: 1}}},
	}}
	v := view([]domain.Item{item("plank")}, []domain.Item{item("plank")})

	res := Select(v, set, 1)
	require.True(t, res.Complete())
	assert.Equal(t, domain.UseBoth, res.Items[0].Use())
	assert.Equal(t, domain.UseBoth, res.Items[1].Use())

	consumed, err := Consume(v, res.Items, res.Tools, 1)
	require.NoError(t, err)
	assert.Len(t, consumed, 2)
	assert.Equal(t, 0, v.Count(domain.UseBoth, "plank"))
}

func TestConsume_NothingTakenWhenMissing(t *testing.T) {
	set := requirement.Set{Components: []requirement.Slot{
		{{{TypeID: "plank", Quantity: 1}}},
		{{{TypeID: "rope", Quantity: 1}}},
	}}
	v := view(nil, []domain.Item{item("plank"), item("rope")})
	res := Select(v, set, 1)
	require.True(t, res.Complete())

	_, err := v.Player.Take("rope", 1)
	require.NoError(t, err)

	consumed, err := Consume(v, res.Items, res.Tools, 1)
	require.Error(t, err)
	assert.Nil(t, consumed)
	assert.True(t, errors.Is(err, domain.ErrMissingComponents))

	var missingErr *Error
	require.True(t, errors.As(err, &missingErr))
	assert.Equal(t, 1, missingErr.Missing.Components[0].Slot)
	assert.Equal(t, 1, v.Count(domain.UseBoth, "plank"), "plank untouched")
}

func TestMissing_Describe(t *testing.T) {
	m := Missing{
		Components: []MissingSlot{{
			Kind: requirement.KindComponent,
			Alternatives: requirement.Slot{
				{{TypeID: "nails", Quantity: 2}},
				{{TypeID: "wire", Quantity: 1}, {TypeID: "plank", Quantity: 1}},
			},
		}},
		Tools: []MissingSlot{
			{Kind: requirement.KindTool, Alternatives: requirement.Slot{{{TypeID: "hammer", Quantity: requirement.PresenceOnly}}}},
			{Kind: requirement.KindTool, Alternatives: requirement.Slot{{{TypeID: "welder", Quantity: 5}}}},
		},
	}
	names := map[string]string{"nails": "nails", "wire": "copper wire", "plank": "plank", "hammer": "hammer", "welder": "welder"}

	lines := m.Describe(func(id string) string { return names[id] }, 2)
	assert.Equal(t, []string{
		"4 Nails OR 2 Copper Wire + 2 Plank",
		"Hammer",
		"Welder (10 charges)",
	}, lines)

	err := &Error{Missing: m}
	assert.Contains(t, err.Error(), domain.ErrMsgMissingComponents)
	assert.Contains(t, err.Error(), "2 Nails OR 1 Wire + 1 Plank")
}

package requirement

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/ashfall/internal/domain"
)

// stubCounter keeps per-location counts and charges
type stubCounter struct {
	counts  map[domain.Usage]map[string]int
	charges map[domain.Usage]map[string]int
}

func newStubCounter() *stubCounter {
	return &stubCounter{
		counts:  map[domain.Usage]map[string]int{domain.UseFromMap: {}, domain.UseFromPlayer: {}},
		charges: map[domain.Usage]map[string]int{domain.UseFromMap: {}, domain.UseFromPlayer: {}},
	}
}

func (s *stubCounter) lookup(m map[domain.Usage]map[string]int, loc domain.Usage, id string) int {
	total := 0
	for _, l := range []domain.Usage{domain.UseFromMap, domain.UseFromPlayer} {
		if loc.Includes(l) {
			total += m[l][id]
		}
	}
	return total
}

func (s *stubCounter) Count(loc domain.Usage, id string) int   { return s.lookup(s.counts, loc, id) }
func (s *stubCounter) Charges(loc domain.Usage, id string) int { return s.lookup(s.charges, loc, id) }

func nailsOrWire() Set {
	return Set{
		Components: []Slot{{
			{{TypeID: "nails", Quantity: 2}},
			{{TypeID: "wire", Quantity: 1}},
		}},
		Tools: []Slot{{
			{{TypeID: "hammer", Quantity: PresenceOnly}},
		}},
	}
}

func TestSet_UnmarshalJSON(t *testing.T) {
	input := `{
		"components": [
			[["nails", 2], {"id": "wire", "quantity": 1}],
			[[["plank", 2], ["rope", 1]], [{"id": "log", "quantity": 1}]]
		],
		"tools": [[["hammer", -1]]]
	}`

	var set Set
	require.NoError(t, json.Unmarshal([]byte(input), &set))

	require.Len(t, set.Components, 2)
	assert.Equal(t, Slot{{{"nails", 2}}, {{"wire", 1}}}, set.Components[0])
	assert.Equal(t, Slot{{{"plank", 2}, {"rope", 1}}, {{"log", 1}}}, set.Components[1])
	require.Len(t, set.Tools, 1)
	assert.True(t, set.Tools[0][0][0].IsPresenceOnly())
	assert.NoError(t, set.Validate())
}

func TestComponent_UnmarshalJSON_BadPair(t *testing.T) {
	var c Component
	err := json.Unmarshal([]byte(`["nails"]`), &c)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidRecipe))
}

func TestSet_Validate(t *testing.T) {
	tests := []struct {
		name    string
		set     Set
		wantErr bool
	}{
		{"valid", nailsOrWire(), false},
		{"empty set", Set{}, false},
		{"empty slot", Set{Components: []Slot{{}}}, true},
		{"empty alternative", Set{Components: []Slot{{{}}}}, true},
		{"empty id", Set{Components: []Slot{{{{TypeID: "", Quantity: 1}}}}}, true},
		{"zero quantity", Set{Components: []Slot{{{{TypeID: "nails", Quantity: 0}}}}}, true},
		{"presence only component", Set{Components: []Slot{{{{TypeID: "nails", Quantity: PresenceOnly}}}}}, true},
		{"presence only tool", Set{Tools: []Slot{{{{TypeID: "saw", Quantity: PresenceOnly}}}}}, false},
		{"duplicate in alternative", Set{Components: []Slot{{{{"nails", 1}, {"nails", 2}}}}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.set.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, domain.ErrInvalidRecipe))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSlot_Satisfiable_ScalesMaterialsLinearly(t *testing.T) {
	ctr := newStubCounter()
	ctr.counts[domain.UseFromPlayer]["nails"] = 5
	slot := nailsOrWire().Components[0]

	assert.Equal(t, []int{0}, slot.Satisfiable(ctr, KindComponent, 1))
	assert.Equal(t, []int{0}, slot.Satisfiable(ctr, KindComponent, 2))
	assert.Empty(t, slot.Satisfiable(ctr, KindComponent, 3), "6 nails needed for 3 units")
}

func TestSlot_Satisfiable_CombinesLocations(t *testing.T) {
	ctr := newStubCounter()
	ctr.counts[domain.UseFromPlayer]["nails"] = 1
	ctr.counts[domain.UseFromMap]["nails"] = 1

	assert.Equal(t, []int{0}, nailsOrWire().Components[0].Satisfiable(ctr, KindComponent, 1))
}

func TestSlot_Satisfiable_PresenceOnlyTool(t *testing.T) {
	ctr := newStubCounter()
	ctr.counts[domain.UseFromPlayer]["wire"] = 1

	assert.Equal(t, []int{1}, nailsOrWire().Components[0].Satisfiable(ctr, KindComponent, 1))
	assert.Empty(t, nailsOrWire().Tools[0].Satisfiable(ctr, KindTool, 1))

	ctr.counts[domain.UseFromMap]["hammer"] = 1
	assert.Equal(t, []int{0}, nailsOrWire().Tools[0].Satisfiable(ctr, KindTool, 50))
}

func TestAvailable_ToolCharges(t *testing.T) {
	ctr := newStubCounter()
	ctr.counts[domain.UseFromPlayer]["welder"] = 1
	ctr.charges[domain.UseFromPlayer]["welder"] = 50
	welder := Component{TypeID: "welder", Quantity: 20}

	assert.True(t, Available(ctr, KindTool, welder, domain.UseBoth, 2))
	assert.False(t, Available(ctr, KindTool, welder, domain.UseBoth, 3))
	assert.False(t, Available(ctr, KindTool, welder, domain.UseFromMap, 1))
}

func TestSlot_Satisfiable(t *testing.T) {
	ctr := newStubCounter()
	ctr.counts[domain.UseFromMap]["wire"] = 1
	slot := nailsOrWire().Components[0]

	assert.Equal(t, []int{1}, slot.Satisfiable(ctr, KindComponent, 1))
}

func TestSet_ItemTypes(t *testing.T) {
	set := Set{Components: []Slot{
		{{{"nails", 2}}, {{"wire", 1}}},
		{{{"plank", 1}, {"nails", 1}}},
	}}
	assert.Equal(t, []string{"nails", "wire", "plank"}, set.ItemTypes(KindComponent))
	assert.Empty(t, set.ItemTypes(KindTool))
}

func TestAlternative_DistinctTypes(t *testing.T) {
	assert.Equal(t, 2, Alternative{{"plank", 2}, {"rope", 1}}.DistinctTypes())
	assert.Equal(t, 1, Alternative{{"log", 1}}.DistinctTypes())
}

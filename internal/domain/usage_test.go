package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsage_Values(t *testing.T) {
	assert.Equal(t, Usage(1), UseFromMap)
	assert.Equal(t, Usage(2), UseFromPlayer)
	assert.Equal(t, Usage(3), UseBoth)
	assert.Equal(t, Usage(4), UseNone)
	assert.Equal(t, Usage(8), UseCancel)
}

func TestUsage_Includes(t *testing.T) {
	assert.True(t, UseBoth.Includes(UseFromMap))
	assert.True(t, UseBoth.Includes(UseFromPlayer))
	assert.True(t, UseFromMap.Includes(UseFromMap))
	assert.False(t, UseFromMap.Includes(UseFromPlayer))
	assert.False(t, UseNone.Includes(UseFromMap))
	assert.False(t, UseCancel.Includes(UseFromPlayer))
}

func TestUsage_JSON(t *testing.T) {
	data, err := json.Marshal(struct {
		Use Usage `json:"use"`
	}{UseBoth})
	require.NoError(t, err)
	assert.JSONEq(t, `{"use":"both"}`, string(data))

	var out struct {
		Use Usage `json:"use"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"use":"player"}`), &out))
	assert.Equal(t, UseFromPlayer, out.Use)

	assert.Equal(t, UseNone, ParseUsage("nowhere"))
}

func TestItemType_CountByCharges(t *testing.T) {
	tests := []struct {
		name string
		typ  ItemType
		want bool
	}{
		{"ammo", ItemType{Category: CategoryAmmo}, true},
		{"single portion food", ItemType{Category: CategoryComestible, DefaultCharges: 1}, false},
		{"multi portion food", ItemType{Category: CategoryComestible, DefaultCharges: 4}, true},
		{"liquid", ItemType{Category: CategoryComestible, Phase: PhaseLiquid, DefaultCharges: 1}, true},
		{"tool", ItemType{Category: CategoryTool, MaxCharges: 100}, false},
		{"plank", ItemType{Category: CategoryGeneric}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.typ.CountByCharges())
		})
	}
}

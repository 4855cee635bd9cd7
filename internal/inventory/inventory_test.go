package inventory

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/ashfall/internal/domain"
)

type mapCatalog map[string]domain.ItemType

func (c mapCatalog) ItemType(id string) (domain.ItemType, bool) {
	t, ok := c[id]
	return t, ok
}

var catalog = mapCatalog{
	"nails":  {ID: "nails", Name: "nails", Category: domain.CategoryAmmo, DefaultCharges: 1},
	"wire":   {ID: "wire", Name: "wire", Category: domain.CategoryGeneric},
	"welder": {ID: "welder", Name: "welder", Category: domain.CategoryTool, MaxCharges: 500},
}

func TestInventory_AddStacksChargeCounted(t *testing.T) {
	inv := New(catalog, domain.Item{TypeID: "nails", Charges: 10}, domain.Item{TypeID: "wire"})
	inv.Add(domain.Item{TypeID: "nails", Charges: 5}, domain.Item{TypeID: "wire"})

	assert.Equal(t, 3, inv.Len())
	assert.Equal(t, 15, inv.Count("nails"))
	assert.Equal(t, 2, inv.Count("wire"))
	assert.Equal(t, 0, inv.Count("rope"))
}

func TestInventory_Take(t *testing.T) {
	inv := New(catalog,
		domain.Item{TypeID: "nails", Charges: 10},
		domain.Item{TypeID: "wire"},
		domain.Item{TypeID: "wire"},
	)

	taken, err := inv.Take("nails", 4)
	require.NoError(t, err)
	assert.Equal(t, []domain.Item{{TypeID: "nails", Charges: 4}}, taken)
	assert.Equal(t, 6, inv.Count("nails"))

	taken, err = inv.Take("wire", 1)
	require.NoError(t, err)
	assert.Len(t, taken, 1)
	assert.Equal(t, 1, inv.Count("wire"))

	_, err = inv.Take("wire", 2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientQuantity))
	assert.Equal(t, 1, inv.Count("wire"), "failed take leaves inventory untouched")

	_, err = inv.Take("nails", 6)
	require.NoError(t, err)
	assert.Equal(t, 1, inv.Len(), "empty stack removed")
}

func TestInventory_UseCharges(t *testing.T) {
	inv := New(catalog,
		domain.Item{TypeID: "welder", Charges: 30},
		domain.Item{TypeID: "welder", Charges: 50},
	)
	require.NoError(t, inv.UseCharges("welder", 40))
	assert.Equal(t, 40, inv.Charges("welder"))
	assert.Equal(t, []domain.Item{{TypeID: "welder", Charges: 0}, {TypeID: "welder", Charges: 40}}, inv.Items())

	err := inv.UseCharges("welder", 41)
	assert.True(t, errors.Is(err, domain.ErrInsufficientCharges))
	assert.Equal(t, 40, inv.Charges("welder"))
}

func TestView_CountByLocation(t *testing.T) {
	v := NewView(
		New(catalog, domain.Item{TypeID: "wire"}),
		New(catalog, domain.Item{TypeID: "wire"}, domain.Item{TypeID: "wire"}),
	)
	assert.Equal(t, 1, v.Count(domain.UseFromMap, "wire"))
	assert.Equal(t, 2, v.Count(domain.UseFromPlayer, "wire"))
	assert.Equal(t, 3, v.Count(domain.UseBoth, "wire"))
	assert.Equal(t, 0, v.Count(domain.UseNone, "wire"))
}

func TestView_RemoveBothDrainsMapFirst(t *testing.T) {
	mapInv := New(catalog, domain.Item{TypeID: "nails", Charges: 3})
	playerInv := New(catalog, domain.Item{TypeID: "nails", Charges: 5})
	v := NewView(mapInv, playerInv)

	items, err := v.Remove(domain.UseBoth, "nails", 4)
	require.NoError(t, err)
	assert.Equal(t, []domain.Item{{TypeID: "nails", Charges: 3}, {TypeID: "nails", Charges: 1}}, items)
	assert.Equal(t, 0, mapInv.Count("nails"))
	assert.Equal(t, 4, playerInv.Count("nails"))

	_, err = v.Remove(domain.UseFromMap, "nails", 1)
	assert.True(t, errors.Is(err, domain.ErrInsufficientQuantity))
}

func TestView_UseChargesBothDrainsPlayerFirst(t *testing.T) {
	mapInv := New(catalog, domain.Item{TypeID: "welder", Charges: 100})
	playerInv := New(catalog, domain.Item{TypeID: "welder", Charges: 20})
	v := NewView(mapInv, playerInv)

	require.NoError(t, v.UseCharges(domain.UseBoth, "welder", 50))
	assert.Equal(t, 0, playerInv.Charges("welder"))
	assert.Equal(t, 70, mapInv.Charges("welder"))

	err := v.UseCharges(domain.UseFromPlayer, "welder", 1)
	assert.True(t, errors.Is(err, domain.ErrInsufficientCharges))
}

func TestView_NilLocation(t *testing.T) {
	v := NewView(nil, New(catalog, domain.Item{TypeID: "wire"}))
	assert.Equal(t, 1, v.Count(domain.UseBoth, "wire"))
	assert.Equal(t, 0, v.Count(domain.UseFromMap, "wire"))
}

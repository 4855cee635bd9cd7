package inventory

import (
	"fmt"

	"github.com/osse101/ashfall/internal/domain"
)

// Provider is what the crafting core needs from the world: counts per location
// and removal from a location. It never enumerates storage directly.
type Provider interface {
	Count(loc domain.Usage, typeID string) int
	Charges(loc domain.Usage, typeID string) int
	Remove(loc domain.Usage, typeID string, n int) ([]domain.Item, error)
	UseCharges(loc domain.Usage, typeID string, n int) error
}

// View combines the items reachable on the map around a crafter with the items
// the crafter carries.
type View struct {
	Map    *Inventory
	Player *Inventory
}

// NewView creates a view over two location inventories
func NewView(mapInv, playerInv *Inventory) *View {
	return &View{Map: mapInv, Player: playerInv}
}

func (v *View) locations(loc domain.Usage) []*Inventory {
	var out []*Inventory
	if loc.Includes(domain.UseFromMap) && v.Map != nil {
		out = append(out, v.Map)
	}
	if loc.Includes(domain.UseFromPlayer) && v.Player != nil {
		out = append(out, v.Player)
	}
	return out
}

// Count returns the units of typeID available at loc
func (v *View) Count(loc domain.Usage, typeID string) int {
	total := 0
	for _, inv := range v.locations(loc) {
		total += inv.Count(typeID)
	}
	return total
}

// Charges returns the charges of typeID available at loc
func (v *View) Charges(loc domain.Usage, typeID string) int {
	total := 0
	for _, inv := range v.locations(loc) {
		total += inv.Charges(typeID)
	}
	return total
}

// Remove takes n units of typeID from loc. For UseBoth the map is drained
// before the player's gear. Nothing is removed on failure.
func (v *View) Remove(loc domain.Usage, typeID string, n int) ([]domain.Item, error) {
	if have := v.Count(loc, typeID); have < n {
		return nil, fmt.Errorf("%w: need %d %s from %s, have %d", domain.ErrInsufficientQuantity, n, typeID, loc, have)
	}
	var out []domain.Item
	for _, inv := range v.locations(loc) {
		if n == 0 {
			break
		}
		take := min(inv.Count(typeID), n)
		items, err := inv.Take(typeID, take)
		if err != nil {
			return out, err
		}
		out = append(out, items...)
		n -= take
	}
	return out, nil
}

// UseCharges drains n charges of typeID from loc. For UseBoth the player's
// tools are drained before tools lying on the map.
func (v *View) UseCharges(loc domain.Usage, typeID string, n int) error {
	if have := v.Charges(loc, typeID); have < n {
		return fmt.Errorf("%w: need %d charges of %s from %s, have %d", domain.ErrInsufficientCharges, n, typeID, loc, have)
	}
	locs := v.locations(loc)
	for i := len(locs) - 1; i >= 0 && n > 0; i-- {
		use := min(locs[i].Charges(typeID), n)
		if err := locs[i].UseCharges(typeID, use); err != nil {
			return err
		}
		n -= use
	}
	return nil
}

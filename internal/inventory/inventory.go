package inventory

import (
	"fmt"

	"github.com/osse101/ashfall/internal/domain"
)

// Inventory holds the items at one location (the ground around the crafter or
// the crafter's own gear). Types counted by charges are kept as a single stack.
type Inventory struct {
	catalog domain.Catalog
	items   []domain.Item
}

// New creates an inventory holding items
func New(catalog domain.Catalog, items ...domain.Item) *Inventory {
	inv := &Inventory{catalog: catalog}
	inv.Add(items...)
	return inv
}

func (inv *Inventory) countsByCharges(typeID string) bool {
	if inv.catalog == nil {
		return false
	}
	t, ok := inv.catalog.ItemType(typeID)
	return ok && t.CountByCharges()
}

// findStack returns the index of the stack for typeID, or -1
func (inv *Inventory) findStack(typeID string) int {
	for i, it := range inv.items {
		if it.TypeID == typeID {
			return i
		}
	}
	return -1
}

// Add puts items into the inventory, merging charge-counted types into their stack
func (inv *Inventory) Add(items ...domain.Item) {
	for _, it := range items {
		if inv.countsByCharges(it.TypeID) {
			if idx := inv.findStack(it.TypeID); idx >= 0 {
				inv.items[idx].Charges += it.Charges
				continue
			}
		}
		inv.items = append(inv.items, it)
	}
}

// Items returns a copy of the held items
func (inv *Inventory) Items() []domain.Item {
	out := make([]domain.Item, len(inv.items))
	copy(out, inv.items)
	return out
}

// Len returns the number of held entries
func (inv *Inventory) Len() int {
	return len(inv.items)
}

// Count returns how many units of typeID are held: charges for charge-counted
// types, instances otherwise.
func (inv *Inventory) Count(typeID string) int {
	byCharges := inv.countsByCharges(typeID)
	total := 0
	for _, it := range inv.items {
		if it.TypeID != typeID {
			continue
		}
		if byCharges {
			total += it.Charges
		} else {
			total++
		}
	}
	return total
}

// Charges returns the summed charges of every instance of typeID
func (inv *Inventory) Charges(typeID string) int {
	total := 0
	for _, it := range inv.items {
		if it.TypeID == typeID {
			total += it.Charges
		}
	}
	return total
}

// Take removes n units of typeID and returns them. Nothing is removed when
// fewer than n units are held.
func (inv *Inventory) Take(typeID string, n int) ([]domain.Item, error) {
	if n <= 0 {
		return nil, nil
	}
	if have := inv.Count(typeID); have < n {
		return nil, fmt.Errorf("%w: need %d %s, have %d", domain.ErrInsufficientQuantity, n, typeID, have)
	}

	if inv.countsByCharges(typeID) {
		idx := inv.findStack(typeID)
		inv.items[idx].Charges -= n
		if inv.items[idx].Charges == 0 {
			inv.removeAt(idx)
		}
		return []domain.Item{{TypeID: typeID, Charges: n}}, nil
	}

	taken := make([]domain.Item, 0, n)
	kept := inv.items[:0]
	for _, it := range inv.items {
		if it.TypeID == typeID && len(taken) < n {
			taken = append(taken, it)
			continue
		}
		kept = append(kept, it)
	}
	inv.items = kept
	return taken, nil
}

// UseCharges drains n charges from instances of typeID in order. Nothing is
// drained when fewer than n charges are held.
func (inv *Inventory) UseCharges(typeID string, n int) error {
	if n <= 0 {
		return nil
	}
	if have := inv.Charges(typeID); have < n {
		return fmt.Errorf("%w: need %d charges of %s, have %d", domain.ErrInsufficientCharges, n, typeID, have)
	}
	for i := range inv.items {
		if n == 0 {
			break
		}
		if inv.items[i].TypeID != typeID {
			continue
		}
		used := min(inv.items[i].Charges, n)
		inv.items[i].Charges -= used
		n -= used
	}
	return nil
}

func (inv *Inventory) removeAt(idx int) {
	inv.items = append(inv.items[:idx], inv.items[idx+1:]...)
}

package recipe

import (
	"fmt"

	"github.com/osse101/ashfall/internal/domain"
	"github.com/osse101/ashfall/internal/requirement"
)

// newItem builds one instance of typeID whose charges are the type's default
// charges multiplied by mult. Types without charges get zero charges.
func newItem(catalog domain.Catalog, typeID string, mult int) domain.Item {
	it := domain.Item{TypeID: typeID}
	if catalog == nil {
		return it
	}
	if typ, ok := catalog.ItemType(typeID); ok && typ.DefaultCharges > 0 {
		it.Charges = typ.DefaultCharges * mult
	}
	return it
}

func countsByCharges(catalog domain.Catalog, typeID string) bool {
	if catalog == nil {
		return false
	}
	typ, ok := catalog.ItemType(typeID)
	return ok && typ.CountByCharges()
}

// CreateResult synthesizes a single result item. It depends only on recipe and
// catalog data.
func (r *Recipe) CreateResult(catalog domain.Catalog) domain.Item {
	return newItem(catalog, r.Result, 1)
}

// CreateResults produces batch*ResultMult result instances, or a single stack
// holding that many portions when the result type is counted by charges. A
// liquid with a container type is split into one portion per container.
func (r *Recipe) CreateResults(catalog domain.Catalog, batch int) []domain.Item {
	if batch < 1 {
		return nil
	}
	units := batch * r.ResultMult
	if !countsByCharges(catalog, r.Result) {
		out := make([]domain.Item, units)
		for i := range out {
			out[i] = r.CreateResult(catalog)
		}
		return out
	}

	stack := newItem(catalog, r.Result, units)
	container, capacity, ok := liquidContainer(catalog, r.Result)
	if !ok {
		return []domain.Item{stack}
	}
	var out []domain.Item
	for left := max(stack.Charges, units); left > 0; left -= capacity {
		out = append(out, domain.Item{TypeID: r.Result, Charges: min(left, capacity), Container: container})
	}
	return out
}

// ContainersNeeded returns the container type the liquid results of batch are
// poured into and how many empty ones that takes. Contained recipes bring their
// own containers and need none, as do results that are not liquid.
func (r *Recipe) ContainersNeeded(catalog domain.Catalog, batch int) (string, int) {
	if r.Contained || batch < 1 {
		return "", 0
	}
	container, capacity, ok := liquidContainer(catalog, r.Result)
	if !ok {
		return "", 0
	}
	units := batch * r.ResultMult
	charges := max(newItem(catalog, r.Result, units).Charges, units)
	return container, (charges + capacity - 1) / capacity
}

// liquidContainer returns the container typeID is poured into and how many
// charges one holds, when typeID is a liquid with a usable container.
func liquidContainer(catalog domain.Catalog, typeID string) (string, int, bool) {
	if catalog == nil {
		return "", 0, false
	}
	typ, ok := catalog.ItemType(typeID)
	if !ok || !typ.IsLiquid() || typ.Container == "" {
		return "", 0, false
	}
	c, ok := catalog.ItemType(typ.Container)
	if !ok || c.Capacity <= 0 {
		return "", 0, false
	}
	return c.ID, c.Capacity, true
}

// CreateByproducts emits Amount instances of each byproduct per batch unit, each
// with charges scaled by ChargesMult. Charge-counted byproducts are stacked.
func (r *Recipe) CreateByproducts(catalog domain.Catalog, batch int) []domain.Item {
	if batch < 1 {
		return nil
	}
	var out []domain.Item
	for _, bp := range r.Byproducts {
		mult := max(bp.ChargesMult, 1)
		amount := max(bp.Amount, 1) * batch
		if countsByCharges(catalog, bp.Result) {
			out = append(out, newItem(catalog, bp.Result, mult*amount))
			continue
		}
		for i := 0; i < amount; i++ {
			out = append(out, newItem(catalog, bp.Result, mult))
		}
	}
	return out
}

// DisassemblyYield returns the items recovered by taking one result apart: the
// first alternative of every component slot. Tools are not recovered. A recipe
// that is not reversible cannot be disassembled.
func (r *Recipe) DisassemblyYield(catalog domain.Catalog) ([]domain.Item, error) {
	if !r.Reversible {
		return nil, fmt.Errorf("%w: '%s'", domain.ErrRecipeNotReversible, r.Ident)
	}
	var out []domain.Item
	for _, slot := range r.Requirements.Slots(requirement.KindComponent) {
		for _, c := range slot[0] {
			if countsByCharges(catalog, c.TypeID) {
				out = append(out, domain.Item{TypeID: c.TypeID, Charges: c.Quantity})
				continue
			}
			for i := 0; i < c.Quantity; i++ {
				out = append(out, newItem(catalog, c.TypeID, 1))
			}
		}
	}
	return out, nil
}

// DisassemblyTools returns the tool slots needed to take the result apart
func (r *Recipe) DisassemblyTools() ([]requirement.Slot, error) {
	if !r.Reversible {
		return nil, fmt.Errorf("%w: '%s'", domain.ErrRecipeNotReversible, r.Ident)
	}
	return r.Requirements.Tools, nil
}

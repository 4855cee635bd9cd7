package selection

import (
	"fmt"

	"github.com/osse101/ashfall/internal/domain"
	"github.com/osse101/ashfall/internal/inventory"
	"github.com/osse101/ashfall/internal/requirement"
)

// Select resolves every slot of set for batch against inv: component slots
// first, then tool slots, each in declaration order. For a slot, the
// alternatives that are fully available (after what earlier slots claimed)
// compete; the one needing the fewest distinct item types wins, then the
// earliest declared. Unsatisfiable slots are recorded as missing and
// resolution carries on, so the result lists everything that is missing.
func Select(inv requirement.Counter, set requirement.Set, batch int) Result {
	l := newLedger(inv)
	var res Result

	for _, kind := range []requirement.Kind{requirement.KindComponent, requirement.KindTool} {
		for i, slot := range set.Slots(kind) {
			sel, ok := selectSlot(l, kind, i, slot, batch)
			if !ok {
				ms := MissingSlot{Kind: kind, Slot: i, Alternatives: slot}
				if kind == requirement.KindTool {
					res.Missing.Tools = append(res.Missing.Tools, ms)
				} else {
					res.Missing.Components = append(res.Missing.Components, ms)
				}
				continue
			}
			if kind == requirement.KindTool {
				res.Tools = append(res.Tools, sel)
			} else {
				res.Items = append(res.Items, sel)
			}
		}
	}
	return res
}

func selectSlot(l *ledger, kind requirement.Kind, idx int, slot requirement.Slot, batch int) (Selection, bool) {
	best := -1
	for _, j := range slot.Satisfiable(l.inv, kind, batch) {
		alt := slot[j]
		picks, ok := l.tryClaim(kind, alt, batch)
		if !ok {
			continue
		}
		l.release(kind, picks, batch)
		if best < 0 || alt.DistinctTypes() < slot[best].DistinctTypes() {
			best = j
		}
	}
	if best < 0 {
		return Selection{}, false
	}

	picks, _ := l.tryClaim(kind, slot[best], batch)
	return Selection{Slot: idx, Alternative: best, Picks: picks}, true
}

// Revalidate checks cached selections against the current state of inv. It
// returns the selections whose picks are no longer all available, as missing
// slots listing only the alternative that had been chosen.
func Revalidate(inv requirement.Counter, items, tools []Selection, batch int) Missing {
	l := newLedger(inv)
	for _, sel := range items {
		for _, p := range sel.Picks {
			l.claim(requirement.KindComponent, p, batch)
		}
	}
	for _, sel := range tools {
		for _, p := range sel.Picks {
			l.claim(requirement.KindTool, p, batch)
		}
	}

	var m Missing
	for _, sel := range items {
		if !l.check(requirement.KindComponent, sel) {
			m.Components = append(m.Components, missingFrom(requirement.KindComponent, sel))
		}
	}
	for _, sel := range tools {
		if !l.check(requirement.KindTool, sel) {
			m.Tools = append(m.Tools, missingFrom(requirement.KindTool, sel))
		}
	}
	return m
}

func missingFrom(kind requirement.Kind, sel Selection) MissingSlot {
	alt := make(requirement.Alternative, len(sel.Picks))
	for i, p := range sel.Picks {
		alt[i] = p.Component
	}
	return MissingSlot{Kind: kind, Slot: sel.Slot, Alternatives: requirement.Slot{alt}}
}

// Consume removes the selected components and tool charges from inv and returns
// the removed items. Selections are re-validated first; if anything is missing
// nothing is touched and a *Error is returned. Fixed-location picks are served
// before picks tagged Both so the remainder always covers the latter.
func Consume(inv inventory.Provider, items, tools []Selection, batch int) ([]domain.Item, error) {
	if missing := Revalidate(inv, items, tools, batch); !missing.Empty() {
		return nil, &Error{Missing: missing}
	}

	var consumed []domain.Item
	for _, pass := range []func(domain.Usage) bool{isFixed, isShared} {
		for _, sel := range items {
			for _, p := range sel.Picks {
				if !pass(p.Use) {
					continue
				}
				removed, err := inv.Remove(p.Use, p.Component.TypeID, p.Component.Scaled(batch))
				if err != nil {
					return consumed, fmt.Errorf("consume %s: %w", p.Component.TypeID, err)
				}
				consumed = append(consumed, removed...)
			}
		}
		for _, sel := range tools {
			for _, p := range sel.Picks {
				if !pass(p.Use) || p.Component.IsPresenceOnly() {
					continue
				}
				if err := inv.UseCharges(p.Use, p.Component.TypeID, p.Component.Scaled(batch)); err != nil {
					return consumed, fmt.Errorf("use charges of %s: %w", p.Component.TypeID, err)
				}
			}
		}
	}
	return consumed, nil
}

func isFixed(u domain.Usage) bool  { return u == domain.UseFromMap || u == domain.UseFromPlayer }
func isShared(u domain.Usage) bool { return u == domain.UseBoth }

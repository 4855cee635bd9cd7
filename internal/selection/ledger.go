package selection

import (
	"github.com/osse101/ashfall/internal/domain"
	"github.com/osse101/ashfall/internal/requirement"
)

// demand is the quantity of one item type promised to picks, split by the tag
// the picks carry. Picks tagged Both may be served from either location.
type demand struct {
	fromMap    int
	fromPlayer int
	fromBoth   int
}

func (d demand) total() int {
	return d.fromMap + d.fromPlayer + d.fromBoth
}

func (d *demand) add(use domain.Usage, n int) {
	switch use {
	case domain.UseFromMap:
		d.fromMap += n
	case domain.UseFromPlayer:
		d.fromPlayer += n
	default:
		d.fromBoth += n
	}
}

// ledger accumulates what earlier slots already claimed so a later slot cannot
// count the same units twice. Component counts and tool charges are kept apart.
type ledger struct {
	inv     requirement.Counter
	items   map[string]*demand
	charges map[string]*demand
}

func newLedger(inv requirement.Counter) *ledger {
	return &ledger{
		inv:     inv,
		items:   make(map[string]*demand),
		charges: make(map[string]*demand),
	}
}

func (l *ledger) bucket(kind requirement.Kind) map[string]*demand {
	if kind == requirement.KindTool {
		return l.charges
	}
	return l.items
}

func (l *ledger) available(kind requirement.Kind, loc domain.Usage, typeID string) int {
	if kind == requirement.KindTool {
		return l.inv.Charges(loc, typeID)
	}
	return l.inv.Count(loc, typeID)
}

// fits reports whether d can be served: fixed-location demand within each
// location and the whole demand within the combined view.
func (l *ledger) fits(kind requirement.Kind, typeID string, d demand) bool {
	return d.fromMap <= l.available(kind, domain.UseFromMap, typeID) &&
		d.fromPlayer <= l.available(kind, domain.UseFromPlayer, typeID) &&
		d.total() <= l.available(kind, domain.UseBoth, typeID)
}

func (l *ledger) current(kind requirement.Kind, typeID string) demand {
	if d, ok := l.bucket(kind)[typeID]; ok {
		return *d
	}
	return demand{}
}

// spare is the number of typeID instances at loc left over once the claimed
// components are consumed. Fixed-location claims come out of their location
// and shared claims drain the map before the player.
func (l *ledger) spare(loc domain.Usage, typeID string) int {
	d := l.current(requirement.KindComponent, typeID)
	if loc == domain.UseBoth {
		return max(0, l.inv.Count(domain.UseBoth, typeID)-d.total())
	}
	mapLeft := max(0, l.inv.Count(domain.UseFromMap, typeID)-d.fromMap)
	sharedOnMap := min(d.fromBoth, mapLeft)
	if loc == domain.UseFromMap {
		return mapLeft - sharedOnMap
	}
	return max(0, l.inv.Count(domain.UseFromPlayer, typeID)-d.fromPlayer-(d.fromBoth-sharedOnMap))
}

// tag picks the source for n more units of typeID, or reports false when the
// units are not available on top of what is already claimed.
func (l *ledger) tag(kind requirement.Kind, c requirement.Component, batch int) (domain.Usage, bool) {
	if kind == requirement.KindTool && c.IsPresenceOnly() {
		onMap := l.spare(domain.UseFromMap, c.TypeID) > 0
		onPlayer := l.spare(domain.UseFromPlayer, c.TypeID) > 0
		return tagFor(onMap, onPlayer, l.spare(domain.UseBoth, c.TypeID) > 0)
	}

	n := c.Scaled(batch)
	prior := l.current(kind, c.TypeID)

	withBoth := prior
	withBoth.add(domain.UseBoth, n)
	if !l.fits(kind, c.TypeID, withBoth) {
		return domain.UseNone, false
	}
	if prior.total() > 0 {
		return domain.UseBoth, true
	}

	onMap := l.available(kind, domain.UseFromMap, c.TypeID) >= n
	onPlayer := l.available(kind, domain.UseFromPlayer, c.TypeID) >= n
	return tagFor(onMap, onPlayer, true)
}

func tagFor(onMap, onPlayer, combined bool) (domain.Usage, bool) {
	switch {
	case onMap && onPlayer:
		return domain.UseBoth, true
	case onMap:
		return domain.UseFromMap, true
	case onPlayer:
		return domain.UseFromPlayer, true
	case combined:
		return domain.UseBoth, true
	default:
		return domain.UseNone, false
	}
}

// tryClaim tags every component of alt and claims them all, or claims nothing
func (l *ledger) tryClaim(kind requirement.Kind, alt requirement.Alternative, batch int) ([]Pick, bool) {
	picks := make([]Pick, 0, len(alt))
	for _, c := range alt {
		use, ok := l.tag(kind, c, batch)
		if !ok {
			l.release(kind, picks, batch)
			return nil, false
		}
		picks = append(picks, Pick{Component: c, Use: use})
		l.claim(kind, Pick{Component: c, Use: use}, batch)
	}
	return picks, true
}

func (l *ledger) claim(kind requirement.Kind, p Pick, batch int) {
	if kind == requirement.KindTool && p.Component.IsPresenceOnly() {
		return
	}
	b := l.bucket(kind)
	d, ok := b[p.Component.TypeID]
	if !ok {
		d = &demand{}
		b[p.Component.TypeID] = d
	}
	d.add(p.Use, p.Component.Scaled(batch))
}

func (l *ledger) release(kind requirement.Kind, picks []Pick, batch int) {
	b := l.bucket(kind)
	for _, p := range picks {
		if kind == requirement.KindTool && p.Component.IsPresenceOnly() {
			continue
		}
		if d, ok := b[p.Component.TypeID]; ok {
			d.add(p.Use, -p.Component.Scaled(batch))
		}
	}
}

// check re-runs the fit test for every pick of sel against the claims recorded
// for the whole selection, returning false if any pick is no longer available.
func (l *ledger) check(kind requirement.Kind, sel Selection) bool {
	for _, p := range sel.Picks {
		if kind == requirement.KindTool && p.Component.IsPresenceOnly() {
			if l.spare(p.Use, p.Component.TypeID) == 0 {
				return false
			}
			continue
		}
		if !l.fits(kind, p.Component.TypeID, l.current(kind, p.Component.TypeID)) {
			return false
		}
	}
	return true
}

package requirement

import "github.com/osse101/ashfall/internal/domain"

// Counter is the read side of an inventory provider. loc is UseFromMap,
// UseFromPlayer or UseBoth for the combined view.
type Counter interface {
	Count(loc domain.Usage, typeID string) int
	Charges(loc domain.Usage, typeID string) int
}

// Available reports whether a single component or tool is available at loc for batch
func Available(ctr Counter, kind Kind, c Component, loc domain.Usage, batch int) bool {
	if kind == KindTool {
		if c.IsPresenceOnly() {
			return ctr.Count(loc, c.TypeID) > 0
		}
		return ctr.Charges(loc, c.TypeID) >= c.Scaled(batch)
	}
	return ctr.Count(loc, c.TypeID) >= c.Scaled(batch)
}

// Satisfied reports whether every component of the alternative is available at loc
func (a Alternative) Satisfied(ctr Counter, kind Kind, loc domain.Usage, batch int) bool {
	for _, c := range a {
		if !Available(ctr, kind, c, loc, batch) {
			return false
		}
	}
	return true
}

// Satisfiable returns the indices of the alternatives satisfiable from the combined view
func (s Slot) Satisfiable(ctr Counter, kind Kind, batch int) []int {
	var out []int
	for i, alt := range s {
		if alt.Satisfied(ctr, kind, domain.UseBoth, batch) {
			out = append(out, i)
		}
	}
	return out
}

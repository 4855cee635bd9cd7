package recipe

import "math"

// BatchTime returns the movement-point cost of crafting batch units.
//
// The first BatchRSize units each cost Time. Every later unit is discounted by
// BatchRScale scaled by a linear ramp that reaches full strength BatchRSize
// units after the threshold (one unit when BatchRSize is 0). A discounted unit
// never costs less than one move, so the total is strictly increasing whenever
// Time > 0 and tends towards Time*batch*(1-BatchRScale). Totals too large for
// an int saturate at math.MaxInt.
func (r *Recipe) BatchTime(batch int) int {
	if batch <= 0 || r.Time == 0 {
		return 0
	}
	if r.BatchRScale == 0 || batch <= r.BatchRSize {
		return saturate(float64(r.Time) * float64(batch))
	}

	t := float64(r.Time)
	rampLen := max(r.BatchRSize, 1)
	extra := batch - r.BatchRSize
	ramp := min(extra, rampLen)
	step := t * r.BatchRScale / float64(rampLen)
	unit := func(k int) float64 { return t - step*float64(k) }

	// Ramp units shrink with k, so the ones clamped to the minimum form a suffix.
	full := ramp
	if step > 0 {
		full = int(math.Min(float64(ramp), math.Max(0, (t-MinDiscountedUnitTime)/step)))
		for full > 0 && unit(full) < MinDiscountedUnitTime {
			full--
		}
		for full < ramp && unit(full+1) >= MinDiscountedUnitTime {
			full++
		}
	}
	n := float64(full)
	discounted := n*t - step*n*(n+1)/2 + float64(ramp-full)*MinDiscountedUnitTime

	tail := float64(extra - ramp)
	discounted += tail * math.Max(t*(1-r.BatchRScale), MinDiscountedUnitTime)

	return saturate(t*float64(r.BatchRSize) + math.Floor(discounted))
}

func saturate(moves float64) int {
	if moves >= math.MaxInt {
		return math.MaxInt
	}
	return int(moves)
}

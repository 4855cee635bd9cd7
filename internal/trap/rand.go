package trap

import "math/rand/v2"

// Rand returns a uniform float in [0,1)
type Rand func() float64

// DefaultRand draws from the global math/rand/v2 source
var DefaultRand Rand = rand.Float64

// between returns an int in [lo, hi]
func (r Rand) between(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	n := lo + int(r()*float64(hi-lo+1))
	return min(n, hi)
}

// oneIn is true with probability 1/n
func (r Rand) oneIn(n int) bool {
	if n <= 1 {
		return true
	}
	return r() < 1/float64(n)
}

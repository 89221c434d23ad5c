package evaluator

import (
	"math/rand/v2"

	"github.com/lox/headsup/internal/deck"
)

// Range describes which hole cards an unknown opponent may hold.
// Sample picks two distinct indexes into available, or reports false when no
// hand can be drawn.
type Range interface {
	Sample(available []deck.Card, rng *rand.Rand) (i, j int, ok bool)
}

// RandomRange represents any random two cards
type RandomRange struct{}

func (RandomRange) Sample(available []deck.Card, rng *rand.Rand) (int, int, bool) {
	n := len(available)
	if n < 2 {
		return 0, 0, false
	}

	// Pick 2 random cards without creating full permutation
	i := rng.IntN(n)
	j := rng.IntN(n - 1)
	if j >= i {
		j++
	}
	return i, j, true
}

// maxRangeAttempts bounds rejection sampling for narrow ranges.
const maxRangeAttempts = 200

// PercentileRange only deals starting hands whose preflop percentile is at
// least Min (see deck.Percentile). When no such hand turns up within a bounded
// number of attempts it falls back to a random hand.
type PercentileRange struct {
	Min float64
}

func (r PercentileRange) Sample(available []deck.Card, rng *rand.Rand) (int, int, bool) {
	var hole [2]deck.Card
	for range maxRangeAttempts {
		i, j, ok := RandomRange{}.Sample(available, rng)
		if !ok {
			return 0, 0, false
		}
		hole[0], hole[1] = available[i], available[j]
		if deck.Percentile(hole[:]) >= r.Min {
			return i, j, true
		}
	}
	return RandomRange{}.Sample(available, rng)
}

func isUniform(r Range) bool {
	switch v := r.(type) {
	case nil, RandomRange:
		return true
	case PercentileRange:
		return v.Min <= 0
	default:
		return false
	}
}

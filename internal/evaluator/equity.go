package evaluator

import (
	"fmt"
	"math/rand/v2"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/lox/headsup/internal/deck"
	"github.com/lox/headsup/internal/randutil"
)

// ErrInsufficientCards is returned when the known cards plus the cards needed
// for the opponents and the board exceed the deck.
var ErrInsufficientCards = deck.ErrInsufficientCards

// Equity is an estimate of how often a hand wins, ties and loses at showdown.
// The three frequencies sum to 1.
type Equity struct {
	Win     float64
	Tie     float64
	Loss    float64
	Samples int  // showdowns enumerated or simulated
	Exact   bool // true when every runout was enumerated
}

// Value returns the pot share the hand expects: wins plus half of ties.
func (e Equity) Value() float64 {
	return e.Win + e.Tie/2
}

func (e Equity) String() string {
	mode := "sampled"
	if e.Exact {
		mode = "exact"
	}
	return fmt.Sprintf("win %.2f%% tie %.2f%% loss %.2f%% (%d %s)", e.Win*100, e.Tie*100, e.Loss*100, e.Samples, mode)
}

// Options configures EstimateWithOptions.
type Options struct {
	Hole      []deck.Card
	Board     []deck.Card
	Opponents int
	// Budget bounds the work: the exact enumeration is used only when it has
	// at most Budget showdowns, otherwise Budget Monte Carlo trials are run.
	Budget int
	// Range of every opponent. Nil means any two cards.
	Range Range
	// Workers caps concurrent Monte Carlo shards. Zero uses the CPU count.
	// The result does not depend on it.
	Workers int
	// Rng drives sampling. Nil seeds from the clock.
	Rng *rand.Rand
}

// tally counts showdown outcomes from the hero's point of view.
type tally struct {
	wins, ties, losses int
}

func (t *tally) add(hero, bestOpponent HandRank) {
	switch {
	case hero > bestOpponent:
		t.wins++
	case hero == bestOpponent:
		t.ties++
	default:
		t.losses++
	}
}

func (t *tally) merge(o tally) {
	t.wins += o.wins
	t.ties += o.ties
	t.losses += o.losses
}

func (t tally) equity(exact bool) Equity {
	total := t.wins + t.ties + t.losses
	if total == 0 {
		return Equity{Exact: exact}
	}
	n := float64(total)
	return Equity{
		Win:     float64(t.wins) / n,
		Tie:     float64(t.ties) / n,
		Loss:    float64(t.losses) / n,
		Samples: total,
		Exact:   exact,
	}
}

// Estimate returns hero's equity against opponents holding unknown random
// cards. Small problems (river, or turn heads-up with the default budget) are
// enumerated exactly; larger ones use budget Monte Carlo trials.
func Estimate(hole, board []deck.Card, opponents, budget int, rng *rand.Rand) (Equity, error) {
	return EstimateWithOptions(Options{
		Hole:      hole,
		Board:     board,
		Opponents: opponents,
		Budget:    budget,
		Rng:       rng,
	})
}

// EstimateWithOptions is Estimate with an opponent range and worker cap.
func EstimateWithOptions(opts Options) (Equity, error) {
	rest, err := validateEquityInput(opts)
	if err != nil {
		return Equity{}, err
	}

	need := 5 - len(opts.Board)
	if isUniform(opts.Range) {
		if _, ok := exactShowdowns(len(rest), need, opts.Opponents, opts.Budget); ok {
			t := enumerate(opts.Hole, opts.Board, rest, opts.Opponents)
			return t.equity(true), nil
		}
	}

	rng := opts.Rng
	if rng == nil {
		rng, _ = randutil.NewFromTime()
	}
	r := opts.Range
	if r == nil {
		r = RandomRange{}
	}
	t := simulate(opts.Hole, opts.Board, rest, opts.Opponents, opts.Budget, r, opts.Workers, rng)
	return t.equity(false), nil
}

// validateEquityInput checks the request and returns the unseen cards.
func validateEquityInput(opts Options) ([]deck.Card, error) {
	if len(opts.Hole) != 2 {
		return nil, fmt.Errorf("%w: need 2 hole cards, got %d", ErrInvalidInput, len(opts.Hole))
	}
	if len(opts.Board) > 5 {
		return nil, fmt.Errorf("%w: board has %d cards, at most 5 allowed", ErrInvalidInput, len(opts.Board))
	}
	if opts.Opponents < 1 {
		return nil, fmt.Errorf("%w: need at least one opponent, got %d", ErrInvalidInput, opts.Opponents)
	}
	if opts.Budget < 1 {
		return nil, fmt.Errorf("%w: sample budget must be positive, got %d", ErrInvalidInput, opts.Budget)
	}

	known := append(append(make([]deck.Card, 0, 7), opts.Hole...), opts.Board...)
	if err := checkDistinct(known); err != nil {
		return nil, err
	}

	// Every runout uses the full board plus two cards per player.
	if required := 5 + 2*(opts.Opponents+1); required > deck.NumSuits*deck.NumRanks {
		return nil, fmt.Errorf("%w: %d opponents need %d cards", ErrInsufficientCards, opts.Opponents, required)
	}

	// Unseen cards stay in a fixed order so a seed replays exactly.
	unseen := deck.NewOrderedDeck()
	unseen.Remove(known...)
	return unseen.Cards(), nil
}

// exactShowdowns counts board completions times ordered opponent hole
// assignments drawn from unseen cards, stopping once the count passes limit.
func exactShowdowns(unseen, need, opponents, limit int) (int, bool) {
	total := choose(unseen, need)
	if total > limit {
		return 0, false
	}
	left := unseen - need
	for range opponents {
		pairs := choose(left, 2)
		if pairs == 0 || total > limit/pairs {
			return 0, false
		}
		total *= pairs
		left -= 2
	}
	return total, total <= limit
}

func choose(n, k int) int {
	if k < 0 || k > n {
		return 0
	}
	result := 1
	for i := 1; i <= k; i++ {
		result = result * (n - k + i) / i
	}
	return result
}

// enumerate visits every board completion and every ordered assignment of
// opponent hole cards from rest.
func enumerate(hole, board, rest []deck.Card, opponents int) tally {
	var t tally
	need := 5 - len(board)
	used := make([]bool, len(rest))
	var full [5]deck.Card
	copy(full[:], board)
	var seven [7]deck.Card
	copy(seven[:2], hole)

	var assign func(left int, best HandRank, hero HandRank)
	assign = func(left int, best HandRank, hero HandRank) {
		if left == 0 {
			t.add(hero, best)
			return
		}
		for i := range rest {
			if used[i] {
				continue
			}
			used[i] = true
			for j := i + 1; j < len(rest); j++ {
				if used[j] {
					continue
				}
				used[j] = true
				r := rank7(&seven, rest[i], rest[j], &full)
				assign(left-1, max(best, r), hero)
				used[j] = false
			}
			used[i] = false
		}
	}

	var complete func(start, k int)
	complete = func(start, k int) {
		if k == need {
			hero := rank7(&seven, hole[0], hole[1], &full)
			assign(opponents, 0, hero)
			return
		}
		for i := start; i < len(rest); i++ {
			used[i] = true
			full[len(board)+k] = rest[i]
			complete(i+1, k+1)
			used[i] = false
		}
	}
	complete(0, 0)
	return t
}

// rank7 evaluates two hole cards with a full board using scratch as storage.
func rank7(scratch *[7]deck.Card, a, b deck.Card, board *[5]deck.Card) HandRank {
	scratch[0], scratch[1] = a, b
	copy(scratch[2:], board[:])
	r, _ := bestOf(scratch[:])
	return r
}

// mcShards is the fixed number of independent Monte Carlo streams. Keeping it
// constant makes a seeded estimate independent of the worker count.
const mcShards = 8

// simulate runs trials Monte Carlo runouts split across mcShards shards, each
// with its own random stream, and sums the tallies.
func simulate(hole, board, rest []deck.Card, opponents, trials int, r Range, workers int, rng *rand.Rand) tally {
	if workers <= 0 {
		workers = min(runtime.NumCPU(), mcShards)
	}

	streams := randutil.Split(rng, mcShards)
	results := make([]tally, mcShards)

	var g errgroup.Group
	g.SetLimit(workers)
	for shard := range mcShards {
		n := trials / mcShards
		if shard < trials%mcShards {
			n++
		}
		if n == 0 {
			continue
		}
		g.Go(func() error {
			results[shard] = runShard(hole, board, rest, opponents, n, r, streams[shard])
			return nil
		})
	}
	_ = g.Wait() // shards never fail

	var t tally
	for _, res := range results {
		t.merge(res)
	}
	return t
}

// runShard plays n independent runouts. Each trial deals opponent hands and
// the rest of the board without replacement from a private copy of rest.
func runShard(hole, board, rest []deck.Card, opponents, n int, r Range, rng *rand.Rand) tally {
	var t tally
	pool := make([]deck.Card, len(rest))
	need := 5 - len(board)
	var full [5]deck.Card
	copy(full[:], board)
	var seven [7]deck.Card
	opp := make([][2]deck.Card, opponents)

	for range n {
		copy(pool, rest)
		avail := len(pool)

		for o := range opp {
			i, j, ok := r.Sample(pool[:avail], rng)
			if !ok {
				break
			}
			opp[o] = [2]deck.Card{pool[i], pool[j]}
			// Move the chosen cards past the end of the live pool.
			if i < j {
				i, j = j, i
			}
			pool[i], pool[avail-1] = pool[avail-1], pool[i]
			pool[j], pool[avail-2] = pool[avail-2], pool[j]
			avail -= 2
		}

		for k := range need {
			idx := k + rng.IntN(avail-k)
			pool[k], pool[idx] = pool[idx], pool[k]
			full[len(board)+k] = pool[k]
		}

		hero := rank7(&seven, hole[0], hole[1], &full)
		var best HandRank
		for _, h := range opp {
			best = max(best, rank7(&seven, h[0], h[1], &full))
		}
		t.add(hero, best)
	}
	return t
}

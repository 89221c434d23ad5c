package game

import (
	"math"
	"math/rand/v2"

	"github.com/lox/headsup/internal/config"
	"github.com/lox/headsup/internal/deck"
	"github.com/lox/headsup/internal/evaluator"
	"github.com/lox/headsup/internal/randutil"
)

// Tier is the rational classification of a decision before any mixing.
type Tier int

const (
	TierFold   Tier = iota // equity does not justify the price
	TierCall               // equity beats pot odds by the call margin
	TierStrong             // equity clears the strong threshold
)

func (t Tier) String() string {
	switch t {
	case TierFold:
		return "fold"
	case TierCall:
		return "call"
	case TierStrong:
		return "strong"
	default:
		return "unknown"
	}
}

// Decision is an Action together with the numbers that produced it.
type Decision struct {
	Action  Action
	Equity  float64 // equity after position adjustments
	PotOdds float64
	Tier    Tier
	// Mixed is set when the random draw replaced the rational action with a
	// bluff, a thin value raise or a trap.
	Mixed bool
}

// Engine is the automated opponent. It holds no state between decisions
// other than its random source, so a seeded Engine replays exactly.
// An Engine is not safe for concurrent use.
type Engine struct {
	cfg config.Engine
	rng *rand.Rand
}

// NewEngine creates an engine. A nil rng is seeded from the clock.
func NewEngine(cfg config.Engine, rng *rand.Rand) *Engine {
	if rng == nil {
		rng, _ = randutil.NewFromTime()
	}
	return &Engine{cfg: cfg, rng: rng}
}

// Decide maps an equity estimate and the betting state to an action.
func (e *Engine) Decide(eq evaluator.Equity, st BettingState) Action {
	return e.Analyze(eq, st).Action
}

// DecideHand estimates equity for hole against the board with the engine's
// sample budget, then decides.
func (e *Engine) DecideHand(hole, board []deck.Card, st BettingState) (Decision, evaluator.Equity, error) {
	eq, err := evaluator.EstimateWithOptions(evaluator.Options{
		Hole:      hole,
		Board:     board,
		Opponents: max(st.Opponents, 1),
		Budget:    e.cfg.SampleBudget,
		Workers:   e.cfg.Workers,
		Rng:       e.rng,
	})
	if err != nil {
		return Decision{}, evaluator.Equity{}, err
	}
	return e.Analyze(eq, st), eq, nil
}

// Analyze is Decide with its reasoning. Exactly one uniform draw is taken
// from the engine's random source per call.
func (e *Engine) Analyze(eq evaluator.Equity, st BettingState) Decision {
	st.ToCall = max(st.ToCall, 0)
	st.Stack = max(st.Stack, 0)

	d := Decision{
		PotOdds: PotOdds(st.Pot, st.ToCall),
		Equity:  e.adjustedEquity(eq, st),
	}
	draw := e.rng.Float64()
	strong := e.cfg.StrongThreshold

	switch {
	case d.Equity <= d.PotOdds+e.cfg.CallMargin:
		d.Tier = TierFold
		// A bluff needs fold equity, so it is never an all-in call.
		if draw < e.cfg.BluffFrequency && st.ToCall < st.Stack {
			d.Action, d.Mixed = e.raise(st, true), true
		} else {
			d.Action = e.fold(st)
		}

	case d.Equity >= strong:
		d.Tier = TierStrong
		// Trapping gets rarer the closer the hand is to the nuts.
		trap := e.cfg.TrapFrequency * (1 - (d.Equity-strong)/(1-strong))
		if draw < trap {
			d.Action, d.Mixed = e.call(st), true
		} else {
			d.Action = e.raise(st, false)
		}

	default:
		d.Tier = TierCall
		var value float64
		if strong > d.PotOdds {
			value = e.cfg.ValueFrequency * (d.Equity - d.PotOdds) / (strong - d.PotOdds)
		}
		if draw < clamp01(value) {
			d.Action, d.Mixed = e.raise(st, false), true
		} else {
			d.Action = e.call(st)
		}
	}
	return d
}

// adjustedEquity applies the position bonus and the preflop position
// adjustment to the showdown equity.
func (e *Engine) adjustedEquity(eq evaluator.Equity, st BettingState) float64 {
	v := eq.Value()
	if st.InPosition {
		v = min(v+e.cfg.PositionBonus, 1)
	}
	if st.Round == Preflop {
		if st.InPosition {
			v += e.cfg.PreflopPositionBonus
		} else {
			v -= e.cfg.PreflopPositionPenalty
		}
	}
	return clamp01(v)
}

func (e *Engine) fold(st BettingState) Action {
	if st.ToCall == 0 {
		return Action{Type: Call}
	}
	return Action{Type: Fold}
}

// call matches the bet, collapsing to an all-in call when the stack cannot
// cover it.
func (e *Engine) call(st BettingState) Action {
	if st.ToCall >= st.Stack {
		return Action{Type: Call, Amount: st.Stack, AllIn: true}
	}
	return Action{Type: Call, Amount: st.ToCall}
}

// raise sizes a raise as a fraction of the pot, at least the minimum raise and
// at most the stack.
func (e *Engine) raise(st BettingState, bluff bool) Action {
	if st.ToCall >= st.Stack {
		return e.call(st)
	}

	size := float64(st.Pot) * e.cfg.Aggression
	if bluff {
		size *= e.cfg.BluffSizing
	}
	increment := max(int(math.Round(size)), st.MinRaise, 1)

	total := st.ToCall + increment
	if total >= st.Stack {
		return Action{Type: Raise, Amount: st.Stack, AllIn: true}
	}
	return Action{Type: Raise, Amount: total}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

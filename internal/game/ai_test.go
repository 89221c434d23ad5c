package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/headsup/internal/config"
	"github.com/lox/headsup/internal/deck"
	"github.com/lox/headsup/internal/evaluator"
	"github.com/lox/headsup/internal/randutil"
)

func equity(v float64) evaluator.Equity {
	return evaluator.Equity{Win: v, Loss: 1 - v}
}

// pureConfig disables every random deviation so decisions are rational.
func pureConfig() config.Engine {
	cfg := config.Default().Engine
	cfg.BluffFrequency = 0
	cfg.ValueFrequency = 0
	cfg.TrapFrequency = 0
	cfg.PositionBonus = 0
	cfg.PreflopPositionBonus = 0
	cfg.PreflopPositionPenalty = 0
	return cfg
}

func TestDecideRationalTiers(t *testing.T) {
	tests := []struct {
		name     string
		equity   float64
		state    BettingState
		expected Action
	}{
		{
			name:     "weak hand folds to a bet",
			equity:   0.20,
			state:    BettingState{Pot: 100, ToCall: 50, Stack: 1000, MinRaise: 50, Round: River},
			expected: Action{Type: Fold},
		},
		{
			name:     "weak hand checks when free",
			equity:   0.20,
			state:    BettingState{Pot: 100, ToCall: 0, Stack: 1000, MinRaise: 50, Round: River},
			expected: Action{Type: Call},
		},
		{
			name:     "equity below pot odds plus margin folds",
			equity:   0.34,
			state:    BettingState{Pot: 100, ToCall: 50, Stack: 1000, MinRaise: 50, Round: Turn},
			expected: Action{Type: Fold},
		},
		{
			name:     "medium hand calls with good pot odds",
			equity:   0.50,
			state:    BettingState{Pot: 100, ToCall: 50, Stack: 1000, MinRaise: 50, Round: Flop},
			expected: Action{Type: Call, Amount: 50},
		},
		{
			name:     "strong hand raises by pot times aggression",
			equity:   0.90,
			state:    BettingState{Pot: 100, ToCall: 50, Stack: 1000, MinRaise: 50, Round: River},
			expected: Action{Type: Raise, Amount: 125},
		},
		{
			name:     "raise is at least the minimum raise",
			equity:   0.90,
			state:    BettingState{Pot: 40, ToCall: 20, Stack: 1000, MinRaise: 100, Round: River},
			expected: Action{Type: Raise, Amount: 120},
		},
		{
			name:     "strong hand bets into an unopened pot",
			equity:   0.80,
			state:    BettingState{Pot: 200, ToCall: 0, Stack: 1000, MinRaise: 50, Round: Flop},
			expected: Action{Type: Raise, Amount: 150},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := NewEngine(pureConfig(), randutil.New(1))
			assert.Equal(t, tt.expected, engine.Decide(equity(tt.equity), tt.state))
		})
	}
}

func TestDecideStrongThresholdBelowPotOdds(t *testing.T) {
	cfg := pureConfig()
	cfg.StrongThreshold = 0.40
	engine := NewEngine(cfg, randutil.New(1))

	// Pot odds 90/200 = 0.45 beat the equity even though it clears the threshold.
	d := engine.Analyze(equity(0.42), BettingState{Pot: 110, ToCall: 90, Stack: 1000, MinRaise: 50, Round: River})
	assert.Equal(t, TierFold, d.Tier)
	assert.Equal(t, Action{Type: Fold}, d.Action)

	// With a better price the same hand is strong again.
	d = engine.Analyze(equity(0.42), BettingState{Pot: 300, ToCall: 30, Stack: 1000, MinRaise: 50, Round: River})
	assert.Equal(t, TierStrong, d.Tier)
	assert.Equal(t, Raise, d.Action.Type)
}

func TestDecideAllInNormalization(t *testing.T) {
	t.Run("strong hand facing a bet larger than the stack calls all-in", func(t *testing.T) {
		engine := NewEngine(pureConfig(), randutil.New(1))
		action := engine.Decide(equity(0.95), BettingState{Pot: 400, ToCall: 200, Stack: 150, MinRaise: 50})
		assert.Equal(t, Action{Type: Call, Amount: 150, AllIn: true}, action)
	})

	t.Run("calling hand facing exactly its stack calls all-in", func(t *testing.T) {
		engine := NewEngine(pureConfig(), randutil.New(1))
		action := engine.Decide(equity(0.5), BettingState{Pot: 1000, ToCall: 150, Stack: 150, MinRaise: 50})
		assert.Equal(t, Action{Type: Call, Amount: 150, AllIn: true}, action)
	})

	t.Run("bluff facing a bet larger than the stack folds", func(t *testing.T) {
		cfg := pureConfig()
		cfg.BluffFrequency = 1
		engine := NewEngine(cfg, randutil.New(1))
		d := engine.Analyze(equity(0.05), BettingState{Pot: 400, ToCall: 300, Stack: 150, MinRaise: 50})
		assert.Equal(t, Action{Type: Fold}, d.Action)
		assert.False(t, d.Mixed)

		d = engine.Analyze(equity(0.05), BettingState{Pot: 400, ToCall: 150, Stack: 150, MinRaise: 50})
		assert.Equal(t, Action{Type: Fold}, d.Action, "no chips left to raise with")
	})

	t.Run("raise above the stack is clipped to an all-in raise", func(t *testing.T) {
		engine := NewEngine(pureConfig(), randutil.New(1))
		action := engine.Decide(equity(0.9), BettingState{Pot: 1000, ToCall: 20, Stack: 100, MinRaise: 50})
		assert.Equal(t, Action{Type: Raise, Amount: 100, AllIn: true}, action)
	})

	t.Run("raise short of the minimum is an all-in raise", func(t *testing.T) {
		engine := NewEngine(pureConfig(), randutil.New(1))
		action := engine.Decide(equity(0.9), BettingState{Pot: 10, ToCall: 20, Stack: 60, MinRaise: 50})
		assert.Equal(t, Action{Type: Raise, Amount: 60, AllIn: true}, action)
	})

	t.Run("weak hand facing an all-in still folds", func(t *testing.T) {
		engine := NewEngine(pureConfig(), randutil.New(1))
		action := engine.Decide(equity(0.1), BettingState{Pot: 400, ToCall: 300, Stack: 150, MinRaise: 50})
		assert.Equal(t, Action{Type: Fold}, action)
	})
}

func TestDecideMixedStrategy(t *testing.T) {
	t.Run("bluff raise uses bluff sizing", func(t *testing.T) {
		cfg := pureConfig()
		cfg.BluffFrequency = 1
		engine := NewEngine(cfg, randutil.New(1))

		d := engine.Analyze(equity(0.1), BettingState{Pot: 200, ToCall: 50, Stack: 1000, MinRaise: 50})
		assert.Equal(t, TierFold, d.Tier)
		assert.True(t, d.Mixed)
		// 200 * 0.75 * 0.6 = 90
		assert.Equal(t, Action{Type: Raise, Amount: 140}, d.Action)
	})

	t.Run("trap calls at the strong threshold", func(t *testing.T) {
		cfg := pureConfig()
		cfg.TrapFrequency = 1
		engine := NewEngine(cfg, randutil.New(1))

		d := engine.Analyze(equity(cfg.StrongThreshold), BettingState{Pot: 100, ToCall: 50, Stack: 1000, MinRaise: 50})
		assert.Equal(t, TierStrong, d.Tier)
		assert.True(t, d.Mixed)
		assert.Equal(t, Action{Type: Call, Amount: 50}, d.Action)
	})

	t.Run("nuts never trap", func(t *testing.T) {
		cfg := pureConfig()
		cfg.TrapFrequency = 1
		engine := NewEngine(cfg, randutil.New(1))

		for range 100 {
			action := engine.Decide(equity(1), BettingState{Pot: 100, ToCall: 50, Stack: 1000, MinRaise: 50})
			require.Equal(t, Raise, action.Type)
		}
	})

	t.Run("value raise frequency tracks equity edge", func(t *testing.T) {
		cfg := pureConfig()
		cfg.ValueFrequency = 1
		engine := NewEngine(cfg, randutil.New(3))

		// Pot odds 1/3, strong threshold 0.7: halfway between raises half the time.
		st := BettingState{Pot: 100, ToCall: 50, Stack: 1000, MinRaise: 50}
		mid := (PotOdds(st.Pot, st.ToCall) + cfg.StrongThreshold) / 2

		raises := 0
		const n = 10000
		for range n {
			if engine.Decide(equity(mid), st).Type == Raise {
				raises++
			}
		}
		assert.InDelta(t, 0.5, float64(raises)/n, 0.03)
	})

	t.Run("bluff frequency is respected", func(t *testing.T) {
		cfg := pureConfig()
		cfg.BluffFrequency = 0.2
		engine := NewEngine(cfg, randutil.New(5))

		bluffs := 0
		const n = 10000
		for range n {
			if engine.Decide(equity(0.05), BettingState{Pot: 100, ToCall: 50, Stack: 1000, MinRaise: 50}).Type == Raise {
				bluffs++
			}
		}
		assert.InDelta(t, 0.2, float64(bluffs)/n, 0.02)
	})
}

func TestDecideIsDeterministicForSeed(t *testing.T) {
	cfg := config.Default().Engine
	stateRng := randutil.New(99)
	states := make([]BettingState, 200)
	equities := make([]float64, len(states))
	for i := range states {
		states[i] = randomState(stateRng)
		equities[i] = stateRng.Float64()
	}

	run := func() []Action {
		engine := NewEngine(cfg, randutil.New(2024))
		actions := make([]Action, len(states))
		for i, st := range states {
			actions[i] = engine.Decide(equity(equities[i]), st)
		}
		return actions
	}

	assert.Equal(t, run(), run())
}

func TestDecideNeverCommitsMoreThanStack(t *testing.T) {
	cfg := config.Default().Engine
	cfg.BluffFrequency = 0.3
	cfg.ValueFrequency = 0.5
	cfg.TrapFrequency = 0.3
	engine := NewEngine(cfg, randutil.New(7))
	rng := randutil.New(8)

	for range 5000 {
		st := randomState(rng)
		action := engine.Decide(equity(rng.Float64()), st)

		require.Contains(t, []ActionType{Fold, Call, Raise}, action.Type)
		require.LessOrEqual(t, action.Amount, st.Stack, "%+v -> %s", st, action)
		require.GreaterOrEqual(t, action.Amount, 0)

		switch action.Type {
		case Fold:
			require.Positive(t, st.ToCall, "never fold when checking is free")
			require.Zero(t, action.Amount)
		case Call:
			require.Equal(t, min(st.ToCall, st.Stack), action.Amount)
			require.Equal(t, st.ToCall >= st.Stack, action.AllIn)
		case Raise:
			require.Greater(t, action.Amount, st.ToCall)
			if !action.AllIn {
				require.GreaterOrEqual(t, action.Amount-st.ToCall, st.MinRaise)
				require.Less(t, action.Amount, st.Stack)
			} else {
				require.Equal(t, st.Stack, action.Amount)
			}
		}
	}
}

func randomState(rng interface{ IntN(int) int }) BettingState {
	return BettingState{
		Pot:        rng.IntN(2000),
		ToCall:     rng.IntN(600),
		Stack:      1 + rng.IntN(1500),
		MinRaise:   1 + rng.IntN(200),
		Opponents:  1,
		Round:      Round(rng.IntN(4)),
		InPosition: rng.IntN(2) == 0,
	}
}

func TestAdjustedEquity(t *testing.T) {
	cfg := config.Default().Engine
	engine := NewEngine(cfg, randutil.New(1))
	eq := equity(0.5)

	tests := []struct {
		name     string
		state    BettingState
		expected float64
	}{
		{"preflop in position", BettingState{Round: Preflop, InPosition: true}, 0.5 + cfg.PositionBonus + cfg.PreflopPositionBonus},
		{"preflop out of position", BettingState{Round: Preflop}, 0.5 - cfg.PreflopPositionPenalty},
		{"flop in position", BettingState{Round: Flop, InPosition: true}, 0.5 + cfg.PositionBonus},
		{"river out of position", BettingState{Round: River}, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, engine.adjustedEquity(eq, tt.state), 1e-9)
		})
	}

	assert.Equal(t, 1.0, engine.adjustedEquity(equity(1), BettingState{Round: Preflop, InPosition: true}))
	assert.Equal(t, 0.0, engine.adjustedEquity(equity(0), BettingState{Round: Preflop}))
}

func TestDecideHand(t *testing.T) {
	cfg := pureConfig()
	cfg.SampleBudget = 2000
	engine := NewEngine(cfg, randutil.New(1))

	d, eq, err := engine.DecideHand(
		deck.MustParseCards("AsAh"),
		deck.MustParseCards("AdAc2s7h9d"),
		BettingState{Pot: 100, ToCall: 50, Stack: 1000, MinRaise: 50, Opponents: 1, Round: River},
	)
	require.NoError(t, err)
	assert.True(t, eq.Exact)
	assert.Equal(t, TierStrong, d.Tier)
	assert.Equal(t, Raise, d.Action.Type)

	_, _, err = engine.DecideHand(deck.MustParseCards("AsAs"), nil, BettingState{Opponents: 1})
	assert.ErrorIs(t, err, evaluator.ErrInvalidInput)
}

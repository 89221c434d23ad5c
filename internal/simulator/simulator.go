package simulator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"

	"github.com/lox/headsup/internal/config"
	"github.com/lox/headsup/internal/deck"
	"github.com/lox/headsup/internal/evaluator"
	"github.com/lox/headsup/internal/game"
	"github.com/lox/headsup/internal/phh"
	"github.com/lox/headsup/internal/randutil"
	"github.com/lox/headsup/internal/statistics"
)

// ErrChipsNotConserved is returned when a hand creates or destroys chips.
var ErrChipsNotConserved = errors.New("chips not conserved")

// Config holds configuration for running a heads-up match
type Config struct {
	Table   config.Table
	Hero    config.Engine
	Villain config.Engine
	Hands   int
	Seed    int64
	// Duplicate replays every deal with the seats swapped, so each player
	// gets both sets of cards.
	Duplicate bool
	Clock     quartz.Clock
	Logger    *log.Logger
	// Progress, when set, is called after every hand with the number of
	// hands played so far.
	Progress func(played int)
	// History, when set, receives every hand in PHH form as it finishes.
	History func(*phh.HandHistory)
}

// Result summarises a finished match from the hero's seat.
type Result struct {
	MatchID uuid.UUID
	Seed    int64
	Stats   *statistics.Statistics
	Elapsed time.Duration
}

// Simulator plays Engine against Engine
type Simulator struct {
	config  Config
	matchID uuid.UUID
	hero    *game.Engine
	villain *game.Engine
}

// New creates a new simulator with the given configuration
func New(cfg Config) *Simulator {
	if cfg.Clock == nil {
		cfg.Clock = quartz.NewReal()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}

	streams := randutil.Split(randutil.New(cfg.Seed), 2)
	id := uuid.New()
	return &Simulator{
		config:  cfg,
		matchID: id,
		hero:    game.NewEngine(cfg.Hero, streams[0]),
		villain: game.NewEngine(cfg.Villain, streams[1]),
	}
}

// MatchID identifies this match in logs.
func (s *Simulator) MatchID() uuid.UUID {
	return s.matchID
}

// Run plays the configured number of hands. The hero starts on the button
// and the button alternates every hand. Stacks reset to the starting stack
// before each hand.
func (s *Simulator) Run(ctx context.Context) (*Result, error) {
	logger := s.config.Logger.With("match", s.matchID.String())
	stats := &statistics.Statistics{}
	start := s.config.Clock.Now()

	logger.Info("Starting match", "hands", s.config.Hands, "seed", s.config.Seed, "duplicate", s.config.Duplicate)

	played := 0
	for hand := 0; hand < s.config.Hands; hand++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		handSeed := s.config.Seed + int64(hand)
		heroButton := hand%2 == 0

		deals := []bool{heroButton}
		if s.config.Duplicate {
			deals = append(deals, !heroButton)
		}
		for _, onButton := range deals {
			result, err := s.playHand(logger, played+1, handSeed, onButton)
			if err != nil {
				return nil, fmt.Errorf("hand %d (seed %d): %w", hand+1, handSeed, err)
			}
			stats.Add(result)
			played++
			if s.config.Progress != nil {
				s.config.Progress(played)
			}
		}
	}

	if err := stats.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}

	elapsed := s.config.Clock.Since(start)
	low, high := stats.ConfidenceInterval95()
	logger.Info("Match complete",
		"hands", stats.Hands,
		"net_chips", stats.NetChips,
		"bb_per_100", fmt.Sprintf("%.2f", stats.BBPer100()),
		"ci95", fmt.Sprintf("[%.3f, %.3f]", low, high),
		"elapsed", elapsed)

	return &Result{
		MatchID: s.matchID,
		Seed:    s.config.Seed,
		Stats:   stats,
		Elapsed: elapsed,
	}, nil
}

// seat is a player's state within one hand.
type seat struct {
	name      string
	engine    *game.Engine
	hole      []deck.Card
	stack     int
	committed int // this street
	total     int // this hand
	folded    bool
	allIn     bool
}

func (p *seat) pay(amount int) {
	amount = min(amount, p.stack)
	p.stack -= amount
	p.committed += amount
	p.total += amount
	if p.stack == 0 {
		p.allIn = true
	}
}

// hand is one deal. Seat 0 is the hero; button indexes the seat on the button.
type hand struct {
	sim       *Simulator
	logger    *log.Logger
	seats     [2]*seat
	button    int
	board     []deck.Card
	round     game.Round
	contested int
	actions   []string // PHH action log
}

// player is the PHH number of a seat: the button posts the small blind and
// is p1.
func (h *hand) player(i int) int {
	if i == h.button {
		return 1
	}
	return 2
}

func (h *hand) pot() int {
	return h.seats[0].total + h.seats[1].total
}

// playHand deals and plays one hand. Cards are dealt by role, button first,
// so a duplicate replay hands the hero the other seat's cards.
func (s *Simulator) playHand(logger *log.Logger, number int, handSeed int64, heroButton bool) (statistics.HandResult, error) {
	tbl := s.config.Table
	h := &hand{
		sim:    s,
		logger: logger.With("seed", handSeed),
		seats: [2]*seat{
			{name: "hero", engine: s.hero, stack: tbl.StartingStack},
			{name: "villain", engine: s.villain, stack: tbl.StartingStack},
		},
	}
	if !heroButton {
		h.button = 1
	}
	bb := 1 - h.button

	d := deck.NewDeck(randutil.New(handSeed))
	for _, i := range []int{h.button, bb} {
		hole, err := d.DealN(2)
		if err != nil {
			return statistics.HandResult{}, err
		}
		h.seats[i].hole = hole
		h.actions = append(h.actions, phh.DealHole(h.player(i), hole))
	}

	h.seats[h.button].pay(tbl.SmallBlind)
	h.seats[bb].pay(tbl.BigBlind)

	boardRuns := []int{0, 3, 1, 1}
	for round := game.Preflop; round <= game.River; round++ {
		h.round = round
		if n := boardRuns[round]; n > 0 {
			cards, err := d.DealN(n)
			if err != nil {
				return statistics.HandResult{}, err
			}
			h.board = append(h.board, cards...)
			h.actions = append(h.actions, phh.DealBoard(cards))
		}
		if err := h.bet(); err != nil {
			return statistics.HandResult{}, err
		}
		if h.seats[0].folded || h.seats[1].folded {
			break
		}
	}

	result, err := h.settle(handSeed, heroButton)
	if err != nil {
		return statistics.HandResult{}, err
	}
	if s.config.History != nil {
		s.config.History(h.history(number, handSeed))
	}
	return result, nil
}

// bet runs one street. The button acts first preflop and last afterwards.
func (h *hand) bet() error {
	tbl := h.sim.config.Table
	for _, p := range h.seats {
		if h.round != game.Preflop {
			p.committed = 0
		}
	}
	if h.seats[0].allIn || h.seats[1].allIn {
		// No betting once a player is all-in and the other has matched.
		if h.seats[0].total == h.seats[1].total || h.seats[0].allIn && h.seats[1].allIn {
			return nil
		}
	}

	currentBet := max(h.seats[0].committed, h.seats[1].committed)
	minRaise := tbl.BigBlind
	raises := 0
	var acted [2]bool

	actor := 1 - h.button
	if h.round == game.Preflop {
		actor = h.button
	}

	for {
		p, opp := h.seats[actor], h.seats[1-actor]
		toCall := currentBet - p.committed

		switch {
		case p.allIn, opp.allIn && toCall <= 0:
			acted[actor] = true
		default:
			st := game.BettingState{
				Pot:        h.pot(),
				ToCall:     toCall,
				Stack:      p.stack,
				MinRaise:   minRaise,
				Opponents:  1,
				Round:      h.round,
				InPosition: actor == h.button,
			}
			decision, eq, err := p.engine.DecideHand(p.hole, h.board, st)
			if err != nil {
				return fmt.Errorf("%s decision: %w", p.name, err)
			}
			action := decision.Action
			if action.Type == game.Raise && (raises >= tbl.MaxRaises || opp.allIn) {
				action = game.Action{Type: game.Call, Amount: min(toCall, p.stack), AllIn: toCall >= p.stack}
			}

			h.logger.Debug("Action",
				"round", h.round,
				"player", p.name,
				"hole", deck.FormatCards(p.hole),
				"board", deck.FormatCards(h.board),
				"equity", fmt.Sprintf("%.3f", eq.Value()),
				"pot_odds", fmt.Sprintf("%.3f", decision.PotOdds),
				"action", action)

			switch action.Type {
			case game.Fold:
				p.folded = true
				h.actions = append(h.actions, phh.FormatAction(h.player(actor), action, p.committed))
				return nil
			case game.Call:
				p.pay(action.Amount)
			case game.Raise:
				p.pay(action.Amount)
				if increment := p.committed - currentBet; increment > minRaise {
					minRaise = increment
				}
				currentBet = max(currentBet, p.committed)
				raises++
				acted[1-actor] = false
			}
			h.actions = append(h.actions, phh.FormatAction(h.player(actor), action, p.committed))
			acted[actor] = true
		}

		if acted[0] && acted[1] {
			matched := h.seats[0].committed == h.seats[1].committed
			if matched || h.seats[0].allIn || h.seats[1].allIn {
				return nil
			}
		}
		actor = 1 - actor
	}
}

// settle awards the pot and reports the hero's result.
func (h *hand) settle(handSeed int64, heroButton bool) (statistics.HandResult, error) {
	tbl := h.sim.config.Table
	hero, villain := h.seats[0], h.seats[1]

	// Chips a player put in beyond what the other could match go back.
	contested := min(hero.total, villain.total)
	for _, p := range h.seats {
		p.stack += p.total - contested
	}
	pot := 2 * contested
	h.contested = contested

	showdown := !hero.folded && !villain.folded
	switch {
	case hero.folded:
		villain.stack += pot
	case villain.folded:
		hero.stack += pot
	default:
		for _, i := range []int{h.button, 1 - h.button} {
			h.actions = append(h.actions, phh.ShowHand(h.player(i), h.seats[i].hole))
		}
		result, err := evaluator.Showdown(h.board, hero.hole, villain.hole)
		if err != nil {
			return statistics.HandResult{}, err
		}
		for seat, share := range game.SplitPot(pot, result.Winners, h.button, len(h.seats)) {
			h.seats[seat].stack += share
		}
		h.logger.Debug("Showdown",
			"hero", result.Hands[0].Rank,
			"villain", result.Hands[1].Rank,
			"winners", result.Winners,
			"pot", pot)
	}

	heroNet := hero.stack - tbl.StartingStack
	villainNet := villain.stack - tbl.StartingStack
	if heroNet+villainNet != 0 {
		return statistics.HandResult{}, fmt.Errorf("%w: hero %+d villain %+d", ErrChipsNotConserved, heroNet, villainNet)
	}

	return statistics.HandResult{
		NetChips:       heroNet,
		NetBB:          float64(heroNet) / float64(tbl.BigBlind),
		Seed:           handSeed,
		OnButton:       heroButton,
		WentToShowdown: showdown,
		PotBB:          float64(pot) / float64(tbl.BigBlind),
		StreetReached:  h.round.String(),
	}, nil
}

// history renders the finished hand with seats in PHH order.
func (h *hand) history(number int, handSeed int64) *phh.HandHistory {
	tbl := h.sim.config.Table
	order := [2]*seat{h.seats[h.button], h.seats[1-h.button]}

	hh := &phh.HandHistory{
		Variant:           phh.Variant,
		Table:             h.sim.matchID.String(),
		SeatCount:         len(order),
		Antes:             []int{0, 0},
		BlindsOrStraddles: []int{tbl.SmallBlind, tbl.BigBlind},
		MinBet:            tbl.BigBlind,
		Actions:           h.actions,
		HandID:            fmt.Sprintf("%s-%05d", h.sim.matchID, number),
		Seed:              handSeed,
	}
	for _, p := range order {
		hh.StartingStacks = append(hh.StartingStacks, tbl.StartingStack)
		hh.FinishingStacks = append(hh.FinishingStacks, p.stack)
		// Stacks already hold the refund of any uncalled chips.
		hh.Winnings = append(hh.Winnings, p.stack-tbl.StartingStack+h.contested)
		hh.Players = append(hh.Players, p.name)
	}
	return hh
}

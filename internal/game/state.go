package game

import "fmt"

// Round is a betting street.
type Round int

const (
	Preflop Round = iota
	Flop
	Turn
	River
)

func (r Round) String() string {
	switch r {
	case Preflop:
		return "Preflop"
	case Flop:
		return "Flop"
	case Turn:
		return "Turn"
	case River:
		return "River"
	default:
		return "Unknown"
	}
}

// BoardSize returns how many board cards are visible during the round.
func (r Round) BoardSize() int {
	switch r {
	case Flop:
		return 3
	case Turn:
		return 4
	case River:
		return 5
	default:
		return 0
	}
}

// RoundForBoard maps a board size to its round.
func RoundForBoard(cards int) (Round, error) {
	switch cards {
	case 0:
		return Preflop, nil
	case 3:
		return Flop, nil
	case 4:
		return Turn, nil
	case 5:
		return River, nil
	default:
		return 0, fmt.Errorf("no betting round has %d board cards", cards)
	}
}

// BettingState is a snapshot of a decision point, owned by the game loop and
// passed by value.
type BettingState struct {
	Pot        int   // chips already in the pot, including this street's bets
	ToCall     int   // chips needed to match the current bet
	Stack      int   // chips the deciding player has behind
	MinRaise   int   // smallest legal raise increment over the call
	Opponents  int   // opponents still in the hand
	Round      Round // read-only; the game loop advances rounds
	InPosition bool  // the deciding player acts last after the flop
}

// ActionType is one of the three moves the engine can make.
type ActionType int

const (
	Fold ActionType = iota
	Call
	Raise
)

func (a ActionType) String() string {
	switch a {
	case Fold:
		return "fold"
	case Call:
		return "call"
	case Raise:
		return "raise"
	default:
		return "unknown"
	}
}

// Action is a decision. Amount is the number of chips the action puts in
// now: the call amount for a call (zero is a check) and call plus increment
// for a raise. Amount never exceeds the stack; AllIn marks when it equals it.
type Action struct {
	Type   ActionType
	Amount int
	AllIn  bool
}

// IsCheck reports whether the action is a call of nothing.
func (a Action) IsCheck() bool {
	return a.Type == Call && a.Amount == 0 && !a.AllIn
}

func (a Action) String() string {
	var s string
	switch {
	case a.Type == Fold:
		return "fold"
	case a.IsCheck():
		return "check"
	default:
		s = fmt.Sprintf("%s %d", a.Type, a.Amount)
	}
	if a.AllIn {
		s += " (all-in)"
	}
	return s
}

// PotOdds is the share of the final pot a call pays for:
// toCall / (pot + toCall). It is zero when there is nothing to call.
func PotOdds(pot, toCall int) float64 {
	if toCall <= 0 {
		return 0
	}
	return float64(toCall) / float64(pot+toCall)
}

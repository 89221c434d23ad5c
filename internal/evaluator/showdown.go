package evaluator

import (
	"fmt"

	"github.com/lox/headsup/internal/deck"
)

// ShowdownResult holds each player's best hand and the indexes of the players
// sharing the best rank. More than one winner means a split pot.
type ShowdownResult struct {
	Hands   []Hand
	Winners []int
}

// Split reports whether the pot is shared.
func (r ShowdownResult) Split() bool {
	return len(r.Winners) > 1
}

// Showdown evaluates each player's hole cards together with the board.
// Every card across the board and all hole sets must be distinct.
func Showdown(board []deck.Card, holes ...[]deck.Card) (ShowdownResult, error) {
	if len(holes) == 0 {
		return ShowdownResult{}, fmt.Errorf("%w: showdown needs at least one player", ErrInvalidInput)
	}

	all := make([]deck.Card, 0, len(board)+2*len(holes))
	all = append(all, board...)
	for _, hole := range holes {
		all = append(all, hole...)
	}
	if err := checkDistinct(all); err != nil {
		return ShowdownResult{}, err
	}

	result := ShowdownResult{Hands: make([]Hand, len(holes))}
	cards := make([]deck.Card, 0, maxCards)
	for i, hole := range holes {
		cards = append(append(cards[:0], hole...), board...)
		hand, err := BestHand(cards)
		if err != nil {
			return ShowdownResult{}, fmt.Errorf("player %d: %w", i, err)
		}
		result.Hands[i] = hand

		switch {
		case len(result.Winners) == 0:
			result.Winners = []int{i}
		case hand.Rank > result.Hands[result.Winners[0]].Rank:
			result.Winners = result.Winners[:0]
			result.Winners = append(result.Winners, i)
		case hand.Rank == result.Hands[result.Winners[0]].Rank:
			result.Winners = append(result.Winners, i)
		}
	}
	return result, nil
}

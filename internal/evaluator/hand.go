package evaluator

import (
	"fmt"
	"strings"

	"github.com/lox/headsup/internal/deck"
)

// Hand is an evaluated hand: its strength and the five cards that make it.
type Hand struct {
	Rank  HandRank
	Cards [5]deck.Card
}

// String returns a string representation of the hand
func (h Hand) String() string {
	cardStrs := make([]string, len(h.Cards))
	for i, card := range h.Cards {
		cardStrs[i] = card.String()
	}
	return fmt.Sprintf("%s [%s]", h.Rank.Category(), strings.Join(cardStrs, " "))
}

// Compare compares two hands and returns:
// -1 if h1 is weaker than h2
//
//	0 if h1 equals h2
//	1 if h1 is stronger than h2
func (h1 Hand) Compare(h2 Hand) int {
	return h1.Rank.Compare(h2.Rank)
}

// CompareWithExplanation compares two hands and returns the result with an
// explanation suitable for announcing a showdown.
func (h1 Hand) CompareWithExplanation(h2 Hand) (int, string) {
	result := h1.Compare(h2)
	if result == 0 {
		return result, "hands tie"
	}

	winner, loser := h1, h2
	if result < 0 {
		winner, loser = h2, h1
	}
	explanation := fmt.Sprintf("%s beats %s", winner, loser)

	wc, lc := winner.Rank.Category(), loser.Rank.Category()
	if wc != lc {
		return result, explanation + fmt.Sprintf(" (%s beats %s)", wc, lc)
	}

	// Same category: name the first key position that differs.
	wk, lk := winner.Rank.Key(), loser.Rank.Key()
	for i := 0; i < len(wk) && i < len(lk); i++ {
		if wk[i] == lk[i] {
			continue
		}
		return result, explanation + fmt.Sprintf(" with %s (%s vs %s)", keyRole(wc, i), wk[i], lk[i])
	}
	return result, explanation
}

// keyRole names the i-th tie-break position of a category.
func keyRole(c Category, i int) string {
	switch c {
	case Pair:
		if i == 0 {
			return "higher pair"
		}
	case TwoPair:
		switch i {
		case 0:
			return "higher top pair"
		case 1:
			return "higher bottom pair"
		}
	case ThreeOfAKind:
		if i == 0 {
			return "higher trips"
		}
	case FourOfAKind:
		if i == 0 {
			return "higher quads"
		}
	case FullHouse:
		if i == 0 {
			return "higher trips"
		}
		return "higher pair"
	case Straight, StraightFlush:
		return "higher straight"
	case Flush:
		return "higher flush card"
	}
	return "higher kicker"
}

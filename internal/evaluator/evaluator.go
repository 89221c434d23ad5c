package evaluator

import (
	"errors"
	"fmt"

	"github.com/lox/headsup/internal/deck"
)

// ErrInvalidInput is returned for malformed card sets: wrong count, invalid
// or duplicate cards. It always indicates a caller bug.
var ErrInvalidInput = errors.New("invalid input")

const (
	minCards = 5
	maxCards = 7
)

// Evaluate returns the strength of the best five-card hand that can be made
// from 5 to 7 distinct cards. Card order does not matter.
func Evaluate(cards []deck.Card) (HandRank, error) {
	if err := validateHand(cards); err != nil {
		return 0, err
	}
	rank, _ := bestOf(cards)
	return rank, nil
}

// MustEvaluate is Evaluate for inputs known to be valid (tests, tables).
func MustEvaluate(cards []deck.Card) HandRank {
	rank, err := Evaluate(cards)
	if err != nil {
		panic(err)
	}
	return rank
}

// BestHand evaluates cards like Evaluate and also reports which five cards
// make the hand.
func BestHand(cards []deck.Card) (Hand, error) {
	if err := validateHand(cards); err != nil {
		return Hand{}, err
	}
	rank, five := bestOf(cards)
	return Hand{Rank: rank, Cards: five}, nil
}

func validateHand(cards []deck.Card) error {
	if len(cards) < minCards || len(cards) > maxCards {
		return fmt.Errorf("%w: need %d to %d cards, got %d", ErrInvalidInput, minCards, maxCards, len(cards))
	}
	return checkDistinct(cards)
}

// checkDistinct rejects invalid and repeated cards.
func checkDistinct(cards []deck.Card) error {
	var seen [deck.NumSuits * deck.NumRanks]bool
	for _, c := range cards {
		if !c.Valid() {
			return fmt.Errorf("%w: invalid card %#v", ErrInvalidInput, c)
		}
		if seen[c.Index()] {
			return fmt.Errorf("%w: duplicate card %s", ErrInvalidInput, c)
		}
		seen[c.Index()] = true
	}
	return nil
}

// bestOf enumerates every five-card subset and keeps the strongest. Inputs
// are assumed valid; with at most 7 cards there are at most 21 subsets.
func bestOf(cards []deck.Card) (HandRank, [5]deck.Card) {
	var best HandRank
	var bestCards, five [5]deck.Card
	n := len(cards)
	for a := 0; a < n-4; a++ {
		for b := a + 1; b < n-3; b++ {
			for c := b + 1; c < n-2; c++ {
				for d := c + 1; d < n-1; d++ {
					for e := d + 1; e < n; e++ {
						five = [5]deck.Card{cards[a], cards[b], cards[c], cards[d], cards[e]}
						if r := evaluate5(&five); r > best {
							best, bestCards = r, five
						}
					}
				}
			}
		}
	}
	return best, bestCards
}

// evaluate5 classifies exactly five cards.
func evaluate5(cards *[5]deck.Card) HandRank {
	var counts [deck.Ace + 1]uint8
	var rankMask uint16
	flush := true
	for i, c := range cards {
		counts[c.Rank]++
		rankMask |= 1 << c.Rank
		if i > 0 && c.Suit != cards[0].Suit {
			flush = false
		}
	}

	// Ranks ordered by (count desc, rank desc): the tie-break key.
	var key [5]deck.Rank
	var shape [5]uint8
	n := 0
	for cnt := uint8(4); cnt >= 1; cnt-- {
		for r := deck.Ace; r >= deck.Two; r-- {
			if counts[r] == cnt {
				key[n], shape[n] = r, cnt
				n++
			}
		}
	}

	switch {
	case shape[0] == 4:
		return newHandRank(FourOfAKind, key[0], key[1])
	case shape[0] == 3 && shape[1] == 2:
		return newHandRank(FullHouse, key[0], key[1])
	case shape[0] == 3:
		return newHandRank(ThreeOfAKind, key[0], key[1], key[2])
	case shape[0] == 2 && shape[1] == 2:
		return newHandRank(TwoPair, key[0], key[1], key[2])
	case shape[0] == 2:
		return newHandRank(Pair, key[0], key[1], key[2], key[3])
	}

	high := straightHigh(rankMask)
	switch {
	case flush && high > 0:
		return newHandRank(StraightFlush, high)
	case flush:
		return newHandRank(Flush, key[:]...)
	case high > 0:
		return newHandRank(Straight, high)
	default:
		return newHandRank(HighCard, key[:]...)
	}
}

// straightHigh returns the top rank of five consecutive ranks in mask (bit r
// set for rank r), or 0. The wheel A-2-3-4-5 counts as a five-high straight.
func straightHigh(mask uint16) deck.Rank {
	const wheel = 1<<deck.Ace | 1<<deck.Two | 1<<deck.Three | 1<<deck.Four | 1<<deck.Five
	for high := deck.Ace; high >= deck.Six; high-- {
		run := uint16(0x1F) << (high - 4)
		if mask&run == run {
			return high
		}
	}
	if mask&wheel == wheel {
		return deck.Five
	}
	return 0
}

package evaluator

import (
	"fmt"
	"strings"

	"github.com/lox/headsup/internal/deck"
)

// Category is the class of a five-card poker hand, ordered from weakest to strongest.
type Category uint8

const (
	HighCard Category = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

// String returns the readable name of the category
func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case Pair:
		return "Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	default:
		return "Unknown"
	}
}

// Layout of a HandRank: the category sits above five 4-bit rank slots holding
// the tie-break key, most significant rank first. Unused slots are zero.
const (
	keySlots      = 5
	slotBits      = 4
	categoryShift = keySlots * slotBits
)

// HandRank is the comparable strength of a five-card hand. Higher values are
// stronger and equal values are an exact tie (split pot).
type HandRank uint32

func newHandRank(cat Category, key ...deck.Rank) HandRank {
	hr := HandRank(cat) << categoryShift
	for i, r := range key {
		hr |= HandRank(r) << ((keySlots - 1 - i) * slotBits)
	}
	return hr
}

// Category returns the hand category (pair, flush, etc.)
func (h HandRank) Category() Category {
	return Category(h >> categoryShift)
}

// Key returns the tie-break ranks, most significant first.
func (h HandRank) Key() []deck.Rank {
	key := make([]deck.Rank, 0, keySlots)
	for i := keySlots - 1; i >= 0; i-- {
		r := deck.Rank((h >> (i * slotBits)) & 0xF)
		if r == 0 {
			break
		}
		key = append(key, r)
	}
	return key
}

// Compare returns 1 if h is stronger, -1 if h is weaker and 0 on a tie.
func (h HandRank) Compare(other HandRank) int {
	switch {
	case h > other:
		return 1
	case h < other:
		return -1
	default:
		return 0
	}
}

// String describes the hand, e.g. "Two Pair (A, K, 2)".
func (h HandRank) String() string {
	key := h.Key()
	if len(key) == 0 {
		return h.Category().String()
	}
	parts := make([]string, len(key))
	for i, r := range key {
		parts[i] = r.String()
	}
	return fmt.Sprintf("%s (%s)", h.Category(), strings.Join(parts, ", "))
}

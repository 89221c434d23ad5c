package evaluator

import (
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/headsup/internal/deck"
	"github.com/lox/headsup/internal/randutil"
)

func TestEvaluateCategories(t *testing.T) {
	tests := []struct {
		name     string
		cards    string
		category Category
		key      []deck.Rank
	}{
		{"Straight Flush", "2s3s4s5s6s", StraightFlush, []deck.Rank{deck.Six}},
		{"Four of a Kind", "AsAhAdAcKs", FourOfAKind, []deck.Rank{deck.Ace, deck.King}},
		{"Full House", "AsAhAdKsKh", FullHouse, []deck.Rank{deck.Ace, deck.King}},
		{"Flush", "AsKsQs8s6s", Flush, []deck.Rank{deck.Ace, deck.King, deck.Queen, deck.Eight, deck.Six}},
		{"Straight", "AsKhQdJcTs", Straight, []deck.Rank{deck.Ace}},
		{"Three of a Kind", "AsAhAdKs9c", ThreeOfAKind, []deck.Rank{deck.Ace, deck.King, deck.Nine}},
		{"Two Pair", "AsAhKdKs2c", TwoPair, []deck.Rank{deck.Ace, deck.King, deck.Two}},
		{"Pair", "AsAhKdQs9c", Pair, []deck.Rank{deck.Ace, deck.King, deck.Queen, deck.Nine}},
		{"High Card", "AsKhQd9s7c", HighCard, []deck.Rank{deck.Ace, deck.King, deck.Queen, deck.Nine, deck.Seven}},
		{"Wheel", "As2h3d4s5c", Straight, []deck.Rank{deck.Five}},
		{"Steel Wheel", "Ah2h3h4h5h", StraightFlush, []deck.Rank{deck.Five}},
		{"Seven Card Flush Over Straight", "9h8h7h6s5h2h3c", Flush, []deck.Rank{deck.Nine, deck.Eight, deck.Seven, deck.Five, deck.Two}},
		{"Two Trips Make Full House", "KsKhKd7s7h7d2c", FullHouse, []deck.Rank{deck.King, deck.Seven}},
		{"Three Pairs Keep Best Kicker", "AsAhKdKsQcQh2c", TwoPair, []deck.Rank{deck.Ace, deck.King, deck.Queen}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rank, err := Evaluate(deck.MustParseCards(tt.cards))
			require.NoError(t, err)
			assert.Equal(t, tt.category, rank.Category())
			if diff := cmp.Diff(tt.key, rank.Key()); diff != "" {
				t.Errorf("key mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEvaluateOrdering(t *testing.T) {
	// Each hand is strictly stronger than the one before it.
	ladder := []string{
		"7s5h4d3c2s", // worst high card
		"AsKhQd9s7c",
		"2s2h3d4c5h",
		"AsAhKdQs9c",
		"AsAhKdKs2c",
		"AsAhKdKs3c",
		"2s2h2d3c4s",
		"As2h3d4s5c", // wheel
		"2s3h4d5s6c",
		"AsKhQdJcTs",
		"2s3s4s5s7s",
		"AsKsQsJs9s",
		"2s2h2d3c3s",
		"AsAhAdKsKh",
		"2s2h2d2c3s",
		"AsAhAdAcKs",
		"Ah2h3h4h5h",
		"AsKsQsJsTs",
	}

	prev := HandRank(0)
	for i, s := range ladder {
		rank := MustEvaluate(deck.MustParseCards(s))
		if i > 0 {
			assert.Greater(t, rank, prev, "%s should beat %s", s, ladder[i-1])
		}
		prev = rank
	}
}

func TestEvaluateTiesIgnoreSuits(t *testing.T) {
	a := MustEvaluate(deck.MustParseCards("AsKhQdJc9s"))
	b := MustEvaluate(deck.MustParseCards("AhKdQcJs9h"))
	assert.Equal(t, a, b)
	assert.Equal(t, 0, a.Compare(b))
}

func TestEvaluateIsMaxOverSubsets(t *testing.T) {
	rng := randutil.New(7)
	for range 200 {
		cards := deck.NewDeck(rng).Cards()[:7]

		var best HandRank
		for skipA := 0; skipA < 7; skipA++ {
			for skipB := skipA + 1; skipB < 7; skipB++ {
				five := make([]deck.Card, 0, 5)
				for i, c := range cards {
					if i != skipA && i != skipB {
						five = append(five, c)
					}
				}
				best = max(best, MustEvaluate(five))
			}
		}
		assert.Equal(t, best, MustEvaluate(cards), "cards %s", deck.FormatCards(cards))
	}
}

func TestEvaluatePermutationInvariant(t *testing.T) {
	rng := randutil.New(11)
	for range 100 {
		cards := deck.NewDeck(rng).Cards()[:7]
		want := MustEvaluate(cards)

		shuffled := append([]deck.Card(nil), cards...)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		assert.Equal(t, want, MustEvaluate(shuffled))
	}
}

func TestEvaluateInvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		cards []deck.Card
	}{
		{"empty", nil},
		{"four cards", deck.MustParseCards("AsKsQsJs")},
		{"eight cards", deck.MustParseCards("AsKsQsJsTs9s8s7s")},
		{"duplicate", deck.MustParseCards("AsAsKdQs9c")},
		{"invalid card", append(deck.MustParseCards("AsKsQsJs"), deck.Card{Suit: 9, Rank: deck.Ace})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Evaluate(tt.cards)
			assert.ErrorIs(t, err, ErrInvalidInput)

			_, err = BestHand(tt.cards)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestBestHandCards(t *testing.T) {
	hand, err := BestHand(deck.MustParseCards("AsKsQsJsTs9h8h"))
	require.NoError(t, err)
	assert.Equal(t, StraightFlush, hand.Rank.Category())
	assert.ElementsMatch(t, deck.MustParseCards("AsKsQsJsTs"), hand.Cards[:])

	// The chosen five must evaluate to the reported rank.
	assert.Equal(t, hand.Rank, MustEvaluate(hand.Cards[:]))
}

func TestHandRankString(t *testing.T) {
	rank := MustEvaluate(deck.MustParseCards("AsAhKdKs2c"))
	assert.Equal(t, "Two Pair (A, K, 2)", rank.String())
	assert.Equal(t, "Straight (5)", MustEvaluate(deck.MustParseCards("As2h3d4s5c")).String())
}

func TestCompareWithExplanation(t *testing.T) {
	aces, err := BestHand(deck.MustParseCards("AsAhKdQs9c"))
	require.NoError(t, err)
	kings, err := BestHand(deck.MustParseCards("KsKhQdJs9c"))
	require.NoError(t, err)
	flush, err := BestHand(deck.MustParseCards("2h5h7h9hJh"))
	require.NoError(t, err)

	result, why := aces.CompareWithExplanation(kings)
	assert.Equal(t, 1, result)
	assert.Contains(t, why, "higher pair")

	result, why = aces.CompareWithExplanation(flush)
	assert.Equal(t, -1, result)
	assert.Contains(t, why, "Flush beats Pair")

	result, why = aces.CompareWithExplanation(aces)
	assert.Equal(t, 0, result)
	assert.Equal(t, "hands tie", why)
}

func BenchmarkEvaluate7(b *testing.B) {
	rng := rand.New(rand.NewPCG(1, 2))
	hands := make([][]deck.Card, 1024)
	for i := range hands {
		hands[i] = deck.NewDeck(rng).Cards()[:7]
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Evaluate(hands[i%len(hands)])
	}
}

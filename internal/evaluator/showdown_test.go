package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/headsup/internal/deck"
)

func TestShowdownTwoPairBeatsPair(t *testing.T) {
	board := deck.MustParseCards("AhKh2c")
	hero := deck.MustParseCards("AsKs")
	villain := deck.MustParseCards("QdQc")

	result, err := Showdown(board, hero, villain)
	require.NoError(t, err)

	assert.Equal(t, []int{0}, result.Winners)
	assert.False(t, result.Split())
	assert.Equal(t, TwoPair, result.Hands[0].Rank.Category())
	assert.Equal(t, Pair, result.Hands[1].Rank.Category())
	assert.Equal(t, 1, result.Hands[0].Compare(result.Hands[1]))
}

func TestShowdownSplitPot(t *testing.T) {
	// Both players play the board straight.
	board := deck.MustParseCards("9s8h7d6c5s")
	result, err := Showdown(board, deck.MustParseCards("2h2d"), deck.MustParseCards("3h3d"))
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1}, result.Winners)
	assert.True(t, result.Split())
}

func TestShowdownThreeWay(t *testing.T) {
	board := deck.MustParseCards("Ts9s2h3c4d")
	result, err := Showdown(board,
		deck.MustParseCards("AhAd"),
		deck.MustParseCards("5h6h"),
		deck.MustParseCards("TdTc"),
	)
	require.NoError(t, err)

	assert.Equal(t, []int{1}, result.Winners)
	assert.Equal(t, Straight, result.Hands[1].Rank.Category())
}

func TestShowdownRejectsSharedCards(t *testing.T) {
	board := deck.MustParseCards("AhKh2c")
	_, err := Showdown(board, deck.MustParseCards("AsKs"), deck.MustParseCards("AsQc"))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Showdown(board)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

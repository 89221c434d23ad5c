package main

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/headsup/internal/deck"
	"github.com/lox/headsup/internal/randutil"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	handStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14"))

	winStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	tieStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	categoryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12"))

	percentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))
)

func parseHole(s string) ([]deck.Card, error) {
	hole, err := deck.ParseCards(s)
	if err != nil {
		return nil, err
	}
	if len(hole) != 2 {
		return nil, fmt.Errorf("hole must contain exactly 2 cards, got %d", len(hole))
	}
	return hole, nil
}

func parseBoard(s string) ([]deck.Card, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	board, err := deck.ParseCards(s)
	if err != nil {
		return nil, err
	}
	if len(board) > 5 {
		return nil, fmt.Errorf("board cannot have more than 5 cards, got %d", len(board))
	}
	return board, nil
}

// newRng returns a seeded stream, or a clock-seeded one when seed is nil.
func newRng(seed *int64) (*rand.Rand, int64) {
	if seed != nil {
		return randutil.New(*seed), *seed
	}
	return randutil.NewFromTime()
}

func percent(v float64) string {
	return fmt.Sprintf("%6.2f%%", v*100)
}

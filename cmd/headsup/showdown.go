package main

import (
	"fmt"
	"os"
	"slices"
	"text/tabwriter"

	"github.com/lox/headsup/internal/deck"
	"github.com/lox/headsup/internal/evaluator"
)

type ShowdownCmd struct {
	Board string   `arg:"" help:"Full five-card board"`
	Holes []string `arg:"" help:"Two or more hole hands, e.g. 'AcKd' 'QhQs'"`
}

func (c *ShowdownCmd) Run() error {
	board, err := parseBoard(c.Board)
	if err != nil {
		return fmt.Errorf("parse board: %w", err)
	}
	if len(board) != 5 {
		return fmt.Errorf("showdown needs a full board, got %d cards", len(board))
	}
	if len(c.Holes) < 2 {
		return fmt.Errorf("showdown needs at least 2 hands, got %d", len(c.Holes))
	}

	holes := make([][]deck.Card, len(c.Holes))
	for i, s := range c.Holes {
		if holes[i], err = parseHole(s); err != nil {
			return fmt.Errorf("hand %d: %w", i+1, err)
		}
	}

	result, err := evaluator.Showdown(board, holes...)
	if err != nil {
		return err
	}

	fmt.Println(headerStyle.Render("Board: ") + handStyle.Render(deck.FormatCards(board)))
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, headerStyle.Render("Hand")+"\t"+headerStyle.Render("Best five")+"\t"+headerStyle.Render("Rank")+"\t")
	for i, hand := range result.Hands {
		outcome := ""
		if slices.Contains(result.Winners, i) {
			outcome = winStyle.Render("wins")
			if result.Split() {
				outcome = tieStyle.Render("splits")
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			handStyle.Render(deck.FormatCards(holes[i])),
			deck.FormatCards(hand.Cards[:]),
			categoryStyle.Render(hand.Rank.String()),
			outcome)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	for _, line := range explainShowdown(result) {
		fmt.Println(categoryStyle.Render(line))
	}
	return nil
}

// explainShowdown says why the first winner's hand beats or ties each other
// hand.
func explainShowdown(result evaluator.ShowdownResult) []string {
	best := result.Winners[0]
	var lines []string
	for i, hand := range result.Hands {
		if i == best {
			continue
		}
		_, why := result.Hands[best].CompareWithExplanation(hand)
		lines = append(lines, fmt.Sprintf("hand %d vs hand %d: %s", best+1, i+1, why))
	}
	return lines
}

package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/lox/headsup/internal/deck"
	"github.com/lox/headsup/internal/evaluator"
)

type OddsCmd struct {
	Hole      string  `arg:"" help:"Hole cards, e.g. 'AcKd'"`
	Board     string  `short:"b" help:"Community board cards (e.g., 'Td7s8h')"`
	Opponents int     `short:"o" help:"Number of opponents" default:"1"`
	Budget    int     `short:"i" help:"Showdowns to enumerate or simulate" default:"100000"`
	Range     float64 `short:"r" help:"Only deal opponents hands at or above this starting-hand percentile (0-1)" default:"0"`
	Workers   int     `help:"Concurrent simulation workers (0 = CPU count)" default:"0"`
	Seed      *int64  `help:"Random seed for reproducible results"`
}

func (c *OddsCmd) Run() error {
	hole, err := parseHole(c.Hole)
	if err != nil {
		return fmt.Errorf("parse hole: %w", err)
	}
	board, err := parseBoard(c.Board)
	if err != nil {
		return fmt.Errorf("parse board: %w", err)
	}
	if c.Range < 0 || c.Range >= 1 {
		return fmt.Errorf("range must be in [0, 1), got %v", c.Range)
	}

	rng, seed := newRng(c.Seed)
	var opponentRange evaluator.Range
	if c.Range > 0 {
		opponentRange = evaluator.PercentileRange{Min: c.Range}
	}

	start := time.Now()
	eq, err := evaluator.EstimateWithOptions(evaluator.Options{
		Hole:      hole,
		Board:     board,
		Opponents: c.Opponents,
		Budget:    c.Budget,
		Range:     opponentRange,
		Workers:   c.Workers,
		Rng:       rng,
	})
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Println(headerStyle.Render("Hole:  ") + handStyle.Render(deck.FormatCards(hole)))
	if len(board) > 0 {
		fmt.Println(headerStyle.Render("Board: ") + handStyle.Render(deck.FormatCards(board)))
	}
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n",
		headerStyle.Render("Win"), headerStyle.Render("Tie"), headerStyle.Render("Loss"), headerStyle.Render("Equity"))
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n",
		winStyle.Render(percent(eq.Win)),
		tieStyle.Render(percent(eq.Tie)),
		percentStyle.Render(percent(eq.Loss)),
		handStyle.Render(percent(eq.Value())))
	if err := w.Flush(); err != nil {
		return err
	}

	mode := fmt.Sprintf("%d iterations (seed %d)", eq.Samples, seed)
	if eq.Exact {
		mode = fmt.Sprintf("%d runouts enumerated", eq.Samples)
	}
	fmt.Printf("\n%s in %v\n", mode, elapsed.Round(time.Millisecond))
	return nil
}

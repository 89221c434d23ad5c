package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/lox/headsup/internal/config"
	"github.com/lox/headsup/internal/deck"
	"github.com/lox/headsup/internal/game"
)

type DecideCmd struct {
	Hole       string `arg:"" help:"Hole cards, e.g. 'AcKd'"`
	Board      string `short:"b" help:"Community board cards (e.g., 'Td7s8h')"`
	Pot        int    `short:"p" help:"Chips in the pot before this decision" required:""`
	ToCall     int    `short:"c" help:"Chips needed to call (0 = check)" default:"0"`
	Stack      int    `short:"s" help:"Chips behind" required:""`
	MinRaise   int    `help:"Minimum raise increment" default:"0"`
	Opponents  int    `short:"o" help:"Number of opponents" default:"1"`
	InPosition bool   `help:"Acting last on later streets"`
	Config     string `help:"Engine configuration file (HCL)" type:"path"`
	Seed       *int64 `help:"Random seed for reproducible decisions"`
}

func (c *DecideCmd) Run() error {
	hole, err := parseHole(c.Hole)
	if err != nil {
		return fmt.Errorf("parse hole: %w", err)
	}
	board, err := parseBoard(c.Board)
	if err != nil {
		return fmt.Errorf("parse board: %w", err)
	}
	round, err := game.RoundForBoard(len(board))
	if err != nil {
		return err
	}

	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	if err := cfg.Engine.Validate(); err != nil {
		return fmt.Errorf("invalid engine config: %w", err)
	}

	rng, _ := newRng(c.Seed)
	engine := game.NewEngine(cfg.Engine, rng)
	decision, eq, err := engine.DecideHand(hole, board, game.BettingState{
		Pot:        c.Pot,
		ToCall:     c.ToCall,
		Stack:      c.Stack,
		MinRaise:   c.MinRaise,
		Opponents:  c.Opponents,
		Round:      round,
		InPosition: c.InPosition,
	})
	if err != nil {
		return err
	}

	fmt.Println(headerStyle.Render("Hole:  ") + handStyle.Render(deck.FormatCards(hole)))
	if len(board) > 0 {
		fmt.Println(headerStyle.Render("Board: ") + handStyle.Render(deck.FormatCards(board)))
	}
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Round\t%s\n", round)
	fmt.Fprintf(w, "Showdown equity\t%s\n", percent(eq.Value()))
	fmt.Fprintf(w, "Adjusted equity\t%s\n", percent(decision.Equity))
	fmt.Fprintf(w, "Pot odds\t%s\n", percent(decision.PotOdds))
	fmt.Fprintf(w, "Tier\t%s\n", categoryStyle.Render(decision.Tier.String()))
	action := winStyle.Render(decision.Action.String())
	if decision.Mixed {
		action += tieStyle.Render(" (mixed)")
	}
	fmt.Fprintf(w, "Action\t%s\n", action)
	return w.Flush()
}

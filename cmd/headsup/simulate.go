package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/schollz/progressbar/v3"

	"github.com/lox/headsup/internal/config"
	"github.com/lox/headsup/internal/fileutil"
	"github.com/lox/headsup/internal/phh"
	"github.com/lox/headsup/internal/randutil"
	"github.com/lox/headsup/internal/simulator"
	"github.com/lox/headsup/internal/statistics"
)

type SimulateCmd struct {
	Config    string `help:"Configuration file (HCL)" type:"path" default:"headsup.hcl"`
	Hands     int    `help:"Hands to play (overrides config)"`
	Seed      *int64 `help:"Random seed (overrides config; 0 seeds from the clock)"`
	Duplicate bool   `help:"Replay every deal with the seats swapped"`
	LogLevel  string `help:"Log level (debug, info, warn, error)"`
	Quiet     bool   `short:"q" help:"Hide the progress bar"`
	History   string `help:"Write every hand to this PHHS hand history file" type:"path"`
}

func (c *SimulateCmd) Run() error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	if c.Hands > 0 {
		cfg.Simulation.Hands = c.Hands
	}
	if c.Seed != nil {
		cfg.Simulation.Seed = *c.Seed
	}
	if c.LogLevel != "" {
		cfg.Simulation.LogLevel = c.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	level, err := log.ParseLevel(cfg.Simulation.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	})

	seed := cfg.Simulation.Seed
	if seed == 0 {
		_, seed = randutil.NewFromTime()
	}

	total := cfg.Simulation.Hands
	if c.Duplicate {
		total *= 2
	}

	simCfg := simulator.Config{
		Table:     cfg.Table,
		Hero:      cfg.Engine,
		Villain:   cfg.Engine,
		Hands:     cfg.Simulation.Hands,
		Seed:      seed,
		Duplicate: c.Duplicate,
		Logger:    logger,
	}
	var bar *progressbar.ProgressBar
	if !c.Quiet {
		bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("simulating"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		simCfg.Progress = func(played int) { _ = bar.Set(played) }
	}

	var hands []*phh.HandHistory
	if c.History != "" {
		simCfg.History = func(hh *phh.HandHistory) { hands = append(hands, hh) }
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, err := simulator.New(simCfg).Run(ctx)
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		return err
	}

	if c.History != "" {
		err := fileutil.WriteAtomic(c.History, 0o644, func(w io.Writer) error {
			return phh.EncodeAll(w, hands)
		})
		if err != nil {
			return fmt.Errorf("write hand history: %w", err)
		}
		logger.Info("Wrote hand history", "file", c.History, "hands", len(hands))
	}

	printSummary(result)
	return nil
}

// printSummary renders the match statistics from the hero's seat.
func printSummary(result *simulator.Result) {
	stats := result.Stats
	low, high := stats.ConfidenceInterval95()

	fmt.Println()
	fmt.Println(headerStyle.Render(fmt.Sprintf("=== Match %s ===", result.MatchID)))
	fmt.Printf("Hands: %d  Seed: %d  Elapsed: %v\n", stats.Hands, result.Seed, result.Elapsed.Round(time.Millisecond))
	fmt.Printf("Net: %+d chips  %s bb/100  95%% CI [%.2f, %.2f] bb/100\n",
		stats.NetChips,
		resultStyle(stats.BBPer100()).Render(fmt.Sprintf("%+.2f", stats.BBPer100())),
		low*100, high*100)
	fmt.Printf("Std dev: %.2f bb/hand  Median: %.2f bb\n", stats.StdDev(), stats.Median())

	fmt.Println()
	fmt.Println(headerStyle.Render("Position"))
	fmt.Printf("  Button:    %d hands, %+.2f bb/100\n", stats.PositionResults[statistics.Button].Hands, stats.PositionMean(statistics.Button)*100)
	fmt.Printf("  Big blind: %d hands, %+.2f bb/100\n", stats.PositionResults[statistics.BigBlind].Hands, stats.PositionMean(statistics.BigBlind)*100)

	fmt.Println()
	fmt.Println(headerStyle.Render("Outcomes"))
	fmt.Printf("  Showdown wins:     %d (%+.2f bb)\n", stats.ShowdownWins, stats.ShowdownBB)
	fmt.Printf("  Non-showdown wins: %d (%+.2f bb)\n", stats.NonShowdownWins, stats.NonShowdownBB)
	fmt.Printf("  Big pots (>=50bb): %d (%+.2f bb), largest %.1f bb\n", stats.BigPots, stats.BigPotsBB, stats.MaxPotBB)

	var streets []string
	for _, name := range []string{"Preflop", "Flop", "Turn", "River"} {
		if n := stats.Streets[name]; n > 0 {
			streets = append(streets, fmt.Sprintf("%s %d", name, n))
		}
	}
	if len(streets) > 0 {
		fmt.Printf("  Ended on:          %s\n", strings.Join(streets, ", "))
	}
}

func resultStyle(v float64) lipgloss.Style {
	if v < 0 {
		return percentStyle
	}
	return winStyle
}

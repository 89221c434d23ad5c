package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Eval     EvalCmd          `cmd:"" help:"Evaluate the best five-card hand from 5 to 7 cards"`
	Showdown ShowdownCmd      `cmd:"" help:"Compare complete hands on a full board"`
	Odds     OddsCmd          `cmd:"" help:"Estimate equity of a hole hand against random opponents"`
	Decide   DecideCmd        `cmd:"" help:"Ask the engine what it would do in a spot"`
	Simulate SimulateCmd      `cmd:"" help:"Play the engine against itself and report win rate"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("headsup"),
		kong.Description("Heads-up hold'em hand evaluator, equity estimator and decision engine"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

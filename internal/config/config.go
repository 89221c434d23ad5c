package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the complete configuration: the decision engine, the table the
// reference harness plays on and the simulation run itself.
type Config struct {
	Engine     Engine
	Table      Table
	Simulation Simulation
}

// Engine tunes the decision engine and its equity estimates.
type Engine struct {
	// CallMargin is how far equity must exceed pot odds before continuing.
	CallMargin float64 `env:"HEADSUP_CALL_MARGIN"`
	// StrongThreshold is the equity at which the engine raises for value.
	StrongThreshold float64 `env:"HEADSUP_STRONG_THRESHOLD"`
	// BluffFrequency is the chance of raising a hand that should fold.
	BluffFrequency float64 `env:"HEADSUP_BLUFF_FREQUENCY"`
	// ValueFrequency scales the chance of raising a hand that should call.
	ValueFrequency float64 `env:"HEADSUP_VALUE_FREQUENCY"`
	// TrapFrequency is the largest chance of flat calling a strong hand.
	TrapFrequency float64 `env:"HEADSUP_TRAP_FREQUENCY"`
	// Aggression is the raise increment as a fraction of the pot.
	Aggression float64 `env:"HEADSUP_AGGRESSION"`
	// BluffSizing scales the increment of bluff raises.
	BluffSizing float64 `env:"HEADSUP_BLUFF_SIZING"`

	PositionBonus          float64 `env:"HEADSUP_POSITION_BONUS"`
	PreflopPositionBonus   float64 `env:"HEADSUP_PREFLOP_POSITION_BONUS"`
	PreflopPositionPenalty float64 `env:"HEADSUP_PREFLOP_POSITION_PENALTY"`

	// SampleBudget bounds equity estimation work per decision.
	SampleBudget int `env:"HEADSUP_SAMPLE_BUDGET"`
	// Workers caps Monte Carlo concurrency; 0 uses every CPU.
	Workers int `env:"HEADSUP_WORKERS"`
}

// Table describes the heads-up game the harness deals.
type Table struct {
	StartingStack int `env:"HEADSUP_STARTING_STACK"`
	SmallBlind    int `env:"HEADSUP_SMALL_BLIND"`
	BigBlind      int `env:"HEADSUP_BIG_BLIND"`
	// MaxRaises caps raises per street so betting always terminates.
	MaxRaises int `env:"HEADSUP_MAX_RAISES"`
}

// Simulation controls a harness run.
type Simulation struct {
	Hands int `env:"HEADSUP_HANDS"`
	// Seed of the run; 0 seeds from the clock.
	Seed     int64  `env:"HEADSUP_SEED"`
	LogLevel string `env:"HEADSUP_LOG_LEVEL"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Engine: Engine{
			CallMargin:             0.02,
			StrongThreshold:        0.70,
			BluffFrequency:         0.08,
			ValueFrequency:         0.25,
			TrapFrequency:          0.15,
			Aggression:             0.75,
			BluffSizing:            0.6,
			PositionBonus:          0.05,
			PreflopPositionBonus:   0.03,
			PreflopPositionPenalty: 0.02,
			SampleBudget:           50000,
		},
		Table: Table{
			StartingStack: 1000,
			SmallBlind:    25,
			BigBlind:      50,
			MaxRaises:     4,
		},
		Simulation: Simulation{
			Hands:    1000,
			LogLevel: "info",
		},
	}
}

// fileConfig mirrors Config as it appears in HCL. Every attribute is a
// pointer so an explicit zero can be told apart from an omitted attribute.
type fileConfig struct {
	Engine     *engineBlock     `hcl:"engine,block"`
	Table      *tableBlock      `hcl:"table,block"`
	Simulation *simulationBlock `hcl:"simulation,block"`
}

type engineBlock struct {
	CallMargin             *float64 `hcl:"call_margin,optional"`
	StrongThreshold        *float64 `hcl:"strong_threshold,optional"`
	BluffFrequency         *float64 `hcl:"bluff_frequency,optional"`
	ValueFrequency         *float64 `hcl:"value_frequency,optional"`
	TrapFrequency          *float64 `hcl:"trap_frequency,optional"`
	Aggression             *float64 `hcl:"aggression,optional"`
	BluffSizing            *float64 `hcl:"bluff_sizing,optional"`
	PositionBonus          *float64 `hcl:"position_bonus,optional"`
	PreflopPositionBonus   *float64 `hcl:"preflop_position_bonus,optional"`
	PreflopPositionPenalty *float64 `hcl:"preflop_position_penalty,optional"`
	SampleBudget           *int     `hcl:"sample_budget,optional"`
	Workers                *int     `hcl:"workers,optional"`
}

type tableBlock struct {
	StartingStack *int `hcl:"starting_stack,optional"`
	SmallBlind    *int `hcl:"small_blind,optional"`
	BigBlind      *int `hcl:"big_blind,optional"`
	MaxRaises     *int `hcl:"max_raises,optional"`
}

type simulationBlock struct {
	Hands    *int    `hcl:"hands,optional"`
	Seed     *int64  `hcl:"seed,optional"`
	LogLevel *string `hcl:"log_level,optional"`
}

// Load reads configuration from an HCL file, falling back to defaults when the
// file does not exist, then applies HEADSUP_* environment overrides.
func Load(filename string) (*Config, error) {
	cfg := Default()

	if filename != "" {
		src, err := os.ReadFile(filename)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if cfg, err = Parse(src, filename); err != nil {
				return nil, err
			}
		}
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	return cfg, nil
}

// Parse decodes HCL source over the defaults. Omitted blocks and attributes
// keep their default values.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var fc fileConfig
	diags = gohcl.DecodeBody(file.Body, nil, &fc)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	cfg := Default()
	fc.apply(cfg)
	return cfg, nil
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func (fc *fileConfig) apply(cfg *Config) {
	if e := fc.Engine; e != nil {
		set(&cfg.Engine.CallMargin, e.CallMargin)
		set(&cfg.Engine.StrongThreshold, e.StrongThreshold)
		set(&cfg.Engine.BluffFrequency, e.BluffFrequency)
		set(&cfg.Engine.ValueFrequency, e.ValueFrequency)
		set(&cfg.Engine.TrapFrequency, e.TrapFrequency)
		set(&cfg.Engine.Aggression, e.Aggression)
		set(&cfg.Engine.BluffSizing, e.BluffSizing)
		set(&cfg.Engine.PositionBonus, e.PositionBonus)
		set(&cfg.Engine.PreflopPositionBonus, e.PreflopPositionBonus)
		set(&cfg.Engine.PreflopPositionPenalty, e.PreflopPositionPenalty)
		set(&cfg.Engine.SampleBudget, e.SampleBudget)
		set(&cfg.Engine.Workers, e.Workers)
	}
	if t := fc.Table; t != nil {
		set(&cfg.Table.StartingStack, t.StartingStack)
		set(&cfg.Table.SmallBlind, t.SmallBlind)
		set(&cfg.Table.BigBlind, t.BigBlind)
		set(&cfg.Table.MaxRaises, t.MaxRaises)
	}
	if s := fc.Simulation; s != nil {
		set(&cfg.Simulation.Hands, s.Hands)
		set(&cfg.Simulation.Seed, s.Seed)
		set(&cfg.Simulation.LogLevel, s.LogLevel)
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Engine.Validate(); err != nil {
		return err
	}

	t := c.Table
	if t.SmallBlind <= 0 {
		return fmt.Errorf("table: small blind must be positive")
	}
	if t.BigBlind <= t.SmallBlind {
		return fmt.Errorf("table: big blind must be greater than small blind")
	}
	if t.StartingStack < t.BigBlind {
		return fmt.Errorf("table: starting stack must cover the big blind")
	}
	if t.MaxRaises < 1 {
		return fmt.Errorf("table: max raises must be at least 1")
	}

	if c.Simulation.Hands < 1 {
		return fmt.Errorf("simulation: hands must be positive")
	}
	switch c.Simulation.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("simulation: invalid log level %q", c.Simulation.LogLevel)
	}
	return nil
}

// Validate checks that probabilities are probabilities and sizes are positive.
func (e Engine) Validate() error {
	probabilities := []struct {
		name  string
		value float64
	}{
		{"call_margin", e.CallMargin},
		{"bluff_frequency", e.BluffFrequency},
		{"value_frequency", e.ValueFrequency},
		{"trap_frequency", e.TrapFrequency},
		{"position_bonus", e.PositionBonus},
		{"preflop_position_bonus", e.PreflopPositionBonus},
		{"preflop_position_penalty", e.PreflopPositionPenalty},
	}
	for _, p := range probabilities {
		if p.value < 0 || p.value > 1 {
			return fmt.Errorf("engine: %s must be between 0 and 1, got %g", p.name, p.value)
		}
	}

	if e.StrongThreshold <= 0 || e.StrongThreshold >= 1 {
		return fmt.Errorf("engine: strong_threshold must be between 0 and 1 exclusive, got %g", e.StrongThreshold)
	}
	if e.Aggression <= 0 {
		return fmt.Errorf("engine: aggression must be positive, got %g", e.Aggression)
	}
	if e.BluffSizing <= 0 {
		return fmt.Errorf("engine: bluff_sizing must be positive, got %g", e.BluffSizing)
	}
	if e.SampleBudget < 1 {
		return fmt.Errorf("engine: sample_budget must be positive, got %d", e.SampleBudget)
	}
	if e.Workers < 0 {
		return fmt.Errorf("engine: workers must not be negative, got %d", e.Workers)
	}
	return nil
}

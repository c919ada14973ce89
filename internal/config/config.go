// Package config loads game and simulation settings from HCL files.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/flowersforbots/internal/game"
	"github.com/lox/flowersforbots/internal/suitor"
)

// EnvSeed overrides the configured game seed for deterministic runs
const EnvSeed = "FLOWERSFORBOTS_SEED"

const (
	DefaultGames       = 100
	DefaultConcurrency = 4
	DefaultTimeout     = 30 * time.Second
)

// Config represents the complete configuration
type Config struct {
	Game       GameSettings
	Suitors    []SuitorConfig
	Simulation SimulationSettings
}

// GameSettings controls a single game
type GameSettings struct {
	Days    int   `hcl:"days,optional"`
	PoolMin int   `hcl:"pool_min,optional"`
	PoolMax int   `hcl:"pool_max,optional"`
	Seed    int64 `hcl:"seed,optional"`
}

// SuitorConfig defines one or more seats playing the same strategy
type SuitorConfig struct {
	Name     string `hcl:"name,label"`
	Strategy string `hcl:"strategy"`
	Count    int    `hcl:"count,optional"`
}

// SimulationSettings controls batch runs
type SimulationSettings struct {
	Games        int    `hcl:"games,optional"`
	Concurrency  int    `hcl:"concurrency,optional"`
	ExploitOrder string `hcl:"exploit_order,optional"`
	Timeout      string `hcl:"timeout,optional"`
}

// file is the on-disk layout; every block is optional
type file struct {
	Game       *GameSettings       `hcl:"game,block"`
	Suitors    []SuitorConfig      `hcl:"suitor,block"`
	Simulation *SimulationSettings `hcl:"simulation,block"`
}

// Default returns the default configuration: one suitor of each strategy
func Default() *Config {
	cfg := &Config{}
	for _, kind := range suitor.Kinds() {
		cfg.Suitors = append(cfg.Suitors, SuitorConfig{Name: string(kind), Strategy: string(kind)})
	}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from an HCL file. A missing file yields the
// defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	f, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var raw file
	diags = gohcl.DecodeBody(f.Body, nil, &raw)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	cfg := &Config{Suitors: raw.Suitors}
	if raw.Game != nil {
		cfg.Game = *raw.Game
	}
	if raw.Simulation != nil {
		cfg.Simulation = *raw.Simulation
	}
	if len(cfg.Suitors) == 0 {
		cfg.Suitors = Default().Suitors
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Game.Days == 0 {
		c.Game.Days = game.DefaultDays
	}
	if c.Game.PoolMin == 0 && c.Game.PoolMax == 0 {
		c.Game.PoolMin = game.DefaultPoolMin
		c.Game.PoolMax = game.DefaultPoolMax
	}

	for i := range c.Suitors {
		if c.Suitors[i].Count == 0 {
			c.Suitors[i].Count = 1
		}
	}

	if c.Simulation.Games == 0 {
		c.Simulation.Games = DefaultGames
	}
	if c.Simulation.Concurrency == 0 {
		c.Simulation.Concurrency = DefaultConcurrency
	}
	if c.Simulation.ExploitOrder == "" {
		c.Simulation.ExploitOrder = string(suitor.OrderInsertion)
	}
	if c.Simulation.Timeout == "" {
		c.Simulation.Timeout = DefaultTimeout.String()
	}
}

// ApplyEnv overrides settings from environment variables
func (c *Config) ApplyEnv() error {
	if seedStr := os.Getenv(EnvSeed); seedStr != "" {
		seed, err := strconv.ParseInt(seedStr, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s value: %w", EnvSeed, err)
		}
		c.Game.Seed = seed
	}
	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	gc := game.Config{Days: c.Game.Days, PoolMin: c.Game.PoolMin, PoolMax: c.Game.PoolMax}
	if err := gc.Validate(); err != nil {
		return fmt.Errorf("game: %w", err)
	}

	seats := 0
	names := make(map[string]bool, len(c.Suitors))
	for _, s := range c.Suitors {
		if names[s.Name] {
			return fmt.Errorf("suitor %s: defined more than once", s.Name)
		}
		names[s.Name] = true
		if _, err := suitor.ParseKind(s.Strategy); err != nil {
			return fmt.Errorf("suitor %s: %w", s.Name, err)
		}
		if s.Count < 1 {
			return fmt.Errorf("suitor %s: count must be positive", s.Name)
		}
		seats += s.Count
	}
	if seats < 2 {
		return fmt.Errorf("at least 2 suitors must be configured, got %d", seats)
	}

	if c.Simulation.Games < 1 {
		return fmt.Errorf("simulation: games must be positive")
	}
	if c.Simulation.Concurrency < 1 {
		return fmt.Errorf("simulation: concurrency must be positive")
	}
	if _, err := suitor.ParseExploitOrder(c.Simulation.ExploitOrder); err != nil {
		return fmt.Errorf("simulation: %w", err)
	}
	if _, err := c.Timeout(); err != nil {
		return fmt.Errorf("simulation: %w", err)
	}
	return nil
}

// Seats expands the suitor blocks into one seat per suitor. Blocks with a
// count above one get numbered names.
func (c *Config) Seats() []game.Seat {
	var seats []game.Seat
	for _, s := range c.Suitors {
		for i := range s.Count {
			name := s.Name
			if s.Count > 1 {
				name = fmt.Sprintf("%s-%d", s.Name, i+1)
			}
			seats = append(seats, game.Seat{Name: name, Kind: suitor.Kind(s.Strategy)})
		}
	}
	return seats
}

// ExploitOrder returns the parsed final-round order
func (c *Config) ExploitOrder() suitor.ExploitOrder {
	order, err := suitor.ParseExploitOrder(c.Simulation.ExploitOrder)
	if err != nil {
		return suitor.OrderInsertion
	}
	return order
}

// Timeout returns the per-game timeout; "0" disables it
func (c *Config) Timeout() (time.Duration, error) {
	d, err := time.ParseDuration(c.Simulation.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", c.Simulation.Timeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("timeout must not be negative, got %v", d)
	}
	return d, nil
}

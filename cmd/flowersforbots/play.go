package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/flowersforbots/internal/config"
	"github.com/lox/flowersforbots/internal/game"
	"github.com/lox/flowersforbots/internal/history"
)

type PlayCmd struct {
	Config  string `short:"c" default:"flowersforbots.hcl" help:"HCL configuration file (defaults apply when missing)"`
	Seed    int64  `help:"Game seed (0 keeps the configured seed)"`
	Days    int    `help:"Number of rounds (0 keeps the configured value)"`
	History string `help:"Write the game history to this TOML file"`
	Rounds  bool   `help:"Print every gift, not just the standings"`
}

func (c *PlayCmd) Run(ctx context.Context, logger *log.Logger) error {
	cfg, err := loadConfig(c.Config)
	if err != nil {
		return err
	}
	if c.Seed != 0 {
		cfg.Game.Seed = c.Seed
	}
	if c.Days != 0 {
		cfg.Game.Days = c.Days
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	seats := cfg.Seats()
	suitors, err := game.BuildSuitors(seats, cfg.Game.Days, cfg.Game.Seed, cfg.ExploitOrder(), logger)
	if err != nil {
		return err
	}
	engine, err := game.NewEngine(game.Config{
		Days:    cfg.Game.Days,
		PoolMin: cfg.Game.PoolMin,
		PoolMax: cfg.Game.PoolMax,
		Seed:    cfg.Game.Seed,
		Logger:  logger,
	}, suitors)
	if err != nil {
		return err
	}

	res, err := engine.Play(ctx)
	if err != nil {
		return err
	}

	names := make([]string, len(seats))
	for i, s := range seats {
		names[i] = s.Label(i)
	}
	printGame(os.Stdout, res, names, c.Rounds)

	if c.History == "" {
		return nil
	}
	h, err := history.FromResult(res, names, time.Now())
	if err != nil {
		return err
	}
	if err := history.Save(c.History, h); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	logger.Info("Wrote game history", "path", c.History, "game", h.GameID)
	return nil
}

// loadConfig reads the file and applies environment overrides
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/lox/flowersforbots/internal/simulator"
)

type SimulateCmd struct {
	Config      string `short:"c" default:"flowersforbots.hcl" help:"HCL configuration file (defaults apply when missing)"`
	Games       int    `short:"n" help:"Number of games (0 keeps the configured value)"`
	Concurrency int    `short:"j" help:"Games played in parallel (0 keeps the configured value)"`
	Seed        int64  `help:"Base seed; game i uses seed+i (0 keeps the configured seed)"`
	Progress    bool   `help:"Show a progress bar while games run"`
}

func (c *SimulateCmd) Run(ctx context.Context, logger *log.Logger) error {
	cfg, err := loadConfig(c.Config)
	if err != nil {
		return err
	}
	if c.Games != 0 {
		cfg.Simulation.Games = c.Games
	}
	if c.Concurrency != 0 {
		cfg.Simulation.Concurrency = c.Concurrency
	}
	if c.Seed != 0 {
		cfg.Game.Seed = c.Seed
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	timeout, err := cfg.Timeout()
	if err != nil {
		return err
	}

	logger.Info("Starting simulation",
		"games", cfg.Simulation.Games,
		"concurrency", cfg.Simulation.Concurrency,
		"seed", cfg.Game.Seed,
		"days", cfg.Game.Days)

	simCfg := simulator.Config{
		Games:        cfg.Simulation.Games,
		Concurrency:  cfg.Simulation.Concurrency,
		Seed:         cfg.Game.Seed,
		Days:         cfg.Game.Days,
		PoolMin:      cfg.Game.PoolMin,
		PoolMax:      cfg.Game.PoolMax,
		Seats:        cfg.Seats(),
		ExploitOrder: cfg.ExploitOrder(),
		Timeout:      timeout,
		Logger:       logger,
	}

	var report *simulator.Report
	if c.Progress {
		report, err = runWithProgress(ctx, simCfg)
	} else {
		report, err = simulator.New(simCfg).Run(ctx)
	}
	if err != nil {
		return err
	}

	printReport(os.Stdout, report)
	return nil
}

// runWithProgress drives the simulation from a goroutine while a
// bubbletea program renders progress on stderr.
func runWithProgress(ctx context.Context, cfg simulator.Config) (*simulator.Report, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	program := tea.NewProgram(newProgressModel(cfg.Games, cancel), tea.WithOutput(os.Stderr))
	cfg.OnGameDone = func(done, total int) {
		program.Send(gameDoneMsg{done: done, total: total})
	}

	type outcome struct {
		report *simulator.Report
		err    error
	}
	finished := make(chan outcome, 1)
	go func() {
		report, err := simulator.New(cfg).Run(ctx)
		finished <- outcome{report: report, err: err}
		program.Send(simulationDoneMsg{})
	}()

	if _, err := program.Run(); err != nil {
		cancel()
		<-finished
		return nil, fmt.Errorf("progress display failed: %w", err)
	}
	res := <-finished
	return res.report, res.err
}

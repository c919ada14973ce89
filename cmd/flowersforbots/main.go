package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	LogLevel string           `default:"warn" enum:"debug,info,warn,error" help:"Log level (debug|info|warn|error)"`
	Color    string           `default:"auto" enum:"auto,always,never" help:"Colorize reports (auto|always|never)"`

	Play      PlayCmd      `cmd:"" help:"Play one game and print the standings"`
	Simulate  SimulateCmd  `cmd:"" help:"Play many seeded games and report statistics per strategy"`
	Selfcheck SelfcheckCmd `cmd:"" help:"Print a strategy's zero- and one-score bouquets"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("flowersforbots"),
		kong.Description("Suitors learn each other's taste in flowers"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)

	setColor(cli.Color)
	logger := newLogger(cli.LogLevel)

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx.BindTo(runCtx, (*context.Context)(nil))
	err := ctx.Run(logger)
	ctx.FatalIfErrorf(err)
}

func newLogger(level string) *log.Logger {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.WarnLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           lvl,
		ReportTimestamp: lvl == log.DebugLevel,
	})
}

// setColor forces the report color profile; auto keeps terminal detection
func setColor(mode string) {
	switch mode {
	case "always":
		lipgloss.SetColorProfile(termenv.TrueColor)
	case "never":
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

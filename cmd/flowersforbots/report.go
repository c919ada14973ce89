package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/flowersforbots/internal/game"
	"github.com/lox/flowersforbots/internal/simulator"
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Bold(true).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFEAA7")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)
)

func header(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n", headerStyle.Render(strings.ToUpper(title)))
}

func row(w io.Writer, label string, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render(label+":"), valueStyle.Render(fmt.Sprintf(format, args...)))
}

// printGame renders a finished game: optional per-round gifts, then the
// standings.
func printGame(w io.Writer, res *game.Result, names []string, rounds bool) {
	header(w, fmt.Sprintf("Game seed %d, %d days", res.Seed, res.Days))

	if rounds {
		for _, r := range res.Rounds {
			header(w, fmt.Sprintf("Round %d", r.Number))
			for _, g := range r.Gifts {
				row(w, fmt.Sprintf("%s -> %s", names[g.From], names[g.To]),
					"%.3f (rank %d, ties %d) %s", g.Score, g.Rank, g.Ties, g.Bouquet)
			}
			for _, id := range r.Rejected {
				fmt.Fprintln(w, warningStyle.Render(fmt.Sprintf("%s submitted invalid bouquets", names[id])))
			}
		}
	}

	header(w, "Standings")
	for _, st := range res.Standings {
		row(w, fmt.Sprintf("%-12s %-7s", names[st.ID], st.Strategy), "total %.3f, final round %.3f", st.Total, st.Final)
	}
}

// printReport renders simulation statistics, one section per strategy.
func printReport(w io.Writer, report *simulator.Report) {
	header(w, fmt.Sprintf("%d games: %s", report.Games, report.Lineup))
	if report.Elapsed > 0 {
		row(w, "Elapsed", "%v (%.1f games/sec)", report.Elapsed, float64(report.Games)/report.Elapsed.Seconds())
	}

	for _, name := range report.Stats.Names() {
		stats := report.Stats[name]
		low, high := stats.ConfidenceInterval95()

		header(w, name)
		row(w, "Seats played", "%d", stats.Games)
		row(w, "Final-round score", "%.4f ± %.4f SE", stats.Mean(), stats.StdError())
		row(w, "95% CI", "[%.4f, %.4f]", low, high)
		row(w, "Percentiles", "P5=%.3f P25=%.3f P50=%.3f P75=%.3f P95=%.3f",
			stats.Percentile(0.05), stats.Percentile(0.25), stats.Median(), stats.Percentile(0.75), stats.Percentile(0.95))
		row(w, "First-round score", "%.4f (improvement %+.4f, improved in %.1f%% of games)",
			stats.MeanFirst(), stats.Improvement(), 100*float64(stats.ImprovedGames)/float64(stats.Games))
		row(w, "Total per game", "%.3f", stats.MeanTotal())
		row(w, "Win rate", "%.1f%%", 100*stats.WinRate())
		if stats.Rejected > 0 {
			fmt.Fprintln(w, errorStyle.Render(fmt.Sprintf("%d rejected submissions", stats.Rejected)))
		}
	}
}

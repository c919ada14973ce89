package simulator

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/flowersforbots/internal/game"
	"github.com/lox/flowersforbots/internal/statistics"
	"github.com/lox/flowersforbots/internal/suitor"
)

// Config holds configuration for running simulations
type Config struct {
	Games       int
	Concurrency int
	Seed        int64

	Days    int
	PoolMin int
	PoolMax int
	Seats   []game.Seat

	ExploitOrder suitor.ExploitOrder

	// Timeout bounds each game; zero disables it.
	Timeout time.Duration
	Clock   quartz.Clock
	Logger  *log.Logger

	// OnGameDone is called after each game with the number finished so
	// far. It may be called from several goroutines at once.
	OnGameDone func(done, total int)
}

// Report is the outcome of a simulation run
type Report struct {
	Games   int
	Lineup  string
	Stats   statistics.ByStrategy
	Elapsed time.Duration
}

// Simulator runs many independent seeded games
type Simulator struct {
	config Config
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Concurrency < 1 {
		config.Concurrency = 1
	}
	if config.Clock == nil {
		config.Clock = quartz.NewReal()
	}
	if config.Logger == nil {
		config.Logger = log.New(io.Discard)
	}
	return &Simulator{config: config}
}

// Run plays every game and returns per-strategy statistics. Games run
// concurrently; results are folded in game order so the report only
// depends on the seed.
func (s *Simulator) Run(ctx context.Context) (*Report, error) {
	if s.config.Games < 1 {
		return nil, fmt.Errorf("games must be >= 1, got %d", s.config.Games)
	}
	if len(s.config.Seats) < 2 {
		return nil, fmt.Errorf("need at least 2 seats, got %d", len(s.config.Seats))
	}

	start := s.config.Clock.Now()
	results := make([][]statistics.GameResult, s.config.Games)
	var finished atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Concurrency)
	for i := range s.config.Games {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			// Generate independent seed for this game
			seed := s.config.Seed + int64(i)
			res, err := s.playGameWithTimeout(ctx, seed, i)
			if err != nil {
				return fmt.Errorf("game %d (seed %d): %w", i+1, seed, err)
			}
			results[i] = res
			if s.config.OnGameDone != nil {
				s.config.OnGameDone(int(finished.Add(1)), s.config.Games)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := statistics.ByStrategy{}
	for _, played := range results {
		for _, r := range played {
			stats.Add(r)
		}
	}
	if err := stats.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}

	report := &Report{
		Games:   s.config.Games,
		Lineup:  lineup(s.config.Seats),
		Stats:   stats,
		Elapsed: s.config.Clock.Since(start),
	}
	s.config.Logger.Info("Simulation complete", "games", report.Games, "lineup", report.Lineup, "elapsed", report.Elapsed)
	return report, nil
}

// playGameWithTimeout cancels the game once the configured timeout fires
func (s *Simulator) playGameWithTimeout(ctx context.Context, seed int64, index int) ([]statistics.GameResult, error) {
	if s.config.Timeout <= 0 {
		return s.playGame(ctx, seed, index)
	}

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	timer := s.config.Clock.AfterFunc(s.config.Timeout, func() {
		cancel(fmt.Errorf("game timed out after %v", s.config.Timeout))
	})
	defer timer.Stop()

	res, err := s.playGame(ctx, seed, index)
	if err != nil && context.Cause(ctx) != nil {
		return nil, context.Cause(ctx)
	}
	return res, err
}

// playGame plays one game and converts its standings into results
func (s *Simulator) playGame(ctx context.Context, seed int64, index int) ([]statistics.GameResult, error) {
	// Rotate the lineup each game to eliminate seat bias
	seats := rotate(s.config.Seats, index%len(s.config.Seats))

	suitors, err := game.BuildSuitors(seats, s.config.Days, seed, s.config.ExploitOrder, s.config.Logger)
	if err != nil {
		return nil, err
	}
	engine, err := game.NewEngine(game.Config{
		Days:    s.config.Days,
		PoolMin: s.config.PoolMin,
		PoolMax: s.config.PoolMax,
		Seed:    seed,
		Logger:  s.config.Logger,
	}, suitors)
	if err != nil {
		return nil, err
	}

	res, err := engine.Play(ctx)
	if err != nil {
		return nil, err
	}
	return Results(res), nil
}

// Results converts a finished game into one result per suitor
func Results(res *game.Result) []statistics.GameResult {
	out := make([]statistics.GameResult, len(res.Standings))
	for i, st := range res.Standings {
		out[i] = statistics.GameResult{
			Strategy: st.Strategy,
			Seed:     res.Seed,
			Seat:     st.ID,
			Final:    st.Final,
			Total:    st.Total,
		}
		place := 1
		for _, other := range res.Standings {
			if other.Total > st.Total {
				place++
			}
		}
		out[i].Placement = place
	}

	if len(res.Rounds) > 0 {
		recipients := float64(len(res.Standings) - 1)
		for _, g := range res.Rounds[0].Gifts {
			out[g.From].First += g.Score / recipients
		}
	}
	for _, r := range res.Rounds {
		for _, id := range r.Rejected {
			out[id].Rejected++
		}
	}
	return out
}

func rotate(seats []game.Seat, by int) []game.Seat {
	out := make([]game.Seat, 0, len(seats))
	out = append(out, seats[by:]...)
	return append(out, seats[:by]...)
}

func lineup(seats []game.Seat) string {
	names := make([]string, len(seats))
	for i, s := range seats {
		names[i] = string(s.Kind)
	}
	return strings.Join(names, ",")
}

package game

import (
	"context"
	"errors"
	"fmt"
	"io"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/lox/flowersforbots/flower"
	"github.com/lox/flowersforbots/internal/randutil"
	"github.com/lox/flowersforbots/internal/suitor"
)

const (
	DefaultDays    = 5
	DefaultPoolMin = 12
	DefaultPoolMax = 48
)

// ErrInvalidSubmission wraps every reason a suitor's bouquets are rejected.
var ErrInvalidSubmission = errors.New("invalid submission")

// Config controls a single game.
type Config struct {
	// Days is the number of rounds.
	Days int
	// PoolMin and PoolMax bound the number of flowers each suitor is dealt
	// per round, inclusive.
	PoolMin int
	PoolMax int
	Seed    int64
	Logger  *log.Logger
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if c.Days < 0 {
		return fmt.Errorf("days must be >= 0, got %d", c.Days)
	}
	if c.PoolMin < 0 {
		return fmt.Errorf("pool_min must be >= 0, got %d", c.PoolMin)
	}
	if c.PoolMax < c.PoolMin {
		return fmt.Errorf("pool_max (%d) must be >= pool_min (%d)", c.PoolMax, c.PoolMin)
	}
	return nil
}

// Judge scores bouquets. Every suitor is a judge of the bouquets it
// receives.
type Judge interface {
	ScoreColors(map[flower.Color]int) float64
	ScoreTypes(map[flower.Type]int) float64
	ScoreSizes(map[flower.Size]int) float64
}

// Score is the mean of a judge's three attribute scores.
func Score(j Judge, b flower.Bouquet) float64 {
	return (j.ScoreColors(b.Colors()) + j.ScoreTypes(b.Types()) + j.ScoreSizes(b.Sizes())) / 3
}

// GiftRecord is one delivered bouquet and how its recipient judged it.
type GiftRecord struct {
	From    int
	To      int
	Bouquet flower.Bouquet
	Score   float64
	Rank    int
	Ties    int
}

// RoundRecord captures everything that happened in one round.
type RoundRecord struct {
	Number int
	// Pools holds the flowers dealt to each suitor, by id.
	Pools []flower.Counts
	// Gifts is grouped by giver in id order.
	Gifts []GiftRecord
	// Rejected lists suitors whose submissions were replaced by empty
	// bouquets.
	Rejected []int
}

// Standing summarises one suitor over a whole game.
type Standing struct {
	ID       int
	Strategy string
	// Total is the sum of every score the suitor's bouquets received.
	Total float64
	// Final is the mean score of the suitor's final-round bouquets.
	Final float64
}

// Result is the outcome of a completed game.
type Result struct {
	Seed      int64
	Days      int
	Rounds    []RoundRecord
	Standings []Standing
}

// Engine runs one game between a fixed set of suitors.
type Engine struct {
	cfg     Config
	suitors []suitor.Strategy
	rng     *rand.Rand
	logger  *log.Logger
}

// NewEngine validates cfg and the lineup. Suitor i must report ID i.
func NewEngine(cfg Config, suitors []suitor.Strategy) (*Engine, error) {
	if cfg.PoolMin == 0 && cfg.PoolMax == 0 {
		cfg.PoolMin, cfg.PoolMax = DefaultPoolMin, DefaultPoolMax
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("game config: %w", err)
	}
	if len(suitors) < 2 {
		return nil, fmt.Errorf("need at least 2 suitors, got %d", len(suitors))
	}
	for i, s := range suitors {
		if s == nil {
			return nil, fmt.Errorf("suitor %d is nil", i)
		}
		if s.ID() != i {
			return nil, fmt.Errorf("suitor at seat %d reports id %d", i, s.ID())
		}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Engine{
		cfg:     cfg,
		suitors: suitors,
		rng:     randutil.Child(cfg.Seed, 0),
		logger:  logger.WithPrefix("game"),
	}, nil
}

// Play runs every round. Cancellation is checked between rounds.
func (e *Engine) Play(ctx context.Context) (*Result, error) {
	res := &Result{
		Seed:   e.cfg.Seed,
		Days:   e.cfg.Days,
		Rounds: make([]RoundRecord, 0, e.cfg.Days),
	}
	for number := 1; number <= e.cfg.Days; number++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res.Rounds = append(res.Rounds, e.playRound(number))
	}
	res.Standings = e.standings(res.Rounds)

	e.logger.Debug("Game complete", "seed", e.cfg.Seed, "days", e.cfg.Days, "suitors", len(e.suitors))
	return res, nil
}

func (e *Engine) playRound(number int) RoundRecord {
	n := len(e.suitors)
	rec := RoundRecord{
		Number: number,
		Pools:  make([]flower.Counts, n),
		Gifts:  make([]GiftRecord, 0, n*(n-1)),
	}
	for i := range rec.Pools {
		rec.Pools[i] = flower.RandomPool(e.rng, e.poolSize())
	}

	received := make([][]int, n)
	for i, s := range e.suitors {
		gifts, err := e.collect(s, rec.Pools[i])
		if err == nil {
			err = Validate(i, n, rec.Pools[i], gifts)
		}
		if err != nil {
			e.logger.Warn("Rejecting bouquets, substituting empty ones",
				"round", number,
				"suitor", i,
				"strategy", s.Name(),
				"error", err)
			rec.Rejected = append(rec.Rejected, i)
			gifts = emptyGifts(i, n)
		}
		for _, g := range gifts {
			received[g.To] = append(received[g.To], len(rec.Gifts))
			rec.Gifts = append(rec.Gifts, GiftRecord{From: g.From, To: g.To, Bouquet: g.Bouquet})
		}
	}

	for to, idx := range received {
		judge := e.suitors[to]
		for _, k := range idx {
			rec.Gifts[k].Score = Score(judge, rec.Gifts[k].Bouquet)
		}
		for _, k := range idx {
			for _, other := range idx {
				if other == k {
					continue
				}
				switch {
				case rec.Gifts[other].Score > rec.Gifts[k].Score:
					rec.Gifts[k].Rank++
				case rec.Gifts[other].Score == rec.Gifts[k].Score:
					rec.Gifts[k].Ties++
				}
			}
			rec.Gifts[k].Rank++
		}
	}

	feedback := make([]suitor.Feedback, n)
	for _, g := range rec.Gifts {
		if feedback[g.From] == nil {
			feedback[g.From] = make(suitor.Feedback, n-1)
		}
		feedback[g.From][g.To] = suitor.Reaction{Rank: g.Rank, Score: g.Score, Ties: g.Ties}
	}
	for i, s := range e.suitors {
		s.ReceiveFeedback(feedback[i])
	}

	e.logger.Debug("Round complete", "round", number, "gifts", len(rec.Gifts), "rejected", len(rec.Rejected))
	return rec
}

// collect asks a suitor for its bouquets, turning a panic into an error so
// one broken strategy cannot end the game.
func (e *Engine) collect(s suitor.Strategy, pool flower.Counts) (gifts []suitor.Gift, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: strategy panicked: %v", ErrInvalidSubmission, r)
		}
	}()
	return s.PrepareBouquets(pool.Clone()), nil
}

func (e *Engine) poolSize() int {
	return e.cfg.PoolMin + e.rng.IntN(e.cfg.PoolMax-e.cfg.PoolMin+1)
}

func (e *Engine) standings(rounds []RoundRecord) []Standing {
	out := make([]Standing, len(e.suitors))
	for i, s := range e.suitors {
		out[i] = Standing{ID: i, Strategy: s.Name()}
	}
	for _, r := range rounds {
		for _, g := range r.Gifts {
			out[g.From].Total += g.Score
		}
	}
	if len(rounds) == 0 {
		return out
	}
	last := rounds[len(rounds)-1]
	recipients := float64(len(e.suitors) - 1)
	for _, g := range last.Gifts {
		out[g.From].Final += g.Score / recipients
	}
	return out
}

// Validate checks one suitor's submission against its pool: exactly one
// gift to every other suitor, sent by the right suitor, within the bouquet
// size cap, and together no larger than the pool.
func Validate(id, suitors int, pool flower.Counts, gifts []suitor.Gift) error {
	if len(gifts) != suitors-1 {
		return fmt.Errorf("%w: %d gifts for %d recipients", ErrInvalidSubmission, len(gifts), suitors-1)
	}
	seen := make(map[int]bool, len(gifts))
	used := make(flower.Counts)
	for _, g := range gifts {
		if g.From != id {
			return fmt.Errorf("%w: gift claims to be from %d", ErrInvalidSubmission, g.From)
		}
		if g.To < 0 || g.To >= suitors || g.To == id {
			return fmt.Errorf("%w: invalid recipient %d", ErrInvalidSubmission, g.To)
		}
		if seen[g.To] {
			return fmt.Errorf("%w: recipient %d given more than one bouquet", ErrInvalidSubmission, g.To)
		}
		seen[g.To] = true
		if g.Bouquet.Len() > flower.MaxBouquetSize {
			return fmt.Errorf("%w: bouquet for %d holds %d flowers (max %d)", ErrInvalidSubmission, g.To, g.Bouquet.Len(), flower.MaxBouquetSize)
		}
		for _, f := range g.Bouquet.Flowers() {
			used[f] += g.Bouquet.Count(f)
		}
	}
	for f, n := range used {
		if n > pool[f] {
			return fmt.Errorf("%w: %d x %s given, %d dealt", ErrInvalidSubmission, n, f, pool[f])
		}
	}
	return nil
}

func emptyGifts(id, suitors int) []suitor.Gift {
	out := make([]suitor.Gift, 0, suitors-1)
	for to := range suitors {
		if to != id {
			out = append(out, suitor.Gift{From: id, To: to})
		}
	}
	return out
}

// Package suitor implements agents for the courtship game. Each round a
// suitor splits its flower inventory into one bouquet per other suitor;
// after the round it learns the score each recipient gave its bouquet.
//
// The learning strategies run controlled experiments while turns remain:
// for each recipient they vary one attribute at a time while holding the
// other two at a fixed control setting, and log the score of every probe.
// On the final round they commit, per recipient, to the best logged
// bouquet that can still be built from the remaining flowers.
//
// # Strategies
//
//   - queue: probes every color, then every type, then every size once per
//     recipient, one flower at a time, regardless of elapsed turns.
//   - phased: spends the first third of the game on colors, the second on
//     types and the last on sizes, drawing random quantities across the
//     probed axis for each recipient's control setting.
//   - random: gives random bouquets every round. Used as a baseline.
package suitor

import (
	"fmt"
	"io"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/lox/flowersforbots/flower"
	"github.com/lox/flowersforbots/internal/preference"
	"github.com/lox/flowersforbots/internal/randutil"
)

// Gift is one bouquet handed from one suitor to another.
type Gift struct {
	From    int
	To      int
	Bouquet flower.Bouquet
}

// Reaction is what a recipient reports back about one bouquet.
type Reaction struct {
	// Rank is 1 for the best bouquet the recipient got this round.
	Rank int
	// Score is the recipient's score for the bouquet.
	Score float64
	// Ties is how many other bouquets got the same score.
	Ties int
}

// Feedback maps recipient id to its reaction to our bouquet.
type Feedback map[int]Reaction

// Strategy is the contract between the game engine and a suitor.
type Strategy interface {
	Name() string
	ID() int

	// PrepareBouquets returns exactly one gift per other suitor, in
	// recipient id order. Bouquets never exceed MaxBouquetSize and never
	// use more flowers than counts holds in total.
	PrepareBouquets(counts flower.Counts) []Gift
	// ReceiveFeedback delivers the reactions to the last round's gifts.
	ReceiveFeedback(fb Feedback)

	ZeroScoreBouquet() flower.Bouquet
	OneScoreBouquet() flower.Bouquet
	ScoreColors(colors map[flower.Color]int) float64
	ScoreTypes(types map[flower.Type]int) float64
	ScoreSizes(sizes map[flower.Size]int) float64
}

// Kind names a strategy implementation.
type Kind string

const (
	KindQueue  Kind = "queue"
	KindPhased Kind = "phased"
	KindRandom Kind = "random"
)

// Kinds lists every registered strategy.
func Kinds() []Kind {
	return []Kind{KindQueue, KindPhased, KindRandom}
}

// ParseKind validates a strategy name.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown strategy %q (want one of %v)", s, Kinds())
}

// Config holds construction parameters shared by every strategy.
type Config struct {
	// Days is the total number of rounds in the game.
	Days int
	// Suitors is the number of suitors, including this one.
	Suitors int
	// ID is this suitor's id in [0, Suitors).
	ID int

	// Rand drives every random choice. A nil Rand is seeded from Seed.
	Rand *rand.Rand
	Seed int64

	// ExploitOrder picks the final-round recipient order.
	ExploitOrder ExploitOrder

	// Model overrides the strategy's default preference model.
	Model preference.Model

	Logger *log.Logger
}

func (c Config) withDefaults() (Config, error) {
	if c.Suitors < 1 {
		return c, fmt.Errorf("suitor: need at least one suitor, got %d", c.Suitors)
	}
	if c.ID < 0 || c.ID >= c.Suitors {
		return c, fmt.Errorf("suitor: id %d out of range [0, %d)", c.ID, c.Suitors)
	}
	if c.Days < 0 {
		c.Days = 0
	}
	if c.Rand == nil {
		c.Rand = randutil.New(c.Seed)
	}
	if c.Logger == nil {
		c.Logger = log.New(io.Discard)
	}
	order, err := ParseExploitOrder(string(c.ExploitOrder))
	if err != nil {
		return c, fmt.Errorf("suitor: %w", err)
	}
	c.ExploitOrder = order
	return c, nil
}

// recipients lists every id except self, ascending.
func (c Config) recipients() []int {
	out := make([]int, 0, c.Suitors-1)
	for id := range c.Suitors {
		if id != c.ID {
			out = append(out, id)
		}
	}
	return out
}

// New builds a strategy by kind.
func New(kind Kind, cfg Config) (Strategy, error) {
	var (
		s   Strategy
		err error
	)
	switch kind {
	case KindQueue:
		s, err = NewQueue(cfg)
	case KindPhased:
		s, err = NewPhased(cfg)
	case KindRandom:
		s, err = NewRandom(cfg)
	default:
		return nil, fmt.Errorf("suitor: unknown strategy %q", kind)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

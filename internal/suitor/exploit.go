package suitor

import (
	"fmt"
	rand "math/rand/v2"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/lox/flowersforbots/flower"
	"github.com/lox/flowersforbots/internal/inventory"
)

// ExploitOrder decides which recipient claims the final-round inventory
// first.
type ExploitOrder string

const (
	// OrderInsertion serves recipients in id order.
	OrderInsertion ExploitOrder = "insertion"
	// OrderBestScore serves recipients with the best recorded score first.
	OrderBestScore ExploitOrder = "best-score"
)

// ParseExploitOrder validates an order name; empty means insertion.
func ParseExploitOrder(s string) (ExploitOrder, error) {
	switch ExploitOrder(s) {
	case "", OrderInsertion:
		return OrderInsertion, nil
	case OrderBestScore:
		return OrderBestScore, nil
	default:
		return "", fmt.Errorf("unknown exploit order %q", s)
	}
}

// selector commits, per recipient, to the best recorded bouquet that can
// still be built, falling back to a random bouquet.
type selector struct {
	observations *Observations
	order        ExploitOrder
	rng          *rand.Rand
	logger       *log.Logger
}

// choice is one final-round decision.
type choice struct {
	recipient int
	bouquet   flower.Bouquet
	reused    bool
}

// selectAll processes recipients in exploit order, decrementing table as it
// goes, and returns one choice per recipient in that order.
func (s *selector) selectAll(recipients []int, table *inventory.Table) []choice {
	ordered := s.ordered(recipients)
	out := make([]choice, 0, len(ordered))
	for _, r := range ordered {
		out = append(out, s.selectOne(r, table))
	}
	return out
}

func (s *selector) selectOne(recipient int, table *inventory.Table) choice {
	for _, obs := range s.observations.Ranked(recipient) {
		if obs.Bouquet.IsEmpty() || obs.Bouquet.Len() > flower.MaxBouquetSize {
			continue
		}
		if !table.Contains(obs.Bouquet) {
			continue
		}
		if err := table.Take(obs.Bouquet); err != nil {
			panic(fmt.Sprintf("suitor: exploit take after contains check: %v", err))
		}
		s.logger.Debug("Reusing best bouquet",
			"recipient", recipient,
			"score", obs.Score,
			"round", obs.Round,
			"experiment", obs.Experiment.String(),
			"bouquet", obs.Bouquet.String())
		return choice{recipient: recipient, bouquet: obs.Bouquet, reused: true}
	}

	b := table.RandomBouquet(s.rng, flower.MaxBouquetSize)
	s.logger.Debug("No constructible observation, giving random bouquet",
		"recipient", recipient,
		"observations", s.observations.Len(recipient),
		"bouquet", b.String())
	return choice{recipient: recipient, bouquet: b}
}

func (s *selector) ordered(recipients []int) []int {
	out := make([]int, len(recipients))
	copy(out, recipients)
	if s.order != OrderBestScore {
		return out
	}

	best := make(map[int]float64, len(out))
	for _, r := range out {
		if obs, ok := s.observations.Best(r); ok {
			best[r] = obs.Score
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return best[out[i]] > best[out[j]] })
	return out
}

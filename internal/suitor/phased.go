package suitor

import (
	"fmt"
	rand "math/rand/v2"

	"github.com/lox/flowersforbots/flower"
	"github.com/lox/flowersforbots/internal/inventory"
	"github.com/lox/flowersforbots/internal/preference"
)

// NewPhased builds the phased strategy: the probed axis follows the
// elapsed share of the game (see PhaseFor) and each probe spreads random
// quantities across that axis at the recipient's control setting. It
// scores itself with a Weighted model.
func NewPhased(cfg Config) (*Agent, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}
	p := &phasePlanner{rng: cfg.Rand}
	a := newAgent(string(KindPhased), cfg, preference.NewWeighted(cfg.Rand), p)
	p.controls = a.controls
	return a, nil
}

type phasePlanner struct {
	controls Controls
	rng      *rand.Rand
}

// plan draws, for each value of the phase's axis, a count uniform in
// [0, available] at the recipient's control anchor. Values are visited in
// random order and the draws stop growing once the bouquet is full. An
// empty slice degrades to a random bouquet.
func (p *phasePlanner) plan(recipient int, table *inventory.Table, t turn) (flower.Bouquet, Experiment) {
	axis := PhaseFor(t.remaining, t.total).Attribute()
	anchor := p.controls.Anchor(recipient, axis)
	slice := table.Slice(axis, anchor)

	available := 0
	for _, n := range slice {
		available += n
	}
	if available == 0 {
		return table.RandomBouquet(p.rng, flower.MaxBouquetSize), ExperimentNone
	}

	counts := make(map[flower.Flower]int)
	capacity := flower.MaxBouquetSize
	for _, v := range p.rng.Perm(len(slice)) {
		limit := min(slice[v], capacity)
		if limit == 0 {
			continue
		}
		if k := p.rng.IntN(limit + 1); k > 0 {
			counts[anchor.With(axis, v)] = k
			capacity -= k
		}
	}

	b := flower.NewBouquet(counts)
	if err := table.Take(b); err != nil {
		panic(fmt.Sprintf("suitor: phased probe: %v", err))
	}
	return b, experimentFor(axis)
}

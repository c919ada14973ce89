package suitor

import (
	"fmt"
	"math"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/lox/flowersforbots/flower"
	"github.com/lox/flowersforbots/internal/inventory"
	"github.com/lox/flowersforbots/internal/preference"
)

// planner builds one test bouquet for a recipient during the testing
// phase, decrementing table by what it uses.
type planner interface {
	plan(recipient int, table *inventory.Table, t turn) (flower.Bouquet, Experiment)
}

// turn is the round clock as seen by a planner.
type turn struct {
	round     int
	remaining int
	total     int
}

// dispatch remembers what was sent to a recipient until feedback arrives.
type dispatch struct {
	round      int
	bouquet    flower.Bouquet
	experiment Experiment
}

// Agent is the experiment-then-exploit suitor shared by the learning
// strategies. The planner is the only part that differs between them.
type Agent struct {
	preference.Model

	name       string
	id         int
	recipients []int
	total      int
	remaining  int
	round      int

	rng    *rand.Rand
	logger *log.Logger

	planner      planner
	controls     Controls
	observations *Observations
	selector     *selector
	pending      map[int]dispatch
}

func newAgent(name string, cfg Config, model preference.Model, p planner) *Agent {
	if cfg.Model != nil {
		model = cfg.Model
	}
	recipients := cfg.recipients()
	logger := cfg.Logger.WithPrefix(fmt.Sprintf("%s-%d", name, cfg.ID))
	obs := NewObservations()
	return &Agent{
		Model:        model,
		name:         name,
		id:           cfg.ID,
		recipients:   recipients,
		total:        cfg.Days,
		remaining:    cfg.Days,
		rng:          cfg.Rand,
		logger:       logger,
		planner:      p,
		controls:     AssignControls(recipients, cfg.Rand),
		observations: obs,
		selector: &selector{
			observations: obs,
			order:        cfg.ExploitOrder,
			rng:          cfg.Rand,
			logger:       logger,
		},
		pending: make(map[int]dispatch),
	}
}

func (a *Agent) Name() string { return a.name }
func (a *Agent) ID() int      { return a.id }

// Observations exposes the feedback log.
func (a *Agent) Observations() *Observations { return a.observations }

// Controls exposes the per-recipient control settings.
func (a *Agent) Controls() Controls { return a.controls }

// Remaining is the number of rounds left after the last PrepareBouquets.
func (a *Agent) Remaining() int { return a.remaining }

func (a *Agent) ZeroScoreBouquet() flower.Bouquet { return a.Model.ZeroScore() }
func (a *Agent) OneScoreBouquet() flower.Bouquet  { return a.Model.OneScore() }

func (a *Agent) PrepareBouquets(counts flower.Counts) []Gift {
	a.remaining--
	a.round++
	if len(a.recipients) == 0 {
		return nil
	}

	table, err := inventory.Tabulate(counts)
	if err != nil {
		a.logger.Error("Rejecting malformed flower counts, giving empty bouquets", "round", a.round, "error", err)
		table = &inventory.Table{}
	}
	start := table.Clone()

	bouquets := make(map[int]dispatch, len(a.recipients))
	if PhaseFor(a.remaining, a.total) == PhaseFinal {
		for _, c := range a.selector.selectAll(a.recipients, table) {
			bouquets[c.recipient] = dispatch{round: a.round, bouquet: c.bouquet}
		}
	} else {
		t := turn{round: a.round, remaining: a.remaining, total: a.total}
		for _, r := range a.recipients {
			b, exp := a.planner.plan(r, table, t)
			bouquets[r] = dispatch{round: a.round, bouquet: b, experiment: exp}
		}
	}

	gifts := make([]Gift, 0, len(a.recipients))
	for _, r := range a.recipients {
		d := bouquets[r]
		a.mustFit(d.bouquet, start)
		a.pending[r] = d
		gifts = append(gifts, Gift{From: a.id, To: r, Bouquet: d.bouquet})
		a.logger.Debug("Prepared bouquet",
			"round", a.round,
			"remaining", a.remaining,
			"recipient", r,
			"experiment", d.experiment.String(),
			"bouquet", d.bouquet.String())
	}
	return gifts
}

// mustFit panics on a bouquet that breaks the size cap or the round's
// inventory. Either one is a scheduling bug.
func (a *Agent) mustFit(b flower.Bouquet, start *inventory.Table) {
	if b.Len() > flower.MaxBouquetSize {
		panic(fmt.Sprintf("suitor %s-%d: bouquet of %d flowers exceeds %d", a.name, a.id, b.Len(), flower.MaxBouquetSize))
	}
	if err := start.Take(b); err != nil {
		panic(fmt.Sprintf("suitor %s-%d: round %d over-allocated: %v", a.name, a.id, a.round, err))
	}
}

// ReceiveFeedback logs each pending bouquet with its reaction. Recipients
// with a missing or non-finite reaction are skipped.
func (a *Agent) ReceiveFeedback(fb Feedback) {
	for _, r := range a.recipients {
		d, ok := a.pending[r]
		if !ok {
			continue
		}
		reaction, ok := fb[r]
		if !ok {
			a.logger.Warn("Feedback missing recipient, skipping", "round", d.round, "recipient", r)
			continue
		}
		if math.IsNaN(reaction.Score) || math.IsInf(reaction.Score, 0) {
			a.logger.Warn("Feedback score not finite, skipping", "round", d.round, "recipient", r, "score", reaction.Score)
			continue
		}
		delete(a.pending, r)
		a.observations.Record(r, Observation{
			Round:      d.round,
			Bouquet:    d.bouquet,
			Score:      reaction.Score,
			Experiment: d.experiment,
		})
	}
}

package suitor

import (
	"fmt"
	rand "math/rand/v2"

	"github.com/lox/flowersforbots/flower"
	"github.com/lox/flowersforbots/internal/inventory"
	"github.com/lox/flowersforbots/internal/preference"
)

// NewQueue builds the queue strategy: every attribute value is tested once
// per recipient, colors first, then types, then sizes, one flower per
// probe. It scores itself with a Distance model.
func NewQueue(cfg Config) (*Agent, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}
	q := &queuePlanner{
		queues: make(map[int]*[3][]int),
		rng:    cfg.Rand,
	}
	a := newAgent(string(KindQueue), cfg, preference.NewDistance(cfg.Rand), q)
	q.controls = a.controls
	for _, r := range a.recipients {
		q.queues[r] = freshQueues()
	}
	return a, nil
}

// queuePlanner holds, per recipient, the untested values of each axis in
// experiment priority order.
type queuePlanner struct {
	queues   map[int]*[3][]int
	controls Controls
	rng      *rand.Rand
}

func freshQueues() *[3][]int {
	var q [3][]int
	for _, axis := range flower.Attributes() {
		values := make([]int, axis.Cardinality())
		for v := range values {
			values[v] = v
		}
		q[axis] = values
	}
	return &q
}

// Untested returns a copy of the values still queued for recipient on axis.
func (a *Agent) Untested(recipient int, axis flower.Attribute) []int {
	q, ok := a.planner.(*queuePlanner)
	if !ok || q.queues[recipient] == nil {
		return nil
	}
	src := q.queues[recipient][axis]
	out := make([]int, len(src))
	copy(out, src)
	return out
}

// plan tests the first queued value that has stock. The recipient's
// control flower for that axis is preferred; otherwise any flower with the
// value will do. The value leaves the queue once its probe is built.
func (q *queuePlanner) plan(recipient int, table *inventory.Table, _ turn) (flower.Bouquet, Experiment) {
	queues := q.queues[recipient]
	for _, axis := range flower.Attributes() {
		for i, v := range queues[axis] {
			f := q.controls.Anchor(recipient, axis).With(axis, v)
			if table.Get(f) == 0 {
				var ok bool
				if f, ok = table.FirstWith(axis, v); !ok {
					continue
				}
			}
			if err := table.Decrement(f, 1); err != nil {
				panic(fmt.Sprintf("suitor: queue probe: %v", err))
			}
			queues[axis] = append(queues[axis][:i:i], queues[axis][i+1:]...)
			return flower.BouquetOf(f), experimentFor(axis)
		}
	}
	return table.RandomBouquet(q.rng, flower.MaxBouquetSize), ExperimentNone
}

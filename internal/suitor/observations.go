package suitor

import (
	"sort"

	"github.com/lox/flowersforbots/flower"
)

// Observation is one bouquet handed to a recipient and the score it got.
type Observation struct {
	Round      int
	Bouquet    flower.Bouquet
	Score      float64
	Experiment Experiment
}

// Observations is the append-only feedback log, bucketed per recipient by
// experiment category.
type Observations struct {
	log map[int]map[Experiment][]Observation
}

// NewObservations returns an empty log.
func NewObservations() *Observations {
	return &Observations{log: make(map[int]map[Experiment][]Observation)}
}

// Record appends obs under its experiment category.
func (o *Observations) Record(recipient int, obs Observation) {
	buckets, ok := o.log[recipient]
	if !ok {
		buckets = make(map[Experiment][]Observation)
		o.log[recipient] = buckets
	}
	buckets[obs.Experiment] = append(buckets[obs.Experiment], obs)
}

// For returns a copy of one bucket in arrival order.
func (o *Observations) For(recipient int, e Experiment) []Observation {
	src := o.log[recipient][e]
	out := make([]Observation, len(src))
	copy(out, src)
	return out
}

// Len counts every observation recorded for recipient.
func (o *Observations) Len(recipient int) int {
	n := 0
	for _, bucket := range o.log[recipient] {
		n += len(bucket)
	}
	return n
}

// Ranked merges the tagged buckets and orders them by score, best first,
// keeping arrival order among ties. Untagged observations follow, ranked
// the same way.
func (o *Observations) Ranked(recipient int) []Observation {
	var tagged []Observation
	for _, e := range []Experiment{ExperimentColor, ExperimentType, ExperimentSize} {
		tagged = append(tagged, o.log[recipient][e]...)
	}
	untagged := o.For(recipient, ExperimentNone)

	byScore(tagged)
	byScore(untagged)
	return append(tagged, untagged...)
}

// Best returns the highest scoring observation in Ranked order.
func (o *Observations) Best(recipient int) (Observation, bool) {
	ranked := o.Ranked(recipient)
	if len(ranked) == 0 {
		return Observation{}, false
	}
	best := ranked[0]
	for _, obs := range ranked[1:] {
		if obs.Score > best.Score {
			best = obs
		}
	}
	return best, true
}

// byScore sorts descending by score. Ties keep round order so the result
// does not depend on bucket iteration.
func byScore(obs []Observation) {
	sort.SliceStable(obs, func(i, j int) bool {
		if obs[i].Score != obs[j].Score {
			return obs[i].Score > obs[j].Score
		}
		return obs[i].Round < obs[j].Round
	})
}

// Package inventory turns a round's flower counts into a dense count table
// indexed by color, type and size, so availability can be read and
// decremented in constant time.
package inventory

import (
	"errors"
	"fmt"
	rand "math/rand/v2"

	"github.com/lox/flowersforbots/flower"
	"github.com/lox/flowersforbots/internal/randutil"
)

// ErrInsufficient is returned when a decrement would drive a cell negative.
var ErrInsufficient = errors.New("inventory: insufficient flowers")

// Table is the authoritative view of what can still be given away this
// round. The zero value is an empty table.
type Table struct {
	cells [flower.NumColors][flower.NumTypes][flower.NumSizes]int
	total int
}

// Tabulate builds a table from sparse counts.
func Tabulate(counts flower.Counts) (*Table, error) {
	t := &Table{}
	for f, n := range counts {
		if !f.Valid() {
			return nil, fmt.Errorf("inventory: invalid flower %v", f)
		}
		if n < 0 {
			return nil, fmt.Errorf("inventory: negative count %d for %s", n, f)
		}
		t.cells[f.Color][f.Type][f.Size] += n
		t.total += n
	}
	return t, nil
}

// Get returns the available count for f.
func (t *Table) Get(f flower.Flower) int {
	return t.cells[f.Color][f.Type][f.Size]
}

// Total is the number of flowers left.
func (t *Table) Total() int { return t.total }

// Clone returns an independent copy.
func (t *Table) Clone() *Table {
	c := *t
	return &c
}

// Decrement removes n of f. It leaves the table untouched and returns
// ErrInsufficient if fewer than n remain.
func (t *Table) Decrement(f flower.Flower, n int) error {
	if n < 0 {
		return fmt.Errorf("inventory: negative decrement %d for %s", n, f)
	}
	cell := &t.cells[f.Color][f.Type][f.Size]
	if *cell < n {
		return fmt.Errorf("%w: want %d %s, have %d", ErrInsufficient, n, f, *cell)
	}
	*cell -= n
	t.total -= n
	return nil
}

// Contains reports whether every flower of b is available.
func (t *Table) Contains(b flower.Bouquet) bool {
	for _, f := range b.Flowers() {
		if t.Get(f) < b.Count(f) {
			return false
		}
	}
	return true
}

// Take removes a whole bouquet, or nothing if any category is short.
func (t *Table) Take(b flower.Bouquet) error {
	if !t.Contains(b) {
		return fmt.Errorf("%w: cannot take %s", ErrInsufficient, b)
	}
	for _, f := range b.Flowers() {
		if err := t.Decrement(f, b.Count(f)); err != nil {
			return err
		}
	}
	return nil
}

// Categories lists the non-empty cells as sparse counts.
func (t *Table) Categories() flower.Counts {
	out := make(flower.Counts)
	t.each(func(f flower.Flower, n int) {
		out[f] = n
	})
	return out
}

// Slice returns the counts for every value of axis, with the other two
// attributes taken from anchor.
func (t *Table) Slice(axis flower.Attribute, anchor flower.Flower) []int {
	out := make([]int, axis.Cardinality())
	for v := range out {
		out[v] = t.Get(anchor.With(axis, v))
	}
	return out
}

// FirstWith returns the first available flower, in index order, whose
// value on axis is v.
func (t *Table) FirstWith(axis flower.Attribute, v int) (flower.Flower, bool) {
	for i := range flower.NumCategories {
		f := flower.FromIndex(i)
		if f.Value(axis) == v && t.Get(f) > 0 {
			return f, true
		}
	}
	return flower.Flower{}, false
}

// RandomBouquet removes a uniformly sized random bouquet of at most max
// flowers, drawn without replacement from the remaining multiset.
func (t *Table) RandomBouquet(rng *rand.Rand, max int) flower.Bouquet {
	limit := min(max, t.total)
	if limit <= 0 {
		return flower.Bouquet{}
	}
	return t.sample(rng, rng.IntN(limit+1))
}

func (t *Table) sample(rng *rand.Rand, n int) flower.Bouquet {
	flat := t.flatten()
	counts := make(map[flower.Flower]int, n)
	for _, i := range randutil.Sample(rng, len(flat), n) {
		counts[flat[i]]++
	}
	b := flower.NewBouquet(counts)
	if err := t.Take(b); err != nil {
		panic(fmt.Sprintf("inventory: sampled bouquet not in table: %v", err))
	}
	return b
}

func (t *Table) flatten() []flower.Flower {
	flat := make([]flower.Flower, 0, t.total)
	t.each(func(f flower.Flower, n int) {
		for range n {
			flat = append(flat, f)
		}
	})
	return flat
}

func (t *Table) each(fn func(flower.Flower, int)) {
	for i := range flower.NumCategories {
		f := flower.FromIndex(i)
		if n := t.Get(f); n > 0 {
			fn(f, n)
		}
	}
}

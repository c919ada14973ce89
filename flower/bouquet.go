package flower

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Bouquet is an immutable multiset of flowers. The zero value is an empty
// bouquet.
type Bouquet struct {
	counts map[Flower]int
	size   int
}

// NewBouquet copies counts into a bouquet, dropping non-positive entries.
func NewBouquet(counts map[Flower]int) Bouquet {
	b := Bouquet{counts: make(map[Flower]int, len(counts))}
	for f, n := range counts {
		if n <= 0 {
			continue
		}
		b.counts[f] = n
		b.size += n
	}
	return b
}

// BouquetOf builds a bouquet holding one of each listed flower, repeats
// included.
func BouquetOf(flowers ...Flower) Bouquet {
	counts := make(map[Flower]int, len(flowers))
	for _, f := range flowers {
		counts[f]++
	}
	return NewBouquet(counts)
}

// Len is the total number of flowers.
func (b Bouquet) Len() int { return b.size }

// IsEmpty reports whether the bouquet holds no flowers.
func (b Bouquet) IsEmpty() bool { return b.size == 0 }

// Count returns how many of f the bouquet holds.
func (b Bouquet) Count(f Flower) int { return b.counts[f] }

// Counts returns a copy of the underlying category counts.
func (b Bouquet) Counts() Counts {
	out := make(Counts, len(b.counts))
	for f, n := range b.counts {
		out[f] = n
	}
	return out
}

// Flowers returns the distinct flowers in index order.
func (b Bouquet) Flowers() []Flower {
	out := make([]Flower, 0, len(b.counts))
	for f := range b.counts {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index() < out[j].Index() })
	return out
}

// Sizes returns the count of flowers per size.
func (b Bouquet) Sizes() map[Size]int {
	out := make(map[Size]int)
	for f, n := range b.counts {
		out[f.Size] += n
	}
	return out
}

// Colors returns the count of flowers per color.
func (b Bouquet) Colors() map[Color]int {
	out := make(map[Color]int)
	for f, n := range b.counts {
		out[f.Color] += n
	}
	return out
}

// Types returns the count of flowers per type.
func (b Bouquet) Types() map[Type]int {
	out := make(map[Type]int)
	for f, n := range b.counts {
		out[f.Type] += n
	}
	return out
}

// Vector returns the per-value counts along one axis.
func (b Bouquet) Vector(a Attribute) []int {
	out := make([]int, a.Cardinality())
	for f, n := range b.counts {
		out[f.Value(a)] += n
	}
	return out
}

// Equal reports whether both bouquets hold the same flowers.
func (b Bouquet) Equal(o Bouquet) bool {
	if b.size != o.size || len(b.counts) != len(o.counts) {
		return false
	}
	for f, n := range b.counts {
		if o.counts[f] != n {
			return false
		}
	}
	return true
}

// Strings renders each distinct flower as "flower" or "flowerxN".
func (b Bouquet) Strings() []string {
	flowers := b.Flowers()
	out := make([]string, 0, len(flowers))
	for _, f := range flowers {
		if n := b.counts[f]; n > 1 {
			out = append(out, f.String()+"x"+strconv.Itoa(n))
		} else {
			out = append(out, f.String())
		}
	}
	return out
}

func (b Bouquet) String() string {
	if b.size == 0 {
		return "{}"
	}
	return "{" + strings.Join(b.Strings(), " ") + "}"
}

// ParseBouquet reads the format produced by Bouquet.Strings.
func ParseBouquet(items []string) (Bouquet, error) {
	counts := make(map[Flower]int, len(items))
	for _, item := range items {
		name, n := item, 1
		if i := strings.LastIndex(item, "x"); i > 0 {
			if v, err := strconv.Atoi(item[i+1:]); err == nil {
				name, n = item[:i], v
			}
		}
		f, err := Parse(name)
		if err != nil {
			return Bouquet{}, err
		}
		if n <= 0 {
			return Bouquet{}, fmt.Errorf("bouquet item %q: count must be positive", item)
		}
		counts[f] += n
	}
	return NewBouquet(counts), nil
}

// Counts maps each flower to how many are available.
type Counts map[Flower]int

// Total sums every count.
func (c Counts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Clone returns an independent copy.
func (c Counts) Clone() Counts {
	out := make(Counts, len(c))
	for f, n := range c {
		out[f] = n
	}
	return out
}

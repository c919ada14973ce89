package preference

import (
	rand "math/rand/v2"

	"github.com/lox/flowersforbots/flower"
)

// Weighted assigns every attribute value a distinct weight in 0..n-1 and
// scores an axis as the bouquet's mean weight divided by the largest
// weight.
type Weighted struct {
	sizes  []int
	colors []int
	types  []int
}

// NewWeighted shuffles the weights of every axis.
func NewWeighted(rng *rand.Rand) *Weighted {
	return &Weighted{
		sizes:  rng.Perm(flower.NumSizes),
		colors: rng.Perm(flower.NumColors),
		types:  rng.Perm(flower.NumTypes),
	}
}

func (m *Weighted) ScoreSizes(sizes map[flower.Size]int) float64 {
	return meanWeight(sizeVector(sizes), m.sizes)
}

func (m *Weighted) ScoreColors(colors map[flower.Color]int) float64 {
	return meanWeight(colorVector(colors), m.colors)
}

func (m *Weighted) ScoreTypes(types map[flower.Type]int) float64 {
	return meanWeight(typeVector(types), m.types)
}

func meanWeight(counts, weights []int) float64 {
	total, sum := 0, 0
	for v, n := range counts {
		total += n
		sum += n * weights[v]
	}
	if total == 0 {
		return 0
	}
	return float64(sum) / float64(total*(len(weights)-1))
}

// OneScore is a single flower carrying the top-weighted value of each axis.
func (m *Weighted) OneScore() flower.Bouquet {
	return flower.BouquetOf(flower.New(
		flower.Size(indexOf(m.sizes, flower.NumSizes-1)),
		flower.Color(indexOf(m.colors, flower.NumColors-1)),
		flower.Type(indexOf(m.types, flower.NumTypes-1)),
	))
}

// ZeroScore is a single flower carrying the zero-weighted value of each axis.
func (m *Weighted) ZeroScore() flower.Bouquet {
	return flower.BouquetOf(flower.New(
		flower.Size(indexOf(m.sizes, 0)),
		flower.Color(indexOf(m.colors, 0)),
		flower.Type(indexOf(m.types, 0)),
	))
}

func indexOf(weights []int, w int) int {
	for i, x := range weights {
		if x == w {
			return i
		}
	}
	return 0
}

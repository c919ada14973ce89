package preference

import (
	"math"
	rand "math/rand/v2"

	"github.com/lox/flowersforbots/flower"
)

// Distance scores an axis by how close the bouquet's count vector is to a
// private best arrangement: 1/(d+1) for Euclidean distance d, floored to 0
// once d reaches the distance between a bouquet of MaxBouquetSize flowers
// on one value and the most even split. No bouquet is further from any
// arrangement than that cutoff allows, so a zero-scoring bouquet always
// exists.
type Distance struct {
	best    flower.Bouquet
	sizes   []int
	colors  []int
	types   []int
	cutoffs [3]int
}

// NewDistance draws a random best arrangement of 1..MaxBouquetSize flowers.
func NewDistance(rng *rand.Rand) *Distance {
	return NewDistanceFrom(flower.RandomBouquet(rng))
}

// NewDistanceFrom uses best as the private arrangement. best must hold
// between 1 and MaxBouquetSize flowers.
func NewDistanceFrom(best flower.Bouquet) *Distance {
	return &Distance{
		best:   best,
		sizes:  best.Vector(flower.AttrSize),
		colors: best.Vector(flower.AttrColor),
		types:  best.Vector(flower.AttrType),
		cutoffs: [3]int{
			flower.AttrColor: cutoff(flower.NumColors),
			flower.AttrType:  cutoff(flower.NumTypes),
			flower.AttrSize:  cutoff(flower.NumSizes),
		},
	}
}

// cutoff is the squared distance between (MaxBouquetSize, 0, ...) and the
// most even split of MaxBouquetSize over n values.
func cutoff(n int) int {
	even := flower.MaxBouquetSize / n
	d := flower.MaxBouquetSize - even
	return d*d + (n-1)*even*even
}

func (m *Distance) ScoreSizes(sizes map[flower.Size]int) float64 {
	return m.score(sizeVector(sizes), m.sizes, m.cutoffs[flower.AttrSize])
}

func (m *Distance) ScoreColors(colors map[flower.Color]int) float64 {
	return m.score(colorVector(colors), m.colors, m.cutoffs[flower.AttrColor])
}

func (m *Distance) ScoreTypes(types map[flower.Type]int) float64 {
	return m.score(typeVector(types), m.types, m.cutoffs[flower.AttrType])
}

func (m *Distance) score(v, best []int, cutoff int) float64 {
	d2 := 0
	for i := range v {
		diff := v[i] - best[i]
		d2 += diff * diff
	}
	if d2 >= cutoff {
		return 0
	}
	return 1 / (math.Sqrt(float64(d2)) + 1)
}

// OneScore returns the best arrangement itself.
func (m *Distance) OneScore() flower.Bouquet { return m.best }

// ZeroScore returns MaxBouquetSize copies of the flower whose every
// attribute is the value least present in the best arrangement.
func (m *Distance) ZeroScore() flower.Bouquet {
	worst := flower.New(
		flower.Size(argmin(m.sizes)),
		flower.Color(argmin(m.colors)),
		flower.Type(argmin(m.types)),
	)
	return flower.NewBouquet(map[flower.Flower]int{worst: flower.MaxBouquetSize})
}

// argmin returns the lowest index holding the minimum value.
func argmin(v []int) int {
	best := 0
	for i := 1; i < len(v); i++ {
		if v[i] < v[best] {
			best = i
		}
	}
	return best
}

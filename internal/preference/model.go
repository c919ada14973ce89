// Package preference holds a suitor's private scoring surface. It is used
// only to answer self-evaluation queries: how the suitor would score a
// bouquet handed to it, and which bouquets it would score 0 and 1.
package preference

import "github.com/lox/flowersforbots/flower"

// Model scores each attribute of a bouquet in [0, 1].
type Model interface {
	ScoreSizes(sizes map[flower.Size]int) float64
	ScoreColors(colors map[flower.Color]int) float64
	ScoreTypes(types map[flower.Type]int) float64

	// ZeroScore returns a bouquet that scores exactly 0 on every axis.
	ZeroScore() flower.Bouquet
	// OneScore returns a bouquet that scores exactly 1 on every axis.
	OneScore() flower.Bouquet
}

// Score is the mean of the three axis scores.
func Score(m Model, b flower.Bouquet) float64 {
	return (m.ScoreColors(b.Colors()) + m.ScoreTypes(b.Types()) + m.ScoreSizes(b.Sizes())) / 3
}

// Breakdown holds each axis score of one bouquet.
type Breakdown struct {
	Colors float64
	Types  float64
	Sizes  float64
}

// Explain scores each axis of b separately.
func Explain(m Model, b flower.Bouquet) Breakdown {
	return Breakdown{
		Colors: m.ScoreColors(b.Colors()),
		Types:  m.ScoreTypes(b.Types()),
		Sizes:  m.ScoreSizes(b.Sizes()),
	}
}

func sizeVector(sizes map[flower.Size]int) []int {
	v := make([]int, flower.NumSizes)
	for s, n := range sizes {
		if int(s) < flower.NumSizes {
			v[s] += n
		}
	}
	return v
}

func colorVector(colors map[flower.Color]int) []int {
	v := make([]int, flower.NumColors)
	for c, n := range colors {
		if int(c) < flower.NumColors {
			v[c] += n
		}
	}
	return v
}

func typeVector(types map[flower.Type]int) []int {
	v := make([]int, flower.NumTypes)
	for ty, n := range types {
		if int(ty) < flower.NumTypes {
			v[ty] += n
		}
	}
	return v
}

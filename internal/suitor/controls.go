package suitor

import (
	rand "math/rand/v2"

	"github.com/lox/flowersforbots/flower"
)

// Controls holds, per recipient, one anchor flower per experiment axis.
// While probing an axis the anchor's other two attributes stay fixed and
// only the probed attribute varies.
type Controls map[int][3]flower.Flower

// Anchor returns the recipient's anchor for axis.
func (c Controls) Anchor(recipient int, axis flower.Attribute) flower.Flower {
	return c[recipient][axis]
}

// AssignControls shuffles every combination of the two held attributes and
// deals them round-robin over recipients, so recipients get different
// fixed settings instead of identical controls.
func AssignControls(recipients []int, rng *rand.Rand) Controls {
	controls := make(Controls, len(recipients))
	for _, axis := range flower.Attributes() {
		combos := anchorsFor(axis)
		rng.Shuffle(len(combos), func(i, j int) { combos[i], combos[j] = combos[j], combos[i] })
		for i, r := range recipients {
			anchors := controls[r]
			anchors[axis] = combos[i%len(combos)]
			controls[r] = anchors
		}
	}
	return controls
}

// anchorsFor lists every combination of the attributes other than axis,
// with axis itself left at its first value.
func anchorsFor(axis flower.Attribute) []flower.Flower {
	var out []flower.Flower
	for i := range flower.NumCategories {
		f := flower.FromIndex(i)
		if f.Value(axis) == 0 {
			out = append(out, f)
		}
	}
	return out
}

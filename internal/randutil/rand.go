// Package randutil centralises how seeded random sources are built so that
// games, suitors and tests replay identically for a given seed.
package randutil

import rand "math/rand/v2"

const goldenRatio64 = 0x9e3779b97f4a7c15

// New returns a *rand.Rand seeded deterministically from seed.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// Child derives an independent generator for a numbered participant, so
// adding a suitor does not shift the sequence seen by the others.
func Child(seed int64, stream int) *rand.Rand {
	return New(int64(mix(uint64(seed) ^ mix(uint64(stream)+goldenRatio64))))
}

// Seed draws a fresh int64 seed from rng.
func Seed(rng *rand.Rand) int64 {
	return int64(rng.Uint64() >> 1)
}

// Sample returns k distinct indices from [0, n) using a partial
// Fisher-Yates shuffle. k is clamped to n.
func Sample(rng *rand.Rand, n, k int) []int {
	if k > n {
		k = n
	}
	if k <= 0 {
		return nil
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	for i := 0; i < k; i++ {
		j := i + rng.IntN(n-i)
		idx[i], idx[j] = idx[j], idx[i]
	}
	return idx[:k]
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}

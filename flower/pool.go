package flower

import rand "math/rand/v2"

// Random draws a flower with every attribute uniform.
func Random(rng *rand.Rand) Flower {
	return Flower{
		Size:  Size(rng.IntN(NumSizes)),
		Color: Color(rng.IntN(NumColors)),
		Type:  Type(rng.IntN(NumTypes)),
	}
}

// RandomPool draws n flowers independently and returns their counts.
func RandomPool(rng *rand.Rand, n int) Counts {
	pool := make(Counts)
	for range n {
		pool[Random(rng)]++
	}
	return pool
}

// RandomBouquet returns a bouquet of 1..MaxBouquetSize random flowers.
func RandomBouquet(rng *rand.Rand) Bouquet {
	return NewBouquet(RandomPool(rng, 1+rng.IntN(MaxBouquetSize)))
}

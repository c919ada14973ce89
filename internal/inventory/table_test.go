package inventory

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/flowersforbots/flower"
	"github.com/lox/flowersforbots/internal/randutil"
)

var (
	redRoseSmall  = flower.New(flower.Small, flower.Red, flower.Rose)
	blueRoseSmall = flower.New(flower.Small, flower.Blue, flower.Rose)
	redTulipLarge = flower.New(flower.Large, flower.Red, flower.Tulip)
)

func TestTabulateRoundTrip(t *testing.T) {
	counts := flower.Counts{
		redRoseSmall:  5,
		blueRoseSmall: 2,
		redTulipLarge: 0,
	}

	table, err := Tabulate(counts)
	require.NoError(t, err)
	assert.Equal(t, 7, table.Total())

	got := table.Categories()
	assert.Equal(t, flower.Counts{redRoseSmall: 5, blueRoseSmall: 2}, got)
}

func TestTabulateRoundTripRandomPools(t *testing.T) {
	rng := randutil.New(11)
	for range 50 {
		pool := flower.RandomPool(rng, rng.IntN(60))
		table, err := Tabulate(pool)
		require.NoError(t, err)
		require.Equal(t, pool, table.Categories())
		require.Equal(t, pool.Total(), table.Total())
	}
}

func TestTabulateRejectsNegative(t *testing.T) {
	_, err := Tabulate(flower.Counts{redRoseSmall: -1})
	assert.Error(t, err)

	_, err = Tabulate(flower.Counts{{Size: 9}: 1})
	assert.Error(t, err)
}

func TestDecrement(t *testing.T) {
	table, err := Tabulate(flower.Counts{redRoseSmall: 2})
	require.NoError(t, err)

	require.NoError(t, table.Decrement(redRoseSmall, 1))
	assert.Equal(t, 1, table.Get(redRoseSmall))

	err = table.Decrement(redRoseSmall, 2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInsufficient))
	assert.Equal(t, 1, table.Get(redRoseSmall), "failed decrement must not mutate")
	assert.Equal(t, 1, table.Total())

	assert.Error(t, table.Decrement(redRoseSmall, -1))
}

func TestTakeIsAllOrNothing(t *testing.T) {
	table, err := Tabulate(flower.Counts{redRoseSmall: 2, blueRoseSmall: 1})
	require.NoError(t, err)

	b := flower.NewBouquet(map[flower.Flower]int{redRoseSmall: 1, blueRoseSmall: 2})
	assert.False(t, table.Contains(b))
	require.ErrorIs(t, table.Take(b), ErrInsufficient)
	assert.Equal(t, 2, table.Get(redRoseSmall))
	assert.Equal(t, 1, table.Get(blueRoseSmall))

	ok := flower.NewBouquet(map[flower.Flower]int{redRoseSmall: 2, blueRoseSmall: 1})
	require.NoError(t, table.Take(ok))
	assert.Equal(t, 0, table.Total())
	assert.Empty(t, table.Categories())
}

func TestSlice(t *testing.T) {
	table, err := Tabulate(flower.Counts{redRoseSmall: 5, blueRoseSmall: 2, redTulipLarge: 3})
	require.NoError(t, err)

	colors := table.Slice(flower.AttrColor, redRoseSmall)
	assert.Equal(t, []int{0, 0, 5, 0, 0, 2}, colors)

	types := table.Slice(flower.AttrType, redTulipLarge)
	assert.Equal(t, []int{0, 0, 3, 0}, types)

	sizes := table.Slice(flower.AttrSize, redRoseSmall)
	assert.Equal(t, []int{5, 0, 0}, sizes)
}

func TestFirstWith(t *testing.T) {
	table, err := Tabulate(flower.Counts{blueRoseSmall: 1, redTulipLarge: 1})
	require.NoError(t, err)

	f, ok := table.FirstWith(flower.AttrColor, int(flower.Blue))
	require.True(t, ok)
	assert.Equal(t, blueRoseSmall, f)

	f, ok = table.FirstWith(flower.AttrSize, int(flower.Large))
	require.True(t, ok)
	assert.Equal(t, redTulipLarge, f)

	_, ok = table.FirstWith(flower.AttrType, int(flower.Begonia))
	assert.False(t, ok)
}

func TestRandomBouquet(t *testing.T) {
	rng := randutil.New(3)
	for range 100 {
		pool := flower.RandomPool(rng, rng.IntN(40))
		table, err := Tabulate(pool)
		require.NoError(t, err)
		before := table.Clone()

		b := table.RandomBouquet(rng, flower.MaxBouquetSize)
		require.LessOrEqual(t, b.Len(), flower.MaxBouquetSize)
		require.LessOrEqual(t, b.Len(), before.Total())
		require.True(t, before.Contains(b))
		require.Equal(t, before.Total()-b.Len(), table.Total())
		for _, f := range b.Flowers() {
			require.Equal(t, before.Get(f)-b.Count(f), table.Get(f))
		}
	}
}

func TestRandomBouquetEmptyTable(t *testing.T) {
	table := &Table{}
	b := table.RandomBouquet(randutil.New(1), flower.MaxBouquetSize)
	assert.True(t, b.IsEmpty())
}

func TestRandomBouquetDeterministic(t *testing.T) {
	pool := flower.Counts{redRoseSmall: 4, blueRoseSmall: 4, redTulipLarge: 4}
	a, _ := Tabulate(pool)
	b, _ := Tabulate(pool)

	assert.True(t, a.RandomBouquet(randutil.New(8), 6).Equal(b.RandomBouquet(randutil.New(8), 6)))
}

package suitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/flowersforbots/flower"
	"github.com/lox/flowersforbots/internal/inventory"
	"github.com/lox/flowersforbots/internal/randutil"
)

func newTestSelector(obs *Observations, order ExploitOrder) *selector {
	return &selector{observations: obs, order: order, rng: randutil.New(1), logger: testLogger()}
}

func mustTable(t *testing.T, counts flower.Counts) *inventory.Table {
	t.Helper()
	table, err := inventory.Tabulate(counts)
	require.NoError(t, err)
	return table
}

func TestParseExploitOrder(t *testing.T) {
	tests := []struct {
		in      string
		want    ExploitOrder
		wantErr bool
	}{
		{in: "", want: OrderInsertion},
		{in: "insertion", want: OrderInsertion},
		{in: "best-score", want: OrderBestScore},
		{in: "random", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseExploitOrder(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestRankedPutsTaggedFirst(t *testing.T) {
	obs := NewObservations()
	obs.Record(1, Observation{Round: 1, Score: 0.9, Experiment: ExperimentNone})
	obs.Record(1, Observation{Round: 2, Score: 0.2, Experiment: ExperimentColor})
	obs.Record(1, Observation{Round: 3, Score: 0.6, Experiment: ExperimentType})
	obs.Record(1, Observation{Round: 4, Score: 0.6, Experiment: ExperimentColor})
	obs.Record(1, Observation{Round: 5, Score: 0.4, Experiment: ExperimentNone})

	var rounds []int
	for _, o := range obs.Ranked(1) {
		rounds = append(rounds, o.Round)
	}
	assert.Equal(t, []int{3, 4, 2, 1, 5}, rounds)

	best, ok := obs.Best(1)
	require.True(t, ok)
	assert.Equal(t, 1, best.Round)

	_, ok = obs.Best(2)
	assert.False(t, ok)
	assert.Empty(t, obs.Ranked(2))
}

func TestSelectorPicksBestFeasible(t *testing.T) {
	big := flower.NewBouquet(map[flower.Flower]int{redRoseSmall: 4})
	small := flower.BouquetOf(redRoseSmall)

	obs := NewObservations()
	obs.Record(1, Observation{Round: 1, Bouquet: big, Score: 0.9, Experiment: ExperimentColor})
	obs.Record(1, Observation{Round: 2, Bouquet: small, Score: 0.5, Experiment: ExperimentColor})

	table := mustTable(t, flower.Counts{redRoseSmall: 2})
	got := newTestSelector(obs, OrderInsertion).selectAll([]int{1}, table)
	require.Len(t, got, 1)
	assert.True(t, got[0].reused)
	assert.True(t, got[0].bouquet.Equal(small))
	assert.Equal(t, 1, table.Total())
}

func TestSelectorSkipsEmptyObservations(t *testing.T) {
	obs := NewObservations()
	obs.Record(1, Observation{Round: 1, Bouquet: flower.Bouquet{}, Score: 1, Experiment: ExperimentNone})

	table := mustTable(t, flower.Counts{})
	got := newTestSelector(obs, OrderInsertion).selectAll([]int{1}, table)
	require.Len(t, got, 1)
	assert.False(t, got[0].reused)
	assert.True(t, got[0].bouquet.IsEmpty())
}

func TestSelectorSharedTopBouquet(t *testing.T) {
	shared := flower.NewBouquet(map[flower.Flower]int{redRoseSmall: 2, blueRoseSmall: 1})

	obs := NewObservations()
	obs.Record(1, Observation{Round: 1, Bouquet: shared, Score: 0.7, Experiment: ExperimentColor})
	obs.Record(2, Observation{Round: 1, Bouquet: shared, Score: 0.8, Experiment: ExperimentColor})

	t.Run("insertion", func(t *testing.T) {
		table := mustTable(t, flower.Counts{redRoseSmall: 2, blueRoseSmall: 1})
		got := newTestSelector(obs, OrderInsertion).selectAll([]int{1, 2}, table)
		require.Len(t, got, 2)

		assert.Equal(t, 1, got[0].recipient)
		assert.True(t, got[0].reused)
		assert.True(t, got[0].bouquet.Equal(shared))

		assert.Equal(t, 2, got[1].recipient)
		assert.False(t, got[1].reused)
		assert.True(t, got[1].bouquet.IsEmpty(), "nothing left for the second recipient")
	})

	t.Run("best-score", func(t *testing.T) {
		table := mustTable(t, flower.Counts{redRoseSmall: 2, blueRoseSmall: 1})
		got := newTestSelector(obs, OrderBestScore).selectAll([]int{1, 2}, table)
		require.Len(t, got, 2)

		assert.Equal(t, 2, got[0].recipient)
		assert.True(t, got[0].reused)
		assert.Equal(t, 1, got[1].recipient)
		assert.False(t, got[1].reused)
	})
}

func TestAgentFinalRoundReusesObservation(t *testing.T) {
	a, err := NewQueue(testConfig(2, 3, 21))
	require.NoError(t, err)

	counts := flower.Counts{redRoseSmall: 1, blueRoseSmall: 1}
	gifts := a.PrepareBouquets(counts)
	require.Len(t, gifts, 2)
	a.ReceiveFeedback(Feedback{1: {Rank: 1, Score: 0.9}, 2: {Rank: 2, Score: 0.1}})

	final := a.PrepareBouquets(counts)
	require.Len(t, final, 2)
	assert.True(t, final[0].Bouquet.Equal(gifts[0].Bouquet), "recipient 1 gets its scored bouquet back")
	assert.True(t, final[1].Bouquet.Equal(gifts[1].Bouquet), "recipient 2 gets its scored bouquet back")
}

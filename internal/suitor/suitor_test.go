package suitor

import (
	"io"
	"math"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/flowersforbots/flower"
	"github.com/lox/flowersforbots/internal/inventory"
	"github.com/lox/flowersforbots/internal/randutil"
)

var (
	redRoseSmall  = flower.New(flower.Small, flower.Red, flower.Rose)
	blueRoseSmall = flower.New(flower.Small, flower.Blue, flower.Rose)
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.DebugLevel})
}

func testConfig(days, suitors int, seed int64) Config {
	return Config{
		Days:    days,
		Suitors: suitors,
		ID:      0,
		Rand:    randutil.New(seed),
		Logger:  testLogger(),
	}
}

// checkGifts asserts the per-round contract: one gift per recipient in id
// order, size cap respected, and no category over-allocated.
func checkGifts(t *testing.T, s Strategy, suitors int, counts flower.Counts, gifts []Gift) {
	t.Helper()
	require.Len(t, gifts, suitors-1)

	used := make(flower.Counts)
	want := 0
	for _, g := range gifts {
		if want == s.ID() {
			want++
		}
		require.Equal(t, s.ID(), g.From)
		require.Equal(t, want, g.To)
		want++

		require.LessOrEqual(t, g.Bouquet.Len(), flower.MaxBouquetSize)
		for _, f := range g.Bouquet.Flowers() {
			used[f] += g.Bouquet.Count(f)
		}
	}
	for f, n := range used {
		require.LessOrEqual(t, n, counts[f], "over-allocated %s", f)
	}
}

func TestPhaseFor(t *testing.T) {
	tests := []struct {
		remaining, total int
		want             Phase
	}{
		{remaining: 2, total: 3, want: PhaseColor},
		{remaining: 1, total: 3, want: PhaseType},
		{remaining: 0, total: 3, want: PhaseFinal},
		{remaining: 9, total: 10, want: PhaseColor},
		{remaining: 7, total: 10, want: PhaseColor},
		{remaining: 6, total: 10, want: PhaseType},
		{remaining: 4, total: 10, want: PhaseType},
		{remaining: 3, total: 10, want: PhaseSize},
		{remaining: 1, total: 10, want: PhaseSize},
		{remaining: -1, total: 10, want: PhaseFinal},
		{remaining: 0, total: 1, want: PhaseFinal},
		{remaining: -1, total: 0, want: PhaseFinal},
		{remaining: 5, total: 0, want: PhaseFinal},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, PhaseFor(tt.remaining, tt.total), "remaining=%d total=%d", tt.remaining, tt.total)
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		got, err := ParseKind(string(k))
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := ParseKind("greedy")
	assert.Error(t, err)

	_, err = New("greedy", testConfig(3, 3, 1))
	assert.Error(t, err)
}

func TestConfigValidation(t *testing.T) {
	_, err := NewQueue(Config{Suitors: 0})
	assert.Error(t, err)

	_, err = NewPhased(Config{Suitors: 3, ID: 3})
	assert.Error(t, err)

	_, err = NewQueue(Config{Suitors: 3, ExploitOrder: "alphabetical"})
	assert.Error(t, err)

	s, err := New(KindPhased, Config{Suitors: 2, ID: 1, Days: -4})
	require.NoError(t, err)
	assert.Equal(t, "phased", s.Name())
	assert.Equal(t, 1, s.ID())
}

func TestAssignControls(t *testing.T) {
	recipients := []int{1, 2, 3, 4}
	controls := AssignControls(recipients, randutil.New(4))
	require.Len(t, controls, len(recipients))

	for _, axis := range flower.Attributes() {
		seen := make(map[flower.Flower]bool)
		for _, r := range recipients {
			anchor := controls.Anchor(r, axis)
			require.True(t, anchor.Valid())
			require.Equal(t, 0, anchor.Value(axis))
			require.False(t, seen[anchor], "recipients share a %s control", axis)
			seen[anchor] = true
		}
	}
}

func TestAssignControlsWrapsRoundRobin(t *testing.T) {
	recipients := make([]int, 13)
	for i := range recipients {
		recipients[i] = i + 1
	}
	controls := AssignControls(recipients, randutil.New(9))

	// Twelve type/size combinations exist for the color axis.
	assert.Equal(t, controls.Anchor(1, flower.AttrColor), controls.Anchor(13, flower.AttrColor))
}

func TestStrategiesRespectInventory(t *testing.T) {
	for _, kind := range Kinds() {
		t.Run(string(kind), func(t *testing.T) {
			for seed := int64(0); seed < 20; seed++ {
				days := int(seed%7) + 1
				suitors := int(seed%4) + 2
				cfg := testConfig(days, suitors, seed)
				s, err := New(kind, cfg)
				require.NoError(t, err)

				rng := randutil.New(seed + 100)
				for round := range days + 1 {
					counts := flower.RandomPool(rng, rng.IntN(30))
					gifts := s.PrepareBouquets(counts)
					checkGifts(t, s, suitors, counts, gifts)

					fb := make(Feedback)
					for i, g := range gifts {
						fb[g.To] = Reaction{Rank: i + 1, Score: float64(round) / 10}
					}
					s.ReceiveFeedback(fb)
				}
			}
		})
	}
}

func TestQueueTestsEachValueOnce(t *testing.T) {
	a, err := NewQueue(testConfig(60, 3, 5))
	require.NoError(t, err)

	rng := randutil.New(6)
	tested := make(map[int]map[Experiment]map[int]int)
	for range 40 {
		counts := flower.RandomPool(rng, 30)
		for _, g := range a.PrepareBouquets(counts) {
			d := a.pending[g.To]
			if d.experiment == ExperimentNone {
				continue
			}
			require.Equal(t, 1, g.Bouquet.Len(), "queue probes hold one flower")
			axis := map[Experiment]flower.Attribute{
				ExperimentColor: flower.AttrColor,
				ExperimentType:  flower.AttrType,
				ExperimentSize:  flower.AttrSize,
			}[d.experiment]
			v := g.Bouquet.Flowers()[0].Value(axis)

			if tested[g.To] == nil {
				tested[g.To] = make(map[Experiment]map[int]int)
			}
			if tested[g.To][d.experiment] == nil {
				tested[g.To][d.experiment] = make(map[int]int)
			}
			tested[g.To][d.experiment][v]++
			require.Equal(t, 1, tested[g.To][d.experiment][v], "value %d of %s probed twice", v, d.experiment)
			require.NotContains(t, a.Untested(g.To, axis), v)
		}
	}

	// 6 colors + 4 types + 3 sizes is 13 probes per recipient.
	for _, r := range a.recipients {
		for _, axis := range flower.Attributes() {
			assert.Empty(t, a.Untested(r, axis), "recipient %d axis %s", r, axis)
		}
	}
}

func TestQueueOrderColorFirst(t *testing.T) {
	a, err := NewQueue(testConfig(10, 2, 1))
	require.NoError(t, err)

	gifts := a.PrepareBouquets(flower.Counts{redRoseSmall: 1})
	require.Len(t, gifts, 1)
	assert.True(t, gifts[0].Bouquet.Equal(flower.BouquetOf(redRoseSmall)))
	assert.Equal(t, ExperimentColor, a.pending[1].experiment)
	assert.NotContains(t, a.Untested(1, flower.AttrColor), int(flower.Red))
	assert.Len(t, a.Untested(1, flower.AttrColor), flower.NumColors-1)

	// Red is spent, so the only stocked flower must probe its type.
	gifts = a.PrepareBouquets(flower.Counts{redRoseSmall: 1})
	assert.True(t, gifts[0].Bouquet.Equal(flower.BouquetOf(redRoseSmall)))
	assert.Equal(t, ExperimentType, a.pending[1].experiment)

	gifts = a.PrepareBouquets(flower.Counts{redRoseSmall: 1})
	assert.Equal(t, ExperimentSize, a.pending[1].experiment)

	// Nothing left to test with this stock: random fallback, untagged.
	gifts = a.PrepareBouquets(flower.Counts{redRoseSmall: 1})
	assert.Equal(t, ExperimentNone, a.pending[1].experiment)
	assert.LessOrEqual(t, gifts[0].Bouquet.Len(), 1)
}

func TestPhasedScenarioSingleCategory(t *testing.T) {
	for seed := int64(0); seed < 30; seed++ {
		a, err := NewPhased(testConfig(3, 3, seed))
		require.NoError(t, err)
		counts := flower.Counts{redRoseSmall: 5}

		// Round 1 is the color phase.
		gifts := a.PrepareBouquets(counts)
		checkGifts(t, a, 3, counts, gifts)
		for _, g := range gifts {
			for _, f := range g.Bouquet.Flowers() {
				require.Equal(t, flower.Rose, f.Type)
				require.Equal(t, flower.Small, f.Size)
			}
			// Only a rose/small control can see stock in its slice.
			if d := a.pending[g.To]; d.experiment != ExperimentNone {
				require.Equal(t, ExperimentColor, d.experiment)
				anchor := a.Controls().Anchor(g.To, flower.AttrColor)
				require.Equal(t, flower.Rose, anchor.Type)
				require.Equal(t, flower.Small, anchor.Size)
			}
		}
		a.ReceiveFeedback(Feedback{1: {Rank: 1, Score: 0.8}, 2: {Rank: 2, Score: 0.3}})

		// Round 2 is the type phase.
		gifts = a.PrepareBouquets(counts)
		checkGifts(t, a, 3, counts, gifts)
		for _, g := range gifts {
			if d := a.pending[g.To]; d.experiment != ExperimentNone {
				require.Equal(t, ExperimentType, d.experiment)
			}
		}
		a.ReceiveFeedback(Feedback{1: {Rank: 2, Score: 0.1}, 2: {Rank: 1, Score: 0.5}})

		// Round 3 is final: best feasible observation, else random.
		gifts = a.PrepareBouquets(counts)
		checkGifts(t, a, 3, counts, gifts)
		assert.Equal(t, 0, a.Remaining())

		table, err := inventory.Tabulate(counts)
		require.NoError(t, err)
		for _, g := range gifts {
			best, ok := firstFeasible(a.Observations().Ranked(g.To), table)
			if ok {
				require.True(t, g.Bouquet.Equal(best.Bouquet), "seed %d recipient %d", seed, g.To)
			}
			require.NoError(t, table.Take(g.Bouquet))
		}
	}
}

func firstFeasible(ranked []Observation, table *inventory.Table) (Observation, bool) {
	for _, obs := range ranked {
		if !obs.Bouquet.IsEmpty() && table.Contains(obs.Bouquet) {
			return obs, true
		}
	}
	return Observation{}, false
}

func TestPhasedProbeStaysInControlSlice(t *testing.T) {
	a, err := NewPhased(testConfig(30, 4, 12))
	require.NoError(t, err)

	rng := randutil.New(13)
	for range 29 {
		counts := flower.RandomPool(rng, 200)
		gifts := a.PrepareBouquets(counts)
		checkGifts(t, a, 4, counts, gifts)
		phase := PhaseFor(a.Remaining(), 30)
		for _, g := range gifts {
			d := a.pending[g.To]
			if d.experiment == ExperimentNone {
				continue
			}
			axis := phase.Attribute()
			require.Equal(t, experimentFor(axis), d.experiment)
			anchor := a.Controls().Anchor(g.To, axis)
			for _, f := range g.Bouquet.Flowers() {
				require.Equal(t, anchor, f.With(axis, 0), "flower %s left the control slice", f)
			}
		}
		a.ReceiveFeedback(Feedback{1: {Score: 0.5}, 2: {Score: 0.5}, 3: {Score: 0.5}})
	}
}

func TestUntaggedFeedbackIsRecorded(t *testing.T) {
	a, err := NewPhased(testConfig(5, 2, 3))
	require.NoError(t, err)

	// No stock at all: the probe degrades to an empty random bouquet.
	gifts := a.PrepareBouquets(flower.Counts{})
	require.Len(t, gifts, 1)
	assert.True(t, gifts[0].Bouquet.IsEmpty())

	require.NotPanics(t, func() {
		a.ReceiveFeedback(Feedback{1: {Rank: 1, Score: 0.25}})
	})
	none := a.Observations().For(1, ExperimentNone)
	require.Len(t, none, 1)
	assert.Equal(t, 0.25, none[0].Score)
	assert.Equal(t, 1, none[0].Round)
}

func TestMalformedFeedbackIsSkipped(t *testing.T) {
	a, err := NewQueue(testConfig(5, 4, 3))
	require.NoError(t, err)

	a.PrepareBouquets(flower.Counts{redRoseSmall: 3, blueRoseSmall: 3})
	require.NotPanics(t, func() {
		a.ReceiveFeedback(Feedback{
			1: {Score: 0.5},
			2: {Score: math.NaN()},
			7: {Score: 0.9},
		})
	})
	assert.Equal(t, 1, a.Observations().Len(1))
	assert.Equal(t, 0, a.Observations().Len(2))
	assert.Equal(t, 0, a.Observations().Len(3))

	// Repeating the same feedback must not double-record.
	a.ReceiveFeedback(Feedback{1: {Score: 0.5}})
	assert.Equal(t, 1, a.Observations().Len(1))

	require.NotPanics(t, func() { a.ReceiveFeedback(nil) })
}

func TestDegenerateConfigurations(t *testing.T) {
	for _, days := range []int{0, 1} {
		for _, kind := range []Kind{KindQueue, KindPhased} {
			s, err := New(kind, testConfig(days, 3, 2))
			require.NoError(t, err)
			counts := flower.Counts{redRoseSmall: 4}
			for range 3 {
				var gifts []Gift
				require.NotPanics(t, func() { gifts = s.PrepareBouquets(counts) })
				checkGifts(t, s, 3, counts, gifts)
				s.ReceiveFeedback(Feedback{1: {Score: 1}, 2: {Score: 0}})
			}
		}
	}

	alone, err := NewPhased(testConfig(3, 1, 1))
	require.NoError(t, err)
	assert.Empty(t, alone.PrepareBouquets(flower.Counts{redRoseSmall: 2}))
	alone.ReceiveFeedback(Feedback{})
}

func TestMalformedCountsGiveEmptyBouquets(t *testing.T) {
	a, err := NewQueue(testConfig(3, 3, 1))
	require.NoError(t, err)

	gifts := a.PrepareBouquets(flower.Counts{redRoseSmall: -2})
	require.Len(t, gifts, 2)
	for _, g := range gifts {
		assert.True(t, g.Bouquet.IsEmpty())
	}
}

func TestSelfEvaluationContract(t *testing.T) {
	for _, kind := range Kinds() {
		s, err := New(kind, testConfig(3, 3, 8))
		require.NoError(t, err)

		one := s.OneScoreBouquet()
		assert.Equal(t, 1.0, s.ScoreColors(one.Colors()), kind)
		assert.Equal(t, 1.0, s.ScoreTypes(one.Types()), kind)
		assert.Equal(t, 1.0, s.ScoreSizes(one.Sizes()), kind)

		zero := s.ZeroScoreBouquet()
		assert.Equal(t, 0.0, s.ScoreColors(zero.Colors()), kind)
		assert.Equal(t, 0.0, s.ScoreTypes(zero.Types()), kind)
		assert.Equal(t, 0.0, s.ScoreSizes(zero.Sizes()), kind)
	}
}

func TestSameSeedSameBouquets(t *testing.T) {
	run := func() []string {
		a, err := NewPhased(testConfig(6, 4, 77))
		require.NoError(t, err)
		rng := randutil.New(78)
		var out []string
		for range 6 {
			for _, g := range a.PrepareBouquets(flower.RandomPool(rng, 40)) {
				out = append(out, g.Bouquet.String())
			}
			a.ReceiveFeedback(Feedback{1: {Score: rng.Float64()}, 2: {Score: rng.Float64()}, 3: {Score: rng.Float64()}})
		}
		return out
	}
	assert.Equal(t, run(), run())
}

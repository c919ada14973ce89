package statistics

import (
	"fmt"
	"math"
	"sort"
)

// GameResult represents one suitor's outcome in a single game
type GameResult struct {
	Strategy  string  // Strategy kind that played the seat
	Seed      int64   // Game seed (for replay)
	Seat      int     // Suitor id within the game
	Final     float64 // Mean score of final-round bouquets
	First     float64 // Mean score of first-round bouquets
	Total     float64 // Sum of every score received over the game
	Placement int     // 1 = highest total in the game, ties share a place
	Rejected  int     // Rounds whose submission was replaced by empty bouquets
}

// Statistics tracks the distribution of final-round scores for one strategy
type Statistics struct {
	Games     int
	SumFinal  float64
	SumFinal2 float64   // Sum of squares for variance calculation
	Values    []float64 // Store all final scores for median/percentile calculation

	// Learning analytics - how much the final round beats the first
	SumFirst      float64
	ImprovedGames int // Games where the final round scored above the first

	SumTotal float64

	// Placement analytics
	Wins       int         // Games placed first (ties included)
	Placements map[int]int // Placement -> games
	Rejected   int         // Rejected submissions across all games
}

// Mean returns the arithmetic mean of final-round scores per game
func (s *Statistics) Mean() float64 {
	if s.Games == 0 {
		return 0
	}
	return s.SumFinal / float64(s.Games)
}

// Variance returns the sample variance of final-round scores
func (s *Statistics) Variance() float64 {
	if s.Games < 2 {
		return 0
	}
	mean := s.Mean()
	v := (s.SumFinal2 - float64(s.Games)*mean*mean) / float64(s.Games-1)
	return math.Max(v, 0)
}

// StdDev returns the sample standard deviation of final-round scores
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Games == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Games))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Add incorporates a new game result into the statistics
func (s *Statistics) Add(result GameResult) {
	s.Games++
	s.SumFinal += result.Final
	s.SumFinal2 += result.Final * result.Final
	s.Values = append(s.Values, result.Final)

	s.SumFirst += result.First
	if result.Final > result.First {
		s.ImprovedGames++
	}
	s.SumTotal += result.Total

	if s.Placements == nil {
		s.Placements = make(map[int]int)
	}
	s.Placements[result.Placement]++
	if result.Placement == 1 {
		s.Wins++
	}
	s.Rejected += result.Rejected
}

// MeanFirst returns the mean first-round score
func (s *Statistics) MeanFirst() float64 {
	if s.Games == 0 {
		return 0
	}
	return s.SumFirst / float64(s.Games)
}

// Improvement returns how much the final round beats the first on average
func (s *Statistics) Improvement() float64 {
	return s.Mean() - s.MeanFirst()
}

// MeanTotal returns the mean cumulative score per game
func (s *Statistics) MeanTotal() float64 {
	if s.Games == 0 {
		return 0
	}
	return s.SumTotal / float64(s.Games)
}

// WinRate returns the fraction of games placed first
func (s *Statistics) WinRate() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Games)
}

// Median returns the median final-round score
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the value at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Validate performs consistency checks on the accumulated data
func (s *Statistics) Validate() error {
	if s.Games <= 0 {
		return fmt.Errorf("invalid games count: %d", s.Games)
	}

	if len(s.Values) != s.Games {
		return fmt.Errorf("values array length (%d) does not match games count (%d)",
			len(s.Values), s.Games)
	}

	if s.Wins > s.Games {
		return fmt.Errorf("wins (%d) exceed games (%d)", s.Wins, s.Games)
	}
	if s.ImprovedGames > s.Games {
		return fmt.Errorf("improved games (%d) exceed games (%d)", s.ImprovedGames, s.Games)
	}

	placed := 0
	for place, n := range s.Placements {
		if place < 1 {
			return fmt.Errorf("invalid placement %d", place)
		}
		placed += n
	}
	if placed != s.Games {
		return fmt.Errorf("placement total (%d) does not match games count (%d)", placed, s.Games)
	}

	for i, v := range s.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("value %d is not finite: %v", i, v)
		}
	}

	return nil
}

// ByStrategy groups statistics per strategy kind
type ByStrategy map[string]*Statistics

// Add files result under its strategy
func (b ByStrategy) Add(result GameResult) {
	s, ok := b[result.Strategy]
	if !ok {
		s = &Statistics{}
		b[result.Strategy] = s
	}
	s.Add(result)
}

// Names returns the strategies in alphabetical order
func (b ByStrategy) Names() []string {
	names := make([]string, 0, len(b))
	for name := range b {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks every strategy's statistics
func (b ByStrategy) Validate() error {
	if len(b) == 0 {
		return fmt.Errorf("no results recorded")
	}
	for _, name := range b.Names() {
		if err := b[name].Validate(); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

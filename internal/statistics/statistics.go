package statistics

import (
	"fmt"
	"math"
	"sort"
)

// Outcome is how a simulated round finished.
type Outcome string

const (
	Won        Outcome = "won"
	Lost       Outcome = "lost"
	Unfinished Outcome = "unfinished" // every ball drawn with no line and no rival bingo
)

// RoundResult represents the outcome of a single simulated round
type RoundResult struct {
	Room    string  // room code, replays the round exactly
	Outcome Outcome // who called bingo
	Draws   int     // balls drawn when the round ended
	Pattern string  // winning line when the player won
	Winner  string  // rival name when a rival won
	Marks   int     // squares daubed, excluding the free square
	Missed  int     // drawn numbers on the card the dauber failed to mark in time
}

// Statistics aggregates simulated rounds
type Statistics struct {
	Rounds     int
	Wins       int
	Losses     int
	Unfinished int

	SumDraws  float64
	SumDraws2 float64   // Sum of squares for variance calculation
	Values    []float64 // Draws per finished round, for median/percentile calculation

	Marks  int
	Missed int

	Patterns   map[string]int // winning line for player wins
	RivalWins  map[string]int // rival name for rival wins
	FastestWin int            // fewest draws in a player win
}

// Add incorporates a round result into the statistics
func (s *Statistics) Add(result RoundResult) {
	if s.Patterns == nil {
		s.Patterns = make(map[string]int)
	}
	if s.RivalWins == nil {
		s.RivalWins = make(map[string]int)
	}

	s.Rounds++
	s.Marks += result.Marks
	s.Missed += result.Missed

	switch result.Outcome {
	case Won:
		s.Wins++
		s.Patterns[result.Pattern]++
		if s.FastestWin == 0 || result.Draws < s.FastestWin {
			s.FastestWin = result.Draws
		}
	case Lost:
		s.Losses++
		s.RivalWins[result.Winner]++
	default:
		s.Unfinished++
		return
	}

	draws := float64(result.Draws)
	s.SumDraws += draws
	s.SumDraws2 += draws * draws
	s.Values = append(s.Values, draws)
}

// Finished returns how many rounds ended with a bingo
func (s *Statistics) Finished() int {
	return s.Wins + s.Losses
}

// WinRate returns the fraction of rounds the player won
func (s *Statistics) WinRate() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Rounds)
}

// MissRate returns the fraction of on-card draws that were not marked in time
func (s *Statistics) MissRate() float64 {
	total := s.Marks + s.Missed
	if total == 0 {
		return 0
	}
	return float64(s.Missed) / float64(total)
}

// Mean returns the mean draws to finish
func (s *Statistics) Mean() float64 {
	n := s.Finished()
	if n == 0 {
		return 0
	}
	return s.SumDraws / float64(n)
}

// Variance returns the sample variance of draws to finish
func (s *Statistics) Variance() float64 {
	n := s.Finished()
	if n < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumDraws2 - float64(n)*mean*mean) / float64(n-1)
}

// StdDev returns the sample standard deviation of draws to finish
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(math.Max(s.Variance(), 0))
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	n := s.Finished()
	if n == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(n))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// WinRateInterval95 returns the normal-approximation 95% interval for the
// win rate, clamped to [0,1].
func (s *Statistics) WinRateInterval95() (float64, float64) {
	if s.Rounds == 0 {
		return 0, 0
	}
	p := s.WinRate()
	margin := 1.96 * math.Sqrt(p*(1-p)/float64(s.Rounds))
	return math.Max(0, p-margin), math.Min(1, p+margin)
}

// Median returns the median draws to finish
func (s *Statistics) Median() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := s.sorted()
	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Percentile returns the value at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := s.sorted()

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

func (s *Statistics) sorted() []float64 {
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)
	return sorted
}

// TopRival returns the rival with the most wins, preferring the
// alphabetically first name on ties.
func (s *Statistics) TopRival() (string, int) {
	best, count := "", 0
	for name, n := range s.RivalWins {
		if n > count || (n == count && name < best) {
			best, count = name, n
		}
	}
	return best, count
}

// Validate checks the counters agree with each other
func (s *Statistics) Validate() error {
	if s.Rounds <= 0 {
		return fmt.Errorf("invalid rounds count: %d", s.Rounds)
	}
	if s.Wins+s.Losses+s.Unfinished != s.Rounds {
		return fmt.Errorf("outcomes (%d won, %d lost, %d unfinished) do not sum to %d rounds",
			s.Wins, s.Losses, s.Unfinished, s.Rounds)
	}
	if len(s.Values) != s.Finished() {
		return fmt.Errorf("values array length (%d) does not match finished rounds (%d)",
			len(s.Values), s.Finished())
	}

	patterns := 0
	for _, n := range s.Patterns {
		patterns += n
	}
	if patterns != s.Wins {
		return fmt.Errorf("pattern total (%d) does not match wins (%d)", patterns, s.Wins)
	}

	rivals := 0
	for _, n := range s.RivalWins {
		rivals += n
	}
	if rivals != s.Losses {
		return fmt.Errorf("rival win total (%d) does not match losses (%d)", rivals, s.Losses)
	}
	return nil
}

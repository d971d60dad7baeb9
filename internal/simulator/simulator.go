package simulator

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sort"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/bingoblitz/internal/game"
	"github.com/lox/bingoblitz/internal/randutil"
	"github.com/lox/bingoblitz/internal/roomcode"
	"github.com/lox/bingoblitz/internal/statistics"
)

// Config holds configuration for running simulations
type Config struct {
	Rounds     int
	Strategy   string  // "perfect" or "sloppy"
	MissRate   float64 // sloppy only: chance of missing each mark
	Seed       int64
	Player     string
	Rivals     int
	RivalNames []string
	Workers    int
	Timeout    time.Duration // per round
	Logger     *log.Logger
}

// Simulator plays rounds headlessly with a dauber standing in for the player
type Simulator struct {
	config Config
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Workers <= 0 {
		config.Workers = runtime.GOMAXPROCS(0)
	}
	if config.Strategy == "" {
		config.Strategy = StrategyPerfect
	}
	if config.Timeout <= 0 {
		config.Timeout = 5 * time.Second
	}
	return &Simulator{config: config}
}

// Rooms returns the room codes the simulation will play, in order. They
// depend only on the seed.
func (s *Simulator) Rooms() []string {
	rng := randutil.New(s.config.Seed)
	rooms := make([]string, s.config.Rounds)
	for i := range rooms {
		rooms[i] = fmt.Sprintf("%s%d", roomcode.Prefix, rng.IntN(1_000_000))
	}
	return rooms
}

// Run plays every round and aggregates the results. Rounds run in parallel;
// the aggregate is identical for any worker count.
func (s *Simulator) Run(ctx context.Context) (*statistics.Statistics, error) {
	if _, err := newDauber(s.config.Strategy, s.config.MissRate, nil); err != nil {
		return nil, err
	}

	rooms := s.Rooms()
	results := make([]statistics.RoundResult, len(rooms))
	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Workers)
	for i, room := range rooms {
		g.Go(func() error {
			result, err := s.playRound(gctx, room, s.config.Seed+int64(i))
			if err != nil {
				return fmt.Errorf("round %d (%s): %w", i+1, room, err)
			}
			results[i] = result
			if n := done.Add(1); n%1000 == 0 {
				s.config.Logger.Debug("Simulation progress", "rounds", n, "of", len(rooms))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := &statistics.Statistics{}
	for _, r := range results {
		stats.Add(r)
	}
	if err := stats.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}
	return stats, nil
}

// PlayRound plays a single room with the configured dauber.
func (s *Simulator) PlayRound(ctx context.Context, room string) (statistics.RoundResult, error) {
	return s.playRound(ctx, room, s.config.Seed)
}

func (s *Simulator) playRound(ctx context.Context, room string, dauberSeed int64) (statistics.RoundResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	dauber, err := newDauber(s.config.Strategy, s.config.MissRate, randutil.New(dauberSeed))
	if err != nil {
		return statistics.RoundResult{}, err
	}

	session := game.NewSession(s.config.Player, s.config.Logger,
		game.WithManualTicks(),
		game.WithRivals(s.config.RivalNames, s.rivalCount()),
	)
	defer session.Close()

	if _, err := session.Start(room, game.Fast); err != nil {
		return statistics.RoundResult{}, err
	}

	for session.Step() {
		if err := ctx.Err(); err != nil {
			return statistics.RoundResult{}, fmt.Errorf("round timed out after %v: %w", s.config.Timeout, err)
		}
		snap := session.Snapshot()
		if snap.IsOver() {
			break
		}
		dauber.Daub(session, snap)
		if session.Snapshot().IsOver() {
			break
		}
	}

	snap := session.Snapshot()
	if !snap.IsOver() {
		dauber.Finish(session, snap)
		snap = session.Snapshot()
	}
	return resultFrom(room, snap, dauber.Missed()), nil
}

func (s *Simulator) rivalCount() int {
	if s.config.Rivals > 0 {
		return s.config.Rivals
	}
	return 5
}

func resultFrom(room string, snap game.Snapshot, missed int) statistics.RoundResult {
	result := statistics.RoundResult{
		Room:   room,
		Draws:  len(snap.Drawn),
		Marks:  snap.Card.MarkedCount() - 1,
		Missed: missed,
	}
	switch {
	case snap.HasWon():
		result.Outcome = statistics.Won
		result.Pattern = snap.Pattern
	case snap.IsOver():
		result.Outcome = statistics.Lost
		result.Winner = snap.Winner
	default:
		result.Outcome = statistics.Unfinished
	}
	return result
}

// RunSimulation is a convenience function for running a simulation with basic parameters
func RunSimulation(ctx context.Context, rounds int, strategy string, seed int64, logger *log.Logger) (*statistics.Statistics, error) {
	return New(Config{
		Rounds:   rounds,
		Strategy: strategy,
		MissRate: DefaultMissRate,
		Seed:     seed,
		Logger:   logger,
	}).Run(ctx)
}

// Report is the JSON form of a simulation written by simulate --out.
type Report struct {
	Rounds      int            `json:"rounds"`
	Strategy    string         `json:"strategy"`
	Seed        int64          `json:"seed"`
	Wins        int            `json:"wins"`
	Losses      int            `json:"losses"`
	Unfinished  int            `json:"unfinished"`
	WinRate     float64        `json:"winRate"`
	MeanDraws   float64        `json:"meanDraws"`
	MedianDraws float64        `json:"medianDraws"`
	StdDevDraws float64        `json:"stdDevDraws"`
	P05Draws    float64        `json:"p05Draws"`
	P95Draws    float64        `json:"p95Draws"`
	FastestWin  int            `json:"fastestWin"`
	MissRate    float64        `json:"missRate"`
	Patterns    map[string]int `json:"patterns"`
	RivalWins   map[string]int `json:"rivalWins"`
}

// NewReport summarises stats for serialisation.
func NewReport(stats *statistics.Statistics, config Config) Report {
	return Report{
		Rounds:      stats.Rounds,
		Strategy:    config.Strategy,
		Seed:        config.Seed,
		Wins:        stats.Wins,
		Losses:      stats.Losses,
		Unfinished:  stats.Unfinished,
		WinRate:     stats.WinRate(),
		MeanDraws:   stats.Mean(),
		MedianDraws: stats.Median(),
		StdDevDraws: stats.StdDev(),
		P05Draws:    stats.Percentile(0.05),
		P95Draws:    stats.Percentile(0.95),
		FastestWin:  stats.FastestWin,
		MissRate:    stats.MissRate(),
		Patterns:    stats.Patterns,
		RivalWins:   stats.RivalWins,
	}
}

// PrintSummary writes a human-readable summary of simulation results
func PrintSummary(w io.Writer, stats *statistics.Statistics, strategy string) {
	low, high := stats.ConfidenceInterval95()
	wlow, whigh := stats.WinRateInterval95()

	fmt.Fprintf(w, "\n=== FINAL RESULTS with %s dauber ===\n", strategy)
	fmt.Fprintf(w, "Rounds played: %d\n", stats.Rounds)
	fmt.Fprintf(w, "Won: %d  Lost: %d  Unfinished: %d\n", stats.Wins, stats.Losses, stats.Unfinished)
	fmt.Fprintf(w, "Win rate: %.1f%% (95%% CI [%.1f%%, %.1f%%])\n", stats.WinRate()*100, wlow*100, whigh*100)

	fmt.Fprintf(w, "\n=== DRAWS TO BINGO ===\n")
	fmt.Fprintf(w, "Mean: %.2f  Median: %.1f  Std Dev: %.2f\n", stats.Mean(), stats.Median(), stats.StdDev())
	fmt.Fprintf(w, "95%% CI: [%.2f, %.2f]\n", low, high)
	fmt.Fprintf(w, "Percentiles: P5=%.1f, P25=%.1f, P75=%.1f, P95=%.1f\n",
		stats.Percentile(0.05), stats.Percentile(0.25), stats.Percentile(0.75), stats.Percentile(0.95))
	if stats.FastestWin > 0 {
		fmt.Fprintf(w, "Fastest win: %d balls\n", stats.FastestWin)
	}
	if stats.Missed > 0 {
		fmt.Fprintf(w, "Missed marks: %d (%.1f%%)\n", stats.Missed, stats.MissRate()*100)
	}

	if len(stats.Patterns) > 0 {
		fmt.Fprintf(w, "\n=== WINNING LINES ===\n")
		for _, name := range sortedKeys(stats.Patterns) {
			fmt.Fprintf(w, "%-14s %d\n", name, stats.Patterns[name])
		}
	}
	if len(stats.RivalWins) > 0 {
		fmt.Fprintf(w, "\n=== RIVAL BINGOS ===\n")
		for _, name := range sortedKeys(stats.RivalWins) {
			fmt.Fprintf(w, "%-18s %d\n", name, stats.RivalWins[name])
		}
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

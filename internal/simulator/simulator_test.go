package simulator

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/bingoblitz/internal/statistics"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func TestNewDefaults(t *testing.T) {
	sim := New(Config{Rounds: 10, Logger: quietLogger()})
	assert.Equal(t, StrategyPerfect, sim.config.Strategy)
	assert.Positive(t, sim.config.Workers)
	assert.Positive(t, sim.config.Timeout)
}

func TestRoomsDependOnSeed(t *testing.T) {
	a := New(Config{Rounds: 5, Seed: 42, Logger: quietLogger()}).Rooms()
	b := New(Config{Rounds: 5, Seed: 42, Logger: quietLogger()}).Rooms()
	c := New(Config{Rounds: 5, Seed: 43, Logger: quietLogger()}).Rooms()

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	for _, room := range a {
		assert.Regexp(t, `^BINGO\d+$`, room)
	}
}

func TestPlayRoundPerfect(t *testing.T) {
	tests := []struct {
		room, player string
		pattern      string
		draws        int
	}{
		{"TEST", "", "row 3", 59},
		{"TEST", "Alice", "anti-diagonal", 33},
		{"BINGO77", "Bob", "anti-diagonal", 41},
	}
	for _, tt := range tests {
		t.Run(tt.room+"/"+tt.player, func(t *testing.T) {
			sim := New(Config{Player: tt.player, Logger: quietLogger()})
			result, err := sim.PlayRound(context.Background(), tt.room)
			require.NoError(t, err)

			assert.Equal(t, statistics.Won, result.Outcome)
			assert.Equal(t, tt.pattern, result.Pattern)
			assert.Equal(t, tt.draws, result.Draws)
			assert.Zero(t, result.Missed)
			assert.GreaterOrEqual(t, result.Marks, 4)
		})
	}
}

func TestRunDeterministicAcrossWorkers(t *testing.T) {
	base := Config{Rounds: 40, Seed: 7, Strategy: StrategySloppy, MissRate: 0.3, Logger: quietLogger()}

	serial := base
	serial.Workers = 1
	parallel := base
	parallel.Workers = 8

	a, err := New(serial).Run(context.Background())
	require.NoError(t, err)
	b, err := New(parallel).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, 40, a.Rounds)
	assert.NoError(t, a.Validate())
	assert.Positive(t, a.Missed)
}

func TestSloppyWithoutMissesMatchesPerfect(t *testing.T) {
	perfect, err := New(Config{Rounds: 20, Seed: 3, Strategy: StrategyPerfect, Logger: quietLogger()}).Run(context.Background())
	require.NoError(t, err)
	sloppy, err := New(Config{Rounds: 20, Seed: 3, Strategy: StrategySloppy, MissRate: 0, Logger: quietLogger()}).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, perfect, sloppy)
}

func TestRunRejectsBadStrategy(t *testing.T) {
	_, err := New(Config{Rounds: 1, Strategy: "psychic", Logger: quietLogger()}).Run(context.Background())
	assert.ErrorIs(t, err, ErrUnknownStrategy)

	_, err = New(Config{Rounds: 1, Strategy: StrategySloppy, MissRate: 1.5, Logger: quietLogger()}).Run(context.Background())
	assert.Error(t, err)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(Config{Rounds: 3, Logger: quietLogger()}).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunSimulation_Convenience(t *testing.T) {
	stats, err := RunSimulation(context.Background(), 5, StrategyPerfect, 1, quietLogger())
	require.NoError(t, err)
	assert.Equal(t, 5, stats.Rounds)
}

func TestPrintSummaryAndReport(t *testing.T) {
	cfg := Config{Rounds: 10, Seed: 11, Strategy: StrategyPerfect, Logger: quietLogger()}
	stats, err := New(cfg).Run(context.Background())
	require.NoError(t, err)

	var buf bytes.Buffer
	PrintSummary(&buf, stats, cfg.Strategy)
	assert.Contains(t, buf.String(), "Rounds played: 10")
	assert.Contains(t, buf.String(), "DRAWS TO BINGO")

	report := NewReport(stats, cfg)
	assert.Equal(t, 10, report.Rounds)
	assert.Equal(t, stats.Wins, report.Wins)
	assert.InDelta(t, stats.WinRate(), report.WinRate, 1e-9)
}

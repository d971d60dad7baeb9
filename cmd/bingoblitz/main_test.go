package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/bingoblitz/internal/card"
	"github.com/lox/bingoblitz/internal/config"
	"github.com/lox/bingoblitz/internal/game"
	"github.com/lox/bingoblitz/internal/server"
	"github.com/lox/bingoblitz/internal/simulator"
)

// run parses args and executes the selected command, capturing stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cli := CLI{Globals: Globals{Stdout: &out}}
	parser, err := kong.New(&cli, kong.Name("bingoblitz"), kong.Vars{"version": "test"})
	require.NoError(t, err)

	args = append([]string{"--config", filepath.Join(t.TempDir(), "missing.hcl")}, args...)
	ctx, err := parser.Parse(args)
	require.NoError(t, err)
	err = ctx.Run(&cli.Globals)
	return out.String(), err
}

func TestCardCommand(t *testing.T) {
	out, err := run(t, "card", "test", "--player", "Alice")
	require.NoError(t, err)
	assert.Contains(t, out, `Room TEST, player "Alice"`)
	assert.Contains(t, out, card.Generate("TESTAlice").String())
}

func TestCardCommandJSON(t *testing.T) {
	out, err := run(t, "card", "TEST", "--json")
	require.NoError(t, err)

	var got card.Card
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, *card.Generate("TEST"), got)
}

func TestCardCommandRejectsBadSeed(t *testing.T) {
	_, err := run(t, "card", "two words")
	assert.Error(t, err)
}

func TestRoomCodeCommand(t *testing.T) {
	out, err := run(t, "room-code", "-n", "3")
	require.NoError(t, err)
	lines := bytes.Split(bytes.TrimSpace([]byte(out)), []byte("\n"))
	require.Len(t, lines, 3)
	for _, line := range lines {
		assert.True(t, bytes.HasPrefix(line, []byte("BINGO")), string(line))
	}

	out, err = run(t, "room-code", "bingo42", "no way")
	assert.EqualError(t, err, "1 of 2 codes invalid")
	assert.Contains(t, out, "BINGO42 ok")
	assert.Contains(t, out, `"no way": invalid room code`)
}

func TestSimulateCommand(t *testing.T) {
	report := filepath.Join(t.TempDir(), "out", "report.json")
	out, err := run(t, "simulate", "-n", "4", "--seed", "7", "--out", report)
	require.NoError(t, err)
	assert.Contains(t, out, "=== FINAL RESULTS with perfect dauber ===")
	assert.Contains(t, out, "Rounds played: 4")

	data, err := os.ReadFile(report)
	require.NoError(t, err)
	var got simulator.Report
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, 4, got.Rounds)
	assert.Equal(t, "perfect", got.Strategy)
	assert.Equal(t, int64(7), got.Seed)
}

func TestSimulateRejectsUnknownStrategy(t *testing.T) {
	var cli CLI
	parser, err := kong.New(&cli, kong.Vars{"version": "test"})
	require.NoError(t, err)
	_, err = parser.Parse([]string{"simulate", "--strategy", "lucky"})
	assert.Error(t, err)
}

func TestPlayConfigFlagsOverrideConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Player.Name = "Config"
	cfg.Game.RoomCode = "FROMFILE"

	cmd := PlayCmd{Name: " Alice ", Difficulty: "fast"}
	tuiCfg, err := cmd.tuiConfig(cfg, quietLogger())
	require.NoError(t, err)
	assert.Equal(t, "Alice", tuiCfg.Player)
	assert.Equal(t, "FROMFILE", tuiCfg.Room)
	assert.Equal(t, game.Fast, tuiCfg.Difficulty)

	s := tuiCfg.NewSession("Alice")
	defer s.Close()
	assert.Equal(t, "Alice", s.Player())
	assert.Equal(t, cfg.Speeds().Fast, s.Interval(game.Fast))

	_, err = (&PlayCmd{Difficulty: "warp"}).tuiConfig(cfg, quietLogger())
	assert.ErrorIs(t, err, game.ErrInvalidDifficulty)
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func TestBotCommand(t *testing.T) {
	s := server.NewServer(quietLogger(), server.WithSessionOptions(game.WithSpeeds(game.Speeds{
		Slow:   10 * time.Millisecond,
		Normal: 10 * time.Millisecond,
		Fast:   10 * time.Millisecond,
	})))
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()
	defer s.Stop()

	out, err := run(t, "bot", "--server", ts.URL+"/ws", "--room", "TEST", "--log-file", filepath.Join(t.TempDir(), "bot.log"))
	require.NoError(t, err)
	assert.Contains(t, out, "Room TEST: BINGO with row 3")
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/bingoblitz/internal/game"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bingoblitz.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFileMissingReturnsDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)

	assert.Equal(t, "normal", cfg.Game.Difficulty)
	assert.Equal(t, 5, cfg.Game.Rivals)
	assert.Equal(t, game.DefaultSpeeds(), cfg.Speeds())
	assert.Equal(t, "localhost:8080", cfg.Addr())
	assert.Equal(t, 1500*time.Millisecond, cfg.CommentaryTimeout())
	assert.Nil(t, cfg.RivalNames())
	assert.NoError(t, cfg.Validate())
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
player {
  name = "Alice"
}

game {
  difficulty = "fast"
  rivals     = 3
  room_code  = "BINGO77"
}

speed {
  fast_ms = 1000
}

rival "Ann" {}
rival "Ben" {}

server {
  port = 9090
}

log {
  level = "debug"
}
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "Alice", cfg.Player.Name)
	assert.Equal(t, game.Fast, cfg.Difficulty())
	assert.Equal(t, 3, cfg.Game.Rivals)
	assert.Equal(t, "BINGO77", cfg.Game.RoomCode)
	assert.Equal(t, time.Second, cfg.Speeds().Fast)
	assert.Equal(t, 8*time.Second, cfg.Speeds().Slow)
	assert.Equal(t, []string{"Ann", "Ben"}, cfg.RivalNames())
	assert.Equal(t, "localhost:9090", cfg.Addr())
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "bingoblitz.log", cfg.Log.File)
	assert.Len(t, cfg.SessionOptions(), 2)
}

func TestLoadFileErrors(t *testing.T) {
	_, err := LoadFile(writeConfig(t, `game {`))
	assert.Error(t, err)

	_, err = LoadFile(writeConfig(t, `game { unknown = 1 }`))
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(map[string]string{
		"BINGO_PLAYER_NAME":    "Bob",
		"BINGO_DIFFICULTY":     "slow",
		"BINGO_ROOM_CODE":      "party",
		"BINGO_LOG_LEVEL":      "warn",
		"BINGO_SERVER_ADDRESS": "0.0.0.0",
		"BINGO_SERVER_PORT":    "7000",
		"PLAYER_NAME":          "ignored",
	})
	require.NoError(t, err)

	assert.Equal(t, "Bob", cfg.Player.Name)
	assert.Equal(t, game.Slow, cfg.Difficulty())
	assert.Equal(t, "party", cfg.Game.RoomCode)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "0.0.0.0:7000", cfg.Addr())
	assert.NoError(t, cfg.Validate())
}

func TestApplyEnvBadPort(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(map[string]string{"BINGO_SERVER_PORT": "lots"})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"difficulty", func(c *Config) { c.Game.Difficulty = "ludicrous" }},
		{"rivals", func(c *Config) { c.Game.Rivals = 50 }},
		{"room code", func(c *Config) { c.Game.RoomCode = "no spaces" }},
		{"port", func(c *Config) { c.Server.Port = 70000 }},
		{"log level", func(c *Config) { c.Log.Level = "loud" }},
		{"speed", func(c *Config) { c.Speed.FastMS = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}

// Package config loads bingoblitz settings from an HCL file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/bingoblitz/internal/commentary"
	"github.com/lox/bingoblitz/internal/game"
	"github.com/lox/bingoblitz/internal/rival"
	"github.com/lox/bingoblitz/internal/roomcode"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "BINGO_"

// ErrInvalid is wrapped by Validate failures.
var ErrInvalid = errors.New("invalid config")

// Config represents the complete bingoblitz configuration
type Config struct {
	Player     *PlayerConfig     `hcl:"player,block"`
	Game       *GameConfig       `hcl:"game,block"`
	Speed      *SpeedConfig      `hcl:"speed,block"`
	Rivals     []RivalConfig     `hcl:"rival,block"`
	Server     *ServerConfig     `hcl:"server,block"`
	Log        *LogConfig        `hcl:"log,block"`
	Commentary *CommentaryConfig `hcl:"commentary,block"`
}

// PlayerConfig identifies the local player
type PlayerConfig struct {
	Name string `hcl:"name,optional"`
}

// GameConfig holds round defaults
type GameConfig struct {
	Difficulty string `hcl:"difficulty,optional"`
	Rivals     int    `hcl:"rivals,optional"`
	RoomCode   string `hcl:"room_code,optional"`
}

// SpeedConfig sets the draw interval per difficulty, in milliseconds
type SpeedConfig struct {
	SlowMS   int `hcl:"slow_ms,optional"`
	NormalMS int `hcl:"normal_ms,optional"`
	FastMS   int `hcl:"fast_ms,optional"`
}

// RivalConfig names one rival in the roster
type RivalConfig struct {
	Name string `hcl:"name,label"`
}

// ServerConfig contains websocket server settings
type ServerConfig struct {
	Address string `hcl:"address,optional"`
	Port    int    `hcl:"port,optional"`
}

// LogConfig controls logging output
type LogConfig struct {
	Level string `hcl:"level,optional"`
	File  string `hcl:"file,optional"`
}

// CommentaryConfig bounds how long the caller waits for enriched text
type CommentaryConfig struct {
	TimeoutMS int `hcl:"timeout_ms,optional"`
}

// Default returns the built-in configuration
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads filename, applies defaults and then environment overrides.
// A missing file yields the defaults.
func Load(filename string) (*Config, error) {
	cfg, err := LoadFile(filename)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(nil); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile loads configuration from an HCL file without consulting the
// environment.
func LoadFile(filename string) (*Config, error) {
	if filename == "" {
		return Default(), nil
	}
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// envOverrides mirrors the settings that may be set from the environment.
type envOverrides struct {
	PlayerName    string `env:"PLAYER_NAME"`
	Difficulty    string `env:"DIFFICULTY"`
	RoomCode      string `env:"ROOM_CODE"`
	LogLevel      string `env:"LOG_LEVEL"`
	ServerAddress string `env:"SERVER_ADDRESS"`
	ServerPort    int    `env:"SERVER_PORT"`
}

// ApplyEnv overlays BINGO_* variables onto c. A nil environ reads the
// process environment.
func (c *Config) ApplyEnv(environ map[string]string) error {
	var o envOverrides
	if err := env.ParseWithOptions(&o, env.Options{Prefix: EnvPrefix, Environment: environ}); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}

	if o.PlayerName != "" {
		c.Player.Name = o.PlayerName
	}
	if o.Difficulty != "" {
		c.Game.Difficulty = o.Difficulty
	}
	if o.RoomCode != "" {
		c.Game.RoomCode = o.RoomCode
	}
	if o.LogLevel != "" {
		c.Log.Level = o.LogLevel
	}
	if o.ServerAddress != "" {
		c.Server.Address = o.ServerAddress
	}
	if o.ServerPort != 0 {
		c.Server.Port = o.ServerPort
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Player == nil {
		c.Player = &PlayerConfig{}
	}
	if c.Game == nil {
		c.Game = &GameConfig{}
	}
	if c.Game.Difficulty == "" {
		c.Game.Difficulty = game.Normal.String()
	}
	if c.Game.Rivals == 0 {
		c.Game.Rivals = rival.DefaultCount
	}

	speeds := game.DefaultSpeeds()
	if c.Speed == nil {
		c.Speed = &SpeedConfig{}
	}
	if c.Speed.SlowMS == 0 {
		c.Speed.SlowMS = int(speeds.Slow.Milliseconds())
	}
	if c.Speed.NormalMS == 0 {
		c.Speed.NormalMS = int(speeds.Normal.Milliseconds())
	}
	if c.Speed.FastMS == 0 {
		c.Speed.FastMS = int(speeds.Fast.Milliseconds())
	}

	if c.Server == nil {
		c.Server = &ServerConfig{}
	}
	if c.Server.Address == "" {
		c.Server.Address = "localhost"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}

	if c.Log == nil {
		c.Log = &LogConfig{}
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.File == "" {
		c.Log.File = "bingoblitz.log"
	}

	if c.Commentary == nil {
		c.Commentary = &CommentaryConfig{}
	}
	if c.Commentary.TimeoutMS == 0 {
		c.Commentary.TimeoutMS = int(commentary.DefaultTimeout.Milliseconds())
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if _, err := game.ParseDifficulty(c.Game.Difficulty); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if c.Game.Rivals < 1 || c.Game.Rivals > 20 {
		return fmt.Errorf("%w: rivals must be between 1 and 20, got %d", ErrInvalid, c.Game.Rivals)
	}
	if c.Game.RoomCode != "" {
		if err := roomcode.Validate(roomcode.Normalize(c.Game.RoomCode)); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalid, err)
		}
	}
	if c.Speed.SlowMS < 0 || c.Speed.NormalMS < 0 || c.Speed.FastMS < 0 {
		return fmt.Errorf("%w: speeds must be positive", ErrInvalid)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: invalid port: %d", ErrInvalid, c.Server.Port)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if c.Commentary.TimeoutMS < 0 {
		return fmt.Errorf("%w: commentary timeout must be positive", ErrInvalid)
	}
	return nil
}

// Difficulty returns the parsed default difficulty.
func (c *Config) Difficulty() game.Difficulty {
	d, _ := game.ParseDifficulty(c.Game.Difficulty)
	return d
}

// Speeds returns the configured draw intervals.
func (c *Config) Speeds() game.Speeds {
	return game.Speeds{
		Slow:   time.Duration(c.Speed.SlowMS) * time.Millisecond,
		Normal: time.Duration(c.Speed.NormalMS) * time.Millisecond,
		Fast:   time.Duration(c.Speed.FastMS) * time.Millisecond,
	}
}

// RivalNames returns the configured roster names, or nil for the default
// pool.
func (c *Config) RivalNames() []string {
	if len(c.Rivals) == 0 {
		return nil
	}
	names := make([]string, len(c.Rivals))
	for i, r := range c.Rivals {
		names[i] = r.Name
	}
	return names
}

// CommentaryTimeout returns how long to wait for provider text.
func (c *Config) CommentaryTimeout() time.Duration {
	return time.Duration(c.Commentary.TimeoutMS) * time.Millisecond
}

// SessionOptions returns the game options implied by the configuration.
func (c *Config) SessionOptions() []game.Option {
	return []game.Option{
		game.WithSpeeds(c.Speeds()),
		game.WithRivals(c.RivalNames(), c.Game.Rivals),
	}
}

// Addr returns the server listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

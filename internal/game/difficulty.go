package game

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDifficulty is returned for unknown difficulty names or values.
var ErrInvalidDifficulty = errors.New("invalid difficulty")

// Difficulty selects the pace at which balls are drawn.
type Difficulty int

const (
	Slow Difficulty = iota
	Normal
	Fast
)

// Difficulties lists every tier from slowest to fastest.
var Difficulties = []Difficulty{Slow, Normal, Fast}

func (d Difficulty) String() string {
	switch d {
	case Slow:
		return "slow"
	case Normal:
		return "normal"
	case Fast:
		return "fast"
	default:
		return fmt.Sprintf("difficulty(%d)", int(d))
	}
}

// Valid reports whether d is a known tier.
func (d Difficulty) Valid() bool {
	return d >= Slow && d <= Fast
}

// MarshalText implements encoding.TextMarshaler.
func (d Difficulty) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDifficulty, int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Difficulty) UnmarshalText(text []byte) error {
	parsed, err := ParseDifficulty(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDifficulty parses "slow", "normal" or "fast", case-insensitively.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "slow":
		return Slow, nil
	case "normal", "":
		return Normal, nil
	case "fast":
		return Fast, nil
	default:
		return Normal, fmt.Errorf("%w: %q", ErrInvalidDifficulty, s)
	}
}

// Speeds maps each difficulty to the interval between draws.
type Speeds struct {
	Slow   time.Duration
	Normal time.Duration
	Fast   time.Duration
}

// DefaultSpeeds returns the standard 8s/5s/3s cadence.
func DefaultSpeeds() Speeds {
	return Speeds{
		Slow:   8 * time.Second,
		Normal: 5 * time.Second,
		Fast:   3 * time.Second,
	}
}

// Interval returns the draw interval for d.
func (s Speeds) Interval(d Difficulty) time.Duration {
	switch d {
	case Slow:
		return s.Slow
	case Fast:
		return s.Fast
	default:
		return s.Normal
	}
}

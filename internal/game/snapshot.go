package game

import (
	"fmt"

	"github.com/lox/bingoblitz/internal/card"
	"github.com/lox/bingoblitz/internal/rival"
)

// Phase is the session's position in its state machine.
type Phase int

const (
	NotStarted Phase = iota
	Playing
	RoundOver
)

func (p Phase) String() string {
	switch p {
	case NotStarted:
		return "not_started"
	case Playing:
		return "playing"
	case RoundOver:
		return "round_over"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Phase) UnmarshalText(text []byte) error {
	for _, candidate := range []Phase{NotStarted, Playing, RoundOver} {
		if candidate.String() == string(text) {
			*p = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", text)
}

// Outcome records how a finished round ended.
type Outcome int

const (
	Undecided Outcome = iota
	Won
	Lost
)

func (o Outcome) String() string {
	switch o {
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return "undecided"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Outcome) UnmarshalText(text []byte) error {
	switch string(text) {
	case "undecided":
		*o = Undecided
	case "won":
		*o = Won
	case "lost":
		*o = Lost
	default:
		return fmt.Errorf("unknown outcome %q", text)
	}
	return nil
}

// Snapshot is a read-only copy of a session, safe to hand to presentation
// code on another goroutine.
type Snapshot struct {
	Round       uint64        `json:"round"`
	Phase       Phase         `json:"phase"`
	Outcome     Outcome       `json:"outcome"`
	Seed        string        `json:"seed"`
	Player      string        `json:"player"`
	Difficulty  Difficulty    `json:"difficulty"`
	Card        card.Card     `json:"card"`
	Drawn       []int         `json:"drawn"`
	CurrentBall int           `json:"currentBall,omitempty"`
	Rivals      []rival.Rival `json:"rivals"`
	Commentary  string        `json:"commentary"`
	Winner      string        `json:"winner,omitempty"`
	Pattern     string        `json:"pattern,omitempty"`
	Exhausted   bool          `json:"exhausted"`
}

// Started reports whether a round is in progress or finished.
func (s Snapshot) Started() bool {
	return s.Phase != NotStarted
}

// IsOver reports whether the round has ended.
func (s Snapshot) IsOver() bool {
	return s.Phase == RoundOver
}

// HasWon reports whether the player won the round.
func (s Snapshot) HasWon() bool {
	return s.Phase == RoundOver && s.Outcome == Won
}

// IsDrawn reports whether ball n has been drawn.
func (s Snapshot) IsDrawn(n int) bool {
	for _, d := range s.Drawn {
		if d == n {
			return true
		}
	}
	return false
}

// WinningRival returns the rival that ended the round, if any.
func (s Snapshot) WinningRival() (rival.Rival, bool) {
	for _, r := range s.Rivals {
		if r.Winner {
			return r, true
		}
	}
	return rival.Rival{}, false
}

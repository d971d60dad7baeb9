// Package rival simulates the opponents sharing a room with the player.
//
// Rivals have no cards of their own. Each draw, every rival rolls once
// against a fixed threshold and, on success, fills one more square. The
// first rival to fill MaxProgress squares calls bingo and ends the round.
package rival

import (
	"fmt"
	"strings"

	"github.com/lox/bingoblitz/internal/randutil"
)

const (
	// Threshold is the value a roll must exceed to advance, about a 12%
	// chance per rival per draw.
	Threshold = 0.88

	// MaxProgress is the number of squares a rival needs to win.
	MaxProgress = 24

	// DefaultCount is the roster size used when none is configured.
	DefaultCount = 5
)

// Names is the default pool rival names are taken from, in order.
var Names = []string{
	"Bingo Betty", "Lucky Larry", "Dabber Dan", "Winning Wanda", "Grandma Gertrude",
	"Salty Sam", "Turbo Todd", "Mellow Mary", "Magic Mike", "Bingo Bandit",
}

// Rival is a simulated opponent.
type Rival struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Progress int    `json:"progress"`
	Winner   bool   `json:"winner"`
}

// Fraction returns progress as a value in [0,1] for progress bars.
func (r Rival) Fraction() float64 {
	return float64(min(r.Progress, MaxProgress)) / MaxProgress
}

// Initials returns up to two upper-case initials for avatars.
func (r Rival) Initials() string {
	var sb strings.Builder
	for _, word := range strings.Fields(r.Name) {
		sb.WriteString(strings.ToUpper(string([]rune(word)[0])))
		if sb.Len() >= 2 {
			break
		}
	}
	return sb.String()
}

// Roster builds count fresh rivals from names, cycling the pool when count
// exceeds it.
func Roster(names []string, count int) []Rival {
	if len(names) == 0 {
		names = Names
	}
	rivals := make([]Rival, count)
	for i := range rivals {
		name := names[i%len(names)]
		if i >= len(names) {
			name = fmt.Sprintf("%s %d", name, i/len(names)+1)
		}
		rivals[i] = Rival{ID: fmt.Sprintf("rival-%d", i), Name: name}
	}
	return rivals
}

// Advance runs one tick. Every rival consumes exactly one value from src, in
// roster order, whether or not it can still progress. It returns the updated
// roster and the index of the winning rival, or -1. When several rivals
// reach MaxProgress on the same tick the lowest index wins and is the only
// one flagged.
func Advance(rivals []Rival, src randutil.Source) ([]Rival, int) {
	next := make([]Rival, len(rivals))
	copy(next, rivals)

	for i := range next {
		roll := src.Float64()
		if roll > Threshold && next[i].Progress < MaxProgress {
			next[i].Progress++
		}
	}

	for i := range next {
		if next[i].Progress >= MaxProgress {
			next[i].Winner = true
			return next, i
		}
	}
	return next, -1
}

// Leader returns the index of the rival with the most progress, preferring
// the lowest index on ties, or -1 for an empty roster.
func Leader(rivals []Rival) int {
	best := -1
	for i, r := range rivals {
		if best < 0 || r.Progress > rivals[best].Progress {
			best = i
		}
	}
	return best
}

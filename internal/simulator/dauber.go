package simulator

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/lox/bingoblitz/internal/game"
)

// Dauber strategies accepted by Config.Strategy.
const (
	StrategyPerfect = "perfect"
	StrategySloppy  = "sloppy"

	DefaultMissRate = 0.2
)

// ErrUnknownStrategy is returned for a strategy name other than perfect or sloppy.
var ErrUnknownStrategy = errors.New("unknown dauber strategy")

// Dauber marks the card on the player's behalf after each draw.
type Dauber interface {
	// Daub is called after every tick that leaves the round in play.
	Daub(s *game.Session, snap game.Snapshot)
	// Finish is called once when the pool runs out without a bingo.
	Finish(s *game.Session, snap game.Snapshot)
	// Missed returns how many on-card numbers were not marked when drawn.
	Missed() int
}

func newDauber(strategy string, missRate float64, rng *rand.Rand) (Dauber, error) {
	switch strategy {
	case StrategyPerfect:
		return perfectDauber{}, nil
	case StrategySloppy:
		if missRate < 0 || missRate >= 1 {
			return nil, fmt.Errorf("miss rate must be in [0,1), got %v", missRate)
		}
		return &sloppyDauber{rng: rng, missRate: missRate}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}
}

// perfectDauber marks every drawn number as soon as it is called.
type perfectDauber struct{}

func (perfectDauber) Daub(s *game.Session, snap game.Snapshot) {
	s.MarkNumber(snap.CurrentBall)
}

func (perfectDauber) Finish(*game.Session, game.Snapshot) {}

func (perfectDauber) Missed() int { return 0 }

// sloppyDauber misses each mark with probability missRate and catches up on
// earlier misses with probability 1-missRate per draw.
type sloppyDauber struct {
	rng      *rand.Rand
	missRate float64
	pending  []int
	missed   int
}

func (d *sloppyDauber) Daub(s *game.Session, snap game.Snapshot) {
	kept := d.pending[:0]
	for _, n := range d.pending {
		if d.rng.Float64() < d.missRate {
			kept = append(kept, n)
			continue
		}
		s.MarkNumber(n)
	}
	d.pending = kept

	if _, ok := snap.Card.Find(snap.CurrentBall); !ok {
		return
	}
	if d.rng.Float64() < d.missRate {
		d.pending = append(d.pending, snap.CurrentBall)
		d.missed++
		return
	}
	s.MarkNumber(snap.CurrentBall)
}

func (d *sloppyDauber) Finish(s *game.Session, _ game.Snapshot) {
	for _, n := range d.pending {
		s.MarkNumber(n)
	}
	d.pending = nil
}

func (d *sloppyDauber) Missed() int { return d.missed }

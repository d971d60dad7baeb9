// Package draw implements ball drawing without replacement.
package draw

import (
	"errors"

	"github.com/lox/bingoblitz/internal/card"
	"github.com/lox/bingoblitz/internal/randutil"
)

// ErrExhausted is returned when every ball has already been drawn.
var ErrExhausted = errors.New("all 75 balls have been drawn")

// Next samples balls in [1,75] from src until it finds one not in drawn.
// Callers must stop drawing once all balls are out; Next returns
// ErrExhausted rather than spinning forever.
func Next(drawn map[int]bool, src randutil.Source) (int, error) {
	if len(drawn) >= card.MaxNumber {
		return 0, ErrExhausted
	}
	for {
		n := randutil.IntRange(src, 1, card.MaxNumber)
		if !drawn[n] {
			return n, nil
		}
	}
}

// Pool tracks the balls drawn in a round, in draw order.
type Pool struct {
	order []int
	seen  map[int]bool
}

// NewPool returns an empty pool.
func NewPool() *Pool {
	return &Pool{
		order: make([]int, 0, card.MaxNumber),
		seen:  make(map[int]bool, card.MaxNumber),
	}
}

// Draw takes the next ball from src and records it.
func (p *Pool) Draw(src randutil.Source) (int, error) {
	n, err := Next(p.seen, src)
	if err != nil {
		return 0, err
	}
	p.order = append(p.order, n)
	p.seen[n] = true
	return n, nil
}

// Contains reports whether n has been drawn.
func (p *Pool) Contains(n int) bool {
	return p.seen[n]
}

// Current returns the most recently drawn ball.
func (p *Pool) Current() (int, bool) {
	if len(p.order) == 0 {
		return 0, false
	}
	return p.order[len(p.order)-1], true
}

// Drawn returns a copy of the balls in draw order.
func (p *Pool) Drawn() []int {
	out := make([]int, len(p.order))
	copy(out, p.order)
	return out
}

// Len returns how many balls have been drawn.
func (p *Pool) Len() int {
	return len(p.order)
}

// Remaining returns how many balls are left.
func (p *Pool) Remaining() int {
	return card.MaxNumber - len(p.order)
}

// Exhausted reports whether every ball has been drawn.
func (p *Pool) Exhausted() bool {
	return len(p.order) >= card.MaxNumber
}

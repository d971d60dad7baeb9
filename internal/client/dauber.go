package client

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/lox/bingoblitz/internal/game"
	"github.com/lox/bingoblitz/internal/server"
)

// Result summarises a finished round as seen by the client.
type Result struct {
	Seed    string
	Outcome game.Outcome
	Winner  string
	Pattern string
	Draws   int
	Marks   int
}

func (r Result) String() string {
	if r.Outcome == game.Won {
		return fmt.Sprintf("Room %s: BINGO with %s after %d balls", r.Seed, r.Pattern, r.Draws)
	}
	return fmt.Sprintf("Room %s: %s called BINGO after %d balls", r.Seed, r.Winner, r.Draws)
}

// AutoDauber is a Handler that marks every drawn number on its card, in
// draw order, and stops once the round is over.
type AutoDauber struct {
	logger  *log.Logger
	round   uint64
	pending map[int]bool
	marks   int
	result  *Result
}

// NewAutoDauber creates a dauber.
func NewAutoDauber(logger *log.Logger) *AutoDauber {
	return &AutoDauber{
		logger:  logger.WithPrefix("dauber"),
		pending: make(map[int]bool),
	}
}

// Result returns the finished round, if any.
func (d *AutoDauber) Result() (Result, bool) {
	if d.result == nil {
		return Result{}, false
	}
	return *d.result, true
}

// OnSnapshot implements Handler.
func (d *AutoDauber) OnSnapshot(c *Client, data server.SnapshotData) error {
	snap := data.State
	if snap.Round != d.round {
		d.round = snap.Round
		clear(d.pending)
		d.marks = 0
	}

	switch snap.Phase {
	case game.RoundOver:
		d.result = &Result{
			Seed:    snap.Seed,
			Outcome: snap.Outcome,
			Winner:  snap.Winner,
			Pattern: snap.Pattern,
			Draws:   len(snap.Drawn),
			Marks:   d.marks,
		}
		d.logger.Info("Round over", "outcome", snap.Outcome, "winner", snap.Winner, "draws", len(snap.Drawn))
		return ErrStop

	case game.Playing:
		for _, n := range snap.Drawn {
			pos, ok := snap.Card.Find(n)
			if !ok || d.pending[n] || snap.Card[pos.Row][pos.Col].Marked {
				continue
			}
			d.pending[n] = true
			d.marks++
			d.logger.Debug("Daubing", "number", n, "row", pos.Row, "col", pos.Col)
			if err := c.Mark(pos.Row, pos.Col); err != nil {
				return err
			}
		}
	}
	return nil
}

// OnError implements Handler. Errors are logged; a refused mark is not
// fatal.
func (d *AutoDauber) OnError(_ *Client, data server.ErrorData) error {
	d.logger.Warn("Server error", "code", data.Code, "message", data.Message)
	return nil
}

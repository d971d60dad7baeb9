// Package game runs a single round of bingo against simulated rivals.
//
// The main type is Session, a state machine that owns the round's shared
// random stream, the player's card, the drawn balls and the rival roster.
//
// # Basic Usage
//
//	s := game.NewSession("Alice", logger)
//	seed, err := s.Start("BINGO77", game.Normal)
//	// balls are drawn on the difficulty's cadence
//	s.Mark(0, 3)
//	snap := s.Snapshot()
//	if snap.IsOver() { ... }
//
// # Determinism
//
// Every random value in a round comes from one stream seeded by the room
// code: each tick draws a ball first and then rolls once per rival, in roster
// order. The card comes from a separate stream seeded by the room code plus
// the player's name. Two sessions started with the same seed, player and
// roster therefore see identical draws and identical rival progress.
//
// For tests and batch runs, WithManualTicks disables the timer and Step
// drives the round directly:
//
//	s := game.NewSession("Alice", logger, game.WithManualTicks())
//	s.Start("TEST", game.Fast)
//	for s.Step() {
//	    // mark, inspect snapshots...
//	}
//
// # Concurrency
//
// Ticks, marks, starts and resets are serialised behind one mutex so that no
// two mutations interleave on the shared stream. Each round carries a
// generation number; a tick or commentary callback from an earlier round is
// discarded once the session has been reset or restarted. Events are
// published after the mutex is released, so subscribers may call Snapshot.
package game

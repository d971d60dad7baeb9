package main

import (
	"fmt"
	"time"

	"github.com/lox/bingoblitz/internal/fileutil"
	"github.com/lox/bingoblitz/internal/simulator"
)

// SimulateCmd plays rounds with an automatic dauber.
type SimulateCmd struct {
	Rounds   int           `short:"n" default:"1000" help:"Rounds to play"`
	Strategy string        `short:"s" enum:"perfect,sloppy" default:"perfect" help:"Dauber strategy (perfect, sloppy)"`
	MissRate float64       `default:"0.2" help:"Chance the sloppy dauber misses a mark"`
	Seed     int64         `default:"1" help:"Seed for room codes and the sloppy dauber"`
	Player   string        `help:"Player name used to derive cards (defaults to the configured name)"`
	Workers  int           `help:"Parallel rounds (defaults to GOMAXPROCS)"`
	Timeout  time.Duration `default:"5s" help:"Per-round time limit"`
	Out      string        `short:"o" type:"path" help:"Write a JSON report to this file"`
}

func (c *SimulateCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	w, closeLog, err := g.openLog("")
	if err != nil {
		return err
	}
	defer closeLog()
	logger, err := g.logger(cfg, w, "simulate")
	if err != nil {
		return err
	}
	if c.Rounds <= 0 {
		return fmt.Errorf("rounds must be positive, got %d", c.Rounds)
	}

	player := c.Player
	if player == "" {
		player = cfg.Player.Name
	}

	simCfg := simulator.Config{
		Rounds:     c.Rounds,
		Strategy:   c.Strategy,
		MissRate:   c.MissRate,
		Seed:       c.Seed,
		Player:     player,
		Rivals:     cfg.Game.Rivals,
		RivalNames: cfg.RivalNames(),
		Workers:    c.Workers,
		Timeout:    c.Timeout,
		Logger:     logger,
	}

	ctx, cancel := signalContext(logger)
	defer cancel()

	start := time.Now()
	stats, err := simulator.New(simCfg).Run(ctx)
	if err != nil {
		return err
	}
	logger.Info("Simulation complete", "rounds", stats.Rounds, "duration", time.Since(start).Round(time.Millisecond))

	simulator.PrintSummary(g.stdout(), stats, c.Strategy)

	if c.Out != "" {
		if err := fileutil.WriteJSONAtomic(c.Out, simulator.NewReport(stats, simCfg), 0o644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		logger.Info("Wrote report", "path", c.Out)
	}
	return nil
}

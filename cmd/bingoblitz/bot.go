package main

import (
	"fmt"

	"github.com/lox/bingoblitz/internal/client"
)

// BotCmd connects to a server and daubs automatically until the round ends.
type BotCmd struct {
	Server     string `default:"ws://localhost:8080/ws" help:"WebSocket server URL"`
	Name       string `short:"n" help:"Player name (defaults to the configured name)"`
	Room       string `short:"r" help:"Room code (blank for random)"`
	Difficulty string `short:"d" default:"fast" help:"Draw pace: slow, normal or fast"`
}

func (c *BotCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	w, closeLog, err := g.openLog("")
	if err != nil {
		return err
	}
	defer closeLog()
	logger, err := g.logger(cfg, w, "bot")
	if err != nil {
		return err
	}

	name := c.Name
	if name == "" {
		name = cfg.Player.Name
	}

	ctx, cancel := signalContext(logger)
	defer cancel()

	cl := client.New(c.Server, name, logger)
	if err := cl.Connect(ctx); err != nil {
		return err
	}
	defer func() { _ = cl.Close() }()

	if err := cl.Start(c.Room, c.Difficulty); err != nil {
		return err
	}

	dauber := client.NewAutoDauber(logger)
	if err := cl.Run(ctx, dauber); err != nil {
		return err
	}
	if result, ok := dauber.Result(); ok {
		fmt.Fprintln(g.stdout(), result)
	}
	return nil
}

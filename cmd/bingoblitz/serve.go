package main

import (
	"github.com/lox/bingoblitz/internal/server"
)

// ServeCmd runs the websocket server.
type ServeCmd struct {
	Addr string `help:"Listen address (defaults to the configured server address)"`
}

func (c *ServeCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	w, closeLog, err := g.openLog("")
	if err != nil {
		return err
	}
	defer closeLog()
	logger, err := g.logger(cfg, w, "")
	if err != nil {
		return err
	}

	addr := c.Addr
	if addr == "" {
		addr = cfg.Addr()
	}

	s := server.NewServer(logger,
		server.WithCommentaryTimeout(cfg.CommentaryTimeout()),
		server.WithSessionOptions(cfg.SessionOptions()...),
	)

	ctx, cancel := signalContext(logger)
	defer cancel()

	logger.Info("Starting Bingo Blitz server",
		"address", addr,
		"rivals", cfg.Game.Rivals,
		"speeds", cfg.Speeds(),
	)
	return s.ListenAndServe(ctx, addr)
}

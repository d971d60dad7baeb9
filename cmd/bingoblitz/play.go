package main

import (
	"strings"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/bingoblitz/internal/commentary"
	"github.com/lox/bingoblitz/internal/config"
	"github.com/lox/bingoblitz/internal/game"
	"github.com/lox/bingoblitz/internal/tui"
)

// PlayCmd runs the interactive terminal game.
type PlayCmd struct {
	Room       string `short:"r" help:"Room code to prefill (blank for random)"`
	Name       string `short:"n" help:"Nickname to prefill"`
	Difficulty string `short:"d" help:"Draw pace: slow, normal or fast"`
	NoColor    bool   `help:"Disable colours"`
}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}

	// The TUI owns the terminal, so logs always go to a file.
	w, closeLog, err := g.openLog(cfg.Log.File)
	if err != nil {
		return err
	}
	defer closeLog()

	logger, err := g.logger(cfg, w, "play")
	if err != nil {
		return err
	}

	tuiCfg, err := c.tuiConfig(cfg, logger)
	if err != nil {
		return err
	}
	if c.NoColor {
		tui.DisableColor()
	}

	ctx, cancel := signalContext(logger)
	defer cancel()

	logger.Info("Starting interactive game", "player", tuiCfg.Player, "room", tuiCfg.Room, "difficulty", tuiCfg.Difficulty)
	return tui.Run(ctx, tui.NewTUIModel(tuiCfg, logger))
}

// tuiConfig merges flags over the loaded config.
func (c *PlayCmd) tuiConfig(cfg *config.Config, logger *log.Logger) (tui.Config, error) {
	difficulty := cfg.Difficulty()
	if c.Difficulty != "" {
		d, err := game.ParseDifficulty(c.Difficulty)
		if err != nil {
			return tui.Config{}, err
		}
		difficulty = d
	}

	player := cfg.Player.Name
	if c.Name != "" {
		player = c.Name
	}
	room := cfg.Game.RoomCode
	if c.Room != "" {
		room = c.Room
	}

	return tui.Config{
		Player:     strings.TrimSpace(player),
		Room:       strings.TrimSpace(room),
		Difficulty: difficulty,
		NewSession: sessionFactory(cfg, quartz.NewReal(), logger),
	}, nil
}

// sessionFactory builds sessions with the configured speeds, roster and
// commentary.
func sessionFactory(cfg *config.Config, clock quartz.Clock, logger *log.Logger) tui.SessionFactory {
	return func(player string) *game.Session {
		announcer := commentary.NewAnnouncer(nil, clock, cfg.CommentaryTimeout(), logger)
		opts := append([]game.Option{
			game.WithClock(clock),
			game.WithAnnouncer(announcer),
		}, cfg.SessionOptions()...)
		return game.NewSession(player, logger, opts...)
	}
}

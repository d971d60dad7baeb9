package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/lox/bingoblitz/internal/config"
)

// Globals are flags shared by every command.
type Globals struct {
	Config   string `short:"c" default:"bingoblitz.hcl" type:"path" help:"HCL config file (ignored if missing)"`
	Debug    bool   `help:"Enable debug logging"`
	JSONLogs bool   `name:"json-logs" help:"Log as JSON"`
	LogFile  string `type:"path" help:"Write logs to this file instead of stderr"`

	Stdout io.Writer `kong:"-"`
}

func (g *Globals) stdout() io.Writer {
	if g.Stdout != nil {
		return g.Stdout
	}
	return os.Stdout
}

// loadConfig reads the config file and environment and validates the result.
func (g *Globals) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openLog returns the log destination: --log-file if given, else fallback
// (a path, or stderr when empty). The returned func closes any opened file.
func (g *Globals) openLog(fallback string) (io.Writer, func(), error) {
	path := g.LogFile
	if path == "" {
		path = fallback
	}
	if path == "" {
		return os.Stderr, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create log file: %w", err)
	}
	return f, func() {
		if err := f.Close(); err != nil {
			log.Error("Failed to close log file", "error", err)
		}
	}, nil
}

// logger builds a logger writing to w at the configured level.
func (g *Globals) logger(cfg *config.Config, w io.Writer, prefix string) (*log.Logger, error) {
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	if g.Debug {
		level = log.DebugLevel
	}

	opts := log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Prefix:          prefix,
	}
	if g.JSONLogs {
		opts.Formatter = log.JSONFormatter
	}
	return log.NewWithOptions(w, opts), nil
}

package main

import (
	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Play     PlayCmd          `cmd:"" default:"withargs" help:"Play bingo in the terminal"`
	Serve    ServeCmd         `cmd:"" help:"Serve sessions over websockets"`
	Simulate SimulateCmd      `cmd:"" help:"Play many rounds headlessly and report statistics"`
	Card     CardCmd          `cmd:"" help:"Print the card a player holds in a room"`
	RoomCode RoomCodeCmd      `cmd:"room-code" help:"Generate or check room codes"`
	Bot      BotCmd           `cmd:"" help:"Connect to a server and daub automatically"`
}

func main() {
	// A missing .env is normal.
	_ = godotenv.Load()

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("bingoblitz"),
		kong.Description("Deterministic speed bingo against simulated rivals"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}

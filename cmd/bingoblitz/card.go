package main

import (
	"encoding/json"
	"fmt"

	"github.com/lox/bingoblitz/internal/card"
	"github.com/lox/bingoblitz/internal/roomcode"
)

// CardCmd prints the card derived from a room code and player name.
type CardCmd struct {
	Seed   string `arg:"" help:"Room code"`
	Player string `short:"p" help:"Player name"`
	JSON   bool   `help:"Print as JSON"`
}

func (c *CardCmd) Run(g *Globals) error {
	seed := roomcode.Normalize(c.Seed)
	if err := roomcode.Validate(seed); err != nil {
		return err
	}
	cd := card.Generate(card.DeriveSeed(seed, c.Player))

	w := g.stdout()
	if c.JSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(cd)
	}
	fmt.Fprintf(w, "Room %s, player %q\n", seed, c.Player)
	fmt.Fprint(w, cd.String())
	return nil
}

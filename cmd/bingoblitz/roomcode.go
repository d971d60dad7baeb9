package main

import (
	"fmt"

	"github.com/lox/bingoblitz/internal/roomcode"
)

// RoomCodeCmd validates the given codes, or generates new ones.
type RoomCodeCmd struct {
	Codes []string `arg:"" optional:"" help:"Codes to check"`
	Count int      `short:"n" default:"1" help:"How many codes to generate when none are given"`
}

func (c *RoomCodeCmd) Run(g *Globals) error {
	w := g.stdout()
	if len(c.Codes) == 0 {
		for range c.Count {
			fmt.Fprintln(w, roomcode.Generate())
		}
		return nil
	}

	var invalid int
	for _, code := range c.Codes {
		normalized := roomcode.Normalize(code)
		if err := roomcode.Validate(normalized); err != nil {
			fmt.Fprintf(w, "%q: %v\n", code, err)
			invalid++
			continue
		}
		fmt.Fprintf(w, "%s ok\n", normalized)
	}
	if invalid > 0 {
		return fmt.Errorf("%d of %d codes invalid", invalid, len(c.Codes))
	}
	return nil
}

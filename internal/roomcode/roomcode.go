// Package roomcode creates and checks the short codes players share to
// replay the same draw order. A room code is only a seed; nothing is
// synchronised between players.
package roomcode

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"unicode"
)

// Prefix starts every generated code.
const Prefix = "BINGO"

// MaxLen bounds user supplied codes.
const MaxLen = 32

// ErrInvalid is wrapped by Validate failures.
var ErrInvalid = errors.New("invalid room code")

// RandSource interface for dependency injection of randomness
type RandSource interface {
	IntN(n int) int
}

// Generator creates room codes with configurable randomness
type Generator struct {
	randSource RandSource
}

// NewGenerator creates a new generator with optional RandSource
func NewGenerator(randSource RandSource) *Generator {
	return &Generator{randSource: randSource}
}

// Generate creates a code such as "BINGO417" using crypto/rand.
func Generate() string {
	return NewGenerator(nil).Generate()
}

// Generate creates a new code using the generator's RandSource
func (g *Generator) Generate() string {
	return fmt.Sprintf("%s%d", Prefix, g.intN(999))
}

func (g *Generator) intN(n int) int {
	if g.randSource != nil {
		return g.randSource.IntN(n)
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("failed to generate random room code: " + err.Error())
	}
	return int(v.Int64())
}

// Normalize trims surrounding space and upper-cases code, matching how
// codes are typed into the lobby.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate checks a normalised code: non-empty, at most MaxLen characters,
// letters, digits and dashes only.
func Validate(code string) error {
	if code == "" {
		return fmt.Errorf("%w: empty", ErrInvalid)
	}
	if n := len([]rune(code)); n > MaxLen {
		return fmt.Errorf("%w: %d characters, maximum is %d", ErrInvalid, n, MaxLen)
	}
	for i, r := range code {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' {
			return fmt.Errorf("%w: character %q at position %d", ErrInvalid, r, i)
		}
	}
	return nil
}

// Package card models a 5x5 bingo card and its deterministic generation.
package card

import (
	"fmt"
	"slices"
	"strings"

	"github.com/lox/bingoblitz/internal/randutil"
)

// Size is the number of rows and columns on a card.
const Size = 5

// Free is the sentinel value of the centre cell.
const Free = 0

// CentreRow and CentreCol locate the free cell.
const (
	CentreRow = 2
	CentreCol = 2
)

// MaxNumber is the highest ball in a 75-ball game.
const MaxNumber = 75

// Column is one of the five lettered columns.
type Column int

const (
	B Column = iota
	I
	N
	G
	O
)

var letters = [Size]string{"B", "I", "N", "G", "O"}

// String returns the column letter.
func (c Column) String() string {
	if c < B || c > O {
		return "?"
	}
	return letters[c]
}

// Range returns the inclusive bounds of numbers that may appear in c.
func (c Column) Range() (min, max int) {
	min = int(c)*15 + 1
	return min, min + 14
}

// ColumnOf returns the column a ball number belongs to.
func ColumnOf(n int) Column {
	return Column((n - 1) / 15)
}

// Label formats a ball number with its column letter, e.g. "B-12".
func Label(n int) string {
	if n < 1 || n > MaxNumber {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%s-%d", ColumnOf(n), n)
}

// Cell is a single square on the card.
type Cell struct {
	Value   int  `json:"value"` // 1..75, or Free
	Marked  bool `json:"marked"`
	Winning bool `json:"winning"`
}

// IsFree reports whether the cell is the free centre square.
func (c Cell) IsFree() bool {
	return c.Value == Free
}

// Card is indexed [row][col]; column 0 holds the B range.
type Card [Size][Size]Cell

// Pos addresses a cell.
type Pos struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// InBounds reports whether p lies on the card.
func (p Pos) InBounds() bool {
	return p.Row >= 0 && p.Row < Size && p.Col >= 0 && p.Col < Size
}

// DeriveSeed combines a room seed with the player's identity so each player
// in a room gets a distinct card while the draw order stays shared.
func DeriveSeed(room, player string) string {
	return room + player
}

// Generate builds a card from seed. The same seed always yields the same card.
func Generate(seed string) *Card {
	return GenerateFrom(randutil.NewStream(seed))
}

// GenerateFrom builds a card drawing from src: five distinct values per
// column by rejection sampling, sorted ascending, then laid out row-major.
func GenerateFrom(src randutil.Source) *Card {
	var c Card
	for col := B; col <= O; col++ {
		min, max := col.Range()
		values := sampleDistinct(src, min, max, Size)
		for row, v := range values {
			c[row][col] = Cell{Value: v}
		}
	}
	c[CentreRow][CentreCol] = Cell{Value: Free, Marked: true}
	return &c
}

func sampleDistinct(src randutil.Source, min, max, count int) []int {
	seen := make(map[int]bool, count)
	values := make([]int, 0, count)
	for len(values) < count {
		n := randutil.IntRange(src, min, max)
		if seen[n] {
			continue
		}
		seen[n] = true
		values = append(values, n)
	}
	slices.Sort(values)
	return values
}

// Column returns the values of column col from top to bottom.
func (c *Card) Column(col Column) [Size]int {
	var out [Size]int
	for row := 0; row < Size; row++ {
		out[row] = c[row][col].Value
	}
	return out
}

// Find returns the position of value n on the card.
func (c *Card) Find(n int) (Pos, bool) {
	if n < 1 || n > MaxNumber {
		return Pos{}, false
	}
	col := int(ColumnOf(n))
	for row := 0; row < Size; row++ {
		if c[row][col].Value == n {
			return Pos{Row: row, Col: col}, true
		}
	}
	return Pos{}, false
}

// MarkedCount returns the number of marked cells, including the free cell.
func (c *Card) MarkedCount() int {
	count := 0
	for row := range c {
		for col := range c[row] {
			if c[row][col].Marked {
				count++
			}
		}
	}
	return count
}

// Clone returns a deep copy.
func (c *Card) Clone() *Card {
	cp := *c
	return &cp
}

// String renders the card as a plain text grid.
func (c *Card) String() string {
	var sb strings.Builder
	for _, l := range letters {
		fmt.Fprintf(&sb, "%5s", l)
	}
	sb.WriteString("\n")
	for row := range c {
		for col := range c[row] {
			cell := c[row][col]
			switch {
			case cell.IsFree():
				fmt.Fprintf(&sb, "%5s", "FREE")
			case cell.Marked:
				fmt.Fprintf(&sb, "%4d*", cell.Value)
			default:
				fmt.Fprintf(&sb, "%5d", cell.Value)
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

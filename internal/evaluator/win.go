package evaluator

import (
	"fmt"

	"github.com/lox/bingoblitz/internal/card"
)

// Pattern identifies which line completed a card.
type Pattern int

const (
	None Pattern = iota
	Row
	Column
	Diagonal     // top-left to bottom-right
	AntiDiagonal // top-right to bottom-left
)

// String returns a readable description of the pattern kind.
func (p Pattern) String() string {
	switch p {
	case Row:
		return "row"
	case Column:
		return "column"
	case Diagonal:
		return "diagonal"
	case AntiDiagonal:
		return "anti-diagonal"
	default:
		return "none"
	}
}

// Result describes the outcome of a win check.
type Result struct {
	Won     bool
	Pattern Pattern
	Index   int // row or column index; 0 for diagonals
	Cells   []card.Pos
}

// Describe renders the result for logs and commentary, e.g. "row 1".
func (r Result) Describe() string {
	switch r.Pattern {
	case Row, Column:
		return fmt.Sprintf("%s %d", r.Pattern, r.Index+1)
	default:
		return r.Pattern.String()
	}
}

// CheckWin evaluates c for a completed line. Rows are checked top to bottom,
// then columns left to right, then the main diagonal, then the
// anti-diagonal; only the first complete line is reported. The card is not
// modified.
func CheckWin(c *card.Card) Result {
	for row := 0; row < card.Size; row++ {
		if line := rowCells(row); complete(c, line) {
			return Result{Won: true, Pattern: Row, Index: row, Cells: line}
		}
	}

	for col := 0; col < card.Size; col++ {
		if line := colCells(col); complete(c, line) {
			return Result{Won: true, Pattern: Column, Index: col, Cells: line}
		}
	}

	if line := diagCells(); complete(c, line) {
		return Result{Won: true, Pattern: Diagonal, Cells: line}
	}

	if line := antiDiagCells(); complete(c, line) {
		return Result{Won: true, Pattern: AntiDiagonal, Cells: line}
	}

	return Result{}
}

// Lines returns every winnable line in evaluation order.
func Lines() [][]card.Pos {
	lines := make([][]card.Pos, 0, 2*card.Size+2)
	for row := 0; row < card.Size; row++ {
		lines = append(lines, rowCells(row))
	}
	for col := 0; col < card.Size; col++ {
		lines = append(lines, colCells(col))
	}
	return append(lines, diagCells(), antiDiagCells())
}

// Closest returns how many unmarked cells remain on the line nearest to
// completion.
func Closest(c *card.Card) int {
	best := card.Size
	for _, line := range Lines() {
		missing := 0
		for _, p := range line {
			if !c[p.Row][p.Col].Marked {
				missing++
			}
		}
		best = min(best, missing)
	}
	return best
}

func complete(c *card.Card, line []card.Pos) bool {
	for _, p := range line {
		if !c[p.Row][p.Col].Marked {
			return false
		}
	}
	return true
}

func rowCells(row int) []card.Pos {
	cells := make([]card.Pos, card.Size)
	for col := range cells {
		cells[col] = card.Pos{Row: row, Col: col}
	}
	return cells
}

func colCells(col int) []card.Pos {
	cells := make([]card.Pos, card.Size)
	for row := range cells {
		cells[row] = card.Pos{Row: row, Col: col}
	}
	return cells
}

func diagCells() []card.Pos {
	cells := make([]card.Pos, card.Size)
	for i := range cells {
		cells[i] = card.Pos{Row: i, Col: i}
	}
	return cells
}

func antiDiagCells() []card.Pos {
	cells := make([]card.Pos, card.Size)
	for i := range cells {
		cells[i] = card.Pos{Row: i, Col: card.Size - 1 - i}
	}
	return cells
}

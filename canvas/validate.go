package canvas

import (
	"fmt"
	"strings"
)

// Problem is a line character whose neighbour does not continue it.
type Problem struct {
	Cell      Cell
	Char      rune
	Neighbour rune
	Side      rune // compass letter of the neighbour
}

func (p Problem) String() string {
	return fmt.Sprintf("(%d,%d) '%c': %c neighbour '%c' does not connect",
		p.Cell.X, p.Cell.Y, p.Char, p.Side, p.Neighbour)
}

// openings lists, per box-drawing character, the sides a line leaves it by.
var openings = map[rune]string{
	'─': "EW",
	'│': "NS",
	'╭': "ES",
	'╮': "SW",
	'╰': "NE",
	'╯': "NW",
	'├': "NES",
	'┤': "NSW",
	'┬': "ESW",
	'┴': "NEW",
	'┼': "NESW",
}

// Validate checks that every box-drawing character on c joins up with its
// neighbours. Blanks, text, shape outlines and arrow heads never conflict.
func Validate(c *MatrixCanvas) []Problem {
	var problems []Problem
	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			char := c.matrix[y][x]
			open, ok := openings[char]
			if !ok {
				continue
			}
			for _, side := range open {
				n := c.Get(step(Cell{x, y}, side))
				nOpen, isLine := openings[n]
				if isLine && !strings.ContainsRune(nOpen, opposite(side)) {
					problems = append(problems, Problem{
						Cell:      Cell{x, y},
						Char:      char,
						Neighbour: n,
						Side:      side,
					})
				}
			}
		}
	}
	return problems
}

func step(p Cell, side rune) Cell {
	switch side {
	case 'N':
		return Cell{p.X, p.Y - 1}
	case 'S':
		return Cell{p.X, p.Y + 1}
	case 'E':
		return Cell{p.X + 1, p.Y}
	default:
		return Cell{p.X - 1, p.Y}
	}
}

func opposite(side rune) rune {
	switch side {
	case 'N':
		return 'S'
	case 'S':
		return 'N'
	case 'E':
		return 'W'
	default:
		return 'E'
	}
}

// Package canvas renders scenes onto a character grid for previews in the
// terminal.
package canvas

import (
	"errors"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Common errors
var (
	ErrOutOfBounds = errors.New("position out of bounds")
	ErrInvalidSize = errors.New("invalid canvas size")
)

// Cell addresses a character position. Origin is top-left, X grows to the
// right and Y grows downward.
type Cell struct {
	X, Y int
}

// MatrixCanvas is a rune matrix with line drawing primitives. It is not
// safe for concurrent writes.
type MatrixCanvas struct {
	matrix [][]rune
	width  int
	height int
}

// NewMatrixCanvas creates a blank canvas.
func NewMatrixCanvas(width, height int) (*MatrixCanvas, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidSize
	}

	matrix := make([][]rune, height)
	for y := 0; y < height; y++ {
		matrix[y] = make([]rune, width)
		for x := 0; x < width; x++ {
			matrix[y][x] = ' '
		}
	}
	return &MatrixCanvas{matrix: matrix, width: width, height: height}, nil
}

// Size returns the width and height of the canvas.
func (c *MatrixCanvas) Size() (width, height int) {
	return c.width, c.height
}

// Get returns the character at p, or a space outside the canvas.
func (c *MatrixCanvas) Get(p Cell) rune {
	if !c.inside(p) {
		return ' '
	}
	return c.matrix[p.Y][p.X]
}

// Set places a character at p.
func (c *MatrixCanvas) Set(p Cell, char rune) error {
	if !c.inside(p) {
		return ErrOutOfBounds
	}
	c.matrix[p.Y][p.X] = char
	return nil
}

// Clear resets the canvas to all spaces.
func (c *MatrixCanvas) Clear() {
	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			c.matrix[y][x] = ' '
		}
	}
}

// String returns the canvas rows joined by newlines, with trailing spaces
// trimmed.
func (c *MatrixCanvas) String() string {
	var sb strings.Builder
	sb.Grow(c.height * (c.width + 1))

	for y := 0; y < c.height; y++ {
		var row strings.Builder
		for x := 0; x < c.width; x++ {
			r := c.matrix[y][x]
			if r == '\x00' {
				continue // Wide character continuation
			}
			row.WriteRune(r)
		}
		sb.WriteString(strings.TrimRight(row.String(), " "))
		if y < c.height-1 {
			sb.WriteRune('\n')
		}
	}
	return sb.String()
}

// DrawHorizontalLine draws a clipped horizontal line. Existing corner
// characters are preserved.
func (c *MatrixCanvas) DrawHorizontalLine(x1, y, x2 int, char rune) {
	if y < 0 || y >= c.height {
		return
	}
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	for x := max(x1, 0); x <= min(x2, c.width-1); x++ {
		c.matrix[y][x] = merge(c.matrix[y][x], char)
	}
}

// DrawVerticalLine draws a clipped vertical line. Existing corner
// characters are preserved.
func (c *MatrixCanvas) DrawVerticalLine(x, y1, y2 int, char rune) {
	if x < 0 || x >= c.width {
		return
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	for y := max(y1, 0); y <= min(y2, c.height-1); y++ {
		c.matrix[y][x] = merge(c.matrix[y][x], char)
	}
}

// DrawLine draws a line between two cells using Bresenham's algorithm.
func (c *MatrixCanvas) DrawLine(p1, p2 Cell, char rune) {
	dx := abs(p2.X - p1.X)
	dy := abs(p2.Y - p1.Y)
	x, y := p1.X, p1.Y

	xInc := 1
	if p1.X > p2.X {
		xInc = -1
	}
	yInc := 1
	if p1.Y > p2.Y {
		yInc = -1
	}

	if dx > dy {
		err := dx / 2
		for x != p2.X {
			c.Set(Cell{x, y}, char)
			err -= dy
			if err < 0 {
				y += yInc
				err += dx
			}
			x += xInc
		}
	} else {
		err := dy / 2
		for y != p2.Y {
			c.Set(Cell{x, y}, char)
			err -= dx
			if err < 0 {
				x += xInc
				err += dy
			}
			y += yInc
		}
	}
	c.Set(p2, char)
}

// DrawText renders text starting at (x, y), clipped to the canvas.
func (c *MatrixCanvas) DrawText(x, y int, text string) {
	if y < 0 || y >= c.height {
		return
	}
	cur := x
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if cur >= c.width || (w == 2 && cur+1 >= c.width) {
			break
		}
		if cur >= 0 {
			c.matrix[y][cur] = r
			if w == 2 {
				c.matrix[y][cur+1] = '\x00'
			}
		}
		cur += w
	}
}

// DrawPath draws an orthogonal polyline with rounded corners at the
// joints. Diagonal segments are drawn with '*'.
func (c *MatrixCanvas) DrawPath(points []Cell) {
	for i := 0; i+1 < len(points); i++ {
		p1, p2 := points[i], points[i+1]
		switch {
		case p1 == p2:
		case p1.Y == p2.Y:
			c.DrawHorizontalLine(p1.X, p1.Y, p2.X, '─')
		case p1.X == p2.X:
			c.DrawVerticalLine(p1.X, p1.Y, p2.Y, '│')
		default:
			c.DrawLine(p1, p2, '*')
		}
	}
	for i := 1; i+1 < len(points); i++ {
		prev, curr, next := points[i-1], points[i], points[i+1]
		if prev == curr || curr == next {
			continue
		}
		c.Set(curr, selectCorner(direction(prev, curr), direction(curr, next)))
	}
}

// selectCorner chooses the corner character joining two directions.
func selectCorner(from, to rune) rune {
	switch {
	case from == 'E' && to == 'S', from == 'N' && to == 'W':
		return '╮'
	case from == 'E' && to == 'N', from == 'S' && to == 'W':
		return '╯'
	case from == 'W' && to == 'S', from == 'N' && to == 'E':
		return '╭'
	case from == 'W' && to == 'N', from == 'S' && to == 'E':
		return '╰'
	case from == to && (from == 'E' || from == 'W'):
		return '─'
	case from == to:
		return '│'
	default:
		return '┼'
	}
}

// direction returns the compass letter from p1 to p2.
func direction(p1, p2 Cell) rune {
	switch {
	case p2.X > p1.X:
		return 'E'
	case p2.X < p1.X:
		return 'W'
	case p2.Y > p1.Y:
		return 'S'
	default:
		return 'N'
	}
}

// merge resolves a line crossing an existing character.
func merge(existing, char rune) rune {
	switch {
	case existing == ' ' || existing == char:
		return char
	case existing == '─' && char == '│', existing == '│' && char == '─':
		return '┼'
	case strings.ContainsRune("╭╮╰╯┼", existing):
		return existing
	default:
		return char
	}
}

func (c *MatrixCanvas) inside(p Cell) bool {
	return p.X >= 0 && p.X < c.width && p.Y >= 0 && p.Y < c.height
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

package canvas

import (
	"math"

	polyclip "github.com/akavel/polyclip-go"
	"github.com/mattn/go-runewidth"

	"diagrid/anchors"
	"diagrid/diagram"
)

// Viewport maps world coordinates onto canvas cells.
type Viewport struct {
	Origin     diagram.Point // World point shown in cell (0,0)
	CellWidth  float64       // World units per column
	CellHeight float64       // World units per row
}

// ToCell returns the cell showing world point p.
func (v Viewport) ToCell(p diagram.Point) Cell {
	return Cell{
		X: int(math.Round((p.X - v.Origin.X) / v.CellWidth)),
		Y: int(math.Round((p.Y - v.Origin.Y) / v.CellHeight)),
	}
}

// ToWorld returns the world point at the center of cell c.
func (v Viewport) ToWorld(c Cell) diagram.Point {
	return diagram.Point{
		X: v.Origin.X + float64(c.X)*v.CellWidth,
		Y: v.Origin.Y + float64(c.Y)*v.CellHeight,
	}
}

// Fit returns a viewport showing every shape within cols x rows cells,
// keeping terminal cells twice as tall as they are wide.
func Fit(shapes []diagram.Shape, cols, rows int) Viewport {
	if len(shapes) == 0 || cols <= 2 || rows <= 2 {
		return Viewport{CellWidth: 10, CellHeight: 20}
	}

	var outline polyclip.Contour
	for _, s := range shapes {
		b := s.Bounds()
		outline = append(outline,
			polyclip.Point{X: b.Min.X, Y: b.Min.Y},
			polyclip.Point{X: b.Max.X, Y: b.Max.Y})
		for _, p := range s.Points {
			outline = append(outline, polyclip.Point{X: s.X + p.X, Y: s.Y + p.Y})
		}
	}
	bb := outline.BoundingBox()

	w := math.Max(bb.Max.X-bb.Min.X, 1)
	h := math.Max(bb.Max.Y-bb.Min.Y, 1)
	unit := math.Max(w/float64(cols-2), h/float64(rows-2)/2)
	return Viewport{
		Origin:     diagram.Point{X: bb.Min.X - unit, Y: bb.Min.Y - 2*unit},
		CellWidth:  unit,
		CellHeight: 2 * unit,
	}
}

// Render draws shapes in order: outlines with their id, then connectors
// along their points.
func Render(c *MatrixCanvas, v Viewport, shapes []diagram.Shape) {
	for _, s := range shapes {
		if !s.IsConnector() {
			drawShape(c, v, s)
		}
	}
	for _, s := range shapes {
		if s.IsConnector() {
			drawConnector(c, v, s)
		}
	}
}

// glyph returns the outline character of a shape kind.
func glyph(k diagram.ShapeKind) rune {
	switch {
	case k.IsElliptical():
		return 'o'
	case k == diagram.KindDiamond:
		return '+'
	case k == diagram.KindText:
		return '.'
	default:
		return '#'
	}
}

// drawShape marks every cell inside the shape that has a neighbour outside
// it. Shapes too small to cover a cell center get a single mark.
func drawShape(c *MatrixCanvas, v Viewport, s diagram.Shape) {
	b := s.Bounds()
	lo, hi := v.ToCell(b.Min), v.ToCell(b.Max)
	ch := glyph(s.Kind)

	inside := func(x, y int) bool {
		return anchors.Contains(s, v.ToWorld(Cell{x, y}))
	}
	marked := false
	for y := lo.Y; y <= hi.Y; y++ {
		for x := lo.X; x <= hi.X; x++ {
			if !inside(x, y) {
				continue
			}
			if !inside(x-1, y) || !inside(x+1, y) || !inside(x, y-1) || !inside(x, y+1) {
				c.Set(Cell{x, y}, ch)
				marked = true
			}
		}
	}
	if !marked {
		c.Set(v.ToCell(b.Center()), ch)
	}

	label := v.ToCell(b.Center())
	c.DrawText(label.X-runewidth.StringWidth(s.ID)/2, label.Y, s.ID)
}

// drawConnector draws the connector's route and an arrow head for arrows.
func drawConnector(c *MatrixCanvas, v Viewport, s diagram.Shape) {
	world := absolutePoints(s)
	cells := make([]Cell, len(world))
	for i, p := range world {
		cells[i] = v.ToCell(p)
	}
	c.DrawPath(cells)

	if s.Kind != diagram.KindArrow || len(cells) < 2 {
		return
	}
	last := cells[len(cells)-1]
	for i := len(cells) - 2; i >= 0; i-- {
		if cells[i] != last {
			c.Set(last, head(direction(cells[i], last)))
			return
		}
	}
}

// absolutePoints returns the connector's points in world coordinates, or
// its two endpoints when it has none.
func absolutePoints(s diagram.Shape) []diagram.Point {
	if len(s.Points) < 2 {
		return []diagram.Point{s.StartPoint(), s.EndPoint()}
	}
	out := make([]diagram.Point, len(s.Points))
	for i, p := range s.Points {
		out[i] = s.StartPoint().Add(p)
	}
	return out
}

func head(dir rune) rune {
	switch dir {
	case 'E':
		return '>'
	case 'W':
		return '<'
	case 'S':
		return 'v'
	default:
		return '^'
	}
}

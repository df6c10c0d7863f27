package anchors

import (
	"math"

	polyclip "github.com/akavel/polyclip-go"

	"diagrid/diagram"
	"diagrid/geometry"
)

// ellipseSegments is the number of vertices used to approximate ellipses.
const ellipseSegments = 32

// Outline returns the visible outline of s as a closed contour in world
// coordinates, rotation included.
func Outline(s diagram.Shape) polyclip.Contour {
	c := s.Center()
	hw := math.Abs(s.Width) / 2
	hh := math.Abs(s.Height) / 2

	var pts []diagram.Point
	switch {
	case s.Kind.IsElliptical():
		pts = make([]diagram.Point, ellipseSegments)
		for i := range pts {
			a := 2 * math.Pi * float64(i) / ellipseSegments
			pts[i] = diagram.Point{X: c.X + hw*math.Cos(a), Y: c.Y + hh*math.Sin(a)}
		}
	case s.Kind == diagram.KindDiamond:
		pts = []diagram.Point{
			{X: c.X, Y: c.Y - hh},
			{X: c.X + hw, Y: c.Y},
			{X: c.X, Y: c.Y + hh},
			{X: c.X - hw, Y: c.Y},
		}
	default:
		pts = []diagram.Point{
			{X: c.X - hw, Y: c.Y - hh},
			{X: c.X + hw, Y: c.Y - hh},
			{X: c.X + hw, Y: c.Y + hh},
			{X: c.X - hw, Y: c.Y + hh},
		}
	}

	contour := make(polyclip.Contour, len(pts))
	for i, p := range pts {
		p = geometry.Rotate(p, c, s.Angle)
		contour[i] = polyclip.Point{X: p.X, Y: p.Y}
	}
	return contour
}

// Contains reports whether p lies inside the outline of s.
func Contains(s diagram.Shape, p diagram.Point) bool {
	return Outline(s).Contains(polyclip.Point{X: p.X, Y: p.Y})
}

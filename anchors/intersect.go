package anchors

import (
	"math"

	"diagrid/diagram"
	"diagrid/geometry"
)

// IntersectWithLine returns the point where the ray from the center of s
// toward external crosses the outline of s grown by gap. Rotated shapes are
// intersected in their own frame and the result is rotated back.
func (Resolver) IntersectWithLine(s diagram.Shape, external diagram.Point, gap float64) (diagram.Point, bool) {
	c := s.Center()
	p := geometry.Rotate(external, c, -s.Angle)
	dx, dy := p.X-c.X, p.Y-c.Y

	hw := math.Abs(s.Width)/2 + gap
	hh := math.Abs(s.Height)/2 + gap

	var hit diagram.Point
	switch {
	case s.Kind.IsElliptical():
		if dx == 0 && dy == 0 {
			return diagram.Point{}, false
		}
		if hw <= 0 || hh <= 0 {
			return c, true
		}
		t := 1 / math.Sqrt(dx*dx/(hw*hw)+dy*dy/(hh*hh))
		hit = diagram.Point{X: c.X + dx*t, Y: c.Y + dy*t}

	case s.Kind == diagram.KindDiamond:
		if dx == 0 && dy == 0 {
			return c, true
		}
		if hw <= 0 || hh <= 0 {
			return c, true
		}
		// |x|/hw + |y|/hh = 1 along the ray.
		t := 1 / (math.Abs(dx)/hw + math.Abs(dy)/hh)
		hit = diagram.Point{X: c.X + dx*t, Y: c.Y + dy*t}

	default:
		if dx == 0 && dy == 0 {
			return c, true
		}
		t := math.Inf(1)
		if dx != 0 {
			t = math.Min(t, hw/math.Abs(dx))
		}
		if dy != 0 {
			t = math.Min(t, hh/math.Abs(dy))
		}
		if math.IsInf(t, 1) || t <= 0 {
			return c, true
		}
		hit = diagram.Point{X: c.X + dx*t, Y: c.Y + dy*t}
	}

	return geometry.Rotate(hit, c, s.Angle), true
}

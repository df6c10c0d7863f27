package pathfinding

import (
	"math"

	"diagrid/diagram"
	"diagrid/geometry"
)

// RouteDirect computes an elbow route with the default configuration.
// See Router.RouteDirect.
func RouteDirect(start, end diagram.Point, startDir, endDir diagram.Side) []diagram.Point {
	return defaultRouter.RouteDirect(start, end, startDir, endDir)
}

// RouteDirect creates a simple orthogonal path without obstacle avoidance.
// It never fails and always returns at least [start, end].
//
// Without cardinal directions the path bends twice through the horizontal
// midpoint. With a direction on either end a stub of StubLength is forced
// out of that side and the stubs are joined by a single bend, whose axis
// follows the start stub (or the larger displacement when only the end
// direction is known).
func (r *Router) RouteDirect(start, end diagram.Point, startDir, endDir diagram.Side) []diagram.Point {
	eps := r.cfg.Epsilon

	if !startDir.IsCardinal() && !endDir.IsCardinal() {
		midX := (start.X + end.X) / 2
		points := []diagram.Point{
			start,
			{X: midX, Y: start.Y},
			{X: midX, Y: end.Y},
			end,
		}
		return finish(Simplify(points, eps), start, end)
	}

	s1 := stub(start, startDir, r.cfg.StubLength)
	e1 := stub(end, endDir, r.cfg.StubLength)

	var horizontalFirst bool
	if startDir.IsCardinal() {
		horizontalFirst = startDir.IsHorizontal()
		v := startDir.Vector()
		// Never double back over the start stub.
		if horizontalFirst && (e1.X-s1.X)*v.X < 0 {
			horizontalFirst = false
		} else if !horizontalFirst && (e1.Y-s1.Y)*v.Y < 0 {
			horizontalFirst = true
		}
	} else {
		horizontalFirst = math.Abs(end.X-start.X) > math.Abs(end.Y-start.Y)
	}

	bend := diagram.Point{X: s1.X, Y: e1.Y}
	if horizontalFirst {
		bend = diagram.Point{X: e1.X, Y: s1.Y}
	}

	points := []diagram.Point{start, s1, bend, e1, end}
	if horizontal, ok := foldsBack(points, eps); ok {
		// All points share one line and the walk reverses on it. Jog
		// sideways by a stub length so both stubs keep their direction.
		jog := diagram.Point{Y: r.cfg.StubLength}
		if !horizontal {
			jog = diagram.Point{X: r.cfg.StubLength}
		}
		points = []diagram.Point{start, s1, s1.Add(jog), e1.Add(jog), e1, end}
	}
	return finish(Simplify(points, eps), start, end)
}

// foldsBack reports whether points lie on one axis-aligned line along which
// the walk changes direction. horizontal tells which axis the line follows.
func foldsBack(points []diagram.Point, eps float64) (horizontal, ok bool) {
	sameY, sameX := true, true
	for _, p := range points[1:] {
		sameY = sameY && geometry.Near(p.Y, points[0].Y, eps)
		sameX = sameX && geometry.Near(p.X, points[0].X, eps)
	}
	if sameY == sameX {
		return false, false
	}

	var forward, backward bool
	for i := 1; i < len(points); i++ {
		d := points[i].X - points[i-1].X
		if sameX {
			d = points[i].Y - points[i-1].Y
		}
		switch {
		case d > eps:
			forward = true
		case d < -eps:
			backward = true
		}
	}
	return sameY, forward && backward
}

// stub returns p moved length units out through side, or p itself when the
// side is not cardinal.
func stub(p diagram.Point, side diagram.Side, length float64) diagram.Point {
	v := side.Vector()
	return diagram.Point{X: p.X + v.X*length, Y: p.Y + v.Y*length}
}

package pathfinding

import (
	"diagrid/diagram"
	"diagrid/geometry"
)

// Simplify removes consecutive points closer than eps and collapses every
// run of three points sharing an x or a y coordinate into its two ends. The
// last point of the input is always kept verbatim.
func Simplify(points []diagram.Point, eps float64) []diagram.Point {
	if len(points) == 0 {
		return nil
	}

	deduped := make([]diagram.Point, 0, len(points))
	deduped = append(deduped, points[0])
	for i := 1; i < len(points); i++ {
		p := points[i]
		last := len(deduped) - 1
		if geometry.NearPoint(p, deduped[last], eps) {
			if i == len(points)-1 && last > 0 {
				deduped[last] = p
			}
			continue
		}
		deduped = append(deduped, p)
	}

	out := make([]diagram.Point, 0, len(deduped))
	for _, p := range deduped {
		for len(out) >= 2 && collinear(out[len(out)-2], out[len(out)-1], p, eps) {
			out = out[:len(out)-1]
		}
		out = append(out, p)
	}
	return out
}

// collinear returns true if a, b and c all share an x or all share a y.
func collinear(a, b, c diagram.Point, eps float64) bool {
	sameX := geometry.Near(a.X, b.X, eps) && geometry.Near(b.X, c.X, eps)
	sameY := geometry.Near(a.Y, b.Y, eps) && geometry.Near(b.Y, c.Y, eps)
	return sameX || sameY
}

// finish guarantees a renderable route: at least two points, starting at
// start and ending at end.
func finish(points []diagram.Point, start, end diagram.Point) []diagram.Point {
	if len(points) < 2 {
		return []diagram.Point{start, end}
	}
	points[0] = start
	points[len(points)-1] = end
	return points
}

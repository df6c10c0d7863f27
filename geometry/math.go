// Package geometry holds small numeric helpers for world coordinates.
package geometry

import (
	"math"

	"diagrid/diagram"
)

// Near returns true if a and b differ by less than eps.
func Near(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

// NearPoint returns true if both coordinates of p and q differ by less than eps.
func NearPoint(p, q diagram.Point, eps float64) bool {
	return Near(p.X, q.X, eps) && Near(p.Y, q.Y, eps)
}

// ManhattanDistance calculates the Manhattan distance between two points.
func ManhattanDistance(p, q diagram.Point) float64 {
	return math.Abs(p.X-q.X) + math.Abs(p.Y-q.Y)
}

// Distance calculates the Euclidean distance between two points.
func Distance(p, q diagram.Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Rotate turns p around center by angle radians.
func Rotate(p, center diagram.Point, angle float64) diagram.Point {
	if angle == 0 {
		return p
	}
	sin, cos := math.Sincos(angle)
	dx, dy := p.X-center.X, p.Y-center.Y
	return diagram.Point{
		X: cos*dx - sin*dy + center.X,
		Y: sin*dx + cos*dy + center.Y,
	}
}

// Package anchors derives attachment points and boundary intersections for
// shapes. Resolver is the default implementation of the
// diagram.AnchorResolver and diagram.EdgeIntersector collaborators.
package anchors

import (
	"math"

	"diagrid/diagram"
	"diagrid/geometry"
)

// Resolver computes anchors and edge intersections from a shape's kind and
// bounding box. The zero value is ready to use.
type Resolver struct{}

var (
	_ diagram.AnchorResolver  = Resolver{}
	_ diagram.EdgeIntersector = Resolver{}
)

// hasCornerAnchors lists the kinds that expose eight anchors instead of four.
func hasCornerAnchors(k diagram.ShapeKind) bool {
	switch k {
	case diagram.KindRectangle, diagram.KindImage, diagram.KindText:
		return true
	}
	return false
}

// AnchorPoints returns the anchors of s in world coordinates. Box-like
// kinds get the four edge midpoints plus the four corners; every other kind
// gets the four cardinal points of its bounding box (which for ellipses and
// diamonds lie on the outline). Rotation is applied around the center.
func (Resolver) AnchorPoints(s diagram.Shape) []diagram.Anchor {
	c := s.Center()
	hw := math.Abs(s.Width) / 2
	hh := math.Abs(s.Height) / 2

	anchors := make([]diagram.Anchor, 0, 8)
	if hasCornerAnchors(s.Kind) {
		anchors = append(anchors,
			diagram.Anchor{Position: diagram.SideTopLeft, Point: diagram.Point{X: c.X - hw, Y: c.Y - hh}},
			diagram.Anchor{Position: diagram.SideTopRight, Point: diagram.Point{X: c.X + hw, Y: c.Y - hh}},
			diagram.Anchor{Position: diagram.SideBottomLeft, Point: diagram.Point{X: c.X - hw, Y: c.Y + hh}},
			diagram.Anchor{Position: diagram.SideBottomRight, Point: diagram.Point{X: c.X + hw, Y: c.Y + hh}},
		)
	}
	anchors = append(anchors,
		diagram.Anchor{Position: diagram.SideTop, Point: diagram.Point{X: c.X, Y: c.Y - hh}},
		diagram.Anchor{Position: diagram.SideRight, Point: diagram.Point{X: c.X + hw, Y: c.Y}},
		diagram.Anchor{Position: diagram.SideBottom, Point: diagram.Point{X: c.X, Y: c.Y + hh}},
		diagram.Anchor{Position: diagram.SideLeft, Point: diagram.Point{X: c.X - hw, Y: c.Y}},
	)

	if s.Angle != 0 {
		for i := range anchors {
			anchors[i].Point = geometry.Rotate(anchors[i].Point, c, s.Angle)
		}
	}
	return anchors
}

// ClosestAnchor returns the anchor of s nearest to p if it lies strictly
// within tolerance.
func (r Resolver) ClosestAnchor(s diagram.Shape, p diagram.Point, tolerance float64) (diagram.Anchor, bool) {
	var best diagram.Anchor
	found := false
	minDist := tolerance
	for _, a := range r.AnchorPoints(s) {
		if d := geometry.Distance(a.Point, p); d < minDist {
			minDist = d
			best = a
			found = true
		}
	}
	return best, found
}

// Anchor returns the anchor of s labelled pos. It fails when pos is not a
// named anchor or the shape kind does not expose it.
func (r Resolver) Anchor(s diagram.Shape, pos diagram.Side) (diagram.Anchor, bool) {
	return Find(r, s, pos)
}

// Find looks up the anchor labelled pos through any resolver.
func Find(r diagram.AnchorResolver, s diagram.Shape, pos diagram.Side) (diagram.Anchor, bool) {
	if !pos.IsNamed() {
		return diagram.Anchor{}, false
	}
	for _, a := range r.AnchorPoints(s) {
		if a.Position == pos {
			return a, true
		}
	}
	return diagram.Anchor{}, false
}

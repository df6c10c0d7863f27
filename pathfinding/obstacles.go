package pathfinding

import (
	polyclip "github.com/akavel/polyclip-go"

	"diagrid/diagram"
)

// RectangleObstacle is a shape the obstacle-aware router steers around.
type RectangleObstacle struct {
	ID       string
	Bounds   diagram.Rect
	Margin   float64 // Interior shrink used by the hard obstacle rule
	Endpoint bool    // The route starts or ends on this shape
}

// blocks reports whether the segment a-b enters the obstacle's interior
// shrunk by its margin. Such moves are inadmissible. The start and end
// shapes only reject moves whose midpoint lies inside, so a route can leave
// an endpoint sitting within the shape's bounding box.
func (o RectangleObstacle) blocks(a, b diagram.Point) bool {
	inner := o.Bounds.Expand(-o.Margin)
	if o.Endpoint {
		mid := diagram.Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
		return inner.ContainsStrict(mid)
	}
	return segmentCrossesInterior(a, b, inner)
}

// penetrates reports whether the segment a-b enters the obstacle's strict
// interior. Such moves are admissible but penalised.
func (o RectangleObstacle) penetrates(a, b diagram.Point) bool {
	return segmentCrossesInterior(a, b, o.Bounds)
}

// segmentCrossesInterior checks if an axis-aligned segment shares any point
// with the open interior of r. Diagonal segments only test their midpoint.
func segmentCrossesInterior(a, b diagram.Point, r diagram.Rect) bool {
	if r.Min.X >= r.Max.X || r.Min.Y >= r.Max.Y {
		return false
	}
	if a.Y == b.Y {
		if a.Y <= r.Min.Y || a.Y >= r.Max.Y {
			return false
		}
		return min(a.X, b.X) < r.Max.X && max(a.X, b.X) > r.Min.X
	}
	if a.X == b.X {
		if a.X <= r.Min.X || a.X >= r.Max.X {
			return false
		}
		return min(a.Y, b.Y) < r.Max.Y && max(a.Y, b.Y) > r.Min.Y
	}
	mid := diagram.Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
	return r.ContainsStrict(mid)
}

// CollectObstacles selects the shapes relevant to a route from start to
// end. Connectors and text never obstruct. Other shapes count only if their
// bounds, grown by the proximity margin, overlap the endpoints' bounding
// box. The start and end shapes are always kept, with the larger interior
// margin so the route may leave and enter through their rim.
func (r *Router) CollectObstacles(start, end diagram.Point, shapes []diagram.Shape, startShape, endShape *diagram.Shape) []RectangleObstacle {
	region := polyclip.Contour{
		{X: start.X, Y: start.Y},
		{X: end.X, Y: end.Y},
	}.BoundingBox()

	isEndpoint := func(id string) bool {
		return (startShape != nil && startShape.ID == id) ||
			(endShape != nil && endShape.ID == id)
	}

	seen := make(map[string]bool)
	var obstacles []RectangleObstacle
	add := func(s diagram.Shape) {
		if s.IsConnector() || s.Kind == diagram.KindText || seen[s.ID] {
			return
		}
		margin := r.cfg.InteriorMargin
		endpoint := isEndpoint(s.ID)
		if endpoint {
			margin = r.cfg.EndpointInteriorMargin
		} else if !toRectangle(s.Bounds().Expand(r.cfg.ProximityMargin)).Overlaps(region) {
			return
		}
		seen[s.ID] = true
		obstacles = append(obstacles, RectangleObstacle{
			ID:       s.ID,
			Bounds:   s.Bounds(),
			Margin:   margin,
			Endpoint: endpoint,
		})
	}

	for _, s := range shapes {
		add(s)
	}
	// Endpoint shapes handed in directly may be missing from the collection.
	if startShape != nil {
		add(*startShape)
	}
	if endShape != nil {
		add(*endShape)
	}
	return obstacles
}

func toRectangle(r diagram.Rect) polyclip.Rectangle {
	return polyclip.Rectangle{
		Min: polyclip.Point{X: r.Min.X, Y: r.Min.Y},
		Max: polyclip.Point{X: r.Max.X, Y: r.Max.Y},
	}
}

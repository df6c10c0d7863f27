package diagram

// AnchorResolver derives the named anchor points of a shape.
type AnchorResolver interface {
	// AnchorPoints returns the anchors of s in world coordinates.
	AnchorPoints(s Shape) []Anchor

	// ClosestAnchor returns the anchor of s nearest to p, provided it lies
	// strictly closer than tolerance.
	ClosestAnchor(s Shape, p Point, tolerance float64) (Anchor, bool)
}

// EdgeIntersector finds where a connector meets a shape's visible boundary.
type EdgeIntersector interface {
	// IntersectWithLine returns the point where the ray from the shape's
	// center toward external crosses the boundary grown by gap.
	IntersectWithLine(s Shape, external Point, gap float64) (Point, bool)
}

// ShapeSource returns the live shape collection. It is called again after
// every store mutation so callers always see fresh geometry.
type ShapeSource func() []Shape

// UpdateFunc is the store mutation entry point. Router-driven geometry
// updates pass recordHistory=false so a drag does not flood the undo stack.
type UpdateFunc func(id string, patch Patch, recordHistory bool)

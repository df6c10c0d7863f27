// Package binding decides which shape, if any, a connector endpoint dropped
// at a point should attach to, and where on that shape it lands.
package binding

import (
	"github.com/npillmayer/schuko/tracing"

	"diagrid/diagram"
)

// tracer writes to trace with key 'diagrid.binding'
func tracer() tracing.Trace {
	return tracing.Select("diagrid.binding")
}

// Config holds the detection tolerances. Tolerances are in screen pixels
// and are divided by the zoom scale; EdgeGap is in world units.
type Config struct {
	HitTolerance    float64 `json:"hitTolerance" yaml:"hitTolerance"`
	AnchorTolerance float64 `json:"anchorTolerance" yaml:"anchorTolerance"`
	EdgeGap         float64 `json:"edgeGap" yaml:"edgeGap"`
}

// DefaultConfig is forgiving on hits and tighter on anchor snapping, so
// anchors win over generic edge snapping.
var DefaultConfig = Config{
	HitTolerance:    40,
	AnchorTolerance: 25,
	EdgeGap:         5,
}

// Query describes one detection request.
type Query struct {
	Point         diagram.Point
	ExcludeID     string  // The connector being drawn
	Scale         float64 // Zoom; non-positive values count as 1
	ActiveLayerID string
	CanInteract   func(diagram.Shape) bool // Lock and visibility policy; nil allows all
}

// Hit is a successful detection.
type Hit struct {
	Shape     diagram.Shape
	SnapPoint diagram.Point
	Anchor    diagram.Side // Named anchor, or diagram.SideEdge
}

// Binding returns the binding an endpoint attached at h would carry.
func (h Hit) Binding(gap float64) diagram.Binding {
	return diagram.Binding{
		ElementID: h.Shape.ID,
		Gap:       gap,
		Position:  h.Anchor,
	}
}

// Result classifies a detection for metrics.
type Result string

const (
	ResultAnchor Result = "anchor"
	ResultEdge   Result = "edge"
	ResultMiss   Result = "miss"
)

// Recorder receives one notification per detection.
type Recorder interface {
	BindingDetected(result Result)
}

// Detector finds binding targets.
type Detector struct {
	anchors  diagram.AnchorResolver
	edges    diagram.EdgeIntersector
	cfg      Config
	recorder Recorder
}

// NewDetector creates a detector using the given collaborators.
func NewDetector(anchors diagram.AnchorResolver, edges diagram.EdgeIntersector, cfg Config) *Detector {
	return &Detector{anchors: anchors, edges: edges, cfg: cfg}
}

// SetRecorder installs a hook notified after every detection.
func (d *Detector) SetRecorder(rec Recorder) {
	d.recorder = rec
}

// Config returns the detector's tolerances.
func (d *Detector) Config() Config {
	return d.cfg
}

// Detect returns the binding target under q.Point.
//
// Shapes are tested in the order given and the first hit wins. Overlapping
// shapes are therefore resolved by the caller's ordering (typically
// top-of-z-order first), not by area or z.
func (d *Detector) Detect(q Query, shapes []diagram.Shape) (Hit, bool) {
	scale := q.Scale
	if scale <= 0 {
		scale = 1
	}
	hitTol := d.cfg.HitTolerance / scale
	anchorTol := d.cfg.AnchorTolerance / scale

	for _, s := range shapes {
		if !d.candidate(s, q) {
			continue
		}
		if !hitTest(s, q.Point, hitTol) {
			continue
		}
		hit, ok := d.snap(s, q.Point, anchorTol)
		d.record(hit, ok)
		return hit, ok
	}
	d.record(Hit{}, false)
	return Hit{}, false
}

// candidate applies the eligibility rules to s.
func (d *Detector) candidate(s diagram.Shape, q Query) bool {
	if s.ID == q.ExcludeID {
		return false
	}
	if q.CanInteract != nil && !q.CanInteract(s) {
		return false
	}
	// Connectors are not targets, except free-form polylines which behave
	// like ordinary shapes.
	if s.IsConnector() && !s.IsUnboundPolyline() {
		return false
	}
	return s.LayerID == q.ActiveLayerID
}

// snap picks the attachment point on a hit shape: the closest anchor within
// tolerance, else the boundary intersection toward p.
func (d *Detector) snap(s diagram.Shape, p diagram.Point, anchorTol float64) (Hit, bool) {
	if a, ok := d.anchors.ClosestAnchor(s, p, anchorTol); ok {
		return Hit{Shape: s, SnapPoint: a.Point, Anchor: a.Position}, true
	}
	if pt, ok := d.edges.IntersectWithLine(s, p, d.cfg.EdgeGap); ok {
		return Hit{Shape: s, SnapPoint: pt, Anchor: diagram.SideEdge}, true
	}
	tracer().Debugf("shape %s hit at %v but has no edge toward it", s.ID, p)
	return Hit{}, false
}

func (d *Detector) record(h Hit, ok bool) {
	if d.recorder == nil {
		return
	}
	switch {
	case !ok:
		d.recorder.BindingDetected(ResultMiss)
	case h.Anchor == diagram.SideEdge:
		d.recorder.BindingDetected(ResultEdge)
	default:
		d.recorder.BindingDetected(ResultAnchor)
	}
}

// hitTest reports whether p lies within tol of shape s. Elliptical kinds
// use the ellipse inequality with both radii grown by tol; everything else
// uses the normalised bounding box grown by tol, so zero-area shapes stay
// hittable.
func hitTest(s diagram.Shape, p diagram.Point, tol float64) bool {
	b := s.Bounds()
	if !s.Kind.IsElliptical() {
		return b.Expand(tol).Contains(p)
	}
	c := b.Center()
	rx := b.Width()/2 + tol
	ry := b.Height()/2 + tol
	if rx <= 0 || ry <= 0 {
		return false
	}
	dx, dy := p.X-c.X, p.Y-c.Y
	return dx*dx/(rx*rx)+dy*dy/(ry*ry) <= 1
}

// Package connections keeps connector geometry in sync with the shapes the
// connector is bound to.
package connections

import (
	"math"

	"github.com/npillmayer/schuko/tracing"

	"diagrid/anchors"
	"diagrid/diagram"
	"diagrid/pathfinding"
)

// tracer writes to trace with key 'diagrid.connections'
func tracer() tracing.Trace {
	return tracing.Select("diagrid.connections")
}

// coordEpsilon is the tolerance under which a recomputed coordinate counts
// as unchanged.
const coordEpsilon = 1e-6

// Result classifies one refresh call.
type Result string

const (
	ResultSkipped   Result = "skipped"   // Connector missing or nothing bound
	ResultUnchanged Result = "unchanged" // Geometry already up to date
	ResultUpdated   Result = "updated"   // A geometry patch was written
	ResultCorrected Result = "corrected" // Anchor sides were switched
)

// Recorder receives refresh outcomes. A corrected refresh reports
// ResultCorrected followed by the result of its second pass.
type Recorder interface {
	ConnectorRefreshed(result Result)
}

// Refresher recomputes bound connector geometry.
type Refresher struct {
	router   *pathfinding.Router
	anchors  diagram.AnchorResolver
	edges    diagram.EdgeIntersector
	recorder Recorder
}

// NewRefresher creates a refresher. A nil router uses the default routing
// configuration.
func NewRefresher(router *pathfinding.Router, anchors diagram.AnchorResolver, edges diagram.EdgeIntersector) *Refresher {
	if router == nil {
		router = pathfinding.NewRouter(pathfinding.DefaultConfig)
	}
	return &Refresher{router: router, anchors: anchors, edges: edges}
}

// SetRecorder installs a hook notified after every refresh.
func (r *Refresher) SetRecorder(rec Recorder) {
	r.recorder = rec
}

// Refresh brings the connector with the given id in line with the shapes
// it is bound to. It writes at most one geometry patch, and only when the
// geometry actually changed, so calling it twice in a row is a no-op the
// second time. Geometry patches never record history.
func (r *Refresher) Refresh(connectorID string, shapes diagram.ShapeSource, update diagram.UpdateFunc) {
	r.refresh(connectorID, shapes, update, false)
}

func (r *Refresher) refresh(id string, shapes diagram.ShapeSource, update diagram.UpdateFunc, corrected bool) {
	all := shapes()
	idx := diagram.NewIndex(all)

	line, ok := idx.Lookup(id)
	if !ok || !line.IsConnector() {
		r.record(ResultSkipped)
		return
	}

	startShape, hasStart := idx.Resolve(line.StartBinding)
	endShape, hasEnd := idx.Resolve(line.EndBinding)

	// Switch both ends to the sides facing each other. After one correction
	// the positions are ideal, so the second pass never corrects again.
	if hasStart && hasEnd && !corrected {
		startSide, endSide := idealSides(startShape, endShape)
		if line.StartBinding.Position != startSide || line.EndBinding.Position != endSide {
			sb, eb := *line.StartBinding, *line.EndBinding
			sb.Position, eb.Position = startSide, endSide
			tracer().Debugf("connector %s: anchor sides %s/%s -> %s/%s", id,
				line.StartBinding.Position, line.EndBinding.Position, startSide, endSide)
			update(id, diagram.Patch{StartBinding: &sb, EndBinding: &eb}, false)
			r.record(ResultCorrected)
			r.refresh(id, shapes, update, true)
			return
		}
	}

	start, end := line.StartPoint(), line.EndPoint()
	changed := false
	if hasStart {
		if p, ok := r.resolveEndpoint(startShape, line.StartBinding, end); ok {
			start, changed = p, true
		}
	}
	if hasEnd {
		if p, ok := r.resolveEndpoint(endShape, line.EndBinding, start); ok {
			end, changed = p, true
		}
	}
	if !changed {
		r.record(ResultSkipped)
		return
	}

	points := r.LinePoints(line, all, start, end)
	frame := diagram.Frame{X: start.X, Y: start.Y, Width: end.X - start.X, Height: end.Y - start.Y}
	if sameFrame(frame, line.Frame) && (points == nil || samePoints(points, line.Points)) {
		r.record(ResultUnchanged)
		return
	}

	patch := diagram.Patch{Frame: &frame, Points: points}
	if len(line.ControlPoints) == 2 {
		ds := start.Sub(line.StartPoint())
		de := end.Sub(line.EndPoint())
		patch.ControlPoints = []diagram.Point{
			line.ControlPoints[0].Add(ds),
			line.ControlPoints[1].Add(de),
		}
	}
	update(id, patch, false)
	r.record(ResultUpdated)
}

// resolveEndpoint finds where a bound end sits now: on its recorded anchor
// if that anchor still exists, else where the ray from the shape's center
// toward the other end leaves the shape.
func (r *Refresher) resolveEndpoint(s diagram.Shape, b *diagram.Binding, other diagram.Point) (diagram.Point, bool) {
	if a, ok := anchors.Find(r.anchors, s, b.Position); ok {
		return a.Point, true
	}
	return r.edges.IntersectWithLine(s, other, b.Gap)
}

// LinePoints recomputes the relative point list of line for new endpoints.
// Bound elbow connectors are routed around obstacles; straight connectors
// that carry points get the two-point polyline; anything else, including
// free-form elbow polylines, returns nil meaning "leave the points alone".
func (r *Refresher) LinePoints(line diagram.Shape, shapes []diagram.Shape, start, end diagram.Point) []diagram.Point {
	if line.CurveType == diagram.CurveElbow {
		if !line.IsBound() {
			return nil
		}
		idx := diagram.NewIndex(shapes)
		var startShape, endShape *diagram.Shape
		var startDir, endDir diagram.Side
		if s, ok := idx.Resolve(line.StartBinding); ok {
			startShape, startDir = &s, line.StartBinding.Position
		}
		if s, ok := idx.Resolve(line.EndBinding); ok {
			endShape, endDir = &s, line.EndBinding.Position
		}

		route := r.router.RouteAvoiding(start, end, shapes, startShape, endShape, startDir, endDir)
		rel := make([]diagram.Point, len(route))
		for i, p := range route {
			rel[i] = p.Sub(start)
		}
		return rel
	}

	if len(line.Points) >= 2 {
		return []diagram.Point{{}, end.Sub(start)}
	}
	return nil
}

// idealSides picks the sides through which two shapes face each other. The
// axis with the larger center displacement wins; ties go vertical.
func idealSides(from, to diagram.Shape) (diagram.Side, diagram.Side) {
	d := to.Center().Sub(from.Center())
	if math.Abs(d.X) > math.Abs(d.Y) {
		if d.X > 0 {
			return diagram.SideRight, diagram.SideLeft
		}
		return diagram.SideLeft, diagram.SideRight
	}
	if d.Y > 0 {
		return diagram.SideBottom, diagram.SideTop
	}
	return diagram.SideTop, diagram.SideBottom
}

func (r *Refresher) record(result Result) {
	if r.recorder != nil {
		r.recorder.ConnectorRefreshed(result)
	}
}

func near(a, b float64) bool {
	return math.Abs(a-b) <= coordEpsilon
}

func sameFrame(a, b diagram.Frame) bool {
	return near(a.X, b.X) && near(a.Y, b.Y) && near(a.Width, b.Width) && near(a.Height, b.Height)
}

func samePoints(a, b []diagram.Point) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !near(a[i].X, b[i].X) || !near(a[i].Y, b[i].Y) {
			return false
		}
	}
	return true
}

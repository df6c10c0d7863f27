// Package diagram contains the fundamental types shared by the binding and
// routing packages.
package diagram

import "math"

// Point represents a position in world (document) coordinates.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Rect is an axis-aligned box with Min <= Max on both axes.
type Rect struct {
	Min, Max Point
}

// Width returns the horizontal extent of the rectangle.
func (r Rect) Width() float64 {
	return r.Max.X - r.Min.X
}

// Height returns the vertical extent of the rectangle.
func (r Rect) Height() float64 {
	return r.Max.Y - r.Min.Y
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point {
	return Point{X: (r.Min.X + r.Max.X) / 2, Y: (r.Min.Y + r.Max.Y) / 2}
}

// Expand grows the rectangle by d on every side. A negative d shrinks it.
func (r Rect) Expand(d float64) Rect {
	return Rect{
		Min: Point{X: r.Min.X - d, Y: r.Min.Y - d},
		Max: Point{X: r.Max.X + d, Y: r.Max.Y + d},
	}
}

// Contains reports whether p lies inside the closed rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X &&
		p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// ContainsStrict reports whether p lies in the open interior of the rectangle.
func (r Rect) ContainsStrict(p Point) bool {
	return p.X > r.Min.X && p.X < r.Max.X &&
		p.Y > r.Min.Y && p.Y < r.Max.Y
}

// RectFromPoints returns the smallest rectangle containing a and b.
func RectFromPoints(a, b Point) Rect {
	return Rect{
		Min: Point{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y)},
		Max: Point{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y)},
	}
}

// ShapeKind discriminates the drawable entities of a document.
type ShapeKind string

// Shape kinds the subsystem treats specially. Any other kind is a plain
// box-like shape.
const (
	KindRectangle     ShapeKind = "rectangle"
	KindCircle        ShapeKind = "circle"
	KindEllipse       ShapeKind = "ellipse"
	KindDiamond       ShapeKind = "diamond"
	KindText          ShapeKind = "text"
	KindImage         ShapeKind = "image"
	KindLine          ShapeKind = "line"
	KindArrow         ShapeKind = "arrow"
	KindBezier        ShapeKind = "bezier"
	KindOrganicBranch ShapeKind = "organicBranch"
)

// IsConnector returns true for the kinds that join two endpoints.
func (k ShapeKind) IsConnector() bool {
	switch k {
	case KindLine, KindArrow, KindBezier, KindOrganicBranch:
		return true
	}
	return false
}

// IsElliptical returns true for kinds whose outline is an ellipse.
func (k ShapeKind) IsElliptical() bool {
	return k == KindCircle || k == KindEllipse
}

// CurveType selects how a connector is drawn between its endpoints.
type CurveType string

const (
	CurveStraight CurveType = "straight"
	CurveBezier   CurveType = "bezier"
	CurveElbow    CurveType = "elbow"
)

// Side is an anchor label. The four cardinal sides double as routing
// directions: "leave or enter the shape on this side".
type Side string

const (
	SideNone        Side = ""
	SideTop         Side = "top"
	SideRight       Side = "right"
	SideBottom      Side = "bottom"
	SideLeft        Side = "left"
	SideTopLeft     Side = "top-left"
	SideTopRight    Side = "top-right"
	SideBottomLeft  Side = "bottom-left"
	SideBottomRight Side = "bottom-right"
	// SideEdge means "nearest boundary intersection", not a named anchor.
	SideEdge Side = "edge"
)

// IsCardinal returns true for top, right, bottom and left.
func (s Side) IsCardinal() bool {
	switch s {
	case SideTop, SideRight, SideBottom, SideLeft:
		return true
	}
	return false
}

// IsNamed returns true if s refers to a concrete anchor rather than to the
// edge sentinel or nothing.
func (s Side) IsNamed() bool {
	return s != SideNone && s != SideEdge
}

// Opposite returns the opposite cardinal side. Non-cardinal sides are
// returned unchanged.
func (s Side) Opposite() Side {
	switch s {
	case SideTop:
		return SideBottom
	case SideRight:
		return SideLeft
	case SideBottom:
		return SideTop
	case SideLeft:
		return SideRight
	default:
		return s
	}
}

// Vector returns the unit offset pointing out of a shape through side s,
// with Y growing downward. Non-cardinal sides yield the zero vector.
func (s Side) Vector() Point {
	switch s {
	case SideTop:
		return Point{Y: -1}
	case SideRight:
		return Point{X: 1}
	case SideBottom:
		return Point{Y: 1}
	case SideLeft:
		return Point{X: -1}
	default:
		return Point{}
	}
}

// IsHorizontal returns true for left and right.
func (s Side) IsHorizontal() bool {
	return s == SideLeft || s == SideRight
}

// Binding attaches one endpoint of a connector to a shape. ElementID is a
// weak reference: the shape may have been deleted since.
type Binding struct {
	ElementID string  `json:"elementId" yaml:"elementId"`
	Focus     float64 `json:"focus" yaml:"focus"`
	Gap       float64 `json:"gap" yaml:"gap"`
	Position  Side    `json:"position,omitempty" yaml:"position,omitempty"`
}

// Anchor is a named attachment point of a shape in world coordinates.
type Anchor struct {
	Position Side
	Point
}

// Frame holds the position and signed size of a shape.
type Frame struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Shape is any drawable entity. Connectors are shapes whose frame spans
// from the start point (X,Y) to the end point (X+Width, Y+Height).
type Shape struct {
	ID      string    `json:"id" yaml:"id"`
	Kind    ShapeKind `json:"type" yaml:"type"`
	Frame   `yaml:",inline"`
	Angle   float64 `json:"angle,omitempty" yaml:"angle,omitempty"`
	LayerID string  `json:"layerId,omitempty" yaml:"layerId,omitempty"`

	// Connector fields.
	Points        []Point   `json:"points,omitempty" yaml:"points,omitempty"` // relative to (X,Y)
	CurveType     CurveType `json:"curveType,omitempty" yaml:"curveType,omitempty"`
	StartBinding  *Binding  `json:"startBinding,omitempty" yaml:"startBinding,omitempty"`
	EndBinding    *Binding  `json:"endBinding,omitempty" yaml:"endBinding,omitempty"`
	ControlPoints []Point   `json:"controlPoints,omitempty" yaml:"controlPoints,omitempty"`
}

// Bounds returns the normalised bounding box. Negative sizes (flipped
// shapes) are folded so that Min <= Max.
func (s Shape) Bounds() Rect {
	return RectFromPoints(
		Point{X: s.X, Y: s.Y},
		Point{X: s.X + s.Width, Y: s.Y + s.Height},
	)
}

// Center returns the center of the shape's bounding box.
func (s Shape) Center() Point {
	return Point{X: s.X + s.Width/2, Y: s.Y + s.Height/2}
}

// IsConnector returns true if the shape joins two endpoints.
func (s Shape) IsConnector() bool {
	return s.Kind.IsConnector()
}

// IsBound returns true if at least one endpoint is bound.
func (s Shape) IsBound() bool {
	return s.StartBinding != nil || s.EndBinding != nil
}

// IsUnboundPolyline returns true for elbow connectors without bindings.
// Their points are user-authored and behave as a free-form shape.
func (s Shape) IsUnboundPolyline() bool {
	return s.IsConnector() && s.CurveType == CurveElbow && !s.IsBound()
}

// StartPoint returns the connector's start point.
func (s Shape) StartPoint() Point {
	return Point{X: s.X, Y: s.Y}
}

// EndPoint returns the connector's end point.
func (s Shape) EndPoint() Point {
	return Point{X: s.X + s.Width, Y: s.Y + s.Height}
}

// Clone returns a deep copy of the shape.
func (s Shape) Clone() Shape {
	c := s
	if s.Points != nil {
		c.Points = append([]Point(nil), s.Points...)
	}
	if s.ControlPoints != nil {
		c.ControlPoints = append([]Point(nil), s.ControlPoints...)
	}
	if s.StartBinding != nil {
		b := *s.StartBinding
		c.StartBinding = &b
	}
	if s.EndBinding != nil {
		b := *s.EndBinding
		c.EndBinding = &b
	}
	return c
}

// BoundTo returns true if either endpoint references id.
func (s Shape) BoundTo(id string) bool {
	return (s.StartBinding != nil && s.StartBinding.ElementID == id) ||
		(s.EndBinding != nil && s.EndBinding.ElementID == id)
}

// Endpoint names one end of a connector.
type Endpoint int

const (
	Start Endpoint = iota
	End
)

// String returns the string representation of an Endpoint.
func (e Endpoint) String() string {
	if e == Start {
		return "start"
	}
	return "end"
}

package anchors

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diagrid/diagram"
)

func rect(id string, x, y, w, h float64) diagram.Shape {
	return diagram.Shape{ID: id, Kind: diagram.KindRectangle, Frame: diagram.Frame{X: x, Y: y, Width: w, Height: h}}
}

func TestAnchorPoints_Counts(t *testing.T) {
	tests := []struct {
		kind diagram.ShapeKind
		want int
	}{
		{diagram.KindRectangle, 8},
		{diagram.KindText, 8},
		{diagram.KindImage, 8},
		{diagram.KindCircle, 4},
		{diagram.KindDiamond, 4},
		{"cloud", 4},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			s := diagram.Shape{Kind: tt.kind, Frame: diagram.Frame{Width: 100, Height: 50}}
			assert.Len(t, Resolver{}.AnchorPoints(s), tt.want)
		})
	}
}

func TestAnchorPoints_FlippedShape(t *testing.T) {
	s := rect("a", 100, 100, -100, -100)
	right, ok := Resolver{}.Anchor(s, diagram.SideRight)
	require.True(t, ok)
	assert.Equal(t, diagram.Point{X: 100, Y: 50}, right.Point)
}

func TestAnchorPoints_Rotation(t *testing.T) {
	s := rect("a", 0, 0, 100, 100)
	s.Angle = math.Pi / 2
	top, ok := Resolver{}.Anchor(s, diagram.SideTop)
	require.True(t, ok)
	// A quarter turn clockwise (Y down) moves the top midpoint to the right.
	assert.InDelta(t, 100, top.X, 1e-9)
	assert.InDelta(t, 50, top.Y, 1e-9)
}

func TestClosestAnchor(t *testing.T) {
	s := rect("a", 0, 0, 100, 100)
	r := Resolver{}

	a, ok := r.ClosestAnchor(s, diagram.Point{X: 110, Y: 52}, 25)
	require.True(t, ok)
	assert.Equal(t, diagram.SideRight, a.Position)

	_, ok = r.ClosestAnchor(s, diagram.Point{X: 150, Y: 50}, 25)
	assert.False(t, ok, "anchor 50 units away must not snap")

	_, ok = r.Anchor(s, diagram.SideEdge)
	assert.False(t, ok, "edge is not a named anchor")
}

func TestIntersectWithLine(t *testing.T) {
	r := Resolver{}
	tests := []struct {
		name     string
		shape    diagram.Shape
		external diagram.Point
		gap      float64
		want     diagram.Point
	}{
		{
			name:     "rectangle right side",
			shape:    rect("a", 0, 0, 100, 100),
			external: diagram.Point{X: 300, Y: 50},
			gap:      5,
			want:     diagram.Point{X: 105, Y: 50},
		},
		{
			name:     "rectangle top side",
			shape:    rect("a", 0, 0, 100, 100),
			external: diagram.Point{X: 50, Y: -200},
			want:     diagram.Point{X: 50, Y: 0},
		},
		{
			name:     "circle left side",
			shape:    diagram.Shape{Kind: diagram.KindCircle, Frame: diagram.Frame{Width: 100, Height: 100}},
			external: diagram.Point{X: -300, Y: 50},
			gap:      10,
			want:     diagram.Point{X: -10, Y: 50},
		},
		{
			name:     "diamond diagonal",
			shape:    diagram.Shape{Kind: diagram.KindDiamond, Frame: diagram.Frame{Width: 100, Height: 100}},
			external: diagram.Point{X: 200, Y: 200},
			want:     diagram.Point{X: 75, Y: 75},
		},
		{
			name:     "degenerate point shape",
			shape:    rect("p", 10, 10, 0, 0),
			external: diagram.Point{X: 50, Y: 50},
			want:     diagram.Point{X: 10, Y: 10},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := r.IntersectWithLine(tt.shape, tt.external, tt.gap)
			require.True(t, ok)
			assert.InDelta(t, tt.want.X, got.X, 1e-9)
			assert.InDelta(t, tt.want.Y, got.Y, 1e-9)
		})
	}
}

func TestIntersectWithLine_EllipseCenter(t *testing.T) {
	s := diagram.Shape{Kind: diagram.KindCircle, Frame: diagram.Frame{Width: 100, Height: 100}}
	_, ok := Resolver{}.IntersectWithLine(s, diagram.Point{X: 50, Y: 50}, 0)
	assert.False(t, ok)
}

func TestOutlineContains(t *testing.T) {
	d := diagram.Shape{Kind: diagram.KindDiamond, Frame: diagram.Frame{Width: 100, Height: 100}}
	assert.True(t, Contains(d, diagram.Point{X: 50, Y: 50}))
	assert.False(t, Contains(d, diagram.Point{X: 5, Y: 5}), "diamond corners are empty")

	b := rect("b", 0, 0, 100, 100)
	assert.True(t, Contains(b, diagram.Point{X: 5, Y: 5}))
	assert.False(t, Contains(b, diagram.Point{X: 150, Y: 5}))
}

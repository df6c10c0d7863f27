package connections

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diagrid/anchors"
	"diagrid/binding"
	"diagrid/diagram"
	"diagrid/store"
)

type call struct {
	id      string
	patch   diagram.Patch
	history bool
}

// memStore is a minimal shape store applying patches in place.
type memStore struct {
	shapes []diagram.Shape
	calls  []call
	frozen bool // Record patches without applying them
}

func (m *memStore) Shapes() []diagram.Shape {
	out := make([]diagram.Shape, len(m.shapes))
	for i, s := range m.shapes {
		out[i] = s.Clone()
	}
	return out
}

func (m *memStore) Update(id string, patch diagram.Patch, recordHistory bool) {
	m.calls = append(m.calls, call{id: id, patch: patch, history: recordHistory})
	if m.frozen {
		return
	}
	for i := range m.shapes {
		if m.shapes[i].ID == id {
			patch.Apply(&m.shapes[i])
		}
	}
}

func (m *memStore) get(id string) diagram.Shape {
	s, _ := diagram.NewIndex(m.shapes).Lookup(id)
	return s
}

func (m *memStore) move(id string, x, y float64) {
	for i := range m.shapes {
		if m.shapes[i].ID == id {
			m.shapes[i].X, m.shapes[i].Y = x, y
		}
	}
}

func box(id string, x, y float64) diagram.Shape {
	return diagram.Shape{ID: id, Kind: diagram.KindRectangle, Frame: diagram.Frame{X: x, Y: y, Width: 100, Height: 100}}
}

func connector(id string, kind diagram.ShapeKind, curve diagram.CurveType, start, end *diagram.Binding) diagram.Shape {
	return diagram.Shape{
		ID:           id,
		Kind:         kind,
		CurveType:    curve,
		Frame:        diagram.Frame{X: 0, Y: 0, Width: 10, Height: 10},
		StartBinding: start,
		EndBinding:   end,
	}
}

func bindTo(id string, side diagram.Side) *diagram.Binding {
	return &diagram.Binding{ElementID: id, Gap: 5, Position: side}
}

func newRefresher() *Refresher {
	return NewRefresher(nil, anchors.Resolver{}, anchors.Resolver{})
}

func TestRefreshIsIdempotent(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	store := &memStore{shapes: []diagram.Shape{
		box("a", 0, 0),
		box("b", 300, 0),
		connector("c", diagram.KindArrow, diagram.CurveElbow, bindTo("a", diagram.SideRight), bindTo("b", diagram.SideLeft)),
	}}
	r := newRefresher()

	r.Refresh("c", store.Shapes, store.Update)
	require.Len(t, store.calls, 1)
	assert.False(t, store.calls[0].history)

	c := store.get("c")
	assert.Equal(t, diagram.Frame{X: 100, Y: 50, Width: 200, Height: 0}, c.Frame)
	assert.Equal(t, []diagram.Point{{X: 0, Y: 0}, {X: 200, Y: 0}}, c.Points)

	r.Refresh("c", store.Shapes, store.Update)
	assert.Len(t, store.calls, 1, "second refresh must not write")
}

func TestRefreshSwitchesAnchorSides(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	store := &memStore{shapes: []diagram.Shape{
		box("a", 0, 0),
		box("b", 300, 0),
		connector("c", diagram.KindArrow, diagram.CurveElbow, bindTo("a", diagram.SideRight), bindTo("b", diagram.SideLeft)),
	}}
	r := newRefresher()
	r.Refresh("c", store.Shapes, store.Update)
	before := store.get("c")
	store.calls = nil

	store.move("b", -400, 0)
	r.Refresh("c", store.Shapes, store.Update)

	require.Len(t, store.calls, 2)
	assert.NotNil(t, store.calls[0].patch.StartBinding)
	assert.Nil(t, store.calls[0].patch.Frame)
	assert.NotNil(t, store.calls[1].patch.Frame)

	after := store.get("c")
	assert.Equal(t, diagram.SideRight, before.StartBinding.Position)
	assert.Equal(t, diagram.SideLeft, before.EndBinding.Position)
	assert.Equal(t, diagram.SideLeft, after.StartBinding.Position)
	assert.Equal(t, diagram.SideRight, after.EndBinding.Position)
	assert.Equal(t, diagram.Frame{X: 0, Y: 50, Width: -300, Height: 0}, after.Frame)
	assert.NotEqual(t, before.Frame, after.Frame)

	// Bindings keep their element and gap.
	assert.Equal(t, "a", after.StartBinding.ElementID)
	assert.Equal(t, 5.0, after.EndBinding.Gap)
}

func TestRefreshVerticalSides(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	store := &memStore{shapes: []diagram.Shape{
		box("a", 0, 0),
		box("b", 20, 300),
		connector("c", diagram.KindLine, diagram.CurveElbow, bindTo("a", diagram.SideEdge), bindTo("b", diagram.SideEdge)),
	}}
	newRefresher().Refresh("c", store.Shapes, store.Update)

	c := store.get("c")
	assert.Equal(t, diagram.SideBottom, c.StartBinding.Position)
	assert.Equal(t, diagram.SideTop, c.EndBinding.Position)
	assert.Equal(t, diagram.Point{X: 50, Y: 100}, c.StartPoint())
	assert.Equal(t, diagram.Point{X: 70, Y: 300}, c.EndPoint())

	// The route leaves downward and arrives downward.
	require.GreaterOrEqual(t, len(c.Points), 2)
	assert.Equal(t, diagram.Point{}, c.Points[0])
	assert.Equal(t, 0.0, c.Points[1].X)
	assert.Greater(t, c.Points[1].Y, 0.0)
}

func TestRefreshSingleBoundEdgeIntersection(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	circle := diagram.Shape{ID: "a", Kind: diagram.KindCircle, Frame: diagram.Frame{X: 0, Y: 0, Width: 100, Height: 100}}

	tests := []struct {
		name          string
		shape         diagram.Shape
		end           diagram.Endpoint
		binding       diagram.Binding
		frame         diagram.Frame
		expectedStart diagram.Point
		expectedEnd   diagram.Point
	}{
		{
			name:          "edge binding aims at the stored end",
			shape:         box("a", 0, 0),
			end:           diagram.Start,
			binding:       diagram.Binding{ElementID: "a", Gap: 5, Position: diagram.SideEdge},
			frame:         diagram.Frame{X: 0, Y: 0, Width: 300, Height: 50},
			expectedStart: diagram.Point{X: 105, Y: 50},
			expectedEnd:   diagram.Point{X: 300, Y: 50},
		},
		{
			name:          "ray follows the other end",
			shape:         box("a", 0, 0),
			end:           diagram.Start,
			binding:       diagram.Binding{ElementID: "a", Gap: 5, Position: diagram.SideEdge},
			frame:         diagram.Frame{X: 0, Y: 0, Width: 50, Height: 300},
			expectedStart: diagram.Point{X: 50, Y: 105},
			expectedEnd:   diagram.Point{X: 50, Y: 300},
		},
		{
			name:          "zero gap lands on the outline",
			shape:         box("a", 0, 0),
			end:           diagram.Start,
			binding:       diagram.Binding{ElementID: "a", Position: diagram.SideEdge},
			frame:         diagram.Frame{X: 0, Y: 0, Width: 300, Height: 50},
			expectedStart: diagram.Point{X: 100, Y: 50},
			expectedEnd:   diagram.Point{X: 300, Y: 50},
		},
		{
			name:          "corner anchor missing on a circle",
			shape:         circle,
			end:           diagram.Start,
			binding:       diagram.Binding{ElementID: "a", Gap: 5, Position: diagram.SideTopLeft},
			frame:         diagram.Frame{X: 0, Y: 0, Width: 300, Height: 50},
			expectedStart: diagram.Point{X: 105, Y: 50},
			expectedEnd:   diagram.Point{X: 300, Y: 50},
		},
		{
			name:          "bound end aims at the start",
			shape:         box("a", 0, 0),
			end:           diagram.End,
			binding:       diagram.Binding{ElementID: "a", Gap: 5, Position: diagram.SideEdge},
			frame:         diagram.Frame{X: 300, Y: 50, Width: -300, Height: -50},
			expectedStart: diagram.Point{X: 300, Y: 50},
			expectedEnd:   diagram.Point{X: 105, Y: 50},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := tt.binding
			line := connector("c", diagram.KindLine, diagram.CurveStraight, nil, nil)
			if tt.end == diagram.Start {
				line.StartBinding = &b
			} else {
				line.EndBinding = &b
			}
			line.Frame = tt.frame
			store := &memStore{shapes: []diagram.Shape{tt.shape, line}}

			newRefresher().Refresh("c", store.Shapes, store.Update)

			require.Len(t, store.calls, 1)
			c := store.get("c")
			assertNearPoint(t, tt.expectedStart, c.StartPoint())
			assertNearPoint(t, tt.expectedEnd, c.EndPoint())
			assert.Equal(t, SingleBound, StateOf(c))
			if tt.end == diagram.Start {
				assert.Equal(t, tt.binding.Position, c.StartBinding.Position, "single-bound position is kept")
			} else {
				assert.Equal(t, tt.binding.Position, c.EndBinding.Position, "single-bound position is kept")
			}
		})
	}
}

func assertNearPoint(t *testing.T, expected, actual diagram.Point) {
	t.Helper()
	assert.InDelta(t, expected.X, actual.X, 1e-9, "x of %v", actual)
	assert.InDelta(t, expected.Y, actual.Y, 1e-9, "y of %v", actual)
}

func TestRefreshDanglingBinding(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	line := connector("c", diagram.KindArrow, diagram.CurveStraight, bindTo("a", diagram.SideRight), bindTo("ghost", diagram.SideLeft))
	line.Frame = diagram.Frame{X: 90, Y: 40, Width: 210, Height: 260}
	store := &memStore{shapes: []diagram.Shape{box("a", 0, 0), line}}

	newRefresher().Refresh("c", store.Shapes, store.Update)

	require.Len(t, store.calls, 1)
	c := store.get("c")
	assert.Equal(t, diagram.Point{X: 100, Y: 50}, c.StartPoint())
	assert.Equal(t, diagram.Point{X: 300, Y: 300}, c.EndPoint())
	assert.Equal(t, "ghost", c.EndBinding.ElementID, "stale binding stays in place")
	assert.Equal(t, diagram.SideLeft, c.EndBinding.Position)

	// Both ends dangling: nothing to do.
	orphan := connector("o", diagram.KindArrow, diagram.CurveElbow, bindTo("gone", diagram.SideTop), bindTo("ghost", diagram.SideLeft))
	store = &memStore{shapes: []diagram.Shape{orphan}}
	newRefresher().Refresh("o", store.Shapes, store.Update)
	assert.Empty(t, store.calls)
}

func TestRefreshSkips(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	polyline := connector("p", diagram.KindLine, diagram.CurveElbow, nil, nil)
	polyline.Points = []diagram.Point{{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 5, Y: 10}}

	store := &memStore{shapes: []diagram.Shape{box("a", 0, 0), polyline}}
	r := newRefresher()

	r.Refresh("p", store.Shapes, store.Update)
	r.Refresh("a", store.Shapes, store.Update)
	r.Refresh("missing", store.Shapes, store.Update)

	assert.Empty(t, store.calls)
	assert.Equal(t, polyline.Points, store.get("p").Points)
}

func TestRefreshTranslatesControlPoints(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	curve := connector("c", diagram.KindBezier, diagram.CurveBezier, bindTo("a", diagram.SideRight), nil)
	curve.Frame = diagram.Frame{X: 90, Y: 50, Width: 110, Height: 100}
	curve.ControlPoints = []diagram.Point{{X: 120, Y: 20}, {X: 180, Y: 170}}
	store := &memStore{shapes: []diagram.Shape{box("a", 0, 0), curve}}

	newRefresher().Refresh("c", store.Shapes, store.Update)

	require.Len(t, store.calls, 1)
	assert.Nil(t, store.calls[0].patch.Points)
	c := store.get("c")
	assert.Equal(t, diagram.Frame{X: 100, Y: 50, Width: 100, Height: 100}, c.Frame)
	assert.Equal(t, []diagram.Point{{X: 130, Y: 20}, {X: 180, Y: 170}}, c.ControlPoints)
}

func TestRefreshStraightLinePoints(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	line := connector("c", diagram.KindLine, diagram.CurveStraight, bindTo("a", diagram.SideBottom), nil)
	line.Frame = diagram.Frame{X: 50, Y: 90, Width: 30, Height: 110}
	line.Points = []diagram.Point{{X: 0, Y: 0}, {X: 30, Y: 110}}
	store := &memStore{shapes: []diagram.Shape{box("a", 0, 0), line}}

	newRefresher().Refresh("c", store.Shapes, store.Update)

	c := store.get("c")
	assert.Equal(t, diagram.Point{X: 50, Y: 100}, c.StartPoint())
	assert.Equal(t, []diagram.Point{{X: 0, Y: 0}, {X: 30, Y: 100}}, c.Points)
}

func TestRefreshSelfBoundTerminates(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	loop := connector("c", diagram.KindArrow, diagram.CurveElbow, bindTo("a", diagram.SideRight), bindTo("a", diagram.SideLeft))

	// A store that drops every patch would trigger the side correction
	// forever without the single-pass guard.
	store := &memStore{shapes: []diagram.Shape{box("a", 0, 0), loop}, frozen: true}
	newRefresher().Refresh("c", store.Shapes, store.Update)
	assert.Len(t, store.calls, 2)

	store = &memStore{shapes: []diagram.Shape{box("a", 0, 0), loop}}
	r := newRefresher()
	r.Refresh("c", store.Shapes, store.Update)
	n := len(store.calls)
	r.Refresh("c", store.Shapes, store.Update)
	assert.Len(t, store.calls, n)
	assert.Equal(t, diagram.SideTop, store.get("c").StartBinding.Position)
	assert.Equal(t, diagram.SideBottom, store.get("c").EndBinding.Position)
}

type resultLog []Result

func (l *resultLog) ConnectorRefreshed(r Result) { *l = append(*l, r) }

func TestRefreshRecorder(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	store := &memStore{shapes: []diagram.Shape{
		box("a", 0, 0),
		box("b", 300, 0),
		connector("c", diagram.KindArrow, diagram.CurveElbow, bindTo("a", diagram.SideTop), bindTo("b", diagram.SideLeft)),
	}}
	r := newRefresher()
	log := &resultLog{}
	r.SetRecorder(log)

	r.Refresh("c", store.Shapes, store.Update)
	r.Refresh("c", store.Shapes, store.Update)
	r.Refresh("nope", store.Shapes, store.Update)

	assert.Equal(t, resultLog{ResultCorrected, ResultUpdated, ResultUnchanged, ResultSkipped}, *log)
}

func TestAttachAndDetach(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	a, b := box("a", 0, 0), box("b", 300, 0)
	line := connector("c", diagram.KindArrow, diagram.CurveStraight, nil, nil)
	line.Frame = diagram.Frame{X: 150, Y: 50, Width: 100, Height: 0}
	store := &memStore{shapes: []diagram.Shape{a, b, line}}
	r := newRefresher()

	assert.Equal(t, Unbound, StateOf(store.get("c")))

	r.Attach("c", diagram.Start, binding.Hit{Shape: a, SnapPoint: diagram.Point{X: 100, Y: 50}, Anchor: diagram.SideRight}, 5, store.Shapes, store.Update)
	require.Len(t, store.calls, 2)
	assert.Equal(t, []bool{false, true}, historyFlags(store.calls))
	c := store.get("c")
	assert.Equal(t, SingleBound, StateOf(c))
	assert.Equal(t, diagram.Frame{X: 100, Y: 50, Width: 150, Height: 0}, c.Frame)

	r.Attach("c", diagram.End, binding.Hit{Shape: b, SnapPoint: diagram.Point{X: 300, Y: 50}, Anchor: diagram.SideLeft}, 5, store.Shapes, store.Update)
	require.Len(t, store.calls, 4)
	c = store.get("c")
	assert.Equal(t, DoubleBound, StateOf(c))
	assert.Equal(t, diagram.Frame{X: 100, Y: 50, Width: 200, Height: 0}, c.Frame)

	r.Detach("c", diagram.End, store.Shapes, store.Update)
	assert.Equal(t, SingleBound, StateOf(store.get("c")))
	r.Detach("c", diagram.Start, store.Shapes, store.Update)
	assert.Equal(t, Unbound, StateOf(store.get("c")))
	require.Len(t, store.calls, 8)
	assert.Equal(t, []bool{false, true, false, true, false, true, false, true}, historyFlags(store.calls))

	r.Detach("c", diagram.Start, store.Shapes, store.Update)
	assert.Len(t, store.calls, 8)
	assert.Equal(t, diagram.Frame{X: 100, Y: 50, Width: 200, Height: 0}, store.get("c").Frame)
}

func historyFlags(calls []call) []bool {
	flags := make([]bool, len(calls))
	for i, c := range calls {
		flags[i] = c.history
	}
	return flags
}

func TestAttachRecordsRoutedState(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	a, b := box("a", 0, 0), box("b", 300, 200)
	line := connector("c", diagram.KindArrow, diagram.CurveElbow, nil, nil)
	line.Frame = diagram.Frame{X: 150, Y: 50, Width: 100, Height: 0}
	doc := store.New([]diagram.Shape{a, b, line}, 10)
	r := newRefresher()

	r.Attach("c", diagram.Start, binding.Hit{Shape: a, SnapPoint: diagram.Point{X: 100, Y: 50}, Anchor: diagram.SideRight}, 5, doc.Shapes, doc.Update)
	r.Attach("c", diagram.End, binding.Hit{Shape: b, SnapPoint: diagram.Point{X: 300, Y: 250}, Anchor: diagram.SideLeft}, 5, doc.Shapes, doc.Update)
	routed, _ := doc.Shape("c")
	require.GreaterOrEqual(t, len(routed.Points), 2)
	assert.Equal(t, routed.EndPoint().Sub(routed.StartPoint()), routed.Points[len(routed.Points)-1])

	undone, err := doc.Undo()
	require.NoError(t, err)
	require.True(t, undone)
	single, _ := doc.Shape("c")
	assert.Nil(t, single.EndBinding)
	require.NotEmpty(t, single.Points)
	assert.Equal(t, single.EndPoint().Sub(single.StartPoint()), single.Points[len(single.Points)-1],
		"undo restores the points routed for the single-bound state")

	redone, err := doc.Redo()
	require.NoError(t, err)
	require.True(t, redone)
	again, _ := doc.Shape("c")
	assert.Equal(t, routed, again)
}

func TestRefreshBoundTo(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	store := &memStore{shapes: []diagram.Shape{
		box("a", 0, 0),
		box("b", 300, 0),
		box("d", 0, 300),
		connector("ab", diagram.KindArrow, diagram.CurveElbow, bindTo("a", diagram.SideRight), bindTo("b", diagram.SideLeft)),
		connector("bd", diagram.KindArrow, diagram.CurveElbow, bindTo("b", diagram.SideLeft), bindTo("d", diagram.SideTop)),
		connector("free", diagram.KindArrow, diagram.CurveElbow, nil, nil),
	}}

	assert.Equal(t, []string{"ab"}, BoundConnectors(store.shapes, "a"))
	assert.Equal(t, []string{"ab", "bd"}, BoundConnectors(store.shapes, "b", "a"))
	assert.Empty(t, BoundConnectors(store.shapes, "free", "zzz"))

	newRefresher().RefreshBoundTo([]string{"a"}, store.Shapes, store.Update)

	for _, c := range store.calls {
		assert.Equal(t, "ab", c.id)
	}
	assert.NotEmpty(t, store.calls)
	assert.Equal(t, diagram.Frame{X: 0, Y: 0, Width: 10, Height: 10}, store.get("bd").Frame)
}

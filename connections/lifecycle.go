package connections

import (
	"diagrid/binding"
	"diagrid/diagram"
)

// BoundConnectors returns the ids of the connectors bound to any of the
// given shape ids, in document order. Each connector appears once even if
// both of its ends are bound to moved shapes.
func BoundConnectors(shapes []diagram.Shape, ids ...string) []string {
	moved := make(map[string]bool, len(ids))
	for _, id := range ids {
		moved[id] = true
	}

	var result []string
	for _, s := range shapes {
		if !s.IsConnector() || !s.IsBound() {
			continue
		}
		if (s.StartBinding != nil && moved[s.StartBinding.ElementID]) ||
			(s.EndBinding != nil && moved[s.EndBinding.ElementID]) {
			result = append(result, s.ID)
		}
	}
	return result
}

// RefreshBoundTo refreshes every connector bound to one of the moved
// shapes. Call it from any shape-move handler.
func (r *Refresher) RefreshBoundTo(movedIDs []string, shapes diagram.ShapeSource, update diagram.UpdateFunc) {
	for _, id := range BoundConnectors(shapes(), movedIDs...) {
		r.Refresh(id, shapes, update)
	}
}

// Attach binds one end of a connector to the shape found by a detection,
// moving that end onto the snap point. The transition is recorded in
// history once, after the follow-up geometry refresh, so undo and redo
// restore a routed connector.
func (r *Refresher) Attach(connectorID string, end diagram.Endpoint, hit binding.Hit, gap float64, shapes diagram.ShapeSource, update diagram.UpdateFunc) {
	line, ok := diagram.NewIndex(shapes()).Lookup(connectorID)
	if !ok || !line.IsConnector() {
		return
	}

	b := hit.Binding(gap)
	start, stop := line.StartPoint(), line.EndPoint()
	patch := diagram.Patch{}
	if end == diagram.Start {
		start = hit.SnapPoint
		patch.StartBinding = &b
	} else {
		stop = hit.SnapPoint
		patch.EndBinding = &b
	}
	patch.Frame = &diagram.Frame{X: start.X, Y: start.Y, Width: stop.X - start.X, Height: stop.Y - start.Y}

	tracer().Infof("connector %s: %s bound to %s at %s", connectorID, end, hit.Shape.ID, hit.Anchor)
	update(connectorID, patch, false)
	r.Refresh(connectorID, shapes, update)
	commit(connectorID, shapes, update)
}

// Detach removes the binding of one end of a connector. The endpoint stays
// where it is; the remaining binding, if any, is refreshed right away. Like
// Attach, the transition is recorded after the refresh.
func (r *Refresher) Detach(connectorID string, end diagram.Endpoint, shapes diagram.ShapeSource, update diagram.UpdateFunc) {
	line, ok := diagram.NewIndex(shapes()).Lookup(connectorID)
	if !ok || !line.IsConnector() {
		return
	}

	patch := diagram.Patch{}
	if end == diagram.Start {
		if line.StartBinding == nil {
			return
		}
		patch.DetachStart = true
	} else {
		if line.EndBinding == nil {
			return
		}
		patch.DetachEnd = true
	}

	tracer().Infof("connector %s: %s detached", connectorID, end)
	update(connectorID, patch, false)
	r.Refresh(connectorID, shapes, update)
	commit(connectorID, shapes, update)
}

// commit writes the connector's current frame back with history enabled,
// recording the finished state of a binding transition.
func commit(connectorID string, shapes diagram.ShapeSource, update diagram.UpdateFunc) {
	line, ok := diagram.NewIndex(shapes()).Lookup(connectorID)
	if !ok {
		return
	}
	frame := line.Frame
	update(connectorID, diagram.Patch{Frame: &frame}, true)
}

// State is the binding status of a connector.
type State int

const (
	Unbound State = iota
	SingleBound
	DoubleBound
)

// String returns the string representation of a State.
func (s State) String() string {
	switch s {
	case SingleBound:
		return "single-bound"
	case DoubleBound:
		return "double-bound"
	default:
		return "unbound"
	}
}

// StateOf returns the binding status of a connector.
func StateOf(line diagram.Shape) State {
	switch {
	case line.StartBinding != nil && line.EndBinding != nil:
		return DoubleBound
	case line.IsBound():
		return SingleBound
	default:
		return Unbound
	}
}

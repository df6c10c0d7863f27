package pathfinding

import (
	"diagrid/diagram"
)

// defaultRouter backs the package-level helpers.
var defaultRouter = NewRouter(DefaultConfig)

// Router computes connector routes. It holds only configuration; every
// call builds its own grid and search state, so one Router may be shared.
type Router struct {
	cfg      Config
	recorder Recorder
}

// NewRouter creates a router. Zero fields of cfg take their defaults.
func NewRouter(cfg Config) *Router {
	return &Router{cfg: cfg.withDefaults()}
}

// SetRecorder installs a hook notified after every obstacle-aware route.
func (r *Router) SetRecorder(rec Recorder) {
	r.recorder = rec
}

// Config returns the effective configuration.
func (r *Router) Config() Config {
	return r.cfg
}

// RouteAvoiding computes a route with the default configuration.
// See Router.RouteAvoiding.
func RouteAvoiding(start, end diagram.Point, shapes []diagram.Shape, startShape, endShape *diagram.Shape, startDir, endDir diagram.Side) []diagram.Point {
	return defaultRouter.RouteAvoiding(start, end, shapes, startShape, endShape, startDir, endDir)
}

// RouteAvoiding computes an orthogonal route from start to end that steers
// around the shapes lying between or around the endpoints. startShape and
// endShape are the shapes the connector is bound to, if any; startDir and
// endDir are the sides the route must leave and enter through, honoured
// when cardinal.
//
// The result is always renderable: when no obstacle is relevant, an
// endpoint does not land on the grid, or the search fails or runs out of
// budget, the direct elbow route is returned instead.
func (r *Router) RouteAvoiding(start, end diagram.Point, shapes []diagram.Shape, startShape, endShape *diagram.Shape, startDir, endDir diagram.Side) []diagram.Point {
	obstacles := r.CollectObstacles(start, end, shapes, startShape, endShape)
	if len(obstacles) == 0 {
		r.record(OutcomeDirect, 0)
		return r.RouteDirect(start, end, startDir, endDir)
	}

	grid := r.BuildGrid(start, end, obstacles, startDir, endDir)
	from, okStart := grid.locate(start, r.cfg.Epsilon)
	to, okEnd := grid.locate(end, r.cfg.Epsilon)
	if !okStart || !okEnd {
		tracer().Errorf("endpoint off grid: start=%v end=%v", start, end)
		r.record(OutcomeFallbackIndex, 0)
		return r.RouteDirect(start, end, startDir, endDir)
	}

	s := &search{
		cfg:       r.cfg,
		grid:      grid,
		obstacles: obstacles,
		goal:      to,
		goalPoint: grid.point(to),
	}
	if startDir.IsCardinal() {
		s.exitDir = DirectionOf(startDir)
	}
	if endDir.IsCardinal() {
		s.entryDir = DirectionOf(endDir).Opposite()
	}

	raw, expanded, err := s.run(from)
	switch err {
	case nil:
	case errNodeLimit:
		tracer().Infof("route %v -> %v: %v after %d nodes, falling back", start, end, err, expanded)
		r.record(OutcomeFallbackCap, expanded)
		return r.RouteDirect(start, end, startDir, endDir)
	default:
		tracer().Debugf("route %v -> %v: %v, falling back", start, end, err)
		r.record(OutcomeFallbackExhausted, expanded)
		return r.RouteDirect(start, end, startDir, endDir)
	}

	r.record(OutcomeAvoided, expanded)
	if len(raw) > 0 {
		raw[0] = start
		raw[len(raw)-1] = end
	}
	return finish(Simplify(raw, r.cfg.Epsilon), start, end)
}

func (r *Router) record(outcome Outcome, expanded int) {
	if r.recorder != nil {
		r.recorder.RouteComputed(outcome, expanded)
	}
}

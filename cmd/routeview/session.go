package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"diagrid/anchors"
	"diagrid/binding"
	"diagrid/canvas"
	"diagrid/connections"
	"diagrid/diagram"
	"diagrid/metrics"
	"diagrid/pathfinding"
	"diagrid/scene"
	"diagrid/store"
)

// session wires a loaded scene to the binding and routing machinery.
type session struct {
	doc       *store.Document
	detector  *binding.Detector
	refresher *connections.Refresher
	collector *metrics.Collector
	registry  *prometheus.Registry
	name      string
}

func newSession(sc *scene.Scene) (*session, error) {
	collector := metrics.NewCollector()
	registry := prometheus.NewRegistry()
	if err := collector.Register(registry); err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	router := pathfinding.NewRouter(sc.RouterConfig())
	router.SetRecorder(collector)

	resolver := anchors.Resolver{}
	detector := binding.NewDetector(resolver, resolver, sc.DetectorConfig())
	detector.SetRecorder(collector)

	refresher := connections.NewRefresher(router, resolver, resolver)
	refresher.SetRecorder(collector)

	return &session{
		doc:       store.New(sc.Shapes, 100),
		detector:  detector,
		refresher: refresher,
		collector: collector,
		registry:  registry,
		name:      sc.Name,
	}, nil
}

// refreshAll brings every bound connector up to date.
func (s *session) refreshAll() {
	var ids []string
	for _, sh := range s.doc.Shapes() {
		if !sh.IsConnector() {
			ids = append(ids, sh.ID)
		}
	}
	s.refresher.RefreshBoundTo(ids, s.doc.Shapes, s.doc.Update)
}

// move drags a shape by (dx, dy) and refreshes the connectors bound to it.
func (s *session) move(id string, dx, dy float64) error {
	if err := s.doc.Move(id, dx, dy); err != nil {
		return err
	}
	s.refresher.RefreshBoundTo([]string{id}, s.doc.Shapes, s.doc.Update)
	return nil
}

// remove deletes a shape. Connectors bound to it keep their dangling
// binding and their last geometry.
func (s *session) remove(id string) error {
	if err := s.doc.Remove(id); err != nil {
		return err
	}
	s.refresher.RefreshBoundTo([]string{id}, s.doc.Shapes, s.doc.Update)
	return nil
}

// dropEnd simulates releasing a connector endpoint at p: the endpoint binds
// to the shape under p if there is one, and is detached otherwise.
func (s *session) dropEnd(connectorID string, end diagram.Endpoint, p diagram.Point, scale float64) (binding.Hit, bool) {
	line, ok := s.doc.Shape(connectorID)
	if !ok {
		return binding.Hit{}, false
	}
	q := binding.Query{
		Point:         p,
		ExcludeID:     connectorID,
		Scale:         scale,
		ActiveLayerID: line.LayerID,
	}
	hit, ok := s.detector.Detect(q, s.doc.Shapes())
	if !ok {
		s.refresher.Detach(connectorID, end, s.doc.Shapes, s.doc.Update)
		return binding.Hit{}, false
	}
	s.refresher.Attach(connectorID, end, hit, s.detector.Config().EdgeGap, s.doc.Shapes, s.doc.Update)
	return hit, true
}

// movable returns the ids of the shapes that can be dragged.
func (s *session) movable() []string {
	var ids []string
	for _, sh := range s.doc.Shapes() {
		if !sh.IsConnector() {
			ids = append(ids, sh.ID)
		}
	}
	return ids
}

// render draws the document onto a fresh canvas of the given size.
func (s *session) render(cols, rows int) (*canvas.MatrixCanvas, error) {
	c, err := canvas.NewMatrixCanvas(cols, rows)
	if err != nil {
		return nil, err
	}
	shapes := s.doc.Shapes()
	canvas.Render(c, canvas.Fit(shapes, cols, rows), shapes)
	return c, nil
}

// snapshot returns the current document as a scene.
func (s *session) snapshot(base *scene.Scene) *scene.Scene {
	out := *base
	out.Shapes = s.doc.Shapes()
	return &out
}

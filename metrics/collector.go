// Package metrics exposes routing, binding and refresh counters to
// Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"

	"diagrid/binding"
	"diagrid/connections"
	"diagrid/pathfinding"
)

const namespace = "diagrid"

// Collector implements the recorder hooks of the pathfinding, binding and
// connections packages.
type Collector struct {
	Routes        *prometheus.CounterVec
	ExpandedNodes prometheus.Histogram
	Bindings      *prometheus.CounterVec
	Refreshes     *prometheus.CounterVec
}

var (
	_ pathfinding.Recorder = (*Collector)(nil)
	_ binding.Recorder     = (*Collector)(nil)
	_ connections.Recorder = (*Collector)(nil)
)

// NewCollector creates unregistered metrics.
func NewCollector() *Collector {
	return &Collector{
		Routes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "router",
				Name:      "routes_total",
				Help:      "Obstacle-aware routing calls by outcome.",
			},
			[]string{"outcome"}),
		ExpandedNodes: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "router",
				Name:      "expanded_nodes",
				Help:      "Grid nodes expanded per A* search.",
				Buckets:   []float64{1, 10, 50, 100, 200, 400, 800},
			}),
		Bindings: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "binding",
				Name:      "detections_total",
				Help:      "Binding detections by result.",
			},
			[]string{"result"}),
		Refreshes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "refresher",
				Name:      "refreshes_total",
				Help:      "Bound connector refreshes by result.",
			},
			[]string{"result"}),
	}
}

// Register adds the metrics to reg.
func (c *Collector) Register(reg prometheus.Registerer) error {
	for _, m := range []prometheus.Collector{c.Routes, c.ExpandedNodes, c.Bindings, c.Refreshes} {
		if err := reg.Register(m); err != nil {
			return err
		}
	}
	return nil
}

// RouteComputed records one routing outcome. Expansion counts are only
// observed for calls that ran a search.
func (c *Collector) RouteComputed(outcome pathfinding.Outcome, expanded int) {
	c.Routes.WithLabelValues(string(outcome)).Inc()
	if expanded > 0 {
		c.ExpandedNodes.Observe(float64(expanded))
	}
}

// RouteCount returns the number of routes recorded with the given outcome.
func (c *Collector) RouteCount(outcome pathfinding.Outcome) float64 {
	var m dto.Metric
	if err := c.Routes.WithLabelValues(string(outcome)).Write(&m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}

// BindingDetected records one detection.
func (c *Collector) BindingDetected(result binding.Result) {
	c.Bindings.WithLabelValues(string(result)).Inc()
}

// ConnectorRefreshed records one refresh.
func (c *Collector) ConnectorRefreshed(result connections.Result) {
	c.Refreshes.WithLabelValues(string(result)).Inc()
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

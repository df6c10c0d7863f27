package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diagrid/anchors"
	"diagrid/binding"
	"diagrid/connections"
	"diagrid/diagram"
	"diagrid/pathfinding"
)

func TestCollectorCountsRoutes(t *testing.T) {
	c := NewCollector()
	r := pathfinding.NewRouter(pathfinding.DefaultConfig)
	r.SetRecorder(c)

	blocker := diagram.Shape{ID: "x", Kind: diagram.KindRectangle, Frame: diagram.Frame{X: 150, Y: 50, Width: 100, Height: 100}}
	r.RouteAvoiding(diagram.Point{X: 0, Y: 100}, diagram.Point{X: 400, Y: 100}, []diagram.Shape{blocker}, nil, nil, diagram.SideNone, diagram.SideNone)
	r.RouteAvoiding(diagram.Point{X: 0, Y: 100}, diagram.Point{X: 400, Y: 100}, nil, nil, nil, diagram.SideNone, diagram.SideNone)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.Routes.WithLabelValues("avoided")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Routes.WithLabelValues("direct")))
	assert.Equal(t, 2, testutil.CollectAndCount(c.Routes))
	assert.Equal(t, 1, testutil.CollectAndCount(c.ExpandedNodes))
}

func TestCollectorCountsBindingsAndRefreshes(t *testing.T) {
	c := NewCollector()
	d := binding.NewDetector(anchors.Resolver{}, anchors.Resolver{}, binding.DefaultConfig)
	d.SetRecorder(c)

	box := diagram.Shape{ID: "a", Kind: diagram.KindRectangle, Frame: diagram.Frame{Width: 100, Height: 100}}
	d.Detect(binding.Query{Point: diagram.Point{X: 110, Y: 50}, Scale: 1}, []diagram.Shape{box})
	d.Detect(binding.Query{Point: diagram.Point{X: 500, Y: 50}, Scale: 1}, []diagram.Shape{box})

	assert.Equal(t, 1.0, testutil.ToFloat64(c.Bindings.WithLabelValues("anchor")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Bindings.WithLabelValues("miss")))

	c.ConnectorRefreshed(connections.ResultUpdated)
	c.ConnectorRefreshed(connections.ResultUpdated)
	assert.Equal(t, 2.0, testutil.ToFloat64(c.Refreshes.WithLabelValues("updated")))
}

func TestCollectorHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector()
	require.NoError(t, c.Register(reg))
	assert.Error(t, c.Register(reg), "double registration must fail")

	c.RouteComputed(pathfinding.OutcomeFallbackCap, 800)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)

	assert.True(t, strings.Contains(string(body), `diagrid_router_routes_total{outcome="fallback_cap"} 1`))
	assert.True(t, strings.Contains(string(body), "diagrid_router_expanded_nodes_count 1"))
}

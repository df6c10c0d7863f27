// Package pathfinding computes connector geometry: a direct elbow router
// with no obstacle awareness, and an obstacle-aware router that runs A*
// over a coordinate-compressed sparse grid and falls back to the direct
// router whenever it cannot produce a route.
package pathfinding

import (
	"github.com/npillmayer/schuko/tracing"

	"diagrid/diagram"
)

// tracer writes to trace with key 'diagrid.pathfinding'
func tracer() tracing.Trace {
	return tracing.Select("diagrid.pathfinding")
}

// Config defines the cost model and limits of the routers. All distances
// are in world units.
type Config struct {
	TurnPenalty            float64 `json:"turnPenalty" yaml:"turnPenalty"`                       // Added when a move changes direction
	PenetrationPenalty     float64 `json:"penetrationPenalty" yaml:"penetrationPenalty"`         // Added when a move grazes an obstacle's interior
	ObstacleMargin         float64 `json:"obstacleMargin" yaml:"obstacleMargin"`                 // Clearance of grid lines around obstacles
	StubLength             float64 `json:"stubLength" yaml:"stubLength"`                         // Forced exit/entry segment length
	ProximityMargin        float64 `json:"proximityMargin" yaml:"proximityMargin"`               // Obstacle relevance distance from the endpoints' box
	MaxExpandedNodes       int     `json:"maxExpandedNodes" yaml:"maxExpandedNodes"`             // Search budget before falling back
	InteriorMargin         float64 `json:"interiorMargin" yaml:"interiorMargin"`                 // Shrink of ordinary obstacles for the hard rule
	EndpointInteriorMargin float64 `json:"endpointInteriorMargin" yaml:"endpointInteriorMargin"` // Shrink of the start/end shapes for the hard rule
	Epsilon                float64 `json:"epsilon" yaml:"epsilon"`                               // Coordinate matching tolerance
}

// DefaultConfig provides the interactive defaults.
var DefaultConfig = Config{
	TurnPenalty:            100,
	PenetrationPenalty:     500,
	ObstacleMargin:         15,
	StubLength:             20,
	ProximityMargin:        100,
	MaxExpandedNodes:       800,
	InteriorMargin:         1,
	EndpointInteriorMargin: 3,
	Epsilon:                0.1,
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig
	if c.TurnPenalty == 0 {
		c.TurnPenalty = d.TurnPenalty
	}
	if c.PenetrationPenalty == 0 {
		c.PenetrationPenalty = d.PenetrationPenalty
	}
	if c.ObstacleMargin == 0 {
		c.ObstacleMargin = d.ObstacleMargin
	}
	if c.StubLength == 0 {
		c.StubLength = d.StubLength
	}
	if c.ProximityMargin == 0 {
		c.ProximityMargin = d.ProximityMargin
	}
	if c.MaxExpandedNodes <= 0 {
		c.MaxExpandedNodes = d.MaxExpandedNodes
	}
	if c.InteriorMargin == 0 {
		c.InteriorMargin = d.InteriorMargin
	}
	if c.EndpointInteriorMargin == 0 {
		c.EndpointInteriorMargin = d.EndpointInteriorMargin
	}
	if c.Epsilon <= 0 {
		c.Epsilon = d.Epsilon
	}
	return c
}

// Direction represents a movement direction on the grid.
type Direction int

const (
	None Direction = iota
	North
	East
	South
	West
)

// String returns the string representation of a Direction.
func (d Direction) String() string {
	switch d {
	case North:
		return "North"
	case East:
		return "East"
	case South:
		return "South"
	case West:
		return "West"
	default:
		return "None"
	}
}

// Opposite returns the opposite direction.
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case East:
		return West
	case South:
		return North
	case West:
		return East
	default:
		return d
	}
}

// DirectionOf maps a cardinal side to the compass direction pointing out of
// the shape through that side. Y grows downward, so "top" is North.
func DirectionOf(s diagram.Side) Direction {
	switch s {
	case diagram.SideTop:
		return North
	case diagram.SideRight:
		return East
	case diagram.SideBottom:
		return South
	case diagram.SideLeft:
		return West
	default:
		return None
	}
}

// Outcome classifies how a routing call produced its path.
type Outcome string

const (
	OutcomeDirect            Outcome = "direct"             // No relevant obstacles
	OutcomeAvoided           Outcome = "avoided"            // Grid search succeeded
	OutcomeFallbackIndex     Outcome = "fallback_index"     // Endpoint missing from the grid
	OutcomeFallbackExhausted Outcome = "fallback_exhausted" // Open set ran empty
	OutcomeFallbackCap       Outcome = "fallback_cap"       // Node budget exceeded
)

// Recorder receives one notification per obstacle-aware routing call.
type Recorder interface {
	RouteComputed(outcome Outcome, expanded int)
}

package pathfinding

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"diagrid/diagram"
)

func pt(x, y float64) diagram.Point {
	return diagram.Point{X: x, Y: y}
}

func TestRouteDirect(t *testing.T) {
	tests := []struct {
		name     string
		start    diagram.Point
		end      diagram.Point
		startDir diagram.Side
		endDir   diagram.Side
		expected []diagram.Point
	}{
		{
			name:     "no directions bends at mid x",
			start:    pt(0, 0),
			end:      pt(100, 50),
			expected: []diagram.Point{pt(0, 0), pt(50, 0), pt(50, 50), pt(100, 50)},
		},
		{
			name:     "aligned endpoints collapse to a straight segment",
			start:    pt(0, 10),
			end:      pt(100, 10),
			expected: []diagram.Point{pt(0, 10), pt(100, 10)},
		},
		{
			name:     "start stub to the right",
			start:    pt(100, 50),
			end:      pt(300, 350),
			startDir: diagram.SideRight,
			expected: []diagram.Point{pt(100, 50), pt(300, 50), pt(300, 350)},
		},
		{
			name:     "end direction only picks the larger displacement",
			start:    pt(0, 0),
			end:      pt(200, 50),
			endDir:   diagram.SideLeft,
			expected: []diagram.Point{pt(0, 0), pt(180, 0), pt(180, 50), pt(200, 50)},
		},
		{
			name:     "start stub that would reverse bends vertically first",
			start:    pt(100, 0),
			end:      pt(0, 100),
			startDir: diagram.SideRight,
			expected: []diagram.Point{pt(100, 0), pt(120, 0), pt(120, 100), pt(0, 100)},
		},
		{
			name:     "end behind the start stub jogs around it",
			start:    pt(100, 50),
			end:      pt(-200, 50),
			startDir: diagram.SideRight,
			expected: []diagram.Point{pt(100, 50), pt(120, 50), pt(120, 70), pt(-200, 70), pt(-200, 50)},
		},
		{
			name:     "end stub pointing back along the line",
			start:    pt(0, 0),
			end:      pt(100, 0),
			startDir: diagram.SideRight,
			endDir:   diagram.SideRight,
			expected: []diagram.Point{pt(0, 0), pt(20, 0), pt(20, 20), pt(120, 20), pt(120, 0), pt(100, 0)},
		},
		{
			name:     "vertical fold jogs sideways",
			start:    pt(0, 0),
			end:      pt(0, -100),
			startDir: diagram.SideBottom,
			expected: []diagram.Point{pt(0, 0), pt(0, 20), pt(20, 20), pt(20, -100), pt(0, -100)},
		},
		{
			name:     "facing stubs on one line stay straight",
			start:    pt(0, 0),
			end:      pt(100, 0),
			startDir: diagram.SideRight,
			endDir:   diagram.SideLeft,
			expected: []diagram.Point{pt(0, 0), pt(100, 0)},
		},
		{
			name:     "both stubs",
			start:    pt(0, 0),
			end:      pt(100, 100),
			startDir: diagram.SideBottom,
			endDir:   diagram.SideTop,
			expected: []diagram.Point{pt(0, 0), pt(0, 80), pt(100, 80), pt(100, 100)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := RouteDirect(tt.start, tt.end, tt.startDir, tt.endDir)
			assert.Equal(t, tt.expected, path)
		})
	}
}

func TestRouteDirectIsTotal(t *testing.T) {
	sides := []diagram.Side{diagram.SideNone, diagram.SideTop, diagram.SideRight, diagram.SideBottom, diagram.SideLeft, diagram.SideEdge}
	ends := []diagram.Point{pt(0, 0), pt(0.05, 0), pt(-30, 40), pt(500, -20)}

	for _, sd := range sides {
		for _, ed := range sides {
			for _, end := range ends {
				path := RouteDirect(pt(0, 0), end, sd, ed)
				if assert.GreaterOrEqual(t, len(path), 2) {
					assert.Equal(t, pt(0, 0), path[0])
					assert.Equal(t, end, path[len(path)-1])
				}
				assertOrthogonal(t, path)
			}
		}
	}
}

func TestRouteDirectKeepsStartDirection(t *testing.T) {
	leaves := map[diagram.Side]func(a, b diagram.Point) bool{
		diagram.SideRight:  func(a, b diagram.Point) bool { return b.X > a.X && b.Y == a.Y },
		diagram.SideLeft:   func(a, b diagram.Point) bool { return b.X < a.X && b.Y == a.Y },
		diagram.SideBottom: func(a, b diagram.Point) bool { return b.Y > a.Y && b.X == a.X },
		diagram.SideTop:    func(a, b diagram.Point) bool { return b.Y < a.Y && b.X == a.X },
	}
	ends := []diagram.Point{pt(-300, 0), pt(300, 0), pt(0, -300), pt(0, 300), pt(-200, 150)}

	for side, ok := range leaves {
		for _, end := range ends {
			path := RouteDirect(pt(0, 0), end, side, diagram.SideNone)
			if assert.GreaterOrEqual(t, len(path), 2) {
				assert.True(t, ok(path[0], path[1]), "leaving %s toward %v: %v", side, end, path)
			}
		}
	}
}

func TestDirectionOf(t *testing.T) {
	assert.Equal(t, North, DirectionOf(diagram.SideTop))
	assert.Equal(t, East, DirectionOf(diagram.SideRight))
	assert.Equal(t, South, DirectionOf(diagram.SideBottom))
	assert.Equal(t, West, DirectionOf(diagram.SideLeft))
	assert.Equal(t, None, DirectionOf(diagram.SideTopLeft))
	assert.Equal(t, South, North.Opposite())
	assert.Equal(t, None, None.Opposite())
}

// assertOrthogonal checks that every segment between interior points is
// axis-aligned. The first and last points are exact endpoints and may be a
// sub-epsilon distance off their neighbour's line.
func assertOrthogonal(t *testing.T, path []diagram.Point) {
	t.Helper()
	for i := 1; i < len(path); i++ {
		a, b := path[i-1], path[i]
		if a.X != b.X && a.Y != b.Y {
			dx, dy := a.X-b.X, a.Y-b.Y
			if dx < 0 {
				dx = -dx
			}
			if dy < 0 {
				dy = -dy
			}
			assert.True(t, dx < DefaultConfig.Epsilon || dy < DefaultConfig.Epsilon,
				"diagonal segment %v -> %v", a, b)
		}
	}
}

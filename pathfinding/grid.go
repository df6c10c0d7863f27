package pathfinding

import (
	"sort"

	"diagrid/diagram"
)

// Grid is a coordinate-compressed routing grid: only the x and y values
// that matter (endpoints, stubs, obstacle edges and centers) become grid
// lines, so the search space grows with the number of obstacles rather
// than with the distance covered.
type Grid struct {
	Xs, Ys []float64
}

// cell addresses a grid node by its line indices.
type cell struct {
	gx, gy int
}

// BuildGrid collects the grid lines for a route from start to end.
func (r *Router) BuildGrid(start, end diagram.Point, obstacles []RectangleObstacle, startDir, endDir diagram.Side) Grid {
	xs := make([]float64, 0, 3*len(obstacles)+4)
	ys := make([]float64, 0, 3*len(obstacles)+4)

	if startDir.IsCardinal() {
		s := stub(start, startDir, r.cfg.StubLength)
		xs, ys = append(xs, s.X), append(ys, s.Y)
	}
	if endDir.IsCardinal() {
		e := stub(end, endDir, r.cfg.StubLength)
		xs, ys = append(xs, e.X), append(ys, e.Y)
	}

	m := r.cfg.ObstacleMargin
	for _, o := range obstacles {
		c := o.Bounds.Center()
		xs = append(xs, o.Bounds.Min.X-m, o.Bounds.Max.X+m, c.X)
		ys = append(ys, o.Bounds.Min.Y-m, o.Bounds.Max.Y+m, c.Y)
	}

	return Grid{
		Xs: compressAxis([]float64{start.X, end.X}, xs, r.cfg.Epsilon),
		Ys: compressAxis([]float64{start.Y, end.Y}, ys, r.cfg.Epsilon),
	}
}

// compressAxis sorts the values and merges those closer than eps. When a
// cluster contains a pinned value (an endpoint coordinate) the pinned value
// survives, so endpoints always sit exactly on a grid line.
func compressAxis(pinned, values []float64, eps float64) []float64 {
	all := make([]float64, 0, len(pinned)+len(values))
	all = append(all, pinned...)
	all = append(all, values...)
	sort.Float64s(all)

	isPinned := func(v float64) bool {
		for _, p := range pinned {
			if p == v {
				return true
			}
		}
		return false
	}

	out := make([]float64, 0, len(all))
	for _, v := range all {
		if n := len(out); n > 0 && v-out[n-1] < eps {
			if isPinned(v) && !isPinned(out[n-1]) {
				out[n-1] = v
			}
			continue
		}
		out = append(out, v)
	}
	return out
}

// indexOf returns the first grid line within eps of v.
func indexOf(lines []float64, v, eps float64) (int, bool) {
	for i, l := range lines {
		if l-v < eps && v-l < eps {
			return i, true
		}
	}
	return -1, false
}

// locate returns the grid cell holding p.
func (g Grid) locate(p diagram.Point, eps float64) (cell, bool) {
	gx, okX := indexOf(g.Xs, p.X, eps)
	gy, okY := indexOf(g.Ys, p.Y, eps)
	return cell{gx: gx, gy: gy}, okX && okY
}

// point returns the world coordinate of a grid cell.
func (g Grid) point(c cell) diagram.Point {
	return diagram.Point{X: g.Xs[c.gx], Y: g.Ys[c.gy]}
}

// Size returns the number of grid nodes.
func (g Grid) Size() int {
	return len(g.Xs) * len(g.Ys)
}

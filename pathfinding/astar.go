package pathfinding

import (
	"container/heap"
	"errors"

	"diagrid/diagram"
	"diagrid/geometry"
)

var (
	errExhausted = errors.New("no path found")
	errNodeLimit = errors.New("pathfinding exceeded node limit")
)

// gridNode represents a state in the A* search.
type gridNode struct {
	cell      cell
	point     diagram.Point
	gCost     float64   // Cost from start
	hCost     float64   // Heuristic cost to goal
	fCost     float64   // gCost + hCost
	parent    *gridNode
	direction Direction // Direction we entered this node from
	index     int       // Index in the heap
}

// nodeQueue is a priority queue for A* nodes.
type nodeQueue []*gridNode

func (nq nodeQueue) Len() int { return len(nq) }
func (nq nodeQueue) Less(i, j int) bool {
	if nq[i].fCost != nq[j].fCost {
		return nq[i].fCost < nq[j].fCost
	}
	// Prefer nodes closer to the goal, then a fixed cell order so equal
	// layouts always yield the same route.
	if nq[i].hCost != nq[j].hCost {
		return nq[i].hCost < nq[j].hCost
	}
	if nq[i].cell.gx != nq[j].cell.gx {
		return nq[i].cell.gx < nq[j].cell.gx
	}
	return nq[i].cell.gy < nq[j].cell.gy
}

func (nq nodeQueue) Swap(i, j int) {
	nq[i], nq[j] = nq[j], nq[i]
	nq[i].index = i
	nq[j].index = j
}

func (nq *nodeQueue) Push(x interface{}) {
	node := x.(*gridNode)
	node.index = len(*nq)
	*nq = append(*nq, node)
}

func (nq *nodeQueue) Pop() interface{} {
	old := *nq
	n := len(old)
	node := old[n-1]
	old[n-1] = nil  // avoid memory leak
	node.index = -1 // for safety
	*nq = old[0 : n-1]
	return node
}

// moves lists the four grid steps in a fixed order.
var moves = [...]struct {
	dx, dy int
	dir    Direction
}{
	{0, -1, North},
	{1, 0, East},
	{0, 1, South},
	{-1, 0, West},
}

// search is the state of one A* run. It is allocated per call and
// discarded afterwards; obstacle positions change too often to reuse it.
type search struct {
	cfg       Config
	grid      Grid
	obstacles []RectangleObstacle
	goal      cell
	goalPoint diagram.Point
	exitDir   Direction // Required first move, or None
	entryDir  Direction // Required move into the goal, or None
}

// run performs A* from the start cell and returns the raw grid path along
// with the number of expanded nodes.
func (s *search) run(start cell) ([]diagram.Point, int, error) {
	openSet := &nodeQueue{}
	heap.Init(openSet)
	closedSet := make(map[cell]bool)
	nodeMap := make(map[cell]*gridNode)

	startPoint := s.grid.point(start)
	startNode := &gridNode{
		cell:      start,
		point:     startPoint,
		hCost:     geometry.ManhattanDistance(startPoint, s.goalPoint),
		direction: None,
	}
	startNode.fCost = startNode.hCost
	heap.Push(openSet, startNode)
	nodeMap[start] = startNode

	expanded := 0
	for openSet.Len() > 0 {
		if expanded >= s.cfg.MaxExpandedNodes {
			return nil, expanded, errNodeLimit
		}
		current := heap.Pop(openSet).(*gridNode)
		expanded++

		if current.cell == s.goal {
			return reconstructPath(current), expanded, nil
		}
		closedSet[current.cell] = true

		for _, mv := range moves {
			next := cell{gx: current.cell.gx + mv.dx, gy: current.cell.gy + mv.dy}
			if next.gx < 0 || next.gx >= len(s.grid.Xs) || next.gy < 0 || next.gy >= len(s.grid.Ys) {
				continue
			}
			if closedSet[next] {
				continue
			}
			if current.parent == nil && s.exitDir != None && mv.dir != s.exitDir {
				continue
			}
			if next == s.goal && s.entryDir != None && mv.dir != s.entryDir {
				continue
			}

			nextPoint := s.grid.point(next)
			cost, ok := s.stepCost(current, nextPoint, mv.dir)
			if !ok {
				continue
			}
			tentative := current.gCost + cost

			existing, seen := nodeMap[next]
			if !seen {
				node := &gridNode{
					cell:      next,
					point:     nextPoint,
					gCost:     tentative,
					hCost:     geometry.ManhattanDistance(nextPoint, s.goalPoint),
					parent:    current,
					direction: mv.dir,
				}
				node.fCost = node.gCost + node.hCost
				heap.Push(openSet, node)
				nodeMap[next] = node
			} else if tentative < existing.gCost {
				existing.gCost = tentative
				existing.fCost = existing.gCost + existing.hCost
				existing.parent = current
				existing.direction = mv.dir
				heap.Fix(openSet, existing.index)
			}
		}
	}
	return nil, expanded, errExhausted
}

// stepCost prices the move from current to next. The move is rejected when
// it enters an obstacle's margin-shrunk interior.
func (s *search) stepCost(current *gridNode, next diagram.Point, dir Direction) (float64, bool) {
	cost := geometry.ManhattanDistance(current.point, next)

	if current.direction != None && current.direction != dir {
		cost += s.cfg.TurnPenalty
	}

	penetrates := false
	for _, o := range s.obstacles {
		if o.blocks(current.point, next) {
			return 0, false
		}
		if !penetrates && o.penetrates(current.point, next) {
			penetrates = true
		}
	}
	if penetrates {
		cost += s.cfg.PenetrationPenalty
	}
	return cost, true
}

// reconstructPath walks parent pointers back from the goal node.
func reconstructPath(goal *gridNode) []diagram.Point {
	var points []diagram.Point
	for n := goal; n != nil; n = n.parent {
		points = append(points, n.point)
	}
	for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
		points[i], points[j] = points[j], points[i]
	}
	return points
}

package navigation

import (
	"math"

	"github.com/jakecoffman/cp"
)

// graphPriorityScale turns float path costs into heap priorities.
const graphPriorityScale = 1000

// NavNode is one waypoint of the precomputed navigation graph. Neighbors are
// indices into the graph slice.
type NavNode struct {
	ID        int
	Cell      Cell
	World     cp.Vector
	Neighbors []int
}

// VisibleFunc reports line of sight between two world points.
type VisibleFunc func(a, b cp.Vector) bool

// GraphRouter routes over a waypoint graph, trying direct visibility first.
// Routes are approximate: quality depends on where the graph nodes are.
type GraphRouter struct {
	Nodes   []NavNode
	Visible VisibleFunc
}

// Route returns world waypoints from start to end, the last one being end
// itself. ok is false for an empty graph, a missing visibility query, or when
// the chosen graph nodes are not connected.
func (r GraphRouter) Route(start, end cp.Vector) ([]cp.Vector, bool) {
	if len(r.Nodes) == 0 || r.Visible == nil {
		return nil, false
	}

	if r.Visible(start, end) {
		return []cp.Vector{end}, true
	}

	from := r.nearestVisible(start)
	to := r.nearestVisible(end)
	if from < 0 || to < 0 {
		return nil, false
	}
	if from == to {
		return []cp.Vector{r.Nodes[from].World, end}, true
	}

	route := r.search(from, to)
	if len(route) == 0 {
		return nil, false
	}

	out := make([]cp.Vector, 0, len(route)+1)
	for _, idx := range route {
		out = append(out, r.Nodes[idx].World)
	}
	out = append(out, end)
	return out, true
}

// nearestVisible picks the closest node with line of sight from p, or the
// closest node overall when none is visible.
func (r GraphRouter) nearestVisible(p cp.Vector) int {
	best := -1
	bestDist := math.MaxFloat64
	for i := range r.Nodes {
		d := r.Nodes[i].World.DistanceSq(p)
		if d >= bestDist {
			continue
		}
		if !r.Visible(p, r.Nodes[i].World) {
			continue
		}
		best, bestDist = i, d
	}
	if best >= 0 {
		return best
	}

	for i := range r.Nodes {
		d := r.Nodes[i].World.DistanceSq(p)
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func (r GraphRouter) search(start, goal int) []int {
	n := len(r.Nodes)
	g := make([]float64, n)
	from := make([]int, n)
	closed := make([]bool, n)
	for i := range g {
		g[i] = math.Inf(1)
		from[i] = -1
	}

	goalPos := r.Nodes[goal].World
	open := NewHeap(n)
	g[start] = 0
	open.Push(start, priority(r.Nodes[start].World.Distance(goalPos)))

	for {
		current, ok := open.Pop()
		if !ok {
			return nil
		}
		if current == goal {
			return unwindParents(from, current, n)
		}
		closed[current] = true

		pos := r.Nodes[current].World
		for _, nb := range r.Nodes[current].Neighbors {
			if nb < 0 || nb >= n || closed[nb] {
				continue
			}
			tentative := g[current] + pos.Distance(r.Nodes[nb].World)
			if tentative >= g[nb] {
				continue
			}
			from[nb] = current
			g[nb] = tentative
			open.Push(nb, priority(tentative+r.Nodes[nb].World.Distance(goalPos)))
		}
	}
}

func priority(cost float64) int {
	return int(cost * graphPriorityScale)
}

func unwindParents(from []int, current, limit int) []int {
	path := make([]int, 0, 16)
	for ; current != -1; current = from[current] {
		path = append(path, current)
		if len(path) > limit {
			return nil
		}
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

package navigation

import "math"

type nodeStatus uint8

const (
	nodeUnvisited nodeStatus = iota
	nodeOpen
	nodeClosed
)

type searchNode struct {
	status    nodeStatus
	parent    int
	costSoFar int
	heuristic int
	total     int
}

var cardinalOffsets = [4]Cell{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}}

// GridSearch runs A* over a Grid with 4-way moves of cost 1 and a Manhattan
// heuristic. Its working state belongs to the last FindPath call.
type GridSearch struct {
	grid  *Grid
	nodes []searchNode
	open  *Heap

	// MaxExpansions stops a search after that many expanded nodes.
	// Zero means no limit.
	MaxExpansions int

	found    bool
	target   int
	expanded int
}

func NewGridSearch(g *Grid) *GridSearch {
	return &GridSearch{
		grid:   g,
		nodes:  make([]searchNode, g.Size()),
		open:   NewHeap(64),
		target: -1,
	}
}

// Expanded returns the number of nodes the last search expanded.
func (s *GridSearch) Expanded() int {
	return s.expanded
}

func (s *GridSearch) reset() {
	for i := range s.nodes {
		s.nodes[i] = searchNode{
			parent:    -1,
			costSoFar: math.MaxInt,
			heuristic: math.MaxInt,
			total:     math.MaxInt,
		}
	}
	s.open.Reset()
	s.found = false
	s.target = -1
	s.expanded = 0
}

// FindPath searches from start to end, both absolute cells. It returns false
// when either cell is outside the grid or no route exists.
func (s *GridSearch) FindPath(start, end Cell) bool {
	if s == nil || s.grid.Size() == 0 {
		return false
	}
	startIdx, ok := s.grid.Index(start)
	if !ok {
		return false
	}
	endIdx, ok := s.grid.Index(end)
	if !ok {
		return false
	}

	s.reset()

	h := start.Manhattan(end)
	s.nodes[startIdx] = searchNode{status: nodeOpen, parent: -1, costSoFar: 0, heuristic: h, total: h}
	s.open.Push(startIdx, h)

	for {
		current, ok := s.open.Pop()
		if !ok {
			return false
		}
		s.expanded++
		if current == endIdx {
			s.found = true
			s.target = endIdx
			return true
		}
		if s.MaxExpansions > 0 && s.expanded >= s.MaxExpansions {
			return false
		}

		s.nodes[current].status = nodeClosed
		cell := s.grid.CellAt(current)
		cost := s.nodes[current].costSoFar + 1

		for _, d := range cardinalOffsets {
			next := cell.Add(d)
			idx, ok := s.grid.Index(next)
			if !ok || !s.grid.cells[idx] {
				continue
			}
			n := &s.nodes[idx]
			if n.status == nodeClosed || cost >= n.costSoFar {
				continue
			}
			n.parent = current
			n.costSoFar = cost
			n.heuristic = next.Manhattan(end)
			n.total = cost + n.heuristic
			n.status = nodeOpen
			s.open.Push(idx, n.total)
		}
	}
}

// ReconstructPath returns the local indices from start to end for the last
// successful FindPath. It returns nil if end was not the goal reached.
func (s *GridSearch) ReconstructPath(end Cell) []int {
	if s == nil || !s.found {
		return nil
	}
	endIdx, ok := s.grid.Index(end)
	if !ok || endIdx != s.target {
		return nil
	}

	path := make([]int, 0, 32)
	for cur := endIdx; cur != -1; cur = s.nodes[cur].parent {
		path = append(path, cur)
		if len(path) > len(s.nodes) {
			return nil
		}
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// Cells converts local indices into absolute cells.
func (s *GridSearch) Cells(indices []int) []Cell {
	out := make([]Cell, 0, len(indices))
	for _, idx := range indices {
		out = append(out, s.grid.CellAt(idx))
	}
	return out
}

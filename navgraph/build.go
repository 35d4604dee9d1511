// Package navgraph generates waypoint graphs for the navigation service from
// a walkability snapshot. The service itself never builds graphs.
package navgraph

import (
	"github.com/milk9111/dungeonnav/navigation"
)

const (
	DefaultSpacing         = 4
	DefaultMaxLinkDistance = 8.0
)

type Options struct {
	// Spacing is the side, in cells, of the block each node is sampled from.
	Spacing int
	// MaxLinkDistance is the longest world distance an edge may span.
	MaxLinkDistance float64
	// CellCenterOffset places node world positions inside their cell.
	CellCenterOffset float64
}

func (o Options) withDefaults() Options {
	if o.Spacing < 1 {
		o.Spacing = DefaultSpacing
	}
	if o.MaxLinkDistance <= 0 {
		o.MaxLinkDistance = DefaultMaxLinkDistance
	}
	return o
}

// Build samples one node per Spacing x Spacing block, the walkable cell
// closest to the block centre, and links every pair of nodes that are within
// MaxLinkDistance and see each other across walkable cells.
func Build(snap navigation.Snapshot, tr navigation.Transform, opts Options) []navigation.NavNode {
	if tr == nil || snap.Width <= 0 || snap.Height <= 0 {
		return nil
	}
	opts = opts.withDefaults()

	var nodes []navigation.NavNode
	for by := 0; by < snap.Height; by += opts.Spacing {
		for bx := 0; bx < snap.Width; bx += opts.Spacing {
			cell, ok := blockNode(snap, bx, by, opts.Spacing)
			if !ok {
				continue
			}
			world := tr.CellToWorld(cell).Add(tr.CellSize().Mult(opts.CellCenterOffset))
			nodes = append(nodes, navigation.NavNode{ID: len(nodes), Cell: cell, World: world})
		}
	}

	blocked := func(c navigation.Cell) bool { return !snap.Walkable(c) }
	for i := range nodes {
		for j := i + 1; j < len(nodes); j++ {
			if nodes[i].World.Distance(nodes[j].World) > opts.MaxLinkDistance {
				continue
			}
			if !navigation.LineOfSight(nodes[i].Cell, nodes[j].Cell, blocked) {
				continue
			}
			nodes[i].Neighbors = append(nodes[i].Neighbors, j)
			nodes[j].Neighbors = append(nodes[j].Neighbors, i)
		}
	}
	return nodes
}

func blockNode(snap navigation.Snapshot, bx, by, spacing int) (navigation.Cell, bool) {
	cx := 2*bx + spacing - 1
	cy := 2*by + spacing - 1
	best := navigation.Cell{}
	bestDist := -1
	for y := by; y < by+spacing && y < snap.Height; y++ {
		for x := bx; x < bx+spacing && x < snap.Width; x++ {
			if !snap.Cells[y*snap.Width+x] {
				continue
			}
			// doubled coordinates keep the block centre on the integer lattice
			dx, dy := 2*x-cx, 2*y-cy
			d := dx*dx + dy*dy
			if bestDist < 0 || d < bestDist {
				best = navigation.Cell{X: snap.Origin.X + x, Y: snap.Origin.Y + y}
				bestDist = d
			}
		}
	}
	return best, bestDist >= 0
}

// Components returns the number of connected components of a graph.
func Components(nodes []navigation.NavNode) int {
	seen := make([]bool, len(nodes))
	count := 0
	stack := make([]int, 0, len(nodes))
	for i := range nodes {
		if seen[i] {
			continue
		}
		count++
		seen[i] = true
		stack = append(stack[:0], i)
		for len(stack) > 0 {
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, nb := range nodes[n].Neighbors {
				if nb >= 0 && nb < len(nodes) && !seen[nb] {
					seen[nb] = true
					stack = append(stack, nb)
				}
			}
		}
	}
	return count
}

package navigation

// Layer is a read-only view of one tile layer of the level.
type Layer interface {
	// Bounds returns the occupied rectangle of the layer, max exclusive.
	// ok is false for an empty layer.
	Bounds() (lo, hi Cell, ok bool)
	HasTile(c Cell) bool
}

// Grid is the walkability grid. Local index (0,0) is Origin; cells are
// stored row-major. A Grid is never mutated after BuildGrid returns.
type Grid struct {
	origin Cell
	width  int
	height int
	cells  []bool
}

// BuildGrid derives walkability from the obstruction layer and an optional
// ground layer over the union of their bounds. A cell is walkable when it has
// no obstruction tile and, if ground is set, has a ground tile. BuildGrid
// returns nil when there is no obstruction layer.
func BuildGrid(obstruction, ground Layer) *Grid {
	if obstruction == nil {
		return nil
	}

	lo, hi, ok := obstruction.Bounds()
	if ground != nil {
		glo, ghi, gok := ground.Bounds()
		switch {
		case gok && ok:
			lo = Cell{X: min(lo.X, glo.X), Y: min(lo.Y, glo.Y)}
			hi = Cell{X: max(hi.X, ghi.X), Y: max(hi.Y, ghi.Y)}
		case gok:
			lo, hi, ok = glo, ghi, true
		}
	}

	g := &Grid{}
	if !ok {
		return g
	}
	w := hi.X - lo.X
	h := hi.Y - lo.Y
	if w <= 0 || h <= 0 {
		return g
	}

	g.origin = lo
	g.width = w
	g.height = h
	g.cells = make([]bool, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			abs := Cell{X: lo.X + x, Y: lo.Y + y}
			if obstruction.HasTile(abs) {
				continue
			}
			if ground != nil && !ground.HasTile(abs) {
				continue
			}
			g.cells[y*w+x] = true
		}
	}
	return g
}

func (g *Grid) Origin() Cell { return g.origin }
func (g *Grid) Width() int   { return g.width }
func (g *Grid) Height() int  { return g.height }

// Size is the number of cells, zero for an empty grid.
func (g *Grid) Size() int {
	if g == nil {
		return 0
	}
	return g.width * g.height
}

// Local translates an absolute cell into local grid coordinates.
func (g *Grid) Local(c Cell) Cell {
	return Cell{X: c.X - g.origin.X, Y: c.Y - g.origin.Y}
}

func (g *Grid) InBounds(c Cell) bool {
	if g == nil {
		return false
	}
	l := g.Local(c)
	return l.X >= 0 && l.Y >= 0 && l.X < g.width && l.Y < g.height
}

// Index returns the dense index of an absolute cell.
func (g *Grid) Index(c Cell) (int, bool) {
	if !g.InBounds(c) {
		return -1, false
	}
	l := g.Local(c)
	return l.Y*g.width + l.X, true
}

// CellAt returns the absolute cell of a dense index.
func (g *Grid) CellAt(index int) Cell {
	return Cell{X: g.origin.X + index%g.width, Y: g.origin.Y + index/g.width}
}

// Walkable reports whether the absolute cell is inside the grid and walkable.
func (g *Grid) Walkable(c Cell) bool {
	idx, ok := g.Index(c)
	return ok && g.cells[idx]
}

// WalkableCount returns the number of walkable cells.
func (g *Grid) WalkableCount() int {
	if g == nil {
		return 0
	}
	n := 0
	for _, w := range g.cells {
		if w {
			n++
		}
	}
	return n
}

// Snapshot returns a copy of the grid that callers may keep and modify.
func (g *Grid) Snapshot() Snapshot {
	cells := make([]bool, len(g.cells))
	copy(cells, g.cells)
	return Snapshot{Origin: g.origin, Width: g.width, Height: g.height, Cells: cells}
}

// Snapshot is a detached copy of the walkability grid.
type Snapshot struct {
	Origin Cell
	Width  int
	Height int
	Cells  []bool
}

// Walkable reports walkability of an absolute cell in the snapshot.
func (s Snapshot) Walkable(c Cell) bool {
	x := c.X - s.Origin.X
	y := c.Y - s.Origin.Y
	if x < 0 || y < 0 || x >= s.Width || y >= s.Height {
		return false
	}
	return s.Cells[y*s.Width+x]
}

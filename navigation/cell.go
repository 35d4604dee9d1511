package navigation

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Cell is an absolute integer tile coordinate.
type Cell struct {
	X int
	Y int
}

// Add returns c offset by d.
func (c Cell) Add(d Cell) Cell {
	return Cell{X: c.X + d.X, Y: c.Y + d.Y}
}

// Manhattan returns the 4-connected step distance between c and o.
func (c Cell) Manhattan(o Cell) int {
	return absInt(c.X-o.X) + absInt(c.Y-o.Y)
}

// Transform converts between world space and absolute cells. It is supplied
// by whoever owns the level geometry.
type Transform interface {
	CellToWorld(c Cell) cp.Vector
	WorldToCell(p cp.Vector) Cell
	CellSize() cp.Vector
}

// UniformTransform maps square cells of Size world units, with cell (0,0)
// starting at Origin.
type UniformTransform struct {
	Origin cp.Vector
	Size   float64
}

func NewUniformTransform(size float64) UniformTransform {
	if size <= 0 {
		size = 1
	}
	return UniformTransform{Size: size}
}

func (t UniformTransform) size() float64 {
	if t.Size <= 0 {
		return 1
	}
	return t.Size
}

func (t UniformTransform) CellToWorld(c Cell) cp.Vector {
	s := t.size()
	return cp.Vector{X: t.Origin.X + float64(c.X)*s, Y: t.Origin.Y + float64(c.Y)*s}
}

func (t UniformTransform) WorldToCell(p cp.Vector) Cell {
	s := t.size()
	return Cell{
		X: int(math.Floor((p.X - t.Origin.X) / s)),
		Y: int(math.Floor((p.Y - t.Origin.Y) / s)),
	}
}

func (t UniformTransform) CellSize() cp.Vector {
	s := t.size()
	return cp.Vector{X: s, Y: s}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

package navigation

import "github.com/jakecoffman/cp"

// LineOfSight rasterizes the segment a-b with Bresenham and reports whether
// none of its cells, endpoints included, is blocked.
func LineOfSight(a, b Cell, blocked func(Cell) bool) bool {
	if blocked == nil {
		return false
	}
	x0, y0 := a.X, a.Y
	x1, y1 := b.X, b.Y

	dx := absInt(x1 - x0)
	dy := -absInt(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		if blocked(Cell{X: x0, Y: y0}) {
			return false
		}
		if x0 == x1 && y0 == y1 {
			return true
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// Visibility answers line-of-sight queries between world points.
type Visibility struct {
	Obstruction Layer
	Transform   Transform
}

// Visible reports whether the straight segment between a and b crosses no
// obstruction tile. Without an obstruction layer nothing is visible.
func (v Visibility) Visible(a, b cp.Vector) bool {
	if v.Obstruction == nil || v.Transform == nil {
		return false
	}
	return LineOfSight(v.Transform.WorldToCell(a), v.Transform.WorldToCell(b), v.Obstruction.HasTile)
}

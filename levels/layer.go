package levels

import (
	"math/rand"
	"slices"

	"github.com/milk9111/dungeonnav/navigation"
)

// TileLayer merges one or more level layers into a single navigation layer.
// A cell has a tile if any of the merged layers has a non-zero id there.
type TileLayer struct {
	level  *Level
	layers [][]int
	lo, hi navigation.Cell
	ok     bool
}

func newTileLayer(l *Level, layers [][]int) *TileLayer {
	t := &TileLayer{level: l, layers: layers}
	for y := 0; y < l.Height; y++ {
		for x := 0; x < l.Width; x++ {
			if !t.hasLocal(x, y) {
				continue
			}
			c := navigation.Cell{X: l.OriginX + x, Y: l.OriginY + y}
			if !t.ok {
				t.lo, t.hi, t.ok = c, navigation.Cell{X: c.X + 1, Y: c.Y + 1}, true
				continue
			}
			t.lo = navigation.Cell{X: min(t.lo.X, c.X), Y: min(t.lo.Y, c.Y)}
			t.hi = navigation.Cell{X: max(t.hi.X, c.X+1), Y: max(t.hi.Y, c.Y+1)}
		}
	}
	return t
}

func (t *TileLayer) Bounds() (lo, hi navigation.Cell, ok bool) {
	return t.lo, t.hi, t.ok
}

func (t *TileLayer) HasTile(c navigation.Cell) bool {
	return t.hasLocal(c.X-t.level.OriginX, c.Y-t.level.OriginY)
}

func (t *TileLayer) hasLocal(x, y int) bool {
	if x < 0 || y < 0 || x >= t.level.Width || y >= t.level.Height {
		return false
	}
	idx := y*t.level.Width + x
	for _, layer := range t.layers {
		if layer[idx] != 0 {
			return true
		}
	}
	return false
}

// ObstructionLayer merges every physics layer. It returns nil when the level
// has none.
func (l *Level) ObstructionLayer() navigation.Layer {
	return l.mergedLayer(true)
}

// GroundLayer merges every non-physics layer. It returns nil when the level
// has none, meaning all unobstructed cells are ground.
func (l *Level) GroundLayer() navigation.Layer {
	return l.mergedLayer(false)
}

func (l *Level) mergedLayer(physics bool) navigation.Layer {
	var picked [][]int
	for i, layer := range l.Layers {
		if i < len(l.LayerMeta) && l.LayerMeta[i].Physics == physics {
			picked = append(picked, layer)
		}
	}
	if len(picked) == 0 {
		return nil
	}
	return newTileLayer(l, picked)
}

// WalkableCells lists cells with no obstruction and, if there is a ground
// layer, with ground. The list is computed on first use; the returned slice
// is the caller's to keep.
func (l *Level) WalkableCells() []navigation.Cell {
	return slices.Clone(l.walkableCells())
}

func (l *Level) walkableCells() []navigation.Cell {
	if l.walkable != nil {
		return l.walkable
	}
	g := navigation.BuildGrid(l.ObstructionLayer(), l.GroundLayer())
	out := make([]navigation.Cell, 0, g.WalkableCount())
	for i := 0; i < g.Size(); i++ {
		if c := g.CellAt(i); g.Walkable(c) {
			out = append(out, c)
		}
	}
	l.walkable = out
	return out
}

// SpawnAwayFrom picks a random walkable cell at least minDistance cells
// (Euclidean) from 'from'.
func (l *Level) SpawnAwayFrom(from navigation.Cell, minDistance int, rng *rand.Rand) (navigation.Cell, bool) {
	minSq := minDistance * minDistance
	var candidates []navigation.Cell
	for _, c := range l.walkableCells() {
		dx := c.X - from.X
		dy := c.Y - from.Y
		if dx*dx+dy*dy >= minSq {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		return navigation.Cell{}, false
	}
	if rng == nil {
		return candidates[0], true
	}
	return candidates[rng.Intn(len(candidates))], true
}

// EntitiesOfType returns the cells of entities with the given type.
func (l *Level) EntitiesOfType(kind string) []navigation.Cell {
	var out []navigation.Cell
	for _, e := range l.Entities {
		if e.Type == kind {
			out = append(out, navigation.Cell{X: l.OriginX + e.X, Y: l.OriginY + e.Y})
		}
	}
	return out
}

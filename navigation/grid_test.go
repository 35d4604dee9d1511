package navigation

import "testing"

func TestBuildGridWalkability(t *testing.T) {
	obstruction, ground := parseMap(
		"..#",
		".#.",
		"..x",
	)
	g := BuildGrid(obstruction, ground)
	if g.Width() != 3 || g.Height() != 3 {
		t.Fatalf("expected 3x3 grid, got %dx%d", g.Width(), g.Height())
	}

	cases := []struct {
		name string
		cell Cell
		want bool
	}{
		{"ground", Cell{X: 0, Y: 0}, true},
		{"wall", Cell{X: 2, Y: 0}, false},
		{"inner_wall", Cell{X: 1, Y: 1}, false},
		{"no_ground", Cell{X: 2, Y: 2}, false},
		{"outside", Cell{X: 3, Y: 0}, false},
		{"negative", Cell{X: -1, Y: 0}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := g.Walkable(c.cell); got != c.want {
				t.Fatalf("Walkable(%v) = %v, want %v", c.cell, got, c.want)
			}
		})
	}
	if got := g.WalkableCount(); got != 6 {
		t.Fatalf("expected 6 walkable cells, got %d", got)
	}
}

func TestBuildGridUnionBoundsAndOrigin(t *testing.T) {
	obstruction := newTestLayer(Cell{X: -3, Y: 2})
	ground := newTestLayer(Cell{X: 1, Y: -1}, Cell{X: 0, Y: 4})

	g := BuildGrid(obstruction, ground)
	if g.Origin() != (Cell{X: -3, Y: -1}) {
		t.Fatalf("unexpected origin %v", g.Origin())
	}
	if g.Width() != 5 || g.Height() != 6 {
		t.Fatalf("expected 5x6, got %dx%d", g.Width(), g.Height())
	}

	idx, ok := g.Index(Cell{X: 1, Y: -1})
	if !ok || idx != 4 {
		t.Fatalf("expected index 4, got %d (%v)", idx, ok)
	}
	if back := g.CellAt(idx); back != (Cell{X: 1, Y: -1}) {
		t.Fatalf("CellAt round trip gave %v", back)
	}
	if !g.Walkable(Cell{X: 0, Y: 4}) || g.Walkable(Cell{X: -3, Y: 2}) {
		t.Fatalf("walkability does not follow the layers")
	}
}

func TestBuildGridWithoutGroundLayer(t *testing.T) {
	obstruction := newTestLayer(Cell{X: 0, Y: 0}, Cell{X: 2, Y: 1})
	g := BuildGrid(obstruction, nil)
	if g.Width() != 3 || g.Height() != 2 {
		t.Fatalf("expected 3x2, got %dx%d", g.Width(), g.Height())
	}
	if g.WalkableCount() != 4 {
		t.Fatalf("every unobstructed cell should be walkable, got %d", g.WalkableCount())
	}
}

func TestBuildGridDegenerate(t *testing.T) {
	if g := BuildGrid(nil, newTestLayer(Cell{})); g != nil {
		t.Fatalf("expected nil grid without obstruction layer")
	}
	g := BuildGrid(newTestLayer(), newTestLayer())
	if g == nil || g.Size() != 0 {
		t.Fatalf("expected empty grid for empty layers")
	}
	if g.Walkable(Cell{}) || g.InBounds(Cell{}) {
		t.Fatalf("empty grid has no cells")
	}
	var nilGrid *Grid
	if nilGrid.Size() != 0 || nilGrid.InBounds(Cell{}) {
		t.Fatalf("nil grid must behave as empty")
	}
}

func TestSnapshotIsDetached(t *testing.T) {
	obstruction, ground := parseMap("...")
	g := BuildGrid(obstruction, ground)

	snap := g.Snapshot()
	snap.Cells[0] = false
	if !g.Walkable(Cell{X: 0, Y: 0}) {
		t.Fatalf("mutating a snapshot changed the grid")
	}
	if snap.Walkable(Cell{X: 0, Y: 0}) || !snap.Walkable(Cell{X: 1, Y: 0}) {
		t.Fatalf("snapshot walkability is wrong")
	}
}

package navigation

// testLayer is an in-memory tile layer.
type testLayer struct {
	tiles map[Cell]bool
}

func newTestLayer(cells ...Cell) *testLayer {
	l := &testLayer{tiles: make(map[Cell]bool, len(cells))}
	for _, c := range cells {
		l.tiles[c] = true
	}
	return l
}

func (l *testLayer) set(c Cell) {
	l.tiles[c] = true
}

func (l *testLayer) Bounds() (lo, hi Cell, ok bool) {
	first := true
	for c := range l.tiles {
		if first {
			lo, hi = c, Cell{X: c.X + 1, Y: c.Y + 1}
			first = false
			continue
		}
		lo = Cell{X: min(lo.X, c.X), Y: min(lo.Y, c.Y)}
		hi = Cell{X: max(hi.X, c.X+1), Y: max(hi.Y, c.Y+1)}
	}
	return lo, hi, !first
}

func (l *testLayer) HasTile(c Cell) bool {
	return l.tiles[c]
}

// parseMap builds obstruction and ground layers from rows of text, row index
// being Y. '#' is a wall on ground, '.' is ground, anything else is empty.
func parseMap(rows ...string) (obstruction, ground *testLayer) {
	obstruction = newTestLayer()
	ground = newTestLayer()
	for y, row := range rows {
		for x, r := range row {
			c := Cell{X: x, Y: y}
			switch r {
			case '#':
				obstruction.set(c)
				ground.set(c)
			case '.':
				ground.set(c)
			}
		}
	}
	return obstruction, ground
}

func openMap(w, h int) []string {
	rows := make([]string, h)
	for y := range rows {
		b := make([]byte, w)
		for x := range b {
			b[x] = '.'
		}
		rows[y] = string(b)
	}
	return rows
}

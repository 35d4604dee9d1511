package navigation

import "testing"

func cellsLine(n int) []Cell {
	out := make([]Cell, n)
	for i := range out {
		out[i] = Cell{X: i}
	}
	return out
}

func TestPathCacheCopies(t *testing.T) {
	c := NewPathCache(0, 0)
	key := CacheKey{Start: 1, End: 2, Step: 1}
	src := cellsLine(3)
	if !c.Put(key, src) {
		t.Fatalf("Put rejected a short path")
	}
	src[0] = Cell{X: 99}

	got, ok := c.Get(key)
	if !ok || got[0] != (Cell{}) {
		t.Fatalf("stored path must not alias the caller's slice: %v", got)
	}
	got[1] = Cell{X: 77}
	again, _ := c.Get(key)
	if again[1] != (Cell{X: 1}) {
		t.Fatalf("returned path must not alias the entry: %v", again)
	}
}

func TestPathCacheCeilingAndClear(t *testing.T) {
	c := NewPathCache(4, 0)
	cases := []struct {
		name string
		n    int
		want bool
	}{
		{"empty", 0, false},
		{"under", 3, true},
		{"at_ceiling", 4, true},
		{"over", 5, false},
	}
	for i, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := c.Put(CacheKey{Start: i}, cellsLine(tc.n)); got != tc.want {
				t.Fatalf("Put(%d cells) = %v, want %v", tc.n, got, tc.want)
			}
		})
	}
	if c.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", c.Len())
	}

	c.Clear()
	if c.Len() != 0 {
		t.Fatalf("Clear left %d entries", c.Len())
	}
	if _, ok := c.Get(CacheKey{Start: 1}); ok {
		t.Fatalf("hit after Clear")
	}
}

func TestPathCacheKeyIncludesStep(t *testing.T) {
	c := NewPathCache(0, 0)
	c.Put(CacheKey{Start: 0, End: 5, Step: 1}, cellsLine(6))
	if _, ok := c.Get(CacheKey{Start: 0, End: 5, Step: 2}); ok {
		t.Fatalf("different step must miss")
	}
}

func TestPathCacheLRU(t *testing.T) {
	c := NewPathCache(0, 2)
	a, b, d := CacheKey{Start: 1}, CacheKey{Start: 2}, CacheKey{Start: 3}
	c.Put(a, cellsLine(1))
	c.Put(b, cellsLine(1))
	c.Get(a)
	c.Put(d, cellsLine(1))

	if _, ok := c.Get(b); ok {
		t.Fatalf("least recently used entry should be evicted")
	}
	if _, ok := c.Get(a); !ok {
		t.Fatalf("recently read entry should survive")
	}
	if c.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", c.Len())
	}
}

package levels

import (
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/milk9111/dungeonnav/navigation"
)

func TestEmbeddedLevelsLoad(t *testing.T) {
	names := Names()
	if len(names) == 0 {
		t.Fatalf("no embedded levels")
	}
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			lvl, err := LoadLevelFromFS(name)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if lvl.ObstructionLayer() == nil || lvl.GroundLayer() == nil {
				t.Fatalf("expected both layers")
			}
			if len(lvl.EntitiesOfType("spawn")) == 0 {
				t.Fatalf("expected spawn entities")
			}
			for _, c := range lvl.EntitiesOfType("spawn") {
				if lvl.ObstructionLayer().HasTile(c) {
					t.Fatalf("spawn %v is inside a wall", c)
				}
			}
		})
	}
	if _, err := LoadLevelFromFS("dungeon"); err != nil {
		t.Fatalf("extension should be optional: %v", err)
	}
}

func TestLevelLayersFollowMeta(t *testing.T) {
	lvl := &Level{
		Width:   3,
		Height:  2,
		OriginX: 10,
		OriginY: -1,
		Layers: [][]int{
			{1, 1, 1, 1, 1, 0},
			{0, 2, 0, 0, 0, 0},
		},
		LayerMeta: []LayerMeta{{Name: "ground"}, {Name: "walls", Physics: true}},
	}
	if err := lvl.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	walls := lvl.ObstructionLayer()
	lo, hi, ok := walls.Bounds()
	if !ok || lo != (navigation.Cell{X: 11, Y: -1}) || hi != (navigation.Cell{X: 12, Y: 0}) {
		t.Fatalf("unexpected wall bounds %v %v %v", lo, hi, ok)
	}
	if !walls.HasTile(navigation.Cell{X: 11, Y: -1}) || walls.HasTile(navigation.Cell{X: 10, Y: -1}) {
		t.Fatalf("wall lookup ignores the level origin")
	}

	cells := lvl.WalkableCells()
	if len(cells) != 4 {
		t.Fatalf("expected 4 walkable cells, got %v", cells)
	}
}

func TestLevelValidate(t *testing.T) {
	cases := []struct {
		name string
		lvl  Level
	}{
		{"zero_size", Level{}},
		{"short_layer", Level{Width: 2, Height: 2, Layers: [][]int{{1, 1, 1}}}},
		{"extra_meta", Level{Width: 1, Height: 1, LayerMeta: []LayerMeta{{}}}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if err := c.lvl.Validate(); !errors.Is(err, ErrInvalidLevel) {
				t.Fatalf("expected ErrInvalidLevel, got %v", err)
			}
		})
	}

	missing := Level{Width: 1, Height: 1, Layers: [][]int{{1}}}
	if err := missing.Validate(); err != nil || len(missing.LayerMeta) != 1 {
		t.Fatalf("missing meta should be filled: %v", err)
	}
	if missing.ObstructionLayer() != nil {
		t.Fatalf("default meta is not physics")
	}
}

func TestLoadLevelFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tiny.json")
	data := `{"width":2,"height":1,"layers":[[1,1],[0,1]],"layer_meta":[{"physics":false},{"physics":true}]}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	lvl, err := LoadLevel(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := lvl.WalkableCells(); len(got) != 1 || got[0] != (navigation.Cell{}) {
		t.Fatalf("unexpected walkable cells %v", got)
	}

	if _, err := LoadLevel(filepath.Join(dir, "arena.json")); err != nil {
		t.Fatalf("missing file should fall back to embedded level: %v", err)
	}

	bad := filepath.Join(dir, "bad.json")
	os.WriteFile(bad, []byte(`{"width":0}`), 0o644)
	if _, err := LoadLevel(bad); !errors.Is(err, ErrInvalidLevel) {
		t.Fatalf("expected ErrInvalidLevel, got %v", err)
	}
}

func TestSpawnAwayFrom(t *testing.T) {
	lvl, err := LoadLevelFromFS("arena.json")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	from := lvl.EntitiesOfType("spawn")[0]
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		c, ok := lvl.SpawnAwayFrom(from, 5, rng)
		if !ok {
			t.Fatalf("expected a spawn cell")
		}
		dx, dy := c.X-from.X, c.Y-from.Y
		if dx*dx+dy*dy < 25 {
			t.Fatalf("spawn %v too close to %v", c, from)
		}
	}
	if _, ok := lvl.SpawnAwayFrom(from, 100, rng); ok {
		t.Fatalf("no cell is 100 away in the arena")
	}
}

func TestWalkableCellsComputedOnce(t *testing.T) {
	lvl, err := LoadLevelFromFS("arena")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	first := lvl.WalkableCells()
	if len(first) == 0 {
		t.Fatalf("arena has walkable cells")
	}
	first[0] = navigation.Cell{X: -99, Y: -99}

	// the list is built once per level, so later layer edits are not seen
	for i := range lvl.Layers[0] {
		lvl.Layers[0][i] = 0
	}
	again := lvl.WalkableCells()
	if len(again) != len(first) {
		t.Fatalf("walkable list rebuilt: %d then %d cells", len(first), len(again))
	}
	if again[0] == (navigation.Cell{X: -99, Y: -99}) {
		t.Fatalf("returned slice aliases the cached list")
	}
	if _, ok := lvl.SpawnAwayFrom(again[0], 1, nil); !ok {
		t.Fatalf("spawn lookup should use the cached list")
	}
}

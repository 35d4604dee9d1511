package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/dungeonnav/navigation"
)

func withDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	prev := Dir
	Dir = dir
	t.Cleanup(func() { Dir = prev })
	return dir
}

func TestLoadEmbeddedDefaults(t *testing.T) {
	withDir(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("embedded nav.yaml should match Default():\n got %+v\nwant %+v", cfg, Default())
	}
	if _, ok := ModTime(DefaultName); ok {
		t.Fatalf("no disk override expected")
	}
}

func TestLoadDiskOverride(t *testing.T) {
	dir := withDir(t)
	data := []byte("budget_per_tick: 2\ngraph:\n  spacing: 6\n")
	if err := os.WriteFile(filepath.Join(dir, DefaultName), data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(DefaultName)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BudgetPerTick != 2 || cfg.Graph.Spacing != 6 {
		t.Fatalf("override not applied: %+v", cfg)
	}
	if cfg.CacheMaxEntryCells != navigation.DefaultMaxEntryCells || cfg.Graph.MaxLinkDistance != Default().Graph.MaxLinkDistance {
		t.Fatalf("missing keys should keep defaults: %+v", cfg)
	}
	if _, ok := ModTime(DefaultName); !ok {
		t.Fatalf("expected override mod time")
	}
}

func TestParseInvalid(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"negative budget", "budget_per_tick: -1"},
		{"zero entry cells", "cache_max_entry_cells: 0"},
		{"negative entries", "cache_max_entries: -3"},
		{"zero cell size", "cell_size: 0"},
		{"zero step", "default_simplify_step: 0"},
		{"zero spacing", "graph:\n  spacing: 0"},
		{"zero link distance", "graph:\n  max_link_distance: 0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.name, []byte(tc.yaml))
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}

	if _, err := Parse("bad", []byte("budget_per_tick: [")); err == nil || errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected a yaml error, got %v", err)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestServiceOptionsApplied(t *testing.T) {
	cfg := Default()
	cfg.BudgetPerTick = 3
	cfg.CellSize = 2

	svc := navigation.NewService(cfg.ServiceOptions()...)
	if svc.Budgeter().Budget() != 3 {
		t.Fatalf("budget = %d, want 3", svc.Budgeter().Budget())
	}
	got := svc.Transform().CellToWorld(navigation.Cell{X: 2, Y: 1})
	if got != (cp.Vector{X: 4, Y: 2}) {
		t.Fatalf("cell transform = %v", got)
	}

	opts := cfg.GraphOptions()
	if opts.Spacing != cfg.Graph.Spacing || opts.CellCenterOffset != cfg.CellCenterOffset {
		t.Fatalf("graph options = %+v", opts)
	}
}

func TestIsWatchedFile(t *testing.T) {
	cases := map[string]bool{
		"nav.yaml":       true,
		"a/b/level.JSON": true,
		"patrol.tengo":   true,
		"other.yml":      true,
		"notes.txt":      false,
		"nav.yaml.swp":   false,
		"no_extension":   false,
	}
	for path, want := range cases {
		if got := IsWatchedFile(path); got != want {
			t.Fatalf("IsWatchedFile(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestWatcherReportsWrites(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher([]string{dir}, WithDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatalf("watcher: %v", err)
	}
	defer w.Close()

	path := filepath.Join(dir, "nav.yaml")
	if err := os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	// a burst of writes is one change
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, []byte("budget_per_tick: 1\n"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	select {
	case got := <-w.Events:
		if got != path {
			t.Fatalf("event for %q, want %q", got, path)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no event for %s", path)
	}
	select {
	case got := <-w.Events:
		t.Fatalf("burst reported twice, extra event for %q", got)
	case <-time.After(150 * time.Millisecond):
	}

	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

func TestWatcherExtensions(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher([]string{dir}, WithDebounce(10*time.Millisecond), WithExtensions("TXT"))
	if err != nil {
		t.Fatalf("watcher: %v", err)
	}
	defer w.Close()

	if !w.Matches("notes.txt") || w.Matches("nav.yaml") {
		t.Fatalf("extension filter not replaced")
	}

	path := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(filepath.Join(dir, "nav.yaml"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	select {
	case got := <-w.Events:
		if got != path {
			t.Fatalf("event for %q, want %q", got, path)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no event for %s", path)
	}
}

func TestNewWatcherMissingDir(t *testing.T) {
	if _, err := NewWatcher([]string{filepath.Join(t.TempDir(), "missing")}); err == nil {
		t.Fatalf("expected error for a missing directory")
	}
}

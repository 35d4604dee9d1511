package main

import (
	"log/slog"
	"testing"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/dungeonnav/config"
	"github.com/milk9111/dungeonnav/levels"
	"github.com/milk9111/dungeonnav/navigation"
)

func TestCellPointUsesOffset(t *testing.T) {
	tr := navigation.NewUniformTransform(2)
	cases := []struct {
		offset float64
		want   cp.Vector
	}{
		{0.5, cp.Vector{X: 3, Y: 5}},
		{0, cp.Vector{X: 2, Y: 4}},
		{0.25, cp.Vector{X: 2.5, Y: 4.5}},
	}
	for _, c := range cases {
		if got := cellPoint(tr, navigation.Cell{X: 1, Y: 2}, c.offset); got != c.want {
			t.Fatalf("offset %v: got %v, want %v", c.offset, got, c.want)
		}
	}
}

func TestRunAgentsEndpointsMatchServiceCells(t *testing.T) {
	lvl, err := levels.LoadLevelFromFS("arena")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := config.Default()
	cfg.CellCenterOffset = 0.1
	// every search must hit the grid; a shortcut would hide a bad endpoint
	cfg.NearTargetDistance = 0

	svc := navigation.NewService(cfg.ServiceOptions()...)
	svc.SetLayers(lvl.ObstructionLayer(), lvl.GroundLayer())
	svc.RebuildGrid()

	runAgents(lvl, 4, 10, 3, cfg, svc, slog.New(slog.DiscardHandler))

	st := svc.Stats()
	if st.GridSearches == 0 {
		t.Fatalf("no searches ran: %+v", st)
	}
	if st.NoPath != 0 {
		t.Fatalf("agents asked for unreachable endpoints: %+v", st)
	}
}

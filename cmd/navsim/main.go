package main

import (
	"flag"
	"log"
	"log/slog"
	"math/rand"
	"os"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/dungeonnav/config"
	"github.com/milk9111/dungeonnav/levels"
	"github.com/milk9111/dungeonnav/navgraph"
	"github.com/milk9111/dungeonnav/navigation"
	"github.com/milk9111/dungeonnav/scenario"
)

func main() {
	levelName := flag.String("level", "dungeon", "level path or embedded name (.json optional)")
	configPath := flag.String("config", "", "settings file (default: config/nav.yaml or the embedded copy)")
	scriptName := flag.String("script", "", "scenario script path or embedded name; empty runs random agents")
	frames := flag.Int("frames", 120, "maximum frames to simulate")
	agents := flag.Int("agents", 16, "random agents when no script is given")
	seed := flag.Int64("seed", 1, "random seed for agent spawns")
	withGraph := flag.Bool("graph", true, "generate a waypoint graph for long-range requests")
	verbose := flag.Bool("v", false, "log every request")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	lvl, err := levels.LoadLevel(*levelName)
	if err != nil {
		log.Fatal(err)
	}

	svc := navigation.NewService(append(cfg.ServiceOptions(), navigation.WithLogger(logger))...)
	svc.SetLayers(lvl.ObstructionLayer(), lvl.GroundLayer())
	if !svc.RebuildGrid() {
		log.Fatalf("level %s has no obstruction layer", *levelName)
	}
	if *withGraph {
		snap, _ := svc.GridSnapshot()
		nodes := navgraph.Build(snap, svc.Transform(), cfg.GraphOptions())
		svc.SetGraph(nodes)
		logger.Info("navsim: graph built",
			slog.Int("nodes", len(nodes)),
			slog.Int("components", navgraph.Components(nodes)),
		)
	}

	if *scriptName != "" {
		runScript(*scriptName, *frames, svc, logger)
		return
	}
	runAgents(lvl, *agents, *frames, *seed, cfg, svc, logger)
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Load(config.DefaultName)
	}
	return config.LoadFile(path)
}

func runScript(name string, frames int, svc *navigation.Service, logger *slog.Logger) {
	r, err := scenario.Load(name, svc, logger)
	if err != nil {
		log.Fatal(err)
	}
	rep, err := r.Run(frames)
	if err != nil {
		log.Fatal(err)
	}
	logReport(logger, rep.Frames, rep.Requests, rep.Completed, rep.Succeeded, rep.Stats)
}

// runAgents moves random agents between far apart cells. Each agent asks for a
// new route whenever its previous one completes.
func runAgents(lvl *levels.Level, count, frames int, seed int64, cfg config.Config, svc *navigation.Service, logger *slog.Logger) {
	rng := rand.New(rand.NewSource(seed))
	cells := lvl.WalkableCells()
	if len(cells) == 0 {
		log.Fatal("level has no walkable cells")
	}
	tr := svc.Transform()
	center := func(c navigation.Cell) cp.Vector {
		return cellPoint(tr, c, cfg.CellCenterOffset)
	}

	minDistance := max(lvl.Width, lvl.Height) / 3
	idle := make([]bool, count)
	positions := make([]navigation.Cell, count)
	for i := range positions {
		positions[i] = cells[rng.Intn(len(cells))]
		idle[i] = true
	}

	requests, completed, succeeded := 0, 0, 0
	for frame := 0; frame < frames; frame++ {
		svc.Tick()
		for i := range positions {
			if !idle[i] {
				continue
			}
			target, ok := lvl.SpawnAwayFrom(positions[i], minDistance, rng)
			if !ok {
				continue
			}
			idle[i] = false
			requests++
			agent := i
			svc.RequestPath(navigation.PathRequest{
				Start: center(positions[i]),
				End:   center(target),
				Step:  cfg.DefaultSimplifyStep,
			}, func(res navigation.PathResult) {
				completed++
				if res.OK {
					succeeded++
					positions[agent] = target
				}
				idle[agent] = true
			})
		}
	}
	logReport(logger, frames, requests, completed, succeeded, svc.Stats())
}

// cellPoint is the world point the service uses for a path cell.
func cellPoint(tr navigation.Transform, c navigation.Cell, offset float64) cp.Vector {
	return tr.CellToWorld(c).Add(tr.CellSize().Mult(offset))
}

func logReport(logger *slog.Logger, frames, requests, completed, succeeded int, st navigation.Stats) {
	logger.Info("navsim: done",
		slog.Int("frames", frames),
		slog.Int("requests", requests),
		slog.Int("completed", completed),
		slog.Int("succeeded", succeeded),
		slog.Int("grid_searches", st.GridSearches),
		slog.Int("graph_searches", st.GraphSearches),
		slog.Int("cache_hits", st.CacheHits),
		slog.Int("no_path", st.NoPath),
		slog.Int("deferred", st.Deferred),
	)
}

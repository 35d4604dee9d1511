package main

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/jakecoffman/cp"

	"github.com/milk9111/dungeonnav/common"
	"github.com/milk9111/dungeonnav/config"
	"github.com/milk9111/dungeonnav/levels"
	"github.com/milk9111/dungeonnav/navgraph"
	"github.com/milk9111/dungeonnav/navigation"
)

const (
	cellPixels = 24.0
	minZoom    = 0.25
	maxZoom    = 4.0
	panSpeed   = 0.4
)

// Viewer is an ebiten game that shows the walkability grid, the waypoint
// graph and routes between two clicked points.
type Viewer struct {
	logger *slog.Logger

	levelName  string
	configPath string
	cfg        config.Config
	lvl        *levels.Level
	svc        *navigation.Service

	mode      navigation.Mode
	step      int
	showGraph bool

	start, end       cp.Vector
	hasStart, hasEnd bool
	path             []cp.Vector
	pathOK           bool
	pathFrame        uint64
	requestID        int

	camX, camY float64
	zoom       float64
	targetZoom float64

	ui      *ebitenui.UI
	panel   *controlPanel
	watcher *config.Watcher
}

func NewViewer(levelName, configPath string, logger *slog.Logger) (*Viewer, error) {
	v := &Viewer{
		logger:     logger,
		levelName:  levelName,
		configPath: configPath,
		showGraph:  true,
		zoom:       1,
		targetZoom: 1,
	}
	if err := v.loadConfig(); err != nil {
		return nil, err
	}
	if err := v.loadLevel(); err != nil {
		return nil, err
	}
	v.resetService()
	v.ui, v.panel = newControlPanel(v)
	return v, nil
}

func (v *Viewer) loadConfig() error {
	var (
		cfg config.Config
		err error
	)
	if v.configPath == "" {
		cfg, err = config.Load(config.DefaultName)
	} else {
		cfg, err = config.LoadFile(v.configPath)
	}
	if err != nil {
		return err
	}
	v.cfg = cfg
	v.step = cfg.DefaultSimplifyStep
	return nil
}

func (v *Viewer) loadLevel() error {
	lvl, err := levels.LoadLevel(v.levelName)
	if err != nil {
		return err
	}
	v.lvl = lvl
	return nil
}

// resetService builds a fresh service from the current settings and level.
// An existing graph is regenerated against the new grid.
func (v *Viewer) resetService() {
	hadGraph := v.svc != nil && len(v.svc.Graph()) > 0
	v.svc = navigation.NewService(append(v.cfg.ServiceOptions(), navigation.WithLogger(v.logger))...)
	v.svc.SetLayers(v.lvl.ObstructionLayer(), v.lvl.GroundLayer())
	v.rebuildGrid()
	if hadGraph {
		v.buildGraph()
	}
}

func (v *Viewer) rebuildGrid() {
	if !v.svc.RebuildGrid() {
		v.logger.Warn("navview: level has no obstruction layer", slog.String("level", v.levelName))
	}
	v.requestRoute()
}

func (v *Viewer) buildGraph() {
	snap, ok := v.svc.GridSnapshot()
	if !ok {
		return
	}
	nodes := navgraph.Build(snap, v.svc.Transform(), v.cfg.GraphOptions())
	v.svc.SetGraph(nodes)
	v.logger.Info("navview: graph built",
		slog.Int("nodes", len(nodes)),
		slog.Int("components", navgraph.Components(nodes)),
	)
	v.requestRoute()
}

func (v *Viewer) clearGraph() {
	v.svc.ClearGraph()
	v.requestRoute()
}

func (v *Viewer) cycleMode() {
	v.mode = (v.mode + 1) % 3
	v.requestRoute()
}

func (v *Viewer) cycleStep() {
	v.step = v.step%4 + 1
	v.requestRoute()
}

// requestRoute submits a budgeted request for the current endpoints. Only the
// newest request is kept alive.
func (v *Viewer) requestRoute() {
	if !v.hasStart || !v.hasEnd {
		return
	}
	v.requestID++
	id := v.requestID
	v.svc.RequestPath(navigation.PathRequest{
		Start: v.start,
		End:   v.end,
		Step:  v.step,
		Mode:  v.mode,
		Alive: func() bool { return id == v.requestID },
	}, func(res navigation.PathResult) {
		v.path = res.Path
		v.pathOK = res.OK
		v.pathFrame = v.svc.Frame()
	})
}

// Watch starts reloading the level and settings when files under their
// directories change.
func (v *Viewer) Watch() {
	var dirs []string
	for _, dir := range []string{config.Dir, filepath.Dir(v.levelName)} {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			dirs = append(dirs, dir)
		}
	}
	if len(dirs) == 0 {
		v.logger.Info("navview: nothing on disk to watch")
		return
	}
	w, err := config.NewWatcher(dirs)
	if err != nil {
		v.logger.Warn("navview: watch failed", slog.Any("err", err))
		return
	}
	v.watcher = w
}

func (v *Viewer) Close() {
	if v.watcher != nil {
		_ = v.watcher.Close()
	}
}

func (v *Viewer) pollWatcher() {
	if v.watcher == nil {
		return
	}
	for {
		select {
		case name := <-v.watcher.Events:
			v.reload(name)
		case err := <-v.watcher.Errors:
			v.logger.Warn("navview: watcher", slog.Any("err", err))
		default:
			return
		}
	}
}

func (v *Viewer) reload(path string) {
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := v.loadConfig(); err != nil {
			v.logger.Warn("navview: reload settings", slog.String("file", path), slog.Any("err", err))
			return
		}
	case ".json":
		if filepath.Base(path) != filepath.Base(v.levelName) && filepath.Base(path) != filepath.Base(v.levelName)+".json" {
			return
		}
		if err := v.loadLevel(); err != nil {
			v.logger.Warn("navview: reload level", slog.String("file", path), slog.Any("err", err))
			return
		}
	default:
		return
	}
	v.logger.Info("navview: reloaded", slog.String("file", path))
	v.resetService()
}

func (v *Viewer) Update() error {
	v.pollWatcher()
	v.svc.Tick()
	v.ui.Update()
	v.handleInput()
	v.panel.refresh(v)
	return nil
}

func (v *Viewer) handleInput() {
	if _, dy := ebiten.Wheel(); dy != 0 {
		v.targetZoom = common.Clamp(v.targetZoom*math.Pow(1.1, dy), minZoom, maxZoom)
	}
	v.zoom = common.Lerp(v.zoom, v.targetZoom, 0.2)

	pan := panSpeed / v.zoom
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) || ebiten.IsKeyPressed(ebiten.KeyA) {
		v.camX -= pan
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) || ebiten.IsKeyPressed(ebiten.KeyD) {
		v.camX += pan
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) || ebiten.IsKeyPressed(ebiten.KeyW) {
		v.camY -= pan
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) || ebiten.IsKeyPressed(ebiten.KeyS) {
		v.camY += pan
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		v.cycleMode()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyG) {
		v.showGraph = !v.showGraph
	}

	cx, cy := ebiten.CursorPosition()
	if v.panel.contains(cx, cy) {
		return
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		v.start, v.hasStart = v.screenToWorld(cx, cy), true
		v.requestRoute()
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		v.end, v.hasEnd = v.screenToWorld(cx, cy), true
		v.requestRoute()
	}
}

func (v *Viewer) scale() float64 {
	return cellPixels * v.zoom / v.cfg.CellSize
}

func (v *Viewer) screenToWorld(x, y int) cp.Vector {
	s := v.scale()
	return cp.Vector{X: float64(x)/s + v.camX, Y: float64(y)/s + v.camY}
}

func (v *Viewer) worldToScreenF(p cp.Vector) (float32, float32) {
	s := v.scale()
	return float32((p.X - v.camX) * s), float32((p.Y - v.camY) * s)
}

func (v *Viewer) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	v.drawGrid(screen)
	if v.showGraph {
		v.drawGraph(screen)
	}
	v.drawRoute(screen)

	st := v.svc.Stats()
	ebitenutil.DebugPrint(screen, fmt.Sprintf(
		"FPS: %.1f  frame: %d  mode: %s  step: %d\ngrid: %d  graph: %d  cache: %d hits / %d misses (%d held)\nno path: %d  deferred: %d  dropped: %d  rebuilds: %d",
		ebiten.ActualFPS(), v.svc.Frame(), v.mode, v.step,
		st.GridSearches, st.GraphSearches, st.CacheHits, st.CacheMisses, v.svc.CacheLen(),
		st.NoPath, st.Deferred, st.Dropped, st.Rebuilds,
	))

	v.ui.Draw(screen)
}

func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return common.ViewWidth, common.ViewHeight
}

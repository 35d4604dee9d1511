package navigation

import (
	"log/slog"

	"github.com/jakecoffman/cp"
)

const (
	DefaultCellCenterOffset   = 0.5
	DefaultNearTargetDistance = 0.6
	DefaultLongRangeDistance  = 12.0
)

// Mode selects the search a PathRequest runs.
type Mode int

const (
	// ModeAuto uses the waypoint graph beyond the long-range distance, falling
	// back to the grid, and the grid otherwise.
	ModeAuto Mode = iota
	ModeGrid
	ModeGraph
)

func (m Mode) String() string {
	switch m {
	case ModeGrid:
		return "grid"
	case ModeGraph:
		return "graph"
	default:
		return "auto"
	}
}

// PathRequest is a budgeted route query.
type PathRequest struct {
	Start cp.Vector
	End   cp.Vector
	Step  int
	Mode  Mode
	// Alive, if set, is checked when the search is about to run. A request
	// whose Alive returns false is dropped without calling onComplete.
	Alive func() bool
}

// PathResult is handed to the RequestPath callback.
type PathResult struct {
	Request PathRequest
	Path    []cp.Vector
	OK      bool
	// Deferred is true when the search ran on a later tick than the request.
	Deferred bool
}

// Stats counts service activity since construction.
type Stats struct {
	GridSearches  int
	GraphSearches int
	CacheHits     int
	CacheMisses   int
	NoPath        int
	Deferred      int
	Dropped       int
	Rebuilds      int
}

// Service owns the walkability grid, path cache and search budget. It is
// built explicitly and handed to whatever needs routes; it is meant to be used
// from the host's tick goroutine.
type Service struct {
	logger    *slog.Logger
	transform Transform

	obstruction Layer
	ground      Layer
	grid        *Grid
	search      *GridSearch
	graph       []NavNode

	cache  *PathCache
	budget *Budgeter

	cellCenterOffset   float64
	nearTargetDistance float64
	longRangeDistance  float64
	maxExpansions      int
	maxEntryCells      int
	maxEntries         int

	tick  uint64
	stats Stats
}

type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithTransform(t Transform) Option {
	return func(s *Service) {
		if t != nil {
			s.transform = t
		}
	}
}

func WithBudget(n int) Option {
	return func(s *Service) { s.budget = NewBudgeter(n) }
}

// WithCache bounds cached path length and, if maxEntries > 0, the number of
// cached paths.
func WithCache(maxEntryCells, maxEntries int) Option {
	return func(s *Service) {
		s.maxEntryCells = maxEntryCells
		s.maxEntries = maxEntries
	}
}

// WithCellCenterOffset sets the fraction of a cell added to a cell's origin
// when converting path cells to world points.
func WithCellCenterOffset(f float64) Option {
	return func(s *Service) { s.cellCenterOffset = f }
}

// WithNearTargetDistance sets the world distance under which a grid query
// returns the target cell directly without searching.
func WithNearTargetDistance(d float64) Option {
	return func(s *Service) { s.nearTargetDistance = d }
}

func WithLongRangeDistance(d float64) Option {
	return func(s *Service) { s.longRangeDistance = d }
}

// WithMaxExpansions caps nodes expanded per grid search; 0 disables the cap.
func WithMaxExpansions(n int) Option {
	return func(s *Service) { s.maxExpansions = n }
}

func NewService(opts ...Option) *Service {
	s := &Service{
		logger:             slog.New(slog.DiscardHandler),
		transform:          NewUniformTransform(1),
		budget:             NewBudgeter(DefaultBudget),
		cellCenterOffset:   DefaultCellCenterOffset,
		nearTargetDistance: DefaultNearTargetDistance,
		longRangeDistance:  DefaultLongRangeDistance,
		maxEntryCells:      DefaultMaxEntryCells,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.cache = NewPathCache(s.maxEntryCells, s.maxEntries)
	return s
}

// SetLayers sets the tile layers used by RebuildGrid and visibility queries.
// ground may be nil, in which case every unobstructed cell is walkable.
func (s *Service) SetLayers(obstruction, ground Layer) {
	s.obstruction = obstruction
	s.ground = ground
}

func (s *Service) Transform() Transform {
	return s.transform
}

// RebuildGrid rebuilds walkability from the current layers and clears the
// path cache. It reports whether the new grid has any cells.
func (s *Service) RebuildGrid() bool {
	s.grid = BuildGrid(s.obstruction, s.ground)
	s.search = NewGridSearch(s.grid)
	s.search.MaxExpansions = s.maxExpansions
	s.cache.Clear()
	s.stats.Rebuilds++

	if s.grid.Size() == 0 {
		s.logger.Debug("nav: grid rebuilt empty")
		return false
	}
	s.logger.Debug("nav: grid rebuilt",
		slog.Int("origin_x", s.grid.Origin().X),
		slog.Int("origin_y", s.grid.Origin().Y),
		slog.Int("width", s.grid.Width()),
		slog.Int("height", s.grid.Height()),
		slog.Int("walkable", s.grid.WalkableCount()),
	)
	return true
}

// GridSnapshot returns a detached copy of the grid, or false if none is built.
func (s *Service) GridSnapshot() (Snapshot, bool) {
	if s.grid.Size() == 0 {
		return Snapshot{}, false
	}
	return s.grid.Snapshot(), true
}

// SetGraph installs an externally built waypoint graph. The service does not
// copy or modify it.
func (s *Service) SetGraph(nodes []NavNode) {
	s.graph = nodes
	s.cache.Clear()
	s.logger.Debug("nav: graph set", slog.Int("nodes", len(nodes)))
}

func (s *Service) ClearGraph() {
	s.graph = nil
	s.cache.Clear()
}

func (s *Service) Graph() []NavNode {
	return s.graph
}

// ClearCache drops every cached grid path.
func (s *Service) ClearCache() {
	s.cache.Clear()
	s.logger.Debug("nav: cache cleared")
}

func (s *Service) CacheLen() int {
	return s.cache.Len()
}

func (s *Service) Stats() Stats {
	return s.stats
}

// Budgeter exposes the per-tick search budget.
func (s *Service) Budgeter() *Budgeter {
	return s.budget
}

// FindGridPath returns an exact grid route as world points at cell centres,
// keeping every step-th cell and always the last one. ok is false when no grid
// is built, either point is outside it, or no route exists.
func (s *Service) FindGridPath(start, end cp.Vector, step int) ([]cp.Vector, bool) {
	if s.grid.Size() == 0 || s.obstruction == nil {
		return nil, false
	}
	if step < 1 {
		step = 1
	}

	startCell := s.transform.WorldToCell(start)
	endCell := s.transform.WorldToCell(end)
	startIdx, ok := s.grid.Index(startCell)
	if !ok {
		return nil, false
	}
	endIdx, ok := s.grid.Index(endCell)
	if !ok {
		return nil, false
	}

	if s.transform.CellToWorld(endCell).Distance(start) <= s.nearTargetDistance {
		return []cp.Vector{s.cellCenter(endCell)}, true
	}

	key := CacheKey{Start: startIdx, End: endIdx, Step: step}
	cells, hit := s.cache.Get(key)
	if hit {
		s.stats.CacheHits++
	} else {
		s.stats.CacheMisses++
		s.stats.GridSearches++
		if !s.search.FindPath(startCell, endCell) {
			s.stats.NoPath++
			s.logger.Debug("nav: no grid path",
				slog.Int("sx", startCell.X), slog.Int("sy", startCell.Y),
				slog.Int("tx", endCell.X), slog.Int("ty", endCell.Y),
				slog.Int("expanded", s.search.Expanded()),
			)
			return nil, false
		}
		cells = Simplify(s.search.Cells(s.search.ReconstructPath(endCell)), step)
		if len(cells) == 0 {
			return nil, false
		}
		s.cache.Put(key, cells)
	}

	out := make([]cp.Vector, 0, len(cells))
	for _, c := range cells {
		out = append(out, s.cellCenter(c))
	}
	return out, true
}

// FindGraphPath returns an approximate route over the waypoint graph. The
// last waypoint is always end.
func (s *Service) FindGraphPath(start, end cp.Vector) ([]cp.Vector, bool) {
	if len(s.graph) == 0 || s.obstruction == nil {
		return nil, false
	}
	s.stats.GraphSearches++
	router := GraphRouter{Nodes: s.graph, Visible: s.visibility().Visible}
	path, ok := router.Route(start, end)
	if !ok {
		s.stats.NoPath++
		s.logger.Debug("nav: no graph path",
			slog.Float64("sx", start.X), slog.Float64("sy", start.Y),
			slog.Float64("tx", end.X), slog.Float64("ty", end.Y),
		)
	}
	return path, ok
}

// HasLineOfSight reports whether the segment a-b crosses no obstruction tile.
func (s *Service) HasLineOfSight(a, b cp.Vector) bool {
	return s.visibility().Visible(a, b)
}

// RequestPath runs the request now if this tick's budget allows and nothing is
// queued, otherwise on a later Tick in submission order. onComplete is called
// exactly once unless the request's Alive check fails. It reports whether the
// search ran immediately.
func (s *Service) RequestPath(req PathRequest, onComplete func(PathResult)) bool {
	requested := s.tick
	ran := s.budget.TryRunOrQueue(func() {
		if req.Alive != nil && !req.Alive() {
			s.stats.Dropped++
			return
		}
		path, ok := s.route(req)
		if onComplete != nil {
			onComplete(PathResult{Request: req, Path: path, OK: ok, Deferred: s.tick != requested})
		}
	})
	if !ran {
		s.stats.Deferred++
		s.logger.Debug("nav: request deferred",
			slog.String("mode", req.Mode.String()),
			slog.Int("pending", s.budget.Pending()),
		)
	}
	return ran
}

// Tick starts a new frame and runs queued requests within the budget. The
// host loop calls it once per frame. It returns how many queued requests ran.
func (s *Service) Tick() int {
	s.tick++
	return s.budget.Tick()
}

// Frame returns the number of Tick calls so far.
func (s *Service) Frame() uint64 {
	return s.tick
}

func (s *Service) route(req PathRequest) ([]cp.Vector, bool) {
	switch req.Mode {
	case ModeGrid:
		return s.FindGridPath(req.Start, req.End, req.Step)
	case ModeGraph:
		return s.FindGraphPath(req.Start, req.End)
	}

	if len(s.graph) > 0 && req.Start.Distance(req.End) > s.longRangeDistance {
		if path, ok := s.FindGraphPath(req.Start, req.End); ok {
			return path, true
		}
	}
	return s.FindGridPath(req.Start, req.End, req.Step)
}

func (s *Service) visibility() Visibility {
	return Visibility{Obstruction: s.obstruction, Transform: s.transform}
}

func (s *Service) cellCenter(c Cell) cp.Vector {
	return s.transform.CellToWorld(c).Add(s.transform.CellSize().Mult(s.cellCenterOffset))
}

// Simplify keeps every step-th cell of path, starting with the first, and
// always the last cell.
func Simplify(path []Cell, step int) []Cell {
	if step <= 1 || len(path) == 0 {
		return path
	}
	out := make([]Cell, 0, len(path)/step+2)
	for i := 0; i < len(path); i += step {
		out = append(out, path[i])
	}
	if last := path[len(path)-1]; out[len(out)-1] != last {
		out = append(out, last)
	}
	return out
}

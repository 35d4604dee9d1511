// Package scenario drives the navigation service from tengo scripts. A script
// defines setup(nav, state) and update(nav, state, tick); the runner calls
// setup once and update every frame after ticking the service.
package scenario

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/jakecoffman/cp"

	"github.com/milk9111/dungeonnav/navigation"
)

const dispatchScript = `
if __phase == "setup" {
	setup(__nav, __state)
} else if __phase == "update" {
	update(__nav, __state, __tick)
}
`

// Result is the latest completed request of one agent.
type Result struct {
	Agent     string
	OK        bool
	Deferred  bool
	Waypoints int
	Frame     uint64
}

// Report summarises a run.
type Report struct {
	Frames    int
	Requests  int
	Immediate int
	Completed int
	Succeeded int
	Cancelled int
	Stats     navigation.Stats
}

type agent struct {
	inFlight bool
	result   *Result
}

type Runner struct {
	name     string
	svc      *navigation.Service
	logger   *slog.Logger
	compiled *tengo.Compiled
	state    *tengo.Map
	agents   map[string]*agent
	report   Report
	setup    bool
	done     bool
}

// New compiles a scenario script against svc. A nil logger discards output.
func New(name string, src []byte, svc *navigation.Service, logger *slog.Logger) (*Runner, error) {
	if svc == nil {
		return nil, fmt.Errorf("scenario: %s: nil service", name)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	script := tengo.NewScript([]byte(string(src) + "\n" + dispatchScript))
	_ = script.Add("__phase", "")
	_ = script.Add("__nav", map[string]any{})
	_ = script.Add("__state", map[string]any{})
	_ = script.Add("__tick", 0)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("scenario: compile %s: %w", name, err)
	}

	return &Runner{
		name:     name,
		svc:      svc,
		logger:   logger.With(slog.String("scenario", name)),
		compiled: compiled,
		state:    &tengo.Map{Value: map[string]tengo.Object{}},
		agents:   map[string]*agent{},
	}, nil
}

// Load reads a script with LoadScript and compiles it.
func Load(name string, svc *navigation.Service, logger *slog.Logger) (*Runner, error) {
	src, err := LoadScript(name)
	if err != nil {
		return nil, err
	}
	return New(name, src, svc, logger)
}

// Step advances one frame: the service ticks, then the script updates.
func (r *Runner) Step() error {
	if !r.setup {
		if err := r.runPhase("setup"); err != nil {
			return err
		}
		r.setup = true
	}
	if r.done {
		return nil
	}
	r.svc.Tick()
	r.report.Frames++
	return r.runPhase("update")
}

// Run steps until the script calls done or maxFrames frames have passed.
// Queued requests still run on the frames after done until the queue drains.
func (r *Runner) Run(maxFrames int) (Report, error) {
	for r.report.Frames < maxFrames && !r.done {
		if err := r.Step(); err != nil {
			return r.Report(), err
		}
	}
	for r.report.Frames < maxFrames && r.svc.Budgeter().Pending() > 0 {
		r.svc.Tick()
		r.report.Frames++
	}
	return r.Report(), nil
}

func (r *Runner) Done() bool { return r.done }

func (r *Runner) Report() Report {
	out := r.report
	out.Stats = r.svc.Stats()
	return out
}

// Result returns the latest completed request for an agent.
func (r *Runner) Result(name string) (Result, bool) {
	a, ok := r.agents[name]
	if !ok || a.result == nil {
		return Result{}, false
	}
	return *a.result, true
}

// Value reads a key of the script's state map as a Go value.
func (r *Runner) Value(key string) any {
	obj, ok := r.state.Value[key]
	if !ok {
		return nil
	}
	return objectToAny(obj)
}

func (r *Runner) runPhase(phase string) error {
	if err := r.compiled.Set("__phase", phase); err != nil {
		return err
	}
	if err := r.compiled.Set("__nav", r.buildNav()); err != nil {
		return err
	}
	if err := r.compiled.Set("__state", r.state); err != nil {
		return err
	}
	if err := r.compiled.Set("__tick", int(r.svc.Frame())); err != nil {
		return err
	}
	if err := r.compiled.Run(); err != nil {
		return fmt.Errorf("scenario: %s %s: %w", r.name, phase, err)
	}
	return nil
}

func (r *Runner) request(name string, req navigation.PathRequest) bool {
	// a new request from the same agent supersedes one still in the queue
	live := &agent{inFlight: true}
	if prev, ok := r.agents[name]; ok {
		prev.inFlight = false
		live.result = prev.result
	}
	r.agents[name] = live
	req.Alive = func() bool { return live.inFlight }

	r.report.Requests++
	ran := r.svc.RequestPath(req, func(res navigation.PathResult) {
		live.inFlight = false
		r.report.Completed++
		if res.OK {
			r.report.Succeeded++
		}
		live.result = &Result{
			Agent:     name,
			OK:        res.OK,
			Deferred:  res.Deferred,
			Waypoints: len(res.Path),
			Frame:     r.svc.Frame(),
		}
		r.logger.Debug("scenario: path result",
			slog.String("agent", name),
			slog.Bool("ok", res.OK),
			slog.Bool("deferred", res.Deferred),
			slog.Int("waypoints", len(res.Path)),
		)
	})
	if ran {
		r.report.Immediate++
	}
	return ran
}

// cancel withdraws an agent's queued request. It reports false when nothing
// was in flight.
func (r *Runner) cancel(name string) bool {
	a, ok := r.agents[name]
	if !ok || !a.inFlight {
		return false
	}
	a.inFlight = false
	r.report.Cancelled++
	return true
}

func (r *Runner) buildNav() *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["request"] = &tengo.UserFunction{Name: "request", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 5 {
			return tengo.FalseValue, nil
		}
		name := strings.TrimSpace(objectAsString(args[0]))
		start, ok1 := objectsAsVector(args[1], args[2])
		end, ok2 := objectsAsVector(args[3], args[4])
		if name == "" || !ok1 || !ok2 {
			return tengo.FalseValue, nil
		}
		req := navigation.PathRequest{Start: start, End: end, Step: 1}
		if len(args) > 5 {
			req.Mode = parseMode(objectAsString(args[5]))
		}
		if len(args) > 6 {
			if step, ok := tengo.ToInt(args[6]); ok {
				req.Step = step
			}
		}
		return boolObject(r.request(name, req)), nil
	}}

	values["cancel"] = &tengo.UserFunction{Name: "cancel", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		return boolObject(r.cancel(strings.TrimSpace(objectAsString(args[0])))), nil
	}}

	values["result"] = &tengo.UserFunction{Name: "result", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.UndefinedValue, nil
		}
		res, ok := r.Result(strings.TrimSpace(objectAsString(args[0])))
		if !ok {
			return tengo.UndefinedValue, nil
		}
		return &tengo.ImmutableMap{Value: map[string]tengo.Object{
			"ok":        boolObject(res.OK),
			"deferred":  boolObject(res.Deferred),
			"waypoints": &tengo.Int{Value: int64(res.Waypoints)},
			"frame":     &tengo.Int{Value: int64(res.Frame)},
		}}, nil
	}}

	values["path"] = &tengo.UserFunction{Name: "path", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 4 {
			return tengo.UndefinedValue, nil
		}
		start, ok1 := objectsAsVector(args[0], args[1])
		end, ok2 := objectsAsVector(args[2], args[3])
		if !ok1 || !ok2 {
			return tengo.UndefinedValue, nil
		}
		step := 1
		if len(args) > 4 {
			if s, ok := tengo.ToInt(args[4]); ok {
				step = s
			}
		}
		path, ok := r.svc.FindGridPath(start, end, step)
		if !ok {
			return tengo.UndefinedValue, nil
		}
		return pathObject(path), nil
	}}

	values["graph_path"] = &tengo.UserFunction{Name: "graph_path", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 4 {
			return tengo.UndefinedValue, nil
		}
		start, ok1 := objectsAsVector(args[0], args[1])
		end, ok2 := objectsAsVector(args[2], args[3])
		if !ok1 || !ok2 {
			return tengo.UndefinedValue, nil
		}
		path, ok := r.svc.FindGraphPath(start, end)
		if !ok {
			return tengo.UndefinedValue, nil
		}
		return pathObject(path), nil
	}}

	values["visible"] = &tengo.UserFunction{Name: "visible", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 4 {
			return tengo.FalseValue, nil
		}
		a, ok1 := objectsAsVector(args[0], args[1])
		b, ok2 := objectsAsVector(args[2], args[3])
		if !ok1 || !ok2 {
			return tengo.FalseValue, nil
		}
		return boolObject(r.svc.HasLineOfSight(a, b)), nil
	}}

	values["tick"] = &tengo.UserFunction{Name: "tick", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Int{Value: int64(r.svc.Frame())}, nil
	}}

	values["pending"] = &tengo.UserFunction{Name: "pending", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Int{Value: int64(r.svc.Budgeter().Pending())}, nil
	}}

	values["log"] = &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			parts = append(parts, objectAsString(a))
		}
		r.logger.Info("scenario: "+strings.Join(parts, " "), slog.Uint64("frame", r.svc.Frame()))
		return tengo.UndefinedValue, nil
	}}

	values["done"] = &tengo.UserFunction{Name: "done", Value: func(args ...tengo.Object) (tengo.Object, error) {
		r.done = true
		return tengo.TrueValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func parseMode(s string) navigation.Mode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "grid":
		return navigation.ModeGrid
	case "graph":
		return navigation.ModeGraph
	}
	return navigation.ModeAuto
}

func pathObject(path []cp.Vector) *tengo.Array {
	out := make([]tengo.Object, 0, len(path))
	for _, p := range path {
		out = append(out, &tengo.Array{Value: []tengo.Object{&tengo.Float{Value: p.X}, &tengo.Float{Value: p.Y}}})
	}
	return &tengo.Array{Value: out}
}

func objectsAsVector(x, y tengo.Object) (cp.Vector, bool) {
	fx, ok := tengo.ToFloat64(x)
	if !ok {
		return cp.Vector{}, false
	}
	fy, ok := tengo.ToFloat64(y)
	if !ok {
		return cp.Vector{}, false
	}
	return cp.Vector{X: fx, Y: fy}, true
}

func boolObject(v bool) tengo.Object {
	if v {
		return tengo.TrueValue
	}
	return tengo.FalseValue
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}

func objectToAny(obj tengo.Object) any {
	switch v := obj.(type) {
	case nil:
		return nil
	case *tengo.String:
		return v.Value
	case *tengo.Int:
		return int(v.Value)
	case *tengo.Float:
		return v.Value
	case *tengo.Bool:
		return !v.IsFalsy()
	case *tengo.Array:
		out := make([]any, 0, len(v.Value))
		for _, item := range v.Value {
			out = append(out, objectToAny(item))
		}
		return out
	case *tengo.Map:
		out := make(map[string]any, len(v.Value))
		for k, item := range v.Value {
			out[k] = objectToAny(item)
		}
		return out
	case *tengo.Undefined:
		return nil
	default:
		return v.String()
	}
}

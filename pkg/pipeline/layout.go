package pipeline

import (
	"context"
	"time"

	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/core/analyzer"
	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/core/widgets"
	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/errors"
	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/observability"
	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/render/frame"
	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/scene"
)

// =============================================================================
// Layout
// =============================================================================

// Layout is a solved scene state.
type Layout struct {
	Scene      string `json:"scene,omitempty"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Strategy   string `json:"strategy"`
	Passes     int    `json:"passes"`
	Iterations int    `json:"iterations"`
	Measures   int    `json:"measures"`
	Converged  bool   `json:"converged"`
	Widgets    []Rect `json:"widgets"`
}

// Rect is the solved frame of one child of the container. Guidelines and
// barriers span the container on the axis they do not position.
type Rect struct {
	ID         string `json:"id"`
	Kind       string `json:"kind"`
	X          int    `json:"x"`
	Y          int    `json:"y"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Visibility string `json:"visibility,omitempty"`
	Baseline   int    `json:"baseline,omitempty"`
}

// Rect returns the frame of the child with the given id.
func (l *Layout) Rect(id string) (Rect, bool) {
	for _, r := range l.Widgets {
		if r.ID == id {
			return r, true
		}
	}
	return Rect{}, false
}

// Frame converts l for the frame renderers.
func (l *Layout) Frame() frame.Frame {
	f := frame.Frame{Width: float64(l.Width), Height: float64(l.Height)}
	for _, r := range l.Widgets {
		f.Boxes = append(f.Boxes, frame.Box{
			ID:     r.ID,
			Kind:   r.Kind,
			X:      float64(r.X),
			Y:      float64(r.Y),
			Width:  float64(r.Width),
			Height: float64(r.Height),
			Alpha:  1,
			Hidden: r.Visibility == widgets.Invisible.String() || r.Visibility == widgets.Gone.String(),
		})
	}
	return f
}

// newLayout reads the solved frames out of c.
func newLayout(name string, c *widgets.Container, res analyzer.Result) *Layout {
	l := &Layout{
		Scene:      name,
		Width:      c.Width(),
		Height:     c.Height(),
		Strategy:   res.Strategy.String(),
		Passes:     res.SolverPasses,
		Iterations: res.Iterations,
		Measures:   res.Measures,
		Converged:  res.Converged,
	}
	for _, w := range c.Children {
		l.Widgets = append(l.Widgets, rectOf(w, l.Width, l.Height))
	}
	return l
}

func rectOf(w *widgets.Widget, width, height int) Rect {
	var axis widgets.Orientation
	kind := frame.KindWidget
	switch {
	case w.Guideline != nil:
		kind, axis = frame.KindGuideline, w.Guideline.Axis
	case w.Barrier != nil:
		kind, axis = frame.KindBarrier, w.Barrier.Axis()
	default:
		r := Rect{ID: w.ID, Kind: kind, X: w.X(), Y: w.Y(), Width: w.Width(), Height: w.Height(), Visibility: w.Visibility.String()}
		if w.HasBaseline() {
			r.Baseline = w.BaselineDistance()
		}
		return r
	}
	if axis == widgets.Horizontal {
		return Rect{ID: w.ID, Kind: kind, X: w.X(), Height: height}
	}
	return Rect{ID: w.ID, Kind: kind, Y: w.Y(), Width: width}
}

// =============================================================================
// Solve Stage
// =============================================================================

// Solve builds the start state of doc and measures it.
//
// A layout that does not converge is returned as is, with Converged
// false, unless opts.Strict is set.
func Solve(ctx context.Context, doc *scene.Document, opts Options) (*Layout, error) {
	if err := opts.ValidateForSolve(); err != nil {
		return nil, err
	}
	c, res, err := solveState(ctx, doc, doc.Build, opts)
	if err != nil {
		return nil, err
	}
	return newLayout(doc.Name, c, res), nil
}

// solveState builds one state of doc with build and measures it with the
// container spec of doc and the overrides of opts.
func solveState(ctx context.Context, doc *scene.Document, build func() (*widgets.Container, error), opts Options) (*widgets.Container, analyzer.Result, error) {
	base, err := doc.Container.MeasureSpec()
	if err != nil {
		return nil, analyzer.Result{}, err
	}
	c, err := build()
	if err != nil {
		return nil, analyzer.Result{}, err
	}
	opts.apply(c)

	hooks := observability.Solver()
	hooks.OnSolveStart(ctx, c.ID, len(c.Children))
	start := time.Now()

	bm := analyzer.NewBasicMeasure(c)
	bm.Logger = opts.Logger
	res := bm.SolverMeasure(opts.MeasureSpec(base))

	if !res.Converged {
		opts.Logger.Warn("layout did not converge",
			"container", c.ID,
			"strategy", res.Strategy,
			"passes", res.SolverPasses)
		if opts.Strict {
			err = errors.New(errors.ErrCodeUnresolved, "container %q did not converge after %d solver passes", c.ID, res.SolverPasses)
		}
	}
	hooks.OnSolveComplete(ctx, c.ID, res.Strategy.String(), time.Since(start), err)
	if err != nil {
		return nil, res, err
	}

	opts.Logger.Debug("solved layout",
		"container", c.ID,
		"widgets", len(c.Children),
		"strategy", res.Strategy,
		"iterations", res.Iterations,
		"measures", res.Measures,
		"duration", time.Since(start))
	return c, res, nil
}

// =============================================================================
// Dependency Graph
// =============================================================================

// Graph solves the start state of doc and returns a snapshot of the
// dependency graph of its container. When the solver finished without
// the graph, the graph is built and measured for the snapshot alone.
func Graph(ctx context.Context, doc *scene.Document, opts Options) (analyzer.Snapshot, error) {
	if err := opts.ValidateForSolve(); err != nil {
		return analyzer.Snapshot{}, err
	}
	base, err := doc.Container.MeasureSpec()
	if err != nil {
		return analyzer.Snapshot{}, err
	}
	c, err := doc.Build()
	if err != nil {
		return analyzer.Snapshot{}, err
	}
	opts.apply(c)

	bm := analyzer.NewBasicMeasure(c)
	bm.Logger = opts.Logger
	res := bm.SolverMeasure(opts.MeasureSpec(base))

	g := bm.Graph()
	if g.Nodes() == 0 {
		g.DirectMeasure(c.Optimization.Enabled(widgets.OptimizationGraphWrap))
	}
	opts.Logger.Debug("dependency graph",
		"strategy", res.Strategy,
		"nodes", g.Nodes(),
		"runs", g.Runs(),
		"groups", len(g.Groups()))
	return g.Snapshot(), nil
}

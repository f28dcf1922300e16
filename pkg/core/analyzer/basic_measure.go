package analyzer

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/core/solver"
	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/core/widgets"
)

// MaxMeasureIterations bounds the measure-and-solve rounds that follow
// the first solve.
const MaxMeasureIterations = 2

// MeasureMode is the constraint placed on one container axis by its
// parent.
type MeasureMode int

const (
	// Unspecified lets the container take whatever size its content
	// needs.
	Unspecified MeasureMode = iota
	// Exactly imposes the given size.
	Exactly
	// AtMost lets the container wrap its content up to the given size.
	AtMost
)

func (m MeasureMode) String() string {
	switch m {
	case Unspecified:
		return "unspecified"
	case Exactly:
		return "exactly"
	case AtMost:
		return "at_most"
	}
	return "unknown"
}

// Spec is the measure request for a container.
type Spec struct {
	WidthMode  MeasureMode
	Width      int
	HeightMode MeasureMode
	Height     int
}

// ExactSpec returns a spec imposing both sizes.
func ExactSpec(width, height int) Spec {
	return Spec{WidthMode: Exactly, Width: width, HeightMode: Exactly, Height: height}
}

func (s Spec) axis(o widgets.Orientation) (MeasureMode, int) {
	if o == widgets.Horizontal {
		return s.WidthMode, s.Width
	}
	return s.HeightMode, s.Height
}

// Strategy names the solver that finished a layout.
type Strategy int

const (
	StrategyNone Strategy = iota
	StrategyGraph
	StrategyDirect
	StrategyGrouping
	StrategyLinearSystem
)

func (s Strategy) String() string {
	switch s {
	case StrategyGraph:
		return "graph"
	case StrategyDirect:
		return "direct"
	case StrategyGrouping:
		return "grouping"
	case StrategyLinearSystem:
		return "linear_system"
	}
	return "none"
}

// Result summarizes one [BasicMeasure.SolverMeasure] call.
type Result struct {
	Strategy     Strategy
	SolverPasses int
	Iterations   int
	Measures     int
	Converged    bool
	Width        int
	Height       int
}

// BasicMeasure measures a container and lays out its children, trying
// the dependency graph first, then Direct, then the relaxation solver.
type BasicMeasure struct {
	Logger *log.Logger

	container *widgets.Container
	graph     *DependencyGraph
	direct    Direct
	grouping  Grouping
	variable  []*widgets.Widget
	measures  int
}

// NewBasicMeasure returns the measure driver for c.
func NewBasicMeasure(c *widgets.Container) *BasicMeasure {
	return &BasicMeasure{
		Logger:    log.NewWithOptions(io.Discard, log.Options{}),
		container: c,
		graph:     NewDependencyGraph(c),
	}
}

// Graph returns the dependency graph used by the driver.
func (b *BasicMeasure) Graph() *DependencyGraph { return b.graph }

// Grouping returns the grouping state of the last pass.
func (b *BasicMeasure) Grouping() *Grouping { return &b.grouping }

// updateHierarchy records the children with a match-constraint axis;
// only those are measured again after a solve.
func (b *BasicMeasure) updateHierarchy() {
	b.variable = b.variable[:0]
	for _, w := range b.container.Children {
		if w.IsHelper() {
			continue
		}
		if w.IsMatchConstraint(widgets.Horizontal) || w.IsMatchConstraint(widgets.Vertical) {
			b.variable = append(b.variable, w)
		}
	}
}

// graphEligible reports whether the dependency graph may be tried. A
// chain member with a dual ratio is left to the other solvers.
func (b *BasicMeasure) graphEligible() bool {
	for _, w := range b.container.Children {
		if w.HasDualRatio() && (w.InChain(widgets.Horizontal) || w.InChain(widgets.Vertical)) {
			return false
		}
	}
	return true
}

// SolverMeasure sizes the container according to spec and lays out its
// children. The container keeps the resulting size.
func (b *BasicMeasure) SolverMeasure(spec Spec) Result {
	c := b.container
	opt := c.Optimization
	useCache := opt.Enabled(widgets.OptimizationCache)
	seq := &Sequence{}
	res := Result{}
	b.measures = 0
	calls := b.graph.MeasureCalls()

	for _, o := range axes {
		mode, size := spec.axis(o)
		if mode == Exactly {
			c.Behaviour[o] = widgets.Fixed
			c.SetDimension(o, size)
		} else {
			c.Behaviour[o] = widgets.WrapContent
		}
	}
	for _, w := range c.Children {
		w.Measured = false
	}
	c.DefineChains()
	b.updateHierarchy()

	exact := spec.WidthMode == Exactly && spec.HeightMode == Exactly
	optimizeWrap := opt.Enabled(widgets.OptimizationGraphWrap)
	optimize := (opt.Enabled(widgets.OptimizationGraph) || optimizeWrap) && b.graphEligible()
	allSolved := false
	if optimize && (exact || optimizeWrap) {
		b.graph.Sequence = seq
		if exact {
			allSolved = b.graph.DirectMeasure(optimizeWrap)
		} else {
			b.graph.DirectMeasureSetup()
			allSolved = true
			for _, o := range axes {
				allSolved = b.graph.DirectMeasureWithOrientation(optimizeWrap, o) && allSolved
			}
		}
		b.Logger.Debug("dependency graph", "resolved", allSolved, "runs", b.graph.Runs(), "groups", len(b.graph.Groups()))
	}
	b.measures += b.graph.MeasureCalls() - calls
	if allSolved {
		res.Strategy = StrategyGraph
		return b.finish(res, spec)
	}

	if len(c.Children) > 0 {
		b.measureChildren(useCache)
	}
	if c.Measurer != nil {
		c.Measurer.DidMeasures()
	}
	b.layout(&res, seq, "first pass")

	if len(b.variable) > 0 {
		for j := 0; j < MaxMeasureIterations; j++ {
			strategy := widgets.TryGivenDimensions
			if j == MaxMeasureIterations-1 {
				strategy = widgets.UseGivenDimensions
			}
			res.Iterations++
			changed, needSolverPass := false, false
			for _, w := range b.variable {
				if w.Visibility == widgets.Gone {
					continue
				}
				pw, ph, pb := w.Width(), w.Height(), w.BaselineDistance()
				m := widgets.SpecFor(w, strategy)
				needSolverPass = w.ApplyMeasure(c.Measurer, &m, useCache) || needSolverPass
				b.measures++
				if w.Width() != pw || w.Height() != ph || w.BaselineDistance() != pb {
					changed = true
				}
			}
			if c.Measurer != nil {
				c.Measurer.DidMeasures()
			}
			if !changed && !needSolverPass {
				break
			}
			b.layout(&res, seq, "iteration")
		}
	}
	return b.finish(res, spec)
}

// measureChildren measures every child whose size the solvers need
// before they run. Children sized entirely by their constraints are
// left to the solvers.
func (b *BasicMeasure) measureChildren(useCache bool) {
	c := b.container
	direct := c.Optimization.Enabled(widgets.OptimizationDirect)
	for _, w := range c.Children {
		if w.IsHelper() || w.Measured {
			continue
		}
		h, v := w.Behaviour[widgets.Horizontal], w.Behaviour[widgets.Vertical]
		hMatch := h == widgets.MatchConstraint && w.MatchDefault[widgets.Horizontal] != widgets.MatchConstraintWrap
		vMatch := v == widgets.MatchConstraint && w.MatchDefault[widgets.Vertical] != widgets.MatchConstraintWrap
		skip := hMatch && vMatch
		if !skip && direct {
			switch {
			case h == widgets.MatchConstraint && w.MatchDefault[widgets.Horizontal] == widgets.MatchConstraintSpread &&
				v != widgets.MatchConstraint && !w.InChain(widgets.Horizontal):
				skip = true
			case v == widgets.MatchConstraint && w.MatchDefault[widgets.Vertical] == widgets.MatchConstraintSpread &&
				h != widgets.MatchConstraint && !w.InChain(widgets.Vertical):
				skip = true
			case (h == widgets.MatchConstraint || v == widgets.MatchConstraint) && w.Ratio > 0:
				skip = true
			}
		}
		if skip {
			continue
		}
		m := widgets.SpecFor(w, widgets.SelfDimensions)
		w.ApplyMeasure(c.Measurer, &m, useCache)
		b.measures++
	}
}

// layout runs one solve: Direct when enabled, falling back to grouping
// for wrap-content axes and then to the relaxation solver.
func (b *BasicMeasure) layout(res *Result, seq *Sequence, pass string) {
	c := b.container
	res.SolverPasses++
	if c.Optimization.Enabled(widgets.OptimizationDirect) {
		ok := b.direct.SolvingPass(c, c.Measurer)
		b.measures += b.direct.Measures
		if ok {
			res.Strategy = StrategyDirect
			res.Converged = true
			b.Logger.Debug("direct pass resolved layout", "pass", pass, "chains", b.direct.ChainsSolved)
			return
		}
		b.Logger.Debug("direct pass incomplete", "pass", pass)
	}

	orig := c.Behaviour
	defer func() { c.Behaviour = orig }()
	res.Strategy = StrategyLinearSystem
	wrap := orig[widgets.Horizontal] == widgets.WrapContent || orig[widgets.Vertical] == widgets.WrapContent
	if wrap && c.Optimization.Enabled(widgets.OptimizationGrouping) && b.grouping.SimpleSolvingPass(c, seq) {
		for _, o := range axes {
			if orig[o] == widgets.WrapContent {
				c.Behaviour[o] = widgets.Fixed
			}
		}
		res.Strategy = StrategyGrouping
		b.Logger.Debug("grouping sized container", "pass", pass, "groups", len(b.grouping.Groups), "width", c.Width(), "height", c.Height())
	}

	s := solver.NewLinearSystem(c)
	s.AddContainer()
	res.Converged = s.Minimize()
	s.UpdateFromSolver()
	if !res.Converged {
		b.Logger.Warn("linear system did not converge", "pass", pass, "sweeps", s.Iterations())
	}
}

func (b *BasicMeasure) finish(res Result, spec Spec) Result {
	c := b.container
	for _, o := range axes {
		if mode, size := spec.axis(o); mode == AtMost && c.Size(o) > size {
			c.SetDimension(o, size)
		}
	}
	res.Measures = b.measures
	res.Width, res.Height = c.Width(), c.Height()
	if res.Strategy == StrategyGraph {
		res.Converged = true
	}
	return res
}

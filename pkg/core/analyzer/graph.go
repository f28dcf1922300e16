package analyzer

import (
	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/core/widgets"
)

var axes = [2]widgets.Orientation{widgets.Horizontal, widgets.Vertical}

// DependencyGraph resolves a container by propagating values through a
// graph of runs. The graph is rebuilt at the start of every measure, so
// it always reflects the current constraints.
type DependencyGraph struct {
	// Sequence numbers run groups; a fresh one is used when nil.
	Sequence *Sequence

	container *widgets.Container

	nodes []DependencyNode
	runs  []Run
	// order lists the top-level runs: widget runs outside chains,
	// helpers and chains.
	order        []RunID
	containerRun [2]RunID
	widgetRuns   map[*widgets.Widget][2]RunID
	groups       []*RunGroup

	pending  []dependent
	draining bool
	building bool
	deferred []deferredValue

	measureCalls int
}

// NewDependencyGraph returns the graph solver for c.
func NewDependencyGraph(c *widgets.Container) *DependencyGraph {
	return &DependencyGraph{container: c}
}

// Container returns the container the graph lays out.
func (g *DependencyGraph) Container() *widgets.Container { return g.container }

// MeasureCalls returns the number of measures requested by the graph
// since it was created.
func (g *DependencyGraph) MeasureCalls() int { return g.measureCalls }

// Groups returns the run groups found by the last BuildGraph.
func (g *DependencyGraph) Groups() []*RunGroup { return g.groups }

// ContainerRun returns the container run of axis o.
func (g *DependencyGraph) ContainerRun(o widgets.Orientation) RunID { return g.containerRun[o] }

// WidgetRun returns the run of w on axis o; helpers have a single run
// on their axis.
func (g *DependencyGraph) WidgetRun(w *widgets.Widget, o widgets.Orientation) (RunID, bool) {
	ids, ok := g.widgetRuns[w]
	if !ok {
		return NoRun, false
	}
	return ids[o], true
}

// InvalidateGraph drops the built graph.
func (g *DependencyGraph) InvalidateGraph() {
	g.nodes, g.runs, g.order, g.groups = nil, nil, nil, nil
	g.widgetRuns = nil
}

// InvalidateMeasures drops every cached child measure so the next pass
// measures again.
func (g *DependencyGraph) InvalidateMeasures() {
	for _, w := range g.container.Children {
		w.Measured = false
		w.InvalidateMeasure()
	}
}

// BuildGraph creates the runs and nodes for the current constraints and
// groups them. Sizes known without measuring are resolved; positions
// are not, until the container edges are resolved.
func (g *DependencyGraph) BuildGraph(seq *Sequence) {
	c := g.container
	c.DefineChains()
	g.nodes, g.runs, g.order, g.groups = g.nodes[:0], g.runs[:0], g.order[:0], nil
	g.pending, g.deferred = g.pending[:0], g.deferred[:0]
	g.widgetRuns = make(map[*widgets.Widget][2]RunID, len(c.Children))

	for _, o := range axes {
		g.containerRun[o] = g.newRun(RunContainer, o, &c.Widget)
	}
	for _, w := range c.Children {
		switch {
		case w.Guideline != nil:
			id := g.newRun(RunGuideline, w.Guideline.Axis, w)
			g.widgetRuns[w] = [2]RunID{id, id}
		case w.Barrier != nil:
			id := g.newRun(RunHelper, w.Barrier.Axis(), w)
			g.widgetRuns[w] = [2]RunID{id, id}
		default:
			g.widgetRuns[w] = [2]RunID{
				g.newRun(RunWidget, widgets.Horizontal, w),
				g.newRun(RunWidget, widgets.Vertical, w),
			}
		}
	}
	var chains []RunID
	for _, o := range axes {
		for _, h := range c.Chains(o) {
			id := g.newRun(RunChain, o, h.Head)
			members := make([]RunID, 0, len(h.Members))
			for _, m := range h.Members {
				mr := g.widgetRuns[m][o]
				g.runs[mr].InChain = true
				members = append(members, mr)
			}
			g.runs[id].Chain = h
			g.runs[id].Members = members
			chains = append(chains, id)
		}
	}
	for _, w := range c.Children {
		ids := g.widgetRuns[w]
		for _, o := range axes {
			if w.IsHelper() && o != g.runs[ids[o]].Orientation {
				continue
			}
			if !g.runs[ids[o]].InChain {
				g.order = append(g.order, ids[o])
			}
		}
	}
	g.order = append(g.order, chains...)

	g.building = true
	for _, id := range g.order {
		g.apply(id)
	}
	g.building = false
	for _, d := range g.deferred {
		g.Resolve(d.id, d.v)
	}
	g.deferred = g.deferred[:0]

	if seq == nil {
		seq = &Sequence{}
	}
	g.findGroups(seq)
}

// DirectMeasureSetup rebuilds the graph, measures every widget whose
// size does not depend on the layout and resolves the container start
// edges.
func (g *DependencyGraph) DirectMeasureSetup() {
	c := g.container
	for _, w := range c.Children {
		w.Measured = false
	}
	c.SetX(0)
	c.SetY(0)
	seq := g.Sequence
	if seq == nil {
		seq = &Sequence{}
	}
	g.BuildGraph(seq)
	g.basicMeasureWidgets()
	for _, o := range axes {
		g.Resolve(g.runs[g.containerRun[o]].Start, 0)
	}
}

// DirectMeasure resolves both axes and writes the resolved frames to
// the widgets. With optimizeWrap, a wrap-content container axis is
// sized from its run groups once every dimension on it is known. It
// reports whether every run resolved.
func (g *DependencyGraph) DirectMeasure(optimizeWrap bool) bool {
	g.DirectMeasureSetup()
	return g.solveAxes(optimizeWrap, widgets.Horizontal, widgets.Vertical)
}

// DirectMeasureWithOrientation resolves axis o only, after
// [DependencyGraph.DirectMeasureSetup].
func (g *DependencyGraph) DirectMeasureWithOrientation(optimizeWrap bool, o widgets.Orientation) bool {
	return g.solveAxes(optimizeWrap, o)
}

func (g *DependencyGraph) solveAxes(optimizeWrap bool, os ...widgets.Orientation) bool {
	c := g.container
	orig := c.Behaviour
	defer func() { c.Behaviour = orig }()

	g.measureWidgets()
	for _, o := range os {
		if c.Behaviour[o] == widgets.WrapContent && optimizeWrap && g.dimensionsResolved(o) {
			c.Behaviour[o] = widgets.Fixed
			c.SetDimension(o, g.computeWrap(o))
		}
		if b := c.Behaviour[o]; b == widgets.Fixed || b == widgets.MatchParent {
			cr := &g.runs[g.containerRun[o]]
			g.Resolve(cr.Dimension, c.Size(o))
			g.Resolve(cr.End, c.Size(o))
		}
		g.measureWidgets()
	}
	all := true
	for _, o := range os {
		g.applyToWidgets(o)
		all = g.allResolved(o) && all
	}
	return all
}

// ============================================================================
// Measuring
// ============================================================================

type axisKind uint8

const (
	axisDeferred axisKind = iota
	axisKnown
	axisWrap
	axisMatchWrap
)

func (k axisKind) wraps() bool { return k == axisWrap || k == axisMatchWrap }

// classify tells how axis o of w can be measured before the layout is
// known.
func (g *DependencyGraph) classify(w *widgets.Widget, o widgets.Orientation) (axisKind, int) {
	c := g.container
	switch w.EffectiveBehaviour(o) {
	case widgets.Fixed:
		return axisKnown, w.Size(o)
	case widgets.WrapContent:
		return axisWrap, 0
	case widgets.MatchParent:
		if b := c.Behaviour[o]; b == widgets.Fixed || b == widgets.MatchParent {
			_, _, ms, me := w.Axis(o)
			return axisKnown, max(c.Size(o)-ms-me, 0)
		}
	case widgets.MatchConstraint:
		if w.MatchMode(o) == widgets.MatchConstraintWrap {
			return axisMatchWrap, 0
		}
	}
	return axisDeferred, 0
}

func (g *DependencyGraph) measure(w *widgets.Widget, hk axisKind, hs int, vk axisKind, vs int) {
	spec := widgets.Measure{
		HorizontalBehaviour: widgets.WrapContent,
		VerticalBehaviour:   widgets.WrapContent,
		Strategy:            widgets.SelfDimensions,
	}
	if hk == axisKnown {
		spec.HorizontalBehaviour, spec.HorizontalDimension = widgets.Fixed, hs
	}
	if vk == axisKnown {
		spec.VerticalBehaviour, spec.VerticalDimension = widgets.Fixed, vs
	}
	c := g.container
	w.ApplyMeasure(c.Measurer, &spec, c.Optimization.Enabled(widgets.OptimizationCache))
	g.measureCalls++
}

// record feeds a measured wrap size into the run of axis o.
func (g *DependencyGraph) record(w *widgets.Widget, o widgets.Orientation, k axisKind) {
	id := g.widgetRuns[w][o]
	r := &g.runs[id]
	switch k {
	case axisWrap:
		g.Resolve(r.Dimension, w.Size(o))
	case axisMatchWrap:
		d := &g.nodes[r.Dimension]
		d.WrapValue = w.WrapMeasure[o]
		d.hasWrap = true
		g.touch(id)
		if r.InChain {
			for _, cid := range g.order {
				if g.runs[cid].Kind == RunChain && g.runs[cid].Chain == w.Chain(o) {
					g.touch(cid)
				}
			}
		}
	}
}

func (g *DependencyGraph) baselineMeasured(w *widgets.Widget) {
	vr := &g.runs[g.widgetRuns[w][widgets.Vertical]]
	g.Resolve(vr.BaselineDim, w.BaselineDistance())
}

// basicMeasureWidgets measures what can be measured before any position
// is known. A wrap width is measured even while the height is pending;
// a wrap height waits for the width unless the width derives from it by
// ratio.
func (g *DependencyGraph) basicMeasureWidgets() {
	for _, w := range g.container.Children {
		if w.IsHelper() || w.Measured {
			continue
		}
		if w.Visibility == widgets.Gone {
			w.Measured = true
			continue
		}
		hk, hs := g.classify(w, widgets.Horizontal)
		vk, vs := g.classify(w, widgets.Vertical)
		switch {
		case hk != axisDeferred && vk != axisDeferred:
			g.measure(w, hk, hs, vk, vs)
			g.record(w, widgets.Horizontal, hk)
			g.record(w, widgets.Vertical, vk)
			w.Measured = hk != axisMatchWrap && vk != axisMatchWrap
			g.baselineMeasured(w)
		case hk.wraps():
			g.measure(w, hk, 0, axisWrap, 0)
			g.record(w, widgets.Horizontal, hk)
		case vk.wraps() && w.HasRatio(widgets.Horizontal):
			g.measure(w, axisWrap, 0, vk, 0)
			g.record(w, widgets.Vertical, vk)
		}
	}
}

// measureWidgets measures widgets as their dimensions resolve, until a
// round makes no progress.
func (g *DependencyGraph) measureWidgets() {
	for progress := true; progress; {
		progress = false
		for _, w := range g.container.Children {
			if w.IsHelper() || w.Measured || w.Visibility == widgets.Gone {
				continue
			}
			ids := g.widgetRuns[w]
			hd := &g.nodes[g.runs[ids[widgets.Horizontal]].Dimension]
			vd := &g.nodes[g.runs[ids[widgets.Vertical]].Dimension]
			switch {
			case hd.Resolved && vd.Resolved:
				g.measure(w, axisKnown, hd.Value, axisKnown, vd.Value)
				w.Measured = true
				g.baselineMeasured(w)
				progress = true
			case hd.Resolved && !vd.hasWrap:
				if k, _ := g.classify(w, widgets.Vertical); k.wraps() {
					g.measure(w, axisKnown, hd.Value, axisWrap, 0)
					g.record(w, widgets.Vertical, k)
					progress = true
				}
			case vd.Resolved && !hd.hasWrap:
				if k, _ := g.classify(w, widgets.Horizontal); k.wraps() {
					g.measure(w, axisWrap, 0, axisKnown, vd.Value)
					g.record(w, widgets.Horizontal, k)
					progress = true
				}
			}
		}
	}
}

// ============================================================================
// Results
// ============================================================================

// metrics reads a widget's position and size from its resolved nodes,
// falling back to its frame.
func (g *DependencyGraph) metrics(w *widgets.Widget, o widgets.Orientation) (int, int) {
	ids, ok := g.widgetRuns[w]
	if !ok {
		return w.Pos(o), w.Size(o)
	}
	r := &g.runs[ids[o]]
	pos, size := w.Pos(o), w.Size(o)
	if r.Kind != RunWidget {
		size = 0
	}
	if s := &g.nodes[r.Start]; s.Resolved {
		pos = s.Value
	}
	if d := &g.nodes[r.Dimension]; d.Resolved {
		size = d.Value
	}
	return pos, size
}

func (g *DependencyGraph) computeWrap(o widgets.Orientation) int {
	size := 0
	for _, rg := range g.groups {
		size = max(size, rg.ComputeWrapSize(g, o))
	}
	return size
}

func (g *DependencyGraph) dimensionsResolved(o widgets.Orientation) bool {
	for i := range g.runs {
		r := &g.runs[i]
		if r.Kind == RunWidget && r.Orientation == o && !g.nodes[r.Dimension].Resolved {
			return false
		}
	}
	return true
}

func (g *DependencyGraph) applyToWidgets(o widgets.Orientation) {
	for i := range g.runs {
		r := &g.runs[i]
		if r.Orientation != o {
			continue
		}
		switch r.Kind {
		case RunWidget:
			if s := &g.nodes[r.Start]; s.Resolved {
				r.Widget.SetPos(o, s.Value)
			}
			if d := &g.nodes[r.Dimension]; d.Resolved {
				r.Widget.SetDimension(o, d.Value)
			}
		case RunGuideline, RunHelper:
			if s := &g.nodes[r.Start]; s.Resolved {
				r.Widget.SetPos(o, s.Value)
			}
		}
	}
}

func (g *DependencyGraph) runResolved(id RunID) bool {
	r := &g.runs[id]
	return g.nodes[r.Start].Resolved && g.nodes[r.End].Resolved && g.nodes[r.Dimension].Resolved
}

func (g *DependencyGraph) allResolved(o widgets.Orientation) bool {
	for _, id := range g.order {
		r := &g.runs[id]
		if r.Orientation != o {
			continue
		}
		switch r.Kind {
		case RunChain:
			for _, m := range r.Members {
				if !g.runResolved(m) {
					return false
				}
			}
		case RunGuideline, RunHelper:
			if !g.nodes[r.Start].Resolved {
				return false
			}
		default:
			if !g.runResolved(id) {
				return false
			}
		}
	}
	return true
}

package analyzer

import (
	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/core/widgets"
)

// RunID addresses a [Run] in the graph arena.
type RunID int32

// NoRun marks an absent run reference.
const NoRun RunID = -1

// RunKind is the variant tag of a [Run].
type RunKind uint8

const (
	// RunContainer holds the container edges of one axis.
	RunContainer RunKind = iota
	// RunWidget places one widget on one axis.
	RunWidget
	// RunChain places the members of a chain; each member keeps its own
	// widget run for its nodes.
	RunChain
	// RunGuideline places a guideline against the container.
	RunGuideline
	// RunHelper places a barrier at the extreme edge of its references.
	RunHelper
)

func (k RunKind) String() string {
	switch k {
	case RunContainer:
		return "container"
	case RunWidget:
		return "widget"
	case RunChain:
		return "chain"
	case RunGuideline:
		return "guideline"
	case RunHelper:
		return "helper"
	}
	return "unknown"
}

// RunType records how a widget run derives its edges.
type RunType uint8

const (
	RunTypeNone RunType = iota
	RunTypeStart
	RunTypeEnd
	RunTypeCenter
	RunTypeBaseline
)

// Run is the per-axis state of one widget, chain or helper.
type Run struct {
	Kind        RunKind
	Orientation widgets.Orientation
	Widget      *widgets.Widget
	Type        RunType
	// Behaviour is the effective dimension behaviour at build time.
	Behaviour widgets.DimensionBehaviour

	Start, End, Dimension NodeID
	// Baseline nodes exist on vertical widget runs only.
	Baseline, BaselineDim NodeID

	// Group indexes the graph's run groups, -1 before grouping.
	Group   int
	InChain bool

	Chain   *widgets.ChainHead
	Members []RunID
}

// Run returns the run with the given id.
func (g *DependencyGraph) Run(id RunID) *Run { return &g.runs[id] }

// Runs returns the number of runs in the arena.
func (g *DependencyGraph) Runs() int { return len(g.runs) }

func (g *DependencyGraph) newRun(kind RunKind, o widgets.Orientation, w *widgets.Widget) RunID {
	id := RunID(len(g.runs))
	g.runs = append(g.runs, Run{
		Kind:        kind,
		Orientation: o,
		Widget:      w,
		Group:       -1,
		Baseline:    NoNode,
		BaselineDim: NoNode,
	})
	st, et, dt := NodeLeft, NodeRight, NodeHorizontalDimension
	if o == widgets.Vertical {
		st, et, dt = NodeTop, NodeBottom, NodeVerticalDimension
	}
	s, e, d := g.newNode(st, id), g.newNode(et, id), g.newNode(dt, id)
	bl, bd := NoNode, NoNode
	if kind == RunWidget && o == widgets.Vertical {
		bl, bd = g.newNode(NodeBaseline, id), g.newNode(NodeBaselineDimension, id)
	}
	r := &g.runs[id]
	r.Start, r.End, r.Dimension = s, e, d
	r.Baseline, r.BaselineDim = bl, bd
	return id
}

// nodeFor maps an anchor to the node standing for it, or NoNode.
func (g *DependencyGraph) nodeFor(a *widgets.Anchor) NodeID {
	if a == nil {
		return NoNode
	}
	o := a.Type.Orientation()
	if o == widgets.AnyOrientation {
		return NoNode
	}
	owner := a.Owner
	if g.container.IsParent(owner) {
		r := &g.runs[g.containerRun[o]]
		switch {
		case a.Type.IsEnd():
			return r.End
		case a.Type == widgets.AnchorBaseline:
			return NoNode
		}
		return r.Start
	}
	ids, ok := g.widgetRuns[owner]
	if !ok {
		return NoNode
	}
	r := &g.runs[ids[o]]
	switch {
	case owner.IsHelper():
		return r.Start
	case a.Type.IsEnd():
		return r.End
	case a.Type == widgets.AnchorBaseline:
		return r.Baseline
	}
	return r.Start
}

func (g *DependencyGraph) apply(id RunID) {
	switch g.runs[id].Kind {
	case RunWidget:
		g.applyWidget(id)
	case RunChain:
		g.applyChain(id)
	case RunGuideline:
		g.applyGuideline(id)
	case RunHelper:
		g.applyHelper(id)
	}
}

func (g *DependencyGraph) updateRun(id RunID) {
	switch g.runs[id].Kind {
	case RunWidget:
		g.resolveDimension(id)
		if g.runs[id].Type == RunTypeCenter {
			g.updateCenter(id)
		}
	case RunChain:
		g.updateChain(id)
	case RunGuideline:
		g.updateGuideline(id)
	case RunHelper:
		g.updateHelper(id)
	}
}

// ============================================================================
// Widget runs
// ============================================================================

func (g *DependencyGraph) applyWidget(id RunID) {
	r := &g.runs[id]
	w, o := r.Widget, r.Orientation
	cr := &g.runs[g.containerRun[o]]
	r.Behaviour = w.EffectiveBehaviour(o)

	if w.Visibility == widgets.Gone {
		g.Resolve(r.Dimension, 0)
		if r.BaselineDim != NoNode {
			g.Resolve(r.BaselineDim, 0)
		}
	} else {
		switch r.Behaviour {
		case widgets.Fixed:
			g.Resolve(r.Dimension, w.Size(o))
		case widgets.MatchConstraint:
			switch w.MatchMode(o) {
			case widgets.MatchConstraintRatio:
				if w.RatioDerivedAxis() == o {
					other := g.runs[g.widgetRuns[w][o.Other()]].Dimension
					g.addRunDependent(other, id)
				}
			case widgets.MatchConstraintPercent:
				g.addRunDependent(cr.Dimension, id)
			}
		}
	}

	if w.InChain(o) {
		if o == widgets.Vertical {
			g.addTargetFactor(r.Baseline, r.Start, 1, r.BaselineDim)
		}
		return
	}

	start, end, ms, me := w.Axis(o)
	switch {
	case r.Behaviour == widgets.MatchParent:
		g.addTarget(r.Start, cr.Start, ms)
		g.addTarget(r.End, cr.End, -me)
		g.center(id)
	case o == widgets.Vertical && w.Baseline.IsConnected():
		g.addTarget(r.Baseline, g.nodeFor(w.Baseline.Target), w.Baseline.EffectiveMargin())
		g.addTargetFactor(r.Start, r.Baseline, -1, r.BaselineDim)
		g.addTargetFactor(r.End, r.Start, 1, r.Dimension)
		r.Type = RunTypeBaseline
		return
	case start.IsConnected() && end.IsConnected():
		g.addTarget(r.Start, g.nodeFor(start.Target), ms)
		g.addTarget(r.End, g.nodeFor(end.Target), -me)
		g.center(id)
	case start.IsConnected():
		g.addTarget(r.Start, g.nodeFor(start.Target), ms)
		g.addTargetFactor(r.End, r.Start, 1, r.Dimension)
		r.Type = RunTypeStart
	case end.IsConnected():
		g.addTarget(r.End, g.nodeFor(end.Target), -me)
		g.addTargetFactor(r.Start, r.End, -1, r.Dimension)
		r.Type = RunTypeEnd
	default:
		g.addTarget(r.Start, cr.Start, w.Pos(o))
		g.addTargetFactor(r.End, r.Start, 1, r.Dimension)
		r.Type = RunTypeStart
	}
	if o == widgets.Vertical {
		g.addTargetFactor(r.Baseline, r.Start, 1, r.BaselineDim)
	}
}

// center makes the run place itself between its two targets.
func (g *DependencyGraph) center(id RunID) {
	r := &g.runs[id]
	r.Type = RunTypeCenter
	g.nodes[r.Start].DelegateToRun = true
	g.nodes[r.End].DelegateToRun = true
	g.addRunDependent(r.Dimension, id)
}

// bounds returns the space a centered run is placed in together with
// its bias. Both edges targeting the same node collapse the space to
// that node.
func (g *DependencyGraph) bounds(id RunID) (lo, hi int, bias float64, ok bool) {
	r := &g.runs[id]
	s, e := &g.nodes[r.Start], &g.nodes[r.End]
	if len(s.Targets) == 0 || len(e.Targets) == 0 {
		return 0, 0, 0, false
	}
	st, et := s.Targets[0], e.Targets[0]
	if !g.nodes[st].Resolved || !g.nodes[et].Resolved {
		return 0, 0, 0, false
	}
	if st == et {
		v := g.nodes[st].Value
		return v, v, 0.5, true
	}
	lo = g.nodes[st].Value + s.Margin
	hi = g.nodes[et].Value + e.Margin
	return lo, hi, g.container.Bias(r.Widget, r.Orientation), true
}

func (g *DependencyGraph) resolveDimension(id RunID) {
	r := &g.runs[id]
	if g.nodes[r.Dimension].Resolved {
		return
	}
	w, o := r.Widget, r.Orientation
	switch r.Behaviour {
	case widgets.MatchParent:
		if lo, hi, _, ok := g.bounds(id); ok {
			g.Resolve(r.Dimension, max(hi-lo, 0))
		}
	case widgets.MatchConstraint:
		switch w.MatchMode(o) {
		case widgets.MatchConstraintRatio:
			if w.RatioDerivedAxis() == widgets.AnyOrientation {
				g.resolveFit(w)
				return
			}
			other := &g.nodes[g.runs[g.widgetRuns[w][o.Other()]].Dimension]
			if !other.Resolved {
				return
			}
			distance := -1
			if r.Type == RunTypeCenter {
				lo, hi, _, ok := g.bounds(id)
				if !ok {
					return
				}
				distance = hi - lo
			}
			v, _ := w.MatchSize(o, distance, -1, other.Value)
			g.Resolve(r.Dimension, v)
		case widgets.MatchConstraintPercent:
			pd := &g.nodes[g.runs[g.containerRun[o]].Dimension]
			if !pd.Resolved {
				return
			}
			v, _ := w.MatchSize(o, -1, pd.Value, -1)
			g.Resolve(r.Dimension, v)
		default:
			if r.InChain {
				return
			}
			if w.MatchMode(o) == widgets.MatchConstraintWrap && !g.nodes[r.Dimension].hasWrap {
				return
			}
			lo, hi, _, ok := g.bounds(id)
			if !ok {
				return
			}
			v, _ := w.MatchSize(o, hi-lo, -1, -1)
			g.Resolve(r.Dimension, v)
		}
	}
}

// resolveFit sizes a dual ratio widget once the space on both axes is
// known.
func (g *DependencyGraph) resolveFit(w *widgets.Widget) {
	ids := g.widgetRuns[w]
	hl, hh, _, ok := g.bounds(ids[widgets.Horizontal])
	if !ok {
		return
	}
	vl, vh, _, ok := g.bounds(ids[widgets.Vertical])
	if !ok {
		return
	}
	width, height := w.FitRatio(hh-hl, vh-vl)
	g.Resolve(g.runs[ids[widgets.Horizontal]].Dimension, width)
	g.Resolve(g.runs[ids[widgets.Vertical]].Dimension, height)
}

func (g *DependencyGraph) updateCenter(id RunID) {
	r := &g.runs[id]
	d := &g.nodes[r.Dimension]
	if !d.Resolved || g.nodes[r.Start].Resolved {
		return
	}
	lo, hi, bias, ok := g.bounds(id)
	if !ok {
		return
	}
	pos := widgets.CenterPosition(lo, hi, d.Value, bias)
	g.Resolve(r.Start, pos)
	g.Resolve(r.End, pos+d.Value)
}

// ============================================================================
// Chains
// ============================================================================

func (g *DependencyGraph) applyChain(id RunID) {
	r := &g.runs[id]
	h, o := r.Chain, r.Orientation
	cr := &g.runs[g.containerRun[o]]
	for _, m := range r.Members {
		g.applyWidget(m)
		g.addRunDependent(g.runs[m].Dimension, id)
	}
	st, et := g.nodeFor(h.StartTarget()), g.nodeFor(h.EndTarget())
	if st == NoNode {
		st = cr.Start
	}
	if et == NoNode {
		et = cr.End
	}
	g.addTarget(r.Start, st, 0)
	g.addTarget(r.End, et, 0)
	g.nodes[r.Start].delegate = id
	g.nodes[r.End].delegate = id
}

func (g *DependencyGraph) updateChain(id RunID) {
	r := &g.runs[id]
	s, e := &g.nodes[r.Start], &g.nodes[r.End]
	if !s.Resolved || !e.Resolved || len(r.Members) == 0 {
		return
	}
	if g.nodes[g.runs[r.Members[0]].Start].Resolved {
		return
	}
	o := r.Orientation
	for _, m := range r.Members {
		mr := &g.runs[m]
		if mr.Behaviour == widgets.MatchConstraint && mr.Widget.MatchMode(o) == widgets.MatchConstraintWrap &&
			mr.Widget.Visibility != widgets.Gone && !g.nodes[mr.Dimension].hasWrap {
			return
		}
	}
	pos, sizes, ok := r.Chain.Layout(s.Value, e.Value, func(w *widgets.Widget) (int, bool) {
		d := &g.nodes[g.runs[g.widgetRuns[w][o]].Dimension]
		return d.Value, d.Resolved
	})
	if !ok {
		return
	}
	g.Resolve(r.Dimension, e.Value-s.Value)
	for k, m := range r.Members {
		mr := &g.runs[m]
		g.Resolve(mr.Dimension, sizes[k])
		g.Resolve(mr.Start, pos[k])
		g.Resolve(mr.End, pos[k]+sizes[k])
	}
}

// ============================================================================
// Guidelines and barriers
// ============================================================================

func (g *DependencyGraph) applyGuideline(id RunID) {
	r := &g.runs[id]
	gl := r.Widget.Guideline
	cr := &g.runs[g.containerRun[r.Orientation]]
	g.Resolve(r.Dimension, 0)
	switch {
	case gl.RelativeBegin >= 0:
		g.addTarget(r.Start, cr.Start, gl.RelativeBegin)
	case gl.RelativeEnd >= 0:
		g.addTarget(r.Start, cr.End, -gl.RelativeEnd)
	default:
		g.addTarget(r.Start, cr.Start, 0)
		g.nodes[r.Start].DelegateToRun = true
		g.addRunDependent(cr.Dimension, id)
	}
	g.addTarget(r.End, r.Start, 0)
}

func (g *DependencyGraph) updateGuideline(id RunID) {
	r := &g.runs[id]
	s := &g.nodes[r.Start]
	if s.Resolved || !s.DelegateToRun || !g.targetsResolved(r.Start) {
		return
	}
	cr := &g.runs[g.containerRun[r.Orientation]]
	pd := &g.nodes[cr.Dimension]
	if !pd.Resolved {
		return
	}
	g.Resolve(r.Start, g.nodes[cr.Start].Value+r.Widget.Guideline.Position(pd.Value))
}

func (g *DependencyGraph) applyHelper(id RunID) {
	r := &g.runs[id]
	b, o := r.Widget.Barrier, r.Orientation
	g.Resolve(r.Dimension, 0)
	counted := 0
	for _, ref := range b.Refs {
		ids, ok := g.widgetRuns[ref]
		if !ok || !b.Counts(ref) {
			continue
		}
		rr := &g.runs[ids[o]]
		n := rr.End
		if b.Side.IsStart() {
			n = rr.Start
		}
		g.addTarget(r.Start, n, 0)
		counted++
	}
	if counted == 0 {
		g.addTarget(r.Start, g.runs[g.containerRun[o]].Start, b.Margin)
	} else {
		g.nodes[r.Start].DelegateToRun = true
	}
	g.addTarget(r.End, r.Start, 0)
}

func (g *DependencyGraph) updateHelper(id RunID) {
	r := &g.runs[id]
	s := &g.nodes[r.Start]
	if s.Resolved || !s.DelegateToRun || !g.targetsResolved(r.Start) {
		return
	}
	b := r.Widget.Barrier
	v := g.nodes[s.Targets[0]].Value
	for _, t := range s.Targets[1:] {
		if b.Side.IsStart() {
			v = min(v, g.nodes[t].Value)
		} else {
			v = max(v, g.nodes[t].Value)
		}
	}
	g.Resolve(r.Start, v+b.Margin)
}

package analyzer

import (
	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/core/widgets"
)

// Direct resolves widgets by walking anchors outward from the container
// edges. Each widget axis is fixed once the anchors it depends on are
// final; nothing is ever revised within a pass.
//
// Only fixed-size container axes are resolved. On a wrap-content axis
// the container start is final but its end is not, so widgets depending
// on the end stay unresolved and the pass reports failure.
type Direct struct {
	container *widgets.Container
	measurer  widgets.Measurer
	useCache  bool

	// Measures counts the measure requests of the last pass.
	Measures int
	// ChainsSolved counts the chains the last pass placed itself.
	ChainsSolved int
}

type axisItem struct {
	w *widgets.Widget
	o widgets.Orientation
}

// SolvingPass resolves the children of c using m to measure content. It
// reports whether every child was resolved on both axes.
func (d *Direct) SolvingPass(c *widgets.Container, m widgets.Measurer) bool {
	d.container, d.measurer = c, m
	d.useCache = c.Optimization.Enabled(widgets.OptimizationCache)
	d.Measures, d.ChainsSolved = 0, 0
	c.ResetFinalResolution()
	for _, w := range c.Children {
		if !w.IsHelper() {
			w.MeasureRequested = true
		}
	}

	var queue []axisItem
	for _, o := range axes {
		if b := c.Behaviour[o]; b == widgets.Fixed || b == widgets.MatchParent {
			c.SetFinal(o, 0, c.Size(o))
		} else {
			c.StartAnchor(o).SetFinalValue(0)
		}
		queue = append(queue, axisItem{&c.Widget, o})
	}
	for _, w := range c.Guidelines() {
		if d.solveGuideline(w) {
			queue = append(queue, axisItem{w, w.Guideline.Axis})
		}
	}
	d.propagate(queue)

	for progress := true; progress; {
		progress = false
		for _, w := range c.Barriers() {
			if d.solveBarrier(w) {
				d.propagate([]axisItem{{w, w.Barrier.Axis()}})
				progress = true
			}
		}
		if c.Optimization.Enabled(widgets.OptimizationChain) {
			for _, o := range axes {
				for _, h := range c.Chains(o) {
					if h.First.IsResolved(o) {
						continue
					}
					if d.SolveChain(h) {
						d.ChainsSolved++
						var items []axisItem
						for _, m := range h.Members {
							items = append(items, axisItem{m, o})
						}
						d.propagate(items)
						progress = true
					}
				}
			}
		}
		for _, w := range c.Children {
			for _, o := range axes {
				if d.solveAxis(w, o) {
					d.propagate([]axisItem{{w, o}})
					progress = true
				}
			}
		}
	}

	for _, w := range c.Children {
		if !w.IsResolved(widgets.Horizontal) || !w.IsResolved(widgets.Vertical) {
			if w.IsHelper() && w.IsResolved(helperAxis(w)) {
				continue
			}
			return false
		}
	}
	for _, o := range axes {
		if c.Behaviour[o] == widgets.WrapContent {
			c.SetDimension(o, widgets.Extent(&c.Widget, c.Children, o))
		}
	}
	return true
}

func helperAxis(w *widgets.Widget) widgets.Orientation {
	if w.Guideline != nil {
		return w.Guideline.Axis
	}
	return w.Barrier.Axis()
}

// propagate resolves the dependents of every queued axis, queueing
// whatever they resolve in turn.
func (d *Direct) propagate(queue []axisItem) {
	for len(queue) > 0 {
		it := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		for _, a := range it.w.AxisAnchors(it.o) {
			if !a.HasFinalValue() {
				continue
			}
			for _, dep := range a.Dependents() {
				x := dep.Owner
				o := dep.Type.Orientation()
				if d.container.IsParent(x) || o == widgets.AnyOrientation {
					continue
				}
				if x.InChain(o) && !x.IsResolved(o) && d.container.Optimization.Enabled(widgets.OptimizationChain) {
					if h := x.Chain(o); h != nil && d.SolveChain(h) {
						d.ChainsSolved++
						for _, m := range h.Members {
							queue = append(queue, axisItem{m, o})
						}
					}
					continue
				}
				if d.solveAxis(x, o) {
					queue = append(queue, axisItem{x, o})
				}
			}
		}
	}
}

func (d *Direct) solveGuideline(w *widgets.Widget) bool {
	gl := w.Guideline
	o := gl.Axis
	if w.IsResolved(o) {
		return false
	}
	end := d.container.EndAnchor(o)
	if gl.NeedsParentEnd() && !end.HasFinalValue() {
		return false
	}
	p := gl.Position(d.container.Size(o))
	w.SetFinal(o, p, p)
	return true
}

func (d *Direct) solveBarrier(w *widgets.Widget) bool {
	b := w.Barrier
	o := b.Axis()
	if w.IsResolved(o) {
		return false
	}
	v, ok := b.Value(func(r *widgets.Widget, start bool) (int, bool) {
		if !r.IsResolved(o) {
			return 0, false
		}
		if start {
			return r.Pos(o), true
		}
		return r.Pos(o) + r.Size(o), true
	})
	if !ok {
		return false
	}
	w.SetFinal(o, v, v)
	return true
}

// CanMeasure reports whether w can be measured before its constraints
// are solved: every axis is either content-sized, fixed, or already
// known.
func (d *Direct) CanMeasure(w *widgets.Widget) bool {
	if w.Ratio > 0 && (w.IsMatchConstraint(widgets.Horizontal) || w.IsMatchConstraint(widgets.Vertical)) {
		return false
	}
	for _, o := range axes {
		if _, ok := d.measureAxis(w, o); !ok {
			return false
		}
	}
	return true
}

// measureAxis returns the behaviour and size to request on axis o.
func (d *Direct) measureAxis(w *widgets.Widget, o widgets.Orientation) (widgets.DimensionBehaviour, bool) {
	if w.IsResolved(o) {
		return widgets.Fixed, true
	}
	switch w.EffectiveBehaviour(o) {
	case widgets.Fixed, widgets.WrapContent:
		return w.EffectiveBehaviour(o), true
	case widgets.MatchParent:
		return widgets.Fixed, d.container.EndAnchor(o).HasFinalValue()
	case widgets.MatchConstraint:
		if w.MatchMode(o) == widgets.MatchConstraintPercent && d.container.EndAnchor(o).HasFinalValue() {
			return widgets.Fixed, true
		}
	}
	return widgets.WrapContent, false
}

// measure asks the measurer for the content size of w, fixing every axis
// that is already known.
func (d *Direct) measure(w *widgets.Widget) {
	spec := widgets.Measure{Strategy: widgets.SelfDimensions}
	for _, o := range axes {
		b, _ := d.measureAxis(w, o)
		size := w.Size(o)
		if b == widgets.Fixed && !w.IsResolved(o) {
			switch w.EffectiveBehaviour(o) {
			case widgets.MatchParent:
				_, _, ms, me := w.Axis(o)
				size = max(d.container.Size(o)-ms-me, 0)
			case widgets.MatchConstraint:
				size, _ = w.MatchSize(o, -1, d.container.Size(o), -1)
			}
		}
		if o == widgets.Horizontal {
			spec.HorizontalBehaviour, spec.HorizontalDimension = b, size
		} else {
			spec.VerticalBehaviour, spec.VerticalDimension = b, size
		}
	}
	w.ApplyMeasure(d.measurer, &spec, d.useCache)
	d.Measures++
}

func (d *Direct) ensureMeasured(w *widgets.Widget) {
	if w.MeasureRequested && d.CanMeasure(w) {
		d.measure(w)
	}
}

// knownSize returns the size of axis o when it does not depend on the
// constraints of the axis itself.
func (d *Direct) knownSize(w *widgets.Widget, o widgets.Orientation) (int, bool) {
	if w.Visibility == widgets.Gone {
		return 0, true
	}
	switch w.EffectiveBehaviour(o) {
	case widgets.Fixed:
		return w.Size(o), true
	case widgets.WrapContent:
		return w.Size(o), !w.MeasureRequested
	case widgets.MatchParent:
		if !d.container.EndAnchor(o).HasFinalValue() {
			return 0, false
		}
		_, _, ms, me := w.Axis(o)
		return max(d.container.Size(o)-ms-me, 0), true
	}
	return 0, false
}

// otherSize returns the known size of the axis other than o, or -1.
func (d *Direct) otherSize(w *widgets.Widget, o widgets.Orientation) int {
	other := o.Other()
	if w.IsResolved(other) {
		return w.Size(other)
	}
	if w.EffectiveBehaviour(other) != widgets.MatchConstraint {
		if v, ok := d.knownSize(w, other); ok {
			return v
		}
	}
	return -1
}

func (d *Direct) parentSize(o widgets.Orientation) int {
	if d.container.EndAnchor(o).HasFinalValue() {
		return d.container.Size(o)
	}
	return -1
}

// solveAxis tries to resolve axis o of w and reports whether it did.
func (d *Direct) solveAxis(w *widgets.Widget, o widgets.Orientation) bool {
	if w.IsResolved(o) || w.IsHelper() || w.InChain(o) {
		return false
	}
	d.ensureMeasured(w)
	start, end, ms, me := w.Axis(o)
	size, known := d.knownSize(w, o)
	match := w.Visibility != widgets.Gone && w.EffectiveBehaviour(o) == widgets.MatchConstraint

	switch {
	case o == widgets.Vertical && w.Baseline.IsConnected():
		t := w.Baseline.Target
		if !t.HasFinalValue() || !known {
			return false
		}
		top := t.FinalValue() + w.Baseline.EffectiveMargin() - w.BaselineDistance()
		w.SetFinalVertical(top, top+size)
	case start.IsConnected() && end.IsConnected():
		if !start.Target.HasFinalValue() || !end.Target.HasFinalValue() {
			return false
		}
		lo := start.Target.FinalValue() + ms
		hi := end.Target.FinalValue() - me
		bias := d.container.Bias(w, o)
		if widgets.SameTarget(start, end) {
			lo = start.Target.FinalValue()
			hi, bias = lo, 0.5
		}
		if match {
			var ok bool
			if size, ok = d.matchSize(w, o, hi-lo); !ok {
				return false
			}
		} else if !known {
			return false
		}
		pos := widgets.CenterPosition(lo, hi, size, bias)
		w.SetFinal(o, pos, pos+size)
	case start.IsConnected():
		if !start.Target.HasFinalValue() || !d.sized(w, o, match, &size, known) {
			return false
		}
		p := start.Target.FinalValue() + ms
		w.SetFinal(o, p, p+size)
	case end.IsConnected():
		if !end.Target.HasFinalValue() || !d.sized(w, o, match, &size, known) {
			return false
		}
		p := end.Target.FinalValue() - me
		w.SetFinal(o, p-size, p)
	default:
		if !d.sized(w, o, match, &size, known) {
			return false
		}
		w.SetFinal(o, w.Pos(o), w.Pos(o)+size)
	}
	if match {
		d.remeasure(w, o)
	}
	return true
}

// sized completes the size of a one-sided axis, which can only be a
// ratio or percent match constraint when not already known.
func (d *Direct) sized(w *widgets.Widget, o widgets.Orientation, match bool, size *int, known bool) bool {
	if !match {
		return known
	}
	v, ok := w.MatchSize(o, -1, d.parentSize(o), d.otherSize(w, o))
	*size = v
	return ok
}

// matchSize sizes a match-constraint axis placed in the given distance.
func (d *Direct) matchSize(w *widgets.Widget, o widgets.Orientation, distance int) (int, bool) {
	if w.MatchMode(o) == widgets.MatchConstraintRatio && w.RatioDerivedAxis() == widgets.AnyOrientation {
		return 0, false
	}
	if w.MatchMode(o) == widgets.MatchConstraintWrap && w.MeasureRequested {
		d.measure(w)
	}
	return w.MatchSize(o, distance, d.parentSize(o), d.otherSize(w, o))
}

// remeasure measures a content-sized axis again once a match-constraint
// axis of the same widget has been fixed.
func (d *Direct) remeasure(w *widgets.Widget, o widgets.Orientation) {
	other := o.Other()
	if w.IsResolved(other) || w.EffectiveBehaviour(other) != widgets.WrapContent {
		return
	}
	size := w.Size(o)
	d.measure(w)
	w.SetDimension(o, size)
}

// SolveChain places a spread or spread-inside chain between its
// resolved ends. Packed chains, chains with match-constraint members and
// chains on an unresolved container axis are declined.
func (d *Direct) SolveChain(h *widgets.ChainHead) bool {
	o := h.Orientation
	c := d.container
	if h.Style == widgets.ChainPacked {
		return false
	}
	if !c.StartAnchor(o).HasFinalValue() || !c.EndAnchor(o).HasFinalValue() {
		return false
	}
	st, et := h.StartTarget(), h.EndTarget()
	if st == nil || et == nil || !st.HasFinalValue() || !et.HasFinalValue() {
		return false
	}
	for _, m := range h.Members {
		if m.Visibility == widgets.Gone {
			continue
		}
		if m.EffectiveBehaviour(o) == widgets.MatchConstraint {
			return false
		}
		d.ensureMeasured(m)
		if _, ok := d.knownSize(m, o); !ok {
			return false
		}
	}
	pos, sizes, ok := h.Layout(st.FinalValue(), et.FinalValue(), func(m *widgets.Widget) (int, bool) {
		return d.knownSize(m, o)
	})
	if !ok {
		return false
	}
	for k, m := range h.Members {
		m.SetFinal(o, pos[k], pos[k]+sizes[k])
	}
	return true
}

// Package solver implements the relaxation solver used when the direct
// and graph solvers cannot resolve a layout.
//
// A [LinearSystem] holds one position and one size variable per widget
// and axis. [LinearSystem.Minimize] sweeps every constraint equation in
// turn, each sweep reading the values written by the previous equations
// (Gauss-Seidel order), until a sweep changes nothing or the sweep limit
// is reached. Acyclic constraint graphs converge in at most depth+1
// sweeps; cyclic ones stop at the limit with [LinearSystem.Converged]
// reporting false.
//
// The system never writes to widgets until [LinearSystem.UpdateFromSolver]
// is called, so a subset can be solved speculatively and its results read
// back with [LinearSystem.ObjectVariableValue].
package solver

import (
	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/core/widgets"
)

var axes = [2]widgets.Orientation{widgets.Horizontal, widgets.Vertical}

// LinearSystem solves the constraints of a container's widgets by
// relaxation.
type LinearSystem struct {
	// MaxSweeps bounds Minimize; zero picks a limit from the widget count.
	MaxSweeps int

	parent  *widgets.Container
	members []*widgets.Widget
	index   map[*widgets.Widget]int
	pos     [][2]int
	size    [][2]int

	parentSize [2]int
	wrap       [2]bool
	sweeps     int
	converged  bool
}

// NewLinearSystem returns an empty system for the children of c. A
// wrap-content container axis is sized by the solve.
func NewLinearSystem(c *widgets.Container) *LinearSystem {
	s := &LinearSystem{parent: c, index: make(map[*widgets.Widget]int)}
	for _, o := range axes {
		s.parentSize[o] = c.Size(o)
		s.wrap[o] = c.Behaviour[o] == widgets.WrapContent
	}
	return s
}

// AddContainer adds every child of the container.
func (s *LinearSystem) AddContainer() { s.AddToSolver(s.parent.Children...) }

// AddToSolver adds widgets to the system, seeding their variables from
// their current frames.
func (s *LinearSystem) AddToSolver(ws ...*widgets.Widget) {
	for _, w := range ws {
		if _, ok := s.index[w]; ok || s.parent.IsParent(w) {
			continue
		}
		s.index[w] = len(s.members)
		s.members = append(s.members, w)
		s.pos = append(s.pos, [2]int{w.X(), w.Y()})
		s.size = append(s.size, [2]int{w.Width(), w.Height()})
	}
}

// Size returns the number of widgets in the system.
func (s *LinearSystem) Size() int { return len(s.members) }

// Iterations returns the sweeps used by the last Minimize.
func (s *LinearSystem) Iterations() int { return s.sweeps }

// Converged reports whether the last Minimize reached a fixed point.
func (s *LinearSystem) Converged() bool { return s.converged }

// ContainerSize returns the container size on axis o as solved.
func (s *LinearSystem) ContainerSize(o widgets.Orientation) int { return s.parentSize[o] }

// Minimize sweeps the constraints until they are stable. It reports
// whether the system converged.
func (s *LinearSystem) Minimize() bool {
	limit := s.MaxSweeps
	if limit <= 0 {
		limit = 4 * (len(s.members) + 2)
	}
	s.sweeps, s.converged = 0, false
	for s.sweeps < limit {
		s.sweeps++
		changed := false
		for _, o := range axes {
			if s.wrap[o] {
				p := widgets.ExtentWith(&s.parent.Widget, s.members, o, s.metrics)
				if p != s.parentSize[o] {
					s.parentSize[o] = p
					changed = true
				}
			}
			for _, h := range s.parent.Chains(o) {
				if s.holdsChain(h) {
					changed = s.solveChain(h) || changed
				}
			}
			for i, w := range s.members {
				if w.InChain(o) && s.holdsChain(w.Chain(o)) {
					continue
				}
				changed = s.solveWidget(i, w, o) || changed
			}
		}
		if !changed {
			s.converged = true
			break
		}
	}
	return s.converged
}

// ObjectVariableValue returns the solved position of an anchor.
func (s *LinearSystem) ObjectVariableValue(a *widgets.Anchor) int {
	w := a.Owner
	o := a.Type.Orientation()
	if s.parent.IsParent(w) {
		if a.Type.IsEnd() {
			return s.parentSize[o]
		}
		return 0
	}
	if o == widgets.AnyOrientation {
		return 0
	}
	pos, size := s.metrics(w, o)
	switch {
	case w.IsHelper():
		return pos
	case a.Type.IsEnd():
		return pos + size
	case a.Type == widgets.AnchorBaseline:
		return pos + w.BaselineDistance()
	}
	return pos
}

// Frame returns the solved frame of w; ok is false when w is not in the
// system.
func (s *LinearSystem) Frame(w *widgets.Widget) (x, y, width, height int, ok bool) {
	i, ok := s.index[w]
	if !ok {
		return 0, 0, 0, 0, false
	}
	return s.pos[i][0], s.pos[i][1], s.size[i][0], s.size[i][1], true
}

// UpdateFromSolver writes the solved frames to the widgets and the
// solved size to a wrap-content container.
func (s *LinearSystem) UpdateFromSolver() {
	for i, w := range s.members {
		w.SetFrame(s.pos[i][0], s.pos[i][1], s.size[i][0], s.size[i][1])
	}
	for _, o := range axes {
		if s.wrap[o] {
			s.parent.SetDimension(o, s.parentSize[o])
		}
	}
}

func (s *LinearSystem) metrics(w *widgets.Widget, o widgets.Orientation) (int, int) {
	if i, ok := s.index[w]; ok {
		return s.pos[i][o], s.size[i][o]
	}
	return w.Pos(o), w.Size(o)
}

func (s *LinearSystem) set(i int, o widgets.Orientation, pos, size int) bool {
	if s.pos[i][o] == pos && s.size[i][o] == size {
		return false
	}
	s.pos[i][o], s.size[i][o] = pos, size
	return true
}

func (s *LinearSystem) holdsChain(h *widgets.ChainHead) bool {
	if h == nil {
		return false
	}
	for _, m := range h.Members {
		if _, ok := s.index[m]; !ok {
			return false
		}
	}
	return true
}

func (s *LinearSystem) target(a *widgets.Anchor, fallback int) int {
	if a == nil {
		return fallback
	}
	return s.ObjectVariableValue(a)
}

// distance returns the space between the targets of axis o with margins
// applied, or -1 when a side is open.
func (s *LinearSystem) distance(w *widgets.Widget, o widgets.Orientation) int {
	start, end, ms, me := w.Axis(o)
	if !start.IsConnected() || !end.IsConnected() {
		return -1
	}
	if widgets.SameTarget(start, end) {
		return 0
	}
	return s.ObjectVariableValue(end.Target) - me - s.ObjectVariableValue(start.Target) - ms
}

func (s *LinearSystem) solveWidget(i int, w *widgets.Widget, o widgets.Orientation) bool {
	if g := w.Guideline; g != nil {
		if g.Axis != o {
			return false
		}
		return s.set(i, o, g.Position(s.parentSize[o]), 0)
	}
	if b := w.Barrier; b != nil {
		if b.Axis() != o {
			return false
		}
		v, _ := b.Value(func(r *widgets.Widget, start bool) (int, bool) {
			p, sz := s.metrics(r, o)
			if start {
				return p, true
			}
			return p + sz, true
		})
		return s.set(i, o, v, 0)
	}

	start, end, ms, me := w.Axis(o)
	size := s.sizeOf(i, w, o)
	if w.EffectiveBehaviour(o) == widgets.MatchParent {
		return s.set(i, o, ms, max(s.parentSize[o]-ms-me, 0))
	}

	var pos int
	switch {
	case o == widgets.Vertical && w.Baseline.IsConnected():
		pos = s.ObjectVariableValue(w.Baseline.Target) + w.Baseline.EffectiveMargin() - w.BaselineDistance()
	case start.IsConnected() && end.IsConnected():
		lo := s.ObjectVariableValue(start.Target) + ms
		hi := s.ObjectVariableValue(end.Target) - me
		bias := s.parent.Bias(w, o)
		if widgets.SameTarget(start, end) {
			lo = s.ObjectVariableValue(start.Target)
			hi, bias = lo, 0.5
		}
		pos = widgets.CenterPosition(lo, hi, size, bias)
	case start.IsConnected():
		pos = s.ObjectVariableValue(start.Target) + ms
	case end.IsConnected():
		pos = s.ObjectVariableValue(end.Target) - me - size
	default:
		pos = s.pos[i][o]
	}
	return s.set(i, o, pos, size)
}

func (s *LinearSystem) sizeOf(i int, w *widgets.Widget, o widgets.Orientation) int {
	if w.Visibility == widgets.Gone {
		return 0
	}
	if w.EffectiveBehaviour(o) != widgets.MatchConstraint {
		return w.Size(o)
	}
	if w.HasRatio(o) && w.HasDualRatio() && w.RatioDerivedAxis() == widgets.AnyOrientation {
		width, height := w.FitRatio(s.distance(w, widgets.Horizontal), s.distance(w, widgets.Vertical))
		if o == widgets.Horizontal {
			return width
		}
		return height
	}
	v, ok := w.MatchSize(o, s.distance(w, o), s.parentSize[o], s.size[i][o.Other()])
	if !ok {
		return s.size[i][o]
	}
	return v
}

func (s *LinearSystem) solveChain(h *widgets.ChainHead) bool {
	o := h.Orientation
	lo := s.target(h.StartTarget(), 0)
	hi := s.target(h.EndTarget(), s.parentSize[o])
	pos, sizes, ok := h.Layout(lo, hi, func(w *widgets.Widget) (int, bool) {
		return s.sizeOf(s.index[w], w, o), true
	})
	if !ok {
		return false
	}
	changed := false
	for k, m := range h.Members {
		changed = s.set(s.index[m], o, pos[k], sizes[k]) || changed
	}
	return changed
}

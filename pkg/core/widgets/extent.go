package widgets

// Metrics reads the position and size of a widget on one axis.
type Metrics func(w *Widget, o Orientation) (pos, size int)

// FrameMetrics reads the widget's current frame.
func FrameMetrics(w *Widget, o Orientation) (int, int) { return w.Pos(o), w.Size(o) }

// Extent returns the wrap size of a parent on axis o: the longest span
// from the parent start, through the constraints leading to a widget,
// across the widget, and on to the parent end. Widgets are measured by
// their current frame. Both margins of a chain link count.
func Extent(parent *Widget, ws []*Widget, o Orientation) int {
	return ExtentWith(parent, ws, o, FrameMetrics)
}

// ExtentWith is Extent reading positions and sizes through m.
func ExtentWith(parent *Widget, ws []*Widget, o Orientation, m Metrics) int {
	set := make(map[*Widget]bool, len(ws))
	for _, w := range ws {
		set[w] = true
	}
	fwd := newReach(parent, set, o, true, m)
	back := newReach(parent, set, o, false, m)
	extent := 0
	for _, w := range ws {
		extent = max(extent, fwd.value(w)+fwd.size(w)+back.value(w))
	}
	return extent
}

type reach struct {
	parent  *Widget
	set     map[*Widget]bool
	o       Orientation
	forward bool
	metrics Metrics
	memo    map[*Widget]int
	state   map[*Widget]uint8
}

func newReach(parent *Widget, set map[*Widget]bool, o Orientation, forward bool, m Metrics) *reach {
	return &reach{
		parent:  parent,
		set:     set,
		o:       o,
		forward: forward,
		metrics: m,
		memo:    make(map[*Widget]int),
		state:   make(map[*Widget]uint8),
	}
}

func (r *reach) size(w *Widget) int {
	if w.IsHelper() {
		return 0
	}
	_, s := r.metrics(w, r.o)
	return s
}

// value evaluates w after its dependencies with an explicit stack. A
// dependency still being visited (a constraint cycle) reads as zero.
func (r *reach) value(w *Widget) int {
	stack := []*Widget{w}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		switch r.state[top] {
		case 2:
			stack = stack[:len(stack)-1]
		case 0:
			r.state[top] = 1
			for _, d := range r.deps(top) {
				if r.state[d] == 0 {
					stack = append(stack, d)
				}
			}
		default:
			r.memo[top] = r.compute(top)
			r.state[top] = 2
			stack = stack[:len(stack)-1]
		}
	}
	return r.memo[w]
}

func (r *reach) anchor(w *Widget) *Anchor {
	if r.forward {
		return w.StartAnchor(r.o)
	}
	return w.EndAnchor(r.o)
}

func (r *reach) sibling(a *Anchor) *Widget {
	if a == nil || a.Target == nil {
		return nil
	}
	t := a.Target.Owner
	if t == r.parent || !r.set[t] {
		return nil
	}
	return t
}

func (r *reach) deps(w *Widget) []*Widget {
	if b := w.Barrier; b != nil {
		if b.Axis() != r.o {
			return nil
		}
		var out []*Widget
		for _, ref := range b.Refs {
			if b.Counts(ref) && r.set[ref] {
				out = append(out, ref)
			}
		}
		return out
	}
	if w.Guideline != nil {
		return nil
	}
	if r.o == Vertical && r.forward && w.Baseline.IsConnected() {
		if t := r.sibling(&w.Baseline); t != nil {
			return []*Widget{t}
		}
	}
	if t := r.sibling(r.anchor(w)); t != nil {
		return []*Widget{t}
	}
	return nil
}

func (r *reach) compute(w *Widget) int {
	if g := w.Guideline; g != nil {
		if g.Axis != r.o {
			return 0
		}
		if r.forward {
			return max(g.RelativeBegin, 0)
		}
		return max(g.RelativeEnd, 0)
	}
	if b := w.Barrier; b != nil {
		return r.barrier(b)
	}
	if r.o == Vertical && r.forward && w.Baseline.IsConnected() && w.Baseline.Target.Owner != r.parent {
		t := w.Baseline.Target.Owner
		return r.memo[t] + t.BaselineDistance() - w.BaselineDistance() + w.Baseline.EffectiveMargin()
	}
	a := r.anchor(w)
	if !a.IsConnected() {
		if r.forward && !w.EndAnchor(r.o).IsConnected() {
			p, _ := r.metrics(w, r.o)
			return p
		}
		return 0
	}
	v := r.through(a.Target) + a.EffectiveMargin()
	if a.Target.Target == a {
		v += a.Target.EffectiveMargin()
	}
	return v
}

// through returns the reach up to the position of anchor t.
func (r *reach) through(t *Anchor) int {
	owner := t.Owner
	if owner == r.parent {
		return 0
	}
	v := r.memo[owner]
	if owner.IsHelper() {
		return v
	}
	if r.forward && t.Type.IsEnd() || !r.forward && t.Type.IsStart() {
		v += r.size(owner)
	}
	return v
}

func (r *reach) barrier(b *Barrier) int {
	if b.Axis() != r.o {
		return 0
	}
	// A start barrier sits on the smallest start edge and an end
	// barrier on the largest end edge.
	startSide := b.Side.IsStart()
	v, found := 0, false
	for _, ref := range b.Refs {
		if !b.Counts(ref) || !r.set[ref] {
			continue
		}
		x := r.memo[ref]
		if r.forward != startSide {
			x += r.size(ref)
		}
		if !found {
			v, found = x, true
			continue
		}
		if r.forward == startSide {
			v = min(v, x)
		} else {
			v = max(v, x)
		}
	}
	if r.forward {
		return max(v+b.Margin, 0)
	}
	return max(v-b.Margin, 0)
}

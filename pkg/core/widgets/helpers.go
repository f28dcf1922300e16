package widgets

// Guideline is a virtual line positioned against the parent on one axis.
// Exactly one of RelativeBegin, RelativeEnd and Percent is in use; the
// others are -1.
type Guideline struct {
	// Axis is the axis the guideline is positioned on: a vertical line
	// sits on the horizontal axis.
	Axis          Orientation
	RelativeBegin int
	RelativeEnd   int
	Percent       float64
}

// NewGuideline returns a guideline widget on axis o, positioned at the
// start of the parent until one of the Set methods is called.
func NewGuideline(id string, o Orientation) *Widget {
	w := NewWidget(id)
	w.Guideline = &Guideline{Axis: o, RelativeBegin: 0, RelativeEnd: -1, Percent: -1}
	return w
}

// SetBegin positions the guideline at a distance from the parent start.
func (g *Guideline) SetBegin(v int) {
	g.RelativeBegin, g.RelativeEnd, g.Percent = v, -1, -1
}

// SetEnd positions the guideline at a distance from the parent end.
func (g *Guideline) SetEnd(v int) {
	g.RelativeBegin, g.RelativeEnd, g.Percent = -1, v, -1
}

// SetPercent positions the guideline at a fraction of the parent size.
func (g *Guideline) SetPercent(p float64) {
	g.RelativeBegin, g.RelativeEnd, g.Percent = -1, -1, p
}

// NeedsParentEnd reports whether the position depends on the parent
// size.
func (g *Guideline) NeedsParentEnd() bool { return g.RelativeBegin < 0 }

// Position returns the guideline offset inside a parent of the given
// size.
func (g *Guideline) Position(parent int) int {
	switch {
	case g.RelativeBegin >= 0:
		return g.RelativeBegin
	case g.RelativeEnd >= 0:
		return parent - g.RelativeEnd
	case g.Percent >= 0:
		return int(0.5 + g.Percent*float64(parent))
	}
	return 0
}

// Barrier is a virtual line at the extreme edge of a set of widgets.
type Barrier struct {
	// Side is the edge tracked: AnchorLeft or AnchorTop give the minimum
	// of the referenced start edges, AnchorRight or AnchorBottom the
	// maximum of the end edges.
	Side             AnchorType
	Refs             []*Widget
	Margin           int
	AllowsGoneWidget bool
}

// NewBarrier returns a barrier widget tracking the given side.
func NewBarrier(id string, side AnchorType, refs ...*Widget) *Widget {
	w := NewWidget(id)
	w.Barrier = &Barrier{Side: side, Refs: refs}
	return w
}

// Axis returns the axis the barrier is positioned on.
func (b *Barrier) Axis() Orientation { return b.Side.Orientation() }

// Counts reports whether a referenced widget takes part in the barrier.
func (b *Barrier) Counts(w *Widget) bool {
	return w.Visibility != Gone || b.AllowsGoneWidget
}

// Value folds the referenced edges with the given edge accessor. The
// second result is false while an edge is still unknown. A barrier with
// no counted widget sits at its margin.
func (b *Barrier) Value(edge func(w *Widget, start bool) (int, bool)) (int, bool) {
	start := b.Side.IsStart()
	value, found := 0, false
	for _, r := range b.Refs {
		if !b.Counts(r) {
			continue
		}
		v, ok := edge(r, start)
		if !ok {
			return 0, false
		}
		switch {
		case !found:
			value = v
		case start:
			value = min(value, v)
		default:
			value = max(value, v)
		}
		found = true
	}
	return value + b.Margin, true
}

// HelperPosition returns the position of a guideline or barrier widget
// on its axis, reading widget frames as they currently stand.
func HelperPosition(w *Widget, parentSize int) (int, bool) {
	switch {
	case w.Guideline != nil:
		return w.Guideline.Position(parentSize), true
	case w.Barrier != nil:
		o := w.Barrier.Axis()
		return w.Barrier.Value(func(r *Widget, start bool) (int, bool) {
			if start {
				return r.Pos(o), true
			}
			return r.Pos(o) + r.Size(o), true
		})
	}
	return 0, false
}

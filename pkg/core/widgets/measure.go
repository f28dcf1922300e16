package widgets

// MeasureStrategy tells a [Measurer] how to treat match-constraint axes.
type MeasureStrategy int

const (
	// SelfDimensions asks for the content size.
	SelfDimensions MeasureStrategy = iota
	// TryGivenDimensions offers the solved size; the measurer may
	// deviate.
	TryGivenDimensions
	// UseGivenDimensions imposes the solved size.
	UseGivenDimensions
)

func (s MeasureStrategy) String() string {
	switch s {
	case SelfDimensions:
		return "self"
	case TryGivenDimensions:
		return "try_given"
	case UseGivenDimensions:
		return "use_given"
	}
	return "unknown"
}

// Measure is the request and response exchanged with a [Measurer].
type Measure struct {
	HorizontalBehaviour DimensionBehaviour
	VerticalBehaviour   DimensionBehaviour
	HorizontalDimension int
	VerticalDimension   int
	Strategy            MeasureStrategy

	MeasuredWidth           int
	MeasuredHeight          int
	MeasuredBaseline        int
	MeasuredHasBaseline     bool
	MeasuredNeedsSolverPass bool
}

// Measurer measures widget content.
type Measurer interface {
	Measure(w *Widget, m *Measure)
	// DidMeasures is called once after a batch of measures.
	DidMeasures()
}

// SpecFor builds a measure request from the widget's current
// behaviours and size.
func SpecFor(w *Widget, strategy MeasureStrategy) Measure {
	m := Measure{
		HorizontalBehaviour: w.Behaviour[Horizontal],
		VerticalBehaviour:   w.Behaviour[Vertical],
		HorizontalDimension: w.Width(),
		VerticalDimension:   w.Height(),
		Strategy:            strategy,
	}
	if w.HasDanglingDimension(Horizontal) || w.MatchDefault[Horizontal] == MatchConstraintWrap && m.HorizontalBehaviour == MatchConstraint && strategy == SelfDimensions {
		m.HorizontalBehaviour = WrapContent
	}
	if w.HasDanglingDimension(Vertical) || w.MatchDefault[Vertical] == MatchConstraintWrap && m.VerticalBehaviour == MatchConstraint && strategy == SelfDimensions {
		m.VerticalBehaviour = WrapContent
	}
	return m
}

// ApplyMeasure runs the measurer on w with the given request and writes
// the measured size and baseline back. With useCache, a request equal to
// the previous one reuses the previous answer. A nil measurer answers
// with the requested sizes, keeping the current size of wrap-content
// axes and the baseline. It reports whether the measurer asked for
// another solver pass.
func (w *Widget) ApplyMeasure(m Measurer, spec *Measure, useCache bool) bool {
	if w.Visibility == Gone {
		spec.MeasuredWidth, spec.MeasuredHeight = 0, 0
		w.Measured = true
		return false
	}
	if useCache && w.hasLastMeasure && sameRequest(&w.lastMeasure, spec) {
		*spec = w.lastMeasure
	} else if m != nil {
		m.Measure(w, spec)
		w.lastMeasure = *spec
		w.hasLastMeasure = true
	} else {
		spec.MeasuredWidth, spec.MeasuredHeight = spec.HorizontalDimension, spec.VerticalDimension
		if spec.HorizontalBehaviour == WrapContent {
			spec.MeasuredWidth = w.Size(Horizontal)
		}
		if spec.VerticalBehaviour == WrapContent {
			spec.MeasuredHeight = w.Size(Vertical)
		}
		spec.MeasuredBaseline, spec.MeasuredHasBaseline = w.baselineDistance, w.hasBaseline
	}
	w.SetSize(spec.MeasuredWidth, spec.MeasuredHeight)
	if spec.MeasuredHasBaseline {
		w.SetBaselineDistance(spec.MeasuredBaseline)
	} else {
		w.SetBaselineDistance(0)
	}
	if spec.HorizontalBehaviour == WrapContent {
		w.WrapMeasure[Horizontal] = spec.MeasuredWidth
	}
	if spec.VerticalBehaviour == WrapContent {
		w.WrapMeasure[Vertical] = spec.MeasuredHeight
	}
	w.MeasureRequested = false
	return spec.MeasuredNeedsSolverPass
}

// InvalidateMeasure drops the cached measure of w.
func (w *Widget) InvalidateMeasure() { w.hasLastMeasure = false }

func sameRequest(a, b *Measure) bool {
	return a.HorizontalBehaviour == b.HorizontalBehaviour &&
		a.VerticalBehaviour == b.VerticalBehaviour &&
		a.HorizontalDimension == b.HorizontalDimension &&
		a.VerticalDimension == b.VerticalDimension &&
		a.Strategy == b.Strategy
}

// IntrinsicMeasurer measures widgets from their static [Content]. It
// counts calls so callers can observe measuring work.
type IntrinsicMeasurer struct {
	Calls   int
	Batches int
}

var _ Measurer = (*IntrinsicMeasurer)(nil)

// Measure implements [Measurer].
func (im *IntrinsicMeasurer) Measure(w *Widget, m *Measure) {
	im.Calls++
	m.MeasuredWidth = im.axis(w, m, Horizontal)
	m.MeasuredHeight = im.axis(w, m, Vertical)
	if w.Content.Area > 0 && m.MeasuredWidth > 0 && isContentSized(m.VerticalBehaviour, w.MatchDefault[Vertical]) {
		h := (w.Content.Area + m.MeasuredWidth - 1) / m.MeasuredWidth
		if m.VerticalBehaviour != MatchConstraint || m.Strategy != UseGivenDimensions {
			m.MeasuredHeight = h
		}
	}
	m.MeasuredBaseline = w.Content.Baseline
	m.MeasuredHasBaseline = w.Content.Baseline > 0
}

// DidMeasures implements [Measurer].
func (im *IntrinsicMeasurer) DidMeasures() { im.Batches++ }

func (im *IntrinsicMeasurer) axis(w *Widget, m *Measure, o Orientation) int {
	b, given, intrinsic := m.HorizontalBehaviour, m.HorizontalDimension, w.Content.Width
	if o == Vertical {
		b, given, intrinsic = m.VerticalBehaviour, m.VerticalDimension, w.Content.Height
	}
	switch b {
	case WrapContent:
		return intrinsic
	case MatchConstraint:
		switch m.Strategy {
		case TryGivenDimensions:
			if w.MatchDefault[o] == MatchConstraintWrap {
				return min(intrinsic, given)
			}
			return given
		case UseGivenDimensions:
			return given
		}
		return intrinsic
	}
	return given
}

func isContentSized(b DimensionBehaviour, mode MatchConstraintDefault) bool {
	return b == WrapContent || b == MatchConstraint && mode == MatchConstraintWrap
}

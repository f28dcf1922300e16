package widgets

import "math"

// CenterPosition places a box of the given size between start and end,
// splitting the slack by bias. Negative slack overflows symmetrically
// around the same split.
func CenterPosition(start, end, size int, bias float64) int {
	slack := float64(end - start - size)
	return start + int(math.Floor(slack*bias+0.5))
}

// MatchSize computes the size of a match-constraint axis. distance is the
// space between the resolved targets (margins applied), or -1 when not
// known; parent is the parent's size on the axis, or -1; other is the
// size of the other axis, or -1. The second result is false when an
// input the sub-mode needs is unknown.
func (w *Widget) MatchSize(o Orientation, distance, parent, other int) (int, bool) {
	switch w.MatchMode(o) {
	case MatchConstraintRatio:
		if other < 0 {
			return 0, false
		}
		v := w.RatioSize(o, other)
		if distance >= 0 && v > distance {
			v = distance
		}
		return v, true
	case MatchConstraintPercent:
		if parent < 0 {
			return 0, false
		}
		return w.ClampMatch(o, int(0.5+w.MatchPercent[o]*float64(parent))), true
	case MatchConstraintWrap:
		if distance < 0 {
			return 0, false
		}
		return w.ClampMatch(o, min(w.WrapMeasure[o], distance)), true
	}
	if distance < 0 {
		return 0, false
	}
	return w.ClampMatch(o, max(distance, 0)), true
}

// FitRatio fits a box with the widget's ratio into the two available
// distances, preferring the full width.
func (w *Widget) FitRatio(dw, dh int) (int, int) {
	width := max(dw, 0)
	height := w.RatioSize(Vertical, width)
	if dh >= 0 && height > dh {
		height = max(dh, 0)
		width = w.RatioSize(Horizontal, height)
	}
	return width, height
}

// Axis returns the start and end anchors of axis o together with their
// effective margins.
func (w *Widget) Axis(o Orientation) (start, end *Anchor, ms, me int) {
	start, end = w.StartAnchor(o), w.EndAnchor(o)
	return start, end, start.EffectiveMargin(), end.EffectiveMargin()
}

package analyzer

import (
	"slices"

	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/core/solver"
	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/core/widgets"
)

// MeasureResult is the solved frame of one widget, held by a
// [WidgetGroup] between MeasureWrap and Apply.
type MeasureResult struct {
	Widget   *widgets.Widget
	Left     int
	Top      int
	Right    int
	Bottom   int
	Baseline int
}

// WidgetGroup is a set of widgets connected on one axis, solved apart
// from the rest of the container to size a wrap-content axis.
// Orientation is AnyOrientation for a group tied across both axes.
type WidgetGroup struct {
	ID          int
	Orientation widgets.Orientation
	Widgets     []*widgets.Widget

	results []MeasureResult
}

// NewWidgetGroup returns an empty group numbered from seq.
func NewWidgetGroup(seq *Sequence, o widgets.Orientation) *WidgetGroup {
	return &WidgetGroup{ID: seq.Next(), Orientation: o}
}

// Add adds w and reports whether it was not already a member.
func (wg *WidgetGroup) Add(w *widgets.Widget) bool {
	if slices.Contains(wg.Widgets, w) {
		return false
	}
	wg.Widgets = append(wg.Widgets, w)
	return true
}

// MoveTo moves every widget into other and empties wg.
func (wg *WidgetGroup) MoveTo(other *WidgetGroup) {
	for _, w := range wg.Widgets {
		other.Add(w)
	}
	wg.Clear()
}

// Clear empties the group.
func (wg *WidgetGroup) Clear() {
	wg.Widgets = nil
	wg.results = nil
}

// Intersects reports whether the groups share a widget.
func (wg *WidgetGroup) Intersects(other *WidgetGroup) bool {
	for _, w := range wg.Widgets {
		if slices.Contains(other.Widgets, w) {
			return true
		}
	}
	return false
}

// Results returns the frames held since the last MeasureWrap.
func (wg *WidgetGroup) Results() []MeasureResult { return wg.results }

// MeasureWrap solves the group alone in c and returns the size c needs
// on axis o to hold it. The solved frames are kept until Apply.
func (wg *WidgetGroup) MeasureWrap(c *widgets.Container, o widgets.Orientation) int {
	if len(wg.Widgets) == 0 {
		return 0
	}
	s := solver.NewLinearSystem(c)
	s.AddToSolver(wg.Widgets...)
	s.Minimize()
	wg.results = wg.results[:0]
	for _, w := range wg.Widgets {
		wg.results = append(wg.results, MeasureResult{
			Widget:   w,
			Left:     s.ObjectVariableValue(&w.Left),
			Top:      s.ObjectVariableValue(&w.Top),
			Right:    s.ObjectVariableValue(&w.Right),
			Bottom:   s.ObjectVariableValue(&w.Bottom),
			Baseline: s.ObjectVariableValue(&w.Baseline),
		})
	}
	return s.ContainerSize(o)
}

// Apply writes the held frames to their widgets and drops them.
func (wg *WidgetGroup) Apply() {
	for _, r := range wg.results {
		r.Widget.SetFrame(r.Left, r.Top, r.Right-r.Left, r.Bottom-r.Top)
	}
	wg.results = nil
}

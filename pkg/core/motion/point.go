package motion

import (
	"math"

	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/core/widgets"
)

// diffEpsilon is the smallest attribute change treated as a difference.
const diffEpsilon = 1e-6

// differs reports whether two attribute values differ. An unset (NaN)
// value differs only from a set one.
func differs(a, b float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.IsNaN(a) != math.IsNaN(b)
	}
	return math.Abs(a-b) > diffEpsilon
}

// MotionConstrainedPoint is the snapshot of the non-geometric attributes
// of a widget at one endpoint.
type MotionConstrainedPoint struct {
	Visibility widgets.Visibility
	Attrs      [attrCount]float64
	Custom     map[string]*CustomVariable
}

// snapshot captures w. A widget that is not visible snapshots with alpha
// 0, so appearing and disappearing fade.
func snapshot(w Widget) MotionConstrainedPoint {
	p := MotionConstrainedPoint{Visibility: w.Visibility(), Custom: make(map[string]*CustomVariable)}
	for _, a := range Attrs() {
		p.Attrs[a] = w.Value(a)
	}
	if p.Visibility != widgets.Visible {
		p.Attrs[Alpha] = 0
	}
	for _, name := range w.CustomNames() {
		p.Custom[name] = w.Custom(name).Clone()
	}
	return p
}

// Different adds to set every attribute that must be interpolated between
// p and o. A visibility change involving a visible endpoint animates
// alpha unless ignoreVisibility is set. PathRotate is added whenever
// either endpoint sets it.
func (p *MotionConstrainedPoint) Different(o *MotionConstrainedPoint, set map[Attr]bool, ignoreVisibility bool) {
	for _, a := range Attrs() {
		if a == PathRotate {
			if !math.IsNaN(p.Attrs[a]) || !math.IsNaN(o.Attrs[a]) {
				set[a] = true
			}
			continue
		}
		if differs(p.Attrs[a], o.Attrs[a]) {
			set[a] = true
		}
	}
	if !ignoreVisibility && p.Visibility != o.Visibility &&
		(p.Visibility == widgets.Visible || o.Visibility == widgets.Visible) {
		set[Alpha] = true
	}
}

// Value returns attribute a, substituting its default when unset.
func (p *MotionConstrainedPoint) Value(a Attr) float64 {
	return or(p.Attrs[a], a.Default())
}

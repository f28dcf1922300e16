package widgets

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Visibility controls whether a widget takes part in layout.
type Visibility int

const (
	Visible Visibility = iota
	Invisible
	// Gone widgets collapse to zero size and zero margins.
	Gone
)

func (v Visibility) String() string {
	switch v {
	case Visible:
		return "visible"
	case Invisible:
		return "invisible"
	case Gone:
		return "gone"
	}
	return "unknown"
}

// DimensionBehaviour describes how a widget's size on one axis is found.
type DimensionBehaviour int

const (
	Fixed DimensionBehaviour = iota
	WrapContent
	MatchConstraint
	MatchParent
)

func (b DimensionBehaviour) String() string {
	switch b {
	case Fixed:
		return "fixed"
	case WrapContent:
		return "wrap"
	case MatchConstraint:
		return "match_constraint"
	case MatchParent:
		return "match_parent"
	}
	return "unknown"
}

// MatchConstraintDefault is the sub-mode of a [MatchConstraint] axis.
type MatchConstraintDefault int

const (
	MatchConstraintSpread MatchConstraintDefault = iota
	MatchConstraintWrap
	MatchConstraintPercent
	MatchConstraintRatio
)

func (m MatchConstraintDefault) String() string {
	switch m {
	case MatchConstraintSpread:
		return "spread"
	case MatchConstraintWrap:
		return "wrap"
	case MatchConstraintPercent:
		return "percent"
	case MatchConstraintRatio:
		return "ratio"
	}
	return "unknown"
}

// Content is the intrinsic size of a widget's content, used by
// [IntrinsicMeasurer]. A non-zero Area makes the content reflow: its
// wrapped height is Area divided by the width it is given.
type Content struct {
	Width    int `json:"width" toml:"width"`
	Height   int `json:"height" toml:"height"`
	Baseline int `json:"baseline,omitempty" toml:"baseline"`
	Area     int `json:"area,omitempty" toml:"area"`
}

// Widget is a constrained rectangle. Positions are relative to the
// parent container.
type Widget struct {
	ID     string
	Parent *Widget

	Left, Top, Right, Bottom, Baseline Anchor

	Visibility Visibility

	Behaviour    [2]DimensionBehaviour
	MatchDefault [2]MatchConstraintDefault
	MatchMin     [2]int
	// MatchMax bounds a match-constraint size; zero means unbounded.
	MatchMax     [2]int
	MatchPercent [2]float64
	Bias         [2]float64
	ChainStyle   [2]ChainStyle
	// Weight distributes chain space between match-constraint members;
	// zero or negative means unset.
	Weight [2]float64

	// Ratio is width divided by height; zero means no ratio.
	Ratio float64
	// RatioSide is the derived axis, or AnyOrientation to let the solver
	// decide.
	RatioSide Orientation

	Content Content

	Guideline *Guideline
	Barrier   *Barrier

	Measured         bool
	MeasureRequested bool
	WrapMeasure      [2]int

	x, y             int
	width, height    int
	baselineDistance int
	hasBaseline      bool

	resolved  [2]bool
	chainPrev [2]*Widget
	chainNext [2]*Widget
	chainHead [2]*ChainHead

	lastMeasure    Measure
	hasLastMeasure bool
}

// NewWidget returns a fixed-size widget with centered bias and no
// constraints.
func NewWidget(id string) *Widget {
	w := &Widget{}
	w.setup(id)
	return w
}

func (w *Widget) setup(id string) {
	w.ID = id
	w.Left.init(w, AnchorLeft)
	w.Top.init(w, AnchorTop)
	w.Right.init(w, AnchorRight)
	w.Bottom.init(w, AnchorBottom)
	w.Baseline.init(w, AnchorBaseline)
	w.Bias = [2]float64{0.5, 0.5}
	w.MatchPercent = [2]float64{1, 1}
	w.RatioSide = AnyOrientation
}

func (w *Widget) String() string {
	return fmt.Sprintf("%s[%d,%d %dx%d]", w.ID, w.x, w.y, w.Width(), w.Height())
}

// X returns the left edge relative to the parent.
func (w *Widget) X() int { return w.x }

// Y returns the top edge relative to the parent.
func (w *Widget) Y() int { return w.y }

// Width returns the width, zero for gone widgets.
func (w *Widget) Width() int {
	if w.Visibility == Gone {
		return 0
	}
	return w.width
}

// Height returns the height, zero for gone widgets.
func (w *Widget) Height() int {
	if w.Visibility == Gone {
		return 0
	}
	return w.height
}

// Right edge and bottom edge helpers.
func (w *Widget) RightEdge() int  { return w.x + w.Width() }
func (w *Widget) BottomEdge() int { return w.y + w.Height() }

func (w *Widget) SetX(x int)      { w.x = x }
func (w *Widget) SetY(y int)      { w.y = y }
func (w *Widget) SetWidth(v int)  { w.width = max(v, 0) }
func (w *Widget) SetHeight(v int) { w.height = max(v, 0) }

// SetSize sets both dimensions.
func (w *Widget) SetSize(width, height int) {
	w.SetWidth(width)
	w.SetHeight(height)
}

// SetFrame sets position and size at once.
func (w *Widget) SetFrame(x, y, width, height int) {
	w.x, w.y = x, y
	w.SetSize(width, height)
}

// Pos returns the position on axis o.
func (w *Widget) Pos(o Orientation) int {
	if o == Horizontal {
		return w.x
	}
	return w.y
}

// SetPos sets the position on axis o.
func (w *Widget) SetPos(o Orientation, v int) {
	if o == Horizontal {
		w.x = v
	} else {
		w.y = v
	}
}

// Size returns the dimension on axis o.
func (w *Widget) Size(o Orientation) int {
	if o == Horizontal {
		return w.Width()
	}
	return w.Height()
}

// SetDimension sets the dimension on axis o.
func (w *Widget) SetDimension(o Orientation, v int) {
	if o == Horizontal {
		w.SetWidth(v)
	} else {
		w.SetHeight(v)
	}
}

// BaselineDistance is the offset of the baseline from the top edge.
func (w *Widget) BaselineDistance() int { return w.baselineDistance }

// HasBaseline reports whether the last measure produced a baseline.
func (w *Widget) HasBaseline() bool { return w.hasBaseline }

// SetBaselineDistance records a baseline offset; zero or less clears it.
func (w *Widget) SetBaselineDistance(v int) {
	w.baselineDistance = v
	w.hasBaseline = v > 0
}

// Anchor returns the anchor of the given type, nil for center types.
func (w *Widget) Anchor(t AnchorType) *Anchor {
	switch t {
	case AnchorLeft:
		return &w.Left
	case AnchorTop:
		return &w.Top
	case AnchorRight:
		return &w.Right
	case AnchorBottom:
		return &w.Bottom
	case AnchorBaseline:
		return &w.Baseline
	}
	return nil
}

// StartAnchor returns the left or top anchor.
func (w *Widget) StartAnchor(o Orientation) *Anchor {
	if o == Horizontal {
		return &w.Left
	}
	return &w.Top
}

// EndAnchor returns the right or bottom anchor.
func (w *Widget) EndAnchor(o Orientation) *Anchor {
	if o == Horizontal {
		return &w.Right
	}
	return &w.Bottom
}

// Connect links an anchor of w to an anchor of target. Center anchor
// types expand into both sides of their axis. It returns false when no
// valid connection could be made.
func (w *Widget) Connect(from AnchorType, target *Widget, to AnchorType, margin int) bool {
	if target == nil {
		return false
	}
	switch from {
	case AnchorCenter:
		switch to {
		case AnchorCenter:
			ok := w.Left.Connect(&target.Left, 0) && w.Right.Connect(&target.Right, 0)
			return w.Top.Connect(&target.Top, 0) && w.Bottom.Connect(&target.Bottom, 0) && ok
		case AnchorLeft, AnchorRight, AnchorCenterX:
			return w.Connect(AnchorCenterX, target, to, margin)
		case AnchorTop, AnchorBottom, AnchorCenterY:
			return w.Connect(AnchorCenterY, target, to, margin)
		}
		return false
	case AnchorCenterX:
		if to == AnchorCenterX || to == AnchorCenter {
			return w.Left.Connect(&target.Left, 0) && w.Right.Connect(&target.Right, 0)
		}
		t := target.Anchor(to)
		return w.Left.Connect(t, 0) && w.Right.Connect(t, 0)
	case AnchorCenterY:
		if to == AnchorCenterY || to == AnchorCenter {
			return w.Top.Connect(&target.Top, 0) && w.Bottom.Connect(&target.Bottom, 0)
		}
		t := target.Anchor(to)
		return w.Top.Connect(t, 0) && w.Bottom.Connect(t, 0)
	}
	a := w.Anchor(from)
	if a == nil {
		return false
	}
	return a.Connect(target.Anchor(to), margin)
}

// ResetAnchors removes every connection of w.
func (w *Widget) ResetAnchors() {
	for _, a := range w.anchors() {
		a.Reset()
	}
}

func (w *Widget) anchors() []*Anchor {
	return []*Anchor{&w.Left, &w.Top, &w.Right, &w.Bottom, &w.Baseline}
}

// AxisAnchors returns the anchors positioning axis o.
func (w *Widget) AxisAnchors(o Orientation) []*Anchor {
	if o == Horizontal {
		return []*Anchor{&w.Left, &w.Right}
	}
	return []*Anchor{&w.Top, &w.Bottom, &w.Baseline}
}

// IsHelper reports whether w is a guideline or a barrier.
func (w *Widget) IsHelper() bool { return w.Guideline != nil || w.Barrier != nil }

// SetBehaviour sets the dimension behaviour of both axes.
func (w *Widget) SetBehaviour(h, v DimensionBehaviour) {
	w.Behaviour = [2]DimensionBehaviour{h, v}
}

// SetMatchConstraint configures a match-constraint axis.
func (w *Widget) SetMatchConstraint(o Orientation, mode MatchConstraintDefault, minSize, maxSize int, percent float64) {
	w.Behaviour[o] = MatchConstraint
	w.MatchDefault[o] = mode
	w.MatchMin[o] = minSize
	w.MatchMax[o] = maxSize
	if percent > 0 {
		w.MatchPercent[o] = percent
	}
}

// IsMatchConstraint reports whether axis o is a match-constraint axis.
func (w *Widget) IsMatchConstraint(o Orientation) bool {
	return w.Behaviour[o] == MatchConstraint
}

// HasDanglingDimension reports a match-constraint axis without both
// sides connected; such an axis behaves as wrap content. A percent axis
// never dangles since it is sized from the parent alone.
func (w *Widget) HasDanglingDimension(o Orientation) bool {
	if w.Behaviour[o] != MatchConstraint || w.MatchDefault[o] == MatchConstraintPercent {
		return false
	}
	return !w.StartAnchor(o).IsConnected() || !w.EndAnchor(o).IsConnected()
}

// BothSidesConnected reports whether both side anchors of o have targets.
func (w *Widget) BothSidesConnected(o Orientation) bool {
	return w.StartAnchor(o).IsConnected() && w.EndAnchor(o).IsConnected()
}

// HasDualRatio reports a ratio with both axes match-constraint.
func (w *Widget) HasDualRatio() bool {
	return w.Ratio > 0 && w.Behaviour[Horizontal] == MatchConstraint && w.Behaviour[Vertical] == MatchConstraint
}

// RatioDerivedAxis returns the axis computed from the other one by the
// ratio. For a dual ratio without an explicit side, a dangling axis is
// derived; with both axes connected it returns AnyOrientation and the
// ratio rectangle is fitted into both spaces.
func (w *Widget) RatioDerivedAxis() Orientation {
	if w.Ratio <= 0 {
		return AnyOrientation
	}
	h := w.Behaviour[Horizontal] == MatchConstraint
	v := w.Behaviour[Vertical] == MatchConstraint
	switch {
	case h && !v:
		return Horizontal
	case v && !h:
		return Vertical
	case !h && !v:
		return AnyOrientation
	}
	if w.RatioSide != AnyOrientation {
		return w.RatioSide
	}
	hd, vd := !w.BothSidesConnected(Horizontal), !w.BothSidesConnected(Vertical)
	switch {
	case hd && !vd:
		return Horizontal
	case vd && !hd:
		return Vertical
	}
	return AnyOrientation
}

// HasRatio reports whether axis o takes its size from the ratio, alone
// or as part of a fitted dual ratio.
func (w *Widget) HasRatio(o Orientation) bool {
	if w.Ratio <= 0 || w.Behaviour[o] != MatchConstraint {
		return false
	}
	d := w.RatioDerivedAxis()
	if d == AnyOrientation {
		return w.HasDualRatio()
	}
	return d == o
}

// EffectiveBehaviour folds a dangling match-constraint axis into
// [WrapContent]. Ratio axes stay match-constraint.
func (w *Widget) EffectiveBehaviour(o Orientation) DimensionBehaviour {
	b := w.Behaviour[o]
	if b != MatchConstraint {
		return b
	}
	if w.HasRatio(o) {
		return MatchConstraint
	}
	if w.HasDanglingDimension(o) {
		return WrapContent
	}
	return MatchConstraint
}

// MatchMode returns the sub-mode used to size a match-constraint axis.
func (w *Widget) MatchMode(o Orientation) MatchConstraintDefault {
	if w.HasRatio(o) {
		return MatchConstraintRatio
	}
	switch w.MatchDefault[o] {
	case MatchConstraintWrap, MatchConstraintPercent:
		return w.MatchDefault[o]
	}
	return MatchConstraintSpread
}

// ClampMatch bounds a match-constraint size by MatchMin and MatchMax.
func (w *Widget) ClampMatch(o Orientation, v int) int {
	return LimitedDimension(v, w.MatchMin[o], w.MatchMax[o])
}

// LimitedDimension clamps v to minSize and, when positive, maxSize.
func LimitedDimension(v, minSize, maxSize int) int {
	v = max(v, minSize)
	if maxSize > 0 {
		v = min(v, maxSize)
	}
	return v
}

// RatioSize derives the size of axis o from the other axis size.
func (w *Widget) RatioSize(o Orientation, other int) int {
	if w.Ratio <= 0 {
		return other
	}
	if o == Horizontal {
		return int(0.5 + float64(other)*w.Ratio)
	}
	return int(0.5 + float64(other)/w.Ratio)
}

// SetDimensionRatio parses and applies a ratio string, see [ParseRatio].
func (w *Widget) SetDimensionRatio(s string) error {
	r, side, err := ParseRatio(s)
	if err != nil {
		return err
	}
	w.Ratio = r
	w.RatioSide = side
	return nil
}

// ParseRatio parses "w:h", a plain float, or either prefixed by "W," or
// "H," to name the derived axis. The ratio returned is width over height.
func ParseRatio(s string) (float64, Orientation, error) {
	side := AnyOrientation
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, side, nil
	}
	if i := strings.IndexByte(s, ','); i > 0 {
		switch strings.ToUpper(strings.TrimSpace(s[:i])) {
		case "W":
			side = Horizontal
		case "H":
			side = Vertical
		default:
			return 0, side, fmt.Errorf("invalid ratio side %q", s[:i])
		}
		s = s[i+1:]
	}
	if i := strings.IndexByte(s, ':'); i >= 0 {
		num, err := strconv.ParseFloat(strings.TrimSpace(s[:i]), 64)
		if err != nil {
			return 0, side, fmt.Errorf("invalid ratio %q: %w", s, err)
		}
		den, err := strconv.ParseFloat(strings.TrimSpace(s[i+1:]), 64)
		if err != nil {
			return 0, side, fmt.Errorf("invalid ratio %q: %w", s, err)
		}
		if num <= 0 || den <= 0 {
			return 0, side, fmt.Errorf("invalid ratio %q", s)
		}
		return num / den, side, nil
	}
	r, err := strconv.ParseFloat(s, 64)
	if err != nil || r <= 0 || math.IsInf(r, 0) {
		return 0, side, fmt.Errorf("invalid ratio %q", s)
	}
	return r, side, nil
}

// IsResolved reports whether Direct resolved axis o in this pass.
func (w *Widget) IsResolved(o Orientation) bool { return w.resolved[o] }

// SetFinalHorizontal fixes the horizontal edges for this pass.
func (w *Widget) SetFinalHorizontal(left, right int) {
	if w.resolved[Horizontal] {
		return
	}
	w.Left.SetFinalValue(left)
	w.Right.SetFinalValue(right)
	w.x = left
	w.width = max(right-left, 0)
	w.resolved[Horizontal] = true
}

// SetFinalVertical fixes the vertical edges for this pass.
func (w *Widget) SetFinalVertical(top, bottom int) {
	if w.resolved[Vertical] {
		return
	}
	w.Top.SetFinalValue(top)
	w.Bottom.SetFinalValue(bottom)
	w.y = top
	w.height = max(bottom-top, 0)
	if w.hasBaseline {
		w.Baseline.SetFinalValue(top + w.baselineDistance)
	}
	w.resolved[Vertical] = true
}

// SetFinal fixes the edges of axis o.
func (w *Widget) SetFinal(o Orientation, start, end int) {
	if o == Horizontal {
		w.SetFinalHorizontal(start, end)
	} else {
		w.SetFinalVertical(start, end)
	}
}

// ResetFinalResolution clears the per-pass resolution of w and its
// anchors.
func (w *Widget) ResetFinalResolution() {
	w.resolved = [2]bool{}
	for _, a := range w.anchors() {
		a.ResetFinalResolution()
	}
}

// InChain reports whether w is linked into a chain on axis o.
func (w *Widget) InChain(o Orientation) bool {
	return w.chainPrev[o] != nil || w.chainNext[o] != nil
}

// PreviousChainMember returns the chain neighbour before w on axis o.
func (w *Widget) PreviousChainMember(o Orientation) *Widget { return w.chainPrev[o] }

// NextChainMember returns the chain neighbour after w on axis o.
func (w *Widget) NextChainMember(o Orientation) *Widget { return w.chainNext[o] }

// Chain returns the chain w belongs to on axis o, or nil.
func (w *Widget) Chain(o Orientation) *ChainHead { return w.chainHead[o] }

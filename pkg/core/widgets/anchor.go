package widgets

import "math"

// UnsetGoneMargin marks an anchor without a gone margin.
const UnsetGoneMargin = math.MinInt32

// Orientation selects a layout axis.
type Orientation int

const (
	// Horizontal is the x axis (left/right anchors, widths).
	Horizontal Orientation = iota
	// Vertical is the y axis (top/bottom/baseline anchors, heights).
	Vertical
)

// AnyOrientation is used where no axis is selected, such as an
// unspecified ratio side.
const AnyOrientation Orientation = -1

// Other returns the perpendicular axis.
func (o Orientation) Other() Orientation {
	if o == Horizontal {
		return Vertical
	}
	return Horizontal
}

func (o Orientation) String() string {
	switch o {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	default:
		return "any"
	}
}

// AnchorType identifies a connection point of a widget.
type AnchorType int

const (
	AnchorNone AnchorType = iota
	AnchorLeft
	AnchorTop
	AnchorRight
	AnchorBottom
	AnchorBaseline
	AnchorCenter
	AnchorCenterX
	AnchorCenterY
)

var anchorNames = map[AnchorType]string{
	AnchorNone:     "none",
	AnchorLeft:     "left",
	AnchorTop:      "top",
	AnchorRight:    "right",
	AnchorBottom:   "bottom",
	AnchorBaseline: "baseline",
	AnchorCenter:   "center",
	AnchorCenterX:  "centerX",
	AnchorCenterY:  "centerY",
}

func (t AnchorType) String() string {
	if s, ok := anchorNames[t]; ok {
		return s
	}
	return "unknown"
}

// ParseAnchorType maps a lower-case anchor name to its type. The second
// result is false for unknown names.
func ParseAnchorType(s string) (AnchorType, bool) {
	for t, name := range anchorNames {
		if name == s && t != AnchorNone {
			return t, true
		}
	}
	switch s {
	case "start":
		return AnchorLeft, true
	case "end":
		return AnchorRight, true
	case "centerx", "center_x":
		return AnchorCenterX, true
	case "centery", "center_y":
		return AnchorCenterY, true
	}
	return AnchorNone, false
}

// Orientation returns the axis the anchor type positions.
func (t AnchorType) Orientation() Orientation {
	switch t {
	case AnchorLeft, AnchorRight, AnchorCenterX:
		return Horizontal
	case AnchorTop, AnchorBottom, AnchorBaseline, AnchorCenterY:
		return Vertical
	}
	return AnyOrientation
}

// IsStart reports whether t is the leading side of its axis.
func (t AnchorType) IsStart() bool { return t == AnchorLeft || t == AnchorTop }

// IsEnd reports whether t is the trailing side of its axis.
func (t AnchorType) IsEnd() bool { return t == AnchorRight || t == AnchorBottom }

// Opposite returns the anchor on the other side of the same axis.
func (t AnchorType) Opposite() AnchorType {
	switch t {
	case AnchorLeft:
		return AnchorRight
	case AnchorRight:
		return AnchorLeft
	case AnchorTop:
		return AnchorBottom
	case AnchorBottom:
		return AnchorTop
	}
	return AnchorNone
}

// Anchor is one connection point of a widget. An anchor optionally
// targets another anchor; the connection is mirrored in the target's
// dependents list so solvers can walk constraints outward.
type Anchor struct {
	Owner *Widget
	Type  AnchorType

	Target     *Anchor
	Margin     int
	GoneMargin int

	dependents []*Anchor
	final      int
	hasFinal   bool
}

func (a *Anchor) init(owner *Widget, t AnchorType) {
	a.Owner = owner
	a.Type = t
	a.GoneMargin = UnsetGoneMargin
}

// IsConnected reports whether the anchor has a target.
func (a *Anchor) IsConnected() bool { return a.Target != nil }

// Connect targets another anchor with the given margin. It returns false
// when the connection is invalid. A nil target resets the anchor.
func (a *Anchor) Connect(target *Anchor, margin int) bool {
	return a.ConnectWithGoneMargin(target, margin, UnsetGoneMargin)
}

// ConnectWithGoneMargin is like Connect and also sets the margin used
// while the target's owner is gone.
func (a *Anchor) ConnectWithGoneMargin(target *Anchor, margin, goneMargin int) bool {
	if target == nil {
		a.Reset()
		return true
	}
	if !a.IsValidConnection(target) {
		return false
	}
	if a.Target != nil {
		a.Target.removeDependent(a)
	}
	a.Target = target
	target.dependents = append(target.dependents, a)
	a.Margin = margin
	a.GoneMargin = goneMargin
	return true
}

// IsValidConnection reports whether a may target t. Side anchors connect
// to side anchors of the same axis and baselines connect to baselines.
func (a *Anchor) IsValidConnection(t *Anchor) bool {
	if t == nil || t.Owner == nil || t.Owner == a.Owner {
		return false
	}
	if t.Type == AnchorBaseline || a.Type == AnchorBaseline {
		return t.Type == AnchorBaseline && a.Type == AnchorBaseline && !t.Owner.IsHelper()
	}
	if t.Type.Orientation() != a.Type.Orientation() {
		return false
	}
	if g := t.Owner.Guideline; g != nil && g.Axis != a.Type.Orientation() {
		return false
	}
	return !t.Type.IsCenter()
}

// IsCenter reports whether t is one of the center anchor types.
func (t AnchorType) IsCenter() bool {
	return t == AnchorCenter || t == AnchorCenterX || t == AnchorCenterY
}

// Reset removes the connection.
func (a *Anchor) Reset() {
	if a.Target != nil {
		a.Target.removeDependent(a)
	}
	a.Target = nil
	a.Margin = 0
	a.GoneMargin = UnsetGoneMargin
	a.hasFinal = false
	a.final = 0
}

func (a *Anchor) removeDependent(d *Anchor) {
	for i, x := range a.dependents {
		if x == d {
			a.dependents = append(a.dependents[:i], a.dependents[i+1:]...)
			return
		}
	}
}

// Dependents returns the anchors targeting a, in connection order.
func (a *Anchor) Dependents() []*Anchor { return a.dependents }

// EffectiveMargin returns the margin in effect for this pass: zero when
// the owner is gone, the gone margin when one is set and the target's
// owner is gone, and the plain margin otherwise.
func (a *Anchor) EffectiveMargin() int {
	if a.Owner != nil && a.Owner.Visibility == Gone {
		return 0
	}
	if a.GoneMargin != UnsetGoneMargin && a.Target != nil && a.Target.Owner.Visibility == Gone {
		return a.GoneMargin
	}
	return a.Margin
}

// SetFinalValue records the resolved position of the anchor.
func (a *Anchor) SetFinalValue(v int) {
	a.final = v
	a.hasFinal = true
}

// FinalValue returns the resolved position, valid when HasFinalValue.
func (a *Anchor) FinalValue() int { return a.final }

// HasFinalValue reports whether the anchor was resolved in this pass.
func (a *Anchor) HasFinalValue() bool { return a.hasFinal }

// ResetFinalResolution clears the resolved position.
func (a *Anchor) ResetFinalResolution() {
	a.hasFinal = false
	a.final = 0
}

// SameTarget reports whether two anchors resolve against the same
// position source: the same anchor, or any anchor of one helper, whose
// sides coincide.
func SameTarget(s, e *Anchor) bool {
	if s == nil || e == nil || s.Target == nil || e.Target == nil {
		return false
	}
	if s.Target == e.Target {
		return true
	}
	return s.Target.Owner == e.Target.Owner && s.Target.Owner.IsHelper()
}

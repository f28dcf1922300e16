package motion

import (
	"maps"
	"math"
	"slices"

	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/core/widgets"
)

// Widget is the view a [Motion] reads its endpoints from and writes
// interpolated state to.
type Widget interface {
	Name() string
	Bounds() (left, top, right, bottom int)
	Layout(left, top, right, bottom int)
	Visibility() widgets.Visibility
	SetVisibility(v widgets.Visibility)
	// Value returns the attribute, or NaN when unset.
	Value(a Attr) float64
	SetValue(a Attr, v float64)
	// Custom returns the named custom attribute, or nil.
	Custom(name string) *CustomVariable
	SetCustom(v *CustomVariable)
	CustomNames() []string
}

// Frame is the full interpolatable state of a widget. Attributes hold NaN
// while unset.
type Frame struct {
	Left, Top, Right, Bottom int
	Visibility               widgets.Visibility
	Attrs                    [attrCount]float64
	Custom                   map[string]*CustomVariable
}

// NewFrame returns a visible frame with every attribute unset.
func NewFrame(left, top, right, bottom int) Frame {
	f := Frame{Left: left, Top: top, Right: right, Bottom: bottom}
	for i := range f.Attrs {
		f.Attrs[i] = math.NaN()
	}
	return f
}

func (f *Frame) Width() int  { return f.Right - f.Left }
func (f *Frame) Height() int { return f.Bottom - f.Top }

// Resolved returns the attribute or its default when unset.
func (f *Frame) Resolved(a Attr) float64 {
	if v := f.Attrs[a]; !math.IsNaN(v) {
		return v
	}
	return a.Default()
}

// Clone returns a deep copy of f.
func (f Frame) Clone() Frame {
	out := f
	out.Custom = make(map[string]*CustomVariable, len(f.Custom))
	for k, v := range f.Custom {
		out.Custom[k] = v.Clone()
	}
	return out
}

// FrameWidget is a [Widget] backed by a [Frame].
type FrameWidget struct {
	ID    string
	Frame Frame
}

var _ Widget = (*FrameWidget)(nil)

// NewFrameWidget returns a widget with the given bounds.
func NewFrameWidget(id string, left, top, right, bottom int) *FrameWidget {
	return &FrameWidget{ID: id, Frame: NewFrame(left, top, right, bottom)}
}

// FromLayout captures the solved bounds and visibility of w.
func FromLayout(w *widgets.Widget) *FrameWidget {
	fw := NewFrameWidget(w.ID, w.X(), w.Y(), w.X()+w.Width(), w.Y()+w.Height())
	fw.Frame.Visibility = w.Visibility
	return fw
}

func (fw *FrameWidget) Name() string { return fw.ID }

func (fw *FrameWidget) Bounds() (int, int, int, int) {
	return fw.Frame.Left, fw.Frame.Top, fw.Frame.Right, fw.Frame.Bottom
}

func (fw *FrameWidget) Layout(l, t, r, b int) {
	fw.Frame.Left, fw.Frame.Top, fw.Frame.Right, fw.Frame.Bottom = l, t, r, b
}

func (fw *FrameWidget) Visibility() widgets.Visibility     { return fw.Frame.Visibility }
func (fw *FrameWidget) SetVisibility(v widgets.Visibility) { fw.Frame.Visibility = v }
func (fw *FrameWidget) Value(a Attr) float64               { return fw.Frame.Attrs[a] }
func (fw *FrameWidget) SetValue(a Attr, v float64)         { fw.Frame.Attrs[a] = v }

func (fw *FrameWidget) Custom(name string) *CustomVariable { return fw.Frame.Custom[name] }

func (fw *FrameWidget) SetCustom(v *CustomVariable) {
	if fw.Frame.Custom == nil {
		fw.Frame.Custom = make(map[string]*CustomVariable)
	}
	fw.Frame.Custom[v.Name] = v
}

func (fw *FrameWidget) CustomNames() []string {
	return slices.Sorted(maps.Keys(fw.Frame.Custom))
}

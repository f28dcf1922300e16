package motion

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/core/widgets"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

type rect struct{ L, T, R, B int }

func boundsOf(w Widget) rect {
	l, t, r, b := w.Bounds()
	return rect{l, t, r, b}
}

// newMotion returns a motion from start to end that writes to start.
func newMotion(start, end *FrameWidget) *Motion {
	m := New(start)
	m.SetStart(start)
	m.SetEnd(end)
	return m
}

func TestSetupWithoutEndpoints(t *testing.T) {
	m := New(NewFrameWidget("a", 0, 0, 10, 10))
	if err := m.Setup(100, 100); !errors.Is(err, ErrNoEndpoints) {
		t.Errorf("Setup() error = %v, want %v", err, ErrNoEndpoints)
	}
}

func TestInterpolateBeforeSetupPanics(t *testing.T) {
	m := newMotion(NewFrameWidget("a", 0, 0, 10, 10), NewFrameWidget("a", 10, 0, 20, 10))
	defer func() {
		if recover() == nil {
			t.Error("Interpolate() did not panic before Setup")
		}
	}()
	m.Interpolate(0.5, 0, nil)
}

func TestInterpolateEndpoints(t *testing.T) {
	w := NewFrameWidget("a", 0, 0, 100, 50)
	m := newMotion(w, NewFrameWidget("a", 200, 100, 300, 200))
	if err := m.Setup(1000, 1000); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	if diff := cmp.Diff([]string{"x", "y", "height"}, m.Varying()); diff != "" {
		t.Errorf("Varying() mismatch (-want +got):\n%s", diff)
	}

	tests := []struct {
		pos  float64
		want rect
	}{
		{0, rect{0, 0, 100, 50}},
		{0.5, rect{100, 50, 200, 125}},
		{1, rect{200, 100, 300, 200}},
	}
	for _, tt := range tests {
		m.Interpolate(tt.pos, 0, nil)
		if got := boundsOf(w); got != tt.want {
			t.Errorf("Interpolate(%v) bounds = %v, want %v", tt.pos, got, tt.want)
		}
	}
}

func TestVisibilityFade(t *testing.T) {
	w := NewFrameWidget("a", 0, 0, 10, 10)
	end := NewFrameWidget("a", 0, 0, 10, 10)
	end.Frame.Visibility = widgets.Gone
	m := newMotion(w, end)
	if err := m.Setup(100, 100); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}

	tests := []struct {
		pos   float64
		alpha float64
		vis   widgets.Visibility
	}{
		{0, 1, widgets.Visible},
		{0.5, 0.5, widgets.Visible},
		{1, 0, widgets.Gone},
	}
	for _, tt := range tests {
		m.Interpolate(tt.pos, 0, nil)
		if got := w.Value(Alpha); !near(got, tt.alpha) {
			t.Errorf("Interpolate(%v) alpha = %v, want %v", tt.pos, got, tt.alpha)
		}
		if got := w.Visibility(); got != tt.vis {
			t.Errorf("Interpolate(%v) visibility = %v, want %v", tt.pos, got, tt.vis)
		}
	}
}

func TestIgnoreVisibility(t *testing.T) {
	w := NewFrameWidget("a", 0, 0, 10, 10)
	end := NewFrameWidget("a", 0, 0, 10, 10)
	end.Frame.Visibility = widgets.Invisible
	m := newMotion(w, end)
	m.IgnoreVisibility = true
	if err := m.Setup(100, 100); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	m.Interpolate(1, 0, nil)
	if w.Visibility() != widgets.Visible {
		t.Errorf("visibility = %v, want %v", w.Visibility(), widgets.Visible)
	}
}

func TestKeyPosition(t *testing.T) {
	tests := []struct {
		name  string
		start rect
		end   rect
		key   func() *KeyPosition
		want  rect
	}{
		{
			name:  "cartesian",
			start: rect{0, 0, 10, 10},
			end:   rect{100, 100, 110, 110},
			key: func() *KeyPosition {
				k := NewKeyPosition(50)
				k.PercentX, k.PercentY = 0.5, 0
				return k
			},
			want: rect{50, 0, 60, 10},
		},
		{
			name:  "path relative",
			start: rect{0, 0, 10, 10},
			end:   rect{100, 0, 110, 10},
			key: func() *KeyPosition {
				k := NewKeyPosition(50)
				k.Type = PathRelative
				k.PercentX, k.PercentY = 0.5, 0.5
				return k
			},
			want: rect{50, 50, 60, 60},
		},
		{
			name:  "parent relative",
			start: rect{0, 0, 10, 10},
			end:   rect{100, 0, 110, 10},
			key: func() *KeyPosition {
				k := NewKeyPosition(50)
				k.Type = ParentRelative
				k.PercentX, k.PercentY = 0.5, 0.2
				return k
			},
			want: rect{495, 98, 505, 108},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewFrameWidget("a", tt.start.L, tt.start.T, tt.start.R, tt.start.B)
			m := newMotion(w, NewFrameWidget("a", tt.end.L, tt.end.T, tt.end.R, tt.end.B))
			m.AddKey(tt.key())
			if err := m.Setup(1000, 500); err != nil {
				t.Fatalf("Setup() error = %v", err)
			}
			m.Interpolate(0.5, 0, nil)
			if got := boundsOf(w); got != tt.want {
				t.Errorf("bounds at 0.5 = %v, want %v", got, tt.want)
			}
			m.Interpolate(1, 0, nil)
			if got := boundsOf(w); got != tt.end {
				t.Errorf("bounds at 1 = %v, want %v", got, tt.end)
			}
		})
	}
}

func TestKeyPositionReplacesSameFrame(t *testing.T) {
	w := NewFrameWidget("a", 0, 0, 10, 10)
	m := newMotion(w, NewFrameWidget("a", 100, 0, 110, 10))
	first := NewKeyPosition(50)
	first.PercentX = 0.2
	second := NewKeyPosition(50)
	second.PercentX = 0.7
	m.AddKey(first)
	m.AddKey(second)
	if err := m.Setup(1000, 1000); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	m.Interpolate(0.5, 0, nil)
	if got, want := boundsOf(w), (rect{70, 0, 80, 10}); got != want {
		t.Errorf("bounds = %v, want %v", got, want)
	}
}

func TestKeyPositionOutOfRange(t *testing.T) {
	var buf bytes.Buffer
	w := NewFrameWidget("a", 0, 0, 10, 10)
	m := newMotion(w, NewFrameWidget("a", 100, 0, 110, 10))
	m.Logger = log.NewWithOptions(&buf, log.Options{})
	k := NewKeyPosition(100)
	k.PercentX = 0.1
	m.AddKey(k)
	if err := m.Setup(1000, 1000); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	if !strings.Contains(buf.String(), "key position outside of range") {
		t.Errorf("log = %q, want a range warning", buf.String())
	}
	m.Interpolate(0.5, 0, nil)
	if got, want := boundsOf(w), (rect{50, 0, 60, 10}); got != want {
		t.Errorf("bounds = %v, want %v", got, want)
	}
}

func TestKeyAttributes(t *testing.T) {
	w := NewFrameWidget("a", 0, 0, 10, 10)
	m := newMotion(w, NewFrameWidget("a", 0, 0, 10, 10))
	m.AddKey(&KeyAttributes{Frame: 50, Values: map[Attr]float64{Rotation: 90}})
	if err := m.Setup(100, 100); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	for pos, want := range map[float64]float64{0: 0, 0.5: 90, 1: 0} {
		m.Interpolate(pos, 0, nil)
		if got := w.Value(Rotation); !near(got, want) {
			t.Errorf("rotation at %v = %v, want %v", pos, got, want)
		}
	}
}

func TestPathRotate(t *testing.T) {
	w := NewFrameWidget("a", 0, 0, 10, 10)
	w.SetValue(PathRotate, 0)
	m := newMotion(w, NewFrameWidget("a", 100, 100, 110, 110))
	if err := m.Setup(100, 100); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	m.Interpolate(0.5, 0, nil)
	if got := w.Value(Rotation); !near(got, 45) {
		t.Errorf("rotation = %v, want 45", got)
	}
}

func TestStagger(t *testing.T) {
	m := New(NewFrameWidget("a", 0, 0, 10, 10))
	m.StaggerOffset, m.StaggerScale = 0.5, 2
	for pos, want := range map[float64]float64{0.25: 0, 0.75: 0.5, 1: 1} {
		if got := m.AdjustedPosition(pos); !near(got, want) {
			t.Errorf("AdjustedPosition(%v) = %v, want %v", pos, got, want)
		}
	}
}

type squareEasing struct{}

func (squareEasing) Get(x float64) float64  { return x * x }
func (squareEasing) Diff(x float64) float64 { return 2 * x }

func TestKeyPositionEasing(t *testing.T) {
	w := NewFrameWidget("a", 0, 0, 10, 10)
	m := newMotion(w, NewFrameWidget("a", 100, 0, 110, 10))
	k := NewKeyPosition(50)
	k.PercentX = 0.5
	k.Easing = squareEasing{}
	m.AddKey(k)
	if err := m.Setup(100, 100); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	tests := map[float64]float64{0.25: 0.25, 0.75: 0.625, 1: 1}
	for pos, want := range tests {
		if got := m.AdjustedPosition(pos); !near(got, want) {
			t.Errorf("AdjustedPosition(%v) = %v, want %v", pos, got, want)
		}
	}
}

func TestQuantize(t *testing.T) {
	m := New(NewFrameWidget("a", 0, 0, 10, 10))
	m.QuantizeSteps = 4
	tests := []struct {
		pos, want float64
	}{
		{0.3, 0.25},
		{0.4, 0.5},
		{0.9, 1},
	}
	for _, tt := range tests {
		if got := m.quantize(tt.pos); !near(got, tt.want) {
			t.Errorf("quantize(%v) = %v, want %v", tt.pos, got, tt.want)
		}
	}

	m.QuantizeEasing = squareEasing{}
	if got := m.quantize(0.375); !near(got, 0.3125) {
		t.Errorf("quantize(0.375) with easing = %v, want 0.3125", got)
	}
}

func TestKeyTrigger(t *testing.T) {
	w := NewFrameWidget("a", 0, 0, 10, 10)
	m := newMotion(w, NewFrameWidget("a", 100, 0, 110, 10))
	k := NewKeyTrigger(50)
	k.OnCross, k.OnPositiveCross, k.OnNegativeCross = "cross", "up", "down"
	m.AddKey(k)
	var got []string
	m.OnTrigger = func(_ Widget, event string) { got = append(got, event) }
	if err := m.Setup(100, 100); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	for _, pos := range []float64{0.2, 0.6, 0.55, 0.45, 0.9, 0.1} {
		m.Interpolate(pos, 0, nil)
	}
	want := []string{"cross", "up", "down", "cross", "down"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestKeyCycle(t *testing.T) {
	w := NewFrameWidget("a", 0, 0, 10, 10)
	m := newMotion(w, NewFrameWidget("a", 0, 0, 10, 10))
	for _, frame := range []int{0, 100} {
		m.AddKey(&KeyCycle{Frame: frame, Period: 1, Values: map[Attr]float64{TranslationY: 10}})
	}
	if err := m.Setup(100, 100); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	m.Interpolate(0.25, 0, nil)
	if got := w.Value(TranslationY); math.Abs(got-10) > 1e-3 {
		t.Errorf("translationY = %v, want 10", got)
	}
}

func TestKeyTimeCycle(t *testing.T) {
	w := NewFrameWidget("a", 0, 0, 10, 10)
	m := newMotion(w, NewFrameWidget("a", 0, 0, 10, 10))
	m.AddKey(&KeyTimeCycle{Period: 1, Values: map[Attr]float64{TranslationX: 10}})
	if err := m.Setup(100, 100); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	cache := NewKeyCache()
	if !m.Interpolate(0.5, 0, cache) {
		t.Error("Interpolate() = false, want a time cycle to keep animating")
	}
	if got := w.Value(TranslationX); !near(got, 0) {
		t.Errorf("translationX at 0s = %v, want 0", got)
	}
	m.Interpolate(0.5, 250*time.Millisecond, cache)
	if got := w.Value(TranslationX); !near(got, 10) {
		t.Errorf("translationX at 250ms = %v, want 10", got)
	}
}

func TestCustomColor(t *testing.T) {
	w := NewFrameWidget("a", 0, 0, 10, 10)
	w.SetCustom(NewColor("tint", 0xFF000000))
	end := NewFrameWidget("a", 0, 0, 10, 10)
	end.SetCustom(NewColor("tint", 0xFFFFFFFF))
	m := newMotion(w, end)
	if err := m.Setup(100, 100); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	tests := map[float64]uint32{0: 0xFF000000, 0.5: 0xFFBABABA, 1: 0xFFFFFFFF}
	for pos, want := range tests {
		m.Interpolate(pos, 0, nil)
		if got := w.Custom("tint").Color(); got != want {
			t.Errorf("tint at %v = %#08x, want %#08x", pos, got, want)
		}
	}
}

func TestCustomStringPanics(t *testing.T) {
	w := NewFrameWidget("a", 0, 0, 10, 10)
	w.SetCustom(NewString("label", "on"))
	end := NewFrameWidget("a", 0, 0, 10, 10)
	end.SetCustom(NewString("label", "off"))
	m := newMotion(w, end)
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("Setup() did not panic on a string attribute")
		}
		if msg, _ := r.(string); !strings.Contains(msg, "label") {
			t.Errorf("panic = %v, want it to name the attribute", r)
		}
	}()
	_ = m.Setup(100, 100)
}

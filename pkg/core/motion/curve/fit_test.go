package curve

import (
	"math"
	"testing"
)

func near(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func TestNewKinds(t *testing.T) {
	times := []float64{0, 0.5, 1}
	y := [][]float64{{0}, {10}, {40}}
	tests := []struct {
		kind Kind
		at   float64
		want float64
	}{
		{Linear, 0.25, 5},
		{Linear, 0.75, 25},
		{Constant, 0.75, 0},
		{Spline, 0.5, 10},
		{Default, 1, 40},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			f := New(tt.kind, times, y)
			if got := f.PosAt(tt.at, 0); !near(got, tt.want, 1e-9) {
				t.Errorf("PosAt(%v) = %v, want %v", tt.at, got, tt.want)
			}
		})
	}
}

func TestNewSingleKeyframe(t *testing.T) {
	f := New(Spline, []float64{0.3}, [][]float64{{7, 8}})
	v := make([]float64, 2)
	f.Pos(0.9, v)
	if v[0] != 7 || v[1] != 8 {
		t.Errorf("Pos() = %v, want [7 8]", v)
	}
	if s := f.SlopeAt(0.9, 1); s != 0 {
		t.Errorf("SlopeAt() = %v, want 0", s)
	}
}

func TestMonotonicFit(t *testing.T) {
	f := NewMonotonic([]float64{0, 0.5, 1}, [][]float64{{0}, {10}, {10}})
	for _, k := range []struct{ t, y float64 }{{0, 0}, {0.5, 10}, {1, 10}} {
		if got := f.PosAt(k.t, 0); got != k.y {
			t.Errorf("PosAt(%v) = %v, want %v", k.t, got, k.y)
		}
	}
	prev := math.Inf(-1)
	for i := 0; i <= 100; i++ {
		v := f.PosAt(float64(i)/100, 0)
		if v < prev-1e-9 || v > 10+1e-9 {
			t.Fatalf("PosAt(%v) = %v after %v: not monotonic", float64(i)/100, v, prev)
		}
		prev = v
	}
	if s := f.SlopeAt(0.75, 0); s != 0 {
		t.Errorf("SlopeAt(0.75) on a flat segment = %v, want 0", s)
	}
}

func TestMonotonicFitStraightLine(t *testing.T) {
	f := NewMonotonic([]float64{0, 1}, [][]float64{{0}, {10}})
	if got := f.PosAt(0.5, 0); !near(got, 5, 1e-9) {
		t.Errorf("PosAt(0.5) = %v, want 5", got)
	}
	if got := f.SlopeAt(0.3, 0); !near(got, 10, 1e-9) {
		t.Errorf("SlopeAt(0.3) = %v, want 10", got)
	}
	if got := f.PosAt(1.5, 0); !near(got, 15, 1e-9) {
		t.Errorf("PosAt(1.5) = %v, want 15 (extrapolated)", got)
	}
}

func TestParseKind(t *testing.T) {
	for _, s := range []string{"", "spline", "linear", "constant"} {
		if _, err := ParseKind(s); err != nil {
			t.Errorf("ParseKind(%q) error = %v", s, err)
		}
	}
	if _, err := ParseKind("bezier"); err == nil {
		t.Error("ParseKind(bezier) error = nil, want error")
	}
}

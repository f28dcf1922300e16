package curve

import (
	"math"
	"testing"
)

func TestArcFit(t *testing.T) {
	times := []float64{0, 1}
	pts := [][]float64{{0, 0}, {100, 100}}
	d := 100 * (1 - math.Sqrt2/2)
	tests := []struct {
		name  string
		mode  ArcMode
		wantX float64
		wantY float64
	}{
		{"vertical", ArcVertical, d, 100 - d},
		{"horizontal", ArcHorizontal, 100 - d, d},
		{"linear", ArcLinear, 50, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewArc([]ArcMode{tt.mode, tt.mode}, times, pts)
			v := make([]float64, 2)
			f.Pos(0, v)
			if !near(v[0], 0, 1e-9) || !near(v[1], 0, 1e-9) {
				t.Errorf("Pos(0) = %v, want [0 0]", v)
			}
			f.Pos(1, v)
			if !near(v[0], 100, 1e-9) || !near(v[1], 100, 1e-9) {
				t.Errorf("Pos(1) = %v, want [100 100]", v)
			}
			f.Pos(0.5, v)
			if !near(v[0], tt.wantX, 0.5) || !near(v[1], tt.wantY, 0.5) {
				t.Errorf("Pos(0.5) = %v, want [%.2f %.2f]", v, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestArcFitConstantSpeed(t *testing.T) {
	f := NewArc([]ArcMode{ArcVertical, ArcVertical}, []float64{0, 1}, [][]float64{{0, 0}, {100, 100}})
	want := math.Pi / 2 * 100
	for _, at := range []float64{0.1, 0.5, 0.9} {
		dx, dy := f.SlopeAt(at, 0), f.SlopeAt(at, 1)
		if got := math.Hypot(dx, dy); !near(got, want, 0.01) {
			t.Errorf("speed at %v = %v, want %v", at, got, want)
		}
	}
}

func TestArcFitFlip(t *testing.T) {
	times := []float64{0, 1, 2}
	pts := [][]float64{{0, 0}, {100, 100}, {200, 200}}
	f := NewArc([]ArcMode{ArcVertical, ArcFlip, ArcFlip}, times, pts)
	first := f.PosAt(0.5, 0)
	second := f.PosAt(1.5, 0) - 100
	if first >= 50 || second <= 50 {
		t.Errorf("segments at x=%.1f and x=%.1f, want vertical then horizontal start", first, second)
	}
}

func TestArcFitDegenerate(t *testing.T) {
	f := NewArc([]ArcMode{ArcVertical, ArcVertical}, []float64{0, 1}, [][]float64{{0, 0}, {0, 80}})
	if got := f.PosAt(0.25, 1); !near(got, 20, 1e-9) {
		t.Errorf("PosAt(0.25) = %v, want 20 along a straight segment", got)
	}
}

func TestParseArcMode(t *testing.T) {
	tests := map[string]ArcMode{
		"":                 ArcUnset,
		"none":             ArcUnset,
		"linear":           ArcLinear,
		"start_vertical":   ArcVertical,
		"start_horizontal": ArcHorizontal,
		"flip":             ArcFlip,
	}
	for s, want := range tests {
		if got, err := ParseArcMode(s); err != nil || got != want {
			t.Errorf("ParseArcMode(%q) = %v, %v, want %v", s, got, err, want)
		}
	}
	if _, err := ParseArcMode("spiral"); err == nil {
		t.Error("ParseArcMode(spiral) error = nil, want error")
	}
}

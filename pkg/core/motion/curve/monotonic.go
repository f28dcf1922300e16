package curve

import "math"

// MonotonicFit is a cubic Hermite spline whose tangents are limited
// (Fritsch-Carlson) so each segment stays monotonic between its
// keyframes. Outside the keyframe range it extrapolates along the end
// tangents.
type MonotonicFit struct {
	t       []float64
	y       [][]float64
	tangent [][]float64
}

var _ Fit = (*MonotonicFit)(nil)

// NewMonotonic fits y over the increasing times t. It needs at least two
// keyframes.
func NewMonotonic(t []float64, y [][]float64) *MonotonicFit {
	n, dim := len(t), len(y[0])
	slope := make([][]float64, n-1)
	tangent := make([][]float64, n)
	for i := range tangent {
		tangent[i] = make([]float64, dim)
	}
	for i := 0; i < n-1; i++ {
		slope[i] = make([]float64, dim)
		dt := t[i+1] - t[i]
		for j := 0; j < dim; j++ {
			slope[i][j] = (y[i+1][j] - y[i][j]) / dt
			if i == 0 {
				tangent[i][j] = slope[i][j]
			} else {
				tangent[i][j] = (slope[i-1][j] + slope[i][j]) / 2
			}
		}
	}
	copy(tangent[n-1], slope[n-2])

	for i := 0; i < n-1; i++ {
		for j := 0; j < dim; j++ {
			if slope[i][j] == 0 {
				tangent[i][j], tangent[i+1][j] = 0, 0
				continue
			}
			a := tangent[i][j] / slope[i][j]
			b := tangent[i+1][j] / slope[i][j]
			if h := math.Hypot(a, b); h > 9 {
				k := 3 / h
				tangent[i][j] = k * a * slope[i][j]
				tangent[i+1][j] = k * b * slope[i][j]
			}
		}
	}
	return &MonotonicFit{t: t, y: y, tangent: tangent}
}

// Times implements [Fit].
func (f *MonotonicFit) Times() []float64 { return f.t }

// Pos implements [Fit].
func (f *MonotonicFit) Pos(t float64, v []float64) {
	for j := range f.y[0] {
		v[j] = f.PosAt(t, j)
	}
}

// PosAt implements [Fit].
func (f *MonotonicFit) PosAt(t float64, j int) float64 {
	n := len(f.t)
	if t <= f.t[0] {
		return f.y[0][j] + (t-f.t[0])*f.tangent[0][j]
	}
	if t >= f.t[n-1] {
		return f.y[n-1][j] + (t-f.t[n-1])*f.tangent[n-1][j]
	}
	i := segment(f.t, t)
	h := f.t[i+1] - f.t[i]
	return hermite(h, (t-f.t[i])/h, f.y[i][j], f.y[i+1][j], f.tangent[i][j], f.tangent[i+1][j])
}

// Slope implements [Fit].
func (f *MonotonicFit) Slope(t float64, v []float64) {
	for j := range f.y[0] {
		v[j] = f.SlopeAt(t, j)
	}
}

// SlopeAt implements [Fit].
func (f *MonotonicFit) SlopeAt(t float64, j int) float64 {
	n := len(f.t)
	t = min(max(t, f.t[0]), f.t[n-1])
	i := segment(f.t, t)
	h := f.t[i+1] - f.t[i]
	return hermiteSlope(h, (t-f.t[i])/h, f.y[i][j], f.y[i+1][j], f.tangent[i][j], f.tangent[i+1][j]) / h
}

// hermite evaluates the cubic Hermite basis at x in [0,1] of a segment of
// length h.
func hermite(h, x, y1, y2, t1, t2 float64) float64 {
	x2 := x * x
	x3 := x2 * x
	return -2*x3*y2 + 3*x2*y2 + 2*x3*y1 - 3*x2*y1 + y1 +
		h*t2*x3 + h*t1*x3 - h*t2*x2 - 2*h*t1*x2 + h*t1*x
}

func hermiteSlope(h, x, y1, y2, t1, t2 float64) float64 {
	x2 := x * x
	return -6*x2*y2 + 6*x*y2 + 6*x2*y1 - 6*x*y1 +
		3*h*t2*x2 + 3*h*t1*x2 - 2*h*t2*x - 4*h*t1*x + h*t1
}

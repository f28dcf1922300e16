package curve

import (
	"fmt"
	"strconv"
	"strings"
)

// Easing remaps progress in [0, 1].
type Easing interface {
	Get(x float64) float64
	Diff(x float64) float64
}

// Named easings.
var (
	Standard   = Cubic(0.4, 0, 0.2, 1)
	Accelerate = Cubic(0.4, 0.05, 0.8, 0.7)
	Decelerate = Cubic(0, 0, 0.2, 0.95)
	LinearEase = Cubic(1, 1, 0, 0)
	Anticipate = Cubic(0.36, 0, 0.66, -0.56)
	Overshoot  = Cubic(0.34, 1.56, 0.64, 1)
)

var named = map[string]Easing{
	"standard":   Standard,
	"accelerate": Accelerate,
	"decelerate": Decelerate,
	"linear":     LinearEase,
	"anticipate": Anticipate,
	"overshoot":  Overshoot,
}

// ParseEasing returns the easing described by s: a curve name,
// "cubic(x1,y1,x2,y2)", "spline(v0,v1,...)" or "Schlick(s,t)".
func ParseEasing(s string) (Easing, error) {
	s = strings.TrimSpace(s)
	if e, ok := named[s]; ok {
		return e, nil
	}
	name, args, err := parseCall(s)
	if err != nil {
		return nil, err
	}
	switch name {
	case "cubic":
		if len(args) != 4 {
			return nil, fmt.Errorf("easing %q: cubic takes 4 values", s)
		}
		return Cubic(args[0], args[1], args[2], args[3]), nil
	case "spline":
		if len(args) < 2 {
			return nil, fmt.Errorf("easing %q: spline takes at least 2 values", s)
		}
		return NewStepCurve(args), nil
	case "Schlick":
		if len(args) != 2 {
			return nil, fmt.Errorf("easing %q: Schlick takes 2 values", s)
		}
		return Schlick{S: args[0], T: args[1]}, nil
	}
	return nil, fmt.Errorf("unknown easing %q", s)
}

func parseCall(s string) (string, []float64, error) {
	open := strings.IndexByte(s, '(')
	if open < 0 || !strings.HasSuffix(s, ")") {
		return "", nil, fmt.Errorf("unknown easing %q", s)
	}
	var args []float64
	for _, f := range strings.Split(s[open+1:len(s)-1], ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return "", nil, fmt.Errorf("easing %q: %w", s, err)
		}
		args = append(args, v)
	}
	return strings.TrimSpace(s[:open]), args, nil
}

const (
	cubicError     = 0.01
	cubicDiffError = 0.0001
)

// CubicEasing is a unit cubic Bézier from (0,0) to (1,1) with two control
// points, inverted by bisection on x.
type CubicEasing struct {
	X1, Y1, X2, Y2 float64
}

// Cubic returns the Bézier easing with control points (x1,y1), (x2,y2).
func Cubic(x1, y1, x2, y2 float64) CubicEasing {
	return CubicEasing{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

func (c CubicEasing) String() string {
	return fmt.Sprintf("cubic(%g, %g, %g, %g)", c.X1, c.Y1, c.X2, c.Y2)
}

func bez(p1, p2, t float64) float64 {
	t1 := 1 - t
	return 3*t1*t1*t*p1 + 3*t1*t*t*p2 + t*t*t
}

func (c CubicEasing) solve(x, tolerance float64) (float64, float64) {
	t, r := 0.5, 0.5
	for r > tolerance {
		r /= 2
		if bez(c.X1, c.X2, t) < x {
			t += r
		} else {
			t -= r
		}
	}
	return t, r
}

// Get implements [Easing].
func (c CubicEasing) Get(x float64) float64 {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 1
	}
	t, r := c.solve(x, cubicError)
	x1, x2 := bez(c.X1, c.X2, t-r), bez(c.X1, c.X2, t+r)
	y1, y2 := bez(c.Y1, c.Y2, t-r), bez(c.Y1, c.Y2, t+r)
	return (y2-y1)*(x-x1)/(x2-x1) + y1
}

// Diff implements [Easing].
func (c CubicEasing) Diff(x float64) float64 {
	t, r := c.solve(x, cubicDiffError)
	x1, x2 := bez(c.X1, c.X2, t-r), bez(c.X1, c.X2, t+r)
	y1, y2 := bez(c.Y1, c.Y2, t-r), bez(c.Y1, c.Y2, t+r)
	return (y2 - y1) / (x2 - x1)
}

// StepCurve eases through evenly spaced values with a monotonic spline.
// The values are repeated one unit below and above so the curve keeps its
// slope at both ends.
type StepCurve struct {
	fit *MonotonicFit
}

// NewStepCurve returns the easing through values at 0, 1/(n-1), ..., 1.
func NewStepCurve(values []float64) *StepCurve {
	n := len(values)
	last := n - 1
	gap := 1 / float64(last)
	size := 3*n - 2
	t := make([]float64, size)
	y := make([][]float64, size)
	for i, v := range values {
		t[i+last], y[i+last] = float64(i)*gap, []float64{v}
		if i > 0 {
			t[i+2*last], y[i+2*last] = float64(i)*gap+1, []float64{v + 1}
			t[i-1], y[i-1] = float64(i)*gap-1-gap, []float64{v - 1 - gap}
		}
	}
	return &StepCurve{fit: NewMonotonic(t, y)}
}

// Get implements [Easing].
func (s *StepCurve) Get(x float64) float64 { return s.fit.PosAt(x, 0) }

// Diff implements [Easing].
func (s *StepCurve) Diff(x float64) float64 { return s.fit.SlopeAt(x, 0) }

// Schlick is the bias curve of Schlick's rational gain function: S
// controls steepness and T the turning point.
type Schlick struct {
	S, T float64
}

// Get implements [Easing].
func (s Schlick) Get(x float64) float64 {
	if x < s.T {
		return s.T * x / (x + s.S*(s.T-x))
	}
	return (1-s.T)*(x-1)/(1-x-s.S*(s.T-x)) + 1
}

// Diff implements [Easing].
func (s Schlick) Diff(x float64) float64 {
	if x < s.T {
		d := x + s.S*(s.T-x)
		return s.S * s.T * s.T / (d * d)
	}
	d := 1 - x - s.S*(s.T-x)
	return s.S * (s.T - 1) * (s.T - 1) / (d * d)
}

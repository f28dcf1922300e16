package curve

import "fmt"

// Fit interpolates a vector of values over time.
type Fit interface {
	// Pos writes the values at t into v.
	Pos(t float64, v []float64)
	// PosAt returns dimension j at t.
	PosAt(t float64, j int) float64
	// Slope writes the derivative at t into v.
	Slope(t float64, v []float64)
	// SlopeAt returns the derivative of dimension j at t.
	SlopeAt(t float64, j int) float64
	// Times returns the keyframe times.
	Times() []float64
}

// Kind selects the interpolation used by [New].
type Kind int

const (
	Default Kind = iota
	Spline
	Linear
	Constant
)

func (k Kind) String() string {
	switch k {
	case Default:
		return "default"
	case Spline:
		return "spline"
	case Linear:
		return "linear"
	case Constant:
		return "constant"
	}
	return "unknown"
}

// ParseKind returns the kind named s. The empty string is [Default].
func ParseKind(s string) (Kind, error) {
	switch s {
	case "", "default":
		return Default, nil
	case "spline":
		return Spline, nil
	case "linear":
		return Linear, nil
	case "constant":
		return Constant, nil
	}
	return Default, fmt.Errorf("unknown curve fit %q", s)
}

// New fits y over the strictly increasing times t. Every y[i] must have
// the same length. One keyframe always gives a constant fit.
func New(k Kind, t []float64, y [][]float64) Fit {
	if len(t) == 1 {
		k = Constant
	}
	switch k {
	case Linear:
		return NewLinear(t, y)
	case Constant:
		return &constantFit{t: t[0], v: y[0]}
	}
	return NewMonotonic(t, y)
}

type constantFit struct {
	t float64
	v []float64
}

func (c *constantFit) Pos(_ float64, v []float64)       { copy(v, c.v) }
func (c *constantFit) PosAt(_ float64, j int) float64   { return c.v[j] }
func (c *constantFit) Slope(_ float64, v []float64)     { clear(v[:len(c.v)]) }
func (c *constantFit) SlopeAt(_ float64, _ int) float64 { return 0 }
func (c *constantFit) Times() []float64                 { return []float64{c.t} }

// segment returns the index i with t[i] <= x < t[i+1], clamped to the
// first and last segment.
func segment(t []float64, x float64) int {
	lo, hi := 0, len(t)-2
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if t[mid] <= x {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

package curve

import (
	"fmt"
	"math"
	"sort"
)

// Wave is the shape of an [Oscillator].
type Wave int

const (
	Sin Wave = iota
	Square
	Triangle
	Sawtooth
	ReverseSawtooth
	Cos
	Bounce
)

var waveNames = [...]string{"sin", "square", "triangle", "sawtooth", "reverse_sawtooth", "cos", "bounce"}

func (w Wave) String() string {
	if w >= 0 && int(w) < len(waveNames) {
		return waveNames[w]
	}
	return "unknown"
}

// ParseWave returns the wave named s. The empty string is [Sin].
func ParseWave(s string) (Wave, error) {
	if s == "" {
		return Sin, nil
	}
	for i, n := range waveNames {
		if n == s {
			return Wave(i), nil
		}
	}
	return Sin, fmt.Errorf("unknown wave shape %q", s)
}

// Value returns the wave at phase p, measured in cycles.
func (w Wave) Value(p float64) float64 {
	switch w {
	case Square:
		return sign(0.5 - math.Mod(p, 1))
	case Triangle:
		return 1 - math.Abs(math.Mod(p*4+1, 4)-2)
	case Sawtooth:
		return math.Mod(p*2+1, 2) - 1
	case ReverseSawtooth:
		return 1 - math.Mod(p*2+1, 2)
	case Cos:
		return math.Cos(2 * math.Pi * p)
	case Bounce:
		x := 1 - math.Abs(math.Mod(p*4, 4)-2)
		return 1 - x*x
	}
	return math.Sin(2 * math.Pi * p)
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// Oscillator is a wave whose period, in cycles per unit of progress,
// varies linearly between the points added to it. The phase at progress
// t is the integral of the period from the first point to t.
type Oscillator struct {
	Wave Wave

	pos    []float64
	period []float64
	area   []float64
}

// AddPoint sets the period at progress pos.
func (o *Oscillator) AddPoint(pos, period float64) {
	i := sort.SearchFloat64s(o.pos, pos)
	o.pos = append(o.pos, 0)
	o.period = append(o.period, 0)
	copy(o.pos[i+1:], o.pos[i:])
	copy(o.period[i+1:], o.period[i:])
	o.pos[i], o.period[i] = pos, period
	o.area = nil
}

func (o *Oscillator) integrate() {
	o.area = make([]float64, len(o.pos))
	for i := 1; i < len(o.pos); i++ {
		o.area[i] = o.area[i-1] + (o.pos[i]-o.pos[i-1])*(o.period[i-1]+o.period[i])/2
	}
}

// Phase returns the number of cycles completed at progress t in [0, 1].
// Before the first point and after the last the period is held constant.
func (o *Oscillator) Phase(t float64) float64 {
	if len(o.pos) == 0 {
		return 0
	}
	if o.area == nil {
		o.integrate()
	}
	t = min(max(t, 0), 1)
	n := len(o.pos)
	if t <= o.pos[0] {
		return (t - o.pos[0]) * o.period[0]
	}
	if t >= o.pos[n-1] {
		return o.area[n-1] + (t-o.pos[n-1])*o.period[n-1]
	}
	i := segment(o.pos, t)
	dt := t - o.pos[i]
	m := (o.period[i+1] - o.period[i]) / (o.pos[i+1] - o.pos[i])
	return o.area[i] + o.period[i]*dt + m*dt*dt/2
}

// Value returns the wave at progress t shifted by phase cycles.
func (o *Oscillator) Value(t, phase float64) float64 {
	return o.Wave.Value(phase + o.Phase(t))
}

// Slope returns the derivative of Value with respect to t.
func (o *Oscillator) Slope(t, phase float64) float64 {
	const h = 1e-4
	return (o.Value(t+h, phase) - o.Value(t-h, phase)) / (2 * h)
}

package curve

import (
	"fmt"
	"math"
	"sort"
)

// ArcMode is the shape of the path segment that starts at a keyframe.
type ArcMode int

const (
	// ArcUnset means the path is not drawn with arcs.
	ArcUnset ArcMode = iota - 1
	ArcLinear
	// ArcVertical starts the quarter ellipse moving vertically.
	ArcVertical
	// ArcHorizontal starts the quarter ellipse moving horizontally.
	ArcHorizontal
	// ArcFlip starts in the direction the previous segment did not.
	ArcFlip
)

func (m ArcMode) String() string {
	switch m {
	case ArcUnset:
		return "none"
	case ArcLinear:
		return "linear"
	case ArcVertical:
		return "start_vertical"
	case ArcHorizontal:
		return "start_horizontal"
	case ArcFlip:
		return "flip"
	}
	return "unknown"
}

// ParseArcMode returns the mode named s. The empty string is [ArcUnset].
func ParseArcMode(s string) (ArcMode, error) {
	if s == "" {
		return ArcUnset, nil
	}
	for m := ArcUnset; m <= ArcFlip; m++ {
		if m.String() == s {
			return m, nil
		}
	}
	return ArcUnset, fmt.Errorf("unknown arc mode %q", s)
}

const (
	arcEpsilon = 0.001
	arcSamples = 91
	arcLUTSize = 101
)

// ArcFit moves a point through two-dimensional keyframes along quarter
// ellipses at constant speed within each segment.
type ArcFit struct {
	t    []float64
	arcs []arc
}

var _ Fit = (*ArcFit)(nil)

// NewArc fits the (x, y) pairs in y over the increasing times t. modes[i]
// shapes the segment that starts at keyframe i; the last mode is unused.
func NewArc(modes []ArcMode, t []float64, y [][]float64) *ArcFit {
	f := &ArcFit{t: t, arcs: make([]arc, len(t)-1)}
	mode, last := ArcVertical, ArcVertical
	for i := range f.arcs {
		switch modes[i] {
		case ArcVertical, ArcHorizontal:
			mode, last = modes[i], modes[i]
		case ArcFlip:
			if last == ArcVertical {
				mode = ArcHorizontal
			} else {
				mode = ArcVertical
			}
			last = mode
		case ArcLinear:
			mode = ArcLinear
		}
		f.arcs[i] = newArc(mode, t[i], t[i+1], y[i][0], y[i][1], y[i+1][0], y[i+1][1])
	}
	return f
}

// Times implements [Fit].
func (f *ArcFit) Times() []float64 { return f.t }

func (f *ArcFit) at(t float64) (*arc, float64) {
	t = min(max(t, f.arcs[0].t1), f.arcs[len(f.arcs)-1].t2)
	for i := range f.arcs {
		if t <= f.arcs[i].t2 {
			return &f.arcs[i], t
		}
	}
	return &f.arcs[len(f.arcs)-1], t
}

// Pos implements [Fit].
func (f *ArcFit) Pos(t float64, v []float64) {
	a, t := f.at(t)
	v[0], v[1] = a.pos(t)
}

// PosAt implements [Fit].
func (f *ArcFit) PosAt(t float64, j int) float64 {
	a, t := f.at(t)
	x, y := a.pos(t)
	if j == 0 {
		return x
	}
	return y
}

// Slope implements [Fit].
func (f *ArcFit) Slope(t float64, v []float64) {
	a, t := f.at(t)
	v[0], v[1] = a.slope(t)
}

// SlopeAt implements [Fit].
func (f *ArcFit) SlopeAt(t float64, j int) float64 {
	a, t := f.at(t)
	dx, dy := a.slope(t)
	if j == 0 {
		return dx
	}
	return dy
}

// arc is one quarter ellipse from (x1,y1) at t1 to (x2,y2) at t2. The
// lookup table maps a fraction of arc length to a fraction of the quarter
// turn.
type arc struct {
	t1, t2         float64
	invDT          float64
	x1, y1, x2, y2 float64
	linear         bool
	vertical       bool

	a, b     float64
	cx, cy   float64
	distance float64
	velocity float64
	lut      []float64
}

func newArc(mode ArcMode, t1, t2, x1, y1, x2, y2 float64) arc {
	a := arc{
		t1: t1, t2: t2, invDT: 1 / (t2 - t1),
		x1: x1, y1: y1, x2: x2, y2: y2,
		vertical: mode == ArcVertical,
		linear:   mode == ArcLinear,
	}
	dx, dy := x2-x1, y2-y1
	if a.linear || math.Abs(dx) < arcEpsilon || math.Abs(dy) < arcEpsilon {
		a.linear = true
		a.distance = math.Hypot(dx, dy)
		a.velocity = a.distance * a.invDT
		a.cx, a.cy = dx*a.invDT, dy*a.invDT
		return a
	}
	if a.vertical {
		a.a, a.b = -dx, dy
		a.cx, a.cy = x2, y1
	} else {
		a.a, a.b = dx, -dy
		a.cx, a.cy = x1, y2
	}
	a.buildTable(dx, -dy)
	a.velocity = a.distance * a.invDT
	return a
}

func (a *arc) buildTable(ea, eb float64) {
	var samples [arcSamples]float64
	var lx, ly, dist float64
	for i := range samples {
		angle := math.Pi / 2 * float64(i) / float64(arcSamples-1)
		px, py := ea*math.Sin(angle), eb*math.Cos(angle)
		if i > 0 {
			dist += math.Hypot(px-lx, py-ly)
			samples[i] = dist
		}
		lx, ly = px, py
	}
	a.distance = dist
	for i := range samples {
		samples[i] /= dist
	}
	a.lut = make([]float64, arcLUTSize)
	for i := range a.lut {
		pos := float64(i) / float64(arcLUTSize-1)
		k := sort.SearchFloat64s(samples[:], pos)
		switch {
		case k < arcSamples && samples[k] == pos:
			a.lut[i] = float64(k) / float64(arcSamples-1)
		case k == 0:
			a.lut[i] = 0
		case k >= arcSamples:
			a.lut[i] = 1
		default:
			p1, p2 := k-1, k
			a.lut[i] = (float64(p1) + (pos-samples[p1])/(samples[p2]-samples[p1])) / float64(arcSamples-1)
		}
	}
}

func (a *arc) lookup(v float64) float64 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 1
	}
	pos := v * float64(len(a.lut)-1)
	i := int(pos)
	return a.lut[i] + (pos-float64(i))*(a.lut[i+1]-a.lut[i])
}

func (a *arc) angle(t float64) (sin, cos float64) {
	p := (t - a.t1) * a.invDT
	if a.vertical {
		p = (a.t2 - t) * a.invDT
	}
	return math.Sincos(math.Pi / 2 * a.lookup(p))
}

func (a *arc) pos(t float64) (x, y float64) {
	if a.linear {
		f := (t - a.t1) * a.invDT
		return a.x1 + f*(a.x2-a.x1), a.y1 + f*(a.y2-a.y1)
	}
	s, c := a.angle(t)
	return a.cx + a.a*s, a.cy + a.b*c
}

func (a *arc) slope(t float64) (dx, dy float64) {
	if a.linear {
		return a.cx, a.cy
	}
	s, c := a.angle(t)
	vx, vy := a.a*c, -a.b*s
	norm := a.velocity / math.Hypot(vx, vy)
	if a.vertical {
		return -vx * norm, -vy * norm
	}
	return vx * norm, vy * norm
}

package motion

import (
	"math"
	"slices"
	"time"

	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/core/motion/curve"
)

// keyed is a value at a keyframe; later points at the same frame replace
// earlier ones.
type keyed[T any] struct {
	frame int
	v     T
}

func setPoint[T any](pts []keyed[T], frame int, v T) []keyed[T] {
	for i := range pts {
		if pts[i].frame == frame {
			pts[i].v = v
			return pts
		}
	}
	return append(pts, keyed[T]{frame, v})
}

func sortKeyed[T any](pts []keyed[T]) {
	slices.SortFunc(pts, func(a, b keyed[T]) int { return a.frame - b.frame })
}

// attrSpline interpolates one scalar attribute through its keyframes.
type attrSpline struct {
	attr Attr
	kind curve.Kind
	pts  []keyed[float64]
	fit  curve.Fit
}

func (s *attrSpline) setPoint(frame int, v float64) { s.pts = setPoint(s.pts, frame, v) }

func (s *attrSpline) setup() {
	sortKeyed(s.pts)
	t := make([]float64, len(s.pts))
	y := make([][]float64, len(s.pts))
	for i, p := range s.pts {
		t[i], y[i] = float64(p.frame)/100, []float64{p.v}
	}
	s.fit = curve.New(s.kind, t, y)
}

func (s *attrSpline) get(t float64) float64 { return s.fit.PosAt(t, 0) }

// customSpline interpolates a custom attribute set by KeyAttributes.
type customSpline struct {
	name string
	kind curve.Kind
	pts  []keyed[*CustomVariable]
	fit  curve.Fit
	buf  []float64
}

func (s *customSpline) setPoint(frame int, v *CustomVariable) { s.pts = setPoint(s.pts, frame, v) }

func (s *customSpline) setup() {
	sortKeyed(s.pts)
	n := s.pts[0].v.Len()
	t := make([]float64, len(s.pts))
	y := make([][]float64, len(s.pts))
	for i, p := range s.pts {
		t[i] = float64(p.frame) / 100
		y[i] = make([]float64, n)
		p.v.Values(y[i])
	}
	s.fit = curve.New(s.kind, t, y)
	s.buf = make([]float64, n)
}

func (s *customSpline) apply(w Widget, t float64) {
	s.fit.Pos(t, s.buf)
	s.pts[0].v.Apply(w, s.buf)
}

// cycleSpline drives one attribute from KeyCycles: an oscillator whose
// amplitude, offset and phase are splined over progress.
type cycleSpline struct {
	attr Attr
	osc  curve.Oscillator
	pts  []keyed[[3]float64]
	per  []keyed[float64]
	fit  curve.Fit
	buf  [3]float64
}

func (s *cycleSpline) add(k *KeyCycle, amplitude float64) {
	if len(s.pts) == 0 {
		s.osc.Wave = k.Wave
	}
	s.pts = setPoint(s.pts, k.Frame, [3]float64{amplitude, k.Offset, k.Phase / 360})
	s.per = setPoint(s.per, k.Frame, k.Period)
}

func (s *cycleSpline) setup() {
	sortKeyed(s.pts)
	t := make([]float64, len(s.pts))
	y := make([][]float64, len(s.pts))
	for i, p := range s.pts {
		t[i], y[i] = float64(p.frame)/100, p.v[:]
	}
	for _, p := range s.per {
		s.osc.AddPoint(float64(p.frame)/100, p.v)
	}
	s.fit = curve.New(curve.Spline, t, y)
}

func (s *cycleSpline) get(t float64) float64 {
	s.fit.Pos(t, s.buf[:])
	return s.buf[1] + s.buf[0]*s.osc.Value(t, s.buf[2])
}

// KeyCache carries the running phase of time cycles between frames, so
// a wave stays continuous when its period changes.
type KeyCache struct {
	state map[cycleKey]*cycleState
}

type cycleKey struct {
	widget string
	attr   Attr
}

type cycleState struct {
	phase float64
	last  time.Duration
	seen  bool
}

// NewKeyCache returns an empty cache.
func NewKeyCache() *KeyCache {
	return &KeyCache{state: make(map[cycleKey]*cycleState)}
}

func (c *KeyCache) get(widget string, a Attr) *cycleState {
	k := cycleKey{widget, a}
	st, ok := c.state[k]
	if !ok {
		st = &cycleState{}
		c.state[k] = st
	}
	return st
}

// timeCycleSpline drives one attribute from KeyTimeCycles.
type timeCycleSpline struct {
	attr Attr
	wave curve.Wave
	pts  []keyed[[4]float64]
	fit  curve.Fit
	buf  [4]float64
}

func (s *timeCycleSpline) add(k *KeyTimeCycle, amplitude float64) {
	if len(s.pts) == 0 {
		s.wave = k.Wave
	}
	s.pts = setPoint(s.pts, k.Frame, [4]float64{amplitude, k.Offset, k.Phase / 360, k.Period})
}

func (s *timeCycleSpline) setup() {
	sortKeyed(s.pts)
	t := make([]float64, len(s.pts))
	y := make([][]float64, len(s.pts))
	for i, p := range s.pts {
		t[i], y[i] = float64(p.frame)/100, p.v[:]
	}
	s.fit = curve.New(curve.Spline, t, y)
}

// apply advances the wave to now and writes the attribute. It reports
// whether the attribute keeps changing with time.
func (s *timeCycleSpline) apply(w Widget, t float64, now time.Duration, cache *KeyCache) bool {
	s.fit.Pos(t, s.buf[:])
	amp, offset, phase, period := s.buf[0], s.buf[1], s.buf[2], s.buf[3]
	st := cache.get(w.Name(), s.attr)
	if st.seen {
		st.phase = math.Mod(st.phase+(now-st.last).Seconds()*period, 1)
	}
	st.last, st.seen = now, true
	w.SetValue(s.attr, offset+amp*s.wave.Value(st.phase+phase))
	return amp != 0 || period != 0
}

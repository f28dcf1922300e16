package motion

import (
	"errors"
	"io"
	"maps"
	"math"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/core/motion/curve"
	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/core/widgets"
)

var (
	// ErrNoEndpoints is returned by Setup before both endpoints are set.
	ErrNoEndpoints = errors.New("motion: start and end must be set before setup")
)

type state int

const (
	stateUninitialized state = iota
	stateEndpoints
	stateReady
)

// Motion interpolates one widget between a start and an end state through
// keyframes.
//
// Configure the exported fields, set both endpoints and add keys, then
// call Setup once. Interpolate may then be called for every frame.
type Motion struct {
	Logger *log.Logger

	// Easing applies to the whole transition, up to the first keyframe
	// with its own easing.
	Easing curve.Easing
	// ArcMode draws the path with arcs from the start state.
	ArcMode curve.ArcMode
	// Fit is the interpolation of the position path.
	Fit curve.Kind

	// StaggerOffset delays the start of the motion and StaggerScale
	// speeds it up so it still ends on time. A scale of 1 disables
	// staggering.
	StaggerOffset float64
	StaggerScale  float64

	// QuantizeSteps splits progress into this many discrete steps; 0
	// disables quantization. Within a step, QuantizePhase (NaN for none)
	// shifts the section and QuantizeEasing maps it; without an easing a
	// section snaps at its midpoint.
	QuantizeSteps  int
	QuantizePhase  float64
	QuantizeEasing curve.Easing

	// IgnoreVisibility leaves visibility alone while interpolating.
	IgnoreVisibility bool
	// OnTrigger receives the events of KeyTriggers.
	OnTrigger func(w Widget, event string)

	widget     Widget
	state      state
	start, end *MotionPaths
	startPoint MotionConstrainedPoint
	endPoint   MotionConstrainedPoint
	keys       []Key
	paths      []*MotionPaths

	posFit   curve.Fit
	arcFit   curve.Fit
	vars     []int
	data     []float64
	velocity []float64

	customNames []string
	customFits  []curve.Fit
	customBuf   [][]float64

	attrSplines   []*attrSpline
	pathRotate    *attrSpline
	customSplines []*customSpline
	cycles        []*cycleSpline
	timeCycles    []*timeCycleSpline
	triggers      []*KeyTrigger
	cache         *KeyCache
}

// New returns an uninitialized motion that writes to w.
func New(w Widget) *Motion {
	return &Motion{
		Logger:        log.NewWithOptions(io.Discard, log.Options{}),
		ArcMode:       curve.ArcUnset,
		StaggerScale:  1,
		QuantizePhase: math.NaN(),
		widget:        w,
	}
}

// Widget returns the widget the motion writes to.
func (m *Motion) Widget() Widget { return m.widget }

// Start returns the start path point, or nil before SetStart.
func (m *Motion) Start() *MotionPaths { return m.start }

// End returns the end path point, or nil before SetEnd.
func (m *Motion) End() *MotionPaths { return m.end }

// SetStart snapshots the start state from w.
func (m *Motion) SetStart(w Widget) {
	m.start = pathsFromWidget(w, 0)
	m.startPoint = snapshot(w)
	m.touch()
}

// SetEnd snapshots the end state from w.
func (m *Motion) SetEnd(w Widget) {
	m.end = pathsFromWidget(w, 1)
	m.endPoint = snapshot(w)
	m.touch()
}

func (m *Motion) touch() {
	if m.start != nil && m.end != nil {
		m.state = stateEndpoints
	}
}

// AddKey adds a keyframe. Keys take effect at the next Setup.
func (m *Motion) AddKey(k Key) {
	m.keys = append(m.keys, k)
	if m.state == stateReady {
		m.state = stateEndpoints
	}
}

// Keys returns the keyframes added so far.
func (m *Motion) Keys() []Key { return m.keys }

// Ready reports whether Setup has completed.
func (m *Motion) Ready() bool { return m.state == stateReady }

// insertKey adds a keyframe path point, replacing one at the same
// position. Points outside the open interval between the endpoints are
// dropped with a warning.
func (m *Motion) insertKey(p *MotionPaths) {
	if p.Position <= 0 || p.Position >= 1 {
		m.Logger.Warn("key position outside of range", "widget", m.widget.Name(), "position", p.Position)
		return
	}
	m.paths = slices.DeleteFunc(m.paths, func(q *MotionPaths) bool { return q.Position == p.Position })
	i, _ := slices.BinarySearchFunc(m.paths, p.Position, func(q *MotionPaths, pos float64) int {
		switch {
		case q.Position < pos:
			return -1
		case q.Position > pos:
			return 1
		}
		return 0
	})
	m.paths = slices.Insert(m.paths, i, p)
}

// Setup builds the splines. parentWidth and parentHeight size
// parent-relative key positions.
func (m *Motion) Setup(parentWidth, parentHeight int) error {
	if m.start == nil || m.end == nil {
		return ErrNoEndpoints
	}
	m.paths = nil
	m.attrSplines, m.pathRotate, m.customSplines = nil, nil, nil
	m.cycles, m.timeCycles, m.triggers = nil, nil, nil
	m.start.Easing = m.Easing
	m.start.ArcMode = m.ArcMode

	fit := m.Fit
	splineAttrs := make(map[Attr]bool)
	attrFit := make(map[Attr]curve.Kind)
	customFit := make(map[string]curve.Kind)
	m.startPoint.Different(&m.endPoint, splineAttrs, m.IgnoreVisibility)

	cycles := make(map[Attr]*cycleSpline)
	timeCycles := make(map[Attr]*timeCycleSpline)
	for _, key := range m.keys {
		switch k := key.(type) {
		case *KeyPosition:
			m.insertKey(newKeyPaths(parentWidth, parentHeight, k, m.start, m.end))
			if k.Fit != curve.Default {
				fit = k.Fit
			}
		case *KeyAttributes:
			for a := range k.Values {
				splineAttrs[a] = true
				attrFit[a] = k.Fit
			}
			for name := range k.Custom {
				customFit[name] = k.Fit
			}
		case *KeyCycle:
			for a, amp := range k.Values {
				s := cycles[a]
				if s == nil {
					s = &cycleSpline{attr: a}
					cycles[a] = s
				}
				s.add(k, amp)
			}
		case *KeyTimeCycle:
			for a, amp := range k.Values {
				s := timeCycles[a]
				if s == nil {
					s = &timeCycleSpline{attr: a}
					timeCycles[a] = s
				}
				s.add(k, amp)
			}
		case *KeyTrigger:
			m.triggers = append(m.triggers, k)
		}
	}

	m.setupAttrSplines(splineAttrs, attrFit)
	m.setupCustomSplines(customFit)
	for _, a := range slices.Sorted(maps.Keys(cycles)) {
		cycles[a].setup()
		m.cycles = append(m.cycles, cycles[a])
	}
	for _, a := range slices.Sorted(maps.Keys(timeCycles)) {
		timeCycles[a].setup()
		m.timeCycles = append(m.timeCycles, timeCycles[a])
	}
	m.setupPath(fit, customFit)

	m.state = stateReady
	m.Logger.Debug("motion ready", "widget", m.widget.Name(), "keys", len(m.keys), "varying", m.Varying())
	return nil
}

func (m *Motion) setupAttrSplines(attrs map[Attr]bool, kinds map[Attr]curve.Kind) {
	for _, a := range slices.Sorted(maps.Keys(attrs)) {
		s := &attrSpline{attr: a, kind: kinds[a]}
		for _, key := range m.keys {
			if k, ok := key.(*KeyAttributes); ok {
				if v, ok := k.Values[a]; ok {
					s.setPoint(k.Frame, v)
				}
			}
		}
		s.setPoint(0, m.startPoint.Value(a))
		s.setPoint(100, m.endPoint.Value(a))
		s.setup()
		if a == PathRotate {
			m.pathRotate = s
			continue
		}
		m.attrSplines = append(m.attrSplines, s)
	}
}

func (m *Motion) setupCustomSplines(kinds map[string]curve.Kind) {
	for _, name := range slices.Sorted(maps.Keys(kinds)) {
		s := &customSpline{name: name, kind: kinds[name]}
		for _, key := range m.keys {
			if k, ok := key.(*KeyAttributes); ok {
				if v, ok := k.Custom[name]; ok {
					s.setPoint(k.Frame, v)
				}
			}
		}
		if v, ok := m.startPoint.Custom[name]; ok {
			s.setPoint(0, v)
		}
		if v, ok := m.endPoint.Custom[name]; ok {
			s.setPoint(100, v)
		}
		s.setup()
		m.customSplines = append(m.customSplines, s)
	}
}

// setupPath fits the position spline through the endpoints and key
// positions, interpolating only the path variables that change, plus
// one spline per custom attribute both endpoints carry.
func (m *Motion) setupPath(fit curve.Kind, keyed map[string]curve.Kind) {
	points := make([]*MotionPaths, 0, len(m.paths)+2)
	points = append(points, m.start)
	points = append(points, m.paths...)
	points = append(points, m.end)

	arc := m.start.ArcMode != curve.ArcUnset
	var mask [varCount]bool
	for i := 1; i < len(points); i++ {
		points[i].different(points[i-1], &mask, arc)
	}
	m.vars = m.vars[:0]
	for v := varX; v < varCount; v++ {
		if mask[v] {
			m.vars = append(m.vars, v)
		}
	}
	n := max(2, len(m.vars))
	m.data = make([]float64, n)
	m.velocity = make([]float64, n)

	times := make([]float64, len(points))
	rows := make([][]float64, len(points))
	for i, p := range points {
		times[i] = p.Time
		rows[i] = make([]float64, len(m.vars))
		p.fill(rows[i], m.vars)
	}
	m.posFit = curve.New(fit, times, rows)

	m.arcFit = nil
	if arc {
		modes := make([]curve.ArcMode, len(points))
		xy := make([][]float64, len(points))
		for i, p := range points {
			modes[i] = p.ArcMode
			xy[i] = []float64{p.X, p.Y}
		}
		m.arcFit = curve.NewArc(modes, times, xy)
	}

	m.customNames, m.customFits, m.customBuf = nil, nil, nil
	for _, name := range slices.Sorted(maps.Keys(m.end.Custom)) {
		if _, ok := m.start.Custom[name]; !ok {
			continue
		}
		if _, ok := keyed[name]; ok {
			continue
		}
		var t []float64
		var y [][]float64
		for _, p := range points {
			size := p.customLen(name)
			if size == 0 {
				continue
			}
			row := make([]float64, size)
			p.Custom[name].Values(row)
			t = append(t, p.Time)
			y = append(y, row)
		}
		m.customNames = append(m.customNames, name)
		m.customFits = append(m.customFits, curve.New(fit, t, y))
		m.customBuf = append(m.customBuf, make([]float64, len(y[0])))
	}
}

// Varying returns the names of the path variables the position spline
// interpolates.
func (m *Motion) Varying() []string {
	out := make([]string, len(m.vars))
	for i, v := range m.vars {
		out[i] = varNames[v]
	}
	return out
}

// AdjustedPosition applies stagger and easing to a global progress.
func (m *Motion) AdjustedPosition(pos float64) float64 {
	if m.StaggerScale != 1 {
		if pos < m.StaggerOffset {
			pos = 0
		}
		if pos > m.StaggerOffset && pos < 1 {
			pos = min((pos-m.StaggerOffset)*m.StaggerScale, 1)
		}
	}
	easing := m.Easing
	if m.start != nil && m.start.Easing != nil {
		easing = m.start.Easing
	}
	start, end := 0.0, math.NaN()
	for _, p := range m.paths {
		if p.Easing == nil {
			continue
		}
		if p.Time < pos {
			easing, start = p.Easing, p.Time
		} else if math.IsNaN(end) {
			end = p.Time
		}
	}
	if easing == nil {
		return pos
	}
	if math.IsNaN(end) {
		end = 1
	}
	return easing.Get((pos-start)/(end-start))*(end-start) + start
}

func (m *Motion) quantize(pos float64) float64 {
	if m.QuantizeSteps <= 0 {
		return pos
	}
	step := 1 / float64(m.QuantizeSteps)
	jump := math.Floor(pos/step) * step
	section := math.Mod(pos, step) / step
	if !math.IsNaN(m.QuantizePhase) {
		section = math.Mod(section+m.QuantizePhase, 1)
	}
	switch {
	case m.QuantizeEasing != nil:
		section = m.QuantizeEasing.Get(section)
	case section > 0.5:
		section = 1
	default:
		section = 0
	}
	return section*step + jump
}

// Interpolate writes the state at global progress pos in [0, 1] to the
// widget. now is the wall-clock time used by time cycles, whose phase is
// kept in cache; a nil cache uses one owned by the motion. It reports
// whether time cycles keep the widget changing even at a fixed progress.
//
// Interpolate panics if Setup has not completed.
func (m *Motion) Interpolate(pos float64, now time.Duration, cache *KeyCache) bool {
	if m.state != stateReady {
		panic("motion: Interpolate called before Setup")
	}
	if cache == nil {
		if m.cache == nil {
			m.cache = NewKeyCache()
		}
		cache = m.cache
	}
	w := m.widget
	pos = m.quantize(m.AdjustedPosition(pos))

	for _, s := range m.attrSplines {
		w.SetValue(s.attr, s.get(pos))
	}
	animating := false
	for _, s := range m.timeCycles {
		if s.apply(w, pos, now, cache) {
			animating = true
		}
	}

	m.posFit.Pos(pos, m.data)
	m.posFit.Slope(pos, m.velocity)
	if m.arcFit != nil {
		m.arcFit.Pos(pos, m.data)
		m.arcFit.Slope(pos, m.velocity)
	}
	m.start.layout(w, m.vars, m.data)

	if m.pathRotate != nil {
		vx, vy := m.pathVelocity()
		w.SetValue(Rotation, m.pathRotate.get(pos)+math.Atan2(vy, vx)*180/math.Pi)
	}
	for i, name := range m.customNames {
		m.customFits[i].Pos(pos, m.customBuf[i])
		m.start.Custom[name].Apply(w, m.customBuf[i])
	}
	for _, s := range m.customSplines {
		s.apply(w, pos)
	}

	if !m.IgnoreVisibility {
		switch {
		case pos <= 0:
			w.SetVisibility(m.startPoint.Visibility)
		case pos >= 1:
			w.SetVisibility(m.endPoint.Visibility)
		case m.startPoint.Visibility != m.endPoint.Visibility:
			w.SetVisibility(widgets.Visible)
		}
	}

	for _, k := range m.triggers {
		k.update(pos, func(event string) {
			if m.OnTrigger != nil {
				m.OnTrigger(w, event)
			}
		})
	}
	for _, c := range m.cycles {
		w.SetValue(c.attr, c.get(pos))
	}
	return animating
}

// pathVelocity returns the x and y velocity along the path, zero for an
// axis the path does not move on.
func (m *Motion) pathVelocity() (vx, vy float64) {
	for i, v := range m.vars {
		switch v {
		case varX:
			vx = m.velocity[i]
		case varY:
			vy = m.velocity[i]
		}
	}
	return vx, vy
}

package scene

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/core/motion"
	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/core/motion/curve"
	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/core/widgets"
	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/errors"
)

// DefaultDuration is the length of a transition that does not set one.
const DefaultDuration = 400 * time.Millisecond

// Key types.
const (
	KeyPosition  = "position"
	KeyAttribute = "attribute"
	KeyCycle     = "cycle"
	KeyTimeCycle = "time_cycle"
	KeyTrigger   = "trigger"
)

// AllWidgets is the key target that applies a key to every widget.
const AllWidgets = "*"

// MotionSpec describes the transition from the start state to the end
// state. End lists per-widget overrides; unset fields keep their start
// values.
type MotionSpec struct {
	Duration string `toml:"duration" json:"duration,omitempty"`
	Easing   string `toml:"easing" json:"easing,omitempty"`
	Arc      string `toml:"arc" json:"arc,omitempty"`
	Fit      string `toml:"fit" json:"fit,omitempty"`

	// Stagger delays widgets by their end position. Widgets with the
	// largest x + y start first; a negative value ranks by y - x
	// instead. Its magnitude is the longest delay as a share of the
	// transition.
	Stagger float64 `toml:"stagger" json:"stagger,omitempty"`

	Quantize       int      `toml:"quantize" json:"quantize,omitempty"`
	QuantizePhase  *float64 `toml:"quantize_phase" json:"quantize_phase,omitempty"`
	QuantizeEasing string   `toml:"quantize_easing" json:"quantize_easing,omitempty"`

	End  []WidgetSpec `toml:"end" json:"end,omitempty"`
	Keys []KeySpec    `toml:"key" json:"keys,omitempty"`
}

// KeySpec is a keyframe. Type selects which of the remaining fields
// apply. Frames run from 0 to 100.
type KeySpec struct {
	Type   string `toml:"type" json:"type"`
	Target string `toml:"target" json:"target"`
	Frame  int    `toml:"frame" json:"frame"`

	// Position keys.
	Position      string   `toml:"position" json:"position,omitempty"`
	PercentX      *float64 `toml:"percent_x" json:"percent_x,omitempty"`
	PercentY      *float64 `toml:"percent_y" json:"percent_y,omitempty"`
	PercentWidth  *float64 `toml:"percent_width" json:"percent_width,omitempty"`
	PercentHeight *float64 `toml:"percent_height" json:"percent_height,omitempty"`
	Easing        string   `toml:"easing" json:"easing,omitempty"`
	Arc           string   `toml:"arc" json:"arc,omitempty"`
	Fit           string   `toml:"fit" json:"fit,omitempty"`

	// Attribute and cycle keys. For cycles the values are amplitudes.
	Attrs  map[string]float64 `toml:"attrs" json:"attrs,omitempty"`
	Custom []CustomSpec       `toml:"custom" json:"custom,omitempty"`
	Wave   string             `toml:"wave" json:"wave,omitempty"`
	Period float64            `toml:"period" json:"period,omitempty"`
	Offset float64            `toml:"offset" json:"offset,omitempty"`
	Phase  float64            `toml:"phase" json:"phase,omitempty"`

	// Trigger keys.
	OnCross         string   `toml:"on_cross" json:"on_cross,omitempty"`
	OnPositiveCross string   `toml:"on_positive_cross" json:"on_positive_cross,omitempty"`
	OnNegativeCross string   `toml:"on_negative_cross" json:"on_negative_cross,omitempty"`
	Slack           *float64 `toml:"slack" json:"slack,omitempty"`
}

// DurationValue returns the parsed duration, or [DefaultDuration].
func (m *MotionSpec) DurationValue() (time.Duration, error) {
	if m.Duration == "" {
		return DefaultDuration, nil
	}
	d, err := time.ParseDuration(m.Duration)
	if err != nil || d <= 0 {
		return 0, errors.New(errors.ErrCodeInvalidScene, "motion: invalid duration %q", m.Duration)
	}
	return d, nil
}

func (m *MotionSpec) validate(d *Document) error {
	if _, err := m.DurationValue(); err != nil {
		return err
	}
	if _, err := m.settings(); err != nil {
		return err
	}
	if math.Abs(m.Stagger) >= 1 {
		return errors.New(errors.ErrCodeInvalidScene, "motion: stagger %v outside (-1, 1)", m.Stagger)
	}
	if m.Quantize < 0 {
		return errors.New(errors.ErrCodeInvalidScene, "motion: negative quantize steps %d", m.Quantize)
	}
	ends, err := d.endSpecs()
	if err != nil {
		return err
	}
	for i, w := range d.Widgets {
		if _, err := newFrame(w, 0, 0, 0, 0); err != nil {
			return errors.Prefix(err, "widget %q", w.ID)
		}
		if err := checkStrings(w, ends[i]); err != nil {
			return err
		}
		if _, err := newFrame(ends[i], 0, 0, 0, 0); err != nil {
			return errors.Prefix(err, "end state of widget %q", w.ID)
		}
	}
	for i, k := range m.Keys {
		if k.Target != AllWidgets {
			if _, ok := d.Widget(k.Target); !ok {
				return errors.New(errors.ErrCodeUnknownWidget, "key %d: unknown target %q", i, k.Target)
			}
		}
		if _, err := k.build(); err != nil {
			return errors.Prefix(err, "key %d", i)
		}
	}
	return nil
}

// checkStrings rejects string custom attributes on animated widgets;
// strings cannot be interpolated.
func checkStrings(specs ...WidgetSpec) error {
	for _, w := range specs {
		for _, c := range w.Custom {
			if c.Type == motion.StringType.String() {
				return errors.New(errors.ErrCodeInvalidScene, "widget %q: string attribute %q cannot be animated", w.ID, c.Name)
			}
		}
	}
	return nil
}

type motionSettings struct {
	easing         curve.Easing
	arc            curve.ArcMode
	fit            curve.Kind
	quantizeEasing curve.Easing
}

func (m *MotionSpec) settings() (motionSettings, error) {
	var s motionSettings
	var err error
	if m.Easing != "" {
		if s.easing, err = curve.ParseEasing(m.Easing); err != nil {
			return s, errors.Wrap(errors.ErrCodeInvalidScene, err, "motion")
		}
	}
	if m.QuantizeEasing != "" {
		if s.quantizeEasing, err = curve.ParseEasing(m.QuantizeEasing); err != nil {
			return s, errors.Wrap(errors.ErrCodeInvalidScene, err, "motion")
		}
	}
	if s.arc, err = curve.ParseArcMode(m.Arc); err != nil {
		return s, errors.Wrap(errors.ErrCodeInvalidScene, err, "motion")
	}
	if s.fit, err = curve.ParseKind(m.Fit); err != nil {
		return s, errors.Wrap(errors.ErrCodeInvalidScene, err, "motion")
	}
	return s, nil
}

var positionTypes = map[string]motion.PositionType{
	"":          motion.Cartesian,
	"cartesian": motion.Cartesian,
	"path":      motion.PathRelative,
	"parent":    motion.ParentRelative,
}

// build converts k into a motion key. Every call returns a new
// key, so keys targeting several widgets do not share state.
func (k KeySpec) build() (motion.Key, error) {
	invalid := func(err error) error { return errors.Wrap(errors.ErrCodeInvalidScene, err, "%s key", k.Type) }
	if k.Type != KeyPosition && (k.Frame < 0 || k.Frame > 100) {
		return nil, errors.New(errors.ErrCodeInvalidScene, "%s key: frame %d outside [0, 100]", k.Type, k.Frame)
	}
	switch k.Type {
	case KeyPosition:
		p := motion.NewKeyPosition(k.Frame)
		t, ok := positionTypes[strings.ToLower(k.Position)]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidScene, "position key: unknown position type %q", k.Position)
		}
		p.Type = t
		for _, f := range []struct {
			dst *float64
			src *float64
		}{
			{&p.PercentX, k.PercentX},
			{&p.PercentY, k.PercentY},
			{&p.PercentWidth, k.PercentWidth},
			{&p.PercentHeight, k.PercentHeight},
		} {
			if f.src != nil {
				*f.dst = *f.src
			}
		}
		var err error
		if k.Easing != "" {
			if p.Easing, err = curve.ParseEasing(k.Easing); err != nil {
				return nil, invalid(err)
			}
		}
		if p.ArcMode, err = curve.ParseArcMode(k.Arc); err != nil {
			return nil, invalid(err)
		}
		if p.Fit, err = curve.ParseKind(k.Fit); err != nil {
			return nil, invalid(err)
		}
		return p, nil

	case KeyAttribute:
		values, err := parseAttrs(k.Attrs)
		if err != nil {
			return nil, invalid(err)
		}
		custom := make(map[string]*motion.CustomVariable, len(k.Custom))
		for _, c := range k.Custom {
			v, err := c.variable()
			if err != nil {
				return nil, invalid(err)
			}
			if v.Type == motion.StringType {
				return nil, errors.New(errors.ErrCodeInvalidScene, "attribute key: string attribute %q cannot be animated", c.Name)
			}
			custom[c.Name] = v
		}
		if len(values) == 0 && len(custom) == 0 {
			return nil, errors.New(errors.ErrCodeInvalidScene, "attribute key sets no attributes")
		}
		fit, err := curve.ParseKind(k.Fit)
		if err != nil {
			return nil, invalid(err)
		}
		return &motion.KeyAttributes{Frame: k.Frame, Values: values, Custom: custom, Fit: fit}, nil

	case KeyCycle, KeyTimeCycle:
		values, err := parseAttrs(k.Attrs)
		if err != nil {
			return nil, invalid(err)
		}
		if len(values) == 0 {
			return nil, errors.New(errors.ErrCodeInvalidScene, "%s key sets no attributes", k.Type)
		}
		wave, err := curve.ParseWave(k.Wave)
		if err != nil {
			return nil, invalid(err)
		}
		if k.Period < 0 {
			return nil, errors.New(errors.ErrCodeInvalidScene, "%s key: negative period %v", k.Type, k.Period)
		}
		if k.Type == KeyCycle {
			return &motion.KeyCycle{Frame: k.Frame, Wave: wave, Period: k.Period, Offset: k.Offset, Phase: k.Phase, Values: values}, nil
		}
		return &motion.KeyTimeCycle{Frame: k.Frame, Wave: wave, Period: k.Period, Offset: k.Offset, Phase: k.Phase, Values: values}, nil

	case KeyTrigger:
		t := motion.NewKeyTrigger(k.Frame)
		t.OnCross, t.OnPositiveCross, t.OnNegativeCross = k.OnCross, k.OnPositiveCross, k.OnNegativeCross
		if t.OnCross == "" && t.OnPositiveCross == "" && t.OnNegativeCross == "" {
			return nil, errors.New(errors.ErrCodeInvalidScene, "trigger key names no event")
		}
		if k.Slack != nil {
			t.Slack = *k.Slack
		}
		return t, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidScene, "unknown key type %q", k.Type)
}

func parseAttrs(in map[string]float64) (map[motion.Attr]float64, error) {
	out := make(map[motion.Attr]float64, len(in))
	for name, v := range in {
		a, err := motion.ParseAttr(name)
		if err != nil {
			return nil, err
		}
		out[a] = v
	}
	return out, nil
}

func (c CustomSpec) variable() (*motion.CustomVariable, error) {
	t, err := motion.ParseCustomType(c.Type)
	if err != nil {
		return nil, err
	}
	if c.Name == "" {
		return nil, fmt.Errorf("custom attribute without a name")
	}
	return motion.ParseCustom(c.Name, t, customText(c.Value))
}

// customText formats a decoded scalar the way ParseCustom expects it.
func customText(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case float64:
		if v == math.Trunc(v) {
			return fmt.Sprintf("%d", int64(v))
		}
	}
	return fmt.Sprint(v)
}

// newFrame returns a frame widget for spec with the given bounds and
// its attributes applied.
func newFrame(spec WidgetSpec, left, top, right, bottom int) (*motion.FrameWidget, error) {
	fw := motion.NewFrameWidget(spec.ID, left, top, right, bottom)
	for name, v := range spec.Attrs {
		a, err := motion.ParseAttr(name)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "attrs")
		}
		fw.SetValue(a, v)
	}
	for _, c := range spec.Custom {
		v, err := c.variable()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "custom")
		}
		fw.SetCustom(v)
	}
	return fw, nil
}

func frameFrom(spec WidgetSpec, w *widgets.Widget) (*motion.FrameWidget, error) {
	fw, err := newFrame(spec, w.X(), w.Y(), w.X()+w.Width(), w.Y()+w.Height())
	if err != nil {
		return nil, err
	}
	fw.Frame.Visibility = w.Visibility
	return fw, nil
}

// Event is a trigger that fired while interpolating.
type Event struct {
	Widget   string  `json:"widget"`
	Name     string  `json:"event"`
	Progress float64 `json:"progress"`
}

// Transition animates the widgets of a solved scene between its two
// states.
type Transition struct {
	Duration time.Duration
	// Width and Height are the parent size the keys were laid out in.
	Width, Height int

	motions []*motion.Motion
	frames  []*motion.FrameWidget
	cache   *motion.KeyCache
	events  []Event
	pos     float64
}

// Transition builds one motion per widget from the solved start and end
// containers and sets them up. Containers must come from [Document.Build]
// and [Document.BuildEnd] of d and be solved.
func (d *Document) Transition(start, end *widgets.Container, logger *log.Logger) (*Transition, error) {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	spec := d.Motion
	if spec == nil {
		spec = &MotionSpec{}
	}
	dur, err := spec.DurationValue()
	if err != nil {
		return nil, err
	}
	settings, err := spec.settings()
	if err != nil {
		return nil, err
	}
	ends, err := d.endSpecs()
	if err != nil {
		return nil, err
	}

	t := &Transition{Duration: dur, Width: start.Width(), Height: start.Height(), cache: motion.NewKeyCache()}
	for i, ws := range d.Widgets {
		if err := checkStrings(ws, ends[i]); err != nil {
			return nil, err
		}
		sw, ew := start.Find(ws.ID), end.Find(ws.ID)
		if sw == nil || ew == nil {
			return nil, errors.New(errors.ErrCodeUnknownWidget, "widget %q missing from a solved state", ws.ID)
		}
		from, err := frameFrom(ws, sw)
		if err != nil {
			return nil, errors.Prefix(err, "widget %q", ws.ID)
		}
		to, err := frameFrom(ends[i], ew)
		if err != nil {
			return nil, errors.Prefix(err, "end state of widget %q", ws.ID)
		}
		live := &motion.FrameWidget{ID: ws.ID, Frame: from.Frame.Clone()}

		m := motion.New(live)
		m.Logger = logger
		m.Easing = settings.easing
		m.ArcMode = settings.arc
		m.Fit = settings.fit
		m.QuantizeSteps = spec.Quantize
		m.QuantizeEasing = settings.quantizeEasing
		if spec.QuantizePhase != nil {
			m.QuantizePhase = *spec.QuantizePhase
		}
		m.OnTrigger = func(w motion.Widget, event string) {
			t.events = append(t.events, Event{Widget: w.Name(), Name: event, Progress: t.pos})
		}
		m.SetStart(from)
		m.SetEnd(to)
		for _, k := range spec.Keys {
			if k.Target != ws.ID && k.Target != AllWidgets {
				continue
			}
			key, err := k.build()
			if err != nil {
				return nil, err
			}
			m.AddKey(key)
		}
		t.motions = append(t.motions, m)
		t.frames = append(t.frames, live)
	}
	t.stagger(spec.Stagger)
	for _, m := range t.motions {
		if err := m.Setup(t.Width, t.Height); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "widget %q", m.Widget().Name())
		}
	}
	return t, nil
}

// stagger spreads the start of the motions by the end position of their
// widgets.
func (t *Transition) stagger(s float64) {
	if s == 0 || len(t.motions) < 2 {
		return
	}
	flip := s < 0
	s = math.Abs(s)
	dist := make([]float64, len(t.motions))
	lo, hi := math.Inf(1), math.Inf(-1)
	for i, m := range t.motions {
		p := m.End()
		if flip {
			dist[i] = p.Y - p.X
		} else {
			dist[i] = p.Y + p.X
		}
		lo, hi = min(lo, dist[i]), max(hi, dist[i])
	}
	if hi == lo {
		return
	}
	for i, m := range t.motions {
		m.StaggerScale = 1 / (1 - s)
		m.StaggerOffset = s - s*(dist[i]-lo)/(hi-lo)
	}
}

// Motions returns the motion of every widget in document order.
func (t *Transition) Motions() []*motion.Motion { return t.motions }

// Frames returns the live widget states written by [Transition.Apply],
// in document order.
func (t *Transition) Frames() []*motion.FrameWidget { return t.frames }

// Apply interpolates every widget at progress pos, with now driving time
// cycles. It returns the trigger events fired by this step and whether
// time cycles keep the widgets changing at a fixed progress.
func (t *Transition) Apply(pos float64, now time.Duration) ([]Event, bool) {
	t.events = t.events[:0]
	t.pos = pos
	animating := false
	for _, m := range t.motions {
		if m.Interpolate(pos, now, t.cache) {
			animating = true
		}
	}
	if len(t.events) == 0 {
		return nil, animating
	}
	return append([]Event(nil), t.events...), animating
}

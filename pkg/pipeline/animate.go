package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/core/motion"
	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/core/widgets"
	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/errors"
	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/observability"
	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/render/frame"
	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/render/plot"
	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/scene"
)

// =============================================================================
// Animation
// =============================================================================

// Animation is a transition sampled at evenly spaced progress values,
// both endpoints included.
type Animation struct {
	Scene      string   `json:"scene,omitempty"`
	DurationMS float64  `json:"duration_ms"`
	Width      int      `json:"width"`
	Height     int      `json:"height"`
	Samples    []Sample `json:"samples"`
}

// Sample is the state of every widget at one progress value.
type Sample struct {
	Index    int           `json:"index"`
	Progress float64       `json:"progress"`
	TimeMS   float64       `json:"time_ms"`
	Widgets  []WidgetState `json:"widgets"`
	Events   []scene.Event `json:"events,omitempty"`
}

// WidgetState is one interpolated widget. Attrs lists only attributes
// away from their default value.
type WidgetState struct {
	ID         string             `json:"id"`
	X          int                `json:"x"`
	Y          int                `json:"y"`
	Width      int                `json:"width"`
	Height     int                `json:"height"`
	Visibility string             `json:"visibility"`
	Attrs      map[string]float64 `json:"attrs,omitempty"`
	Custom     map[string]string  `json:"custom,omitempty"`
	// Fill is the first color custom attribute by name, as ARGB.
	Fill uint32 `json:"fill,omitempty"`
}

// Attr returns the value of a geometry key ("x", "y", "width",
// "height"), an attribute name, or a numeric custom attribute.
func (w WidgetState) Attr(name string) (float64, error) {
	switch name {
	case "x":
		return float64(w.X), nil
	case "y":
		return float64(w.Y), nil
	case "width":
		return float64(w.Width), nil
	case "height":
		return float64(w.Height), nil
	}
	if a, err := motion.ParseAttr(name); err == nil {
		if v, ok := w.Attrs[a.String()]; ok {
			return v, nil
		}
		return a.Default(), nil
	}
	if s, ok := w.Custom[name]; ok {
		var v float64
		if _, err := fmt.Sscan(s, &v); err == nil {
			return v, nil
		}
		return 0, errors.New(errors.ErrCodeInvalidInput, "custom attribute %q is not numeric", name)
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "unknown attribute %q", name)
}

// Widget returns the state of the widget with the given id.
func (s *Sample) Widget(id string) (WidgetState, bool) {
	for _, w := range s.Widgets {
		if w.ID == id {
			return w, true
		}
	}
	return WidgetState{}, false
}

// Frame converts sample i for the frame renderers.
func (a *Animation) Frame(i int) (frame.Frame, error) {
	if i < 0 || i >= len(a.Samples) {
		return frame.Frame{}, errors.New(errors.ErrCodeInvalidInput, "frame %d out of range [0, %d)", i, len(a.Samples))
	}
	f := frame.Frame{Width: float64(a.Width), Height: float64(a.Height)}
	for _, w := range a.Samples[i].Widgets {
		alpha, _ := w.Attr(motion.Alpha.String())
		rotation, _ := w.Attr(motion.Rotation.String())
		f.Boxes = append(f.Boxes, frame.Box{
			ID:       w.ID,
			Kind:     frame.KindWidget,
			X:        float64(w.X),
			Y:        float64(w.Y),
			Width:    float64(w.Width),
			Height:   float64(w.Height),
			Alpha:    alpha,
			Rotation: rotation,
			Fill:     w.Fill,
			Hidden:   w.Visibility != widgets.Visible.String(),
		})
	}
	return f, nil
}

// Series returns attr of widget over the samples, against progress.
func (a *Animation) Series(widget, attr string) (plot.Series, error) {
	s := plot.Series{Label: widget + "." + attr}
	for _, sm := range a.Samples {
		w, ok := sm.Widget(widget)
		if !ok {
			return s, errors.New(errors.ErrCodeUnknownWidget, "unknown widget %q", widget)
		}
		v, err := w.Attr(attr)
		if err != nil {
			return s, errors.Prefix(err, "widget %q", widget)
		}
		s.X = append(s.X, sm.Progress)
		s.Y = append(s.Y, v)
	}
	return s, nil
}

// Events returns every trigger event of the animation in order.
func (a *Animation) Events() []scene.Event {
	var out []scene.Event
	for _, s := range a.Samples {
		out = append(out, s.Events...)
	}
	return out
}

// =============================================================================
// Animate Stage
// =============================================================================

// NewTransition solves both states of doc and sets up its transition.
// The duration override of opts replaces the scene's.
func NewTransition(ctx context.Context, doc *scene.Document, opts Options) (*scene.Transition, error) {
	if err := opts.ValidateForSolve(); err != nil {
		return nil, err
	}
	if err := opts.ValidateForAnimate(); err != nil {
		return nil, err
	}
	start, _, err := solveState(ctx, doc, doc.Build, opts)
	if err != nil {
		return nil, errors.Prefix(err, "start state")
	}
	end, _, err := solveState(ctx, doc, doc.BuildEnd, opts)
	if err != nil {
		return nil, errors.Prefix(err, "end state")
	}

	hooks := observability.Motion()
	tr, err := doc.Transition(start, end, opts.Logger)
	if err != nil {
		hooks.OnMotionSetup(ctx, "", 0, err)
		return nil, err
	}
	for _, m := range tr.Motions() {
		hooks.OnMotionSetup(ctx, m.Widget().Name(), len(m.Keys()), nil)
	}
	if d, _ := opts.DurationValue(); d > 0 {
		tr.Duration = d
	}
	return tr, nil
}

// Animate samples the transition of doc at opts.Frames evenly spaced
// progress values.
func Animate(ctx context.Context, doc *scene.Document, opts Options) (*Animation, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	tr, err := NewTransition(ctx, doc, opts)
	if err != nil {
		return nil, err
	}

	begin := time.Now()
	a := &Animation{
		Scene:      doc.Name,
		DurationMS: float64(tr.Duration) / float64(time.Millisecond),
		Width:      tr.Width,
		Height:     tr.Height,
	}
	for i := range opts.Frames {
		pos := float64(i) / float64(opts.Frames-1)
		now := time.Duration(pos * float64(tr.Duration))
		events, _ := tr.Apply(pos, now)
		s := Sample{
			Index:    i,
			Progress: pos,
			TimeMS:   float64(now) / float64(time.Millisecond),
			Events:   events,
		}
		for _, fw := range tr.Frames() {
			s.Widgets = append(s.Widgets, stateOf(fw))
		}
		a.Samples = append(a.Samples, s)
	}

	elapsed := time.Since(begin)
	observability.Motion().OnFrames(ctx, opts.Frames, len(tr.Frames()), elapsed)
	opts.Logger.Debug("sampled transition",
		"frames", opts.Frames,
		"widgets", len(tr.Frames()),
		"events", len(a.Events()),
		"duration", elapsed)
	return a, nil
}

func stateOf(fw *motion.FrameWidget) WidgetState {
	f := &fw.Frame
	w := WidgetState{
		ID:         fw.ID,
		X:          f.Left,
		Y:          f.Top,
		Width:      f.Width(),
		Height:     f.Height(),
		Visibility: f.Visibility.String(),
	}
	for _, a := range motion.Attrs() {
		if a == motion.Progress {
			continue
		}
		if v := f.Resolved(a); v != a.Default() {
			if w.Attrs == nil {
				w.Attrs = map[string]float64{}
			}
			w.Attrs[a.String()] = v
		}
	}
	for _, name := range fw.CustomNames() {
		c := fw.Custom(name)
		if w.Custom == nil {
			w.Custom = map[string]string{}
		}
		w.Custom[name] = c.Format()
		if c.Type == motion.ColorType && w.Fill == 0 {
			w.Fill = c.Color()
		}
	}
	return w
}

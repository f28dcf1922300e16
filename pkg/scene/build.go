package scene

import (
	"fmt"
	"maps"
	"strings"

	"github.com/google/uuid"

	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/core/analyzer"
	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/core/widgets"
	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/errors"
)

// DefaultContainerID is the id of a container the document leaves
// unnamed.
const DefaultContainerID = "root"

var (
	// ErrNoWidgets is returned for a document without widgets.
	ErrNoWidgets = errors.New(errors.ErrCodeInvalidScene, "scene has no widgets")

	// idSpace namespaces the generated ids of anonymous widgets.
	idSpace = uuid.MustParse("5b0e6a52-3c8f-4c0e-9a55-1f4b3f0f6d21")
)

// AssignIDs gives every anonymous widget an id derived from the scene
// name and its index, so the same document always yields the same ids.
func (d *Document) AssignIDs() {
	for i := range d.Widgets {
		if d.Widgets[i].ID != "" {
			continue
		}
		u := uuid.NewSHA1(idSpace, fmt.Appendf(nil, "%s/%d", d.Name, i))
		d.Widgets[i].ID = "w-" + u.String()[:8]
	}
}

// Validate checks the document by building both of its states and
// parsing its motion.
func (d *Document) Validate() error {
	d.AssignIDs()
	if len(d.Widgets) == 0 {
		return ErrNoWidgets
	}
	if _, err := d.Container.MeasureSpec(); err != nil {
		return err
	}
	if _, err := d.Build(); err != nil {
		return err
	}
	if d.Motion == nil {
		return nil
	}
	if _, err := d.BuildEnd(); err != nil {
		return err
	}
	return d.Motion.validate(d)
}

// MeasureSpec returns the measure request for the container: fixed
// sizes are imposed, "wrap" leaves the axis unspecified.
func (c ContainerSpec) MeasureSpec() (analyzer.Spec, error) {
	var spec analyzer.Spec
	for i, dim := range []Dim{c.Width, c.Height} {
		p, err := dim.parse()
		if err != nil {
			return spec, errors.Wrap(errors.ErrCodeInvalidScene, err, "container")
		}
		mode, size := analyzer.Unspecified, 0
		switch p.behaviour {
		case widgets.Fixed:
			mode, size = analyzer.Exactly, p.size
		case widgets.WrapContent:
		default:
			return spec, errors.New(errors.ErrCodeInvalidScene, "container size %q must be fixed or wrap", dim)
		}
		if i == 0 {
			spec.WidthMode, spec.Width = mode, size
		} else {
			spec.HeightMode, spec.Height = mode, size
		}
	}
	return spec, nil
}

// Build returns the widget tree of the start state.
func (d *Document) Build() (*widgets.Container, error) {
	return d.build(d.Widgets)
}

// BuildEnd returns the widget tree of the end state: the start state
// with the motion's end overlays applied. Without a motion it equals
// [Document.Build].
func (d *Document) BuildEnd() (*widgets.Container, error) {
	specs, err := d.endSpecs()
	if err != nil {
		return nil, err
	}
	return d.build(specs)
}

func (d *Document) endSpecs() ([]WidgetSpec, error) {
	if d.Motion == nil || len(d.Motion.End) == 0 {
		return d.Widgets, nil
	}
	out := make([]WidgetSpec, len(d.Widgets))
	copy(out, d.Widgets)
	index := make(map[string]int, len(out))
	for i, w := range out {
		index[w.ID] = i
	}
	for _, over := range d.Motion.End {
		i, ok := index[over.ID]
		if !ok {
			return nil, errors.New(errors.ErrCodeUnknownWidget, "end state: unknown widget %q", over.ID)
		}
		out[i] = overlay(out[i], over)
	}
	return out, nil
}

func (d *Document) build(specs []WidgetSpec) (*widgets.Container, error) {
	id := d.Container.ID
	if id == "" {
		id = DefaultContainerID
	}
	c := widgets.NewContainer(id)
	c.Measurer = &widgets.IntrinsicMeasurer{}
	c.RTL = d.Container.RTL
	if d.Container.Optimization != "" {
		opt, ok := widgets.ParseOptimization(d.Container.Optimization)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidScene, "unknown optimization %q", d.Container.Optimization)
		}
		c.Optimization = opt
	}

	b := &builder{c: c, byID: map[string]*widgets.Widget{errors.ParentID: &c.Widget}}
	for _, s := range specs {
		if err := b.declare(s.ID, widgets.NewWidget(s.ID)); err != nil {
			return nil, err
		}
	}
	for _, g := range d.Guidelines {
		w, err := newGuideline(g)
		if err != nil {
			return nil, err
		}
		if err := b.declare(g.ID, w); err != nil {
			return nil, err
		}
	}
	for _, s := range d.Barriers {
		w, err := b.barrier(s)
		if err != nil {
			return nil, err
		}
		if err := b.declare(s.ID, w); err != nil {
			return nil, err
		}
	}
	for _, s := range specs {
		if err := b.configure(b.byID[s.ID], s); err != nil {
			return nil, errors.Prefix(err, "widget %q", s.ID)
		}
	}
	return c, nil
}

type builder struct {
	c    *widgets.Container
	byID map[string]*widgets.Widget
}

func (b *builder) declare(id string, w *widgets.Widget) error {
	if err := errors.ValidateID(id); err != nil {
		return err
	}
	if _, dup := b.byID[id]; dup {
		return errors.New(errors.ErrCodeInvalidScene, "duplicate id %q", id)
	}
	b.byID[id] = w
	b.c.Add(w)
	return nil
}

func newGuideline(s GuidelineSpec) (*widgets.Widget, error) {
	var axis widgets.Orientation
	switch strings.ToLower(s.Orientation) {
	case "vertical":
		axis = widgets.Horizontal
	case "horizontal":
		axis = widgets.Vertical
	default:
		return nil, errors.New(errors.ErrCodeInvalidScene, "guideline %q: orientation must be vertical or horizontal", s.ID)
	}
	w := widgets.NewGuideline(s.ID, axis)
	set := 0
	if s.Begin != nil {
		w.Guideline.SetBegin(*s.Begin)
		set++
	}
	if s.End != nil {
		w.Guideline.SetEnd(*s.End)
		set++
	}
	if s.Percent != nil {
		if *s.Percent < 0 || *s.Percent > 1 {
			return nil, errors.New(errors.ErrCodeInvalidScene, "guideline %q: percent %v outside [0, 1]", s.ID, *s.Percent)
		}
		w.Guideline.SetPercent(*s.Percent)
		set++
	}
	if set != 1 {
		return nil, errors.New(errors.ErrCodeInvalidScene, "guideline %q: exactly one of begin, end and percent must be set", s.ID)
	}
	return w, nil
}

func (b *builder) barrier(s BarrierSpec) (*widgets.Widget, error) {
	side, ok := widgets.ParseAnchorType(strings.ToLower(s.Side))
	if !ok || side.IsCenter() || side == widgets.AnchorBaseline {
		return nil, errors.New(errors.ErrCodeInvalidScene, "barrier %q: invalid side %q", s.ID, s.Side)
	}
	if len(s.Refs) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidScene, "barrier %q: no referenced widgets", s.ID)
	}
	refs := make([]*widgets.Widget, len(s.Refs))
	for i, id := range s.Refs {
		w, ok := b.byID[id]
		if !ok || id == errors.ParentID {
			return nil, errors.New(errors.ErrCodeUnknownWidget, "barrier %q: unknown widget %q", s.ID, id)
		}
		refs[i] = w
	}
	w := widgets.NewBarrier(s.ID, side, refs...)
	w.Barrier.Margin = s.Margin
	w.Barrier.AllowsGoneWidget = s.AllowGone
	return w, nil
}

func (b *builder) configure(w *widgets.Widget, s WidgetSpec) error {
	if err := setDimension(w, widgets.Horizontal, s.Width, s.MinWidth, s.MaxWidth); err != nil {
		return err
	}
	if err := setDimension(w, widgets.Vertical, s.Height, s.MinHeight, s.MaxHeight); err != nil {
		return err
	}
	w.Content = s.Content
	if s.Content.Baseline > 0 {
		w.SetBaselineDistance(s.Content.Baseline)
	}
	if s.Ratio != "" {
		if err := w.SetDimensionRatio(s.Ratio); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidScene, err, "ratio")
		}
	}
	if s.HorizontalBias != nil {
		w.Bias[widgets.Horizontal] = *s.HorizontalBias
	}
	if s.VerticalBias != nil {
		w.Bias[widgets.Vertical] = *s.VerticalBias
	}
	for o, name := range [2]string{s.HorizontalChain, s.VerticalChain} {
		style, ok := widgets.ParseChainStyle(name)
		if !ok {
			return errors.New(errors.ErrCodeInvalidScene, "unknown chain style %q", name)
		}
		w.ChainStyle[o] = style
	}
	w.Weight = [2]float64{s.HorizontalWeight, s.VerticalWeight}
	v, err := parseVisibility(s.Visibility)
	if err != nil {
		return err
	}
	w.Visibility = v

	sides := []struct {
		from widgets.AnchorType
		c    Constraint
	}{
		{widgets.AnchorLeft, s.Left},
		{widgets.AnchorRight, s.Right},
		{widgets.AnchorTop, s.Top},
		{widgets.AnchorBottom, s.Bottom},
		{widgets.AnchorBaseline, s.Baseline},
		{widgets.AnchorCenter, s.Center},
		{widgets.AnchorCenterX, s.CenterX},
		{widgets.AnchorCenterY, s.CenterY},
	}
	for _, side := range sides {
		if side.c.To == "" || side.c.cleared() {
			continue
		}
		if err := b.connect(w, side.from, side.c, s.Margin); err != nil {
			return err
		}
	}
	return nil
}

func setDimension(w *widgets.Widget, o widgets.Orientation, d Dim, minSize, maxSize int) error {
	p, err := d.parse()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidScene, err, "%s", o)
	}
	if maxSize > 0 && minSize > maxSize {
		return errors.New(errors.ErrCodeInvalidScene, "%s: min %d greater than max %d", o, minSize, maxSize)
	}
	switch p.behaviour {
	case widgets.MatchConstraint:
		w.SetMatchConstraint(o, p.match, minSize, maxSize, p.percent)
	case widgets.Fixed:
		w.Behaviour[o] = widgets.Fixed
		w.SetDimension(o, p.size)
	default:
		w.Behaviour[o] = p.behaviour
	}
	return nil
}

// connect resolves a constraint reference and links the anchors.
func (b *builder) connect(w *widgets.Widget, from widgets.AnchorType, c Constraint, defaultMargin int) error {
	id, to, err := b.resolve(c.To, from)
	if err != nil {
		return err
	}
	target := b.byID[id]
	if target == w {
		return errors.New(errors.ErrCodeInvalidScene, "%s constrained to itself", from)
	}
	margin := c.margin(defaultMargin)
	var ok bool
	if c.GoneMargin != nil && !from.IsCenter() {
		ok = w.Anchor(from).ConnectWithGoneMargin(target.Anchor(to), margin, *c.GoneMargin)
	} else {
		ok = w.Connect(from, target, to, margin)
	}
	if !ok {
		return errors.New(errors.ErrCodeInvalidScene, "invalid connection %s -> %s", from, c.To)
	}
	return nil
}

// resolve splits a reference into a known id and an anchor type. Center
// constraints may name a widget alone.
func (b *builder) resolve(ref string, from widgets.AnchorType) (string, widgets.AnchorType, error) {
	var id, side string
	if from.IsCenter() && !strings.Contains(ref, ".") {
		id = ref
	} else {
		var err error
		if id, side, err = errors.ParseRef(ref); err != nil {
			return "", widgets.AnchorNone, err
		}
	}
	if _, ok := b.byID[id]; !ok {
		return "", widgets.AnchorNone, errors.New(errors.ErrCodeUnknownWidget, "unknown widget %q in %q", id, ref)
	}
	if side == "" {
		return id, from, nil
	}
	to, ok := widgets.ParseAnchorType(side)
	if !ok {
		return "", widgets.AnchorNone, errors.New(errors.ErrCodeInvalidScene, "unknown anchor %q in %q", side, ref)
	}
	return id, to, nil
}

func parseVisibility(s string) (widgets.Visibility, error) {
	switch strings.ToLower(s) {
	case "", "visible":
		return widgets.Visible, nil
	case "invisible":
		return widgets.Invisible, nil
	case "gone":
		return widgets.Gone, nil
	}
	return widgets.Visible, errors.New(errors.ErrCodeInvalidScene, "unknown visibility %q", s)
}

// overlay applies the set fields of over on top of base.
func overlay(base, over WidgetSpec) WidgetSpec {
	out := base
	if over.Width != "" {
		out.Width = over.Width
	}
	if over.Height != "" {
		out.Height = over.Height
	}
	for _, f := range []struct{ dst, src *int }{
		{&out.MinWidth, &over.MinWidth},
		{&out.MaxWidth, &over.MaxWidth},
		{&out.MinHeight, &over.MinHeight},
		{&out.MaxHeight, &over.MaxHeight},
		{&out.Margin, &over.Margin},
	} {
		if *f.src != 0 {
			*f.dst = *f.src
		}
	}
	for _, f := range []struct{ dst, src *Constraint }{
		{&out.Left, &over.Left},
		{&out.Right, &over.Right},
		{&out.Top, &over.Top},
		{&out.Bottom, &over.Bottom},
		{&out.Baseline, &over.Baseline},
		{&out.CenterX, &over.CenterX},
		{&out.CenterY, &over.CenterY},
		{&out.Center, &over.Center},
	} {
		if !f.src.IsZero() {
			*f.dst = *f.src
		}
	}
	for _, f := range []struct{ dst, src *string }{
		{&out.HorizontalChain, &over.HorizontalChain},
		{&out.VerticalChain, &over.VerticalChain},
		{&out.Ratio, &over.Ratio},
		{&out.Visibility, &over.Visibility},
	} {
		if *f.src != "" {
			*f.dst = *f.src
		}
	}
	if over.HorizontalBias != nil {
		out.HorizontalBias = over.HorizontalBias
	}
	if over.VerticalBias != nil {
		out.VerticalBias = over.VerticalBias
	}
	if over.HorizontalWeight != 0 {
		out.HorizontalWeight = over.HorizontalWeight
	}
	if over.VerticalWeight != 0 {
		out.VerticalWeight = over.VerticalWeight
	}
	if over.Content != (widgets.Content{}) {
		out.Content = over.Content
	}
	if len(over.Attrs) > 0 {
		out.Attrs = make(map[string]float64, len(base.Attrs)+len(over.Attrs))
		maps.Copy(out.Attrs, base.Attrs)
		maps.Copy(out.Attrs, over.Attrs)
	}
	if len(over.Custom) > 0 {
		out.Custom = append([]CustomSpec(nil), base.Custom...)
		for _, c := range over.Custom {
			replaced := false
			for i := range out.Custom {
				if out.Custom[i].Name == c.Name {
					out.Custom[i] = c
					replaced = true
				}
			}
			if !replaced {
				out.Custom = append(out.Custom, c)
			}
		}
	}
	return out
}

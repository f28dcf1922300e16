package analyzer

import (
	"slices"

	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/core/widgets"
)

// Grouping sizes a wrap-content container by splitting its children into
// independently connected groups and solving each group alone. The
// container takes the size of the largest group on each wrap axis.
type Grouping struct {
	// Groups holds the groups of the last pass, emptied groups included.
	Groups []*WidgetGroup
}

// ValidInGroup reports whether w can take part in grouping in c: at
// least one of its axes must have a size that does not depend on the
// container.
func ValidInGroup(c *widgets.Container, w *widgets.Widget) bool {
	if w.IsHelper() {
		return true
	}
	fixed := func(o widgets.Orientation) bool {
		switch w.EffectiveBehaviour(o) {
		case widgets.Fixed, widgets.WrapContent:
			return true
		case widgets.MatchParent:
			return c.Behaviour[o] != widgets.WrapContent
		}
		return false
	}
	return fixed(widgets.Horizontal) || fixed(widgets.Vertical)
}

// SimpleSolvingPass sizes every wrap-content axis of c and seeds the
// frames of the winning group on each. It reports false, changing
// nothing, when c has no wrap axis or a child cannot be grouped.
func (gr *Grouping) SimpleSolvingPass(c *widgets.Container, seq *Sequence) bool {
	gr.Groups = nil
	wrap := [2]bool{
		c.Behaviour[widgets.Horizontal] == widgets.WrapContent,
		c.Behaviour[widgets.Vertical] == widgets.WrapContent,
	}
	if !wrap[widgets.Horizontal] && !wrap[widgets.Vertical] {
		return false
	}
	for _, w := range c.Children {
		if !ValidInGroup(c, w) {
			return false
		}
	}
	if seq == nil {
		seq = &Sequence{}
	}

	var member [2]map[*widgets.Widget]*WidgetGroup
	for _, o := range axes {
		member[o] = make(map[*widgets.Widget]*WidgetGroup)
		for _, a := range c.AxisAnchors(o) {
			for _, dep := range a.Dependents() {
				gr.collect(c, dep.Owner, o, seq, member[o])
			}
		}
		for _, w := range c.Children {
			if w.IsHelper() && helperAxis(w) != o {
				continue
			}
			gr.collect(c, w, o, seq, member[o])
		}
	}

	for _, w := range c.Children {
		if w.Ratio <= 0 {
			continue
		}
		hg, vg := member[widgets.Horizontal][w], member[widgets.Vertical][w]
		if hg == nil || vg == nil || hg == vg {
			continue
		}
		for _, x := range hg.Widgets {
			member[widgets.Horizontal][x] = vg
		}
		hg.MoveTo(vg)
		vg.Orientation = widgets.AnyOrientation
	}

	for _, o := range axes {
		if !wrap[o] {
			continue
		}
		best := -1
		var win *WidgetGroup
		for _, g := range gr.Groups {
			if len(g.Widgets) == 0 || (g.Orientation != o && g.Orientation != widgets.AnyOrientation) {
				continue
			}
			if size := g.MeasureWrap(c, o); size > best {
				best, win = size, g
			}
		}
		if win == nil {
			continue
		}
		c.SetDimension(o, best)
		win.Apply()
		for _, g := range gr.Groups {
			g.results = nil
		}
	}
	return true
}

// collect puts w and everything connected to it on axis o into one
// group, unless w is already grouped.
func (gr *Grouping) collect(c *widgets.Container, w *widgets.Widget, o widgets.Orientation, seq *Sequence, member map[*widgets.Widget]*WidgetGroup) {
	if c.IsParent(w) || member[w] != nil {
		return
	}
	g := NewWidgetGroup(seq, o)
	gr.Groups = append(gr.Groups, g)
	stack := []*widgets.Widget{w}
	push := func(x *widgets.Widget) {
		if x != nil && !c.IsParent(x) && member[x] == nil {
			stack = append(stack, x)
		}
	}
	for len(stack) > 0 {
		x := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if member[x] != nil {
			continue
		}
		member[x] = g
		g.Add(x)
		if x.IsHelper() && helperAxis(x) != o {
			continue
		}
		for _, a := range x.AxisAnchors(o) {
			if a.Target != nil {
				push(a.Target.Owner)
			}
			for _, dep := range a.Dependents() {
				push(dep.Owner)
			}
		}
		if b := x.Barrier; b != nil {
			for _, r := range b.Refs {
				push(r)
			}
		}
		for _, bw := range c.Barriers() {
			if bw.Barrier.Axis() == o && slices.Contains(bw.Barrier.Refs, x) {
				push(bw)
			}
		}
	}
}

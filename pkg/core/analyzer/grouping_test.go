package analyzer

import (
	"testing"

	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/core/widgets"
)

func TestSimpleSolvingPass(t *testing.T) {
	c := widgets.NewContainer("root")
	c.Behaviour = [2]widgets.DimensionBehaviour{widgets.WrapContent, widgets.WrapContent}
	a := fixed("a", 100, 40)
	b := fixed("b", 200, 20)
	c.Add(a, b)
	a.Left.Connect(&c.Left, 10)
	a.Top.Connect(&c.Top, 10)
	b.Left.Connect(&c.Left, 0)
	b.Right.Connect(&c.Right, 0)

	var gr Grouping
	seq := &Sequence{}
	if !gr.SimpleSolvingPass(c, seq) {
		t.Fatal("SimpleSolvingPass() = false, want true")
	}
	if c.Width() != 200 || c.Height() != 50 {
		t.Errorf("container = %dx%d, want 200x50", c.Width(), c.Height())
	}
	if len(gr.Groups) != 4 {
		t.Errorf("len(Groups) = %d, want 4", len(gr.Groups))
	}
	if seq.Last() != len(gr.Groups) {
		t.Errorf("sequence at %d, want %d", seq.Last(), len(gr.Groups))
	}
	for _, g := range gr.Groups {
		if len(g.Results()) != 0 {
			t.Errorf("group %d still holds %d results", g.ID, len(g.Results()))
		}
	}
}

func TestSimpleSolvingPassDeclines(t *testing.T) {
	t.Run("fixed container", func(t *testing.T) {
		c := fixedContainer(100, 100)
		c.Add(fixed("a", 10, 10))
		var gr Grouping
		if gr.SimpleSolvingPass(c, nil) {
			t.Error("SimpleSolvingPass() = true without a wrap axis")
		}
	})
	t.Run("match constraint child", func(t *testing.T) {
		c := widgets.NewContainer("root")
		c.Behaviour = [2]widgets.DimensionBehaviour{widgets.WrapContent, widgets.WrapContent}
		a := widgets.NewWidget("a")
		a.SetBehaviour(widgets.MatchConstraint, widgets.MatchConstraint)
		c.Add(a)
		a.Connect(widgets.AnchorCenter, &c.Widget, widgets.AnchorCenter, 0)
		var gr Grouping
		if gr.SimpleSolvingPass(c, nil) {
			t.Error("SimpleSolvingPass() = true with an ungroupable child")
		}
	})
}

func TestWidgetGroup(t *testing.T) {
	seq := &Sequence{}
	a, b, d := fixed("a", 1, 1), fixed("b", 1, 1), fixed("d", 1, 1)
	g1 := NewWidgetGroup(seq, widgets.Horizontal)
	g2 := NewWidgetGroup(seq, widgets.Vertical)
	if g1.ID == g2.ID {
		t.Fatalf("groups share id %d", g1.ID)
	}
	g1.Add(a)
	if g1.Add(a) {
		t.Error("Add() of a member = true, want false")
	}
	g1.Add(b)
	g2.Add(b)
	g2.Add(d)
	if !g1.Intersects(g2) {
		t.Error("Intersects() = false, want true")
	}
	g1.MoveTo(g2)
	if len(g1.Widgets) != 0 || len(g2.Widgets) != 3 {
		t.Errorf("after MoveTo: %d and %d widgets, want 0 and 3", len(g1.Widgets), len(g2.Widgets))
	}
}

func TestWidgetGroupApply(t *testing.T) {
	c := widgets.NewContainer("root")
	c.Behaviour = [2]widgets.DimensionBehaviour{widgets.WrapContent, widgets.WrapContent}
	a := fixed("a", 30, 20)
	c.Add(a)
	a.Left.Connect(&c.Left, 5)
	a.Top.Connect(&c.Top, 7)

	g := NewWidgetGroup(&Sequence{}, widgets.Horizontal)
	g.Add(a)
	if got := g.MeasureWrap(c, widgets.Horizontal); got != 35 {
		t.Errorf("MeasureWrap() = %d, want 35", got)
	}
	if a.X() != 0 {
		t.Error("MeasureWrap must not move widgets")
	}
	res := g.Results()
	if len(res) != 1 || res[0].Widget != a || res[0].Left != 5 || res[0].Bottom != 27 {
		t.Errorf("Results() = %+v", res)
	}
	g.Apply()
	if a.X() != 5 || a.Y() != 7 || a.Width() != 30 {
		t.Errorf("a = %v after Apply", a)
	}
	if len(g.Results()) != 0 {
		t.Error("Apply() kept its results")
	}
}

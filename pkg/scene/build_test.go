package scene

import (
	"testing"

	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/core/analyzer"
	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/core/widgets"
)

func mustParse(t *testing.T, src string) *Document {
	t.Helper()
	doc, err := Parse([]byte(src), FormatTOML)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return doc
}

func solve(t *testing.T, doc *Document, c *widgets.Container) {
	t.Helper()
	spec, err := doc.Container.MeasureSpec()
	if err != nil {
		t.Fatalf("MeasureSpec() error = %v", err)
	}
	if res := analyzer.NewBasicMeasure(c).SolverMeasure(spec); !res.Converged {
		t.Fatalf("SolverMeasure() = %+v, want converged", res)
	}
}

type rect struct{ x, y, w, h int }

func boundsOf(w *widgets.Widget) rect { return rect{w.X(), w.Y(), w.Width(), w.Height()} }

func TestBuild(t *testing.T) {
	doc := mustParse(t, cardTOML)
	c, err := doc.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if c.ID != DefaultContainerID || len(c.Children) != 3 {
		t.Fatalf("Build() = %s with %d children", c.ID, len(c.Children))
	}
	body := c.Find("body")
	if body.Behaviour[widgets.Horizontal] != widgets.MatchConstraint || body.Behaviour[widgets.Vertical] != widgets.WrapContent {
		t.Errorf("body behaviour = %v, want [match_constraint wrap]", body.Behaviour)
	}
	if body.Visibility != widgets.Invisible {
		t.Errorf("body visibility = %v, want invisible", body.Visibility)
	}
	if title := c.Find("title"); title.Top.Margin != 16 || title.BaselineDistance() != 15 {
		t.Errorf("title top margin = %d, baseline = %d, want 16, 15", title.Top.Margin, title.BaselineDistance())
	}

	solve(t, doc, c)
	tests := map[string]rect{
		"title": {150, 16, 100, 20},
		"body":  {200, 36, 200, 0},
	}
	for id, want := range tests {
		if got := boundsOf(c.Find(id)); got != want {
			t.Errorf("%s = %+v, want %+v", id, got, want)
		}
	}
	if x := c.Find("mid").X(); x != 200 {
		t.Errorf("mid x = %d, want 200", x)
	}
}

func TestBuildLayouts(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want map[string]rect
	}{
		{
			name: "spread chain",
			src: `
[container]
width = 500
height = 100
[[widget]]
id = "a"
width = 100
height = 100
left = "parent.left"
right = "b.left"
[[widget]]
id = "b"
width = 100
height = 100
left = "a.right"
right = "c.left"
[[widget]]
id = "c"
width = 100
height = 100
left = "b.right"
right = "parent.right"
`,
			want: map[string]rect{"a": {50, 0, 100, 100}, "b": {200, 0, 100, 100}, "c": {350, 0, 100, 100}},
		},
		{
			name: "ratio",
			src: `
[container]
width = 400
height = 300
[[widget]]
id = "r"
width = "match"
height = 100
ratio = "2:1"
left = "parent.left"
right = "parent.right"
`,
			want: map[string]rect{"r": {100, 0, 200, 100}},
		},
		{
			name: "barrier",
			src: `
[container]
width = 400
height = 300
[[widget]]
id = "a"
width = 100
height = 20
left = "parent.left"
top = "parent.top"
[[widget]]
id = "b"
width = 150
height = 20
left = "parent.left"
top = "a.bottom"
[[widget]]
id = "c"
width = 50
height = 20
left = { to = "bar.right", margin = 5 }
top = "parent.top"
[[barrier]]
id = "bar"
side = "right"
refs = ["a", "b"]
`,
			want: map[string]rect{"a": {0, 0, 100, 20}, "b": {0, 20, 150, 20}, "c": {155, 0, 50, 20}},
		},
		{
			name: "center and bias",
			src: `
[container]
width = 500
height = 100
[[widget]]
id = "a"
width = 100
height = 20
center = "parent"
horizontal_bias = 0.0
`,
			want: map[string]rect{"a": {0, 40, 100, 20}},
		},
		{
			name: "guideline from end",
			src: `
[container]
width = 400
height = 300
[[widget]]
id = "a"
width = 40
height = 20
right = "g.left"
[[guideline]]
id = "g"
orientation = "vertical"
end = 100
`,
			want: map[string]rect{"a": {260, 0, 40, 20}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustParse(t, tt.src)
			c, err := doc.Build()
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			solve(t, doc, c)
			for id, want := range tt.want {
				if got := boundsOf(c.Find(id)); got != want {
					t.Errorf("%s = %+v, want %+v", id, got, want)
				}
			}
		})
	}
}

func TestMeasureSpec(t *testing.T) {
	tests := []struct {
		c       ContainerSpec
		want    analyzer.Spec
		wantErr bool
	}{
		{ContainerSpec{Width: "400", Height: "300"}, analyzer.ExactSpec(400, 300), false},
		{ContainerSpec{Width: "400"}, analyzer.Spec{WidthMode: analyzer.Exactly, Width: 400}, false},
		{ContainerSpec{}, analyzer.Spec{}, false},
		{ContainerSpec{Width: "parent"}, analyzer.Spec{}, true},
	}
	for _, tt := range tests {
		got, err := tt.c.MeasureSpec()
		if (err != nil) != tt.wantErr {
			t.Errorf("MeasureSpec(%+v) error = %v, wantErr %v", tt.c, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("MeasureSpec(%+v) = %+v, want %+v", tt.c, got, tt.want)
		}
	}
}

func TestBuildEnd(t *testing.T) {
	doc := mustParse(t, cardTOML+`
[motion]
[[motion.end]]
id = "title"
top = "none"
bottom = { to = "parent.bottom", margin = 10 }
width = 200
`)
	c, err := doc.BuildEnd()
	if err != nil {
		t.Fatalf("BuildEnd() error = %v", err)
	}
	solve(t, doc, c)
	if got, want := boundsOf(c.Find("title")), (rect{100, 270, 200, 20}); got != want {
		t.Errorf("title = %+v, want %+v", got, want)
	}

	start, err := doc.Build()
	if err != nil {
		t.Fatal(err)
	}
	if start.Find("title").Width() != 100 {
		t.Error("BuildEnd() changed the start state")
	}
}

func TestOverlay(t *testing.T) {
	base := WidgetSpec{
		ID:     "a",
		Width:  "100",
		Left:   To("parent.left"),
		Attrs:  map[string]float64{"alpha": 1, "rotation": 0},
		Custom: []CustomSpec{{Name: "tint", Type: "color", Value: "#000000"}},
	}
	over := WidgetSpec{
		ID:     "a",
		Left:   To("none"),
		Attrs:  map[string]float64{"alpha": 0},
		Custom: []CustomSpec{{Name: "tint", Type: "color", Value: "#FFFFFF"}, {Name: "size", Type: "float", Value: 2.0}},
	}
	got := overlay(base, over)
	if got.Width != "100" || !got.Left.cleared() {
		t.Errorf("overlay() width = %q, left = %+v", got.Width, got.Left)
	}
	if got.Attrs["alpha"] != 0 || got.Attrs["rotation"] != 0 || len(got.Attrs) != 2 {
		t.Errorf("overlay() attrs = %v", got.Attrs)
	}
	if base.Attrs["alpha"] != 1 {
		t.Error("overlay() modified the base attrs")
	}
	if len(got.Custom) != 2 || got.Custom[0].Value != "#FFFFFF" {
		t.Errorf("overlay() custom = %+v", got.Custom)
	}
	if base.Custom[0].Value != "#000000" {
		t.Error("overlay() modified the base custom attributes")
	}
}

package pipeline

import (
	"bytes"
	"context"
	stderrors "errors"
	"image/png"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/cache"
	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/core/analyzer"
	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/errors"
	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/scene"
)

const slideTOML = `
name = "slide"

[container]
width = 400
height = 300

[[widget]]
id = "box"
width = 100
height = 20
left = "parent.left"
top = "parent.top"
attrs = { alpha = 1 }
custom = [{ name = "tint", type = "color", value = "#FF0000" }]

[[widget]]
id = "label"
width = 50
height = 10
right = "parent.right"
bottom = "parent.bottom"

[[guideline]]
id = "mid"
orientation = "vertical"
percent = 0.5

[motion]
duration = "250ms"

[[motion.end]]
id = "box"
top = "none"
bottom = "parent.bottom"
attrs = { alpha = 0 }

[[motion.key]]
type = "trigger"
target = "box"
frame = 50
on_cross = "half"
`

func mustParse(t *testing.T, src string) *scene.Document {
	t.Helper()
	doc, err := scene.Parse([]byte(src), scene.FormatTOML)
	if err != nil {
		t.Fatalf("scene.Parse() error = %v", err)
	}
	return doc
}

// =============================================================================
// Validation
// =============================================================================

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"json", false},
		{"dot", true},
		{"pdf", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateGraphFormat(t *testing.T) {
	for _, f := range []string{"dot", "svg", "json"} {
		if err := ValidateGraphFormat(f); err != nil {
			t.Errorf("ValidateGraphFormat(%q) error = %v", f, err)
		}
	}
	if err := ValidateGraphFormat("png"); !errors.Is(err, errors.ErrCodeInvalidOptions) {
		t.Errorf("ValidateGraphFormat(png) error = %v, want invalid options", err)
	}
}

func TestValidateForSolve(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"defaults", Options{}, false},
		{"size only", Options{Width: 320}, false},
		{"wrap", Options{WidthMode: ModeWrap, HeightMode: ModeWrap}, false},
		{"at most", Options{Height: 200, HeightMode: ModeAtMost}, false},
		{"optimization", Options{Optimization: "standard"}, false},
		{"unknown mode", Options{WidthMode: "fill"}, true},
		{"mode without size", Options{WidthMode: ModeExactly}, true},
		{"negative size", Options{Height: -1}, true},
		{"size too large", Options{Width: MaxSize + 1}, true},
		{"bad optimization", Options{Optimization: "turbo"}, true},
		{"bad format", Options{Formats: []string{"gif"}}, true},
		{"negative scale", Options{Scale: -1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateForSolve()
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateForSolve() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateForAnimate(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"defaults", Options{}, false},
		{"duration", Options{Duration: "300ms"}, false},
		{"one frame", Options{Frames: 1}, true},
		{"too many frames", Options{Frames: MaxFrames + 1}, true},
		{"bad duration", Options{Duration: "soon"}, true},
		{"negative duration", Options{Duration: "-1s"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateForAnimate()
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateForAnimate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}
	if opts.Frames != DefaultFrames || opts.Scale != DefaultScale || opts.Logger == nil {
		t.Errorf("defaults = frames %d scale %v, want %d %v", opts.Frames, opts.Scale, DefaultFrames, DefaultScale)
	}
	if diff := cmp.Diff([]string{FormatSVG}, opts.Formats); diff != "" {
		t.Errorf("Formats mismatch (-want +got):\n%s", diff)
	}

	// Idempotent
	opts.Frames = 0
	if err := opts.ValidateAndSetDefaults(); err != nil || opts.Frames != 0 {
		t.Errorf("second ValidateAndSetDefaults() changed options: frames %d, err %v", opts.Frames, err)
	}
}

func TestMeasureSpec(t *testing.T) {
	base := analyzer.Spec{WidthMode: analyzer.Exactly, Width: 400, HeightMode: analyzer.AtMost, Height: 300}
	tests := []struct {
		name string
		opts Options
		want analyzer.Spec
	}{
		{"no override", Options{}, base},
		{"size means exactly", Options{Height: 120}, analyzer.Spec{WidthMode: analyzer.Exactly, Width: 400, HeightMode: analyzer.Exactly, Height: 120}},
		{"at most", Options{Width: 200, WidthMode: ModeAtMost}, analyzer.Spec{WidthMode: analyzer.AtMost, Width: 200, HeightMode: analyzer.AtMost, Height: 300}},
		{"wrap", Options{WidthMode: ModeWrap, Width: 50}, analyzer.Spec{WidthMode: analyzer.Unspecified, HeightMode: analyzer.AtMost, Height: 300}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.opts.MeasureSpec(base)); diff != "" {
				t.Errorf("MeasureSpec() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseFormats(t *testing.T) {
	got := ParseFormats(" svg, PNG,,svg ,json")
	if diff := cmp.Diff([]string{"svg", "png", "json"}, got); diff != "" {
		t.Errorf("ParseFormats() mismatch (-want +got):\n%s", diff)
	}
}

func TestKeyOpts(t *testing.T) {
	a := Options{Width: 200}
	b := Options{Width: 200, Direct: true}
	if a.SolveKeyOpts() == b.SolveKeyOpts() {
		t.Error("SolveKeyOpts() ignores Direct")
	}
	c := Options{Frames: 10, Duration: "1s"}
	if got := c.AnimateKeyOpts(); got.Frames != 10 || got.Duration.Seconds() != 1 {
		t.Errorf("AnimateKeyOpts() = %+v", got)
	}
	if got := (&Options{Scale: 3, Labels: true}).ArtifactKeyOpts("png"); got.Format != "png" || got.Scale != 3 || !got.Labels {
		t.Errorf("ArtifactKeyOpts() = %+v", got)
	}
}

// =============================================================================
// Stages
// =============================================================================

func TestSolve(t *testing.T) {
	doc := mustParse(t, slideTOML)
	l, err := Solve(context.Background(), doc, Options{})
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if l.Scene != "slide" || l.Width != 400 || l.Height != 300 || !l.Converged {
		t.Errorf("Solve() = %q %dx%d converged %v", l.Scene, l.Width, l.Height, l.Converged)
	}

	tests := []struct {
		id   string
		want Rect
	}{
		{"box", Rect{ID: "box", Kind: "widget", Width: 100, Height: 20, Visibility: "visible"}},
		{"label", Rect{ID: "label", Kind: "widget", X: 350, Y: 290, Width: 50, Height: 10, Visibility: "visible"}},
		{"mid", Rect{ID: "mid", Kind: "guideline", X: 200, Height: 300}},
	}
	for _, tt := range tests {
		got, ok := l.Rect(tt.id)
		if !ok {
			t.Errorf("Rect(%q) missing", tt.id)
			continue
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("Rect(%q) mismatch (-want +got):\n%s", tt.id, diff)
		}
	}
}

func TestSolveOverrides(t *testing.T) {
	doc := mustParse(t, slideTOML)
	l, err := Solve(context.Background(), doc, Options{Width: 200, Height: 100, Direct: true})
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if l.Width != 200 || l.Height != 100 {
		t.Errorf("Solve() size = %dx%d, want 200x100", l.Width, l.Height)
	}
	if r, _ := l.Rect("label"); r.X != 150 || r.Y != 90 {
		t.Errorf("label = (%d, %d), want (150, 90)", r.X, r.Y)
	}
}

func TestSolveInvalidOptions(t *testing.T) {
	doc := mustParse(t, slideTOML)
	_, err := Solve(context.Background(), doc, Options{Frames: 0, Formats: []string{"gif"}})
	if !errors.Is(err, errors.ErrCodeInvalidOptions) {
		t.Errorf("Solve() error = %v, want invalid options", err)
	}
}

func TestLayoutFrame(t *testing.T) {
	doc := mustParse(t, slideTOML)
	l, err := Solve(context.Background(), doc, Options{})
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	f := l.Frame()
	if f.Width != 400 || len(f.Boxes) != 3 {
		t.Fatalf("Frame() = %vx%v with %d boxes", f.Width, f.Height, len(f.Boxes))
	}
	if f.Boxes[0].Alpha != 1 || f.Boxes[0].Hidden {
		t.Errorf("box = %+v, want opaque and shown", f.Boxes[0])
	}
	if !f.Boxes[2].IsHelper() {
		t.Errorf("guideline box = %+v, want a helper", f.Boxes[2])
	}
}

func TestGraph(t *testing.T) {
	doc := mustParse(t, slideTOML)
	s, err := Graph(context.Background(), doc, Options{Direct: true})
	if err != nil {
		t.Fatalf("Graph() error = %v", err)
	}
	if len(s.Nodes) == 0 || len(s.Edges) == 0 {
		t.Errorf("Graph() = %d nodes, %d edges, want a populated graph", len(s.Nodes), len(s.Edges))
	}
}

func TestAnimate(t *testing.T) {
	doc := mustParse(t, slideTOML)
	a, err := Animate(context.Background(), doc, Options{Frames: 5})
	if err != nil {
		t.Fatalf("Animate() error = %v", err)
	}
	if a.DurationMS != 250 || len(a.Samples) != 5 {
		t.Fatalf("Animate() = %vms with %d samples, want 250ms and 5", a.DurationMS, len(a.Samples))
	}

	tests := []struct {
		index    int
		progress float64
		y        int
		alpha    float64
	}{
		{0, 0, 0, 1},
		{2, 0.5, 140, 0.5},
		{4, 1, 280, 0},
	}
	for _, tt := range tests {
		s := a.Samples[tt.index]
		if s.Progress != tt.progress {
			t.Errorf("sample %d progress = %v, want %v", tt.index, s.Progress, tt.progress)
		}
		box, ok := s.Widget("box")
		if !ok {
			t.Fatalf("sample %d has no box", tt.index)
		}
		if box.Y != tt.y {
			t.Errorf("sample %d box y = %d, want %d", tt.index, box.Y, tt.y)
		}
		if got, _ := box.Attr("alpha"); math.Abs(got-tt.alpha) > 1e-9 {
			t.Errorf("sample %d box alpha = %v, want %v", tt.index, got, tt.alpha)
		}
		if box.Fill != 0xFFFF0000 {
			t.Errorf("sample %d box fill = %#x, want 0xffff0000", tt.index, box.Fill)
		}
	}

	events := a.Events()
	if len(events) != 1 || events[0].Widget != "box" || events[0].Name != "half" {
		t.Errorf("Events() = %+v, want one half event on box", events)
	}
}

func TestAnimateDurationOverride(t *testing.T) {
	doc := mustParse(t, slideTOML)
	a, err := Animate(context.Background(), doc, Options{Frames: 2, Duration: "1s"})
	if err != nil {
		t.Fatalf("Animate() error = %v", err)
	}
	if a.DurationMS != 1000 || a.Samples[1].TimeMS != 1000 {
		t.Errorf("Animate() duration = %vms, last sample at %vms, want 1000", a.DurationMS, a.Samples[1].TimeMS)
	}
}

func TestAnimateZeroOptions(t *testing.T) {
	doc := mustParse(t, slideTOML)
	a, err := Animate(context.Background(), doc, Options{})
	if err != nil {
		t.Fatalf("Animate() error = %v", err)
	}
	if len(a.Samples) != DefaultFrames {
		t.Errorf("Animate() samples = %d, want %d", len(a.Samples), DefaultFrames)
	}
}

func TestAnimationSeries(t *testing.T) {
	doc := mustParse(t, slideTOML)
	a, err := Animate(context.Background(), doc, Options{Frames: 3})
	if err != nil {
		t.Fatalf("Animate() error = %v", err)
	}
	s, err := a.Series("box", "y")
	if err != nil {
		t.Fatalf("Series() error = %v", err)
	}
	want := []float64{0, 140, 280}
	if diff := cmp.Diff(want, s.Y); diff != "" {
		t.Errorf("Series(box, y) mismatch (-want +got):\n%s", diff)
	}

	if _, err := a.Series("ghost", "y"); !errors.Is(err, errors.ErrCodeUnknownWidget) {
		t.Errorf("Series(ghost) error = %v, want unknown widget", err)
	}
	if _, err := a.Series("box", "wobble"); err == nil {
		t.Error("Series(box, wobble) error = nil, want error")
	}
}

// =============================================================================
// Rendering
// =============================================================================

func TestRenderLayout(t *testing.T) {
	doc := mustParse(t, slideTOML)
	l, err := Solve(context.Background(), doc, Options{})
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	artifacts, err := RenderLayout(l, Options{Formats: []string{FormatSVG, FormatPNG, FormatJSON}, Scale: 1, Helpers: true})
	if err != nil {
		t.Fatalf("RenderLayout() error = %v", err)
	}
	if svg := string(artifacts[FormatSVG]); !strings.Contains(svg, `id="widget-box"`) || !strings.Contains(svg, `id="guideline-mid"`) {
		t.Errorf("svg is missing the box or the guideline:\n%s", svg)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(artifacts[FormatPNG]))
	if err != nil {
		t.Fatalf("png.DecodeConfig() error = %v", err)
	}
	if cfg.Width != 400 || cfg.Height != 300 {
		t.Errorf("png size = %dx%d, want 400x300", cfg.Width, cfg.Height)
	}
	if !strings.Contains(string(artifacts[FormatJSON]), `"strategy"`) {
		t.Error("json artifact is missing the solver strategy")
	}
}

func TestRenderGraph(t *testing.T) {
	doc := mustParse(t, slideTOML)
	s, err := Graph(context.Background(), doc, Options{})
	if err != nil {
		t.Fatalf("Graph() error = %v", err)
	}
	artifacts, err := RenderGraph(context.Background(), s, []string{FormatDOT, FormatJSON}, true)
	if err != nil {
		t.Fatalf("RenderGraph() error = %v", err)
	}
	if !strings.HasPrefix(string(artifacts[FormatDOT]), "digraph") {
		t.Errorf("dot = %q, want a digraph", artifacts[FormatDOT])
	}
	if _, err := RenderGraph(context.Background(), s, []string{FormatPNG}, false); err == nil {
		t.Error("RenderGraph(png) error = nil, want error")
	}
}

func TestPlot(t *testing.T) {
	doc := mustParse(t, slideTOML)
	a, err := Animate(context.Background(), doc, Options{Frames: 5})
	if err != nil {
		t.Fatalf("Animate() error = %v", err)
	}
	data, err := Plot(a, PlotOptions{Widget: "box", Attrs: []string{"y", "alpha"}})
	if err != nil {
		t.Fatalf("Plot() error = %v", err)
	}
	if _, err := png.DecodeConfig(bytes.NewReader(data)); err != nil {
		t.Errorf("Plot() did not produce a png: %v", err)
	}
	if _, err := Plot(a, PlotOptions{Widget: "box"}); !errors.Is(err, errors.ErrCodeInvalidOptions) {
		t.Errorf("Plot() without attributes error = %v, want invalid options", err)
	}
}

// =============================================================================
// Runner
// =============================================================================

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}
	r := NewRunner(c, nil, nil)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestRunnerExecuteCaches(t *testing.T) {
	r := newTestRunner(t)
	doc := mustParse(t, slideTOML)
	ctx := context.Background()
	opts := Options{Formats: []string{FormatSVG, FormatJSON}}

	first, err := r.Execute(ctx, doc, opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if first.CacheInfo.SolveHit || first.CacheInfo.RenderHit {
		t.Errorf("first Execute() CacheInfo = %+v, want misses", first.CacheInfo)
	}
	if first.SceneHash == "" || first.Stats.Widgets != 3 {
		t.Errorf("first Execute() hash %q, %d widgets", first.SceneHash, first.Stats.Widgets)
	}

	second, err := r.Execute(ctx, doc, opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !second.CacheInfo.SolveHit || !second.CacheInfo.RenderHit {
		t.Errorf("second Execute() CacheInfo = %+v, want hits", second.CacheInfo)
	}
	if diff := cmp.Diff(first.Layout, second.Layout); diff != "" {
		t.Errorf("cached layout mismatch (-want +got):\n%s", diff)
	}
	if !bytes.Equal(first.Artifacts[FormatSVG], second.Artifacts[FormatSVG]) {
		t.Error("cached svg differs from the rendered one")
	}
}

func TestRunnerSolveRefresh(t *testing.T) {
	r := newTestRunner(t)
	doc := mustParse(t, slideTOML)
	ctx := context.Background()

	if _, _, err := r.SolveWithCacheInfo(ctx, doc, Options{}); err != nil {
		t.Fatalf("SolveWithCacheInfo() error = %v", err)
	}
	if _, hit, _ := r.SolveWithCacheInfo(ctx, doc, Options{Refresh: true}); hit {
		t.Error("SolveWithCacheInfo(refresh) hit the cache")
	}
	if _, hit, _ := r.SolveWithCacheInfo(ctx, doc, Options{Width: 200}); hit {
		t.Error("SolveWithCacheInfo() with another width hit the cache")
	}
}

func TestRunnerAnimateCaches(t *testing.T) {
	r := newTestRunner(t)
	doc := mustParse(t, slideTOML)
	ctx := context.Background()

	a, hit, err := r.AnimateWithCacheInfo(ctx, doc, Options{Frames: 4})
	if err != nil || hit {
		t.Fatalf("AnimateWithCacheInfo() hit %v, error = %v", hit, err)
	}
	b, hit, err := r.AnimateWithCacheInfo(ctx, doc, Options{Frames: 4})
	if err != nil || !hit {
		t.Fatalf("AnimateWithCacheInfo() hit %v, error = %v, want a hit", hit, err)
	}
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("cached animation mismatch (-want +got):\n%s", diff)
	}
}

func TestRunnerStoreScene(t *testing.T) {
	r := newTestRunner(t)
	doc := mustParse(t, slideTOML)
	ctx := context.Background()

	hash, err := r.StoreScene(ctx, doc)
	if err != nil {
		t.Fatalf("StoreScene() error = %v", err)
	}
	if want, _ := SceneHash(doc); hash != want {
		t.Errorf("StoreScene() = %q, want the scene hash %q", hash, want)
	}
	got, err := r.LoadScene(ctx, hash)
	if err != nil {
		t.Fatalf("LoadScene() error = %v", err)
	}
	if again, _ := SceneHash(got); again != hash {
		t.Errorf("loaded scene hashes to %q, want %q", again, hash)
	}
	_, err = r.LoadScene(ctx, "missing")
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("LoadScene(missing) error = %v, want not found", err)
	}
	if !stderrors.Is(err, cache.ErrCacheMiss) {
		t.Errorf("LoadScene(missing) error = %v, want a cache miss cause", err)
	}
}

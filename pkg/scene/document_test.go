package scene

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/core/widgets"
	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/errors"
)

const cardTOML = `
name = "card"

[container]
width = 400
height = 300

[[widget]]
id = "title"
width = 100
height = 20
left = "parent.left"
right = "parent.right"
top = { to = "parent.top", margin = 16 }
content = { width = 80, height = 20, baseline = 15 }

[[widget]]
id = "body"
width = "match"
height = "wrap"
left = "mid.left"
right = "parent.right"
top = "title.bottom"
visibility = "invisible"
attrs = { alpha = 0.5 }
custom = [{ name = "tint", type = "color", value = "#FF0000" }]

[[guideline]]
id = "mid"
orientation = "vertical"
percent = 0.5
`

func intp(v int) *int { return &v }

func TestReadTOML(t *testing.T) {
	doc, err := Parse([]byte(cardTOML), FormatTOML)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if doc.Name != "card" || len(doc.Widgets) != 2 || len(doc.Guidelines) != 1 {
		t.Fatalf("Parse() = %q with %d widgets, %d guidelines", doc.Name, len(doc.Widgets), len(doc.Guidelines))
	}
	title := doc.Widgets[0]
	want := WidgetSpec{
		ID:      "title",
		Width:   "100",
		Height:  "20",
		Left:    To("parent.left"),
		Right:   To("parent.right"),
		Top:     Constraint{To: "parent.top", Margin: intp(16)},
		Content: widgets.Content{Width: 80, Height: 20, Baseline: 15},
	}
	if diff := cmp.Diff(want, title); diff != "" {
		t.Errorf("title mismatch (-want +got):\n%s", diff)
	}
	body, ok := doc.Widget("body")
	if !ok {
		t.Fatal("Widget(body) not found")
	}
	if body.Width != "match" || body.Attrs["alpha"] != 0.5 || body.Custom[0].Value != "#FF0000" {
		t.Errorf("body = %+v", body)
	}
}

func TestReadJSON(t *testing.T) {
	src := `{
		"container": {"width": 400, "height": "wrap"},
		"widgets": [
			{"id": "a", "width": 50, "height": "wrap", "left": {"to": "parent.left", "margin": 8, "gone_margin": 2}}
		]
	}`
	doc, err := Parse([]byte(src), FormatJSON)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	a := doc.Widgets[0]
	if a.Width != "50" || a.Height != "wrap" {
		t.Errorf("size = %q x %q, want 50 x wrap", a.Width, a.Height)
	}
	if diff := cmp.Diff(Constraint{To: "parent.left", Margin: intp(8), GoneMargin: intp(2)}, a.Left); diff != "" {
		t.Errorf("left mismatch (-want +got):\n%s", diff)
	}

	var buf bytes.Buffer
	if err := doc.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	again, err := Read(&buf, FormatJSON)
	if err != nil {
		t.Fatalf("Read(WriteJSON()) error = %v", err)
	}
	if diff := cmp.Diff(doc, again); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestCanonical(t *testing.T) {
	a, err := Parse([]byte(cardTOML), FormatTOML)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Parse([]byte(cardTOML), FormatTOML)
	if err != nil {
		t.Fatal(err)
	}
	ca, _ := a.Canonical()
	cb, _ := b.Canonical()
	if !bytes.Equal(ca, cb) {
		t.Error("Canonical() differs for equal documents")
	}
	b.Widgets[0].Width = "120"
	cb, _ = b.Canonical()
	if bytes.Equal(ca, cb) {
		t.Error("Canonical() ignores a changed width")
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code errors.Code
	}{
		{"no widgets", `[container]
width = 10`, errors.ErrCodeInvalidScene},
		{"unknown key", `[[widget]]
id = "a"
colour = "red"`, errors.ErrCodeInvalidScene},
		{"syntax", `[[widget]`, errors.ErrCodeInvalidFormat},
		{"duplicate id", `[[widget]]
id = "a"
[[widget]]
id = "a"`, errors.ErrCodeInvalidScene},
		{"reserved id", `[[widget]]
id = "parent"`, errors.ErrCodeInvalidScene},
		{"unknown target", `[[widget]]
id = "a"
left = "b.left"`, errors.ErrCodeUnknownWidget},
		{"unknown side", `[[widget]]
id = "a"
left = "parent.middle"`, errors.ErrCodeInvalidScene},
		{"cross axis", `[[widget]]
id = "a"
left = "parent.top"`, errors.ErrCodeInvalidScene},
		{"bad dimension", `[[widget]]
id = "a"
width = "huge"`, errors.ErrCodeInvalidScene},
		{"bad visibility", `[[widget]]
id = "a"
visibility = "hidden"`, errors.ErrCodeInvalidScene},
		{"bad chain", `[[widget]]
id = "a"
horizontal_chain = "loose"`, errors.ErrCodeInvalidScene},
		{"bad ratio", `[[widget]]
id = "a"
ratio = "2:"`, errors.ErrCodeInvalidScene},
		{"container match", `[container]
width = "match"
[[widget]]
id = "a"`, errors.ErrCodeInvalidScene},
		{"guideline two positions", `[[widget]]
id = "a"
[[guideline]]
id = "g"
orientation = "vertical"
begin = 10
percent = 0.5`, errors.ErrCodeInvalidScene},
		{"barrier unknown ref", `[[widget]]
id = "a"
[[barrier]]
id = "b"
side = "right"
refs = ["x"]`, errors.ErrCodeUnknownWidget},
		{"unknown optimization", `[container]
optimization = "turbo"
[[widget]]
id = "a"`, errors.ErrCodeInvalidScene},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src), FormatTOML)
			if err == nil {
				t.Fatal("Parse() error = nil, want error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("Parse() error = %v, want code %v", err, tt.code)
			}
		})
	}
}

func TestReadUnknownFormat(t *testing.T) {
	if _, err := Parse([]byte("{}"), "yaml"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Parse(yaml) error = %v, want %v", err, errors.ErrCodeInvalidFormat)
	}
}

func TestImport(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pair.json")
	src := `{"widgets": [{"width": 10, "height": 10}, {"width": 20, "height": 20}]}`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	doc, err := Import(path)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if doc.Name != "pair" {
		t.Errorf("Name = %q, want pair", doc.Name)
	}
	for _, w := range doc.Widgets {
		if !strings.HasPrefix(w.ID, "w-") || len(w.ID) != 10 {
			t.Errorf("generated id = %q, want w- and 8 hex digits", w.ID)
		}
	}
	if doc.Widgets[0].ID == doc.Widgets[1].ID {
		t.Error("generated ids collide")
	}

	again, err := Import(path)
	if err != nil {
		t.Fatal(err)
	}
	if again.Widgets[0].ID != doc.Widgets[0].ID {
		t.Errorf("generated id = %q, then %q; want stable ids", doc.Widgets[0].ID, again.Widgets[0].ID)
	}

	if _, err := Import(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("Import(missing) error = nil, want error")
	}
}

func TestFormatFor(t *testing.T) {
	tests := map[string]Format{
		"scene.toml": FormatTOML,
		"scene.json": FormatJSON,
		"SCENE.JSON": FormatJSON,
		"scene":      FormatTOML,
	}
	for path, want := range tests {
		if got := FormatFor(path); got != want {
			t.Errorf("FormatFor(%q) = %v, want %v", path, got, want)
		}
	}
}

package scene

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/core/widgets"
	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/errors"
)

// Format is the encoding of a scene document.
type Format string

const (
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// FormatFor returns the format implied by a file extension, defaulting
// to TOML.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatTOML
}

// Document is a scene: a container, its widgets and helpers, and an
// optional transition to a second state.
type Document struct {
	Name       string          `toml:"name" json:"name,omitempty"`
	Container  ContainerSpec   `toml:"container" json:"container"`
	Widgets    []WidgetSpec    `toml:"widget" json:"widgets"`
	Guidelines []GuidelineSpec `toml:"guideline" json:"guidelines,omitempty"`
	Barriers   []BarrierSpec   `toml:"barrier" json:"barriers,omitempty"`
	Motion     *MotionSpec     `toml:"motion" json:"motion,omitempty"`
}

// ContainerSpec sizes the root container. Width and Height accept a
// fixed size or "wrap".
type ContainerSpec struct {
	ID           string `toml:"id" json:"id,omitempty"`
	Width        Dim    `toml:"width" json:"width,omitempty"`
	Height       Dim    `toml:"height" json:"height,omitempty"`
	Optimization string `toml:"optimization" json:"optimization,omitempty"`
	RTL          bool   `toml:"rtl" json:"rtl,omitempty"`
}

// WidgetSpec describes one widget. Unset dimensions wrap their content.
type WidgetSpec struct {
	ID     string `toml:"id" json:"id,omitempty"`
	Width  Dim    `toml:"width" json:"width,omitempty"`
	Height Dim    `toml:"height" json:"height,omitempty"`

	MinWidth  int `toml:"min_width" json:"min_width,omitempty"`
	MaxWidth  int `toml:"max_width" json:"max_width,omitempty"`
	MinHeight int `toml:"min_height" json:"min_height,omitempty"`
	MaxHeight int `toml:"max_height" json:"max_height,omitempty"`

	// Margin is the default margin of every side constraint that does
	// not set its own.
	Margin   int        `toml:"margin" json:"margin,omitempty"`
	Left     Constraint `toml:"left" json:"left,omitzero"`
	Right    Constraint `toml:"right" json:"right,omitzero"`
	Top      Constraint `toml:"top" json:"top,omitzero"`
	Bottom   Constraint `toml:"bottom" json:"bottom,omitzero"`
	Baseline Constraint `toml:"baseline" json:"baseline,omitzero"`
	CenterX  Constraint `toml:"center_x" json:"center_x,omitzero"`
	CenterY  Constraint `toml:"center_y" json:"center_y,omitzero"`
	Center   Constraint `toml:"center" json:"center,omitzero"`

	HorizontalBias   *float64 `toml:"horizontal_bias" json:"horizontal_bias,omitempty"`
	VerticalBias     *float64 `toml:"vertical_bias" json:"vertical_bias,omitempty"`
	HorizontalChain  string   `toml:"horizontal_chain" json:"horizontal_chain,omitempty"`
	VerticalChain    string   `toml:"vertical_chain" json:"vertical_chain,omitempty"`
	HorizontalWeight float64  `toml:"horizontal_weight" json:"horizontal_weight,omitempty"`
	VerticalWeight   float64  `toml:"vertical_weight" json:"vertical_weight,omitempty"`

	// Ratio is a dimension ratio such as "16:9" or "H,2:1".
	Ratio      string          `toml:"ratio" json:"ratio,omitempty"`
	Visibility string          `toml:"visibility" json:"visibility,omitempty"`
	Content    widgets.Content `toml:"content" json:"content,omitzero"`

	// Attrs and Custom only take part in motion.
	Attrs  map[string]float64 `toml:"attrs" json:"attrs,omitempty"`
	Custom []CustomSpec       `toml:"custom" json:"custom,omitempty"`
}

// CustomSpec is a typed custom attribute. Value is given in its text
// form or as a TOML/JSON scalar.
type CustomSpec struct {
	Name  string `toml:"name" json:"name"`
	Type  string `toml:"type" json:"type"`
	Value any    `toml:"value" json:"value"`
}

// GuidelineSpec places a guideline. Orientation "vertical" gives a
// vertical line positioned along x. Exactly one of Begin, End and
// Percent is set.
type GuidelineSpec struct {
	ID          string   `toml:"id" json:"id"`
	Orientation string   `toml:"orientation" json:"orientation"`
	Begin       *int     `toml:"begin" json:"begin,omitempty"`
	End         *int     `toml:"end" json:"end,omitempty"`
	Percent     *float64 `toml:"percent" json:"percent,omitempty"`
}

// BarrierSpec places a barrier on the extreme Side of the widgets in
// Refs.
type BarrierSpec struct {
	ID        string   `toml:"id" json:"id"`
	Side      string   `toml:"side" json:"side"`
	Refs      []string `toml:"refs" json:"refs"`
	Margin    int      `toml:"margin" json:"margin,omitempty"`
	AllowGone bool     `toml:"allow_gone" json:"allow_gone,omitempty"`
}

// Read decodes a document in the given format and validates it.
func Read(r io.Reader, format Format) (*Document, error) {
	var doc Document
	switch format {
	case FormatTOML, "":
		md, err := toml.NewDecoder(r).Decode(&doc)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode toml scene")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, errors.New(errors.ErrCodeInvalidScene, "unknown keys: %s", strings.Join(keys, ", "))
		}
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json scene")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown scene format %q", format)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Parse decodes a document held in memory.
func Parse(data []byte, format Format) (*Document, error) {
	return Read(bytes.NewReader(data), format)
}

// Import reads the document at path. The format follows the file
// extension.
func Import(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	doc, err := Read(f, FormatFor(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if doc.Name == "" {
		doc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return doc, nil
}

// WriteJSON encodes the document as indented JSON.
func (d *Document) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}

// Canonical returns the compact JSON encoding used to key caches. Equal
// documents give equal bytes.
func (d *Document) Canonical() ([]byte, error) {
	return json.Marshal(d)
}

// Widget returns the widget spec with the given id.
func (d *Document) Widget(id string) (*WidgetSpec, bool) {
	i := slices.IndexFunc(d.Widgets, func(w WidgetSpec) bool { return w.ID == id })
	if i < 0 {
		return nil, false
	}
	return &d.Widgets[i], true
}

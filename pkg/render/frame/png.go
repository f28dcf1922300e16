package frame

import (
	"bytes"
	"fmt"
	"math"

	"github.com/fogleman/gg"
)

// DefaultScale is the PNG resolution multiplier.
const DefaultScale = 2.0

// PNGOption configures [RenderPNG].
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale   float64
	labels  bool
	helpers bool
}

// WithScale sets the resolution multiplier (default 2 for high-DPI output).
func WithScale(s float64) PNGOption { return func(r *pngRenderer) { r.scale = s } }
func WithPNGLabels() PNGOption      { return func(r *pngRenderer) { r.labels = true } }
func WithPNGHelpers() PNGOption     { return func(r *pngRenderer) { r.helpers = true } }

// RenderPNG rasterizes f.
func RenderPNG(f Frame, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: DefaultScale}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 {
		return nil, fmt.Errorf("invalid scale %v", r.scale)
	}
	w, h := int(math.Ceil(f.Width*r.scale)), int(math.Ceil(f.Height*r.scale))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("empty frame %vx%v", f.Width, f.Height)
	}

	dc := gg.NewContext(w, h)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.Scale(r.scale, r.scale)

	for i, b := range f.Boxes {
		switch {
		case b.Hidden:
		case b.IsHelper():
			if r.helpers {
				drawHelper(dc, b, f)
			}
		default:
			drawBox(dc, b, i, r.labels)
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func drawBox(dc *gg.Context, b Box, i int, label bool) {
	dc.Push()
	defer dc.Pop()

	cx, cy := b.X+b.Width/2, b.Y+b.Height/2
	if b.Rotation != 0 {
		dc.RotateAbout(gg.Radians(b.Rotation), cx, cy)
	}
	dc.DrawRectangle(b.X, b.Y, b.Width, b.Height)
	dc.SetRGBA(rgba(fill(b, i), b.Alpha))
	dc.FillPreserve()
	dc.SetRGBA(rgba(strokeColor, b.Alpha))
	dc.SetLineWidth(1)
	dc.Stroke()

	if label {
		dc.SetRGBA(0, 0, 0, b.Alpha)
		dc.DrawStringAnchored(b.ID, cx, cy, 0.5, 0.5)
	}
}

func drawHelper(dc *gg.Context, b Box, f Frame) {
	dc.Push()
	defer dc.Pop()

	x1, y1, x2, y2 := helperLine(b, f)
	dc.SetRGBA(rgba(helperColor, 1))
	dc.SetLineWidth(1)
	dc.SetDash(4, 4)
	dc.DrawLine(x1, y1, x2, y2)
	dc.Stroke()
}

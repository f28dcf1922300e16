package frame

import (
	"bytes"
	"fmt"
	"html"
)

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	labels  bool
	helpers bool
}

func WithLabels() SVGOption  { return func(r *svgRenderer) { r.labels = true } }
func WithHelpers() SVGOption { return func(r *svgRenderer) { r.helpers = true } }

// RenderSVG writes f as a standalone SVG document.
func RenderSVG(f Frame, opts ...SVGOption) []byte {
	var r svgRenderer
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		f.Width, f.Height, f.Width, f.Height)
	fmt.Fprintf(&buf, `  <rect class="container" x="0" y="0" width="%.1f" height="%.1f" fill="white" stroke="%s"/>`+"\n",
		f.Width, f.Height, hex(strokeColor))

	for i, b := range f.Boxes {
		switch {
		case b.Hidden:
		case b.IsHelper():
			if r.helpers {
				renderHelper(&buf, b, f)
			}
		default:
			renderBox(&buf, b, i, r.labels)
		}
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderBox(buf *bytes.Buffer, b Box, i int, label bool) {
	c := fill(b, i)
	_, _, _, a := rgba(c, b.Alpha)
	id := html.EscapeString(b.ID)
	cx, cy := b.X+b.Width/2, b.Y+b.Height/2

	fmt.Fprintf(buf, `  <g id="widget-%s" opacity="%.3g"`, id, a)
	if b.Rotation != 0 {
		fmt.Fprintf(buf, ` transform="rotate(%.3g %.1f %.1f)"`, b.Rotation, cx, cy)
	}
	buf.WriteString(">\n")
	fmt.Fprintf(buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" stroke="%s" stroke-width="1"/>`+"\n",
		b.X, b.Y, b.Width, b.Height, hex(c), hex(strokeColor))
	if label {
		fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" text-anchor="middle" dominant-baseline="central" font-family="monospace" font-size="11">%s</text>`+"\n",
			cx, cy, id)
	}
	buf.WriteString("  </g>\n")
}

func renderHelper(buf *bytes.Buffer, b Box, f Frame) {
	x1, y1, x2, y2 := helperLine(b, f)
	fmt.Fprintf(buf, `  <line class="%s" id="%s-%s" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-dasharray="4 4"/>`+"\n",
		b.Kind, b.Kind, html.EscapeString(b.ID), x1, y1, x2, y2, hex(helperColor))
}

package frame

import "fmt"

// Box kinds.
const (
	KindWidget    = "widget"
	KindGuideline = "guideline"
	KindBarrier   = "barrier"
)

// Box is one drawable element of a frame.
type Box struct {
	ID   string
	Kind string

	X, Y, Width, Height float64

	// Alpha is the opacity in [0, 1].
	Alpha float64
	// Rotation is in degrees, about the center of the box.
	Rotation float64
	// Fill is an ARGB color; 0 selects the palette color.
	Fill uint32

	Hidden bool
}

// IsHelper reports whether b is a guideline or a barrier.
func (b Box) IsHelper() bool { return b.Kind == KindGuideline || b.Kind == KindBarrier }

// Frame is a container and the boxes laid out in it.
type Frame struct {
	Width, Height float64
	Boxes         []Box
}

var palette = []uint32{
	0xFF4E79A7, 0xFFF28E2B, 0xFFE15759, 0xFF76B7B2,
	0xFF59A14F, 0xFFEDC948, 0xFFB07AA1, 0xFFFF9DA7,
}

const (
	helperColor = 0xFF9E9E9E
	strokeColor = 0xFF333333
)

// fill returns the color of the i-th box of a frame.
func fill(b Box, i int) uint32 {
	if b.Fill != 0 {
		return b.Fill
	}
	return palette[i%len(palette)]
}

// rgba splits an ARGB color into channels in [0, 1], with the color's
// own alpha scaled by alpha.
func rgba(c uint32, alpha float64) (r, g, b, a float64) {
	r = float64(c>>16&0xFF) / 255
	g = float64(c>>8&0xFF) / 255
	b = float64(c&0xFF) / 255
	a = float64(c>>24&0xFF) / 255 * alpha
	return r, g, b, a
}

func hex(c uint32) string { return fmt.Sprintf("#%06X", c&0xFFFFFF) }

// helperLine returns the segment drawn for a guideline or barrier. The
// box of a helper has zero extent on the axis it positions.
func helperLine(b Box, f Frame) (x1, y1, x2, y2 float64) {
	if b.Width == 0 {
		return b.X, 0, b.X, f.Height
	}
	return 0, b.Y, f.Width, b.Y
}

// Package frame draws solved layouts and animation frames.
//
// # Overview
//
// A [Frame] is a flat list of [Box] values in container coordinates, as
// produced by the pipeline from a solved widget tree or from one sample
// of a transition. This package turns it into:
//
//   - SVG: text, written with a buffer, no external tools
//   - PNG: raster, drawn with [github.com/fogleman/gg]
//
// # Usage
//
//	f := frame.Frame{Width: 400, Height: 300, Boxes: boxes}
//	svg := frame.RenderSVG(f, frame.WithLabels())
//	png, err := frame.RenderPNG(f, frame.WithScale(2), frame.WithPNGLabels())
//
// # Boxes
//
// Widgets are filled rectangles: their alpha and rotation come from the
// box, their color from [Box.Fill] or, when unset, from a fixed palette
// indexed by position so that the same scene always draws the same way.
// Guidelines and barriers are dashed lines and only drawn with
// [WithHelpers] or [WithPNGHelpers]. Hidden boxes (invisible or gone
// widgets) are skipped.
package frame

// Package plot draws sampled motion curves as line charts.
//
// Each [Series] is one attribute of one widget sampled over a
// transition; x is the transition progress or time, y the value. Trigger
// events can be marked as dashed vertical lines.
//
//	png, err := plot.Render([]plot.Series{{Label: "box.y", X: xs, Y: ys}}, plot.Options{
//	    Title:  "slide",
//	    XLabel: "progress",
//	    Format: plot.FormatPNG,
//	})
package plot

import (
	"bytes"
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Output formats.
const (
	FormatPNG = "png"
	FormatSVG = "svg"
)

// Default chart size.
const (
	DefaultWidth  = 6 * vg.Inch
	DefaultHeight = 4 * vg.Inch
)

// Series is one sampled curve.
type Series struct {
	Label string
	X, Y  []float64
}

// Mark is a labelled vertical line at X.
type Mark struct {
	Label string
	X     float64
}

// Options configures [Render].
type Options struct {
	Title          string
	XLabel, YLabel string
	Marks          []Mark
	Width, Height  vg.Length
	// Format is FormatPNG (the default) or FormatSVG.
	Format string
}

// Render draws series into a chart image.
func Render(series []Series, opts Options) ([]byte, error) {
	if len(series) == 0 {
		return nil, fmt.Errorf("no series to plot")
	}
	if opts.Width == 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height == 0 {
		opts.Height = DefaultHeight
	}
	switch opts.Format {
	case "":
		opts.Format = FormatPNG
	case FormatPNG, FormatSVG:
	default:
		return nil, fmt.Errorf("unsupported plot format %q", opts.Format)
	}

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = opts.XLabel
	p.Y.Label.Text = opts.YLabel
	p.Add(plotter.NewGrid())

	lo, hi := math.Inf(1), math.Inf(-1)
	for i, s := range series {
		if len(s.X) != len(s.Y) {
			return nil, fmt.Errorf("series %q: %d x values for %d y values", s.Label, len(s.X), len(s.Y))
		}
		xys := make(plotter.XYs, len(s.X))
		for j := range s.X {
			xys[j].X, xys[j].Y = s.X[j], s.Y[j]
			lo, hi = min(lo, s.Y[j]), max(hi, s.Y[j])
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return nil, fmt.Errorf("series %q: %w", s.Label, err)
		}
		line.LineStyle.Width = vg.Points(1.5)
		line.LineStyle.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(s.Label, line)
	}

	if lo == hi {
		lo, hi = lo-1, hi+1
	}
	for i, m := range opts.Marks {
		line, err := plotter.NewLine(plotter.XYs{{X: m.X, Y: lo}, {X: m.X, Y: hi}})
		if err != nil {
			return nil, fmt.Errorf("mark %q: %w", m.Label, err)
		}
		line.LineStyle.Width = vg.Points(1)
		line.LineStyle.Color = plotutil.Color(len(series) + i)
		line.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
		p.Add(line)
		p.Legend.Add(m.Label, line)
	}

	w, err := p.WriterTo(opts.Width, opts.Height, opts.Format)
	if err != nil {
		return nil, fmt.Errorf("draw plot: %w", err)
	}
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encode plot: %w", err)
	}
	return buf.Bytes(), nil
}

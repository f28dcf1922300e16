package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/core/analyzer"
	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/errors"
	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/render/frame"
	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/render/nodelink"
	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/render/plot"
)

// RenderLayout generates output artifacts of a solved layout in the
// requested formats.
func RenderLayout(l *Layout, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		if format == FormatJSON {
			data, err := json.MarshalIndent(l, "", "  ")
			if err != nil {
				return nil, fmt.Errorf("render %s: %w", format, err)
			}
			artifacts[format] = data
			continue
		}
		data, err := RenderFrame(l.Frame(), format, opts)
		if err != nil {
			return nil, err
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// RenderFrame draws one frame as SVG or PNG.
func RenderFrame(f frame.Frame, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		var svgOpts []frame.SVGOption
		if opts.Labels {
			svgOpts = append(svgOpts, frame.WithLabels())
		}
		if opts.Helpers {
			svgOpts = append(svgOpts, frame.WithHelpers())
		}
		return frame.RenderSVG(f, svgOpts...), nil
	case FormatPNG:
		pngOpts := []frame.PNGOption{frame.WithScale(opts.Scale)}
		if opts.Scale == 0 {
			pngOpts[0] = frame.WithScale(DefaultScale)
		}
		if opts.Labels {
			pngOpts = append(pngOpts, frame.WithPNGLabels())
		}
		if opts.Helpers {
			pngOpts = append(pngOpts, frame.WithPNGHelpers())
		}
		data, err := frame.RenderPNG(f, pngOpts...)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		return data, nil
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "unsupported frame format: %s", format)
}

// RenderGraph generates outputs of a dependency graph snapshot.
func RenderGraph(ctx context.Context, s analyzer.Snapshot, formats []string, detailed bool) (map[string][]byte, error) {
	dot := nodelink.ToDOT(s, nodelink.Options{Detailed: detailed, Groups: true})
	artifacts := make(map[string][]byte, len(formats))
	for _, format := range formats {
		if err := ValidateGraphFormat(format); err != nil {
			return nil, err
		}
		var data []byte
		var err error
		switch format {
		case FormatDOT:
			data = []byte(dot)
		case FormatSVG:
			data, err = nodelink.RenderSVG(ctx, dot)
		case FormatJSON:
			data, err = json.MarshalIndent(s, "", "  ")
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// RenderAnimation encodes a sampled animation as JSON.
func RenderAnimation(a *Animation) ([]byte, error) {
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("render animation: %w", err)
	}
	return data, nil
}

// PlotOptions configures [Plot].
type PlotOptions struct {
	Widget string
	Attrs  []string
	// Format is plot.FormatPNG (the default) or plot.FormatSVG.
	Format string
}

// Plot charts attributes of one widget over an animation, with its
// trigger events marked.
func Plot(a *Animation, opts PlotOptions) ([]byte, error) {
	if len(opts.Attrs) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidOptions, "no attribute to plot")
	}
	var series []plot.Series
	for _, attr := range opts.Attrs {
		s, err := a.Series(opts.Widget, attr)
		if err != nil {
			return nil, err
		}
		series = append(series, s)
	}
	var marks []plot.Mark
	for _, e := range a.Events() {
		if e.Widget == opts.Widget {
			marks = append(marks, plot.Mark{Label: e.Name, X: e.Progress})
		}
	}
	title := opts.Widget
	if a.Scene != "" {
		title = a.Scene + ": " + opts.Widget
	}
	data, err := plot.Render(series, plot.Options{
		Title:  title,
		XLabel: "progress",
		Marks:  marks,
		Format: opts.Format,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidOptions, err, "plot")
	}
	return data, nil
}

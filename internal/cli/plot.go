package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/pipeline"
	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/render/plot"
)

var validPlotFormats = map[string]bool{plot.FormatPNG: true, plot.FormatSVG: true}

// plotCommand creates the plot command.
func (c *CLI) plotCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		attrs   []string
	)
	opts := pipeline.Options{}
	plotOpts := pipeline.PlotOptions{}

	cmd := &cobra.Command{
		Use:   "plot [scene]",
		Short: "Chart widget attributes over a transition",
		Long: `Chart attributes of one widget over the transition of a scene.

An attribute is a geometry key (x, y, width, height), a motion attribute
such as alpha or rotation, or a numeric custom attribute. Trigger events
of the widget are marked on the chart. The format follows the output
extension and defaults to PNG.

Examples:
  constraintlayout plot card.toml --widget title --attr x
  constraintlayout plot card.toml --widget title --attr x,alpha -o title.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if plotOpts.Widget == "" {
				return fmt.Errorf("--widget is required")
			}
			for _, a := range attrs {
				if a = strings.TrimSpace(a); a != "" {
					plotOpts.Attrs = append(plotOpts.Attrs, a)
				}
			}
			if len(plotOpts.Attrs) == 0 {
				return fmt.Errorf("--attr is required")
			}
			if output == "" {
				output = basePath("", args[0], nil) + "-" + plotOpts.Widget + "." + plot.FormatPNG
			}
			plotOpts.Format = plotFormat(output)
			if !validPlotFormats[plotOpts.Format] {
				return fmt.Errorf("invalid plot format: %q (must be png or svg)", plotOpts.Format)
			}
			opts.Logger = c.Logger
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}
			return c.runPlot(cmd.Context(), args[0], output, noCache, opts, plotOpts)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <scene>-<widget>.png)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVarP(&plotOpts.Widget, "widget", "w", "", "widget to chart")
	cmd.Flags().StringSliceVarP(&attrs, "attr", "a", nil, "attribute(s) to chart (comma-separated or repeated)")
	cmd.Flags().IntVar(&opts.Frames, "frames", pipeline.DefaultFrames, "number of samples, endpoints included")
	cmd.Flags().StringVar(&opts.Duration, "duration", "", "override the scene duration, e.g. 300ms")
	solveFlags(cmd, &opts)

	return cmd
}

// plotFormat returns the chart format implied by the extension of path.
func plotFormat(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "" {
		return plot.FormatPNG
	}
	return ext
}

// runPlot samples a scene and charts the requested attributes.
func (c *CLI) runPlot(ctx context.Context, input, output string, noCache bool, opts pipeline.Options, plotOpts pipeline.PlotOptions) error {
	doc, err := loadScene(ctx, input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Plotting %s...", plotOpts.Widget))
	spinner.Start()

	a, cached, err := runner.AnimateWithCacheInfo(ctx, doc, opts)
	if err != nil {
		spinner.StopWithError("Animation failed")
		return fmt.Errorf("animate %s: %w", input, err)
	}
	data, err := pipeline.Plot(a, plotOpts)
	if err != nil {
		spinner.StopWithError("Plot failed")
		return err
	}
	spinner.Stop()

	if err := writeFile(output, data); err != nil {
		return err
	}
	printSuccess("Plotted %s of %s", strings.Join(plotOpts.Attrs, ", "), plotOpts.Widget)
	printFile(output)
	printStats(cached, animationStats(a)...)
	return nil
}

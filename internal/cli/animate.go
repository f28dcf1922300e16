package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/pipeline"
)

// animateOpts holds the flags of the animate command that are not
// pipeline options.
type animateOpts struct {
	output      string
	framesDir   string
	frameFormat string
	noCache     bool
}

// animateCommand creates the animate command.
func (c *CLI) animateCommand() *cobra.Command {
	flags := animateOpts{frameFormat: pipeline.FormatSVG}
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "animate [scene]",
		Short: "Sample the transition of a scene",
		Long: `Sample the transition between the start and end states of a scene.

Both states are solved, then every widget is interpolated at evenly spaced
progress values, endpoints included. The samples are written as JSON,
by default next to the scene as <scene>.frames.json. With --frames-dir,
each sample is also rendered as an image.

Examples:
  constraintlayout animate card.toml
  constraintlayout animate card.toml --frames 60 --duration 1s
  constraintlayout animate card.toml --frames-dir out/frames --frame-format png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateFormat(flags.frameFormat); err != nil || flags.frameFormat == pipeline.FormatJSON {
				return fmt.Errorf("invalid frame format: %q (must be svg or png)", flags.frameFormat)
			}
			opts.Logger = c.Logger
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}
			return c.runAnimate(cmd.Context(), args[0], opts, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output JSON file (default <scene>.frames.json); - for stdout")
	cmd.Flags().StringVar(&flags.framesDir, "frames-dir", "", "also render every sample into this directory")
	cmd.Flags().StringVar(&flags.frameFormat, "frame-format", flags.frameFormat, "format of rendered samples: svg, png")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().IntVar(&opts.Frames, "frames", pipeline.DefaultFrames, "number of samples, endpoints included")
	cmd.Flags().StringVar(&opts.Duration, "duration", "", "override the scene duration, e.g. 300ms")
	cmd.Flags().Float64Var(&opts.Scale, "scale", pipeline.DefaultScale, "PNG resolution multiplier")
	cmd.Flags().BoolVar(&opts.Labels, "labels", true, "draw widget ids on rendered samples")
	solveFlags(cmd, &opts)

	return cmd
}

// runAnimate samples the transition of one scene and writes it.
func (c *CLI) runAnimate(ctx context.Context, input string, opts pipeline.Options, flags animateOpts) error {
	doc, err := loadScene(ctx, input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	toStdout := flags.output == "-"
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Sampling %s...", doc.Name))
	if !toStdout {
		spinner.Start()
	}
	prog := newProgress(c.Logger)

	a, cached, err := runner.AnimateWithCacheInfo(ctx, doc, opts)
	if err != nil {
		spinner.StopWithError("Animation failed")
		return fmt.Errorf("animate %s: %w", input, err)
	}
	spinner.Stop()
	prog.done("sampled transition", "samples", len(a.Samples), "cached", cached)

	data, err := pipeline.RenderAnimation(a)
	if err != nil {
		return err
	}
	output := flags.output
	if output == "" {
		output = basePath("", input, nil) + ".frames.json"
	}
	if toStdout {
		return writeFile(output, data)
	}

	printSuccess("Sampled %s", doc.Name)
	if err := writeFile(output, data); err != nil {
		return err
	}
	printFile(output)

	if flags.framesDir != "" {
		n, err := writeFrames(a, flags.framesDir, flags.frameFormat, opts)
		if err != nil {
			return err
		}
		printFile(fmt.Sprintf("%s (%d %s frames)", flags.framesDir, n, flags.frameFormat))
	}

	printStats(cached, animationStats(a)...)
	printNewline()
	printNextStep("Scrub through it", "constraintlayout scrub "+quoteArg(input))
	return nil
}

// writeFrames renders every sample of a into dir as frame_NNN.<format>
// and returns how many were written.
func writeFrames(a *pipeline.Animation, dir, format string, opts pipeline.Options) (int, error) {
	for i := range a.Samples {
		f, err := a.Frame(i)
		if err != nil {
			return i, err
		}
		data, err := pipeline.RenderFrame(f, format, opts)
		if err != nil {
			return i, fmt.Errorf("render frame %d: %w", i, err)
		}
		path := filepath.Join(dir, fmt.Sprintf("frame_%03d.%s", i, format))
		if err := writeFile(path, data); err != nil {
			return i, err
		}
	}
	return len(a.Samples), nil
}

// animationStats describes a sampled transition for [printStats].
func animationStats(a *pipeline.Animation) []string {
	parts := []string{
		fmt.Sprintf("%d samples", len(a.Samples)),
		fmt.Sprintf("%gms", a.DurationMS),
	}
	if n := len(a.Events()); n > 0 {
		parts = append(parts, fmt.Sprintf("%d events", n))
	}
	return parts
}

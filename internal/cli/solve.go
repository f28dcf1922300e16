package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/pipeline"
)

// solveOpts holds the flags of the solve command that are not pipeline
// options.
type solveOpts struct {
	output  string
	formats string
	noCache bool
	table   bool
}

// solveCommand creates the solve command.
func (c *CLI) solveCommand() *cobra.Command {
	var flags solveOpts
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "solve [scene]",
		Short: "Solve a scene and render its layout",
		Long: `Solve a scene and render the start state of its layout.

The scene is a TOML or JSON file describing a container, its widgets and
the constraints between them. The solved frames are written as SVG, PNG
or JSON; with several formats, -o is a base path.

Examples:
  constraintlayout solve card.toml
  constraintlayout solve card.toml -f svg,png -o out/card
  constraintlayout solve card.toml --width 360 --height-mode wrap -f json -o -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = formatsFor(flags.formats, flags.output, pipeline.ValidFormats)
			opts.Logger = c.Logger
			if err := opts.ValidateForSolve(); err != nil {
				return err
			}
			return c.runSolve(cmd.Context(), args[0], opts, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (single format) or base path (multiple); - for stdout")
	cmd.Flags().StringVarP(&flags.formats, "format", "f", "", "output format(s): svg, png, json (comma-separated; default from -o, else svg)")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&flags.table, "table", false, "print the solved frames as a table")
	cmd.Flags().Float64Var(&opts.Scale, "scale", pipeline.DefaultScale, "PNG resolution multiplier")
	cmd.Flags().BoolVar(&opts.Labels, "labels", true, "draw widget ids")
	cmd.Flags().BoolVar(&opts.Helpers, "helpers", false, "draw guidelines and barriers")
	solveFlags(cmd, &opts)

	return cmd
}

// runSolve loads, solves and renders one scene.
func (c *CLI) runSolve(ctx context.Context, input string, opts pipeline.Options, flags solveOpts) error {
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
	if toStdout && len(opts.Formats) > 1 {
		return fmt.Errorf("cannot write %d formats to stdout", len(opts.Formats))
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Solving %s...", doc.Name))
	if !toStdout {
		spinner.Start()
	}

	result, err := runner.Execute(ctx, doc, opts)
	if err != nil {
		spinner.StopWithError("Solve failed")
		return fmt.Errorf("solve %s: %w", input, err)
	}
	spinner.Stop()

	paths := outputPaths(flags.output, input, opts.Formats, pipeline.ValidFormats)
	if toStdout {
		return writeArtifacts(result.Artifacts, opts.Formats, paths)
	}

	printSuccess("Solved %s", doc.Name)
	if err := writeArtifacts(result.Artifacts, opts.Formats, paths); err != nil {
		return err
	}
	if flags.table {
		fmt.Fprintln(stdout, rectTable(result.Layout))
	}
	printStats(result.CacheInfo.SolveHit && result.CacheInfo.RenderHit, layoutStats(result.Layout)...)
	if doc.Motion != nil {
		printNewline()
		printNextStep("Sample its transition", "constraintlayout animate "+quoteArg(input))
	}
	return nil
}

// quoteArg quotes s for display in a shell command if it needs it.
func quoteArg(s string) string {
	if strings.ContainsAny(s, " \t'\"$") {
		return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
	}
	return s
}

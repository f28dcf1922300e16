package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/pipeline"
)

// graphOpts holds the flags of the graph command.
type graphOpts struct {
	output   string
	formats  string
	detailed bool
}

// graphCommand creates the graph command.
func (c *CLI) graphCommand() *cobra.Command {
	var flags graphOpts
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "graph [scene]",
		Short: "Export the dependency graph of a solved scene",
		Long: `Export the dependency graph the solver builds for a scene.

Every widget contributes a node per edge of each axis; the graph links
anchored edges to the nodes they depend on and groups them into runs.
The graph is written as Graphviz DOT, as SVG laid out by Graphviz, or as
JSON.

Examples:
  constraintlayout graph card.toml
  constraintlayout graph card.toml -f svg --detailed -o card-graph.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats := formatsFor(flags.formats, flags.output, pipeline.ValidGraphFormats)
			if len(formats) == 0 {
				formats = []string{pipeline.FormatDOT}
			}
			for _, f := range formats {
				if err := pipeline.ValidateGraphFormat(f); err != nil {
					return err
				}
			}
			opts.Logger = c.Logger
			return c.runGraph(cmd.Context(), args[0], formats, opts, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (single format) or base path (multiple); - for stdout")
	cmd.Flags().StringVarP(&flags.formats, "format", "f", "", "output format(s): dot, svg, json (comma-separated; default from -o, else dot)")
	cmd.Flags().BoolVar(&flags.detailed, "detailed", false, "label nodes with their resolved values")
	solveFlags(cmd, &opts)

	return cmd
}

// runGraph solves a scene and exports its dependency graph.
func (c *CLI) runGraph(ctx context.Context, input string, formats []string, opts pipeline.Options, flags graphOpts) error {
	doc, err := loadScene(ctx, input)
	if err != nil {
		return err
	}
	if flags.output == "-" && len(formats) > 1 {
		return fmt.Errorf("cannot write %d formats to stdout", len(formats))
	}

	prog := newProgress(c.Logger)
	snapshot, err := pipeline.Graph(ctx, doc, opts)
	if err != nil {
		return fmt.Errorf("graph %s: %w", input, err)
	}
	artifacts, err := pipeline.RenderGraph(ctx, snapshot, formats, flags.detailed)
	if err != nil {
		return err
	}
	prog.done("exported dependency graph", "nodes", len(snapshot.Nodes), "groups", len(snapshot.Groups))

	input = basePath("", input, nil) + "-graph"
	paths := outputPaths(flags.output, input, formats, pipeline.ValidGraphFormats)
	if flags.output == "-" {
		return writeArtifacts(artifacts, formats, paths)
	}

	printSuccess("Exported dependency graph of %s", doc.Name)
	if err := writeArtifacts(artifacts, formats, paths); err != nil {
		return err
	}
	printStats(false,
		fmt.Sprintf("%d nodes", len(snapshot.Nodes)),
		fmt.Sprintf("%d edges", len(snapshot.Edges)),
		fmt.Sprintf("%d groups", len(snapshot.Groups)))
	return nil
}

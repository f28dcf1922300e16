package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/core/analyzer"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the run kind and the resolved value to node labels.
	// When false, only the widget and node type are shown.
	Detailed bool
	// Groups draws each run group as a cluster.
	Groups bool
}

// ToDOT converts a dependency graph snapshot to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
//
// Unresolved nodes are drawn dashed, and edges whose offset is a factor
// of another node (ratio and percent dimensions) are dotted.
func ToDOT(s analyzer.Snapshot, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12, fontname=\"monospace\"];\n")
	buf.WriteString("  edge [fontsize=10];\n")
	buf.WriteString("\n")

	clustered := map[int][]analyzer.SnapshotNode{}
	for _, n := range s.Nodes {
		if opts.Groups && n.Group >= 0 {
			clustered[n.Group] = append(clustered[n.Group], n)
			continue
		}
		writeNode(&buf, "  ", n, opts.Detailed)
	}
	for _, g := range s.Groups {
		nodes := clustered[g.ID]
		if len(nodes) == 0 {
			continue
		}
		fmt.Fprintf(&buf, "\n  subgraph cluster_%d {\n", g.ID)
		fmt.Fprintf(&buf, "    label=%q;\n", groupLabel(g))
		buf.WriteString("    style=\"rounded,dashed\";\n")
		for _, n := range nodes {
			writeNode(&buf, "    ", n, opts.Detailed)
		}
		buf.WriteString("  }\n")
	}

	buf.WriteString("\n")
	for _, e := range s.Edges {
		attrs := ""
		switch {
		case e.Factor:
			attrs = fmt.Sprintf(" [style=dotted, label=\"x%d\"]", e.Margin)
		case e.Margin != 0:
			attrs = fmt.Sprintf(" [label=\"%+d\"]", e.Margin)
		}
		fmt.Fprintf(&buf, "  n%d -> n%d%s;\n", e.From, e.To, attrs)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeNode(buf *bytes.Buffer, indent string, n analyzer.SnapshotNode, detailed bool) {
	attrs := fmt.Sprintf("label=%q", fmtLabel(n, detailed))
	if !n.Resolved {
		attrs += ", style=\"rounded,filled,dashed\", fillcolor=lightgrey"
	}
	fmt.Fprintf(buf, "%sn%d [%s];\n", indent, n.ID, attrs)
}

func fmtLabel(n analyzer.SnapshotNode, detailed bool) string {
	if !detailed {
		return n.Label
	}
	value := "?"
	if n.Resolved {
		value = strconv.Itoa(n.Value)
	}
	return fmt.Sprintf("%s\n%s %s = %s", n.Label, n.Run, n.Axis, value)
}

func groupLabel(g analyzer.SnapshotGroup) string {
	if g.Dual {
		return fmt.Sprintf("group %d (dual)", g.ID)
	}
	return fmt.Sprintf("group %d", g.ID)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the root element Graphviz writes with one
// whose size matches its view box in pixels.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// Package nodelink renders solver dependency graphs as node-link
// diagrams.
//
// # Overview
//
// The dependency graph of a container links the start, end, dimension
// and baseline nodes of every run: an edge means the target's value plus
// the margin gives the node's value. Drawing it shows why a widget ended
// up where it did, and which nodes a failed layout never resolved.
//
// # Usage
//
// Snapshot a measured graph, convert it to DOT, then render to SVG:
//
//	dot := nodelink.ToDOT(g.Snapshot(), nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Options
//
//   - Detailed: labels show the run kind, axis and resolved value
//   - Groups: run groups are drawn as clusters
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering; no Graphviz installation is needed.
package nodelink

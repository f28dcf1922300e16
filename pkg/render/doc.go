// Package render groups the output formats of constraintlayout.
//
// # Overview
//
// Each subpackage turns one kind of result into bytes:
//
//   - [frame] draws solved or interpolated widget frames as SVG or PNG
//   - [nodelink] exports the solver's dependency graph as Graphviz DOT and
//     lays it out as SVG
//   - [plot] charts attribute curves of a sampled transition
//
// The renderers take plain data ([frame.Frame], analyzer snapshots,
// [plot.Series]) so they can be used without the pipeline.
package render

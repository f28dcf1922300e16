// Package pkg provides the libraries behind constraintlayout.
//
// # Overview
//
// A scene is a container of widgets, guidelines and barriers whose edges
// are anchored to the container and to each other. The libraries solve a
// scene into frames, interpolate between two solved states, and render the
// results. The pkg directory is organized into these areas:
//
//  1. [scene] - TOML and JSON scene documents and their validation
//  2. [core] - Domain logic (widgets, the linear solver, the measure
//     analyzer, motion)
//  3. [render] - SVG and PNG frames, Graphviz dependency graphs, plots
//  4. [pipeline] - Orchestration (solve → animate → render) with caching
//  5. [cache] - File, Redis and MongoDB result stores
//
// # Architecture
//
// The typical data flow:
//
//	Scene document (TOML/JSON)
//	         ↓
//	    [scene] package (parse, validate, build the widget tree)
//	         ↓
//	    [core/analyzer] package (measure: dependency graph, then the solver)
//	         ↓
//	    [core/motion] package (interpolate start and end states)
//	         ↓
//	    [render] packages (SVG/PNG/DOT/JSON/plot output)
//
// # Quick Start
//
//	doc, err := scene.Import("card.toml")
//	if err != nil {
//	    return err
//	}
//	layout, err := pipeline.Solve(ctx, doc, pipeline.Options{})
//	if err != nil {
//	    return err
//	}
//	r, _ := layout.Rect("title")
//	fmt.Println(r.X, r.Y, r.Width, r.Height)
//
// # Error Handling
//
// Errors carry a code from [errors] that the HTTP API maps to a status;
// use errors.Is and errors.GetCode to inspect them.
package pkg

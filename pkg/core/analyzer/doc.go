// Package analyzer resolves constraint layouts without, or before,
// falling back to the relaxation solver.
//
// # Strategies
//
// Three strategies are tried in a fixed order by [BasicMeasure]:
//
//   - [DependencyGraph]: one run per widget and axis, wired as a graph of
//     [DependencyNode] values. Resolving the container edges propagates
//     through the graph; if every run resolves the layout is done.
//   - [Direct]: walks anchors outward from the container edges, resolving
//     one widget at a time, with dedicated handling of guidelines,
//     barriers and spread chains.
//   - the relaxation solver in package solver, optionally preceded by
//     [Grouping] to size wrap-content containers one connected group at a
//     time.
//
// After the first solve, widgets whose size depends on the solved
// constraints are measured again and the solve repeated, at most twice.
//
// # Propagation
//
// Nodes and runs live in index-addressed slices owned by the graph.
// Resolving a node queues its dependents on a worklist which is drained
// by the outermost resolve, so propagation depth never grows the call
// stack. Runs are a tagged variant dispatched with a switch on their
// kind.
//
// A [Sequence] passed to [DependencyGraph.BuildGraph] and [Grouping]
// numbers groups for one pass; nothing in this package keeps global
// state.
//
// None of the types here are safe for concurrent use. A pass mutates the
// widgets it lays out, so passes over the same container must be
// serialized by the caller.
package analyzer

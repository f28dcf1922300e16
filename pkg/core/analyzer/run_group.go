package analyzer

import (
	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/core/widgets"
)

// RunGroup is a set of runs connected to each other through their
// nodes, starting from one container edge. Runs tied across axes, such
// as a ratio, end up in the same group.
type RunGroup struct {
	ID   int
	Runs []RunID
	// Dual is set when the group reaches both container edges.
	Dual bool
}

// ComputeWrapSize returns the container size on axis o needed by the
// widgets of the group.
func (rg *RunGroup) ComputeWrapSize(g *DependencyGraph, o widgets.Orientation) int {
	var ws []*widgets.Widget
	for _, id := range rg.Runs {
		r := &g.runs[id]
		if r.Orientation != o {
			continue
		}
		switch r.Kind {
		case RunWidget, RunGuideline, RunHelper:
			ws = append(ws, r.Widget)
		}
	}
	if len(ws) == 0 {
		return 0
	}
	return widgets.ExtentWith(&g.container.Widget, ws, o, g.metrics)
}

func (g *DependencyGraph) findGroups(seq *Sequence) {
	for i := range g.runs {
		g.runs[i].Group = -1
	}
	for _, o := range axes {
		cr := &g.runs[g.containerRun[o]]
		for _, n := range []NodeID{cr.Start, cr.End} {
			for _, d := range g.nodes[n].dependents {
				g.applyGroup(g.runOf(d), o, seq)
			}
		}
	}
}

func (g *DependencyGraph) runOf(d dependent) RunID {
	if d.run {
		return RunID(d.id)
	}
	return g.nodes[d.id].Run
}

// applyGroup collects every run reachable from start into one group,
// walking both dependents and targets with an explicit stack. Reaching
// a run already grouped merges nothing: the walk only claims unassigned
// runs.
func (g *DependencyGraph) applyGroup(start RunID, o widgets.Orientation, seq *Sequence) {
	if start == NoRun || g.runs[start].Kind == RunContainer || g.runs[start].Group >= 0 {
		return
	}
	rg := &RunGroup{ID: seq.Next()}
	gi := len(g.groups)
	g.groups = append(g.groups, rg)
	end := g.runs[g.containerRun[o]].End

	stack := []RunID{start}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		r := &g.runs[id]
		if r.Kind == RunContainer || r.Group >= 0 {
			continue
		}
		r.Group = gi
		rg.Runs = append(rg.Runs, id)
		stack = append(stack, r.Members...)
		if r.Kind == RunWidget && r.Widget.HasRatio(r.Orientation) {
			stack = append(stack, g.widgetRuns[r.Widget][r.Orientation.Other()])
		}
		for _, n := range []NodeID{r.Start, r.End, r.Dimension, r.Baseline, r.BaselineDim} {
			if n == NoNode {
				continue
			}
			for _, d := range g.nodes[n].dependents {
				stack = append(stack, g.runOf(d))
			}
			for _, t := range g.nodes[n].Targets {
				if t == end {
					rg.Dual = true
				}
				stack = append(stack, g.nodes[t].Run)
			}
		}
	}
}

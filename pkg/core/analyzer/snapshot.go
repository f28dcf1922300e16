package analyzer

import (
	"fmt"

	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/core/widgets"
)

// Snapshot is a read-only copy of the graph state, for inspection and
// rendering.
type Snapshot struct {
	Nodes  []SnapshotNode  `json:"nodes"`
	Edges  []SnapshotEdge  `json:"edges"`
	Groups []SnapshotGroup `json:"groups"`
}

// SnapshotNode is one node of a [Snapshot].
type SnapshotNode struct {
	ID       int    `json:"id"`
	Label    string `json:"label"`
	Widget   string `json:"widget"`
	Run      string `json:"run"`
	Axis     string `json:"axis"`
	Type     string `json:"type"`
	Resolved bool   `json:"resolved"`
	Value    int    `json:"value"`
	Group    int    `json:"group"`
}

// SnapshotEdge links a target node to the node following it.
type SnapshotEdge struct {
	From   int  `json:"from"`
	To     int  `json:"to"`
	Margin int  `json:"margin"`
	Factor bool `json:"factor,omitempty"`
}

// SnapshotGroup lists the widgets of a run group.
type SnapshotGroup struct {
	ID      int      `json:"id"`
	Dual    bool     `json:"dual"`
	Widgets []string `json:"widgets"`
}

// Snapshot copies the current graph.
func (g *DependencyGraph) Snapshot() Snapshot {
	var s Snapshot
	for i := range g.nodes {
		n := &g.nodes[i]
		r := &g.runs[n.Run]
		group := -1
		if r.Group >= 0 {
			group = g.groups[r.Group].ID
		}
		s.Nodes = append(s.Nodes, SnapshotNode{
			ID:       i,
			Label:    fmt.Sprintf("%s.%s", r.Widget.ID, n.Type),
			Widget:   r.Widget.ID,
			Run:      r.Kind.String(),
			Axis:     r.Orientation.String(),
			Type:     n.Type.String(),
			Resolved: n.Resolved,
			Value:    n.Value,
			Group:    group,
		})
		for _, t := range n.Targets {
			s.Edges = append(s.Edges, SnapshotEdge{From: int(t), To: i, Margin: n.Margin})
		}
		if n.MarginDependency != NoNode {
			s.Edges = append(s.Edges, SnapshotEdge{From: int(n.MarginDependency), To: i, Margin: n.MarginFactor, Factor: true})
		}
	}
	for _, rg := range g.groups {
		sg := SnapshotGroup{ID: rg.ID, Dual: rg.Dual}
		seen := map[*widgets.Widget]bool{}
		for _, id := range rg.Runs {
			w := g.runs[id].Widget
			if !seen[w] {
				seen[w] = true
				sg.Widgets = append(sg.Widgets, w.ID)
			}
		}
		s.Groups = append(s.Groups, sg)
	}
	return s
}

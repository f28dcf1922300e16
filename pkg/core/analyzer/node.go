package analyzer

// NodeID addresses a [DependencyNode] in the graph arena.
type NodeID int32

// NoNode marks an absent node reference.
const NoNode NodeID = -1

// NodeType names what a node stands for.
type NodeType uint8

const (
	NodeUnknown NodeType = iota
	NodeHorizontalDimension
	NodeVerticalDimension
	NodeLeft
	NodeRight
	NodeTop
	NodeBottom
	NodeBaseline
	NodeBaselineDimension
)

var nodeTypeNames = [...]string{
	NodeUnknown:             "unknown",
	NodeHorizontalDimension: "horizontal_dimension",
	NodeVerticalDimension:   "vertical_dimension",
	NodeLeft:                "left",
	NodeRight:               "right",
	NodeTop:                 "top",
	NodeBottom:              "bottom",
	NodeBaseline:            "baseline",
	NodeBaselineDimension:   "baseline_dimension",
}

func (t NodeType) String() string {
	if int(t) < len(nodeTypeNames) {
		return nodeTypeNames[t]
	}
	return "unknown"
}

// IsDimension reports whether the node holds a size rather than a
// position.
func (t NodeType) IsDimension() bool {
	return t == NodeHorizontalDimension || t == NodeVerticalDimension || t == NodeBaselineDimension
}

// dependent is a reference to whatever must be updated when a node
// resolves: another node, or a run.
type dependent struct {
	run bool
	id  int32
}

// DependencyNode is one position or size in the dependency graph.
//
// A position node with a single resolved position target resolves to
// the target value plus Margin. When MarginDependency is set, the
// margin is first recomputed as MarginFactor times that node's value.
// A node with DelegateToRun leaves its resolution to its run.
type DependencyNode struct {
	Type  NodeType
	Run   RunID
	Value int

	Resolved     bool
	ReadyToSolve bool

	Margin           int
	MarginFactor     int
	MarginDependency NodeID
	DelegateToRun    bool

	// WrapValue is the wrapped content size of a wrap match-constraint
	// dimension.
	WrapValue int
	hasWrap   bool

	Targets    []NodeID
	dependents []dependent
	// delegate is a run updated on every update of this node.
	delegate RunID
}

// Node returns the node with the given id.
func (g *DependencyGraph) Node(id NodeID) *DependencyNode { return &g.nodes[id] }

// Nodes returns the number of nodes in the arena.
func (g *DependencyGraph) Nodes() int { return len(g.nodes) }

func (g *DependencyGraph) newNode(t NodeType, run RunID) NodeID {
	g.nodes = append(g.nodes, DependencyNode{
		Type:             t,
		Run:              run,
		MarginFactor:     1,
		MarginDependency: NoNode,
		delegate:         NoRun,
	})
	return NodeID(len(g.nodes) - 1)
}

// addTarget makes node follow target at the given margin.
func (g *DependencyGraph) addTarget(node, target NodeID, margin int) {
	if target == NoNode {
		return
	}
	n := &g.nodes[node]
	n.Targets = append(n.Targets, target)
	n.Margin = margin
	g.nodes[target].dependents = append(g.nodes[target].dependents, dependent{id: int32(node)})
}

// addTargetFactor makes node follow target at factor times the value of
// dim.
func (g *DependencyGraph) addTargetFactor(node, target NodeID, factor int, dim NodeID) {
	g.addTarget(node, target, 0)
	n := &g.nodes[node]
	n.MarginFactor = factor
	n.MarginDependency = dim
	g.nodes[dim].dependents = append(g.nodes[dim].dependents, dependent{id: int32(node)})
}

// addRunDependent updates run whenever node resolves.
func (g *DependencyGraph) addRunDependent(node NodeID, run RunID) {
	g.nodes[node].dependents = append(g.nodes[node].dependents, dependent{run: true, id: int32(run)})
}

// Resolve fixes the value of a node and propagates it to everything
// depending on it. Resolving a resolved node does nothing.
func (g *DependencyGraph) Resolve(id NodeID, v int) {
	if g.building {
		g.deferred = append(g.deferred, deferredValue{id, v})
		return
	}
	n := &g.nodes[id]
	if n.Resolved {
		return
	}
	n.Resolved = true
	n.Value = v
	g.pending = append(g.pending, n.dependents...)
	if !g.draining {
		g.drain()
	}
}

// drain processes the worklist until it is empty. The stack order keeps
// a chain of dependents resolving depth first.
func (g *DependencyGraph) drain() {
	g.draining = true
	defer func() { g.draining = false }()
	for len(g.pending) > 0 {
		d := g.pending[len(g.pending)-1]
		g.pending = g.pending[:len(g.pending)-1]
		if d.run {
			g.updateRun(RunID(d.id))
		} else {
			g.updateNode(NodeID(d.id))
		}
	}
}

// touch schedules an update of run and drains the worklist.
func (g *DependencyGraph) touch(run RunID) {
	g.pending = append(g.pending, dependent{run: true, id: int32(run)})
	if !g.draining {
		g.drain()
	}
}

func (g *DependencyGraph) targetsResolved(id NodeID) bool {
	for _, t := range g.nodes[id].Targets {
		if !g.nodes[t].Resolved {
			return false
		}
	}
	return true
}

func (g *DependencyGraph) updateNode(id NodeID) {
	n := &g.nodes[id]
	if !g.targetsResolved(id) {
		return
	}
	n.ReadyToSolve = true
	if n.delegate != NoRun {
		g.updateRun(n.delegate)
	}
	if n.DelegateToRun {
		g.updateRun(n.Run)
		return
	}
	target, count := NoNode, 0
	for _, t := range n.Targets {
		if g.nodes[t].Type.IsDimension() {
			continue
		}
		target = t
		count++
	}
	if target != NoNode && count == 1 {
		if n.MarginDependency != NoNode {
			md := &g.nodes[n.MarginDependency]
			if !md.Resolved {
				return
			}
			n.Margin = n.MarginFactor * md.Value
		}
		g.Resolve(id, g.nodes[target].Value+n.Margin)
	}
	if n.delegate != NoRun {
		g.updateRun(n.delegate)
	}
}

type deferredValue struct {
	id NodeID
	v  int
}

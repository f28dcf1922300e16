// Package widgets provides the constraint model consumed by the layout
// solvers: widgets with directional anchors, containers, guidelines,
// barriers and chains.
//
// # Overview
//
// A [Widget] is a rectangle with four side anchors (left, top, right,
// bottom) plus a baseline anchor. Each [Anchor] may target an anchor of a
// sibling or of the parent [Container], with a margin and an optional gone
// margin that applies when the target is [Gone]:
//
//	c := widgets.NewContainer("root")
//	c.SetSize(500, 300)
//	a := widgets.NewWidget("a")
//	a.SetSize(100, 100)
//	c.Add(a)
//	a.Connect(widgets.AnchorLeft, &c.Widget, widgets.AnchorLeft, 16)
//	a.Connect(widgets.AnchorCenterY, &c.Widget, widgets.AnchorCenterY, 0)
//
// Connecting a center anchor expands into the two opposing side
// connections, so solvers only ever see side and baseline anchors.
//
// # Dimensions
//
// Every axis carries a [DimensionBehaviour]. [MatchConstraint] sizes are
// derived from the constraints with one of four [MatchConstraintDefault]
// sub-modes: spread (fill the space between targets), wrap (content size
// bounded by the space), percent (fraction of the parent) and ratio
// (derived from the other axis, see [ParseRatio]).
//
// # Helpers
//
// Guidelines and barriers are widgets with a [Guideline] or [Barrier]
// attached. They have no size of their own and expose a single position
// on one axis. Chains are detected from bidirectional anchor links by
// [Container.DefineChains] and laid out with [LayoutChain], which every
// solver shares so their results agree.
//
// # Measuring
//
// Widgets whose size depends on content are measured through the
// [Measurer] interface. [IntrinsicMeasurer] measures from the static
// [Content] attached to each widget and is what scene documents use.
package widgets

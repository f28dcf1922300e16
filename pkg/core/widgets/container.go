package widgets

// Container is the parent of a set of widgets. Its own frame starts at
// the origin of the layout.
type Container struct {
	Widget

	Children     []*Widget
	Measurer     Measurer
	Optimization Optimization
	RTL          bool

	chains [2][]*ChainHead
}

// NewContainer returns an empty fixed-size container using the standard
// optimization level.
func NewContainer(id string) *Container {
	c := &Container{Optimization: OptimizationStandard}
	c.setup(id)
	return c
}

// Add appends widgets as children.
func (c *Container) Add(ws ...*Widget) {
	for _, w := range ws {
		w.Parent = &c.Widget
		c.Children = append(c.Children, w)
	}
}

// Find returns the child with the given id, or nil.
func (c *Container) Find(id string) *Widget {
	if id == c.ID {
		return &c.Widget
	}
	for _, w := range c.Children {
		if w.ID == id {
			return w
		}
	}
	return nil
}

// IsParent reports whether w is the container itself.
func (c *Container) IsParent(w *Widget) bool { return w == &c.Widget }

// Bias returns the bias of w on axis o, mirrored for right-to-left
// horizontal layouts.
func (c *Container) Bias(w *Widget, o Orientation) float64 {
	if o == Horizontal && c.RTL {
		return 1 - w.Bias[o]
	}
	return w.Bias[o]
}

// Guidelines returns the guideline children.
func (c *Container) Guidelines() []*Widget {
	var out []*Widget
	for _, w := range c.Children {
		if w.Guideline != nil {
			out = append(out, w)
		}
	}
	return out
}

// Barriers returns the barrier children.
func (c *Container) Barriers() []*Widget {
	var out []*Widget
	for _, w := range c.Children {
		if w.Barrier != nil {
			out = append(out, w)
		}
	}
	return out
}

// ResetFinalResolution clears the per-pass resolution of the container
// and every child.
func (c *Container) ResetFinalResolution() {
	c.Widget.ResetFinalResolution()
	for _, w := range c.Children {
		w.ResetFinalResolution()
	}
}

// Chains returns the chains found by the last DefineChains on axis o.
func (c *Container) Chains(o Orientation) []*ChainHead { return c.chains[o] }

// DefineChains detects chains from bidirectional links between sibling
// anchors and records them on the container and on every member.
func (c *Container) DefineChains() {
	for _, o := range []Orientation{Horizontal, Vertical} {
		c.chains[o] = c.chains[o][:0]
		for _, w := range c.Children {
			w.chainPrev[o], w.chainNext[o], w.chainHead[o] = nil, nil, nil
		}
		for _, w := range c.Children {
			if w.IsHelper() {
				continue
			}
			if p := c.linkedNeighbour(w.StartAnchor(o), o); p != nil {
				w.chainPrev[o] = p
			}
			if n := c.linkedNeighbour(w.EndAnchor(o), o); n != nil {
				w.chainNext[o] = n
			}
		}
		for _, w := range c.Children {
			if w.IsHelper() || w.chainPrev[o] != nil || w.chainNext[o] == nil {
				continue
			}
			c.chains[o] = append(c.chains[o], newChainHead(w, o, c.RTL))
		}
	}
}

// linkedNeighbour returns the sibling whose opposite anchor targets back
// at a, forming a chain link.
func (c *Container) linkedNeighbour(a *Anchor, o Orientation) *Widget {
	t := a.Target
	if t == nil || t.Owner == &c.Widget || t.Owner.IsHelper() || t.Owner.Parent != &c.Widget {
		return nil
	}
	if t.Type != a.Type.Opposite() || t.Target != a {
		return nil
	}
	return t.Owner
}

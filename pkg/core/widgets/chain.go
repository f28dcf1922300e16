package widgets

import "math"

// ChainStyle controls how a chain distributes free space.
type ChainStyle int

const (
	// ChainSpread puts equal gaps before, between and after the members.
	ChainSpread ChainStyle = iota
	// ChainSpreadInside puts equal gaps between members only.
	ChainSpreadInside
	// ChainPacked packs the members together and places the block by
	// the head's bias.
	ChainPacked
)

func (s ChainStyle) String() string {
	switch s {
	case ChainSpread:
		return "spread"
	case ChainSpreadInside:
		return "spread_inside"
	case ChainPacked:
		return "packed"
	}
	return "unknown"
}

// ParseChainStyle maps a style name to its value.
func ParseChainStyle(s string) (ChainStyle, bool) {
	switch s {
	case "", "spread":
		return ChainSpread, true
	case "spread_inside", "spreadInside", "spread-inside":
		return ChainSpreadInside, true
	case "packed":
		return ChainPacked, true
	}
	return ChainSpread, false
}

// ChainHead describes one chain on one axis. Members are in physical
// order (left to right, top to bottom). Head is the member whose style
// and bias apply: the first member, or the last one in a right-to-left
// horizontal chain.
type ChainHead struct {
	Orientation  Orientation
	Members      []*Widget
	First, Last  *Widget
	FirstVisible *Widget
	LastVisible  *Widget
	Head         *Widget
	Style        ChainStyle
	Bias         float64
	RTL          bool

	VisibleCount       int
	HasMatchConstraint bool
	TotalWeight        float64
}

func newChainHead(first *Widget, o Orientation, rtl bool) *ChainHead {
	h := &ChainHead{Orientation: o, First: first, RTL: rtl && o == Horizontal}
	seen := map[*Widget]bool{}
	for w := first; w != nil && !seen[w]; w = w.chainNext[o] {
		seen[w] = true
		w.chainHead[o] = h
		h.Members = append(h.Members, w)
		h.Last = w
		if w.Visibility == Gone {
			continue
		}
		if h.FirstVisible == nil {
			h.FirstVisible = w
		}
		h.LastVisible = w
		h.VisibleCount++
		if w.EffectiveBehaviour(o) == MatchConstraint {
			h.HasMatchConstraint = true
			if w.Weight[o] > 0 {
				h.TotalWeight += w.Weight[o]
			}
		}
	}
	h.Head = h.First
	if h.RTL {
		h.Head = h.Last
	}
	h.Style = h.Head.ChainStyle[o]
	h.Bias = h.Head.Bias[o]
	return h
}

// StartTarget returns the anchor the chain starts from.
func (h *ChainHead) StartTarget() *Anchor { return h.First.StartAnchor(h.Orientation).Target }

// EndTarget returns the anchor the chain ends at.
func (h *ChainHead) EndTarget() *Anchor { return h.Last.EndAnchor(h.Orientation).Target }

// Item describes member w for [LayoutChain] with the given content size.
// match marks a member sized by the chain.
func (h *ChainHead) Item(w *Widget, size int, match bool) ChainItem {
	o := h.Orientation
	return ChainItem{
		Size:        size,
		StartMargin: w.StartAnchor(o).EffectiveMargin(),
		EndMargin:   w.EndAnchor(o).EffectiveMargin(),
		Gone:        w.Visibility == Gone,
		Match:       match,
		Weight:      w.Weight[o],
		Min:         w.MatchMin[o],
		Max:         w.MatchMax[o],
	}
}

// Layout positions the chain between start and end. size reports the
// size of members the chain does not size itself (everything except
// spread and wrap match-constraint members); a false result leaves the
// chain unresolved. Wrap members first count with their wrapped size;
// when that overflows they are sized like spread members, bounded by
// their wrapped size.
func (h *ChainHead) Layout(start, end int, size func(w *Widget) (int, bool)) (pos, sizes []int, ok bool) {
	o := h.Orientation
	build := func(wrapAsFixed bool) ([]ChainItem, int, bool) {
		items := make([]ChainItem, len(h.Members))
		total := 0
		for i, w := range h.Members {
			var it ChainItem
			switch {
			case w.Visibility == Gone:
				it = h.Item(w, 0, false)
			case w.EffectiveBehaviour(o) == MatchConstraint && w.MatchMode(o) == MatchConstraintSpread:
				it = h.Item(w, 0, true)
			case w.EffectiveBehaviour(o) == MatchConstraint && w.MatchMode(o) == MatchConstraintWrap:
				wrap := w.WrapMeasure[o]
				if wrapAsFixed {
					it = h.Item(w, wrap, false)
					break
				}
				it = h.Item(w, 0, true)
				if it.Max <= 0 || it.Max > wrap {
					it.Max = wrap
				}
			default:
				s, ok := size(w)
				if !ok {
					return nil, 0, false
				}
				it = h.Item(w, s, false)
			}
			total += it.StartMargin + it.EndMargin
			if !it.Match {
				total += it.Size
			}
			items[i] = it
		}
		return items, total, true
	}
	items, total, ok := build(true)
	if !ok {
		return nil, nil, false
	}
	if total > end-start {
		items, _, _ = build(false)
	}
	pos, sizes = LayoutChain(h.Style, h.Bias, h.RTL, start, end, items)
	return pos, sizes, true
}

// ChainItem is one member as seen by [LayoutChain].
type ChainItem struct {
	Size        int
	StartMargin int
	EndMargin   int
	Gone        bool
	Match       bool
	Weight      float64
	Min, Max    int
}

// LayoutChain positions chain members between start and end. Match
// items share the remaining space by weight, or equally when no weight
// is set, clamped to their bounds. A single visible member or an
// overflowing chain is packed. Right-to-left chains are laid out
// mirrored so bias counts from the end.
func LayoutChain(style ChainStyle, bias float64, rtl bool, start, end int, items []ChainItem) (pos, sizes []int) {
	n := len(items)
	pos = make([]int, n)
	sizes = make([]int, n)
	if n == 0 {
		return pos, sizes
	}
	if rtl {
		mirrored := make([]ChainItem, n)
		for i, it := range items {
			it.StartMargin, it.EndMargin = it.EndMargin, it.StartMargin
			mirrored[n-1-i] = it
		}
		mp, ms := LayoutChain(style, bias, false, -end, -start, mirrored)
		for i := range items {
			j := n - 1 - i
			sizes[i] = ms[j]
			pos[i] = -(mp[j] + ms[j])
		}
		return pos, sizes
	}

	distance := end - start
	visible, matches, used := 0, 0, 0
	totalWeight := 0.0
	for i, it := range items {
		used += it.StartMargin + it.EndMargin
		if it.Gone {
			continue
		}
		visible++
		if it.Match {
			matches++
			if it.Weight > 0 {
				totalWeight += it.Weight
			}
			continue
		}
		sizes[i] = it.Size
		used += it.Size
	}
	if matches > 0 {
		remaining := max(distance-used, 0)
		for i, it := range items {
			if it.Gone || !it.Match {
				continue
			}
			share := remaining / matches
			if totalWeight > 0 {
				share = int(0.5 + max(it.Weight, 0)*float64(remaining)/totalWeight)
			}
			sizes[i] = LimitedDimension(share, it.Min, it.Max)
			used += sizes[i]
		}
	}

	slack := distance - used
	if visible <= 1 || slack < 0 {
		style = ChainPacked
	}
	cursor, gap := start, 0
	switch style {
	case ChainSpread:
		gap = slack / (visible + 1)
		cursor += gap
	case ChainSpreadInside:
		gap = slack / (visible - 1)
	default:
		cursor += int(math.Floor(float64(slack)*bias + 0.5))
	}
	placed := 0
	for i, it := range items {
		cursor += it.StartMargin
		pos[i] = cursor
		cursor += sizes[i] + it.EndMargin
		if it.Gone {
			continue
		}
		placed++
		if placed < visible {
			cursor += gap
		}
	}
	return pos, sizes
}

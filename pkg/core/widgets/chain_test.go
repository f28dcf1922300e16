package widgets

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func fixedItems(sizes ...int) []ChainItem {
	items := make([]ChainItem, len(sizes))
	for i, s := range sizes {
		items[i] = ChainItem{Size: s}
	}
	return items
}

func TestLayoutChain(t *testing.T) {
	tests := []struct {
		name      string
		style     ChainStyle
		bias      float64
		rtl       bool
		items     []ChainItem
		wantPos   []int
		wantSizes []int
	}{
		{
			name:      "spread",
			style:     ChainSpread,
			bias:      0.5,
			items:     fixedItems(100, 100, 100),
			wantPos:   []int{50, 200, 350},
			wantSizes: []int{100, 100, 100},
		},
		{
			name:      "spread inside",
			style:     ChainSpreadInside,
			bias:      0.5,
			items:     fixedItems(100, 100, 100),
			wantPos:   []int{0, 200, 400},
			wantSizes: []int{100, 100, 100},
		},
		{
			name:      "packed centered",
			style:     ChainPacked,
			bias:      0.5,
			items:     fixedItems(100, 100, 100),
			wantPos:   []int{100, 200, 300},
			wantSizes: []int{100, 100, 100},
		},
		{
			name:      "packed start",
			style:     ChainPacked,
			bias:      0,
			items:     fixedItems(100, 100, 100),
			wantPos:   []int{0, 100, 200},
			wantSizes: []int{100, 100, 100},
		},
		{
			name:      "packed rtl mirrors bias",
			style:     ChainPacked,
			bias:      0,
			rtl:       true,
			items:     fixedItems(100, 100, 100),
			wantPos:   []int{200, 300, 400},
			wantSizes: []int{100, 100, 100},
		},
		{
			name:      "single member is packed",
			style:     ChainSpreadInside,
			bias:      0.5,
			items:     fixedItems(100),
			wantPos:   []int{200},
			wantSizes: []int{100},
		},
		{
			name:      "overflow is packed",
			style:     ChainSpread,
			bias:      0.5,
			items:     fixedItems(300, 300),
			wantPos:   []int{-50, 250},
			wantSizes: []int{300, 300},
		},
		{
			name:  "margins",
			style: ChainSpread,
			bias:  0.5,
			items: []ChainItem{
				{Size: 100, StartMargin: 10, EndMargin: 10},
				{Size: 100, StartMargin: 10},
			},
			wantPos:   []int{100, 310},
			wantSizes: []int{100, 100},
		},
		{
			name:  "weighted match",
			style: ChainSpread,
			bias:  0.5,
			items: []ChainItem{
				{Match: true, Weight: 1},
				{Match: true, Weight: 3},
				{Size: 100},
			},
			wantPos:   []int{0, 100, 400},
			wantSizes: []int{100, 300, 100},
		},
		{
			name:  "unweighted match shares equally",
			style: ChainSpread,
			bias:  0.5,
			items: []ChainItem{
				{Match: true},
				{Match: true},
			},
			wantPos:   []int{0, 250},
			wantSizes: []int{250, 250},
		},
		{
			name:  "match clamped to max",
			style: ChainSpread,
			bias:  0.5,
			items: []ChainItem{
				{Match: true, Max: 100},
				{Size: 100},
			},
			wantPos:   []int{100, 300},
			wantSizes: []int{100, 100},
		},
		{
			name:  "gone member takes no space",
			style: ChainSpread,
			bias:  0.5,
			items: []ChainItem{
				{Size: 100},
				{Size: 100, Gone: true},
				{Size: 100},
			},
			wantPos:   []int{100, 300, 300},
			wantSizes: []int{100, 0, 100},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, sizes := LayoutChain(tt.style, tt.bias, tt.rtl, 0, 500, tt.items)
			if diff := cmp.Diff(tt.wantPos, pos); diff != "" {
				t.Errorf("positions mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantSizes, sizes); diff != "" {
				t.Errorf("sizes mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLayoutChainSpreadConservation(t *testing.T) {
	// Equal gaps and the whole distance used up to integer rounding.
	for _, distance := range []int{300, 301, 457, 1000} {
		items := fixedItems(40, 70, 10, 25)
		pos, sizes := LayoutChain(ChainSpread, 0.5, false, 0, distance, items)
		gap := pos[0]
		for i := 1; i < len(pos); i++ {
			if got := pos[i] - (pos[i-1] + sizes[i-1]); got != gap {
				t.Errorf("distance %d: gap %d = %d, want %d", distance, i, got, gap)
			}
		}
		trailing := distance - (pos[len(pos)-1] + sizes[len(sizes)-1])
		if trailing < gap || trailing > gap+len(items) {
			t.Errorf("distance %d: trailing gap = %d, want %d (+rounding)", distance, trailing, gap)
		}
	}
}

func TestLayoutChainRemainderTrails(t *testing.T) {
	tests := []struct {
		style        ChainStyle
		wantPos      []int
		wantTrailing int
	}{
		{ChainSpread, []int{50, 200, 350}, 51},
		{ChainSpreadInside, []int{0, 200, 400}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.style.String(), func(t *testing.T) {
			pos, sizes := LayoutChain(tt.style, 0.5, false, 0, 501, fixedItems(100, 100, 100))
			if diff := cmp.Diff(tt.wantPos, pos); diff != "" {
				t.Errorf("positions mismatch (-want +got):\n%s", diff)
			}
			if got := 501 - (pos[2] + sizes[2]); got != tt.wantTrailing {
				t.Errorf("trailing gap = %d, want %d", got, tt.wantTrailing)
			}
		})
	}
}

func TestDefineChains(t *testing.T) {
	c := NewContainer("root")
	c.SetSize(500, 100)
	a, b, d := NewWidget("a"), NewWidget("b"), NewWidget("d")
	c.Add(a, b, d)
	a.Left.Connect(&c.Left, 0)
	a.Right.Connect(&b.Left, 0)
	b.Left.Connect(&a.Right, 0)
	b.Right.Connect(&d.Left, 0)
	d.Left.Connect(&b.Right, 0)
	d.Right.Connect(&c.Right, 0)
	a.ChainStyle[Horizontal] = ChainPacked
	a.Bias[Horizontal] = 0.2

	c.DefineChains()

	chains := c.Chains(Horizontal)
	if len(chains) != 1 {
		t.Fatalf("Chains(Horizontal) = %d chains, want 1", len(chains))
	}
	h := chains[0]
	if h.First != a || h.Last != d || h.Head != a {
		t.Errorf("chain ends = %v..%v head %v, want a..d head a", h.First, h.Last, h.Head)
	}
	if h.Style != ChainPacked || h.Bias != 0.2 {
		t.Errorf("chain style = %v bias %v, want packed 0.2", h.Style, h.Bias)
	}
	if !b.InChain(Horizontal) || b.PreviousChainMember(Horizontal) != a || b.NextChainMember(Horizontal) != d {
		t.Error("b should be linked between a and d")
	}
	if len(c.Chains(Vertical)) != 0 {
		t.Error("no vertical chain expected")
	}

	c.RTL = true
	c.DefineChains()
	if got := c.Chains(Horizontal)[0].Head; got != d {
		t.Errorf("RTL head = %v, want d", got)
	}
}

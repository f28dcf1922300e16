package widgets

import "strings"

// Optimization is a bit set selecting solver fast paths.
type Optimization int

const (
	OptimizationNone       Optimization = 0
	OptimizationDirect     Optimization = 1
	OptimizationBarrier    Optimization = 1 << 1
	OptimizationChain      Optimization = 1 << 2
	OptimizationDimensions Optimization = 1 << 3
	OptimizationRatio      Optimization = 1 << 4
	OptimizationGroups     Optimization = 1 << 5
	OptimizationGraph      Optimization = 1 << 6
	OptimizationGraphWrap  Optimization = 1 << 7
	OptimizationCache      Optimization = 1 << 8
	OptimizationDependency Optimization = 1 << 9
	OptimizationGrouping   Optimization = 1 << 10

	OptimizationStandard = OptimizationDirect | OptimizationBarrier | OptimizationChain |
		OptimizationCache | OptimizationGraph | OptimizationGrouping
)

var optimizationNames = []struct {
	flag Optimization
	name string
}{
	{OptimizationDirect, "direct"},
	{OptimizationBarrier, "barrier"},
	{OptimizationChain, "chain"},
	{OptimizationDimensions, "dimensions"},
	{OptimizationRatio, "ratio"},
	{OptimizationGroups, "groups"},
	{OptimizationGraph, "graph"},
	{OptimizationGraphWrap, "graph_wrap"},
	{OptimizationCache, "cache"},
	{OptimizationDependency, "dependency"},
	{OptimizationGrouping, "grouping"},
}

// Enabled reports whether every bit of flag is set.
func (o Optimization) Enabled(flag Optimization) bool { return o&flag == flag }

func (o Optimization) String() string {
	if o == OptimizationNone {
		return "none"
	}
	var parts []string
	for _, f := range optimizationNames {
		if o.Enabled(f.flag) {
			parts = append(parts, f.name)
		}
	}
	return strings.Join(parts, "|")
}

// ParseOptimization parses a "|" or "," separated list of flag names.
// "standard" and "none" name the presets.
func ParseOptimization(s string) (Optimization, bool) {
	var out Optimization
	for _, p := range strings.FieldsFunc(s, func(r rune) bool { return r == '|' || r == ',' }) {
		p = strings.TrimSpace(strings.ToLower(p))
		switch p {
		case "", "none":
			continue
		case "standard":
			out |= OptimizationStandard
			continue
		}
		found := false
		for _, f := range optimizationNames {
			if f.name == p {
				out |= f.flag
				found = true
				break
			}
		}
		if !found {
			return 0, false
		}
	}
	return out, true
}

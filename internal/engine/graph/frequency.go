package graph

import "sort"

// Edge is a directed pair of cyclically adjacent nodes.
type Edge struct {
	From string
	To   string
}

type EdgeCount struct {
	Edge
	Count int
}

// EdgeFrequencies counts, over all cycles, how often each cyclically adjacent
// pair appears. Results are ordered by count descending; equal counts are
// ordered by edge for stable output.
func EdgeFrequencies(cycles []Cycle) []EdgeCount {
	counts := make(map[Edge]int)
	for _, c := range cycles {
		for i := range c {
			counts[Edge{From: c[i], To: c[(i+1)%len(c)]}]++
		}
	}

	out := make([]EdgeCount, 0, len(counts))
	for e, n := range counts {
		out = append(out, EdgeCount{Edge: e, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].To < out[j].To
	})
	return out
}

// TopEdges returns at most n entries of EdgeFrequencies(cycles).
func TopEdges(cycles []Cycle, n int) []EdgeCount {
	all := EdgeFrequencies(cycles)
	if n < 0 {
		n = 0
	}
	if n < len(all) {
		all = all[:n]
	}
	return all
}

package graph

import "sort"

// Minimize replaces c with the smallest cycle reachable through one chord.
//
// Every ordered index pair (i, j) with j != i and j != i+1 is tried, in
// row-major order. When g has the edge c[i]->c[j]:
//   - j > i is a shortcut: the nodes strictly between i and j are skipped,
//     leaving len(c)-(j-i-1) nodes;
//   - j <= i closes the contained sub-cycle c[j..i] of i-j+1 nodes.
//
// The pair with the strictly smallest result wins; earlier pairs win ties.
// Exactly one reduction is applied, so the result may itself admit another.
// When no pair qualifies c is returned unchanged.
func Minimize(g Graph, c Cycle) Cycle {
	n := len(c)
	found := false
	var bestI, bestJ, bestSize int

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if j == i || j == i+1 || !g.HasEdge(c[i], c[j]) {
				continue
			}
			size := reducedLength(n, i, j)
			if found && size >= bestSize {
				continue
			}
			found = true
			bestI, bestJ, bestSize = i, j, size
		}
	}

	if !found {
		return c
	}
	return reduce(c, bestI, bestJ)
}

func reducedLength(n, i, j int) int {
	if j > i {
		return n - (j - i - 1)
	}
	return i - j + 1
}

func reduce(c Cycle, i, j int) Cycle {
	if i < j {
		out := make([]string, 0, i+1+len(c)-j)
		out = append(out, c[:i+1]...)
		out = append(out, c[j:]...)
		return Canonicalize(out)
	}
	return Canonicalize(c[j : i+1])
}

// MinimizeAll minimizes each cycle once against g, shortest input first, and
// returns the distinct results sorted by their rendered form.
func MinimizeAll(g Graph, cycles []Cycle) []Cycle {
	ordered := make([]Cycle, len(cycles))
	copy(ordered, cycles)
	sort.SliceStable(ordered, func(i, j int) bool {
		return len(ordered[i]) < len(ordered[j])
	})

	out := NewCycleSet()
	for _, c := range ordered {
		out.Add(Minimize(g, c))
	}
	return out.Sorted()
}

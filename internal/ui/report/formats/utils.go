package formats

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"cyclewatch/internal/engine/graph"
)

// cycleGraph is the subgraph formed by the edges of a set of cycles.
type cycleGraph struct {
	nodes []string
	edges []graph.EdgeCount // ordered by From, then To
	hot   map[graph.Edge]bool
}

func newCycleGraph(cycles []graph.Cycle, topEdges int) cycleGraph {
	edges := graph.EdgeFrequencies(cycles)
	nodeSet := make(map[string]bool)
	for _, e := range edges {
		nodeSet[e.From] = true
		nodeSet[e.To] = true
	}
	nodes := make([]string, 0, len(nodeSet))
	for n := range nodeSet {
		nodes = append(nodes, n)
	}
	sort.Strings(nodes)

	hot := make(map[graph.Edge]bool)
	for _, e := range graph.TopEdges(cycles, topEdges) {
		hot[e.Edge] = true
	}

	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		return edges[i].To < edges[j].To
	})
	return cycleGraph{nodes: nodes, edges: edges, hot: hot}
}

func sanitizeID(node string) string {
	if node == "" {
		return "m"
	}
	var b strings.Builder
	for _, r := range node {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			continue
		}
		b.WriteRune('_')
	}
	out := b.String()
	if unicode.IsDigit(rune(out[0])) {
		return "m_" + out
	}
	return out
}

// makeIDs assigns each name a unique identifier safe for diagram syntax.
func makeIDs(names []string) map[string]string {
	ids := make(map[string]string, len(names))
	used := make(map[string]int, len(names))
	for _, name := range names {
		base := sanitizeID(name)
		idx := used[base]
		used[base] = idx + 1
		if idx == 0 {
			ids[name] = base
			continue
		}
		ids[name] = fmt.Sprintf("%s_%d", base, idx+1)
	}
	return ids
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

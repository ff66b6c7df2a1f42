package formats

import (
	"fmt"
	"strings"

	"cyclewatch/internal/engine/graph"
)

type DOTGenerator struct {
	cycles   []graph.Cycle
	topEdges int
}

func NewDOTGenerator(cycles []graph.Cycle, topEdges int) *DOTGenerator {
	return &DOTGenerator{cycles: cycles, topEdges: topEdges}
}

// Generate renders the cycle subgraph. Edge labels carry the number of cycles
// an edge appears in; the most frequent edges are drawn in red.
func (d *DOTGenerator) Generate() (string, error) {
	cg := newCycleGraph(d.cycles, d.topEdges)

	var buf strings.Builder
	buf.WriteString("digraph cycles {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box, style=rounded, fontname=\"Helvetica\", fontsize=10];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=8, penwidth=1.2];\n")
	buf.WriteString("  splines=polyline;\n")
	buf.WriteString("  overlap=false;\n\n")

	for _, n := range cg.nodes {
		buf.WriteString(fmt.Sprintf("  \"%s\";\n", escapeLabel(n)))
	}
	if len(cg.nodes) > 0 {
		buf.WriteString("\n")
	}

	for _, e := range cg.edges {
		attrs := fmt.Sprintf("label=\"%d\"", e.Count)
		if cg.hot[e.Edge] {
			attrs += ", color=\"red\", penwidth=2.5"
		}
		buf.WriteString(fmt.Sprintf("  \"%s\" -> \"%s\" [%s];\n", escapeLabel(e.From), escapeLabel(e.To), attrs))
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

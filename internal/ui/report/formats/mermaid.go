package formats

import (
	"fmt"
	"strings"

	"cyclewatch/internal/engine/graph"
)

type MermaidGenerator struct {
	cycles   []graph.Cycle
	topEdges int
}

func NewMermaidGenerator(cycles []graph.Cycle, topEdges int) *MermaidGenerator {
	return &MermaidGenerator{cycles: cycles, topEdges: topEdges}
}

func (m *MermaidGenerator) Generate() (string, error) {
	cg := newCycleGraph(m.cycles, m.topEdges)
	ids := makeIDs(cg.nodes)

	var b strings.Builder
	b.WriteString("flowchart LR\n")
	for _, n := range cg.nodes {
		b.WriteString(fmt.Sprintf("  %s[\"%s\"]\n", ids[n], escapeLabel(n)))
	}

	if len(cg.edges) > 0 {
		b.WriteString("\n")
	}
	hotLinks := make([]string, 0)
	for i, e := range cg.edges {
		b.WriteString(fmt.Sprintf("  %s -->|%d| %s\n", ids[e.From], e.Count, ids[e.To]))
		if cg.hot[e.Edge] {
			hotLinks = append(hotLinks, fmt.Sprintf("%d", i))
		}
	}
	if len(hotLinks) > 0 {
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("  linkStyle %s stroke:#cc0000,stroke-width:3px;\n", strings.Join(hotLinks, ",")))
	}
	return b.String(), nil
}

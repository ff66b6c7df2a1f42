package formats

import (
	"fmt"
	"strings"

	"cyclewatch/internal/engine/graph"
)

type TSVGenerator struct {
	cycles []graph.Cycle
}

func NewTSVGenerator(cycles []graph.Cycle) *TSVGenerator {
	return &TSVGenerator{cycles: cycles}
}

// Generate lists cycle edges, most frequent first.
func (t *TSVGenerator) Generate() (string, error) {
	var buf strings.Builder
	buf.WriteString("From\tTo\tCycles\n")
	for _, e := range graph.EdgeFrequencies(t.cycles) {
		buf.WriteString(fmt.Sprintf("%s\t%s\t%d\n", e.From, e.To, e.Count))
	}
	return buf.String(), nil
}

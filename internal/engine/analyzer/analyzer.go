// # internal/engine/analyzer/analyzer.go
package analyzer

import (
	"context"

	"cyclewatch/internal/engine/graph"
)

// Direction selects the orientation of the graph requested from an analyzer.
type Direction int

const (
	// Dependencies yields edges A -> B when A imports B.
	Dependencies Direction = iota
	// Dependents yields edges A -> B when B imports A.
	Dependents
)

func (d Direction) String() string {
	switch d {
	case Dependencies:
		return "dependencies"
	case Dependents:
		return "dependents"
	default:
		return "unknown"
	}
}

// Analyzer produces a dependency graph. A non-empty paths restricts the
// result to edges of exactly those paths.
type Analyzer interface {
	FetchGraph(ctx context.Context, dir Direction, paths []string) (graph.Graph, error)
}

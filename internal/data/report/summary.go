package report

import "cyclewatch/internal/engine/graph"

// Summary aggregates a set of cycles.
type Summary struct {
	Cycles      int
	TotalLength int
	Longest     int
}

func Summarize(cycles []graph.Cycle) Summary {
	s := Summary{Cycles: len(cycles)}
	for _, c := range cycles {
		s.TotalLength += len(c)
		if len(c) > s.Longest {
			s.Longest = len(c)
		}
	}
	return s
}

// Minimization compares a report before and after minimization.
type Minimization struct {
	Before Summary
	After  Summary
}

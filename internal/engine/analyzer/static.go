package analyzer

import (
	"context"
	"sync"

	"cyclewatch/internal/engine/graph"
)

// Request records one call made against a Static analyzer.
type Request struct {
	Direction Direction
	Paths     []string
}

// Static serves fixed graphs, for tests and for replaying captured analyzer
// output. A scoped request returns only the entries of the requested paths.
type Static struct {
	mu       sync.Mutex
	graphs   map[Direction]graph.Graph
	err      error
	requests []Request
}

func NewStatic(dependencies graph.Graph) *Static {
	return &Static{graphs: map[Direction]graph.Graph{
		Dependencies: dependencies,
		Dependents:   dependencies.Invert(),
	}}
}

// SetDependencies replaces both orientations, as if the sources changed on disk.
func (s *Static) SetDependencies(dependencies graph.Graph) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.graphs[Dependencies] = dependencies
	s.graphs[Dependents] = dependencies.Invert()
}

// FailWith makes every later call return err; nil clears it.
func (s *Static) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *Static) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

func (s *Static) FetchGraph(_ context.Context, dir Direction, paths []string) (graph.Graph, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.requests = append(s.requests, Request{Direction: dir, Paths: append([]string(nil), paths...)})
	if s.err != nil {
		return nil, s.err
	}

	full := s.graphs[dir]
	if len(paths) == 0 {
		return full.Clone(), nil
	}

	scoped := graph.New()
	for _, p := range paths {
		if !full.HasNode(p) {
			continue
		}
		scoped[p] = make(map[string]bool)
		for _, to := range full.Successors(p) {
			scoped.AddEdge(p, to)
		}
	}
	return scoped, nil
}

package analyzer

import (
	"context"
	"strings"

	"cyclewatch/internal/engine/graph"
)

// PathToModule turns a source path into a dotted module name. It handles the
// default src-layout only: a trailing /__init__.py is dropped, separators
// become dots, a trailing .py is dropped, and everything up to and including
// the first "src." is discarded.
func PathToModule(path string) string {
	module := strings.TrimSuffix(path, "/__init__.py")
	module = strings.ReplaceAll(module, "/", ".")
	module = strings.TrimSuffix(module, ".py")
	if idx := strings.Index(module, "src."); idx >= 0 {
		module = module[idx+len("src."):]
	}
	return module
}

// NormalizeGraph rewrites every node of g through PathToModule. Paths that
// collapse onto the same module have their edge sets merged.
func NormalizeGraph(g graph.Graph) graph.Graph {
	out := graph.New()
	for from, succ := range g {
		mod := PathToModule(from)
		if !out.HasNode(mod) {
			out[mod] = make(map[string]bool)
		}
		for to := range succ {
			out.AddEdge(mod, PathToModule(to))
		}
	}
	return out
}

// Modules decorates an Analyzer so that it reports module names instead of
// file paths.
type Modules struct {
	Inner Analyzer
}

func (m Modules) FetchGraph(ctx context.Context, dir Direction, paths []string) (graph.Graph, error) {
	g, err := m.Inner.FetchGraph(ctx, dir, paths)
	if err != nil {
		return nil, err
	}
	return NormalizeGraph(g), nil
}

// # internal/engine/graph/detect.go
package graph

// EnumerateCycles runs an independent depth-first exploration from every node
// of g and returns the canonical, minimized cycles it meets, deduplicated and
// sorted.
//
// The search is not exhaustive. A node is marked visited the first time it is
// scheduled from a given start, so a second route to the same node is pruned
// and some cycles through shared nodes are never reported. Start nodes and
// successors are visited in lexicographic order, which makes the result
// deterministic for a given graph.
func EnumerateCycles(g Graph) []Cycle {
	found := NewCycleSet()
	for _, start := range g.Nodes() {
		cyclesFromVertex(g, start, make(map[string]bool), found)
	}
	return found.Sorted()
}

type frame struct {
	path []string
	node string
}

func cyclesFromVertex(g Graph, start string, visited map[string]bool, found *CycleSet) {
	stack := []frame{{node: start}}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if k := indexOf(top.path, top.node); k >= 0 {
			found.Add(Minimize(g, Canonicalize(top.path[k:])))
			continue
		}

		next := make([]string, len(top.path), len(top.path)+1)
		copy(next, top.path)
		next = append(next, top.node)

		for _, succ := range g.Successors(top.node) {
			if visited[succ] {
				continue
			}
			visited[succ] = true
			stack = append(stack, frame{path: next, node: succ})
		}
	}
}

func indexOf(path []string, node string) int {
	for i, n := range path {
		if n == node {
			return i
		}
	}
	return -1
}

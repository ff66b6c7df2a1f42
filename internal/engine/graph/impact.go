package graph

import (
	"sort"
	"strings"
)

// AffectedFiles returns every node reachable from seeds by following
// dependents edges, seeds included, in lexicographic order. Each node is
// visited once; seeds without an entry simply contribute themselves.
func AffectedFiles(dependents Graph, seeds []string) []string {
	visited := make(map[string]bool, len(seeds))
	queue := make([]string, 0, len(seeds))
	for _, s := range seeds {
		if !visited[s] {
			visited[s] = true
			queue = append(queue, s)
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		for _, next := range dependents.Successors(curr) {
			if visited[next] {
				continue
			}
			visited[next] = true
			queue = append(queue, next)
		}
	}

	return sortedSet(visited)
}

// UnderRoots reports whether path starts with one of the root prefixes. An
// empty root matches every path.
func UnderRoots(path string, roots []string) bool {
	for _, r := range roots {
		if strings.HasPrefix(path, r) {
			return true
		}
	}
	return false
}

func filterNodes(nodes []string, keep func(string) bool) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if keep(n) {
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}

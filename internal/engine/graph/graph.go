// # internal/engine/graph/graph.go
package graph

import "sort"

// Graph maps a node to the set of its successors. Orientation is decided by
// whoever builds it: a dependents graph has an edge A->B when B imports A, a
// dependencies graph has an edge A->B when A imports B.
type Graph map[string]map[string]bool

func New() Graph {
	return make(Graph)
}

// FromAdjacency builds a Graph from adjacency lists, dropping self-loops and
// duplicate edges.
func FromAdjacency(adj map[string][]string) Graph {
	g := make(Graph, len(adj))
	for from, targets := range adj {
		g.ensure(from)
		for _, to := range targets {
			g.AddEdge(from, to)
		}
	}
	return g
}

func (g Graph) ensure(node string) map[string]bool {
	succ, ok := g[node]
	if !ok {
		succ = make(map[string]bool)
		g[node] = succ
	}
	return succ
}

// AddEdge records from->to, creating the entry for from if needed.
func (g Graph) AddEdge(from, to string) {
	succ := g.ensure(from)
	if from == to {
		return
	}
	succ[to] = true
}

func (g Graph) HasEdge(from, to string) bool {
	return g[from][to]
}

func (g Graph) HasNode(node string) bool {
	_, ok := g[node]
	return ok
}

// Nodes returns the keys of g in lexicographic order.
func (g Graph) Nodes() []string {
	nodes := make([]string, 0, len(g))
	for n := range g {
		nodes = append(nodes, n)
	}
	sort.Strings(nodes)
	return nodes
}

// Successors returns the successors of node in lexicographic order.
func (g Graph) Successors(node string) []string {
	return sortedSet(g[node])
}

func (g Graph) EdgeCount() int {
	count := 0
	for _, succ := range g {
		count += len(succ)
	}
	return count
}

func (g Graph) Clone() Graph {
	out := make(Graph, len(g))
	for n, succ := range g {
		cp := make(map[string]bool, len(succ))
		for s := range succ {
			cp[s] = true
		}
		out[n] = cp
	}
	return out
}

// Invert returns the graph with every edge reversed. Every node of g, and
// every node referenced by an edge, is present as a key of the result.
func (g Graph) Invert() Graph {
	out := make(Graph, len(g))
	for from, succ := range g {
		out.ensure(from)
		for to := range succ {
			out.AddEdge(to, from)
		}
	}
	return out
}

func sortedSet(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

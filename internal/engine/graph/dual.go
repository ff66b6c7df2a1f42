package graph

import (
	"sync"

	"cyclewatch/internal/shared/observability"
)

// DualGraph owns a dependents graph and a dependencies graph and keeps them
// inverse to each other. Both sides only change through Apply and Remove.
type DualGraph struct {
	mu sync.RWMutex

	dependents   Graph // B -> {A : A imports B}
	dependencies Graph // A -> {B : A imports B}
}

// NewDualGraph takes ownership of both graphs.
func NewDualGraph(dependents, dependencies Graph) *DualGraph {
	if dependents == nil {
		dependents = New()
	}
	if dependencies == nil {
		dependencies = New()
	}
	d := &DualGraph{dependents: dependents, dependencies: dependencies}
	d.publishLocked()
	return d
}

// Tracks reports whether path is a key of the dependents graph.
func (d *DualGraph) Tracks(path string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.dependents.HasNode(path)
}

func (d *DualGraph) Dependents(node string) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.dependents.Successors(node)
}

func (d *DualGraph) Dependencies(node string) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.dependencies.Successors(node)
}

// Snapshot returns deep copies of both sides.
func (d *DualGraph) Snapshot() (dependents, dependencies Graph) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.dependents.Clone(), d.dependencies.Clone()
}

// Apply replaces the dependency set of every path in updates and mirrors the
// difference into the dependents graph: edges that disappeared are removed,
// every current edge is (re)added.
func (d *DualGraph) Apply(updates Graph) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, path := range updates.Nodes() {
		newDeps := updates[path]
		oldDeps, hadOld := d.dependencies[path]

		fresh := make(map[string]bool, len(newDeps))
		for dep := range newDeps {
			fresh[dep] = true
		}
		d.dependencies[path] = fresh

		if hadOld {
			for dep := range oldDeps {
				if fresh[dep] {
					continue
				}
				if importers, ok := d.dependents[dep]; ok {
					delete(importers, path)
				}
			}
		}

		for dep := range fresh {
			d.dependents.ensure(dep)[path] = true
		}
	}

	d.publishLocked()
}

// Remove deletes each path from both graphs and strips it from every
// remaining dependents entry.
func (d *DualGraph) Remove(paths []string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, p := range paths {
		delete(d.dependents, p)
		delete(d.dependencies, p)
		for _, importers := range d.dependents {
			delete(importers, p)
		}
	}

	d.publishLocked()
}

// Affected runs AffectedFiles over the dependents graph and keeps the nodes
// that are still tracked and lie under one of roots.
func (d *DualGraph) Affected(seeds, roots []string) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	reached := AffectedFiles(d.dependents, seeds)
	return filterNodes(reached, func(n string) bool {
		return d.dependents.HasNode(n) && UnderRoots(n, roots)
	})
}

func (d *DualGraph) publishLocked() {
	observability.GraphNodes.Set(float64(len(d.dependents)))
	observability.GraphEdges.Set(float64(d.dependencies.EdgeCount()))
}

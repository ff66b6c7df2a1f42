package graph

import (
	"reflect"
	"testing"
)

func newFixtureDual() *DualGraph {
	deps := FromAdjacency(map[string][]string{
		"app.py":    {"models.py", "util.py"},
		"models.py": {"util.py"},
		"util.py":   {},
		"cli.py":    {"app.py"},
	})
	return NewDualGraph(deps.Invert(), deps)
}

func assertInverse(t *testing.T, d *DualGraph) {
	t.Helper()
	dependents, dependencies := d.Snapshot()
	for from, succ := range dependencies {
		for to := range succ {
			if !dependents.HasEdge(to, from) {
				t.Errorf("dependencies has %s -> %s but dependents lacks the reverse", from, to)
			}
		}
	}
	for to, importers := range dependents {
		for from := range importers {
			if !dependencies.HasEdge(from, to) {
				t.Errorf("dependents has %s -> %s but dependencies lacks the reverse", to, from)
			}
		}
	}
}

func TestDualGraph_ApplyAddsEdge(t *testing.T) {
	d := newFixtureDual()

	d.Apply(FromAdjacency(map[string][]string{
		"util.py": {"config.py"},
	}))

	if got := d.Dependents("config.py"); !reflect.DeepEqual(got, []string{"util.py"}) {
		t.Fatalf("expected config.py dependents [util.py], got %v", got)
	}
	if got := d.Dependencies("util.py"); !reflect.DeepEqual(got, []string{"config.py"}) {
		t.Fatalf("expected util.py dependencies [config.py], got %v", got)
	}
	assertInverse(t, d)
}

func TestDualGraph_ApplyRemovesDroppedEdges(t *testing.T) {
	d := newFixtureDual()

	d.Apply(FromAdjacency(map[string][]string{
		"app.py": {"models.py"},
	}))

	if got := d.Dependents("util.py"); !reflect.DeepEqual(got, []string{"models.py"}) {
		t.Fatalf("expected app.py to be dropped from util.py dependents, got %v", got)
	}
	if got := d.Dependencies("app.py"); !reflect.DeepEqual(got, []string{"models.py"}) {
		t.Fatalf("unexpected app.py dependencies %v", got)
	}
	assertInverse(t, d)
}

func TestDualGraph_ApplyNewFile(t *testing.T) {
	d := newFixtureDual()

	d.Apply(FromAdjacency(map[string][]string{
		"jobs.py": {"models.py"},
	}))

	if got := d.Dependents("models.py"); !reflect.DeepEqual(got, []string{"app.py", "jobs.py"}) {
		t.Fatalf("unexpected models.py dependents %v", got)
	}
	if d.Tracks("jobs.py") {
		t.Fatal("a new file only becomes a dependents key once something imports it")
	}
}

func TestDualGraph_Remove(t *testing.T) {
	d := newFixtureDual()

	d.Remove([]string{"models.py"})

	dependents, dependencies := d.Snapshot()
	if dependents.HasNode("models.py") || dependencies.HasNode("models.py") {
		t.Fatal("expected models.py to be gone from both graphs")
	}
	for node, importers := range dependents {
		if importers["models.py"] {
			t.Errorf("dependents[%s] still lists models.py", node)
		}
	}
	if got := d.Dependents("util.py"); !reflect.DeepEqual(got, []string{"app.py"}) {
		t.Fatalf("unexpected util.py dependents %v", got)
	}
}

func TestDualGraph_RemoveUnknownIsNoop(t *testing.T) {
	d := newFixtureDual()
	before, _ := d.Snapshot()

	d.Remove([]string{"ghost.py"})

	after, _ := d.Snapshot()
	if !reflect.DeepEqual(before, after) {
		t.Fatal("removing an unknown node changed the graph")
	}
}

func TestDualGraph_Affected(t *testing.T) {
	d := newFixtureDual()

	got := d.Affected([]string{"util.py"}, []string{""})
	if !reflect.DeepEqual(got, []string{"app.py", "cli.py", "models.py", "util.py"}) {
		t.Fatalf("unexpected affected set %v", got)
	}

	got = d.Affected([]string{"util.py"}, []string{"app", "cli"})
	if !reflect.DeepEqual(got, []string{"app.py", "cli.py"}) {
		t.Fatalf("expected root filtering, got %v", got)
	}

	got = d.Affected([]string{"ghost.py"}, []string{""})
	if len(got) != 0 {
		t.Fatalf("untracked seeds must be filtered out, got %v", got)
	}
}

func TestDualGraph_AffectedBeforeRemoval(t *testing.T) {
	d := newFixtureDual()

	affected := d.Affected([]string{"models.py"}, []string{""})
	d.Remove([]string{"models.py"})

	if !reflect.DeepEqual(affected, []string{"app.py", "cli.py", "models.py"}) {
		t.Fatalf("unexpected affected set %v", affected)
	}
	if got := d.Affected([]string{"models.py"}, []string{""}); len(got) != 0 {
		t.Fatalf("expected nothing tracked after removal, got %v", got)
	}
}

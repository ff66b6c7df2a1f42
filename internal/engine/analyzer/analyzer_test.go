package analyzer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"testing"

	domainerrors "cyclewatch/internal/core/errors"
	"cyclewatch/internal/engine/graph"
)

func TestPathToModule(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"foo/src/foo/bar.py", "foo.bar"},
		{"foo/src/foo/bar/__init__.py", "foo.bar"},
		{"foo/src/foo/__init__.py", "foo"},
		{"src/pkg/mod.py", "pkg.mod"},
		{"pkg/mod.py", "pkg.mod"},
		{"pkg/data.json", "pkg.data.json"},
		{"a/src/b/src/c.py", "b.src.c"},
	}
	for _, tt := range tests {
		if got := PathToModule(tt.in); got != tt.want {
			t.Errorf("PathToModule(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeGraph_MergesCollapsedPaths(t *testing.T) {
	g := graph.FromAdjacency(map[string][]string{
		"src/pkg/__init__.py": {"src/pkg/util.py"},
		"src/pkg.py":          {"src/pkg/models.py"},
		"src/pkg/util.py":     {},
	})

	got := NormalizeGraph(g)
	if want := []string{"pkg.models", "pkg.util"}; !reflect.DeepEqual(got.Successors("pkg"), want) {
		t.Fatalf("expected merged successors %v, got %v", want, got.Successors("pkg"))
	}
	if !got.HasNode("pkg.util") {
		t.Fatal("expected pkg.util node to survive normalization")
	}
}

func TestDecodeGraph(t *testing.T) {
	g, err := DecodeGraph([]byte(`{"a.py": ["b.py", "c.py"], "b.py": [], "c.py": null}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := g.Successors("a.py"); !reflect.DeepEqual(got, []string{"b.py", "c.py"}) {
		t.Fatalf("unexpected successors %v", got)
	}
	if !g.HasNode("c.py") {
		t.Fatal("null value should still produce a node")
	}
}

func TestDecodeGraph_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
	}{
		{name: "invalid utf8", in: []byte{'{', 0xff, '}'}},
		{name: "array", in: []byte(`["a.py"]`)},
		{name: "null", in: []byte(`null`)},
		{name: "empty", in: []byte(``)},
		{name: "truncated", in: []byte(`{"a.py": [`)},
		{name: "non-string values", in: []byte(`{"a.py": [1, 2]}`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeGraph(tt.in)
			if !domainerrors.IsCode(err, domainerrors.CodeAnalyzerFailed) {
				t.Fatalf("expected analyzer failure, got %v", err)
			}
		})
	}
}

func TestRuff_Args(t *testing.T) {
	r := NewRuff([]string{"ruff", "analyze", "graph", "--preview"}, "--direction", ".")

	if got := r.Args(Dependencies, nil); !reflect.DeepEqual(got, []string{"analyze", "graph", "--preview"}) {
		t.Errorf("unexpected dependencies args %v", got)
	}
	want := []string{"analyze", "graph", "--preview", "--direction", "dependents", "a.py", "b.py"}
	if got := r.Args(Dependents, []string{"a.py", "b.py"}); !reflect.DeepEqual(got, want) {
		t.Errorf("unexpected dependents args %v", got)
	}
}

func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not supported on windows")
	}
	path := filepath.Join(t.TempDir(), "fake-analyzer.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRuff_FetchGraph(t *testing.T) {
	script := writeScript(t, `if [ "$1" = "--direction" ]; then
  echo '{"b.py": ["a.py"]}'
else
  echo '{"a.py": ["b.py"]}'
fi
exit 3
`)
	r := NewRuff([]string{script}, "--direction", t.TempDir())

	deps, err := r.FetchGraph(context.Background(), Dependencies, nil)
	if err != nil {
		t.Fatalf("fetch dependencies: %v", err)
	}
	if !deps.HasEdge("a.py", "b.py") {
		t.Fatalf("unexpected dependencies graph %v", deps)
	}

	dependents, err := r.FetchGraph(context.Background(), Dependents, nil)
	if err != nil {
		t.Fatalf("fetch dependents: %v", err)
	}
	if !dependents.HasEdge("b.py", "a.py") {
		t.Fatalf("unexpected dependents graph %v", dependents)
	}
}

func TestRuff_FetchGraphFailures(t *testing.T) {
	missing := NewRuff([]string{filepath.Join(t.TempDir(), "does-not-exist")}, "--direction", "")
	_, err := missing.FetchGraph(context.Background(), Dependencies, nil)
	if !domainerrors.IsCode(err, domainerrors.CodeAnalyzerFailed) {
		t.Fatalf("expected spawn failure to be an analyzer failure, got %v", err)
	}

	garbage := NewRuff([]string{writeScript(t, "echo 'not json'\n")}, "--direction", "")
	_, err = garbage.FetchGraph(context.Background(), Dependencies, nil)
	if !domainerrors.IsCode(err, domainerrors.CodeAnalyzerFailed) {
		t.Fatalf("expected decode failure to be an analyzer failure, got %v", err)
	}
}

func TestModules(t *testing.T) {
	static := NewStatic(graph.FromAdjacency(map[string][]string{
		"src/app/main.py": {"src/app/util.py"},
		"src/app/util.py": {},
	}))

	g, err := Modules{Inner: static}.FetchGraph(context.Background(), Dependencies, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !g.HasEdge("app.main", "app.util") {
		t.Fatalf("expected module edge, got %v", g)
	}
}

func TestStatic(t *testing.T) {
	static := NewStatic(graph.FromAdjacency(map[string][]string{
		"a.py": {"b.py"},
		"b.py": {"c.py"},
		"c.py": {},
	}))

	dependents, err := static.FetchGraph(context.Background(), Dependents, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !dependents.HasEdge("c.py", "b.py") {
		t.Fatalf("expected inverted graph, got %v", dependents)
	}

	scoped, err := static.FetchGraph(context.Background(), Dependencies, []string{"b.py", "ghost.py"})
	if err != nil {
		t.Fatal(err)
	}
	if len(scoped) != 1 || !scoped.HasEdge("b.py", "c.py") {
		t.Fatalf("expected only b.py entry, got %v", scoped)
	}

	boom := errors.New("boom")
	static.FailWith(boom)
	if _, err := static.FetchGraph(context.Background(), Dependencies, nil); !errors.Is(err, boom) {
		t.Fatalf("expected injected error, got %v", err)
	}

	reqs := static.Requests()
	if len(reqs) != 3 || reqs[1].Direction != Dependencies || !reflect.DeepEqual(reqs[1].Paths, []string{"b.py", "ghost.py"}) {
		t.Fatalf("unexpected recorded requests %+v", reqs)
	}
}

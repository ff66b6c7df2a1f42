package graph

import (
	"reflect"
	"testing"
)

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want Cycle
	}{
		{name: "already canonical", in: []string{"a", "b", "c"}, want: Cycle{"a", "b", "c"}},
		{name: "rotated", in: []string{"c", "a", "b"}, want: Cycle{"a", "b", "c"}},
		{name: "order preserved", in: []string{"m", "z", "b", "q"}, want: Cycle{"b", "q", "m", "z"}},
		{name: "ties go to first occurrence", in: []string{"b", "a", "c", "a"}, want: Cycle{"a", "c", "a", "b"}},
		{name: "empty", in: nil, want: Cycle{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Canonicalize(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Canonicalize(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestCanonicalize_IdempotentAndRotationInvariant(t *testing.T) {
	base := []string{"pkg.z", "pkg.b", "pkg.k", "pkg.a", "pkg.q"}
	want := Canonicalize(base)

	if got := Canonicalize(want); !got.Equal(want) {
		t.Fatalf("not idempotent: %v vs %v", got, want)
	}
	for r := 0; r < len(base); r++ {
		rotated := append(append([]string{}, base[r:]...), base[:r]...)
		if got := Canonicalize(rotated); !got.Equal(want) {
			t.Errorf("rotation %d: got %v, want %v", r, got, want)
		}
	}
}

func TestCanonicalize_DoesNotMutateInput(t *testing.T) {
	in := []string{"c", "a", "b"}
	Canonicalize(in)
	if !reflect.DeepEqual(in, []string{"c", "a", "b"}) {
		t.Fatalf("input mutated: %v", in)
	}
}

func TestMinimize(t *testing.T) {
	tests := []struct {
		name  string
		graph map[string][]string
		cycle Cycle
		want  Cycle
	}{
		{
			name:  "back edge closes sub-cycle",
			graph: map[string][]string{"b": {"a"}},
			cycle: Cycle{"a", "b", "c"},
			want:  Cycle{"a", "b"},
		},
		{
			name: "smallest single reduction wins",
			graph: map[string][]string{
				"a": {},
				"b": {"a"},
				"j": {"a", "l"},
				"k": {"j"},
				"n": {"l"},
			},
			cycle: Cycle{"a", "j", "k", "b", "l"},
			want:  Cycle{"a", "j"},
		},
		{
			name: "forward shortcut skips the middle",
			graph: map[string][]string{
				"a": {"b", "d"},
				"b": {"c"},
				"c": {"d"},
				"d": {"e"},
				"e": {"a"},
			},
			cycle: Cycle{"a", "b", "c", "d", "e"},
			want:  Cycle{"a", "d", "e"},
		},
		{
			name: "no chord leaves the cycle alone",
			graph: map[string][]string{
				"a": {"b"},
				"b": {"c"},
				"c": {"a"},
			},
			cycle: Cycle{"a", "b", "c"},
			want:  Cycle{"a", "b", "c"},
		},
		{
			name:  "empty graph",
			graph: map[string][]string{},
			cycle: Cycle{"x", "y"},
			want:  Cycle{"x", "y"},
		},
		{
			name: "equal sizes keep the first candidate",
			graph: map[string][]string{
				"b": {"a"},
				"d": {"c"},
			},
			cycle: Cycle{"a", "b", "c", "d"},
			want:  Cycle{"a", "b"},
		},
		{
			name: "sub-cycle is canonicalized",
			graph: map[string][]string{
				"d": {"c"},
			},
			cycle: Cycle{"a", "z", "c", "d"},
			want:  Cycle{"c", "d"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Minimize(FromAdjacency(tt.graph), tt.cycle)
			if !got.Equal(tt.want) {
				t.Fatalf("Minimize(%v) = %v, want %v", tt.cycle, got, tt.want)
			}
		})
	}
}

func TestMinimize_SinglePass(t *testing.T) {
	// The first pass takes the shortcut a -> e. The result still has the
	// chord f -> a, which only a second call uses.
	g := FromAdjacency(map[string][]string{
		"a": {"b", "e"},
		"b": {"c"},
		"c": {"d"},
		"d": {"e"},
		"e": {"f"},
		"f": {"g", "a"},
		"g": {"a"},
	})
	c := Cycle{"a", "b", "c", "d", "e", "f", "g"}

	once := Minimize(g, c)
	if !once.Equal(Cycle{"a", "e", "f", "g"}) {
		t.Fatalf("unexpected first pass result %v", once)
	}
	twice := Minimize(g, once)
	if !twice.Equal(Cycle{"a", "e", "f"}) {
		t.Fatalf("unexpected second pass result %v", twice)
	}
}

func TestMinimize_NeverGrowsAndStaysValid(t *testing.T) {
	g := FromAdjacency(map[string][]string{
		"a": {"b", "d"},
		"b": {"c", "a"},
		"c": {"d", "b"},
		"d": {"e", "a"},
		"e": {"a", "c"},
	})
	base := Cycle{"a", "b", "c", "d", "e"}
	if !base.ValidIn(g) {
		t.Fatal("fixture cycle must be valid")
	}

	for r := 0; r < len(base); r++ {
		rotated := Canonicalize(append(append([]string{}, base[r:]...), base[:r]...))
		got := Minimize(g, rotated)
		if len(got) > len(rotated) {
			t.Errorf("minimization grew %v into %v", rotated, got)
		}
		if !got.ValidIn(g) {
			t.Errorf("minimized cycle %v is not backed by edges", got)
		}
	}
}

func TestMinimizeAll(t *testing.T) {
	g := FromAdjacency(map[string][]string{
		"a": {"b"},
		"b": {"a", "c"},
		"c": {"a"},
	})
	in := []Cycle{
		{"a", "b", "c"},
		{"a", "b"},
		{"a", "b", "c"},
	}

	got := MinimizeAll(g, in)
	if len(got) != 1 || !got[0].Equal(Cycle{"a", "b"}) {
		t.Fatalf("expected a single [a b] cycle, got %v", got)
	}
	if len(in[0]) != 3 {
		t.Fatal("input cycles must not be mutated")
	}
}

func TestEdgeFrequencies(t *testing.T) {
	in := []Cycle{
		{"a", "b"},
		{"a", "b", "c"},
		{"b", "c"},
	}

	got := EdgeFrequencies(in)
	want := []EdgeCount{
		{Edge: Edge{From: "a", To: "b"}, Count: 2},
		{Edge: Edge{From: "b", To: "c"}, Count: 2},
		{Edge: Edge{From: "b", To: "a"}, Count: 1},
		{Edge: Edge{From: "c", To: "a"}, Count: 1},
		{Edge: Edge{From: "c", To: "b"}, Count: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected frequencies:\n got %v\nwant %v", got, want)
	}

	if top := TopEdges(in, 2); len(top) != 2 || top[0].Count != 2 {
		t.Fatalf("unexpected top edges: %v", top)
	}
	if top := TopEdges(in, 50); len(top) != len(want) {
		t.Fatalf("expected all edges when n exceeds count, got %d", len(top))
	}
	if top := TopEdges(nil, 5); len(top) != 0 {
		t.Fatalf("expected no edges for no cycles, got %v", top)
	}
}

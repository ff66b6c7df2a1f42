package graph

import (
	"sort"
	"strings"
)

// Separator joins cycle nodes in the persisted report format.
const Separator = " -> "

// Cycle is a circular node sequence; the last node has an implicit edge back
// to the first.
type Cycle []string

func (c Cycle) String() string {
	return strings.Join(c, Separator)
}

// Key identifies the exact node sequence. Two cycles are the same cycle iff
// the keys of their canonical forms are equal.
func (c Cycle) Key() string {
	return strings.Join(c, "\x00")
}

func (c Cycle) Equal(other Cycle) bool {
	if len(c) != len(other) {
		return false
	}
	for i := range c {
		if c[i] != other[i] {
			return false
		}
	}
	return true
}

// ValidIn reports whether every cyclically adjacent pair of c is an edge of g.
func (c Cycle) ValidIn(g Graph) bool {
	if len(c) < 2 {
		return false
	}
	for i := range c {
		if !g.HasEdge(c[i], c[(i+1)%len(c)]) {
			return false
		}
	}
	return true
}

// Canonicalize rotates c so that its lexicographically smallest node comes
// first; ties go to the first occurrence. The input is not modified.
func Canonicalize(c []string) Cycle {
	if len(c) == 0 {
		return Cycle{}
	}
	start := 0
	for i := 1; i < len(c); i++ {
		if c[i] < c[start] {
			start = i
		}
	}
	out := make(Cycle, 0, len(c))
	out = append(out, c[start:]...)
	out = append(out, c[:start]...)
	return out
}

// CycleSet collects cycles, collapsing identical sequences.
type CycleSet struct {
	cycles map[string]Cycle
}

func NewCycleSet() *CycleSet {
	return &CycleSet{cycles: make(map[string]Cycle)}
}

func (s *CycleSet) Add(c Cycle) bool {
	key := c.Key()
	if _, ok := s.cycles[key]; ok {
		return false
	}
	s.cycles[key] = c
	return true
}

func (s *CycleSet) Contains(c Cycle) bool {
	_, ok := s.cycles[c.Key()]
	return ok
}

func (s *CycleSet) Len() int {
	return len(s.cycles)
}

// Sorted returns the cycles ordered by their rendered form.
func (s *CycleSet) Sorted() []Cycle {
	out := make([]Cycle, 0, len(s.cycles))
	for _, c := range s.cycles {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].String() < out[j].String()
	})
	return out
}

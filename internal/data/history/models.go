package history

import (
	"sort"
	"time"
)

const SchemaVersion = 1

// Mode names the command that produced a run.
type Mode string

const (
	ModeDetect   Mode = "detect"
	ModeMinimize Mode = "minimize"
)

// Run is one persisted analysis result.
type Run struct {
	ID            string    `json:"id"`
	ProjectKey    string    `json:"project_key"`
	SchemaVersion int       `json:"schema_version"`
	Mode          Mode      `json:"mode"`
	Timestamp     time.Time `json:"timestamp"`
	CycleCount    int       `json:"cycle_count"`
	TotalLength   int       `json:"total_length"`
	Longest       int       `json:"longest"`
	Cycles        []string  `json:"cycles,omitempty"`
}

// Trend is the difference between two consecutive runs of the same mode.
type Trend struct {
	Previous     Run `json:"previous"`
	Current      Run `json:"current"`
	DeltaCycles  int `json:"delta_cycles"`
	DeltaLength  int `json:"delta_length"`
	DeltaLongest int `json:"delta_longest"`
	// Added and Resolved list cycle lines present in only one of the runs.
	Added    []string `json:"added,omitempty"`
	Resolved []string `json:"resolved,omitempty"`
}

func Compare(previous, current Run) Trend {
	return Trend{
		Previous:     previous,
		Current:      current,
		DeltaCycles:  current.CycleCount - previous.CycleCount,
		DeltaLength:  current.TotalLength - previous.TotalLength,
		DeltaLongest: current.Longest - previous.Longest,
		Added:        missingFrom(previous.Cycles, current.Cycles),
		Resolved:     missingFrom(current.Cycles, previous.Cycles),
	}
}

// missingFrom returns the sorted lines of lines that base does not contain.
func missingFrom(base, lines []string) []string {
	known := make(map[string]bool, len(base))
	for _, line := range base {
		known[line] = true
	}
	var out []string
	for _, line := range lines {
		if !known[line] {
			known[line] = true
			out = append(out, line)
		}
	}
	sort.Strings(out)
	return out
}

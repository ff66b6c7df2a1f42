package history

import (
	"log/slog"
	"time"

	"cyclewatch/internal/data/report"
	"cyclewatch/internal/engine/graph"
)

// Recorder saves cycle results for a single project and reports the change
// against the previous run of the same mode.
type Recorder struct {
	store      *Store
	projectKey string
}

func NewRecorder(store *Store, projectKey string) *Recorder {
	return &Recorder{store: store, projectKey: normalizeProjectKey(projectKey)}
}

// Record stores cycles as a new run. The returned trend is nil when no earlier
// run of mode exists.
func (r *Recorder) Record(mode Mode, cycles []graph.Cycle) (Run, *Trend, error) {
	previous, err := r.store.LoadRuns(r.projectKey, mode, time.Time{})
	if err != nil {
		return Run{}, nil, err
	}

	summary := report.Summarize(cycles)
	lines := make([]string, len(cycles))
	for i, c := range cycles {
		lines[i] = c.String()
	}
	run, err := r.store.SaveRun(Run{
		ProjectKey:  r.projectKey,
		Mode:        mode,
		CycleCount:  summary.Cycles,
		TotalLength: summary.TotalLength,
		Longest:     summary.Longest,
		Cycles:      lines,
	})
	if err != nil {
		return Run{}, nil, err
	}
	slog.Debug("recorded run", "id", run.ID, "mode", mode, "cycles", run.CycleCount)

	if len(previous) == 0 {
		return run, nil, nil
	}
	last := previous[len(previous)-1]
	last.Cycles, err = r.store.LoadCycles(last.ID)
	if err != nil {
		return run, nil, err
	}
	trend := Compare(last, run)
	return run, &trend, nil
}

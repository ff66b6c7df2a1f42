// # internal/core/app/app.go
package app

import (
	"io"
	"log/slog"
	"path/filepath"

	"cyclewatch/internal/core/config"
	"cyclewatch/internal/data/history"
	"cyclewatch/internal/engine/analyzer"
	"cyclewatch/internal/engine/graph"
	"cyclewatch/internal/ui/console"
	"cyclewatch/internal/ui/report/formats"
)

// App wires the analyzer, report files, history and console output for the
// three commands.
type App struct {
	Config   *config.Config
	Analyzer analyzer.Analyzer
	Out      *console.Printer

	store    *history.Store
	recorder *history.Recorder
}

// New builds an App around the configured analyzer command.
func New(cfg *config.Config, out io.Writer) (*App, error) {
	ruff := analyzer.NewRuff(cfg.Analyzer.Command, cfg.Analyzer.DirectionFlag, cfg.Analyzer.RepoRoot)
	var a analyzer.Analyzer = ruff
	if cfg.Analyzer.Modules {
		a = analyzer.Modules{Inner: ruff}
	}
	return NewWithAnalyzer(cfg, a, out)
}

// NewWithAnalyzer builds an App around an explicit analyzer.
func NewWithAnalyzer(cfg *config.Config, a analyzer.Analyzer, out io.Writer) (*App, error) {
	app := &App{
		Config:   cfg,
		Analyzer: a,
		Out:      console.New(out),
	}

	if cfg.History.Enabled {
		path := cfg.History.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(cfg.Analyzer.RepoRoot, path)
		}
		store, err := history.Open(path)
		if err != nil {
			return nil, err
		}
		app.store = store
		app.recorder = history.NewRecorder(store, cfg.History.ProjectKey)
	}

	return app, nil
}

func (a *App) Close() error {
	return a.store.Close()
}

func (a *App) writeDiagram(cycles []graph.Cycle) error {
	path := a.Config.Report.DiagramFile
	if path == "" {
		return nil
	}
	return formats.WriteFile(path, cycles, a.Config.Report.TopEdges)
}

// record saves a run when history is enabled. Failures are logged, never
// returned: history is secondary to the command's output.
func (a *App) record(mode history.Mode, cycles []graph.Cycle) *history.Run {
	if a.recorder == nil {
		return nil
	}
	run, trend, err := a.recorder.Record(mode, cycles)
	if err != nil {
		slog.Warn("failed to record run history", "mode", mode, "path", a.store.Path(), "error", err)
		return nil
	}
	a.Out.Trend(trend)
	return &run
}

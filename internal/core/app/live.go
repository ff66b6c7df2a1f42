package app

import (
	"context"
	"path/filepath"
	"time"

	"cyclewatch/internal/core/live"
	"cyclewatch/internal/core/watcher"
	"cyclewatch/internal/engine/analyzer"
	"cyclewatch/internal/shared/observability"
)

// Live builds the initial graphs, then watches the repository and reruns
// runner for the files affected by each change until ctx is done.
func (a *App) Live(ctx context.Context, runner live.Runner) error {
	if addr := a.Config.Observability.MetricsAddr; addr != "" {
		server := observability.NewMetricsServer(addr)
		server.Start()
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Stop(stopCtx)
		}()
	}

	// Watch events name files, so the live graph is never module-normalized.
	an := a.Analyzer
	if modules, ok := an.(analyzer.Modules); ok {
		an = modules.Inner
	}

	m := live.NewMaintainer(an, runner, a.Out, live.Options{
		Roots:       a.Config.Watch.Roots,
		Extensions:  a.Config.Watch.Extensions,
		ConfigFiles: a.Config.Watch.ConfigFiles,
	})
	if err := m.Initialize(ctx); err != nil {
		return err
	}

	// Analyzer paths are relative to the repo root, so watched paths are too.
	base, err := filepath.Abs(a.Config.Analyzer.RepoRoot)
	if err != nil {
		return err
	}
	w, err := watcher.NewWatcher(base, a.Config.Watch.ExcludeDirs)
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Watch([]string{"."}); err != nil {
		return err
	}

	return m.Run(ctx, w.Notifications(), w.Errors())
}

// # internal/core/live/maintainer.go
package live

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"sort"
	"strings"
	"sync/atomic"

	"cyclewatch/internal/core/watcher"
	"cyclewatch/internal/engine/analyzer"
	"cyclewatch/internal/engine/graph"
	"cyclewatch/internal/shared/observability"

	"go.opentelemetry.io/otel/attribute"
)

type State int32

const (
	StateInitializing State = iota
	StateWatching
	StateUpdating
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateWatching:
		return "watching"
	case StateUpdating:
		return "updating"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Reporter receives the user-facing progress of the live loop.
type Reporter interface {
	Constructing()
	Listening()
	Changed(paths []string)
	NothingToDo()
	Affected(paths []string)
	RunningCommand()
	CompletedRun()
}

type Options struct {
	// Roots restricts affected files to these path prefixes. "" matches all.
	Roots []string
	// Extensions are source-file extensions whose changes are always relevant.
	Extensions []string
	// ConfigFiles are project configuration file names whose changes are relevant.
	ConfigFiles []string
}

// Outcome describes how one notification was handled.
type Outcome struct {
	Changed  []string
	Affected []string
	Ran      bool
}

// Maintainer keeps the dependents and dependencies graphs current across
// filesystem notifications and reruns the user command for affected files.
type Maintainer struct {
	analyzer analyzer.Analyzer
	runner   Runner
	reporter Reporter

	roots       []string
	extensions  map[string]bool
	configFiles map[string]bool

	graph *graph.DualGraph
	state atomic.Int32
}

func NewMaintainer(a analyzer.Analyzer, runner Runner, reporter Reporter, opts Options) *Maintainer {
	m := &Maintainer{
		analyzer:    a,
		runner:      runner,
		reporter:    reporter,
		roots:       opts.Roots,
		extensions:  make(map[string]bool, len(opts.Extensions)),
		configFiles: make(map[string]bool, len(opts.ConfigFiles)),
	}
	if len(m.roots) == 0 {
		m.roots = []string{""}
	}
	for _, ext := range opts.Extensions {
		m.extensions[strings.ToLower(ext)] = true
	}
	for _, name := range opts.ConfigFiles {
		m.configFiles[name] = true
	}
	m.state.Store(int32(StateInitializing))
	return m
}

func (m *Maintainer) State() State {
	return State(m.state.Load())
}

// Graph returns the maintained graph pair; nil before Initialize succeeds.
func (m *Maintainer) Graph() *graph.DualGraph {
	return m.graph
}

// Initialize builds both orientations of the graph from the analyzer.
func (m *Maintainer) Initialize(ctx context.Context) error {
	ctx, span := observability.Tracer.Start(ctx, "live.Initialize")
	defer span.End()

	m.state.Store(int32(StateInitializing))
	m.reporter.Constructing()

	dependents, err := m.analyzer.FetchGraph(ctx, analyzer.Dependents, nil)
	if err != nil {
		return err
	}
	dependencies, err := m.analyzer.FetchGraph(ctx, analyzer.Dependencies, nil)
	if err != nil {
		return err
	}
	m.graph = graph.NewDualGraph(dependents, dependencies)
	span.SetAttributes(attribute.Int("graph.nodes", len(dependents)))

	m.state.Store(int32(StateWatching))
	return nil
}

// Relevant reports whether a change to p should be processed: p is tracked,
// has a source extension, or is a project configuration file.
func (m *Maintainer) Relevant(p string) bool {
	if m.graph != nil && m.graph.Tracks(p) {
		return true
	}
	if m.extensions[strings.ToLower(path.Ext(p))] {
		return true
	}
	return m.configFiles[path.Base(p)]
}

// Handle processes one notification. Affected files are computed before a
// removal is applied so the removed node's edges still count.
func (m *Maintainer) Handle(ctx context.Context, n watcher.Notification) (Outcome, error) {
	var out Outcome
	if m.graph == nil {
		return out, fmt.Errorf("maintainer is not initialized")
	}

	out.Changed = m.relevantPaths(n.Paths)
	if len(out.Changed) == 0 {
		return out, nil
	}
	observability.WatcherEventsRelevantTotal.Inc()

	ctx, span := observability.Tracer.Start(ctx, "live.Handle")
	defer span.End()
	span.SetAttributes(
		attribute.String("event.kind", n.Kind.String()),
		attribute.Int("event.paths", len(out.Changed)),
	)

	m.state.Store(int32(StateUpdating))
	defer m.state.Store(int32(StateWatching))

	m.reporter.Changed(out.Changed)

	if !n.IsRemoval() {
		updates, err := m.analyzer.FetchGraph(ctx, analyzer.Dependencies, out.Changed)
		if err != nil {
			span.RecordError(err)
			return out, err
		}
		m.graph.Apply(updates)
	}

	out.Affected = m.graph.Affected(out.Changed, m.roots)
	observability.AffectedFiles.Observe(float64(len(out.Affected)))

	if n.IsRemoval() {
		m.graph.Remove(out.Changed)
	}

	if len(out.Affected) == 0 {
		m.reporter.NothingToDo()
		return out, nil
	}

	m.reporter.Affected(out.Affected)
	m.reporter.RunningCommand()
	out.Ran = true
	if err := m.runner.Run(ctx, out.Affected); err != nil {
		span.RecordError(err)
		return out, err
	}
	m.reporter.CompletedRun()
	return out, nil
}

func (m *Maintainer) relevantPaths(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if p == "" || seen[p] || !m.Relevant(p) {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Run handles notifications one at a time until ctx is done or the
// notification channel closes. Per-event failures are logged and dropped.
func (m *Maintainer) Run(ctx context.Context, notifications <-chan watcher.Notification, errs <-chan error) error {
	if m.graph == nil {
		if err := m.Initialize(ctx); err != nil {
			return err
		}
	}
	m.reporter.Listening()

	for {
		select {
		case <-ctx.Done():
			return nil
		case n, ok := <-notifications:
			if !ok {
				return nil
			}
			if _, err := m.Handle(ctx, n); err != nil {
				slog.Warn("dropping change notification", "paths", n.Paths, "kind", n.Kind.String(), "error", err)
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			slog.Warn("watch error", "error", err)
		}
	}
}

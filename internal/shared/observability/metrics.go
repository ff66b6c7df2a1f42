package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	GraphNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cyclewatch_graph_nodes_total",
		Help: "Total number of nodes in the dependents graph.",
	})

	GraphEdges = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cyclewatch_graph_edges_total",
		Help: "Total number of edges in the dependencies graph.",
	})

	AnalyzerDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cyclewatch_analyzer_seconds",
		Help:    "Time spent waiting on the external dependency analyzer.",
		Buckets: prometheus.DefBuckets,
	}, []string{"direction", "scope"})

	AnalyzerFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cyclewatch_analyzer_failures_total",
		Help: "Total number of analyzer invocations that could not produce a graph.",
	})

	AnalysisDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cyclewatch_analysis_seconds",
		Help:    "Time spent on high-level analysis tasks.",
		Buckets: prometheus.DefBuckets,
	}, []string{"task"})

	CyclesFound = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "cyclewatch_cycles",
		Help: "Number of distinct cycles reported by the last run of a task.",
	}, []string{"task"})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cyclewatch_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	WatcherEventsRelevantTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cyclewatch_watcher_events_relevant_total",
		Help: "Total number of file system events that passed the change filter.",
	})

	WatcherErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cyclewatch_watcher_errors_total",
		Help: "Total number of errors reported by the watch mechanism.",
	})

	AffectedFiles = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "cyclewatch_affected_files",
		Help:    "Number of files transitively affected by a change batch.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	})

	RerunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cyclewatch_reruns_total",
		Help: "Total number of rerun command invocations by outcome.",
	}, []string{"outcome"})

	RerunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "cyclewatch_rerun_seconds",
		Help:    "Wall time of rerun command invocations.",
		Buckets: prometheus.DefBuckets,
	})
)

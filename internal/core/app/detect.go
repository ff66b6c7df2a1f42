package app

import (
	"context"
	"time"

	"cyclewatch/internal/data/history"
	"cyclewatch/internal/data/report"
	"cyclewatch/internal/engine/analyzer"
	"cyclewatch/internal/engine/graph"
	"cyclewatch/internal/shared/observability"

	"go.opentelemetry.io/otel/attribute"
)

type DetectResult struct {
	Cycles   []graph.Cycle
	Summary  report.Summary
	TopEdges []graph.EdgeCount
	Run      *history.Run
}

// DetectCycles enumerates every simple cycle of the dependents graph, prints
// them with a summary, and writes the results file when configured.
func (a *App) DetectCycles(ctx context.Context) (DetectResult, error) {
	ctx, span := observability.Tracer.Start(ctx, "app.DetectCycles")
	defer span.End()

	var res DetectResult
	g, err := a.Analyzer.FetchGraph(ctx, analyzer.Dependents, nil)
	if err != nil {
		span.RecordError(err)
		return res, err
	}

	start := time.Now()
	res.Cycles = graph.EnumerateCycles(g)
	observability.AnalysisDuration.WithLabelValues("detect").Observe(time.Since(start).Seconds())
	observability.CyclesFound.WithLabelValues("detect").Set(float64(len(res.Cycles)))
	span.SetAttributes(
		attribute.Int("graph.nodes", len(g)),
		attribute.Int("cycles", len(res.Cycles)),
	)

	res.Summary = report.Summarize(res.Cycles)
	res.TopEdges = graph.TopEdges(res.Cycles, a.Config.Report.TopEdges)

	a.Out.Cycles(res.Cycles)
	a.Out.Blank()
	a.Out.Summary("Summary:", res.Summary)
	a.Out.TopEdges(res.TopEdges)

	if path := a.Config.Report.ResultsFile; path != "" {
		if err := report.WriteFile(path, res.Cycles); err != nil {
			span.RecordError(err)
			return res, err
		}
	}

	if err := a.writeDiagram(res.Cycles); err != nil {
		span.RecordError(err)
		return res, err
	}

	res.Run = a.record(history.ModeDetect, res.Cycles)
	return res, nil
}

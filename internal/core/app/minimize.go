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

type MinimizeResult struct {
	Before   report.Summary
	After    report.Summary
	Cycles   []graph.Cycle
	TopEdges []graph.EdgeCount
	Run      *history.Run
}

// MinimizeReport reads a cycle report, minimizes every cycle against the
// current graph and prints the pre and post summaries with the unique
// minimized cycles.
func (a *App) MinimizeReport(ctx context.Context, reportPath string) (MinimizeResult, error) {
	ctx, span := observability.Tracer.Start(ctx, "app.MinimizeReport")
	defer span.End()
	span.SetAttributes(attribute.String("report.path", reportPath))

	var res MinimizeResult
	cycles, err := report.ReadFile(reportPath)
	if err != nil {
		span.RecordError(err)
		return res, err
	}
	res.Before = report.Summarize(cycles)
	a.Out.Summary("Pre-minimization", res.Before)

	g, err := a.Analyzer.FetchGraph(ctx, analyzer.Dependents, nil)
	if err != nil {
		span.RecordError(err)
		return res, err
	}

	start := time.Now()
	res.Cycles = graph.MinimizeAll(g, cycles)
	observability.AnalysisDuration.WithLabelValues("minimize").Observe(time.Since(start).Seconds())
	observability.CyclesFound.WithLabelValues("minimize").Set(float64(len(res.Cycles)))

	res.After = report.Summarize(res.Cycles)
	res.TopEdges = graph.TopEdges(res.Cycles, a.Config.Report.TopEdges)

	a.Out.Blank()
	a.Out.Summary("Post-minimization", res.After)
	a.Out.Cycles(res.Cycles)
	a.Out.TopEdges(res.TopEdges)

	if err := a.writeDiagram(res.Cycles); err != nil {
		span.RecordError(err)
		return res, err
	}

	res.Run = a.record(history.ModeMinimize, res.Cycles)
	return res, nil
}

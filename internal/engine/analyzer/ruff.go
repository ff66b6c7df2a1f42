// # internal/engine/analyzer/ruff.go
package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os/exec"
	"time"
	"unicode/utf8"

	domainerrors "cyclewatch/internal/core/errors"
	"cyclewatch/internal/engine/graph"
	"cyclewatch/internal/shared/observability"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Ruff runs an external graph tool (by default `ruff analyze graph`) and
// decodes the JSON object it prints on stdout.
type Ruff struct {
	Command       []string
	DirectionFlag string
	Dir           string
}

func NewRuff(command []string, directionFlag, dir string) *Ruff {
	return &Ruff{
		Command:       append([]string(nil), command...),
		DirectionFlag: directionFlag,
		Dir:           dir,
	}
}

// Args returns the argument list passed to the executable for a request.
func (r *Ruff) Args(dir Direction, paths []string) []string {
	args := append([]string(nil), r.Command[1:]...)
	if dir == Dependents {
		args = append(args, r.DirectionFlag, "dependents")
	}
	return append(args, paths...)
}

func (r *Ruff) FetchGraph(ctx context.Context, dir Direction, paths []string) (graph.Graph, error) {
	if len(r.Command) == 0 {
		return nil, domainerrors.New(domainerrors.CodeValidationError, "analyzer command is empty")
	}

	scope := "full"
	if len(paths) > 0 {
		scope = "scoped"
	}
	ctx, span := observability.Tracer.Start(ctx, "analyzer.FetchGraph", trace.WithAttributes(
		attribute.String("direction", dir.String()),
		attribute.Int("paths", len(paths)),
	))
	defer span.End()

	start := time.Now()
	defer func() {
		observability.AnalyzerDuration.WithLabelValues(dir.String(), scope).Observe(time.Since(start).Seconds())
	}()

	cmd := exec.CommandContext(ctx, r.Command[0], r.Args(dir, paths)...)
	cmd.Dir = r.Dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			observability.AnalyzerFailuresTotal.Inc()
			span.RecordError(err)
			span.SetStatus(codes.Error, "spawn failed")
			return nil, domainerrors.AddContext(
				domainerrors.Wrap(err, domainerrors.CodeAnalyzerFailed, "run analyzer"),
				domainerrors.CtxCommand, r.Command[0],
			)
		}
		// Exit status is not interpreted; whatever reached stdout is decoded.
		slog.Debug("analyzer exited non-zero", "code", exitErr.ExitCode(), "stderr", stderr.String())
	}

	g, err := DecodeGraph(out)
	if err != nil {
		observability.AnalyzerFailuresTotal.Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "decode failed")
		return nil, domainerrors.AddContext(err, domainerrors.CtxDirection, dir.String())
	}

	span.SetAttributes(attribute.Int("nodes", len(g)))
	slog.Debug("analyzer graph fetched", "direction", dir.String(), "nodes", len(g), "scope", scope)
	return g, nil
}

// DecodeGraph parses analyzer output: a JSON object mapping each path to an
// array of related paths. Null arrays are empty sets.
func DecodeGraph(data []byte) (graph.Graph, error) {
	if !utf8.Valid(data) {
		return nil, domainerrors.New(domainerrors.CodeAnalyzerFailed, "analyzer output is not valid UTF-8")
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, domainerrors.New(domainerrors.CodeAnalyzerFailed, "analyzer output is not a JSON object")
	}

	var raw map[string][]string
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeAnalyzerFailed, "decode analyzer output")
	}

	return graph.FromAdjacency(raw), nil
}

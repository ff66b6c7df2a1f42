package live

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	domainerrors "cyclewatch/internal/core/errors"
	"cyclewatch/internal/shared/observability"
)

// Runner re-executes the user's command against the affected files.
type Runner interface {
	Run(ctx context.Context, affected []string) error
}

// CommandRunner runs Command with the affected files appended as trailing
// arguments. The exit status of the command is not an error.
type CommandRunner struct {
	Command []string
	Dir     string
	Stdout  io.Writer
	Stderr  io.Writer
}

func NewCommandRunner(command []string) *CommandRunner {
	return &CommandRunner{Command: command, Stdout: os.Stdout, Stderr: os.Stderr}
}

func (r *CommandRunner) Run(ctx context.Context, affected []string) error {
	if len(r.Command) == 0 {
		return domainerrors.New(domainerrors.CodeValidationError, "rerun command must not be empty")
	}

	_, span := observability.Tracer.Start(ctx, "live.Rerun")
	defer span.End()

	args := make([]string, 0, len(r.Command)-1+len(affected))
	args = append(args, r.Command[1:]...)
	args = append(args, affected...)

	// Not bound to ctx: a launched rerun always runs to completion.
	cmd := exec.Command(r.Command[0], args...)
	cmd.Dir = r.Dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	start := time.Now()
	err := cmd.Run()
	observability.RerunDuration.Observe(time.Since(start).Seconds())

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		observability.RerunsTotal.WithLabelValues("ok").Inc()
		return nil
	case errors.As(err, &exitErr):
		observability.RerunsTotal.WithLabelValues("exit_error").Inc()
		slog.Debug("rerun command exited", "code", exitErr.ExitCode())
		return nil
	default:
		observability.RerunsTotal.WithLabelValues("spawn_error").Inc()
		span.RecordError(err)
		return domainerrors.AddContext(
			domainerrors.Wrap(err, domainerrors.CodeRerunFailed, "failed to execute rerun command"),
			domainerrors.CtxCommand, strings.Join(r.Command, " "),
		)
	}
}

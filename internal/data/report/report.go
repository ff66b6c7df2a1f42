// # internal/data/report/report.go
package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	domainerrors "cyclewatch/internal/core/errors"
	"cyclewatch/internal/engine/graph"
)

// Parse reads cycles in the "a -> b -> c" line format. Lines without the
// separator are skipped.
func Parse(r io.Reader) ([]graph.Cycle, error) {
	var cycles []graph.Cycle
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.Contains(line, graph.Separator) {
			continue
		}
		cycles = append(cycles, graph.Cycle(strings.Split(line, graph.Separator)))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return cycles, nil
}

func ReadFile(path string) ([]graph.Cycle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, domainerrors.AddContext(
			domainerrors.Wrap(err, domainerrors.CodeReportReadFailed, "open cycle report"),
			domainerrors.CtxPath, path,
		)
	}
	defer f.Close()

	cycles, err := Parse(f)
	if err != nil {
		return nil, domainerrors.AddContext(
			domainerrors.Wrap(err, domainerrors.CodeReportReadFailed, "read cycle report"),
			domainerrors.CtxPath, path,
		)
	}
	return cycles, nil
}

// Write renders one cycle per line.
func Write(w io.Writer, cycles []graph.Cycle) error {
	for _, c := range cycles {
		if _, err := fmt.Fprintln(w, c.String()); err != nil {
			return err
		}
	}
	return nil
}

func WriteFile(path string, cycles []graph.Cycle) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create cycle report %q: %w", path, err)
	}
	if err := Write(f, cycles); err != nil {
		_ = f.Close()
		return fmt.Errorf("write cycle report %q: %w", path, err)
	}
	return f.Close()
}

// # internal/ui/report/formats/formats.go
package formats

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cyclewatch/internal/engine/graph"
)

type Format string

const (
	FormatDOT     Format = "dot"
	FormatMermaid Format = "mermaid"
	FormatTSV     Format = "tsv"
)

// FormatForPath picks the diagram format from the file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".dot", ".gv":
		return FormatDOT, nil
	case ".mmd", ".mermaid":
		return FormatMermaid, nil
	case ".tsv":
		return FormatTSV, nil
	default:
		return "", fmt.Errorf("unsupported diagram file extension %q (use .dot, .gv, .mmd, .mermaid or .tsv)", filepath.Ext(path))
	}
}

func Generate(format Format, cycles []graph.Cycle, topEdges int) (string, error) {
	switch format {
	case FormatDOT:
		return NewDOTGenerator(cycles, topEdges).Generate()
	case FormatMermaid:
		return NewMermaidGenerator(cycles, topEdges).Generate()
	case FormatTSV:
		return NewTSVGenerator(cycles).Generate()
	default:
		return "", fmt.Errorf("unknown diagram format %q", format)
	}
}

// WriteFile renders cycles in the format implied by path and writes it there.
func WriteFile(path string, cycles []graph.Cycle, topEdges int) error {
	format, err := FormatForPath(path)
	if err != nil {
		return err
	}
	out, err := Generate(format, cycles, topEdges)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create diagram directory %q: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return fmt.Errorf("write diagram %q: %w", path, err)
	}
	return nil
}

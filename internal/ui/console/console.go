// # internal/ui/console/console.go
package console

import (
	"fmt"
	"io"
	"strings"

	"cyclewatch/internal/data/history"
	"cyclewatch/internal/data/report"
	"cyclewatch/internal/engine/graph"

	"github.com/charmbracelet/lipgloss"
)

// Printer writes user-facing output. Styling is dropped automatically when
// the destination is not a terminal.
type Printer struct {
	w io.Writer

	notice   lipgloss.Style
	emphasis lipgloss.Style
	heading  lipgloss.Style
	muted    lipgloss.Style
}

func New(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w: w,
		notice: r.NewStyle().
			Foreground(lipgloss.Color("#FBBF24")).
			Bold(true),
		emphasis: r.NewStyle().Italic(true),
		heading: r.NewStyle().
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true),
		muted: r.NewStyle().
			Foreground(lipgloss.Color("#64748B")),
	}
}

func (p *Printer) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.w, format, args...)
}

// Notice prints a highlighted status line.
func (p *Printer) Notice(msg string) {
	p.printf("%s\n", p.notice.Render(msg))
}

func (p *Printer) Cycles(cycles []graph.Cycle) {
	for _, c := range cycles {
		p.printf("%s\n", c.String())
	}
}

func (p *Printer) Summary(title string, s report.Summary) {
	p.printf("%s\n", p.heading.Render(title))
	p.printf("# cycles          : %d\n", s.Cycles)
	p.printf("total cycle length: %d\n", s.TotalLength)
	p.printf("longest cycle     : %d\n", s.Longest)
}

// TopEdges lists the most frequent cycle edges; nothing is printed for an
// empty list.
func (p *Printer) TopEdges(edges []graph.EdgeCount) {
	if len(edges) == 0 {
		return
	}
	p.printf("Most frequently-appearing imports in cycles:\n")
	for _, e := range edges {
		p.printf("%d %s%s%s\n", e.Count, e.From, graph.Separator, e.To)
	}
	p.printf("Removing these imports %s help resolve several cyclic dependencies\n", p.emphasis.Render("might"))
}

// Trend prints the change against the previous run of the same mode.
func (p *Printer) Trend(t *history.Trend) {
	if t == nil {
		return
	}
	p.printf("%s\n", p.muted.Render(fmt.Sprintf(
		"since %s: cycles %s, total length %s, longest %s",
		t.Previous.Timestamp.Format("2006-01-02 15:04:05"),
		signed(t.DeltaCycles),
		signed(t.DeltaLength),
		signed(t.DeltaLongest),
	)))
	for _, line := range t.Added {
		p.printf("  %s %s\n", p.notice.Render("+"), line)
	}
	for _, line := range t.Resolved {
		p.printf("  %s %s\n", p.muted.Render("-"), line)
	}
}

func signed(n int) string {
	if n > 0 {
		return fmt.Sprintf("+%d", n)
	}
	return fmt.Sprintf("%d", n)
}

func (p *Printer) Blank() {
	p.printf("\n")
}

// The methods below report live-mode progress.

func (p *Printer) Constructing() {
	p.Notice("Constructing initial graph ...")
}

func (p *Printer) Listening() {
	p.Notice("Listening! Ctrl-C to quit.")
}

func (p *Printer) Changed(paths []string) {
	p.printf("Changed paths: %s\n", strings.Join(paths, ", "))
}

func (p *Printer) NothingToDo() {
	p.Notice("Nothing to do!")
}

func (p *Printer) Affected(paths []string) {
	p.printf("Transitively affected files: %s\n\n", strings.Join(paths, ", "))
}

func (p *Printer) RunningCommand() {
	p.Notice("RUNNING COMMAND!")
	p.Blank()
}

func (p *Printer) CompletedRun() {
	p.Blank()
	p.Notice("COMPLETED RUN!")
	p.Blank()
}

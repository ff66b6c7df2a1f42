// # internal/core/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cyclewatch.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[analyzer]
command = ["ruff", "analyze", "graph"]
repo_root = "./repo"
modules = true

[watch]
roots = ["src/pkg", "tests"]
extensions = ["py", ".PYI"]
config_files = ["pyproject.toml"]
exclude_dirs = [".git"]

[rerun]
command = ["pytest", "-x"]

[report]
results_file = "cycles.txt"
top_edges = 10

[history]
enabled = true
path = "state/history.db"

[observability]
metrics_addr = " :9464 "
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !reflect.DeepEqual(cfg.Analyzer.Command, []string{"ruff", "analyze", "graph"}) {
		t.Errorf("unexpected analyzer command: %v", cfg.Analyzer.Command)
	}
	if cfg.Analyzer.DirectionFlag != "--direction" {
		t.Errorf("expected default direction flag, got %q", cfg.Analyzer.DirectionFlag)
	}
	if !cfg.Analyzer.Modules {
		t.Error("expected modules=true")
	}
	if !reflect.DeepEqual(cfg.Watch.Roots, []string{"src/pkg", "tests"}) {
		t.Errorf("unexpected roots: %v", cfg.Watch.Roots)
	}
	if !reflect.DeepEqual(cfg.Watch.Extensions, []string{".py", ".pyi"}) {
		t.Errorf("expected normalized extensions, got %v", cfg.Watch.Extensions)
	}
	if !reflect.DeepEqual(cfg.Rerun.Command, []string{"pytest", "-x"}) {
		t.Errorf("unexpected rerun command: %v", cfg.Rerun.Command)
	}
	if cfg.Report.TopEdges != 10 || cfg.Report.ResultsFile != "cycles.txt" {
		t.Errorf("unexpected report section: %+v", cfg.Report)
	}
	if !cfg.History.Enabled || cfg.History.Path != "state/history.db" {
		t.Errorf("unexpected history section: %+v", cfg.History)
	}
	if cfg.Observability.MetricsAddr != ":9464" {
		t.Errorf("expected trimmed metrics addr, got %q", cfg.Observability.MetricsAddr)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != 1 {
		t.Errorf("expected version 1, got %d", cfg.Version)
	}
	if !reflect.DeepEqual(cfg.Analyzer.Command, []string{"ruff", "analyze", "graph", "--preview"}) {
		t.Errorf("unexpected default command: %v", cfg.Analyzer.Command)
	}
	if !reflect.DeepEqual(cfg.Watch.Roots, []string{""}) {
		t.Errorf("expected a single match-all root, got %v", cfg.Watch.Roots)
	}
	if !reflect.DeepEqual(cfg.Watch.ConfigFiles, []string{"ruff.toml", ".ruff.toml", "pyproject.toml"}) {
		t.Errorf("unexpected config files: %v", cfg.Watch.ConfigFiles)
	}
	if cfg.Report.TopEdges != 5 {
		t.Errorf("expected top_edges 5, got %d", cfg.Report.TopEdges)
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "unsupported version",
			content: "version = 3\n",
			want:    "unsupported config version",
		},
		{
			name:    "empty executable",
			content: "[analyzer]\ncommand = [\"\"]\n",
			want:    "analyzer.command",
		},
		{
			name:    "bad exclude glob",
			content: "[watch]\nexclude_dirs = [\"[\"]\n",
			want:    "watch.exclude_dirs[0]",
		},
		{
			name:    "config file with separator",
			content: "[watch]\nconfig_files = [\"conf/ruff.toml\"]\n",
			want:    "watch.config_files[0]",
		},
		{
			name:    "too many top edges",
			content: "[report]\ntop_edges = 5000\n",
			want:    "report.top_edges",
		},
		{
			name:    "negative top edges",
			content: "[report]\ntop_edges = -1\n",
			want:    "report.top_edges",
		},
		{
			name:    "unknown diagram extension",
			content: "[report]\ndiagram_file = \"cycles.png\"\n",
			want:    "report.diagram_file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatalf("expected error containing %q", tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadOrDefault(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	tmp := t.TempDir()
	if err := os.Chdir(tmp); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	cfg, err := LoadOrDefault(DefaultFile)
	if err != nil {
		t.Fatalf("expected fallback to defaults, got %v", err)
	}
	if cfg.Report.TopEdges != 5 {
		t.Errorf("expected default config, got %+v", cfg.Report)
	}

	if _, err := LoadOrDefault("missing.toml"); err == nil {
		t.Fatal("expected error for explicitly named missing file")
	}
}

func TestSplitRoots(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{raw: "", want: []string{""}},
		{raw: "src", want: []string{"src"}},
		{raw: "src/a, src/b", want: []string{"src/a", "src/b"}},
	}
	for _, tt := range tests {
		if got := SplitRoots(tt.raw); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitRoots(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("CYCLEWATCH_REPORT_TOP_EDGES", "7")
	t.Setenv("CYCLEWATCH_HISTORY_ENABLED", "TRUE")
	t.Setenv("CYCLEWATCH_OBSERVABILITY_METRICS_ADDR", ":2112")

	cfg := DefaultConfig()
	ApplyEnvOverrides(cfg)

	if cfg.Report.TopEdges != 7 {
		t.Errorf("expected top edges 7, got %d", cfg.Report.TopEdges)
	}
	if !cfg.History.Enabled {
		t.Error("expected history enabled")
	}
	if cfg.Observability.MetricsAddr != ":2112" {
		t.Errorf("expected metrics addr override, got %q", cfg.Observability.MetricsAddr)
	}
}

func TestApplyEnvOverrides_ZeroFallsBackToDefault(t *testing.T) {
	t.Setenv("CYCLEWATCH_REPORT_TOP_EDGES", "0")
	t.Setenv("CYCLEWATCH_HISTORY_PATH", "")

	cfg := DefaultConfig()
	cfg.Report.TopEdges = 9
	ApplyEnvOverrides(cfg)

	if cfg.Report.TopEdges != 5 {
		t.Errorf("expected top edges to fall back to 5, got %d", cfg.Report.TopEdges)
	}
	if cfg.History.Path != ".cyclewatch/history.db" {
		t.Errorf("expected default history path, got %q", cfg.History.Path)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

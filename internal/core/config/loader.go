// # internal/core/config/loader.go
package config

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

const DefaultFile = "cyclewatch.toml"

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	normalize(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadOrDefault loads path, falling back to DefaultConfig when path is the
// default file name and that file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if err == nil {
		return cfg, nil
	}
	if os.IsNotExist(err) && path == DefaultFile {
		return DefaultConfig(), nil
	}
	return nil, err
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}

	if len(cfg.Analyzer.Command) == 0 {
		cfg.Analyzer.Command = []string{"ruff", "analyze", "graph", "--preview"}
	}
	if strings.TrimSpace(cfg.Analyzer.DirectionFlag) == "" {
		cfg.Analyzer.DirectionFlag = "--direction"
	}
	if strings.TrimSpace(cfg.Analyzer.RepoRoot) == "" {
		cfg.Analyzer.RepoRoot = "."
	}

	if len(cfg.Watch.Roots) == 0 {
		cfg.Watch.Roots = []string{""}
	}
	if len(cfg.Watch.Extensions) == 0 {
		cfg.Watch.Extensions = []string{".py"}
	}
	if len(cfg.Watch.ConfigFiles) == 0 {
		cfg.Watch.ConfigFiles = []string{"ruff.toml", ".ruff.toml", "pyproject.toml"}
	}
	if cfg.Watch.ExcludeDirs == nil {
		cfg.Watch.ExcludeDirs = []string{".git", "__pycache__", ".venv", "node_modules", ".ruff_cache"}
	}

	if cfg.Report.TopEdges == 0 {
		cfg.Report.TopEdges = 5
	}

	if strings.TrimSpace(cfg.History.Path) == "" {
		cfg.History.Path = ".cyclewatch/history.db"
	}
	if strings.TrimSpace(cfg.History.ProjectKey) == "" {
		cfg.History.ProjectKey = "default"
	}

	if strings.TrimSpace(cfg.Observability.ServiceName) == "" {
		cfg.Observability.ServiceName = "cyclewatch"
	}
}

func normalize(cfg *Config) {
	cfg.Analyzer.DirectionFlag = strings.TrimSpace(cfg.Analyzer.DirectionFlag)
	cfg.Analyzer.RepoRoot = strings.TrimSpace(cfg.Analyzer.RepoRoot)

	exts := make([]string, 0, len(cfg.Watch.Extensions))
	for _, ext := range cfg.Watch.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts = append(exts, ext)
	}
	cfg.Watch.Extensions = exts

	names := make([]string, 0, len(cfg.Watch.ConfigFiles))
	for _, name := range cfg.Watch.ConfigFiles {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	cfg.Watch.ConfigFiles = names

	cfg.Observability.MetricsAddr = strings.TrimSpace(cfg.Observability.MetricsAddr)
	cfg.Observability.OTLPEndpoint = strings.TrimSpace(cfg.Observability.OTLPEndpoint)
}

// SplitRoots parses the comma-separated --paths flag value. An empty value
// yields a single empty prefix, which matches every path.
func SplitRoots(raw string) []string {
	parts := strings.Split(raw, ",")
	roots := make([]string, 0, len(parts))
	for _, p := range parts {
		roots = append(roots, strings.TrimSpace(p))
	}
	return roots
}

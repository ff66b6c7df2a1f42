// # internal/core/config/validator.go
package config

import (
	"fmt"
	"strings"

	"cyclewatch/internal/ui/report/formats"

	"github.com/gobwas/glob"
)

func Validate(cfg *Config) error {
	validators := []func(*Config) error{
		validateVersion,
		validateAnalyzer,
		validateWatch,
		validateReport,
		validateHistory,
	}
	for _, v := range validators {
		if err := v(cfg); err != nil {
			return err
		}
	}
	return nil
}

func validateVersion(cfg *Config) error {
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported config version %d; supported version is 1", cfg.Version)
	}
	return nil
}

func validateAnalyzer(cfg *Config) error {
	if len(cfg.Analyzer.Command) == 0 || strings.TrimSpace(cfg.Analyzer.Command[0]) == "" {
		return fmt.Errorf("analyzer.command must name an executable")
	}
	if cfg.Analyzer.DirectionFlag == "" {
		return fmt.Errorf("analyzer.direction_flag must not be empty")
	}
	return nil
}

func validateWatch(cfg *Config) error {
	for i, ext := range cfg.Watch.Extensions {
		if strings.ContainsAny(ext, "/\\") {
			return fmt.Errorf("watch.extensions[%d] must not contain path separators: %q", i, ext)
		}
	}
	for i, name := range cfg.Watch.ConfigFiles {
		if strings.ContainsAny(name, "/\\") {
			return fmt.Errorf("watch.config_files[%d] must be a bare file name: %q", i, name)
		}
	}
	for i, pattern := range cfg.Watch.ExcludeDirs {
		if _, err := glob.Compile(pattern); err != nil {
			return fmt.Errorf("watch.exclude_dirs[%d] invalid pattern %q: %w", i, pattern, err)
		}
	}
	return nil
}

func validateReport(cfg *Config) error {
	if cfg.Report.TopEdges < 0 || cfg.Report.TopEdges > 1000 {
		return fmt.Errorf("report.top_edges must be between 0 and 1000, got %d", cfg.Report.TopEdges)
	}
	if cfg.Report.DiagramFile != "" {
		if _, err := formats.FormatForPath(cfg.Report.DiagramFile); err != nil {
			return fmt.Errorf("report.diagram_file: %w", err)
		}
	}
	return nil
}

func validateHistory(cfg *Config) error {
	if cfg.History.Enabled && strings.TrimSpace(cfg.History.Path) == "" {
		return fmt.Errorf("history.path must not be empty when history.enabled=true")
	}
	return nil
}

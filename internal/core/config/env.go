package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Pattern: CYCLEWATCH_[SECTION]_[KEY] (e.g., CYCLEWATCH_OBSERVABILITY_METRICS_ADDR).
func ApplyEnvOverrides(cfg *Config) {
	setEnvString(&cfg.Analyzer.RepoRoot, "CYCLEWATCH_ANALYZER_REPO_ROOT")
	setEnvBool(&cfg.Analyzer.Modules, "CYCLEWATCH_ANALYZER_MODULES")

	setEnvString(&cfg.Report.ResultsFile, "CYCLEWATCH_REPORT_RESULTS_FILE")
	setEnvString(&cfg.Report.DiagramFile, "CYCLEWATCH_REPORT_DIAGRAM_FILE")
	setEnvInt(&cfg.Report.TopEdges, "CYCLEWATCH_REPORT_TOP_EDGES")

	setEnvBool(&cfg.History.Enabled, "CYCLEWATCH_HISTORY_ENABLED")
	setEnvString(&cfg.History.Path, "CYCLEWATCH_HISTORY_PATH")

	setEnvString(&cfg.Observability.MetricsAddr, "CYCLEWATCH_OBSERVABILITY_METRICS_ADDR")
	setEnvString(&cfg.Observability.OTLPEndpoint, "CYCLEWATCH_OBSERVABILITY_OTLP_ENDPOINT")

	// An override that clears a value means "use the default", same as the file.
	applyDefaults(cfg)
}

func setEnvString(target *string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		*target = val
	}
}

func setEnvInt(target *int, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = i
		}
	}
}

func setEnvBool(target *bool, key string) {
	if val, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(strings.ToLower(val))
		if err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = b
		}
	}
}

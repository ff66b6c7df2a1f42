// # internal/core/config/config.go
package config

type Config struct {
	Version       int           `toml:"version"`
	Analyzer      Analyzer      `toml:"analyzer"`
	Watch         Watch         `toml:"watch"`
	Rerun         Rerun         `toml:"rerun"`
	Report        Report        `toml:"report"`
	History       History       `toml:"history"`
	Observability Observability `toml:"observability"`
}

type Analyzer struct {
	Command       []string `toml:"command"`
	DirectionFlag string   `toml:"direction_flag"`
	RepoRoot      string   `toml:"repo_root"`
	Modules       bool     `toml:"modules"` // normalize file paths to dotted module names
}

type Watch struct {
	Roots       []string `toml:"roots"` // path prefixes; "" matches everything
	Extensions  []string `toml:"extensions"`
	ConfigFiles []string `toml:"config_files"`
	ExcludeDirs []string `toml:"exclude_dirs"`
}

type Rerun struct {
	Command []string `toml:"command"`
}

type Report struct {
	ResultsFile string `toml:"results_file"`
	DiagramFile string `toml:"diagram_file"` // .dot, .mmd or .tsv
	TopEdges    int    `toml:"top_edges"`
}

type History struct {
	Enabled    bool   `toml:"enabled"`
	Path       string `toml:"path"`
	ProjectKey string `toml:"project_key"`
}

type Observability struct {
	MetricsAddr  string `toml:"metrics_addr"`
	OTLPEndpoint string `toml:"otlp_endpoint"`
	ServiceName  string `toml:"service_name"`
}

// DefaultConfig returns a config with every default applied and nothing loaded from disk.
func DefaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

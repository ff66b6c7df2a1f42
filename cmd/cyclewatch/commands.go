package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"cyclewatch/internal/core/app"
	"cyclewatch/internal/core/config"
	domainerrors "cyclewatch/internal/core/errors"
	"cyclewatch/internal/core/live"
	"cyclewatch/internal/shared/observability"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	verbose    bool
	repoRoot   string
	modules    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:     "cyclewatch",
		Short:   "Find, minimize and watch import cycles in a Python repository",
		Version: VERSION,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(opts.verbose)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", config.DefaultFile, "Path to config file")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&opts.repoRoot, "repo-root", "", "Directory the analyzer runs in")
	rootCmd.PersistentFlags().BoolVar(&opts.modules, "modules", false, "Report dotted module names instead of file paths")

	rootCmd.AddCommand(
		newDetectCmd(opts),
		newMinimizeCmd(opts),
		newLiveCmd(opts),
	)
	return rootCmd
}

func newDetectCmd(opts *rootOptions) *cobra.Command {
	var resultsFile, diagramFile string
	cmd := &cobra.Command{
		Use:   "detect-cycles",
		Short: "Print every import cycle of the repository",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("results-file") {
				cfg.Report.ResultsFile = resultsFile
			}
			if err := applyDiagramFlag(cmd, diagramFile, cfg); err != nil {
				return err
			}
			return withApp(cmd.Context(), cfg, cmd.OutOrStdout(), func(ctx context.Context, a *app.App) error {
				_, err := a.DetectCycles(ctx)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&resultsFile, "results-file", "", "Also write the cycles to this file")
	cmd.Flags().StringVar(&diagramFile, "diagram-file", "", "Write the cycle graph as .dot, .mmd or .tsv")
	return cmd
}

func newMinimizeCmd(opts *rootOptions) *cobra.Command {
	var reportPath, diagramFile string
	cmd := &cobra.Command{
		Use:   "minimize-cycles",
		Short: "Shrink the cycles of a saved report against the current graph",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			if err := applyDiagramFlag(cmd, diagramFile, cfg); err != nil {
				return err
			}
			return withApp(cmd.Context(), cfg, cmd.OutOrStdout(), func(ctx context.Context, a *app.App) error {
				_, err := a.MinimizeReport(ctx, reportPath)
				return err
			})
		},
	}
	cmd.Flags().StringVarP(&reportPath, "cycle-results-file", "c", "", "Cycle report produced by detect-cycles")
	cmd.Flags().StringVar(&diagramFile, "diagram-file", "", "Write the minimized cycle graph as .dot, .mmd or .tsv")
	_ = cmd.MarkFlagRequired("cycle-results-file")
	return cmd
}

func newLiveCmd(opts *rootOptions) *cobra.Command {
	var paths string
	cmd := &cobra.Command{
		Use:   "live [flags] -- <command> [args...]",
		Short: "Watch the repository and rerun a command for the files affected by each change",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("paths") {
				cfg.Watch.Roots = config.SplitRoots(paths)
			}
			command, err := rerunCommand(args, cfg.Rerun.Command)
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), cfg, cmd.OutOrStdout(), func(ctx context.Context, a *app.App) error {
				runner := live.NewCommandRunner(command)
				runner.Dir = cfg.Analyzer.RepoRoot
				return a.Live(ctx, runner)
			})
		},
	}
	// Everything after the first positional argument belongs to the rerun command.
	cmd.Flags().SetInterspersed(false)
	cmd.Flags().StringVarP(&paths, "paths", "p", "", "Comma-separated path prefixes whose affected files are passed to the command")
	return cmd
}

// loadConfig reads the config file, then applies environment and flag
// overrides, and validates the result.
func loadConfig(cmd *cobra.Command, opts *rootOptions) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(opts.configPath)
	if err != nil {
		return nil, domainerrors.AddContext(
			domainerrors.Wrap(err, domainerrors.CodeValidationError, "failed to load config"),
			domainerrors.CtxPath, opts.configPath,
		)
	}
	config.ApplyEnvOverrides(cfg)
	applyRootFlags(cmd, opts, cfg)
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyRootFlags(cmd *cobra.Command, opts *rootOptions, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("repo-root") {
		cfg.Analyzer.RepoRoot = opts.repoRoot
	}
	if flags.Changed("modules") {
		cfg.Analyzer.Modules = opts.modules
	}
}

func applyDiagramFlag(cmd *cobra.Command, path string, cfg *config.Config) error {
	if !cmd.Flags().Changed("diagram-file") {
		return nil
	}
	cfg.Report.DiagramFile = path
	return config.Validate(cfg)
}

// rerunCommand prefers the command given on the command line over the
// configured one.
func rerunCommand(args, configured []string) ([]string, error) {
	command := args
	if len(command) == 0 {
		command = configured
	}
	if len(command) == 0 || strings.TrimSpace(command[0]) == "" {
		return nil, domainerrors.New(domainerrors.CodeValidationError, "live requires a command to rerun")
	}
	return command, nil
}

func withApp(ctx context.Context, cfg *config.Config, out io.Writer, fn func(context.Context, *app.App) error) error {
	shutdown, err := observability.SetupTracing(ctx, cfg.Observability.ServiceName, cfg.Observability.OTLPEndpoint)
	if err != nil {
		slog.Warn("tracing disabled", "error", err)
	} else {
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				slog.Warn("failed to flush traces", "error", err)
			}
		}()
	}

	a, err := app.New(cfg, out)
	if err != nil {
		return fmt.Errorf("initialize app: %w", err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			slog.Warn("failed to close history store", "error", err)
		}
	}()

	return fn(ctx, a)
}

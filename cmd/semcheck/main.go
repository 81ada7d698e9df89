// Package main provides the semcheck binary entry point.
// Semcheck canonicalizes a JSON-LD schema corpus and scores it against six
// compliance categories.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	errs "github.com/c360studio/semstreams/pkg/errs"
	"github.com/spf13/cobra"

	"github.com/c360studio/semcheck/config"
	"github.com/c360studio/semcheck/export"
	"github.com/c360studio/semcheck/rules"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "semcheck"
)

// errVerdictFailed signals a completed run whose verdict is FAIL. The report
// has already been printed.
var errVerdictFailed = errors.New("verdict failed")

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	os.Exit(exitCode(rootCmd().Execute()))
}

// exitCode maps a command error to the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errVerdictFailed):
		return 1
	case errs.IsFatal(err):
		fmt.Fprintf(os.Stderr, "Fatal: %v\n", err)
		return 2
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	logLevel   string
	noRewrite  bool
	outputDir  string
	format     string
	metrics    string
}

func rootCmd() *cobra.Command {
	var g globalFlags

	cmd := &cobra.Command{
		Use:   appName,
		Short: "JSON-LD schema canonicalizer and compliance checker",
		Long: `Semcheck keeps a JSON-LD schema corpus in canonical form and scores it.

It provides:
- Canonical rewrite (sorted keys, ordered @graph entries)
- Six weighted compliance categories with a PASS/FAIL verdict
- Identifier alignment between the schema corpus and project trees
- RDF export and a watch mode that revalidates on change`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&g.configPath, "config", "c", "", "Config file path (YAML)")
	pf.StringVar(&g.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	pf.BoolVar(&g.noRewrite, "no-rewrite", false, "Skip the canonical rewrite phase")
	pf.StringVarP(&g.outputDir, "output", "o", "", "Directory for report artifacts")
	pf.StringVar(&g.format, "report-format", "", "Console report format (text, json, markdown)")
	pf.StringVar(&g.metrics, "metrics-file", "", "Write a Prometheus textfile to this path")

	cmd.AddCommand(validateCmd(&g))
	cmd.AddCommand(checkCmd(&g))
	cmd.AddCommand(syncCmd(&g))
	cmd.AddCommand(watchCmd(&g))
	cmd.AddCommand(exportCmd(&g))

	// Version command
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}

func validateCmd(g *globalFlags) *cobra.Command {
	var projects []string
	cmd := &cobra.Command{
		Use:   "validate [root]",
		Short: "Rewrite the corpus and run every enabled category",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := setup(cmd, g, args, projects)
			if err != nil {
				return err
			}
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()
			return app.Validate(ctx)
		},
	}
	cmd.Flags().StringSliceVarP(&projects, "project", "p", nil, "Project root compared against the schema (repeatable)")
	return cmd
}

func checkCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:       "check <category> [root]",
		Short:     "Run a single category in isolation",
		Args:      cobra.RangeArgs(1, 2),
		ValidArgs: categoryNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := rules.ParseCategory(args[0])
			if err != nil {
				return err
			}
			app, err := setup(cmd, g, args[1:], nil)
			if err != nil {
				return err
			}
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()
			return app.Check(ctx, category)
		},
	}
}

func syncCmd(g *globalFlags) *cobra.Command {
	var projects []string
	cmd := &cobra.Command{
		Use:   "sync [root]",
		Short: "Rewrite the corpus and report identifier alignment",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := setup(cmd, g, args, projects)
			if err != nil {
				return err
			}
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()
			return app.Sync(ctx)
		},
	}
	cmd.Flags().StringSliceVarP(&projects, "project", "p", nil, "Project root compared against the schema (repeatable)")
	return cmd
}

func watchCmd(g *globalFlags) *cobra.Command {
	var rewrite bool
	cmd := &cobra.Command{
		Use:   "watch [root]",
		Short: "Revalidate the corpus whenever a document changes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := setup(cmd, g, args, nil)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("rewrite") {
				app.cfg.Watch.Rewrite = rewrite
			}
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()
			return app.Watch(ctx)
		},
	}
	cmd.Flags().BoolVar(&rewrite, "rewrite", false, "Canonicalize documents before each rerun")
	return cmd
}

func exportCmd(g *globalFlags) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export [root]",
		Short: "Print the corpus as RDF",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, ok := export.GetFormatInfo(export.Format(format)); !ok {
				return fmt.Errorf("unsupported format %q (want turtle or ntriples)", format)
			}
			app, err := setup(cmd, g, args, nil)
			if err != nil {
				return err
			}
			return app.Export(cmd.Context(), export.Format(format))
		},
	}
	cmd.Flags().StringVar(&format, "format", string(export.FormatNTriples), "RDF format (turtle, ntriples)")
	return cmd
}

// setup configures logging, loads the layered configuration and applies the
// command line on top of it.
func setup(cmd *cobra.Command, g *globalFlags, args, projects []string) (*App, error) {
	logger := newLogger(g.logLevel)

	cfg, err := config.NewLoader(logger).Load(g.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if len(args) > 0 {
		cfg.Schema.Root = args[0]
	}
	if cfg.Schema.Root == "" {
		cfg.Schema.Root = "."
	}
	if g.noRewrite {
		cfg.Schema.NoRewrite = true
	}
	if g.outputDir != "" {
		cfg.Output.Dir = g.outputDir
	}
	if g.format != "" {
		cfg.Output.Format = g.format
	}
	if g.metrics != "" {
		cfg.Output.Metrics = g.metrics
	}
	if len(projects) > 0 {
		cfg.Project.Roots = projects
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return NewApp(cfg, logger, cmd.OutOrStdout())
}

func newLogger(level string) *slog.Logger {
	lvl := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	return logger
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

func categoryNames() []string {
	var names []string
	for _, p := range rules.DefaultProfiles() {
		names = append(names, string(p.Category))
	}
	return names
}

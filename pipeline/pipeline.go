// Package pipeline runs a comprehensive validation: the canonical rewrite of
// the schema corpus, then every enabled category over the rewritten files.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	errs "github.com/c360studio/semstreams/pkg/errs"
	"golang.org/x/sync/errgroup"

	"github.com/c360studio/semcheck/alignment"
	"github.com/c360studio/semcheck/canonical"
	"github.com/c360studio/semcheck/corpus"
	"github.com/c360studio/semcheck/export"
	"github.com/c360studio/semcheck/metrics"
	"github.com/c360studio/semcheck/report"
	"github.com/c360studio/semcheck/rules"
)

const component = "pipeline"

// Options configures a Runner.
type Options struct {
	SchemaRoot   string
	ProjectRoots []string

	// Corpus configures schema loading. Project holds the options used for
	// project roots during the alignment phase.
	Corpus  corpus.Options
	Project corpus.Options

	// Profiles lists the categories to run. Empty means rules.DefaultProfiles.
	Profiles rules.Profiles

	// Rewrite enables the canonical rewrite before evaluation.
	Rewrite bool

	// OutputDir receives the report artifacts. Empty writes nothing.
	OutputDir string
	// MetricsFile receives a Prometheus textfile. Empty writes nothing.
	MetricsFile string

	Prober  rules.Prober
	Metrics *metrics.Recorder
	Logger  *slog.Logger
}

// Runner executes validation runs. A Runner may be reused across runs.
type Runner struct {
	opts   Options
	logger *slog.Logger
}

// NewRunner creates a runner, filling defaults.
func NewRunner(opts Options) *Runner {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if len(opts.Profiles) == 0 {
		opts.Profiles = rules.DefaultProfiles()
	}
	if opts.Prober == nil {
		opts.Prober = export.Probe{}
	}
	if opts.Corpus.Logger == nil {
		opts.Corpus.Logger = opts.Logger
	}
	if len(opts.Project.Extensions) == 0 {
		opts.Project.Extensions = []string{".jsonld", ".json"}
	}
	if opts.Project.Logger == nil {
		opts.Project.Logger = opts.Logger
	}
	return &Runner{opts: opts, logger: opts.Logger}
}

// Run performs a comprehensive run. The rewrite phase completes before any
// evaluator reads the corpus; evaluators then run concurrently over one
// immutable load, and results keep profile order.
func (r *Runner) Run(ctx context.Context) (*report.Report, error) {
	start := time.Now()

	stats, err := r.rewrite(ctx)
	if err != nil {
		return nil, err
	}

	c, err := r.load(ctx, "Run")
	if err != nil {
		return nil, err
	}

	results, err := r.evaluate(ctx, c, r.opts.Profiles)
	if err != nil {
		return nil, err
	}

	rep := report.Aggregate(results, r.opts.Profiles.Weights())
	rep.Recommendations = report.Recommend(results, r.opts.Profiles)
	rep.SchemaRoot = r.opts.SchemaRoot
	rep.Corpus = c.Stats()

	if len(r.opts.ProjectRoots) > 0 {
		summary, err := r.align(ctx, c, stats)
		if err != nil {
			return nil, err
		}
		rep.Sync = summary
	}

	rep.Finish(start)

	r.logger.Info("Validation complete",
		"run_id", rep.RunID,
		"overall", rep.OverallScore,
		"tier", rep.Tier,
		"passed", rep.Passed,
		"duration", rep.Duration)

	if err := r.publish(rep); err != nil {
		return rep, err
	}
	return rep, nil
}

// RunCategory evaluates a single category without rewriting. The report's
// score and verdict are the category's own.
func (r *Runner) RunCategory(ctx context.Context, category rules.Category) (*report.Report, error) {
	start := time.Now()

	profile, err := r.opts.Profiles.Lookup(category)
	if err != nil {
		return nil, errs.WrapInvalid(err, component, "RunCategory", "lookup category")
	}

	c, err := r.load(ctx, "RunCategory")
	if err != nil {
		return nil, err
	}

	profiles := rules.Profiles{profile}
	results, err := r.evaluate(ctx, c, profiles)
	if err != nil {
		return nil, err
	}

	rep := report.AggregateCategory(results[0], profile.Weight)
	rep.Recommendations = report.Recommend(results, profiles)
	rep.SchemaRoot = r.opts.SchemaRoot
	rep.Corpus = c.Stats()
	rep.Finish(start)

	if err := r.publish(rep); err != nil {
		return rep, err
	}
	return rep, nil
}

// Sync rewrites the schema corpus (when enabled) and measures identifier
// alignment against the project roots. The summary is written to OutputDir,
// or to the schema root when no output directory is configured.
func (r *Runner) Sync(ctx context.Context) (*alignment.Summary, error) {
	stats, err := r.rewrite(ctx)
	if err != nil {
		return nil, err
	}

	c, err := r.load(ctx, "Sync")
	if err != nil {
		return nil, err
	}

	summary, err := r.align(ctx, c, stats)
	if err != nil {
		return nil, err
	}

	dir := r.opts.OutputDir
	if dir == "" {
		dir = r.opts.SchemaRoot
	}
	if err := summary.Write(dir); err != nil {
		return summary, errs.WrapTransient(err, component, "Sync", "write sync report")
	}

	r.logger.Info("Sync complete",
		"schema_ids", summary.IDs.SchemaCount,
		"project_ids", summary.IDs.ProjectCount,
		"global", alignment.FormatPercent(summary.Alignment.GlobalAlignmentPercent),
		"systemic", alignment.FormatPercent(summary.Alignment.SystemicAlignmentPercent))
	return summary, nil
}

// rewrite canonicalizes the schema corpus in place. Per-file failures are
// counted, not fatal.
func (r *Runner) rewrite(ctx context.Context) (canonical.RewriteStats, error) {
	if !r.opts.Rewrite {
		return canonical.RewriteStats{}, nil
	}
	c, err := r.load(ctx, "rewrite")
	if err != nil {
		return canonical.RewriteStats{}, err
	}
	stats := canonical.RewriteAll(c.Paths(), r.logger)
	r.logger.Info("Canonical rewrite complete",
		"processed", stats.Processed,
		"changed", stats.Changed,
		"errors", stats.Errors)
	return stats, nil
}

func (r *Runner) load(ctx context.Context, method string) (*corpus.Corpus, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c, err := corpus.Load(r.opts.SchemaRoot, r.opts.Corpus)
	if err != nil {
		return nil, fmt.Errorf("%s: schema root: %w", method, err)
	}
	return c, nil
}

func (r *Runner) evaluate(ctx context.Context, c *corpus.Corpus, profiles rules.Profiles) ([]rules.Result, error) {
	results := make([]rules.Result, len(profiles))

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range profiles {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			ev := rules.NewEvaluator(p,
				rules.WithProber(r.opts.Prober),
				rules.WithLogger(r.logger.With("category", p.Category)))
			results[i] = ev.Evaluate(c)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// align collects identifiers from the schema corpus and every project root.
func (r *Runner) align(ctx context.Context, schema *corpus.Corpus, stats canonical.RewriteStats) (*alignment.Summary, error) {
	schemaIDs := alignment.CollectCorpus(schema)

	projectIDs := alignment.NewSet()
	for _, root := range r.opts.ProjectRoots {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pc, err := corpus.Load(root, r.opts.Project)
		if err != nil {
			return nil, fmt.Errorf("project root: %w", err)
		}
		projectIDs.Merge(alignment.CollectCorpus(pc))
	}

	summary := alignment.NewSummary(r.opts.SchemaRoot, r.opts.ProjectRoots, schemaIDs, projectIDs)
	summary.FilesProcessed = stats.Processed
	summary.FilesSorted = stats.Sorted
	summary.FilesErrors = stats.Errors
	if !r.opts.Rewrite {
		// Nothing was rewritten; count what was read.
		summary.FilesProcessed = len(schema.Files)
		summary.FilesErrors = len(schema.Files) - len(schema.Parsed())
	}
	return summary, nil
}

// publish records metrics and writes the configured artifacts.
func (r *Runner) publish(rep *report.Report) error {
	r.opts.Metrics.Observe(rep)

	if r.opts.OutputDir != "" {
		if err := rep.Write(r.opts.OutputDir); err != nil {
			return errs.WrapTransient(err, component, "Run", "write report")
		}
		if rep.Sync != nil {
			if err := rep.Sync.Write(r.opts.OutputDir); err != nil {
				return errs.WrapTransient(err, component, "Run", "write sync report")
			}
		}
	}
	if r.opts.MetricsFile != "" {
		if err := r.opts.Metrics.WriteTextfile(r.opts.MetricsFile); err != nil {
			return errs.WrapTransient(err, component, "Run", "write metrics textfile")
		}
	}
	return nil
}

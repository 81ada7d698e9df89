package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/c360studio/semstreams/metric"

	"github.com/c360studio/semcheck/alignment"
	"github.com/c360studio/semcheck/config"
	"github.com/c360studio/semcheck/corpus"
	"github.com/c360studio/semcheck/document"
	"github.com/c360studio/semcheck/export"
	"github.com/c360studio/semcheck/metrics"
	"github.com/c360studio/semcheck/pipeline"
	"github.com/c360studio/semcheck/report"
	"github.com/c360studio/semcheck/rules"
	"github.com/c360studio/semcheck/watch"
)

// App wires the loaded configuration to the pipeline and prints results.
type App struct {
	cfg      *config.Config
	logger   *slog.Logger
	out      io.Writer
	recorder *metrics.Recorder
}

// NewApp creates a new application instance.
func NewApp(cfg *config.Config, logger *slog.Logger, out io.Writer) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if out == nil {
		out = os.Stdout
	}
	app := &App{cfg: cfg, logger: logger, out: out}

	if cfg.Output.Metrics != "" {
		recorder, err := metrics.New(metric.NewMetricsRegistry())
		if err != nil {
			return nil, fmt.Errorf("create metrics recorder: %w", err)
		}
		app.recorder = recorder
	}
	return app, nil
}

func (a *App) runner(rewrite bool, profiles rules.Profiles) *pipeline.Runner {
	corpusOpts := a.cfg.CorpusOptions()
	corpusOpts.Logger = a.logger
	projectOpts := a.cfg.ProjectOptions()
	projectOpts.Logger = a.logger

	return pipeline.NewRunner(pipeline.Options{
		SchemaRoot:   a.cfg.Schema.Root,
		ProjectRoots: a.cfg.Project.Roots,
		Corpus:       corpusOpts,
		Project:      projectOpts,
		Profiles:     profiles,
		Rewrite:      rewrite,
		OutputDir:    a.cfg.Output.Dir,
		MetricsFile:  a.cfg.Output.Metrics,
		Metrics:      a.recorder,
		Logger:       a.logger,
	})
}

// Validate runs the comprehensive pass and prints the report.
func (a *App) Validate(ctx context.Context) error {
	rep, err := a.runner(!a.cfg.Schema.NoRewrite, a.cfg.Profiles()).Run(ctx)
	if err != nil {
		return err
	}
	return a.verdict(rep)
}

// Check runs one category in isolation. Category overrides from the
// configuration apply, even when the category is disabled for full runs.
func (a *App) Check(ctx context.Context, category rules.Category) error {
	profile, err := a.cfg.Profile(category)
	if err != nil {
		return err
	}
	rep, err := a.runner(false, rules.Profiles{profile}).RunCategory(ctx, category)
	if err != nil {
		return err
	}
	return a.verdict(rep)
}

// Sync rewrites the corpus and prints the alignment summary.
func (a *App) Sync(ctx context.Context) error {
	summary, err := a.runner(!a.cfg.Schema.NoRewrite, a.cfg.Profiles()).Sync(ctx)
	if err != nil {
		return err
	}
	return a.printSummary(summary)
}

// Watch validates once, then again after every batch of document changes.
// The watcher is reprimed after each pass so the pass's own rewrites do not
// trigger another run.
func (a *App) Watch(ctx context.Context) error {
	w, err := watch.New(a.cfg.Schema.Root, watch.Config{
		Debounce:   a.cfg.Watch.Debounce,
		Extensions: a.cfg.Schema.Extensions,
		Exclude:    a.cfg.Schema.Exclude,
	}, a.logger)
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Start(ctx); err != nil {
		_ = w.Stop()
		return fmt.Errorf("start watcher: %w", err)
	}
	defer w.Stop()

	rewrite := a.cfg.Watch.Rewrite && !a.cfg.Schema.NoRewrite
	runner := a.runner(rewrite, a.cfg.Profiles())

	pass := func() error {
		rep, err := runner.Run(ctx)
		if err != nil {
			return err
		}
		if err := a.printReport(rep); err != nil {
			return err
		}
		if rewrite {
			return w.Prime()
		}
		return nil
	}

	if err := pass(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("Watch stopped")
			return nil
		case event, ok := <-w.Events():
			if !ok {
				return nil
			}
			a.logger.Info("Document changed", "path", event.Path, "op", event.Operation)
			drain(w.Events(), a.cfg.Watch.Debounce)
			if err := pass(); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				a.logger.Error("Validation failed", "error", err)
			}
		}
	}
}

// drain discards events that arrive within window of each other, so a burst
// of changes causes a single rerun.
func drain(events <-chan watch.Event, window time.Duration) {
	if window <= 0 {
		window = watch.DefaultDebounce
	}
	timer := time.NewTimer(window)
	defer timer.Stop()
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
			timer.Reset(window)
		case <-timer.C:
			return
		}
	}
}

// Export prints every parsed document as RDF. Documents that cannot be
// converted are logged and skipped.
func (a *App) Export(ctx context.Context, format export.Format) error {
	opts := a.cfg.CorpusOptions()
	opts.Logger = a.logger
	c, err := corpus.Load(a.cfg.Schema.Root, opts)
	if err != nil {
		return err
	}

	for _, f := range c.Parsed() {
		if err := ctx.Err(); err != nil {
			return err
		}
		triples, err := export.ToTriples(f.Doc)
		if err != nil {
			a.logger.Warn("Skipping document", "path", f.Rel, "error", err)
			continue
		}
		if _, err := fmt.Fprintf(a.out, "# %s\n", f.Rel); err != nil {
			return err
		}
		if err := export.Write(a.out, format, triples, prefixes(f.Doc)); err != nil {
			return fmt.Errorf("export %s: %w", f.Rel, err)
		}
	}
	return nil
}

func prefixes(doc *document.Document) map[string]string {
	raw, ok := doc.Context()
	if !ok {
		return nil
	}
	ctx, err := export.ParseContext(raw)
	if err != nil {
		return nil
	}
	return ctx.Prefixes()
}

// verdict prints the report and converts a failing verdict to errVerdictFailed.
func (a *App) verdict(rep *report.Report) error {
	if err := a.printReport(rep); err != nil {
		return err
	}
	if !rep.Passed {
		return errVerdictFailed
	}
	return nil
}

func (a *App) printReport(rep *report.Report) error {
	switch a.cfg.Output.Format {
	case config.FormatJSON:
		data, err := rep.JSON()
		if err != nil {
			return err
		}
		if _, err := a.out.Write(data); err != nil {
			return err
		}
		// Keep stdout parseable; the verdict goes to stderr.
		fmt.Fprintln(os.Stderr, rep.VerdictLine())
		return nil
	case config.FormatMarkdown:
		_, err := io.WriteString(a.out, rep.Markdown())
		return err
	default:
		return rep.WriteText(a.out)
	}
}

func (a *App) printSummary(s *alignment.Summary) error {
	switch a.cfg.Output.Format {
	case config.FormatJSON:
		data, err := s.JSON()
		if err != nil {
			return err
		}
		_, err = a.out.Write(data)
		return err
	default:
		_, err := io.WriteString(a.out, s.Markdown())
		return err
	}
}

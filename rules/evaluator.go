// Package rules evaluates a corpus against data-driven rule categories.
//
// A single Evaluator implements every category; the differences between
// structural, architecture, flow, integration, semantic and performance
// checks live entirely in the Profile it is built from. Evaluators hold no
// mutable state and may run concurrently over the same corpus.
package rules

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/c360studio/semcheck/corpus"
	"github.com/c360studio/semcheck/document"
)

// Prober runs the semantic conversion probes for one document.
type Prober interface {
	Expand(doc *document.Document) error
	ToTriples(doc *document.Document) error
}

// Evaluator evaluates one category.
type Evaluator struct {
	profile Profile
	prober  Prober
	logger  *slog.Logger
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithProber supplies the semantic probe implementation.
func WithProber(p Prober) Option {
	return func(e *Evaluator) { e.prober = p }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Evaluator) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEvaluator creates an evaluator for profile.
func NewEvaluator(profile Profile, opts ...Option) *Evaluator {
	e := &Evaluator{profile: profile, logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Profile returns the evaluator's profile.
func (e *Evaluator) Profile() Profile {
	return e.profile
}

// Evaluate runs every check the profile enables and returns the result.
func (e *Evaluator) Evaluate(c *corpus.Corpus) Result {
	p := e.profile
	f := &findings{}

	switch {
	case len(p.Layers) > 0:
		e.checkLayers(c, f)
	case p.Target != "":
		e.checkTarget(c, f)
	case len(p.RequiredFields) > 0 || len(p.MetaFields) > 0 || p.ContextChecks || p.WarnDuplicateIDs:
		e.checkStructure(c, f)
	}

	e.checkEntryRules(c, f)
	e.checkFiles(c, f)
	e.checkCoverage(c, f)
	e.checkSemantic(c, f)
	e.checkSize(c, f)

	r := Result{
		Category:  p.Category,
		Title:     p.Title,
		Threshold: p.Threshold,
		Errors:    f.errors,
		Warnings:  f.warnings,
	}
	e.logger.Debug("Category evaluated",
		"category", p.Category,
		"errors", len(r.Errors),
		"warnings", len(r.Warnings),
		"score", r.Score())
	return r
}

// findings accumulates the messages of one evaluation.
type findings struct {
	errors   []string
	warnings []string
}

func (f *findings) errorf(format string, args ...any) {
	f.errors = append(f.errors, fmt.Sprintf(format, args...))
}

func (f *findings) warnf(format string, args ...any) {
	f.warnings = append(f.warnings, fmt.Sprintf(format, args...))
}

// parseMessage strips the path prefix document.Parse adds.
func parseMessage(err error) string {
	if inner := errors.Unwrap(err); inner != nil {
		return inner.Error()
	}
	return err.Error()
}

// requireFields reports each missing top-level field as an error.
func requireFields(name string, doc *document.Document, fields []string, f *findings) {
	for _, field := range fields {
		if doc.Has(field) {
			continue
		}
		if field == document.FieldMeta {
			f.errorf("%s: Missing meta section", name)
		} else {
			f.errorf("%s: Missing %s", name, field)
		}
	}
}

// formatNumber prints a percentage the way it reads naturally: 80, 66.5.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

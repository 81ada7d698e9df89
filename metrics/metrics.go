// Package metrics exports validation results as Prometheus gauges.
package metrics

import (
	"fmt"

	"github.com/c360studio/semstreams/metric"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/c360studio/semcheck/report"
)

const (
	namespace = "semcheck"
	subsystem = "validation"
)

// Recorder holds the gauges describing the most recent run.
type Recorder struct {
	registry *metric.MetricsRegistry

	// Per-category gauges
	categoryScore    *prometheus.GaugeVec // By category
	categoryErrors   *prometheus.GaugeVec // By category
	categoryWarnings *prometheus.GaugeVec // By category
	categoryPassed   *prometheus.GaugeVec // By category, 1 or 0

	// Run gauges
	overallScore prometheus.Gauge
	passed       prometheus.Gauge
	files        prometheus.Gauge
	duration     prometheus.Gauge
	alignment    *prometheus.GaugeVec // By kind: global, systemic
}

// New creates a recorder and registers its gauges with registry.
func New(registry *metric.MetricsRegistry) (*Recorder, error) {
	if registry == nil {
		return nil, nil // Metrics disabled
	}

	gaugeVec := func(name, help string, labels ...string) *prometheus.GaugeVec {
		return prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      name,
			Help:      help,
		}, labels)
	}
	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      name,
			Help:      help,
		})
	}

	r := &Recorder{
		registry:         registry,
		categoryScore:    gaugeVec("category_score", "Category score from 0 to 100", "category"),
		categoryErrors:   gaugeVec("category_errors", "Errors reported by a category", "category"),
		categoryWarnings: gaugeVec("category_warnings", "Warnings reported by a category", "category"),
		categoryPassed:   gaugeVec("category_passed", "Whether a category met its own threshold", "category"),
		overallScore:     gauge("overall_score", "Weighted overall score from 0 to 100"),
		passed:           gauge("passed", "Whether the run reached the passing overall score"),
		files:            gauge("files", "Documents in the schema corpus"),
		duration:         gauge("duration_seconds", "Duration of the last run in seconds"),
		alignment:        gaugeVec("alignment_percent", "Identifier alignment between schema and project", "kind"),
	}

	vecs := map[string]*prometheus.GaugeVec{
		"category_score":    r.categoryScore,
		"category_errors":   r.categoryErrors,
		"category_warnings": r.categoryWarnings,
		"category_passed":   r.categoryPassed,
		"alignment_percent": r.alignment,
	}
	for name, v := range vecs {
		if err := registry.RegisterGaugeVec(subsystem, name, v); err != nil {
			return nil, err
		}
	}
	gauges := map[string]prometheus.Gauge{
		"overall_score":    r.overallScore,
		"passed":           r.passed,
		"files":            r.files,
		"duration_seconds": r.duration,
	}
	for name, g := range gauges {
		if err := registry.RegisterGauge(subsystem, name, g); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Observe sets every gauge from rep.
func (r *Recorder) Observe(rep *report.Report) {
	if r == nil || rep == nil {
		return
	}

	for _, res := range rep.Results {
		category := string(res.Category)
		r.categoryScore.WithLabelValues(category).Set(float64(res.Score()))
		r.categoryErrors.WithLabelValues(category).Set(float64(len(res.Errors)))
		r.categoryWarnings.WithLabelValues(category).Set(float64(len(res.Warnings)))
		r.categoryPassed.WithLabelValues(category).Set(boolValue(res.Passed()))
	}

	r.overallScore.Set(float64(rep.OverallScore))
	r.passed.Set(boolValue(rep.Passed))
	r.files.Set(float64(rep.Corpus.Files))
	r.duration.Set(rep.Duration.Seconds())

	if rep.Sync != nil {
		r.alignment.WithLabelValues("global").Set(rep.Sync.Alignment.GlobalAlignmentPercent)
		r.alignment.WithLabelValues("systemic").Set(rep.Sync.Alignment.SystemicAlignmentPercent)
	}
}

// WriteTextfile writes every metric of the registry to path in the text
// exposition format, for the node exporter's textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry.PrometheusRegistry()); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

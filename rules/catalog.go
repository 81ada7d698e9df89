package rules

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/c360studio/semcheck/corpus"
	"github.com/c360studio/semcheck/document"
)

// checkTarget validates the designated file: its presence, required fields,
// pattern catalog, agent entries and KPI targets.
func (e *Evaluator) checkTarget(c *corpus.Corpus, f *findings) {
	p := e.profile
	file, ok := c.Lookup(p.Target)
	if !ok {
		f.errorf("Missing %s schema file", p.Target)
		return
	}
	if !file.OK() {
		f.errorf("%s: JSON parsing error - %s", p.Target, parseMessage(file.Err))
		return
	}
	doc := file.Doc

	requireFields(p.Target, doc, p.RequiredFields, f)

	if _, isSeq := doc.Graph(); isSeq {
		entries := doc.Entries()
		for _, pattern := range p.Patterns {
			if !anyIdentifierContains(entries, pattern) {
				f.warnf("%s: Missing %s definition", p.Target, pattern)
			}
		}
		if p.AgentType != "" && !anyTypeContains(entries, p.AgentType) {
			f.warnf("%s: Missing orchestration agent definitions", p.Target)
		}
	}

	if p.KPIs != nil {
		checkKPIs(p.Label, doc, p.KPIs, f)
	}
}

func anyIdentifierContains(entries []map[string]any, sub string) bool {
	for _, entry := range entries {
		if id, ok := document.IdentifierOf(entry); ok && strings.Contains(id, sub) {
			return true
		}
	}
	return false
}

func anyTypeContains(entries []map[string]any, sub string) bool {
	for _, entry := range entries {
		if document.HasTypeContaining(entry, sub) {
			return true
		}
	}
	return false
}

// checkKPIs looks for every KPI under the top-level targets object first and
// the governance entry's metric list second.
func checkKPIs(label string, doc *document.Document, spec *KPISpec, f *findings) {
	if len(spec.Names) == 0 {
		return
	}

	if len(spec.Path) > 0 {
		if v, ok := doc.Lookup(spec.Path...); ok {
			if targets, ok := v.(map[string]any); ok {
				for _, kpi := range spec.Names {
					if !document.Truthy(targets[kpi]) {
						f.warnf("Missing %s KPI target: %s", label, kpi)
					}
				}
				return
			}
		}
	}

	if metrics, ok := governanceMetrics(doc, spec); ok {
		for _, kpi := range spec.Names {
			if !metricNamed(metrics, spec.NameField, kpi) {
				f.warnf("Missing %s KPI metric: %s", label, kpi)
			}
		}
		return
	}

	if spec.NotFound != "" {
		f.warnf("%s", spec.NotFound)
	} else {
		f.warnf("%s KPI targets not found", label)
	}
}

func governanceMetrics(doc *document.Document, spec *KPISpec) ([]any, bool) {
	if spec.GovernanceEntry == "" || spec.MetricsField == "" {
		return nil, false
	}
	for _, entry := range doc.Entries() {
		if id, _ := document.IdentifierOf(entry); id != spec.GovernanceEntry {
			continue
		}
		metrics, ok := entry[spec.MetricsField].([]any)
		return metrics, ok
	}
	return nil, false
}

// metricNamed matches a KPI key such as "module-cohesion" against metric
// display names such as "Module Cohesion".
func metricNamed(metrics []any, nameField, kpi string) bool {
	want := strings.ReplaceAll(kpi, "-", " ")
	for _, m := range metrics {
		metric, ok := m.(map[string]any)
		if !ok {
			continue
		}
		name, ok := metric[nameField].(string)
		if ok && strings.Contains(strings.ToLower(name), want) {
			return true
		}
	}
	return false
}

// checkEntryRules applies the per-type property and metric rules to every
// entry of every parsed file.
func (e *Evaluator) checkEntryRules(c *corpus.Corpus, f *findings) {
	if len(e.profile.EntryRules) == 0 {
		return
	}
	for _, file := range c.Parsed() {
		for _, entry := range file.Doc.Entries() {
			for _, rule := range e.profile.EntryRules {
				if document.HasTypeContaining(entry, rule.Type) {
					applyEntryRule(file.Rel, entry, rule, f)
				}
			}
		}
	}
}

func applyEntryRule(name string, entry map[string]any, rule EntryRule, f *findings) {
	for _, prop := range rule.Required {
		if !document.Truthy(entry[prop]) {
			f.warnf("%s: %s missing %s definition", name, rule.Type, prop)
		}
	}
	for _, m := range rule.Metrics {
		v := entry[m.Field]
		if !document.Truthy(v) {
			continue
		}
		n, ok := numeric(v)
		if !ok {
			continue
		}
		if (m.Upper && n > m.Limit) || (!m.Upper && n < m.Limit) {
			f.warnf("%s: %s", name, m.Message)
		}
	}
}

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// numeric reads a number from a JSON number or from the numeric prefix of a
// string such as "95%" or "120ms".
func numeric(v any) (float64, bool) {
	switch t := v.(type) {
	case json.Number:
		n, err := t.Float64()
		return n, err == nil
	case float64:
		return t, true
	case string:
		m := leadingNumber.FindString(strings.TrimSpace(t))
		if m == "" {
			return 0, false
		}
		n, err := strconv.ParseFloat(m, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

package rules

import (
	"strings"

	"github.com/c360studio/semcheck/corpus"
	"github.com/c360studio/semcheck/document"
)

// checkCoverage computes each coverage share over the parsed corpus. A term
// counts once no matter how many files mention it.
func (e *Evaluator) checkCoverage(c *corpus.Corpus, f *findings) {
	if len(e.profile.Coverage) == 0 {
		return
	}
	idx := newTextIndex(c)
	for _, cov := range e.profile.Coverage {
		if len(cov.Terms) == 0 {
			continue
		}
		found := 0
		for _, term := range cov.Terms {
			if idx.has(cov.Match, term) {
				found++
			}
		}
		pct := 100 * float64(found) / float64(len(cov.Terms))
		if pct < cov.Min {
			f.warnf("%s coverage: %.1f%% (target: ≥%s%%)", cov.Name, pct, formatNumber(cov.Min))
		}
	}
}

// textIndex holds the flattened texts the coverage heuristics search.
type textIndex struct {
	entries   []string // lowercase entry serializations
	ids       []string
	documents []string
}

func newTextIndex(c *corpus.Corpus) *textIndex {
	idx := &textIndex{}
	for _, file := range c.Parsed() {
		doc := file.Doc
		idx.documents = append(idx.documents, doc.Text())
		for _, entry := range doc.Entries() {
			idx.entries = append(idx.entries, strings.ToLower(document.Flatten(entry)))
			if id, ok := document.IdentifierOf(entry); ok {
				idx.ids = append(idx.ids, id)
			}
		}
	}
	return idx
}

func (idx *textIndex) has(mode MatchMode, term string) bool {
	switch mode {
	case MatchID:
		return anyContains(idx.ids, term)
	case MatchDocument:
		return anyContains(idx.documents, term)
	default:
		return anyContains(idx.entries, strings.ToLower(strings.Replace(term, "-", "", 1)))
	}
}

func anyContains(texts []string, sub string) bool {
	for _, t := range texts {
		if strings.Contains(t, sub) {
			return true
		}
	}
	return false
}

// checkFiles applies requirement checks to named files that are present
// and parsed.
func (e *Evaluator) checkFiles(c *corpus.Corpus, f *findings) {
	for _, fc := range e.profile.FileChecks {
		for _, name := range fc.Files {
			file, ok := c.Lookup(name)
			if !ok || !file.OK() {
				continue
			}
			if len(fc.When) > 0 {
				if v, ok := file.Doc.Lookup(fc.When...); !ok || !document.Truthy(v) {
					continue
				}
			}
			for _, req := range fc.Requires {
				checkRequirement(name, file.Doc, req, f)
			}
		}
	}
}

// checkRequirement reports req against doc under name when it applies and
// is not met.
func checkRequirement(name string, doc *document.Document, req Requirement, f *findings) {
	applicable, met := evalRequirement(doc, req)
	switch {
	case !applicable || met:
	case req.Error:
		f.errorf("%s: %s", name, req.Message)
	default:
		f.warnf("%s: %s", name, req.Message)
	}
}

// evalRequirement reports whether req applies to doc and whether it is met.
func evalRequirement(doc *document.Document, req Requirement) (applicable, met bool) {
	switch req.Scope {
	case ScopeDocument:
		for _, field := range req.AnyOf {
			if doc.Has(field) {
				return true, true
			}
		}
		return true, false
	case ScopePath:
		v, _ := doc.Lookup(req.Path...)
		obj, ok := v.(map[string]any)
		if !ok {
			return true, false
		}
		for _, field := range req.AnyOf {
			if document.Truthy(obj[field]) {
				return true, true
			}
		}
		return true, false
	case ScopeContext:
		ctx, ok := doc.Context()
		if !ok || !document.Truthy(ctx) {
			return false, false
		}
		text := document.Flatten(ctx)
		return true, containsAny(text, req.AnyOf)
	default:
		if _, isSeq := doc.Graph(); !isSeq {
			return false, false
		}
		for _, entry := range doc.Entries() {
			for _, prop := range req.AnyOf {
				if document.Truthy(entry[prop]) {
					return true, true
				}
			}
		}
		return true, false
	}
}

func containsAny(text string, subs []string) bool {
	for _, s := range subs {
		if s != "" && strings.Contains(text, s) {
			return true
		}
	}
	return false
}

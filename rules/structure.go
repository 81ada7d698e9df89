package rules

import (
	"encoding/json"

	"github.com/c360studio/semcheck/corpus"
	"github.com/c360studio/semcheck/document"
	"github.com/c360studio/semcheck/vocabulary"
)

// checkStructure runs the per-file structural checks over the whole corpus.
func (e *Evaluator) checkStructure(c *corpus.Corpus, f *findings) {
	p := e.profile
	for _, file := range c.Files {
		if !file.OK() {
			f.errorf("%s: JSON parsing error - %s", file.Rel, parseMessage(file.Err))
			continue
		}
		doc := file.Doc

		requireFields(file.Rel, doc, p.RequiredFields, f)

		if meta, ok := doc.Meta(); ok {
			for _, field := range p.MetaFields {
				if !document.Truthy(meta[field]) {
					f.errorf("%s: Missing meta field '%s'", file.Rel, field)
				}
			}
		}

		if p.ContextChecks {
			checkSyntax(file.Rel, doc, f)
		}
		if p.WarnDuplicateIDs {
			checkDuplicates(file.Rel, doc, f)
		}
	}
}

// checkSyntax validates @context, @graph, meta identity and identifier shape.
func checkSyntax(name string, doc *document.Document, f *findings) {
	if ctx, ok := doc.Context(); ok {
		switch t := ctx.(type) {
		case []any:
			if len(t) == 0 {
				f.errorf("%s: Empty @context array", name)
			}
			for _, item := range t {
				if s, ok := item.(string); ok && !vocabulary.IsHTTP(s) {
					f.warnf("%s: Context URL should use HTTP(S) protocol", name)
				}
			}
		case map[string]any:
			if v, ok := t[document.FieldVersion]; ok && document.Truthy(v) && !isVersion11(v) {
				f.warnf("%s: Recommended @version is 1.1", name)
			}
		case string:
			if !vocabulary.IsIRI(t) {
				f.errorf("%s: Invalid @context type", name)
			}
		default:
			f.errorf("%s: Invalid @context type", name)
		}
	}

	if meta, ok := doc.Meta(); ok {
		if !document.Truthy(meta[document.FieldID]) {
			f.errorf("%s: Missing meta @id", name)
		}
		if !document.Truthy(meta[document.FieldType]) {
			f.errorf("%s: Missing meta @type", name)
		}
	}

	if raw, ok := doc.Root[document.FieldGraph]; ok && raw != nil {
		if _, isSeq := raw.([]any); !isSeq {
			f.errorf("%s: @graph must be an array", name)
		}
	}

	if id, ok := doc.Root[document.FieldID].(string); ok && id != "" && !vocabulary.IsIRI(id) {
		f.errorf("%s: Invalid IRI in @id", name)
	}

	for _, entry := range doc.Entries() {
		for _, tag := range document.TypeTags(entry) {
			if !vocabulary.IsIRI(tag) {
				f.warnf("%s: Non-IRI @type may affect SPARQL queries", name)
				break
			}
		}
	}
}

func isVersion11(v any) bool {
	switch t := v.(type) {
	case json.Number:
		n, err := t.Float64()
		return err == nil && n == 1.1
	case float64:
		return t == 1.1
	default:
		return false
	}
}

// checkDuplicates warns once for every identifier that occurs more than once
// among a document's graph entries.
func checkDuplicates(name string, doc *document.Document, f *findings) {
	seen := make(map[string]int)
	var order []string
	for _, entry := range doc.Entries() {
		id, ok := document.IdentifierOf(entry)
		if !ok {
			continue
		}
		if seen[id] == 0 {
			order = append(order, id)
		}
		seen[id]++
	}
	for _, id := range order {
		if seen[id] > 1 {
			f.warnf("%s: Duplicate @id %s (%d occurrences)", name, id, seen[id])
		}
	}
}

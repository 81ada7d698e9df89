package rules

import (
	"github.com/c360studio/semcheck/corpus"
	"github.com/c360studio/semcheck/document"
	"github.com/c360studio/semcheck/vocabulary"
)

// checkSemantic runs the conversion probes, the vocabulary reference check
// and the identifier shape check on every parsed file.
func (e *Evaluator) checkSemantic(c *corpus.Corpus, f *findings) {
	p := e.profile
	if !p.Probes && len(p.Vocabularies) == 0 && !p.CheckIRIs {
		return
	}
	if p.Probes && e.prober == nil {
		e.logger.Warn("Semantic probes enabled without a prober; skipping", "category", p.Category)
	}

	for _, file := range c.Parsed() {
		doc := file.Doc

		if p.Probes && e.prober != nil {
			if err := e.prober.Expand(doc); err != nil {
				f.errorf("%s: JSON-LD expansion failed - %v", file.Rel, err)
			}
			if err := e.prober.ToTriples(doc); err != nil {
				f.errorf("%s: RDF conversion failed - %v", file.Rel, err)
			}
		}

		if len(p.Vocabularies) > 0 {
			text := ""
			if ctx, ok := doc.Context(); ok {
				text = document.Flatten(ctx)
			}
			if !vocabulary.MentionsKnown(text, p.Vocabularies) {
				f.warnf("%s: Missing semantic web vocabulary references", file.Rel)
			}
		}

		if p.CheckIRIs {
			checkIdentifiers(file.Rel, doc, f)
		}
	}
}

func checkIdentifiers(name string, doc *document.Document, f *findings) {
	ids := make([]string, 0, 1)
	if id := doc.ID(); id != "" {
		ids = append(ids, id)
	}
	for _, entry := range doc.Entries() {
		if id, ok := document.IdentifierOf(entry); ok {
			ids = append(ids, id)
		}
	}
	for _, id := range ids {
		if !vocabulary.IsIRI(id) {
			f.warnf("%s: Invalid IRI in @id: %s", name, id)
		}
	}
}

package rules

import (
	"path/filepath"
	"strings"

	"github.com/c360studio/semcheck/corpus"
	"github.com/c360studio/semcheck/document"
)

// checkLayers requires every layer file, validates the ones present and
// checks the links between them. A missing layer yields its own error and
// also lowers layer coverage, which is a second error.
func (e *Evaluator) checkLayers(c *corpus.Corpus, f *findings) {
	p := e.profile
	docs := make(map[string]*document.Document, len(p.Layers))
	found := 0

	for _, layer := range p.Layers {
		file, ok := c.Lookup(layer.File)
		if !ok {
			f.errorf("Missing %s layer schema: %s", layer.Name, layer.File)
			continue
		}
		found++
		if !file.OK() {
			f.errorf("%s: JSON parsing error - %s", layer.Name, parseMessage(file.Err))
			continue
		}
		docs[layer.Name] = file.Doc

		requireFields(layer.Name, file.Doc, p.RequiredFields, f)
		for _, req := range layer.Requires {
			checkRequirement(layer.Name, file.Doc, req, f)
		}
	}

	coverage := 100 * float64(found) / float64(len(p.Layers))
	if coverage < 100 {
		f.errorf("Incomplete %s layer coverage: %s%% (required: 100%%)", p.Label, formatNumber(coverage))
	}

	e.checkLinks(docs, f)
}

// checkLinks warns when a present layer does not mention a layer it must
// integrate with, by name or by file key.
func (e *Evaluator) checkLinks(docs map[string]*document.Document, f *findings) {
	keys := make(map[string]string, len(e.profile.Layers))
	for _, l := range e.profile.Layers {
		keys[l.Name] = strings.TrimSuffix(l.File, filepath.Ext(l.File))
	}

	for _, link := range e.profile.Links {
		doc, ok := docs[link.From]
		if !ok {
			continue
		}
		text := doc.Text()
		for _, to := range link.To {
			if strings.Contains(text, to) {
				continue
			}
			if key := keys[to]; key != "" && strings.Contains(text, key) {
				continue
			}
			f.warnf("%s: Missing integration with %s layer", link.From, to)
		}
	}
}

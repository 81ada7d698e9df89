package export

import "github.com/c360studio/semcheck/document"

// Probe runs the expansion and triple conversion checks against a document.
// It satisfies the semantic rule category's prober dependency.
type Probe struct{}

// Expand reports whether doc can be expanded.
func (Probe) Expand(doc *document.Document) error {
	_, err := Expand(doc)
	return err
}

// ToTriples reports whether doc can be converted to triples.
func (Probe) ToTriples(doc *document.Document) error {
	_, err := ToTriples(doc)
	return err
}

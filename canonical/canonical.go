// Package canonical produces a byte-stable form of a document tree.
//
// Mapping keys are emitted in ascending ordinal order and identifier-bearing
// sequence elements are sorted by identifier, so two documents that differ
// only in ordering encode to identical bytes. Sequences that carry no
// identifier-bearing element keep their original order: the ordering exists to
// make identifier-graph diffs stable, not to impose order on arbitrary arrays.
package canonical

import (
	"bytes"
	"encoding/json"
	"sort"

	"github.com/c360studio/semcheck/document"
)

// Canonicalize returns the canonical form of v. It does not modify v.
func Canonicalize(v any) any {
	switch t := v.(type) {
	case []any:
		return canonicalSequence(t)
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = Canonicalize(val)
		}
		return out
	default:
		return v
	}
}

type keyed struct {
	id   string
	text string
	v    any
}

func canonicalSequence(seq []any) []any {
	var withID []keyed
	var others []any

	for _, item := range seq {
		c := Canonicalize(item)
		if m, ok := c.(map[string]any); ok {
			if id, ok := document.IdentifierOf(m); ok {
				withID = append(withID, keyed{id: id, v: c})
				continue
			}
		}
		others = append(others, c)
	}

	// Equal identifiers fall back to the encoded element so the result does
	// not depend on input order.
	for i := range withID {
		withID[i].text = document.Flatten(withID[i].v)
	}
	sort.SliceStable(withID, func(i, j int) bool {
		if withID[i].id != withID[j].id {
			return withID[i].id < withID[j].id
		}
		return withID[i].text < withID[j].text
	})

	out := make([]any, 0, len(seq))
	for _, k := range withID {
		out = append(out, k.v)
	}
	return append(out, others...)
}

// Encode serializes v with two-space indentation and a trailing newline.
// Mapping keys come out in ascending ordinal order.
func Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Compact serializes v without insignificant whitespace.
func Compact(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

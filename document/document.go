// Package document models one structured graph record: a JSON-LD style tree
// of mappings and sequences with a context block, an identifier, a metadata
// block and a graph of identifier-bearing entries.
package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Distinguished field names.
const (
	FieldContext = "@context"
	FieldID      = "@id"
	FieldType    = "@type"
	FieldGraph   = "@graph"
	FieldVersion = "@version"
	FieldMeta    = "meta"
)

// ErrNotObject is returned when a document's top level is not a mapping.
var ErrNotObject = errors.New("document root is not an object")

// Document is a parsed record.
type Document struct {
	Path string
	Root map[string]any
}

// Decode parses JSON into a generic tree. Numbers are kept as json.Number so
// re-encoding reproduces the original numerals.
func Decode(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after top-level value")
	}
	return v, nil
}

// Parse decodes data into a Document. The top-level value must be an object.
func Parse(path string, data []byte) (*Document, error) {
	v, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	root, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("parse %s: %w", path, ErrNotObject)
	}
	return &Document{Path: path, Root: root}, nil
}

// Has reports whether the top-level field is present with a truthy value.
func (d *Document) Has(field string) bool {
	return Truthy(d.Root[field])
}

// Context returns the raw @context value.
func (d *Document) Context() (any, bool) {
	v, ok := d.Root[FieldContext]
	return v, ok && v != nil
}

// ID returns the document identifier, if any.
func (d *Document) ID() string {
	id, _ := IdentifierOf(d.Root)
	return id
}

// Meta returns the metadata block.
func (d *Document) Meta() (map[string]any, bool) {
	m, ok := d.Root[FieldMeta].(map[string]any)
	return m, ok
}

// Graph returns the raw @graph value and whether it is a sequence.
func (d *Document) Graph() ([]any, bool) {
	g, ok := d.Root[FieldGraph].([]any)
	return g, ok
}

// Entries returns the mapping elements of the @graph sequence.
// Non-mapping elements are skipped.
func (d *Document) Entries() []map[string]any {
	g, _ := d.Graph()
	out := make([]map[string]any, 0, len(g))
	for _, item := range g {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// Lookup walks nested mappings along path and returns the value found.
func (d *Document) Lookup(path ...string) (any, bool) {
	var cur any = d.Root
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Text returns the compact serialization of the whole document.
func (d *Document) Text() string {
	return Flatten(d.Root)
}

// IdentifierOf returns the non-empty string identifier of a mapping.
func IdentifierOf(m map[string]any) (string, bool) {
	id, ok := m[FieldID].(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// TypeTags returns the type tags of an entry. @type may be a single string or
// a set of strings; anything else yields no tags.
func TypeTags(entry map[string]any) []string {
	switch t := entry[FieldType].(type) {
	case string:
		if t == "" {
			return nil
		}
		return []string{t}
	case []any:
		tags := make([]string, 0, len(t))
		for _, v := range t {
			if s, ok := v.(string); ok && s != "" {
				tags = append(tags, s)
			}
		}
		return tags
	default:
		return nil
	}
}

// HasTypeContaining reports whether any of the entry's type tags contains sub.
func HasTypeContaining(entry map[string]any, sub string) bool {
	for _, tag := range TypeTags(entry) {
		if strings.Contains(tag, sub) {
			return true
		}
	}
	return false
}

// Flatten returns the compact JSON text of v. It is the textual form the
// substring heuristics search in.
func Flatten(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Sprint(v)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// Truthy mirrors the presence test used by the rules: nil, false, empty
// strings, zero numbers, and empty sequences or mappings are absent.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case json.Number:
		f, err := t.Float64()
		return err != nil || f != 0
	case float64:
		return t != 0
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}

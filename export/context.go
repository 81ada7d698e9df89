// Package export converts graph documents to RDF triples and serializes them
// as N-Triples or Turtle.
//
// The conversion is a shape-level rendering of JSON-LD: compact IRIs and
// terms are resolved against the document's own @context, remote contexts are
// never fetched, and terms that do not resolve are dropped.
package export

import (
	"fmt"
	"strings"

	"github.com/c360studio/semcheck/document"
	"github.com/c360studio/semcheck/vocabulary"
)

// Context is the resolved term and prefix table of one document.
type Context struct {
	Terms  map[string]string
	Vocab  string
	Base   string
	Remote []string
}

// ParseContext resolves a @context value. Strings are recorded as remote
// contexts, objects contribute term definitions and arrays are merged in order.
func ParseContext(v any) (*Context, error) {
	c := &Context{Terms: make(map[string]string)}
	if err := c.merge(v); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Context) merge(v any) error {
	switch t := v.(type) {
	case nil:
		return fmt.Errorf("@context is null")
	case string:
		if !vocabulary.IsIRI(t) {
			return fmt.Errorf("remote context %q is not an IRI", t)
		}
		c.Remote = append(c.Remote, t)
	case []any:
		if len(t) == 0 {
			return fmt.Errorf("@context array is empty")
		}
		for _, item := range t {
			if err := c.merge(item); err != nil {
				return err
			}
		}
	case map[string]any:
		for key, def := range t {
			if err := c.define(key, def); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("@context has invalid type %T", v)
	}
	return nil
}

func (c *Context) define(key string, def any) error {
	switch key {
	case "@vocab":
		s, ok := def.(string)
		if !ok {
			return fmt.Errorf("@vocab must be a string")
		}
		c.Vocab = s
		return nil
	case "@base":
		s, ok := def.(string)
		if !ok {
			return fmt.Errorf("@base must be a string")
		}
		c.Base = s
		return nil
	case document.FieldVersion, "@language", "@protected", "@propagate", "@direction":
		return nil
	}
	if strings.HasPrefix(key, "@") {
		return fmt.Errorf("invalid keyword %q in @context", key)
	}

	switch d := def.(type) {
	case nil:
		delete(c.Terms, key)
	case string:
		c.Terms[key] = d
	case map[string]any:
		id, ok := d[document.FieldID]
		if !ok {
			return nil
		}
		s, ok := id.(string)
		if !ok {
			return fmt.Errorf("term %q has a non-string @id", key)
		}
		c.Terms[key] = s
	default:
		return fmt.Errorf("term %q has invalid definition %T", key, def)
	}
	return nil
}

// Prefixes returns term definitions that look like namespaces, for use as
// Turtle prefixes.
func (c *Context) Prefixes() map[string]string {
	out := make(map[string]string)
	for k, v := range c.Terms {
		if strings.HasSuffix(v, "/") || strings.HasSuffix(v, "#") {
			out[k] = v
		}
	}
	return out
}

// ExpandIRI resolves a compact IRI, term or absolute IRI. vocab selects term
// resolution through @vocab (properties and types) rather than @base
// (identifiers). ok is false when the value does not resolve to an IRI.
func (c *Context) ExpandIRI(s string, vocab bool) (string, bool) {
	if s == "" {
		return "", false
	}
	if strings.HasPrefix(s, "_:") {
		return s, true
	}
	if vocab {
		if iri, ok := c.Terms[s]; ok {
			return c.ExpandIRI(iri, false)
		}
	}
	if prefix, local, ok := vocabulary.SplitCompact(s); ok {
		if ns, defined := c.Terms[prefix]; defined {
			return ns + local, true
		}
		return s, true
	}
	if strings.Contains(s, ":") {
		return s, true
	}
	if vocab && c.Vocab != "" {
		return c.Vocab + s, true
	}
	if !vocab && c.Base != "" {
		return c.Base + s, true
	}
	return "", false
}
